package equipment

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/maintlog/internal/core/failure"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Field   string
	Reason  string
}

// Error converts the guard result to a validation error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &failure.ValidationError{Field: r.Field, Reason: r.Reason}
}

// RegisterUnitContext provides context for unit registration guards.
type RegisterUnitContext struct {
	Tag             int
	TagExists       bool
	Site            string
	Sector          string
	LastMaintenance time.Time
	Today           time.Time
}

// RecordMaintenanceContext provides context for maintenance recording guards.
type RecordMaintenanceContext struct {
	Tag        int
	Previous   time.Time
	Date       time.Time
	Technician string
	Today      time.Time
}

// CanRegisterUnit evaluates whether a unit can be added to the log.
// Rules:
// - Tag must be positive and unused
// - Site and sector are required
// - Last maintenance date is required and cannot be in the future
func CanRegisterUnit(ctx RegisterUnitContext) GuardResult {
	if ctx.Tag <= 0 {
		return GuardResult{Field: ColTag, Reason: fmt.Sprintf("tag must be a positive number (got %d)", ctx.Tag)}
	}
	if ctx.TagExists {
		return GuardResult{Field: ColTag, Reason: fmt.Sprintf("tag %d is already registered", ctx.Tag)}
	}
	if strings.TrimSpace(ctx.Site) == "" {
		return GuardResult{Field: ColSite, Reason: "site is required"}
	}
	if strings.TrimSpace(ctx.Sector) == "" {
		return GuardResult{Field: ColSector, Reason: "sector is required"}
	}
	if ctx.LastMaintenance.IsZero() {
		return GuardResult{Field: ColLastMaintenance, Reason: "last maintenance date is required"}
	}
	if inFuture(ctx.LastMaintenance, ctx.Today) {
		return GuardResult{Field: ColLastMaintenance, Reason: fmt.Sprintf("last maintenance %s is in the future", ctx.LastMaintenance.Format(DateLayout))}
	}
	return GuardResult{Allowed: true}
}

// CanRecordMaintenance evaluates whether a maintenance visit can be logged.
// Rules:
// - Technician is required
// - Date cannot be in the future
// - Date cannot precede the previous maintenance
func CanRecordMaintenance(ctx RecordMaintenanceContext) GuardResult {
	if strings.TrimSpace(ctx.Technician) == "" {
		return GuardResult{Field: ColTechnician, Reason: "technician is required"}
	}
	if inFuture(ctx.Date, ctx.Today) {
		return GuardResult{Field: ColLastMaintenance, Reason: fmt.Sprintf("maintenance date %s is in the future", ctx.Date.Format(DateLayout))}
	}
	if !ctx.Previous.IsZero() && ctx.Date.Before(ctx.Previous) {
		return GuardResult{
			Field:  ColLastMaintenance,
			Reason: fmt.Sprintf("unit %d: maintenance date %s precedes the last one (%s)", ctx.Tag, ctx.Date.Format(DateLayout), ctx.Previous.Format(DateLayout)),
		}
	}
	return GuardResult{Allowed: true}
}

func inFuture(d, today time.Time) bool {
	if today.IsZero() {
		return false
	}
	y, m, dd := today.Date()
	endOfToday := time.Date(y, m, dd, 0, 0, 0, 0, today.Location()).AddDate(0, 0, 1)
	return !d.Before(endOfToday)
}
