package primary

import (
	"context"
	"time"
)

// EquipmentService defines the primary port for the preventive maintenance log.
type EquipmentService interface {
	// RegisterUnit adds a unit to the log.
	RegisterUnit(ctx context.Context, req RegisterUnitRequest) (*UnitResponse, error)

	// GetUnit retrieves a unit by tag.
	GetUnit(ctx context.Context, tag int) (*Unit, error)

	// ListUnits lists units with optional filters.
	ListUnits(ctx context.Context, filters UnitFilters) ([]*Unit, error)

	// SearchUnits returns units whose field matches query.
	SearchUnits(ctx context.Context, field, query string) ([]*Unit, error)

	// UpdateUnit rewrites the descriptive fields of a unit.
	UpdateUnit(ctx context.Context, req UpdateUnitRequest) (*UnitResponse, error)

	// RecordMaintenance logs a maintenance visit and reschedules the unit.
	RecordMaintenance(ctx context.Context, req RecordMaintenanceRequest) (*UnitResponse, error)

	// DueUnits lists units due within the given number of days of asOf.
	DueUnits(ctx context.Context, asOf time.Time, withinDays int) ([]*Unit, error)

	// DeleteUnit removes a unit.
	DeleteUnit(ctx context.Context, tag int) (*SaveResult, error)
}

// RegisterUnitRequest contains parameters for registering a unit.
type RegisterUnitRequest struct {
	Tag             int // Optional: zero assigns the next free tag
	Site            string
	Sector          string
	Brand           string
	Model           string
	Capacity        string
	LastMaintenance time.Time
	Technician      string
	Approval        string
	Notes           string
}

// UpdateUnitRequest contains parameters for rewriting a unit.
// Nil fields keep their current value.
type UpdateUnitRequest struct {
	Tag      int
	Site     *string
	Sector   *string
	Brand    *string
	Model    *string
	Capacity *string
	Notes    *string
}

// RecordMaintenanceRequest contains parameters for logging a visit.
type RecordMaintenanceRequest struct {
	Tag        int
	Date       time.Time // Optional: zero means today
	Technician string
	Approval   string
	Notes      string // Optional: replaces the unit notes when set
}

// UnitResponse contains the stored unit and the save outcome.
type UnitResponse struct {
	Unit *Unit
	Save *SaveResult
}

// Unit represents an equipment unit at the port boundary.
type Unit struct {
	Tag             int
	Site            string
	Sector          string
	Brand           string
	Model           string
	Capacity        string
	LastMaintenance time.Time
	NextMaintenance time.Time
	DaysUntilDue    int
	Technician      string
	Approval        string
	Notes           string
}

// UnitFilters contains filter options for listing units.
type UnitFilters struct {
	Site   string
	Sector string
}
