package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/table"
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

func deny(field, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// CreateOrderContext provides context for order creation guards.
type CreateOrderContext struct {
	Description string
	Requester   string
	Location    string
}

// UpdateOrderContext provides context for order update guards.
type UpdateOrderContext struct {
	OrderID     int
	Status      string // requested status, name or label
	Category    string // requested category, may be empty
	Executor1   string
	Executor2   string
	OpenedAt    time.Time
	CompletedAt time.Time // zero when not supplied
	Roster      []string  // allowed executors, empty means anyone
}

// CanCreateOrder evaluates whether an order can be opened.
// Rules:
// - Description, requester and location are required
func CanCreateOrder(ctx CreateOrderContext) GuardResult {
	if strings.TrimSpace(ctx.Description) == "" {
		return deny(ColDescription, "description is required")
	}
	if strings.TrimSpace(ctx.Requester) == "" {
		return deny(ColRequester, "requester is required")
	}
	if strings.TrimSpace(ctx.Location) == "" {
		return deny(ColLocation, "location is required")
	}
	return GuardResult{Allowed: true}
}

// CanUpdateOrder evaluates whether an order can be rewritten with the
// requested values.
// Rules:
// - Status must be known
// - Category must be empty or known
// - A secondary executor requires a primary executor
// - In-Progress and Done require a primary executor
// - Executors must belong to the roster when one is configured
// - Completion cannot precede opening
func CanUpdateOrder(ctx UpdateOrderContext) GuardResult {
	status, ok := ParseStatus(ctx.Status)
	if !ok {
		return deny(ColStatus, "unknown status %q (valid: %s)", ctx.Status, StatusNames())
	}

	if _, ok := ParseCategory(ctx.Category); !ok {
		return deny(ColCategory, "unknown category %q (valid: %s)", ctx.Category, strings.Join(Categories, ", "))
	}

	exec1 := strings.TrimSpace(ctx.Executor1)
	exec2 := strings.TrimSpace(ctx.Executor2)

	if exec1 == "" && exec2 != "" {
		return deny(ColExecutor1, "order %d: secondary executor %s requires a primary executor", ctx.OrderID, exec2)
	}

	if (status == StatusInProgress || status == StatusDone) && exec1 == "" {
		return deny(ColExecutor1, "order %d: status %s requires a primary executor", ctx.OrderID, status)
	}

	if len(ctx.Roster) > 0 {
		for _, e := range []string{exec1, exec2} {
			if e != "" && !inRoster(ctx.Roster, e) {
				return deny(ColExecutor1, "executor %s is not in the roster (%s)", e, strings.Join(ctx.Roster, ", "))
			}
		}
	}

	if status == StatusDone && !ctx.CompletedAt.IsZero() && !ctx.OpenedAt.IsZero() && ctx.CompletedAt.Before(ctx.OpenedAt) {
		return deny(ColDoneDate, "order %d: completion %s is before opening %s",
			ctx.OrderID, ctx.CompletedAt.Format(DateLayout+" "+TimeLayout), ctx.OpenedAt.Format(DateLayout+" "+TimeLayout))
	}

	return GuardResult{Allowed: true}
}

// Update carries the accepted values of a full-row rewrite.
type Update struct {
	Status      Status
	Category    string
	Executor1   string
	Executor2   string
	CompletedAt time.Time
}

// Apply returns a copy of o rewritten with u. Entering Done stamps the
// completion time (u.CompletedAt, the existing one, or now); leaving Done
// clears it.
func Apply(o *Order, u Update, now time.Time) *Order {
	next := *o
	next.Status = u.Status
	next.Category = u.Category
	next.Executor1 = strings.TrimSpace(u.Executor1)
	next.Executor2 = strings.TrimSpace(u.Executor2)

	switch {
	case u.Status != StatusDone:
		next.CompletedAt = time.Time{}
	case !u.CompletedAt.IsZero():
		next.CompletedAt = u.CompletedAt.Truncate(time.Minute)
	case o.IsDone() && !o.CompletedAt.IsZero():
		// keep the original completion stamp
	default:
		next.CompletedAt = now.Truncate(time.Minute)
	}
	return &next
}

func inRoster(roster []string, name string) bool {
	for _, r := range roster {
		if table.Fold(r) == table.Fold(name) {
			return true
		}
	}
	return false
}

// StatusNames lists the statuses in workflow order, comma separated.
func StatusNames() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
