package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/maintlog/internal/ports/primary"
)

// EquipmentAdapter translates CLI operations to EquipmentService calls.
type EquipmentAdapter struct {
	service primary.EquipmentService
	out     io.Writer
}

// NewEquipmentAdapter creates a new EquipmentAdapter with the given service.
func NewEquipmentAdapter(service primary.EquipmentService, out io.Writer) *EquipmentAdapter {
	return &EquipmentAdapter{
		service: service,
		out:     out,
	}
}

// Register adds a unit.
func (a *EquipmentAdapter) Register(ctx context.Context, req primary.RegisterUnitRequest) error {
	resp, err := a.service.RegisterUnit(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Registered unit %d: %s / %s\n", resp.Unit.Tag, resp.Unit.Site, resp.Unit.Sector)
	fmt.Fprintf(a.out, "  Next maintenance: %s\n", formatDate(resp.Unit.NextMaintenance))
	printSave(a.out, resp.Save)
	return nil
}

// List lists units.
func (a *EquipmentAdapter) List(ctx context.Context, filters primary.UnitFilters) error {
	units, err := a.service.ListUnits(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list units: %w", err)
	}
	a.printUnits(units)
	return nil
}

// Search lists units whose field matches query.
func (a *EquipmentAdapter) Search(ctx context.Context, field, query string) error {
	units, err := a.service.SearchUnits(ctx, field, query)
	if err != nil {
		return fmt.Errorf("failed to search units: %w", err)
	}
	a.printUnits(units)
	return nil
}

// Due lists the units due within days.
func (a *EquipmentAdapter) Due(ctx context.Context, days int) error {
	units, err := a.service.DueUnits(ctx, time.Time{}, days)
	if err != nil {
		return fmt.Errorf("failed to list due units: %w", err)
	}
	if len(units) == 0 {
		fmt.Fprintf(a.out, "No units due in the next %d days\n", days)
		return nil
	}
	a.printUnits(units)
	return nil
}

// Show displays one unit.
func (a *EquipmentAdapter) Show(ctx context.Context, tag int) (*primary.Unit, error) {
	u, err := a.service.GetUnit(ctx, tag)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nUnit: %d\n", u.Tag)
	fmt.Fprintf(a.out, "Site:        %s\n", u.Site)
	fmt.Fprintf(a.out, "Sector:      %s\n", u.Sector)
	fmt.Fprintf(a.out, "Brand:       %s\n", orDash(u.Brand))
	fmt.Fprintf(a.out, "Model:       %s\n", orDash(u.Model))
	fmt.Fprintf(a.out, "Capacity:    %s\n", orDash(u.Capacity))
	fmt.Fprintf(a.out, "Last:        %s\n", formatDate(u.LastMaintenance))
	fmt.Fprintf(a.out, "Next:        %s %s\n", formatDate(u.NextMaintenance), dueMarker(u))
	fmt.Fprintf(a.out, "Technician:  %s\n", orDash(u.Technician))
	fmt.Fprintf(a.out, "Approval:    %s\n", orDash(u.Approval))
	if u.Notes != "" {
		fmt.Fprintf(a.out, "Notes:       %s\n", u.Notes)
	}
	fmt.Fprintln(a.out)

	return u, nil
}

// Update rewrites the descriptive fields of a unit.
func (a *EquipmentAdapter) Update(ctx context.Context, req primary.UpdateUnitRequest) error {
	resp, err := a.service.UpdateUnit(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Unit %d updated\n", resp.Unit.Tag)
	printSave(a.out, resp.Save)
	return nil
}

// Record logs a maintenance visit.
func (a *EquipmentAdapter) Record(ctx context.Context, req primary.RecordMaintenanceRequest) error {
	resp, err := a.service.RecordMaintenance(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Maintenance recorded for unit %d on %s\n", resp.Unit.Tag, formatDate(resp.Unit.LastMaintenance))
	fmt.Fprintf(a.out, "  Next maintenance: %s\n", formatDate(resp.Unit.NextMaintenance))
	printSave(a.out, resp.Save)
	return nil
}

// Delete removes a unit.
func (a *EquipmentAdapter) Delete(ctx context.Context, tag int) error {
	save, err := a.service.DeleteUnit(ctx, tag)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Unit %d deleted\n", tag)
	printSave(a.out, save)
	return nil
}

func (a *EquipmentAdapter) printUnits(units []*primary.Unit) {
	if len(units) == 0 {
		fmt.Fprintln(a.out, "No units found")
		return
	}

	fmt.Fprintf(a.out, "\n%-5s %-20s %-16s %-8s %-11s %-11s %s\n", "TAG", "SITE", "SECTOR", "BTU", "LAST", "NEXT", "DUE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────")
	for _, u := range units {
		fmt.Fprintf(a.out, "%-5d %-20s %-16s %-8s %-11s %-11s %s\n",
			u.Tag,
			truncate(u.Site, 20),
			truncate(u.Sector, 16),
			orDash(u.Capacity),
			formatDate(u.LastMaintenance),
			formatDate(u.NextMaintenance),
			dueMarker(u),
		)
	}
	fmt.Fprintln(a.out)
}

func dueMarker(u *primary.Unit) string {
	switch {
	case u.LastMaintenance.IsZero():
		return color.New(color.FgRed).Sprint("never serviced")
	case u.DaysUntilDue < 0:
		return color.New(color.FgRed).Sprintf("overdue %dd", -u.DaysUntilDue)
	case u.DaysUntilDue <= 30:
		return color.New(color.FgYellow).Sprintf("in %dd", u.DaysUntilDue)
	default:
		return fmt.Sprintf("in %dd", u.DaysUntilDue)
	}
}
