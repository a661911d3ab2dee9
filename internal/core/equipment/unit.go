// Package equipment contains the HVAC unit entity of the preventive
// maintenance log and its scheduling rules.
package equipment

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/table"
)

// MaintenanceIntervalDays is the fixed preventive maintenance cycle.
const MaintenanceIntervalDays = 180

// DateLayout is the layout written to the dataset file.
const DateLayout = "2006-01-02"

// Column names as written in the dataset file.
const (
	ColTag             = "TAG"
	ColSite            = "Local"
	ColSector          = "Setor"
	ColBrand           = "Marca"
	ColModel           = "Modelo"
	ColCapacity        = "BTU"
	ColLastMaintenance = "Data Manutenção"
	ColNextMaintenance = "Próxima manutenção"
	ColTechnician      = "Técnico Executante"
	ColApproval        = "Aprovação Supervisor"
	ColNotes           = "Observações"
)

// Schema is the canonical equipment table.
var Schema = &table.Schema{
	Name:     "equipment",
	IDColumn: ColTag,
	Columns: []table.Column{
		{Name: ColTag, Match: table.MatchExact},
		{Name: ColSite, Match: table.MatchText},
		{Name: ColSector, Match: table.MatchText},
		{Name: ColBrand, Match: table.MatchText},
		{Name: ColModel, Match: table.MatchText},
		{Name: ColCapacity, Match: table.MatchExact},
		{Name: ColLastMaintenance, Match: table.MatchText, Text: true},
		{Name: ColNextMaintenance, Match: table.MatchText, Text: true},
		{Name: ColTechnician, Match: table.MatchText, Text: true},
		{Name: ColApproval, Match: table.MatchText, Text: true},
		{Name: ColNotes, Match: table.MatchText, Text: true},
	},
}

// Unit is one piece of equipment under preventive maintenance.
type Unit struct {
	Tag             int
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

// NextMaintenance is always derived from the last maintenance date.
func (u *Unit) NextMaintenance() time.Time {
	if u.LastMaintenance.IsZero() {
		return time.Time{}
	}
	return u.LastMaintenance.AddDate(0, 0, MaintenanceIntervalDays)
}

// DaysUntilDue returns the whole days from asOf to the next maintenance;
// negative when overdue.
func (u *Unit) DaysUntilDue(asOf time.Time) int {
	next := u.NextMaintenance()
	y, m, d := asOf.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, next.Location())
	return int(math.Round(next.Sub(start).Hours() / 24))
}

// FromRow decodes one table row. The stored next-maintenance cell is ignored.
func FromRow(r table.Row, loc *time.Location) (*Unit, error) {
	tag, ok := table.ParseID(r[ColTag])
	if !ok {
		return nil, failure.Invalid(ColTag, "invalid tag %q", r[ColTag])
	}
	last, err := ParseDate(r[ColLastMaintenance], loc)
	if err != nil {
		return nil, failure.Invalid(ColLastMaintenance, "unit %d: %v", tag, err)
	}
	return &Unit{
		Tag:             tag,
		Site:            r[ColSite],
		Sector:          r[ColSector],
		Brand:           r[ColBrand],
		Model:           r[ColModel],
		Capacity:        strings.TrimSpace(r[ColCapacity]),
		LastMaintenance: last,
		Technician:      r[ColTechnician],
		Approval:        r[ColApproval],
		Notes:           r[ColNotes],
	}, nil
}

// Row encodes the unit, writing the derived next-maintenance date.
func (u *Unit) Row() table.Row {
	return table.Row{
		ColTag:             strconv.Itoa(u.Tag),
		ColSite:            u.Site,
		ColSector:          u.Sector,
		ColBrand:           u.Brand,
		ColModel:           u.Model,
		ColCapacity:        u.Capacity,
		ColLastMaintenance: formatDate(u.LastMaintenance),
		ColNextMaintenance: formatDate(u.NextMaintenance()),
		ColTechnician:      u.Technician,
		ColApproval:        u.Approval,
		ColNotes:           u.Notes,
	}
}

// Decode decodes every row of t.
func Decode(t *table.Table, loc *time.Location) ([]*Unit, error) {
	units := make([]*Unit, 0, t.Len())
	for _, r := range t.Rows {
		u, err := FromRow(r, loc)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// Due returns the units whose next maintenance falls on or before
// asOf + withinDays, soonest first. Units never serviced are always due.
func Due(units []*Unit, asOf time.Time, withinDays int) []*Unit {
	var due []*Unit
	for _, u := range units {
		if u.LastMaintenance.IsZero() || u.DaysUntilDue(asOf) <= withinDays {
			due = append(due, u)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextMaintenance().Before(due[j].NextMaintenance())
	})
	return due
}

// ParseDate accepts ISO dates, Brazilian dd/mm/yyyy dates and ISO datetimes
// as left by spreadsheet exports.
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if len(v) > 10 && v[4] == '-' {
		v = v[:10]
	}
	var err error
	for _, layout := range []string{DateLayout, "02/01/2006"} {
		var d time.Time
		d, err = time.ParseInLocation(layout, v, loc)
		if err == nil {
			return d, nil
		}
	}
	return time.Time{}, err
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
