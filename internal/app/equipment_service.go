package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/maintlog/internal/core/equipment"
	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// EquipmentServiceImpl implements the EquipmentService interface.
type EquipmentServiceImpl struct {
	store   primary.RecordStore
	changes changeRecorder
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewEquipmentService creates a new EquipmentService with injected dependencies.
func NewEquipmentService(store primary.RecordStore, logWriter secondary.LogWriter, loc *time.Location, logger *zap.Logger) *EquipmentServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EquipmentServiceImpl{
		store:   store,
		changes: changeRecorder{writer: logWriter, logger: logger},
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// RegisterUnit adds a unit to the log. A zero tag takes the next free one.
func (s *EquipmentServiceImpl) RegisterUnit(ctx context.Context, req primary.RegisterUnitRequest) (*primary.UnitResponse, error) {
	t := s.load(ctx)
	tag := req.Tag
	if tag == 0 {
		tag = s.store.NextIdentifier(t)
	}
	last := dateOnly(req.LastMaintenance, s.loc)

	guard := equipment.CanRegisterUnit(equipment.RegisterUnitContext{
		Tag:             tag,
		TagExists:       equipment.Schema.IndexOfID(t, tag) >= 0,
		Site:            req.Site,
		Sector:          req.Sector,
		LastMaintenance: last,
		Today:           s.today(),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	u := &equipment.Unit{
		Tag:             tag,
		Site:            strings.TrimSpace(req.Site),
		Sector:          strings.TrimSpace(req.Sector),
		Brand:           strings.TrimSpace(req.Brand),
		Model:           strings.TrimSpace(req.Model),
		Capacity:        strings.TrimSpace(req.Capacity),
		LastMaintenance: last,
		Technician:      strings.TrimSpace(req.Technician),
		Approval:        strings.TrimSpace(req.Approval),
		Notes:           req.Notes,
	}
	t.Append(u.Row())

	save, err := s.store.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to register unit: %w", err)
	}
	s.changes.created(ctx, equipment.Schema.Name, strconv.Itoa(tag))

	return &primary.UnitResponse{Unit: s.unitToPrimary(u), Save: save}, nil
}

// GetUnit retrieves a unit by tag.
func (s *EquipmentServiceImpl) GetUnit(ctx context.Context, tag int) (*primary.Unit, error) {
	u, _, err := s.find(s.load(ctx), tag)
	if err != nil {
		return nil, err
	}
	return s.unitToPrimary(u), nil
}

// ListUnits lists units, optionally restricted to a site and sector.
func (s *EquipmentServiceImpl) ListUnits(ctx context.Context, filters primary.UnitFilters) ([]*primary.Unit, error) {
	units, err := equipment.Decode(s.load(ctx), s.loc)
	if err != nil {
		return nil, err
	}

	var result []*primary.Unit
	for _, u := range units {
		if filters.Site != "" && table.Fold(u.Site) != table.Fold(filters.Site) {
			continue
		}
		if filters.Sector != "" && table.Fold(u.Sector) != table.Fold(filters.Sector) {
			continue
		}
		result = append(result, s.unitToPrimary(u))
	}
	return result, nil
}

// SearchUnits returns units whose field matches query.
func (s *EquipmentServiceImpl) SearchUnits(ctx context.Context, field, query string) ([]*primary.Unit, error) {
	matches, err := s.store.FindBy(s.load(ctx), field, query)
	if err != nil {
		return nil, err
	}
	units, err := equipment.Decode(matches, s.loc)
	if err != nil {
		return nil, err
	}
	result := make([]*primary.Unit, len(units))
	for i, u := range units {
		result[i] = s.unitToPrimary(u)
	}
	return result, nil
}

// UpdateUnit rewrites the descriptive fields of a unit. The next
// maintenance date is re-derived on save.
func (s *EquipmentServiceImpl) UpdateUnit(ctx context.Context, req primary.UpdateUnitRequest) (*primary.UnitResponse, error) {
	t := s.load(ctx)
	u, idx, err := s.find(t, req.Tag)
	if err != nil {
		return nil, err
	}

	u.Site = strings.TrimSpace(pick(req.Site, u.Site))
	u.Sector = strings.TrimSpace(pick(req.Sector, u.Sector))
	u.Brand = strings.TrimSpace(pick(req.Brand, u.Brand))
	u.Model = strings.TrimSpace(pick(req.Model, u.Model))
	u.Capacity = strings.TrimSpace(pick(req.Capacity, u.Capacity))
	u.Notes = pick(req.Notes, u.Notes)
	if u.Site == "" || u.Sector == "" {
		guard := equipment.CanRegisterUnit(equipment.RegisterUnitContext{Tag: u.Tag, Site: u.Site, Sector: u.Sector})
		return nil, guard.Error()
	}

	return s.rewrite(ctx, t, idx, u)
}

// RecordMaintenance logs a maintenance visit and reschedules the unit.
func (s *EquipmentServiceImpl) RecordMaintenance(ctx context.Context, req primary.RecordMaintenanceRequest) (*primary.UnitResponse, error) {
	t := s.load(ctx)
	u, idx, err := s.find(t, req.Tag)
	if err != nil {
		return nil, err
	}

	date := dateOnly(req.Date, s.loc)
	if date.IsZero() {
		date = s.today()
	}
	guard := equipment.CanRecordMaintenance(equipment.RecordMaintenanceContext{
		Tag:        u.Tag,
		Previous:   u.LastMaintenance,
		Date:       date,
		Technician: req.Technician,
		Today:      s.today(),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	u.LastMaintenance = date
	u.Technician = strings.TrimSpace(req.Technician)
	u.Approval = strings.TrimSpace(req.Approval)
	if req.Notes != "" {
		u.Notes = req.Notes
	}
	return s.rewrite(ctx, t, idx, u)
}

// DueUnits lists units due within withinDays of asOf, soonest first.
func (s *EquipmentServiceImpl) DueUnits(ctx context.Context, asOf time.Time, withinDays int) ([]*primary.Unit, error) {
	units, err := equipment.Decode(s.load(ctx), s.loc)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.today()
	}

	due := equipment.Due(units, asOf.In(s.loc), withinDays)
	result := make([]*primary.Unit, len(due))
	for i, u := range due {
		result[i] = s.unitToPrimaryAsOf(u, asOf)
	}
	return result, nil
}

// DeleteUnit removes a unit.
func (s *EquipmentServiceImpl) DeleteUnit(ctx context.Context, tag int) (*primary.SaveResult, error) {
	t := s.load(ctx)
	_, idx, err := s.find(t, tag)
	if err != nil {
		return nil, err
	}
	t.Remove(idx)

	save, err := s.store.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to delete unit %d: %w", tag, err)
	}
	s.changes.deleted(ctx, equipment.Schema.Name, strconv.Itoa(tag))
	return save, nil
}

// Helper methods

func (s *EquipmentServiceImpl) rewrite(ctx context.Context, t *table.Table, idx int, u *equipment.Unit) (*primary.UnitResponse, error) {
	before := cloneRow(t.Rows[idx])
	for col, v := range u.Row() {
		t.Rows[idx][col] = v
	}

	save, err := s.store.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to update unit %d: %w", u.Tag, err)
	}
	s.changes.rowChanged(ctx, equipment.Schema, strconv.Itoa(u.Tag), before, t.Rows[idx])

	return &primary.UnitResponse{Unit: s.unitToPrimary(u), Save: save}, nil
}

func (s *EquipmentServiceImpl) load(ctx context.Context) *table.Table {
	res := s.store.Load(ctx)
	if res.Warning != nil {
		s.logger.Warn("equipment loaded with warning",
			zap.String("source", string(res.Source)),
			zap.String("restored_from", res.RestoredFrom),
			zap.Error(res.Warning),
		)
	}
	return res.Table
}

func (s *EquipmentServiceImpl) find(t *table.Table, tag int) (*equipment.Unit, int, error) {
	idx := equipment.Schema.IndexOfID(t, tag)
	if idx < 0 {
		return nil, -1, fmt.Errorf("unit %d not found", tag)
	}
	u, err := equipment.FromRow(t.Rows[idx], s.loc)
	if err != nil {
		return nil, -1, err
	}
	return u, idx, nil
}

func (s *EquipmentServiceImpl) today() time.Time {
	return dateOnly(s.now(), s.loc)
}

func (s *EquipmentServiceImpl) unitToPrimary(u *equipment.Unit) *primary.Unit {
	return s.unitToPrimaryAsOf(u, s.today())
}

func (s *EquipmentServiceImpl) unitToPrimaryAsOf(u *equipment.Unit, asOf time.Time) *primary.Unit {
	out := &primary.Unit{
		Tag:             u.Tag,
		Site:            u.Site,
		Sector:          u.Sector,
		Brand:           u.Brand,
		Model:           u.Model,
		Capacity:        u.Capacity,
		LastMaintenance: u.LastMaintenance,
		NextMaintenance: u.NextMaintenance(),
		Technician:      u.Technician,
		Approval:        u.Approval,
		Notes:           u.Notes,
	}
	if !u.LastMaintenance.IsZero() {
		out.DaysUntilDue = u.DaysUntilDue(asOf)
	}
	return out
}

// dateOnly returns midnight of t's calendar day in loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Ensure EquipmentServiceImpl implements the interface
var _ primary.EquipmentService = (*EquipmentServiceImpl)(nil)
