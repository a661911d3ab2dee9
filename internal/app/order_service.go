package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/order"
	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// OrderServiceImpl implements the OrderService interface.
type OrderServiceImpl struct {
	store   primary.RecordStore
	changes changeRecorder
	loc     *time.Location
	roster  []string
	now     func() time.Time
	logger  *zap.Logger
}

// NewOrderService creates a new OrderService with injected dependencies.
// roster lists the allowed executors; empty allows anyone.
func NewOrderService(store primary.RecordStore, logWriter secondary.LogWriter, loc *time.Location, roster []string, logger *zap.Logger) *OrderServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &OrderServiceImpl{
		store:   store,
		changes: changeRecorder{writer: logWriter, logger: logger},
		loc:     loc,
		roster:  roster,
		now:     time.Now,
		logger:  logger,
	}
}

// CreateOrder opens a new order in Pending status.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req primary.CreateOrderRequest) (*primary.OrderResponse, error) {
	guard := order.CanCreateOrder(order.CreateOrderContext{
		Description: req.Description,
		Requester:   req.Requester,
		Location:    req.Location,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}
	category, ok := order.ParseCategory(req.Category)
	if !ok {
		return nil, failure.Invalid(order.ColCategory, "unknown category %q", req.Category)
	}

	t := s.load(ctx)
	o := &order.Order{
		ID:          s.store.NextIdentifier(t),
		Description: req.Description,
		OpenedAt:    s.now().In(s.loc).Truncate(time.Minute),
		Requester:   req.Requester,
		Location:    req.Location,
		Category:    category,
		Status:      order.StatusPending,
		Urgent:      req.Urgent,
	}
	t.Append(o.Row(s.loc))

	save, err := s.store.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.changes.created(ctx, order.Schema.Name, strconv.Itoa(o.ID))

	return &primary.OrderResponse{Order: orderToPrimary(o), Save: save}, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, id int) (*primary.Order, error) {
	t := s.load(ctx)
	o, _, err := s.find(t, id)
	if err != nil {
		return nil, err
	}
	return orderToPrimary(o), nil
}

// ListOrders lists orders with optional status and category filters.
func (s *OrderServiceImpl) ListOrders(ctx context.Context, filters primary.OrderFilters) ([]*primary.Order, error) {
	var status order.Status
	if filters.Status != "" {
		st, ok := order.ParseStatus(filters.Status)
		if !ok {
			return nil, failure.Invalid(order.ColStatus, "unknown status %q", filters.Status)
		}
		status = st
	}
	category := ""
	if filters.Category != "" {
		c, ok := order.ParseCategory(filters.Category)
		if !ok {
			return nil, failure.Invalid(order.ColCategory, "unknown category %q", filters.Category)
		}
		category = c
	}

	orders, err := order.Decode(s.load(ctx), s.loc)
	if err != nil {
		return nil, err
	}

	var result []*primary.Order
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if category != "" && o.Category != category {
			continue
		}
		result = append(result, orderToPrimary(o))
	}
	return result, nil
}

// SearchOrders returns orders whose field matches query.
func (s *OrderServiceImpl) SearchOrders(ctx context.Context, field, query string) ([]*primary.Order, error) {
	matches, err := s.store.FindBy(s.load(ctx), field, query)
	if err != nil {
		return nil, err
	}
	orders, err := order.Decode(matches, s.loc)
	if err != nil {
		return nil, err
	}
	result := make([]*primary.Order, len(orders))
	for i, o := range orders {
		result[i] = orderToPrimary(o)
	}
	return result, nil
}

// UpdateOrder rewrites the status, category and executors of an order.
// Nil request fields keep the current values.
func (s *OrderServiceImpl) UpdateOrder(ctx context.Context, req primary.UpdateOrderRequest) (*primary.OrderResponse, error) {
	t := s.load(ctx)
	current, idx, err := s.find(t, req.OrderID)
	if err != nil {
		return nil, err
	}

	statusInput := string(current.Status)
	if req.Status != nil {
		statusInput = *req.Status
	}
	// A category already on file is kept as is, even one this version
	// does not know; only a requested category is checked.
	category, guardCategory := current.Category, ""
	if req.Category != nil {
		category, guardCategory = *req.Category, *req.Category
	}
	executor1 := pick(req.Executor1, current.Executor1)
	executor2 := pick(req.Executor2, current.Executor2)
	var completedAt time.Time
	if req.CompletedAt != nil {
		completedAt = req.CompletedAt.In(s.loc)
	}

	guard := order.CanUpdateOrder(order.UpdateOrderContext{
		OrderID:     current.ID,
		Status:      statusInput,
		Category:    guardCategory,
		Executor1:   executor1,
		Executor2:   executor2,
		OpenedAt:    current.OpenedAt,
		CompletedAt: completedAt,
		Roster:      s.roster,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	status, _ := order.ParseStatus(statusInput)
	if c, ok := order.ParseCategory(category); ok {
		category = c
	}
	next := order.Apply(current, order.Update{
		Status:      status,
		Category:    category,
		Executor1:   executor1,
		Executor2:   executor2,
		CompletedAt: completedAt,
	}, s.now().In(s.loc))

	before := cloneRow(t.Rows[idx])
	for col, v := range next.Row(s.loc) {
		t.Rows[idx][col] = v
	}

	save, err := s.store.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", req.OrderID, err)
	}
	s.changes.rowChanged(ctx, order.Schema, strconv.Itoa(next.ID), before, t.Rows[idx])

	return &primary.OrderResponse{Order: orderToPrimary(next), Save: save}, nil
}

// DeleteOrder removes an order.
func (s *OrderServiceImpl) DeleteOrder(ctx context.Context, id int) (*primary.SaveResult, error) {
	t := s.load(ctx)
	_, idx, err := s.find(t, id)
	if err != nil {
		return nil, err
	}
	t.Remove(idx)

	save, err := s.store.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	s.changes.deleted(ctx, order.Schema.Name, strconv.Itoa(id))
	return save, nil
}

// Helper methods

func (s *OrderServiceImpl) load(ctx context.Context) *table.Table {
	res := s.store.Load(ctx)
	if res.Warning != nil {
		s.logger.Warn("orders loaded with warning",
			zap.String("source", string(res.Source)),
			zap.String("restored_from", res.RestoredFrom),
			zap.Error(res.Warning),
		)
	}
	return res.Table
}

func (s *OrderServiceImpl) find(t *table.Table, id int) (*order.Order, int, error) {
	idx := order.Schema.IndexOfID(t, id)
	if idx < 0 {
		return nil, -1, fmt.Errorf("order %d not found", id)
	}
	o, err := order.FromRow(t.Rows[idx], s.loc)
	if err != nil {
		return nil, -1, err
	}
	return o, idx, nil
}

func orderToPrimary(o *order.Order) *primary.Order {
	return &primary.Order{
		ID:          o.ID,
		Description: o.Description,
		OpenedAt:    o.OpenedAt,
		Requester:   o.Requester,
		Location:    o.Location,
		Category:    o.Category,
		Status:      string(o.Status),
		StatusLabel: o.Status.Label(),
		CompletedAt: o.CompletedAt,
		Executor1:   o.Executor1,
		Executor2:   o.Executor2,
		Urgent:      o.Urgent,
	}
}

// Ensure OrderServiceImpl implements the interface
var _ primary.OrderService = (*OrderServiceImpl)(nil)
