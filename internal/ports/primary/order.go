package primary

import (
	"context"
	"time"
)

// OrderService defines the primary port for maintenance order operations.
type OrderService interface {
	// CreateOrder opens a new order in Pending status.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error)

	// GetOrder retrieves an order by ID.
	GetOrder(ctx context.Context, id int) (*Order, error)

	// ListOrders lists orders with optional filters.
	ListOrders(ctx context.Context, filters OrderFilters) ([]*Order, error)

	// SearchOrders returns orders whose field matches query.
	SearchOrders(ctx context.Context, field, query string) ([]*Order, error)

	// UpdateOrder rewrites the status, category and executors of an order.
	UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*OrderResponse, error)

	// DeleteOrder removes an order.
	DeleteOrder(ctx context.Context, id int) (*SaveResult, error)
}

// CreateOrderRequest contains parameters for opening an order.
type CreateOrderRequest struct {
	Description string
	Requester   string
	Location    string
	Category    string // Optional
	Urgent      bool
}

// UpdateOrderRequest contains parameters for rewriting an order.
// Nil fields keep their current value.
type UpdateOrderRequest struct {
	OrderID     int
	Status      *string
	Category    *string
	Executor1   *string
	Executor2   *string
	CompletedAt *time.Time
}

// OrderResponse contains the stored order and the save outcome.
type OrderResponse struct {
	Order *Order
	Save  *SaveResult
}

// Order represents a maintenance order at the port boundary.
type Order struct {
	ID          int
	Description string
	OpenedAt    time.Time
	Requester   string
	Location    string
	Category    string
	Status      string
	StatusLabel string
	CompletedAt time.Time
	Executor1   string
	Executor2   string
	Urgent      bool
}

// OrderFilters contains filter options for listing orders.
type OrderFilters struct {
	Status   string
	Category string
}
