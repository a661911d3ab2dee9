package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/maintlog/internal/ports/primary"
)

// OrderAdapter is a thin adapter that translates CLI operations to OrderService calls.
// It depends only on the OrderService interface, enabling easy testing with mocks.
type OrderAdapter struct {
	service primary.OrderService
	out     io.Writer
}

// NewOrderAdapter creates a new OrderAdapter with the given service.
func NewOrderAdapter(service primary.OrderService, out io.Writer) *OrderAdapter {
	return &OrderAdapter{
		service: service,
		out:     out,
	}
}

// Create opens a new order.
func (a *OrderAdapter) Create(ctx context.Context, req primary.CreateOrderRequest) error {
	resp, err := a.service.CreateOrder(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created order %d: %s\n", resp.Order.ID, resp.Order.Description)
	printSave(a.out, resp.Save)
	return nil
}

// List lists orders with optional filters.
func (a *OrderAdapter) List(ctx context.Context, filters primary.OrderFilters) error {
	orders, err := a.service.ListOrders(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	a.printOrders(orders)
	return nil
}

// Search lists orders whose field matches query.
func (a *OrderAdapter) Search(ctx context.Context, field, query string) error {
	orders, err := a.service.SearchOrders(ctx, field, query)
	if err != nil {
		return fmt.Errorf("failed to search orders: %w", err)
	}
	a.printOrders(orders)
	return nil
}

// Show displays details for a single order.
func (a *OrderAdapter) Show(ctx context.Context, id int) (*primary.Order, error) {
	o, err := a.service.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nOrder: %d", o.ID)
	if o.Urgent {
		fmt.Fprintf(a.out, " %s", color.New(color.FgRed).Sprint("[urgent]"))
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Description: %s\n", o.Description)
	fmt.Fprintf(a.out, "Status:      %s (%s)\n", statusColor(o.Status).Sprint(o.Status), o.StatusLabel)
	fmt.Fprintf(a.out, "Category:    %s\n", orDash(o.Category))
	fmt.Fprintf(a.out, "Requester:   %s\n", o.Requester)
	fmt.Fprintf(a.out, "Location:    %s\n", o.Location)
	fmt.Fprintf(a.out, "Opened:      %s\n", formatDateTime(o.OpenedAt))
	if !o.CompletedAt.IsZero() {
		fmt.Fprintf(a.out, "Completed:   %s\n", formatDateTime(o.CompletedAt))
	}
	if o.Executor1 != "" {
		executors := o.Executor1
		if o.Executor2 != "" {
			executors += ", " + o.Executor2
		}
		fmt.Fprintf(a.out, "Executors:   %s\n", executors)
	}
	fmt.Fprintln(a.out)

	return o, nil
}

// Update rewrites an order.
func (a *OrderAdapter) Update(ctx context.Context, req primary.UpdateOrderRequest) error {
	if req.Status == nil && req.Category == nil && req.Executor1 == nil && req.Executor2 == nil && req.CompletedAt == nil {
		return fmt.Errorf("must specify at least one of --status, --category, --executor, --executor2 or --completed-at")
	}

	resp, err := a.service.UpdateOrder(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Order %d updated: %s\n", resp.Order.ID, resp.Order.StatusLabel)
	if !resp.Order.CompletedAt.IsZero() {
		fmt.Fprintf(a.out, "  Completed: %s\n", formatDateTime(resp.Order.CompletedAt))
	}
	printSave(a.out, resp.Save)
	return nil
}

// Delete removes an order.
func (a *OrderAdapter) Delete(ctx context.Context, id int) error {
	save, err := a.service.DeleteOrder(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Order %d deleted\n", id)
	printSave(a.out, save)
	return nil
}

func (a *OrderAdapter) printOrders(orders []*primary.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders found")
		return
	}

	fmt.Fprintf(a.out, "\n%-5s %-12s %-13s %-16s %-18s %s\n", "ID", "STATUS", "CATEGORY", "OPENED", "LOCATION", "DESCRIPTION")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────────")
	for _, o := range orders {
		marker := " "
		if o.Urgent {
			marker = urgentTag
		}
		fmt.Fprintf(a.out, "%-4d%s %s %-13s %-16s %-18s %s\n",
			o.ID,
			marker,
			statusColor(o.Status).Sprintf("%-12s", o.Status),
			orDash(o.Category),
			formatDateTime(o.OpenedAt),
			truncate(o.Location, 18),
			o.Description,
		)
	}
	fmt.Fprintln(a.out)
}

func statusColor(status string) *color.Color {
	switch status {
	case "Done":
		return color.New(color.FgGreen)
	case "In-Progress":
		return color.New(color.FgCyan)
	case "Paused":
		return color.New(color.FgYellow)
	default:
		return color.New(color.Reset)
	}
}
