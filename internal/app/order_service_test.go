package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/order"
	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/primary"
)

var testNow = time.Date(2025, 7, 1, 14, 30, 45, 0, time.UTC)

func newTestOrderService(roster ...string) (*OrderServiceImpl, *testStack) {
	s := newTestStack(order.Schema, 10, nil)
	service := NewOrderService(s.store, s.log, time.UTC, roster, nil)
	service.now = func() time.Time { return testNow }
	return service, s
}

func strPtr(s string) *string { return &s }

func createLeak(t *testing.T, service *OrderServiceImpl) *primary.Order {
	t.Helper()
	resp, err := service.CreateOrder(context.Background(), primary.CreateOrderRequest{
		Description: "Leak",
		Requester:   "Ana",
		Location:    "Floor 2",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return resp.Order
}

// ============================================================================
// CreateOrder Tests
// ============================================================================

func TestCreateOrder_Success(t *testing.T) {
	service, s := newTestOrderService()

	o := createLeak(t, service)

	if o.ID != 1 {
		t.Errorf("expected ID 1, got %d", o.ID)
	}
	if o.Status != string(order.StatusPending) {
		t.Errorf("expected status Pending, got %s", o.Status)
	}
	if !o.OpenedAt.Equal(testNow.Truncate(time.Minute)) {
		t.Errorf("expected opened at %v, got %v", testNow.Truncate(time.Minute), o.OpenedAt)
	}

	row := s.file.table.Rows[0]
	if row[order.ColStatus] != "Pendente" {
		t.Errorf("expected on-disk status Pendente, got %q", row[order.ColStatus])
	}
	if row[order.ColOpenDate] != "01/07/2025" || row[order.ColOpenTime] != "14:30" {
		t.Errorf("expected opening 01/07/2025 14:30, got %s %s", row[order.ColOpenDate], row[order.ColOpenTime])
	}
	if row[order.ColUrgent] != "Não" {
		t.Errorf("expected urgent Não, got %q", row[order.ColUrgent])
	}
	if len(s.log.entries) != 1 || s.log.entries[0] != "create orders 1" {
		t.Errorf("expected create log entry, got %v", s.log.entries)
	}
}

func TestCreateOrder_AssignsIncreasingIDs(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	createLeak(t, service)
	createLeak(t, service)
	if _, err := service.DeleteOrder(ctx, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	o := createLeak(t, service)
	if o.ID != 3 {
		t.Errorf("expected ID 3 after deleting 1, got %d", o.ID)
	}
}

func TestCreateOrder_MissingRequester(t *testing.T) {
	service, s := newTestOrderService()

	_, err := service.CreateOrder(context.Background(), primary.CreateOrderRequest{
		Description: "Leak",
		Location:    "Floor 2",
	})

	if !failure.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.file.table != nil {
		t.Error("expected nothing written")
	}
}

func TestCreateOrder_NormalizesCategory(t *testing.T) {
	service, _ := newTestOrderService()

	resp, err := service.CreateOrder(context.Background(), primary.CreateOrderRequest{
		Description: "Quadro",
		Requester:   "Ana",
		Location:    "Subsolo",
		Category:    "ELÉTRICA",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Order.Category != "Elétrica" {
		t.Errorf("expected category Elétrica, got %q", resp.Order.Category)
	}
}

func TestCreateOrder_UnknownCategory(t *testing.T) {
	service, _ := newTestOrderService()

	_, err := service.CreateOrder(context.Background(), primary.CreateOrderRequest{
		Description: "Quadro",
		Requester:   "Ana",
		Location:    "Subsolo",
		Category:    "Jardinagem",
	})

	if !failure.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// ============================================================================
// UpdateOrder Tests
// ============================================================================

func TestUpdateOrder_DoneStampsCompletion(t *testing.T) {
	service, s := newTestOrderService()
	createLeak(t, service)

	resp, err := service.UpdateOrder(context.Background(), primary.UpdateOrderRequest{
		OrderID:   1,
		Status:    strPtr("Done"),
		Executor1: strPtr("Robson"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Order.StatusLabel != "Concluído" {
		t.Errorf("expected label Concluído, got %s", resp.Order.StatusLabel)
	}
	if !resp.Order.CompletedAt.Equal(testNow.Truncate(time.Minute)) {
		t.Errorf("expected completion stamped now, got %v", resp.Order.CompletedAt)
	}

	row := s.file.table.Rows[0]
	if row[order.ColDoneDate] != "01/07/2025" || row[order.ColExecutor1] != "Robson" {
		t.Errorf("unexpected row after update: %v", row)
	}

	want := []string{
		"create orders 1",
		"update orders 1 Status Pendente->Concluído",
		"update orders 1 Data Conclusão ->01/07/2025",
		"update orders 1 Hora Conclusão ->14:30",
		"update orders 1 Executante1 ->Robson",
	}
	if strings.Join(s.log.entries, "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected change log:\n%s", strings.Join(s.log.entries, "\n"))
	}
}

func TestUpdateOrder_DoneWithoutExecutorRejected(t *testing.T) {
	service, s := newTestOrderService()
	createLeak(t, service)
	before := s.file.table.Clone()
	writes := s.file.writes

	_, err := service.UpdateOrder(context.Background(), primary.UpdateOrderRequest{
		OrderID: 1,
		Status:  strPtr("Done"),
	})

	if !failure.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !s.file.table.Equal(before) || s.file.writes != writes {
		t.Error("expected the table to be left unchanged")
	}
}

func TestUpdateOrder_LeavingDoneClearsCompletion(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	createLeak(t, service)
	if _, err := service.UpdateOrder(ctx, primary.UpdateOrderRequest{OrderID: 1, Status: strPtr("Done"), Executor1: strPtr("Robson")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	resp, err := service.UpdateOrder(ctx, primary.UpdateOrderRequest{OrderID: 1, Status: strPtr("Em execução")})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Order.Status != string(order.StatusInProgress) {
		t.Errorf("expected In-Progress, got %s", resp.Order.Status)
	}
	if !resp.Order.CompletedAt.IsZero() {
		t.Errorf("expected completion cleared, got %v", resp.Order.CompletedAt)
	}
}

func TestUpdateOrder_CompletionBeforeOpeningRejected(t *testing.T) {
	service, _ := newTestOrderService()
	createLeak(t, service)
	early := testNow.AddDate(0, 0, -1)

	_, err := service.UpdateOrder(context.Background(), primary.UpdateOrderRequest{
		OrderID:     1,
		Status:      strPtr("Done"),
		Executor1:   strPtr("Robson"),
		CompletedAt: &early,
	})

	if !failure.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateOrder_RosterEnforced(t *testing.T) {
	service, _ := newTestOrderService("Robson", "Carlos")
	createLeak(t, service)

	_, err := service.UpdateOrder(context.Background(), primary.UpdateOrderRequest{
		OrderID:   1,
		Status:    strPtr("In-Progress"),
		Executor1: strPtr("Zé"),
	})
	if !failure.IsValidation(err) {
		t.Fatalf("expected validation error for executor outside roster, got %v", err)
	}

	_, err = service.UpdateOrder(context.Background(), primary.UpdateOrderRequest{
		OrderID:   1,
		Status:    strPtr("In-Progress"),
		Executor1: strPtr("robson"),
	})
	if err != nil {
		t.Errorf("expected roster match ignoring case, got %v", err)
	}
}

func TestUpdateOrder_KeepsUnknownCategoryAndExtraColumns(t *testing.T) {
	service, s := newTestOrderService()
	legacy := table.FromRecords(
		[]string{"ID", "Descrição", "Data", "Hora Abertura", "Solicitante", "Local", "Tipo", "Status", "Executante", "Obs"},
		[][]string{{"4", "Porta", "10/06/2025", "08:15", "Bia", "Hall", "Marcenaria", "Pendente", "Carlos", "ver depois"}},
	)
	s.file.table = legacy

	resp, err := service.UpdateOrder(context.Background(), primary.UpdateOrderRequest{
		OrderID: 4,
		Status:  strPtr("In-Progress"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Order.Category != "Marcenaria" {
		t.Errorf("expected category kept, got %q", resp.Order.Category)
	}
	if resp.Order.Executor1 != "Carlos" {
		t.Errorf("expected legacy executor carried over, got %q", resp.Order.Executor1)
	}
	row := s.file.table.Rows[0]
	if row["Obs"] != "ver depois" {
		t.Errorf("expected extra column preserved, got %q", row["Obs"])
	}
	if s.file.table.Has("Executante") {
		t.Error("expected legacy column renamed on save")
	}
}

func TestUpdateOrder_NotFound(t *testing.T) {
	service, _ := newTestOrderService()

	_, err := service.UpdateOrder(context.Background(), primary.UpdateOrderRequest{OrderID: 9, Status: strPtr("Done")})

	if err == nil || !strings.Contains(err.Error(), "order 9 not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

// ============================================================================
// Query Tests
// ============================================================================

func TestListOrders_Filters(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	createLeak(t, service)
	createLeak(t, service)
	if _, err := service.UpdateOrder(ctx, primary.UpdateOrderRequest{OrderID: 2, Status: strPtr("Done"), Executor1: strPtr("Robson")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	done, err := service.ListOrders(ctx, primary.OrderFilters{Status: "Concluído"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(done) != 1 || done[0].ID != 2 {
		t.Errorf("expected only order 2, got %v", done)
	}

	all, err := service.ListOrders(ctx, primary.OrderFilters{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 orders, got %d", len(all))
	}

	if _, err := service.ListOrders(ctx, primary.OrderFilters{Status: "Lost"}); !failure.IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestSearchOrders(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	createLeak(t, service)
	if _, err := service.CreateOrder(ctx, primary.CreateOrderRequest{Description: "Troca de lâmpada", Requester: "Bia", Location: "Hall"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := service.SearchOrders(ctx, order.ColDescription, "LÂMPADA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(found) != 1 || found[0].ID != 2 {
		t.Errorf("expected order 2, got %v", found)
	}

	if _, err := service.SearchOrders(ctx, "Cor", "azul"); !failure.IsValidation(err) {
		t.Errorf("expected validation error for unknown field, got %v", err)
	}
}

func TestDeleteOrder(t *testing.T) {
	service, s := newTestOrderService()
	ctx := context.Background()
	createLeak(t, service)

	if _, err := service.DeleteOrder(ctx, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.file.table.Len() != 0 {
		t.Errorf("expected empty table, got %d rows", s.file.table.Len())
	}
	if _, err := service.GetOrder(ctx, 1); err == nil {
		t.Error("expected deleted order to be gone")
	}
	if s.log.entries[len(s.log.entries)-1] != "delete orders 1" {
		t.Errorf("expected delete log entry, got %v", s.log.entries)
	}
}
