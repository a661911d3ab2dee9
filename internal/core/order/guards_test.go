package order

import (
	"testing"
	"time"

	"github.com/example/maintlog/internal/core/failure"
)

func TestCanCreateOrder(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateOrderContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can create with all required fields",
			ctx:         CreateOrderContext{Description: "Leak", Requester: "Ana", Location: "Floor 2"},
			wantAllowed: true,
		},
		{
			name:        "cannot create without description",
			ctx:         CreateOrderContext{Description: "  ", Requester: "Ana", Location: "Floor 2"},
			wantAllowed: false,
			wantReason:  "description is required",
		},
		{
			name:        "cannot create without requester",
			ctx:         CreateOrderContext{Description: "Leak", Location: "Floor 2"},
			wantAllowed: false,
			wantReason:  "requester is required",
		},
		{
			name:        "cannot create without location",
			ctx:         CreateOrderContext{Description: "Leak", Requester: "Ana"},
			wantAllowed: false,
			wantReason:  "location is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateOrder(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanUpdateOrder(t *testing.T) {
	opened := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		ctx         UpdateOrderContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can mark done with primary executor",
			ctx:         UpdateOrderContext{OrderID: 1, Status: "Done", Executor1: "Robson"},
			wantAllowed: true,
		},
		{
			name:        "accepts on-disk status label",
			ctx:         UpdateOrderContext{OrderID: 1, Status: "Concluído", Executor1: "Robson"},
			wantAllowed: true,
		},
		{
			name:        "cannot mark done without primary executor",
			ctx:         UpdateOrderContext{OrderID: 1, Status: "Done"},
			wantAllowed: false,
			wantReason:  "order 1: status Done requires a primary executor",
		},
		{
			name:        "cannot start without primary executor",
			ctx:         UpdateOrderContext{OrderID: 4, Status: "In-Progress"},
			wantAllowed: false,
			wantReason:  "order 4: status In-Progress requires a primary executor",
		},
		{
			name:        "can pause without executor",
			ctx:         UpdateOrderContext{OrderID: 1, Status: "Paused"},
			wantAllowed: true,
		},
		{
			name:        "cannot set unknown status",
			ctx:         UpdateOrderContext{OrderID: 1, Status: "Closed"},
			wantAllowed: false,
			wantReason:  `unknown status "Closed" (valid: Pending, Paused, In-Progress, Done)`,
		},
		{
			name:        "cannot set unknown category",
			ctx:         UpdateOrderContext{OrderID: 1, Status: "Pending", Category: "Pintura"},
			wantAllowed: false,
			wantReason:  `unknown category "Pintura" (valid: Elétrica, Mecânica, Refrigeração, Hidráulica, Civil, Instalação)`,
		},
		{
			name:        "category match ignores case",
			ctx:         UpdateOrderContext{OrderID: 1, Status: "Pending", Category: "hidráulica"},
			wantAllowed: true,
		},
		{
			name:        "cannot set secondary without primary",
			ctx:         UpdateOrderContext{OrderID: 2, Status: "Paused", Executor2: "Paulinho"},
			wantAllowed: false,
			wantReason:  "order 2: secondary executor Paulinho requires a primary executor",
		},
		{
			name: "cannot assign executor outside roster",
			ctx: UpdateOrderContext{
				OrderID: 1, Status: "In-Progress", Executor1: "Carlos",
				Roster: []string{"Robson", "Guilherme"},
			},
			wantAllowed: false,
			wantReason:  "executor Carlos is not in the roster (Robson, Guilherme)",
		},
		{
			name: "roster match ignores case",
			ctx: UpdateOrderContext{
				OrderID: 1, Status: "In-Progress", Executor1: "robson",
				Roster: []string{"Robson", "Guilherme"},
			},
			wantAllowed: true,
		},
		{
			name: "cannot complete before opening",
			ctx: UpdateOrderContext{
				OrderID: 3, Status: "Done", Executor1: "Robson",
				OpenedAt: opened, CompletedAt: opened.Add(-time.Hour),
			},
			wantAllowed: false,
			wantReason:  "order 3: completion 10/03/2025 08:00 is before opening 10/03/2025 09:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUpdateOrder(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestGuardResult_Error(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("allowed result should not produce an error, got %v", err)
	}
	err := CanCreateOrder(CreateOrderContext{}).Error()
	if !failure.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if err.Error() != "Descrição: description is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestStatusNames(t *testing.T) {
	if got := StatusNames(); got != "Pending, Paused, In-Progress, Done" {
		t.Errorf("StatusNames() = %q", got)
	}
}

func TestApply(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 37, 42, 0, time.UTC)
	earlier := time.Date(2025, 3, 9, 18, 5, 0, 0, time.UTC)

	base := &Order{ID: 1, Description: "Leak", Status: StatusPending}
	done := &Order{ID: 1, Description: "Leak", Status: StatusDone, Executor1: "Robson", CompletedAt: earlier}

	tests := []struct {
		name          string
		from          *Order
		update        Update
		wantCompleted time.Time
	}{
		{
			name:          "done stamps now truncated to minute",
			from:          base,
			update:        Update{Status: StatusDone, Executor1: "Robson"},
			wantCompleted: time.Date(2025, 3, 10, 14, 37, 0, 0, time.UTC),
		},
		{
			name:          "done uses supplied completion",
			from:          base,
			update:        Update{Status: StatusDone, Executor1: "Robson", CompletedAt: earlier},
			wantCompleted: earlier,
		},
		{
			name:          "staying done keeps original stamp",
			from:          done,
			update:        Update{Status: StatusDone, Executor1: "Robson", Executor2: "Paulinho"},
			wantCompleted: earlier,
		},
		{
			name:          "leaving done clears completion",
			from:          done,
			update:        Update{Status: StatusPaused, Executor1: "Robson"},
			wantCompleted: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.from, tt.update, now)
			if !got.CompletedAt.Equal(tt.wantCompleted) {
				t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, tt.wantCompleted)
			}
			if got.Status != tt.update.Status {
				t.Errorf("Status = %v, want %v", got.Status, tt.update.Status)
			}
			if got == tt.from {
				t.Error("Apply must return a copy")
			}
		})
	}
}
