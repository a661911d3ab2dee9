package failure

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestKinds(t *testing.T) {
	storage := &StorageError{Op: "read", Path: "orders.csv", Err: os.ErrNotExist}
	sync := &SyncError{Op: "push", Err: errors.New("boom")}
	invalid := Invalid("Status", "unknown status %q", "Closed")

	tests := []struct {
		name           string
		err            error
		wantStorage    bool
		wantSync       bool
		wantValidation bool
		wantMessage    string
	}{
		{
			name:        "storage error",
			err:         storage,
			wantStorage: true,
			wantMessage: "storage: read orders.csv: file does not exist",
		},
		{
			name:        "wrapped sync error",
			err:         fmt.Errorf("failed to save: %w", sync),
			wantSync:    true,
			wantMessage: "failed to save: sync: push: boom",
		},
		{
			name:           "validation error",
			err:            invalid,
			wantValidation: true,
			wantMessage:    `Status: unknown status "Closed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStorage(tt.err); got != tt.wantStorage {
				t.Errorf("IsStorage = %v, want %v", got, tt.wantStorage)
			}
			if got := IsSync(tt.err); got != tt.wantSync {
				t.Errorf("IsSync = %v, want %v", got, tt.wantSync)
			}
			if got := IsValidation(tt.err); got != tt.wantValidation {
				t.Errorf("IsValidation = %v, want %v", got, tt.wantValidation)
			}
			if tt.err.Error() != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMessage)
			}
		})
	}

	if !errors.Is(storage, os.ErrNotExist) {
		t.Error("StorageError should unwrap to its cause")
	}
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := &ValidationError{Reason: "description is required"}
	if err.Error() != "description is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
