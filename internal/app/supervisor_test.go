package app

import (
	"errors"
	"testing"

	"github.com/example/maintlog/internal/ports/primary"
)

func TestSupervisor(t *testing.T) {
	hash, err := HashPassword("s3nha")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     error
	}{
		{name: "correct password", hash: hash, password: "s3nha"},
		{name: "wrong password", hash: hash, password: "senha", want: primary.ErrWrongPassword},
		{name: "missing password", hash: hash, want: primary.ErrPasswordRequired},
		{name: "not configured", password: "s3nha", want: primary.ErrSupervisorNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSupervisor(tt.hash).Authorize(tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Authorize() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); !errors.Is(err, primary.ErrPasswordRequired) {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}
