package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestKindConstants(t *testing.T) {
	// These values must match the CHECK constraint in the database:
	// CHECK (kind IN ('income', 'expense'))
	tests := []struct {
		name     string
		kind     Kind
		expected string
		valid    bool
	}{
		{"income kind", KindIncome, "income", true},
		{"expense kind", KindExpense, "expense", true},
		{"unknown kind", Kind("transfer"), "transfer", false},
		{"empty kind", Kind(""), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.kind) != tt.expected {
				t.Errorf("Kind %s = %s, want %s", tt.name, tt.kind, tt.expected)
			}
			if tt.kind.IsValid() != tt.valid {
				t.Errorf("Kind(%q).IsValid() = %v, want %v", tt.kind, !tt.valid, tt.valid)
			}
		})
	}
}

func TestTransaction_IsInstallment(t *testing.T) {
	groupID := uuid.New()

	single := &Transaction{}
	if single.IsInstallment() {
		t.Error("Expected plain transaction not to be an installment")
	}

	grouped := &Transaction{InstallmentGroupID: &groupID, InstallmentIndex: 2, InstallmentCount: 3}
	if !grouped.IsInstallment() {
		t.Error("Expected grouped transaction to be an installment")
	}
}

func TestDateRange_Validate(t *testing.T) {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	if err := (DateRange{Start: jan1, End: jan31}).Validate(); err != nil {
		t.Errorf("Expected valid range, got %v", err)
	}
	if err := (DateRange{Start: jan1, End: jan1}).Validate(); err != nil {
		t.Errorf("Expected single-day range to be valid, got %v", err)
	}
	if err := (DateRange{Start: jan31, End: jan1}).Validate(); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("Expected ErrInvalidDateRange, got %v", err)
	}
	if err := (DateRange{End: jan1}).Validate(); !errors.Is(err, ErrDateRequired) {
		t.Errorf("Expected ErrDateRequired, got %v", err)
	}
}

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		err   error
		class error
	}{
		{ErrCategoryNotFound, ErrNotFound},
		{ErrTransactionNotFound, ErrNotFound},
		{ErrTenantNotFound, ErrNotFound},
		{ErrCategoryAlreadyExists, ErrAlreadyExists},
		{ErrCategoryInUse, ErrConflict},
		{ErrInvalidAmount, ErrInvalidInput},
		{ErrInvalidInstallmentCount, ErrInvalidInput},
		{ErrNameRequired, ErrInvalidInput},
		{ErrTenantInactive, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if !errors.Is(tt.err, tt.class) {
				t.Errorf("Expected %v to match %v", tt.err, tt.class)
			}
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("Expected wrapped error to match %v", tt.err)
			}
		})
	}

	if errors.Is(ErrCategoryInUse, ErrAlreadyExists) {
		t.Error("ReferentialIntegrity must not be confused with DuplicateName")
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError("create transaction", cause)

	if !errors.Is(err, ErrStorage) {
		t.Error("Expected StorageError to match ErrStorage")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected StorageError to unwrap to its cause")
	}
	if err.Error() != "storage: create transaction: connection refused" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	var storageErr *StorageError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &storageErr) {
		t.Fatal("Expected errors.As to find StorageError")
	}
	if storageErr.Op != "create transaction" {
		t.Errorf("Expected op 'create transaction', got %q", storageErr.Op)
	}
}
