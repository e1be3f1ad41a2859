package domain

import "errors"

// Error classes. Every specific domain error below matches exactly one of
// these through errors.Is, so callers can branch on the class without
// enumerating every sentinel.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrStorage       = errors.New("storage unavailable")
)

// Validation errors
var (
	ErrNameRequired            = classified(ErrInvalidInput, "name is required")
	ErrNameTooLong             = classified(ErrInvalidInput, "name exceeds maximum length")
	ErrInvalidKind             = classified(ErrInvalidInput, "kind must be income or expense")
	ErrInvalidAmount           = classified(ErrInvalidInput, "amount must be greater than zero")
	ErrInvalidInstallmentCount = classified(ErrInvalidInput, "installment count must be 0 or at least 2")
	ErrDescriptionTooLong      = classified(ErrInvalidInput, "description exceeds maximum length")
	ErrInvalidDateRange        = classified(ErrInvalidInput, "start date must not be after end date")
	ErrDateRequired            = classified(ErrInvalidInput, "date is required")
	ErrTenantKeyRequired       = classified(ErrInvalidInput, "tenant key is required")
	ErrTenantKeyTooLong        = classified(ErrInvalidInput, "tenant key exceeds maximum length")
)

// Entity errors
var (
	ErrTenantNotFound        = classified(ErrNotFound, "tenant not found")
	ErrTenantInactive        = classified(ErrUnauthorized, "tenant is inactive")
	ErrCategoryNotFound      = classified(ErrNotFound, "category not found")
	ErrTransactionNotFound   = classified(ErrNotFound, "transaction not found")
	ErrCategoryAlreadyExists = classified(ErrAlreadyExists, "a category with this name already exists")
	ErrCategoryInUse         = classified(ErrConflict, "category is referenced by transactions")
)

// Validation constants
const (
	MaxCategoryNameLength     = 100
	MaxDescriptionLength      = 500
	MaxTenantKeyLength        = 255
	MaxInstallmentCount       = 360
	MinInstallmentGroupLength = 2
)

type classifiedError struct {
	class error
	msg   string
}

func classified(class error, msg string) error {
	return &classifiedError{class: class, msg: msg}
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.class }

// StorageError wraps a failure of the underlying store (connection loss,
// serialization conflict, timeout). It matches ErrStorage via errors.Is.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a StorageError for the named operation
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports whether target is the ErrStorage class
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
