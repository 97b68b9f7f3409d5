// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed input to a core operation. It is never
// retried and carries no wrapped cause.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError marks an absent entity. Callers treat it as a normal
// negative result, distinct from storage failure.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StorageUnavailableError means the local store could not be opened or
// initialized. Fatal for the current operation; the fallback catalog is the
// only recovery path.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return "local storage unavailable: " + e.Err.Error()
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// QuotaExceededError means a local persistence write exceeded the storage
// ceiling. The snapshot manager recovers through its degradation ladder
// before this ever reaches a caller.
type QuotaExceededError struct {
	Size  int64
	Quota int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage quota exceeded: %d bytes over %d byte limit", e.Size, e.Quota)
}

// ServiceError wraps a failed external AI/service call. Step names the
// failed operation (describe, edit, sketch, tech-pack, suppliers,
// transcribe, video) so the caller can surface an actionable message.
type ServiceError struct {
	Step string
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service failed: %v", e.Step, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func NewServiceError(step string, err error) *ServiceError {
	return &ServiceError{Step: step, Err: err}
}

// PartialFailure reports that a vote upsert and its counter update could not
// be applied as one unit. No rollback is attempted; callers reconcile by
// re-reading the product and vote records.
type PartialFailure struct {
	ProductID string
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure updating product %s: %v", e.ProductID, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Matching helpers.

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsStorageUnavailable(err error) bool {
	var target *StorageUnavailableError
	return errors.As(err, &target)
}

func IsQuotaExceeded(err error) bool {
	var target *QuotaExceededError
	return errors.As(err, &target)
}

func IsServiceError(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}

func IsPartialFailure(err error) bool {
	var target *PartialFailure
	return errors.As(err, &target)
}
