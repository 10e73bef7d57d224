package entity

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrTaskNotFound   = errors.New("task not found")
)

// ErrNoFilter - запрос поиска без единого параметра
var ErrNoFilter = NewValidationError("at least one parameter required")

// ValidationError несет причину отказа, которую можно показать клиенту.
// errors.Is(err, ErrInvalidRequest) для нее истинно.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}
