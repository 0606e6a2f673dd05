package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrRateNotFound indicates that no direct, inverse or triangulated rate exists for a currency pair.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrInvalidScope indicates a record or request that mixes mutually exclusive fields,
// e.g. a budget scoped to both a category and a tag, or a transaction that carries
// conversion fields without a payment instrument.
var ErrInvalidScope = errors.New("invalid scope")

// ErrUnauthorizedRefresh indicates the rate refresh job was invoked without valid credentials.
var ErrUnauthorizedRefresh = errors.New("unauthorized rate refresh")

// ErrPartialRefresh indicates that at least one currency failed during a rate refresh.
var ErrPartialRefresh = errors.New("partial rate refresh")

// AppError carries an HTTP-ish status code next to the underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error matching ErrNotFound.
func NewNotFoundError(message string) error {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an error matching ErrValidation.
func NewValidationError(message string) error {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// RateNotFoundError names the pair and date that could not be resolved.
type RateNotFoundError struct {
	From string
	To   string
	Date time.Time
}

func (e *RateNotFoundError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("exchange rate not found for %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("exchange rate not found for %s to %s as of %s", e.From, e.To, e.Date.Format("2006-01-02"))
}

// Is lets errors.Is(err, ErrRateNotFound) match.
func (e *RateNotFoundError) Is(target error) bool {
	return target == ErrRateNotFound
}

// NewRateNotFoundError builds a RateNotFoundError. A zero date means "any date".
func NewRateNotFoundError(from, to string, date time.Time) error {
	return &RateNotFoundError{From: from, To: to, Date: date}
}

// NewInvalidScopeError returns an error matching ErrInvalidScope.
func NewInvalidScopeError(message string) error {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrInvalidScope}
}
