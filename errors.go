package hddsim

import (
	"errors"
	"fmt"

	"github.com/behrlich/go-hddsim/internal/geom"
)

// Error represents a structured hddsim error with operation context
type Error struct {
	Op      string    // Operation that failed (e.g., "CREATE_DEV", "READ")
	Address uint64    // Byte address involved (0 if not applicable)
	Code    ErrorCode // High-level error category
	Msg     string    // Human-readable message
	Inner   error     // Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if e.Op != "" {
		return fmt.Sprintf("hddsim: %s (op=%s)", msg, e.Op)
	}

	return fmt.Sprintf("hddsim: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support against sentinel and structured errors
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if de, ok := target.(DeviceError); ok {
		return e.Code == ErrorCode(de)
	}

	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}

	return false
}

// ErrorCode represents high-level error categories
type ErrorCode string

const (
	ErrCodeInvalidGeometry    ErrorCode = "invalid geometry"
	ErrCodeDegenerateGeometry ErrorCode = "degenerate geometry"
	ErrCodeAddressOutOfRange  ErrorCode = "address out of range"
	ErrCodeInvalidParameters  ErrorCode = "invalid parameters"
)

// DeviceError is a plain sentinel form of the error categories, convenient
// with errors.Is
type DeviceError string

func (e DeviceError) Error() string {
	return "hddsim: " + string(e)
}

// Sentinel error constants
const (
	ErrInvalidGeometry    DeviceError = "invalid geometry"
	ErrDegenerateGeometry DeviceError = "degenerate geometry"
	ErrAddressOutOfRange  DeviceError = "address out of range"
	ErrInvalidParameters  DeviceError = "invalid parameters"
)

// Error constructors

// NewError creates a new structured error
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{
		Op:   op,
		Code: code,
		Msg:  msg,
	}
}

// NewAddressError creates a new structured error carrying the failing address
func NewAddressError(op string, address uint64, code ErrorCode, msg string) *Error {
	return &Error{
		Op:      op,
		Address: address,
		Code:    code,
		Msg:     msg,
	}
}

// WrapError wraps an existing error with hddsim context
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}

	// If it's already a structured error, just update the operation
	if he, ok := inner.(*Error); ok {
		return &Error{
			Op:      op,
			Address: he.Address,
			Code:    he.Code,
			Msg:     he.Msg,
			Inner:   he.Inner,
		}
	}

	return &Error{
		Op:    op,
		Code:  mapGeomError(inner),
		Msg:   inner.Error(),
		Inner: inner,
	}
}

// mapGeomError maps geometry-layer sentinels to hddsim error codes
func mapGeomError(err error) ErrorCode {
	switch {
	case errors.Is(err, geom.ErrAddressOutOfRange):
		return ErrCodeAddressOutOfRange
	case errors.Is(err, geom.ErrDegenerateGeometry):
		return ErrCodeDegenerateGeometry
	case errors.Is(err, geom.ErrInvalidGeometry):
		return ErrCodeInvalidGeometry
	default:
		return ErrCodeInvalidParameters
	}
}

// IsCode checks if an error matches a specific error code
func IsCode(err error, code ErrorCode) bool {
	var devErr *Error
	if errors.As(err, &devErr) {
		return devErr.Code == code
	}
	return false
}
