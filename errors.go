package serial

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	// Validation errors
	ErrInvalidConfig   = errors.New("invalid serial configuration")
	ErrInvalidBaudRate = errors.New("invalid baud rate")
	ErrInvalidHex      = errors.New("invalid hex payload")
	ErrEmptyPayload    = errors.New("empty payload")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownKey      = errors.New("unknown config key")

	// State errors
	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")

	// Device errors
	ErrDeviceNotFound     = errors.New("serial device not found")
	ErrPermissionDenied   = errors.New("permission denied accessing serial device")
	ErrDeviceInUse        = errors.New("serial device already in use")
	ErrPortClosed         = errors.New("serial port is closed")
	ErrNativeUnsupported  = errors.New("native driver not supported on this platform")
	ErrEnumerationFailure = errors.New("failed to enumerate serial ports")
)

// Kind classifies a failure so front-ends can decide how to report it.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindState
	KindDevice
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindState:
		return "StateError"
	case KindDevice:
		return "DeviceError"
	case KindIO:
		return "IOError"
	default:
		return "Error"
	}
}

// Error is the structured failure returned by every exposed operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError wraps err with a kind and the operation that produced it.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func validationError(op string, err error) error {
	return NewError(KindValidation, op, err)
}

func stateError(op string, err error) error {
	return NewError(KindState, op, err)
}

func deviceError(op string, err error) error {
	return NewError(KindDevice, op, err)
}
