package serial

import (
	"fmt"
	"strings"
	"time"
)

// Device is an open serial handle. Read must return (0, nil) once the
// read timeout elapses with nothing buffered.
type Device interface {
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	Close() error
}

// Opener opens a device for cfg with a bounded per-read timeout.
type Opener func(cfg ConnectionConfig, readTimeout time.Duration) (Device, error)

// Driver selects the device backend.
type Driver string

const (
	// DriverPortable uses go.bug.st/serial and works on every platform.
	DriverPortable Driver = "portable"
	// DriverNative talks termios directly and is only available on Linux.
	DriverNative Driver = "native"
)

// ParseDriver accepts portable or native.
func ParseDriver(s string) (Driver, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(s))) {
	case "", DriverPortable:
		return DriverPortable, nil
	case DriverNative:
		return DriverNative, nil
	default:
		return "", validationError("driver", fmt.Errorf("%w: driver %q (valid: portable, native)", ErrInvalidConfig, s))
	}
}

// OpenerFor returns the opener implementing d.
func OpenerFor(d Driver) Opener {
	if d == DriverNative {
		return openNative
	}
	return openPortable
}
