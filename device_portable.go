package serial

import (
	"errors"
	"fmt"
	"time"

	bugst "go.bug.st/serial"
)

// openPort is swapped in tests.
var openPort = func(name string, mode *bugst.Mode) (bugst.Port, error) {
	return bugst.Open(name, mode)
}

func openPortable(cfg ConnectionConfig, readTimeout time.Duration) (Device, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: bugst.OneStopBit,
		Parity:   bugst.NoParity,
	}
	if cfg.StopBits == 2 {
		mode.StopBits = bugst.TwoStopBits
	}
	switch cfg.Parity {
	case ParityOdd:
		mode.Parity = bugst.OddParity
	case ParityEven:
		mode.Parity = bugst.EvenParity
	}

	port, err := openPort(cfg.Port, mode)
	if err != nil {
		return nil, classifyPortError(cfg.Port, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	// Stale bytes from before the open are not part of this session.
	_ = port.ResetInputBuffer()

	return port, nil
}

// classifyPortError maps go.bug.st error codes onto the package sentinels.
func classifyPortError(name string, err error) error {
	var pe *bugst.PortError
	if !errors.As(err, &pe) {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	switch pe.Code() {
	case bugst.PortNotFound:
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, name)
	case bugst.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, name)
	case bugst.PortBusy:
		return fmt.Errorf("%w: %s", ErrDeviceInUse, name)
	case bugst.InvalidSpeed:
		return fmt.Errorf("%w: %v", ErrInvalidBaudRate, pe)
	case bugst.PortClosed:
		return ErrPortClosed
	default:
		return fmt.Errorf("failed to open %s: %w", name, pe)
	}
}
