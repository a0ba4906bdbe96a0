package serial

import (
	"fmt"
	"strings"
	"time"
)

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return fmt.Sprintf("parity(%d)", int(p))
	}
}

// Short returns the single letter used in 8N1 style notation.
func (p Parity) Short() string {
	switch p {
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	default:
		return "N"
	}
}

// ParseParity accepts none, odd or even in any case.
func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return ParityNone, nil
	case "odd", "o":
		return ParityOdd, nil
	case "even", "e":
		return ParityEven, nil
	default:
		return ParityNone, fmt.Errorf("%w: parity %q (valid: none, odd, even)", ErrInvalidConfig, s)
	}
}

const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 20 * time.Millisecond
	// MaxReadTimeout bounds the per-read wait so a drain never blocks for long.
	MaxReadTimeout = 500 * time.Millisecond
)

// ConnectionConfig holds the parameters of one connection. It is copied
// into the manager on connect and never changes while the port is open.
type ConnectionConfig struct {
	Port     string
	BaudRate int
	DataBits int
	StopBits int
	Parity   Parity
}

// Option is a functional option for configuring a connection
type Option func(*ConnectionConfig) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig(port string) ConnectionConfig {
	return ConnectionConfig{
		Port:     port,
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
	}
}

// NewConfig builds a validated configuration from defaults and options.
func NewConfig(port string, opts ...Option) (ConnectionConfig, error) {
	c := DefaultConfig(port)
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return ConnectionConfig{}, validationError("config", err)
		}
	}
	if err := c.Validate(); err != nil {
		return ConnectionConfig{}, err
	}
	return c, nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *ConnectionConfig) error {
		if rate <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *ConnectionConfig) error {
		if bits < 5 || bits > 8 {
			return fmt.Errorf("%w: data bits %d", ErrInvalidConfig, bits)
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *ConnectionConfig) error {
		if bits != 1 && bits != 2 {
			return fmt.Errorf("%w: stop bits %d", ErrInvalidConfig, bits)
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(p Parity) Option {
	return func(c *ConnectionConfig) error {
		if p < ParityNone || p > ParityEven {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, p)
		}
		c.Parity = p
		return nil
	}
}

// Validate checks every field against its declared domain.
func (c ConnectionConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.Port) == "":
		return validationError("config", fmt.Errorf("%w: port name is required", ErrInvalidConfig))
	case c.BaudRate <= 0:
		return validationError("config", fmt.Errorf("%w: %d", ErrInvalidBaudRate, c.BaudRate))
	case c.DataBits < 5 || c.DataBits > 8:
		return validationError("config", fmt.Errorf("%w: data bits %d", ErrInvalidConfig, c.DataBits))
	case c.StopBits != 1 && c.StopBits != 2:
		return validationError("config", fmt.Errorf("%w: stop bits %d", ErrInvalidConfig, c.StopBits))
	case c.Parity < ParityNone || c.Parity > ParityEven:
		return validationError("config", fmt.Errorf("%w: %s", ErrInvalidConfig, c.Parity))
	}
	return nil
}

// Frame renders the framing as 8N1 notation.
func (c ConnectionConfig) Frame() string {
	return fmt.Sprintf("%d%s%d", c.DataBits, c.Parity.Short(), c.StopBits)
}

func (c ConnectionConfig) String() string {
	return fmt.Sprintf("%s @ %d %s", c.Port, c.BaudRate, c.Frame())
}
