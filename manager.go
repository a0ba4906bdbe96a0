package serial

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionState is the state of the single process-wide connection.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnected
)

func (s ConnectionState) String() string {
	if s == StateConnected {
		return "Connected"
	}
	return "Disconnected"
}

// Manager owns the only open device handle. All access to the handle goes
// through its methods, each of which holds the lock for exactly one call.
type Manager struct {
	mu          sync.Mutex
	opener      Opener
	readTimeout time.Duration
	decoder     TextDecoder
	logger      *zap.Logger
	now         func() time.Time

	dev     Device
	cfg     ConnectionConfig
	state   ConnectionState
	session string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithOpener replaces the device backend.
func WithOpener(o Opener) ManagerOption {
	return func(m *Manager) {
		if o != nil {
			m.opener = o
		}
	}
}

// WithDriver selects one of the built-in backends.
func WithDriver(d Driver) ManagerOption {
	return func(m *Manager) {
		m.opener = OpenerFor(d)
	}
}

// WithReadTimeout sets the per-read timeout, clamped to (0, MaxReadTimeout].
func WithReadTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		switch {
		case d <= 0:
			m.readTimeout = DefaultReadTimeout
		case d > MaxReadTimeout:
			m.readTimeout = MaxReadTimeout
		default:
			m.readTimeout = d
		}
	}
}

// WithDecoder sets the charset used for entry text.
func WithDecoder(d TextDecoder) ManagerOption {
	return func(m *Manager) {
		m.decoder = d
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now for entry timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager returns a disconnected manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		opener:      openPortable,
		readTimeout: DefaultReadTimeout,
		decoder:     TextDecoder{name: DefaultEncoding},
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect opens the device described by cfg.
func (m *Manager) Connect(cfg ConnectionConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateConnected {
		return stateError("connect", ErrAlreadyConnected)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dev, err := m.opener(cfg, m.readTimeout)
	if err != nil {
		m.logger.Warn("Failed to open serial port",
			zap.String("port", cfg.Port),
			zap.Int("baud_rate", cfg.BaudRate),
			zap.Error(err),
		)
		return deviceError("connect", err)
	}

	m.dev = dev
	m.cfg = cfg
	m.state = StateConnected
	m.session = uuid.NewString()

	m.logger.Info("Serial port opened",
		zap.String("session", m.session),
		zap.String("port", cfg.Port),
		zap.Int("baud_rate", cfg.BaudRate),
		zap.String("frame", cfg.Frame()),
		zap.Duration("read_timeout", m.readTimeout),
	)
	return nil
}

// Disconnect releases the handle. It succeeds even when the device is
// already faulted; a close failure is only logged.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConnected {
		return stateError("disconnect", ErrNotConnected)
	}

	if err := m.dev.Close(); err != nil {
		m.logger.Warn("Error closing serial port",
			zap.String("session", m.session),
			zap.Error(err),
		)
	}

	m.logger.Info("Serial port closed",
		zap.String("session", m.session),
		zap.String("port", m.cfg.Port),
	)

	m.dev = nil
	m.cfg = ConnectionConfig{}
	m.state = StateDisconnected
	m.session = ""
	return nil
}

// Status returns the state and, when connected, a copy of the config.
func (m *Manager) Status() (ConnectionState, *ConnectionConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConnected {
		return StateDisconnected, nil
	}
	cfg := m.cfg
	return m.state, &cfg
}

func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateConnected
}

// SessionID identifies the current connection, empty when disconnected.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// SetDecoder changes the charset for entries created from now on.
func (m *Manager) SetDecoder(d TextDecoder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decoder = d
}

// Decoder returns the charset in use.
func (m *Manager) Decoder() TextDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decoder
}

func (m *Manager) String() string {
	state, cfg := m.Status()
	if cfg == nil {
		return state.String()
	}
	return fmt.Sprintf("%s (%s)", state, cfg)
}
