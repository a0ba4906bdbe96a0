// Package settings persists the application configuration and writes saved
// session logs. Persistence failures are reported as IOError and never stop
// the caller: a store that cannot be read falls back to defaults.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/logging"
)

const (
	DefaultPollInterval = 50 * time.Millisecond
	appDirName          = "xtools"
)

// SerialConfig holds the connection defaults and send preferences.
type SerialConfig struct {
	Port          string        `mapstructure:"port"`
	BaudRate      int           `mapstructure:"baud_rate"`
	DataBits      int           `mapstructure:"data_bits"`
	StopBits      int           `mapstructure:"stop_bits"`
	Parity        string        `mapstructure:"parity"`
	HexMode       bool          `mapstructure:"hex_mode"`
	AppendNewline bool          `mapstructure:"append_newline"`
	Newline       string        `mapstructure:"newline"`
	Encoding      string        `mapstructure:"encoding"`
	Driver        string        `mapstructure:"driver"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	AutoScroll    bool `mapstructure:"auto_scroll"`
	ShowTimestamp bool `mapstructure:"show_timestamp"`
	ShowHex       bool `mapstructure:"show_hex"`
}

// AppConfig is everything persisted in config.json.
type AppConfig struct {
	Serial  SerialConfig   `mapstructure:"serial"`
	Display DisplayConfig  `mapstructure:"display"`
	Logging logging.Config `mapstructure:"logging"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() AppConfig {
	return AppConfig{
		Serial: SerialConfig{
			BaudRate:     serial.DefaultBaudRate,
			DataBits:     8,
			StopBits:     1,
			Parity:       serial.ParityNone.String(),
			Newline:      "crlf",
			Encoding:     serial.DefaultEncoding,
			Driver:       string(serial.DriverPortable),
			ReadTimeout:  serial.DefaultReadTimeout,
			PollInterval: DefaultPollInterval,
		},
		Display: DisplayConfig{
			AutoScroll:    true,
			ShowTimestamp: true,
		},
		Logging: logging.Config{
			Level:      "info",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Connection builds a connection config for port from the saved framing.
func (c SerialConfig) Connection(port string, baud int) (serial.ConnectionConfig, error) {
	parity, err := serial.ParseParity(c.Parity)
	if err != nil {
		return serial.ConnectionConfig{}, serial.NewError(serial.KindValidation, "config", err)
	}
	return serial.NewConfig(port,
		serial.WithBaudRate(baud),
		serial.WithDataBits(c.DataBits),
		serial.WithStopBits(c.StopBits),
		serial.WithParity(parity),
	)
}

// NewlineBytes returns the line terminator appended to text sends, or ""
// when append_newline is off.
func (c SerialConfig) NewlineBytes() string {
	if !c.AppendNewline {
		return ""
	}
	return newlines[c.Newline]
}

var newlines = map[string]string{
	"crlf": "\r\n",
	"lf":   "\n",
	"cr":   "\r",
}

// Validate checks every field that has a restricted domain.
func (c AppConfig) Validate() error {
	s := c.Serial
	if _, err := s.Connection("validate", s.BaudRate); err != nil {
		return err
	}
	if _, ok := newlines[s.Newline]; !ok {
		return validationError(fmt.Errorf("%w: newline %q (valid: crlf, lf, cr)", serial.ErrInvalidConfig, s.Newline))
	}
	if _, err := serial.NewTextDecoder(s.Encoding); err != nil {
		return err
	}
	if _, err := serial.ParseDriver(s.Driver); err != nil {
		return err
	}
	if s.ReadTimeout < 0 || s.PollInterval < 0 {
		return validationError(fmt.Errorf("%w: negative interval", serial.ErrInvalidConfig))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return validationError(fmt.Errorf("%w: %v", serial.ErrInvalidConfig, err))
	}
	return nil
}

// Store is the file-backed configuration collaborator.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
	cfg  AppConfig
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	for key, value := range flatten(Defaults()) {
		v.SetDefault(key, value)
	}
	return v
}

// Open loads path. A missing file yields defaults and no error; an
// unreadable or invalid file yields defaults and an IOError the caller
// should show as a warning. The returned store is always usable.
func Open(path string) (*Store, error) {
	s := &Store{v: newViper(path), path: path, cfg: Defaults()}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, ioError("load config", err)
	}

	if err := s.v.ReadInConfig(); err != nil {
		s.v = newViper(path)
		return s, ioError("load config", err)
	}

	var cfg AppConfig
	if err := s.v.Unmarshal(&cfg); err != nil {
		s.v = newViper(path)
		return s, ioError("load config", err)
	}
	if err := cfg.Validate(); err != nil {
		s.v = newViper(path)
		return s, ioError("load config", err)
	}
	s.cfg = cfg
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the current configuration.
func (s *Store) Get() AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Save validates cfg, keeps it in memory and writes it to disk. A write
// failure returns an IOError but the in-memory value is still updated.
func (s *Store) Save(cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return s.write()
}

// Update applies fn to a copy of the configuration and saves the result.
func (s *Store) Update(fn func(*AppConfig)) error {
	cfg := s.Get()
	fn(&cfg)
	return s.Save(cfg)
}

func (s *Store) write() error {
	for key, value := range flatten(s.cfg) {
		s.v.Set(key, value)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return ioError("save config", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return ioError("save config", err)
	}
	return nil
}

func flatten(c AppConfig) map[string]any {
	return map[string]any{
		"serial.port":            c.Serial.Port,
		"serial.baud_rate":       c.Serial.BaudRate,
		"serial.data_bits":       c.Serial.DataBits,
		"serial.stop_bits":       c.Serial.StopBits,
		"serial.parity":          c.Serial.Parity,
		"serial.hex_mode":        c.Serial.HexMode,
		"serial.append_newline":  c.Serial.AppendNewline,
		"serial.newline":         c.Serial.Newline,
		"serial.encoding":        c.Serial.Encoding,
		"serial.driver":          c.Serial.Driver,
		"serial.read_timeout":    c.Serial.ReadTimeout.String(),
		"serial.poll_interval":   c.Serial.PollInterval.String(),
		"display.auto_scroll":    c.Display.AutoScroll,
		"display.show_timestamp": c.Display.ShowTimestamp,
		"display.show_hex":       c.Display.ShowHex,
		"logging.level":          c.Logging.Level,
		"logging.format":         c.Logging.Format,
		"logging.output":         c.Logging.Output,
		"logging.max_size":       c.Logging.MaxSize,
		"logging.max_backups":    c.Logging.MaxBackups,
		"logging.max_age":        c.Logging.MaxAge,
		"logging.compress":       c.Logging.Compress,
	}
}

func ioError(op string, err error) error {
	return serial.NewError(serial.KindIO, op, err)
}

func validationError(err error) error {
	return serial.NewError(serial.KindValidation, "config", err)
}
