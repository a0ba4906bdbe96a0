// Package app wires the process-wide context shared by the command line and
// interactive front-ends.
package app

import (
	"go.uber.org/zap"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/logging"
	"github.com/hellototoro/xtools/internal/settings"
)

// Options override values normally taken from the config file.
type Options struct {
	ConfigDir string
	LogLevel  string
	LogOutput string

	// Opener replaces the configured device driver.
	Opener serial.Opener
}

// App is constructed once per process and passed to every front-end.
// Manager is the only owner of the device handle.
type App struct {
	Paths    settings.Paths
	Settings *settings.Store
	Logger   *zap.Logger
	Manager  *serial.Manager

	// Warnings collects recoverable startup failures (unreadable config,
	// unusable log file) for the front-end to show.
	Warnings []error
}

// New loads settings, builds the logger and the connection manager.
func New(opts Options) (*App, error) {
	paths, err := resolvePaths(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	a := &App{Paths: paths}

	store, err := settings.Open(paths.Config)
	if err != nil {
		a.Warnings = append(a.Warnings, err)
	}
	a.Settings = store
	cfg := store.Get()

	logCfg := cfg.Logging
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	if opts.LogOutput != "" {
		logCfg.Output = opts.LogOutput
	}
	if logCfg.Output == "" {
		logCfg.Output = paths.Log
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		a.Warnings = append(a.Warnings, serial.NewError(serial.KindIO, "logger", err))
		logger = zap.NewNop()
	}
	a.Logger = logger

	driver, err := serial.ParseDriver(cfg.Serial.Driver)
	if err != nil {
		a.Warnings = append(a.Warnings, err)
		driver = serial.DriverPortable
	}
	decoder, err := serial.NewTextDecoder(cfg.Serial.Encoding)
	if err != nil {
		a.Warnings = append(a.Warnings, err)
	}

	a.Manager = serial.NewManager(
		serial.WithDriver(driver),
		serial.WithOpener(opts.Opener),
		serial.WithReadTimeout(cfg.Serial.ReadTimeout),
		serial.WithDecoder(decoder),
		serial.WithLogger(logger.Named("serial")),
	)

	logger.Debug("Application context ready",
		zap.String("config", paths.Config),
		zap.String("driver", string(driver)),
		zap.String("encoding", decoder.Name()),
		zap.Int("warnings", len(a.Warnings)),
	)
	return a, nil
}

func resolvePaths(dir string) (settings.Paths, error) {
	if dir != "" {
		return settings.PathsIn(dir), nil
	}
	return settings.DefaultPaths()
}

// Connect opens port at baud with the saved framing. baud <= 0 uses the
// last successful rate. On success port and baud are remembered.
func (a *App) Connect(port string, baud int) (serial.ConnectionConfig, error) {
	sc := a.Settings.Get().Serial
	if baud <= 0 {
		baud = sc.BaudRate
	}
	cfg, err := sc.Connection(port, baud)
	if err != nil {
		return serial.ConnectionConfig{}, err
	}
	if err := a.Manager.Connect(cfg); err != nil {
		return serial.ConnectionConfig{}, err
	}

	err = a.Settings.Update(func(c *settings.AppConfig) {
		c.Serial.Port = port
		c.Serial.BaudRate = baud
	})
	if err != nil {
		a.Logger.Warn("Failed to remember connection settings", zap.Error(err))
	}
	return cfg, nil
}

// ApplyEncoding switches the charset used for entry text.
func (a *App) ApplyEncoding(name string) error {
	d, err := serial.NewTextDecoder(name)
	if err != nil {
		return err
	}
	a.Manager.SetDecoder(d)
	return nil
}

// Close releases the device if it is still open and flushes the log.
func (a *App) Close() error {
	if a.Manager != nil && a.Manager.IsConnected() {
		if err := a.Manager.Disconnect(); err != nil {
			a.Logger.Warn("Disconnect on shutdown failed", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
	return nil
}
