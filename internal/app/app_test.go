package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/serialtest"
)

func newTestApp(t *testing.T) (*App, *serialtest.Opener) {
	t.Helper()
	op := &serialtest.Opener{}
	a, err := New(Options{ConfigDir: t.TempDir(), LogOutput: "stderr", LogLevel: "error", Opener: op.Open})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, op
}

func TestNew(t *testing.T) {
	a, _ := newTestApp(t)

	assert.Empty(t, a.Warnings)
	assert.False(t, a.Manager.IsConnected())
	assert.Equal(t, "utf-8", a.Manager.Decoder().Name())
	assert.Equal(t, filepath.Join(a.Paths.Dir, "config.json"), a.Settings.Path())
}

func TestNewCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("]]"), 0o644))

	a, err := New(Options{ConfigDir: dir, LogOutput: "stderr"})
	require.NoError(t, err)
	defer a.Close()

	require.Len(t, a.Warnings, 1)
	assert.Equal(t, serial.KindIO, serial.KindOf(a.Warnings[0]))
}

func TestConnectRemembersBaud(t *testing.T) {
	a, op := newTestApp(t)

	cfg, err := a.Connect("COM3", 9600)
	require.NoError(t, err)
	assert.Equal(t, 9600, cfg.BaudRate)
	require.NoError(t, a.Manager.Disconnect())

	cfg, err = a.Connect("COM4", 0)
	require.NoError(t, err)
	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, "COM4", a.Settings.Get().Serial.Port)
	assert.Len(t, op.Opened, 2)
}

func TestConnectFailureKeepsSettings(t *testing.T) {
	a, op := newTestApp(t)
	op.Err = serial.ErrDeviceNotFound

	_, err := a.Connect("COM9", 57600)
	assert.ErrorIs(t, err, serial.ErrDeviceNotFound)
	assert.Equal(t, serial.DefaultBaudRate, a.Settings.Get().Serial.BaudRate)
}

func TestCloseDisconnects(t *testing.T) {
	a, op := newTestApp(t)
	_, err := a.Connect("COM3", 0)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	assert.True(t, op.Last().Closed())
	assert.False(t, a.Manager.IsConnected())
}

func TestApplyEncoding(t *testing.T) {
	a, _ := newTestApp(t)

	require.NoError(t, a.ApplyEncoding("latin1"))
	assert.Equal(t, "latin1", a.Manager.Decoder().Name())
	assert.Error(t, a.ApplyEncoding("klingon"))
}
