package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/app"
	"github.com/hellototoro/xtools/internal/serialtest"
	"github.com/hellototoro/xtools/internal/tui/components"
	"github.com/hellototoro/xtools/internal/tui/models"
)

type fixture struct {
	app    *app.App
	opener *serialtest.Opener
	model  *Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	op := &serialtest.Opener{}
	a, err := app.New(app.Options{ConfigDir: t.TempDir(), LogOutput: "stderr", LogLevel: "error", Opener: op.Open})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	m := New(a)
	m.listPorts = func() ([]serial.PortInfo, error) {
		return []serial.PortInfo{
			{Name: "COM3", Description: "USB Serial Device", IsUSB: true, VendorID: "10C4", ProductID: "EA60"},
			{Name: "COM4", Description: "Communications Port"},
		}, nil
	}
	m.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return &fixture{app: a, opener: op, model: m}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key. Commands are only run by pressRun so cursor blink
// timers never fire in tests.
func (f *fixture) press(s string) tea.Cmd {
	_, cmd := f.model.Update(keyPress(s))
	return cmd
}

// pressRun sends a key and feeds the message of the returned command back
// into the model.
func (f *fixture) pressRun(s string) {
	if cmd := f.press(s); cmd != nil {
		if msg := cmd(); msg != nil {
			f.model.Update(msg)
		}
	}
}

func (f *fixture) connect(t *testing.T) *serialtest.Device {
	t.Helper()
	f.model.Update(f.model.loadPorts())
	f.pressRun("enter")
	require.True(t, f.app.Manager.IsConnected())
	return f.opener.Last()
}

func (f *fixture) poll() {
	_, cmd := f.model.Update(tickMsg(time.Now()))
	if f.app.Manager.IsConnected() {
		f.model.Update(cmd())
	}
}

func (f *fixture) screen() string {
	return strings.Join(f.model.terminal.Lines(), "\n")
}

func TestStartsInPortPicker(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, models.InputModePorts, f.model.GetInputMode())

	f.model.Update(f.model.loadPorts())
	assert.Equal(t, 2, f.model.picker.Len())
	assert.Contains(t, f.model.View(), "COM3")
}

func TestPickPortConnects(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	require.Len(t, f.opener.Opened, 1)
	assert.Equal(t, "COM3", f.opener.Opened[0].Port)
	assert.Equal(t, serial.DefaultBaudRate, f.opener.Opened[0].BaudRate)
	assert.Equal(t, models.InputModeNormal, f.model.GetInputMode())
	assert.Equal(t, "Connected", f.model.statusBar.Status())
	assert.Contains(t, f.screen(), "Connected to COM3 @ 115200 8N1")
	assert.Equal(t, "COM3", f.app.Settings.Get().Serial.Port)
}

func TestPickPortConnectFailure(t *testing.T) {
	f := newFixture(t)
	f.opener.Err = errors.New("access denied")
	f.model.Update(f.model.loadPorts())
	f.pressRun("enter")

	assert.False(t, f.app.Manager.IsConnected())
	assert.Error(t, f.model.statusBar.Err())
	assert.Contains(t, f.screen(), "access denied")
}

func TestPortEnumerationFailure(t *testing.T) {
	f := newFixture(t)
	f.model.listPorts = func() ([]serial.PortInfo, error) {
		return nil, serial.NewError(serial.KindDevice, "list", serial.ErrEnumerationFailure)
	}
	f.model.Update(f.model.loadPorts())

	assert.Contains(t, f.model.View(), "Port enumeration failed")
	f.pressRun("enter")
	assert.Empty(t, f.opener.Opened)
}

func TestSendASCIIAppendsNewline(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Settings.SetValue("append_newline", "true"))
	dev := f.connect(t)

	f.press("i")
	assert.True(t, f.model.IsInInsertMode())
	f.model.input.SetValue("AT")
	f.pressRun("enter")

	assert.Equal(t, "AT\r\n", dev.Written())
	require.Len(t, f.model.Entries(), 1)
	assert.Equal(t, serial.DirectionTX, f.model.Entries()[0].Direction)
	assert.Empty(t, f.model.input.Value())
	assert.Equal(t, []string{"AT"}, f.model.input.History())
	assert.Contains(t, f.screen(), "TX")
}

func TestSendHex(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Settings.SetValue("append_newline", "true"))
	dev := f.connect(t)

	f.press("i")
	f.press("tab")
	assert.Equal(t, components.SendingModeHex, f.model.input.GetSendingMode())
	f.model.input.SetValue("48 65 6C 6C 6F")
	f.pressRun("enter")

	assert.Equal(t, "Hello", dev.Written())
}

func TestSendInvalidHexKeepsInput(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)

	f.press("i")
	f.press("tab")
	f.model.input.SetValue("AB CD E")
	f.pressRun("enter")

	assert.Empty(t, dev.Written())
	assert.ErrorIs(t, f.model.statusBar.Err(), serial.ErrInvalidHex)
	assert.Equal(t, "AB CD E", f.model.input.Value())
	assert.Empty(t, f.model.Entries())
}

func TestSendNotConnected(t *testing.T) {
	f := newFixture(t)
	f.press("esc")
	f.press("i")
	f.model.input.SetValue("hi")
	f.pressRun("enter")

	assert.ErrorIs(t, f.model.Err(), serial.ErrNotConnected)
}

func TestInsertModeTypesShortcutLetters(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	f.press("i")
	f.press("q")
	assert.True(t, f.app.Manager.IsConnected())
	assert.Equal(t, "q", f.model.input.Value())

	f.press("esc")
	assert.Equal(t, models.InputModeNormal, f.model.GetInputMode())
}

func TestPollAddsEntries(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)

	dev.Queue("OK\r\n")
	f.poll()

	require.Len(t, f.model.Entries(), 1)
	assert.Equal(t, "OK\r\n", f.model.Entries()[0].Text)
	assert.Contains(t, f.screen(), "RX: OK")
}

func TestPollSkippedWhenDisconnected(t *testing.T) {
	f := newFixture(t)
	_, cmd := f.model.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Empty(t, f.model.Entries())
}

func TestPollErrorReportedOncePerStreak(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)
	dev.FailReads(errors.New("device unplugged"))

	for range 3 {
		f.poll()
	}
	assert.Equal(t, 1, strings.Count(f.screen(), "device unplugged"))
	assert.True(t, f.app.Manager.IsConnected())

	dev.FailReads(nil)
	f.poll()
	dev.FailReads(errors.New("device unplugged"))
	f.poll()
	assert.Equal(t, 2, strings.Count(f.screen(), "device unplugged"))
}

func TestClearAndSaveLog(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)
	dev.Queue("OK\r\n")
	f.poll()

	f.press("s")
	path := filepath.Join(f.app.Paths.Dir, "logs", "xtools-20240301-093000.txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RX: OK")

	f.press("c")
	assert.Empty(t, f.model.Entries())
	assert.Empty(t, f.model.terminal.Lines())
}

func TestSaveLogFailure(t *testing.T) {
	f := newFixture(t)
	f.press("esc")
	require.NoError(t, os.WriteFile(filepath.Join(f.app.Paths.Dir, "logs"), nil, 0o600))

	f.press("s")
	assert.Equal(t, serial.KindIO, serial.KindOf(f.model.Err()))
}

func TestToggleDisplayPersists(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)
	dev.Queue("OK\r\n")
	f.poll()

	f.press("h")
	assert.True(t, f.app.Settings.Get().Display.ShowHex)
	assert.Contains(t, f.screen(), "[4F 4B 0D 0A]")

	f.press("t")
	assert.False(t, f.app.Settings.Get().Display.ShowTimestamp)

	f.press("a")
	assert.False(t, f.app.Settings.Get().Display.AutoScroll)
}

func TestDisconnectKey(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)

	f.press("d")
	assert.False(t, f.app.Manager.IsConnected())
	assert.True(t, dev.Closed())
	assert.Contains(t, f.screen(), "Disconnected from COM3")

	f.press("d")
	assert.ErrorIs(t, f.model.Err(), serial.ErrNotConnected)
}

func TestReconnectClearsLog(t *testing.T) {
	f := newFixture(t)
	first := f.connect(t)
	first.Queue("boot\n")
	f.poll()
	require.Len(t, f.model.Entries(), 1)

	f.pressRun("p")
	assert.Equal(t, models.InputModePorts, f.model.GetInputMode())
	f.pressRun("enter")

	assert.True(t, first.Closed())
	assert.Len(t, f.opener.Opened, 2)
	assert.Empty(t, f.model.Entries())
}

func TestVisualMode(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)
	dev.Queue("one\n")
	f.poll()
	dev.Queue("two\n")
	f.poll()

	f.press("v")
	assert.Equal(t, models.InputModeVisual, f.model.GetInputMode())
	selected, ok := f.model.entries.Selected()
	require.True(t, ok)
	assert.Equal(t, "two\n", selected.Text)

	f.press("g")
	selected, _ = f.model.entries.Selected()
	assert.Equal(t, "one\n", selected.Text)

	f.press("esc")
	assert.Equal(t, models.InputModeNormal, f.model.GetInputMode())
}

func TestQuitDisconnects(t *testing.T) {
	f := newFixture(t)
	dev := f.connect(t)

	cmd := f.press("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, dev.Closed())
	assert.False(t, f.app.Manager.IsConnected())
}

func TestViewBeforeResize(t *testing.T) {
	op := &serialtest.Opener{}
	a, err := app.New(app.Options{ConfigDir: t.TempDir(), LogOutput: "stderr", Opener: op.Open})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "Initializing...", New(a).View())
}
