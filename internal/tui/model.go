// Package tui is the interactive full-screen client. It polls the shared
// connection manager on a fixed interval and never touches the device
// directly.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/app"
	"github.com/hellototoro/xtools/internal/settings"
	"github.com/hellototoro/xtools/internal/tui/components"
	"github.com/hellototoro/xtools/internal/tui/keys"
	"github.com/hellototoro/xtools/internal/tui/models"
	"github.com/hellototoro/xtools/internal/tui/styles"
)

type (
	tickMsg time.Time

	pollMsg struct {
		entries []serial.DataEntry
		err     error
	}

	portsMsg struct {
		ports []serial.PortInfo
		err   error
	}

	connectMsg struct {
		cfg serial.ConnectionConfig
		err error
	}

	sentMsg struct {
		input string
		entry serial.DataEntry
		err   error
	}
)

// Model is the bubbletea model of the interactive client.
type Model struct {
	*models.Session

	app       *app.App
	terminal  *components.Terminal
	entries   *components.EntryTable
	picker    *components.PortPicker
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.AppKeys

	interval  time.Duration
	listPorts func() ([]serial.PortInfo, error)
	now       func() time.Time
}

// New builds the client over a. When no connection is open it starts in
// the port picker.
func New(a *app.App) *Model {
	cfg := a.Settings.Get()

	sendMode := components.SendingModeASCII
	if cfg.Serial.HexMode {
		sendMode = components.SendingModeHex
	}

	m := &Model{
		Session: models.NewSession(),
		app:     a,
		terminal: components.NewTerminal(0, 0, components.DisplayMode{
			ShowHex:       cfg.Display.ShowHex,
			ShowTimestamp: cfg.Display.ShowTimestamp,
		}, cfg.Display.AutoScroll),
		entries:   components.NewEntryTable(80, 5),
		picker:    components.NewPortPicker(),
		statusBar: components.NewStatusBar(),
		input:     components.NewInput(sendMode),
		help:      help.New(),
		keys:      keys.NewAppKeys(),
		interval:  cfg.Serial.PollInterval,
		listPorts: serial.ListPorts,
		now:       time.Now,
	}
	if m.interval <= 0 {
		m.interval = settings.DefaultPollInterval
	}
	m.statusBar.SetEncoding(a.Manager.Decoder().Name())

	if _, conn := a.Manager.Status(); conn != nil {
		m.statusBar.SetConnected(*conn)
	} else {
		m.SetInputMode(models.InputModePorts)
	}
	for _, w := range a.Warnings {
		m.notice(styles.StatusConnectingStyle, "Warning: "+w.Error())
	}
	return m
}

// Run shows the client until the user quits or ctx is done.
func Run(ctx context.Context, a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.loadPorts)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) poll() tea.Msg {
	entries, err := m.app.Manager.ReadAvailable()
	return pollMsg{entries: entries, err: err}
}

func (m *Model) loadPorts() tea.Msg {
	ports, err := m.listPorts()
	return portsMsg{ports: ports, err: err}
}

func (m *Model) connect(port string) tea.Cmd {
	return func() tea.Msg {
		if m.app.Manager.IsConnected() {
			if err := m.app.Manager.Disconnect(); err != nil {
				return connectMsg{err: err}
			}
		}
		cfg, err := m.app.Connect(port, 0)
		return connectMsg{cfg: cfg, err: err}
	}
}

func (m *Model) send(input string, mode components.SendingMode) tea.Cmd {
	hexMode := mode == components.SendingModeHex
	payload := input
	if !hexMode {
		payload += m.app.Settings.Get().Serial.NewlineBytes()
	}
	return func() tea.Msg {
		entry, err := m.app.Manager.Send(payload, hexMode)
		return sentMsg{input: input, entry: entry, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Input area (with border), status bar and content border.
		verticalMargin := 3 + 1 + 1
		height := msg.Height - verticalMargin
		if height < 1 {
			height = 1
		}
		m.terminal.SetSize(msg.Width, height)
		m.entries.SetSize(msg.Width, height)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.SetReady(true)

	case tickMsg:
		if m.app.Manager.IsConnected() {
			return m, m.poll
		}
		return m, m.tick()

	case pollMsg:
		m.handlePoll(msg)
		return m, m.tick()

	case portsMsg:
		m.picker.SetPorts(msg.ports, msg.err)
		if msg.err != nil {
			m.app.Logger.Warn("Port enumeration failed", zap.Error(msg.err))
		}
		return m, nil

	case connectMsg:
		m.handleConnect(msg)
		return m, nil

	case sentMsg:
		m.handleSent(msg)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.GetInputMode() {
	case models.InputModeInsert:
		m.input, cmd = m.input.Update(msg)
	case models.InputModePorts:
		m.picker, cmd = m.picker.Update(msg)
	case models.InputModeVisual:
		m.entries, cmd = m.entries.Update(msg)
	}
	cmds = append(cmds, cmd)

	if _, ok := msg.(tea.MouseMsg); ok {
		_, cmd = m.terminal.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey applies mode-specific bindings. Unhandled keys fall through to
// the focused component.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.GetInputMode() {
	case models.InputModeInsert:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.SetInputMode(models.InputModeNormal)
			m.input.Blur()
		case key.Matches(msg, m.keys.Enter):
			value := m.input.Value()
			if value == "" {
				return nil, true
			}
			return m.send(value, m.input.GetSendingMode()), true
		case key.Matches(msg, m.keys.Up):
			m.input.NavigateHistoryUp()
		case key.Matches(msg, m.keys.Down):
			m.input.NavigateHistoryDown()
		case key.Matches(msg, m.keys.ToggleSendMode):
			m.input.ToggleSendingMode()
		case msg.Type == tea.KeyCtrlC:
			return m.quit(), true
		default:
			return nil, false
		}
		return nil, true

	case models.InputModePorts:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.SetInputMode(models.InputModeNormal)
		case key.Matches(msg, m.keys.Enter):
			port, ok := m.picker.Selected()
			if !ok {
				return nil, true
			}
			m.statusBar.SetConnecting(port)
			return m.connect(port), true
		case key.Matches(msg, m.keys.Quit):
			return m.quit(), true
		default:
			return nil, false
		}
		return nil, true

	case models.InputModeVisual:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.VisualMode):
			m.entries.Blur()
			m.SetInputMode(models.InputModeNormal)
		case key.Matches(msg, m.keys.GotoTop):
			m.entries.GotoTop()
		case key.Matches(msg, m.keys.GotoBottom):
			m.entries.GotoBottom()
		case key.Matches(msg, m.keys.Quit):
			return m.quit(), true
		default:
			return nil, false
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true
	case key.Matches(msg, m.keys.InsertMode):
		m.SetInputMode(models.InputModeInsert)
		return m.input.Focus(), true
	case key.Matches(msg, m.keys.Ports):
		m.SetInputMode(models.InputModePorts)
		return m.loadPorts, true
	case key.Matches(msg, m.keys.Disconnect):
		m.disconnect()
	case key.Matches(msg, m.keys.Clear):
		m.clear()
	case key.Matches(msg, m.keys.SaveLog):
		m.saveLog()
	case key.Matches(msg, m.keys.ToggleHex):
		m.terminal.ToggleHex()
		m.terminal.Rerender(m.Entries())
		m.persistDisplay()
	case key.Matches(msg, m.keys.ToggleTime):
		m.terminal.ToggleTimestamp()
		m.terminal.Rerender(m.Entries())
		m.persistDisplay()
	case key.Matches(msg, m.keys.ToggleScroll):
		m.terminal.SetAutoScroll(!m.terminal.AutoScroll())
		m.persistDisplay()
	case key.Matches(msg, m.keys.VisualMode):
		m.entries.SetEntries(m.Entries())
		m.entries.Focus()
		m.SetInputMode(models.InputModeVisual)
	case key.Matches(msg, m.keys.GotoTop):
		m.terminal.GotoTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.terminal.GotoBottom()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) handlePoll(msg pollMsg) {
	if len(msg.entries) > 0 {
		m.AddEntries(msg.entries...)
		m.terminal.AddEntries(msg.entries...)
	}
	switch {
	case msg.err == nil:
		m.PollSucceeded()
	case errors.Is(msg.err, serial.ErrNotConnected):
		// Disconnected between tick and poll.
	default:
		if m.PollFailed() {
			m.app.Logger.Warn("Serial read failed", zap.Error(msg.err))
			m.reportError(msg.err)
		}
	}
}

func (m *Model) handleConnect(msg connectMsg) {
	if msg.err != nil {
		m.statusBar.SetDisconnected(msg.err)
		m.notice(styles.ErrorStyle, "Error: "+msg.err.Error())
		return
	}
	m.clear()
	m.PollSucceeded()
	m.SetError(nil)
	m.statusBar.SetConnected(msg.cfg)
	m.SetInputMode(models.InputModeNormal)
	m.notice(styles.StatusConnectedStyle, "Connected to "+msg.cfg.String())
}

func (m *Model) handleSent(msg sentMsg) {
	if msg.err != nil {
		m.reportError(msg.err)
		return
	}
	m.AddEntries(msg.entry)
	m.terminal.AddEntries(msg.entry)
	m.input.AddToHistory(msg.input)
	if m.input.Value() == msg.input {
		m.input.SetValue("")
	}
	m.SetError(nil)
	m.statusBar.SetError(nil)
}

func (m *Model) disconnect() {
	_, cfg := m.app.Manager.Status()
	if err := m.app.Manager.Disconnect(); err != nil {
		m.reportError(err)
		return
	}
	m.statusBar.SetDisconnected(nil)
	m.notice(styles.StatusDisconnectedStyle, "Disconnected from "+cfg.Port)
}

func (m *Model) clear() {
	m.ClearData()
	m.terminal.Clear()
	m.entries.SetEntries(nil)
}

func (m *Model) saveLog() {
	name := fmt.Sprintf("xtools-%s.txt", m.now().Format("20060102-150405"))
	path := filepath.Join(m.app.Paths.Dir, "logs", name)
	content := m.Log().Format(serial.FormatOptions{
		ShowTimestamp: true,
		ShowHex:       m.terminal.DisplayMode().ShowHex,
	})
	if err := settings.SaveLog(path, content); err != nil {
		m.reportError(err)
		return
	}
	m.app.Logger.Info("Log saved", zap.String("path", path), zap.Int("entries", m.Log().Len()))
	m.notice(styles.InfoStyle, "Log saved to "+path)
}

func (m *Model) persistDisplay() {
	mode := m.terminal.DisplayMode()
	autoScroll := m.terminal.AutoScroll()
	err := m.app.Settings.Update(func(c *settings.AppConfig) {
		c.Display.ShowHex = mode.ShowHex
		c.Display.ShowTimestamp = mode.ShowTimestamp
		c.Display.AutoScroll = autoScroll
	})
	if err != nil {
		m.reportError(err)
	}
}

func (m *Model) quit() tea.Cmd {
	if m.app.Manager.IsConnected() {
		if err := m.app.Manager.Disconnect(); err != nil {
			m.app.Logger.Warn("Disconnect on quit failed", zap.Error(err))
		}
	}
	return tea.Quit
}

func (m *Model) reportError(err error) {
	m.SetError(err)
	m.statusBar.SetError(err)
	m.notice(styles.ErrorStyle, "Error: "+err.Error())
}

func (m *Model) notice(style lipgloss.Style, text string) {
	m.terminal.AddNotice(style.Render(text))
}

func (m *Model) View() string {
	if !m.IsReady() {
		return "Initializing..."
	}

	var content string
	switch m.GetInputMode() {
	case models.InputModePorts:
		content = m.picker.View()
	case models.InputModeVisual:
		content = m.entries.View()
	default:
		content = m.terminal.View()
	}

	mode := m.GetInputMode().String()
	statusBar := m.statusBar.View(mode, m.input.GetSendingMode().String(), m.now().Format("15:04:05"))

	parts := []string{
		styles.ContentBorderStyle.Render(content),
		m.input.ViewWithMode(m.IsInInsertMode()),
		statusBar,
	}
	if m.help.ShowAll {
		parts = append(parts, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
