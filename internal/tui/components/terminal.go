package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	serial "github.com/hellototoro/xtools"
)

// Terminal shows the rendered entry log in a scrollable viewport.
type Terminal struct {
	viewport   viewport.Model
	formatter  *DataFormatter
	data       []string
	autoScroll bool
}

func NewTerminal(width, height int, mode DisplayMode, autoScroll bool) *Terminal {
	return &Terminal{
		viewport:   viewport.New(width, height),
		formatter:  NewDataFormatter(mode),
		autoScroll: autoScroll,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) Width() int {
	return t.viewport.Width
}

func (t *Terminal) AddEntries(entries ...serial.DataEntry) {
	if len(entries) == 0 {
		return
	}
	t.data = append(t.data, t.formatter.FormatEntries(entries)...)
	t.refresh()
}

// AddNotice appends a styled line that is not part of the entry log.
func (t *Terminal) AddNotice(line string) {
	t.data = append(t.data, line)
	t.refresh()
}

// Rerender rebuilds the view from entries, e.g. after a display toggle.
func (t *Terminal) Rerender(entries []serial.DataEntry) {
	t.data = t.formatter.FormatEntries(entries)
	t.refresh()
}

func (t *Terminal) Clear() {
	t.data = nil
	t.viewport.SetContent("")
	t.viewport.GotoTop()
}

func (t *Terminal) Lines() []string {
	return t.data
}

func (t *Terminal) refresh() {
	t.viewport.SetContent(strings.Join(t.data, "\n"))
	if t.autoScroll {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) DisplayMode() DisplayMode {
	return t.formatter.GetDisplayMode()
}

func (t *Terminal) ToggleHex() {
	t.formatter.ToggleHex()
}

func (t *Terminal) ToggleTimestamp() {
	t.formatter.ToggleTimestamp()
}

func (t *Terminal) AutoScroll() bool {
	return t.autoScroll
}

func (t *Terminal) SetAutoScroll(on bool) {
	t.autoScroll = on
	if on {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) GotoTop() {
	t.viewport.GotoTop()
}

func (t *Terminal) GotoBottom() {
	t.viewport.GotoBottom()
}

func (t *Terminal) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Key messages are handled by the parent so the viewport cannot consume
	// normal-mode bindings.
	switch msg.(type) {
	case tea.WindowSizeMsg, tea.MouseMsg:
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return t.viewport, cmd
	default:
		return t.viewport, nil
	}
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
