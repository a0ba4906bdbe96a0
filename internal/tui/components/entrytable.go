package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/tui/styles"
)

// EntryTable browses the entry log row by row in visual mode.
type EntryTable struct {
	table   table.Model
	entries []serial.DataEntry
}

func NewEntryTable(width, height int) *EntryTable {
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(entryColumns(width)),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Text)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Surface1).
		Bold(false)
	t.SetStyles(s)

	return &EntryTable{table: t}
}

// entryColumns keeps the fixed columns stable and splits the rest 60/40
// between text and hex.
func entryColumns(width int) []table.Column {
	if width < 80 {
		width = 80
	}
	const (
		timeWidth  = 14
		dirWidth   = 3
		bytesWidth = 6
	)
	remaining := width - timeWidth - dirWidth - bytesWidth - 10
	if remaining < 30 {
		remaining = 30
	}
	textWidth := remaining * 6 / 10
	return []table.Column{
		{Title: "Time", Width: timeWidth},
		{Title: "↕", Width: dirWidth},
		{Title: "Text", Width: textWidth},
		{Title: "Hex", Width: remaining - textWidth},
		{Title: "Bytes", Width: bytesWidth},
	}
}

func (et *EntryTable) SetSize(width, height int) {
	et.table.SetColumns(entryColumns(width))
	et.table.SetHeight(height)
	et.table.SetWidth(width)
	et.table.UpdateViewport()
}

// SetEntries replaces the rows and moves the cursor to the newest entry.
func (et *EntryTable) SetEntries(entries []serial.DataEntry) {
	et.entries = entries
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = entryRow(e)
	}
	et.table.SetRows(rows)
	if len(rows) > 0 {
		et.table.SetCursor(len(rows) - 1)
	}
}

func entryRow(e serial.DataEntry) table.Row {
	dir := "↙"
	if e.Direction == serial.DirectionTX {
		dir = "↗"
	}
	return table.Row{
		e.Timestamp.Format(serial.TimestampLayout),
		dir,
		printable(strings.TrimRight(e.Text, "\r\n")),
		e.Hex,
		strconv.Itoa(byteCount(e.Hex)),
	}
}

func byteCount(hex string) int {
	if hex == "" {
		return 0
	}
	return strings.Count(hex, " ") + 1
}

// Selected returns the entry under the cursor.
func (et *EntryTable) Selected() (serial.DataEntry, bool) {
	i := et.table.Cursor()
	if i < 0 || i >= len(et.entries) {
		return serial.DataEntry{}, false
	}
	return et.entries[i], true
}

func (et *EntryTable) Focus() {
	et.table.Focus()
}

func (et *EntryTable) Blur() {
	et.table.Blur()
}

func (et *EntryTable) GotoTop() {
	et.table.GotoTop()
}

func (et *EntryTable) GotoBottom() {
	et.table.GotoBottom()
}

func (et *EntryTable) Update(msg tea.Msg) (*EntryTable, tea.Cmd) {
	var cmd tea.Cmd
	et.table, cmd = et.table.Update(msg)
	return et, cmd
}

func (et *EntryTable) View() string {
	return et.table.View()
}
