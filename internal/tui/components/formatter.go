package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/tui/styles"
)

// DisplayMode selects the optional parts of a rendered entry.
type DisplayMode struct {
	ShowHex       bool
	ShowTimestamp bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(mode DisplayMode) *DataFormatter {
	return &DataFormatter{mode: mode}
}

func (df *DataFormatter) SetDisplayMode(mode DisplayMode) {
	df.mode = mode
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

// FormatEntry renders e with a colored direction indicator. Control
// characters in the text are shown as dots so they cannot reach the terminal.
func (df *DataFormatter) FormatEntry(e serial.DataEntry) string {
	var indicator string
	if e.Direction == serial.DirectionTX {
		indicator = lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true).
			Render("↗ TX")
	} else {
		indicator = lipgloss.NewStyle().
			Foreground(styles.Sky).
			Bold(true).
			Render("↙ RX")
	}

	var parts []string
	if df.mode.ShowTimestamp {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			Render(fmt.Sprintf("[%s]", e.Timestamp.Format(serial.TimestampLayout))))
	}
	parts = append(parts, indicator+":", printable(strings.TrimRight(e.Text, "\r\n")))
	if df.mode.ShowHex && e.Hex != "" {
		parts = append(parts, styles.MutedStyle.Render("["+e.Hex+"]"))
	}
	return strings.Join(parts, " ")
}

func (df *DataFormatter) FormatEntries(entries []serial.DataEntry) []string {
	formatted := make([]string, len(entries))
	for i, e := range entries {
		formatted[i] = df.FormatEntry(e)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleTimestamp() {
	df.mode.ShowTimestamp = !df.mode.ShowTimestamp
}

func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '.'
		}
		return r
	}, s)
}
