package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/tui/styles"
)

type StatusBar struct {
	status   string
	err      error
	width    int
	config   *serial.ConnectionConfig
	encoding string
}

func NewStatusBar() *StatusBar {
	return &StatusBar{status: "Disconnected"}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetEncoding(name string) {
	sb.encoding = name
}

func (sb *StatusBar) SetConnecting(port string) {
	sb.status = "Connecting to " + port + "..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected(cfg serial.ConnectionConfig) {
	sb.config = &cfg
	sb.status = "Connected"
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.config = nil
	sb.err = err
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
	} else {
		sb.status = "Disconnected"
	}
}

// SetError reports a failure without changing the connection snapshot.
func (sb *StatusBar) SetError(err error) {
	sb.err = err
}

func (sb *StatusBar) Status() string {
	return sb.status
}

func (sb *StatusBar) Err() error {
	return sb.err
}

func (sb *StatusBar) statusType() styles.StatusType {
	switch {
	case sb.err != nil:
		return styles.StatusError
	case sb.config != nil:
		return styles.StatusConnected
	case sb.status != "Disconnected":
		return styles.StatusConnecting
	default:
		return styles.StatusDisconnected
	}
}

// View renders mode, port, indicator, send mode, connection details and the
// clock in one line, nvim style.
func (sb *StatusBar) View(inputMode, sendingMode string, timestamp string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeColor := styles.Blue
	if inputMode == "INSERT" {
		modeColor = styles.Green
	} else if inputMode == "VISUAL" {
		modeColor = styles.Mauve
	}
	mode := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(modeColor).
		Bold(true).
		Padding(0, 1).
		Render(inputMode)

	portName := "no port"
	if sb.config != nil {
		portName = sb.config.Port
	}
	port := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(portName)

	symbol := "○"
	switch sb.statusType() {
	case styles.StatusError:
		symbol = "✗"
	case styles.StatusConnected:
		symbol = "●"
	}
	indicator := styles.GetStatusStyle(sb.statusType()).Render(symbol)

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{mode, port, indicator}
	if inputMode == "INSERT" {
		left = append(left, lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendingMode)))
	}
	if sb.err != nil {
		left = append(left, styles.ErrorStyle.Padding(0, 1).Render(sb.err.Error()))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	info := "⚡ serial"
	if sb.config != nil {
		info = fmt.Sprintf("⚡ %d baud %s", sb.config.BaudRate, sb.config.Frame())
	}
	if sb.encoding != "" {
		info += " " + sb.encoding
	}
	details := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Padding(0, 1).
		Render(info)
	clock := lipgloss.NewStyle().
		Foreground(styles.Subtext1).
		Padding(0, 1).
		Render(timestamp)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, clock)

	spacerWidth := width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
