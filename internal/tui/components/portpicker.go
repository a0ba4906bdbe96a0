package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/tui/styles"
)

const (
	columnKeyName = "name"
	columnKeyDesc = "description"
	columnKeyUSB  = "usb"
)

// PortPicker lists enumerated ports and reports the highlighted one.
type PortPicker struct {
	table table.Model
	ports []serial.PortInfo
	err   error
}

func NewPortPicker() *PortPicker {
	pp := &PortPicker{}
	pp.SetPorts(nil, nil)
	return pp
}

// SetPorts rebuilds the table. err is the enumeration failure to show, if any.
func (pp *PortPicker) SetPorts(ports []serial.PortInfo, err error) {
	pp.ports = ports
	pp.err = err

	rows := make([]table.Row, 0, len(ports))
	for _, p := range ports {
		usb := ""
		if p.IsUSB {
			usb = p.VendorID + ":" + p.ProductID
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyName: p.Name,
			columnKeyDesc: p.Description,
			columnKeyUSB:  usb,
		}))
	}

	pp.table = table.New([]table.Column{
		table.NewColumn(columnKeyName, "Port", 20),
		table.NewColumn(columnKeyDesc, "Description", 40),
		table.NewColumn(columnKeyUSB, "VID:PID", 11),
	}).
		WithRows(rows).
		BorderRounded().
		HighlightStyle(lipgloss.NewStyle().Foreground(styles.Base).Background(styles.Mauve)).
		Focused(true)
}

func (pp *PortPicker) Len() int {
	return len(pp.ports)
}

// Selected returns the highlighted port name.
func (pp *PortPicker) Selected() (string, bool) {
	if len(pp.ports) == 0 {
		return "", false
	}
	name, ok := pp.table.HighlightedRow().Data[columnKeyName].(string)
	return name, ok && name != ""
}

func (pp *PortPicker) Update(msg tea.Msg) (*PortPicker, tea.Cmd) {
	var cmd tea.Cmd
	pp.table, cmd = pp.table.Update(msg)
	return pp, cmd
}

func (pp *PortPicker) View() string {
	title := styles.TitleStyle.Render("Select a serial port")
	hint := styles.MutedStyle.Render("↑/↓ move • enter connect • esc cancel")

	var body string
	switch {
	case pp.err != nil:
		body = styles.ErrorStyle.Render("Port enumeration failed: " + pp.err.Error())
	case len(pp.ports) == 0:
		body = styles.InfoStyle.Render("No serial ports found")
	default:
		body = pp.table.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, hint)
}
