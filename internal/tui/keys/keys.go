package keys

import "github.com/charmbracelet/bubbles/key"

// AppKeys are the bindings of the interactive client. Normal-mode bindings
// are single letters, so they are only matched while the input is blurred.
type AppKeys struct {
	Quit       key.Binding
	Help       key.Binding
	InsertMode key.Binding
	Escape     key.Binding
	Enter      key.Binding

	Up             key.Binding
	Down           key.Binding
	ToggleSendMode key.Binding

	Ports        key.Binding
	Disconnect   key.Binding
	Clear        key.Binding
	SaveLog      key.Binding
	ToggleHex    key.Binding
	ToggleTime   key.Binding
	ToggleScroll key.Binding
	VisualMode   key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding
}

func NewAppKeys() AppKeys {
	return AppKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		InsertMode: key.NewBinding(
			key.WithKeys("i", "I"),
			key.WithHelp("i", "insert mode"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "normal mode"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send / select"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous input"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next input"),
		),
		ToggleSendMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "ascii/hex"),
		),
		Ports: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pick port"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "disconnect"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear log"),
		),
		SaveLog: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save log"),
		),
		ToggleHex: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle hex"),
		),
		ToggleTime: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle timestamps"),
		),
		ToggleScroll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle autoscroll"),
		),
		VisualMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "browse entries"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
	}
}

func (k AppKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Ports, k.InsertMode, k.Help, k.Quit}
}

func (k AppKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Ports, k.Disconnect, k.InsertMode, k.Escape, k.Enter},
		{k.ToggleSendMode, k.Up, k.Down},
		{k.Clear, k.SaveLog, k.ToggleHex, k.ToggleTime, k.ToggleScroll},
		{k.VisualMode, k.GotoTop, k.GotoBottom, k.Help, k.Quit},
	}
}
