package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/app"
	"github.com/hellototoro/xtools/internal/settings"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	rxStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	txStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	keyStyle     = lipgloss.NewStyle().Bold(true)
)

// Processor executes commands against the application context and prints
// their results. It is safe to drain from a monitor goroutine while a
// command runs; output lines never interleave.
type Processor struct {
	app     *app.App
	history *History
	logger  *zap.Logger

	outMu sync.Mutex
	out   io.Writer

	listPorts     func() ([]serial.PortInfo, error)
	historyWarned bool
}

// NewProcessor returns a processor writing to out. history may be nil.
func NewProcessor(a *app.App, history *History, out io.Writer) *Processor {
	if history == nil {
		history = &History{}
	}
	return &Processor{
		app:       a,
		history:   history,
		logger:    a.Logger.Named("repl"),
		out:       out,
		listPorts: serial.ListPorts,
	}
}

// HandleLine parses, records and executes one input line, then drains any
// received data. Every failure is printed; none stops the loop. The result
// is true once the loop should end.
func (p *Processor) HandleLine(line string) bool {
	cmd, err := Parse(line)
	if err != nil {
		p.printError(err)
		return false
	}
	if cmd == nil {
		p.drainAndReport()
		return false
	}

	if err := p.history.Append(line); err != nil && !p.historyWarned {
		p.historyWarned = true
		p.printWarning(err)
	}

	quit, err := p.Execute(cmd)
	if err != nil {
		p.printError(err)
	}
	if !quit {
		p.drainAndReport()
	}
	return quit
}

// Execute runs a single command.
func (p *Processor) Execute(cmd Command) (bool, error) {
	switch c := cmd.(type) {
	case ListCmd:
		return false, p.list()
	case ConnectCmd:
		return false, p.connect(c)
	case DisconnectCmd:
		return false, p.disconnect()
	case SendCmd:
		return false, p.send(c.Data+p.app.Settings.Get().Serial.NewlineBytes(), false)
	case HexCmd:
		return false, p.send(c.Data, true)
	case ConfigCmd:
		return false, p.config(c)
	case StatusCmd:
		p.status()
		return false, nil
	case ClearCmd:
		p.printf("\033[H\033[2J")
		return false, nil
	case HelpCmd:
		p.help()
		return false, nil
	case ExitCmd:
		p.Shutdown()
		return true, nil
	case UnknownCmd:
		return false, serial.NewError(serial.KindValidation, c.Name,
			fmt.Errorf("%w: %s (type 'help' for a list)", serial.ErrUnknownCommand, c.Name))
	default:
		return false, fmt.Errorf("unhandled command %T", cmd)
	}
}

func (p *Processor) list() error {
	ports, err := p.listPorts()
	if err != nil {
		p.printWarning(err)
		ports = nil
	}
	if len(ports) == 0 {
		p.println("No serial ports found")
		return nil
	}
	p.printf("Found %d serial port(s):\n", len(ports))
	for _, port := range ports {
		p.printf("  %-20s %s\n", port.Name, port.Description)
	}
	return nil
}

func (p *Processor) connect(c ConnectCmd) error {
	cfg, err := p.app.Connect(c.Port, c.Baud)
	if err != nil {
		return err
	}
	p.println(okStyle.Render("Connected to " + cfg.String()))
	return nil
}

func (p *Processor) disconnect() error {
	_, cfg := p.app.Manager.Status()
	if err := p.app.Manager.Disconnect(); err != nil {
		return err
	}
	p.println("Disconnected from " + cfg.Port)
	return nil
}

func (p *Processor) send(payload string, hexMode bool) error {
	entry, err := p.app.Manager.Send(payload, hexMode)
	if err != nil {
		return err
	}
	p.printEntries([]serial.DataEntry{entry})
	return nil
}

func (p *Processor) config(c ConfigCmd) error {
	store := p.app.Settings
	switch {
	case c.Key == "":
		for _, kv := range store.Pairs() {
			p.printf("%s = %s\n", keyStyle.Render(kv[0]), kv[1])
		}
		return nil
	case !c.Set:
		v, err := store.Value(c.Key)
		if err != nil {
			return err
		}
		p.println(v)
		return nil
	}

	err := store.SetValue(c.Key, c.Value)
	if err != nil && !settings.IsIOError(err) {
		return err
	}
	if err != nil {
		// Applied for this session, only persisting failed.
		p.printWarning(err)
	}

	switch c.Key {
	case "encoding":
		if err := p.app.ApplyEncoding(store.Get().Serial.Encoding); err != nil {
			return err
		}
	case "driver":
		p.println("Driver change takes effect on next start")
	}
	v, _ := store.Value(c.Key)
	p.printf("%s = %s\n", keyStyle.Render(c.Key), v)
	return nil
}

func (p *Processor) status() {
	state, cfg := p.app.Manager.Status()
	if cfg == nil {
		p.println(state.String())
		return
	}
	p.printf("%s: %s (encoding %s)\n", state, cfg, p.app.Manager.Decoder().Name())
}

func (p *Processor) help() {
	p.println("Commands:")
	for _, name := range CommandNames {
		u, ok := usage[name]
		if !ok {
			continue
		}
		p.printf("  %-22s %s\n", u[0], u[1])
	}
}

// Shutdown disconnects if a connection is open.
func (p *Processor) Shutdown() {
	if !p.app.Manager.IsConnected() {
		return
	}
	if err := p.app.Manager.Disconnect(); err != nil {
		p.printError(err)
	}
}

// Drain prints whatever has been received since the last drain.
func (p *Processor) Drain() error {
	if !p.app.Manager.IsConnected() {
		return nil
	}
	entries, err := p.app.Manager.ReadAvailable()
	if err != nil {
		// Lost a race with disconnect.
		if errors.Is(err, serial.ErrNotConnected) {
			return nil
		}
		return err
	}
	p.printEntries(entries)
	return nil
}

func (p *Processor) drainAndReport() {
	if err := p.Drain(); err != nil {
		p.printError(err)
	}
}

// Monitor drains every interval until ctx is done. One warning is printed
// per run of consecutive failures.
func (p *Processor) Monitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = settings.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := p.Drain()
			switch {
			case err != nil && !failing:
				failing = true
				p.logger.Warn("Background read failed", zap.Error(err))
				p.printWarning(fmt.Errorf("%w (use 'disconnect' if the device was removed)", err))
			case err == nil:
				failing = false
			}
		}
	}
}

func (p *Processor) printEntries(entries []serial.DataEntry) {
	if len(entries) == 0 {
		return
	}
	display := p.app.Settings.Get().Display
	opts := serial.FormatOptions{ShowTimestamp: display.ShowTimestamp, ShowHex: display.ShowHex}

	p.outMu.Lock()
	defer p.outMu.Unlock()
	for _, e := range entries {
		style := rxStyle
		if e.Direction == serial.DirectionTX {
			style = txStyle
		}
		fmt.Fprintln(p.out, style.Render(serial.FormatEntry(e, opts)))
	}
}

func (p *Processor) printError(err error) {
	p.println(errorStyle.Render("Error: " + err.Error()))
}

func (p *Processor) printWarning(err error) {
	p.println(warningStyle.Render("Warning: " + err.Error()))
}

func (p *Processor) println(s string) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintln(p.out, s)
}

func (p *Processor) printf(format string, args ...any) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}
