package repl

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/app"
	"github.com/hellototoro/xtools/internal/settings"
)

const basePrompt = "xtools"

// Run drives the interactive loop until exit, quit or EOF. Ctrl+C abandons
// the current line. The connection is always closed before returning.
func Run(ctx context.Context, a *app.App) error {
	history, histErr := LoadHistory(a.Paths.History)
	if histErr != nil {
		a.Logger.Warn("History partially loaded", zap.Error(histErr))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 prompt(a.Manager),
		AutoComplete:           autoCompleter{context: liveContext},
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		DisableAutoSaveHistory: true,
		HistorySearchFold:      true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for _, line := range history.Lines() {
		_ = rl.SaveHistory(line)
	}

	p := NewProcessor(a, history, rl.Stdout())
	for _, w := range a.Warnings {
		p.printWarning(w)
	}
	if histErr != nil {
		p.printWarning(histErr)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.Monitor(ctx, a.Settings.Get().Serial.PollInterval)

	p.println("Type 'help' for commands, Tab to complete.")
	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			p.Shutdown()
			return nil
		case err != nil:
			p.Shutdown()
			return err
		}

		if strings.TrimSpace(line) != "" {
			_ = rl.SaveHistory(line)
		}
		if p.HandleLine(line) {
			return nil
		}
		rl.SetPrompt(prompt(a.Manager))

		if ctx.Err() != nil {
			p.Shutdown()
			return ctx.Err()
		}
	}
}

func prompt(m *serial.Manager) string {
	_, cfg := m.Status()
	if cfg == nil {
		return basePrompt + "> "
	}
	return basePrompt + "(" + cfg.Port + ")> "
}

func liveContext() CompletionContext {
	ports, _ := serial.ListPorts()
	return CompletionContext{
		Ports:      serial.PortNames(ports),
		ConfigKeys: settings.Keys(),
	}
}
