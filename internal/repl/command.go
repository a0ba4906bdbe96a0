// Package repl implements the line-oriented command client: a strict parser
// over a closed command set, a processor that executes parsed commands
// against the shared connection manager, completion and persisted history.
package repl

import (
	"fmt"
	"strconv"
	"strings"

	serial "github.com/hellototoro/xtools"
)

// Command is one parsed input line. The set of implementations is closed.
type Command interface {
	command()
}

type (
	ListCmd       struct{}
	DisconnectCmd struct{}
	StatusCmd     struct{}
	ClearCmd      struct{}
	HelpCmd       struct{}
	ExitCmd       struct{}

	// ConnectCmd opens Port. Baud is 0 when omitted.
	ConnectCmd struct {
		Port string
		Baud int
	}

	// SendCmd transmits Data as text.
	SendCmd struct {
		Data string
	}

	// HexCmd transmits Data parsed as hex bytes.
	HexCmd struct {
		Data string
	}

	// ConfigCmd prints all keys, prints Key, or sets Key to Value.
	ConfigCmd struct {
		Key   string
		Value string
		Set   bool
	}

	// UnknownCmd is any line whose first token is not a command.
	UnknownCmd struct {
		Name string
	}
)

func (ListCmd) command()       {}
func (DisconnectCmd) command() {}
func (StatusCmd) command()     {}
func (ClearCmd) command()      {}
func (HelpCmd) command()       {}
func (ExitCmd) command()       {}
func (ConnectCmd) command()    {}
func (SendCmd) command()       {}
func (HexCmd) command()        {}
func (ConfigCmd) command()     {}
func (UnknownCmd) command()    {}

// CommandNames is the fixed command set in help order.
var CommandNames = []string{
	"list", "connect", "disconnect", "send", "hex",
	"config", "status", "clear", "help", "exit", "quit",
}

var usage = map[string][2]string{
	"list":       {"list", "List available serial ports"},
	"connect":    {"connect <port> [baud]", "Connect to a port"},
	"disconnect": {"disconnect", "Close the current connection"},
	"send":       {"send <data...>", "Send text"},
	"hex":        {"hex <bytes...>", "Send hex bytes, e.g. hex 48 65 6C"},
	"config":     {"config [key] [value]", "Show or change settings"},
	"status":     {"status", "Show connection status"},
	"clear":      {"clear", "Clear the screen"},
	"help":       {"help", "Show this help"},
	"exit":       {"exit | quit", "Disconnect and leave"},
}

// Parse tokenizes line on whitespace and maps it to a Command. Dispatch is
// on the first token and is case-sensitive. A blank line yields nil and no
// error. Unknown commands are not an error at this stage; they become
// UnknownCmd. Errors are ValidationErrors for malformed arguments.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, nil
	}
	name, args := tokens[0], tokens[1:]

	switch name {
	case "list":
		return ListCmd{}, nil
	case "disconnect":
		return DisconnectCmd{}, nil
	case "status":
		return StatusCmd{}, nil
	case "clear":
		return ClearCmd{}, nil
	case "help":
		return HelpCmd{}, nil
	case "exit", "quit":
		return ExitCmd{}, nil
	case "send":
		return SendCmd{Data: strings.Join(args, " ")}, nil
	case "hex":
		return HexCmd{Data: strings.Join(args, " ")}, nil
	case "connect":
		return parseConnect(args)
	case "config":
		return parseConfig(args)
	default:
		return UnknownCmd{Name: name}, nil
	}
}

func parseConnect(args []string) (Command, error) {
	switch len(args) {
	case 1:
		return ConnectCmd{Port: args[0]}, nil
	case 2:
		baud, err := strconv.Atoi(args[1])
		if err != nil || baud <= 0 {
			return nil, serial.NewError(serial.KindValidation, "connect",
				fmt.Errorf("%w: %q", serial.ErrInvalidBaudRate, args[1]))
		}
		return ConnectCmd{Port: args[0], Baud: baud}, nil
	default:
		return nil, usageError("connect")
	}
}

func parseConfig(args []string) (Command, error) {
	switch len(args) {
	case 0:
		return ConfigCmd{}, nil
	case 1:
		return ConfigCmd{Key: args[0]}, nil
	case 2:
		return ConfigCmd{Key: args[0], Value: args[1], Set: true}, nil
	default:
		return nil, usageError("config")
	}
}

func usageError(name string) error {
	return serial.NewError(serial.KindValidation, name,
		fmt.Errorf("%w: usage: %s", serial.ErrInvalidConfig, usage[name][0]))
}
