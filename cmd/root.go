/*
Copyright © 2025 hellototoro
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hellototoro/xtools/internal/app"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xtools",
	Short: "Serial port terminal with an interactive UI and a command shell",
	Long: `xtools talks to one serial device at a time.

Without a subcommand the full-screen client starts. Use 'xtools serial' for
the line-oriented shell, 'xtools list' to enumerate ports and
'xtools listen <port>' to stream received data to stdout.

Settings, command history and the log file live under the user config
directory (xtools/config.json, xtools/history, xtools/xtools.log).`,
	SilenceUsage: true,
	RunE:         runGUI,
}

// Execute adds all child commands to the root command and runs it. SIGINT
// and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "Directory for config, history and log (default: user config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-output", "", "Log destination: stdout, stderr or a file path")
}

// newApp builds the application context from the persistent flags.
func newApp(cmd *cobra.Command) (*app.App, error) {
	dir, _ := cmd.Flags().GetString("config-dir")
	level, _ := cmd.Flags().GetString("log-level")
	output, _ := cmd.Flags().GetString("log-output")
	return app.New(app.Options{
		ConfigDir: dir,
		LogLevel:  level,
		LogOutput: output,
	})
}
