/*
Copyright © 2025 hellototoro
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hellototoro/xtools/internal/repl"
)

// serialCmd represents the serial command
var serialCmd = &cobra.Command{
	Use:   "serial",
	Short: "Interactive serial command shell",
	Long: `Start a line-oriented shell for the serial port.

Commands: list, connect <port> [baud], disconnect, send <text>, hex <bytes>,
config [key [value]], status, clear, help, exit. Tab completes commands,
port names and config keys. Received data is printed after every command
and whenever it arrives.

Example usage:
  xtools serial
  xtools serial --port /dev/ttyUSB0 --baud 9600`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		baud, _ := cmd.Flags().GetInt("baud")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if port != "" {
			cfg, err := a.Connect(port, baud)
			if err != nil {
				return fmt.Errorf("failed to open port: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", cfg)
		}
		return repl.Run(cmd.Context(), a)
	},
}

func init() {
	rootCmd.AddCommand(serialCmd)

	serialCmd.Flags().StringP("port", "p", "", "Port to connect to before the shell starts")
	serialCmd.Flags().IntP("baud", "b", 0, "Baud rate (default: last used)")
}
