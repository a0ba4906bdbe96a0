/*
Copyright © 2025 hellototoro
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hellototoro/xtools/internal/tui"
)

// guiCmd represents the gui command
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Start the full-screen serial client (default)",
	Long: `Start the full-screen serial client.

Pick a port with 'p', press 'i' to type and Enter to send. Tab switches
between ASCII and HEX input. Received data is polled on the configured
interval and shown with timestamps; '?' lists every key binding.`,
	Args: cobra.NoArgs,
	RunE: runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(cmd.Context(), a)
}
