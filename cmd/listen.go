/*
Copyright © 2025 hellototoro
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/app"
	"github.com/hellototoro/xtools/internal/settings"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <port>",
	Short: "Stream received data from a serial port to stdout",
	Long: `Open a serial port and print everything it receives until interrupted.

Each received chunk is printed as '[time] RX: text', with the bytes in hex
when --hex is set. With --output the same lines are appended to a file.

Example usage:
  xtools listen /dev/ttyUSB0
  xtools listen /dev/ttyUSB0 --baud 9600 --hex
  xtools listen COM3 --output capture.log`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baud, _ := cmd.Flags().GetInt("baud")
		showHex, _ := cmd.Flags().GetBool("hex")
		outputPath, _ := cmd.Flags().GetString("output")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.Connect(args[0], baud); err != nil {
			return fmt.Errorf("failed to open port: %w", err)
		}

		out := cmd.OutOrStdout()
		if outputPath != "" {
			file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open output file: %w", err)
			}
			defer file.Close()
			out = io.MultiWriter(out, file)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s, press Ctrl+C to stop\n", args[0])
		return listen(cmd.Context(), a, out, serial.FormatOptions{
			ShowTimestamp: true,
			ShowHex:       showHex,
		})
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().IntP("baud", "b", 0, "Baud rate (default: last used)")
	listenCmd.Flags().Bool("hex", false, "Also print received bytes in hex")
	listenCmd.Flags().StringP("output", "o", "", "Append received lines to this file")
}

// listen polls the connection until ctx is done and disconnects on return.
// Read failures are reported once per streak.
func listen(ctx context.Context, a *app.App, w io.Writer, opts serial.FormatOptions) error {
	defer func() {
		if a.Manager.IsConnected() {
			_ = a.Manager.Disconnect()
		}
	}()

	interval := a.Settings.Get().Serial.PollInterval
	if interval <= 0 {
		interval = settings.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var received int
	failing := false
	startTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "\nListen complete: %d entries in %v\n", received, time.Since(startTime).Round(time.Millisecond))
			return nil
		case <-ticker.C:
			entries, err := a.Manager.ReadAvailable()
			for _, e := range entries {
				if _, werr := fmt.Fprintln(w, serial.FormatEntry(e, opts)); werr != nil {
					return fmt.Errorf("write error: %w", werr)
				}
			}
			received += len(entries)

			if err != nil {
				if !failing {
					a.Logger.Warn("Serial read failed", zap.Error(err))
					fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				}
				failing = true
				continue
			}
			failing = false
		}
	}
}
