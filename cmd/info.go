/*
Copyright © 2025 hellototoro
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	serial "github.com/hellototoro/xtools"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Examples:
  xtools info /dev/ttyUSB0
  xtools info COM3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := serial.FindPort(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Port Information: %s\n\n", info.Name)
		fmt.Fprintf(out, "  Description: %s\n", info.Description)
		fmt.Fprintf(out, "  Type:        %s\n", getPortType(info))

		if info.IsUSB {
			fmt.Fprintln(out, "\nUSB Device Information:")
			if info.VendorID != "" {
				fmt.Fprintf(out, "  Vendor ID:    %s\n", info.VendorID)
			}
			if info.ProductID != "" {
				fmt.Fprintf(out, "  Product ID:   %s\n", info.ProductID)
			}
			if info.SerialNumber != "" {
				fmt.Fprintf(out, "  Serial:       %s\n", info.SerialNumber)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
