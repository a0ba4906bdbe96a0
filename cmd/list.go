/*
Copyright © 2025 hellototoro
*/
package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	serial "github.com/hellototoro/xtools"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all serial ports reported by the system enumerator.

USB adapters are shown with their vendor/product IDs when --table is used.
Use --filter usb to show only USB devices, or --filter standard for
on-board UARTs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")
		runList(cmd.OutOrStdout(), cmd.ErrOrStderr(), filterType, tableFormat)
		return nil
	},
}

// listPorts is swapped in tests.
var listPorts = serial.ListPorts

// runList prints the ports. An enumeration failure is only a warning and
// the listing degrades to empty.
func runList(out, errOut io.Writer, filterType string, tableFormat bool) {
	ports, err := listPorts()
	if err != nil {
		fmt.Fprintf(errOut, "Warning: %v\n", err)
		ports = nil
	}

	filtered := filterPorts(ports, filterType)
	if len(filtered) == 0 {
		if err == nil && filterType != "" && filterType != "all" {
			fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filterType)
		} else {
			fmt.Fprintln(out, "No serial ports found")
		}
		return
	}

	if tableFormat {
		renderTable(out, filtered)
	} else {
		renderSimple(out, filtered)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []serial.PortInfo, filterType string) []serial.PortInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []serial.PortInfo
	for _, p := range ports {
		switch filterType {
		case "usb":
			if p.IsUSB {
				filtered = append(filtered, p)
			}
		case "standard":
			if !p.IsUSB {
				filtered = append(filtered, p)
			}
		}
	}
	return filtered
}

// renderTable renders the port list in a styled static table format
func renderTable(w io.Writer, ports []serial.PortInfo) {
	fmt.Fprintf(w, "Found %d serial port(s):\n\n", len(ports))

	portWidth := 15
	typeWidth := 16
	usbWidth := 10
	descWidth := 30

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240")).
		PaddingBottom(1)

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		portWidth, "Port",
		typeWidth, "Type",
		usbWidth, "VID:PID",
		descWidth, "Description")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, p := range ports {
		usb := "-"
		if p.IsUSB {
			usb = p.VendorID + ":" + p.ProductID
		}
		row := fmt.Sprintf("%-*s %-*s %-*s %-*s",
			portWidth, p.Name,
			typeWidth, getPortType(p),
			usbWidth, usb,
			descWidth, p.Description)
		fmt.Fprintln(w, cellStyle.Render(row))
	}
}

// renderSimple renders the port list in simple text format
func renderSimple(w io.Writer, ports []serial.PortInfo) {
	for _, p := range ports {
		if p.Description != "" {
			fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
		} else {
			fmt.Fprintln(w, p.Name)
		}
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(p serial.PortInfo) string {
	name := strings.ToLower(filepath.Base(p.Name))
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(name, "cu.") || strings.HasPrefix(name, "tty."):
		if p.IsUSB {
			return "USB Serial"
		}
		return "Serial Port"
	case strings.HasPrefix(name, "com"):
		if p.IsUSB {
			return "USB COM Port"
		}
		return "COM Port"
	case p.IsUSB:
		return "USB Serial"
	default:
		return "Serial Port"
	}
}
