package serial

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// detailedPortsList is swapped in tests.
var detailedPortsList = enumerator.GetDetailedPortsList

// PortInfo describes one available port. It is recomputed on every call.
type PortInfo struct {
	Name         string
	Description  string
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
}

// ListPorts returns the ports currently known to the OS, sorted by name.
func ListPorts() ([]PortInfo, error) {
	details, err := detailedPortsList()
	if err != nil {
		return nil, deviceError("list ports", fmt.Errorf("%w: %v", ErrEnumerationFailure, err))
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil || d.Name == "" {
			continue
		}
		info := PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VendorID:     d.VID,
			ProductID:    d.PID,
			SerialNumber: d.SerialNumber,
		}
		info.Description = describe(d)
		ports = append(ports, info)
	}

	// Sort the ports for consistent ordering
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })

	return ports, nil
}

// PortNames extracts the names, keeping order.
func PortNames(ports []PortInfo) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

// FindPort returns the entry for name from a fresh enumeration.
func FindPort(name string) (PortInfo, error) {
	ports, err := ListPorts()
	if err != nil {
		return PortInfo{}, err
	}
	for _, p := range ports {
		if p.Name == name {
			return p, nil
		}
	}
	return PortInfo{}, deviceError("find port", fmt.Errorf("%w: %s", ErrDeviceNotFound, name))
}

func describe(d *enumerator.PortDetails) string {
	if d.IsUSB {
		if product := strings.TrimSpace(d.Product); product != "" {
			return product
		}
		if d.VID != "" {
			return fmt.Sprintf("USB Serial Device (%s:%s)", d.VID, d.PID)
		}
		return "USB Serial Device"
	}
	return getPortDescription(filepath.Base(d.Name))
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(name, "COM"):
		return "Communications Port"
	default:
		return "Serial Port"
	}
}
