package serial

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func stubEnumerator(t *testing.T, ports []*enumerator.PortDetails, err error) {
	t.Helper()
	orig := detailedPortsList
	detailedPortsList = func() ([]*enumerator.PortDetails, error) { return ports, err }
	t.Cleanup(func() { detailedPortsList = orig })
}

func TestListPorts(t *testing.T) {
	stubEnumerator(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB1", IsUSB: true, VID: "0403", PID: "6001", Product: "FT232R USB UART", SerialNumber: "A50285BI"},
		{Name: "/dev/ttyS0"},
		nil,
		{Name: ""},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
		{Name: "/dev/ttyACM1", IsUSB: true, Product: "  "},
	}, nil)

	ports, err := ListPorts()
	require.NoError(t, err)
	require.Len(t, ports, 4)

	// Check that ports are sorted
	assert.Equal(t, []string{"/dev/ttyACM0", "/dev/ttyACM1", "/dev/ttyS0", "/dev/ttyUSB1"}, PortNames(ports))

	assert.Equal(t, "USB Serial Device (2341:0043)", ports[0].Description)
	assert.Equal(t, "USB Serial Device", ports[1].Description)
	assert.Equal(t, "Standard Serial Port", ports[2].Description)
	assert.Equal(t, "FT232R USB UART", ports[3].Description)
	assert.Equal(t, "A50285BI", ports[3].SerialNumber)
	assert.True(t, ports[3].IsUSB)
}

func TestListPortsEmpty(t *testing.T) {
	stubEnumerator(t, nil, nil)

	ports, err := ListPorts()
	require.NoError(t, err)
	assert.Empty(t, ports)
}

func TestListPortsEnumerationError(t *testing.T) {
	stubEnumerator(t, nil, errors.New("sysfs unavailable"))

	ports, err := ListPorts()
	require.Error(t, err)
	assert.Nil(t, ports)
	assert.Equal(t, KindDevice, KindOf(err))
	assert.ErrorIs(t, err, ErrEnumerationFailure)
}

func TestFindPort(t *testing.T) {
	stubEnumerator(t, []*enumerator.PortDetails{{Name: "COM3"}}, nil)

	info, err := FindPort("COM3")
	require.NoError(t, err)
	assert.Equal(t, "Communications Port", info.Description)

	_, err = FindPort("COM9")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	assert.Equal(t, KindDevice, KindOf(err))
}

func TestGetPortDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"ttyS0", "Standard Serial Port"},
		{"ttyAMA0", "ARM Serial Port"},
		{"ttymxc0", "i.MX Serial Port"},
		{"ttyO0", "OMAP Serial Port"},
		{"ttySAC0", "Samsung Serial Port"},
		{"ttyTHS0", "Tegra Serial Port"},
		{"COM3", "Communications Port"},
		{"unknown", "Serial Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getPortDescription(tt.name))
		})
	}
}
