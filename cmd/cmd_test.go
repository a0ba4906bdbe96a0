package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serial "github.com/hellototoro/xtools"
	"github.com/hellototoro/xtools/internal/app"
	"github.com/hellototoro/xtools/internal/serialtest"
)

var testPorts = []serial.PortInfo{
	{Name: "/dev/ttyUSB0", Description: "Silicon Labs - CP2102", IsUSB: true, VendorID: "10C4", ProductID: "EA60"},
	{Name: "/dev/ttyS0", Description: "Standard Serial Port"},
	{Name: "/dev/ttyACM0", Description: "USB CDC/ACM Device", IsUSB: true, VendorID: "2341", ProductID: "0043"},
}

func TestFilterPorts(t *testing.T) {
	assert.Len(t, filterPorts(testPorts, ""), 3)
	assert.Len(t, filterPorts(testPorts, "all"), 3)
	assert.Equal(t, []string{"/dev/ttyUSB0", "/dev/ttyACM0"}, serial.PortNames(filterPorts(testPorts, "USB")))
	assert.Equal(t, []string{"/dev/ttyS0"}, serial.PortNames(filterPorts(testPorts, "standard")))
	assert.Empty(t, filterPorts(testPorts, "arm"))
}

func TestGetPortType(t *testing.T) {
	tests := []struct {
		port serial.PortInfo
		want string
	}{
		{testPorts[0], "USB Serial"},
		{testPorts[1], "Standard Serial"},
		{testPorts[2], "USB CDC/ACM"},
		{serial.PortInfo{Name: "COM3"}, "COM Port"},
		{serial.PortInfo{Name: "COM7", IsUSB: true}, "USB COM Port"},
		{serial.PortInfo{Name: "/dev/cu.usbserial-1410", IsUSB: true}, "USB Serial"},
	}
	for _, tt := range tests {
		t.Run(tt.port.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, getPortType(tt.port))
		})
	}
}

func TestRender(t *testing.T) {
	var simple bytes.Buffer
	renderSimple(&simple, testPorts[:2])
	assert.Equal(t, "/dev/ttyUSB0\tSilicon Labs - CP2102\n/dev/ttyS0\tStandard Serial Port\n", simple.String())

	var table bytes.Buffer
	renderTable(&table, testPorts)
	assert.Contains(t, table.String(), "Found 3 serial port(s)")
	assert.Contains(t, table.String(), "10C4:EA60")
}

func TestListEnumerationFailure(t *testing.T) {
	orig := listPorts
	t.Cleanup(func() { listPorts = orig })
	listPorts = func() ([]serial.PortInfo, error) {
		return nil, serial.NewError(serial.KindDevice, "list", serial.ErrEnumerationFailure)
	}

	var out, errOut bytes.Buffer
	listCmd.SetOut(&out)
	listCmd.SetErr(&errOut)
	t.Cleanup(func() {
		listCmd.SetOut(nil)
		listCmd.SetErr(nil)
	})

	require.NoError(t, listCmd.RunE(listCmd, nil))
	assert.Equal(t, "No serial ports found\n", out.String())
	assert.Contains(t, errOut.String(), "Warning:")

	out.Reset()
	errOut.Reset()
	runList(&out, &errOut, "usb", false)
	assert.Equal(t, "No serial ports found\n", out.String())
	assert.Contains(t, errOut.String(), "Warning:")
}

func TestListFilterMiss(t *testing.T) {
	orig := listPorts
	t.Cleanup(func() { listPorts = orig })
	listPorts = func() ([]serial.PortInfo, error) { return testPorts, nil }

	var out, errOut bytes.Buffer
	runList(&out, &errOut, "arm", false)
	assert.Equal(t, "No serial ports found matching filter: arm\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	runList(&out, &errOut, "standard", false)
	assert.Equal(t, "/dev/ttyS0\tStandard Serial Port\n", out.String())
}

// lockedBuffer is written by listen while the test reads it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestListen(t *testing.T) {
	op := &serialtest.Opener{}
	a, err := app.New(app.Options{ConfigDir: t.TempDir(), LogOutput: "stderr", LogLevel: "error", Opener: op.Open})
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Settings.SetValue("baud", "9600"))

	_, err = a.Connect("COM3", 0)
	require.NoError(t, err)
	dev := op.Last()
	dev.Queue("boot ok\r\n")
	dev.FailReads(errors.New("device unplugged"))

	ctx, cancel := context.WithCancel(context.Background())
	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- listen(ctx, a, out, serial.FormatOptions{ShowHex: true})
	}()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "RX: boot ok [62 6F 6F 74 20 6F 6B 0D 0A]")
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, dev.Closed())
	assert.False(t, a.Manager.IsConnected())
	assert.Equal(t, 9600, op.Opened[0].BaudRate)
}
