package serial

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bugst "go.bug.st/serial"
)

// stubPort implements only the bugst.Port methods openPortable touches.
type stubPort struct {
	bugst.Port
	timeout    time.Duration
	timeoutErr error
	flushed    bool
	closed     bool
}

func (p *stubPort) SetReadTimeout(t time.Duration) error {
	p.timeout = t
	return p.timeoutErr
}

func (p *stubPort) ResetInputBuffer() error {
	p.flushed = true
	return nil
}

func (p *stubPort) Close() error {
	p.closed = true
	return nil
}

func stubOpenPort(t *testing.T, port *stubPort, err error) *bugst.Mode {
	t.Helper()
	var got bugst.Mode
	orig := openPort
	openPort = func(name string, mode *bugst.Mode) (bugst.Port, error) {
		got = *mode
		if err != nil {
			return nil, err
		}
		return port, nil
	}
	t.Cleanup(func() { openPort = orig })
	return &got
}

func TestOpenPortableMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  ConnectionConfig
		want bugst.Mode
	}{
		{
			name: "8N1",
			cfg:  DefaultConfig("COM3"),
			want: bugst.Mode{BaudRate: 115200, DataBits: 8, StopBits: bugst.OneStopBit, Parity: bugst.NoParity},
		},
		{
			name: "7E2",
			cfg:  ConnectionConfig{Port: "COM3", BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: ParityEven},
			want: bugst.Mode{BaudRate: 9600, DataBits: 7, StopBits: bugst.TwoStopBits, Parity: bugst.EvenParity},
		},
		{
			name: "8O1",
			cfg:  ConnectionConfig{Port: "COM3", BaudRate: 19200, DataBits: 8, StopBits: 1, Parity: ParityOdd},
			want: bugst.Mode{BaudRate: 19200, DataBits: 8, StopBits: bugst.OneStopBit, Parity: bugst.OddParity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &stubPort{}
			got := stubOpenPort(t, port, nil)

			dev, err := openPortable(tt.cfg, 20*time.Millisecond)
			require.NoError(t, err)
			assert.Same(t, port, dev)
			assert.Equal(t, tt.want, *got)
			assert.Equal(t, 20*time.Millisecond, port.timeout)
			assert.True(t, port.flushed)
		})
	}
}

func TestOpenPortableTimeoutFailure(t *testing.T) {
	port := &stubPort{timeoutErr: errors.New("ioctl failed")}
	stubOpenPort(t, port, nil)

	_, err := openPortable(DefaultConfig("COM3"), DefaultReadTimeout)
	require.Error(t, err)
	assert.True(t, port.closed)
}

func TestOpenPortableError(t *testing.T) {
	stubOpenPort(t, nil, errors.New("no such file or directory"))

	_, err := openPortable(DefaultConfig("/dev/ttyUSB9"), DefaultReadTimeout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dev/ttyUSB9")
}

func TestParseDriver(t *testing.T) {
	d, err := ParseDriver("")
	require.NoError(t, err)
	assert.Equal(t, DriverPortable, d)

	d, err = ParseDriver("Native")
	require.NoError(t, err)
	assert.Equal(t, DriverNative, d)

	_, err = ParseDriver("usb")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestErrorKinds(t *testing.T) {
	err := NewError(KindIO, "save", errors.New("disk full"))
	assert.Equal(t, "IOError: save: disk full", err.Error())
	assert.Equal(t, KindIO, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "DeviceError", KindDevice.String())
}
