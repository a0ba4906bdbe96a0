// Package serial provides the serial connection core used by the xtools
// front-ends: port discovery, a single managed connection, and the data
// entries produced by sending and receiving.
//
// # Basic Usage
//
// Discover ports and open one with the default configuration (115200 8N1):
//
//	ports, err := serial.ListPorts()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range ports {
//	    fmt.Printf("%s: %s\n", p.Name, p.Description)
//	}
//
//	m := serial.NewManager()
//	if err := m.Connect(serial.DefaultConfig("/dev/ttyUSB0")); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Disconnect()
//
// # Configuration Options
//
// Use functional options for custom line settings:
//
//	cfg, err := serial.NewConfig("COM3",
//	    serial.WithBaudRate(9600),
//	    serial.WithDataBits(7),
//	    serial.WithParity(serial.ParityEven),
//	)
//
// The Manager itself takes options for the device backend, per-read timeout,
// text charset and logger:
//
//	m := serial.NewManager(
//	    serial.WithDriver(serial.DriverNative),
//	    serial.WithReadTimeout(20*time.Millisecond),
//	    serial.WithLogger(logger),
//	)
//
// # Sending and Receiving
//
// Send writes a text or hex payload and returns a tx DataEntry. ReadAvailable
// drains whatever the device has buffered without blocking beyond the read
// timeout, returning an empty slice when nothing arrived:
//
//	entry, err := m.Send("48 65 6C 6C 6F", true) // writes "Hello"
//	entries, err := m.ReadAvailable()
//
// Front-ends are expected to call ReadAvailable periodically.
//
// # Error Handling
//
// Every error returned by the package is an *Error carrying a Kind
// (ValidationError, StateError, DeviceError, IOError) and wrapping one of the
// sentinel errors:
//
//	if errors.Is(err, serial.ErrNotConnected) {
//	    // connect first
//	}
//	switch serial.KindOf(err) {
//	case serial.KindDevice:
//	    // the port went away
//	}
package serial
