// Package serialtest provides an in-memory serial device for front-end tests.
package serialtest

import (
	"bytes"
	"sync"
	"time"

	serial "github.com/hellototoro/xtools"
)

// Device is an in-memory serial.Device. Queued chunks are returned one per
// Read and an empty queue behaves like an elapsed read timeout.
type Device struct {
	mu      sync.Mutex
	rx      [][]byte
	tx      bytes.Buffer
	readErr error
	closed  bool
}

// Queue makes chunks available to subsequent reads.
func (d *Device) Queue(chunks ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range chunks {
		d.rx = append(d.rx, []byte(c))
	}
}

// FailReads makes every read with an empty queue return err.
func (d *Device) FailReads(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readErr = err
}

// Written returns everything written so far.
func (d *Device) Written() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tx.String()
}

// Closed reports whether Close was called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Device) Read(buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, serial.ErrPortClosed
	}
	if len(d.rx) == 0 {
		return 0, d.readErr
	}
	n := copy(buf, d.rx[0])
	if n < len(d.rx[0]) {
		d.rx[0] = d.rx[0][n:]
	} else {
		d.rx = d.rx[1:]
	}
	return n, nil
}

func (d *Device) Write(data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, serial.ErrPortClosed
	}
	return d.tx.Write(data)
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Opener hands out a fresh Device per connect and remembers the last one.
type Opener struct {
	mu     sync.Mutex
	last   *Device
	Err    error
	Opened []serial.ConnectionConfig
}

// Open implements serial.Opener.
func (o *Opener) Open(cfg serial.ConnectionConfig, _ time.Duration) (serial.Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	o.last = &Device{}
	o.Opened = append(o.Opened, cfg)
	return o.last, nil
}

// Last returns the most recently opened device, nil before the first open.
func (o *Opener) Last() *Device {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}
