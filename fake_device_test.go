package serial

import (
	"bytes"
	"sync"
	"time"
)

// fakeDevice is an in-memory Device. Queued rx chunks are returned one per
// Read; an empty queue behaves like an elapsed read timeout.
type fakeDevice struct {
	mu       sync.Mutex
	rx       [][]byte
	tx       bytes.Buffer
	readErr  error
	writeErr error
	closeErr error
	closed   bool
	maxWrite int
}

func (d *fakeDevice) queue(chunks ...[]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rx = append(d.rx, chunks...)
}

func (d *fakeDevice) written() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.tx.Bytes()...)
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *fakeDevice) Read(buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrPortClosed
	}
	if len(d.rx) == 0 {
		if d.readErr != nil {
			return 0, d.readErr
		}
		return 0, nil
	}
	n := copy(buf, d.rx[0])
	if n < len(d.rx[0]) {
		d.rx[0] = d.rx[0][n:]
	} else {
		d.rx = d.rx[1:]
	}
	return n, nil
}

func (d *fakeDevice) Write(data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrPortClosed
	}
	if d.writeErr != nil {
		return 0, d.writeErr
	}
	if d.maxWrite > 0 && len(data) > d.maxWrite {
		data = data[:d.maxWrite]
	}
	return d.tx.Write(data)
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return d.closeErr
}

// fakeOpener hands out dev and records the configs it was asked for.
type fakeOpener struct {
	mu      sync.Mutex
	dev     *fakeDevice
	err     error
	opened  []ConnectionConfig
	timeout time.Duration
}

func (o *fakeOpener) open(cfg ConnectionConfig, readTimeout time.Duration) (Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	o.opened = append(o.opened, cfg)
	o.timeout = readTimeout
	return o.dev, nil
}
