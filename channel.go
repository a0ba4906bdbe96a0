package serial

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	readChunkSize = 1024
	// maxEntrySize caps the bytes carried by one rx entry.
	maxEntrySize = 4096
	// maxDrainSize caps one ReadAvailable call so a chatty device cannot
	// hold the lock indefinitely.
	maxDrainSize = 64 * 1024
)

// Send transmits payload. In hex mode payload is parsed with DecodeHex,
// otherwise its bytes go out unchanged. The returned tx entry carries the
// canonical hex of what was written.
func (m *Manager) Send(payload string, hexMode bool) (DataEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConnected {
		return DataEntry{}, stateError("send", ErrNotConnected)
	}

	var data []byte
	if hexMode {
		decoded, err := DecodeHex(payload)
		if err != nil {
			return DataEntry{}, validationError("send", err)
		}
		data = decoded
	} else {
		data = []byte(payload)
	}
	if len(data) == 0 {
		return DataEntry{}, validationError("send", ErrEmptyPayload)
	}

	if err := writeAll(m.dev, data); err != nil {
		m.logger.Warn("Failed to write to serial port",
			zap.String("session", m.session),
			zap.Int("bytes_to_write", len(data)),
			zap.Error(err),
		)
		return DataEntry{}, deviceError("send", err)
	}

	m.logger.Debug("Data written to serial port",
		zap.String("session", m.session),
		zap.Int("bytes_written", len(data)),
		zap.Bool("hex_mode", hexMode),
	)

	return newEntry(m.now(), data, DirectionTX, m.decoder), nil
}

func writeAll(w io.Writer, data []byte) error {
	written := 0
	for written < len(data) {
		n, err := w.Write(data[written:])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("incomplete write: wrote %d of %d bytes", written, len(data))
		}
		written += n
	}
	return nil
}

// ReadAvailable drains what the device has buffered right now. Each read
// is bounded by the read timeout, so the call returns promptly with an
// empty slice when nothing is pending. No framing is applied: one drain
// yields an rx entry per read of at most 4096 bytes, so a large backlog
// comes back as several entries.
func (m *Manager) ReadAvailable() ([]DataEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConnected {
		return nil, stateError("read", ErrNotConnected)
	}

	buf := make([]byte, readChunkSize)
	var drained []byte
	var readErr error
	for len(drained) < maxDrainSize {
		n, err := m.dev.Read(buf)
		if n > 0 {
			drained = append(drained, buf[:n]...)
		}
		if err != nil {
			readErr = err
			break
		}
		if n == 0 {
			break
		}
	}

	if readErr != nil {
		m.logger.Warn("Failed to read from serial port",
			zap.String("session", m.session),
			zap.Int("bytes_before_error", len(drained)),
			zap.Error(readErr),
		)
		// Bytes already drained are still delivered; the fault shows up
		// again on the next call.
		if len(drained) == 0 {
			return nil, deviceError("read", readErr)
		}
	}

	if len(drained) == 0 {
		return []DataEntry{}, nil
	}

	now := m.now()
	entries := make([]DataEntry, 0, len(drained)/maxEntrySize+1)
	for start := 0; start < len(drained); start += maxEntrySize {
		end := min(start+maxEntrySize, len(drained))
		entries = append(entries, newEntry(now, drained[start:end], DirectionRX, m.decoder))
	}

	m.logger.Debug("Data read from serial port",
		zap.String("session", m.session),
		zap.Int("bytes_read", len(drained)),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}
