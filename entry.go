package serial

import (
	"fmt"
	"strings"
	"time"
)

// Direction of a logged unit of traffic.
type Direction int

const (
	DirectionRX Direction = iota
	DirectionTX
)

func (d Direction) String() string {
	if d == DirectionTX {
		return "tx"
	}
	return "rx"
}

// TimestampLayout is the millisecond clock format used when rendering entries.
const TimestampLayout = "15:04:05.000"

// DataEntry is one logged unit of traffic. Entries are values and are never
// modified after creation.
type DataEntry struct {
	Timestamp time.Time
	Text      string
	Hex       string
	Direction Direction
}

func newEntry(now time.Time, data []byte, dir Direction, dec TextDecoder) DataEntry {
	return DataEntry{
		Timestamp: now.Truncate(time.Millisecond),
		Text:      dec.Decode(data),
		Hex:       EncodeHex(data),
		Direction: dir,
	}
}

// FormatOptions controls plain-text rendering of entries.
type FormatOptions struct {
	ShowTimestamp bool
	ShowHex       bool
}

// FormatEntry renders e as a single line, e.g. "[12:00:00.000] RX: hello".
// Trailing line breaks in the text are trimmed.
func FormatEntry(e DataEntry, opts FormatOptions) string {
	var b strings.Builder
	if opts.ShowTimestamp {
		fmt.Fprintf(&b, "[%s] ", e.Timestamp.Format(TimestampLayout))
	}
	b.WriteString(strings.ToUpper(e.Direction.String()))
	b.WriteString(": ")
	b.WriteString(strings.TrimRight(e.Text, "\r\n"))
	if opts.ShowHex && e.Hex != "" {
		fmt.Fprintf(&b, " [%s]", e.Hex)
	}
	return b.String()
}
