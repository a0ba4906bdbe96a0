package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testEntry(text string, dir Direction) DataEntry {
	return newEntry(time.Date(2026, 1, 2, 9, 8, 7, 6_000_000, time.UTC), []byte(text), dir, TextDecoder{})
}

func TestFormatEntry(t *testing.T) {
	e := testEntry("OK\r\n", DirectionRX)

	assert.Equal(t, "RX: OK", FormatEntry(e, FormatOptions{}))
	assert.Equal(t, "[09:08:07.006] RX: OK", FormatEntry(e, FormatOptions{ShowTimestamp: true}))
	assert.Equal(t, "[09:08:07.006] RX: OK [4F 4B 0D 0A]",
		FormatEntry(e, FormatOptions{ShowTimestamp: true, ShowHex: true}))

	tx := testEntry("AT", DirectionTX)
	assert.Equal(t, "TX: AT [41 54]", FormatEntry(tx, FormatOptions{ShowHex: true}))
}

func TestEntryLog(t *testing.T) {
	l := NewEntryLog()
	assert.Equal(t, 0, l.Len())

	l.Append()
	assert.Equal(t, 0, l.Len())

	l.Append(testEntry("AT", DirectionTX), testEntry("OK", DirectionRX))
	l.Append(testEntry("AT", DirectionTX))
	assert.Equal(t, 3, l.Len())

	entries := l.Entries()
	assert.Equal(t, DirectionTX, entries[0].Direction)
	assert.Equal(t, "OK", entries[1].Text)

	// Entries is a snapshot.
	entries[0].Text = "changed"
	assert.Equal(t, "AT", l.Entries()[0].Text)

	assert.Equal(t, "TX: AT\nRX: OK\nTX: AT\n", l.Format(FormatOptions{}))

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Format(FormatOptions{}))
}
