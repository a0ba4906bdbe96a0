package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/multierr"

	serial "github.com/hellototoro/xtools"
)

const maxHistoryLine = 64 * 1024

// History is the ordered, append-only record of entered lines. Each line
// is stored quoted on its own line in the backing file. Consecutive
// duplicates are kept.
type History struct {
	mu    sync.Mutex
	path  string
	lines []string
}

// LoadHistory reads path. A missing file is an empty history. Lines that
// cannot be decoded are skipped; the returned error then describes them
// and is only a warning, the History is always usable.
func LoadHistory(path string) (*History, error) {
	h := &History{path: path}
	if path == "" {
		return h, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}
		return h, serial.NewError(serial.KindIO, "load history", err)
	}
	defer f.Close()

	var warnings error
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxHistoryLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if raw == "" {
			continue
		}
		line, err := strconv.Unquote(raw)
		if err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		h.lines = append(h.lines, line)
	}
	if err := scanner.Err(); err != nil {
		warnings = multierr.Append(warnings, err)
	}

	if warnings != nil {
		return h, serial.NewError(serial.KindIO, "load history", warnings)
	}
	return h, nil
}

// Append records line in memory and on disk. A write failure is returned
// as an IOError; the in-memory history still has the line.
func (h *History) Append(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, line)
	if h.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return serial.NewError(serial.KindIO, "save history", err)
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return serial.NewError(serial.KindIO, "save history", err)
	}
	defer f.Close()

	if _, err := f.WriteString(strconv.Quote(line) + "\n"); err != nil {
		return serial.NewError(serial.KindIO, "save history", err)
	}
	return nil
}

// Lines returns the history oldest first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lines...)
}
