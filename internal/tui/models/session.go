package models

import (
	serial "github.com/hellototoro/xtools"
)

// InputMode is the vim-like mode of the interactive client.
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
	InputModeVisual
	InputModePorts
)

func (m InputMode) String() string {
	switch m {
	case InputModeInsert:
		return "INSERT"
	case InputModeVisual:
		return "VISUAL"
	case InputModePorts:
		return "PORTS"
	default:
		return "NORMAL"
	}
}

// Session is the client-side state of one TUI run. The connection itself
// lives in the shared manager; Session only keeps what the UI displays.
type Session struct {
	log       *serial.EntryLog
	inputMode InputMode
	ready     bool
	err       error

	// pollFailing suppresses repeated read errors until a poll succeeds.
	pollFailing bool
}

func NewSession() *Session {
	return &Session{log: serial.NewEntryLog()}
}

func (s *Session) Log() *serial.EntryLog {
	return s.log
}

func (s *Session) AddEntries(entries ...serial.DataEntry) {
	s.log.Append(entries...)
}

func (s *Session) Entries() []serial.DataEntry {
	return s.log.Entries()
}

func (s *Session) ClearData() {
	s.log.Clear()
}

func (s *Session) GetInputMode() InputMode {
	return s.inputMode
}

func (s *Session) SetInputMode(mode InputMode) {
	s.inputMode = mode
}

func (s *Session) IsInInsertMode() bool {
	return s.inputMode == InputModeInsert
}

func (s *Session) IsReady() bool {
	return s.ready
}

func (s *Session) SetReady(ready bool) {
	s.ready = ready
}

func (s *Session) Err() error {
	return s.err
}

func (s *Session) SetError(err error) {
	s.err = err
}

// PollFailed records a read failure and reports whether it starts a new
// failure streak.
func (s *Session) PollFailed() bool {
	first := !s.pollFailing
	s.pollFailing = true
	return first
}

func (s *Session) PollSucceeded() {
	s.pollFailing = false
}
