package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testContext = CompletionContext{
	Ports:      []string{"/dev/ttyACM0", "/dev/ttyUSB0", "COM3"},
	ConfigKeys: []string{"baud", "data_bits", "parity", "port"},
}

func TestComplete(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", CommandNames},
		{"c", []string{"connect", "config", "clear"}},
		{"con", []string{"connect", "config"}},
		{"he", []string{"hex", "help"}},
		{"xyz", nil},
		{"connect ", []string{"/dev/ttyACM0", "/dev/ttyUSB0", "COM3"}},
		{"connect /dev/ttyU", []string{"/dev/ttyUSB0"}},
		{"connect  CO", []string{"COM3"}},
		{"config p", []string{"parity", "port"}},
		{"send h", nil},
		{"connect COM3 ", nil},
		{"config baud 96", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Complete(tt.line, testContext))
		})
	}
}

func TestCompleteIsPure(t *testing.T) {
	ctx := CompletionContext{Ports: []string{"COM3"}, ConfigKeys: []string{"baud"}}
	first := Complete("connect ", ctx)
	second := Complete("connect ", ctx)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"COM3"}, ctx.Ports)
}

func TestAutoCompleter(t *testing.T) {
	ac := autoCompleter{context: func() CompletionContext { return testContext }}

	line := []rune("connect /dev/tty")
	got, length := ac.Do(line, len(line))
	assert.Equal(t, len("/dev/tty"), length)
	assert.Equal(t, [][]rune{[]rune("ACM0 "), []rune("USB0 ")}, got)

	line = []rune("dis")
	got, length = ac.Do(line, len(line))
	assert.Equal(t, 3, length)
	assert.Equal(t, [][]rune{[]rune("connect ")}, got)
}
