package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	serial "github.com/hellototoro/xtools"
)

type keyField struct {
	get func(*AppConfig) string
	set func(*AppConfig, string) error
}

var keyOrder = []string{
	"port", "baud", "data_bits", "stop_bits", "parity",
	"hex_mode", "append_newline", "newline", "encoding", "driver",
	"show_timestamp", "show_hex", "auto_scroll",
}

var keyFields = map[string]keyField{
	"port": {
		get: func(c *AppConfig) string { return c.Serial.Port },
		set: func(c *AppConfig, v string) error { c.Serial.Port = v; return nil },
	},
	"baud": {
		get: func(c *AppConfig) string { return cast.ToString(c.Serial.BaudRate) },
		set: func(c *AppConfig, v string) error {
			n, err := cast.ToIntE(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: %q", serial.ErrInvalidBaudRate, v)
			}
			c.Serial.BaudRate = n
			return nil
		},
	},
	"data_bits": {
		get: func(c *AppConfig) string { return cast.ToString(c.Serial.DataBits) },
		set: intSetter(func(c *AppConfig, n int) { c.Serial.DataBits = n }),
	},
	"stop_bits": {
		get: func(c *AppConfig) string { return cast.ToString(c.Serial.StopBits) },
		set: intSetter(func(c *AppConfig, n int) { c.Serial.StopBits = n }),
	},
	"parity": {
		get: func(c *AppConfig) string { return c.Serial.Parity },
		set: func(c *AppConfig, v string) error {
			p, err := serial.ParseParity(v)
			if err != nil {
				return err
			}
			c.Serial.Parity = p.String()
			return nil
		},
	},
	"hex_mode": {
		get: func(c *AppConfig) string { return cast.ToString(c.Serial.HexMode) },
		set: boolSetter(func(c *AppConfig, b bool) { c.Serial.HexMode = b }),
	},
	"append_newline": {
		get: func(c *AppConfig) string { return cast.ToString(c.Serial.AppendNewline) },
		set: boolSetter(func(c *AppConfig, b bool) { c.Serial.AppendNewline = b }),
	},
	"newline": {
		get: func(c *AppConfig) string { return c.Serial.Newline },
		set: func(c *AppConfig, v string) error { c.Serial.Newline = strings.ToLower(v); return nil },
	},
	"encoding": {
		get: func(c *AppConfig) string { return c.Serial.Encoding },
		set: func(c *AppConfig, v string) error {
			d, err := serial.NewTextDecoder(v)
			if err != nil {
				return err
			}
			c.Serial.Encoding = d.Name()
			return nil
		},
	},
	"driver": {
		get: func(c *AppConfig) string { return c.Serial.Driver },
		set: func(c *AppConfig, v string) error {
			d, err := serial.ParseDriver(v)
			if err != nil {
				return err
			}
			c.Serial.Driver = string(d)
			return nil
		},
	},
	"show_timestamp": {
		get: func(c *AppConfig) string { return cast.ToString(c.Display.ShowTimestamp) },
		set: boolSetter(func(c *AppConfig, b bool) { c.Display.ShowTimestamp = b }),
	},
	"show_hex": {
		get: func(c *AppConfig) string { return cast.ToString(c.Display.ShowHex) },
		set: boolSetter(func(c *AppConfig, b bool) { c.Display.ShowHex = b }),
	},
	"auto_scroll": {
		get: func(c *AppConfig) string { return cast.ToString(c.Display.AutoScroll) },
		set: boolSetter(func(c *AppConfig, b bool) { c.Display.AutoScroll = b }),
	},
}

func intSetter(apply func(*AppConfig, int)) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", serial.ErrInvalidConfig, v)
		}
		apply(c, n)
		return nil
	}
}

func boolSetter(apply func(*AppConfig, bool)) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", serial.ErrInvalidConfig, v)
		}
		apply(c, b)
		return nil
	}
}

// Keys lists the flat keys accepted by Value and SetValue.
func Keys() []string {
	return append([]string(nil), keyOrder...)
}

// Value returns the current value of a flat key.
func (s *Store) Value(key string) (string, error) {
	f, ok := keyFields[key]
	if !ok {
		return "", validationError(fmt.Errorf("%w: %s", serial.ErrUnknownKey, key))
	}
	cfg := s.Get()
	return f.get(&cfg), nil
}

// SetValue parses value for key, validates the resulting configuration and
// persists it.
func (s *Store) SetValue(key, value string) error {
	f, ok := keyFields[key]
	if !ok {
		return validationError(fmt.Errorf("%w: %s", serial.ErrUnknownKey, key))
	}
	cfg := s.Get()
	if err := f.set(&cfg, value); err != nil {
		if serial.KindOf(err) == serial.KindUnknown {
			return validationError(err)
		}
		return err
	}
	return s.Save(cfg)
}

// Pairs returns every flat key with its value in display order.
func (s *Store) Pairs() [][2]string {
	cfg := s.Get()
	out := make([][2]string, 0, len(keyOrder))
	for _, key := range keyOrder {
		out = append(out, [2]string{key, keyFields[key].get(&cfg)})
	}
	return out
}
