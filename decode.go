package serial

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// DefaultEncoding is the charset used for the text field of a DataEntry.
const DefaultEncoding = "utf-8"

var encodings = map[string]encoding.Encoding{
	"gbk":       simplifiedchinese.GBK,
	"gb18030":   simplifiedchinese.GB18030,
	"big5":      traditionalchinese.Big5,
	"shift_jis": japanese.ShiftJIS,
	"latin1":    charmap.ISO8859_1,
}

// Encodings lists the accepted charset names.
func Encodings() []string {
	return []string{"utf-8", "gbk", "gb18030", "big5", "shift_jis", "latin1"}
}

// TextDecoder turns raw bytes into display text. Invalid sequences are
// replaced, never reported.
type TextDecoder struct {
	name string
	enc  encoding.Encoding
}

// NewTextDecoder returns a decoder for one of Encodings().
func NewTextDecoder(name string) (TextDecoder, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf-8", "utf8":
		return TextDecoder{name: DefaultEncoding}, nil
	}
	enc, ok := encodings[n]
	if !ok {
		return TextDecoder{}, validationError("encoding", fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfig, name))
	}
	return TextDecoder{name: n, enc: enc}, nil
}

// Name returns the canonical charset name.
func (d TextDecoder) Name() string {
	if d.name == "" {
		return DefaultEncoding
	}
	return d.name
}

// Decode converts data lossily. A multi-byte character split across two
// reads decodes to replacement characters on both sides.
func (d TextDecoder) Decode(data []byte) string {
	if d.enc == nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	out, err := d.enc.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	return string(out)
}
