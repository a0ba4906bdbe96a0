package serial

import (
	"fmt"
	"strconv"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// EncodeHex renders data as uppercase two-digit bytes separated by single
// spaces, e.g. "48 65 6C".
func EncodeHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	out := make([]byte, 0, len(data)*3-1)
	for i, b := range data {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hexDigits[b>>4], hexDigits[b&0x0F])
	}
	return string(out)
}

// DecodeHex parses whitespace separated byte tokens in either case. Every
// token must be exactly two hex digits: single-digit tokens such as "A" are
// rejected rather than padded, as are longer runs like "0A0B". An empty
// string decodes to no bytes.
func DecodeHex(s string) ([]byte, error) {
	tokens := strings.Fields(s)
	out := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) != 2 {
			return nil, fmt.Errorf("%w: token %q must be exactly two hex digits", ErrInvalidHex, tok)
		}
		b, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: token %q", ErrInvalidHex, tok)
		}
		out = append(out, byte(b))
	}
	return out, nil
}
