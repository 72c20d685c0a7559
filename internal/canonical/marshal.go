package canonical

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultWidth is the line width used when a caller passes a width <= 0.
const DefaultWidth = 50

const indentUnit = "  "

// Marshal renders v on a single line with a space after every ':' and ','
// outside of strings, e.g. {"a": [1, 2]}.
func Marshal(v Value) ([]byte, error) {
	var b strings.Builder
	if err := writeFlat(&b, v); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// MarshalPretty renders v with two-space indentation, keeping any array or
// object on a single line when its flat form fits within width columns
// (counting the indentation, the key and a trailing comma). The output ends
// with a newline.
func MarshalPretty(v Value, width int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	p := &printer{width: width}
	out, err := p.format(v, "", 0)
	if err != nil {
		return nil, err
	}
	return []byte(out + "\n"), nil
}

type printer struct {
	width int
}

// format renders v at the given indentation. reserved is the number of
// columns already claimed on the current line by a key prefix or a
// trailing comma.
func (p *printer) format(v Value, indent string, reserved int) (string, error) {
	var b strings.Builder
	if err := writeFlat(&b, v); err != nil {
		return "", err
	}
	flat := b.String()
	if utf8.RuneCountInString(flat) <= p.width-len(indent)-reserved {
		return flat, nil
	}

	next := indent + indentUnit
	var items []string
	var start, end string

	switch val := v.(type) {
	case Array:
		if len(val) == 0 {
			return flat, nil
		}
		start, end = "[", "]"
		for i, elem := range val {
			item, err := p.format(elem, next, trailing(i, len(val)))
			if err != nil {
				return "", fmt.Errorf("array[%d]: %w", i, err)
			}
			items = append(items, item)
		}
	case Object:
		if len(val) == 0 {
			return flat, nil
		}
		start, end = "{", "}"
		for i, m := range val {
			keyPart := quote(m.Key) + ": "
			item, err := p.format(m.Value, next, utf8.RuneCountInString(keyPart)+trailing(i, len(val)))
			if err != nil {
				return "", fmt.Errorf("object[%q]: %w", m.Key, err)
			}
			items = append(items, keyPart+item)
		}
	default:
		return flat, nil
	}

	return start + "\n" + next + strings.Join(items, ",\n"+next) + "\n" + indent + end, nil
}

func trailing(i, n int) int {
	if i == n-1 {
		return 0
	}
	return 1
}

func writeFlat(b *strings.Builder, v Value) error {
	switch val := v.(type) {
	case nil, Null:
		b.WriteString("null")
	case String:
		b.WriteString(quote(string(val)))
	case Bool:
		if val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		s, err := formatNumber(float64(val))
		if err != nil {
			return err
		}
		b.WriteString(s)
	case Array:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := writeFlat(b, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, m := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quote(m.Key))
			b.WriteString(": ")
			if err := writeFlat(b, m.Value); err != nil {
				return fmt.Errorf("object[%q]: %w", m.Key, err)
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("unsupported canonical value: %T", v)
	}
	return nil
}

// formatNumber prints the shortest decimal that round-trips, without an
// exponent for the magnitudes coordinates and radii take.
func formatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("number %v is not representable in JSON", f)
	}
	if f == 0 {
		return "0", nil
	}
	if math.Abs(f) >= 1e21 || math.Abs(f) < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// quote produces a JSON string literal. Only '"', '\\' and control
// characters are escaped; '<', '>', '&', U+2028 and U+2029 are written
// literally so the files stay readable.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
