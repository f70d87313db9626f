package pricing

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 500
	// StandardShipping is the flat shipping cost below the threshold.
	StandardShipping = 50
)

// Parse normalizes a raw catalog price into a float. The catalog serves prices
// both as numbers and as pre-formatted strings with grouping commas ("1,250");
// every piece of arithmetic in the storefront must route through this one rule.
// Anything non-numeric parses to 0.
func Parse(v interface{}) float64 {
	switch p := v.(type) {
	case nil:
		return 0
	case float64:
		return p
	case float32:
		return float64(p)
	case int:
		return float64(p)
	case int64:
		return float64(p)
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		return parseString(p)
	case Value:
		return p.Float64()
	case *Value:
		if p == nil {
			return 0
		}
		return p.Float64()
	default:
		return 0
	}
}

func parseString(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Format renders a price for display with grouping commas, mirroring the
// catalog's string form. Fractional cents are kept only when present.
func Format(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Value holds a price exactly as it arrived from the catalog, either a JSON
// number or a pre-formatted string. The original shape survives a
// marshal/unmarshal round trip so persisted carts stay byte-comparable with
// what the catalog served.
type Value struct {
	str      string
	num      float64
	isString bool
}

// NewValue wraps a numeric price.
func NewValue(f float64) Value {
	return Value{num: f}
}

// NewStringValue wraps a pre-formatted string price.
func NewStringValue(s string) Value {
	return Value{str: s, isString: true}
}

// Float64 returns the normalized numeric price.
func (v Value) Float64() float64 {
	if v.isString {
		return parseString(v.str)
	}
	return v.num
}

// IsZero reports whether the value is the zero price in either shape.
func (v Value) IsZero() bool {
	return v.Float64() == 0
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isString {
		return json.Marshal(v.str)
	}
	return json.Marshal(v.num)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value{str: s, isString: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Value{num: f}
	return nil
}
