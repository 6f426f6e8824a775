package compose

import (
	"math"
	"strconv"
	"strings"

	"github.com/fyparse/fyparse/token"
	"github.com/fyparse/fyparse/value"
)

// scalarValue converts a single scanned+classified token into its
// value.Value, following the core-schema Type the scanner already
// assigned (spec §4.2's reserved-keyword/number grammar).
func scalarValue(tk *token.Token) value.Value {
	switch tk.Type {
	case token.NullType:
		return value.Null()
	case token.BoolType:
		return value.Bool(isTrueSpelling(tk.Value))
	case token.IntegerType:
		if i, ok := parseYAMLInt(tk.Value); ok {
			return value.Int(i)
		}
		return value.String(tk.Value)
	case token.FloatType:
		if f, err := strconv.ParseFloat(tk.Value, 64); err == nil {
			return value.Float(f)
		}
		return value.String(tk.Value)
	case token.InfinityType:
		if strings.HasPrefix(tk.Value, "-") {
			return value.Float(math.Inf(-1))
		}
		return value.Float(math.Inf(1))
	case token.NanType:
		return value.Float(math.NaN())
	default:
		return value.String(tk.Value)
	}
}

func isTrueSpelling(s string) bool {
	switch s {
	case "true", "True", "TRUE":
		return true
	}
	return false
}

// parseYAMLInt supports the core-schema integer grammar: decimal,
// 0x-hex, 0o-octal, and legacy 0-prefixed octal, with an optional sign.
func parseYAMLInt(s string) (int64, bool) {
	sign := int64(1)
	rest := s
	if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "-") {
		sign = -1
		rest = rest[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(rest, "0x"), strings.HasPrefix(rest, "0X"):
		base = 16
		rest = rest[2:]
	case strings.HasPrefix(rest, "0o"), strings.HasPrefix(rest, "0O"):
		base = 8
		rest = rest[2:]
	case len(rest) > 1 && rest[0] == '0':
		base = 8
		rest = rest[1:]
	}
	i, err := strconv.ParseInt(rest, base, 64)
	if err != nil {
		return 0, false
	}
	return sign * i, true
}

func withTag(v value.Value, tag string) value.Value {
	v.Tag = tag
	return v
}
