package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// decimalLiteral matches the decimal number strings accepted by clients
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber converts a raw JSON value into a float64 the way the web clients
// of the pricer expect it: numbers as they are, null and false are 0, true
// is 1, strings are parsed and everything else is NaN.
func toNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return math.NaN()
	}

	switch raw[0] {
	case 'n':
		return 0
	case 't':
		return 1
	case 'f':
		return 0
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return math.NaN()
		}
		return stringToNumber(s)
	case '[', '{':
		return math.NaN()
	default:
		return parseFloat(string(raw))
	}
}

// stringToNumber parses a numeric string, returning NaN if it is not a number
func stringToNumber(s string) float64 {
	s = strings.TrimFunc(s, isSpace)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	// Integer literals with a base prefix (no sign allowed)
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseBase(s[2:], 16)
		case 'o', 'O':
			return parseBase(s[2:], 8)
		case 'b', 'B':
			return parseBase(s[2:], 2)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}

	return parseFloat(s)
}

// parseFloat parses a decimal number, out of range values become +-Inf or 0
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// isSpace reports whether r is trimmed from numeric strings
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// parseBase parses an unsigned integer of arbitrary length in the given base
func parseBase(digits string, base int) float64 {
	// big.Int would also accept a sign and underscores
	for _, c := range digits {
		if c == '_' || c == '+' || c == '-' {
			return math.NaN()
		}
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// isTruthy reports whether a raw JSON value counts as set:
// false, null, 0, NaN and the empty string do not
func isTruthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '[', '{':
		return true
	case '"':
		return !bytes.Equal(raw, []byte(`""`))
	default:
		v := toNumber(raw)
		return v != 0 && !math.IsNaN(v)
	}
}
