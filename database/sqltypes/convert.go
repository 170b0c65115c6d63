package sqltypes

import (
	"math"
	"strconv"
	"strings"
)

// Int64 coerces v to an integer.  The coercion is total: booleans become 1 or
// 0, NULL and the skip marker become 0, fractions are truncated toward zero,
// strings use their longest leading numeric prefix (0 when there is none) and
// collections become 0 when empty and 1 otherwise.  Out of range values
// saturate at the int64 bounds.
func (v Value) Int64() int64 {
	switch inner := v.Inner.(type) {
	case Bool:
		if inner {
			return 1
		}
		return 0
	case Numeric:
		return parseIntSaturating(string(inner))
	case Fractional:
		f, _ := strconv.ParseFloat(string(inner), 64)
		return truncSaturating(f)
	case String:
		prefix, isInt := numericPrefix(string(inner.data))
		if prefix == "" {
			return 0
		}
		if isInt {
			return parseIntSaturating(prefix)
		}
		f, _ := strconv.ParseFloat(prefix, 64)
		return truncSaturating(f)
	case List:
		if len(inner) == 0 {
			return 0
		}
		return 1
	case *Map:
		if inner.Len() == 0 {
			return 0
		}
		return 1
	}
	return 0
}

// Float64 coerces v to a float with the same rules as Int64, minus the
// truncation.  Strings whose numeric prefix overflows yield an infinity.
func (v Value) Float64() float64 {
	switch inner := v.Inner.(type) {
	case Numeric:
		f, _ := strconv.ParseFloat(string(inner), 64)
		return f
	case Fractional:
		f, _ := strconv.ParseFloat(string(inner), 64)
		return f
	case String:
		prefix, _ := numericPrefix(string(inner.data))
		if prefix == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(prefix, 64)
		return f
	}
	return float64(v.Int64())
}

func parseIntSaturating(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i
	}
	if strings.HasPrefix(s, "-") {
		return math.MinInt64
	}
	return math.MaxInt64
}

func truncSaturating(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// numericPrefix returns the longest prefix of s (after leading whitespace)
// that reads as a decimal number, and whether that prefix is an integer.
func numericPrefix(s string) (string, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := countDigits(s[i:])
	i += intDigits

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		if intDigits == 0 && fracDigits == 0 {
			return "", false
		}
		i += 1 + fracDigits
	}
	if intDigits == 0 && fracDigits == 0 {
		return "", false
	}
	isInt := fracDigits == 0 && !strings.Contains(s[:i], ".")

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if expDigits := countDigits(s[j:]); expDigits > 0 {
			i = j + expDigits
			isInt = false
		}
	}
	return s[:i], isInt
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
