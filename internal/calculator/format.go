package calculator

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormatNumber renders v the way the keypad front end renders numbers:
// shortest round-trip digits, plain notation for magnitudes in [1e-7, 1e21)
// and exponent notation ("1e+21", "1.5e-7") outside it.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(s, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)

	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		e := n - 1
		expSign := "+"
		if e < 0 {
			expSign = "-"
			e = -e
		}
		out = digits[:1]
		if k > 1 {
			out += "." + digits[1:]
		}
		out += "e" + expSign + strconv.Itoa(e)
	}
	return sign + out
}

var numericPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseNumber reads the longest numeric prefix of s, ignoring leading
// whitespace. Text with no numeric prefix (an error message, "-", "") is NaN.
func ParseNumber(s string) float64 {
	m := numericPrefix.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	// Out-of-range literals come back as ±Inf or 0 alongside the error.
	v, _ := strconv.ParseFloat(m, 64)
	return v
}
