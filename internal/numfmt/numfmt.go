// Package numfmt converts between human-authored compact numeric strings
// ("505.8k", "252 тыс", "4.040 млн") and plain numeric values.
package numfmt

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	suffixMillions  = "млн"
	suffixThousands = "тыс"
)

var ruPrinter = message.NewPrinter(language.Russian)

// ParseCompact parses a compact numeric string into its plain value. Magnitude
// markers are checked in order: "млн" (1e6), "тыс" (1e3), then a trailing "k"
// (1e3). Anything that fails to parse yields 0; the data comes from manually
// authored content, so unparseable input is treated as absent rather than
// rejected. Parsing is strict: a trailing non-numeric tail ("12abc") makes the
// whole string unparseable and yields 0 rather than the numeric prefix.
//
// Decimal points in the source are taken literally: "4.040 млн" is
// 4.04 * 1e6 = 4040000, matching the authored data even where the point was
// meant as a thousands separator.
func ParseCompact(s string) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, ",", ".")

	multiplier := 1.0
	switch {
	case strings.Contains(s, suffixMillions):
		multiplier = 1_000_000
		s = strings.ReplaceAll(s, suffixMillions, "")
	case strings.Contains(s, suffixThousands):
		multiplier = 1_000
		s = strings.ReplaceAll(s, suffixThousands, "")
	case strings.HasSuffix(s, "k"):
		multiplier = 1_000
		s = strings.TrimSuffix(s, "k")
	}

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0
	}
	return parsed * multiplier
}

// FormatCompact renders a value back into its compact display form: one
// decimal place with a comma separator and a "млн"/"тыс" suffix above the
// respective magnitude, plain ru-RU grouped digits below a thousand. The sign
// is carried through unchanged.
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}

	if abs >= 1_000_000 {
		return sign + withSuffix(abs/1_000_000, suffixMillions)
	}
	if abs >= 1_000 {
		return sign + withSuffix(abs/1_000, suffixThousands)
	}
	return ruPrinter.Sprint(number.Decimal(v))
}

func withSuffix(n float64, suffix string) string {
	fixed := strconv.FormatFloat(n, 'f', 1, 64)
	fixed = strings.TrimSuffix(fixed, ".0")
	fixed = strings.Replace(fixed, ".", ",", 1)
	return fixed + " " + suffix
}
