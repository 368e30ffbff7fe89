package numfmt

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func TestParseCompactMarkers(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"4.040 млн", 4_040_000},
		{"2.3 млн", 2_300_000},
		{"252 тыс", 252_000},
		{"9.9 тыс", 9_900},
		{"505.8k", 505_800},
		{"505,8K", 505_800},
		{"1 200", 1200},
		{"760.9 МЛН", 760_900_000},
		{"42", 42},
		{"", 0},
		{"garbage", 0},
		{"12abc", 0},
		{"млн", 0},
		{"тыс", 0},
		{"k", 0},
	}
	for _, c := range cases {
		if got := ParseCompact(c.in); got != c.want {
			t.Fatalf("ParseCompact(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseCompactLiteralDecimal(t *testing.T) {
	// "4.040 млн" is authored with a thousands-style point but must parse
	// literally as 4.040 * 1e6, not as 4040 * 1e6.
	if got := ParseCompact("4.040 млн"); got != 4_040_000 {
		t.Fatalf("got %v, want 4040000", got)
	}
}

func TestParseCompactNonFinite(t *testing.T) {
	for _, in := range []string{"inf", "+inf", "-inf", "nan"} {
		if got := ParseCompact(in); got != 0 {
			t.Fatalf("ParseCompact(%q) = %v, want 0", in, got)
		}
	}
}

func TestFormatCompactMillions(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{4_040_000, "4 млн"},
		{2_300_000, "2,3 млн"},
		{1_000_000, "1 млн"},
		{760_900_000, "760,9 млн"},
	}
	for _, c := range cases {
		if got := FormatCompact(c.in); got != c.want {
			t.Fatalf("FormatCompact(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCompactThousands(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{252_000, "252 тыс"},
		{9_900, "9,9 тыс"},
		{505_800, "505,8 тыс"},
		{1_000, "1 тыс"},
	}
	for _, c := range cases {
		if got := FormatCompact(c.in); got != c.want {
			t.Fatalf("FormatCompact(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCompactPlain(t *testing.T) {
	if got := FormatCompact(999); got != "999" {
		t.Fatalf("FormatCompact(999) = %q, want %q", got, "999")
	}
	if got := FormatCompact(0); got != "0" {
		t.Fatalf("FormatCompact(0) = %q, want %q", got, "0")
	}
}

func TestFormatCompactNegativeMirrorsPositive(t *testing.T) {
	for _, x := range []float64{1, 999, 1_000, 505_800, 4_040_000} {
		pos := FormatCompact(x)
		neg := FormatCompact(-x)
		if neg != "-"+pos {
			t.Fatalf("FormatCompact(-%v) = %q, want %q", x, neg, "-"+pos)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// Exact for integers below a thousand.
	for _, x := range []float64{0, 1, 42, 999} {
		if got := ParseCompact(FormatCompact(x)); got != x {
			t.Fatalf("round trip %v -> %q -> %v", x, FormatCompact(x), got)
		}
	}
	// Order of magnitude preserved above it (one-decimal rounding is lossy).
	for _, x := range []float64{1_234, 505_800, 4_044_000, 760_940_000} {
		got := ParseCompact(FormatCompact(x))
		if math.Floor(math.Log10(got)) != math.Floor(math.Log10(x)) {
			t.Fatalf("magnitude changed: %v -> %q -> %v", x, FormatCompact(x), got)
		}
	}
}

func TestValueNormalize(t *testing.T) {
	if got := Number(1234.5).Normalize(); got != 1234.5 {
		t.Fatalf("Number identity: got %v", got)
	}
	if got := String("252 тыс").Normalize(); got != 252_000 {
		t.Fatalf("String normalize: got %v", got)
	}
}

func TestValueJSON(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`"505.8k"`), &v); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if got := v.Normalize(); got != 505_800 {
		t.Fatalf("normalize after unmarshal: got %v", got)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"505.8k"` {
		t.Fatalf("marshal kept form: got %s", out)
	}

	if err := json.Unmarshal([]byte(`777`), &v); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if got := v.Normalize(); got != 777 {
		t.Fatalf("number passthrough: got %v", got)
	}
	if err := json.Unmarshal([]byte(`[1]`), &v); err == nil {
		t.Fatal("expected error for non-scalar")
	}
}
