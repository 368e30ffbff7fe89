package numfmt

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Value is a numeric field that the seed data authors either as a JSON number
// or as a compact string. It keeps whichever form it was given so re-encoding
// is faithful; Normalize resolves it to a plain value.
type Value struct {
	num    float64
	str    string
	isNum  bool
	filled bool
}

func Number(v float64) Value {
	return Value{num: v, isNum: true, filled: true}
}

func String(s string) Value {
	return Value{str: s, filled: true}
}

// Normalize returns the plain numeric value: numbers pass through unchanged,
// strings go through ParseCompact.
func (v Value) Normalize() float64 {
	if v.isNum {
		return v.num
	}
	return ParseCompact(v.str)
}

// Source returns the authored form as text, suitable for storing in a TEXT
// column and re-reading with String.
func (v Value) Source() string {
	if !v.filled {
		return "0"
	}
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Number(n)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.filled {
		return []byte("0"), nil
	}
	if v.isNum {
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	}
	return json.Marshal(v.str)
}
