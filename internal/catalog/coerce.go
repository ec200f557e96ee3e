package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SafeInt converts a loosely typed API value to an int, truncating toward
// zero. It returns nil for nil, "", and anything that does not parse.
func SafeInt(v any) *int {
	f := SafeFloat(v)
	if f == nil {
		return nil
	}
	t := math.Trunc(*f)
	if t >= math.MaxInt || t < math.MinInt {
		return nil
	}
	i := int(t)
	return &i
}

// SafeFloat converts a loosely typed API value to a float64. It returns nil
// for nil, "", non-finite values, and anything that does not parse.
func SafeFloat(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case bool:
		if t {
			f = 1
		}
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// CleanHTML reduces markup to plain text: tags stripped, entities decoded,
// invalid UTF-8 dropped, whitespace runs collapsed to one space.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}

	// a strings.Reader never fails, so neither does the parse
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(s))
	text := strings.ToValidUTF8(doc.Text(), "")

	return strings.Join(strings.Fields(text), " ")
}

// Truncate caps s at n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Ellipsize caps s at n runes, replacing the tail with "..." when it is cut.
func Ellipsize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
