package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *int
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"blank string", "   ", nil},
		{"integer string", "42", intPtr(42)},
		{"decimal string", "4.0", intPtr(4)},
		{"truncates toward zero", "-2.9", intPtr(-2)},
		{"padded string", " 7 ", intPtr(7)},
		{"letters", "abc", nil},
		{"float", 3.7, intPtr(3)},
		{"int", 12, intPtr(12)},
		{"int64", int64(99), intPtr(99)},
		{"json number", json.Number("15"), intPtr(15)},
		{"bool", true, intPtr(1)},
		{"nan string", "NaN", nil},
		{"inf", math.Inf(1), nil},
		{"map", map[string]any{"-value": "3"}, nil},
		{"slice", []any{"1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, SafeInt(tt.in))
			})
		})
	}
}

func TestSafeFloat(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		got := SafeFloat("7.85")
		require.NotNil(t, got)
		assert.InDelta(t, 7.85, *got, 1e-9)

		got = SafeFloat(2)
		require.NotNil(t, got)
		assert.Equal(t, 2.0, *got)
	})

	t.Run("error", func(t *testing.T) {
		assert.Nil(t, SafeFloat(nil))
		assert.Nil(t, SafeFloat(""))
		assert.Nil(t, SafeFloat("seven"))
		assert.Nil(t, SafeFloat(struct{}{}))
	})
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"entities", "<p>A &amp; B</p>", "A & B"},
		{"empty", "", ""},
		{"whitespace runs", "Line one&#10;&#10;Line   two\n\t three", "Line one Line two three"},
		{"nested markup", "<div><b>Bold</b> and <i>italic</i></div>", "Bold and italic"},
		{"unclosed tags", "<p>Broken <b>markup", "Broken markup"},
		{"plain text", "  just text  ", "just text"},
		{"nbsp", "a&nbsp;b", "a b"},
		{"invalid utf-8", "\xff\xfe<b>x</b> y", "x y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHTML(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "åäö", Truncate("åäöü", 3))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "short", Ellipsize("short", 10))
	assert.Equal(t, "abcd...", Ellipsize("abcdefghij", 7))
}

func intPtr(i int) *int { return &i }
