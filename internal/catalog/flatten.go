package catalog

import (
	"errors"
	"fmt"
)

// ErrMalformedItem marks a single response item that cannot be used. List
// parsers skip such items and keep going.
var ErrMalformedItem = errors.New("malformed item")

// Node is one decoded XML element or JSON object. XML attributes are keyed
// with a leading "-" and element text is keyed "#text".
type Node = map[string]any

const (
	attrPrefix = "-"
	textKey    = "#text"
)

// EnsureList normalizes a value that may be absent, a single element, or a
// list of elements into a list. List entries of another type are dropped.
func EnsureList[T any](v any) []T {
	out, _ := SplitList[T](v)
	return out
}

// SplitList is EnsureList that also reports how many entries it dropped.
// An empty XML element among siblings decodes to "" and counts as dropped.
func SplitList[T any](v any) ([]T, int) {
	switch t := v.(type) {
	case nil:
		return nil, 0
	case []any:
		out := make([]T, 0, len(t))
		for _, e := range t {
			if x, ok := e.(T); ok {
				out = append(out, x)
			}
		}
		return out, len(t) - len(out)
	case []T:
		return t, 0
	case T:
		return []T{t}, 0
	}
	return nil, 1
}

// Nodes is EnsureList for element children.
func Nodes(n Node, key string) []Node {
	out, _ := SplitNodes(n, key)
	return out
}

// SplitNodes is SplitList for element children.
func SplitNodes(n Node, key string) ([]Node, int) {
	if n == nil {
		return nil, 0
	}
	v, ok := n[key]
	if !ok {
		return nil, 0
	}
	return SplitList[Node](v)
}

// Child returns the element under key when it decoded to a mapping.
func Child(n Node, key string) Node {
	if n == nil {
		return nil
	}
	c, _ := n[key].(Node)
	return c
}

// Attr returns the raw value of an XML attribute.
func Attr(n Node, name string) any {
	if n == nil {
		return nil
	}
	return n[attrPrefix+name]
}

// AttrString returns an attribute as a string, or "" when absent.
func AttrString(n Node, name string) string {
	return Text(Attr(n, name))
}

// AttrFlag reports whether an attribute is "1".
func AttrFlag(n Node, name string) bool {
	return AttrString(n, name) == "1"
}

// Value returns the "value" attribute of the child element, the shape BGG
// uses for most scalar thing fields.
func Value(n Node, child string) any {
	return Attr(Child(n, child), "value")
}

// Text returns element text whether the element decoded to a bare string or
// to a mapping carrying attributes alongside its text.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Node:
		return Text(t[textKey])
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// OptionalText is Text with "" mapped to nil.
func OptionalText(v any) *string {
	s := Text(v)
	if s == "" {
		return nil
	}
	return &s
}

// ID reads a required positive numeric identifier.
func ID(v any) (int64, error) {
	i := SafeInt(v)
	if i == nil || *i <= 0 {
		return 0, fmt.Errorf("%w: invalid id %v", ErrMalformedItem, v)
	}
	return int64(*i), nil
}
