package onprem

import (
	"maps"

	"github.com/google/go-cmp/cmp"
)

// Changed reports whether two representations of an entity differ once the
// ignored fields are masked. A field is only masked when both sides carry it.
func Changed(before, after map[string]any, ignore IgnoreSet) bool {
	a, b := scrub(before, after, ignore)
	return !cmp.Equal(a, b)
}

// Diff renders the difference Changed acts on, for debug logging.
func Diff(before, after map[string]any, ignore IgnoreSet) string {
	a, b := scrub(before, after, ignore)
	return cmp.Diff(a, b)
}

func scrub(before, after map[string]any, ignore IgnoreSet) (map[string]any, map[string]any) {
	a := maps.Clone(before)
	if a == nil {
		a = map[string]any{}
	}
	b := maps.Clone(after)
	if b == nil {
		b = map[string]any{}
	}

	for field := range ignore {
		_, inA := a[field]
		_, inB := b[field]
		if inA && inB {
			delete(a, field)
			delete(b, field)
		}
	}
	return a, b
}
