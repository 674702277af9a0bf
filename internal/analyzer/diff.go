package analyzer

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Diff is a three-way change record: keys added, keys removed, and
// values changed (path -> old/new). It is a plain struct, not a
// library-specific object (spec.md §9) — no deepdiff-equivalent
// package appears anywhere in the retrieved corpus, so this is a
// small hand-rolled recursive comparison rather than a borrowed
// dependency.
type Diff struct {
	Added   map[string]interface{} `json:"added,omitempty"`
	Removed map[string]interface{} `json:"removed,omitempty"`
	Changed map[string]Change      `json:"changed,omitempty"`
}

// Change records a single value transition at a JSON path.
type Change struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// Empty reports whether the diff carries no changes at all.
func (d *Diff) Empty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0)
}

func newDiff() *Diff {
	return &Diff{
		Added:   map[string]interface{}{},
		Removed: map[string]interface{}{},
		Changed: map[string]Change{},
	}
}

// JSON compares two JSON-parsed values and returns their structural
// diff. Arrays are compared order-insensitively: both sides are
// sorted into a canonical order before elementwise comparison.
func JSON(a, b interface{}) *Diff {
	d := newDiff()
	walk("", a, b, d)
	return d
}

func walk(path string, a, b interface{}, d *Diff) {
	am, aIsMap := a.(map[string]interface{})
	bm, bIsMap := b.(map[string]interface{})
	if aIsMap && bIsMap {
		walkMap(path, am, bm, d)
		return
	}

	aa, aIsArr := a.([]interface{})
	ba, bIsArr := b.([]interface{})
	if aIsArr && bIsArr {
		walkArray(path, aa, ba, d)
		return
	}

	if !scalarEqual(a, b) {
		d.Changed[childPath(path, "")] = Change{Old: a, New: b}
	}
}

func walkMap(path string, a, b map[string]interface{}, d *Diff) {
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			d.Removed[childPath(path, k)] = av
			continue
		}
		walk(childPath(path, k), av, bv, d)
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			d.Added[childPath(path, k)] = bv
		}
	}
}

func walkArray(path string, a, b []interface{}, d *Diff) {
	if len(a) != len(b) {
		d.Changed[path] = Change{Old: a, New: b}
		return
	}

	sortedA := sortedCopy(a)
	sortedB := sortedCopy(b)
	for i := range sortedA {
		walk(indexPath(path, i), sortedA[i], sortedB[i], d)
	}
}

func sortedCopy(values []interface{}) []interface{} {
	out := make([]interface{}, len(values))
	copy(out, values)
	sort.Slice(out, func(i, j int) bool {
		return canonicalString(out[i]) < canonicalString(out[j])
	})
	return out
}

func canonicalString(v interface{}) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func scalarEqual(a, b interface{}) bool {
	return canonicalString(a) == canonicalString(b)
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	if key == "" {
		return parent
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
