package wire

import (
	"sort"
)

// StringTable collects the strings referenced by a binary file. Strings are
// stored in lexicographic order, so the table of a given set of strings is
// always the same.
type StringTable struct {
	set    map[string]struct{}
	list   []string
	index  map[string]int
	frozen bool
}

// Add adds s to the table. Empty strings and additions after Freeze are
// ignored.
func (t *StringTable) Add(s ...string) {
	if t.frozen {
		return
	}
	if t.set == nil {
		t.set = map[string]struct{}{}
	}
	for _, s := range s {
		if s != "" {
			t.set[s] = struct{}{}
		}
	}
}

// Freeze sorts the collected strings and assigns their indices.
func (t *StringTable) Freeze() {
	if t.frozen {
		return
	}
	t.frozen = true
	t.list = make([]string, 0, len(t.set))
	for s := range t.set {
		t.list = append(t.list, s)
	}
	sort.Strings(t.list)
	t.index = make(map[string]int, len(t.list))
	for i, s := range t.list {
		t.index[s] = i
	}
}

// Strings returns the frozen strings in order.
func (t *StringTable) Strings() []string {
	t.Freeze()
	return t.list
}

// Index returns the position of s in the frozen table.
func (t *StringTable) Index(s string) (i int, ok bool) {
	t.Freeze()
	i, ok = t.index[s]
	return i, ok
}

// NewStringTable returns a frozen table holding list in its given order.
// Duplicate strings resolve to their first position.
func NewStringTable(list []string) *StringTable {
	t := &StringTable{frozen: true, list: list, index: make(map[string]int, len(list))}
	for i, s := range list {
		if _, ok := t.index[s]; !ok {
			t.index[s] = i
		}
	}
	return t
}
