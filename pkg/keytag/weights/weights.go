// Package weights holds the read-only table of term weights used to rate
// tags. A weight of 0 marks a stopword; weights close to 1 mark highly
// discriminative stems.
package weights

import "sort"

// DefaultWeight is returned for stems missing from a table. Unseen terms
// are treated as maximally informative.
const DefaultWeight = 1.0

// Table is an immutable mapping from stem to weight. The zero value is an
// empty table. A Table may be shared by concurrent readers.
type Table struct {
	m map[string]float64
}

// New copies m into a new table.
func New(m map[string]float64) Table {
	cp := make(map[string]float64, len(m))
	for stem, w := range m {
		cp[stem] = w
	}
	return Table{m: cp}
}

// Weight returns the weight of stem, or DefaultWeight when absent.
func (t Table) Weight(stem string) float64 {
	if w, ok := t.m[stem]; ok {
		return w
	}
	return DefaultWeight
}

// Lookup returns the weight of stem and whether it is present.
func (t Table) Lookup(stem string) (float64, bool) {
	w, ok := t.m[stem]
	return w, ok
}

// Len returns the number of stems in the table.
func (t Table) Len() int {
	return len(t.m)
}

// Stems returns the stems of the table in lexical order.
func (t Table) Stems() []string {
	out := make([]string, 0, len(t.m))
	for stem := range t.m {
		out = append(out, stem)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy of the underlying mapping.
func (t Table) Map() map[string]float64 {
	cp := make(map[string]float64, len(t.m))
	for stem, w := range t.m {
		cp[stem] = w
	}
	return cp
}
