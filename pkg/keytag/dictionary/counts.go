package dictionary

import "sort"

// Counter maintains corpus statistics for weight computation
type Counter struct {
	N  int64            // total number of documents
	T  int64            // total number of tokens
	DF map[string]int64 // document frequency per stem
	CF map[string]int64 // collection frequency per stem
}

// NewCounter creates a new corpus counter
func NewCounter() *Counter {
	return &Counter{
		DF: make(map[string]int64),
		CF: make(map[string]int64),
	}
}

// AddDocument updates counts for a document given as its sequence of stems
func (c *Counter) AddDocument(stems []string) {
	c.N++
	c.T += int64(len(stems))

	seen := make(map[string]struct{}, len(stems))
	for _, s := range stems {
		c.CF[s]++
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		c.DF[s]++
	}
}

// Merge adds the counts of other to c
func (c *Counter) Merge(other *Counter) {
	c.N += other.N
	c.T += other.T
	for s, n := range other.DF {
		c.DF[s] += n
	}
	for s, n := range other.CF {
		c.CF[s] += n
	}
}

// GetDocCount returns the document frequency for a stem
func (c *Counter) GetDocCount(stem string) int64 {
	return c.DF[stem]
}

// GetCollectionCount returns the number of occurrences of a stem
func (c *Counter) GetCollectionCount(stem string) int64 {
	return c.CF[stem]
}

// TotalDocs returns the total number of documents processed
func (c *Counter) TotalDocs() int64 {
	return c.N
}

// TotalTokens returns the total number of tokens processed
func (c *Counter) TotalTokens() int64 {
	return c.T
}

// UniqueStems returns the number of distinct stems
func (c *Counter) UniqueStems() int {
	return len(c.CF)
}

// Stems returns all stems seen, sorted
func (c *Counter) Stems() []string {
	out := make([]string, 0, len(c.CF))
	for s := range c.CF {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
