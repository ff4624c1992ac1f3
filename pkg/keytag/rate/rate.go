// Package rate ranks the tags of a document.
//
// Atomic tags are rated by term frequency times dictionary weight. Every
// run of up to MultiTagSize consecutive tags that does not cross a terminal
// tag becomes a candidate multitag. Candidates sharing a stem sequence are
// clustered into one logical tag, and a logical tag that is redundant with
// an overlapping longer or shorter one is discarded.
//
// Known limitations:
//
//   - On short documents the redundancy rule is aggressive: a word that
//     appears only inside frequent phrases is dropped in favour of them.
//   - Overlap decisions depend on the order in which logical tags are
//     examined. Prune visits them in order of first occurrence.
package rate

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/keytag/pkg/keytag/tag"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// DefaultMultiTagSize is the longest phrase considered by default.
const DefaultMultiTagSize = 3

// minSurfaceRunes is the shortest surface form kept in the output.
const minSurfaceRunes = 2

// Rater ranks stemmed atomic tags against a weight table.
// It holds no per-call state and is safe for concurrent use.
type Rater struct {
	weights      weights.Table
	multitagSize int
}

// New returns a Rater. A non-positive multitagSize selects
// DefaultMultiTagSize.
func New(table weights.Table, multitagSize int) *Rater {
	if multitagSize <= 0 {
		multitagSize = DefaultMultiTagSize
	}
	return &Rater{weights: table, multitagSize: multitagSize}
}

// MultiTagSize returns the longest phrase the rater builds.
func (r *Rater) MultiTagSize() int {
	return r.multitagSize
}

// Rate returns the unique logical tags of the document sorted by
// descending score. The input is not modified.
func (r *Rater) Rate(tags []tag.Tag) ([]tag.MultiTag, error) {
	rated := RateTags(tags, r.weights)
	multitags := CreateMultiTags(rated, r.multitagSize)
	ranked := Prune(Cluster(multitags))
	SortByScore(ranked)
	return ranked, nil
}

// RateTags returns a copy of tags where each rating is the term frequency
// of the stem in the document times its weight.
func RateTags(tags []tag.Tag, table weights.Table) []tag.Tag {
	counts := make(map[tag.Key]int, len(tags))
	for _, t := range tags {
		counts[t.Key()]++
	}

	n := float64(len(tags))
	out := make([]tag.Tag, len(tags))
	for i, t := range tags {
		t.Rating = float64(counts[t.Key()]) / n * table.Weight(t.Stem)
		out[i] = t
	}
	return out
}

// CreateMultiTags returns, in document order, every run of 1 to size
// consecutive tags that does not extend past a terminal tag.
func CreateMultiTags(tags []tag.Tag, size int) []tag.MultiTag {
	multitags := make([]tag.MultiTag, 0, len(tags)*size)

	for i := range tags {
		t := tag.Single(tags[i], i)
		multitags = append(multitags, t)
		for j := 1; j < size; j++ {
			if t.Terminal || i+j >= len(tags) {
				break
			}
			t = tag.Extend(t, tags[i+j])
			multitags = append(multitags, t)
		}
	}
	return multitags
}

// Group is a logical tag: all candidates sharing a stem sequence.
type Group struct {
	Tag   tag.MultiTag // representative occurrence
	Count int          // number of occurrences in the document
}

type groupBuilder struct {
	first    tag.MultiTag
	count    int
	proper   int
	rating   float64
	score    float64
	surfaces map[string]int
	order    []string
}

// Cluster groups candidates by stem sequence, in order of first
// occurrence. The representative takes the most frequent surface form,
// first seen winning ties. When more than half of the occurrences are
// proper the representative is proper and gets the highest rating and
// score among them; otherwise it keeps the values of the first occurrence.
func Cluster(multitags []tag.MultiTag) []Group {
	index := make(map[tag.Key]int)
	var builders []*groupBuilder

	for _, m := range multitags {
		k := m.Key()
		i, ok := index[k]
		if !ok {
			i = len(builders)
			index[k] = i
			builders = append(builders, &groupBuilder{
				first:    m,
				surfaces: make(map[string]int),
			})
		}
		b := builders[i]
		b.count++
		if m.Proper {
			b.proper++
		}
		if m.Rating > b.rating {
			b.rating = m.Rating
		}
		if m.Score > b.score {
			b.score = m.Score
		}
		if b.surfaces[m.Surface] == 0 {
			b.order = append(b.order, m.Surface)
		}
		b.surfaces[m.Surface]++
	}

	groups := make([]Group, len(builders))
	for i, b := range builders {
		rep := b.first
		rep.Surface = b.mostCommonSurface()
		if b.proper*2 > b.count {
			rep.Proper = true
			rep.Rating = b.rating
			rep.Score = b.score
		} else {
			rep.Proper = false
		}
		groups[i] = Group{Tag: rep, Count: b.count}
	}
	return groups
}

func (b *groupBuilder) mostCommonSurface() string {
	best, bestCount := "", 0
	for _, s := range b.order {
		if c := b.surfaces[s]; c > bestCount {
			best, bestCount = s, c
		}
	}
	return best
}

// Prune drops one-character tags and resolves overlaps between each
// logical tag t and every shorter contiguous stem sub-sequence s of it.
// The shorter tag is dropped when the longer is a proper noun that always
// accompanies it, or when the longer is at least half as frequent and has
// a positive score; otherwise the longer tag is dropped.
//
// Groups are visited in order of first occurrence, sub-sequences by
// increasing length then position. A tag dropped by one comparison still
// takes part in later ones.
func Prune(groups []Group) []tag.MultiTag {
	counts := make(map[tag.Key]int, len(groups))
	alive := make(map[tag.Key]bool, len(groups))
	for _, g := range groups {
		k := g.Tag.Key()
		counts[k] = g.Count
		if utf8.RuneCountInString(g.Tag.Surface) >= minSurfaceRunes {
			alive[k] = true
		}
	}

	for _, g := range groups {
		t := g.Tag
		for l := 1; l < len(t.Stems); l++ {
			for i := 0; i+l <= len(t.Stems); i++ {
				s := tag.Key(strings.Join(t.Stems[i:i+l], " "))
				if subsumes(t, g.Count, counts[s]) {
					delete(alive, s)
				} else {
					delete(alive, t.Key())
				}
			}
		}
	}

	out := make([]tag.MultiTag, 0, len(alive))
	for _, g := range groups {
		if alive[g.Tag.Key()] {
			out = append(out, g.Tag)
		}
	}
	return out
}

// subsumes reports whether t, seen cnt times, makes a shorter tag seen
// subCnt times redundant. An unseen shorter tag counts once.
func subsumes(t tag.MultiTag, cnt, subCnt int) bool {
	if subCnt <= 0 {
		subCnt = 1
	}
	relative := float64(cnt) / float64(subCnt)
	return (relative == 1.0 && t.Proper) || (relative >= 0.5 && t.Score > 0)
}

// SortByScore orders tags by descending score, then by stem sequence.
func SortByScore(tags []tag.MultiTag) {
	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Score != tags[j].Score {
			return tags[i].Score > tags[j].Score
		}
		return tags[i].Key() < tags[j].Key()
	})
}
