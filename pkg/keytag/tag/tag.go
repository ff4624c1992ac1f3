// Package tag defines the units handled by the tagging pipeline: atomic
// tags produced by a tokenizer and multitags built by aggregating
// consecutive atomic tags.
//
// Tags are compared by stem, never by identity. Every map keyed by tags
// uses a Key extracted explicitly from the stem (or the ordered stem
// sequence of a multitag).
package tag

import (
	"math"
	"strings"
)

// Key identifies a logical tag: the stem of an atomic tag, or the stems
// of a multitag joined by single spaces.
type Key string

// Tag is an atomic unit of text.
type Tag struct {
	Surface  string  // lowercased text as it appeared in the document
	Stem     string  // canonical form; tags with equal stems are equal
	Rating   float64 // relevance, term frequency * weight once rated
	Proper   bool    // believed to be a proper noun
	Terminal bool    // cannot be merged with the following tag
}

// New returns an unrated tag whose stem defaults to its surface.
func New(surface string) Tag {
	return Tag{Surface: surface, Stem: surface, Rating: 1.0}
}

// Key returns the stem-based identity of the tag.
func (t Tag) Key() Key {
	return Key(t.Stem)
}

// MultiTag is an ordered aggregate of consecutive atomic tags.
// A MultiTag of size 1 is identical to its atomic tag.
type MultiTag struct {
	Tag
	Score      float64  // Rating normalized by Size
	Size       int      // number of atomic tags combined
	Start      int      // index of the first atomic tag in the document
	Stems      []string // ordered stems of the atomic tags
	subratings []float64
}

// Single wraps the atomic tag found at position i of the document.
func Single(t Tag, i int) MultiTag {
	return MultiTag{
		Tag:        t,
		Score:      t.Rating,
		Size:       1,
		Start:      i,
		Stems:      []string{t.Stem},
		subratings: []float64{t.Rating},
	}
}

// Extend returns a new multitag made of head followed by tail. Neither
// argument is modified.
func Extend(head MultiTag, tail Tag) MultiTag {
	stems := make([]string, 0, head.Size+1)
	stems = append(stems, head.Stems...)
	stems = append(stems, tail.Stem)

	subratings := make([]float64, 0, head.Size+1)
	subratings = append(subratings, head.subratings...)
	subratings = append(subratings, tail.Rating)

	m := MultiTag{
		Tag: Tag{
			Surface:  head.Surface + " " + tail.Surface,
			Stem:     head.Stem + " " + tail.Stem,
			Proper:   head.Proper && tail.Proper,
			Terminal: tail.Terminal,
		},
		Size:       head.Size + 1,
		Start:      head.Start,
		Stems:      stems,
		subratings: subratings,
	}
	m.Rating = combinedRating(subratings, m.Proper)
	m.Score = Normalize(m.Rating, m.Size)
	return m
}

// Key returns the ordered stem sequence of the multitag.
func (m MultiTag) Key() Key {
	return Key(strings.Join(m.Stems, " "))
}

// Subratings returns a copy of the ratings of the unit tags.
func (m MultiTag) Subratings() []float64 {
	out := make([]float64, len(m.subratings))
	copy(out, m.subratings)
	return out
}

// Normalize maps a multitag rating to a score comparable across sizes.
func Normalize(rating float64, size int) float64 {
	if size <= 1 || rating <= 0 {
		return rating
	}
	return math.Pow(rating, 1.0/float64(size))
}

// combinedRating multiplies the unit ratings. Proper nouns are not zeroed
// by a stopword in between: the non-zero ratings are used instead, scaled
// so that the normalized score is their geometric mean.
func combinedRating(subratings []float64, proper bool) float64 {
	product := 1.0
	for _, r := range subratings {
		product *= r
	}
	if product != 0 || !proper {
		return product
	}

	nonzero := 0
	product = 1.0
	for _, r := range subratings {
		if r > 0 {
			product *= r
			nonzero++
		}
	}
	if nonzero == 0 {
		return 0
	}
	return math.Pow(product, float64(len(subratings))/float64(nonzero))
}
