// Package keytag extracts a handful of representative tags (keywords and
// key-phrases) from a natural-language document.
//
// A Tagger chains three collaborators: a Tokenizer splits the text into
// atomic tags, a Stemmer gives each tag its canonical stem, and a Rater
// scores, merges and de-duplicates them. Any implementation of the three
// interfaces can be plugged in; the defaults live in the ingest, stem and
// rate packages.
package keytag

import (
	"fmt"

	"github.com/cognicore/keytag/pkg/keytag/ingest"
	"github.com/cognicore/keytag/pkg/keytag/rate"
	"github.com/cognicore/keytag/pkg/keytag/stem"
	"github.com/cognicore/keytag/pkg/keytag/tag"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// DefaultTags is the number of tags returned when none is configured.
const DefaultTags = 5

// Tokenizer splits text into atomic tags in document order.
type Tokenizer interface {
	Tokenize(text string) ([]tag.Tag, error)
}

// Stemmer returns an atomic tag with its stem populated.
type Stemmer interface {
	Stem(t tag.Tag) (tag.Tag, error)
}

// Rater turns stemmed atomic tags into unique tags sorted by relevance.
type Rater interface {
	Rate(tags []tag.Tag) ([]tag.MultiTag, error)
}

// Options configures a Tagger
type Options struct {
	Tokenizer Tokenizer
	Stemmer   Stemmer
	Rater     Rater
}

// Tagger is the tagging pipeline. It keeps no state between calls and is
// safe for concurrent use when its collaborators are.
type Tagger struct {
	tokenizer Tokenizer
	stemmer   Stemmer
	rater     Rater
}

// Result is a ranked tag.
type Result struct {
	Surface string  `json:"tag"`
	Stem    string  `json:"stem"`
	Score   float64 `json:"score"`
	Rating  float64 `json:"rating"`
	Proper  bool    `json:"proper"`
}

// New creates a Tagger from its collaborators. Missing collaborators are
// replaced by the defaults, with an empty weight table for the Rater.
func New(opts Options) *Tagger {
	t := &Tagger{
		tokenizer: opts.Tokenizer,
		stemmer:   opts.Stemmer,
		rater:     opts.Rater,
	}
	if t.tokenizer == nil {
		t.tokenizer = ingest.NewReader()
	}
	if t.stemmer == nil {
		t.stemmer = stem.New(nil)
	}
	if t.rater == nil {
		t.rater = rate.New(weights.Table{}, rate.DefaultMultiTagSize)
	}
	return t
}

// NewDefault creates a Tagger with the plain-text reader, the English
// Snowball stemmer and a Rater over table.
func NewDefault(table weights.Table) *Tagger {
	return New(Options{Rater: rate.New(table, rate.DefaultMultiTagSize)})
}

// Tag returns at most n tags of text, best first. Fewer are returned when
// the document does not have n distinct tags; n <= 0 returns none.
// Errors from the collaborators are returned unchanged in meaning, wrapped
// with the failing stage.
func (t *Tagger) Tag(text string, n int) ([]Result, error) {
	if n <= 0 {
		return []Result{}, nil
	}

	ranked, err := t.Rank(text)
	if err != nil {
		return nil, err
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	results := make([]Result, len(ranked))
	for i, m := range ranked {
		results[i] = Result{
			Surface: m.Surface,
			Stem:    string(m.Key()),
			Score:   m.Score,
			Rating:  m.Rating,
			Proper:  m.Proper,
		}
	}
	return results, nil
}

// Rank runs the full pipeline and returns every surviving tag.
func (t *Tagger) Rank(text string) ([]tag.MultiTag, error) {
	tags, err := t.tokenizer.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	for i := range tags {
		tags[i], err = t.stemmer.Stem(tags[i])
		if err != nil {
			return nil, fmt.Errorf("stem: %w", err)
		}
	}

	ranked, err := t.rater.Rate(tags)
	if err != nil {
		return nil, fmt.Errorf("rate: %w", err)
	}
	return ranked, nil
}

// Strings returns the surface forms of results.
func Strings(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Surface
	}
	return out
}
