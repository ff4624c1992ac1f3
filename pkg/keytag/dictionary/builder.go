// Package dictionary builds weight tables from a reference corpus.
//
// The weight of a stem decreases logarithmically with how common it is in
// the corpus, relative to the size of the corpus:
//
//	ICF(s) = 1 - ln(cf(s)+1) / ln(T+1)   T = tokens in the corpus
//	IDF(s) = 1 - ln(df(s)+1) / ln(N+1)   N = documents in the corpus
//
// Both lie in [0,1]. Stopwords are forced to 0.
package dictionary

import (
	"fmt"
	"math"

	"github.com/cognicore/keytag/pkg/keytag"
	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// Measure selects how corpus frequency is turned into a weight.
type Measure string

const (
	// MeasureICF uses collection frequency (number of occurrences).
	MeasureICF Measure = "icf"
	// MeasureIDF uses document frequency.
	MeasureIDF Measure = "idf"
)

// ParseMeasure validates a measure name. The empty string selects ICF.
func ParseMeasure(s string) (Measure, error) {
	switch Measure(s) {
	case "", MeasureICF:
		return MeasureICF, nil
	case MeasureIDF:
		return MeasureIDF, nil
	}
	return "", fmt.Errorf("measure %q: %w", s, internalerr.ErrInvalidConfig)
}

// Builder turns corpus counts into a weight table.
type Builder struct {
	measure   Measure
	stopwords map[string]struct{}
}

// NewBuilder creates a builder. stopStems are stems that get weight 0.
func NewBuilder(measure Measure, stopStems []string) *Builder {
	if measure == "" {
		measure = MeasureICF
	}
	stops := make(map[string]struct{}, len(stopStems))
	for _, s := range stopStems {
		stops[s] = struct{}{}
	}
	return &Builder{measure: measure, stopwords: stops}
}

// Measure returns the measure used by the builder.
func (b *Builder) Measure() Measure {
	return b.measure
}

// Weight computes the weight of a single stem.
func (b *Builder) Weight(c *Counter, stem string) float64 {
	if _, ok := b.stopwords[stem]; ok {
		return 0
	}

	var count, total int64
	switch b.measure {
	case MeasureIDF:
		count, total = c.GetDocCount(stem), c.TotalDocs()
	default:
		count, total = c.GetCollectionCount(stem), c.TotalTokens()
	}
	if total <= 0 {
		return weights.DefaultWeight
	}

	w := 1.0 - math.Log(float64(count)+1)/math.Log(float64(total)+1)
	return math.Max(0, math.Min(1, w))
}

// Build returns the weights of every stem counted, plus every stopword.
func (b *Builder) Build(c *Counter) weights.Table {
	m := make(map[string]float64, c.UniqueStems()+len(b.stopwords))
	for stem := range c.CF {
		m[stem] = b.Weight(c, stem)
	}
	for stem := range b.stopwords {
		m[stem] = 0
	}
	return weights.New(m)
}

// Stems tokenizes and stems text, returning the stems in document order.
func Stems(text string, tok keytag.Tokenizer, st keytag.Stemmer) ([]string, error) {
	tags, err := tok.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t, err = st.Stem(t)
		if err != nil {
			return nil, fmt.Errorf("stem: %w", err)
		}
		out = append(out, t.Stem)
	}
	return out, nil
}

// CountTexts adds each text to a new Counter as one document.
func CountTexts(texts []string, tok keytag.Tokenizer, st keytag.Stemmer) (*Counter, error) {
	c := NewCounter()
	for i, text := range texts {
		stems, err := Stems(text, tok, st)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		c.AddDocument(stems)
	}
	return c, nil
}
