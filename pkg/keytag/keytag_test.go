package keytag

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/cognicore/keytag/pkg/keytag/ingest"
	"github.com/cognicore/keytag/pkg/keytag/rate"
	"github.com/cognicore/keytag/pkg/keytag/stem"
	"github.com/cognicore/keytag/pkg/keytag/tag"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

var words = []string{
	"alpha", "bravo", "charlie", "delta", "echo",
	"foxtrot", "golf", "hotel", "india", "juliet",
}

// tenTagTagger tags the ten words above, each in its own sentence, with
// weights increasing along the list.
func tenTagTagger() (*Tagger, string) {
	m := make(map[string]float64, len(words))
	for i, w := range words {
		m[w] = float64(i+1) / 10
	}
	tagger := New(Options{
		Stemmer: stem.New(stem.Identity{}),
		Rater:   rate.New(weights.New(m), 3),
	})
	return tagger, strings.Join(words, ". ") + "."
}

func TestTagTruncates(t *testing.T) {
	tagger, text := tenTagTagger()

	all, err := tagger.Tag(text, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 10 {
		t.Fatalf("got %d tags, want 10: %v", len(all), Strings(all))
	}

	top, err := tagger.Tag(text, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"juliet", "india", "hotel"}
	if !reflect.DeepEqual(Strings(top), want) {
		t.Errorf("got %v, want %v", Strings(top), want)
	}
}

func TestTagFewerThanRequested(t *testing.T) {
	tagger := New(Options{Stemmer: stem.New(stem.Identity{})})
	got, err := tagger.Tag("Alpha. Bravo. Charlie. Delta.", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("got %v, want 4 tags", Strings(got))
	}
}

func TestTagNonPositiveCount(t *testing.T) {
	tagger, text := tenTagTagger()
	for _, n := range []int{0, -1} {
		got, err := tagger.Tag(text, n)
		if err != nil || len(got) != 0 {
			t.Errorf("Tag(n=%d) = %v, %v", n, got, err)
		}
	}
}

func TestTagEmptyDocument(t *testing.T) {
	got, err := NewDefault(weights.Table{}).Tag("", DefaultTags)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestTagResultFields(t *testing.T) {
	tagger := NewDefault(weights.New(map[string]float64{"the": 0}))
	got, err := tagger.Tag("Yesterday, Barack Obama. Today, Barack Obama.", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v", got)
	}
	r := got[0]
	if r.Surface != "barack obama" || r.Stem != "barack obama" || !r.Proper {
		t.Errorf("unexpected result %+v", r)
	}
	if r.Score <= 0 || r.Score > 1 || r.Rating > r.Score {
		t.Errorf("unexpected scores %+v", r)
	}
}

func TestTagDeterministicAndConcurrent(t *testing.T) {
	table := weights.New(map[string]float64{"the": 0, "a": 0, "of": 0, "in": 0.05})
	tagger := NewDefault(table)
	text := `The Lounge Lizards were a jazz group formed in 1978 by John Lurie.
The group released albums on several labels, and John Lurie led it for decades.
Critics praised the jazz of The Lounge Lizards.`

	want, err := tagger.Tag(text, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(want) == 0 {
		t.Fatal("no tags")
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := tagger.Tag(text, 5)
			if err != nil {
				errs <- err.Error()
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- "results differ between calls"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

type failingTokenizer struct{}

func (failingTokenizer) Tokenize(string) ([]tag.Tag, error) {
	return nil, errors.New("malformed input")
}

type failingStemmer struct{}

func (failingStemmer) Stem(t tag.Tag) (tag.Tag, error) {
	return t, errors.New("no stem")
}

func TestTagPropagatesCollaboratorErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"tokenizer", Options{Tokenizer: failingTokenizer{}}},
		{"stemmer", Options{Stemmer: failingStemmer{}}},
		{"unsupported language", Options{Stemmer: stem.New(stem.Snowball{Language: "klingon"})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts).Tag("Some text here.", 5); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTagWithHTMLReader(t *testing.T) {
	tagger := New(Options{Tokenizer: ingest.NewHTMLReader(nil)})
	got, err := tagger.Tag("<p>Sony <b>PlayStation</b> Network</p><script>evil()</script>", 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range got {
		if strings.Contains(r.Surface, "evil") {
			t.Errorf("script text leaked: %v", Strings(got))
		}
	}
	if len(got) == 0 {
		t.Error("expected tags from visible text")
	}
}
