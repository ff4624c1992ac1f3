package main

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/keytag/pkg/keytag/config"
	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/store/sqlite"
)

func defaultOptions() options {
	return options{
		Reader:    config.ReaderSimple,
		Algorithm: "snowball",
		Language:  "english",
		Measure:   "icf",
	}
}

func TestBuildTable(t *testing.T) {
	texts := []string{
		"The cat sat on the mat.",
		"The dog chased the cat.",
	}

	table, info, err := buildTable(texts, defaultOptions())
	if err != nil {
		t.Fatalf("buildTable failed: %v", err)
	}

	if info.Docs != 2 || info.Tokens != 11 {
		t.Errorf("info = %+v, want 2 docs and 11 tokens", info)
	}
	if info.Measure != "icf" {
		t.Errorf("measure = %q", info.Measure)
	}

	// "the" occurs 4 times, "dog" once
	if table.Weight("the") >= table.Weight("dog") {
		t.Errorf("weight(the)=%v should be below weight(dog)=%v", table.Weight("the"), table.Weight("dog"))
	}
	want := 1 - math.Log(2)/math.Log(12)
	if got := table.Weight("dog"); math.Abs(got-want) > 1e-9 {
		t.Errorf("weight(dog) = %v, want %v", got, want)
	}
}

func TestBuildTableStoplist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoplist.yaml")
	if err := os.WriteFile(path, []byte("terms:\n  - The\n  - on\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := defaultOptions()
	opts.StoplistPath = path
	opts.Measure = "idf"

	table, info, err := buildTable([]string{"The cat sat on the mat."}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if info.Measure != "idf" {
		t.Errorf("measure = %q", info.Measure)
	}
	for _, s := range []string{"the", "on"} {
		if w, ok := table.Lookup(s); !ok || w != 0 {
			t.Errorf("stopword %q weight = %v (present %v), want 0", s, w, ok)
		}
	}
}

func TestBuildTableInvalidOptions(t *testing.T) {
	opts := defaultOptions()
	opts.Measure = "bm25"
	if _, _, err := buildTable([]string{"x"}, opts); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for measure, got %v", err)
	}

	opts = defaultOptions()
	opts.Reader = "pdf"
	if _, _, err := buildTable([]string{"x"}, opts); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for reader, got %v", err)
	}
}

func TestSaveTable(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "weights.db")

	table, info, err := buildTable([]string{"Alpha beta.", "Beta gamma."}, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	info.Name = "greek"

	saved, err := saveTable(ctx, dbPath, info, table)
	if err != nil {
		t.Fatalf("saveTable failed: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an ID")
	}

	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	loaded, loadedInfo, err := st.LoadTable(ctx, "greek")
	if err != nil {
		t.Fatal(err)
	}
	if loadedInfo.Docs != 2 || loadedInfo.Tokens != 4 {
		t.Errorf("info = %+v", loadedInfo)
	}
	if loaded.Len() != table.Len() {
		t.Errorf("loaded %d stems, want %d", loaded.Len(), table.Len())
	}
}
