package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/store"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

var _ store.Store = (*Store)(nil)

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New()
	defer st.Close()

	table := weights.New(map[string]float64{"a": 0.1, "b": 0.9})
	info, err := st.SaveTable(ctx, store.TableInfo{Name: "docs", Measure: "idf"}, table)
	if err != nil {
		t.Fatal(err)
	}
	if info.ID == "" || info.Stems != 2 {
		t.Errorf("unexpected info %+v", info)
	}

	loaded, got, err := st.LoadTable(ctx, "docs")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != info.ID || loaded.Weight("b") != 0.9 {
		t.Errorf("got %+v %v", got, loaded.Map())
	}
}

func TestMemStoreIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	st := New()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		info, err := st.SaveTable(ctx, store.TableInfo{Name: "t"}, weights.Table{})
		if err != nil {
			t.Fatal(err)
		}
		if seen[info.ID] {
			t.Fatalf("duplicate ID %s", info.ID)
		}
		seen[info.ID] = true
	}
}

func TestMemStoreNotFound(t *testing.T) {
	ctx := context.Background()
	st := New()

	if _, _, err := st.LoadTable(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("load: %v", err)
	}
	if err := st.DeleteTable(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("delete: %v", err)
	}
	if _, err := st.SaveTable(ctx, store.TableInfo{}, weights.Table{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("save without name: %v", err)
	}
}

func TestMemStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	st := New()

	for _, name := range []string{"b", "a", "c"} {
		if _, err := st.SaveTable(ctx, store.TableInfo{Name: name}, weights.Table{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.DeleteTable(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	tables, err := st.ListTables(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 || tables[0].Name != "a" || tables[1].Name != "c" {
		t.Errorf("unexpected list %+v", tables)
	}
}
