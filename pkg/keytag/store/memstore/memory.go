package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/store"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	ids    *store.IDSource
	infos  map[string]store.TableInfo
	tables map[string]weights.Table
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:    store.NewIDSource(),
		infos:  make(map[string]store.TableInfo),
		tables: make(map[string]weights.Table),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveTable implements store.Store.
func (s *Store) SaveTable(ctx context.Context, info store.TableInfo, table weights.Table) (store.TableInfo, error) {
	if strings.TrimSpace(info.Name) == "" {
		return store.TableInfo{}, fmt.Errorf("table name is required: %w", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now().UTC()
	}
	info.ID = s.ids.Next(info.CreatedAt)
	info.Stems = table.Len()

	s.infos[info.Name] = info
	s.tables[info.Name] = table
	return info, nil
}

// LoadTable implements store.Store.
func (s *Store) LoadTable(ctx context.Context, name string) (weights.Table, store.TableInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.infos[name]
	if !ok {
		return weights.Table{}, store.TableInfo{}, fmt.Errorf("table %q: %w", name, internalerr.ErrNotFound)
	}
	return s.tables[name], info, nil
}

// ListTables returns stored tables ordered by name.
func (s *Store) ListTables(ctx context.Context) ([]store.TableInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.TableInfo, 0, len(s.infos))
	for _, info := range s.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteTable implements store.Store.
func (s *Store) DeleteTable(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.infos[name]; !ok {
		return fmt.Errorf("table %q: %w", name, internalerr.ErrNotFound)
	}
	delete(s.infos, name)
	delete(s.tables, name)
	return nil
}
