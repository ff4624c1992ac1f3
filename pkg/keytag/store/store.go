package store

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// Store persists named weight tables
type Store interface {
	Close() error

	// SaveTable stores table under info.Name, replacing any previous table
	// with that name, and returns the stored metadata.
	SaveTable(ctx context.Context, info TableInfo, table weights.Table) (TableInfo, error)
	// LoadTable returns the table stored under name, or an error wrapping
	// internalerr.ErrNotFound.
	LoadTable(ctx context.Context, name string) (weights.Table, TableInfo, error)
	ListTables(ctx context.Context) ([]TableInfo, error)
	DeleteTable(ctx context.Context, name string) error
}

// TableInfo describes a stored weight table
type TableInfo struct {
	ID        string // ULID assigned on save
	Name      string
	Measure   string // icf or idf
	Docs      int64  // documents in the source corpus
	Tokens    int64  // tokens in the source corpus
	Stems     int    // entries in the table
	CreatedAt time.Time
}

// IDSource hands out monotonic ULIDs for saved tables
type IDSource struct {
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates a ULID generator. It is not safe for concurrent use.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new ID for time t
func (s *IDSource) Next(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}
