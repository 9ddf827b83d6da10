// Package catalog provides the read-only lookup tables (document types,
// third-party types, cities, product categories).
//
// Tables are read through a Loader on first use and kept for the life of the
// process. There is no invalidation: edits to catalog tables are picked up on
// restart.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Kind names a catalog table.
type Kind string

const (
	DocumentTypes   Kind = "TipoDocumento"
	ThirdPartyTypes Kind = "TipoTercero"
	Cities          Kind = "Ciudad"
	Categories      Kind = "Categoria"
)

// Kinds lists every catalog, in the order they are loaded at startup.
var Kinds = []Kind{DocumentTypes, ThirdPartyTypes, Cities, Categories}

// Entry is one key/name row.
type Entry struct {
	ID   int64  `db:"id"`
	Name string `db:"nombre"`
}

// Loader reads a whole catalog table from the store.
type Loader interface {
	LoadCatalog(ctx context.Context, kind Kind) ([]Entry, error)
}

// Store is a read-through cache over Loader.
type Store struct {
	loader Loader

	mu      sync.Mutex
	entries map[Kind][]Entry
	names   map[Kind]map[int64]string
}

// NewStore creates an empty store; nothing is read until first use or Load.
func NewStore(loader Loader) *Store {
	return &Store{
		loader:  loader,
		entries: make(map[Kind][]Entry),
		names:   make(map[Kind]map[int64]string),
	}
}

// Load reads every catalog. Called once at startup so a broken store is
// reported before the menu opens.
func (s *Store) Load(ctx context.Context) error {
	for _, kind := range Kinds {
		if _, err := s.Entries(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the rows of kind ordered by id.
func (s *Store) Entries(ctx context.Context, kind Kind) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(ctx, kind); err != nil {
		return nil, err
	}

	out := make([]Entry, len(s.entries[kind]))
	copy(out, s.entries[kind])
	return out, nil
}

// Lookup returns the name for id in kind.
func (s *Store) Lookup(ctx context.Context, kind Kind, id int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(ctx, kind); err != nil {
		return "", false, err
	}

	name, ok := s.names[kind][id]
	return name, ok, nil
}

// NameOr returns the name for id, or fallback when it is unknown or the
// catalog cannot be read. Display helper.
func (s *Store) NameOr(ctx context.Context, kind Kind, id int64, fallback string) string {
	name, ok, err := s.Lookup(ctx, kind, id)
	if err != nil || !ok {
		return fallback
	}
	return name
}

// Exists reports whether id is a key of kind.
func (s *Store) Exists(ctx context.Context, kind Kind, id int64) (bool, error) {
	_, ok, err := s.Lookup(ctx, kind, id)
	return ok, err
}

func (s *Store) ensureLocked(ctx context.Context, kind Kind) error {
	if _, ok := s.entries[kind]; ok {
		return nil
	}

	rows, err := s.loader.LoadCatalog(ctx, kind)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", kind, err)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	names := make(map[int64]string, len(rows))
	for _, r := range rows {
		names[r.ID] = r.Name
	}

	s.entries[kind] = rows
	s.names[kind] = names
	return nil
}
