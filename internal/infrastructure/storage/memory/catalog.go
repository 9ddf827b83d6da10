package memory

import (
	"context"

	"stockdesk/internal/domain/catalog"
)

// Compile-time check
var _ catalog.Loader = (*CatalogLoader)(nil)

// CatalogLoader serves the store's catalog tables to catalog.Store.
type CatalogLoader struct {
	s *Store
}

// NewCatalogLoader creates a new catalog loader.
func NewCatalogLoader(s *Store) *CatalogLoader {
	return &CatalogLoader{s: s}
}

// LoadCatalog returns a copy of the rows of kind.
func (l *CatalogLoader) LoadCatalog(ctx context.Context, kind catalog.Kind) ([]catalog.Entry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if err := l.s.injected("catalog." + string(kind)); err != nil {
		return nil, err
	}

	rows := l.s.catalogs[kind]
	out := make([]catalog.Entry, len(rows))
	copy(out, rows)
	return out, nil
}

// SetCatalog replaces the rows of one catalog.
func (s *Store) SetCatalog(kind catalog.Kind, rows []catalog.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs[kind] = append([]catalog.Entry(nil), rows...)
}

// catalogHasLocked reports whether id is a key of kind. Caller holds mu.
func (s *Store) catalogHasLocked(kind catalog.Kind, id int64) bool {
	for _, e := range s.catalogs[kind] {
		if e.ID == id {
			return true
		}
	}
	return false
}
