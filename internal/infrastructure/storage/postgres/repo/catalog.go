package repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/infrastructure/storage/postgres"
)

// Compile-time check
var _ catalog.Loader = (*CatalogLoader)(nil)

// CatalogLoader reads catalog tables for catalog.Store.
type CatalogLoader struct {
	txm *postgres.TxManager
}

// NewCatalogLoader creates a new catalog loader.
func NewCatalogLoader(txm *postgres.TxManager) *CatalogLoader {
	return &CatalogLoader{txm: txm}
}

// LoadCatalog reads the whole table for kind in a read-only transaction.
func (l *CatalogLoader) LoadCatalog(ctx context.Context, kind catalog.Kind) ([]catalog.Entry, error) {
	sql, args, err := catalogQuery(kind).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entries := make([]catalog.Entry, 0)
	err = l.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, l.txm.GetQuerier(ctx), &entries, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return entries, nil
}

func catalogQuery(kind catalog.Kind) squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id", "nombre").
		From(string(kind)).
		OrderBy("id")
}
