package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockdesk/internal/domain/catalog"
	"stockdesk/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by Migrate.
func Schema() string {
	return schemaSQL
}

// Migrate creates missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info(ctx, "schema applied")
	return nil
}

// SeedCatalogs upserts catalog rows in one batch; existing names are
// overwritten.
func SeedCatalogs(ctx context.Context, txm *TxManager, data map[catalog.Kind][]catalog.Entry) error {
	var queries []BatchQuery
	for _, kind := range catalog.Kinds {
		for _, e := range data[kind] {
			sql, args, err := BuildCatalogUpsert(kind, e)
			if err != nil {
				return fmt.Errorf("build upsert %s: %w", kind, err)
			}
			queries = append(queries, BatchQuery{SQL: sql, Args: args})
		}
	}

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return NewBatchExecutor(txm).ExecuteBatch(ctx, queries)
	})
	if err != nil {
		return fmt.Errorf("seed catalogs: %w", err)
	}

	logger.Info(ctx, "catalogs seeded", "rows", len(queries))
	return nil
}

// BuildCatalogUpsert builds the INSERT ... ON CONFLICT statement for one row.
func BuildCatalogUpsert(kind catalog.Kind, e catalog.Entry) (string, []any, error) {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(string(kind)).
		Columns("id", "nombre").
		Values(e.ID, e.Name).
		Suffix("ON CONFLICT (id) DO UPDATE SET nombre = EXCLUDED.nombre").
		ToSql()
}
