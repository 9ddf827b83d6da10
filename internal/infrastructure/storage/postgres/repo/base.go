// Package repo provides the PostgreSQL repositories. Every statement is
// built with squirrel and scanned with pgxscan; the querier comes from the
// injected TxManager so calls join the transaction carried by ctx.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/infrastructure/storage/postgres"
)

// BaseRepo provides common CRUD operations for tables keyed by a BIGSERIAL id.
// Embed this in entity repositories.
type BaseRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	orderBy    string
	newFn      func() T
	setID      func(T, int64)

	// immutable columns are written on insert only
	immutable []string
}

// BaseRepoConfig configures BaseRepo.
type BaseRepoConfig[T any] struct {
	TxManager  *postgres.TxManager
	Table      string
	EntityName string
	Columns    []string
	OrderBy    string
	New        func() T
	SetID      func(T, int64)
	Immutable  []string
}

// NewBaseRepo creates a new base repository.
func NewBaseRepo[T any](cfg BaseRepoConfig[T]) *BaseRepo[T] {
	orderBy := cfg.OrderBy
	if orderBy == "" {
		orderBy = "id ASC"
	}
	return &BaseRepo[T]{
		txm:        cfg.TxManager,
		tableName:  cfg.Table,
		entityName: cfg.EntityName,
		selectCols: cfg.Columns,
		orderBy:    orderBy,
		newFn:      cfg.New,
		setID:      cfg.SetID,
		immutable:  cfg.Immutable,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// baseSelect creates a SELECT builder over all mapped columns.
func (r *BaseRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// insertData returns the column map for INSERT (everything but id).
func (r *BaseRepo[T]) insertData(entity T) (map[string]any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return nil, fmt.Errorf("no db tags found in entity")
	}

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range postgres.Without(r.selectCols, "id") {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	return filtered, nil
}

// buildInsert builds INSERT ... RETURNING id.
func (r *BaseRepo[T]) buildInsert(entity T) (string, []any, error) {
	data, err := r.insertData(entity)
	if err != nil {
		return "", nil, err
	}
	return r.Builder().
		Insert(r.tableName).
		SetMap(data).
		Suffix("RETURNING id").
		ToSql()
}

// buildUpdate builds UPDATE ... SET <mutable columns> WHERE id = $n.
func (r *BaseRepo[T]) buildUpdate(entity T) (string, []any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("no db tags found in entity")
	}

	entityID, ok := data["id"]
	if !ok {
		return "", nil, fmt.Errorf("entity has no 'id' field with db tag")
	}

	exclude := append([]string{"id"}, r.immutable...)
	set := make(map[string]any, len(r.selectCols))
	for _, col := range postgres.Without(r.selectCols, exclude...) {
		if val, ok := data[col]; ok {
			set[col] = val
		}
	}

	return r.Builder().
		Update(r.tableName).
		SetMap(set).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
}

// Create inserts the entity and sets its id.
func (r *BaseRepo[T]) Create(ctx context.Context, entity T) (int64, error) {
	sql, args, err := r.buildInsert(entity)
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var newID int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return 0, r.wrap("insert", err)
	}

	if r.setID != nil {
		r.setID(entity, newID)
	}
	return newID, nil
}

// Update overwrites the mutable columns of an existing row.
func (r *BaseRepo[T]) Update(ctx context.Context, entity T) error {
	sql, args, err := r.buildUpdate(entity)
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.wrap("update", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, postgres.StructToMap(entity)["id"])
	}
	return nil
}

// GetByID retrieves entity by ID.
func (r *BaseRepo[T]) GetByID(ctx context.Context, entityID int64) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)

	entity, err := r.FindOne(ctx, q)
	if err != nil && apperror.IsNotFound(err) {
		return entity, apperror.NewNotFound(r.entityName, entityID)
	}
	return entity, err
}

// GetAll returns every row in the repository's default order.
func (r *BaseRepo[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.FindMany(ctx, r.baseSelect())
}

// Exists checks if entity exists.
func (r *BaseRepo[T]) Exists(ctx context.Context, entityID int64) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.tableName, err)
	}

	return true, nil
}

// Delete performs physical removal from the database.
func (r *BaseRepo[T]) Delete(ctx context.Context, entityID int64) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.wrap("delete", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID)
	}
	return nil
}

// FindOne executes a SELECT query and returns a single entity.
func (r *BaseRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, "matching query")
		}
		return entity, fmt.Errorf("find one %s: %w", r.tableName, err)
	}

	return entity, nil
}

// FindMany executes a SELECT query with the repository ordering appended.
func (r *BaseRepo[T]) FindMany(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.OrderBy(r.orderBy).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]T, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.tableName, err)
	}
	return items, nil
}

func (r *BaseRepo[T]) wrap(op string, err error) error {
	if mapped := postgres.MapError(r.entityName, err); mapped != err {
		return mapped
	}
	return fmt.Errorf("%s %s: %w", op, r.tableName, err)
}

// likeEscaper escapes LIKE metacharacters; backslash is the default escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text as a literal
// substring.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
