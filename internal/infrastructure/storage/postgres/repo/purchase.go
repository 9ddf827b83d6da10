package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/purchase"
	"stockdesk/internal/infrastructure/storage/postgres"
)

const (
	purchaseTable     = "compra"
	purchaseLineTable = "detallecompra"
)

// Compile-time checks
var (
	_ purchase.Repository     = (*PurchaseRepo)(nil)
	_ purchase.LineRepository = (*PurchaseLineRepo)(nil)
)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseRepo[*purchase.Purchase]
}

// NewPurchaseRepo creates a new purchase header repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseRepo: NewBaseRepo(BaseRepoConfig[*purchase.Purchase]{
			TxManager:  txm,
			Table:      purchaseTable,
			EntityName: "purchase",
			Columns:    postgres.ExtractDBColumns[purchase.Purchase](),
			OrderBy:    "fecha DESC, id DESC",
			New:        func() *purchase.Purchase { return &purchase.Purchase{} },
			SetID:      func(p *purchase.Purchase, id int64) { p.ID = id },
		}),
	}
}

// GetByDateRange returns headers with from <= fecha <= to.
func (r *PurchaseRepo) GetByDateRange(ctx context.Context, from, to time.Time) ([]*purchase.Purchase, error) {
	return r.FindMany(ctx, r.dateRangeQuery(from, to))
}

func (r *PurchaseRepo) dateRangeQuery(from, to time.Time) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.GtOrEq{"fecha": from}).
		Where(squirrel.LtOrEq{"fecha": to})
}

// GetBySupplier returns headers of one supplier.
func (r *PurchaseRepo) GetBySupplier(ctx context.Context, supplierID int64) ([]*purchase.Purchase, error) {
	return r.FindMany(ctx, r.baseSelect().Where(squirrel.Eq{"proveedorid": supplierID}))
}

// GetByStatus returns headers in one status.
func (r *PurchaseRepo) GetByStatus(ctx context.Context, status purchase.Status) ([]*purchase.Purchase, error) {
	return r.FindMany(ctx, r.baseSelect().Where(squirrel.Eq{"estado": int(status)}))
}

// UpdateStatus moves the purchase from one status to another. The WHERE on
// the current status makes the transition conditional.
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id int64, from, to purchase.Status) error {
	sql, args, err := r.statusQuery(id, from, to).ToSql()
	if err != nil {
		return fmt.Errorf("build update status: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.wrap("update status", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	exists, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("purchase", id)
	}
	return apperror.NewConflict("purchase status changed concurrently").
		WithDetail("id", id).
		WithDetail("expected", from.String())
}

func (r *PurchaseRepo) statusQuery(id int64, from, to purchase.Status) squirrel.UpdateBuilder {
	return r.Builder().
		Update(purchaseTable).
		Set("estado", int(to)).
		Where(squirrel.Eq{"id": id, "estado": int(from)})
}

// PurchaseLineRepo implements purchase.LineRepository.
type PurchaseLineRepo struct {
	txm *postgres.TxManager
}

// NewPurchaseLineRepo creates a new purchase line repository.
func NewPurchaseLineRepo(txm *postgres.TxManager) *PurchaseLineRepo {
	return &PurchaseLineRepo{txm: txm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *PurchaseLineRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetByPurchase returns the lines of a purchase ordered by id.
func (r *PurchaseLineRepo) GetByPurchase(ctx context.Context, purchaseID int64) ([]purchase.Line, error) {
	sql, args, err := r.Builder().
		Select(postgres.ExtractDBColumns[purchase.Line]()...).
		From(purchaseLineTable).
		Where(squirrel.Eq{"compraid": purchaseID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]purchase.Line, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// CreateLines inserts all lines in one statement. RETURNING yields ids in
// VALUES order.
func (r *PurchaseLineRepo) CreateLines(ctx context.Context, purchaseID int64, lines []purchase.Line) error {
	if len(lines) == 0 {
		return nil
	}

	sql, args, err := r.insertQuery(purchaseID, lines).ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return lineError("insert lines", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan line id: %w", err)
		}
		if i < len(lines) {
			lines[i].ID = id
			lines[i].PurchaseID = purchaseID
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return lineError("insert lines", err)
	}
	return nil
}

func (r *PurchaseLineRepo) insertQuery(purchaseID int64, lines []purchase.Line) squirrel.InsertBuilder {
	q := r.Builder().
		Insert(purchaseLineTable).
		Columns("compraid", "productoid", "cantidad", "valor")

	for _, l := range lines {
		q = q.Values(purchaseID, l.ProductID, l.Quantity, l.UnitValue)
	}
	return q.Suffix("RETURNING id")
}

// lineError maps constraint violations to typed errors; anything else is
// wrapped with op.
func lineError(op string, err error) error {
	if mapped := postgres.MapError("purchase line", err); mapped != err {
		return mapped
	}
	return fmt.Errorf("%s: %w", op, err)
}

// DeleteByPurchase removes all lines of a purchase.
func (r *PurchaseLineRepo) DeleteByPurchase(ctx context.Context, purchaseID int64) error {
	sql, args, err := r.Builder().
		Delete(purchaseLineTable).
		Where(squirrel.Eq{"compraid": purchaseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}
