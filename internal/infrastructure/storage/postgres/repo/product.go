package repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/infrastructure/storage/postgres"
)

const productTable = "producto"

// Compile-time check
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseRepo: NewBaseRepo(BaseRepoConfig[*product.Product]{
			TxManager:  txm,
			Table:      productTable,
			EntityName: "product",
			Columns:    postgres.ExtractDBColumns[product.Product](),
			New:        func() *product.Product { return &product.Product{} },
			SetID:      func(p *product.Product, id int64) { p.ID = id },
			Immutable:  []string{"createdat", "stockactual"},
		}),
	}
}

// GetByBarcode retrieves product by exact barcode.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"barcode": barcode}).
		Limit(1)

	p, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", barcode)
		}
		return nil, err
	}
	return p, nil
}

// Search matches name or barcode, case-insensitive.
func (r *ProductRepo) Search(ctx context.Context, text string) ([]*product.Product, error) {
	return r.FindMany(ctx, r.searchQuery(text))
}

func (r *ProductRepo) searchQuery(text string) squirrel.SelectBuilder {
	pattern := containsPattern(text)
	return r.baseSelect().
		Where(squirrel.Or{
			squirrel.ILike{"nombre": pattern},
			squirrel.ILike{"barcode": pattern},
		})
}

// GetLowStock returns products below their minimum.
func (r *ProductRepo) GetLowStock(ctx context.Context) ([]*product.Product, error) {
	return r.FindMany(ctx, r.baseSelect().Where("stockactual < stockminimo"))
}

// AdjustStock adds delta in one guarded statement. The guard keeps the
// result non-negative even against concurrent writers.
func (r *ProductRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	sql, args, err := r.adjustStockQuery(id, delta).ToSql()
	if err != nil {
		return fmt.Errorf("build adjust stock: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.wrap("adjust stock", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: either the id is unknown or the guard rejected it
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return apperror.NewInsufficientStock(id, -delta, p.CurrentStock)
}

func (r *ProductRepo) adjustStockQuery(id int64, delta int) squirrel.UpdateBuilder {
	return r.Builder().
		Update(productTable).
		Set("stockactual", squirrel.Expr("stockactual + ?", delta)).
		Set("updatedat", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("stockactual + ? >= 0", delta))
}
