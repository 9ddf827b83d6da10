package memory

import (
	"context"
	"sort"
	"strings"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
)

// Compile-time check
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository over Store.
type ProductRepo struct {
	s *Store
}

// NewProductRepo creates a new product repository.
func NewProductRepo(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

func (r *ProductRepo) GetAll(ctx context.Context) ([]*product.Product, error) {
	return r.filter("product.GetAll", func(*product.Product) bool { return true })
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("product.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, apperror.NewNotFound("product", id)
	}
	return cloneProduct(p), nil
}

func (r *ProductRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.products[id]
	return ok, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("product.Create"); err != nil {
		return 0, err
	}
	if err := r.checkConstraints(p, 0); err != nil {
		return 0, err
	}

	id := r.s.nextProduct
	r.s.nextProduct++

	row := cloneProduct(p)
	row.ID = id
	r.s.products[id] = row
	p.ID = id
	return id, nil
}

// Update overwrites everything but CurrentStock and CreatedAt.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("product.Update"); err != nil {
		return err
	}
	existing, ok := r.s.products[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID)
	}
	if err := r.checkConstraints(p, p.ID); err != nil {
		return err
	}

	row := cloneProduct(p)
	row.CurrentStock = existing.CurrentStock
	row.CreatedAt = existing.CreatedAt
	r.s.products[p.ID] = row
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("product.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.products[id]; !ok {
		return apperror.NewNotFound("product", id)
	}
	for _, l := range r.s.lines {
		if l.ProductID == id {
			return apperror.NewConflict("record is referenced by, or references, another record").
				WithDetail("entity", "product").
				WithDetail("id", id)
		}
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return cloneProduct(p), nil
		}
	}
	return nil, apperror.NewNotFound("product", barcode)
}

func (r *ProductRepo) Search(ctx context.Context, text string) ([]*product.Product, error) {
	needle := strings.ToLower(text)
	return r.filter("product.Search", func(p *product.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.BarcodeValue()), needle)
	})
}

func (r *ProductRepo) GetLowStock(ctx context.Context) ([]*product.Product, error) {
	return r.filter("product.GetLowStock", (*product.Product).NeedsReplenishment)
}

// AdjustStock applies delta under the store lock, so check and write are one
// step like the guarded UPDATE.
func (r *ProductRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("product.AdjustStock"); err != nil {
		return err
	}
	p, ok := r.s.products[id]
	if !ok {
		return apperror.NewNotFound("product", id)
	}
	if p.CurrentStock+delta < 0 {
		return apperror.NewInsufficientStock(id, -delta, p.CurrentStock)
	}
	p.CurrentStock += delta
	p.UpdatedAt = r.s.clock().UTC()
	return nil
}

// checkConstraints emulates the UNIQUE(barcode) and FK(categoriaid)
// constraints. Caller holds mu.
func (r *ProductRepo) checkConstraints(p *product.Product, selfID int64) error {
	if p.Barcode != nil {
		for id, other := range r.s.products {
			if id != selfID && other.Barcode != nil && *other.Barcode == *p.Barcode {
				return apperror.NewDuplicate("product", "producto_barcode_key", *p.Barcode)
			}
		}
	}
	if p.CategoryID != nil && !r.s.catalogHasLocked(catalog.Categories, *p.CategoryID) {
		return apperror.NewConflict("record is referenced by, or references, another record").
			WithDetail("entity", "product").
			WithDetail("constraint", "producto_categoriaid_fkey")
	}
	return nil
}

func (r *ProductRepo) filter(op string, keep func(*product.Product) bool) ([]*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected(op); err != nil {
		return nil, err
	}

	out := make([]*product.Product, 0)
	for _, p := range r.s.products {
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
