package product

import (
	"context"
	"strings"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/tx"
	"stockdesk/internal/domain"
	"stockdesk/internal/domain/catalog"
	"stockdesk/pkg/logger"
)

// References resolves catalog keys. catalog.Store satisfies it.
type References interface {
	Exists(ctx context.Context, kind catalog.Kind, id int64) (bool, error)
}

// Service provides business logic for products.
// Generic CRUD is delegated to domain.EntityService.
type Service struct {
	*domain.EntityService[*Product]
	repo Repository
	refs References
}

// NewService creates a new Product service. refs may be nil, in which case
// category references are not checked.
func NewService(repo Repository, txManager tx.Manager, refs References) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		EntityService: base,
		repo:          repo,
		refs:          refs,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// prepare checks barcode uniqueness (excluding the record itself) and the
// category reference.
func (s *Service) prepare(ctx context.Context, p *Product) error {
	// Trim so "  " is stored as no barcode
	p.SetBarcode(p.BarcodeValue())

	if p.Barcode != nil {
		exists, err := s.checkBarcodeExists(ctx, *p.Barcode, p.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("product", "barcode", *p.Barcode)
		}
	}

	if p.CategoryID != nil && s.refs != nil {
		ok, err := s.refs.Exists(ctx, catalog.Categories, *p.CategoryID)
		if err != nil {
			return s.NormalizeStoreErr(ctx, "check_category", err)
		}
		if !ok {
			return apperror.NewInvalidReference("categoryId", "unknown category", *p.CategoryID)
		}
	}

	return nil
}

// checkBarcodeExists checks if barcode is already used by another product.
func (s *Service) checkBarcodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	existing, err := s.repo.GetByBarcode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, s.NormalizeStoreErr(ctx, "get_by_barcode", err)
	}
	return existing.ID != excludeID, nil
}

// GetByBarcode retrieves product by exact barcode.
func (s *Service) GetByBarcode(ctx context.Context, code string) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewValidation("barcode is required").WithDetail("field", "barcode")
	}

	p, err := s.repo.GetByBarcode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", code)
		}
		return nil, s.NormalizeStoreErr(ctx, "get_by_barcode", err)
	}
	return p, nil
}

// Search matches name or barcode. Blank text yields an empty result.
func (s *Service) Search(ctx context.Context, text string) ([]*Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Product{}, nil
	}

	items, err := s.repo.Search(ctx, text)
	if err != nil {
		return nil, s.NormalizeStoreErr(ctx, "search", err)
	}
	return items, nil
}

// GetLowStock returns products that need replenishment.
func (s *Service) GetLowStock(ctx context.Context) ([]*Product, error) {
	items, err := s.repo.GetLowStock(ctx)
	if err != nil {
		return nil, s.NormalizeStoreErr(ctx, "get_low_stock", err)
	}
	return items, nil
}

// NeedsReplenishment reports whether the product is below its minimum.
func (s *Service) NeedsReplenishment(ctx context.Context, id int64) (bool, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p.NeedsReplenishment(), nil
}

// UpdateStock adds delta (negative to withdraw) to the product's stock.
//
// The pre-check gives a typed error with the available quantity; the store
// update is additive and guarded on its own, so the check is not relied on
// for correctness.
func (s *Service) UpdateStock(ctx context.Context, id int64, delta int) error {
	if delta == 0 {
		return apperror.NewValidation("quantity must not be zero").WithDetail("field", "delta")
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if p.CurrentStock+delta < 0 {
		return apperror.NewInsufficientStock(id, -delta, p.CurrentStock)
	}

	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return s.NormalizeStoreErr(ctx, "adjust_stock", err)
	}

	logger.Info(ctx, "stock adjusted", "product_id", id, "delta", delta)
	return nil
}
