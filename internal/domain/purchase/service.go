package purchase

import (
	"context"
	"fmt"
	"time"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/tx"
	"stockdesk/internal/domain"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/domain/thirdparty"
	"stockdesk/pkg/logger"
)

// ProductLookup is the part of the product service purchases depend on.
type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	UpdateStock(ctx context.Context, id int64, delta int) error
}

// PartyLookup resolves suppliers and employees.
type PartyLookup interface {
	GetByID(ctx context.Context, id int64) (*thirdparty.ThirdParty, error)
}

// Service registers purchases and drives their status.
//
// Stock policy: stock is applied when the purchase is created, in the same
// transaction as the header and lines. Cancelling reverses it whether the
// purchase was Pending or Completed. Completing changes status only.
type Service struct {
	repo      Repository
	lines     LineRepository
	products  ProductLookup
	parties   PartyLookup
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new purchase service.
func NewService(
	repo Repository,
	lines LineRepository,
	products ProductLookup,
	parties PartyLookup,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		lines:     lines,
		products:  products,
		parties:   parties,
		txManager: txManager,
		now:       time.Now,
	}
}

// Create validates and registers a purchase with its lines and applies the
// stock increments. All writes commit together or not at all.
// Returns the new purchase id.
func (s *Service) Create(ctx context.Context, p *Purchase) (int64, error) {
	// 1. At least one line, header and line fields
	if err := p.Validate(ctx); err != nil {
		return 0, err
	}

	// 2. Supplier
	if err := s.checkParty(ctx, "supplierId", p.SupplierID, thirdparty.TypeSupplier); err != nil {
		return 0, err
	}

	// 3. Employee
	if err := s.checkParty(ctx, "employeeId", p.EmployeeID, thirdparty.TypeEmployee); err != nil {
		return 0, err
	}

	// 4-5. Products exist and the accumulated increment fits under MaxStock
	order, err := s.checkProducts(ctx, p)
	if err != nil {
		return 0, err
	}

	// New purchases always start Pending; status moves only through
	// Complete and Cancel
	p.Status = StatusPending
	if p.Date.IsZero() {
		p.Date = s.now()
	}

	quantities := p.Quantities()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repo.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		p.ID = id

		if err := s.lines.CreateLines(ctx, id, p.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		for _, productID := range order {
			if err := s.products.UpdateStock(ctx, productID, quantities[productID]); err != nil {
				return fmt.Errorf("apply stock for product %d: %w", productID, err)
			}
		}
		return nil
	})
	if err != nil {
		p.ID = 0
		for i := range p.Lines {
			p.Lines[i].ID, p.Lines[i].PurchaseID = 0, 0
		}
		return 0, domain.NormalizeStoreErr(ctx, "purchase.create", err)
	}

	logger.Info(ctx, "purchase created",
		"id", p.ID,
		"invoice", p.InvoiceNumber,
		"lines", len(p.Lines),
		"total", p.Total().String())

	return p.ID, nil
}

func (s *Service) checkParty(ctx context.Context, field string, id int64, want thirdparty.Type) error {
	party, err := s.parties.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewInvalidReference(field, want.String()+" not found", id)
		}
		return err
	}
	if party.TypeID != want {
		return apperror.NewInvalidReference(field, "third party is not a "+want.String(), id).
			WithDetail("type", party.TypeID.String())
	}
	return nil
}

// checkProducts returns the distinct product ids in order of first appearance.
func (s *Service) checkProducts(ctx context.Context, p *Purchase) ([]int64, error) {
	quantities := p.Quantities()
	order := make([]int64, 0, len(quantities))
	seen := make(map[int64]bool, len(quantities))

	for _, l := range p.Lines {
		if seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true

		prod, err := s.products.GetByID(ctx, l.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewInvalidReference("productId", "product not found", l.ProductID)
			}
			return nil, err
		}

		qty := quantities[l.ProductID]
		if !prod.CanIncrease(qty) {
			return nil, apperror.NewStockLimitExceeded(prod.ID, prod.CurrentStock+qty, prod.MaxStock)
		}
		order = append(order, l.ProductID)
	}

	return order, nil
}

// GetAll returns every purchase header, newest first. Lines are not loaded.
func (s *Service) GetAll(ctx context.Context) ([]*Purchase, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, domain.NormalizeStoreErr(ctx, "purchase.get_all", err)
	}
	return items, nil
}

// GetByID retrieves a purchase with its lines.
func (s *Service) GetByID(ctx context.Context, id int64) (*Purchase, error) {
	p, err := s.getHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	lines, err := s.lines.GetByPurchase(ctx, id)
	if err != nil {
		return nil, domain.NormalizeStoreErr(ctx, "purchase.get_lines", err)
	}
	p.Lines = lines

	return p, nil
}

func (s *Service) getHeader(ctx context.Context, id int64) (*Purchase, error) {
	if id <= 0 {
		return nil, apperror.NewNotFound("purchase", id)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase", id)
		}
		return nil, domain.NormalizeStoreErr(ctx, "purchase.get_by_id", err)
	}
	return p, nil
}

// GetByDateRange returns headers dated within [from, to]. Reversed bounds
// are swapped.
func (s *Service) GetByDateRange(ctx context.Context, from, to time.Time) ([]*Purchase, error) {
	if from.After(to) {
		from, to = to, from
	}
	items, err := s.repo.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, domain.NormalizeStoreErr(ctx, "purchase.get_by_date_range", err)
	}
	return items, nil
}

// GetBySupplier returns headers of one supplier.
func (s *Service) GetBySupplier(ctx context.Context, supplierID int64) ([]*Purchase, error) {
	items, err := s.repo.GetBySupplier(ctx, supplierID)
	if err != nil {
		return nil, domain.NormalizeStoreErr(ctx, "purchase.get_by_supplier", err)
	}
	return items, nil
}

// GetByStatus returns headers in one status.
func (s *Service) GetByStatus(ctx context.Context, status Status) ([]*Purchase, error) {
	if !status.Valid() {
		return nil, apperror.NewValidation("invalid purchase status").
			WithDetail("field", "status").
			WithDetail("value", int(status))
	}
	items, err := s.repo.GetByStatus(ctx, status)
	if err != nil {
		return nil, domain.NormalizeStoreErr(ctx, "purchase.get_by_status", err)
	}
	return items, nil
}

// Complete moves a Pending purchase to Completed.
func (s *Service) Complete(ctx context.Context, id int64) error {
	p, err := s.getHeader(ctx, id)
	if err != nil {
		return err
	}
	if !p.Status.CanTransitionTo(StatusCompleted) {
		return apperror.NewInvalidTransition("purchase", id, p.Status.String(), StatusCompleted.String())
	}

	if err := s.repo.UpdateStatus(ctx, id, p.Status, StatusCompleted); err != nil {
		return domain.NormalizeStoreErr(ctx, "purchase.complete", err)
	}

	logger.Info(ctx, "purchase completed", "id", id)
	return nil
}

// Cancel reverses the stock applied at creation and marks the purchase
// Cancelled. Cancelling an already cancelled purchase changes nothing and
// returns an invalid-transition error.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Status.CanTransitionTo(StatusCancelled) {
		return apperror.NewInvalidTransition("purchase", id, p.Status.String(), StatusCancelled.String())
	}

	quantities := p.Quantities()
	order := make([]int64, 0, len(quantities))
	seen := make(map[int64]bool, len(quantities))
	for _, l := range p.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			order = append(order, l.ProductID)
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, productID := range order {
			if err := s.products.UpdateStock(ctx, productID, -quantities[productID]); err != nil {
				return fmt.Errorf("reverse stock for product %d: %w", productID, err)
			}
		}
		return s.repo.UpdateStatus(ctx, id, p.Status, StatusCancelled)
	})
	if err != nil {
		return domain.NormalizeStoreErr(ctx, "purchase.cancel", err)
	}

	logger.Info(ctx, "purchase cancelled", "id", id, "previous_status", p.Status.String())
	return nil
}

// Delete removes a cancelled purchase and its lines.
func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.getHeader(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != StatusCancelled {
		return apperror.NewConflict("only cancelled purchases can be deleted").
			WithDetail("id", id).
			WithDetail("status", p.Status.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.lines.DeleteByPurchase(ctx, id); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return domain.NormalizeStoreErr(ctx, "purchase.delete", err)
	}

	logger.Info(ctx, "purchase deleted", "id", id)
	return nil
}
