package memory

import (
	"context"
	"sort"
	"time"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/purchase"
)

// Compile-time checks
var (
	_ purchase.Repository     = (*PurchaseRepo)(nil)
	_ purchase.LineRepository = (*PurchaseLineRepo)(nil)
)

// PurchaseRepo implements purchase.Repository over Store.
type PurchaseRepo struct {
	s *Store
}

// NewPurchaseRepo creates a new purchase header repository.
func NewPurchaseRepo(s *Store) *PurchaseRepo {
	return &PurchaseRepo{s: s}
}

func (r *PurchaseRepo) GetAll(ctx context.Context) ([]*purchase.Purchase, error) {
	return r.filter("purchase.GetAll", func(*purchase.Purchase) bool { return true })
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id int64) (*purchase.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("purchase.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, apperror.NewNotFound("purchase", id)
	}
	return clonePurchase(p), nil
}

func (r *PurchaseRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.purchases[id]
	return ok, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("purchase.Create"); err != nil {
		return 0, err
	}
	if err := r.checkParties(p); err != nil {
		return 0, err
	}

	id := r.s.nextPurchase
	r.s.nextPurchase++

	row := clonePurchase(p)
	row.ID = id
	r.s.purchases[id] = row
	p.ID = id
	return id, nil
}

func (r *PurchaseRepo) Update(ctx context.Context, p *purchase.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("purchase.Update"); err != nil {
		return err
	}
	if _, ok := r.s.purchases[p.ID]; !ok {
		return apperror.NewNotFound("purchase", p.ID)
	}
	if err := r.checkParties(p); err != nil {
		return err
	}
	r.s.purchases[p.ID] = clonePurchase(p)
	return nil
}

// Delete removes the header and, like ON DELETE CASCADE, its lines.
func (r *PurchaseRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("purchase.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.purchases[id]; !ok {
		return apperror.NewNotFound("purchase", id)
	}
	for lineID, l := range r.s.lines {
		if l.PurchaseID == id {
			delete(r.s.lines, lineID)
		}
	}
	delete(r.s.purchases, id)
	return nil
}

func (r *PurchaseRepo) GetByDateRange(ctx context.Context, from, to time.Time) ([]*purchase.Purchase, error) {
	return r.filter("purchase.GetByDateRange", func(p *purchase.Purchase) bool {
		return !p.Date.Before(from) && !p.Date.After(to)
	})
}

func (r *PurchaseRepo) GetBySupplier(ctx context.Context, supplierID int64) ([]*purchase.Purchase, error) {
	return r.filter("purchase.GetBySupplier", func(p *purchase.Purchase) bool { return p.SupplierID == supplierID })
}

func (r *PurchaseRepo) GetByStatus(ctx context.Context, status purchase.Status) ([]*purchase.Purchase, error) {
	return r.filter("purchase.GetByStatus", func(p *purchase.Purchase) bool { return p.Status == status })
}

func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id int64, from, to purchase.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("purchase.UpdateStatus"); err != nil {
		return err
	}
	p, ok := r.s.purchases[id]
	if !ok {
		return apperror.NewNotFound("purchase", id)
	}
	if p.Status != from {
		return apperror.NewConflict("purchase status changed concurrently").
			WithDetail("id", id).
			WithDetail("expected", from.String())
	}
	p.Status = to
	return nil
}

// checkParties emulates the supplier/employee foreign keys. Caller holds mu.
func (r *PurchaseRepo) checkParties(p *purchase.Purchase) error {
	if _, ok := r.s.parties[p.SupplierID]; !ok {
		return fkViolation("purchase", "compra_proveedorid_fkey")
	}
	if _, ok := r.s.parties[p.EmployeeID]; !ok {
		return fkViolation("purchase", "compra_empleadoid_fkey")
	}
	return nil
}

// filter returns matching headers newest first.
func (r *PurchaseRepo) filter(op string, keep func(*purchase.Purchase) bool) ([]*purchase.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected(op); err != nil {
		return nil, err
	}

	out := make([]*purchase.Purchase, 0)
	for _, p := range r.s.purchases {
		if keep(p) {
			out = append(out, clonePurchase(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// PurchaseLineRepo implements purchase.LineRepository over Store.
type PurchaseLineRepo struct {
	s *Store
}

// NewPurchaseLineRepo creates a new purchase line repository.
func NewPurchaseLineRepo(s *Store) *PurchaseLineRepo {
	return &PurchaseLineRepo{s: s}
}

func (r *PurchaseLineRepo) GetByPurchase(ctx context.Context, purchaseID int64) ([]purchase.Line, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("line.GetByPurchase"); err != nil {
		return nil, err
	}

	out := make([]purchase.Line, 0)
	for _, l := range r.s.lines {
		if l.PurchaseID == purchaseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateLines inserts all lines or none.
func (r *PurchaseLineRepo) CreateLines(ctx context.Context, purchaseID int64, lines []purchase.Line) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("line.CreateLines"); err != nil {
		return err
	}
	if _, ok := r.s.purchases[purchaseID]; !ok {
		return fkViolation("purchase line", "detallecompra_compraid_fkey")
	}
	for _, l := range lines {
		if _, ok := r.s.products[l.ProductID]; !ok {
			return fkViolation("purchase line", "detallecompra_productoid_fkey")
		}
		if l.Quantity <= 0 || l.UnitValue.IsNegative() {
			return apperror.NewValidation("value rejected by store constraint").
				WithDetail("entity", "purchase line")
		}
	}

	for i := range lines {
		lines[i].ID = r.s.nextLine
		lines[i].PurchaseID = purchaseID
		r.s.nextLine++
		r.s.lines[lines[i].ID] = lines[i]
	}
	return nil
}

func (r *PurchaseLineRepo) DeleteByPurchase(ctx context.Context, purchaseID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("line.DeleteByPurchase"); err != nil {
		return err
	}
	for id, l := range r.s.lines {
		if l.PurchaseID == purchaseID {
			delete(r.s.lines, id)
		}
	}
	return nil
}

func fkViolation(entity, constraint string) error {
	return apperror.NewConflict("record is referenced by, or references, another record").
		WithDetail("entity", entity).
		WithDetail("constraint", constraint)
}
