// Package purchase provides the Purchase document (Compra) with its lines
// (DetalleCompra) and the registration workflow that moves product stock.
package purchase

import (
	"context"
	"strings"
	"time"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/types"
)

// Status is the purchase life-cycle state.
type Status int

const (
	StatusPending   Status = 1
	StatusCompleted Status = 2
	StatusCancelled Status = 3
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// CanTransitionTo reports whether the state machine allows s → to.
// Pending → Completed, Pending → Cancelled, Completed → Cancelled.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusCompleted || to == StatusCancelled
	case StatusCompleted:
		return to == StatusCancelled
	}
	return false
}

// Purchase is a purchase order header.
type Purchase struct {
	ID         int64 `db:"id" json:"id"`
	SupplierID int64 `db:"proveedorid" json:"supplierId"`
	EmployeeID int64 `db:"empleadoid" json:"employeeId"`

	Date          time.Time `db:"fecha" json:"date"`
	InvoiceNumber string    `db:"numerofactura" json:"invoiceNumber"`
	Notes         *string   `db:"observaciones" json:"notes,omitempty"`
	Status        Status    `db:"estado" json:"status"`

	// Lines are loaded by GetByID only
	Lines []Line `db:"-" json:"lines,omitempty"`
}

// Line is one product/quantity/value entry of a purchase.
type Line struct {
	ID         int64       `db:"id" json:"id"`
	PurchaseID int64       `db:"compraid" json:"purchaseId"`
	ProductID  int64       `db:"productoid" json:"productId"`
	Quantity   int         `db:"cantidad" json:"quantity"`
	UnitValue  types.Money `db:"valor" json:"unitValue"`
}

// NewPurchase creates a pending purchase dated now.
func NewPurchase(supplierID, employeeID int64, invoice string) *Purchase {
	return &Purchase{
		SupplierID:    supplierID,
		EmployeeID:    employeeID,
		InvoiceNumber: invoice,
		Date:          time.Now(),
		Status:        StatusPending,
	}
}

// AddLine appends a line.
func (p *Purchase) AddLine(productID int64, quantity int, unitValue types.Money) {
	p.Lines = append(p.Lines, Line{
		ProductID: productID,
		Quantity:  quantity,
		UnitValue: unitValue,
	})
}

// SetNotes sets notes; blank clears them.
func (p *Purchase) SetNotes(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		p.Notes = nil
		return
	}
	p.Notes = &s
}

// NotesValue returns notes or "".
func (p *Purchase) NotesValue() string {
	if p.Notes == nil {
		return ""
	}
	return *p.Notes
}

// Total is the sum of line totals.
func (p *Purchase) Total() types.Money {
	total := types.Zero()
	for _, l := range p.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Quantities sums line quantities per product.
func (p *Purchase) Quantities() map[int64]int {
	out := make(map[int64]int, len(p.Lines))
	for _, l := range p.Lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}

// Total is quantity times unit value.
func (l Line) Total() types.Money {
	return l.UnitValue.Mul(types.NewMoneyFromInt(int64(l.Quantity)))
}

// Validate checks line invariants.
func (l Line) Validate() error {
	if l.ProductID <= 0 {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if l.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("product_id", l.ProductID)
	}
	if l.UnitValue.IsNegative() {
		return apperror.NewValidation("unit value cannot be negative").
			WithDetail("field", "unitValue").
			WithDetail("product_id", l.ProductID)
	}
	return nil
}

// Validate checks header and line invariants. References are resolved by
// the service.
func (p *Purchase) Validate(ctx context.Context) error {
	if len(p.Lines) == 0 {
		return apperror.NewValidation("purchase must have at least one line").
			WithDetail("field", "lines")
	}

	if p.SupplierID <= 0 {
		return apperror.NewValidation("supplier is required").WithDetail("field", "supplierId")
	}

	if p.EmployeeID <= 0 {
		return apperror.NewValidation("employee is required").WithDetail("field", "employeeId")
	}

	if strings.TrimSpace(p.InvoiceNumber) == "" {
		return apperror.NewValidation("invoice number is required").WithDetail("field", "invoiceNumber")
	}

	for i, l := range p.Lines {
		if err := l.Validate(); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("line", i+1)
			}
			return err
		}
	}

	return nil
}
