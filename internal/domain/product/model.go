// Package product provides the Product entity and its service.
package product

import (
	"context"
	"strings"
	"time"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/types"
)

// Product is a stocked item (table Producto).
type Product struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"nombre" json:"name"`

	// Stock levels in units
	CurrentStock int `db:"stockactual" json:"currentStock"`
	MinStock     int `db:"stockminimo" json:"minStock"`
	MaxStock     int `db:"stockmaximo" json:"maxStock"`

	// Barcode is unique across products when set
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	UnitPrice types.Money `db:"preciounitario" json:"unitPrice"`

	// CategoryID references catalog Categoria
	CategoryID *int64 `db:"categoriaid" json:"categoryId,omitempty"`

	CreatedAt time.Time `db:"createdat" json:"createdAt"`
	UpdatedAt time.Time `db:"updatedat" json:"updatedAt"`
}

// NewProduct creates a Product with the required fields.
func NewProduct(name string, stock, minStock, maxStock int, price types.Money) *Product {
	return &Product{
		Name:         name,
		CurrentStock: stock,
		MinStock:     minStock,
		MaxStock:     maxStock,
		UnitPrice:    price,
	}
}

// SetBarcode sets the barcode; blank clears it.
func (p *Product) SetBarcode(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		p.Barcode = nil
		return
	}
	p.Barcode = &code
}

// BarcodeValue returns the barcode or "".
func (p *Product) BarcodeValue() string {
	if p.Barcode == nil {
		return ""
	}
	return *p.Barcode
}

// SetCategory sets the category; zero or negative clears it.
func (p *Product) SetCategory(id int64) {
	if id <= 0 {
		p.CategoryID = nil
		return
	}
	p.CategoryID = &id
}

// NeedsReplenishment reports whether current stock is below the minimum.
func (p *Product) NeedsReplenishment() bool {
	return p.CurrentStock < p.MinStock
}

// CanIncrease reports whether adding n units stays within MaxStock.
func (p *Product) CanIncrease(n int) bool {
	return p.CurrentStock+n <= p.MaxStock
}

// Validate checks field invariants.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}

	if p.MaxStock <= p.MinStock {
		return apperror.NewValidation("maximum stock must be greater than minimum stock").
			WithDetail("field", "maxStock").
			WithDetail("min", p.MinStock).
			WithDetail("max", p.MaxStock)
	}

	if p.CurrentStock < 0 {
		return apperror.NewValidation("current stock cannot be negative").
			WithDetail("field", "currentStock")
	}

	if !p.UnitPrice.IsPositive() {
		return apperror.NewValidation("unit price must be positive").
			WithDetail("field", "unitPrice")
	}

	return nil
}

// Touch implements domain.Stamped.
func (p *Product) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
