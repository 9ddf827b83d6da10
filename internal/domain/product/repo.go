package product

import (
	"context"

	"stockdesk/internal/domain"
)

// Repository defines the interface for Product persistence.
// Update leaves CurrentStock untouched; stock only moves through AdjustStock.
type Repository interface {
	domain.Repository[*Product]

	// GetByBarcode retrieves product by exact barcode.
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)

	// Search matches name or barcode, case-insensitive substring.
	Search(ctx context.Context, text string) ([]*Product, error)

	// GetLowStock returns products whose current stock is below minimum.
	GetLowStock(ctx context.Context) ([]*Product, error)

	// AdjustStock adds delta to current stock in one statement.
	// Returns CodeInsufficientStock if the result would be negative and
	// CodeNotFound for an unknown id; stock is unchanged in both cases.
	AdjustStock(ctx context.Context, id int64, delta int) error
}
