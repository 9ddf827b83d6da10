package purchase

import (
	"context"
	"time"

	"stockdesk/internal/domain"
)

// Repository persists purchase headers, listed newest first. Lines are
// handled by LineRepository.
type Repository interface {
	domain.Repository[*Purchase]

	// GetByDateRange returns headers with from <= Date <= to, newest first.
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*Purchase, error)

	// GetBySupplier returns headers of one supplier, newest first.
	GetBySupplier(ctx context.Context, supplierID int64) ([]*Purchase, error)

	// GetByStatus returns headers in one status, newest first.
	GetByStatus(ctx context.Context, status Status) ([]*Purchase, error)

	// UpdateStatus sets status to `to` only if it is currently `from`.
	// Returns CodeNotFound for an unknown id and CodeConflict when the
	// stored status is not `from`.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
}

// LineRepository persists purchase lines.
type LineRepository interface {
	// GetByPurchase returns the lines of a purchase ordered by id.
	GetByPurchase(ctx context.Context, purchaseID int64) ([]Line, error)

	// CreateLines inserts lines for purchaseID and sets their ID and
	// PurchaseID in place.
	CreateLines(ctx context.Context, purchaseID int64, lines []Line) error

	// DeleteByPurchase removes all lines of a purchase.
	DeleteByPurchase(ctx context.Context, purchaseID int64) error
}
