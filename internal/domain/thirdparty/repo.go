package thirdparty

import (
	"context"

	"stockdesk/internal/domain"
)

// Repository defines the interface for ThirdParty persistence.
type Repository interface {
	domain.Repository[*ThirdParty]

	// GetByType returns third parties of one type ordered by id.
	GetByType(ctx context.Context, typ Type) ([]*ThirdParty, error)

	// Search matches name or surname, case-insensitive substring.
	Search(ctx context.Context, text string) ([]*ThirdParty, error)

	// GetByDocument retrieves third party by document number.
	GetByDocument(ctx context.Context, document string) (*ThirdParty, error)
}
