// Package domain provides the contracts shared by entity packages.
package domain

import (
	"context"
)

// Repository defines the uniform CRUD contract every entity repository offers.
// Entity packages embed it and add their own lookups.
//
// GetByID, Update and Delete return an apperror with CodeNotFound when the
// row does not exist.
type Repository[T any] interface {
	// GetAll returns every row in listing order (by id unless the entity
	// repository documents otherwise).
	GetAll(ctx context.Context) ([]T, error)

	// GetByID retrieves entity by ID
	GetByID(ctx context.Context, id int64) (T, error)

	// Create inserts the entity and returns the store-assigned id.
	Create(ctx context.Context, entity T) (int64, error)

	// Update overwrites all mutable columns (last writer wins).
	Update(ctx context.Context, entity T) error

	// Delete physically removes the row.
	Delete(ctx context.Context, id int64) error

	// Exists checks if entity with given ID exists
	Exists(ctx context.Context, id int64) (bool, error)
}
