package domain

import (
	"context"
	"fmt"
	"time"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/tx"
	"stockdesk/pkg/logger"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without store access).
type Validatable interface {
	Validate(ctx context.Context) error
}

// Stamped is implemented by entities carrying CreatedAt/UpdatedAt.
// Touch sets UpdatedAt, and CreatedAt when it is still zero.
type Stamped interface {
	Touch(now time.Time)
}

// EntityService provides the CRUD flow shared by master-data services:
// validate, run hooks, write inside a transaction, log.
type EntityService[T Validatable] struct {
	repo      Repository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]
	now       func() time.Time

	// entityName for error messages and logs
	entityName string
}

// EntityServiceConfig configures the entity service.
type EntityServiceConfig[T Validatable] struct {
	Repo       Repository[T]
	TxManager  tx.Manager
	EntityName string

	// Clock stamps timestamps; defaults to time.Now
	Clock func() time.Time
}

// NewEntityService creates a new entity service.
func NewEntityService[T Validatable](cfg EntityServiceConfig[T]) *EntityService[T] {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &EntityService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		now:        clock,
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *EntityService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in errors and logs.
func (s *EntityService[T]) EntityName() string {
	return s.entityName
}

func (s *EntityService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

// NormalizeStoreErr keeps AppErrors as they are and turns anything else into
// a logged CodeDatabase error.
func (s *EntityService[T]) NormalizeStoreErr(ctx context.Context, op string, err error) error {
	return NormalizeStoreErr(ctx, s.entityName+"."+op, err)
}

// NormalizeStoreErr is the package-level form used by services that do not
// embed EntityService.
func NormalizeStoreErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	logger.Error(ctx, "store operation failed", "op", op, "error", err)
	return apperror.NewDatabase(op, err)
}

func (s *EntityService[T]) touch(entity T) {
	if st, ok := any(entity).(Stamped); ok {
		st.Touch(s.now().UTC())
	}
}

// GetAll returns every entity ordered by id.
func (s *EntityService[T]) GetAll(ctx context.Context) ([]T, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.NormalizeStoreErr(ctx, "get_all", err)
	}
	return items, nil
}

// GetByID retrieves entity by ID.
func (s *EntityService[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if id <= 0 {
		return zero, apperror.NewNotFound(s.entityName, id)
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return zero, apperror.NewNotFound(s.entityName, id)
		}
		return zero, s.NormalizeStoreErr(ctx, "get_by_id", err)
	}
	return entity, nil
}

// Exists checks if entity exists.
func (s *EntityService[T]) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, s.NormalizeStoreErr(ctx, "exists", err)
	}
	return ok, nil
}

// Create validates the entity, runs before-create hooks and inserts it.
// Returns the new id.
func (s *EntityService[T]) Create(ctx context.Context, entity T) (int64, error) {
	// 1. Validate entity invariants
	if err := entity.Validate(ctx); err != nil {
		return 0, s.normalizeValidationErr(err)
	}

	// 2. Run before-create hooks (uniqueness, references)
	if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
		return 0, err
	}

	s.touch(entity)

	// 3. Create in transaction
	var newID int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repo.Create(ctx, entity)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		newID = id
		return nil
	})
	if err != nil {
		return 0, s.NormalizeStoreErr(ctx, "create", err)
	}

	logger.Info(ctx, "entity created", "entity", s.entityName, "id", newID)
	return newID, nil
}

// Update validates and overwrites an existing entity.
func (s *EntityService[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
		return err
	}

	s.touch(entity)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return s.NormalizeStoreErr(ctx, "update", err)
	}

	logger.Info(ctx, "entity updated", "entity", s.entityName)
	return nil
}

// Delete physically removes the entity.
func (s *EntityService[T]) Delete(ctx context.Context, id int64) error {
	// 1. Get entity first (for hooks)
	entity, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. Run before-delete hooks
	if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return s.NormalizeStoreErr(ctx, "delete", err)
	}

	logger.Info(ctx, "entity deleted", "entity", s.entityName, "id", id)
	return nil
}
