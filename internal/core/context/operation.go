// Package context carries per-operation values through service calls.
package context

import (
	"context"

	"github.com/google/uuid"
)

// Operation identifies one console interaction (a menu action) end to end.
type Operation struct {
	ID   string
	Name string
}

type operationKey struct{}

// WithOperation adds Operation to context.
func WithOperation(ctx context.Context, op *Operation) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// GetOperation returns Operation from context.
func GetOperation(ctx context.Context) *Operation {
	if v, ok := ctx.Value(operationKey{}).(*Operation); ok {
		return v
	}
	return nil
}

// GetOperationID returns operation ID from context or empty string.
func GetOperationID(ctx context.Context) string {
	if op := GetOperation(ctx); op != nil {
		return op.ID
	}
	return ""
}

// NewOperation creates an Operation with a generated ID.
func NewOperation(name string) *Operation {
	return &Operation{
		ID:   uuid.New().String(),
		Name: name,
	}
}

// StartOperation is shorthand for WithOperation(ctx, NewOperation(name)).
func StartOperation(ctx context.Context, name string) context.Context {
	return WithOperation(ctx, NewOperation(name))
}
