package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/core/apperror"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "unique violation",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "producto_barcode_key"},
			wantCode: apperror.CodeDuplicate,
		},
		{
			name:     "foreign key violation wrapped",
			err:      fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503", ConstraintName: "detallecompra_productoid_fkey"}),
			wantCode: apperror.CodeConflict,
		},
		{
			name:     "check violation",
			err:      &pgconn.PgError{Code: "23514"},
			wantCode: apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError("product", tt.err)

			appErr, ok := apperror.AsAppError(mapped)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapError_PassThrough(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, MapError("product", plain))

	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), MapError("product", other))
}
