package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/domain/catalog"
)

func TestBuildCatalogUpsert(t *testing.T) {
	sql, args, err := BuildCatalogUpsert(catalog.DocumentTypes, catalog.Entry{ID: 2, Name: "NIT"})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO TipoDocumento (id,nombre) VALUES ($1,$2) ON CONFLICT (id) DO UPDATE SET nombre = EXCLUDED.nombre",
		sql,
	)
	assert.Equal(t, []any{int64(2), "NIT"}, args)
}

func TestSchema_CoversEveryTable(t *testing.T) {
	ddl := Schema()

	for _, kind := range catalog.Kinds {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+string(kind)+" (")
	}
	for _, table := range []string{"Producto", "Tercero", "Compra", "DetalleCompra"} {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}

	assert.Contains(t, ddl, "ON DELETE CASCADE")
	assert.Equal(t, 1, strings.Count(ddl, "Barcode        TEXT NULL UNIQUE"))
}
