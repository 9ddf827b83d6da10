package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/core/types"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/domain/purchase"
)

type EmbeddedStamp struct {
	CreatedBy string `db:"createdby"`
}

type mockRow struct {
	EmbeddedStamp
	ID      int64  `db:"id"`
	Name    string `db:"nombre"`
	Skipped string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns_Product(t *testing.T) {
	cols := ExtractDBColumns[product.Product]()

	assert.Equal(t, []string{
		"id", "nombre", "stockactual", "stockminimo", "stockmaximo",
		"barcode", "preciounitario", "categoriaid", "createdat", "updatedat",
	}, cols)
}

func TestExtractDBColumns_SkipsIgnoredAndEmbeds(t *testing.T) {
	cols := ExtractDBColumns[mockRow]()

	assert.Equal(t, []string{"createdby", "id", "nombre"}, cols)
	assert.NotContains(t, ExtractDBColumns[purchase.Purchase](), "-")
}

func TestStructToMap_Product(t *testing.T) {
	p := product.NewProduct("Arroz", 10, 5, 50, types.MustMoney("2500"))
	p.ID = 7
	p.SetBarcode("7701")

	m := StructToMap(p)

	assert.Equal(t, int64(7), m["id"])
	assert.Equal(t, "Arroz", m["nombre"])
	assert.Equal(t, 10, m["stockactual"])
	require.IsType(t, (*string)(nil), m["barcode"])
	assert.Equal(t, "7701", *m["barcode"].(*string))
	assert.Nil(t, m["categoriaid"])
}

func TestStructToMap_Embedded(t *testing.T) {
	m := StructToMap(mockRow{EmbeddedStamp: EmbeddedStamp{CreatedBy: "ops"}, ID: 1, Name: "x", Skipped: "y"})

	assert.Len(t, m, 3)
	assert.Equal(t, "ops", m["createdby"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_NilAndNonStruct(t *testing.T) {
	var p *product.Product
	assert.Nil(t, StructToMap(p))
	assert.Nil(t, StructToMap(42))
}

func TestWithout(t *testing.T) {
	assert.Equal(t, []string{"b", "d"}, Without([]string{"a", "b", "c", "d"}, "a", "c"))
}
