package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/types"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) (*product.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	refs := catalog.NewStore(memory.NewCatalogLoader(store))
	svc := product.NewService(memory.NewProductRepo(store), memory.NewTxManager(store), refs)
	return svc, store
}

func arroz() *product.Product {
	p := product.NewProduct("Arroz Diana 500g", 10, 5, 50, types.MustMoney("2500"))
	p.SetBarcode("7702001")
	p.SetCategory(1)
	return p
}

func TestService_CreateAndGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, arroz())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Arroz Diana 500g", got.Name)
	assert.Equal(t, 10, got.CurrentStock)
	assert.Equal(t, "7702001", got.BarcodeValue())
	assert.True(t, got.UnitPrice.Equal(types.MustMoney("2500")))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestService_CreateValidation(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		build func() *product.Product
		field string
	}{
		{"blank name", func() *product.Product { p := arroz(); p.Name = "  "; return p }, "name"},
		{"negative minimum", func() *product.Product { p := arroz(); p.MinStock = -1; return p }, "minStock"},
		{"max not above min", func() *product.Product { p := arroz(); p.MaxStock = 5; return p }, "maxStock"},
		{"negative stock", func() *product.Product { p := arroz(); p.CurrentStock = -2; return p }, "currentStock"},
		{"zero price", func() *product.Product { p := arroz(); p.UnitPrice = types.Zero(); return p }, "unitPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.build())
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
	assert.Equal(t, 0, store.Counts()["producto"])
}

func TestService_DuplicateBarcode(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, arroz())
	require.NoError(t, err)

	other := product.NewProduct("Arroz Roa", 0, 1, 10, types.MustMoney("2300"))
	other.SetBarcode(" 7702001 ")
	_, err = svc.Create(ctx, other)
	assert.True(t, apperror.IsDuplicate(err))

	// Updating a product with its own barcode is not a duplicate
	first, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	first.Name = "Arroz Diana 1kg"
	require.NoError(t, svc.Update(ctx, first))
}

func TestService_BlankBarcodeStoredAsNone(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p := arroz()
	p.Barcode = new(string)
	*p.Barcode = "   "
	id, err := svc.Create(ctx, p)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Barcode)
}

func TestService_UnknownCategory(t *testing.T) {
	svc, _ := newService(t)

	p := arroz()
	p.SetCategory(99)
	_, err := svc.Create(context.Background(), p)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidReference))
}

func TestService_UpdateStockRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, arroz())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStock(ctx, id, 7))
	require.NoError(t, svc.UpdateStock(ctx, id, -7))

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CurrentStock)
}

func TestService_UpdateStockRejectsNegativeResult(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, arroz())
	require.NoError(t, err)

	err = svc.UpdateStock(ctx, id, -11)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 10, appErr.Details["available"])

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CurrentStock)

	assert.True(t, apperror.HasCode(svc.UpdateStock(ctx, id, 0), apperror.CodeValidation))
	assert.True(t, apperror.IsNotFound(svc.UpdateStock(ctx, 42, 1)))
}

func TestService_UpdateKeepsStock(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, arroz())
	require.NoError(t, err)

	p, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	p.CurrentStock = 40
	p.UnitPrice = types.MustMoney("2700")
	require.NoError(t, svc.Update(ctx, p))

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CurrentStock)
	assert.True(t, got.UnitPrice.Equal(types.MustMoney("2700")))
}

func TestService_LowStockAndSearch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	low := product.NewProduct("Jabón Rey", 2, 5, 30, types.MustMoney("3100"))
	_, err := svc.Create(ctx, low)
	require.NoError(t, err)
	_, err = svc.Create(ctx, arroz())
	require.NoError(t, err)

	items, err := svc.GetLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Jabón Rey", items[0].Name)

	need, err := svc.NeedsReplenishment(ctx, items[0].ID)
	require.NoError(t, err)
	assert.True(t, need)

	found, err := svc.Search(ctx, "ARROZ")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = svc.Search(ctx, "7702")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestService_GetByBarcode(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, arroz())
	require.NoError(t, err)

	got, err := svc.GetByBarcode(ctx, "7702001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = svc.GetByBarcode(ctx, "000")
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.GetByBarcode(ctx, "")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestService_Delete(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, arroz())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Equal(t, 0, store.Counts()["producto"])
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, id)))
}

func TestService_StoreFailureBecomesDatabaseError(t *testing.T) {
	svc, store := newService(t)

	store.FailNext("product.GetAll", assert.AnError)
	_, err := svc.GetAll(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeDatabase))
}
