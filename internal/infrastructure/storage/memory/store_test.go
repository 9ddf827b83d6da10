package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/types"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/domain/purchase"
	"stockdesk/internal/domain/thirdparty"
)

func TestTxManager_RestoresOnError(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)
	products := NewProductRepo(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		_, err := products.Create(ctx, product.NewProduct("Sal", 1, 0, 5, types.MustMoney("900")))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Counts()["producto"])

	id, err := products.Create(ctx, product.NewProduct("Sal", 1, 0, 5, types.MustMoney("900")))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestTxManager_NestedJoinsOuter(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)
	products := NewProductRepo(store)
	ctx := context.Background()

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		inner := txm.RunInTransaction(ctx, func(ctx context.Context) error {
			_, err := products.Create(ctx, product.NewProduct("Sal", 1, 0, 5, types.MustMoney("900")))
			return err
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)
	assert.Equal(t, 0, store.Counts()["producto"])
}

func TestProductRepo_AdjustStockGuard(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })
	repo := NewProductRepo(store)
	ctx := context.Background()

	id, err := repo.Create(ctx, product.NewProduct("Sal", 3, 0, 5, types.MustMoney("900")))
	require.NoError(t, err)

	err = repo.AdjustStock(ctx, id, -4)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	require.NoError(t, repo.AdjustStock(ctx, id, -3))
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStock)
	assert.Equal(t, fixed, got.UpdatedAt)

	assert.True(t, apperror.IsNotFound(repo.AdjustStock(ctx, 77, 1)))
}

func TestProductRepo_ReturnsCopies(t *testing.T) {
	store := NewStore()
	repo := NewProductRepo(store)
	ctx := context.Background()

	p := product.NewProduct("Sal", 3, 0, 5, types.MustMoney("900"))
	p.SetBarcode("111")
	id, err := repo.Create(ctx, p)
	require.NoError(t, err)

	*p.Barcode = "222"
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "111", got.BarcodeValue())
}

func TestProductRepo_Constraints(t *testing.T) {
	store := NewStore()
	repo := NewProductRepo(store)
	ctx := context.Background()

	p := product.NewProduct("Sal", 3, 0, 5, types.MustMoney("900"))
	p.SetBarcode("111")
	_, err := repo.Create(ctx, p)
	require.NoError(t, err)

	dup := product.NewProduct("Azúcar", 3, 0, 5, types.MustMoney("900"))
	dup.SetBarcode("111")
	_, err = repo.Create(ctx, dup)
	assert.True(t, apperror.IsDuplicate(err))

	bad := product.NewProduct("Azúcar", 3, 0, 5, types.MustMoney("900"))
	bad.SetCategory(42)
	_, err = repo.Create(ctx, bad)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
}

func TestSearch_MatchesWildcardsLiterally(t *testing.T) {
	store := NewStore()
	products := NewProductRepo(store)
	parties := NewThirdPartyRepo(store)
	ctx := context.Background()

	_, err := products.Create(ctx, product.NewProduct("Arroz", 1, 0, 5, types.MustMoney("900")))
	require.NoError(t, err)
	_, err = products.Create(ctx, product.NewProduct("Desc 50%", 1, 0, 5, types.MustMoney("900")))
	require.NoError(t, err)

	got, err := products.Search(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = products.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Desc 50%", got[0].Name)

	_, err = parties.Create(ctx, thirdparty.NewThirdParty("Ana_Maria", "111", 1, thirdparty.TypeCustomer, 1))
	require.NoError(t, err)
	_, err = parties.Create(ctx, thirdparty.NewThirdParty("Luis", "222", 1, thirdparty.TypeCustomer, 1))
	require.NoError(t, err)

	found, err := parties.Search(ctx, "_")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ana_Maria", found[0].Name)
}

func TestPurchaseRepo_UpdateStatusIsConditional(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	parties := NewThirdPartyRepo(store)
	supplier, err := parties.Create(ctx, thirdparty.NewThirdParty("Proveedor", "1", 2, thirdparty.TypeSupplier, 1))
	require.NoError(t, err)
	employee, err := parties.Create(ctx, thirdparty.NewThirdParty("Empleado", "2", 1, thirdparty.TypeEmployee, 1))
	require.NoError(t, err)

	repo := NewPurchaseRepo(store)
	id, err := repo.Create(ctx, purchase.NewPurchase(supplier, employee, "F-1"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, id, purchase.StatusPending, purchase.StatusCompleted))
	err = repo.UpdateStatus(ctx, id, purchase.StatusPending, purchase.StatusCancelled)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	err = repo.UpdateStatus(ctx, 99, purchase.StatusPending, purchase.StatusCompleted)
	assert.True(t, apperror.IsNotFound(err))

	_, err = repo.Create(ctx, purchase.NewPurchase(99, employee, "F-2"))
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
}

func TestCatalogLoader(t *testing.T) {
	store := NewStore()
	loader := NewCatalogLoader(store)
	ctx := context.Background()

	rows, err := loader.LoadCatalog(ctx, catalog.ThirdPartyTypes)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Proveedor", rows[1].Name)

	store.SetCatalog(catalog.Cities, []catalog.Entry{{ID: 8, Name: "Pasto"}})
	rows, err = loader.LoadCatalog(ctx, catalog.Cities)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Entry{{ID: 8, Name: "Pasto"}}, rows)

	store.FailNext("catalog."+string(catalog.Categories), errors.New("down"))
	_, err = loader.LoadCatalog(ctx, catalog.Categories)
	assert.Error(t, err)
}
