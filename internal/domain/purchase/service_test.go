package purchase_test

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
	"stockdesk/internal/infrastructure/storage/memory"
)

type fixture struct {
	store     *memory.Store
	products  *product.Service
	parties   *thirdparty.Service
	purchases *purchase.Service

	supplierID int64
	employeeID int64
	productID  int64
}

// newFixture seeds one supplier, one employee and a product with stock 10,
// minimum 5, maximum 50.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	refs := catalog.NewStore(memory.NewCatalogLoader(store))

	f := &fixture{
		store:    store,
		products: product.NewService(memory.NewProductRepo(store), txm, refs),
		parties:  thirdparty.NewService(memory.NewThirdPartyRepo(store), txm, refs),
	}
	f.purchases = purchase.NewService(
		memory.NewPurchaseRepo(store),
		memory.NewPurchaseLineRepo(store),
		f.products,
		f.parties,
		txm,
	)

	var err error
	f.supplierID, err = f.parties.Create(ctx, thirdparty.NewThirdParty("Distribuidora Andina", "900123456", 2, thirdparty.TypeSupplier, 1))
	require.NoError(t, err)
	f.employeeID, err = f.parties.Create(ctx, thirdparty.NewThirdParty("Carlos", "1010", 1, thirdparty.TypeEmployee, 1))
	require.NoError(t, err)
	f.productID, err = f.products.Create(ctx, product.NewProduct("Aceite 1L", 10, 5, 50, types.MustMoney("9800")))
	require.NoError(t, err)

	return f
}

func (f *fixture) order(qty int) *purchase.Purchase {
	p := purchase.NewPurchase(f.supplierID, f.employeeID, "FAC-001")
	p.AddLine(f.productID, qty, types.MustMoney("8500"))
	return p
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), f.productID)
	require.NoError(t, err)
	return p.CurrentStock
}

func TestService_CreateAppliesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.purchases.Create(ctx, f.order(20))
	require.NoError(t, err)

	assert.Equal(t, 30, f.stock(t))

	got, err := f.purchases.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusPending, got.Status)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, id, got.Lines[0].PurchaseID)
	assert.Equal(t, 20, got.Lines[0].Quantity)
	assert.True(t, got.Total().Equal(types.MustMoney("170000")))
}

func TestService_CreateAlwaysStartsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, status := range []purchase.Status{purchase.StatusCancelled, purchase.StatusCompleted, purchase.Status(7)} {
		p := f.order(5)
		p.Status = status

		id, err := f.purchases.Create(ctx, p)
		require.NoError(t, err)

		got, err := f.purchases.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, purchase.StatusPending, got.Status)

		require.NoError(t, f.purchases.Cancel(ctx, id))
		assert.Equal(t, 10, f.stock(t))
	}
}

func TestService_CreateWithoutLines(t *testing.T) {
	f := newFixture(t)

	p := purchase.NewPurchase(f.supplierID, f.employeeID, "FAC-002")
	_, err := f.purchases.Create(context.Background(), p)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "lines", appErr.Details["field"])
	assert.Equal(t, 0, f.store.Counts()["compra"])
}

func TestService_CreateRejectsWrongPartyType(t *testing.T) {
	f := newFixture(t)

	p := f.order(5)
	p.SupplierID = f.employeeID
	_, err := f.purchases.Create(context.Background(), p)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidReference, appErr.Code)
	assert.Equal(t, "supplierId", appErr.Details["field"])

	p = f.order(5)
	p.EmployeeID = f.supplierID
	_, err = f.purchases.Create(context.Background(), p)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidReference))

	counts := f.store.Counts()
	assert.Equal(t, 0, counts["compra"])
	assert.Equal(t, 0, counts["detallecompra"])
	assert.Equal(t, 10, f.stock(t))
}

func TestService_CreateUnknownProduct(t *testing.T) {
	f := newFixture(t)

	p := f.order(1)
	p.AddLine(999, 1, types.MustMoney("100"))
	_, err := f.purchases.Create(context.Background(), p)

	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidReference))
	assert.Equal(t, 10, f.stock(t))
}

func TestService_CreateLineValidation(t *testing.T) {
	f := newFixture(t)

	p := f.order(0)
	_, err := f.purchases.Create(context.Background(), p)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "quantity", appErr.Details["field"])
	assert.Equal(t, 1, appErr.Details["line"])
}

func TestService_StockLimitCountsAllLines(t *testing.T) {
	f := newFixture(t)

	// 10 + 25 + 20 = 55 > 50, each line fits on its own
	p := f.order(25)
	p.AddLine(f.productID, 20, types.MustMoney("8500"))
	_, err := f.purchases.Create(context.Background(), p)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStockLimitExceeded, appErr.Code)
	assert.Equal(t, 55, appErr.Details["resulting"])
	assert.Equal(t, 10, f.stock(t))
}

func TestService_CreateRollsBackOnStockFailure(t *testing.T) {
	f := newFixture(t)

	f.store.FailNext("product.AdjustStock", errors.New("connection reset"))
	_, err := f.purchases.Create(context.Background(), f.order(20))

	assert.True(t, apperror.HasCode(err, apperror.CodeDatabase))
	counts := f.store.Counts()
	assert.Equal(t, 0, counts["compra"])
	assert.Equal(t, 0, counts["detallecompra"])
	assert.Equal(t, 10, f.stock(t))

	// Ids are not consumed by the failed attempt
	id, err := f.purchases.Create(context.Background(), f.order(20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestService_CreateRollsBackOnLineFailure(t *testing.T) {
	f := newFixture(t)

	p := f.order(3)
	f.store.FailNext("line.CreateLines", errors.New("disk full"))
	_, err := f.purchases.Create(context.Background(), p)

	require.Error(t, err)
	assert.Zero(t, p.ID)
	assert.Equal(t, 0, f.store.Counts()["compra"])
}

func TestService_CompleteThenCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.purchases.Create(ctx, f.order(20))
	require.NoError(t, err)

	require.NoError(t, f.purchases.Complete(ctx, id))
	got, err := f.purchases.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCompleted, got.Status)
	assert.Equal(t, 30, f.stock(t))

	require.NoError(t, f.purchases.Cancel(ctx, id))
	got, err = f.purchases.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCancelled, got.Status)
	assert.Equal(t, 10, f.stock(t))

	err = f.purchases.Cancel(ctx, id)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
	assert.Equal(t, 10, f.stock(t))

	err = f.purchases.Complete(ctx, id)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
}

func TestService_CancelPendingReversesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.purchases.Create(ctx, f.order(15))
	require.NoError(t, err)
	assert.Equal(t, 25, f.stock(t))

	require.NoError(t, f.purchases.Cancel(ctx, id))
	assert.Equal(t, 10, f.stock(t))
}

func TestService_CancelFailureKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.purchases.Create(ctx, f.order(15))
	require.NoError(t, err)

	f.store.FailNext("purchase.UpdateStatus", errors.New("timeout"))
	require.Error(t, f.purchases.Cancel(ctx, id))

	got, err := f.purchases.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusPending, got.Status)
	assert.Equal(t, 25, f.stock(t))
}

func TestService_DeleteOnlyCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.purchases.Create(ctx, f.order(5))
	require.NoError(t, err)

	err = f.purchases.Delete(ctx, id)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	require.NoError(t, f.purchases.Cancel(ctx, id))
	require.NoError(t, f.purchases.Delete(ctx, id))

	counts := f.store.Counts()
	assert.Equal(t, 0, counts["compra"])
	assert.Equal(t, 0, counts["detallecompra"])

	_, err = f.purchases.GetByID(ctx, id)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Queries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	jan := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)

	older := f.order(1)
	older.Date = jan
	_, err := f.purchases.Create(ctx, older)
	require.NoError(t, err)

	newer := f.order(2)
	newer.Date = mar
	newerID, err := f.purchases.Create(ctx, newer)
	require.NoError(t, err)
	require.NoError(t, f.purchases.Complete(ctx, newerID))

	all, err := f.purchases.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newerID, all[0].ID)

	// Reversed bounds are swapped
	inRange, err := f.purchases.GetByDateRange(ctx,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.True(t, inRange[0].Date.Equal(jan))

	completed, err := f.purchases.GetByStatus(ctx, purchase.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, newerID, completed[0].ID)

	_, err = f.purchases.GetByStatus(ctx, purchase.Status(9))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	bySupplier, err := f.purchases.GetBySupplier(ctx, f.supplierID)
	require.NoError(t, err)
	assert.Len(t, bySupplier, 2)

	none, err := f.purchases.GetBySupplier(ctx, f.employeeID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_ReferencedRecordsCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.purchases.Create(ctx, f.order(1))
	require.NoError(t, err)

	assert.True(t, apperror.HasCode(f.products.Delete(ctx, f.productID), apperror.CodeConflict))
	assert.True(t, apperror.HasCode(f.parties.Delete(ctx, f.supplierID), apperror.CodeConflict))
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to purchase.Status
		want     bool
	}{
		{purchase.StatusPending, purchase.StatusCompleted, true},
		{purchase.StatusPending, purchase.StatusCancelled, true},
		{purchase.StatusCompleted, purchase.StatusCancelled, true},
		{purchase.StatusCompleted, purchase.StatusPending, false},
		{purchase.StatusCancelled, purchase.StatusPending, false},
		{purchase.StatusCancelled, purchase.StatusCompleted, false},
		{purchase.StatusCancelled, purchase.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
