package thirdparty_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/thirdparty"
	"stockdesk/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) (*thirdparty.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	refs := catalog.NewStore(memory.NewCatalogLoader(store))
	svc := thirdparty.NewService(memory.NewThirdPartyRepo(store), memory.NewTxManager(store), refs)
	return svc, store
}

func party(name, surname, doc string, typ thirdparty.Type) *thirdparty.ThirdParty {
	t := thirdparty.NewThirdParty(name, doc, 1, typ, 1)
	t.SetSurname(surname)
	return t
}

func TestService_CreateAndGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p := party("Laura", "Gómez", "1020304050", thirdparty.TypeSupplier)
	p.SetEmail("laura@distribuidora.co")

	id, err := svc.Create(ctx, p)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Laura Gómez", got.FullName())
	assert.Equal(t, "laura@distribuidora.co", got.EmailValue())
	assert.True(t, got.IsSupplier())
	assert.False(t, got.IsEmployee())
}

func TestService_DuplicateDocument(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, party("Laura", "Gómez", "1020304050", thirdparty.TypeSupplier))
	require.NoError(t, err)

	// Uniqueness spans all types
	_, err = svc.Create(ctx, party("Pedro", "", "1020304050", thirdparty.TypeEmployee))
	assert.True(t, apperror.IsDuplicate(err))
	assert.Equal(t, 1, store.Counts()["tercero"])

	exists, err := svc.DocumentExists(ctx, " 1020304050 ")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := svc.GetByDocument(ctx, "1020304050")
	require.NoError(t, err)
	assert.Equal(t, "Laura", got.Name)
}

func TestService_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		build func() *thirdparty.ThirdParty
		field string
	}{
		{"blank name", func() *thirdparty.ThirdParty { return party("", "", "1", thirdparty.TypeCustomer) }, "name"},
		{"blank document", func() *thirdparty.ThirdParty { return party("Ana", "", " ", thirdparty.TypeCustomer) }, "documentNumber"},
		{"unknown type", func() *thirdparty.ThirdParty { return party("Ana", "", "1", thirdparty.Type(7)) }, "typeId"},
		{"bad email", func() *thirdparty.ThirdParty {
			p := party("Ana", "", "1", thirdparty.TypeCustomer)
			p.SetEmail("ana-at-mail")
			return p
		}, "email"},
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
}

func TestService_UnknownCatalogReference(t *testing.T) {
	svc, _ := newService(t)

	p := party("Ana", "", "77", thirdparty.TypeCustomer)
	p.CityID = 99
	_, err := svc.Create(context.Background(), p)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidReference, appErr.Code)
	assert.Equal(t, "cityId", appErr.Details["field"])
}

func TestService_ByTypeAndSearch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, p := range []*thirdparty.ThirdParty{
		party("Laura", "Gomez", "1", thirdparty.TypeSupplier),
		party("Carlos", "Ramírez", "2", thirdparty.TypeEmployee),
		party("Distribuidora", "Gomezana", "3", thirdparty.TypeSupplier),
		party("Marta", "", "4", thirdparty.TypeCustomer),
	} {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	suppliers, err := svc.GetSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 2)

	employees, err := svc.GetEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Carlos", employees[0].Name)

	customers, err := svc.GetCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	_, err = svc.GetByType(ctx, thirdparty.Type(0))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	found, err := svc.Search(ctx, "GOMEZ")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, int64(1), found[0].ID)
	assert.Equal(t, int64(3), found[1].ID)

	found, err = svc.Search(ctx, "mar")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestService_UpdateSameDocument(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, party("Laura", "Gómez", "1", thirdparty.TypeSupplier))
	require.NoError(t, err)
	_, err = svc.Create(ctx, party("Carlos", "", "2", thirdparty.TypeEmployee))
	require.NoError(t, err)

	p, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	p.SetEmail("laura@correo.co")
	require.NoError(t, svc.Update(ctx, p))

	p.DocumentNumber = "2"
	assert.True(t, apperror.IsDuplicate(svc.Update(ctx, p)))
}
