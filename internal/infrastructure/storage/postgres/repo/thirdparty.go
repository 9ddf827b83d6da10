package repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/thirdparty"
	"stockdesk/internal/infrastructure/storage/postgres"
)

const thirdPartyTable = "tercero"

// Compile-time check
var _ thirdparty.Repository = (*ThirdPartyRepo)(nil)

// ThirdPartyRepo implements thirdparty.Repository.
type ThirdPartyRepo struct {
	*BaseRepo[*thirdparty.ThirdParty]
}

// NewThirdPartyRepo creates a new third-party repository.
func NewThirdPartyRepo(txm *postgres.TxManager) *ThirdPartyRepo {
	return &ThirdPartyRepo{
		BaseRepo: NewBaseRepo(BaseRepoConfig[*thirdparty.ThirdParty]{
			TxManager:  txm,
			Table:      thirdPartyTable,
			EntityName: "third party",
			Columns:    postgres.ExtractDBColumns[thirdparty.ThirdParty](),
			New:        func() *thirdparty.ThirdParty { return &thirdparty.ThirdParty{} },
			SetID:      func(t *thirdparty.ThirdParty, id int64) { t.ID = id },
			Immutable:  []string{"createdat"},
		}),
	}
}

// GetByType returns third parties of one type.
func (r *ThirdPartyRepo) GetByType(ctx context.Context, typ thirdparty.Type) ([]*thirdparty.ThirdParty, error) {
	return r.FindMany(ctx, r.baseSelect().Where(squirrel.Eq{"tipoterceroid": int64(typ)}))
}

// Search matches name or surname, case-insensitive.
func (r *ThirdPartyRepo) Search(ctx context.Context, text string) ([]*thirdparty.ThirdParty, error) {
	return r.FindMany(ctx, r.searchQuery(text))
}

func (r *ThirdPartyRepo) searchQuery(text string) squirrel.SelectBuilder {
	pattern := containsPattern(text)
	return r.baseSelect().
		Where(squirrel.Or{
			squirrel.ILike{"nombre": pattern},
			squirrel.ILike{"apellido": pattern},
		})
}

// GetByDocument retrieves third party by document number.
func (r *ThirdPartyRepo) GetByDocument(ctx context.Context, document string) (*thirdparty.ThirdParty, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"numerodocumento": document}).
		Limit(1)

	t, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("third party", document)
		}
		return nil, err
	}
	return t, nil
}
