package thirdparty

import (
	"context"
	"strings"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/tx"
	"stockdesk/internal/domain"
	"stockdesk/internal/domain/catalog"
)

// References resolves catalog keys. catalog.Store satisfies it.
type References interface {
	Exists(ctx context.Context, kind catalog.Kind, id int64) (bool, error)
}

// Service provides business logic for third parties.
type Service struct {
	*domain.EntityService[*ThirdParty]
	repo Repository
	refs References
}

// NewService creates a new ThirdParty service. refs may be nil, in which case
// catalog references are not checked.
func NewService(repo Repository, txManager tx.Manager, refs References) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*ThirdParty]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "third party",
	})

	svc := &Service{
		EntityService: base,
		repo:          repo,
		refs:          refs,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// prepare checks document uniqueness (excluding the record itself) and
// catalog references.
func (s *Service) prepare(ctx context.Context, t *ThirdParty) error {
	t.DocumentNumber = strings.TrimSpace(t.DocumentNumber)

	exists, err := s.checkDocumentExists(ctx, t.DocumentNumber, t.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("third party", "document number", t.DocumentNumber)
	}

	if s.refs == nil {
		return nil
	}

	refs := []struct {
		kind  catalog.Kind
		field string
		id    int64
	}{
		{catalog.DocumentTypes, "documentTypeId", t.DocumentTypeID},
		{catalog.ThirdPartyTypes, "typeId", int64(t.TypeID)},
		{catalog.Cities, "cityId", t.CityID},
	}
	for _, ref := range refs {
		ok, err := s.refs.Exists(ctx, ref.kind, ref.id)
		if err != nil {
			return s.NormalizeStoreErr(ctx, "check_catalog", err)
		}
		if !ok {
			return apperror.NewInvalidReference(ref.field, "unknown "+string(ref.kind), ref.id)
		}
	}

	return nil
}

// checkDocumentExists checks if document is already used by another record.
func (s *Service) checkDocumentExists(ctx context.Context, document string, excludeID int64) (bool, error) {
	existing, err := s.repo.GetByDocument(ctx, document)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, s.NormalizeStoreErr(ctx, "get_by_document", err)
	}
	return existing.ID != excludeID, nil
}

// GetByType returns third parties of one type.
func (s *Service) GetByType(ctx context.Context, typ Type) ([]*ThirdParty, error) {
	if !typ.Valid() {
		return nil, apperror.NewValidation("invalid third-party type").
			WithDetail("field", "typeId").
			WithDetail("value", int64(typ))
	}

	items, err := s.repo.GetByType(ctx, typ)
	if err != nil {
		return nil, s.NormalizeStoreErr(ctx, "get_by_type", err)
	}
	return items, nil
}

// GetCustomers returns third parties of type Customer.
func (s *Service) GetCustomers(ctx context.Context) ([]*ThirdParty, error) {
	return s.GetByType(ctx, TypeCustomer)
}

// GetSuppliers returns third parties of type Supplier.
func (s *Service) GetSuppliers(ctx context.Context) ([]*ThirdParty, error) {
	return s.GetByType(ctx, TypeSupplier)
}

// GetEmployees returns third parties of type Employee.
func (s *Service) GetEmployees(ctx context.Context) ([]*ThirdParty, error) {
	return s.GetByType(ctx, TypeEmployee)
}

// Search matches name or surname. Blank text yields an empty result.
func (s *Service) Search(ctx context.Context, text string) ([]*ThirdParty, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*ThirdParty{}, nil
	}

	items, err := s.repo.Search(ctx, text)
	if err != nil {
		return nil, s.NormalizeStoreErr(ctx, "search", err)
	}
	return items, nil
}

// GetByDocument retrieves third party by document number.
func (s *Service) GetByDocument(ctx context.Context, document string) (*ThirdParty, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return nil, apperror.NewValidation("document number is required").
			WithDetail("field", "documentNumber")
	}

	t, err := s.repo.GetByDocument(ctx, document)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("third party", document)
		}
		return nil, s.NormalizeStoreErr(ctx, "get_by_document", err)
	}
	return t, nil
}

// DocumentExists reports whether any third party holds the document number.
func (s *Service) DocumentExists(ctx context.Context, document string) (bool, error) {
	return s.checkDocumentExists(ctx, strings.TrimSpace(document), 0)
}
