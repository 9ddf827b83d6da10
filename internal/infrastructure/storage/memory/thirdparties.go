package memory

import (
	"context"
	"sort"
	"strings"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/thirdparty"
)

// Compile-time check
var _ thirdparty.Repository = (*ThirdPartyRepo)(nil)

// ThirdPartyRepo implements thirdparty.Repository over Store.
type ThirdPartyRepo struct {
	s *Store
}

// NewThirdPartyRepo creates a new third-party repository.
func NewThirdPartyRepo(s *Store) *ThirdPartyRepo {
	return &ThirdPartyRepo{s: s}
}

func (r *ThirdPartyRepo) GetAll(ctx context.Context) ([]*thirdparty.ThirdParty, error) {
	return r.filter("thirdparty.GetAll", func(*thirdparty.ThirdParty) bool { return true })
}

func (r *ThirdPartyRepo) GetByID(ctx context.Context, id int64) (*thirdparty.ThirdParty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("thirdparty.GetByID"); err != nil {
		return nil, err
	}
	t, ok := r.s.parties[id]
	if !ok {
		return nil, apperror.NewNotFound("third party", id)
	}
	return cloneParty(t), nil
}

func (r *ThirdPartyRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.parties[id]
	return ok, nil
}

func (r *ThirdPartyRepo) Create(ctx context.Context, t *thirdparty.ThirdParty) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("thirdparty.Create"); err != nil {
		return 0, err
	}
	if err := r.checkConstraints(t, 0); err != nil {
		return 0, err
	}

	id := r.s.nextParty
	r.s.nextParty++

	row := cloneParty(t)
	row.ID = id
	r.s.parties[id] = row
	t.ID = id
	return id, nil
}

func (r *ThirdPartyRepo) Update(ctx context.Context, t *thirdparty.ThirdParty) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("thirdparty.Update"); err != nil {
		return err
	}
	existing, ok := r.s.parties[t.ID]
	if !ok {
		return apperror.NewNotFound("third party", t.ID)
	}
	if err := r.checkConstraints(t, t.ID); err != nil {
		return err
	}

	row := cloneParty(t)
	row.CreatedAt = existing.CreatedAt
	r.s.parties[t.ID] = row
	return nil
}

func (r *ThirdPartyRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("thirdparty.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.parties[id]; !ok {
		return apperror.NewNotFound("third party", id)
	}
	for _, p := range r.s.purchases {
		if p.SupplierID == id || p.EmployeeID == id {
			return apperror.NewConflict("record is referenced by, or references, another record").
				WithDetail("entity", "third party").
				WithDetail("id", id)
		}
	}
	delete(r.s.parties, id)
	return nil
}

func (r *ThirdPartyRepo) GetByType(ctx context.Context, typ thirdparty.Type) ([]*thirdparty.ThirdParty, error) {
	return r.filter("thirdparty.GetByType", func(t *thirdparty.ThirdParty) bool { return t.TypeID == typ })
}

func (r *ThirdPartyRepo) Search(ctx context.Context, text string) ([]*thirdparty.ThirdParty, error) {
	needle := strings.ToLower(text)
	return r.filter("thirdparty.Search", func(t *thirdparty.ThirdParty) bool {
		return strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(strings.ToLower(t.SurnameValue()), needle)
	})
}

func (r *ThirdPartyRepo) GetByDocument(ctx context.Context, document string) (*thirdparty.ThirdParty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.parties {
		if t.DocumentNumber == document {
			return cloneParty(t), nil
		}
	}
	return nil, apperror.NewNotFound("third party", document)
}

// checkConstraints emulates UNIQUE(numerodocumento) and the catalog foreign
// keys. Caller holds mu.
func (r *ThirdPartyRepo) checkConstraints(t *thirdparty.ThirdParty, selfID int64) error {
	for id, other := range r.s.parties {
		if id != selfID && other.DocumentNumber == t.DocumentNumber {
			return apperror.NewDuplicate("third party", "tercero_numerodocumento_key", t.DocumentNumber)
		}
	}

	refs := map[catalog.Kind]int64{
		catalog.DocumentTypes:   t.DocumentTypeID,
		catalog.ThirdPartyTypes: int64(t.TypeID),
		catalog.Cities:          t.CityID,
	}
	for kind, id := range refs {
		if !r.s.catalogHasLocked(kind, id) {
			return apperror.NewConflict("record is referenced by, or references, another record").
				WithDetail("entity", "third party").
				WithDetail("catalog", string(kind))
		}
	}
	return nil
}

func (r *ThirdPartyRepo) filter(op string, keep func(*thirdparty.ThirdParty) bool) ([]*thirdparty.ThirdParty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected(op); err != nil {
		return nil, err
	}

	out := make([]*thirdparty.ThirdParty, 0)
	for _, t := range r.s.parties {
		if keep(t) {
			out = append(out, cloneParty(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
