package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/store"
)

type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	Save(ctx context.Context, m *model.Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	FindByCode(ctx context.Context, code string) (*model.Material, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Material, int64, error)
	All(ctx context.Context) []model.Material
}

type materialRepository struct {
	store *store.Store
}

func NewMaterialRepository(s *store.Store) MaterialRepository {
	return &materialRepository{store: s}
}

func (r *materialRepository) Create(ctx context.Context, m *model.Material) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	tx.State().Materials[m.ID] = m.Clone()
	return nil
}

func (r *materialRepository) Save(ctx context.Context, m *model.Material) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().Materials[m.ID]; !ok {
		return store.ErrNotFound
	}
	tx.State().Materials[m.ID] = m.Clone()
	return nil
}

func (r *materialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().Materials[id]; !ok {
		return store.ErrNotFound
	}
	delete(tx.State().Materials, id)
	return nil
}

func (r *materialRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := stateFrom(ctx, r.store).Materials[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m.Clone(), nil
}

func (r *materialRepository) FindByCode(ctx context.Context, code string) (*model.Material, error) {
	for _, m := range stateFrom(ctx, r.store).Materials {
		if m.Code == code {
			return m.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *materialRepository) List(ctx context.Context, page, limit int, search string) ([]model.Material, int64, error) {
	st := stateFrom(ctx, r.store)

	matched := make([]*model.Material, 0, len(st.Materials))
	needle := strings.ToLower(search)
	for _, m := range st.Materials {
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.Code), needle) &&
			!strings.Contains(strings.ToLower(m.Description), needle) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })

	total := int64(len(matched))
	lo, hi := pageBounds(len(matched), page, limit)
	out := make([]model.Material, 0, hi-lo)
	for _, m := range matched[lo:hi] {
		out = append(out, *m.Clone())
	}
	return out, total, nil
}

// All returns the whole catalogue sorted by code, for evaluation passes.
func (r *materialRepository) All(ctx context.Context) []model.Material {
	st := stateFrom(ctx, r.store)
	out := make([]model.Material, 0, len(st.Materials))
	for _, m := range st.Materials {
		out = append(out, *m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
