package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/store"
)

type WarehouseRepository interface {
	Create(ctx context.Context, w *model.Warehouse) error
	Save(ctx context.Context, w *model.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context) []model.Warehouse
}

type warehouseRepository struct {
	store *store.Store
}

func NewWarehouseRepository(s *store.Store) WarehouseRepository {
	return &warehouseRepository{store: s}
}

func (r *warehouseRepository) Create(ctx context.Context, w *model.Warehouse) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	copied := *w
	tx.State().Warehouses[w.ID] = &copied
	return nil
}

func (r *warehouseRepository) Save(ctx context.Context, w *model.Warehouse) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().Warehouses[w.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *w
	tx.State().Warehouses[w.ID] = &copied
	return nil
}

func (r *warehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	w, ok := stateFrom(ctx, r.store).Warehouses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *warehouseRepository) List(ctx context.Context) []model.Warehouse {
	st := stateFrom(ctx, r.store)
	out := make([]model.Warehouse, 0, len(st.Warehouses))
	for _, w := range st.Warehouses {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
