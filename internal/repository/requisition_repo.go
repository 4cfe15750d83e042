package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/store"
)

type RequisitionRepository interface {
	Create(ctx context.Context, req *model.MaterialRequisition) error
	Save(ctx context.Context, req *model.MaterialRequisition) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MaterialRequisition, error)
	List(ctx context.Context, status string, page, limit int) ([]model.MaterialRequisition, int64, error)
	CountByStatus(ctx context.Context, status string) int
}

type requisitionRepository struct {
	store *store.Store
}

func NewRequisitionRepository(s *store.Store) RequisitionRepository {
	return &requisitionRepository{store: s}
}

func (r *requisitionRepository) Create(ctx context.Context, req *model.MaterialRequisition) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	tx.State().Requisitions[req.ID] = req.Clone()
	return nil
}

func (r *requisitionRepository) Save(ctx context.Context, req *model.MaterialRequisition) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().Requisitions[req.ID]; !ok {
		return store.ErrNotFound
	}
	tx.State().Requisitions[req.ID] = req.Clone()
	return nil
}

func (r *requisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MaterialRequisition, error) {
	req, ok := stateFrom(ctx, r.store).Requisitions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return req.Clone(), nil
}

func (r *requisitionRepository) List(ctx context.Context, status string, page, limit int) ([]model.MaterialRequisition, int64, error) {
	st := stateFrom(ctx, r.store)

	matched := make([]*model.MaterialRequisition, 0, len(st.Requisitions))
	for _, req := range st.Requisitions {
		if status != "" && req.Status != status {
			continue
		}
		matched = append(matched, req)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].RequestNumber > matched[j].RequestNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	lo, hi := pageBounds(len(matched), page, limit)
	out := make([]model.MaterialRequisition, 0, hi-lo)
	for _, req := range matched[lo:hi] {
		out = append(out, *req.Clone())
	}
	return out, total, nil
}

func (r *requisitionRepository) CountByStatus(ctx context.Context, status string) int {
	n := 0
	for _, req := range stateFrom(ctx, r.store).Requisitions {
		if req.Status == status {
			n++
		}
	}
	return n
}
