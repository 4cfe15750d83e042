package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/store"
)

// MovementRepository owns the immutable movement ledger and the adjustment log.
type MovementRepository interface {
	AppendMovement(ctx context.Context, m model.MaterialMovement) error
	ListMovements(ctx context.Context, materialID *uuid.UUID, page, limit int) ([]model.MaterialMovement, int64, error)
	RecentMovements(ctx context.Context, n int) []model.MaterialMovement
	CreateAdjustment(ctx context.Context, a *model.StockAdjustment) error
	ListAdjustments(ctx context.Context, page, limit int) ([]model.StockAdjustment, int64, error)
}

type movementRepository struct {
	store *store.Store
}

func NewMovementRepository(s *store.Store) MovementRepository {
	return &movementRepository{store: s}
}

func (r *movementRepository) AppendMovement(ctx context.Context, m model.MaterialMovement) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	tx.State().Movements = append(tx.State().Movements, m)
	return nil
}

func (r *movementRepository) ListMovements(ctx context.Context, materialID *uuid.UUID, page, limit int) ([]model.MaterialMovement, int64, error) {
	st := stateFrom(ctx, r.store)

	matched := make([]model.MaterialMovement, 0, len(st.Movements))
	for _, m := range st.Movements {
		if materialID != nil && m.MaterialID != *materialID {
			continue
		}
		matched = append(matched, m)
	}
	// Ledger is append-ordered; present newest first.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PerformedDate.After(matched[j].PerformedDate)
	})

	total := int64(len(matched))
	lo, hi := pageBounds(len(matched), page, limit)
	return matched[lo:hi], total, nil
}

func (r *movementRepository) RecentMovements(ctx context.Context, n int) []model.MaterialMovement {
	st := stateFrom(ctx, r.store)
	movements := append([]model.MaterialMovement(nil), st.Movements...)
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].PerformedDate.After(movements[j].PerformedDate)
	})
	if len(movements) > n {
		movements = movements[:n]
	}
	return movements
}

func (r *movementRepository) CreateAdjustment(ctx context.Context, a *model.StockAdjustment) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	copied := *a
	tx.State().Adjustments[a.ID] = &copied
	return nil
}

func (r *movementRepository) ListAdjustments(ctx context.Context, page, limit int) ([]model.StockAdjustment, int64, error) {
	st := stateFrom(ctx, r.store)

	out := make([]model.StockAdjustment, 0, len(st.Adjustments))
	for _, a := range st.Adjustments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PerformedDate.Equal(out[j].PerformedDate) {
			return out[i].AdjustmentNumber > out[j].AdjustmentNumber
		}
		return out[i].PerformedDate.After(out[j].PerformedDate)
	})

	total := int64(len(out))
	lo, hi := pageBounds(len(out), page, limit)
	return out[lo:hi], total, nil
}
