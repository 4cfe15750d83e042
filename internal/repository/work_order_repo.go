package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/store"
)

type WorkOrderRepository interface {
	Create(ctx context.Context, wo *model.WorkOrder) error
	Save(ctx context.Context, wo *model.WorkOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	List(ctx context.Context, page, limit int, status, search string) ([]model.WorkOrder, int64, error)
	Count(ctx context.Context) int
	CountByStatus(ctx context.Context) map[model.WorkOrderStatus]int
	AppendStatusHistory(ctx context.Context, entry model.StatusTransition) error
	StatusHistory(ctx context.Context, id uuid.UUID) ([]model.StatusTransition, error)
}

type workOrderRepository struct {
	store *store.Store
}

func NewWorkOrderRepository(s *store.Store) WorkOrderRepository {
	return &workOrderRepository{store: s}
}

func (r *workOrderRepository) Create(ctx context.Context, wo *model.WorkOrder) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	tx.State().WorkOrders[wo.ID] = wo.Clone()
	return nil
}

func (r *workOrderRepository) Save(ctx context.Context, wo *model.WorkOrder) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().WorkOrders[wo.ID]; !ok {
		return store.ErrNotFound
	}
	tx.State().WorkOrders[wo.ID] = wo.Clone()
	return nil
}

func (r *workOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	if _, ok := tx.State().WorkOrders[id]; !ok {
		return store.ErrNotFound
	}
	delete(tx.State().WorkOrders, id)
	delete(tx.State().StatusHistory, id)
	return nil
}

func (r *workOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	wo, ok := stateFrom(ctx, r.store).WorkOrders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return wo.Clone(), nil
}

// List returns a defensive copy of the collection, newest first, optionally
// filtered by status and a case-insensitive search over number, title and client.
func (r *workOrderRepository) List(ctx context.Context, page, limit int, status, search string) ([]model.WorkOrder, int64, error) {
	st := stateFrom(ctx, r.store)

	matched := make([]*model.WorkOrder, 0, len(st.WorkOrders))
	needle := strings.ToLower(search)
	for _, wo := range st.WorkOrders {
		if status != "" && string(wo.Details.Status) != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(wo.Details.WorkOrderNumber), needle) &&
			!strings.Contains(strings.ToLower(wo.Details.Title), needle) &&
			!strings.Contains(strings.ToLower(wo.Details.Client), needle) {
			continue
		}
		matched = append(matched, wo)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].Details.WorkOrderNumber > matched[j].Details.WorkOrderNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	lo, hi := pageBounds(len(matched), page, limit)
	out := make([]model.WorkOrder, 0, hi-lo)
	for _, wo := range matched[lo:hi] {
		out = append(out, *wo.Clone())
	}
	return out, total, nil
}

func (r *workOrderRepository) Count(ctx context.Context) int {
	return len(stateFrom(ctx, r.store).WorkOrders)
}

func (r *workOrderRepository) CountByStatus(ctx context.Context) map[model.WorkOrderStatus]int {
	counts := make(map[model.WorkOrderStatus]int)
	for _, wo := range stateFrom(ctx, r.store).WorkOrders {
		counts[wo.Details.Status]++
	}
	return counts
}

func (r *workOrderRepository) AppendStatusHistory(ctx context.Context, entry model.StatusTransition) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	st := tx.State()
	history := append([]model.StatusTransition(nil), st.StatusHistory[entry.WorkOrderID]...)
	st.StatusHistory[entry.WorkOrderID] = append(history, entry)
	return nil
}

func (r *workOrderRepository) StatusHistory(ctx context.Context, id uuid.UUID) ([]model.StatusTransition, error) {
	st := stateFrom(ctx, r.store)
	if _, ok := st.WorkOrders[id]; !ok {
		return nil, store.ErrNotFound
	}
	return append([]model.StatusTransition(nil), st.StatusHistory[id]...), nil
}

// pageBounds clamps a page/limit window onto a slice of n elements.
func pageBounds(n, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	lo := (page - 1) * limit
	if lo > n {
		lo = n
	}
	hi := lo + limit
	if hi > n {
		hi = n
	}
	return lo, hi
}
