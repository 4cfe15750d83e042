package repository

import (
	"context"
	"sort"

	"backend/internal/model"
	"backend/internal/store"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	store *store.Store
}

func NewAuditRepository(s *store.Store) AuditRepository {
	return &auditRepository{store: s}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	tx, err := store.RequireTx(ctx)
	if err != nil {
		return err
	}
	tx.State().AuditLogs = append(tx.State().AuditLogs, *entry)
	return nil
}

func (r *auditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	st := stateFrom(ctx, r.store)
	logs := append([]model.AuditLog(nil), st.AuditLogs...)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })

	total := int64(len(logs))
	lo, hi := pageBounds(len(logs), page, limit)
	return logs[lo:hi], total, nil
}
