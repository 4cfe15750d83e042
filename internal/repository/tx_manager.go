package repository

import (
	"context"

	"backend/internal/store"
)

// TransactionManager runs multi-step writes atomically via context injection.
// The transaction handle travels in the context so repositories called inside
// fn all work against the same copy-on-write state.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	store *store.Store
}

func NewTransactionManager(s *store.Store) TransactionManager {
	return &transactionManager{store: s}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.store.Update(func(tx *store.Tx) error {
		return fn(store.WithTx(ctx, tx))
	})
}

// stateFrom resolves the state to read: the active transaction's working copy
// if present, otherwise the current committed snapshot.
func stateFrom(ctx context.Context, s *store.Store) *store.State {
	if tx := store.TxFromContext(ctx); tx != nil {
		return tx.State()
	}
	return s.Snapshot()
}
