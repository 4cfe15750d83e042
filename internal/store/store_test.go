package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
)

func TestUpdateCommitsOnSuccess(t *testing.T) {
	s := New()
	id := uuid.New()

	err := s.Update(func(tx *Tx) error {
		tx.State().Materials[id] = &model.Material{ID: id, Code: "MAT-001"}
		return nil
	})
	require.NoError(t, err)

	m, ok := s.Snapshot().Materials[id]
	require.True(t, ok)
	require.Equal(t, "MAT-001", m.Code)
}

func TestUpdateDiscardsOnError(t *testing.T) {
	s := New()
	id := uuid.New()

	boom := errors.New("boom")
	err := s.Update(func(tx *Tx) error {
		tx.State().Materials[id] = &model.Material{ID: id, Code: "MAT-001"}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Empty(t, s.Snapshot().Materials)
}

func TestSnapshotIsNotMutatedByLaterCommit(t *testing.T) {
	s := New()
	id := uuid.New()

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.State().Materials[id] = &model.Material{ID: id, Code: "MAT-001", TotalStock: 5}
		return nil
	}))
	before := s.Snapshot()

	require.NoError(t, s.Update(func(tx *Tx) error {
		m := *tx.State().Materials[id]
		m.TotalStock = 50
		tx.State().Materials[id] = &m
		return nil
	}))

	require.Equal(t, 5, before.Materials[id].TotalStock)
	require.Equal(t, 50, s.Snapshot().Materials[id].TotalStock)
}

func TestEventsPublishOnlyAfterCommit(t *testing.T) {
	s := New()
	var received []Event
	unsubscribe := s.Subscribe(func(e Event) { received = append(received, e) })
	defer unsubscribe()

	_ = s.Update(func(tx *Tx) error {
		tx.Emit("material.created", "payload")
		return errors.New("rollback")
	})
	require.Empty(t, received)

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.Emit("material.created", "a")
		tx.Emit("material.updated", "b")
		return nil
	}))
	require.Len(t, received, 2)
	require.Equal(t, "material.created", received[0].Name)
	require.Equal(t, "material.updated", received[1].Name)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New()
	calls := 0
	unsubscribe := s.Subscribe(func(Event) { calls++ })

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.Emit("x", nil)
		return nil
	}))
	unsubscribe()
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.Emit("y", nil)
		return nil
	}))

	require.Equal(t, 1, calls)
}

func TestNextSequenceIsMonotonicPerKey(t *testing.T) {
	s := New()
	require.Equal(t, 1, s.NextSequence("WO-2026"))
	require.Equal(t, 2, s.NextSequence("WO-2026"))
	require.Equal(t, 1, s.NextSequence("REQ-202608"))
	require.Equal(t, 3, s.NextSequence("WO-2026"))
}

func TestResetDropsStateAndCounters(t *testing.T) {
	s := New()
	id := uuid.New()
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.State().Materials[id] = &model.Material{ID: id}
		return nil
	}))
	s.NextSequence("WO-2026")

	s.Reset()

	require.Empty(t, s.Snapshot().Materials)
	require.Equal(t, 1, s.NextSequence("WO-2026"))
}

func TestRequireTxFailsOutsideTransaction(t *testing.T) {
	_, err := RequireTx(context.Background())
	require.Error(t, err)
}
