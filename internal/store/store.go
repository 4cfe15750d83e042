// Package store owns the canonical in-memory collections. All writes funnel
// through Update, which applies mutations copy-on-write: a failed update is
// discarded wholesale, so readers never observe a half-applied multi-step
// write. Committed state is immutable; repositories clone records before
// mutating them and replace map entries inside a transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"backend/internal/model"
)

// ErrNotFound is returned when a referenced entity id is absent.
var ErrNotFound = errors.New("record not found")

// Event describes one committed mutation, published synchronously to
// subscribers after the owning update commits.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"data"`
}

// State holds every canonical collection. Maps are keyed by entity id;
// append-only ledgers (movements, audit logs) are plain slices.
type State struct {
	WorkOrders    map[uuid.UUID]*model.WorkOrder
	StatusHistory map[uuid.UUID][]model.StatusTransition
	Materials     map[uuid.UUID]*model.Material
	Requisitions  map[uuid.UUID]*model.MaterialRequisition
	Adjustments   map[uuid.UUID]*model.StockAdjustment
	Movements     []model.MaterialMovement
	Warehouses    map[uuid.UUID]*model.Warehouse
	Users         map[uuid.UUID]*model.User
	RefreshTokens map[string]*model.RefreshToken
	AuditLogs     []model.AuditLog
}

func newState() *State {
	return &State{
		WorkOrders:    make(map[uuid.UUID]*model.WorkOrder),
		StatusHistory: make(map[uuid.UUID][]model.StatusTransition),
		Materials:     make(map[uuid.UUID]*model.Material),
		Requisitions:  make(map[uuid.UUID]*model.MaterialRequisition),
		Adjustments:   make(map[uuid.UUID]*model.StockAdjustment),
		Warehouses:    make(map[uuid.UUID]*model.Warehouse),
		Users:         make(map[uuid.UUID]*model.User),
		RefreshTokens: make(map[string]*model.RefreshToken),
	}
}

// clone shallow-copies every collection so a transaction can replace entries
// without touching the committed state.
func (st *State) clone() *State {
	c := newState()
	for k, v := range st.WorkOrders {
		c.WorkOrders[k] = v
	}
	for k, v := range st.StatusHistory {
		c.StatusHistory[k] = v
	}
	for k, v := range st.Materials {
		c.Materials[k] = v
	}
	for k, v := range st.Requisitions {
		c.Requisitions[k] = v
	}
	for k, v := range st.Adjustments {
		c.Adjustments[k] = v
	}
	for k, v := range st.Warehouses {
		c.Warehouses[k] = v
	}
	for k, v := range st.Users {
		c.Users[k] = v
	}
	for k, v := range st.RefreshTokens {
		c.RefreshTokens[k] = v
	}
	c.Movements = append([]model.MaterialMovement(nil), st.Movements...)
	c.AuditLogs = append([]model.AuditLog(nil), st.AuditLogs...)
	return c
}

// Tx is the handle a transactional function works against.
type Tx struct {
	state  *State
	events []Event
}

// State exposes the transaction's working copy.
func (tx *Tx) State() *State { return tx.state }

// Emit queues an event to be published if the transaction commits.
func (tx *Tx) Emit(name string, payload any) {
	tx.events = append(tx.events, Event{Name: name, Payload: payload})
}

// Store is the process-wide owner of the canonical collections. It is
// constructed once at application start and passed to whichever component
// needs it; tests construct their own and Reset between cases.
type Store struct {
	mu    sync.RWMutex
	state *State

	subMu   sync.RWMutex
	subs    map[int]func(Event)
	nextSub int

	seqMu sync.Mutex
	seq   map[string]int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		state: newState(),
		subs:  make(map[int]func(Event)),
		seq:   make(map[string]int),
	}
}

// Snapshot returns the current committed state. The returned state is
// immutable: a later commit swaps the pointer rather than mutating in place.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update runs fn against a working copy of the state. On success the copy is
// committed and queued events are delivered synchronously to subscribers; on
// error the copy is discarded and nothing is published.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	tx := &Tx{state: s.state.clone()}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = tx.state
	events := tx.events
	s.mu.Unlock()

	for _, e := range events {
		s.publish(e)
	}
	return nil
}

// Subscribe registers fn for committed events and returns an unsubscribe
// function. Delivery is synchronous, in commit order.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(e Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subs {
		fn(e)
	}
}

// NextSequence returns the next monotonic counter value for key.
// Keys scope counters per document family and period, e.g. "REQ-202601".
func (s *Store) NextSequence(key string) int {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.seq[key]++
	return s.seq[key]
}

// Reset drops all state and counters. Intended for tests and full reloads.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = newState()
	s.mu.Unlock()

	s.seqMu.Lock()
	s.seq = make(map[string]int)
	s.seqMu.Unlock()
}

type ctxKey struct{}

// WithTx injects a transaction into ctx for repositories downstream.
func WithTx(ctx context.Context, tx *Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// TxFromContext extracts the active transaction, or nil when reading outside one.
func TxFromContext(ctx context.Context) *Tx {
	tx, _ := ctx.Value(ctxKey{}).(*Tx)
	return tx
}

// RequireTx extracts the active transaction or fails; write paths must run
// inside TransactionManager.RunInTx.
func RequireTx(ctx context.Context) (*Tx, error) {
	tx := TxFromContext(ctx)
	if tx == nil {
		return nil, fmt.Errorf("operation requires an active transaction")
	}
	return tx, nil
}
