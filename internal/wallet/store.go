// Package wallet implements the record store: the single owner of the wallet
// balance and expense collection. Mutations are expressed as a closed set of
// action variants applied by one deterministic transition function, and every
// applied mutation schedules a snapshot save toward durable storage.
package wallet

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet/internal/core"
	applog "wallet/internal/log"
)

// State is the canonical wallet state. Expenses keep insertion order and are
// the single source of truth for totals and trends.
type State struct {
	Balance  decimal.Decimal
	Expenses []core.ExpenseRecord
}

// Clone returns a deep enough copy: records are value types, so cloning the
// slice is sufficient.
func (s State) Clone() State {
	return State{Balance: s.Balance, Expenses: slices.Clone(s.Expenses)}
}

// Persister saves and restores wallet snapshots. Load must degrade to empty
// defaults on missing or corrupt data rather than failing the startup.
type Persister interface {
	Save(ctx context.Context, state State) error
	Load(ctx context.Context) (State, error)
}

// Store owns State behind a single-writer mutex. It starts in the Loading
// phase, during which all mutations are no-ops so transient defaults can
// never overwrite durable data; Open transitions it to Ready exactly once.
type Store struct {
	mu      sync.Mutex
	persist Persister
	logger  *applog.Logger

	state   State
	loading bool
	version uint64

	saves chan State
}

// New creates a store in the Loading phase. queueSize bounds the pending
// save queue; saves are last-write-wins so a small queue suffices.
func New(persist Persister, logger *applog.Logger, queueSize int) *Store {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Store{
		persist: persist,
		logger:  logger,
		state:   State{Balance: decimal.Zero},
		loading: true,
		saves:   make(chan State, queueSize),
	}
}

// reduce is the transition function: one deterministic step per action.
// It never mutates the input state's backing arrays. The returned bool
// reports whether anything changed.
func reduce(state State, act action) (State, bool) {
	switch a := act.(type) {
	case addIncome:
		if a.Amount.Sign() <= 0 {
			return state, false
		}
		state.Balance = state.Balance.Add(a.Amount)
		return state, true

	case addExpense:
		state.Expenses = append(slices.Clone(state.Expenses), a.Record)
		state.Balance = state.Balance.Sub(a.Record.Price)
		return state, true

	case updateExpense:
		for i, rec := range state.Expenses {
			if rec.ID == a.Record.ID {
				expenses := slices.Clone(state.Expenses)
				expenses[i] = a.Record
				state.Expenses = expenses
				// Balance is intentionally not re-adjusted here; editing a
				// recorded price never restores the original deduction.
				return state, true
			}
		}
		return state, false

	case deleteExpense:
		for i, rec := range state.Expenses {
			if rec.ID == a.ID {
				expenses := slices.Clone(state.Expenses)
				state.Expenses = append(expenses[:i], expenses[i+1:]...)
				// Balance intentionally untouched, same as updateExpense.
				return state, true
			}
		}
		return state, false

	case loadSnapshot:
		return a.State.Clone(), true
	}
	return state, false
}

// Open performs the one-time Loading -> Ready transition. A failed or corrupt
// read falls back to empty defaults; startup never fails on bad stored data.
func (s *Store) Open(ctx context.Context) {
	loaded := State{Balance: decimal.Zero}
	if s.persist != nil {
		snap, err := s.persist.Load(ctx)
		if err != nil {
			s.logger.Warn("snapshot load failed, starting empty", applog.FieldError, err.Error())
		} else {
			loaded = snap
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loading {
		return
	}
	s.state, _ = reduce(s.state, loadSnapshot{State: loaded})
	s.loading = false
	s.logger.Info("wallet ready",
		applog.FieldBalance, s.state.Balance.String(),
		applog.FieldExpenseCount, len(s.state.Expenses))
}

// apply runs one action under the lock and, when it changed anything,
// schedules a persistence save of the resulting snapshot.
func (s *Store) apply(act action) bool {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		s.logger.Warn("mutation ignored while loading")
		return false
	}
	next, changed := reduce(s.state, act)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.state = next
	s.version++
	snap := s.state.Clone()
	s.mu.Unlock()

	s.scheduleSave(snap)
	return true
}

// scheduleSave enqueues the snapshot without blocking the mutator. When the
// queue is full the stalest pending snapshot is dropped: saves are
// last-write-wins and only the final state needs to reach storage.
func (s *Store) scheduleSave(snap State) {
	for {
		select {
		case s.saves <- snap:
			return
		default:
			select {
			case <-s.saves:
			default:
			}
		}
	}
}

// Run drains the save queue, serializing writes so no two saves interleave.
// It returns once ctx is cancelled, after flushing the latest state.
func (s *Store) Run(ctx context.Context) error {
	for {
		select {
		case snap := <-s.saves:
			s.save(ctx, snap)
		case <-ctx.Done():
			s.flush()
			return nil
		}
	}
}

func (s *Store) save(ctx context.Context, snap State) {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(ctx, snap); err != nil {
		s.logger.Error("snapshot save failed", applog.FieldError, err.Error())
	}
}

// flush writes the current state once, with its own deadline since the run
// context is already cancelled by the time it is called.
func (s *Store) flush() {
	if s.persist == nil {
		return
	}
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	snap := s.state.Clone()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.save(ctx, snap)
}

// AddIncome increases the balance by amount. Non-positive amounts are a
// silent no-op: the ignore-invalid policy is the contract, and surfacing
// feedback belongs to the calling form layer. Reports whether the balance
// changed.
func (s *Store) AddIncome(amount decimal.Decimal) bool {
	return s.apply(addIncome{Amount: amount})
}

// AddExpense validates the draft, assigns a fresh unique id, appends the
// record in insertion order, and deducts its price from the balance. An
// incomplete or malformed draft is a silent no-op.
func (s *Store) AddExpense(draft core.Draft) (core.ExpenseRecord, bool) {
	rec, err := draft.Record()
	if err != nil {
		s.logger.Debug("expense draft rejected", applog.FieldError, err.Error())
		return core.ExpenseRecord{}, false
	}
	rec.ID = s.newID()
	if !s.apply(addExpense{Record: rec}) {
		return core.ExpenseRecord{}, false
	}
	return rec, true
}

// UpdateExpense replaces the whole record carrying the same id, preserving
// its insertion position. Unknown ids and malformed records are no-ops.
// The balance is not adjusted.
func (s *Store) UpdateExpense(rec core.ExpenseRecord) bool {
	if rec.ID == "" || rec.Validate() != nil {
		return false
	}
	return s.apply(updateExpense{Record: rec})
}

// DeleteExpense removes the record with the given id if present. The balance
// is not adjusted.
func (s *Store) DeleteExpense(id string) bool {
	if id == "" {
		return false
	}
	return s.apply(deleteExpense{ID: id})
}

// newID returns an id distinct from every existing record's id. UUIDv4
// collisions are not a practical concern but the uniqueness invariant is,
// so it is checked anyway.
func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := uuid.NewString()
		if !slices.ContainsFunc(s.state.Expenses, func(r core.ExpenseRecord) bool { return r.ID == id }) {
			return id
		}
	}
}

// Balance returns the current balance.
func (s *Store) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Balance
}

// Expenses returns a copy of the expense collection in insertion order.
func (s *Store) Expenses() []core.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Expenses)
}

// IsLoading reports whether the store is still in the Loading phase.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Snapshot returns a copy of the complete current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Version counts applied mutations since startup. Read-side caches key on it.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
