// Package ledger implements the settlement reconciliation engine: given one
// group's shared expenses for a calendar day, it computes who owes whom,
// reduces the debts to a small set of pairwise transfers, and merges that
// requirement into the persistent settlement ledger without disturbing
// settlements that are already confirmed or in flight.
//
// The pipeline is AggregateBalances -> MatchDebts -> Reconcile, run by a
// Recalculator for one (group, day) scope at a time. Every run is a full
// recomputation from stored expenses and settlements; nothing is carried
// between runs.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rowin21/splitledger/internal/models"
)

// Store is the slice of the settlement store the engine depends on.
type Store interface {
	// ListActiveExpenses returns the active expenses for a group and day.
	ListActiveExpenses(ctx context.Context, groupID, day string) ([]*models.Expense, error)

	// ListSettlements returns all settlements for a group and day,
	// regardless of status.
	ListSettlements(ctx context.Context, groupID, day string) ([]*models.Settlement, error)

	// ApplyMutations applies a reconciliation batch in one transaction.
	ApplyMutations(ctx context.Context, muts Mutations) error
}

// Recalculator recomputes the pending settlement set for a scope. It holds
// no state between runs beyond the per-scope locks that serialize them.
type Recalculator struct {
	store Store

	mu     sync.Mutex
	scopes map[string]*sync.Mutex
}

// NewRecalculator creates a Recalculator backed by the given store.
func NewRecalculator(store Store) *Recalculator {
	return &Recalculator{
		store:  store,
		scopes: make(map[string]*sync.Mutex),
	}
}

// Recalc recomputes pending settlements for one (group, day) scope.
//
// It is called synchronously after an expense mutation commits. Failures
// are logged and counted but never returned: the triggering expense change
// must not be rolled back or blocked, and the next mutation on the same
// scope recomputes everything from scratch anyway.
//
// Runs for the same scope are serialized; interleaved runs could otherwise
// create duplicate pending records or delete ones a concurrent run just
// wrote.
func (r *Recalculator) Recalc(ctx context.Context, groupID, day string) {
	lock := r.scopeLock(groupID, day)
	lock.Lock()
	defer lock.Unlock()

	recalcRuns.Inc()
	start := time.Now()
	defer func() {
		recalcDuration.Observe(time.Since(start).Seconds())
	}()

	expenses, err := r.store.ListActiveExpenses(ctx, groupID, day)
	if err != nil {
		r.fail("load_expenses", groupID, day, err)
		return
	}

	settlements, err := r.store.ListSettlements(ctx, groupID, day)
	if err != nil {
		r.fail("load_settlements", groupID, day, err)
		return
	}

	balances := AggregateBalances(expenses, settlements)
	transfers := MatchDebts(balances)

	var pending []*models.Settlement
	for _, s := range settlements {
		if s.Status == models.StatusPending {
			pending = append(pending, s)
		}
	}

	muts := Reconcile(groupID, day, transfers, pending)
	if muts.Empty() {
		return
	}

	if err := r.store.ApplyMutations(ctx, muts); err != nil {
		r.fail("apply_mutations", groupID, day, err)
		return
	}
	observeMutations(muts)

	slog.Debug("settlements recalculated",
		"group_id", groupID,
		"day", day,
		"transfers", len(transfers),
		"created", len(muts.Creates),
		"updated", len(muts.Updates),
		"deleted", len(muts.Deletes),
	)
}

func (r *Recalculator) fail(stage, groupID, day string, err error) {
	recalcFailures.WithLabelValues(stage).Inc()
	slog.Error("settlement recalculation failed",
		"stage", stage,
		"group_id", groupID,
		"day", day,
		"error", err,
	)
}

func (r *Recalculator) scopeLock(groupID, day string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := groupID + "/" + day
	lock, ok := r.scopes[key]
	if !ok {
		lock = &sync.Mutex{}
		r.scopes[key] = lock
	}
	return lock
}
