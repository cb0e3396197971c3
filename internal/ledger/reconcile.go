package ledger

import (
	"github.com/rowin21/splitledger/internal/models"
)

// Mutations is a staged batch of settlement store changes produced by one
// reconciliation pass. The store applies the whole batch in a single
// transaction to keep the window of visible partial state small.
type Mutations struct {
	// Creates are new pending settlements.
	Creates []*models.Settlement

	// Updates are existing pending settlements whose Amount changed.
	Updates []*models.Settlement

	// Deletes are IDs of pending settlements that are no longer needed.
	Deletes []string
}

// Empty reports whether the batch contains no changes.
func (m Mutations) Empty() bool {
	return len(m.Creates) == 0 && len(m.Updates) == 0 && len(m.Deletes) == 0
}

type pairKey struct {
	from string
	to   string
}

// Reconcile diffs freshly computed transfers against the existing pending
// settlements for the same (group, day) scope.
//
// Transfers matching an existing pending record by (from, to) keep that
// record's identity: the amount is rewritten in place if it changed.
// Unmatched transfers become new pending records. Pending records not
// matched by any transfer are deleted; their debt has been resolved or
// has shifted to a different pair.
//
// Callers must pass only pending records; settlements that have left the
// pending state are frozen and must never reach this diff.
func Reconcile(groupID, day string, transfers []Transfer, pending []*models.Settlement) Mutations {
	existing := make(map[pairKey]*models.Settlement, len(pending))
	for _, s := range pending {
		existing[pairKey{from: s.FromUser, to: s.ToUser}] = s
	}

	var muts Mutations
	touched := make(map[string]bool, len(pending))

	for _, t := range transfers {
		if s, ok := existing[pairKey{from: t.From, to: t.To}]; ok {
			touched[s.ID] = true
			if !s.Amount.Equal(t.Amount) {
				s.Amount = t.Amount
				muts.Updates = append(muts.Updates, s)
			}
			continue
		}
		muts.Creates = append(muts.Creates, &models.Settlement{
			GroupID:  groupID,
			FromUser: t.From,
			ToUser:   t.To,
			Amount:   t.Amount,
			Status:   models.StatusPending,
			Date:     day,
		})
	}

	for _, s := range pending {
		if !touched[s.ID] {
			muts.Deletes = append(muts.Deletes, s.ID)
		}
	}

	return muts
}
