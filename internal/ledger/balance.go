package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/rowin21/splitledger/internal/models"
)

// epsilon is the threshold below which a balance or residual is treated as
// settled (one cent).
var epsilon = decimal.New(1, -2)

// AggregateBalances folds one day's expenses and settlements into a net
// balance per participant. Positive means the participant is owed money,
// negative means they owe.
//
// Expenses credit the payer with the full amount and debit every split
// participant with an unrounded even share; rounding happens only when
// transfers are emitted, so repeated shares cannot compound error.
//
// Settlements that have left the pending state (awaiting confirmation or
// settled) represent real money movement: the payer is credited and the
// receiver debited, shrinking the remaining debt. Pending settlements are
// the previous run's own suggestions and are skipped; counting them would
// double-book the same debt.
func AggregateBalances(expenses []*models.Expense, settlements []*models.Settlement) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		if !e.IsActive || len(e.SplitAmong) == 0 {
			continue
		}
		balances[e.PaidBy] = balances[e.PaidBy].Add(e.Amount)

		share := e.Share()
		for _, userID := range e.SplitAmong {
			balances[userID] = balances[userID].Sub(share)
		}
	}

	for _, s := range settlements {
		if s.Status == models.StatusPending {
			continue
		}
		balances[s.FromUser] = balances[s.FromUser].Add(s.Amount)
		balances[s.ToUser] = balances[s.ToUser].Sub(s.Amount)
	}

	return balances
}
