package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is a single computed repayment: From owes To the given amount.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// userBalance pairs a participant with their running net balance during
// matching.
type userBalance struct {
	id  string
	net decimal.Decimal
}

// MatchDebts turns net balances into an ordered list of pairwise transfers
// that close every balance to within epsilon.
//
// Greedy heuristic: debtors sorted most-negative first are matched against
// creditors sorted largest first; each step settles
// min(|debtor|, creditor), rounded half-up to the cent at emission. The
// result is bounded by participants-1 transfers but is not guaranteed
// globally minimal.
//
// Ties in magnitude break by user ID ascending so output is deterministic
// across runs.
func MatchDebts(balances map[string]decimal.Decimal) []Transfer {
	var debtors, creditors []userBalance
	for id, net := range balances {
		switch {
		case net.LessThan(epsilon.Neg()):
			debtors = append(debtors, userBalance{id: id, net: net})
		case net.GreaterThan(epsilon):
			creditors = append(creditors, userBalance{id: id, net: net})
		}
	}

	sort.Slice(debtors, func(i, j int) bool {
		if !debtors[i].net.Equal(debtors[j].net) {
			return debtors[i].net.LessThan(debtors[j].net)
		}
		return debtors[i].id < debtors[j].id
	})
	sort.Slice(creditors, func(i, j int) bool {
		if !creditors[i].net.Equal(creditors[j].net) {
			return creditors[i].net.GreaterThan(creditors[j].net)
		}
		return creditors[i].id < creditors[j].id
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.net.Neg(), creditor.net)
		rounded := amount.Round(2)
		if rounded.IsPositive() {
			transfers = append(transfers, Transfer{
				From:   debtor.id,
				To:     creditor.id,
				Amount: rounded,
			})
		}

		debtor.net = debtor.net.Add(amount)
		creditor.net = creditor.net.Sub(amount)

		if debtor.net.Abs().LessThan(epsilon) {
			i++
		}
		if creditor.net.LessThan(epsilon) {
			j++
		}
	}

	return transfers
}
