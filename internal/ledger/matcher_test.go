package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func balancesOf(pairs map[string]string) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(pairs))
	for id, value := range pairs {
		balances[id] = d(value)
	}
	return balances
}

func TestMatchDebts(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]string
		want     []Transfer
	}{
		{
			name:     "two debtors one creditor",
			balances: map[string]string{"A": "60", "B": "-15", "C": "-45"},
			want: []Transfer{
				{From: "C", To: "A", Amount: d("45")},
				{From: "B", To: "A", Amount: d("15")},
			},
		},
		{
			name:     "one debtor two creditors",
			balances: map[string]string{"A": "-50", "B": "30", "C": "20"},
			want: []Transfer{
				{From: "A", To: "B", Amount: d("30")},
				{From: "A", To: "C", Amount: d("20")},
			},
		},
		{
			name:     "all settled",
			balances: map[string]string{"A": "0", "B": "0"},
			want:     nil,
		},
		{
			name:     "within epsilon excluded",
			balances: map[string]string{"A": "0.004", "B": "-0.004", "C": "0"},
			want:     nil,
		},
		{
			name:     "equal magnitudes break ties by user id",
			balances: map[string]string{"D2": "-10", "D1": "-10", "C2": "10", "C1": "10"},
			want: []Transfer{
				{From: "D1", To: "C1", Amount: d("10")},
				{From: "D2", To: "C2", Amount: d("10")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchDebts(balancesOf(tt.balances))

			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers %v, want %d", len(got), got, len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].From != want.From || got[i].To != want.To || !got[i].Amount.Equal(want.Amount) {
					t.Errorf("transfer[%d] = %s->%s %s, want %s->%s %s",
						i, got[i].From, got[i].To, got[i].Amount,
						want.From, want.To, want.Amount)
				}
			}
		})
	}
}

// Unrounded thirds must be rounded half-up to the cent at emission.
func TestMatchDebtsRoundsAtEmission(t *testing.T) {
	third := d("100").Div(d("3"))
	balances := map[string]decimal.Decimal{
		"A": third.Mul(d("2")),
		"B": third.Neg(),
		"C": third.Neg(),
	}

	transfers := MatchDebts(balances)
	if len(transfers) != 2 {
		t.Fatalf("got %d transfers, want 2", len(transfers))
	}
	for _, tr := range transfers {
		if !tr.Amount.Equal(d("33.33")) {
			t.Errorf("transfer amount = %s, want 33.33", tr.Amount)
		}
		if tr.Amount.Exponent() < -2 {
			t.Errorf("transfer amount %s has sub-cent precision", tr.Amount)
		}
	}
}

// Conservation: everything a debtor pays out matches their deficit, and
// everything flowing into a creditor matches their surplus, to the cent.
func TestMatchDebtsConservation(t *testing.T) {
	balances := balancesOf(map[string]string{
		"A": "123.45",
		"B": "-23.45",
		"C": "-60",
		"D": "-40",
		"E": "76.2",
		"F": "-76.2",
	})

	transfers := MatchDebts(balances)

	paid := make(map[string]decimal.Decimal)
	received := make(map[string]decimal.Decimal)
	for _, tr := range transfers {
		paid[tr.From] = paid[tr.From].Add(tr.Amount)
		received[tr.To] = received[tr.To].Add(tr.Amount)
	}

	for id, balance := range balances {
		if balance.LessThan(epsilon.Neg()) {
			if diff := paid[id].Sub(balance.Neg()).Abs(); !diff.LessThan(epsilon) {
				t.Errorf("debtor %s pays %s, owes %s", id, paid[id], balance.Neg())
			}
		}
		if balance.GreaterThan(epsilon) {
			if diff := received[id].Sub(balance).Abs(); !diff.LessThan(epsilon) {
				t.Errorf("creditor %s receives %s, is owed %s", id, received[id], balance)
			}
		}
	}

	if maxTransfers := len(balances) - 1; len(transfers) > maxTransfers {
		t.Errorf("emitted %d transfers, want at most %d", len(transfers), maxTransfers)
	}
}
