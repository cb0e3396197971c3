package ledger

import (
	"testing"

	"github.com/rowin21/splitledger/internal/models"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		transfers   []Transfer
		pending     []*models.Settlement
		wantCreates int
		wantUpdates int
		wantDeletes []string
	}{
		{
			name: "fresh scope creates everything",
			transfers: []Transfer{
				{From: "C", To: "A", Amount: d("45")},
				{From: "B", To: "A", Amount: d("15")},
			},
			wantCreates: 2,
		},
		{
			name: "matching pair updates in place",
			transfers: []Transfer{
				{From: "B", To: "A", Amount: d("25")},
			},
			pending: []*models.Settlement{
				settlement("s1", "B", "A", "15", models.StatusPending),
			},
			wantUpdates: 1,
		},
		{
			name: "unchanged amount is a no-op",
			transfers: []Transfer{
				{From: "B", To: "A", Amount: d("15.00")},
			},
			pending: []*models.Settlement{
				settlement("s1", "B", "A", "15", models.StatusPending),
			},
		},
		{
			name:      "resolved debt deletes the stale record",
			transfers: nil,
			pending: []*models.Settlement{
				settlement("s1", "B", "A", "15", models.StatusPending),
			},
			wantDeletes: []string{"s1"},
		},
		{
			name: "shifted pair creates and deletes",
			transfers: []Transfer{
				{From: "B", To: "C", Amount: d("15")},
			},
			pending: []*models.Settlement{
				settlement("s1", "B", "A", "15", models.StatusPending),
			},
			wantCreates: 1,
			wantDeletes: []string{"s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			muts := Reconcile("g1", "2026-08-01", tt.transfers, tt.pending)

			if len(muts.Creates) != tt.wantCreates {
				t.Errorf("creates = %d, want %d", len(muts.Creates), tt.wantCreates)
			}
			if len(muts.Updates) != tt.wantUpdates {
				t.Errorf("updates = %d, want %d", len(muts.Updates), tt.wantUpdates)
			}
			if len(muts.Deletes) != len(tt.wantDeletes) {
				t.Fatalf("deletes = %v, want %v", muts.Deletes, tt.wantDeletes)
			}
			for i, id := range tt.wantDeletes {
				if muts.Deletes[i] != id {
					t.Errorf("deletes[%d] = %s, want %s", i, muts.Deletes[i], id)
				}
			}

			for _, created := range muts.Creates {
				if created.Status != models.StatusPending {
					t.Errorf("created settlement has status %s, want pending", created.Status)
				}
				if created.GroupID != "g1" || created.Date != "2026-08-01" {
					t.Errorf("created settlement has scope %s/%s, want g1/2026-08-01", created.GroupID, created.Date)
				}
			}
		})
	}
}

func TestReconcilePreservesIdentity(t *testing.T) {
	existing := settlement("s1", "B", "A", "15", models.StatusPending)
	muts := Reconcile("g1", "2026-08-01", []Transfer{{From: "B", To: "A", Amount: d("25")}}, []*models.Settlement{existing})

	if len(muts.Updates) != 1 || muts.Updates[0].ID != "s1" {
		t.Fatalf("expected update of s1, got %+v", muts.Updates)
	}
	if !muts.Updates[0].Amount.Equal(d("25")) {
		t.Errorf("updated amount = %s, want 25", muts.Updates[0].Amount)
	}
	if muts.Empty() {
		t.Error("Empty() = true for a batch with one update")
	}
}
