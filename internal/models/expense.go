package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayFormat is the layout for day-granularity date strings.
const DayFormat = "2006-01-02"

// DayOf returns the calendar day of t in UTC as a "YYYY-MM-DD" string.
// Expenses and settlements are scoped by (group, day) using this value.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Expense represents a shared payment made by one group member on behalf
// of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// Amount is the full amount paid. Always positive.
	Amount decimal.Decimal

	// Description is a human-readable label (e.g., "Dinner", "Cab").
	Description string

	// Date is the calendar day ("YYYY-MM-DD") the expense applies to.
	// Settlement recalculation is scoped to this day.
	Date string

	// SplitAmong is the list of user IDs the amount is divided across.
	// The split is always even: each participant owes Amount/len(SplitAmong).
	SplitAmong []string

	// PerPersonShare is the rounded even share, stored for display only.
	// Balance calculations always recompute the unrounded share from
	// Amount and SplitAmong to avoid compounding rounding error.
	PerPersonShare decimal.Decimal

	// IsActive is false once the expense has been soft-deleted. Inactive
	// expenses do not contribute to balances.
	IsActive bool

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}

// Share returns the unrounded even share each participant owes.
// Returns zero if the expense has no participants.
func (e *Expense) Share() decimal.Decimal {
	if len(e.SplitAmong) == 0 {
		return decimal.Zero
	}
	return e.Amount.Div(decimal.NewFromInt(int64(len(e.SplitAmong))))
}
