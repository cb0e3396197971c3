package models

import "github.com/shopspring/decimal"

// SettlementStatus is the lifecycle state of a settlement record.
type SettlementStatus string

const (
	// StatusPending means the settlement is a computed suggestion. Pending
	// records are owned by the recalculation engine: their amounts may be
	// rewritten or the record deleted on the next recalculation.
	StatusPending SettlementStatus = "pending"

	// StatusAwaitingConfirmation means the payer has attached payment proof
	// and the receiver has not yet confirmed. From this point on the record
	// is frozen from the engine's perspective.
	StatusAwaitingConfirmation SettlementStatus = "awaiting_confirmation"

	// StatusSettled means the receiver confirmed the payment. Terminal.
	StatusSettled SettlementStatus = "settled"
)

// Valid reports whether s is a known settlement status.
func (s SettlementStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAwaitingConfirmation, StatusSettled:
		return true
	}
	return false
}

// Settlement represents a repayment between two group members, either
// suggested by the recalculation engine (pending) or in flight/completed.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUser is the user ID of the debtor (who pays).
	FromUser string

	// ToUser is the user ID of the creditor (who receives).
	ToUser string

	// Amount is the payment amount, rounded to two decimal places.
	Amount decimal.Decimal

	// Status is the lifecycle state. Only pending records are ever
	// mutated or deleted by recalculation.
	Status SettlementStatus

	// PaymentMethod is how the payer settled (cash, upi, net, other).
	// Empty while the settlement is pending.
	PaymentMethod string

	// ReferenceID is an optional payment reference (e.g., UPI txn id).
	ReferenceID string

	// Date is the calendar day ("YYYY-MM-DD") this settlement covers,
	// matching the expenses it was computed from.
	Date string

	// CreatedAt is the Unix timestamp when the settlement was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}
