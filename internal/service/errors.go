// Package service implements the business rules on top of storage: expense
// and group management, the settlement confirmation workflow, and
// authentication. Expense mutations trigger settlement recalculation for
// their (group, day) scope after committing.
package service

import "errors"

var (
	// ErrForbidden means the acting user is not allowed to perform the
	// operation (not a member, not the payer, not the receiver, ...).
	ErrForbidden = errors.New("forbidden")

	// ErrGroupInactive means the group has been deactivated and rejects
	// new activity.
	ErrGroupInactive = errors.New("group is inactive")

	// ErrNoMembers means the group has nobody to split an expense across.
	ErrNoMembers = errors.New("group has no members to split expense")

	// ErrInvalidAmount means a non-positive expense amount was supplied.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidStatus means a settlement workflow transition is not legal
	// from the record's current status.
	ErrInvalidStatus = errors.New("invalid settlement status transition")
)
