// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/rowin21/splitledger/internal/ledger"
	"github.com/rowin21/splitledger/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for splitledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByPhone retrieves a user by phone number.
	// Returns (nil, nil) if no such user exists.
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. Missing users
	// are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateGroup persists a new group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMembers adds user IDs to a group, skipping existing members.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// ListGroupsForUser returns all active groups the user belongs to.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// TouchGroup bumps the group's activity timestamp.
	TouchGroup(ctx context.Context, groupID string) error

	// DeactivateGroup soft-deletes a group.
	DeactivateGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense with its split participants.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID, including split participants.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense updates an expense's amount, description, date and
	// per-person share. The split participant set is immutable.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeactivateExpense soft-deletes an expense.
	DeactivateExpense(ctx context.Context, expenseID string) error

	// ListActiveExpenses returns the active expenses for a group and day.
	ListActiveExpenses(ctx context.Context, groupID, day string) ([]*models.Expense, error)

	// ListExpensesByGroup returns all active expenses for a group, newest
	// first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlements returns all settlements for a group and day,
	// regardless of status.
	ListSettlements(ctx context.Context, groupID, day string) ([]*models.Settlement, error)

	// ListSettlementsByGroup returns all settlements for a group, newest
	// first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// UpdateSettlementStatus persists a workflow transition (status,
	// payment method, reference).
	UpdateSettlementStatus(ctx context.Context, settlement *models.Settlement) error

	// ApplyMutations applies a reconciliation batch in one transaction.
	// Updates and deletes only touch records still in pending status.
	ApplyMutations(ctx context.Context, muts ledger.Mutations) error

	// Close releases any resources held by the store.
	Close() error
}
