package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rowin21/splitledger/internal/ledger"
	"github.com/rowin21/splitledger/internal/models"
	"github.com/rowin21/splitledger/internal/storage"
)

// ExpenseService manages shared expenses and keeps daily settlements in
// sync with them.
type ExpenseService struct {
	store  storage.Store
	recalc *ledger.Recalculator
}

// NewExpenseService creates an ExpenseService with the given storage
// backend and recalculator.
func NewExpenseService(store storage.Store, recalc *ledger.Recalculator) *ExpenseService {
	return &ExpenseService{store: store, recalc: recalc}
}

// AddExpenseInput is the payload for AddExpense.
type AddExpenseInput struct {
	GroupID     string
	PaidBy      string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// AddExpense records a new expense split evenly across all group members
// and recalculates that day's settlements.
//
// The acting user and the payer must both be members of an active group.
// A failed recalculation does not fail the expense creation; the ledger
// heals on the next mutation for the same scope.
func (s *ExpenseService) AddExpense(ctx context.Context, actorID string, in AddExpenseInput) (*models.Expense, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	group, err := s.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.IsActive {
		return nil, ErrGroupInactive
	}
	if !group.HasMember(actorID) || !group.HasMember(in.PaidBy) {
		return nil, ErrForbidden
	}
	if len(group.Members) == 0 {
		return nil, ErrNoMembers
	}

	expense := &models.Expense{
		GroupID:     in.GroupID,
		PaidBy:      in.PaidBy,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        models.DayOf(in.Date),
		SplitAmong:  group.Members,
	}
	expense.PerPersonShare = expense.Share().Round(2)

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", in.GroupID, "error", err)
		return nil, err
	}

	if err := s.store.TouchGroup(ctx, in.GroupID); err != nil {
		slog.Warn("AddExpense: failed to touch group", "group_id", in.GroupID, "error", err)
	}

	s.recalc.Recalc(ctx, expense.GroupID, expense.Date)

	slog.Info("Expense added",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"participants", len(expense.SplitAmong),
	)
	return expense, nil
}

// UpdateExpenseInput is the payload for UpdateExpense. Nil fields are left
// unchanged.
type UpdateExpenseInput struct {
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// UpdateExpense modifies an expense and recalculates settlements for every
// affected day. Only the payer or the group creator may edit an expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, actorID, expenseID string, in UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsActive {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if actorID != expense.PaidBy && actorID != group.CreatedBy {
		return nil, ErrForbidden
	}

	oldDay := expense.Date

	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		expense.Amount = *in.Amount
		expense.PerPersonShare = expense.Share().Round(2)
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.Date != nil {
		expense.Date = models.DayOf(*in.Date)
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}

	if err := s.store.TouchGroup(ctx, expense.GroupID); err != nil {
		slog.Warn("UpdateExpense: failed to touch group", "group_id", expense.GroupID, "error", err)
	}

	// Moving an expense across days changes both scopes.
	if oldDay != expense.Date {
		s.recalc.Recalc(ctx, expense.GroupID, oldDay)
	}
	s.recalc.Recalc(ctx, expense.GroupID, expense.Date)

	slog.Info("Expense updated", "expense_id", expense.ID, "group_id", expense.GroupID)
	return expense, nil
}

// DeleteExpense soft-deletes an expense and recalculates that day's
// settlements. Only the payer or the group creator may delete an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, actorID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if !expense.IsActive {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return err
	}
	if actorID != expense.PaidBy && actorID != group.CreatedBy {
		return ErrForbidden
	}

	if err := s.store.DeactivateExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return err
	}

	if err := s.store.TouchGroup(ctx, expense.GroupID); err != nil {
		slog.Warn("DeleteExpense: failed to touch group", "group_id", expense.GroupID, "error", err)
	}

	s.recalc.Recalc(ctx, expense.GroupID, expense.Date)

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", expense.GroupID)
	return nil
}

// ListGroupExpenses returns all active expenses of a group, newest first.
// The acting user must be a member.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, actorID, groupID string) ([]*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, ErrForbidden
	}

	return s.store.ListExpensesByGroup(ctx, groupID)
}
