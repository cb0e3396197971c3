package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rowin21/splitledger/internal/models"
	"github.com/rowin21/splitledger/internal/storage"
)

// CreateExpense persists a new expense and its split participants.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now
	expense.IsActive = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, paid_by, amount, description, date, per_person_share, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Amount.String(),
		expense.Description, expense.Date, expense.PerPersonShare.String(),
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, userID := range expense.SplitAmong {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id) VALUES (?, ?)",
			expense.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including split participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var isActive int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, paid_by, amount, description, date, per_person_share, is_active, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &expense.Amount,
		&expense.Description, &expense.Date, &expense.PerPersonShare,
		&isActive, &expense.CreatedAt, &expense.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.IsActive = isActive != 0

	if err := s.loadSplits(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		expense.SplitAmong = append(expense.SplitAmong, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return nil
}

// UpdateExpense updates an expense's mutable fields. Split participants
// are fixed at creation.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, date = ?, per_person_share = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Amount.String(), expense.Description, expense.Date,
		expense.PerPersonShare.String(), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}
	return nil
}

// DeactivateExpense soft-deletes an expense so it no longer contributes to
// balances while staying visible in history.
func (s *SQLiteStore) DeactivateExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET is_active = 0, updated_at = ? WHERE id = ?",
		time.Now().Unix(), expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListActiveExpenses returns the active expenses for a group and day.
func (s *SQLiteStore) ListActiveExpenses(ctx context.Context, groupID, day string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT id, group_id, paid_by, amount, description, date, per_person_share, is_active, created_at, updated_at
		 FROM expenses WHERE group_id = ? AND date = ? AND is_active = 1
		 ORDER BY created_at`,
		groupID, day,
	)
}

// ListExpensesByGroup returns all active expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT id, group_id, paid_by, amount, description, date, per_person_share, is_active, created_at, updated_at
		 FROM expenses WHERE group_id = ? AND is_active = 1
		 ORDER BY date DESC, created_at DESC`,
		groupID,
	)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var isActive int
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &expense.Amount,
			&expense.Description, &expense.Date, &expense.PerPersonShare,
			&isActive, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.IsActive = isActive != 0
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadSplits(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}
