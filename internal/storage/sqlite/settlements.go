package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rowin21/splitledger/internal/ledger"
	"github.com/rowin21/splitledger/internal/models"
	"github.com/rowin21/splitledger/internal/storage"
)

const settlementColumns = "id, group_id, from_user, to_user, amount, status, payment_method, reference_id, date, created_at, updated_at"

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ?",
		settlementID,
	)
	settlement, err := scanSettlement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlements returns all settlements for a group and day, regardless
// of status.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID, day string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? AND date = ? ORDER BY created_at",
		groupID, day,
	)
}

// ListSettlementsByGroup returns all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? ORDER BY created_at DESC",
		groupID,
	)
}

func (s *SQLiteStore) listSettlements(ctx context.Context, query string, args ...interface{}) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

func scanSettlement(scan func(dest ...interface{}) error) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var method, reference sql.NullString

	err := scan(&settlement.ID, &settlement.GroupID, &settlement.FromUser, &settlement.ToUser,
		&settlement.Amount, &status, &method, &reference,
		&settlement.Date, &settlement.CreatedAt, &settlement.UpdatedAt)
	if err != nil {
		return nil, err
	}

	settlement.Status = models.SettlementStatus(status)
	if method.Valid {
		settlement.PaymentMethod = method.String
	}
	if reference.Valid {
		settlement.ReferenceID = reference.String
	}
	return settlement, nil
}

// UpdateSettlementStatus persists a workflow transition on a settlement.
func (s *SQLiteStore) UpdateSettlementStatus(ctx context.Context, settlement *models.Settlement) error {
	settlement.UpdatedAt = time.Now().Unix()

	var method, reference interface{}
	if settlement.PaymentMethod != "" {
		method = settlement.PaymentMethod
	}
	if settlement.ReferenceID != "" {
		reference = settlement.ReferenceID
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ?, payment_method = ?, reference_id = ?, updated_at = ? WHERE id = ?",
		string(settlement.Status), method, reference, settlement.UpdatedAt, settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("settlement %s: %w", settlement.ID, storage.ErrNotFound)
	}
	return nil
}

// ApplyMutations applies a reconciliation batch in a single transaction.
// Amount updates and deletes are guarded on pending status so that a
// workflow transition racing between the engine's read and this write can
// never clobber a frozen record.
func (s *SQLiteStore) ApplyMutations(ctx context.Context, muts ledger.Mutations) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	for _, settlement := range muts.Creates {
		if settlement.ID == "" {
			settlement.ID = uuid.New().String()
		}
		settlement.CreatedAt = now
		settlement.UpdatedAt = now

		_, err = tx.ExecContext(ctx,
			`INSERT INTO settlements (id, group_id, from_user, to_user, amount, status, date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			settlement.ID, settlement.GroupID, settlement.FromUser, settlement.ToUser,
			settlement.Amount.String(), string(settlement.Status), settlement.Date,
			settlement.CreatedAt, settlement.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}

	for _, settlement := range muts.Updates {
		_, err = tx.ExecContext(ctx,
			"UPDATE settlements SET amount = ?, updated_at = ? WHERE id = ? AND status = ?",
			settlement.Amount.String(), now, settlement.ID, string(models.StatusPending),
		)
		if err != nil {
			return fmt.Errorf("failed to update settlement amount: %w", err)
		}
	}

	for _, id := range muts.Deletes {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM settlements WHERE id = ? AND status = ?",
			id, string(models.StatusPending),
		)
		if err != nil {
			return fmt.Errorf("failed to delete settlement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
