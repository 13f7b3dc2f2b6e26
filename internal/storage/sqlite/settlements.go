package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/storage"
)

const settlementColumns = `id, from_user_id, to_user_id, amount_cents, status, due_date, paid_at,
	payment_method, notes, fingerprint, version, created_at`

// insertSettlement assigns an ID, timestamp and version 1, then inserts.
func insertSettlement(ctx context.Context, q queryer, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	settlement.Version = 1

	_, err := q.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.FromUserID, settlement.ToUserID, settlement.Amount,
		string(settlement.Status), settlement.DueDate, settlement.PaidAt,
		nullString(settlement.PaymentMethod), nullString(settlement.Notes), nullString(settlement.Fingerprint),
		settlement.Version, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// updateSettlement writes every mutable column guarded by the version the
// caller read. It does not touch settlement.Version; callers bump it once the
// enclosing transaction has committed.
func updateSettlement(ctx context.Context, q queryer, settlement *models.Settlement) error {
	result, err := q.ExecContext(ctx,
		`UPDATE settlements
		 SET from_user_id = ?, to_user_id = ?, amount_cents = ?, status = ?, due_date = ?, paid_at = ?,
		     payment_method = ?, notes = ?, fingerprint = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		settlement.FromUserID, settlement.ToUserID, settlement.Amount, string(settlement.Status),
		settlement.DueDate, settlement.PaidAt,
		nullString(settlement.PaymentMethod), nullString(settlement.Notes), nullString(settlement.Fingerprint),
		settlement.ID, settlement.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	return checkVersionedWrite(ctx, q, result, settlement.ID)
}

// checkVersionedWrite distinguishes a missing row from a stale version when a
// guarded UPDATE or DELETE touched nothing.
func checkVersionedWrite(ctx context.Context, q queryer, result sql.Result, settlementID string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = q.QueryRowContext(ctx, "SELECT 1 FROM settlements WHERE id = ?", settlementID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check settlement existence: %w", err)
	}
	return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrVersionConflict)
}

func scanSettlement(row interface{ Scan(...any) error }) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var method, notes, fingerprint sql.NullString

	err := row.Scan(&settlement.ID, &settlement.FromUserID, &settlement.ToUserID, &settlement.Amount,
		&status, &settlement.DueDate, &settlement.PaidAt, &method, &notes, &fingerprint,
		&settlement.Version, &settlement.CreatedAt)
	if err != nil {
		return nil, err
	}

	settlement.Status = models.SettlementStatus(status)
	settlement.PaymentMethod = method.String
	settlement.Notes = notes.String
	settlement.Fingerprint = fingerprint.String
	return settlement, nil
}

func querySettlements(ctx context.Context, q queryer, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
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

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ?`, settlementID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlements retrieves settlements matching the filter, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, filter storage.SettlementFilter) ([]*models.Settlement, error) {
	var where []string
	var args []any
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ParticipantID != "" {
		where = append(where, "(from_user_id = ? OR to_user_id = ?)")
		args = append(args, filter.ParticipantID, filter.ParticipantID)
	}
	if filter.DueBefore != 0 {
		where = append(where, "due_date < ?")
		args = append(args, filter.DueBefore)
	}

	// Build the query
	query := `SELECT ` + settlementColumns + ` FROM settlements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	return querySettlements(ctx, s.db, query, args...)
}

// UpdateSettlement writes the settlement under an optimistic version check.
func (s *SQLiteStore) UpdateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if err := updateSettlement(ctx, s.db, settlement); err != nil {
		return err
	}
	settlement.Version++
	return nil
}

// RecordPartialPayment amends the remainder and inserts the paid portion in
// one transaction.
func (s *SQLiteStore) RecordPartialPayment(ctx context.Context, remainder, paid *models.Settlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Shrink the original; fails if another writer got there first
	if err := updateSettlement(ctx, tx, remainder); err != nil {
		return err
	}
	// Record the paid portion as its own settlement
	if err := insertSettlement(ctx, tx, paid); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	remainder.Version++
	return nil
}

// DeleteSettlement removes a settlement by ID under an optimistic version check.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string, version int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM settlements WHERE id = ? AND version = ?", settlementID, version)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return checkVersionedWrite(ctx, s.db, result, settlementID)
}

// ReconcilePending upserts proposals by fingerprint and deletes PENDING
// settlements that are no longer proposed, all in one transaction.
func (s *SQLiteStore) ReconcilePending(ctx context.Context, proposals []*models.Settlement) (storage.ReconcileResult, error) {
	var result storage.ReconcileResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Load current pending settlements
	existing, err := querySettlements(ctx, tx,
		`SELECT `+settlementColumns+` FROM settlements WHERE status = ?`, string(models.SettlementPending))
	if err != nil {
		return result, err
	}

	// Index by fingerprint; legacy rows without one are never matched
	byFingerprint := make(map[string]*models.Settlement, len(existing))
	for _, e := range existing {
		if e.Fingerprint != "" {
			byFingerprint[e.Fingerprint] = e
		}
	}

	kept := make(map[string]bool, len(proposals))
	for _, p := range proposals {
		// New proposal, or a second proposal for an already matched row
		current, ok := byFingerprint[p.Fingerprint]
		if !ok || p.Fingerprint == "" || kept[current.ID] {
			if err := insertSettlement(ctx, tx, p); err != nil {
				return result, err
			}
			result.Created++
			continue
		}

		// Same debt: keep the row and its ID, amend parties or amount if they moved
		kept[current.ID] = true
		changed := current.FromUserID != p.FromUserID || current.ToUserID != p.ToUserID || current.Amount != p.Amount
		if changed {
			current.FromUserID, current.ToUserID, current.Amount = p.FromUserID, p.ToUserID, p.Amount
			if err := updateSettlement(ctx, tx, current); err != nil {
				return result, err
			}
			current.Version++
			result.Updated++
		}
		*p = *current
	}

	// Drop pending settlements nothing proposes any more
	for _, e := range existing {
		if kept[e.ID] {
			continue
		}
		res, err := tx.ExecContext(ctx,
			"DELETE FROM settlements WHERE id = ? AND version = ?", e.ID, e.Version)
		if err != nil {
			return result, fmt.Errorf("failed to delete stale settlement: %w", err)
		}
		if err := checkVersionedWrite(ctx, tx, res, e.ID); err != nil {
			return result, err
		}
		result.Deleted++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}
