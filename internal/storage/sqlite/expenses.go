package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/storage"
)

const expenseColumns = `id, description, category, amount_cents, paid_by, is_shared, split_count, status, date, created_at`

// CreateExpense persists a new expense and its split participants.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.SharedExpense) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}
	if expense.Category == "" {
		expense.Category = models.CategoryOther
	}
	if expense.Status == "" {
		expense.Status = models.ExpensePending
	}
	if expense.Description == "" {
		expense.Description = generateDescription(expense.Category, expense.Date)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, string(expense.Category), expense.Amount, expense.PaidBy,
		expense.IsShared, expense.SplitCount, string(expense.Status), expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, participant := range expense.SplitParticipants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, participant_id, position) VALUES (?, ?, ?)",
			expense.ID, participant, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanExpense(row interface{ Scan(...any) error }) (*models.SharedExpense, error) {
	expense := &models.SharedExpense{}
	var category, status string
	err := row.Scan(&expense.ID, &expense.Description, &category, &expense.Amount, &expense.PaidBy,
		&expense.IsShared, &expense.SplitCount, &status, &expense.Date, &expense.CreatedAt)
	expense.Category = models.ExpenseCategory(category)
	expense.Status = models.ExpenseStatus(status)
	return expense, err
}

// GetExpense retrieves an expense by ID, including its split participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.SharedExpense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, expenseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id FROM expense_splits WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var participant string
		if err := rows.Scan(&participant); err != nil {
			return nil, fmt.Errorf("failed to scan split participant: %w", err)
		}
		expense.SplitParticipants = append(expense.SplitParticipants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split participants: %w", err)
	}

	return expense, nil
}

// ListExpenses retrieves every expense with its split participants, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.SharedExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.SharedExpense
	byID := make(map[string]*models.SharedExpense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, participant_id FROM expense_splits ORDER BY expense_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to list split participants: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID, participant string
		if err := splitRows.Scan(&expenseID, &participant); err != nil {
			return nil, fmt.Errorf("failed to scan split participant: %w", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.SplitParticipants = append(expense.SplitParticipants, participant)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split participants: %w", err)
	}

	return expenses, nil
}

// UpdateExpenseStatus changes the approval state of an expense.
func (s *SQLiteStore) UpdateExpenseStatus(ctx context.Context, expenseID string, status models.ExpenseStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET status = ? WHERE id = ?", string(status), expenseID)
	if err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// DeleteExpense removes an expense; split rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}
