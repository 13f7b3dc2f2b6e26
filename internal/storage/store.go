// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a settlement was changed by another
	// writer after it was read.
	ErrVersionConflict = errors.New("version conflict")
)

// SettlementFilter narrows ListSettlements. Zero values match everything.
type SettlementFilter struct {
	Status        models.SettlementStatus
	ParticipantID string // either side of the settlement
	DueBefore     int64  // Unix timestamp; only settlements due strictly earlier
}

// ReconcileResult counts what ReconcilePending changed.
type ReconcileResult struct {
	Created int
	Updated int
	Deleted int
}

// Store defines the interface for back-office storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns every user ordered by display name.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateExpense persists a new expense and its split participants.
	// The expense.ID field will be populated by the store.
	CreateExpense(ctx context.Context, expense *models.SharedExpense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.SharedExpense, error)

	// ListExpenses returns every expense, oldest first.
	ListExpenses(ctx context.Context) ([]*models.SharedExpense, error)

	// UpdateExpenseStatus changes the approval state of an expense.
	UpdateExpenseStatus(ctx context.Context, expenseID string, status models.ExpenseStatus) error

	// DeleteExpense removes an expense and its split participants.
	DeleteExpense(ctx context.Context, expenseID string) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlements returns settlements matching the filter, newest first.
	ListSettlements(ctx context.Context, filter SettlementFilter) ([]*models.Settlement, error)

	// UpdateSettlement writes the settlement if its stored version still equals
	// settlement.Version, then increments settlement.Version.
	// Returns ErrVersionConflict otherwise.
	UpdateSettlement(ctx context.Context, settlement *models.Settlement) error

	// RecordPartialPayment atomically updates the remainder (with the same
	// version check as UpdateSettlement) and inserts the paid record.
	RecordPartialPayment(ctx context.Context, remainder, paid *models.Settlement) error

	// DeleteSettlement removes a settlement if its stored version still equals version.
	DeleteSettlement(ctx context.Context, settlementID string, version int64) error

	// ReconcilePending replaces the set of PENDING settlements with proposals,
	// matching existing records by fingerprint so that repeated proposals do
	// not create duplicates. PENDING records absent from proposals are deleted.
	ReconcilePending(ctx context.Context, proposals []*models.Settlement) (ReconcileResult, error)

	// Close releases any resources held by the store.
	Close() error
}
