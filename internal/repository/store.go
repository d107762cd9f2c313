// Package repository defines the persistence boundary of the bank and its
// PostgreSQL implementation. The Store keeps two consistency guarantees the
// transfer engine relies on: account_number is unique, and everything done
// inside RunTransfer commits atomically or not at all.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magicjohnson/simple-bank/internal/models"
)

// TransferTx is the unit of work open for the duration of one funds transfer.
// All reads and writes through it happen inside a single store transaction.
type TransferTx interface {
	// AccountNumberForUser resolves a user's account number without locking
	// the row. Returns bank.ErrAccountNotFound when the user has none.
	AccountNumberForUser(ctx context.Context, userID string) (string, error)

	// LockAccounts takes exclusive row locks on the given accounts, always in
	// ascending account-number order regardless of argument order, and returns
	// the locked rows. Missing accounts are simply absent from the result.
	LockAccounts(ctx context.Context, numbers ...string) ([]*models.Account, error)

	// UpdateBalance persists a new balance for a locked account.
	UpdateBalance(ctx context.Context, accountNumber string, balance decimal.Decimal) error

	// InsertTransaction appends one ledger row.
	InsertTransaction(ctx context.Context, txn *models.Transaction) error
}

type Store interface {
	// CreateUserWithAccount atomically creates a user and its seeded account.
	// Returns bank.ErrEmailExists or bank.ErrAccountNumberTaken on the
	// respective unique-constraint violations, with nothing persisted.
	CreateUserWithAccount(ctx context.Context, user *models.User, account *models.Account) error

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	AccountNumberExists(ctx context.Context, number string) (bool, error)

	GetAccountByUserID(ctx context.Context, userID string) (*models.Account, error)

	// ListTransactions returns an account's ledger rows in ascending
	// created_at order, bounded inclusively when from/to are non-nil.
	ListTransactions(ctx context.Context, accountNumber string, from, to *time.Time) ([]models.Transaction, error)

	// RunTransfer opens a transaction, runs fn, and commits if fn returns nil.
	// Any error from fn rolls everything back and is returned unchanged.
	RunTransfer(ctx context.Context, fn func(tx TransferTx) error) error
}
