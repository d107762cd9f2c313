package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/magicjohnson/simple-bank/internal/bank"
	"github.com/magicjohnson/simple-bank/internal/models"
)

// PostgresStore is the production Store. Plain SQL over database/sql; row
// locks via SELECT ... FOR UPDATE inside RunTransfer.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateUserWithAccount(ctx context.Context, user *models.User, account *models.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return bank.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (account_number, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.AccountNumber, account.UserID, account.Balance, account.CreatedAt, account.UpdatedAt)
	if isUniqueViolation(err) {
		return bank.ErrAccountNumberTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, bank.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)
	`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) GetAccountByUserID(ctx context.Context, userID string) (*models.Account, error) {
	var account models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT account_number, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`, userID).Scan(&account.AccountNumber, &account.UserID, &account.Balance, &account.CreatedAt, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, bank.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, accountNumber string, from, to *time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, account_number, amount, transaction_type, created_at
		FROM transactions
		WHERE account_number = $1
	`
	args := []any{accountNumber}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(&txn.ID, &txn.AccountNumber, &txn.Amount, &txn.Type, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txns, nil
}

func (s *PostgresStore) RunTransfer(ctx context.Context, fn func(tx TransferTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&postgresTransferTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed after %v: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

type postgresTransferTx struct {
	tx *sql.Tx
}

func (t *postgresTransferTx) AccountNumberForUser(ctx context.Context, userID string) (string, error) {
	var number string
	err := t.tx.QueryRowContext(ctx, `
		SELECT account_number FROM accounts WHERE user_id = $1
	`, userID).Scan(&number)
	if err == sql.ErrNoRows {
		return "", bank.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve account for user %s: %w", userID, err)
	}
	return number, nil
}

// LockAccounts orders by account_number so that two transfers touching the
// same pair always acquire locks in the same order and cannot deadlock.
func (t *postgresTransferTx) LockAccounts(ctx context.Context, numbers ...string) ([]*models.Account, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT account_number, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE account_number = ANY($1)
		ORDER BY account_number
		FOR UPDATE
	`, pq.Array(numbers))
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.AccountNumber, &account.UserID, &account.Balance, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan locked account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locked accounts: %w", err)
	}
	return accounts, nil
}

func (t *postgresTransferTx) UpdateBalance(ctx context.Context, accountNumber string, balance decimal.Decimal) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE accounts SET balance = $1, updated_at = $2 WHERE account_number = $3
	`, balance, time.Now().UTC(), accountNumber)
	if err != nil {
		return fmt.Errorf("failed to update balance for %s: %w", accountNumber, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return bank.ErrAccountNotFound
	}
	return nil
}

func (t *postgresTransferTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO transactions (id, account_number, amount, transaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, txn.ID, txn.AccountNumber, txn.Amount, txn.Type, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
