package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Account holds a user's single balance. The account number is the identity:
// a 10-digit numeric string, unique and immutable once assigned.
type Account struct {
	AccountNumber string          `json:"account_number"`
	UserID        string          `json:"-"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// Transaction is one immutable ledger row. Amount is always the positive
// magnitude; the type says which way the balance moved.
type Transaction struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"-"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"transaction_type"`
	CreatedAt     time.Time       `json:"created_at"`
}
