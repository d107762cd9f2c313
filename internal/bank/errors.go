// Package bank holds the domain rules shared by the services and the stores:
// error taxonomy, the transfer fee policy and account number generation.
package bank

import "errors"

// Domain errors. The HTTP layer maps these to statuses and client messages;
// anything else that bubbles up is treated as an internal failure.
var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("bank account not found")
	ErrTransferPair        = errors.New("sender or receiver account not found")
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds")

	// ErrAccountNumberTaken is returned by stores when the unique constraint
	// on account_number rejects an insert. Registration retries with a fresh
	// number; the error never reaches a client.
	ErrAccountNumberTaken = errors.New("account number already taken")
)
