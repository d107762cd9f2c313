package bank

import (
	"crypto/rand"
	"math/big"
)

// AccountNumberLength is the fixed width of every account number.
const AccountNumberLength = 10

// NewAccountNumber returns a 10-digit numeric string drawn uniformly at
// random. It does not guarantee uniqueness; callers persist the candidate
// under the store's unique constraint and retry on collision.
func NewAccountNumber() string {
	digits := make([]byte, AccountNumberLength)
	for i := range digits {
		n, _ := rand.Int(rand.Reader, big.NewInt(10))
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits)
}

// ValidAccountNumber reports whether s has the account number format.
func ValidAccountNumber(s string) bool {
	if len(s) != AccountNumberLength {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
