package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magicjohnson/simple-bank/internal/bank"
	"github.com/magicjohnson/simple-bank/internal/models"
	"github.com/magicjohnson/simple-bank/internal/repository"
)

func seedAccount(t *testing.T, s *Store, email, userID, number, balance string) {
	t.Helper()
	err := s.CreateUserWithAccount(context.Background(),
		&models.User{ID: userID, Email: email, PasswordHash: "x", CreatedAt: time.Now()},
		&models.Account{AccountNumber: number, UserID: userID, Balance: decimal.RequireFromString(balance)},
	)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestUniqueConstraints(t *testing.T) {
	s := New()
	seedAccount(t, s, "a@example.com", "u1", "1111111111", "10000.00")

	err := s.CreateUserWithAccount(context.Background(),
		&models.User{ID: "u2", Email: "a@example.com"},
		&models.Account{AccountNumber: "2222222222", UserID: "u2"},
	)
	if !errors.Is(err, bank.ErrEmailExists) {
		t.Errorf("duplicate email error = %v, want ErrEmailExists", err)
	}

	err = s.CreateUserWithAccount(context.Background(),
		&models.User{ID: "u3", Email: "b@example.com"},
		&models.Account{AccountNumber: "1111111111", UserID: "u3"},
	)
	if !errors.Is(err, bank.ErrAccountNumberTaken) {
		t.Errorf("duplicate number error = %v, want ErrAccountNumberTaken", err)
	}
}

func TestRunTransferRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedAccount(t, s, "a@example.com", "u1", "1111111111", "10000.00")

	boom := errors.New("boom")
	err := s.RunTransfer(ctx, func(tx repository.TransferTx) error {
		if err := tx.UpdateBalance(ctx, "1111111111", decimal.Zero); err != nil {
			return err
		}
		if err := tx.InsertTransaction(ctx, &models.Transaction{
			ID: "t1", AccountNumber: "1111111111",
			Amount: decimal.RequireFromString("10000.00"), Type: models.Debit, CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunTransfer error = %v, want boom", err)
	}

	account, _ := s.GetAccountByUserID(ctx, "u1")
	if !account.Balance.Equal(decimal.RequireFromString("10000.00")) {
		t.Errorf("balance changed after rollback: %s", account.Balance)
	}
	txns, _ := s.ListTransactions(ctx, "1111111111", nil, nil)
	if len(txns) != 0 {
		t.Errorf("ledger has %d rows after rollback, want 0", len(txns))
	}
}

func TestLockAccountsOrdersAndSkipsMissing(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedAccount(t, s, "a@example.com", "u1", "9999999999", "10000.00")
	seedAccount(t, s, "b@example.com", "u2", "1111111111", "10000.00")

	err := s.RunTransfer(ctx, func(tx repository.TransferTx) error {
		accounts, err := tx.LockAccounts(ctx, "9999999999", "1111111111", "5555555555")
		if err != nil {
			return err
		}
		if len(accounts) != 2 {
			t.Errorf("locked %d accounts, want 2", len(accounts))
		}
		if accounts[0].AccountNumber != "1111111111" {
			t.Errorf("accounts not in ascending order: %s first", accounts[0].AccountNumber)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTransfer failed: %v", err)
	}
}
