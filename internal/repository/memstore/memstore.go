// Package memstore is an in-memory repository.Store. One mutex serialises
// every operation, so a transfer's validation, balance writes and ledger
// appends form a single critical section; RunTransfer stages its writes and
// applies them only when the callback succeeds, which gives the same
// all-or-nothing behaviour as the SQL store. Used by tests and local runs
// without PostgreSQL.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magicjohnson/simple-bank/internal/bank"
	"github.com/magicjohnson/simple-bank/internal/models"
	"github.com/magicjohnson/simple-bank/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	byEmail  map[string]*models.User
	byNumber map[string]*models.Account
	byUser   map[string]string // user ID -> account number
	ledger   map[string][]models.Transaction
}

func New() *Store {
	return &Store{
		byEmail:  make(map[string]*models.User),
		byNumber: make(map[string]*models.Account),
		byUser:   make(map[string]string),
		ledger:   make(map[string][]models.Transaction),
	}
}

func (s *Store) CreateUserWithAccount(ctx context.Context, user *models.User, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return bank.ErrEmailExists
	}
	if _, ok := s.byNumber[account.AccountNumber]; ok {
		return bank.ErrAccountNumberTaken
	}
	u := *user
	a := *account
	s.byEmail[u.Email] = &u
	s.byNumber[a.AccountNumber] = &a
	s.byUser[a.UserID] = a.AccountNumber
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, bank.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *Store) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byNumber[number]
	return ok, nil
}

func (s *Store) GetAccountByUserID(ctx context.Context, userID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	number, ok := s.byUser[userID]
	if !ok {
		return nil, bank.ErrAccountNotFound
	}
	cp := *s.byNumber[number]
	return &cp, nil
}

func (s *Store) ListTransactions(ctx context.Context, accountNumber string, from, to *time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, txn := range s.ledger[accountNumber] {
		if from != nil && txn.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && txn.CreatedAt.After(*to) {
			continue
		}
		out = append(out, txn)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) RunTransfer(ctx context.Context, fn func(tx repository.TransferTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTransferTx{
		store:    s,
		balances: make(map[string]decimal.Decimal),
	}
	if err := fn(tx); err != nil {
		return err
	}

	// Commit: the mutex is still held, so the staged writes apply atomically.
	for number, balance := range tx.balances {
		account := s.byNumber[number]
		account.Balance = balance
		account.UpdatedAt = time.Now().UTC()
	}
	for _, txn := range tx.txns {
		s.ledger[txn.AccountNumber] = append(s.ledger[txn.AccountNumber], txn)
	}
	return nil
}

// memTransferTx stages balance updates and ledger rows until commit.
type memTransferTx struct {
	store    *Store
	balances map[string]decimal.Decimal
	txns     []models.Transaction
}

func (t *memTransferTx) AccountNumberForUser(ctx context.Context, userID string) (string, error) {
	number, ok := t.store.byUser[userID]
	if !ok {
		return "", bank.ErrAccountNotFound
	}
	return number, nil
}

func (t *memTransferTx) LockAccounts(ctx context.Context, numbers ...string) ([]*models.Account, error) {
	sorted := append([]string(nil), numbers...)
	sort.Strings(sorted)
	var accounts []*models.Account
	for _, number := range sorted {
		account, ok := t.store.byNumber[number]
		if !ok {
			continue
		}
		cp := *account
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

func (t *memTransferTx) UpdateBalance(ctx context.Context, accountNumber string, balance decimal.Decimal) error {
	if _, ok := t.store.byNumber[accountNumber]; !ok {
		return bank.ErrAccountNotFound
	}
	t.balances[accountNumber] = balance
	return nil
}

func (t *memTransferTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	t.txns = append(t.txns, *txn)
	return nil
}
