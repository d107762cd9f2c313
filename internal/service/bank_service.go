package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/magicjohnson/simple-bank/internal/bank"
	"github.com/magicjohnson/simple-bank/internal/cache"
	"github.com/magicjohnson/simple-bank/internal/events"
	"github.com/magicjohnson/simple-bank/internal/models"
	"github.com/magicjohnson/simple-bank/internal/repository"
)

// maxNumberAttempts bounds account number generation. The candidate space is
// 10^10, so more than one collision in a row means the store is pathological.
const maxNumberAttempts = 5

// BankService owns the account/ledger model: balance reads, transaction
// history, account number provisioning and the transfer engine. The cache and
// publisher are optional; when nil every read goes to the store and no events
// are emitted.
type BankService struct {
	store     repository.Store
	cache     *cache.AccountCache
	publisher *events.Publisher
	logger    *zap.Logger
}

func NewBankService(store repository.Store, accountCache *cache.AccountCache, publisher *events.Publisher, logger *zap.Logger) *BankService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankService{
		store:     store,
		cache:     accountCache,
		publisher: publisher,
		logger:    logger,
	}
}

// Account returns the caller's account, served from the cache when warm.
func (s *BankService) Account(ctx context.Context, userID string) (*models.Account, error) {
	if s.cache != nil {
		if account, ok := s.cache.Get(ctx, userID); ok {
			return account, nil
		}
	}
	account, err := s.store.GetAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, account)
	}
	return account, nil
}

// Transactions returns the caller's ledger rows in ascending creation order,
// bounded inclusively by from/to when provided.
func (s *BankService) Transactions(ctx context.Context, userID string, from, to *time.Time) ([]models.Transaction, error) {
	account, err := s.store.GetAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, account.AccountNumber, from, to)
}

// GenerateAccountNumber draws random candidates until one is free. Uniqueness
// is only guaranteed by the store's unique constraint at insert time; callers
// must still retry on bank.ErrAccountNumberTaken.
func (s *BankService) GenerateAccountNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		number := bank.NewAccountNumber()
		exists, err := s.store.AccountNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not generate a free account number after %d attempts", maxNumberAttempts)
}

// Transfer moves amount from the caller's account to the receiver's, deducting
// a fee from the sender. Inside one store transaction it resolves both
// accounts, locks them in ascending account-number order, checks
// sufficiency against amount+fee, applies both balance deltas and appends the
// debit and credit ledger rows. Either every effect commits or none do.
func (s *BankService) Transfer(ctx context.Context, userID, receiverAccountNumber string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return bank.ErrAmountNotPositive
	}

	fee := bank.Fee(amount)
	total := amount.Add(fee)

	var senderUserID, receiverUserID string
	var senderNumber string

	err := s.store.RunTransfer(ctx, func(tx repository.TransferTx) error {
		var err error
		senderNumber, err = tx.AccountNumberForUser(ctx, userID)
		if errors.Is(err, bank.ErrAccountNotFound) {
			return bank.ErrTransferPair
		}
		if err != nil {
			return err
		}

		numbers := []string{senderNumber}
		if receiverAccountNumber != senderNumber {
			numbers = append(numbers, receiverAccountNumber)
		}
		locked, err := tx.LockAccounts(ctx, numbers...)
		if err != nil {
			return err
		}

		var sender, receiver *models.Account
		for _, account := range locked {
			if account.AccountNumber == senderNumber {
				sender = account
			}
			if account.AccountNumber == receiverAccountNumber {
				receiver = account
			}
		}
		if sender == nil || receiver == nil {
			return bank.ErrTransferPair
		}

		if sender.Balance.LessThan(total) {
			return bank.ErrInsufficientFunds
		}

		senderUserID = sender.UserID
		receiverUserID = receiver.UserID

		if sender.AccountNumber == receiver.AccountNumber {
			// Self-transfer: both deltas land on the same row, net -fee.
			if err := tx.UpdateBalance(ctx, sender.AccountNumber, sender.Balance.Sub(total).Add(amount)); err != nil {
				return err
			}
		} else {
			if err := tx.UpdateBalance(ctx, sender.AccountNumber, sender.Balance.Sub(total)); err != nil {
				return err
			}
			if err := tx.UpdateBalance(ctx, receiver.AccountNumber, receiver.Balance.Add(amount)); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		debit := &models.Transaction{
			ID:            uuid.NewString(),
			AccountNumber: sender.AccountNumber,
			Amount:        total,
			Type:          models.Debit,
			CreatedAt:     now,
		}
		credit := &models.Transaction{
			ID:            uuid.NewString(),
			AccountNumber: receiver.AccountNumber,
			Amount:        amount,
			Type:          models.Credit,
			CreatedAt:     now,
		}
		if err := tx.InsertTransaction(ctx, debit); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, credit)
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, senderUserID)
		s.cache.Invalidate(ctx, receiverUserID)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.BankEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
			SenderAccount:   senderNumber,
			ReceiverAccount: receiverAccountNumber,
			Amount:          amount.StringFixed(2),
			Fee:             fee.StringFixed(2),
		}); err != nil {
			s.logger.Warn("failed to publish transfer.completed event", zap.Error(err))
		}
	}
	s.logger.Info("transfer completed",
		zap.String("sender", senderNumber),
		zap.String("receiver", receiverAccountNumber),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("fee", fee.StringFixed(2)),
	)
	return nil
}
