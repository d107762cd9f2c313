// Package service holds the business logic behind the HTTP boundary:
// registration/login and the account/transfer engine.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/magicjohnson/simple-bank/internal/bank"
	"github.com/magicjohnson/simple-bank/internal/events"
	"github.com/magicjohnson/simple-bank/internal/middleware"
	"github.com/magicjohnson/simple-bank/internal/models"
	"github.com/magicjohnson/simple-bank/internal/repository"
)

// UserService handles registration and login. Registration provisions the
// user's single bank account through the BankService's number generator.
type UserService struct {
	store     repository.Store
	bank      *BankService
	publisher *events.Publisher
	logger    *zap.Logger
}

func NewUserService(store repository.Store, bankSvc *BankService, publisher *events.Publisher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		store:     store,
		bank:      bankSvc,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates a user and their account with the seed balance, atomically.
// A unique-constraint collision on the generated account number is recovered
// by retrying with a fresh number; it is never surfaced to the caller.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, bank.ErrCredentialsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	var account *models.Account
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.bank.GenerateAccountNumber(ctx)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		account = &models.Account{
			AccountNumber: number,
			UserID:        user.ID,
			Balance:       bank.SeedBalance,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		err = s.store.CreateUserWithAccount(ctx, user, account)
		if errors.Is(err, bank.ErrAccountNumberTaken) {
			// Lost the race to a concurrent registration; nothing was
			// persisted, so try again with a new number.
			continue
		}
		if err != nil {
			return nil, err
		}

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, events.BankEventsStream, events.AccountCreated, events.AccountCreatedEvent{
				AccountNumber: account.AccountNumber,
				UserID:        user.ID,
			}); err != nil {
				s.logger.Warn("failed to publish account.created event", zap.Error(err))
			}
		}
		s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("account_number", account.AccountNumber))
		return user, nil
	}
	return nil, errors.New("could not provision a unique account number")
}

// Login checks credentials and returns a signed session token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", bank.ErrInvalidCredentials
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", bank.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", bank.ErrInvalidCredentials
	}
	return middleware.GenerateToken(user.ID, user.Email)
}
