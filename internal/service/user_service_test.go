package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magicjohnson/simple-bank/internal/bank"
	"github.com/magicjohnson/simple-bank/internal/middleware"
)

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "missing email", email: "", password: "testpassword123"},
		{name: "missing password", email: "test@example.com", password: ""},
		{name: "missing both", email: "", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, userSvc, _ := newTestServices(t)
			_, err := userSvc.Register(context.Background(), tt.email, tt.password)
			if !errors.Is(err, bank.ErrCredentialsRequired) {
				t.Errorf("Register error = %v, want ErrCredentialsRequired", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, userSvc, store := newTestServices(t)
	ctx := context.Background()

	registerUser(t, userSvc, store, "test@example.com")
	_, err := userSvc.Register(ctx, "test@example.com", "otherpassword")
	if !errors.Is(err, bank.ErrEmailExists) {
		t.Errorf("Register error = %v, want ErrEmailExists", err)
	}
}

func TestRegisterSeedsAccount(t *testing.T) {
	_, userSvc, store := newTestServices(t)

	user, account := registerUser(t, userSvc, store, "test@example.com")
	if user.Email != "test@example.com" {
		t.Errorf("user email = %s", user.Email)
	}
	if !bank.ValidAccountNumber(account.AccountNumber) {
		t.Errorf("account number %q is not 10 numeric digits", account.AccountNumber)
	}
	if !account.Balance.Equal(bank.SeedBalance) {
		t.Errorf("seed balance = %s, want %s", account.Balance, bank.SeedBalance)
	}
	if user.PasswordHash == "testpassword123" {
		t.Error("password stored in plaintext")
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, userSvc, store := newTestServices(t)
	ctx := context.Background()
	user, _ := registerUser(t, userSvc, store, "test@example.com")

	t.Run("wrong password", func(t *testing.T) {
		_, err := userSvc.Login(ctx, "test@example.com", "wrongpassword")
		if !errors.Is(err, bank.ErrInvalidCredentials) {
			t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := userSvc.Login(ctx, "nobody@example.com", "testpassword123")
		if !errors.Is(err, bank.ErrInvalidCredentials) {
			t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("valid credentials return token", func(t *testing.T) {
		token, err := userSvc.Login(ctx, "test@example.com", "testpassword123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		claims := &middleware.Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		})
		if err != nil || !parsed.Valid {
			t.Fatalf("token does not parse: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("token user = %s, want %s", claims.UserID, user.ID)
		}
	})
}
