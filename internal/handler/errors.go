package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magicjohnson/simple-bank/internal/bank"
	"github.com/magicjohnson/simple-bank/internal/middleware"
)

// respondServiceError maps domain errors to HTTP rejections. Anything not in
// the taxonomy is an internal failure and leaks no detail to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bank.ErrCredentialsRequired):
		middleware.RespondWithError(c, http.StatusBadRequest, "Email and password are required")
	case errors.Is(err, bank.ErrEmailExists):
		middleware.RespondWithError(c, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, bank.ErrInvalidCredentials):
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, bank.ErrAccountNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Bank account not found")
	case errors.Is(err, bank.ErrTransferPair):
		middleware.RespondWithError(c, http.StatusNotFound, "Sender or receiver account not found")
	case errors.Is(err, bank.ErrAmountNotPositive):
		middleware.RespondWithError(c, http.StatusBadRequest, "Amount must be positive")
	case errors.Is(err, bank.ErrInsufficientFunds):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient funds")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
