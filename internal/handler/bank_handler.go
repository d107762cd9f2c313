// Package handler exposes the banking API over Gin and maps domain errors to
// HTTP responses. The handlers hold no business rules beyond request parsing.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/magicjohnson/simple-bank/internal/middleware"
	"github.com/magicjohnson/simple-bank/internal/models"
)

// BankServicer defines the account operations used by BankHandler.
type BankServicer interface {
	Account(ctx context.Context, userID string) (*models.Account, error)
	Transactions(ctx context.Context, userID string, from, to *time.Time) ([]models.Transaction, error)
	Transfer(ctx context.Context, userID, receiverAccountNumber string, amount decimal.Decimal) error
}

type BankHandler struct {
	bank BankServicer
}

func NewBankHandler(bank BankServicer) *BankHandler {
	return &BankHandler{bank: bank}
}

// TransferRequest binds amount into decimal.Decimal directly, so both JSON
// numbers and quoted strings are accepted. Positivity is the engine's rule,
// not the handler's.
type TransferRequest struct {
	ReceiverAccountNumber string          `json:"receiver_account_number" validate:"required,len=10,numeric"`
	Amount                decimal.Decimal `json:"amount"`
}

type BalanceResponse struct {
	Balance       string `json:"balance"`
	AccountNumber string `json:"account_number"`
}

type TransactionResponse struct {
	Amount          string    `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	CreatedAt       time.Time `json:"created_at"`
}

func (h *BankHandler) GetBalance(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	account, err := h.bank.Account(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{
		Balance:       account.Balance.StringFixed(2),
		AccountNumber: account.AccountNumber,
	})
}

func (h *BankHandler) ListTransactions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	from, ok := parseTimeParam(c, "date_from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "date_to")
	if !ok {
		return
	}
	if from != nil && to != nil && from.After(*to) {
		middleware.RespondWithError(c, http.StatusBadRequest, "date_from cannot be later than date_to")
		return
	}

	txns, err := h.bank.Transactions(c.Request.Context(), userID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, TransactionResponse{
			Amount:          txn.Amount.StringFixed(2),
			TransactionType: string(txn.Type),
			CreatedAt:       txn.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}

func (h *BankHandler) Transfer(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if err := h.bank.Transfer(c.Request.Context(), userID, req.ReceiverAccountNumber, req.Amount); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transfer successful"})
}

// parseTimeParam reads an optional RFC3339 query parameter. On a malformed
// value it writes the 400 response itself and returns ok=false.
func parseTimeParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+": expected RFC3339 timestamp")
		return nil, false
	}
	return &t, true
}
