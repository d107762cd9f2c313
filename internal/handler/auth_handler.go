package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magicjohnson/simple-bank/internal/middleware"
	"github.com/magicjohnson/simple-bank/internal/models"
)

// UserServicer defines the auth operations used by AuthHandler.
type UserServicer interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthHandler struct {
	users UserServicer
}

func NewAuthHandler(users UserServicer) *AuthHandler {
	return &AuthHandler{users: users}
}

// Email and password presence is checked by the service so that missing
// credentials produce the single "Email and password are required" rejection
// rather than a per-field validation response.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token})
}
