package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/quantlab/sandbox-backend-go/pkg/response"
)

// AuthHandler issues the session tokens the sandbox UI uses. This is a
// stub: any non-empty credential pair is accepted.
type AuthHandler struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{secret: []byte(secret), tokenTTL: 24 * time.Hour}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Username and password are required", err)
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
	})

	signed, err := token.SignedString(h.secret)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to sign token", err)
		return
	}

	response.Success(c, gin.H{
		"token":    signed,
		"username": req.Username,
	})
}
