package handlers

import (
	"errors"
	"net/http"
	"time"

	"task-management-system/backend/internal/middleware"
	"task-management-system/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth     services.AuthService
	tokenTTL time.Duration
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func NewAuthHandler(auth services.AuthService, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL == 0 {
		tokenTTL = time.Hour
	}
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL}
}

// Login authenticates the user and returns the token both in the body
// and as an HttpOnly cookie, so browser and API clients work alike.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request format",
		})
		return
	}

	user, err := h.auth.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_credentials",
				"message": "Invalid username or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "login_failed",
			"message": "Failed to process login",
		})
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "token_generation_failed",
			"message": "Failed to generate authentication token",
		})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthTokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

// Logout clears the auth cookie. Tokens already issued stay valid until
// they expire; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthTokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
