package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/config"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/models"
	"github.com/BruksfildServices01/clinic-records/internal/session"
	"github.com/BruksfildServices01/clinic-records/internal/users"
)

const tokenLifetime = 24 * time.Hour

type AuthHandler struct {
	users   *users.Store
	config  *config.Config
	revoker session.Revoker
	audit   *audit.Dispatcher
}

func NewAuthHandler(userStore *users.Store, cfg *config.Config, revoker session.Revoker, auditDispatcher *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{
		users:   userStore,
		config:  cfg,
		revoker: revoker,
		audit:   auditDispatcher,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	username := strings.TrimSpace(req.Username)

	user, err := h.users.FindByUsername(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	// Unknown username, wrong password and deactivated account all get
	// the same answer; login must not reveal which one it was.
	if user == nil || !h.users.Verify(user, req.Password) || !user.Active {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_credentials",
			"message": "Invalid username or password.",
		})
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     user.ID,
		Username:   user.Username,
		ActionType: audit.ActionLogin,
		Details:    "User logged in",
	})

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	tokenID := c.MustGet(middleware.ContextTokenID).(string)

	ttl := tokenLifetime
	if expUnix, ok := c.Get(middleware.ContextTokenExp); ok {
		ttl = time.Until(time.Unix(expUnix.(int64), 0))
	}

	if err := h.revoker.Revoke(c.Request.Context(), tokenID, ttl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout_failed"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionLogout,
		Details:    "User logged out",
	})

	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out."})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"jti":  uuid.New().String(),
		"exp":  now.Add(tokenLifetime).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
