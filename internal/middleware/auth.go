package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/config"
	"github.com/BruksfildServices01/clinic-records/internal/session"
	"github.com/BruksfildServices01/clinic-records/internal/users"
)

const (
	ContextActor    = "actor"
	ContextTokenID  = "tokenID"
	ContextTokenExp = "tokenExp"
)

// AuthMiddleware authenticates the bearer token and loads the acting user
// fresh from the database, so deactivated accounts lose access immediately
// and role/name changes are never read from a stale token. Everything
// fails closed.
func AuthMiddleware(cfg *config.Config, userStore *users.Store, revoker session.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		sub, ok1 := claims["sub"].(float64)
		tokenID, ok2 := claims["jti"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		revoked, err := revoker.IsRevoked(c.Request.Context(), tokenID)
		if err != nil || revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_revoked"})
			return
		}

		user, err := userStore.FindByID(c.Request.Context(), uint(sub))
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		if !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account_disabled"})
			return
		}

		c.Set(ContextActor, user.Actor())
		c.Set(ContextTokenID, tokenID)
		if exp, ok := claims["exp"].(float64); ok {
			c.Set(ContextTokenExp, int64(exp))
		}

		c.Next()
	}
}

// CurrentActor returns the authenticated actor set by AuthMiddleware.
func CurrentActor(c *gin.Context) authz.Actor {
	return c.MustGet(ContextActor).(authz.Actor)
}
