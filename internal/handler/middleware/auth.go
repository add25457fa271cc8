package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"booking-lifecycle/internal/handler/httperr"
	"booking-lifecycle/internal/pkg/cookie"
	"booking-lifecycle/internal/pkg/errs"
	"booking-lifecycle/internal/pkg/jwt"
	"booking-lifecycle/internal/usecase"
	"booking-lifecycle/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var ErrAccessTokenRequired = errs.New("access token required")

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth validates the marketplace access token and keeps it on the
// request context so gateway calls can forward it.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, ErrAccessTokenRequired, "Access token required", nil)
			return
		}

		caller, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxUserIDKey, caller.UserID)
		c.Set(ctxUserRoleKey, caller.Role)
		c.Request = c.Request.WithContext(jwt.ContextWithToken(c.Request.Context(), token))
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}
	return cookie.GetAccessToken(c)
}

// GetCaller returns the authenticated caller; ok is false outside RequireAuth.
func GetCaller(c *gin.Context) (queries.Caller, bool) {
	userID, ok := c.Get(ctxUserIDKey)
	if !ok {
		return queries.Caller{}, false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return queries.Caller{}, false
	}
	role, _ := c.Get(ctxUserRoleKey)
	roleStr, _ := role.(string)
	return queries.Caller{UserID: id, Role: roleStr}, true
}
