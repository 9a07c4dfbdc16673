package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/handler/httperr"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
}

const ctxTrustedContextKey = "trusted_context"

func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth turns a valid bearer token into an auth.TrustedContext on the request.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "Access token required", nil)
			return
		}

		tc, err := m.trustedContext(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.Recode(err, errs.CodeUnauthorized, "invalid token"), "Invalid or expired token", nil)
			return
		}

		c.Set(ctxTrustedContextKey, tc)
		c.Next()
	}
}

// OptionalAuth authenticates when a valid token is present and otherwise leaves the
// caller anonymous.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if tc, err := m.trustedContext(token); err == nil {
				c.Set(ctxTrustedContextKey, tc)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) trustedContext(token string) (auth.TrustedContext, error) {
	claims, err := m.tokenValidator.ValidateToken(token)
	if err != nil {
		return auth.TrustedContext{}, err
	}
	role := auth.Role(claims.Role)
	if !role.IsValid() {
		return auth.TrustedContext{}, jwt.ErrInvalidToken
	}

	meta := &auth.TokenMetadata{Issuer: claims.Issuer, Scopes: claims.Scopes}
	if claims.ExpiresAt != nil {
		meta.ExpiresAt = claims.ExpiresAt.Time
	}
	return auth.NewAuthenticated(claims.UserID, role, meta), nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// GetTrustedContext returns the caller identity, anonymous when none was established.
func GetTrustedContext(c *gin.Context) auth.TrustedContext {
	if v, exists := c.Get(ctxTrustedContextKey); exists {
		if tc, ok := v.(auth.TrustedContext); ok {
			return tc
		}
	}
	return auth.Anonymous()
}
