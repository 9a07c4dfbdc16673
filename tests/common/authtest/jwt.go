//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) Service() *jwt.Service {
	return jwt.NewService(h.cfg.Secret, h.cfg.Issuer, h.cfg.Duration, clock.NewRealClock())
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	token, err := h.Service().GenerateToken(userID, string(role), nil)
	require.NoError(t, err)
	return token
}

// CreateExpiredToken signs a token whose expiry is already an hour in the past.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	past := clock.NewMockClock(time.Now().Add(-2 * time.Hour))
	service := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, time.Hour, past)
	token, err := service.GenerateToken(userID, string(role), nil)
	require.NoError(t, err)
	return token
}
