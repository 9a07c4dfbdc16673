package auth

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// TokenMetadata describes the credential a TrustedContext was built from.
type TokenMetadata struct {
	Issuer    string
	ExpiresAt time.Time
	Scopes    []string
}

// TrustedContext is the caller identity handed to the dispatcher.
// It is built once per call at the boundary and never modified afterwards.
type TrustedContext struct {
	ID            uuid.UUID
	Role          Role
	Authenticated bool
	Token         *TokenMetadata
}

func Anonymous() TrustedContext {
	return TrustedContext{}
}

func NewAuthenticated(id uuid.UUID, role Role, token *TokenMetadata) TrustedContext {
	return TrustedContext{
		ID:            id,
		Role:          role,
		Authenticated: true,
		Token:         token,
	}
}

func (tc TrustedContext) HasScope(scope string) bool {
	if tc.Token == nil {
		return false
	}
	return slices.Contains(tc.Token.Scopes, scope)
}

// CanActFor reports whether the caller may operate on a resource owned by ownerID.
func (tc TrustedContext) CanActFor(ownerID uuid.UUID) bool {
	if !tc.Authenticated {
		return false
	}
	return tc.ID == ownerID || tc.Role == RoleAdmin || tc.Role == RoleOperator
}
