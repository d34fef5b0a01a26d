package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeAccess is the only token type this service mints. The "type"
// claim exists so a future token kind can't be replayed as an access token.
const TokenTypeAccess = "access_token"

// Claims are the access-token claims. Additive changes only, to preserve
// compatibility with tokens already in flight.
type Claims struct {
	jwt.RegisteredClaims

	// ClientID of the machine client this token was issued to.
	ClientID string `json:"client_id"`

	// Scope is the single capability tag granted ("initiate_transaction"
	// or "execute_transaction").
	Scope string `json:"scope"`

	// TokenType discriminates token kinds, always "access_token" here.
	TokenType string `json:"type"`
}

// NewAccessClaims builds minimally-correct access-token claims.
func NewAccessClaims(
	clientID, scope string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		ClientID:  clientID,
		Scope:     scope,
		TokenType: TokenTypeAccess,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
