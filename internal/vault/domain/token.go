package domain

import "time"

// AccessTokenGrant is what the token endpoint returns: a signed bearer
// token and its lifetime.
type AccessTokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // seconds until expiry
}

// AccessTokenRecord is the persisted audit trail of an issuance. It is
// append-only and never consulted when verifying a token; verification is a
// stateless signature check.
type AccessTokenRecord struct {
	ID          string
	Fingerprint string // SHA-256 of the token, the raw JWT is not stored
	ClientID    string
	Scope       Scope
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// TransactionToken is a single-use opaque credential representing one
// pending handoff. Used transitions false→true exactly once, ever; the row
// is kept forever afterwards so repeat redemptions can be told apart from
// unknown tokens.
type TransactionToken struct {
	ID        string
	Token     string // opaque UUID presented on the wire
	ClientID  string // initiator the token is bound to
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}
