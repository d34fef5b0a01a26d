package domain

import (
	"errors"
	"time"
)

// Scope is the single capability tag a client holds. Exactly one per
// client, fixed at registration.
type Scope string

const (
	// ScopeInitiate permits creating transaction tokens.
	ScopeInitiate Scope = "initiate_transaction"
	// ScopeExecute permits redeeming transaction tokens.
	ScopeExecute Scope = "execute_transaction"
)

var ErrInvalidScope = errors.New("domain: invalid scope")

// ParseScope validates s against the closed set of scopes. Anything else is
// rejected at the boundary so invalid scopes can't travel further in.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeInitiate, ScopeExecute:
		return Scope(s), nil
	default:
		return "", ErrInvalidScope
	}
}

func (s Scope) String() string { return string(s) }

// Client is a registered machine client. The secret is stored hashed; the
// plaintext is only ever returned once, at creation.
type Client struct {
	ID           string
	ClientID     string // public identifier presented on the wire
	SecretHash   string
	Name         string
	Scope        Scope
	Active       bool
	OwnerID      string // principal that registered the client
	CreatedAt    time.Time
	LastActivity *time.Time
}
