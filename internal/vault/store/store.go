package store

import (
	"context"
	"errors"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrTokenUsed and ErrTokenExpired classify a failed conditional
	// consumption of a transaction token.
	ErrTokenUsed    = errors.New("store: transaction token already used")
	ErrTokenExpired = errors.New("store: transaction token expired")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Clients() Clients
	AccessTokens() AccessTokens
	TransactionTokens() TransactionTokens
	Transactions() Transactions
	RequestLogs() RequestLogs

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step mutations that must be atomic
	// (e.g. token consumption plus ledger update).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	// GetClientByClientID fetches a client by its public client_id.
	GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error)

	// GetClientByID fetches a client by its internal record id.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// ListClientsByOwner returns an owner's clients, newest first.
	ListClientsByOwner(ctx context.Context, ownerID string) ([]domain.Client, error)

	// CreateClient inserts a new client (ids are provided by the app).
	CreateClient(ctx context.Context, c domain.Client) error

	// UpdateClient mutates name, scope, and the active flag.
	UpdateClient(ctx context.Context, id string, name string, scope domain.Scope, active bool) error

	// DeleteClient removes a client owned by ownerID.
	DeleteClient(ctx context.Context, id, ownerID string) error

	// TouchClientActivity bumps last_activity for the client.
	TouchClientActivity(ctx context.Context, clientID string, at time.Time) error

	// CountActiveClients returns the number of active clients.
	CountActiveClients(ctx context.Context) (int, error)
}

// AccessTokens is the append-only issuance audit trail. Nothing here is
// ever read back on the verification path.
type AccessTokens interface {
	// CreateAccessToken records an issuance.
	CreateAccessToken(ctx context.Context, t domain.AccessTokenRecord) error

	// DeleteExpiredAccessTokens prunes audit rows whose tokens expired
	// before the cutoff. Housekeeping only. Returns the rows removed.
	DeleteExpiredAccessTokens(ctx context.Context, before time.Time) (int64, error)
}

type TransactionTokens interface {
	// CreateTransactionToken stores a freshly minted single-use token.
	CreateTransactionToken(ctx context.Context, t domain.TransactionToken) error

	// GetTransactionToken fetches a token by its opaque value.
	GetTransactionToken(ctx context.Context, token string) (domain.TransactionToken, error)

	// ConsumeTransactionToken marks the token used at usedAt. The
	// used/expiry check and the mark-as-used write are a single guarded
	// UPDATE so that concurrent redeemers of the same token cannot both
	// succeed. Returns ErrNotFound, ErrTokenUsed or ErrTokenExpired on
	// failure; an expired token is never marked used.
	ConsumeTransactionToken(ctx context.Context, token string, usedAt time.Time) error
}

type Transactions interface {
	// CreateTransaction inserts the ledger record paired with a token.
	CreateTransaction(ctx context.Context, t domain.Transaction) error

	// GetTransactionByToken fetches the ledger record for a token.
	GetTransactionByToken(ctx context.Context, transactionToken string) (domain.Transaction, error)

	// MarkTransactionValidated flips the record to validated and stamps
	// the executor client and completion time.
	MarkTransactionValidated(ctx context.Context, transactionToken, executorClientID string, at time.Time) error

	// ListRecentTransactions returns an owner's transactions, newest
	// first, capped at limit.
	ListRecentTransactions(ctx context.Context, ownerID string, limit int) ([]domain.Transaction, error)

	// CountTransactionsSince returns total and validated counts since the
	// cutoff. Feeds the dashboard stats.
	CountTransactionsSince(ctx context.Context, since time.Time) (total, validated int, err error)
}

type RequestLogs interface {
	// CreateRequestLog appends one audit entry.
	CreateRequestLog(ctx context.Context, l domain.RequestLog) error

	// AverageResponseTimeSince returns the mean response time in ms over
	// entries since the cutoff. Zero when there are none.
	AverageResponseTimeSince(ctx context.Context, since time.Time) (float64, error)

	// DeleteRequestLogsBefore prunes aged entries. Housekeeping only.
	// Returns the rows removed.
	DeleteRequestLogsBefore(ctx context.Context, before time.Time) (int64, error)
}
