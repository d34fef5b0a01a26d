package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/store"
)

type transactionTokensRepo struct {
	db dbtx
}

func (r *transactionTokensRepo) CreateTransactionToken(ctx context.Context, t domain.TransactionToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transaction_tokens (id, token, client_id, is_used, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Token, t.ClientID, t.Used, t.ExpiresAt, t.CreatedAt,
	)
	return err
}

func (r *transactionTokensRepo) GetTransactionToken(ctx context.Context, token string) (domain.TransactionToken, error) {
	var (
		t      domain.TransactionToken
		usedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, client_id, is_used, expires_at, created_at, used_at
		 FROM transaction_tokens WHERE token = ?`, token,
	).Scan(&t.ID, &t.Token, &t.ClientID, &t.Used, &t.ExpiresAt, &t.CreatedAt, &usedAt)
	if err != nil {
		return domain.TransactionToken{}, mapNotFound(err)
	}
	t.UsedAt = mapNullTimePtr(usedAt)
	return t, nil
}

// ConsumeTransactionToken flips is_used in one guarded UPDATE. The guard is
// the whole point: the used/expiry check and the write are indivisible, so
// concurrent redeemers of the same token get exactly one success.
func (r *transactionTokensRepo) ConsumeTransactionToken(ctx context.Context, token string, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transaction_tokens
		 SET is_used = 1, used_at = ?
		 WHERE token = ? AND is_used = 0 AND expires_at >= ?`,
		usedAt, token, usedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// The guard didn't match. Classify why for the caller.
	var (
		used      bool
		expiresAt time.Time
	)
	err = r.db.QueryRowContext(ctx,
		`SELECT is_used, expires_at FROM transaction_tokens WHERE token = ?`, token,
	).Scan(&used, &expiresAt)
	if err != nil {
		return mapNotFound(err)
	}
	if used {
		return store.ErrTokenUsed
	}
	return store.ErrTokenExpired
}
