package sqlite

import (
	"context"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
)

type accessTokensRepo struct {
	db dbtx
}

func (r *accessTokensRepo) CreateAccessToken(ctx context.Context, t domain.AccessTokenRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_tokens (id, fingerprint, client_id, scope, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Fingerprint, t.ClientID, string(t.Scope), t.ExpiresAt, t.CreatedAt,
	)
	return err
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM access_tokens WHERE expires_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
