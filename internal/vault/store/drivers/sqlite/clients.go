package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/store"
)

type clientsRepo struct {
	db dbtx
}

const clientColumns = `id, client_id, secret_hash, name, scope, active, owner_id, created_at, last_activity`

func (r *clientsRepo) GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE client_id = ?`, clientID)
	return scanClient(row)
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

func (r *clientsRepo) ListClientsByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, client_id, secret_hash, name, scope, active, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ClientID, c.SecretHash, c.Name, string(c.Scope), c.Active, c.OwnerID, c.CreatedAt,
	)
	return err
}

func (r *clientsRepo) UpdateClient(
	ctx context.Context,
	id string,
	name string,
	scope domain.Scope,
	active bool,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, scope = ?, active = ? WHERE id = ?`,
		name, string(scope), active, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *clientsRepo) DeleteClient(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM clients WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *clientsRepo) TouchClientActivity(ctx context.Context, clientID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET last_activity = ? WHERE client_id = ?`, at, clientID)
	return err
}

func (r *clientsRepo) CountActiveClients(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE active = 1`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c            domain.Client
		scope        string
		lastActivity sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &c.SecretHash, &c.Name, &scope,
		&c.Active, &c.OwnerID, &c.CreatedAt, &lastActivity,
	)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	c.Scope = domain.Scope(scope)
	c.LastActivity = mapNullTimePtr(lastActivity)
	return c, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
