package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
)

type transactionsRepo struct {
	db dbtx
}

const transactionColumns = `id, transaction_token, initiator_client_id, executor_client_id, status, created_at, completed_at`

func (r *transactionsRepo) CreateTransaction(ctx context.Context, t domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, transaction_token, initiator_client_id, executor_client_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.TransactionToken, t.InitiatorClientID, mapOptionalString(t.ExecutorClientID),
		string(t.Status), t.CreatedAt,
	)
	return err
}

func (r *transactionsRepo) GetTransactionByToken(ctx context.Context, transactionToken string) (domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_token = ?`,
		transactionToken)
	return scanTransaction(row)
}

func (r *transactionsRepo) MarkTransactionValidated(
	ctx context.Context,
	transactionToken, executorClientID string,
	at time.Time,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET status = ?, executor_client_id = ?, completed_at = ?
		 WHERE transaction_token = ?`,
		string(domain.StatusValidated), executorClientID, at, transactionToken,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *transactionsRepo) ListRecentTransactions(ctx context.Context, ownerID string, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.transaction_token, t.initiator_client_id, t.executor_client_id, t.status, t.created_at, t.completed_at
		 FROM transactions t
		 JOIN clients c ON c.client_id = t.initiator_client_id
		 WHERE c.owner_id = ?
		 ORDER BY t.created_at DESC
		 LIMIT ?`,
		ownerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *transactionsRepo) CountTransactionsSince(ctx context.Context, since time.Time) (int, int, error) {
	var total, validated int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'validated' THEN 1 ELSE 0 END), 0)
		 FROM transactions WHERE created_at >= ?`, since,
	).Scan(&total, &validated)
	return total, validated, err
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		t           domain.Transaction
		executor    sql.NullString
		status      string
		completedAt sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.TransactionToken, &t.InitiatorClientID,
		&executor, &status, &t.CreatedAt, &completedAt,
	)
	if err != nil {
		return domain.Transaction{}, mapNotFound(err)
	}
	t.ExecutorClientID = mapNullStringPtr(executor)
	t.Status = domain.TransactionStatus(status)
	t.CompletedAt = mapNullTimePtr(completedAt)
	return t, nil
}
