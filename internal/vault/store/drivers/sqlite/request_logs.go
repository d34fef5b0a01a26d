package sqlite

import (
	"context"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
)

type requestLogsRepo struct {
	db dbtx
}

func (r *requestLogsRepo) CreateRequestLog(ctx context.Context, l domain.RequestLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO request_logs (id, endpoint, method, client_id, status_code, response_time_ms, user_agent, ip_address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Endpoint, l.Method, mapStringNull(l.ClientID), l.StatusCode,
		l.ResponseTimeMS, mapStringNull(l.UserAgent), mapStringNull(l.IPAddress), l.CreatedAt,
	)
	return err
}

func (r *requestLogsRepo) AverageResponseTimeSince(ctx context.Context, since time.Time) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(response_time_ms), 0) FROM request_logs WHERE created_at >= ?`,
		since,
	).Scan(&avg)
	return avg, err
}

func (r *requestLogsRepo) DeleteRequestLogsBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM request_logs WHERE created_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
