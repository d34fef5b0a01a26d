package domain

import "time"

// RequestLog is one entry in the request audit trail. Written
// fire-and-forget; the token core never depends on it.
type RequestLog struct {
	ID             string
	Endpoint       string
	Method         string
	ClientID       string // empty when the caller never authenticated
	StatusCode     int
	ResponseTimeMS int64
	UserAgent      string
	IPAddress      string
	CreatedAt      time.Time
}

// DashboardStats summarises recent activity for the admin surface.
type DashboardStats struct {
	ActiveClients     int     `json:"active_clients"`
	TransactionsToday int     `json:"transactions_today"`
	SuccessRate       float64 `json:"success_rate"`
	AvgResponseMS     float64 `json:"avg_response_ms"`
}
