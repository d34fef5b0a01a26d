package domain

import "time"

// TransactionStatus is the lifecycle state of one handoff attempt.
type TransactionStatus string

const (
	// StatusInitiated is set when the transaction token is created.
	StatusInitiated TransactionStatus = "initiated"
	// StatusValidated is set when the token is successfully consumed.
	StatusValidated TransactionStatus = "validated"

	// StatusCompleted and StatusFailed are reserved for a downstream
	// business layer. No code path here transitions into them.
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction records one attempted handoff between an initiator and an
// executor, keyed by the transaction token that carried it.
type Transaction struct {
	ID                string
	TransactionToken  string
	InitiatorClientID string
	ExecutorClientID  *string // nil until validation
	Status            TransactionStatus
	CreatedAt         time.Time
	CompletedAt       *time.Time
}
