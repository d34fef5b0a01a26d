package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/store"
	"github.com/authvault/authvault/pkg/idx"
	"github.com/authvault/authvault/pkg/slogx"
	"github.com/google/uuid"
)

var (
	ErrUnknownClient            = errors.New("unknown_client")
	ErrNotAuthorizedToInitiate  = errors.New("not_authorized_to_initiate")
	ErrTransactionTokenNotFound = errors.New("transaction_token_not_found")
	ErrTransactionTokenUsed     = errors.New("transaction_token_used")
	ErrTransactionTokenExpired  = errors.New("transaction_token_expired")
)

const (
	// TransactionTTL is the fixed lifetime of a transaction token.
	TransactionTTL = 10 * time.Minute
)

// TransactionService mints and redeems single-use transaction tokens, and
// keeps the transaction ledger alongside them.
type TransactionService struct {
	Store store.Store
}

// ValidationResult is what a successful redemption reports back: the token
// itself and the initiator it was bound to.
type ValidationResult struct {
	TransactionToken  string
	InitiatorClientID string
}

// Initiate mints a single-use transaction token for clientID and records
// the paired ledger entry in state "initiated". The clientID in the request
// body must name an active client registered with the initiate scope; the
// bearer token's own identity was already checked at the HTTP layer.
func (s *TransactionService) Initiate(ctx context.Context, clientID string) (*domain.TransactionToken, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	client, err := s.Store.Clients().GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownClient
		}
		return nil, err
	}
	if !client.Active {
		return nil, ErrClientInactive
	}
	if client.Scope != domain.ScopeInitiate {
		return nil, ErrNotAuthorizedToInitiate
	}

	token := domain.TransactionToken{
		ID:        idx.New().String(),
		Token:     uuid.NewString(),
		ClientID:  client.ClientID,
		Used:      false,
		ExpiresAt: now.Add(TransactionTTL),
		CreatedAt: now,
	}

	ledger := domain.Transaction{
		ID:                idx.New().String(),
		TransactionToken:  token.Token,
		InitiatorClientID: client.ClientID,
		Status:            domain.StatusInitiated,
		CreatedAt:         now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TransactionTokens().CreateTransactionToken(ctx, token); err != nil {
			return err
		}
		return tx.Transactions().CreateTransaction(ctx, ledger)
	})
	if err != nil {
		return nil, err
	}

	if err := s.Store.Clients().TouchClientActivity(ctx, client.ClientID, now); err != nil {
		return nil, err
	}

	l.Info("transaction token issued", slog.String("client_id", client.ClientID))
	return &token, nil
}

// Validate consumes a transaction token. At most one call ever succeeds for
// a given token, regardless of concurrency: the used flag flip is a single
// guarded update at the store layer. An expired token is rejected without
// being marked used, and stays on record so replays after expiry still
// report "expired" rather than "not found".
func (s *TransactionService) Validate(ctx context.Context, transactionToken, executorClientID string) (*ValidationResult, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	var result *ValidationResult

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TransactionTokens().ConsumeTransactionToken(ctx, transactionToken, now); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return ErrTransactionTokenNotFound
			case errors.Is(err, store.ErrTokenUsed):
				return ErrTransactionTokenUsed
			case errors.Is(err, store.ErrTokenExpired):
				return ErrTransactionTokenExpired
			default:
				return err
			}
		}

		if err := tx.Transactions().MarkTransactionValidated(ctx, transactionToken, executorClientID, now); err != nil {
			return err
		}

		token, err := tx.TransactionTokens().GetTransactionToken(ctx, transactionToken)
		if err != nil {
			return err
		}

		result = &ValidationResult{
			TransactionToken:  token.Token,
			InitiatorClientID: token.ClientID,
		}
		return nil
	})
	if err != nil {
		if !isValidationFailure(err) {
			return nil, err
		}
		l.Info("transaction token rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	l.Info("transaction token validated",
		slog.String("initiator_client_id", result.InitiatorClientID),
		slog.String("executor_client_id", executorClientID),
	)
	return result, nil
}

func isValidationFailure(err error) bool {
	return errors.Is(err, ErrTransactionTokenNotFound) ||
		errors.Is(err, ErrTransactionTokenUsed) ||
		errors.Is(err, ErrTransactionTokenExpired)
}
