// Package ports defines the interfaces the mint service depends on.
// Adapters live under internal/mint/store and internal/asset.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks StateStore,AssetLedger,AuditPublisher

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/mint/models"
	"mintgate/pkg/platform/audit"
	"mintgate/pkg/requestcontext"
)

// StateStore persists the collection state document.
type StateStore interface {
	// Load returns a private copy of the committed state.
	Load(ctx context.Context) (*models.State, error)

	// RunInTx hands fn a private copy of the state and commits it only when
	// fn returns nil. Concurrent transactions never observe each other's
	// uncommitted changes.
	RunInTx(ctx context.Context, fn func(st *models.State) error) error
}

// AssetLedger is the external ownership ledger that assigns token IDs.
type AssetLedger interface {
	Mint(ctx context.Context, to common.Address, quantity uint64) (models.TokenRange, error)
}

// AuditPublisher emits audit events for governance and security relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogAudit logs an audit event to the structured logger and forwards it to
// the publisher when one is configured. attrs holds slog-style key/value
// pairs; the keys "subject", "stage", "quantity", "amount" and "reason" are
// also copied onto the event.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.AuditEvent, attrs ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	actor := requestcontext.Caller(ctx)
	args := append(attrs, "event", string(event), "log_type", "audit")
	if actor != (common.Address{}) {
		args = append(args, "actor", actor.Hex())
	}

	if logger != nil {
		logger.InfoContext(ctx, string(event), args...)
	}

	if publisher == nil {
		return
	}

	e := audit.Event{
		Category: event.Category(),
		Action:   string(event),
	}
	if actor != (common.Address{}) {
		e.ActorID = actor.Hex()
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		key, _ := attrs[i].(string)
		switch v := attrs[i+1].(type) {
		case string:
			assign(&e, key, v)
		case int:
			if key == "stage" {
				stage := v
				e.Stage = &stage
			}
		case uint64:
			if key == "quantity" {
				e.Quantity = v
			}
		case uint32:
			if key == "quantity" {
				e.Quantity = uint64(v)
			}
		case interface{ String() string }:
			assign(&e, key, v.String())
		}
	}
	if err := publisher.Emit(ctx, e); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to publish audit event", "event", string(event), "error", err)
	}
}

func assign(e *audit.Event, key, value string) {
	switch key {
	case "subject":
		e.Subject = value
	case "amount":
		e.Amount = value
	case "reason":
		e.Reason = value
	}
}
