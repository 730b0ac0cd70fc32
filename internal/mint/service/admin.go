package service

import (
	"context"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mintgate/internal/mint/models"
	"mintgate/internal/mint/stage"
	"mintgate/pkg/platform/audit"
	"mintgate/pkg/requestcontext"
)

func requireOwner(st *models.State, caller common.Address) error {
	if !st.IsOwner(caller) {
		return models.ErrNotOwner
	}
	return nil
}

// admin runs an owner-only mutation: serialize, check ownership inside the
// transaction, then apply fn. On success event is audited with attrs.
func (s *Service) admin(ctx context.Context, action string, caller common.Address, fn func(st *models.State) error) error {
	ctx, span := s.tracer.Start(ctx, "mint.admin."+action)
	defer span.End()
	span.SetAttributes(attribute.String("caller", caller.Hex()))

	ctx, release, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = s.store.RunInTx(ctx, func(st *models.State) error {
		if err := requireOwner(st, caller); err != nil {
			return err
		}
		return fn(st)
	})
	if err != nil {
		err = translate(err, "failed to commit "+action)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.adminFailed(ctx, action, caller, err)
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementAdminAction(action, "success")
	}
	return nil
}

func (s *Service) adminFailed(ctx context.Context, action string, caller common.Address, err error) {
	if s.metrics != nil {
		s.metrics.IncrementAdminAction(action, "rejected")
	}
	reason, ok := models.ReasonOf(err)
	if !ok {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "admin operation failed", "action", action, "caller", caller.Hex(), "error", err)
		}
		return
	}
	if reason == models.ReasonNotOwner {
		s.logAudit(ctx, audit.EventAdminDenied,
			"subject", caller.Hex(),
			"action", action,
			"reason", reason,
		)
	}
}

// ReplaceStages swaps the whole stage list. It is refused once any current
// stage has opened.
func (s *Service) ReplaceStages(ctx context.Context, caller common.Address, stages []models.Stage) error {
	now := requestcontext.Now(ctx).Unix()
	err := s.admin(ctx, "replace_stages", caller, func(st *models.State) error {
		return stage.Replace(st, stages, now)
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventStagesReplaced, "stage_count", len(stages))
	return nil
}

// SetMintingEnabled toggles the master switch for public mints.
func (s *Service) SetMintingEnabled(ctx context.Context, caller common.Address, enabled bool) error {
	err := s.admin(ctx, "set_minting", caller, func(st *models.State) error {
		st.Config.MintingEnabled = enabled
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventMintingToggled, "enabled", strconv.FormatBool(enabled))
	return nil
}

// SetCosigner replaces the cosigner. The zero address disables the check.
func (s *Service) SetCosigner(ctx context.Context, caller, cosigner common.Address) error {
	err := s.admin(ctx, "set_cosigner", caller, func(st *models.State) error {
		st.Config.Cosigner = cosigner
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventCosignerUpdated, "subject", cosigner.Hex())
	return nil
}

// SetSignatureExpiry sets how long a cosigner authorization stays valid.
// Zero restores the default.
func (s *Service) SetSignatureExpiry(ctx context.Context, caller common.Address, seconds uint64) error {
	if seconds == 0 {
		seconds = models.DefaultSignatureExpirySeconds
	}
	err := s.admin(ctx, "set_signature_expiry", caller, func(st *models.State) error {
		st.Config.SignatureExpirySeconds = seconds
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventSignatureExpiryUpdated, "seconds", seconds)
	return nil
}

// SetGlobalWalletLimit sets the per-wallet cap across stages. Zero disables
// it; a limit above the max supply is rejected.
func (s *Service) SetGlobalWalletLimit(ctx context.Context, caller common.Address, limit uint64) error {
	err := s.admin(ctx, "set_wallet_limit", caller, func(st *models.State) error {
		if limit > st.Config.MaxTotalSupply {
			return models.ErrInvalidWalletLimit
		}
		st.Config.GlobalWalletLimit = limit
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventWalletLimitUpdated, "limit", limit)
	return nil
}

// Withdraw returns the collected payments and zeroes the treasury.
func (s *Service) Withdraw(ctx context.Context, caller common.Address) (*big.Int, error) {
	var amount *big.Int
	err := s.admin(ctx, "withdraw", caller, func(st *models.State) error {
		amount = new(big.Int).Set(st.Treasury)
		st.Treasury = new(big.Int)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventTreasuryWithdrawn, "subject", caller.Hex(), "amount", amount)
	return amount, nil
}

// TransferOwnership hands the privileged identity to next in one step.
func (s *Service) TransferOwnership(ctx context.Context, caller, next common.Address) error {
	err := s.admin(ctx, "transfer_ownership", caller, func(st *models.State) error {
		if next == (common.Address{}) {
			return models.ErrInvalidOwner
		}
		st.Owner = next
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventOwnershipTransferred, "subject", next.Hex(), "previous", caller.Hex())
	return nil
}
