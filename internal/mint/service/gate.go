package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/mint/models"
	"mintgate/pkg/platform/audit"
)

// Pause blocks ownership transfers. Minting is unaffected.
func (s *Service) Pause(ctx context.Context, caller common.Address) error {
	err := s.admin(ctx, "pause", caller, func(st *models.State) error {
		if st.Paused {
			return models.ErrPaused
		}
		st.Paused = true
		return nil
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SetPaused(true)
	}
	s.logAudit(ctx, audit.EventTransfersPaused)
	return nil
}

// Unpause lifts the transfer block.
func (s *Service) Unpause(ctx context.Context, caller common.Address) error {
	err := s.admin(ctx, "unpause", caller, func(st *models.State) error {
		if !st.Paused {
			return models.ErrNotPaused
		}
		st.Paused = false
		return nil
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SetPaused(false)
	}
	s.logAudit(ctx, audit.EventTransfersUnpaused)
	return nil
}

// Paused reports the transfer gate state.
func (s *Service) Paused(ctx context.Context) (bool, error) {
	st, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return st.Paused, nil
}

// CheckTransfer is the hook the asset ledger consults before moving a token.
func (s *Service) CheckTransfer(ctx context.Context) error {
	paused, err := s.Paused(ctx)
	if err != nil {
		return err
	}
	if paused {
		s.logAudit(ctx, audit.EventTransferRejected, "reason", models.ReasonPaused)
		return models.ErrPaused
	}
	return nil
}
