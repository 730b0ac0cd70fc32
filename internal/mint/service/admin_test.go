package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/audit"
)

// =============================================================================
// Access control
// =============================================================================

func (s *ServiceSuite) TestAdmin_RequiresOwner() {
	ctx := s.at(baseTime)
	ops := map[string]func() error{
		"replace stages": func() error { return s.service.ReplaceStages(ctx, s.stranger, []models.Stage{s.publicStage()}) },
		"set minting":    func() error { return s.service.SetMintingEnabled(ctx, s.stranger, true) },
		"pause":          func() error { return s.service.Pause(ctx, s.stranger) },
		"unpause":        func() error { return s.service.Unpause(ctx, s.stranger) },
		"set cosigner":   func() error { return s.service.SetCosigner(ctx, s.stranger, s.stranger) },
		"set expiry":     func() error { return s.service.SetSignatureExpiry(ctx, s.stranger, 60) },
		"wallet limit":   func() error { return s.service.SetGlobalWalletLimit(ctx, s.stranger, 1) },
		"owner mint": func() error {
			_, err := s.service.OwnerMint(ctx, s.stranger, s.stranger, 1)
			return err
		},
		"owner mint to zero address": func() error {
			_, err := s.service.OwnerMint(ctx, s.stranger, common.Address{}, 1)
			return err
		},
		"withdraw": func() error {
			_, err := s.service.Withdraw(ctx, s.stranger)
			return err
		},
		"transfer ownership": func() error { return s.service.TransferOwnership(ctx, s.stranger, s.stranger) },
	}
	for name, op := range ops {
		s.Run(name, func() {
			before := s.snapshot()
			s.ErrorIs(op(), models.ErrNotOwner)
			s.Equal(before, s.snapshot())
		})
	}
	s.Contains(s.auditActions(), string(audit.EventAdminDenied))
}

func (s *ServiceSuite) TestAdmin_TransferOwnership() {
	ctx := s.at(baseTime)

	s.ErrorIs(s.service.TransferOwnership(ctx, s.owner, common.Address{}), models.ErrInvalidOwner)

	s.Require().NoError(s.service.TransferOwnership(ctx, s.owner, s.receiver))
	owner, err := s.service.Owner(ctx)
	s.Require().NoError(err)
	s.Equal(s.receiver, owner)

	s.ErrorIs(s.service.Pause(ctx, s.owner), models.ErrNotOwner)
	s.NoError(s.service.Pause(ctx, s.receiver))
}

// =============================================================================
// Stage replacement
// =============================================================================

func (s *ServiceSuite) TestAdmin_ReplaceStages() {
	s.Run("resets stage counters before any stage opens", func() {
		s.openSale(s.publicStage(), s.publicStage())
		stages, err := s.service.Stages(s.at(baseTime))
		s.Require().NoError(err)
		s.Len(stages, 2)

		s.Require().NoError(s.service.ReplaceStages(s.at(baseTime), s.owner, []models.Stage{s.publicStage()}))
		stages, err = s.service.Stages(s.at(baseTime))
		s.Require().NoError(err)
		s.Len(stages, 1)
	})

	s.Run("refused once a stage has opened", func() {
		s.SetupTest()
		s.openSale(s.publicStage())
		err := s.service.ReplaceStages(s.at(stageStart), s.owner, []models.Stage{s.publicStage()})
		s.ErrorIs(err, models.ErrMintingInProgress)

		err = s.service.ReplaceStages(s.at(stageEnd+1), s.owner, nil)
		s.ErrorIs(err, models.ErrMintingInProgress, "also after the sale has closed")
	})

	s.Run("invalid window", func() {
		s.SetupTest()
		bad := s.publicStage()
		bad.EndTime = bad.StartTime
		err := s.service.ReplaceStages(s.at(baseTime), s.owner, []models.Stage{bad})
		reason, ok := models.ReasonOf(err)
		s.True(ok)
		s.Equal(models.ReasonInvalidStageWindow, reason)
	})

	s.Run("stage lookups", func() {
		s.SetupTest()
		s.openSale(s.publicStage())
		_, err := s.service.StageInfo(s.at(baseTime), 3, s.buyer)
		s.Error(err)
		_, err = s.service.ActiveStage(s.at(baseTime), baseTime)
		s.ErrorIs(err, models.ErrStageNotActive)
	})
}

// =============================================================================
// Transfer gate
// =============================================================================

func (s *ServiceSuite) TestGate_PauseStateMachine() {
	ctx := s.at(baseTime)

	s.ErrorIs(s.service.Unpause(ctx, s.owner), models.ErrNotPaused)
	s.NoError(s.service.CheckTransfer(ctx))

	s.Require().NoError(s.service.Pause(ctx, s.owner))
	s.ErrorIs(s.service.Pause(ctx, s.owner), models.ErrPaused)
	s.ErrorIs(s.service.CheckTransfer(ctx), models.ErrPaused)

	summary, err := s.service.Supply(ctx)
	s.Require().NoError(err)
	s.True(summary.Paused)

	s.Require().NoError(s.service.Unpause(ctx, s.owner))
	s.NoError(s.service.CheckTransfer(ctx))

	actions := s.auditActions()
	s.Contains(actions, string(audit.EventTransfersPaused))
	s.Contains(actions, string(audit.EventTransfersUnpaused))
}

// =============================================================================
// Configuration and treasury
// =============================================================================

func (s *ServiceSuite) TestAdmin_Config() {
	ctx := s.at(baseTime)

	s.ErrorIs(s.service.SetGlobalWalletLimit(ctx, s.owner, 1001), models.ErrInvalidWalletLimit)
	s.Require().NoError(s.service.SetGlobalWalletLimit(ctx, s.owner, 10))

	s.Require().NoError(s.service.SetSignatureExpiry(ctx, s.owner, 0))
	cfg, err := s.service.Config(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(10), cfg.GlobalWalletLimit)
	s.Equal(uint64(models.DefaultSignatureExpirySeconds), cfg.SignatureExpirySeconds)

	s.Require().NoError(s.service.SetCosigner(ctx, s.owner, s.receiver))
	summary, err := s.service.Supply(ctx)
	s.Require().NoError(err)
	s.True(summary.CosignerEnabled)
	s.Nil(summary.ActiveStage)
}

func (s *ServiceSuite) TestAdmin_Withdraw() {
	s.openSale(s.publicStage())
	_, err := s.service.Mint(s.at(stageStart), models.MintRequest{Caller: s.buyer, Quantity: 4, Payment: eth(3)})
	s.Require().NoError(err)

	amount, err := s.service.Withdraw(s.at(stageStart), s.owner)
	s.Require().NoError(err)
	s.Equal(0, amount.Cmp(eth(2)))

	again, err := s.service.Withdraw(s.at(stageStart), s.owner)
	s.Require().NoError(err)
	s.Equal(0, again.Sign())
}

func (s *ServiceSuite) TestAdmin_OwnerMint() {
	ctx := s.at(baseTime)

	tokens, err := s.service.OwnerMint(ctx, s.owner, s.receiver, 10)
	s.Require().NoError(err, "no stage, minting disabled, no payment")
	s.Equal(models.TokenRange{First: 0, Count: 10}, tokens)

	_, err = s.service.OwnerMint(ctx, s.owner, s.receiver, 991)
	s.ErrorIs(err, models.ErrGlobalSupplyExceeded)

	_, err = s.service.OwnerMint(ctx, s.owner, s.receiver, 0)
	s.ErrorIs(err, models.ErrInvalidQuantity)

	_, err = s.service.OwnerMint(ctx, s.owner, common.Address{}, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	summary, err := s.service.Supply(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(10), summary.TotalMinted)

	minted, err := s.service.TotalMintedByAddress(ctx, s.receiver)
	s.Require().NoError(err)
	s.Equal(uint64(0), minted, "owner mints do not count against wallet limits")
}
