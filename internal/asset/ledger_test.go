package asset

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

type gateFunc func(ctx context.Context) error

func (f gateFunc) CheckTransfer(ctx context.Context) error { return f(ctx) }

type LedgerSuite struct {
	suite.Suite
	ctx    context.Context
	ledger *Ledger
	paused bool
	alice  common.Address
	bob    common.Address
	carol  common.Address
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.paused = false
	s.ledger = New(WithGate(gateFunc(func(context.Context) error {
		if s.paused {
			return models.ErrPaused
		}
		return nil
	})))
	s.alice = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	s.bob = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	s.carol = common.HexToAddress("0x00000000000000000000000000000000000ca201")
}

// =============================================================================
// Mint
// =============================================================================

func (s *LedgerSuite) TestMint() {
	s.Run("assigns sequential ids from zero", func() {
		r1, err := s.ledger.Mint(s.ctx, s.alice, 3)
		s.Require().NoError(err)
		s.Equal(models.TokenRange{First: 0, Count: 3}, r1)

		r2, err := s.ledger.Mint(s.ctx, s.bob, 2)
		s.Require().NoError(err)
		s.Equal(models.TokenRange{First: 3, Count: 2}, r2)

		owner, err := s.ledger.OwnerOf(s.ctx, 4)
		s.Require().NoError(err)
		s.Equal(s.bob, owner)

		bal, err := s.ledger.BalanceOf(s.ctx, s.alice)
		s.Require().NoError(err)
		s.Equal(uint64(3), bal)
		s.Equal(uint64(5), s.ledger.TotalSupply(s.ctx))
	})

	s.Run("is never gated", func() {
		s.SetupTest()
		s.paused = true
		_, err := s.ledger.Mint(s.ctx, s.alice, 1)
		s.NoError(err)
	})

	s.Run("rejected by receiver undoes the whole mint", func() {
		s.SetupTest()
		s.ledger.RegisterReceiver(s.carol, ReceiverFunc(func(_ context.Context, _, _ common.Address, id uint64, _ []byte) error {
			if id == 1 {
				return errors.New("no thanks")
			}
			return nil
		}))
		_, err := s.ledger.Mint(s.ctx, s.carol, 3)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(uint64(0), s.ledger.TotalSupply(s.ctx))

		r, err := s.ledger.Mint(s.ctx, s.alice, 1)
		s.Require().NoError(err)
		s.Equal(uint64(3), r.First, "ids of the undone mint are burned")
	})

	s.Run("resumes from a persisted mark", func() {
		s.ledger = New(WithNextTokenID(7))
		r, err := s.ledger.Mint(s.ctx, s.alice, 2)
		s.Require().NoError(err)
		s.Equal(models.TokenRange{First: 7, Count: 2}, r)
		s.Equal(uint64(9), s.ledger.NextTokenID())

		_, err = s.ledger.OwnerOf(s.ctx, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("zero address recipient", func() {
		_, err := s.ledger.Mint(s.ctx, common.Address{}, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Transfers
// =============================================================================

func (s *LedgerSuite) TestTransferFrom() {
	s.Run("owner transfers", func() {
		s.SetupTest()
		_, _ = s.ledger.Mint(s.ctx, s.alice, 1)
		s.Require().NoError(s.ledger.TransferFrom(s.ctx, s.alice, s.alice, s.bob, 0))
		owner, _ := s.ledger.OwnerOf(s.ctx, 0)
		s.Equal(s.bob, owner)
	})

	s.Run("paused gate blocks every transfer variant", func() {
		s.SetupTest()
		_, _ = s.ledger.Mint(s.ctx, s.alice, 1)
		s.paused = true

		s.ErrorIs(s.ledger.TransferFrom(s.ctx, s.alice, s.alice, s.bob, 0), models.ErrPaused)
		s.ErrorIs(s.ledger.SafeTransferFrom(s.ctx, s.alice, s.alice, s.bob, 0, nil), models.ErrPaused)
		s.ErrorIs(s.ledger.SafeTransferFrom(s.ctx, s.alice, s.alice, s.bob, 0, []byte("memo")), models.ErrPaused)

		owner, _ := s.ledger.OwnerOf(s.ctx, 0)
		s.Equal(s.alice, owner)

		s.paused = false
		s.NoError(s.ledger.TransferFrom(s.ctx, s.alice, s.alice, s.bob, 0))
	})

	s.Run("approved address may transfer once", func() {
		s.SetupTest()
		_, _ = s.ledger.Mint(s.ctx, s.alice, 1)
		s.Require().NoError(s.ledger.Approve(s.ctx, s.alice, s.carol, 0))
		s.Require().NoError(s.ledger.TransferFrom(s.ctx, s.carol, s.alice, s.bob, 0))

		approved, err := s.ledger.GetApproved(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal(common.Address{}, approved)
	})

	s.Run("operator may transfer", func() {
		s.SetupTest()
		_, _ = s.ledger.Mint(s.ctx, s.alice, 2)
		s.Require().NoError(s.ledger.SetApprovalForAll(s.ctx, s.alice, s.carol, true))
		s.True(s.ledger.IsApprovedForAll(s.ctx, s.alice, s.carol))
		s.NoError(s.ledger.TransferFrom(s.ctx, s.carol, s.alice, s.bob, 1))
	})

	s.Run("stranger is forbidden", func() {
		s.SetupTest()
		_, _ = s.ledger.Mint(s.ctx, s.alice, 1)
		err := s.ledger.TransferFrom(s.ctx, s.carol, s.alice, s.bob, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown token", func() {
		s.SetupTest()
		err := s.ledger.TransferFrom(s.ctx, s.alice, s.alice, s.bob, 9)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("safe transfer reverts when receiver rejects", func() {
		s.SetupTest()
		_, _ = s.ledger.Mint(s.ctx, s.alice, 1)
		var gotData []byte
		s.ledger.RegisterReceiver(s.carol, ReceiverFunc(func(_ context.Context, _, _ common.Address, _ uint64, data []byte) error {
			gotData = data
			return errors.New("rejected")
		}))
		err := s.ledger.SafeTransferFrom(s.ctx, s.alice, s.alice, s.carol, 0, []byte("hi"))
		s.Require().Error(err)
		s.Equal([]byte("hi"), gotData)

		owner, _ := s.ledger.OwnerOf(s.ctx, 0)
		s.Equal(s.alice, owner)
		bal, _ := s.ledger.BalanceOf(s.ctx, s.carol)
		s.Equal(uint64(0), bal)
	})
}
