package supply

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

type LedgerSuite struct {
	suite.Suite
	ledger models.Ledger
	alice  common.Address
	bob    common.Address
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ledger = models.NewLedger(2)
	s.alice = common.HexToAddress("0xa1")
	s.bob = common.HexToAddress("0xb0")
}

func (s *LedgerSuite) TestReserve_CapOrder() {
	lim := Limits{MaxTotalSupply: 10, GlobalWalletLimit: 4, MaxStageSupply: 6, StageWalletLimit: 3}

	s.Run("within every cap", func() {
		s.Require().NoError(Reserve(&s.ledger, 0, s.alice, 3, lim))
		s.Equal(uint64(3), s.ledger.TotalMinted)
		s.Equal(uint64(3), StageMinted(&s.ledger, 0))
		s.Equal(uint64(3), WalletMinted(&s.ledger, s.alice))
		s.Equal(uint64(3), WalletStageMinted(&s.ledger, 0, s.alice))
	})

	s.Run("stage wallet limit", func() {
		s.ErrorIs(Reserve(&s.ledger, 0, s.alice, 1, lim), models.ErrStageWalletLimitExceeded)
	})

	s.Run("global wallet limit is checked before stage wallet limit", func() {
		s.ErrorIs(Reserve(&s.ledger, 0, s.alice, 2, lim), models.ErrWalletLimitExceeded)
	})

	s.Run("stage supply is checked before wallet limits", func() {
		s.Require().NoError(Reserve(&s.ledger, 0, s.bob, 3, lim))
		s.ErrorIs(Reserve(&s.ledger, 0, s.alice, 2, lim), models.ErrStageSupplyExceeded)
	})

	s.Run("total supply is checked first", func() {
		s.ErrorIs(Reserve(&s.ledger, 1, s.alice, 5, lim), models.ErrGlobalSupplyExceeded)
	})

	s.Run("failures leave counters untouched", func() {
		s.Equal(uint64(6), s.ledger.TotalMinted)
		s.Equal(uint64(0), StageMinted(&s.ledger, 1))
	})
}

func (s *LedgerSuite) TestReserve_ZeroDisablesOptionalCaps() {
	lim := Limits{MaxTotalSupply: 100}
	s.Require().NoError(Reserve(&s.ledger, 1, s.alice, 100, lim))
	s.ErrorIs(Reserve(&s.ledger, 1, s.bob, 1, lim), models.ErrGlobalSupplyExceeded)
}

func (s *LedgerSuite) TestReserve_OverflowSafe() {
	lim := Limits{MaxTotalSupply: math.MaxUint64}
	s.Require().NoError(Reserve(&s.ledger, 0, s.alice, math.MaxUint64-1, lim))
	s.ErrorIs(Reserve(&s.ledger, 0, s.alice, 2, lim), models.ErrGlobalSupplyExceeded)
}

func (s *LedgerSuite) TestReserve_InvalidInput() {
	s.ErrorIs(Reserve(&s.ledger, 0, s.alice, 0, Limits{MaxTotalSupply: 1}), models.ErrInvalidQuantity)

	err := Reserve(&s.ledger, 7, s.alice, 1, Limits{MaxTotalSupply: 1})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *LedgerSuite) TestRelease_RestoresPriorLedger() {
	lim := Limits{MaxTotalSupply: 10}
	s.Require().NoError(Reserve(&s.ledger, 0, s.bob, 1, lim))
	before := models.NewLedger(2)
	s.Require().NoError(Reserve(&before, 0, s.bob, 1, lim))

	s.Require().NoError(Reserve(&s.ledger, 0, s.alice, 2, lim))
	Release(&s.ledger, 0, s.alice, 2)
	s.Equal(before, s.ledger)
}

func (s *LedgerSuite) TestUnstaged() {
	s.Require().NoError(ReserveUnstaged(&s.ledger, 5, 5))
	s.ErrorIs(ReserveUnstaged(&s.ledger, 1, 5), models.ErrGlobalSupplyExceeded)
	s.Empty(s.ledger.Wallets)

	ReleaseUnstaged(&s.ledger, 2)
	s.Equal(uint64(3), s.ledger.TotalMinted)
}

func TestLimitsFor(t *testing.T) {
	cfg := models.Config{MaxTotalSupply: 50, GlobalWalletLimit: 5}
	root := common.HexToHash("0x01")

	fixed := models.Stage{WalletLimit: 2, MaxStageSupply: 20, MerkleRoot: root}
	assert.Equal(t, Limits{50, 5, 20, 2}, LimitsFor(cfg, fixed, 9))

	variable := fixed
	variable.VariableWalletLimit = true
	assert.Equal(t, uint64(9), LimitsFor(cfg, variable, 9).StageWalletLimit)
	assert.Equal(t, uint64(2), LimitsFor(cfg, variable, 0).StageWalletLimit)

	public := variable
	public.MerkleRoot = common.Hash{}
	require.Equal(t, uint64(2), LimitsFor(cfg, public, 9).StageWalletLimit, "public stages cannot claim a limit")
}
