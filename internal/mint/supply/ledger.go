// Package supply enforces issuance caps over models.Ledger counters.
//
// Every check runs against the prospective totals (current + quantity) and
// all checks complete before any counter moves.
package supply

import (
	"math"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

// Limits are the caps applying to one reservation. Zero disables a cap,
// except MaxTotalSupply which always applies.
type Limits struct {
	MaxTotalSupply    uint64
	GlobalWalletLimit uint64
	MaxStageSupply    uint64
	StageWalletLimit  uint64
}

// LimitsFor derives the caps for a stage mint. walletOverride, when non-zero,
// replaces the stage wallet limit on allowlisted variable-limit stages.
func LimitsFor(cfg models.Config, st models.Stage, walletOverride uint32) Limits {
	walletLimit := uint64(st.WalletLimit)
	if st.VariableWalletLimit && !st.IsPublic() && walletOverride > 0 {
		walletLimit = uint64(walletOverride)
	}
	return Limits{
		MaxTotalSupply:    cfg.MaxTotalSupply,
		GlobalWalletLimit: cfg.GlobalWalletLimit,
		MaxStageSupply:    st.MaxStageSupply,
		StageWalletLimit:  walletLimit,
	}
}

// Check reports the first cap the reservation would violate, in the order
// total supply, stage supply, wallet global, wallet in stage.
func Check(l *models.Ledger, stage int, wallet common.Address, quantity uint64, lim Limits) error {
	counters, err := stageCounters(l, stage)
	if err != nil {
		return err
	}
	if exceeds(l.TotalMinted, quantity, lim.MaxTotalSupply) {
		return models.ErrGlobalSupplyExceeded
	}
	if lim.MaxStageSupply != 0 && exceeds(counters.Minted, quantity, lim.MaxStageSupply) {
		return models.ErrStageSupplyExceeded
	}
	if lim.GlobalWalletLimit != 0 && exceeds(l.Wallets[wallet], quantity, lim.GlobalWalletLimit) {
		return models.ErrWalletLimitExceeded
	}
	if lim.StageWalletLimit != 0 && exceeds(counters.Wallets[wallet], quantity, lim.StageWalletLimit) {
		return models.ErrStageWalletLimitExceeded
	}
	return nil
}

// Reserve checks every cap and then increments all four counters together.
func Reserve(l *models.Ledger, stage int, wallet common.Address, quantity uint64, lim Limits) error {
	if quantity == 0 {
		return models.ErrInvalidQuantity
	}
	if err := Check(l, stage, wallet, quantity, lim); err != nil {
		return err
	}
	counters := &l.Stages[stage]
	l.TotalMinted += quantity
	counters.Minted += quantity
	l.Wallets[wallet] += quantity
	counters.Wallets[wallet] += quantity
	return nil
}

// Release undoes a Reserve whose external mint failed. Counters never go
// below zero.
func Release(l *models.Ledger, stage int, wallet common.Address, quantity uint64) {
	l.TotalMinted = sub(l.TotalMinted, quantity)
	decrement(l.Wallets, wallet, quantity)
	if stage >= 0 && stage < len(l.Stages) {
		counters := &l.Stages[stage]
		counters.Minted = sub(counters.Minted, quantity)
		decrement(counters.Wallets, wallet, quantity)
	}
}

// decrement lowers a wallet counter and drops the entry at zero, so a
// released reservation leaves the ledger as it was before Reserve.
func decrement(counts map[common.Address]uint64, wallet common.Address, quantity uint64) {
	if counts == nil {
		return
	}
	if next := sub(counts[wallet], quantity); next > 0 {
		counts[wallet] = next
		return
	}
	delete(counts, wallet)
}

// ReserveUnstaged is the owner mint path: only the total supply cap
// applies and only the total counter moves.
func ReserveUnstaged(l *models.Ledger, quantity, maxTotalSupply uint64) error {
	if quantity == 0 {
		return models.ErrInvalidQuantity
	}
	if exceeds(l.TotalMinted, quantity, maxTotalSupply) {
		return models.ErrGlobalSupplyExceeded
	}
	l.TotalMinted += quantity
	return nil
}

// ReleaseUnstaged undoes ReserveUnstaged.
func ReleaseUnstaged(l *models.Ledger, quantity uint64) {
	l.TotalMinted = sub(l.TotalMinted, quantity)
}

// StageMinted returns the issued count for a stage.
func StageMinted(l *models.Ledger, stage int) uint64 {
	if stage < 0 || stage >= len(l.Stages) {
		return 0
	}
	return l.Stages[stage].Minted
}

// WalletStageMinted returns a wallet's issued count within a stage.
func WalletStageMinted(l *models.Ledger, stage int, wallet common.Address) uint64 {
	if stage < 0 || stage >= len(l.Stages) {
		return 0
	}
	return l.Stages[stage].Wallets[wallet]
}

// WalletMinted returns a wallet's issued count across stages.
func WalletMinted(l *models.Ledger, wallet common.Address) uint64 {
	return l.Wallets[wallet]
}

func stageCounters(l *models.Ledger, stage int) (*models.StageCounters, error) {
	if stage < 0 || stage >= len(l.Stages) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "stage counters out of range")
	}
	if l.Stages[stage].Wallets == nil {
		l.Stages[stage].Wallets = make(map[common.Address]uint64)
	}
	if l.Wallets == nil {
		l.Wallets = make(map[common.Address]uint64)
	}
	return &l.Stages[stage], nil
}

// exceeds reports current+quantity > limit without overflowing.
func exceeds(current, quantity, limit uint64) bool {
	if quantity > math.MaxUint64-current {
		return true
	}
	return current+quantity > limit
}

func sub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
