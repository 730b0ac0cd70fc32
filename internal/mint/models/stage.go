package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	dErrors "mintgate/pkg/domain-errors"
)

// Stage is one time-boxed sale window with its own price, caps and
// eligibility root.
type Stage struct {
	// Price is the unit price in the smallest currency unit.
	Price *big.Int `json:"price"`
	// WalletLimit caps mints per wallet within the stage; 0 defers to the
	// global wallet limit only.
	WalletLimit uint32 `json:"wallet_limit"`
	// MaxStageSupply caps mints within the stage; 0 is unlimited.
	MaxStageSupply uint64 `json:"max_stage_supply"`
	// MerkleRoot commits to the eligible wallets; the zero hash opens the
	// stage to any caller.
	MerkleRoot common.Hash `json:"merkle_root"`
	// VariableWalletLimit makes each allowlist leaf carry its own wallet
	// limit, which replaces WalletLimit for that wallet.
	VariableWalletLimit bool  `json:"variable_wallet_limit,omitempty"`
	StartTime           int64 `json:"start_time"`
	EndTime             int64 `json:"end_time"`
}

// NewStage creates a Stage with domain invariant validation.
func NewStage(price *big.Int, walletLimit uint32, maxStageSupply uint64, root common.Hash, start, end int64) (Stage, error) {
	st := Stage{
		Price:          price,
		WalletLimit:    walletLimit,
		MaxStageSupply: maxStageSupply,
		MerkleRoot:     root,
		StartTime:      start,
		EndTime:        end,
	}
	if err := st.Validate(); err != nil {
		return Stage{}, err
	}
	return st, nil
}

// Validate checks the stage invariants.
func (s Stage) Validate() error {
	if s.Price != nil && s.Price.Sign() < 0 {
		return dErrors.New(dErrors.CodeValidation, "stage price cannot be negative")
	}
	if s.StartTime >= s.EndTime {
		return ErrInvalidStageWindow
	}
	return nil
}

// Contains reports whether now falls in [StartTime, EndTime).
func (s Stage) Contains(now int64) bool {
	return s.StartTime <= now && now < s.EndTime
}

// HasOpened reports whether the stage window has started at now.
func (s Stage) HasOpened(now int64) bool {
	return s.StartTime <= now
}

// IsPublic reports whether the stage requires no allowlist proof.
func (s Stage) IsPublic() bool {
	return s.MerkleRoot == (common.Hash{})
}

// UnitPrice returns the price, treating nil as free.
func (s Stage) UnitPrice() *big.Int {
	if s.Price == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.Price)
}

// RequiredPayment returns price * quantity.
func (s Stage) RequiredPayment(quantity uint64) *big.Int {
	return new(big.Int).Mul(s.UnitPrice(), new(big.Int).SetUint64(quantity))
}

func (s Stage) String() string {
	return fmt.Sprintf("stage[%d,%d) price=%s", s.StartTime, s.EndTime, s.UnitPrice())
}

// Clone returns a copy that shares no big.Int with s.
func (s Stage) Clone() Stage {
	c := s
	if s.Price != nil {
		c.Price = new(big.Int).Set(s.Price)
	}
	return c
}

// StageInfo is the read model for one stage and one wallet's progress in it.
type StageInfo struct {
	Index        int    `json:"index"`
	Stage        Stage  `json:"stage"`
	StageMinted  uint64 `json:"stage_minted"`
	WalletMinted uint64 `json:"wallet_minted"`
}
