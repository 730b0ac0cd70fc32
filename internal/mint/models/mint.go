package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MintRequest is a public mint attempt.
type MintRequest struct {
	Caller   common.Address
	Quantity uint32
	// Proof is the allowlist inclusion path; ignored for public stages.
	Proof [][]byte
	// ProofLimit is the wallet limit committed in the allowlist leaf for
	// stages with VariableWalletLimit.
	ProofLimit uint32
	// Timestamp and Signature are the cosigner authorization.
	Timestamp uint64
	Signature []byte
	// Payment is the tendered amount.
	Payment *big.Int
}

// TokenRange is a contiguous run of token IDs.
type TokenRange struct {
	First uint64 `json:"first"`
	Count uint64 `json:"count"`
}

// Last returns the final token ID in the range.
func (r TokenRange) Last() uint64 {
	if r.Count == 0 {
		return r.First
	}
	return r.First + r.Count - 1
}

// MintReceipt describes a committed mint.
type MintReceipt struct {
	Stage  int        `json:"stage"`
	Tokens TokenRange `json:"tokens"`
	Paid   *big.Int   `json:"paid"`
	Refund *big.Int   `json:"refund"`
}

// SupplySummary is the public view of issuance progress.
type SupplySummary struct {
	MaxTotalSupply    uint64 `json:"max_total_supply"`
	TotalMinted       uint64 `json:"total_minted"`
	GlobalWalletLimit uint64 `json:"global_wallet_limit"`
	MintingEnabled    bool   `json:"minting_enabled"`
	Paused            bool   `json:"paused"`
	ActiveStage       *int   `json:"active_stage,omitempty"`
	CosignerEnabled   bool   `json:"cosigner_enabled"`
}
