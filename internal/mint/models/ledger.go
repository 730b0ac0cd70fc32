package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// Ledger holds the issuance counters. All counters are monotonically
// non-decreasing except for compensation of a failed external mint.
type Ledger struct {
	TotalMinted uint64                    `json:"total_minted"`
	Stages      []StageCounters           `json:"stages"`
	Wallets     map[common.Address]uint64 `json:"wallets"`
	// CosignNonces counts consumed cosigner authorizations per wallet.
	CosignNonces map[common.Address]uint64 `json:"cosign_nonces"`
	// TokenIDMark is one past the highest token ID the asset ledger may have
	// assigned. It only grows, so a released reservation burns its IDs.
	TokenIDMark uint64 `json:"token_id_mark"`
}

// StageCounters tracks issuance within one stage.
type StageCounters struct {
	Minted  uint64                    `json:"minted"`
	Wallets map[common.Address]uint64 `json:"wallets"`
}

// NewLedger returns zeroed counters sized for stageCount stages.
func NewLedger(stageCount int) Ledger {
	return Ledger{
		Stages:       newStageCounters(stageCount),
		Wallets:      make(map[common.Address]uint64),
		CosignNonces: make(map[common.Address]uint64),
	}
}

// ResetStages replaces the per-stage counters with zeroed counters for
// stageCount stages.
func (l *Ledger) ResetStages(stageCount int) {
	l.Stages = newStageCounters(stageCount)
}

// NextTokenID is where a freshly started asset ledger must resume issuing.
// Documents written before the mark existed fall back to TotalMinted.
func (l *Ledger) NextTokenID() uint64 {
	return max(l.TokenIDMark, l.TotalMinted)
}

// AdvanceTokenIDs moves the mark past quantity more IDs.
func (l *Ledger) AdvanceTokenIDs(quantity uint64) {
	l.TokenIDMark = l.NextTokenID() + quantity
}

func newStageCounters(n int) []StageCounters {
	out := make([]StageCounters, n)
	for i := range out {
		out[i].Wallets = make(map[common.Address]uint64)
	}
	return out
}

func (l Ledger) clone() Ledger {
	c := Ledger{
		TotalMinted:  l.TotalMinted,
		Stages:       make([]StageCounters, len(l.Stages)),
		Wallets:      copyCounts(l.Wallets),
		CosignNonces: copyCounts(l.CosignNonces),
		TokenIDMark:  l.TokenIDMark,
	}
	for i, sc := range l.Stages {
		c.Stages[i] = StageCounters{Minted: sc.Minted, Wallets: copyCounts(sc.Wallets)}
	}
	return c
}

func copyCounts(m map[common.Address]uint64) map[common.Address]uint64 {
	out := make(map[common.Address]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
