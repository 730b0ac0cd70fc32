package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// State is everything that must survive across requests for one collection
// instance. Stores persist it as a single document.
type State struct {
	Owner  common.Address `json:"owner"`
	Config Config         `json:"config"`
	Stages []Stage        `json:"stages"`
	Ledger Ledger         `json:"ledger"`
	// Paused is the transfer gate; it never affects minting.
	Paused bool `json:"paused"`
	// Treasury accumulates collected mint payments until withdrawn.
	Treasury *big.Int `json:"treasury"`
}

// NewState builds the construction-time state: no stages, zero counters,
// minting disabled and transfers unpaused.
func NewState(owner common.Address, cfg Config) (*State, error) {
	if owner == (common.Address{}) {
		return nil, ErrInvalidOwner
	}
	cfg.MintingEnabled = false
	return &State{
		Owner:    owner,
		Config:   cfg,
		Stages:   []Stage{},
		Ledger:   NewLedger(0),
		Treasury: new(big.Int),
	}, nil
}

// Clone returns a deep copy so a transaction can mutate it without touching
// the committed state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := &State{
		Owner:  s.Owner,
		Config: s.Config,
		Stages: make([]Stage, len(s.Stages)),
		Ledger: s.Ledger.clone(),
		Paused: s.Paused,
	}
	for i, st := range s.Stages {
		c.Stages[i] = st.Clone()
	}
	if s.Treasury != nil {
		c.Treasury = new(big.Int).Set(s.Treasury)
	} else {
		c.Treasury = new(big.Int)
	}
	return c
}

// Normalize fills nil maps and aligns per-stage counters after decoding.
func (s *State) Normalize() {
	if s.Treasury == nil {
		s.Treasury = new(big.Int)
	}
	if s.Stages == nil {
		s.Stages = []Stage{}
	}
	if s.Ledger.Wallets == nil {
		s.Ledger.Wallets = make(map[common.Address]uint64)
	}
	if s.Ledger.CosignNonces == nil {
		s.Ledger.CosignNonces = make(map[common.Address]uint64)
	}
	for len(s.Ledger.Stages) < len(s.Stages) {
		s.Ledger.Stages = append(s.Ledger.Stages, StageCounters{})
	}
	for i := range s.Ledger.Stages {
		if s.Ledger.Stages[i].Wallets == nil {
			s.Ledger.Stages[i].Wallets = make(map[common.Address]uint64)
		}
	}
}

// IsOwner reports whether caller holds the privileged identity.
func (s *State) IsOwner(caller common.Address) bool {
	return caller == s.Owner
}
