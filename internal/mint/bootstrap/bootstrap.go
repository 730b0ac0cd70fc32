// Package bootstrap reads operator files and builds the construction-time
// state of a collection instance.
package bootstrap

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gopkg.in/yaml.v3"

	"mintgate/internal/mint/allowlist"
	"mintgate/internal/mint/models"
	"mintgate/internal/mint/stage"
)

// StageSpec is one stage as written in a stages file. Price is a decimal
// string in the smallest currency unit.
type StageSpec struct {
	Price               string `yaml:"price"`
	WalletLimit         uint32 `yaml:"wallet_limit"`
	MaxStageSupply      uint64 `yaml:"max_stage_supply"`
	MerkleRoot          string `yaml:"merkle_root"`
	VariableWalletLimit bool   `yaml:"variable_wallet_limit"`
	StartTime           int64  `yaml:"start_time"`
	EndTime             int64  `yaml:"end_time"`
}

// StagesFile is the document shape of a stages file.
type StagesFile struct {
	Stages []StageSpec `yaml:"stages"`
}

// Collection carries the construction parameters of an instance.
type Collection struct {
	Owner                  common.Address
	MaxTotalSupply         uint64
	GlobalWalletLimit      uint64
	Cosigner               common.Address
	SignatureExpirySeconds uint64
	ContractAddress        common.Address
	ChainID                uint64
	Stages                 []models.Stage
}

// ParseStages decodes and validates a stages document.
func ParseStages(data []byte) ([]models.Stage, error) {
	var doc StagesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode stages: %w", err)
	}
	out := make([]models.Stage, 0, len(doc.Stages))
	for i, s := range doc.Stages {
		st, err := s.toModel()
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		out = append(out, st)
	}
	if err := stage.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadStages reads a stages file.
func LoadStages(path string) ([]models.Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stages file: %w", err)
	}
	return ParseStages(data)
}

func (s StageSpec) toModel() (models.Stage, error) {
	price := new(big.Int)
	if raw := strings.TrimSpace(s.Price); raw != "" {
		if _, ok := price.SetString(raw, 10); !ok {
			return models.Stage{}, fmt.Errorf("price %q is not a decimal integer", s.Price)
		}
	}
	var root common.Hash
	if raw := strings.TrimSpace(s.MerkleRoot); raw != "" {
		b, err := hexutil.Decode(raw)
		if err != nil || len(b) != common.HashLength {
			return models.Stage{}, fmt.Errorf("merkle_root %q is not a 32-byte hex value", s.MerkleRoot)
		}
		root = common.BytesToHash(b)
	}
	return models.NewStage(price, s.WalletLimit, s.MaxStageSupply, root, s.StartTime, s.EndTime)
}

// InitialState builds the state a fresh instance starts from, with minting
// disabled and zeroed counters for every stage.
func InitialState(c Collection) (*models.State, error) {
	cfg, err := models.NewConfig(c.MaxTotalSupply, c.GlobalWalletLimit, c.Cosigner, c.SignatureExpirySeconds)
	if err != nil {
		return nil, err
	}
	cfg.ContractAddress = c.ContractAddress
	cfg.ChainID = c.ChainID
	st, err := models.NewState(c.Owner, cfg)
	if err != nil {
		return nil, err
	}
	if err := stage.Validate(c.Stages); err != nil {
		return nil, err
	}
	for _, s := range c.Stages {
		st.Stages = append(st.Stages, s.Clone())
	}
	st.Ledger.ResetStages(len(st.Stages))
	return st, nil
}

// AllowlistEntry is one eligible wallet. Limit is set only for
// variable-limit stages.
type AllowlistEntry struct {
	Address string `yaml:"address"`
	Limit   uint32 `yaml:"limit,omitempty"`
}

// AllowlistFile is the document shape of an allowlist file.
type AllowlistFile struct {
	Variable bool             `yaml:"variable_wallet_limit"`
	Wallets  []AllowlistEntry `yaml:"wallets"`
}

// Allowlist is a parsed allowlist with its Merkle tree.
type Allowlist struct {
	Variable bool
	Entries  map[common.Address]uint32
	Tree     *allowlist.Tree
}

// ParseAllowlist decodes an allowlist document and builds its tree.
func ParseAllowlist(data []byte) (*Allowlist, error) {
	var doc AllowlistFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode allowlist: %w", err)
	}
	entries := make(map[common.Address]uint32, len(doc.Wallets))
	leaves := make([]common.Hash, 0, len(doc.Wallets))
	for i, w := range doc.Wallets {
		if !common.IsHexAddress(w.Address) {
			return nil, fmt.Errorf("wallet %d: %q is not a hex address", i, w.Address)
		}
		addr := common.HexToAddress(w.Address)
		if _, dup := entries[addr]; dup {
			return nil, fmt.Errorf("wallet %d: %s is listed twice", i, addr.Hex())
		}
		if doc.Variable && w.Limit == 0 {
			return nil, fmt.Errorf("wallet %d: limit is required for variable wallet limits", i)
		}
		entries[addr] = w.Limit
		leaves = append(leaves, leafFor(doc.Variable, addr, w.Limit))
	}
	tree, err := allowlist.NewTree(leaves)
	if err != nil {
		return nil, err
	}
	return &Allowlist{Variable: doc.Variable, Entries: entries, Tree: tree}, nil
}

// LoadAllowlist reads an allowlist file.
func LoadAllowlist(path string) (*Allowlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read allowlist file: %w", err)
	}
	return ParseAllowlist(data)
}

// Proof returns the inclusion proof and committed limit for wallet.
func (a *Allowlist) Proof(wallet common.Address) ([][]byte, uint32, error) {
	limit, ok := a.Entries[wallet]
	if !ok {
		return nil, 0, fmt.Errorf("%s is not on the allowlist", wallet.Hex())
	}
	proof, err := a.Tree.Proof(leafFor(a.Variable, wallet, limit))
	if err != nil {
		return nil, 0, err
	}
	return proof, limit, nil
}

func leafFor(variable bool, wallet common.Address, limit uint32) common.Hash {
	if variable {
		return allowlist.WalletLimitLeaf(wallet, limit)
	}
	return allowlist.WalletLeaf(wallet)
}
