package handler

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

const maxProofLength = 64

// MintRequest is the HTTP request body for POST /mint. Amounts are decimal
// strings in the smallest currency unit; byte fields are 0x-prefixed hex.
type MintRequest struct {
	Quantity   uint32   `json:"quantity"`
	Proof      []string `json:"proof,omitempty"`
	ProofLimit uint32   `json:"proof_limit,omitempty"`
	Timestamp  uint64   `json:"timestamp,omitempty"`
	Signature  string   `json:"signature,omitempty"`
	Payment    string   `json:"payment,omitempty"`

	proof     [][]byte
	signature []byte
	payment   *big.Int
}

func (r *MintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Proof) > maxProofLength {
		return dErrors.New(dErrors.CodeValidation, "proof is too long")
	}
	r.proof = make([][]byte, 0, len(r.Proof))
	for _, p := range r.Proof {
		node, err := hexutil.Decode(strings.TrimSpace(p))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "proof entries must be 0x-prefixed hex")
		}
		r.proof = append(r.proof, node)
	}
	if r.Signature != "" {
		sig, err := hexutil.Decode(strings.TrimSpace(r.Signature))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "signature must be 0x-prefixed hex")
		}
		r.signature = sig
	}
	payment, err := parseAmount("payment", r.Payment)
	if err != nil {
		return err
	}
	r.payment = payment
	return nil
}

// ToModel builds the domain request for caller.
func (r *MintRequest) ToModel(caller common.Address) models.MintRequest {
	return models.MintRequest{
		Caller:     caller,
		Quantity:   r.Quantity,
		Proof:      r.proof,
		ProofLimit: r.ProofLimit,
		Timestamp:  r.Timestamp,
		Signature:  r.signature,
		Payment:    r.payment,
	}
}

// StageRequest is one entry of PUT /admin/stages. Window ordering is checked
// by the service so the rejection carries its reason.
type StageRequest struct {
	Price               string `json:"price"`
	WalletLimit         uint32 `json:"wallet_limit"`
	MaxStageSupply      uint64 `json:"max_stage_supply"`
	MerkleRoot          string `json:"merkle_root,omitempty"`
	VariableWalletLimit bool   `json:"variable_wallet_limit,omitempty"`
	StartTime           int64  `json:"start_time"`
	EndTime             int64  `json:"end_time"`
}

func (s StageRequest) toModel() (models.Stage, error) {
	price, err := parseAmount("price", s.Price)
	if err != nil {
		return models.Stage{}, err
	}
	if price == nil {
		price = new(big.Int)
	}
	var root common.Hash
	if s.MerkleRoot != "" {
		b, err := hexutil.Decode(strings.TrimSpace(s.MerkleRoot))
		if err != nil || len(b) != common.HashLength {
			return models.Stage{}, dErrors.New(dErrors.CodeValidation, "merkle_root must be 32 bytes of 0x-prefixed hex")
		}
		root = common.BytesToHash(b)
	}
	return models.Stage{
		Price:               price,
		WalletLimit:         s.WalletLimit,
		MaxStageSupply:      s.MaxStageSupply,
		MerkleRoot:          root,
		VariableWalletLimit: s.VariableWalletLimit,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
	}, nil
}

// ReplaceStagesRequest is the HTTP request body for PUT /admin/stages.
type ReplaceStagesRequest struct {
	Stages []StageRequest `json:"stages"`

	parsed []models.Stage
}

func (r *ReplaceStagesRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.parsed = make([]models.Stage, 0, len(r.Stages))
	for _, s := range r.Stages {
		st, err := s.toModel()
		if err != nil {
			return err
		}
		r.parsed = append(r.parsed, st)
	}
	return nil
}

// ParsedStages returns the validated stages.
func (r *ReplaceStagesRequest) ParsedStages() []models.Stage {
	return r.parsed
}

// MintingRequest is the HTTP request body for PUT /admin/minting.
type MintingRequest struct {
	Enabled *bool `json:"enabled"`
}

func (r *MintingRequest) Validate() error {
	if r == nil || r.Enabled == nil {
		return dErrors.New(dErrors.CodeValidation, "enabled is required")
	}
	return nil
}

// CosignerRequest is the HTTP request body for PUT /admin/cosigner. The zero
// address disables signature checks.
type CosignerRequest struct {
	Cosigner string `json:"cosigner"`

	parsed common.Address
}

func (r *CosignerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	addr, err := parseAddress("cosigner", r.Cosigner)
	if err != nil {
		return err
	}
	r.parsed = addr
	return nil
}

// SignatureExpiryRequest is the HTTP request body for PUT /admin/signature-expiry.
type SignatureExpiryRequest struct {
	Seconds uint64 `json:"seconds"`
}

func (r *SignatureExpiryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// WalletLimitRequest is the HTTP request body for PUT /admin/wallet-limit.
type WalletLimitRequest struct {
	Limit uint64 `json:"limit"`
}

func (r *WalletLimitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// OwnerMintRequest is the HTTP request body for POST /admin/owner-mint.
type OwnerMintRequest struct {
	To       string `json:"to"`
	Quantity uint64 `json:"quantity"`

	to common.Address
}

func (r *OwnerMintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	to, err := parseAddress("to", r.To)
	if err != nil {
		return err
	}
	r.to = to
	return nil
}

// OwnerRequest is the HTTP request body for PUT /admin/owner.
type OwnerRequest struct {
	Owner string `json:"owner"`

	parsed common.Address
}

func (r *OwnerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	addr, err := parseAddress("owner", r.Owner)
	if err != nil {
		return err
	}
	r.parsed = addr
	return nil
}

// TransferRequest is the HTTP request body for POST /tokens/transfer.
type TransferRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	TokenID uint64 `json:"token_id"`
	Safe    bool   `json:"safe,omitempty"`
	Data    string `json:"data,omitempty"`

	from common.Address
	to   common.Address
	data []byte
}

func (r *TransferRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.from, err = parseAddress("from", r.From); err != nil {
		return err
	}
	if r.to, err = parseAddress("to", r.To); err != nil {
		return err
	}
	if r.Data != "" {
		if r.data, err = hexutil.Decode(strings.TrimSpace(r.Data)); err != nil {
			return dErrors.New(dErrors.CodeValidation, "data must be 0x-prefixed hex")
		}
	}
	return nil
}

func parseAddress(field, raw string) (common.Address, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return common.Address{}, dErrors.New(dErrors.CodeValidation, field+" must be a hex address")
	}
	return common.HexToAddress(raw), nil
}

// parseAmount parses a non-negative base-10 integer. Empty yields nil.
func parseAmount(field, raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, field+" must be a non-negative decimal integer")
	}
	return v, nil
}
