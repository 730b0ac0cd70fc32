package handler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/mint/models"
)

// MintResponse is the HTTP response for POST /mint.
type MintResponse struct {
	Stage        int    `json:"stage"`
	FirstTokenID uint64 `json:"first_token_id"`
	Count        uint64 `json:"count"`
	Paid         string `json:"paid"`
	Refund       string `json:"refund"`
}

func fromReceipt(r *models.MintReceipt) MintResponse {
	return MintResponse{
		Stage:        r.Stage,
		FirstTokenID: r.Tokens.First,
		Count:        r.Tokens.Count,
		Paid:         amount(r.Paid),
		Refund:       amount(r.Refund),
	}
}

// StageResponse describes one stage. Minted counters are present on
// single-stage lookups.
type StageResponse struct {
	Index               int     `json:"index"`
	Price               string  `json:"price"`
	WalletLimit         uint32  `json:"wallet_limit"`
	MaxStageSupply      uint64  `json:"max_stage_supply"`
	MerkleRoot          string  `json:"merkle_root"`
	VariableWalletLimit bool    `json:"variable_wallet_limit"`
	StartTime           int64   `json:"start_time"`
	EndTime             int64   `json:"end_time"`
	StageMinted         *uint64 `json:"stage_minted,omitempty"`
	WalletMinted        *uint64 `json:"wallet_minted,omitempty"`
}

func fromStage(index int, s models.Stage) StageResponse {
	return StageResponse{
		Index:               index,
		Price:               s.UnitPrice().String(),
		WalletLimit:         s.WalletLimit,
		MaxStageSupply:      s.MaxStageSupply,
		MerkleRoot:          s.MerkleRoot.Hex(),
		VariableWalletLimit: s.VariableWalletLimit,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
	}
}

func fromStageInfo(info models.StageInfo) StageResponse {
	resp := fromStage(info.Index, info.Stage)
	resp.StageMinted = &info.StageMinted
	resp.WalletMinted = &info.WalletMinted
	return resp
}

// StagesResponse is the HTTP response for GET /stages.
type StagesResponse struct {
	Stages []StageResponse `json:"stages"`
}

// ActiveStageResponse is the HTTP response for GET /stages/active.
type ActiveStageResponse struct {
	Index int `json:"index"`
}

// WalletResponse is the HTTP response for GET /wallets/{address}.
type WalletResponse struct {
	Wallet      string `json:"wallet"`
	TotalMinted uint64 `json:"total_minted"`
	CosignNonce uint64 `json:"cosign_nonce"`
	Balance     uint64 `json:"balance"`
}

// OwnerResponse is the HTTP response for GET /tokens/{id}/owner.
type OwnerResponse struct {
	TokenID uint64 `json:"token_id"`
	Owner   string `json:"owner"`
}

// ConfigResponse is the HTTP response for GET /config.
type ConfigResponse struct {
	Owner                  string `json:"owner"`
	MaxTotalSupply         uint64 `json:"max_total_supply"`
	GlobalWalletLimit      uint64 `json:"global_wallet_limit"`
	MintingEnabled         bool   `json:"minting_enabled"`
	Cosigner               string `json:"cosigner"`
	SignatureExpirySeconds uint64 `json:"signature_expiry_seconds"`
	ContractAddress        string `json:"contract_address"`
	ChainID                uint64 `json:"chain_id"`
}

func fromConfig(owner common.Address, cfg models.Config) ConfigResponse {
	return ConfigResponse{
		Owner:                  owner.Hex(),
		MaxTotalSupply:         cfg.MaxTotalSupply,
		GlobalWalletLimit:      cfg.GlobalWalletLimit,
		MintingEnabled:         cfg.MintingEnabled,
		Cosigner:               cfg.Cosigner.Hex(),
		SignatureExpirySeconds: cfg.SignatureExpirySeconds,
		ContractAddress:        cfg.ContractAddress.Hex(),
		ChainID:                cfg.ChainID,
	}
}

// PausedResponse reports the transfer gate state.
type PausedResponse struct {
	Paused bool `json:"paused"`
}

// WithdrawResponse is the HTTP response for POST /admin/withdraw.
type WithdrawResponse struct {
	Amount string `json:"amount"`
}

// TreasuryResponse is the HTTP response for GET /admin/treasury.
type TreasuryResponse struct {
	Balance string `json:"balance"`
}

// OwnerMintResponse is the HTTP response for POST /admin/owner-mint.
type OwnerMintResponse struct {
	To           string `json:"to"`
	FirstTokenID uint64 `json:"first_token_id"`
	Count        uint64 `json:"count"`
}

func amount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
