package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// Config is the collection-wide configuration. MaxTotalSupply is fixed at
// construction.
type Config struct {
	MaxTotalSupply uint64 `json:"max_total_supply"`
	// GlobalWalletLimit caps mints per wallet across all stages; 0 is unlimited.
	GlobalWalletLimit uint64 `json:"global_wallet_limit"`
	MintingEnabled    bool   `json:"minting_enabled"`
	// Cosigner is the address whose signature gates mints; zero disables
	// signature checks.
	Cosigner               common.Address `json:"cosigner"`
	SignatureExpirySeconds uint64         `json:"signature_expiry_seconds"`
	// ContractAddress and ChainID bind cosigner signatures to this instance.
	ContractAddress common.Address `json:"contract_address"`
	ChainID         uint64         `json:"chain_id"`
}

// DefaultSignatureExpirySeconds matches the freshness window used when none is configured.
const DefaultSignatureExpirySeconds = 300

// NewConfig creates a Config with domain invariant validation.
func NewConfig(maxTotalSupply, globalWalletLimit uint64, cosigner common.Address, expirySeconds uint64) (Config, error) {
	if globalWalletLimit > maxTotalSupply {
		return Config{}, ErrInvalidWalletLimit
	}
	if expirySeconds == 0 {
		expirySeconds = DefaultSignatureExpirySeconds
	}
	return Config{
		MaxTotalSupply:         maxTotalSupply,
		GlobalWalletLimit:      globalWalletLimit,
		Cosigner:               cosigner,
		SignatureExpirySeconds: expirySeconds,
	}, nil
}

// HasCosigner reports whether signature checks are enabled.
func (c Config) HasCosigner() bool {
	return c.Cosigner != (common.Address{})
}
