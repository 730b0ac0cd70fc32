// Package cosign checks cosigner authorizations: a signature from an
// external screening service over the caller, quantity and a timestamp,
// bound to this collection instance and to a per-wallet nonce.
package cosign

import (
	"crypto/ecdsa"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

// SignatureLength is the [R || S || V] length.
const SignatureLength = 65

// Params is the authorization being checked.
type Params struct {
	Contract  common.Address
	ChainID   uint64
	Cosigner  common.Address
	Wallet    common.Address
	Quantity  uint32
	Timestamp uint64
	Nonce     uint64
	// ExpirySeconds bounds now - Timestamp.
	ExpirySeconds uint64
}

// ParamsFor fills the instance-bound fields from config.
func ParamsFor(cfg models.Config, wallet common.Address, quantity uint32, timestamp, nonce uint64) Params {
	return Params{
		Contract:      cfg.ContractAddress,
		ChainID:       cfg.ChainID,
		Cosigner:      cfg.Cosigner,
		Wallet:        wallet,
		Quantity:      quantity,
		Timestamp:     timestamp,
		Nonce:         nonce,
		ExpirySeconds: cfg.SignatureExpirySeconds,
	}
}

// Digest returns the EIP-191 personal-message hash of the packed parameters.
func Digest(p Params) common.Hash {
	return common.BytesToHash(accounts.TextHash(packed(p).Bytes()))
}

// packed is keccak256(contract || wallet || uint32 qty || cosigner ||
// uint64 timestamp || uint256 chainID || uint256 nonce).
func packed(p Params) common.Hash {
	buf := make([]byte, 0, 20*3+4+8+32*2)
	buf = append(buf, p.Contract.Bytes()...)
	buf = append(buf, p.Wallet.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, p.Quantity)
	buf = append(buf, p.Cosigner.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, p.Timestamp)
	buf = append(buf, common.LeftPadBytes(new(big.Int).SetUint64(p.ChainID).Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(new(big.Int).SetUint64(p.Nonce).Bytes(), 32)...)
	return crypto.Keccak256Hash(buf)
}

// Verify checks authenticity and freshness. A zero cosigner disables the
// check. now is unix seconds.
func Verify(p Params, signature []byte, now int64) error {
	if p.Cosigner == (common.Address{}) {
		return nil
	}
	signer, err := Recover(Digest(p), signature)
	if err != nil || signer != p.Cosigner {
		return models.ErrInvalidSignature
	}
	if now < 0 || p.Timestamp > uint64(now) {
		return models.ErrSignatureExpired
	}
	if uint64(now)-p.Timestamp > p.ExpirySeconds {
		return models.ErrSignatureExpired
	}
	return nil
}

// Recover returns the address that produced signature over digest. V may
// be 0/1 or 27/28.
func Recover(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, dErrors.New(dErrors.CodeInvalidInput, "signature must be 65 bytes")
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return common.Address{}, dErrors.New(dErrors.CodeInvalidInput, "signature recovery id out of range")
	}
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return common.Address{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "recover signer")
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Signer produces authorizations, for the screening service side and for
// tests.
type Signer struct {
	key *ecdsa.PrivateKey
}

// NewSigner wraps an existing key.
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// ParseSigner loads a hex-encoded secp256k1 private key.
func ParseSigner(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(trimHexPrefix(hexKey))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "parse cosigner key")
	}
	return &Signer{key: key}, nil
}

// GenerateSigner creates a signer with a fresh random key.
func GenerateSigner() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

// Address is the cosigner address to configure.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Sign returns a 65-byte signature with V in {27, 28}.
func (s *Signer) Sign(p Params) ([]byte, error) {
	digest := Digest(p)
	sig, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
