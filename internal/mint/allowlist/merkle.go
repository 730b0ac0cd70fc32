// Package allowlist verifies Merkle inclusion proofs for stage eligibility.
//
// Hashing is keccak256 with sorted-pair concatenation at each level, which is
// the scheme OpenZeppelin's MerkleProof library verifies, so roots built by
// common off-chain tooling interoperate.
package allowlist

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	dErrors "mintgate/pkg/domain-errors"
)

// HashLength is the size of every digest in a proof.
const HashLength = 32

// WalletLeaf is the leaf committing to a wallet on fixed-limit stages.
func WalletLeaf(wallet common.Address) common.Hash {
	return keccak(wallet.Bytes())
}

// WalletLimitLeaf is the leaf committing to a wallet and its own limit on
// variable-limit stages.
func WalletLimitLeaf(wallet common.Address, limit uint32) common.Hash {
	var buf [common.AddressLength + 4]byte
	copy(buf[:common.AddressLength], wallet.Bytes())
	binary.BigEndian.PutUint32(buf[common.AddressLength:], limit)
	return keccak(buf[:])
}

// Verify reports whether proof links leaf to root. The zero root accepts any
// leaf. Malformed proofs verify false; only a malformed root is an error.
func Verify(root []byte, leaf common.Hash, proof [][]byte) (bool, error) {
	if len(root) != HashLength {
		return false, dErrors.New(dErrors.CodeInvariantViolation, "allowlist root must be 32 bytes")
	}
	if bytes.Equal(root, zeroHash[:]) {
		return true, nil
	}
	computed := leaf
	for _, node := range proof {
		if len(node) != HashLength {
			return false, nil
		}
		computed = hashPair(computed, common.BytesToHash(node))
	}
	return bytes.Equal(computed[:], root), nil
}

// VerifyHash is Verify for a root already known to be well formed.
func VerifyHash(root common.Hash, leaf common.Hash, proof [][]byte) bool {
	ok, _ := Verify(root[:], leaf, proof)
	return ok
}

var zeroHash common.Hash

func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(a[:])
	h.Write(b[:])
	var out common.Hash
	h.Sum(out[:0])
	return out
}

func keccak(data []byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out common.Hash
	h.Sum(out[:0])
	return out
}
