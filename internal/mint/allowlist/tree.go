package allowlist

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	dErrors "mintgate/pkg/domain-errors"
)

// Tree is a sorted-pair Merkle tree over a set of leaves. Leaves are sorted
// and deduplicated before building; an odd node at the end of a level is
// promoted unchanged.
type Tree struct {
	levels [][]common.Hash
}

// NewTree builds a tree. At least one leaf is required.
func NewTree(leaves []common.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "allowlist requires at least one leaf")
	}
	level := dedupe(leaves)
	levels := [][]common.Hash{level}
	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}
		levels = append(levels, next)
		level = next
	}
	return &Tree{levels: levels}, nil
}

// NewWalletTree builds a tree over fixed-limit wallet leaves.
func NewWalletTree(wallets []common.Address) (*Tree, error) {
	leaves := make([]common.Hash, len(wallets))
	for i, w := range wallets {
		leaves[i] = WalletLeaf(w)
	}
	return NewTree(leaves)
}

// Root returns the tree root.
func (t *Tree) Root() common.Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Proof returns the sibling path for leaf, bottom up.
func (t *Tree) Proof(leaf common.Hash) ([][]byte, error) {
	idx := indexOf(t.levels[0], leaf)
	if idx < 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "leaf is not in the allowlist")
	}
	proof := [][]byte{}
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := idx ^ 1
		if sibling < len(level) {
			node := level[sibling]
			proof = append(proof, node.Bytes())
		}
		idx /= 2
	}
	return proof, nil
}

// Size returns the number of distinct leaves.
func (t *Tree) Size() int {
	return len(t.levels[0])
}

func dedupe(leaves []common.Hash) []common.Hash {
	sorted := make([]common.Hash, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	out := sorted[:0]
	for i, h := range sorted {
		if i > 0 && h == sorted[i-1] {
			continue
		}
		out = append(out, h)
	}
	return out
}

func indexOf(level []common.Hash, leaf common.Hash) int {
	i := sort.Search(len(level), func(i int) bool {
		return bytes.Compare(level[i][:], leaf[:]) >= 0
	})
	if i < len(level) && level[i] == leaf {
		return i
	}
	return -1
}
