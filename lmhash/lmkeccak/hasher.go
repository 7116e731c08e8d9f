// Package lmkeccak provides Keccak-256 backed [lmhash.Hasher] values.
//
// This is the legacy Keccak padding used by Ethereum,
// not the finalized SHA3-256.
package lmkeccak

import (
	"github.com/gordian-engine/lmerkle/lmhash"
	"golang.org/x/crypto/sha3"
)

const HashSize = 32

// New returns a Keccak-256 hasher without domain separation.
func New() *lmhash.Combiner {
	return lmhash.NewCombiner(sha3.NewLegacyKeccak256, false)
}

// NewTagged returns a Keccak-256 hasher
// that tags leaf and node input distinctly.
func NewTagged() *lmhash.Combiner {
	return lmhash.NewCombiner(sha3.NewLegacyKeccak256, true)
}
