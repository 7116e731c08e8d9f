// Package lmblake3 provides BLAKE3 backed [lmhash.Hasher] values
// with the default 32-byte output.
package lmblake3

import (
	"hash"

	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/zeebo/blake3"
)

const HashSize = 32

func newHash() hash.Hash {
	return blake3.New()
}

// New returns a BLAKE3 hasher without domain separation.
func New() *lmhash.Combiner {
	return lmhash.NewCombiner(newHash, false)
}

// NewTagged returns a BLAKE3 hasher that tags leaf and node input distinctly.
func NewTagged() *lmhash.Combiner {
	return lmhash.NewCombiner(newHash, true)
}
