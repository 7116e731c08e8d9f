// Package lmsha256 provides SHA-256 backed [lmhash.Hasher] values,
// using the SIMD-accelerated implementation where the CPU supports it.
package lmsha256

import (
	"github.com/gordian-engine/lmerkle/lmhash"
	sha256 "github.com/minio/sha256-simd"
)

const HashSize = sha256.Size

// New returns a SHA-256 hasher without domain separation.
func New() *lmhash.Combiner {
	return lmhash.NewCombiner(sha256.New, false)
}

// NewTagged returns a SHA-256 hasher using RFC 6962 leaf and node prefixes.
func NewTagged() *lmhash.Combiner {
	return lmhash.NewCombiner(sha256.New, true)
}
