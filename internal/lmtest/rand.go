package lmtest

import (
	"crypto/sha256"
	"math/rand/v2"
	"testing"
)

// RandomDataForTest returns a byte slice of size sz
// containing pseudorandom data, derived from a seed based on the test name.
func RandomDataForTest(t *testing.T, sz int) []byte {
	// Sha256 happens to be the right size for the chacha8 seed,
	// and this fits well anyway since that means
	// we are not limited by the length of any particular test name.
	seed := sha256.Sum256([]byte(t.Name()))
	chacha := rand.NewChaCha8(seed)

	out := make([]byte, sz)

	if _, err := chacha.Read(out); err != nil {
		panic(err)
	}

	return out
}

// RandomLeavesForTest returns n leaves of leafSize bytes each,
// carved out of a single [RandomDataForTest] allocation.
// With a leafSize of at least 8, the leaves are distinct
// with overwhelming probability.
func RandomLeavesForTest(t *testing.T, n, leafSize int) [][]byte {
	data := RandomDataForTest(t, n*leafSize)

	leaves := make([][]byte, n)
	for i := range leaves {
		start := i * leafSize
		end := start + leafSize
		leaves[i] = data[start:end:end]
	}
	return leaves
}
