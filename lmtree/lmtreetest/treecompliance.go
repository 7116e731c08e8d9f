// Package lmtreetest contains a compliance suite
// for running [lmtree] against a particular [lmhash.Hasher].
package lmtreetest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/gordian-engine/lmerkle/lmtree"
	"github.com/stretchr/testify/require"
)

type HasherFactory func() lmhash.Hasher

// LeafCounts are the tree sizes exercised by [TestTreeCompliance].
// They cover every size up to two full powers of two,
// plus sizes just around a larger power of two.
var LeafCounts = []int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17,
	31, 32, 33, 127, 128, 129,
}

// TestTreeCompliance checks that trees built with the hasher from f
// produce proofs that verify, and reject tampered input.
func TestTreeCompliance(t *testing.T, f HasherFactory) {
	for _, n := range LeafCounts {
		t.Run(fmt.Sprintf("%d leaves", n), func(t *testing.T) {
			t.Parallel()

			h := f()
			leaves := make([][]byte, n)
			for i := range leaves {
				leaves[i] = []byte(fmt.Sprintf("leaf-%d-of-%d", i, n))
			}

			tree, err := lmtree.Build(leaves, lmtree.BuildConfig{Hasher: h})
			require.NoError(t, err)
			require.Equal(t, n, tree.LeafCount())
			require.Equal(t, lmtree.ProofLen(n), tree.Height())

			again, err := lmtree.Build(leaves, lmtree.BuildConfig{Hasher: h})
			require.NoError(t, err)
			require.Equal(t, tree.Root(), again.Root(), "root must be deterministic")

			for i, leaf := range leaves {
				d := lmhash.LeafDigest(h, leaf)

				p, idx, ok := tree.ContainsLeaf(d)
				require.True(t, ok, "leaf %d not found", i)
				require.Equal(t, i, idx)
				require.Equal(t, lmtree.ProofLen(n), p.Len())

				require.True(t, lmtree.Verify(h, p, tree.Root(), d, idx), "leaf %d failed to verify", i)

				tampered := bytes.Clone(leaf)
				tampered[0] ^= 0xff
				td := lmhash.LeafDigest(h, tampered)
				require.False(t, lmtree.Verify(h, p, tree.Root(), td, idx), "tampered leaf %d verified", i)

				if n > 1 {
					require.False(t, lmtree.Verify(h, p, tree.Root(), d, idx^1), "leaf %d verified at sibling index", i)
				}
			}

			_, _, ok := tree.ContainsLeaf(lmhash.LeafDigest(h, []byte("absent")))
			require.False(t, ok)
		})
	}

	t.Run("parallel build matches serial build", func(t *testing.T) {
		t.Parallel()

		h := f()
		leaves := make([][]byte, 1000)
		for i := range leaves {
			leaves[i] = []byte(fmt.Sprintf("parallel-leaf-%d", i))
		}

		serial, err := lmtree.Build(leaves, lmtree.BuildConfig{Hasher: h})
		require.NoError(t, err)

		parallel, err := lmtree.Build(leaves, lmtree.BuildConfig{
			Hasher:            h,
			Workers:           4,
			ParallelThreshold: 2,
		})
		require.NoError(t, err)

		for depth := 0; depth <= serial.Height(); depth++ {
			require.Equal(t, serial.Layer(depth), parallel.Layer(depth), "layer %d differs", depth)
		}
	})
}
