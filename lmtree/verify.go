package lmtree

import (
	"bytes"

	"github.com/gordian-engine/lmerkle/lmhash"
)

// Verify reports whether proof authenticates leafDigest
// at the given leaf index under root.
//
// The side of each sibling is derived from the parity of the index
// at every layer, and the stored [Position] must agree with it.
// The proof must also have consumed every bit of the index,
// so a proof that is too short for the index is rejected.
//
// Verify never panics on malformed input and never returns an error;
// every mismatch results in false.
// It does not touch any shared state and is safe for concurrent use.
func Verify(h lmhash.Hasher, proof Proof, root, leafDigest []byte, index int) bool {
	if h == nil || index < 0 {
		return false
	}

	size := h.Size()
	if size <= 0 || len(root) != size || len(leafDigest) != size {
		return false
	}

	cur := make([]byte, size)
	copy(cur, leafDigest)

	// Separate scratch for the parent digest,
	// since the hasher must not write over its inputs.
	next := make([]byte, 0, size)

	i := index
	for _, s := range proof.Steps {
		if len(s.Sibling) != size {
			return false
		}

		want := Right
		if i&1 == 1 {
			want = Left
		}
		if s.Position != want {
			return false
		}

		if want == Right {
			h.Node(cur, s.Sibling, next[:0])
		} else {
			h.Node(s.Sibling, cur, next[:0])
		}

		cur, next = next[:size], cur[:0]
		i >>= 1
	}

	if i != 0 {
		return false
	}

	return bytes.Equal(cur, root)
}
