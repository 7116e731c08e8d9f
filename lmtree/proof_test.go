package lmtree_test

import (
	"testing"

	"github.com/gordian-engine/lmerkle/lmtree"
	"github.com/stretchr/testify/require"
)

func TestTree_ContainsLeaf_3_leaves(t *testing.T) {
	t.Parallel()

	tree := build(t, "a", "b", "c")
	d0, d1, d2 := leafOf("a"), leafOf("b"), leafOf("c")

	p, idx, ok := tree.ContainsLeaf(d0)
	require.True(t, ok)
	require.Zero(t, idx)
	require.Equal(t, lmtree.Proof{Steps: []lmtree.ProofStep{
		{Sibling: d1, Position: lmtree.Right},
		{Sibling: nodeOf(d2, d2), Position: lmtree.Right},
	}}, p)

	p, idx, ok = tree.ContainsLeaf(d1)
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, lmtree.Proof{Steps: []lmtree.ProofStep{
		{Sibling: d0, Position: lmtree.Left},
		{Sibling: nodeOf(d2, d2), Position: lmtree.Right},
	}}, p)

	// The unpaired leaf is its own sibling.
	p, idx, ok = tree.ContainsLeaf(d2)
	require.True(t, ok)
	require.Equal(t, 2, idx)
	require.Equal(t, lmtree.Proof{Steps: []lmtree.ProofStep{
		{Sibling: d2, Position: lmtree.Right},
		{Sibling: nodeOf(d0, d1), Position: lmtree.Left},
	}}, p)
}

func TestTree_ContainsLeaf_notFound(t *testing.T) {
	t.Parallel()

	tree := build(t, "a", "b", "c")

	p, idx, ok := tree.ContainsLeaf(leafOf("d"))
	require.False(t, ok)
	require.Equal(t, -1, idx)
	require.Zero(t, p.Len())

	// Internal node digests are not leaves.
	_, _, ok = tree.ContainsLeaf(tree.Root())
	require.False(t, ok)
}

func TestTree_ContainsLeaf_firstDuplicate(t *testing.T) {
	t.Parallel()

	tree := build(t, "x", "dup", "y", "dup")

	p, idx, ok := tree.ContainsLeaf(leafOf("dup"))
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.True(t, lmtree.Verify(fnvHasher(), p, tree.Root(), leafOf("dup"), idx))
}

func TestTree_ContainsLeaf_singleLeaf(t *testing.T) {
	t.Parallel()

	tree := build(t, "a")

	p, idx, ok := tree.ContainsLeaf(leafOf("a"))
	require.True(t, ok)
	require.Zero(t, idx)
	require.Zero(t, p.Len())

	require.True(t, lmtree.Verify(fnvHasher(), p, tree.Root(), leafOf("a"), 0))
}

func TestTree_Prove(t *testing.T) {
	t.Parallel()

	tree := build(t, "zero", "one", "two", "three", "four")

	for i, leaf := range []string{"zero", "one", "two", "three", "four"} {
		p, err := tree.Prove(i)
		require.NoError(t, err)

		cp, idx, ok := tree.ContainsLeaf(leafOf(leaf))
		require.True(t, ok)
		require.Equal(t, i, idx)
		require.Equal(t, cp, p)
	}

	_, err := tree.Prove(5)
	require.ErrorIs(t, err, lmtree.IndexOutOfRangeError{Index: 5, LeafCount: 5})
	require.EqualError(t, err, "leaf index 5 out of range [0, 5)")

	_, err = tree.Prove(-1)
	require.Error(t, err)
}

func TestProof_independentOfTree(t *testing.T) {
	t.Parallel()

	tree := build(t, "a", "b")

	p, err := tree.Prove(0)
	require.NoError(t, err)

	// Overwriting the proof must not affect the tree.
	p.Steps[0].Sibling[0] ^= 0xff
	require.Equal(t, leafOf("b"), tree.LeafDigest(1))
}

func TestProof_Clone(t *testing.T) {
	t.Parallel()

	tree := build(t, "a", "b", "c", "d")

	p, err := tree.Prove(2)
	require.NoError(t, err)

	c := p.Clone()
	require.Equal(t, p, c)

	c.Steps[1].Sibling[0] ^= 0xff
	require.NotEqual(t, p, c)

	require.Equal(t, lmtree.Proof{}, lmtree.Proof{}.Clone())
}

func TestPosition_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "left", lmtree.Left.String())
	require.Equal(t, "right", lmtree.Right.String())
	require.Equal(t, "Position(7)", lmtree.Position(7).String())
}
