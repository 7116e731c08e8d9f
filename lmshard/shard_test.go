package lmshard_test

import (
	"bytes"
	"testing"

	"github.com/gordian-engine/lmerkle/internal/lmtest"
	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/gordian-engine/lmerkle/lmhash/lmsha256"
	"github.com/gordian-engine/lmerkle/lmshard"
	"github.com/gordian-engine/lmerkle/lmtree"
	"github.com/stretchr/testify/require"
)

func testConfig() lmshard.Config {
	return lmshard.Config{
		Hasher:       lmsha256.NewTagged(),
		DataShards:   4,
		ParityShards: 3,
	}
}

func TestCommit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	data := lmtest.RandomDataForTest(t, 1001)

	c, err := lmshard.Commit(data, cfg)
	require.NoError(t, err)

	require.Equal(t, 1001, c.DataSize)
	require.Len(t, c.Shards, 7)
	require.Len(t, c.Proofs, 7)

	for i, s := range c.Shards {
		require.Len(t, s, 251, "shard %d", i) // ceil(1001 / 4)

		d := lmhash.LeafDigest(cfg.Hasher, s)
		require.True(t, lmtree.Verify(cfg.Hasher, c.Proofs[i], c.Root, d, i), "shard %d", i)
	}

	// The first data shard is a plain prefix of the payload.
	require.Equal(t, data[:251], c.Shards[0])
}

func TestCommit_empty(t *testing.T) {
	t.Parallel()

	_, err := lmshard.Commit(nil, testConfig())
	require.ErrorIs(t, err, lmtree.ErrEmptyInput)
}

func TestCommit_badConfig(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_, _ = lmshard.Commit([]byte("x"), lmshard.Config{DataShards: 1})
	})

	cfg := testConfig()
	cfg.DataShards = 0
	require.Panics(t, func() {
		_, _ = lmshard.Commit([]byte("x"), cfg)
	})

	cfg = testConfig()
	cfg.ParityShards = -1
	require.Panics(t, func() {
		_, _ = lmshard.Commit([]byte("x"), cfg)
	})
}

func TestReconstruct_allShards(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	data := lmtest.RandomDataForTest(t, 4096)

	c, err := lmshard.Commit(data, cfg)
	require.NoError(t, err)

	got, err := lmshard.Reconstruct(c.Shards, c.Proofs, c.Root, c.DataSize, cfg)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestReconstruct_missingShards(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	data := lmtest.RandomDataForTest(t, 999)

	c, err := lmshard.Commit(data, cfg)
	require.NoError(t, err)

	// Drop as many shards as there is parity, including data shards.
	shards := make([][]byte, len(c.Shards))
	copy(shards, c.Shards)
	shards[0] = nil
	shards[2] = nil
	shards[5] = nil

	got, err := lmshard.Reconstruct(shards, c.Proofs, c.Root, c.DataSize, cfg)
	require.NoError(t, err)
	require.Equal(t, data, got)

	// The caller's slice is untouched.
	require.Nil(t, shards[0])
}

func TestReconstruct_ignoresTamperedShards(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	data := lmtest.RandomDataForTest(t, 512)

	c, err := lmshard.Commit(data, cfg)
	require.NoError(t, err)

	shards := make([][]byte, len(c.Shards))
	copy(shards, c.Shards)

	// Two corrupted data shards are discarded,
	// and parity covers for them.
	shards[1] = bytes.Clone(shards[1])
	shards[1][0] ^= 0xff
	shards[3] = bytes.Clone(shards[3])
	shards[3][10] ^= 0x01

	got, err := lmshard.Reconstruct(shards, c.Proofs, c.Root, c.DataSize, cfg)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestReconstruct_insufficient(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	c, err := lmshard.Commit(lmtest.RandomDataForTest(t, 100), cfg)
	require.NoError(t, err)

	shards := make([][]byte, len(c.Shards))
	copy(shards, c.Shards[:3])

	_, err = lmshard.Reconstruct(shards, c.Proofs, c.Root, c.DataSize, cfg)
	require.ErrorIs(t, err, lmshard.InsufficientShardsError{Have: 3, Need: 4})
}

func TestReconstruct_wrongRoot(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	c, err := lmshard.Commit(lmtest.RandomDataForTest(t, 100), cfg)
	require.NoError(t, err)

	root := bytes.Clone(c.Root)
	root[0] ^= 1

	_, err = lmshard.Reconstruct(c.Shards, c.Proofs, root, c.DataSize, cfg)
	require.ErrorIs(t, err, lmshard.InsufficientShardsError{Have: 0, Need: 4})
}

func TestReconstruct_inconsistentParity(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	data := lmtest.RandomDataForTest(t, 400)

	// A dishonest committer replaces a parity shard with garbage
	// before building the tree, so its proof still verifies.
	enc, err := lmshard.Commit(data, cfg)
	require.NoError(t, err)

	shards := make([][]byte, len(enc.Shards))
	copy(shards, enc.Shards)
	shards[6] = bytes.Repeat([]byte{0x5a}, len(shards[6]))

	tree, err := lmtree.Build(shards, lmtree.BuildConfig{Hasher: cfg.Hasher})
	require.NoError(t, err)

	proofs := make([]lmtree.Proof, len(shards))
	for i := range shards {
		proofs[i], err = tree.Prove(i)
		require.NoError(t, err)
	}

	// Withhold enough data shards that the bad parity is used in recovery.
	shards[0] = nil
	shards[1] = nil
	shards[2] = nil

	_, err = lmshard.Reconstruct(shards, proofs, tree.Root(), len(data), cfg)
	require.ErrorIs(t, err, lmshard.ErrRootMismatch)
}

func TestReconstruct_badInput(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	c, err := lmshard.Commit(lmtest.RandomDataForTest(t, 100), cfg)
	require.NoError(t, err)

	_, err = lmshard.Reconstruct(c.Shards[:6], c.Proofs, c.Root, c.DataSize, cfg)
	require.Error(t, err)

	_, err = lmshard.Reconstruct(c.Shards, c.Proofs, c.Root, 0, cfg)
	require.Error(t, err)

	_, err = lmshard.Reconstruct(c.Shards, c.Proofs, c.Root, 4*len(c.Shards[0])+1, cfg)
	require.Error(t, err)
}
