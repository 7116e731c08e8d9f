package lmhashes_test

import (
	"testing"

	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/gordian-engine/lmerkle/lmhash/lmhashes"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range lmhashes.Names() {
		h, err := lmhashes.ByName(name)
		require.NoError(t, err, name)
		require.Equal(t, 32, h.Size(), name)
		require.False(t, h.(lmhash.DomainSeparator).DomainSeparated(), name)

		th, err := lmhashes.ByName(name + lmhashes.TaggedSuffix)
		require.NoError(t, err, name)
		require.True(t, th.(lmhash.DomainSeparator).DomainSeparated(), name)

		require.NotEqual(t, lmhash.LeafDigest(h, []byte("x")), lmhash.LeafDigest(th, []byte("x")), name)
	}

	_, err := lmhashes.ByName("KECCAK256")
	require.NoError(t, err)
}

func TestByName_unknown(t *testing.T) {
	t.Parallel()

	_, err := lmhashes.ByName("md5")
	require.ErrorContains(t, err, `unknown hasher "md5"`)
	require.ErrorContains(t, err, "blake3, keccak256, sha256")
}

func TestByName_distinctPrimitives(t *testing.T) {
	t.Parallel()

	seen := map[string]string{}
	for _, name := range lmhashes.Names() {
		h, err := lmhashes.ByName(name)
		require.NoError(t, err)

		d := string(lmhash.LeafDigest(h, []byte("same input")))
		prev, dup := seen[d]
		require.False(t, dup, "%s collides with %s", name, prev)
		seen[d] = name
	}
}
