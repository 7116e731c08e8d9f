// Package lmhashtest contains a compliance suite for [lmhash.Hasher] implementations.
package lmhashtest

import (
	"bytes"
	"sync"
	"testing"

	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/stretchr/testify/require"
)

type HasherFactory func() lmhash.Hasher

func TestHasherCompliance(t *testing.T, f HasherFactory) {
	t.Run("size is positive", func(t *testing.T) {
		t.Parallel()

		require.Positive(t, f().Size())
	})

	t.Run("leaf is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()

		dst01 := make([]byte, 0, h.Size())
		h.Leaf([]byte("deterministic_data"), dst01)

		dst02 := make([]byte, 0, h.Size())
		h.Leaf([]byte("deterministic_data"), dst02)

		require.Equal(t, dst01[:h.Size()], dst02[:h.Size()])
	})

	t.Run("leaf writes into dst", func(t *testing.T) {
		t.Parallel()

		h := f()

		dst := make([]byte, 0, h.Size())
		h.Leaf([]byte("hello"), dst)

		// The dst slice header is unchanged,
		// so the written bytes are only visible by reslicing.
		require.Equal(t, lmhash.LeafDigest(h, []byte("hello")), dst[:h.Size()])
		require.NotEqual(t, make([]byte, h.Size()), dst[:h.Size()])
	})

	t.Run("leaf respects input", func(t *testing.T) {
		t.Parallel()

		h := f()

		require.NotEqual(
			t,
			lmhash.LeafDigest(h, []byte("hello")),
			lmhash.LeafDigest(h, []byte("hellp")),
		)
	})

	t.Run("node is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()

		l := lmhash.LeafDigest(h, []byte("left"))
		r := lmhash.LeafDigest(h, []byte("right"))

		require.Equal(t, lmhash.NodeDigest(h, l, r), lmhash.NodeDigest(h, l, r))
	})

	t.Run("node respects order", func(t *testing.T) {
		t.Parallel()

		h := f()

		l := lmhash.LeafDigest(h, []byte("left"))
		r := lmhash.LeafDigest(h, []byte("right"))

		require.NotEqual(t, lmhash.NodeDigest(h, l, r), lmhash.NodeDigest(h, r, l))
	})

	t.Run("node of a duplicated child differs from the child", func(t *testing.T) {
		t.Parallel()

		h := f()

		c := lmhash.LeafDigest(h, []byte("only"))
		require.NotEqual(t, c, lmhash.NodeDigest(h, c, c))
	})

	t.Run("domain separation", func(t *testing.T) {
		t.Parallel()

		h := f()
		ds, ok := h.(lmhash.DomainSeparator)
		if !ok || !ds.DomainSeparated() {
			t.Skip("hasher does not report domain separation")
		}

		l := lmhash.LeafDigest(h, []byte("left"))
		r := lmhash.LeafDigest(h, []byte("right"))

		// A leaf whose content is a concatenated pair of digests
		// must not collide with the node over that pair.
		forged := append(bytes.Clone(l), r...)
		require.NotEqual(t, lmhash.NodeDigest(h, l, r), lmhash.LeafDigest(h, forged))
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		h := f()

		want := lmhash.LeafDigest(h, []byte("concurrent"))

		const n = 16
		got := make([][]byte, n)

		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got[i] = lmhash.LeafDigest(h, []byte("concurrent"))
			}()
		}
		wg.Wait()

		for i := range n {
			require.Equal(t, want, got[i], "mismatch at goroutine %d", i)
		}
	})
}
