package lmhash

import (
	"fmt"
	"hash"
	"sync"
)

// Domain separation tags, matching RFC 6962.
var (
	leafTag = []byte{0x00}
	nodeTag = []byte{0x01}
)

// Combiner is a [Hasher] backed by a [hash.Hash] constructor.
//
// A leaf digest is H(leaf) and a node digest is H(left || right).
// When domain separation is enabled,
// leaf input is prefixed with 0x00 and node input with 0x01.
//
// Hash states are pooled, so a single Combiner
// may be shared freely across goroutines.
type Combiner struct {
	pool sync.Pool

	size   int
	tagged bool
}

// NewCombiner returns a Combiner that creates hash states with newHash.
func NewCombiner(newHash func() hash.Hash, domainSeparated bool) *Combiner {
	if newHash == nil {
		panic(fmt.Errorf("BUG: newHash must not be nil"))
	}

	size := newHash().Size()
	if size <= 0 {
		panic(fmt.Errorf(
			"BUG: hash size must be positive (got %d)", size,
		))
	}

	return &Combiner{
		pool: sync.Pool{
			New: func() any { return newHash() },
		},

		size:   size,
		tagged: domainSeparated,
	}
}

func (c *Combiner) Size() int {
	return c.size
}

// DomainSeparated reports whether leaf and node inputs are tagged.
func (c *Combiner) DomainSeparated() bool {
	return c.tagged
}

func (c *Combiner) Leaf(in []byte, dst []byte) {
	h := c.pool.Get().(hash.Hash)
	h.Reset()

	if c.tagged {
		_, _ = h.Write(leafTag)
	}
	_, _ = h.Write(in)
	h.Sum(dst)

	c.pool.Put(h)
}

func (c *Combiner) Node(left, right []byte, dst []byte) {
	h := c.pool.Get().(hash.Hash)
	h.Reset()

	if c.tagged {
		_, _ = h.Write(nodeTag)
	}
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	h.Sum(dst)

	c.pool.Put(h)
}
