package lmtree

import (
	"fmt"
	"math/bits"

	"github.com/gordian-engine/lmerkle/lmhash"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the minimum number of digests in a layer
// before [Build] spreads the work of that layer across workers.
const DefaultParallelThreshold = 1024

// BuildConfig is the configuration used for [Build].
type BuildConfig struct {
	Hasher lmhash.Hasher

	// Workers is the maximum number of goroutines
	// hashing a single layer at once.
	// Values of zero or one build the tree on the calling goroutine.
	Workers int

	// Layers narrower than ParallelThreshold are always hashed serially.
	// Zero means DefaultParallelThreshold.
	ParallelThreshold int
}

// Tree is a binary Merkle tree retaining every layer from the leaves to the root.
//
// All digests are backed by a single allocation.
// Slices returned from Tree methods reference that memory,
// so they must not be modified.
type Tree struct {
	hasher lmhash.Hasher

	// layers[0] is the leaf layer;
	// the final layer always has exactly one entry.
	layers [][][]byte
}

// Build hashes every leaf and then every layer above,
// returning the completed tree.
//
// Build returns [ErrEmptyInput] if leaves is empty.
// The tree does not retain references to the leaf data.
func Build(leaves [][]byte, cfg BuildConfig) (*Tree, error) {
	if cfg.Hasher == nil {
		panic(fmt.Errorf("BUG: BuildConfig.Hasher must not be nil"))
	}
	if len(leaves) == 0 {
		return nil, ErrEmptyInput
	}

	hashSize := cfg.Hasher.Size()
	if hashSize <= 0 {
		panic(fmt.Errorf(
			"BUG: hash size must be positive (got %d)", hashSize,
		))
	}

	widths := layerWidths(len(leaves))
	nNodes := 0
	for _, w := range widths {
		nNodes += w
	}

	// We know the exact number of nodes and the size of each digest,
	// so back the whole tree with one byte slice,
	// and back every layer view with one slice of slices.
	mem := make([]byte, nNodes*hashSize)
	nodes := make([][]byte, nNodes)
	for i := range nodes {
		start := i * hashSize
		end := start + hashSize

		// Cap each node at its own width,
		// so that a misbehaving hasher cannot spill into the next node.
		nodes[i] = mem[start:end:end]
	}

	t := &Tree{
		hasher: cfg.Hasher,
		layers: make([][][]byte, len(widths)),
	}

	offset := 0
	for i, w := range widths {
		t.layers[i] = nodes[offset : offset+w : offset+w]
		offset += w
	}

	h := cfg.Hasher

	leafLayer := t.layers[0]
	cfg.run(len(leafLayer), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			h.Leaf(leaves[i], leafLayer[i][:0])
		}
	})

	for depth := 1; depth < len(t.layers); depth++ {
		below := t.layers[depth-1]
		cur := t.layers[depth]

		cfg.run(len(cur), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				left := below[2*i]
				right := left
				if 2*i+1 < len(below) {
					right = below[2*i+1]
				}
				// Otherwise the left node was unpaired,
				// so it is combined with itself.

				h.Node(left, right, cur[i][:0])
			}
		})
	}

	return t, nil
}

// run calls fn over the range [0, n),
// either directly or split into contiguous chunks across workers.
// Each index is handled by exactly one call,
// so per-node ordering is unaffected by parallelism.
func (c BuildConfig) run(n int, fn func(lo, hi int)) {
	threshold := c.ParallelThreshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}

	if c.Workers <= 1 || n < threshold {
		fn(0, n)
		return
	}

	chunk := (n + c.Workers - 1) / c.Workers

	var eg errgroup.Group
	eg.SetLimit(c.Workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}

	// Hashing cannot fail, so there is no error to inspect.
	_ = eg.Wait()
}

// layerWidths returns the number of digests in each layer
// of a tree with nLeaves leaves, starting from the leaf layer.
func layerWidths(nLeaves int) []int {
	widths := make([]int, 1, ProofLen(nLeaves)+1)
	widths[0] = nLeaves

	for w := nLeaves; w > 1; {
		w = (w + 1) / 2
		widths = append(widths, w)
	}

	return widths
}

// ProofLen returns the number of steps in every proof
// for a tree of nLeaves leaves, which is ceil(log2(nLeaves)).
func ProofLen(nLeaves int) int {
	if nLeaves <= 1 {
		return 0
	}
	return bits.Len(uint(nLeaves - 1))
}

// Root returns the root digest of the tree.
func (t *Tree) Root() []byte {
	return t.layers[len(t.layers)-1][0]
}

// LeafCount returns the number of leaves the tree was built from.
func (t *Tree) LeafCount() int {
	return len(t.layers[0])
}

// Height returns the number of layers above the leaf layer.
// This is also the length of every proof generated from the tree.
func (t *Tree) Height() int {
	return len(t.layers) - 1
}

// Layer returns the digests at the given depth,
// where 0 is the leaf layer and [*Tree.Height] is the root layer.
// The caller must not modify the returned slice or its elements.
func (t *Tree) Layer(depth int) [][]byte {
	if depth < 0 || depth >= len(t.layers) {
		panic(fmt.Errorf(
			"BUG: attempted to get layer %d; must be in range [0, %d]",
			depth, t.Height(),
		))
	}
	return t.layers[depth]
}

// LeafDigest returns the digest of the leaf at the given index.
// The caller must not modify the returned slice.
func (t *Tree) LeafDigest(idx int) []byte {
	if idx < 0 || idx >= t.LeafCount() {
		panic(fmt.Errorf(
			"BUG: attempted to get leaf at index %d; must be in range [0, %d)",
			idx, t.LeafCount(),
		))
	}
	return t.layers[0][idx]
}

// Hasher returns the hasher the tree was built with.
func (t *Tree) Hasher() lmhash.Hasher {
	return t.hasher
}
