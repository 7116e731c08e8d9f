package lmtree

import (
	"bytes"
	"fmt"
	"log/slog"
)

// Handle owns the source leaves of a tree and the tree built from them.
//
// Appending leaves rebuilds the entire tree;
// there is no incremental update.
// A Handle has no internal locking,
// so calls to [*Handle.AddLeaves] must be serialized by the caller.
// Trees returned from the Handle are immutable
// and remain valid after later appends.
type Handle struct {
	log *slog.Logger

	cfg BuildConfig

	// Copies of every leaf appended so far, in order.
	leaves [][]byte

	// Nil until the first successful build.
	tree *Tree
}

// NewHandle returns a Handle with no leaves.
// The first call to [*Handle.AddLeaves] with at least one leaf builds the tree.
func NewHandle(log *slog.Logger, cfg BuildConfig) *Handle {
	if cfg.Hasher == nil {
		panic(fmt.Errorf("BUG: BuildConfig.Hasher must not be nil"))
	}

	return &Handle{
		log: log,
		cfg: cfg,
	}
}

// AddLeaves appends newLeaves after the existing leaves
// and rebuilds the tree over the combined sequence.
//
// If both the existing and new leaves are empty,
// AddLeaves returns an error wrapping [ErrEmptyInput].
// On error, the previously built tree and leaves are left untouched.
func (h *Handle) AddLeaves(newLeaves [][]byte) (*Tree, error) {
	combined := make([][]byte, len(h.leaves), len(h.leaves)+len(newLeaves))
	copy(combined, h.leaves)
	for _, l := range newLeaves {
		combined = append(combined, bytes.Clone(l))
	}

	t, err := Build(combined, h.cfg)
	if err != nil {
		h.log.Warn(
			"Failed to rebuild tree",
			"existing_leaves", len(h.leaves),
			"new_leaves", len(newLeaves),
			"err", err,
		)
		return nil, fmt.Errorf("failed to rebuild tree: %w", err)
	}

	h.leaves = combined
	h.tree = t

	h.log.Debug(
		"Rebuilt tree",
		"leaves", t.LeafCount(),
		"added", len(newLeaves),
		"height", t.Height(),
	)

	return t, nil
}

// Tree returns the most recently built tree,
// or nil if no leaves have been added yet.
func (h *Handle) Tree() *Tree {
	return h.tree
}

// Root returns the current root digest,
// or nil if no leaves have been added yet.
func (h *Handle) Root() []byte {
	if h.tree == nil {
		return nil
	}
	return h.tree.Root()
}

// LeafCount returns the number of leaves added so far.
func (h *Handle) LeafCount() int {
	return len(h.leaves)
}

// Leaf returns the source bytes of the leaf at the given index.
// The caller must not modify the returned slice.
func (h *Handle) Leaf(idx int) []byte {
	if idx < 0 || idx >= len(h.leaves) {
		panic(fmt.Errorf(
			"BUG: attempted to get leaf at index %d; must be in range [0, %d)",
			idx, len(h.leaves),
		))
	}
	return h.leaves[idx]
}
