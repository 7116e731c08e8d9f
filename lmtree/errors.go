package lmtree

import (
	"errors"
	"strconv"
)

// ErrEmptyInput is returned when a tree would be built over zero leaves.
var ErrEmptyInput = errors.New("cannot build merkle tree from zero leaves")

// IndexOutOfRangeError is returned from [*Tree.Prove]
// when the requested leaf index does not exist in the tree.
type IndexOutOfRangeError struct {
	Index, LeafCount int
}

func (e IndexOutOfRangeError) Error() string {
	return "leaf index " + strconv.Itoa(e.Index) +
		" out of range [0, " + strconv.Itoa(e.LeafCount) + ")"
}
