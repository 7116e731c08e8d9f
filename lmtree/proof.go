package lmtree

import (
	"bytes"
	"strconv"
)

// Position is the side a sibling digest sits on,
// relative to the node being authenticated at that layer.
type Position uint8

const (
	// Right means the sibling is the right child,
	// so the parent is Node(current, sibling).
	Right Position = iota

	// Left means the sibling is the left child,
	// so the parent is Node(sibling, current).
	Left
)

func (p Position) String() string {
	switch p {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return "Position(" + strconv.Itoa(int(p)) + ")"
	}
}

// ProofStep is one sibling digest in a [Proof].
type ProofStep struct {
	Sibling  []byte
	Position Position
}

// Proof is the authentication path for a single leaf,
// ordered from the leaf layer up to, but excluding, the root layer.
//
// A Proof holds its own copies of the sibling digests;
// it does not reference the tree it was generated from.
type Proof struct {
	Steps []ProofStep
}

// Len returns the number of steps in the proof.
func (p Proof) Len() int {
	return len(p.Steps)
}

// Clone returns a deep copy of p.
func (p Proof) Clone() Proof {
	if p.Steps == nil {
		return Proof{}
	}

	steps := make([]ProofStep, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = ProofStep{
			Sibling:  bytes.Clone(s.Sibling),
			Position: s.Position,
		}
	}
	return Proof{Steps: steps}
}

// ContainsLeaf searches the leaf layer for the first digest equal to target.
// If found, it returns the proof for that leaf and the leaf's index.
// If target is absent, ok is false; that is not an error condition.
func (t *Tree) ContainsLeaf(target []byte) (p Proof, index int, ok bool) {
	for i, d := range t.layers[0] {
		if bytes.Equal(d, target) {
			return t.prove(i), i, true
		}
	}

	return Proof{}, -1, false
}

// Prove returns the proof for the leaf at the given index.
// An [IndexOutOfRangeError] is returned if no such leaf exists.
func (t *Tree) Prove(index int) (Proof, error) {
	if index < 0 || index >= t.LeafCount() {
		return Proof{}, IndexOutOfRangeError{
			Index:     index,
			LeafCount: t.LeafCount(),
		}
	}

	return t.prove(index), nil
}

func (t *Tree) prove(index int) Proof {
	height := t.Height()
	if height == 0 {
		// A single leaf is its own root.
		return Proof{}
	}

	hashSize := len(t.layers[0][0])

	// One allocation for all sibling copies,
	// so the proof does not keep the tree's memory alive.
	mem := make([]byte, height*hashSize)
	steps := make([]ProofStep, height)

	i := index
	for depth := range height {
		layer := t.layers[depth]

		var siblingIdx int
		var pos Position
		if i&1 == 0 {
			siblingIdx = i + 1
			pos = Right
			if siblingIdx >= len(layer) {
				// Unpaired final node; it was combined with itself.
				siblingIdx = i
			}
		} else {
			siblingIdx = i - 1
			pos = Left
		}

		start := depth * hashSize
		end := start + hashSize
		copy(mem[start:end], layer[siblingIdx])

		steps[depth] = ProofStep{
			Sibling:  mem[start:end:end],
			Position: pos,
		}

		i >>= 1
	}

	return Proof{Steps: steps}
}
