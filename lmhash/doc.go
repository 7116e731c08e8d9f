// Package lmhash defines how leaves and pairs of child digests
// are turned into digests of an lmtree Merkle tree.
//
// The [Hasher] interface is the only dependency the tree has
// on a cryptographic primitive.
// [Combiner] adapts any [hash.Hash] constructor into a Hasher;
// the lmkeccak, lmsha256, and lmblake3 subpackages
// provide ready-made Combiners for specific primitives.
package lmhash
