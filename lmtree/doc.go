// Package lmtree contains a layered binary Merkle tree.
//
// Every layer of the tree is retained:
// layer 0 holds the leaf digests in input order,
// and each following layer holds the digests of consecutive pairs
// from the layer below, until a single root digest remains.
// When a layer has an odd number of entries,
// its final entry is paired with itself.
//
// A [*Tree] is immutable once built.
// Any number of goroutines may read from it,
// generate proofs, or call [Verify] concurrently.
// [*Handle] supports appending leaves by rebuilding the whole tree.
package lmtree
