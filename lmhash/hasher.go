package lmhash

// Hasher is the interface for hashing leaves and nodes.
// The tree passes the raw leaf data to the Leaf method to create a leaf digest,
// and it passes pairs of digests to the Node method to create their parent.
//
// To be allocation-efficient, the Hasher implementation
// must append its hash output to dst, instead of creating a new byte slice.
// Callers provide a dst with length zero and capacity of at least Size.
// Hasher must not retain references to the dst slice.
//
// Furthermore, Hasher methods must be safe to call concurrently.
type Hasher interface {
	Leaf(in []byte, dst []byte)
	Node(left, right []byte, dst []byte)

	// Size is the fixed width, in bytes, of every digest the Hasher produces.
	Size() int
}

// DomainSeparator is an optional interface for a [Hasher]
// to report whether leaf hashing is distinguishable from node hashing.
type DomainSeparator interface {
	DomainSeparated() bool
}

// LeafDigest returns a newly allocated leaf digest of in.
func LeafDigest(h Hasher, in []byte) []byte {
	dst := make([]byte, 0, h.Size())
	h.Leaf(in, dst)
	return dst[:h.Size()]
}

// NodeDigest returns a newly allocated digest of the left and right children.
func NodeDigest(h Hasher, left, right []byte) []byte {
	dst := make([]byte, 0, h.Size())
	h.Node(left, right, dst)
	return dst[:h.Size()]
}
