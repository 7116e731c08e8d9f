// Package lmcodec encodes [lmtree.Proof] values for storage or transmission.
//
// The raw layout of a proof with n steps of w-byte digests is:
//
//	uint16 (big endian)  n
//	uint8                w
//	ceil(n/8) bytes      position flags; bit i set means step i is Left
//	n*w bytes            sibling digests, in step order
//
// The flag bytes are the little-endian bytes of the underlying bitset words,
// truncated to the bytes needed for n bits.
//
// The snappy layout is a big endian uint16 length
// followed by that many bytes of snappy-compressed raw layout.
//
// The adaptive layout is a one byte header,
// 0 for raw or 1 for snappy, followed by the corresponding layout.
// [MarshalProof] and [UnmarshalProof] use the adaptive layout.
package lmcodec
