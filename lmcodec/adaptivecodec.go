package lmcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gordian-engine/lmerkle/lmtree"
)

// AdaptiveEncoder writes whichever of the raw or snappy layouts is smaller,
// behind a one byte header.
type AdaptiveEncoder struct {
	se SnappyEncoder
}

// WriteProof writes the adaptive layout of p to w.
func (e *AdaptiveEncoder) WriteProof(w io.Writer, p lmtree.Proof) error {
	snappyOK, err := e.se.encode(p, true)
	if err != nil {
		return fmt.Errorf("failed to encode adaptive proof: %w", err)
	}

	// Both buffers carry their one byte header.
	// Digests rarely compress,
	// so the raw layout usually wins.
	if !snappyOK || len(e.se.rawBuf) <= len(e.se.encBuf) {
		re := RawEncoder{buf: e.se.rawBuf}
		return re.send(w)
	}

	return e.se.send(w)
}

// AdaptiveDecoder reads proofs written by an [AdaptiveEncoder].
type AdaptiveDecoder struct {
	sd SnappyDecoder
	rd RawDecoder
}

// ReadProof reads exactly one adaptive proof from r.
func (d *AdaptiveDecoder) ReadProof(r io.Reader) (lmtree.Proof, error) {
	var h [1]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return lmtree.Proof{}, fmt.Errorf("failed to read proof encoding header: %w", err)
	}

	switch h[0] {
	case rawEncoding:
		return d.rd.ReadProof(r)
	case snappyEncoding:
		return d.sd.ReadProof(r)
	default:
		return lmtree.Proof{}, DecodeError{
			Reason: fmt.Sprintf("unknown encoding header %d", h[0]),
		}
	}
}

// MarshalProof returns the adaptive encoding of p.
func MarshalProof(p lmtree.Proof) ([]byte, error) {
	var buf bytes.Buffer
	var e AdaptiveEncoder
	if err := e.WriteProof(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalProof decodes a proof produced by [MarshalProof].
// Trailing bytes after the proof are rejected.
func UnmarshalProof(b []byte) (lmtree.Proof, error) {
	r := bytes.NewReader(b)

	var d AdaptiveDecoder
	p, err := d.ReadProof(r)
	if err != nil {
		return lmtree.Proof{}, err
	}

	if r.Len() != 0 {
		return lmtree.Proof{}, DecodeError{
			Reason: fmt.Sprintf("%d trailing bytes after proof", r.Len()),
		}
	}

	return p, nil
}
