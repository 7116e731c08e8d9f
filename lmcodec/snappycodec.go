package lmcodec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/gordian-engine/lmerkle/lmtree"
)

// maxSnappySize is the limit of the uint16 length header.
const maxSnappySize = (1 << 16) - 1

// SnappyEncoder writes proofs in the snappy layout.
// Its internal buffers are reused across calls,
// so a SnappyEncoder must not be used concurrently.
type SnappyEncoder struct {
	// The raw layout of the proof.
	// If encoded through the AdaptiveEncoder,
	// it also has a 1-byte prefix of the [rawEncoding] header.
	rawBuf []byte

	// The snappy-encoded version of rawBuf,
	// prefixed with a big endian uint16 length.
	// If encoded through the AdaptiveEncoder,
	// it has a 3-byte prefix: 1 byte for the [snappyEncoding] header
	// and a uint16 length.
	encBuf []byte
}

// encode fills both buffers.
// The returned bool is false if the compressed form
// is too large for its length header,
// in which case only rawBuf is usable.
func (e *SnappyEncoder) encode(p lmtree.Proof, adaptive bool) (bool, error) {
	e.rawBuf = e.rawBuf[:0]
	if adaptive {
		e.rawBuf = append(e.rawBuf, rawEncoding)
	}

	var err error
	e.rawBuf, err = appendRaw(e.rawBuf, p)
	if err != nil {
		return false, err
	}

	raw := e.rawBuf
	if adaptive {
		raw = raw[1:]
	}

	// +2 for the size uint16.
	maxEnc := snappy.MaxEncodedLen(len(raw)) + 2
	if adaptive {
		maxEnc++
	}

	if cap(e.encBuf) < maxEnc {
		e.encBuf = make([]byte, maxEnc)
	} else {
		e.encBuf = e.encBuf[:maxEnc]
	}
	encBuf := e.encBuf
	if adaptive {
		encBuf[0] = snappyEncoding
		encBuf = encBuf[1:]
	}

	// Figure out how large the snappy encoding is,
	// then backfill the size header.
	res := snappy.Encode(encBuf[2:], raw)
	if len(res) > maxSnappySize {
		e.encBuf = e.encBuf[:0]
		return false, nil
	}
	binary.BigEndian.PutUint16(encBuf, uint16(len(res)))

	// Need to have the correct size of e.encBuf,
	// for when the bytes are sent.
	if adaptive {
		e.encBuf = e.encBuf[:3+len(res)]
	} else {
		e.encBuf = e.encBuf[:2+len(res)]
	}

	return true, nil
}

// WriteProof writes the snappy layout of p to w.
func (e *SnappyEncoder) WriteProof(w io.Writer, p lmtree.Proof) error {
	ok, err := e.encode(p, false)
	if err != nil {
		return fmt.Errorf("failed to encode snappy proof: %w", err)
	}
	if !ok {
		return fmt.Errorf(
			"snappy-encoded proof exceeds maximum size of %d bytes", maxSnappySize,
		)
	}

	return e.send(w)
}

func (e *SnappyEncoder) send(w io.Writer) error {
	if _, err := w.Write(e.encBuf); err != nil {
		return fmt.Errorf("failed to write snappy proof: %w", err)
	}

	return nil
}

// SnappyDecoder reads proofs in the snappy layout.
type SnappyDecoder struct {
	// Holds the snappy-encoded bytes.
	encBuf []byte

	// The snappy-decoded raw layout.
	rawBuf []byte
}

// ReadProof reads exactly one snappy proof from r.
func (d *SnappyDecoder) ReadProof(r io.Reader) (lmtree.Proof, error) {
	if cap(d.encBuf) < 2 {
		// Probably uninitialized.
		// Allocate a bit larger here,
		// since we have to parse the length
		// before we can right-size encBuf.
		d.encBuf = make([]byte, 2, 128)
	} else {
		d.encBuf = d.encBuf[:2]
	}

	if _, err := io.ReadFull(r, d.encBuf); err != nil {
		return lmtree.Proof{}, fmt.Errorf("failed to read snappy length for proof: %w", err)
	}

	encSz := binary.BigEndian.Uint16(d.encBuf)

	if cap(d.encBuf) < int(encSz) {
		d.encBuf = make([]byte, encSz)
	} else {
		d.encBuf = d.encBuf[:encSz]
	}

	if _, err := io.ReadFull(r, d.encBuf); err != nil {
		return lmtree.Proof{}, fmt.Errorf("failed to read snappy-encoded proof: %w", err)
	}

	decSz, err := snappy.DecodedLen(d.encBuf)
	if err != nil {
		return lmtree.Proof{}, DecodeError{
			Reason: fmt.Sprintf("bad snappy length: %v", err),
		}
	}
	if decSz > maxRawSize {
		return lmtree.Proof{}, DecodeError{
			Reason: fmt.Sprintf("decoded size %d exceeds maximum %d", decSz, maxRawSize),
		}
	}

	raw, err := snappy.Decode(d.rawBuf[:cap(d.rawBuf)], d.encBuf)
	if err != nil {
		return lmtree.Proof{}, DecodeError{
			Reason: fmt.Sprintf("bad snappy data: %v", err),
		}
	}

	// raw could have been nil on error;
	// that's why we used the temporary variable.
	d.rawBuf = raw

	return parseRaw(d.rawBuf)
}
