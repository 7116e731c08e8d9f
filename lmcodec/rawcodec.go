package lmcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/lmerkle/lmtree"
)

const (
	rawEncoding    byte = 0
	snappyEncoding byte = 1
)

const (
	// MaxSteps is the largest number of proof steps that can be encoded.
	MaxSteps = (1 << 16) - 1

	// MaxDigestSize is the largest sibling digest width that can be encoded.
	MaxDigestSize = (1 << 8) - 1

	rawHeaderSize = 3

	maxRawSize = rawHeaderSize + (MaxSteps+7)/8 + MaxSteps*MaxDigestSize
)

// appendRaw appends the raw layout of p to dst.
func appendRaw(dst []byte, p lmtree.Proof) ([]byte, error) {
	n := len(p.Steps)
	if n > MaxSteps {
		return dst, fmt.Errorf(
			"cannot encode proof with %d steps; maximum is %d", n, MaxSteps,
		)
	}

	var width int
	if n > 0 {
		width = len(p.Steps[0].Sibling)
		if width == 0 || width > MaxDigestSize {
			return dst, fmt.Errorf(
				"cannot encode %d-byte digests; must be in range [1, %d]",
				width, MaxDigestSize,
			)
		}
	}

	flags := bitset.New(uint(n))
	for i, s := range p.Steps {
		if len(s.Sibling) != width {
			return dst, fmt.Errorf(
				"step %d has %d-byte sibling; expected %d bytes",
				i, len(s.Sibling), width,
			)
		}

		switch s.Position {
		case lmtree.Right:
			// Clear bit.
		case lmtree.Left:
			flags.Set(uint(i))
		default:
			return dst, fmt.Errorf("step %d has invalid position %s", i, s.Position)
		}
	}

	dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	dst = append(dst, byte(width))
	dst = appendFlags(dst, flags, n)
	for _, s := range p.Steps {
		dst = append(dst, s.Sibling...)
	}

	return dst, nil
}

func appendFlags(dst []byte, flags *bitset.BitSet, n int) []byte {
	remaining := flagBytes(n)

	var word [8]byte
	for _, w := range flags.Words() {
		if remaining <= 0 {
			break
		}

		// We use big endian in the headers for human readability,
		// but little endian for the words
		// since it is more likely to match a modern machine's endianness.
		binary.LittleEndian.PutUint64(word[:], w)

		take := min(8, remaining)
		dst = append(dst, word[:take]...)
		remaining -= take
	}

	return dst
}

func flagBytes(n int) int {
	return (n + 7) / 8
}

// rawBodySize returns the number of bytes following the raw header.
func rawBodySize(n, width int) int {
	return flagBytes(n) + n*width
}

// parseRaw decodes an entire raw layout.
// The returned proof does not reference b.
func parseRaw(b []byte) (lmtree.Proof, error) {
	if len(b) < rawHeaderSize {
		return lmtree.Proof{}, DecodeError{
			Reason: fmt.Sprintf("need %d header bytes, got %d", rawHeaderSize, len(b)),
		}
	}

	n := int(binary.BigEndian.Uint16(b))
	width := int(b[2])
	body := b[rawHeaderSize:]

	if n == 0 {
		if width != 0 || len(body) != 0 {
			return lmtree.Proof{}, DecodeError{Reason: "empty proof must have no digest width or body"}
		}
		return lmtree.Proof{}, nil
	}

	if width == 0 {
		return lmtree.Proof{}, DecodeError{Reason: "zero digest width"}
	}

	if exp := rawBodySize(n, width); len(body) != exp {
		return lmtree.Proof{}, DecodeError{
			Reason: fmt.Sprintf(
				"%d steps of %d-byte digests need %d body bytes, got %d",
				n, width, exp, len(body),
			),
		}
	}

	nFlagBytes := flagBytes(n)
	flagBuf := body[:nFlagBytes]

	words := make([]uint64, (n+63)/64)
	var word [8]byte
	for i := range words {
		clear(word[:])
		copy(word[:], flagBuf[i*8:min((i+1)*8, nFlagBytes)])
		words[i] = binary.LittleEndian.Uint64(word[:])
	}
	flags := bitset.From(words)

	// Padding bits in the final flag byte must be clear,
	// so that every proof has exactly one encoding.
	for i := n; i < nFlagBytes*8; i++ {
		if flags.Test(uint(i)) {
			return lmtree.Proof{}, DecodeError{
				Reason: fmt.Sprintf("padding flag bit %d is set", i),
			}
		}
	}

	// One allocation for every sibling,
	// so the caller may discard b.
	digests := bytes.Clone(body[nFlagBytes:])

	steps := make([]lmtree.ProofStep, n)
	for i := range steps {
		pos := lmtree.Right
		if flags.Test(uint(i)) {
			pos = lmtree.Left
		}

		start := i * width
		end := start + width
		steps[i] = lmtree.ProofStep{
			Sibling:  digests[start:end:end],
			Position: pos,
		}
	}

	return lmtree.Proof{Steps: steps}, nil
}

// RawEncoder writes proofs in the raw layout.
// Its internal buffer is reused across calls,
// so a RawEncoder must not be used concurrently.
type RawEncoder struct {
	buf []byte
}

// WriteProof writes the raw layout of p to w.
func (e *RawEncoder) WriteProof(w io.Writer, p lmtree.Proof) error {
	var err error
	e.buf, err = appendRaw(e.buf[:0], p)
	if err != nil {
		return fmt.Errorf("failed to encode raw proof: %w", err)
	}

	return e.send(w)
}

func (e *RawEncoder) send(w io.Writer) error {
	if _, err := w.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write raw proof: %w", err)
	}
	return nil
}

// RawDecoder reads proofs in the raw layout.
type RawDecoder struct {
	buf []byte
}

// ReadProof reads exactly one raw proof from r.
func (d *RawDecoder) ReadProof(r io.Reader) (lmtree.Proof, error) {
	if cap(d.buf) < rawHeaderSize {
		d.buf = make([]byte, rawHeaderSize, 128)
	} else {
		d.buf = d.buf[:rawHeaderSize]
	}

	if _, err := io.ReadFull(r, d.buf); err != nil {
		return lmtree.Proof{}, fmt.Errorf("failed to read raw proof header: %w", err)
	}

	n := int(binary.BigEndian.Uint16(d.buf))
	width := int(d.buf[2])
	sz := rawBodySize(n, width)

	if cap(d.buf) < rawHeaderSize+sz {
		buf := make([]byte, rawHeaderSize+sz)
		copy(buf, d.buf)
		d.buf = buf
	} else {
		d.buf = d.buf[:rawHeaderSize+sz]
	}

	if _, err := io.ReadFull(r, d.buf[rawHeaderSize:]); err != nil {
		return lmtree.Proof{}, fmt.Errorf("failed to read raw proof body: %w", err)
	}

	return parseRaw(d.buf)
}
