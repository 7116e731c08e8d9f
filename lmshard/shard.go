// Package lmshard commits to erasure-coded data with an lmtree Merkle tree.
//
// [Commit] splits a payload into Reed-Solomon data and parity shards
// and builds a tree whose leaves are the shards,
// so that each shard can be authenticated independently against the root.
// [Reconstruct] accepts any subset of shards with their proofs,
// discards those that fail verification,
// and recovers the payload from the remainder.
package lmshard

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/gordian-engine/lmerkle/lmtree"
	"github.com/klauspost/reedsolomon"
)

// Config is the configuration shared by [Commit] and [Reconstruct].
// Both sides must use identical values.
type Config struct {
	// How to hash shards in the underlying Merkle tree.
	Hasher lmhash.Hasher

	// DataShards is the number of shards the payload is split into.
	// ParityShards is the number of additional recovery shards.
	// Any DataShards of the total shards suffice to recover the payload.
	DataShards, ParityShards int

	// Workers is passed through to [lmtree.BuildConfig].
	Workers int
}

func (c Config) validate() {
	if c.Hasher == nil {
		panic(errors.New("BUG: Config.Hasher must not be nil"))
	}
	if c.DataShards <= 0 {
		panic(fmt.Errorf(
			"BUG: DataShards must be positive (got %d)", c.DataShards,
		))
	}
	if c.ParityShards < 0 {
		panic(fmt.Errorf(
			"BUG: ParityShards must be non-negative (got %d)", c.ParityShards,
		))
	}
}

func (c Config) buildConfig() lmtree.BuildConfig {
	return lmtree.BuildConfig{
		Hasher:  c.Hasher,
		Workers: c.Workers,
	}
}

// Commitment is the value returned by [Commit].
type Commitment struct {
	// Root is the Merkle root over all shards, data shards first.
	Root []byte

	// DataSize is the length of the uncoded payload,
	// needed to strip padding from the final data shard.
	DataSize int

	// The data and parity shards, all of equal length.
	Shards [][]byte

	// Proofs is aligned one-to-one with Shards.
	Proofs []lmtree.Proof
}

// InsufficientShardsError is returned from [Reconstruct]
// when too few shards verify against the root.
type InsufficientShardsError struct {
	Have, Need int
}

func (e InsufficientShardsError) Error() string {
	return "insufficient verified shards: have " + strconv.Itoa(e.Have) +
		", need " + strconv.Itoa(e.Need)
}

// ErrRootMismatch is returned from [Reconstruct] when the verified shards
// decode to a shard set whose tree root differs from the committed root.
// That happens only if the committer produced inconsistent parity.
var ErrRootMismatch = errors.New("reconstructed shards do not match committed root")

func newEncoder(cfg Config, shardSize int) (reedsolomon.Encoder, error) {
	enc, err := reedsolomon.New(
		cfg.DataShards, cfg.ParityShards,
		reedsolomon.WithAutoGoroutines(shardSize),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to build Reed-Solomon encoder: %w", err,
		)
	}
	return enc, nil
}

// Commit erasure-codes data and builds a Merkle tree over the shards.
//
// Commit returns an error wrapping [lmtree.ErrEmptyInput] if data is empty.
func Commit(data []byte, cfg Config) (Commitment, error) {
	cfg.validate()

	if len(data) == 0 {
		return Commitment{}, fmt.Errorf("cannot commit to empty data: %w", lmtree.ErrEmptyInput)
	}

	shardSize := (len(data) + cfg.DataShards - 1) / cfg.DataShards

	enc, err := newEncoder(cfg, shardSize)
	if err != nil {
		return Commitment{}, err
	}

	shards, err := enc.Split(data)
	if err != nil {
		return Commitment{}, fmt.Errorf(
			"failed to split data for sharding: %w", err,
		)
	}

	if err := enc.Encode(shards); err != nil {
		return Commitment{}, fmt.Errorf(
			"failed to erasure-code data: %w", err,
		)
	}

	// Now that the data is erasure-coded,
	// we can build the Merkle tree.
	tree, err := lmtree.Build(shards, cfg.buildConfig())
	if err != nil {
		return Commitment{}, fmt.Errorf("failed to build shard tree: %w", err)
	}

	proofs := make([]lmtree.Proof, len(shards))
	for i := range shards {
		proofs[i], err = tree.Prove(i)
		if err != nil {
			panic(fmt.Errorf("BUG: failed to prove shard %d: %w", i, err))
		}
	}

	return Commitment{
		Root:     bytes.Clone(tree.Root()),
		DataSize: len(data),
		Shards:   shards,
		Proofs:   proofs,
	}, nil
}

// Reconstruct recovers the payload committed to by root.
//
// The shards and proofs slices must both have one entry per shard,
// data shards first.
// A nil shard is treated as missing.
// Any shard that does not verify against root is ignored,
// so shards from untrusted sources may be passed directly.
// The input slices are not modified.
func Reconstruct(
	shards [][]byte,
	proofs []lmtree.Proof,
	root []byte,
	dataSize int,
	cfg Config,
) ([]byte, error) {
	cfg.validate()

	total := cfg.DataShards + cfg.ParityShards
	if len(shards) != total || len(proofs) != total {
		return nil, fmt.Errorf(
			"expected %d shards and proofs, got %d shards and %d proofs",
			total, len(shards), len(proofs),
		)
	}

	work := make([][]byte, total)
	have := 0
	shardSize := -1
	for i, s := range shards {
		if s == nil {
			continue
		}

		d := lmhash.LeafDigest(cfg.Hasher, s)
		if !lmtree.Verify(cfg.Hasher, proofs[i], root, d, i) {
			continue
		}

		if shardSize < 0 {
			shardSize = len(s)
		}

		work[i] = s
		have++
	}

	if have < cfg.DataShards {
		return nil, InsufficientShardsError{
			Have: have,
			Need: cfg.DataShards,
		}
	}

	if dataSize <= 0 || dataSize > shardSize*cfg.DataShards {
		return nil, fmt.Errorf(
			"data size %d out of range (0, %d]",
			dataSize, shardSize*cfg.DataShards,
		)
	}

	enc, err := newEncoder(cfg, shardSize)
	if err != nil {
		return nil, err
	}

	// Reconstruct only fills nil entries,
	// leaving the caller's shard slices untouched.
	if err := enc.Reconstruct(work); err != nil {
		return nil, fmt.Errorf("failed to reconstruct shards: %w", err)
	}

	// Every shard we accepted was proven against the root,
	// but the recovered shards were not.
	// Rebuilding the tree confirms the parity was consistent.
	tree, err := lmtree.Build(work, cfg.buildConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild shard tree: %w", err)
	}
	if !bytes.Equal(tree.Root(), root) {
		return nil, ErrRootMismatch
	}

	var out bytes.Buffer
	out.Grow(dataSize)
	if err := enc.Join(&out, work, dataSize); err != nil {
		return nil, fmt.Errorf("failed to join data shards: %w", err)
	}

	return out.Bytes(), nil
}
