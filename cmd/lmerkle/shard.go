package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/gordian-engine/lmerkle/lmshard"
	"github.com/urfave/cli/v2"
)

func shardCommand() *cli.Command {
	return &cli.Command{
		Name:      "shard",
		Usage:     "erasure-code a file and print the Merkle root over its shards",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "data-shards",
				Usage: "number of data shards",
				Value: 4,
			},
			&cli.IntFlag{
				Name:  "parity-shards",
				Usage: "number of parity shards",
				Value: 2,
			},
		},
		Action: runShard,
	}
}

func runShard(cctx *cli.Context) error {
	log, err := configLogger(cctx)
	if err != nil {
		return err
	}

	h, err := configHasher(cctx)
	if err != nil {
		return err
	}

	if cctx.Int("data-shards") <= 0 || cctx.Int("parity-shards") < 0 {
		return fmt.Errorf("data-shards must be positive and parity-shards non-negative")
	}

	var data []byte
	if p := cctx.Args().First(); p == "" || p == "-" {
		data, err = io.ReadAll(cctx.App.Reader)
	} else {
		data, err = os.ReadFile(p)
	}
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	c, err := lmshard.Commit(data, lmshard.Config{
		Hasher:       h,
		DataShards:   cctx.Int("data-shards"),
		ParityShards: cctx.Int("parity-shards"),
		Workers:      cctx.Int("workers"),
	})
	if err != nil {
		return err
	}

	log.Info(
		"Committed shards",
		"data_size", c.DataSize,
		"shards", len(c.Shards),
		"shard_size", len(c.Shards[0]),
	)

	fmt.Fprintln(cctx.App.Writer, hex.EncodeToString(c.Root))
	return nil
}
