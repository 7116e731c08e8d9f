// Command lmerkle builds Merkle trees over line-delimited leaves,
// and generates and verifies membership proofs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/gordian-engine/lmerkle/lmhash/lmhashes"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return newApp(os.Stdin, os.Stdout, os.Stderr).Run(args)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:    "lmerkle",
		Usage:   "layered binary Merkle tree tool",
		Version: versioninfo.Short(),

		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "hash",
				Usage:   "digest primitive: " + strings.Join(lmhashes.Names(), ", ") + " (append " + lmhashes.TaggedSuffix + " for domain separation)",
				Value:   "keccak256",
				EnvVars: []string{"LMERKLE_HASH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LMERKLE_LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "goroutines used to hash each tree layer",
				Value:   1,
				EnvVars: []string{"LMERKLE_WORKERS"},
			},
		},
	}
	app.Commands = []*cli.Command{
		rootCommand(),
		proveCommand(),
		verifyCommand(),
		hashCommand(),
		shardCommand(),
	}
	return app
}

func configLogger(cctx *cli.Context) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cctx.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	h := slog.NewTextHandler(cctx.App.ErrWriter, &slog.HandlerOptions{Level: level})
	return slog.New(h), nil
}

func configHasher(cctx *cli.Context) (lmhash.Hasher, error) {
	return lmhashes.ByName(cctx.String("hash"))
}
