package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gordian-engine/lmerkle/lmcodec"
	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/gordian-engine/lmerkle/lmtree"
	"github.com/urfave/cli/v2"
)

var errVerifyFailed = errors.New("proof does not verify")

func leavesFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "leaves",
		Aliases: []string{"l"},
		Usage:   "file of newline-delimited leaves; repeat to append more files in order (default: stdin)",
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:   "root",
		Usage:  "print the hex root digest of the leaves",
		Flags:  []cli.Flag{leavesFlag()},
		Action: runRoot,
	}
}

func proveCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "print the leaf index and hex-encoded proof for one leaf",
		Flags: []cli.Flag{
			leavesFlag(),
			&cli.StringFlag{
				Name:  "leaf",
				Usage: "leaf content to prove",
			},
			&cli.IntFlag{
				Name:  "index",
				Usage: "leaf index to prove, if --leaf is not set",
				Value: -1,
			},
		},
		Action: runProve,
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "check a proof against a root; exits non-zero on failure",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "root",
				Usage:    "hex root digest",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "leaf",
				Usage:    "leaf content",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "index",
				Usage:    "leaf index",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "proof",
				Usage:    "hex-encoded proof, as printed by prove",
				Required: true,
			},
		},
		Action: runVerify,
	}
}

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "print the hex leaf digest of each argument",
		ArgsUsage: "<data>...",
		Action:    runHash,
	}
}

// buildTree appends every configured leaf file through a handle,
// so each file is committed in order.
func buildTree(cctx *cli.Context) (*lmtree.Tree, error) {
	log, err := configLogger(cctx)
	if err != nil {
		return nil, err
	}

	h, err := configHasher(cctx)
	if err != nil {
		return nil, err
	}

	handle := lmtree.NewHandle(log, lmtree.BuildConfig{
		Hasher:  h,
		Workers: cctx.Int("workers"),
	})

	paths := cctx.StringSlice("leaves")
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	for _, p := range paths {
		leaves, err := readLeavesFrom(cctx, p)
		if err != nil {
			return nil, err
		}

		log.Info("Read leaves", "source", p, "count", len(leaves))

		if _, err := handle.AddLeaves(leaves); err != nil {
			return nil, err
		}
	}

	return handle.Tree(), nil
}

func readLeavesFrom(cctx *cli.Context, path string) ([][]byte, error) {
	if path == "-" {
		return readLeaves(cctx.App.Reader)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open leaves file: %w", err)
	}
	defer f.Close()

	return readLeaves(f)
}

// readLeaves returns one leaf per line of r, without line terminators.
func readLeaves(r io.Reader) ([][]byte, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var leaves [][]byte
	for s.Scan() {
		leaves = append(leaves, bytes.Clone(s.Bytes()))
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaves: %w", err)
	}
	return leaves, nil
}

func runRoot(cctx *cli.Context) error {
	t, err := buildTree(cctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cctx.App.Writer, hex.EncodeToString(t.Root()))
	return nil
}

func runProve(cctx *cli.Context) error {
	t, err := buildTree(cctx)
	if err != nil {
		return err
	}

	var p lmtree.Proof
	var idx int
	if cctx.IsSet("leaf") {
		d := lmhash.LeafDigest(t.Hasher(), []byte(cctx.String("leaf")))

		var ok bool
		p, idx, ok = t.ContainsLeaf(d)
		if !ok {
			return fmt.Errorf("leaf %q not found", cctx.String("leaf"))
		}
	} else {
		idx = cctx.Int("index")
		p, err = t.Prove(idx)
		if err != nil {
			return err
		}
	}

	b, err := lmcodec.MarshalProof(p)
	if err != nil {
		return fmt.Errorf("failed to encode proof: %w", err)
	}

	fmt.Fprintf(cctx.App.Writer, "%d %s\n", idx, hex.EncodeToString(b))
	return nil
}

func runVerify(cctx *cli.Context) error {
	h, err := configHasher(cctx)
	if err != nil {
		return err
	}

	root, err := hex.DecodeString(cctx.String("root"))
	if err != nil {
		return fmt.Errorf("failed to decode root: %w", err)
	}

	pb, err := hex.DecodeString(cctx.String("proof"))
	if err != nil {
		return fmt.Errorf("failed to decode proof: %w", err)
	}

	p, err := lmcodec.UnmarshalProof(pb)
	if err != nil {
		return err
	}

	d := lmhash.LeafDigest(h, []byte(cctx.String("leaf")))
	if !lmtree.Verify(h, p, root, d, cctx.Int("index")) {
		return errVerifyFailed
	}

	fmt.Fprintln(cctx.App.Writer, "ok")
	return nil
}

func runHash(cctx *cli.Context) error {
	h, err := configHasher(cctx)
	if err != nil {
		return err
	}

	if cctx.NArg() == 0 {
		return fmt.Errorf("need to provide data as an argument")
	}

	for _, a := range cctx.Args().Slice() {
		fmt.Fprintln(cctx.App.Writer, hex.EncodeToString(lmhash.LeafDigest(h, []byte(a))))
	}
	return nil
}
