// Command mscr is a thin CLI wrapper around the memscrimper package.
//
// Usage:
//
//	mscr c [-pagesize N] [-nointra] [-delta tag] [-inner name] reference target output
//	mscr d reference source output
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mbrengel/memscrimper"
	"github.com/mbrengel/memscrimper/format"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "c":
		return runCompress(args[1:])
	case "d":
		return runDecompress(args[1:])
	default:
		usage()
		return 2
	}
}

func runCompress(args []string) int {
	fs := flag.NewFlagSet("c", flag.ContinueOnError)
	pagesize := fs.Uint("pagesize", 4096, "page size in bytes")
	nointra := fs.Bool("nointra", false, "disable intra-dump deduplication of new pages")
	delta := fs.String("delta", "", "enable delta encoding, tagged with the given name (an empty name alone leaves it disabled; see -enable-delta)")
	deltaEnabled := fs.Bool("enable-delta", false, "enable delta encoding (set automatically if -delta is non-empty)")
	inner := fs.String("inner", "", "outer compressor: gzip, bzip2, 7zip, zstd, s2, lz4, or empty for none")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: mscr c [flags] reference target output")
		return 2
	}

	opts := []memscrimper.Option{memscrimper.WithPageSize(uint32(*pagesize)), memscrimper.WithNoIntra(*nointra)} //nolint:gosec
	if *deltaEnabled || *delta != "" {
		opts = append(opts, memscrimper.WithDelta(*delta))
	}
	if *inner != "" {
		codec, ok := format.ParseInnerCodec(*inner)
		if !ok {
			fmt.Fprintf(os.Stderr, "mscr: unknown inner codec %q\n", *inner)
			return 2
		}
		opts = append(opts, memscrimper.WithInner(codec))
	}

	reference, target, output := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	stats, err := memscrimper.Compress(reference, target, output, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mscr: %v\n", err)
		return 1
	}

	fmt.Printf("same-offset=%d dedup=%d delta=%d new=%d\n", stats.SameOffset, stats.Dedup, stats.Delta, stats.New)

	return 0
}

func runDecompress(args []string) int {
	fs := flag.NewFlagSet("d", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: mscr d reference source output")
		return 2
	}

	reference, source, output := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	stats, err := memscrimper.Decompress(reference, source, output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mscr: %v\n", err)
		return 1
	}

	fmt.Printf("same-offset=%d dedup=%d delta=%d new=%d\n", stats.SameOffset, stats.Dedup, stats.Delta, stats.New)

	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mscr c [flags] reference target output")
	fmt.Fprintln(os.Stderr, "       mscr d reference source output")
}
