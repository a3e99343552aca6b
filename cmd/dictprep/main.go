package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dictprep"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/logger"
)

const usage = `usage:
  dictprep split -in idioms.json -out dictionaries [-parts 10] [-pattern idioms_part%d.json]
  dictprep fixpunct -in idioms.json [-o idioms_fixed.json]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	logger.Setup(os.Stderr, "info", "text")

	var err error
	switch os.Args[1] {
	case "split":
		err = runSplit(os.Args[2:])
	case "fixpunct":
		err = runFix(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "dictprep: %v\n", err)
		os.Exit(1)
	}
}

func runSplit(args []string) error {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	in := fs.String("in", "idioms.json", "input record array")
	out := fs.String("out", "dictionaries", "output directory")
	parts := fs.Int("parts", 10, "number of partitions")
	pattern := fs.String("pattern", dictprep.DefaultPattern, "partition file name pattern")
	fs.Parse(args)

	written, err := dictprep.SplitFile(*in, *out, *pattern, *parts)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Printf("%s (%d records)\n", p.Path, p.Records)
	}
	return nil
}

func runFix(args []string) error {
	fs := flag.NewFlagSet("fixpunct", flag.ExitOnError)
	in := fs.String("in", "", "input record array")
	out := fs.String("o", "", "output path (default <stem>_fixed.json)")
	fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	path, n, err := dictprep.FixFile(*in, *out)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d records)\n", path, n)
	return nil
}
