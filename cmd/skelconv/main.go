// The skelconv command converts skeleton files between generations and
// between the binary and JSON formats.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"github.com/spineapi/skelfile/json"
)

const usage = `usage: skelconv [FLAGS] [INPUT] [OUTPUT]

Reads a binary or JSON skeleton file from INPUT, converts it to the generation
given by --to, and writes it to OUTPUT in the format given by --format.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.

With --manifest, the jobs listed in a YAML file are run instead:

    jobs:
      - input: hero.skel
        output: out/hero.json
        to: "3.8"
        format: json
        atlas: hero.atlas

Flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		j        job
		opts     options
		manifest string
		verbose  bool
	)
	flagSet := pflag.NewFlagSet("skelconv", pflag.ContinueOnError)
	flagSet.StringVar(&j.To, "to", "", "target generation, such as 3.8 or 4.2 (default: the input's generation)")
	flagSet.StringVarP(&j.Format, "format", "f", "", "output format, json or binary (default: the input's format)")
	flagSet.StringVar(&j.Atlas, "atlas", "", "atlas file to convert alongside the skeleton")
	flagSet.BoolVar(&opts.encoder.Precise, "precise", false, "write numbers with full float32 precision")
	flagSet.StringVar(&opts.encoder.Indent, "indent", "", "indentation of JSON output (default: compact)")
	flagSet.BoolVar(&opts.essential, "essential", false, "drop nonessential data")
	flagSet.BoolVar(&opts.strict, "strict", false, "fail instead of dropping data the target generation cannot hold")
	flagSet.StringVar(&manifest, "manifest", "", "run the jobs listed in a YAML file")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log each step")
	flagSet.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if manifest != "" {
		jobs, err := loadManifest(manifest)
		if err != nil {
			return err
		}
		failed := 0
		for _, mj := range jobs {
			if err := convertFile(logger, mj, opts); err != nil {
				logger.Error("job failed", "input", mj.Input, "error", err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
		}
		return nil
	}

	rest := flagSet.Args()
	if len(rest) >= 1 {
		j.Input = rest[0]
	}
	if len(rest) >= 2 {
		j.Output = rest[1]
	}
	return convertFile(logger, j, opts)
}

type options struct {
	encoder   json.Encoder
	essential bool
	strict    bool
}
