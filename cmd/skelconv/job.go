package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/atlas"
	"github.com/spineapi/skelfile/convert"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/skel"
)

// job is one conversion. Empty fields take their value from the input.
type job struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	To     string `yaml:"to"`
	Format string `yaml:"format"`
	Atlas  string `yaml:"atlas"`
}

type manifest struct {
	Jobs []job `yaml:"jobs"`
}

func loadManifest(path string) ([]job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	// Paths are relative to the manifest.
	dir := filepath.Dir(path)
	for i := range m.Jobs {
		j := &m.Jobs[i]
		if j.Input == "" || j.Output == "" {
			return nil, fmt.Errorf("manifest %s: job %d: input and output are required", path, i)
		}
		j.Input = relative(dir, j.Input)
		j.Output = relative(dir, j.Output)
		if j.Atlas != "" {
			j.Atlas = relative(dir, j.Atlas)
		}
	}
	return m.Jobs, nil
}

func relative(dir, path string) string {
	if path == "-" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// logWarnings logs each warning of a conversion, and returns the warnings
// that report lost data.
func logWarnings(logger *slog.Logger, input string, warn error) errors.Errors {
	if warn == nil {
		return nil
	}
	var errs errors.Errors
	if !errors.As(warn, &errs) {
		errs = errors.Errors{warn}
	}
	for _, w := range errs {
		logger.Warn("lossy conversion", "input", input, "warning", w)
	}
	return errs.Filter(errors.ErrDataLoss)
}

func convertFile(logger *slog.Logger, j job, opts options) error {
	b, err := readInput(j.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	sd, isJSON, err := skel.Decode(b)
	if err != nil {
		return fmt.Errorf("decode %s: %w", j.Input, err)
	}
	logger.Debug("decoded", "input", j.Input, "version", sd.Version, "json", isJSON)

	from := sd.Generation
	to := from
	if j.To != "" {
		if to = skelfile.ParseGeneration(j.To); to == skelfile.GenerationUnknown {
			return fmt.Errorf("unknown generation %q", j.To)
		}
	}
	out, warn, err := convert.Convert(sd, to, &convert.Options{Essential: opts.essential})
	if err != nil {
		return fmt.Errorf("convert %s: %w", j.Input, err)
	}
	if lost := logWarnings(logger, j.Input, warn); len(lost) > 0 && opts.strict {
		return fmt.Errorf("convert %s: %w", j.Input, lost)
	}

	switch strings.ToLower(j.Format) {
	case "":
	case "json":
		isJSON = true
	case "binary", "skel":
		isJSON = false
	default:
		return fmt.Errorf("unknown format %q", j.Format)
	}
	data, err := skel.Encode(out, isJSON, opts.encoder)
	if err != nil {
		return fmt.Errorf("encode %s: %w", j.Output, err)
	}
	if err := writeOutput(j.Output, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Debug("converted", "input", j.Input, "from", from, "to", to, "bytes", len(data))

	if j.Atlas != "" {
		return convertAtlas(logger, j, to)
	}
	return nil
}

// convertAtlas writes the atlas of a job next to its output, in the layout
// read by generation g. Pages that must be rescaled are written next to the
// output atlas.
func convertAtlas(logger *slog.Logger, j job, g skelfile.Generation) error {
	f, err := os.Open(j.Atlas)
	if err != nil {
		return fmt.Errorf("open atlas: %w", err)
	}
	a, err := atlas.Read(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read atlas %s: %w", j.Atlas, err)
	}

	output := "-"
	if j.Output != "" && j.Output != "-" {
		output = strings.TrimSuffix(j.Output, filepath.Ext(j.Output)) + ".atlas"
	}
	legacy := g < skelfile.Spine40
	if legacy {
		scales := map[string]float32{}
		for _, p := range a.Pages {
			scales[p.Name] = p.Scale
		}
		var rescale []string
		a, rescale = atlas.Downgrade(a)
		for _, name := range rescale {
			if output == "-" {
				logger.Warn("page not rescaled", "page", name)
				continue
			}
			src := filepath.Join(filepath.Dir(j.Atlas), name)
			dst := filepath.Join(filepath.Dir(output), name)
			if err := rescalePage(src, dst, scales[name]); err != nil {
				return fmt.Errorf("rescale page %s: %w", name, err)
			}
			logger.Debug("rescaled page", "page", name, "scale", scales[name])
		}
	}

	var w io.Writer = os.Stdout
	if output != "-" {
		out, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create atlas: %w", err)
		}
		defer out.Close()
		w = out
	}
	if _, err := atlas.Write(w, a, legacy); err != nil {
		return fmt.Errorf("write atlas: %w", err)
	}
	return nil
}

func rescalePage(src, dst string, scale float32) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	img, err := atlas.DecodePage(in, src)
	in.Close()
	if err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	return atlas.EncodePage(out, dst, atlas.RescalePage(img, scale))
}
