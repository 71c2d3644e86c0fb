package main

import (
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/atlas"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/json"
	"github.com/spineapi/skelfile/skel"
)

func writeSkeleton(t *testing.T, path string, g skelfile.Generation) {
	t.Helper()
	sd := skelfile.NewSkeletonData(g)
	sd.Bones = []*skelfile.BoneData{skelfile.NewBoneData("root", -1)}
	sd.Slots = []*skelfile.SlotData{skelfile.NewSlotData("body", 0)}
	b, err := skel.Encode(sd, false, json.Encoder{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func readSkeleton(t *testing.T, path string) (*skelfile.SkeletonData, bool) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	sd, isJSON, err := skel.Decode(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return sd, isJSON
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hero.skel")
	writeSkeleton(t, input, skelfile.Spine42)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	j := job{Input: input, Output: filepath.Join(dir, "hero.json"), To: "3.7", Format: "json"}
	if err := convertFile(logger, j, options{encoder: json.Encoder{Indent: "  "}}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	sd, isJSON := readSkeleton(t, j.Output)
	if !isJSON || sd.Generation != skelfile.Spine37 || sd.Slots[0].Name != "body" {
		t.Errorf("unexpected output %s json:%t", sd.Generation, isJSON)
	}

	// The input format is kept by default.
	j = job{Input: j.Output, Output: filepath.Join(dir, "back.skel"), To: "4.0"}
	if err := convertFile(logger, j, options{}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sd, isJSON := readSkeleton(t, j.Output); !isJSON || sd.Generation != skelfile.Spine40 {
		t.Errorf("unexpected output %s json:%t", sd.Generation, isJSON)
	}
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hero.skel")
	writeSkeleton(t, input, skelfile.Spine38)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, j := range []job{
		{Input: input, Output: filepath.Join(dir, "a"), To: "5.0"},
		{Input: input, Output: filepath.Join(dir, "b"), Format: "xml"},
		{Input: filepath.Join(dir, "missing.skel"), Output: filepath.Join(dir, "c")},
	} {
		if err := convertFile(logger, j, options{}); err == nil {
			t.Errorf("%+v: expected error", j)
		}
	}
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()
	writeSkeleton(t, filepath.Join(dir, "hero.skel"), skelfile.Spine42)
	err := os.WriteFile(filepath.Join(dir, "hero.atlas"), []byte("page.png\nsize:4,2\nscale:0.5\nhead\nbounds:0,0,2,2\n"), 0o644)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	page, err := os.Create(filepath.Join(dir, "page.png"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := atlas.EncodePage(page, "page.png", image.NewRGBA(image.Rect(0, 0, 4, 2))); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	page.Close()

	manifest := `jobs:
  - input: hero.skel
    output: out/hero.json
    to: "3.8"
    format: json
    atlas: hero.atlas
`
	path := filepath.Join(dir, "jobs.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := run([]string{"--manifest", path}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if sd, _ := readSkeleton(t, filepath.Join(dir, "out", "hero.json")); sd.Generation != skelfile.Spine38 {
		t.Errorf("expected 3.8, got: %s", sd.Generation)
	}
	f, err := os.Open(filepath.Join(dir, "out", "hero.atlas"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defer f.Close()
	a, err := atlas.Read(f)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if p := a.Pages[0]; p.Width != 8 || p.Scale != 1 || p.Regions[0].Width != 4 {
		t.Errorf("unexpected page %+v", p)
	}
	pf, err := os.Open(filepath.Join(dir, "out", "page.png"))
	if err != nil {
		t.Fatalf("expected rescaled page: %s", err)
	}
	defer pf.Close()
	img, err := atlas.DecodePage(pf, "page.png")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("expected 8x4 page, got: %dx%d", b.Dx(), b.Dy())
	}
}

func TestLoadManifestInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	if err := os.WriteFile(path, []byte("jobs:\n  - input: a.skel\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := loadManifest(path); err == nil {
		t.Errorf("expected error for job without output")
	}
}

func TestConvertFileStrict(t *testing.T) {
	dir := t.TempDir()
	sd := skelfile.NewSkeletonData(skelfile.Spine42)
	sd.Bones = []*skelfile.BoneData{skelfile.NewBoneData("root", -1)}
	sway := skelfile.NewPhysicsConstraintData("sway")
	sway.Bone = 0
	sd.PhysicsConstraints = []*skelfile.PhysicsConstraintData{sway}
	b, err := skel.Encode(sd, false, json.Encoder{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	input := filepath.Join(dir, "sway.skel")
	if err := os.WriteFile(input, b, 0o644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	j := job{Input: input, Output: filepath.Join(dir, "strict.skel"), To: "4.0"}
	if err := convertFile(logger, j, options{strict: true}); !errors.Is(err, errors.ErrDataLoss) {
		t.Errorf("expected ErrDataLoss, got: %v", err)
	}
	if _, err := os.Stat(j.Output); err == nil {
		t.Errorf("expected no output")
	}
	j.Output = filepath.Join(dir, "lossy.skel")
	if err := convertFile(logger, j, options{}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sd, _ := readSkeleton(t, j.Output); len(sd.PhysicsConstraints) != 0 || sd.Generation != skelfile.Spine40 {
		t.Errorf("expected physics to be dropped")
	}
}
