package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

const legacyAtlas = `
hero.png
size: 256,128
format: RGBA8888
filter: Linear,Linear
repeat: none
head
  rotate: true
  xy: 2, 4
  size: 30, 40
  orig: 32, 42
  offset: 1, 1
  index: -1
frame
  rotate: false
  xy: 40, 4
  size: 10, 10
  split: 1, 2, 3, 4
  orig: 10, 10
  offset: 0, 0
  index: 2
`

const modernAtlas = `hero.png
size:512,256
filter:Linear,MipMapLinearLinear
pma:true
scale:0.5
head
bounds:2,4,30,40
offsets:1,1,32,42
rotate:90
tail
bounds:40,4,10,10
index:3
hue:1,2

extra.png
size:64,64
glow
bounds:0,0,8,8
`

func TestReadLegacy(t *testing.T) {
	a, err := Read(strings.NewReader(legacyAtlas))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(a.Pages) != 1 {
		t.Fatalf("expected 1 page, got: %d", len(a.Pages))
	}
	p := a.Pages[0]
	if p.Name != "hero.png" || p.Width != 256 || p.Height != 128 || p.MinFilter != "Linear" || p.Scale != 1 {
		t.Errorf("unexpected page %+v", p)
	}
	if len(p.Regions) != 2 {
		t.Fatalf("expected 2 regions, got: %d", len(p.Regions))
	}
	head := p.Regions[0]
	if head.Degrees != 90 || head.X != 2 || head.Y != 4 || head.Width != 30 || head.OriginalHeight != 42 || head.OffsetX != 1 {
		t.Errorf("unexpected region %+v", head)
	}
	frame := p.Regions[1]
	if frame.Degrees != 0 || frame.Index != 2 || len(frame.Split) != 4 || frame.Split[3] != 4 || frame.Pad != nil {
		t.Errorf("unexpected region %+v", frame)
	}
}

func TestReadModern(t *testing.T) {
	a, err := Read(strings.NewReader(modernAtlas))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(a.Pages) != 2 {
		t.Fatalf("expected 2 pages, got: %d", len(a.Pages))
	}
	p := a.Pages[0]
	if !p.PMA || p.Scale != 0.5 || p.MagFilter != "MipMapLinearLinear" || p.Format != "RGBA8888" {
		t.Errorf("unexpected page %+v", p)
	}
	if len(p.Regions) != 2 {
		t.Fatalf("expected 2 regions, got: %d", len(p.Regions))
	}
	tail := p.Regions[1]
	if tail.Index != 3 || tail.OriginalWidth != 10 || tail.OriginalHeight != 10 {
		t.Errorf("unexpected region %+v", tail)
	}
	if len(tail.Fields) != 1 || tail.Fields[0].Name != "hue" || tail.Fields[0].Values[1] != 2 {
		t.Errorf("unexpected fields %v", tail.Fields)
	}
	if glow := a.Pages[1].Regions[0]; glow.Name != "glow" || glow.Index != -1 || glow.Width != 8 {
		t.Errorf("unexpected region %+v", glow)
	}
}

func TestReadError(t *testing.T) {
	_, err := Read(strings.NewReader("page.png\nsize:1\n"))
	var serr SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected syntax error, got: %v", err)
	}
	if serr.Line != 2 {
		t.Errorf("expected line 2, got: %d", serr.Line)
	}
	if _, err := Read(strings.NewReader("page.png\nhead\nxy:a,b\n")); err == nil {
		t.Errorf("expected error")
	}
}

func TestWriteModern(t *testing.T) {
	a, err := Read(strings.NewReader(modernAtlas))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var buf bytes.Buffer
	n, err := Write(&buf, a, false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("expected %d bytes written, got: %d", buf.Len(), n)
	}
	if buf.String() != modernAtlas {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteLegacy(t *testing.T) {
	a, err := Read(strings.NewReader(legacyAtlas))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var buf bytes.Buffer
	if _, err := Write(&buf, a, true); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if buf.String() != legacyAtlas {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestDowngrade(t *testing.T) {
	a, err := Read(strings.NewReader(modernAtlas))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	out, rescale := Downgrade(a)
	if len(rescale) != 1 || rescale[0] != "hero.png" {
		t.Errorf("expected hero.png to be rescaled, got: %v", rescale)
	}
	p := out.Pages[0]
	if p.PMA || p.Scale != 1 || p.Width != 1024 || p.Height != 512 {
		t.Errorf("unexpected page %+v", p)
	}
	if head := p.Regions[0]; head.X != 4 || head.Y != 8 || head.Width != 60 || head.OriginalWidth != 64 {
		t.Errorf("unexpected region %+v", head)
	}
	if tail := p.Regions[1]; tail.Fields != nil {
		t.Errorf("expected custom fields to be dropped")
	}
	if a.Pages[0].Scale != 0.5 || a.Pages[0].Regions[0].X != 2 || a.Pages[0].Regions[1].Fields == nil {
		t.Errorf("source atlas was modified")
	}
	if out.Pages[1].Width != 64 {
		t.Errorf("unscaled page was resized")
	}
}

func TestRescalePage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}
	dst := RescalePage(src, 0.5)
	if b := dst.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("expected 8x4 image, got: %dx%d", b.Dx(), b.Dy())
	}
	if c := dst.RGBAAt(3, 2); c.R != 0xff || c.A != 0xff {
		t.Errorf("expected opaque red, got: %v", c)
	}
}

func TestPageImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(1, 1, color.RGBA{G: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := EncodePage(&buf, "page.PNG", src); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	img, err := DecodePage(&buf, "page.PNG")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, g, _, _ := img.At(1, 1).RGBA(); g != 0xffff {
		t.Errorf("expected green pixel, got: %v", img.At(1, 1))
	}
	if err := EncodePage(&buf, "page.bmp", src); !errors.Is(err, ErrImageFormat) {
		t.Errorf("expected ErrImageFormat, got: %v", err)
	}
	if _, err := DecodePage(&buf, "page.bmp"); !errors.Is(err, ErrImageFormat) {
		t.Errorf("expected ErrImageFormat, got: %v", err)
	}
}

func TestDecodePageByName(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	var buf bytes.Buffer
	if err := EncodePage(&buf, "page.png", src); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	b := buf.Bytes()
	// TGA has no signature, so PNG data must not be handed to it.
	img, err := DecodePage(bytes.NewReader(b), "pages/hero.png")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("expected width 3, got: %d", img.Bounds().Dx())
	}
	if _, err := DecodePage(bytes.NewReader(b), "hero.webp"); err == nil {
		t.Errorf("expected PNG data to fail as WebP")
	}
}
