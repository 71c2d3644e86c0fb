package skelfile_test

import (
	"testing"

	"github.com/spineapi/skelfile"
	_ "github.com/spineapi/skelfile/skel"
)

func TestParseColor(t *testing.T) {
	c, err := skelfile.ParseColor("ff000080")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if want := (skelfile.Color{R: 0xff, A: 0x80}); c != want {
		t.Errorf("expected %v, got: %v", want, c)
	}
	if c.Hex() != "ff000080" || c.HexRGB() != "ff0000" {
		t.Errorf("expected hex ff000080, got: %s", c.Hex())
	}
	if c, _ := skelfile.ParseColor("102030"); c.A != 0xff {
		t.Errorf("expected opaque color, got alpha %d", c.A)
	}
	for _, s := range []string{"", "abc", "ff00008", "gg000080"} {
		if _, err := skelfile.ParseColor(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
	if v := skelfile.ColorFromRGBA(c.RGBA()); v != c {
		t.Errorf("expected %v, got: %v", c, v)
	}
	if v := skelfile.White.Channel(3); v != 1 {
		t.Errorf("expected alpha 1, got: %v", v)
	}
}

func TestParseGeneration(t *testing.T) {
	tests := map[string]skelfile.Generation{
		"3.6.53": skelfile.Spine36,
		"3.7":    skelfile.Spine37,
		"3.8.99": skelfile.Spine38,
		"4.0.64": skelfile.Spine40,
		"4.2.43": skelfile.Spine42,
		"4.1.24": skelfile.GenerationUnknown,
		"":       skelfile.GenerationUnknown,
		"3.8x":   skelfile.GenerationUnknown,
	}
	for version, want := range tests {
		if g := skelfile.ParseGeneration(version); g != want {
			t.Errorf("%q: expected %s, got: %s", version, want, g)
		}
	}
	for _, g := range skelfile.Generations {
		if p := skelfile.ParseGeneration(g.DefaultVersion()); p != g {
			t.Errorf("%s: default version parses as %s", g, p)
		}
	}
}

func TestGenerationOrder(t *testing.T) {
	gens := skelfile.Generations
	for i, g := range gens {
		if i > 0 && g.Prev() != gens[i-1] {
			t.Errorf("%s: expected previous %s, got: %s", g, gens[i-1], g.Prev())
		}
		if i+1 < len(gens) && g.Next() != gens[i+1] {
			t.Errorf("%s: expected next %s, got: %s", g, gens[i+1], g.Next())
		}
	}
	if skelfile.Spine36.Prev() != skelfile.GenerationUnknown || skelfile.Spine42.Next() != skelfile.GenerationUnknown {
		t.Errorf("expected no generation beyond the ends")
	}
	if skelfile.Spine38.CurveBasis() != skelfile.Relative || skelfile.Spine40.CurveBasis() != skelfile.Absolute {
		t.Errorf("unexpected curve basis")
	}
	if skelfile.Spine37.HasStringTable() || !skelfile.Spine38.HasStringTable() {
		t.Errorf("unexpected string table support")
	}
}

func sniffSkeleton(g skelfile.Generation) *skelfile.SkeletonData {
	sd := skelfile.NewSkeletonData(g)
	sd.Bones = []*skelfile.BoneData{skelfile.NewBoneData("root", -1)}
	return sd
}

func TestSniff(t *testing.T) {
	for _, g := range skelfile.Generations {
		f := skelfile.FormatFor(g)
		if f == nil || f.Generation() != g {
			t.Errorf("%s: expected registered format", g)
			continue
		}
		b, err := f.WriteBinary(sniffSkeleton(g))
		if err != nil {
			t.Errorf("%s: unexpected error: %s", g, err)
			continue
		}
		if skelfile.IsJSON(b) {
			t.Errorf("%s: binary file detected as JSON", g)
		}
		if sg, version := skelfile.SniffBinary(b); sg != g || version != g.DefaultVersion() {
			t.Errorf("%s: expected binary generation %s %s, got: %s %s", g, g, g.DefaultVersion(), sg, version)
		}
		doc, err := f.WriteJSON(sniffSkeleton(g))
		if err != nil {
			t.Errorf("%s: unexpected error: %s", g, err)
			continue
		}
		if sg, _ := skelfile.SniffJSON(doc); sg != g {
			t.Errorf("%s: expected JSON generation %s, got: %s", g, g, sg)
		}
	}
	if g, _ := skelfile.SniffBinary([]byte{1, 2}); g != skelfile.GenerationUnknown {
		t.Errorf("expected unknown generation, got: %s", g)
	}
}

func TestIsJSON(t *testing.T) {
	tests := map[string]bool{
		`{"skeleton":{}}`: true,
		"\n\t {}":         true,
		"":                false,
		"\x00\x01{":       false,
		"  [":             false,
	}
	for s, want := range tests {
		if got := skelfile.IsJSON([]byte(s)); got != want {
			t.Errorf("%q: expected %t, got: %t", s, want, got)
		}
	}
}

func TestCopy(t *testing.T) {
	sd := sniffSkeleton(skelfile.Spine42)
	dark := skelfile.Color{R: 1}
	slot := skelfile.NewSlotData("body", 0)
	slot.Dark = &dark
	sd.Slots = []*skelfile.SlotData{slot}
	mesh := &skelfile.MeshAttachment{UVs: []float32{0, 0}}
	sd.Skins = []*skelfile.Skin{{
		Name:        "default",
		Bones:       []int{0},
		Attachments: []*skelfile.SkinAttachment{{Slot: 0, Name: "body", Attachment: mesh}},
	}}
	sd.Animations = []*skelfile.Animation{{Name: "a", Timelines: []*skelfile.Timeline{{
		Channel: skelfile.ChannelRotate,
		Frames:  []skelfile.Frame{{Curve: skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0, 0, 1, 1}}}}},
	}}}}

	c := sd.Copy()
	c.Bones[0].Name = "changed"
	c.Slots[0].Dark.R = 2
	c.Skins[0].Bones[0] = 5
	c.Skins[0].Attachments[0].Attachment.(*skelfile.MeshAttachment).UVs[0] = 9
	c.Animations[0].Timelines[0].Frames[0].Curve.Bezier[0][0] = 9

	if sd.Bones[0].Name != "root" {
		t.Errorf("bone shared with copy")
	}
	if dark.R != 1 {
		t.Errorf("dark color shared with copy")
	}
	if sd.Skins[0].Bones[0] != 0 {
		t.Errorf("skin bones shared with copy")
	}
	if mesh.UVs[0] != 0 {
		t.Errorf("attachment shared with copy")
	}
	if sd.Animations[0].Timelines[0].Frames[0].Curve.Bezier[0][0] != 0 {
		t.Errorf("curve shared with copy")
	}
}

func TestDuration(t *testing.T) {
	a := &skelfile.Animation{
		Timelines: []*skelfile.Timeline{{Frames: []skelfile.Frame{{Time: 0}, {Time: 1.5}}}},
		Events:    []skelfile.EventFrame{{Time: 2}},
	}
	if d := a.Duration(); d != 2 {
		t.Errorf("expected duration 2, got: %v", d)
	}
}
