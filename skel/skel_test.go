package skel

import (
	"bytes"
	"testing"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/json"
)

// testSkeleton returns a skeleton exercising most of the features of g.
func testSkeleton(g skelfile.Generation) *skelfile.SkeletonData {
	sd := skelfile.NewSkeletonData(g)
	sd.Width = 120
	sd.Height = 240
	sd.Nonessential = true
	sd.ImagesPath = "./images/"

	arm := skelfile.NewBoneData("arm", 0)
	arm.Length = 50
	arm.Rotation = 45
	arm.X = 10
	sd.Bones = []*skelfile.BoneData{skelfile.NewBoneData("root", -1), arm}

	body := skelfile.NewSlotData("body", 0)
	body.Attachment = "body"
	hand := skelfile.NewSlotData("hand", 1)
	hand.Attachment = "hand"
	hand.Dark = &skelfile.Color{R: 0x10, G: 0x20, B: 0x30}
	sd.Slots = []*skelfile.SlotData{body, hand}

	ik := skelfile.NewIKConstraintData("aim")
	ik.Bones = []int{1}
	ik.Target = 0
	ik.Mix = 0.5
	tc := skelfile.NewTransformConstraintData("follow")
	tc.Order = 1
	tc.Bones = []int{1}
	tc.Target = 0
	tc.OffsetRotation = 10
	pc := skelfile.NewPathConstraintData("track")
	pc.Order = 2
	pc.Bones = []int{1}
	pc.Target = 1
	pc.Position = 0.25
	sd.IKConstraints = []*skelfile.IKConstraintData{ik}
	sd.TransformConstraints = []*skelfile.TransformConstraintData{tc}
	sd.PathConstraints = []*skelfile.PathConstraintData{pc}

	region := skelfile.NewRegionAttachment()
	region.Path = "images/body"
	region.Width = 32
	region.Height = 48
	mesh := &skelfile.MeshAttachment{
		Vertices: skelfile.Vertices{
			VertexCount: 3,
			Vertices:    []float32{0, 0, 10, 0, 0, 10},
		},
		UVs:       []float32{0, 0, 1, 0, 0, 1},
		Triangles: []int{0, 1, 2},
		Hull:      3,
		Color:     skelfile.White,
		Edges:     []int{0, 2, 2, 4, 4, 0},
		Width:     10,
		Height:    10,
	}
	path := &skelfile.PathAttachment{
		Vertices: skelfile.Vertices{
			VertexCount: 3,
			Vertices:    []float32{0, 0, 5, 5, 10, 0},
		},
		Lengths:       []float32{100},
		ConstantSpeed: true,
		Color:         skelfile.PathColor,
	}
	alt := skelfile.NewRegionAttachment()
	alt.Name = "body2"
	alt.Width = 16
	alt.Height = 16
	sd.Skins = []*skelfile.Skin{
		{
			Name:  "default",
			Color: skelfile.DefaultSkinColor,
			Attachments: []*skelfile.SkinAttachment{
				{Slot: 0, Name: "body", Attachment: region},
				{Slot: 1, Name: "hand", Attachment: mesh},
				{Slot: 1, Name: "track", Attachment: path},
			},
		},
		{
			Name:  "alt",
			Color: skelfile.DefaultSkinColor,
			Attachments: []*skelfile.SkinAttachment{
				{Slot: 0, Name: "body", Attachment: alt},
			},
		},
	}
	if g >= skelfile.Spine38 {
		sd.Skins[1].Bones = []int{1}
		sd.Skins[1].Constraints = []skelfile.ConstraintRef{{Kind: skelfile.KindIK, Index: 0}}
	}

	hit := skelfile.NewEventData("hit")
	hit.Int = 3
	hit.String = "boom"
	sd.Events = []*skelfile.EventData{hit}

	curve := skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0.25, 0, 0.75, 1}}}
	if g.CurveBasis() == skelfile.Absolute {
		curve.Bezier = [][4]float32{{0.25, 0, 0.75, 45}}
	}
	a := &skelfile.Animation{Name: "walk"}
	a.Timelines = []*skelfile.Timeline{
		{Channel: skelfile.ChannelRotate, Target: 1, Frames: []skelfile.Frame{
			{Time: 0, Curve: curve},
			{Time: 1, Value: [6]float32{45}},
		}},
		{Channel: skelfile.ChannelAttachment, Target: 0, Frames: []skelfile.Frame{
			{Time: 0, Name: "body"},
			{Time: 0.5},
		}},
		{Channel: skelfile.ChannelRGBA, Target: 0, Frames: []skelfile.Frame{
			{Time: 0, Light: skelfile.White, Curve: skelfile.Curve{Type: skelfile.CurveStepped}},
			{Time: 1, Light: skelfile.Color{R: 0xff, A: 0x80}},
		}},
		{Channel: skelfile.ChannelIK, Target: 0, Frames: []skelfile.Frame{
			{Time: 0, Value: [6]float32{1}, Bend: 1},
			{Time: 1, Value: [6]float32{0.5}, Bend: -1},
		}},
		{Channel: skelfile.ChannelDeform, Target: 1, Skin: 0, Slot: 1, Attachment: "hand", Frames: []skelfile.Frame{
			{Time: 0, Offset: 2, Vertices: []float32{1, 1}},
			{Time: 1},
		}},
	}
	if g >= skelfile.Spine40 {
		a.Timelines = append(a.Timelines, &skelfile.Timeline{
			Channel: skelfile.ChannelTranslateX, Target: 1, Frames: []skelfile.Frame{
				{Time: 0, Value: [6]float32{5}},
			},
		})
	}
	a.DrawOrder = []skelfile.DrawOrderFrame{
		{Time: 0.5, Offsets: []skelfile.DrawOrderOffset{{Slot: 1, Offset: -1}}},
		{Time: 1},
	}
	a.Events = []skelfile.EventFrame{
		{Time: 0.25, Event: 0, Int: 3, Volume: 1},
		{Time: 0.75, Event: 0, Int: 4, String: "bang", HasString: true, Volume: 1},
	}
	sd.Animations = []*skelfile.Animation{a}

	if g >= skelfile.Spine42 {
		sway := skelfile.NewPhysicsConstraintData("sway")
		sway.Order = 3
		sway.Bone = 1
		sway.X = 1
		sway.Limit = 2000
		sd.PhysicsConstraints = []*skelfile.PhysicsConstraintData{sway}
		region.Sequence = skelfile.NewSequence(3)
		a.Timelines = append(a.Timelines,
			&skelfile.Timeline{Channel: skelfile.ChannelPhysicsWind, Target: -1, Frames: []skelfile.Frame{
				{Time: 0, Value: [6]float32{2}},
			}},
			&skelfile.Timeline{Channel: skelfile.ChannelPhysicsReset, Target: 0, Frames: []skelfile.Frame{
				{Time: 0.5},
			}},
			&skelfile.Timeline{Channel: skelfile.ChannelSequence, Target: 0, Skin: 0, Slot: 0, Attachment: "body", Frames: []skelfile.Frame{
				{Time: 0, Mode: skelfile.SequenceLoop, Index: 1, Value: [6]float32{0.1}},
			}},
			&skelfile.Timeline{Channel: skelfile.ChannelInherit, Target: 1, Frames: []skelfile.Frame{
				{Time: 0, Inherit: skelfile.InheritNoScale},
			}},
		)
	}
	return sd
}

func TestBinaryRoundTrip(t *testing.T) {
	for _, g := range skelfile.Generations {
		c := NewCodec(g)
		b1, err := c.WriteBinary(testSkeleton(g))
		if err != nil {
			t.Errorf("%s: unexpected write error: %s", g, err)
			continue
		}
		sd, err := c.ReadBinary(b1)
		if err != nil {
			t.Errorf("%s: unexpected read error: %s", g, err)
			continue
		}
		if sd.Generation != g {
			t.Errorf("%s: expected generation %s, got: %s", g, g, sd.Generation)
		}
		if sd.Version != g.DefaultVersion() {
			t.Errorf("%s: expected version %s, got: %s", g, g.DefaultVersion(), sd.Version)
		}
		if len(sd.Bones) != 2 || sd.Bones[1].Name != "arm" || sd.Bones[1].Rotation != 45 {
			t.Errorf("%s: unexpected bones", g)
		}
		if len(sd.Animations) != 1 || len(sd.Animations[0].Events) != 2 {
			t.Errorf("%s: unexpected animations", g)
		}
		b2, err := c.WriteBinary(sd)
		if err != nil {
			t.Errorf("%s: unexpected rewrite error: %s", g, err)
			continue
		}
		if !bytes.Equal(b1, b2) {
			t.Errorf("%s: rewritten file differs from original", g)
		}
	}
}

func TestBinaryRoundTripValues(t *testing.T) {
	c := NewCodec(skelfile.Spine38)
	b, err := c.WriteBinary(testSkeleton(skelfile.Spine38))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	sd, err := c.ReadBinary(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if dark := sd.Slots[1].Dark; dark == nil || *dark != (skelfile.Color{R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("expected dark color, got: %v", dark)
	}
	if sd.Slots[0].Dark != nil {
		t.Errorf("expected no dark color, got: %v", sd.Slots[0].Dark)
	}
	if skin := sd.Skins[1]; skin.Name != "alt" || len(skin.Bones) != 1 || len(skin.Constraints) != 1 {
		t.Errorf("unexpected skin %q", skin.Name)
	}
	a := sd.Animations[0]
	var deform *skelfile.Timeline
	for _, tl := range a.Timelines {
		if tl.Channel == skelfile.ChannelDeform {
			deform = tl
		}
	}
	if deform == nil {
		t.Fatalf("expected deform timeline")
	}
	if deform.Attachment != "hand" || deform.Frames[0].Offset != 2 || len(deform.Frames[0].Vertices) != 2 {
		t.Errorf("unexpected deform timeline")
	}
	if e := a.Events[1]; !e.HasString || e.String != "bang" {
		t.Errorf("expected event string %q, got: %q", "bang", e.String)
	}
	if e := a.Events[0]; e.HasString {
		t.Errorf("expected event without string")
	}
	if len(sd.Strings) == 0 {
		t.Errorf("expected string table")
	}
}

func TestBinaryEmptyStrings(t *testing.T) {
	sd := testSkeleton(skelfile.Spine37)
	sd.ImagesPath, sd.HasImagesPath = "", true
	hit := sd.Events[0]
	hit.String, hit.HasString = "", true
	hit.AudioPath, hit.HasAudioPath = "", true
	hit.Volume = 0.5

	c := NewCodec(skelfile.Spine37)
	b1, err := c.WriteBinary(sd)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	back, err := c.ReadBinary(b1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !back.HasImagesPath || back.ImagesPath != "" {
		t.Errorf("expected empty images path")
	}
	if e := back.Events[0]; !e.HasString || !e.HasAudioPath || e.Volume != 0.5 {
		t.Errorf("expected empty event string and audio path, got: %+v", e)
	}
	b2, err := c.WriteBinary(back)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Errorf("rewritten file differs from original")
	}

	// Absent strings are written with a zero length, empty ones with one.
	hit.HasString = false
	b3, err := c.WriteBinary(sd)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(b3) != len(b1) || bytes.Equal(b1, b3) {
		t.Errorf("expected absent event string to differ from empty one")
	}
}

func TestBezierCount(t *testing.T) {
	bezier := skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0.25, 0, 0.75, 1}, {0.25, 0, 0.75, 1}}}
	tl := &skelfile.Timeline{Channel: skelfile.ChannelTranslate, Target: 0, Frames: []skelfile.Frame{
		{Time: 0, Curve: bezier},
		{Time: 1, Value: [6]float32{5, 5}, Curve: bezier},
	}}
	if n := bezierCount(tl); n != 2 {
		t.Errorf("expected 2 bezier curves, got: %d", n)
	}

	sd := skelfile.NewSkeletonData(skelfile.Spine42)
	sd.Bones = []*skelfile.BoneData{skelfile.NewBoneData("root", -1)}
	sd.Animations = []*skelfile.Animation{{Name: "move", Timelines: []*skelfile.Timeline{tl}}}
	c := NewCodec(skelfile.Spine42)
	b, err := c.WriteBinary(sd)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	back, err := c.ReadBinary(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	frames := back.Animations[0].Timelines[0].Frames
	if len(frames) != 2 || frames[0].Curve.Type != skelfile.CurveBezier || frames[1].Value[0] != 5 {
		t.Errorf("unexpected frames %+v", frames)
	}
}

func TestBinaryTruncated(t *testing.T) {
	for _, g := range skelfile.Generations {
		c := NewCodec(g)
		b, err := c.WriteBinary(testSkeleton(g))
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", g, err)
		}
		for _, n := range []int{1, len(b) / 3, len(b) / 2, len(b) - 1} {
			_, err := c.ReadBinary(b[:n])
			if !errors.Is(err, errors.ErrTruncatedInput) {
				t.Errorf("%s: %d bytes: expected truncated input, got: %v", g, n, err)
			}
		}
	}
}

func TestBinaryTrailingData(t *testing.T) {
	c := NewCodec(skelfile.Spine37)
	b, err := c.WriteBinary(testSkeleton(skelfile.Spine37))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	_, err = c.ReadBinary(append(b, 0))
	if !errors.Is(err, errors.ErrTrailingData) {
		t.Errorf("expected trailing data error, got: %v", err)
	}
}

func TestBinaryVersionMismatch(t *testing.T) {
	tests := []struct {
		write, read skelfile.Generation
	}{
		{skelfile.Spine38, skelfile.Spine37},
		{skelfile.Spine36, skelfile.Spine38},
		{skelfile.Spine42, skelfile.Spine40},
	}
	for _, test := range tests {
		b, err := NewCodec(test.write).WriteBinary(testSkeleton(test.write))
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", test.write, err)
		}
		_, err = NewCodec(test.read).ReadBinary(b)
		if !errors.Is(err, errors.ErrUnexpectedVersion) {
			t.Errorf("%s as %s: expected version error, got: %v", test.write, test.read, err)
		}
	}
}

func TestWriteUnsupported(t *testing.T) {
	sd := testSkeleton(skelfile.Spine42)
	sd.Generation = skelfile.Spine40
	if _, err := NewCodec(skelfile.Spine40).WriteBinary(sd); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected unsupported error, got: %v", err)
	}
	sd = testSkeleton(skelfile.Spine38)
	if _, err := NewCodec(skelfile.Spine40).WriteBinary(sd); !errors.Is(err, errors.ErrUnexpectedVersion) {
		t.Errorf("expected version error, got: %v", err)
	}
}

func TestWriteUnresolved(t *testing.T) {
	sd := testSkeleton(skelfile.Spine37)
	sd.Slots[0].Bone = 5
	_, err := NewCodec(skelfile.Spine37).WriteBinary(sd)
	if !errors.Is(err, errors.ErrUnresolvedReference) {
		t.Errorf("expected unresolved reference, got: %v", err)
	}
}

func encodeJSON(t *testing.T, c *Codec, sd *skelfile.SkeletonData) []byte {
	t.Helper()
	doc, err := c.WriteJSON(sd)
	if err != nil {
		t.Fatalf("%s: unexpected write error: %s", c.Generation(), err)
	}
	b, err := json.Encoder{Precise: true, Indent: "  "}.Encode(doc)
	if err != nil {
		t.Fatalf("%s: unexpected encode error: %s", c.Generation(), err)
	}
	return b
}

func TestJSONRoundTrip(t *testing.T) {
	for _, g := range skelfile.Generations {
		c := NewCodec(g)
		b1 := encodeJSON(t, c, testSkeleton(g))
		doc, err := json.DecodeObject(b1)
		if err != nil {
			t.Fatalf("%s: unexpected decode error: %s", g, err)
		}
		sd, err := c.ReadJSON(doc)
		if err != nil {
			t.Errorf("%s: unexpected read error: %s", g, err)
			continue
		}
		b2 := encodeJSON(t, c, sd)
		if !bytes.Equal(b1, b2) {
			t.Errorf("%s: rewritten document differs:\n%s\n%s", g, b1, b2)
		}
	}
}

func TestJSONMatchesBinary(t *testing.T) {
	for _, g := range skelfile.Generations {
		c := NewCodec(g)
		b1, err := c.WriteBinary(testSkeleton(g))
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", g, err)
		}
		doc, err := json.DecodeObject(encodeJSON(t, c, testSkeleton(g)))
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", g, err)
		}
		sd, err := c.ReadJSON(doc)
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", g, err)
		}
		b2, err := c.WriteBinary(sd)
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", g, err)
		}
		if !bytes.Equal(b1, b2) {
			t.Errorf("%s: binary from JSON differs from binary of model", g)
		}
	}
}

func TestJSONKeys(t *testing.T) {
	tests := []struct {
		g    skelfile.Generation
		keys []string
	}{
		{skelfile.Spine36, []string{"skeleton", "bones", "slots", "ik", "transform", "path", "skins", "events", "animations"}},
		{skelfile.Spine42, []string{"skeleton", "bones", "slots", "ik", "transform", "path", "physics", "skins", "events", "animations"}},
	}
	for _, test := range tests {
		doc, err := NewCodec(test.g).WriteJSON(testSkeleton(test.g))
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", test.g, err)
		}
		keys := doc.Keys()
		if len(keys) != len(test.keys) {
			t.Errorf("%s: expected keys %v, got: %v", test.g, test.keys, keys)
			continue
		}
		for i, key := range keys {
			if key != test.keys[i] {
				t.Errorf("%s: expected keys %v, got: %v", test.g, test.keys, keys)
				break
			}
		}
	}
}

func TestJSONLegacyKeys(t *testing.T) {
	const doc = `{
		"skeleton": {"spine": "3.7.94", "width": 10, "height": 20},
		"bones": [{"name": "root"}, {"name": "arm", "parent": "root", "transform": "noScale"}],
		"slots": [{"name": "body", "bone": "arm", "dark": "102030"}],
		"skins": {"default": {"body": {"box": {"type": "skinnedmesh", "uvs": [0, 0, 1, 0, 0, 1], "triangles": [0, 1, 2], "vertices": [0, 0, 1, 0, 0, 1], "hull": 3}}}},
		"animations": {"walk": {
			"bones": {"arm": {"rotate": [{"time": 0, "angle": 15, "curve": [0.25, 0, 0.75, 1]}, {"time": 1, "angle": 30}]}},
			"draworder": [{"time": 0.5}]
		}}
	}`
	o, err := json.DecodeObject([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	sd, err := NewCodec(skelfile.Spine37).ReadJSON(o)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sd.Bones[1].Inherit != skelfile.InheritNoScale {
		t.Errorf("expected inherit noScale, got: %s", sd.Bones[1].Inherit)
	}
	if dark := sd.Slots[0].Dark; dark == nil || dark.R != 0x10 || dark.A != 0 {
		t.Errorf("unexpected dark color: %v", dark)
	}
	if a := sd.Skins[0].Attachment(0, "box"); a == nil || a.Type() != skelfile.TypeMesh {
		t.Errorf("expected mesh attachment")
	}
	anim := sd.Animations[0]
	if len(anim.Timelines) != 1 || anim.Timelines[0].Frames[0].Value[0] != 15 {
		t.Errorf("unexpected rotate timeline")
	} else if curve := anim.Timelines[0].Frames[0].Curve; curve.Type != skelfile.CurveBezier || curve.Bezier[0][2] != 0.75 {
		t.Errorf("unexpected curve: %v", curve)
	}
	if len(anim.DrawOrder) != 1 {
		t.Errorf("expected 1 draw order frame, got: %d", len(anim.DrawOrder))
	}
}

func TestJSONMalformed(t *testing.T) {
	docs := []string{
		`{"skeleton": {"spine": "3.7.94"}, "bones": [{"name": "arm", "parent": "missing"}]}`,
		`{"skeleton": {"spine": "3.7.94"}, "bones": [{"name": "root", "length": "long"}]}`,
		`{"skeleton": {"spine": "3.7.94"}, "bones": [{"parent": "root"}]}`,
		`{"skeleton": {"spine": "3.7.94"}, "bones": [{"name": "root"}], "animations": {"a": {"bones": {"root": {"spin": []}}}}}`,
	}
	for _, doc := range docs {
		o, err := json.DecodeObject([]byte(doc))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if _, err := NewCodec(skelfile.Spine37).ReadJSON(o); err == nil {
			t.Errorf("%s: expected error", doc)
		}
	}
	o, _ := json.DecodeObject([]byte(`{"skeleton": {"spine": "4.2.43"}}`))
	if _, err := NewCodec(skelfile.Spine38).ReadJSON(o); !errors.Is(err, errors.ErrUnexpectedVersion) {
		t.Errorf("expected version error, got: %v", err)
	}
}

func TestCurveKeys38(t *testing.T) {
	c := NewCodec(skelfile.Spine38)
	doc, err := c.WriteJSON(testSkeleton(skelfile.Spine38))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Contains(b, []byte(`"curve":0.25,"c3":0.75}`)) {
		t.Errorf("expected curve keys in %s", b)
	}
}

func TestStringTable(t *testing.T) {
	sd := skelfile.NewSkeletonData(skelfile.Spine38)
	sd.Bones = []*skelfile.BoneData{skelfile.NewBoneData("root", -1)}
	slot := skelfile.NewSlotData("body", 0)
	slot.Attachment = "head"
	sd.Slots = []*skelfile.SlotData{slot}
	region := skelfile.NewRegionAttachment()
	sd.Skins = []*skelfile.Skin{
		{Name: "default", Color: skelfile.DefaultSkinColor, Attachments: []*skelfile.SkinAttachment{
			{Slot: 0, Name: "head", Attachment: region},
		}},
		{Name: "head_alt", Color: skelfile.DefaultSkinColor, Attachments: []*skelfile.SkinAttachment{
			{Slot: 0, Name: "head", Attachment: region.Copy()},
		}},
	}

	want := []string{"head", "head_alt"}
	check := func(got []string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("expected strings %q, got: %q", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("expected strings %q, got: %q", want, got)
				break
			}
		}
	}
	check(stringTable(sd, newProfile(skelfile.Spine38)).Strings())

	c := NewCodec(skelfile.Spine38)
	b, err := c.WriteBinary(sd)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	back, err := c.ReadBinary(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	check(back.Strings)
	if back.Slots[0].Attachment != "head" {
		t.Errorf("expected slot attachment %q, got: %q", "head", back.Slots[0].Attachment)
	}
	if len(back.Skins) != 2 || back.Skins[1].Name != "head_alt" || back.Skins[1].Attachment(0, "head") == nil {
		t.Errorf("expected skin head_alt with attachment head")
	}

	// A table read from a file keeps its order while it matches the model.
	back.Strings = []string{"head_alt", "head"}
	want = []string{"head_alt", "head"}
	check(stringTable(back, newProfile(skelfile.Spine38)).Strings())

	// Strings no longer referenced after an edit are not written.
	back.Skins = back.Skins[:1]
	want = []string{"head"}
	check(stringTable(back, newProfile(skelfile.Spine38)).Strings())
	b, err = c.WriteBinary(back)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	edited, err := c.ReadBinary(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	check(edited.Strings)
}

func TestDecode(t *testing.T) {
	for _, g := range skelfile.Generations {
		for _, asJSON := range []bool{false, true} {
			b, err := Encode(testSkeleton(g), asJSON, json.Encoder{Indent: "\t"})
			if err != nil {
				t.Errorf("%s: unexpected error: %s", g, err)
				continue
			}
			sd, isJSON, err := Decode(b)
			if err != nil {
				t.Errorf("%s: unexpected error: %s", g, err)
				continue
			}
			if isJSON != asJSON {
				t.Errorf("%s: expected JSON %t, got: %t", g, asJSON, isJSON)
			}
			if sd.Generation != g || sd.Bones[1].Name != "arm" {
				t.Errorf("%s: unexpected skeleton %s %v", g, sd.Generation, sd.Bones)
			}
		}
	}
	if _, _, err := Decode([]byte{0, 0, 0}); !errors.Is(err, errors.ErrUnexpectedVersion) {
		t.Errorf("expected ErrUnexpectedVersion, got: %v", err)
	}
	if _, _, err := Decode([]byte(`{"skeleton":{"spine":"2.1.27"}}`)); !errors.Is(err, errors.ErrUnexpectedVersion) {
		t.Errorf("expected ErrUnexpectedVersion, got: %v", err)
	}
}
