package convert

import (
	"testing"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/skel"
)

func minimalSkeleton(g skelfile.Generation) *skelfile.SkeletonData {
	sd := skelfile.NewSkeletonData(g)
	sd.Bones = []*skelfile.BoneData{skelfile.NewBoneData("root", -1)}
	slot := skelfile.NewSlotData("body", 0)
	slot.Attachment = "body"
	sd.Slots = []*skelfile.SlotData{slot}
	region := skelfile.NewRegionAttachment()
	region.Width, region.Height = 16, 16
	sd.Skins = []*skelfile.Skin{{
		Name:        "default",
		Color:       skelfile.DefaultSkinColor,
		Attachments: []*skelfile.SkinAttachment{{Slot: 0, Name: "body", Attachment: region}},
	}}
	rotate := &skelfile.Timeline{Channel: skelfile.ChannelRotate, Target: 0}
	rotate.Frames = []skelfile.Frame{{Time: 0}, {Time: 1}}
	rotate.Frames[1].Value[0] = 45
	sd.Animations = []*skelfile.Animation{{Name: "spin", Timelines: []*skelfile.Timeline{rotate}}}
	return sd
}

func TestRelativeToAbsolute(t *testing.T) {
	rel := [4]float32{0.25, 0, 0.75, 1}
	abs := RelativeToAbsolute(rel, 0, 2, 0, 45)
	if want := [4]float32{0.5, 0, 1.5, 45}; abs != want {
		t.Errorf("expected %v, got: %v", want, abs)
	}
	if back := AbsoluteToRelative(abs, 0, 2, 0, 45); back != rel {
		t.Errorf("expected %v, got: %v", rel, back)
	}
}

func TestAbsoluteToRelativeDegenerate(t *testing.T) {
	if r := AbsoluteToRelative([4]float32{1, 3, 1, 3}, 1, 1, 3, 3); r != [4]float32{0, 0, 1, 1} {
		t.Errorf("expected fallback curve, got: %v", r)
	}
	r := AbsoluteToRelative([4]float32{0.5, 3, 1.5, 3}, 0, 2, 3, 3)
	if want := [4]float32{0.25, 0, 0.75, 1}; r != want {
		t.Errorf("expected %v, got: %v", want, r)
	}
}

func TestRebase(t *testing.T) {
	sd := minimalSkeleton(skelfile.Spine38)
	rotate := sd.Animations[0].Timelines[0]
	rotate.Frames[0].Curve = skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0.25, 0, 0.75, 1}}}
	rotate.Frames[1].Curve = skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0.25, 0, 0.75, 1}}}

	translate := &skelfile.Timeline{Channel: skelfile.ChannelTranslate, Target: 0}
	translate.Frames = []skelfile.Frame{{Time: 0}, {Time: 1}}
	translate.Frames[1].Value[0] = 8
	translate.Frames[0].Curve = skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0.25, 0.5, 0.75, 0.75}}}
	sd.Animations[0].Timelines = append(sd.Animations[0].Timelines, translate)

	Rebase(sd, skelfile.Absolute)
	if b := rotate.Frames[0].Curve.Bezier; len(b) != 1 || b[0] != [4]float32{0.25, 0, 0.75, 45} {
		t.Errorf("expected absolute rotate curve, got: %v", b)
	}
	if c := rotate.Frames[1].Curve; c.Type != skelfile.CurveLinear {
		t.Errorf("expected curve of last frame to be dropped, got: %v", c.Type)
	}
	b := translate.Frames[0].Curve.Bezier
	if len(b) != 2 {
		t.Fatalf("expected 2 curves, got: %d", len(b))
	}
	if b[0] != [4]float32{0.25, 4, 0.75, 6} {
		t.Errorf("expected x curve, got: %v", b[0])
	}
	if b[1] != [4]float32{0.25, 0, 0.75, 0} {
		t.Errorf("expected y curve, got: %v", b[1])
	}

	sd.Generation = skelfile.Spine40
	Rebase(sd, skelfile.Relative)
	if b := rotate.Frames[0].Curve.Bezier; len(b) != 1 || b[0] != [4]float32{0.25, 0, 0.75, 1} {
		t.Errorf("expected relative rotate curve, got: %v", b)
	}
	if b := translate.Frames[0].Curve.Bezier; len(b) != 1 || b[0] != [4]float32{0.25, 0.5, 0.75, 0.75} {
		t.Errorf("expected curve of changing channel, got: %v", b)
	}
}

func TestRenumberOrder(t *testing.T) {
	sd := skelfile.NewSkeletonData(skelfile.Spine38)
	a, b := skelfile.NewIKConstraintData("a"), skelfile.NewIKConstraintData("b")
	a.Order, b.Order = 5, 5
	c := skelfile.NewTransformConstraintData("c")
	c.Order = 2
	d := skelfile.NewPathConstraintData("d")
	d.Order = 9
	sd.IKConstraints = []*skelfile.IKConstraintData{a, b}
	sd.TransformConstraints = []*skelfile.TransformConstraintData{c}
	sd.PathConstraints = []*skelfile.PathConstraintData{d}

	check := func() {
		t.Helper()
		if a.Order != 1 || b.Order != 1 || c.Order != 0 || d.Order != 2 {
			t.Errorf("expected orders 1 1 0 2, got: %d %d %d %d", a.Order, b.Order, c.Order, d.Order)
		}
	}
	RenumberOrder(sd)
	check()
	RenumberOrder(sd)
	check()
}

func TestConvertAdjacent(t *testing.T) {
	for _, from := range skelfile.Generations {
		for _, to := range []skelfile.Generation{from.Prev(), from.Next()} {
			if to == skelfile.GenerationUnknown {
				continue
			}
			src := minimalSkeleton(from)
			out, warn, err := Convert(src, to, nil)
			if err != nil {
				t.Errorf("%s to %s: unexpected error: %s", from, to, err)
				continue
			}
			if warn != nil {
				t.Errorf("%s to %s: unexpected warnings: %s", from, to, warn)
			}
			if src.Generation != from {
				t.Errorf("%s to %s: source was modified", from, to)
			}
			if out.Generation != to || out.Version != to.DefaultVersion() {
				t.Errorf("%s to %s: expected generation %s %s, got: %s %s", from, to, to, to.DefaultVersion(), out.Generation, out.Version)
			}

			codec := skel.NewCodec(to)
			b, err := codec.WriteBinary(out)
			if err != nil {
				t.Errorf("%s to %s: write: %s", from, to, err)
				continue
			}
			back, err := codec.ReadBinary(b)
			if err != nil {
				t.Errorf("%s to %s: read: %s", from, to, err)
				continue
			}
			if back.Bones[0].Name != "root" {
				t.Errorf("%s to %s: expected bone root, got: %q", from, to, back.Bones[0].Name)
			}
			if back.Slots[0].Attachment != "body" {
				t.Errorf("%s to %s: expected slot attachment body, got: %q", from, to, back.Slots[0].Attachment)
			}
			rotate := back.Animations[0].Timelines[0]
			if rotate.Channel != skelfile.ChannelRotate || rotate.Frames[1].Value[0] != 45 {
				t.Errorf("%s to %s: expected rotation 45 to be kept", from, to)
			}
		}
	}
}

func TestConvertSingleKeyframe(t *testing.T) {
	for _, from := range skelfile.Generations {
		for _, to := range []skelfile.Generation{from.Prev(), from.Next()} {
			if to == skelfile.GenerationUnknown {
				continue
			}
			src := minimalSkeleton(from)
			rotate := src.Animations[0].Timelines[0]
			rotate.Frames = rotate.Frames[:1]
			rotate.Frames[0].Value[0] = 45
			out, warn, err := Convert(src, to, nil)
			if err != nil {
				t.Errorf("%s to %s: unexpected error: %s", from, to, err)
				continue
			}
			if warn != nil {
				t.Errorf("%s to %s: unexpected warnings: %s", from, to, warn)
			}

			codec := skel.NewCodec(to)
			b, err := codec.WriteBinary(out)
			if err != nil {
				t.Errorf("%s to %s: write: %s", from, to, err)
				continue
			}
			back, err := codec.ReadBinary(b)
			if err != nil {
				t.Errorf("%s to %s: read: %s", from, to, err)
				continue
			}
			if back.Bones[0].Name != "root" || back.Slots[0].Name != "body" {
				t.Errorf("%s to %s: expected bone root and slot body", from, to)
			}
			frames := back.Animations[0].Timelines[0].Frames
			if len(frames) != 1 || frames[0].Time != 0 || frames[0].Value[0] != 45 {
				t.Errorf("%s to %s: expected a single frame at 0 with angle 45, got: %+v", from, to, frames)
			}
		}
	}
}

func TestConvertCurves(t *testing.T) {
	sd := minimalSkeleton(skelfile.Spine38)
	rotate := sd.Animations[0].Timelines[0]
	rotate.Frames[0].Curve = skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0.25, 0, 0.75, 1}}}

	up, _, err := Convert(sd, skelfile.Spine42, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if b := up.Animations[0].Timelines[0].Frames[0].Curve.Bezier; len(b) != 1 || b[0] != [4]float32{0.25, 0, 0.75, 45} {
		t.Errorf("expected absolute curve, got: %v", b)
	}
	if _, err := skel.NewCodec(skelfile.Spine42).WriteBinary(up); err != nil {
		t.Errorf("unexpected error: %s", err)
	}

	down, _, err := Convert(up, skelfile.Spine36, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if b := down.Animations[0].Timelines[0].Frames[0].Curve.Bezier; len(b) != 1 || b[0] != [4]float32{0.25, 0, 0.75, 1} {
		t.Errorf("expected relative curve, got: %v", b)
	}
}

func TestConvertMerge(t *testing.T) {
	sd := minimalSkeleton(skelfile.Spine42)
	sd.Slots[0].Color = skelfile.Color{R: 0xff, G: 0xff, B: 0xff, A: 0x80}

	tx := &skelfile.Timeline{Channel: skelfile.ChannelTranslateX, Target: 0}
	tx.Frames = []skelfile.Frame{{Time: 0}, {Time: 1}}
	tx.Frames[0].Value[0], tx.Frames[1].Value[0] = 10, 20
	ty := &skelfile.Timeline{Channel: skelfile.ChannelTranslateY, Target: 0}
	ty.Frames = []skelfile.Frame{{Time: 0}, {Time: 1}}
	ty.Frames[0].Value[0], ty.Frames[1].Value[0] = 5, 6
	rgb := &skelfile.Timeline{Channel: skelfile.ChannelRGB, Target: 0}
	rgb.Frames = []skelfile.Frame{{Time: 0, Light: skelfile.Color{R: 0xff, A: 0xff}}}
	a := sd.Animations[0]
	a.Timelines = append(a.Timelines, tx, ty, rgb)

	out, _, err := Convert(sd, skelfile.Spine38, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	timelines := out.Animations[0].Timelines
	if len(timelines) != 3 {
		t.Fatalf("expected 3 timelines, got: %d", len(timelines))
	}
	translate := timelines[1]
	if translate.Channel != skelfile.ChannelTranslate {
		t.Fatalf("expected translate timeline, got: %s", translate.Channel)
	}
	if v := translate.Frames[1].Value; v[0] != 20 || v[1] != 6 {
		t.Errorf("expected 20 6, got: %v %v", v[0], v[1])
	}
	color := timelines[2]
	if color.Channel != skelfile.ChannelRGBA {
		t.Fatalf("expected rgba timeline, got: %s", color.Channel)
	}
	if want := (skelfile.Color{R: 0xff, A: 0x80}); color.Frames[0].Light != want {
		t.Errorf("expected %v, got: %v", want, color.Frames[0].Light)
	}
	if _, err := skel.NewCodec(skelfile.Spine38).WriteBinary(out); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

// hasLoss reports whether warn lists a LossError for item.
func hasLoss(warn error, item string) bool {
	errs, _ := warn.(errors.Errors)
	for _, err := range errs {
		if loss, ok := err.(LossError); ok && loss.Item == item {
			return true
		}
	}
	return false
}

func TestConvertMergeCurves(t *testing.T) {
	const item = "curves of merged translate timelines"
	curve := func(v1, v2 float32) skelfile.Curve {
		return skelfile.Curve{Type: skelfile.CurveBezier, Bezier: [][4]float32{{0.25, v1, 0.75, v2}}}
	}
	axes := func(y skelfile.Curve) *skelfile.SkeletonData {
		sd := minimalSkeleton(skelfile.Spine42)
		tx := &skelfile.Timeline{Channel: skelfile.ChannelTranslateX, Target: 0}
		tx.Frames = []skelfile.Frame{{Time: 0, Curve: curve(10, 20)}, {Time: 1}}
		tx.Frames[0].Value[0], tx.Frames[1].Value[0] = 10, 20
		ty := &skelfile.Timeline{Channel: skelfile.ChannelTranslateY, Target: 0}
		ty.Frames = []skelfile.Frame{{Time: 0, Curve: y}, {Time: 1}}
		ty.Frames[0].Value[0], ty.Frames[1].Value[0] = 5, 6
		sd.Animations[0].Timelines = append(sd.Animations[0].Timelines, tx, ty)
		return sd
	}

	// A bezier on x with a linear y cannot be merged exactly.
	out, warn, err := Convert(axes(skelfile.Curve{}), skelfile.Spine38, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !hasLoss(warn, item) {
		t.Errorf("expected %q warning, got: %v", item, warn)
	}
	if c := out.Animations[0].Timelines[1].Frames[0].Curve; c.Type != skelfile.CurveBezier {
		t.Errorf("expected bezier curve, got: %v", c)
	}

	// The same relative shape on both axes merges exactly.
	out, warn, err = Convert(axes(curve(5, 6)), skelfile.Spine38, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if hasLoss(warn, item) {
		t.Errorf("unexpected warning: %v", warn)
	}
	c := out.Animations[0].Timelines[1].Frames[0].Curve
	if len(c.Bezier) != 1 || c.Bezier[0] != [4]float32{0.25, 0, 0.75, 1} {
		t.Errorf("expected shared relative curve, got: %v", c)
	}
}

func TestConvertLoss(t *testing.T) {
	sd := minimalSkeleton(skelfile.Spine42)
	p := skelfile.NewPhysicsConstraintData("sway")
	p.Bone = 0
	sd.PhysicsConstraints = []*skelfile.PhysicsConstraintData{p}
	ik := skelfile.NewIKConstraintData("aim")
	ik.Bones = []int{0}
	ik.Target = 0
	ik.Order = 4
	ik.Stretch = true
	sd.IKConstraints = []*skelfile.IKConstraintData{ik}
	wind := &skelfile.Timeline{Channel: skelfile.ChannelPhysicsWind, Target: -1, Frames: []skelfile.Frame{{}}}
	sd.Animations[0].Timelines = append(sd.Animations[0].Timelines, wind)

	out, warn, err := Convert(sd, skelfile.Spine36, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	errs, ok := warn.(errors.Errors)
	if !ok {
		t.Fatalf("expected warnings, got: %v", warn)
	}
	items := map[string]bool{}
	for _, err := range errs {
		var loss LossError
		if !errors.As(err, &loss) {
			t.Errorf("expected LossError, got: %T", err)
			continue
		}
		items[loss.Item] = true
	}
	for _, item := range []string{"physics constraints", "physics wind timelines", "IK compress, stretch and uniform"} {
		if !items[item] {
			t.Errorf("expected warning %q, got: %v", item, warn)
		}
	}
	if len(out.PhysicsConstraints) != 0 || len(out.Animations[0].Timelines) != 1 {
		t.Errorf("expected physics to be dropped")
	}
	if out.IKConstraints[0].Order != 0 || out.IKConstraints[0].Stretch {
		t.Errorf("expected renumbered IK constraint without stretch")
	}
	if _, err := skel.NewCodec(skelfile.Spine36).WriteBinary(out); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestConvertUnknown(t *testing.T) {
	sd := minimalSkeleton(skelfile.Spine38)
	if _, _, err := Convert(sd, skelfile.GenerationUnknown, nil); !errors.Is(err, ErrUnknownGeneration) {
		t.Errorf("expected ErrUnknownGeneration, got: %v", err)
	}
	sd.Generation = skelfile.GenerationUnknown
	if _, _, err := Convert(sd, skelfile.Spine38, nil); !errors.Is(err, ErrUnknownGeneration) {
		t.Errorf("expected ErrUnknownGeneration, got: %v", err)
	}
}
