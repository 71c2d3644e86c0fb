package declare_test

import (
	"fmt"
	"testing"

	"github.com/spineapi/skelfile"
	. "github.com/spineapi/skelfile/declare"
	"github.com/spineapi/skelfile/skel"
)

func Example() {
	sd := Skeleton{
		Property("width", 64),
		Property("height", 128),
		Bone("root"),
		Bone("arm", Property("parent", "root"), Property("length", 50), Property("rotation", 45)),
		Slot("body", "root", Property("attachment", "body")),
		Skin("default",
			Attachment("body", "body", "region", Property("width", 32), Property("height", 48)),
		),
		Animation("wave",
			Timeline(skelfile.ChannelRotate, "arm", Key(0, 0, Bezier(0.25, 0, 0.75, 1)), Key(1, 90)),
		),
	}.Declare(skelfile.Spine38)
	fmt.Println(sd.Bones[1].Name, sd.Bones[1].Parent, sd.Animations[0].Duration())
	// Output: arm 0 1
}

func testSkeleton() Skeleton {
	return Skeleton{
		// Declared before the bones it refers to.
		IK("aim", Property("bones", "arm"), Property("target", "root"), Property("mix", 0.5), Property("order", 1)),
		Bone("root"),
		Bone("arm", Property("parent", "root"), Property("inherit", "noScale"), Property("color", "ff0000ff")),
		Slot("body", "root", Property("attachment", "body"), Property("dark", "102030"), Property("blend", skelfile.BlendAdditive)),
		Slot("hand", "arm", Property("attachment", "hand")),
		Transform("follow", Property("bones", "arm"), Property("target", "root"), Property("mixX", 0.5)),
		Physics("sway", Property("bone", "arm"), Property("mass", 2), Property("order", 2)),
		Skin("default",
			Attachment("body", "body", "region", Property("width", 32), Property("height", 48), Property("sequence", 3)),
			Attachment("hand", "hand", "mesh",
				Property("uvs", 0, 0, 1, 0, 1, 1),
				Property("vertices", 0, 0, 10, 0, 10, 10),
				Property("triangles", 0, 1, 2),
				Property("hull", 3),
			),
		),
		Skin("alt",
			Property("bones", "arm"),
			Property("ik", "aim"),
			Attachment("hand", "hand", "linkedmesh", Property("parent", "hand"), Property("skin", "default")),
		),
		Event("hit", Property("int", 3), Property("string", "boom")),
		Animation("walk",
			Timeline(skelfile.ChannelTranslateX, "arm", Key(0, 10, Stepped), Key(1, 20)),
			Timeline(skelfile.ChannelRGBA, "body", Key(0, skelfile.White)),
			Timeline(skelfile.ChannelIK, "aim", Key(0, 1, 0, Bend(-1), Stretch(true))),
			Timeline(skelfile.ChannelPhysicsWind, "", Key(0.5, 2)),
			SkinTimeline(skelfile.ChannelDeform, "default", "hand", "hand", Key(0, Offset(2), []float32{1, 1})),
			DrawOrder(0.5, "hand", -1),
			Fire(0.25, "hit"),
			Fire(0.75, "hit", Property("string", "bang")),
		),
	}
}

func TestDeclare(t *testing.T) {
	sd := testSkeleton().Declare(skelfile.Spine42)

	if sd.Generation != skelfile.Spine42 || sd.Version != skelfile.Spine42.DefaultVersion() {
		t.Errorf("unexpected generation %s %s", sd.Generation, sd.Version)
	}
	if b := sd.Bones[1]; b.Parent != 0 || b.Inherit != skelfile.InheritNoScale || b.Color != (skelfile.Color{R: 0xff, A: 0xff}) {
		t.Errorf("unexpected bone %+v", b)
	}
	if s := sd.Slots[0]; s.Dark == nil || *s.Dark != (skelfile.Color{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) || s.Blend != skelfile.BlendAdditive {
		t.Errorf("unexpected slot %+v", s)
	}
	if s := sd.Slots[1]; s.Bone != 1 || s.Dark != nil {
		t.Errorf("unexpected slot %+v", s)
	}
	ik := sd.IKConstraints[0]
	if len(ik.Bones) != 1 || ik.Bones[0] != 1 || ik.Target != 0 || ik.Mix != 0.5 || ik.Order != 1 {
		t.Errorf("unexpected IK constraint %+v", ik)
	}
	if k := sd.TransformConstraints[0]; k.MixX != 0.5 || k.MixY != 0.5 || k.MixScaleY != 1 {
		t.Errorf("expected mixY to follow mixX, got: %v", k.MixY)
	}
	if k := sd.PhysicsConstraints[0]; k.Bone != 1 || k.MassInverse != 0.5 {
		t.Errorf("unexpected physics constraint %+v", k)
	}

	mesh, ok := sd.Skins[0].Attachment(1, "hand").(*skelfile.MeshAttachment)
	if !ok {
		t.Fatalf("expected mesh attachment")
	}
	if mesh.VertexCount != 3 || mesh.Hull != 3 || len(mesh.Triangles) != 3 {
		t.Errorf("unexpected mesh %+v", mesh)
	}
	region := sd.Skins[0].Attachment(0, "body").(*skelfile.RegionAttachment)
	if region.Sequence == nil || region.Sequence.Count != 3 || region.Sequence.Start != 1 {
		t.Errorf("expected sequence of 3, got: %+v", region.Sequence)
	}
	alt := sd.Skins[1]
	if len(alt.Bones) != 1 || len(alt.Constraints) != 1 || alt.Constraints[0] != (skelfile.ConstraintRef{Kind: skelfile.KindIK, Index: 0}) {
		t.Errorf("unexpected skin scope %v %v", alt.Bones, alt.Constraints)
	}

	a := sd.Animations[0]
	if len(a.Timelines) != 5 {
		t.Fatalf("expected 5 timelines, got: %d", len(a.Timelines))
	}
	if tl := a.Timelines[0]; tl.Target != 1 || tl.Frames[0].Curve.Type != skelfile.CurveStepped || tl.Frames[1].Value[0] != 20 {
		t.Errorf("unexpected translatex timeline")
	}
	if f := a.Timelines[2].Frames[0]; f.Value[0] != 1 || f.Bend != -1 || !f.Stretch {
		t.Errorf("unexpected IK key %+v", f)
	}
	if tl := a.Timelines[3]; tl.Target != -1 {
		t.Errorf("expected physics timeline for every constraint, got target %d", tl.Target)
	}
	if tl := a.Timelines[4]; tl.Skin != 0 || tl.Slot != 1 || tl.Target != 1 || tl.Frames[0].Offset != 2 {
		t.Errorf("unexpected deform timeline %+v", tl)
	}
	if len(a.DrawOrder) != 1 || a.DrawOrder[0].Offsets[0] != (skelfile.DrawOrderOffset{Slot: 1, Offset: -1}) {
		t.Errorf("unexpected draw order %v", a.DrawOrder)
	}
	if e := a.Events[0]; e.Int != 3 || e.String != "boom" || e.HasString {
		t.Errorf("unexpected event %+v", e)
	}
	if e := a.Events[1]; e.String != "bang" || !e.HasString {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestDeclareUnresolved(t *testing.T) {
	sd := Skeleton{
		Bone("root", Property("parent", "missing")),
		Slot("body", "missing"),
	}.Declare(skelfile.Spine38)
	if sd.Bones[0].Parent != -1 {
		t.Errorf("expected parent -1, got: %d", sd.Bones[0].Parent)
	}
	if sd.Slots[0].Bone != -1 {
		t.Errorf("expected bone -1, got: %d", sd.Slots[0].Bone)
	}
}

func TestDeclareWrite(t *testing.T) {
	sd := testSkeleton().Declare(skelfile.Spine42)
	c := skel.NewCodec(skelfile.Spine42)
	b, err := c.WriteBinary(sd)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	back, err := c.ReadBinary(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(back.Animations[0].Timelines) != 5 || back.Skins[1].Name != "alt" {
		t.Errorf("declared skeleton did not survive a round trip")
	}
}
