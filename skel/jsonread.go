package skel

import (
	"strconv"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/json"
)

type jsonReader struct {
	c   *Codec
	p   profile
	g   *json.Getter
	sd  *skelfile.SkeletonData
	err error
}

func newJSONReader(c *Codec, doc *json.Object) *jsonReader {
	return &jsonReader{c: c, p: c.p, g: json.Get(doc)}
}

func (r *jsonReader) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.g.Err()
}

func (r *jsonReader) failed() bool {
	return r.Err() != nil
}

// parseEnum reads an enumeration member by name.
func parseEnum[T any](g *json.Getter, key string, def T, parse func(string) (T, bool)) T {
	s := g.Str(key, "")
	if s == "" {
		return def
	}
	v, ok := parse(s)
	if !ok {
		g.Fail(key, errors.New("unknown value "+strconv.Quote(s)))
		return def
	}
	return v
}

func color(g *json.Getter, key string, def skelfile.Color) skelfile.Color {
	s := g.Str(key, "")
	if s == "" {
		return def
	}
	c, err := skelfile.ParseColor(s)
	if err != nil {
		g.Fail(key, err)
		return def
	}
	return c
}

// darkColor reads a dark color, which has no alpha channel.
func darkColor(g *json.Getter, key string) skelfile.Color {
	c := color(g, key, skelfile.Color{})
	c.A = 0
	return c
}

// ref reads the name of an item and returns its index.
func ref(g *json.Getter, key, kind string, find func(string) int) int {
	name := g.Str(key, "")
	if g.Err() != nil {
		return -1
	}
	i := find(name)
	if i < 0 {
		g.Fail(key, errors.ReferenceError{Kind: kind, Index: -1, Name: name})
	}
	return i
}

// refs reads a list of names and returns their indices.
func refs(g *json.Getter, key, kind string, find func(string) int) []int {
	names := g.Strings(key)
	if names == nil {
		return nil
	}
	list := make([]int, len(names))
	for i, name := range names {
		list[i] = find(name)
		if list[i] < 0 {
			g.Fail(key+"["+strconv.Itoa(i)+"]", errors.ReferenceError{Kind: kind, Index: -1, Name: name})
			return nil
		}
	}
	return list
}

func (r *jsonReader) skeleton() {
	sd := skelfile.NewSkeletonData(r.p.gen)
	sd.Nonessential = true
	r.sd = sd
	if s := r.g.Object("skeleton"); s != nil {
		sd.Hash = s.Str("hash", "")
		sd.Version = s.Str("spine", "")
		if err := r.c.checkVersion(sd.Version); err != nil {
			r.err = err
			return
		}
		if r.p.position {
			sd.X = s.Float("x", 0)
			sd.Y = s.Float("y", 0)
		}
		sd.Width = s.Float("width", 0)
		sd.Height = s.Float("height", 0)
		if r.p.referenceScale {
			sd.ReferenceScale = s.Float("referenceScale", 100)
		}
		sd.FPS = s.Float("fps", 30)
		sd.ImagesPath = s.Str("images", "")
		sd.HasImagesPath = s.Has("images")
		if r.p.audio {
			sd.AudioPath = s.Str("audio", "")
			sd.HasAudioPath = s.Has("audio")
		}
	}

	r.bones()
	r.slots()
	r.ikConstraints()
	r.transformConstraints()
	r.pathConstraints()
	if r.p.physics {
		r.physicsConstraints()
	}
	r.skins()
	r.events()
	r.animations()
}

func (r *jsonReader) bones() {
	sd := r.sd
	for _, g := range r.g.Objects("bones") {
		g.Require("name")
		b := skelfile.NewBoneData(g.Str("name", ""), -1)
		if g.Has("parent") {
			b.Parent = ref(g, "parent", "bone", sd.FindBone)
		}
		b.Length = g.Float("length", 0)
		b.X = g.Float("x", 0)
		b.Y = g.Float("y", 0)
		b.Rotation = g.Float("rotation", 0)
		b.ScaleX = g.Float("scaleX", 1)
		b.ScaleY = g.Float("scaleY", 1)
		b.ShearX = g.Float("shearX", 0)
		b.ShearY = g.Float("shearY", 0)
		b.Inherit = parseEnum(g, r.p.inheritKey, skelfile.InheritNormal, skelfile.ParseInherit)
		if r.p.skinRequired {
			b.SkinRequired = g.Bool("skin", false)
		}
		b.Color = color(g, "color", skelfile.DefaultBoneColor)
		if r.p.visuals {
			b.Icon = g.Str("icon", "")
			b.Visible = g.Bool("visible", true)
		}
		if r.failed() {
			return
		}
		sd.Bones = append(sd.Bones, b)
	}
}

func (r *jsonReader) slots() {
	sd := r.sd
	for _, g := range r.g.Objects("slots") {
		g.Require("name")
		s := skelfile.NewSlotData(g.Str("name", ""), -1)
		s.Bone = ref(g, "bone", "bone", sd.FindBone)
		s.Color = color(g, "color", skelfile.White)
		if g.Has("dark") {
			dark := darkColor(g, "dark")
			s.Dark = &dark
		}
		s.Attachment = g.Str("attachment", "")
		s.Blend = parseEnum(g, "blend", skelfile.BlendNormal, skelfile.ParseBlendMode)
		if r.p.visuals {
			s.Visible = g.Bool("visible", true)
		}
		if r.failed() {
			return
		}
		sd.Slots = append(sd.Slots, s)
	}
}

func (r *jsonReader) constraint(g *json.Getter, c *skelfile.ConstraintData) {
	g.Require("name")
	c.Name = g.Str("name", "")
	c.Order = g.Int("order", 0)
	if r.p.skinRequired {
		c.SkinRequired = g.Bool("skin", false)
	}
}

func (r *jsonReader) ikConstraints() {
	sd := r.sd
	for _, g := range r.g.Objects("ik") {
		k := skelfile.NewIKConstraintData("")
		r.constraint(g, &k.ConstraintData)
		k.Bones = refs(g, "bones", "bone", sd.FindBone)
		k.Target = ref(g, "target", "bone", sd.FindBone)
		k.Mix = g.Float("mix", 1)
		if r.p.ikSoftness {
			k.Softness = g.Float("softness", 0)
		}
		k.BendDirection = bend(g.Bool("bendPositive", true))
		if r.p.ikCompress {
			k.Compress = g.Bool("compress", false)
			k.Stretch = g.Bool("stretch", false)
			k.Uniform = g.Bool("uniform", false)
		}
		if r.failed() {
			return
		}
		sd.IKConstraints = append(sd.IKConstraints, k)
	}
}

func bend(positive bool) int {
	if positive {
		return 1
	}
	return -1
}

func (r *jsonReader) transformConstraints() {
	sd := r.sd
	for _, g := range r.g.Objects("transform") {
		k := skelfile.NewTransformConstraintData("")
		r.constraint(g, &k.ConstraintData)
		k.Bones = refs(g, "bones", "bone", sd.FindBone)
		k.Target = ref(g, "target", "bone", sd.FindBone)
		k.Local = g.Bool("local", false)
		k.Relative = g.Bool("relative", false)
		k.OffsetRotation = g.Float("rotation", 0)
		k.OffsetX = g.Float("x", 0)
		k.OffsetY = g.Float("y", 0)
		k.OffsetScaleX = g.Float("scaleX", 0)
		k.OffsetScaleY = g.Float("scaleY", 0)
		k.OffsetShearY = g.Float("shearY", 0)
		if r.p.mixes6 {
			k.MixRotate = g.Float("mixRotate", 1)
			k.MixX = g.Float("mixX", 1)
			k.MixY = g.Float("mixY", k.MixX)
			k.MixScaleX = g.Float("mixScaleX", 1)
			k.MixScaleY = g.Float("mixScaleY", k.MixScaleX)
			k.MixShearY = g.Float("mixShearY", 1)
		} else {
			k.MixRotate = g.Float("rotateMix", 1)
			k.MixX = g.Float("translateMix", 1)
			k.MixY = k.MixX
			k.MixScaleX = g.Float("scaleMix", 1)
			k.MixScaleY = k.MixScaleX
			k.MixShearY = g.Float("shearMix", 1)
		}
		if r.failed() {
			return
		}
		sd.TransformConstraints = append(sd.TransformConstraints, k)
	}
}

func (r *jsonReader) pathConstraints() {
	sd := r.sd
	for _, g := range r.g.Objects("path") {
		k := skelfile.NewPathConstraintData("")
		r.constraint(g, &k.ConstraintData)
		k.Bones = refs(g, "bones", "bone", sd.FindBone)
		k.Target = ref(g, "target", "slot", sd.FindSlot)
		k.PositionMode = parseEnum(g, "positionMode", skelfile.PositionPercent, skelfile.ParsePositionMode)
		k.SpacingMode = parseEnum(g, "spacingMode", skelfile.SpacingLength, skelfile.ParseSpacingMode)
		k.RotateMode = parseEnum(g, "rotateMode", skelfile.RotateTangent, skelfile.ParseRotateMode)
		k.OffsetRotation = g.Float("rotation", 0)
		k.Position = g.Float("position", 0)
		k.Spacing = g.Float("spacing", 0)
		if r.p.mixes6 {
			k.MixRotate = g.Float("mixRotate", 1)
			k.MixX = g.Float("mixX", 1)
			k.MixY = g.Float("mixY", k.MixX)
		} else {
			k.MixRotate = g.Float("rotateMix", 1)
			k.MixX = g.Float("translateMix", 1)
			k.MixY = k.MixX
		}
		if r.failed() {
			return
		}
		sd.PathConstraints = append(sd.PathConstraints, k)
	}
}

func (r *jsonReader) physicsConstraints() {
	sd := r.sd
	for _, g := range r.g.Objects("physics") {
		k := skelfile.NewPhysicsConstraintData("")
		r.constraint(g, &k.ConstraintData)
		k.Bone = ref(g, "bone", "bone", sd.FindBone)
		k.X = g.Float("x", 0)
		k.Y = g.Float("y", 0)
		k.Rotate = g.Float("rotate", 0)
		k.ScaleX = g.Float("scaleX", 0)
		k.ShearX = g.Float("shearX", 0)
		k.Limit = g.Float("limit", 5000)
		k.FPS = g.Int("fps", 60)
		k.Inertia = g.Float("inertia", 1)
		k.Strength = g.Float("strength", 100)
		k.Damping = g.Float("damping", 1)
		if mass := g.Float("mass", 1); mass != 0 {
			k.MassInverse = 1 / mass
		} else {
			g.Fail("mass", errors.New("mass must not be zero"))
		}
		k.Wind = g.Float("wind", 0)
		k.Gravity = g.Float("gravity", 0)
		k.Mix = g.Float("mix", 1)
		k.InertiaGlobal = g.Bool("inertiaGlobal", false)
		k.StrengthGlobal = g.Bool("strengthGlobal", false)
		k.DampingGlobal = g.Bool("dampingGlobal", false)
		k.MassGlobal = g.Bool("massGlobal", false)
		k.WindGlobal = g.Bool("windGlobal", false)
		k.GravityGlobal = g.Bool("gravityGlobal", false)
		k.MixGlobal = g.Bool("mixGlobal", false)
		if r.failed() {
			return
		}
		sd.PhysicsConstraints = append(sd.PhysicsConstraints, k)
	}
}

func (r *jsonReader) skins() {
	sd := r.sd
	if !r.p.skinArray {
		skins := r.g.Object("skins")
		if skins == nil {
			return
		}
		for _, name := range skins.Keys() {
			skin := &skelfile.Skin{Name: name, Color: skelfile.DefaultSkinColor}
			r.skinAttachments(skin, skins.Object(name))
			if r.failed() {
				return
			}
			sd.Skins = append(sd.Skins, skin)
		}
		return
	}
	for _, g := range r.g.Objects("skins") {
		g.Require("name")
		skin := &skelfile.Skin{Name: g.Str("name", ""), Color: skelfile.DefaultSkinColor}
		if r.p.visuals {
			skin.Color = color(g, "color", skelfile.DefaultSkinColor)
		}
		skin.Bones = refs(g, "bones", "bone", sd.FindBone)
		r.skinConstraints(skin, g, "ik", skelfile.KindIK, sd.FindIK)
		r.skinConstraints(skin, g, "transform", skelfile.KindTransform, sd.FindTransform)
		r.skinConstraints(skin, g, "path", skelfile.KindPath, sd.FindPath)
		if r.p.physics {
			r.skinConstraints(skin, g, "physics", skelfile.KindPhysics, sd.FindPhysics)
		}
		r.skinAttachments(skin, g.Object("attachments"))
		if r.failed() {
			return
		}
		sd.Skins = append(sd.Skins, skin)
	}
}

func (r *jsonReader) skinConstraints(skin *skelfile.Skin, g *json.Getter, key string, kind skelfile.ConstraintKind, find func(string) int) {
	for _, i := range refs(g, key, kind.String()+" constraint", find) {
		skin.Constraints = append(skin.Constraints, skelfile.ConstraintRef{Kind: kind, Index: i})
	}
}

func (r *jsonReader) skinAttachments(skin *skelfile.Skin, g *json.Getter) {
	if g == nil {
		return
	}
	for _, slotName := range g.Keys() {
		slot := r.sd.FindSlot(slotName)
		if slot < 0 {
			g.Fail(slotName, errors.ReferenceError{Kind: "slot", Index: -1, Name: slotName})
			return
		}
		sg := g.Object(slotName)
		if sg == nil {
			return
		}
		for _, key := range sg.Keys() {
			ag := sg.Object(key)
			if ag == nil {
				return
			}
			a := r.attachment(ag)
			if r.failed() {
				return
			}
			skin.Attachments = append(skin.Attachments, &skelfile.SkinAttachment{
				Slot:       slot,
				Name:       key,
				Attachment: a,
			})
		}
	}
}

func (r *jsonReader) sequence(g *json.Getter) *skelfile.Sequence {
	s := g.Object("sequence")
	if s == nil || !r.p.sequences {
		return nil
	}
	return &skelfile.Sequence{
		Count:      s.Int("count", 0),
		Start:      s.Int("start", 1),
		Digits:     s.Int("digits", 0),
		SetupIndex: s.Int("setup", 0),
	}
}

// vertices reads the vertices of an attachment. Weighted vertices are stored
// as, for each vertex, the number of bones followed by bone, x, y and weight
// for each bone.
func (r *jsonReader) vertices(g *json.Getter, raw []float32, vertexCount int, weighted bool) skelfile.Vertices {
	v := skelfile.Vertices{VertexCount: vertexCount}
	if !weighted {
		v.Vertices = raw
		return v
	}
	malformed := func() skelfile.Vertices {
		g.Fail("vertices", errors.New("malformed weighted vertices"))
		return v
	}
	v.Bones = make([]int, 0, vertexCount*3)
	v.Vertices = make([]float32, 0, vertexCount*9)
	n := 0
	for i := 0; i < len(raw); n++ {
		boneCount := int(raw[i])
		i++
		if boneCount < 0 || i+boneCount*4 > len(raw) {
			return malformed()
		}
		v.Bones = append(v.Bones, boneCount)
		for j := 0; j < boneCount; j++ {
			bone := int(raw[i])
			if bone < 0 || bone >= len(r.sd.Bones) {
				g.Fail("vertices", errors.ReferenceError{Kind: "bone", Index: bone})
				return v
			}
			v.Bones = append(v.Bones, bone)
			v.Vertices = append(v.Vertices, raw[i+1], raw[i+2], raw[i+3])
			i += 4
		}
	}
	if n != vertexCount {
		return malformed()
	}
	return v
}

func (r *jsonReader) attachment(g *json.Getter) skelfile.Attachment {
	name := g.Str("name", "")
	typ := parseEnum(g, "type", skelfile.TypeRegion, skelfile.ParseAttachmentType)
	switch typ {
	case skelfile.TypeRegion:
		a := skelfile.NewRegionAttachment()
		a.Name = name
		a.Path = g.Str("path", "")
		a.X = g.Float("x", 0)
		a.Y = g.Float("y", 0)
		a.Rotation = g.Float("rotation", 0)
		a.ScaleX = g.Float("scaleX", 1)
		a.ScaleY = g.Float("scaleY", 1)
		a.Width = g.Float("width", 32)
		a.Height = g.Float("height", 32)
		a.Color = color(g, "color", skelfile.White)
		a.Sequence = r.sequence(g)
		return a
	case skelfile.TypeBoundingBox:
		a := &skelfile.BoundingBoxAttachment{Name: name}
		n := g.Int("vertexCount", 0)
		raw := g.Floats("vertices")
		a.Vertices = r.vertices(g, raw, n, len(raw) != n*2)
		a.Color = color(g, "color", skelfile.BoundingBoxColor)
		return a
	case skelfile.TypeMesh:
		a := &skelfile.MeshAttachment{Name: name}
		a.Path = g.Str("path", "")
		a.Color = color(g, "color", skelfile.White)
		a.UVs = g.Floats("uvs")
		a.Triangles = g.Ints("triangles")
		raw := g.Floats("vertices")
		a.Vertices = r.vertices(g, raw, len(a.UVs)/2, len(raw) > len(a.UVs))
		a.Hull = g.Int("hull", 0)
		a.Edges = g.Ints("edges")
		a.Width = g.Float("width", 0)
		a.Height = g.Float("height", 0)
		a.Sequence = r.sequence(g)
		return a
	case skelfile.TypeLinkedMesh:
		a := &skelfile.LinkedMeshAttachment{Name: name}
		a.Path = g.Str("path", "")
		a.Color = color(g, "color", skelfile.White)
		a.Skin = g.Str("skin", "")
		g.Require("parent")
		a.Parent = g.Str("parent", "")
		if g.Bool(r.p.linkedKey, true) {
			a.Timelines = 1
		}
		a.Width = g.Float("width", 0)
		a.Height = g.Float("height", 0)
		a.Sequence = r.sequence(g)
		return a
	case skelfile.TypePath:
		a := &skelfile.PathAttachment{Name: name}
		a.Closed = g.Bool("closed", false)
		a.ConstantSpeed = g.Bool("constantSpeed", true)
		n := g.Int("vertexCount", 0)
		raw := g.Floats("vertices")
		a.Vertices = r.vertices(g, raw, n, len(raw) != n*2)
		a.Lengths = g.Floats("lengths")
		a.Color = color(g, "color", skelfile.PathColor)
		return a
	case skelfile.TypePoint:
		a := &skelfile.PointAttachment{Name: name}
		a.X = g.Float("x", 0)
		a.Y = g.Float("y", 0)
		a.Rotation = g.Float("rotation", 0)
		a.Color = color(g, "color", skelfile.PointColor)
		return a
	case skelfile.TypeClipping:
		a := &skelfile.ClippingAttachment{Name: name, End: -1}
		if g.Has("end") {
			a.End = ref(g, "end", "slot", r.sd.FindSlot)
		}
		n := g.Int("vertexCount", 0)
		raw := g.Floats("vertices")
		a.Vertices = r.vertices(g, raw, n, len(raw) != n*2)
		a.Color = color(g, "color", skelfile.ClippingColor)
		return a
	}
	return nil
}

func (r *jsonReader) events() {
	events := r.g.Object("events")
	if events == nil {
		return
	}
	for _, name := range events.Keys() {
		g := events.Object(name)
		if g == nil {
			return
		}
		e := skelfile.NewEventData(name)
		e.Int = int32(g.Int("int", 0))
		e.Float = g.Float("float", 0)
		e.String = g.Str("string", "")
		e.HasString = g.Has("string")
		if r.p.audio {
			e.AudioPath = g.Str("audio", "")
			e.HasAudioPath = g.Has("audio")
			e.Volume = g.Float("volume", 1)
			e.Balance = g.Float("balance", 0)
		}
		r.sd.Events = append(r.sd.Events, e)
	}
}
