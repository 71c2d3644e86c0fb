package skel

import (
	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/wire"
)

type binaryReader struct {
	*wire.Reader
	c  *Codec
	p  profile
	sd *skelfile.SkeletonData

	// Linked meshes refer to skins by index, which can only be resolved
	// once every skin was read.
	linked []linkedSkin
}

type linkedSkin struct {
	mesh *skelfile.LinkedMeshAttachment
	skin int
}

func newBinaryReader(c *Codec, b []byte) *binaryReader {
	return &binaryReader{Reader: wire.NewReader(b), c: c, p: c.p}
}

// str reads a string that is stored in the string table, if the generation
// has one.
func (r *binaryReader) str() string {
	if r.p.stringTable {
		return r.Ref()
	}
	return r.Str()
}

// enum reads an enumeration value that must be less than n.
func (r *binaryReader) enum(kind string, v, n int) int {
	if v < 0 || v >= n {
		r.Fail(errors.ReferenceError{Kind: kind, Index: v})
		return 0
	}
	return v
}

func (r *binaryReader) color() skelfile.Color {
	return skelfile.ColorFromRGBA(r.RGBA())
}

// dark reads an ARGB color. The leading byte is kept as read.
func (r *binaryReader) dark() skelfile.Color {
	v := uint32(r.Int32())
	return skelfile.Color{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (r *binaryReader) skeleton() {
	sd := &skelfile.SkeletonData{
		Generation:     r.p.gen,
		ReferenceScale: 100,
		FPS:            30,
	}
	r.sd = sd
	if r.p.hash64 {
		sd.Hash = hashString(r.Int64())
	} else {
		sd.Hash = r.Str()
	}
	sd.Version = r.Str()
	if r.Failed() {
		return
	}
	if err := r.c.checkVersion(sd.Version); err != nil {
		r.Fail(err)
		return
	}
	if r.p.position {
		sd.X = r.Float()
		sd.Y = r.Float()
	}
	sd.Width = r.Float()
	sd.Height = r.Float()
	if r.p.referenceScale {
		sd.ReferenceScale = r.Float()
	}
	sd.Nonessential = r.Bool()
	if sd.Nonessential {
		sd.FPS = r.Float()
		sd.ImagesPath, sd.HasImagesPath = r.NullStr()
		if r.p.audio {
			sd.AudioPath, sd.HasAudioPath = r.NullStr()
		}
	}
	if r.p.stringTable {
		sd.Strings = r.ReadTable()
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

func (r *binaryReader) bones() {
	n := r.Count()
	r.sd.Bones = make([]*skelfile.BoneData, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		b := skelfile.NewBoneData(r.Str(), -1)
		if i > 0 {
			b.Parent = r.Index("bone", i)
		}
		b.Rotation = r.Float()
		b.X = r.Float()
		b.Y = r.Float()
		b.ScaleX = r.Float()
		b.ScaleY = r.Float()
		b.ShearX = r.Float()
		b.ShearY = r.Float()
		b.Length = r.Float()
		if r.p.flagged {
			b.Inherit = skelfile.Inherit(r.enum("inherit mode", int(r.Byte()), 5))
		} else {
			b.Inherit = skelfile.Inherit(r.enum("inherit mode", r.Varint(), 5))
		}
		if r.p.skinRequired {
			b.SkinRequired = r.Bool()
		}
		if r.sd.Nonessential {
			b.Color = r.color()
			if r.p.visuals {
				b.Icon = r.Str()
				b.Visible = r.Bool()
			}
		}
		r.sd.Bones = append(r.sd.Bones, b)
	}
}

func (r *binaryReader) slots() {
	n := r.Count()
	r.sd.Slots = make([]*skelfile.SlotData, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		s := skelfile.NewSlotData(r.Str(), -1)
		s.Bone = r.Index("bone", len(r.sd.Bones))
		s.Color = r.color()
		if dark := r.dark(); dark != (skelfile.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
			s.Dark = &dark
		}
		s.Attachment = r.str()
		s.Blend = skelfile.BlendMode(r.enum("blend mode", r.Varint(), 4))
		if r.p.visuals && r.sd.Nonessential {
			s.Visible = r.Bool()
		}
		r.sd.Slots = append(r.sd.Slots, s)
	}
}

// indices reads a list of indices into a collection of length n.
func (r *binaryReader) indices(kind string, n int) []int {
	count := r.Count()
	list := make([]int, 0, count)
	for i := 0; i < count && !r.Failed(); i++ {
		list = append(list, r.Index(kind, n))
	}
	return list
}

func (r *binaryReader) ikConstraints() {
	n := r.Count()
	r.sd.IKConstraints = make([]*skelfile.IKConstraintData, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		k := skelfile.NewIKConstraintData(r.Str())
		k.Order = r.Varint()
		if r.p.flagged {
			k.Bones = r.indices("bone", len(r.sd.Bones))
			k.Target = r.Index("bone", len(r.sd.Bones))
			flags := r.Byte()
			k.SkinRequired = flags&1 != 0
			k.BendDirection = -1
			if flags&2 != 0 {
				k.BendDirection = 1
			}
			k.Compress = flags&4 != 0
			k.Stretch = flags&8 != 0
			k.Uniform = flags&16 != 0
			k.Mix = 0
			if flags&32 != 0 {
				k.Mix = 1
				if flags&64 != 0 {
					k.Mix = r.Float()
				}
			}
			if flags&128 != 0 {
				k.Softness = r.Float()
			}
		} else {
			if r.p.skinRequired {
				k.SkinRequired = r.Bool()
			}
			k.Bones = r.indices("bone", len(r.sd.Bones))
			k.Target = r.Index("bone", len(r.sd.Bones))
			k.Mix = r.Float()
			if r.p.ikSoftness {
				k.Softness = r.Float()
			}
			k.BendDirection = int(r.Int8())
			if r.p.ikCompress {
				k.Compress = r.Bool()
				k.Stretch = r.Bool()
				k.Uniform = r.Bool()
			}
		}
		r.sd.IKConstraints = append(r.sd.IKConstraints, k)
	}
}

func (r *binaryReader) transformConstraints() {
	n := r.Count()
	r.sd.TransformConstraints = make([]*skelfile.TransformConstraintData, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		k := skelfile.NewTransformConstraintData(r.Str())
		k.Order = r.Varint()
		if r.p.flagged {
			k.Bones = r.indices("bone", len(r.sd.Bones))
			k.Target = r.Index("bone", len(r.sd.Bones))
			flags := r.Byte()
			k.SkinRequired = flags&1 != 0
			k.Local = flags&2 != 0
			k.Relative = flags&4 != 0
			k.OffsetRotation = r.flaggedFloat(flags&8 != 0)
			k.OffsetX = r.flaggedFloat(flags&16 != 0)
			k.OffsetY = r.flaggedFloat(flags&32 != 0)
			k.OffsetScaleX = r.flaggedFloat(flags&64 != 0)
			k.OffsetScaleY = r.flaggedFloat(flags&128 != 0)
			flags = r.Byte()
			k.OffsetShearY = r.flaggedFloat(flags&1 != 0)
			k.MixRotate = r.flaggedFloat(flags&2 != 0)
			k.MixX = r.flaggedFloat(flags&4 != 0)
			k.MixY = r.flaggedFloat(flags&8 != 0)
			k.MixScaleX = r.flaggedFloat(flags&16 != 0)
			k.MixScaleY = r.flaggedFloat(flags&32 != 0)
			k.MixShearY = r.flaggedFloat(flags&64 != 0)
		} else {
			if r.p.skinRequired {
				k.SkinRequired = r.Bool()
			}
			k.Bones = r.indices("bone", len(r.sd.Bones))
			k.Target = r.Index("bone", len(r.sd.Bones))
			k.Local = r.Bool()
			k.Relative = r.Bool()
			k.OffsetRotation = r.Float()
			k.OffsetX = r.Float()
			k.OffsetY = r.Float()
			k.OffsetScaleX = r.Float()
			k.OffsetScaleY = r.Float()
			k.OffsetShearY = r.Float()
			if r.p.mixes6 {
				k.MixRotate = r.Float()
				k.MixX = r.Float()
				k.MixY = r.Float()
				k.MixScaleX = r.Float()
				k.MixScaleY = r.Float()
				k.MixShearY = r.Float()
			} else {
				k.MixRotate = r.Float()
				k.MixX = r.Float()
				k.MixY = k.MixX
				k.MixScaleX = r.Float()
				k.MixScaleY = k.MixScaleX
				k.MixShearY = r.Float()
			}
		}
		r.sd.TransformConstraints = append(r.sd.TransformConstraints, k)
	}
}

// flaggedFloat reads a float if present is set, and returns 0 otherwise.
func (r *binaryReader) flaggedFloat(present bool) float32 {
	if !present {
		return 0
	}
	return r.Float()
}

func (r *binaryReader) pathConstraints() {
	n := r.Count()
	r.sd.PathConstraints = make([]*skelfile.PathConstraintData, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		k := skelfile.NewPathConstraintData(r.Str())
		k.Order = r.Varint()
		if r.p.skinRequired {
			k.SkinRequired = r.Bool()
		}
		k.Bones = r.indices("bone", len(r.sd.Bones))
		k.Target = r.Index("slot", len(r.sd.Slots))
		if r.p.flagged {
			flags := int(r.Byte())
			k.PositionMode = skelfile.PositionMode(r.enum("position mode", flags&1, 2))
			k.SpacingMode = skelfile.SpacingMode(r.enum("spacing mode", flags>>1&3, 4))
			k.RotateMode = skelfile.RotateMode(r.enum("rotate mode", flags>>3&3, 3))
			k.OffsetRotation = r.flaggedFloat(flags&128 != 0)
		} else {
			k.PositionMode = skelfile.PositionMode(r.enum("position mode", r.Varint(), 2))
			spacingModes := 3
			if r.p.splitChannels {
				spacingModes = 4
			}
			k.SpacingMode = skelfile.SpacingMode(r.enum("spacing mode", r.Varint(), spacingModes))
			k.RotateMode = skelfile.RotateMode(r.enum("rotate mode", r.Varint(), 3))
			k.OffsetRotation = r.Float()
		}
		k.Position = r.Float()
		k.Spacing = r.Float()
		k.MixRotate = r.Float()
		k.MixX = r.Float()
		if r.p.mixes6 {
			k.MixY = r.Float()
		} else {
			k.MixY = k.MixX
		}
		r.sd.PathConstraints = append(r.sd.PathConstraints, k)
	}
}

func (r *binaryReader) physicsConstraints() {
	n := r.Count()
	r.sd.PhysicsConstraints = make([]*skelfile.PhysicsConstraintData, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		k := skelfile.NewPhysicsConstraintData(r.Str())
		k.Order = r.Varint()
		k.Bone = r.Index("bone", len(r.sd.Bones))
		flags := r.Byte()
		k.SkinRequired = flags&1 != 0
		k.X = r.flaggedFloat(flags&2 != 0)
		k.Y = r.flaggedFloat(flags&4 != 0)
		k.Rotate = r.flaggedFloat(flags&8 != 0)
		k.ScaleX = r.flaggedFloat(flags&16 != 0)
		k.ShearX = r.flaggedFloat(flags&32 != 0)
		if flags&64 != 0 {
			k.Limit = r.Float()
		}
		k.FPS = int(r.Byte())
		k.Inertia = r.Float()
		k.Strength = r.Float()
		k.Damping = r.Float()
		if flags&128 != 0 {
			k.MassInverse = r.Float()
		}
		k.Wind = r.Float()
		k.Gravity = r.Float()
		flags = r.Byte()
		k.InertiaGlobal = flags&1 != 0
		k.StrengthGlobal = flags&2 != 0
		k.DampingGlobal = flags&4 != 0
		k.MassGlobal = flags&8 != 0
		k.WindGlobal = flags&16 != 0
		k.GravityGlobal = flags&32 != 0
		k.MixGlobal = flags&64 != 0
		if flags&128 != 0 {
			k.Mix = r.Float()
		}
		r.sd.PhysicsConstraints = append(r.sd.PhysicsConstraints, k)
	}
}

func (r *binaryReader) skins() {
	sd := r.sd
	if skin := r.skin(true); skin != nil {
		sd.Skins = append(sd.Skins, skin)
	}
	n := r.Count()
	for i := 0; i < n && !r.Failed(); i++ {
		sd.Skins = append(sd.Skins, r.skin(false))
	}
	for _, l := range r.linked {
		if l.skin < 0 || l.skin >= len(sd.Skins) {
			r.Fail(errors.ReferenceError{Kind: "skin", Index: l.skin})
			return
		}
		if name := sd.Skins[l.skin].Name; name != "default" {
			l.mesh.Skin = name
		}
	}
}

func (r *binaryReader) skin(isDefault bool) *skelfile.Skin {
	if isDefault {
		slotCount := r.Count()
		if slotCount == 0 {
			return nil
		}
		skin := &skelfile.Skin{Name: "default", Color: skelfile.DefaultSkinColor}
		r.skinEntries(skin, slotCount)
		return skin
	}
	skin := &skelfile.Skin{Name: r.str(), Color: skelfile.DefaultSkinColor}
	if r.p.visuals && r.sd.Nonessential {
		skin.Color = r.color()
	}
	if r.p.skinScoped {
		skin.Bones = r.indices("bone", len(r.sd.Bones))
		r.skinConstraints(skin, skelfile.KindIK, len(r.sd.IKConstraints))
		r.skinConstraints(skin, skelfile.KindTransform, len(r.sd.TransformConstraints))
		r.skinConstraints(skin, skelfile.KindPath, len(r.sd.PathConstraints))
		if r.p.physics {
			r.skinConstraints(skin, skelfile.KindPhysics, len(r.sd.PhysicsConstraints))
		}
	}
	r.skinEntries(skin, r.Count())
	return skin
}

func (r *binaryReader) skinConstraints(skin *skelfile.Skin, kind skelfile.ConstraintKind, n int) {
	for _, i := range r.indices(kind.String()+" constraint", n) {
		skin.Constraints = append(skin.Constraints, skelfile.ConstraintRef{Kind: kind, Index: i})
	}
}

func (r *binaryReader) skinEntries(skin *skelfile.Skin, slotCount int) {
	for i := 0; i < slotCount && !r.Failed(); i++ {
		slot := r.Index("slot", len(r.sd.Slots))
		n := r.Count()
		for j := 0; j < n && !r.Failed(); j++ {
			name := r.str()
			var a skelfile.Attachment
			if r.p.flagged {
				a = r.attachmentFlagged()
			} else {
				a = r.attachment()
			}
			if r.Failed() {
				return
			}
			skin.Attachments = append(skin.Attachments, &skelfile.SkinAttachment{
				Slot:       slot,
				Name:       name,
				Attachment: a,
			})
		}
	}
}

// shorts reads a counted array of unsigned 16-bit integers.
func (r *binaryReader) shorts() []int {
	n := r.Count()
	list := make([]int, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		list = append(list, int(uint16(r.Int16())))
	}
	return list
}

// varints reads n variable-length integers.
func (r *binaryReader) varints(n int) []int {
	if n < 0 || n > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return nil
	}
	list := make([]int, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		list = append(list, r.Varint())
	}
	return list
}

func (r *binaryReader) vertices(vertexCount int, weighted bool) skelfile.Vertices {
	v := skelfile.Vertices{VertexCount: vertexCount}
	if vertexCount < 0 || vertexCount > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return v
	}
	if !weighted {
		v.Vertices = r.Floats(vertexCount * 2)
		return v
	}
	v.Bones = make([]int, 0, vertexCount*3)
	v.Vertices = make([]float32, 0, vertexCount*9)
	for i := 0; i < vertexCount && !r.Failed(); i++ {
		boneCount := r.Count()
		v.Bones = append(v.Bones, boneCount)
		for j := 0; j < boneCount && !r.Failed(); j++ {
			v.Bones = append(v.Bones, r.Index("bone", len(r.sd.Bones)))
			v.Vertices = append(v.Vertices, r.Float(), r.Float(), r.Float())
		}
	}
	return v
}

// attachmentColor reads the color of attachments that store it only as
// nonessential data.
func (r *binaryReader) attachmentColor(def skelfile.Color) skelfile.Color {
	if r.sd.Nonessential {
		return r.color()
	}
	return def
}

func (r *binaryReader) attachment() skelfile.Attachment {
	name := r.str()
	typ := r.Byte()
	if r.Failed() {
		return nil
	}
	switch skelfile.AttachmentType(typ) {
	case skelfile.TypeRegion:
		a := &skelfile.RegionAttachment{Name: name}
		a.Path = r.str()
		a.Rotation = r.Float()
		a.X = r.Float()
		a.Y = r.Float()
		a.ScaleX = r.Float()
		a.ScaleY = r.Float()
		a.Width = r.Float()
		a.Height = r.Float()
		a.Color = r.color()
		return a
	case skelfile.TypeBoundingBox:
		a := &skelfile.BoundingBoxAttachment{Name: name}
		vertexCount := r.Varint()
		a.Vertices = r.vertices(vertexCount, r.Bool())
		a.Color = r.attachmentColor(skelfile.BoundingBoxColor)
		return a
	case skelfile.TypeMesh:
		a := &skelfile.MeshAttachment{Name: name}
		a.Path = r.str()
		a.Color = r.color()
		vertexCount := r.Varint()
		a.UVs = r.Floats(vertexCount * 2)
		a.Triangles = r.shorts()
		a.Vertices = r.vertices(vertexCount, r.Bool())
		a.Hull = r.Varint()
		if r.sd.Nonessential {
			a.Edges = r.shorts()
			a.Width = r.Float()
			a.Height = r.Float()
		}
		return a
	case skelfile.TypeLinkedMesh:
		a := &skelfile.LinkedMeshAttachment{Name: name}
		a.Path = r.str()
		a.Color = r.color()
		a.Skin = r.str()
		a.Parent = r.str()
		if r.Bool() {
			a.Timelines = 1
		}
		if r.sd.Nonessential {
			a.Width = r.Float()
			a.Height = r.Float()
		}
		return a
	case skelfile.TypePath:
		a := &skelfile.PathAttachment{Name: name}
		a.Closed = r.Bool()
		a.ConstantSpeed = r.Bool()
		vertexCount := r.Varint()
		a.Vertices = r.vertices(vertexCount, r.Bool())
		a.Lengths = r.Floats(vertexCount / 3)
		a.Color = r.attachmentColor(skelfile.PathColor)
		return a
	case skelfile.TypePoint:
		a := &skelfile.PointAttachment{Name: name}
		a.Rotation = r.Float()
		a.X = r.Float()
		a.Y = r.Float()
		a.Color = r.attachmentColor(skelfile.PointColor)
		return a
	case skelfile.TypeClipping:
		a := &skelfile.ClippingAttachment{Name: name}
		a.End = r.Index("slot", len(r.sd.Slots))
		vertexCount := r.Varint()
		a.Vertices = r.vertices(vertexCount, r.Bool())
		a.Color = r.attachmentColor(skelfile.ClippingColor)
		return a
	}
	r.Fail(errors.ReferenceError{Kind: "attachment type", Index: int(typ)})
	return nil
}

func (r *binaryReader) sequence() *skelfile.Sequence {
	return &skelfile.Sequence{
		Count:      r.Varint(),
		Start:      r.Varint(),
		Digits:     r.Varint(),
		SetupIndex: r.Varint(),
	}
}

// attachmentFlagged reads an attachment whose optional fields are announced
// by a flags byte.
func (r *binaryReader) attachmentFlagged() skelfile.Attachment {
	flags := r.Byte()
	var name string
	if flags&8 != 0 {
		name = r.Ref()
	}
	if r.Failed() {
		return nil
	}
	switch typ := skelfile.AttachmentType(flags & 7); typ {
	case skelfile.TypeRegion:
		a := skelfile.NewRegionAttachment()
		a.Name = name
		if flags&16 != 0 {
			a.Path = r.Ref()
		}
		if flags&32 != 0 {
			a.Color = r.color()
		}
		if flags&64 != 0 {
			a.Sequence = r.sequence()
		}
		a.Rotation = r.flaggedFloat(flags&128 != 0)
		a.X = r.Float()
		a.Y = r.Float()
		a.ScaleX = r.Float()
		a.ScaleY = r.Float()
		a.Width = r.Float()
		a.Height = r.Float()
		return a
	case skelfile.TypeBoundingBox:
		a := &skelfile.BoundingBoxAttachment{Name: name}
		a.Vertices = r.vertices(r.Varint(), flags&16 != 0)
		a.Color = r.attachmentColor(skelfile.BoundingBoxColor)
		return a
	case skelfile.TypeMesh:
		a := &skelfile.MeshAttachment{Name: name, Color: skelfile.White}
		if flags&16 != 0 {
			a.Path = r.Ref()
		}
		if flags&32 != 0 {
			a.Color = r.color()
		}
		if flags&64 != 0 {
			a.Sequence = r.sequence()
		}
		a.Hull = r.Varint()
		a.Vertices = r.vertices(r.Varint(), flags&128 != 0)
		a.UVs = r.Floats(a.VertexCount * 2)
		a.Triangles = r.varints((a.VertexCount*2 - a.Hull - 2) * 3)
		if r.sd.Nonessential {
			a.Edges = r.varints(r.Varint())
			a.Width = r.Float()
			a.Height = r.Float()
		}
		return a
	case skelfile.TypeLinkedMesh:
		a := &skelfile.LinkedMeshAttachment{Name: name, Color: skelfile.White}
		if flags&16 != 0 {
			a.Path = r.Ref()
		}
		if flags&32 != 0 {
			a.Color = r.color()
		}
		if flags&64 != 0 {
			a.Sequence = r.sequence()
		}
		if flags&128 != 0 {
			a.Timelines = 1
		}
		r.linked = append(r.linked, linkedSkin{mesh: a, skin: r.Varint()})
		a.Parent = r.Ref()
		if r.sd.Nonessential {
			a.Width = r.Float()
			a.Height = r.Float()
		}
		return a
	case skelfile.TypePath:
		a := &skelfile.PathAttachment{Name: name}
		a.Closed = flags&16 != 0
		a.ConstantSpeed = flags&32 != 0
		a.Vertices = r.vertices(r.Varint(), flags&64 != 0)
		a.Lengths = r.Floats(a.VertexCount / 3)
		a.Color = r.attachmentColor(skelfile.PathColor)
		return a
	case skelfile.TypePoint:
		a := &skelfile.PointAttachment{Name: name}
		a.Rotation = r.Float()
		a.X = r.Float()
		a.Y = r.Float()
		a.Color = r.attachmentColor(skelfile.PointColor)
		return a
	case skelfile.TypeClipping:
		a := &skelfile.ClippingAttachment{Name: name}
		a.End = r.Index("slot", len(r.sd.Slots))
		a.Vertices = r.vertices(r.Varint(), flags&16 != 0)
		a.Color = r.attachmentColor(skelfile.ClippingColor)
		return a
	default:
		r.Fail(errors.ReferenceError{Kind: "attachment type", Index: int(typ)})
	}
	return nil
}

func (r *binaryReader) events() {
	n := r.Count()
	r.sd.Events = make([]*skelfile.EventData, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		e := skelfile.NewEventData(r.str())
		e.Int = r.Zigzag()
		e.Float = r.Float()
		e.String, e.HasString = r.NullStr()
		if r.p.audio {
			e.AudioPath, e.HasAudioPath = r.NullStr()
			if e.HasAudioPath {
				e.Volume = r.Float()
				e.Balance = r.Float()
			}
		}
		r.sd.Events = append(r.sd.Events, e)
	}
}
