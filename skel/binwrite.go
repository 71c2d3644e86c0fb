package skel

import (
	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/wire"
)

type binaryWriter struct {
	*wire.Writer
	c  *Codec
	p  profile
	sd *skelfile.SkeletonData

	table *wire.StringTable
	// skins maps the index of a skin in the model to its index in the file,
	// where the default skin comes first.
	skins []int
}

func newBinaryWriter(c *Codec, sd *skelfile.SkeletonData) *binaryWriter {
	w := &binaryWriter{Writer: wire.NewWriter(), c: c, p: c.p, sd: sd}
	if w.p.stringTable {
		w.table = stringTable(sd, w.p)
	}
	def := sd.DefaultSkin()
	w.skins = make([]int, len(sd.Skins))
	next := 0
	if def >= 0 {
		w.skins[def] = 0
		next = 1
	}
	for i := range sd.Skins {
		if i != def {
			w.skins[i] = next
			next++
		}
	}
	return w
}

func (w *binaryWriter) str(s string) {
	if w.p.stringTable {
		w.Ref(s)
	} else {
		w.Str(s)
	}
}

// index writes i as an index into a collection of length n.
func (w *binaryWriter) index(kind string, i, n int) {
	if i < 0 || i >= n {
		w.Fail(errors.ReferenceError{Kind: kind, Index: i})
		return
	}
	w.Varint(i)
}

func (w *binaryWriter) color(c skelfile.Color) {
	w.RGBA(c.RGBA())
}

func (w *binaryWriter) dark(c skelfile.Color) {
	w.Int32(int32(uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)))
}

func (w *binaryWriter) skeleton() {
	sd := w.sd
	if w.p.hash64 {
		w.Int64(hashValue(sd.Hash))
	} else {
		w.Str(sd.Hash)
	}
	version := sd.Version
	if version == "" {
		version = w.p.gen.DefaultVersion()
	}
	w.Str(version)
	if w.p.position {
		w.Float(sd.X)
		w.Float(sd.Y)
	}
	w.Float(sd.Width)
	w.Float(sd.Height)
	if w.p.referenceScale {
		w.Float(sd.ReferenceScale)
	}
	w.Bool(sd.Nonessential)
	if sd.Nonessential {
		w.Float(sd.FPS)
		w.NullStr(sd.ImagesPath, sd.HasImagesPath || sd.ImagesPath != "")
		if w.p.audio {
			w.NullStr(sd.AudioPath, sd.HasAudioPath || sd.AudioPath != "")
		}
	}
	if w.p.stringTable {
		w.WriteTable(w.table)
	}

	w.bones()
	w.slots()
	w.ikConstraints()
	w.transformConstraints()
	w.pathConstraints()
	if w.p.physics {
		w.physicsConstraints()
	}
	w.skinList()
	w.events()
	w.animations()
}

func (w *binaryWriter) bones() {
	sd := w.sd
	w.Varint(len(sd.Bones))
	for i, b := range sd.Bones {
		w.Str(b.Name)
		if i > 0 {
			w.index("bone", b.Parent, i)
		}
		w.Float(b.Rotation)
		w.Float(b.X)
		w.Float(b.Y)
		w.Float(b.ScaleX)
		w.Float(b.ScaleY)
		w.Float(b.ShearX)
		w.Float(b.ShearY)
		w.Float(b.Length)
		if w.p.flagged {
			w.Byte(byte(b.Inherit))
		} else {
			w.Varint(int(b.Inherit))
		}
		if w.p.skinRequired {
			w.Bool(b.SkinRequired)
		}
		if sd.Nonessential {
			w.color(b.Color)
			if w.p.visuals {
				w.Str(b.Icon)
				w.Bool(b.Visible)
			}
		}
	}
}

func (w *binaryWriter) slots() {
	sd := w.sd
	w.Varint(len(sd.Slots))
	for _, s := range sd.Slots {
		w.Str(s.Name)
		w.index("bone", s.Bone, len(sd.Bones))
		w.color(s.Color)
		if s.Dark == nil {
			w.Int32(-1)
		} else {
			w.dark(*s.Dark)
		}
		w.str(s.Attachment)
		w.Varint(int(s.Blend))
		if w.p.visuals && sd.Nonessential {
			w.Bool(s.Visible)
		}
	}
}

func (w *binaryWriter) indices(kind string, list []int, n int) {
	w.Varint(len(list))
	for _, i := range list {
		w.index(kind, i, n)
	}
}

func (w *binaryWriter) ikConstraints() {
	sd := w.sd
	w.Varint(len(sd.IKConstraints))
	for _, k := range sd.IKConstraints {
		w.Str(k.Name)
		w.Varint(k.Order)
		if w.p.flagged {
			w.indices("bone", k.Bones, len(sd.Bones))
			w.index("bone", k.Target, len(sd.Bones))
			var flags byte
			if k.SkinRequired {
				flags |= 1
			}
			if k.BendDirection > 0 {
				flags |= 2
			}
			if k.Compress {
				flags |= 4
			}
			if k.Stretch {
				flags |= 8
			}
			if k.Uniform {
				flags |= 16
			}
			if k.Mix != 0 {
				flags |= 32
				if k.Mix != 1 {
					flags |= 64
				}
			}
			if k.Softness != 0 {
				flags |= 128
			}
			w.Byte(flags)
			if flags&64 != 0 {
				w.Float(k.Mix)
			}
			if flags&128 != 0 {
				w.Float(k.Softness)
			}
			continue
		}
		if w.p.skinRequired {
			w.Bool(k.SkinRequired)
		}
		w.indices("bone", k.Bones, len(sd.Bones))
		w.index("bone", k.Target, len(sd.Bones))
		w.Float(k.Mix)
		if w.p.ikSoftness {
			w.Float(k.Softness)
		}
		w.Int8(int8(k.BendDirection))
		if w.p.ikCompress {
			w.Bool(k.Compress)
			w.Bool(k.Stretch)
			w.Bool(k.Uniform)
		}
	}
}

// flag returns bit if v is non-zero.
func flag(v float32, bit byte) byte {
	if v != 0 {
		return bit
	}
	return 0
}

func (w *binaryWriter) flaggedFloat(flags, bit byte, v float32) {
	if flags&bit != 0 {
		w.Float(v)
	}
}

func (w *binaryWriter) transformConstraints() {
	sd := w.sd
	w.Varint(len(sd.TransformConstraints))
	for _, k := range sd.TransformConstraints {
		w.Str(k.Name)
		w.Varint(k.Order)
		if w.p.flagged {
			w.indices("bone", k.Bones, len(sd.Bones))
			w.index("bone", k.Target, len(sd.Bones))
			var flags byte
			if k.SkinRequired {
				flags |= 1
			}
			if k.Local {
				flags |= 2
			}
			if k.Relative {
				flags |= 4
			}
			flags |= flag(k.OffsetRotation, 8) | flag(k.OffsetX, 16) | flag(k.OffsetY, 32) |
				flag(k.OffsetScaleX, 64) | flag(k.OffsetScaleY, 128)
			w.Byte(flags)
			w.flaggedFloat(flags, 8, k.OffsetRotation)
			w.flaggedFloat(flags, 16, k.OffsetX)
			w.flaggedFloat(flags, 32, k.OffsetY)
			w.flaggedFloat(flags, 64, k.OffsetScaleX)
			w.flaggedFloat(flags, 128, k.OffsetScaleY)
			flags = flag(k.OffsetShearY, 1) | flag(k.MixRotate, 2) | flag(k.MixX, 4) |
				flag(k.MixY, 8) | flag(k.MixScaleX, 16) | flag(k.MixScaleY, 32) | flag(k.MixShearY, 64)
			w.Byte(flags)
			w.flaggedFloat(flags, 1, k.OffsetShearY)
			w.flaggedFloat(flags, 2, k.MixRotate)
			w.flaggedFloat(flags, 4, k.MixX)
			w.flaggedFloat(flags, 8, k.MixY)
			w.flaggedFloat(flags, 16, k.MixScaleX)
			w.flaggedFloat(flags, 32, k.MixScaleY)
			w.flaggedFloat(flags, 64, k.MixShearY)
			continue
		}
		if w.p.skinRequired {
			w.Bool(k.SkinRequired)
		}
		w.indices("bone", k.Bones, len(sd.Bones))
		w.index("bone", k.Target, len(sd.Bones))
		w.Bool(k.Local)
		w.Bool(k.Relative)
		w.Float(k.OffsetRotation)
		w.Float(k.OffsetX)
		w.Float(k.OffsetY)
		w.Float(k.OffsetScaleX)
		w.Float(k.OffsetScaleY)
		w.Float(k.OffsetShearY)
		w.Float(k.MixRotate)
		w.Float(k.MixX)
		if w.p.mixes6 {
			w.Float(k.MixY)
		}
		w.Float(k.MixScaleX)
		if w.p.mixes6 {
			w.Float(k.MixScaleY)
		}
		w.Float(k.MixShearY)
	}
}

func (w *binaryWriter) pathConstraints() {
	sd := w.sd
	w.Varint(len(sd.PathConstraints))
	for _, k := range sd.PathConstraints {
		w.Str(k.Name)
		w.Varint(k.Order)
		if w.p.skinRequired {
			w.Bool(k.SkinRequired)
		}
		w.indices("bone", k.Bones, len(sd.Bones))
		w.index("slot", k.Target, len(sd.Slots))
		if w.p.flagged {
			flags := byte(k.PositionMode)&1 | byte(k.SpacingMode)&3<<1 | byte(k.RotateMode)&3<<3 |
				flag(k.OffsetRotation, 128)
			w.Byte(flags)
			w.flaggedFloat(flags, 128, k.OffsetRotation)
		} else {
			w.Varint(int(k.PositionMode))
			w.Varint(int(k.SpacingMode))
			w.Varint(int(k.RotateMode))
			w.Float(k.OffsetRotation)
		}
		w.Float(k.Position)
		w.Float(k.Spacing)
		w.Float(k.MixRotate)
		w.Float(k.MixX)
		if w.p.mixes6 {
			w.Float(k.MixY)
		}
	}
}

func (w *binaryWriter) physicsConstraints() {
	sd := w.sd
	w.Varint(len(sd.PhysicsConstraints))
	for _, k := range sd.PhysicsConstraints {
		w.Str(k.Name)
		w.Varint(k.Order)
		w.index("bone", k.Bone, len(sd.Bones))
		var flags byte
		if k.SkinRequired {
			flags |= 1
		}
		flags |= flag(k.X, 2) | flag(k.Y, 4) | flag(k.Rotate, 8) | flag(k.ScaleX, 16) | flag(k.ShearX, 32)
		if k.Limit != 5000 {
			flags |= 64
		}
		if k.MassInverse != 1 {
			flags |= 128
		}
		w.Byte(flags)
		w.flaggedFloat(flags, 2, k.X)
		w.flaggedFloat(flags, 4, k.Y)
		w.flaggedFloat(flags, 8, k.Rotate)
		w.flaggedFloat(flags, 16, k.ScaleX)
		w.flaggedFloat(flags, 32, k.ShearX)
		w.flaggedFloat(flags, 64, k.Limit)
		w.Byte(byte(k.FPS))
		w.Float(k.Inertia)
		w.Float(k.Strength)
		w.Float(k.Damping)
		w.flaggedFloat(flags, 128, k.MassInverse)
		w.Float(k.Wind)
		w.Float(k.Gravity)
		flags = 0
		for i, global := range []bool{
			k.InertiaGlobal,
			k.StrengthGlobal,
			k.DampingGlobal,
			k.MassGlobal,
			k.WindGlobal,
			k.GravityGlobal,
			k.MixGlobal,
		} {
			if global {
				flags |= 1 << i
			}
		}
		if k.Mix != 1 {
			flags |= 128
		}
		w.Byte(flags)
		w.flaggedFloat(flags, 128, k.Mix)
	}
}

func (w *binaryWriter) skinList() {
	sd := w.sd
	def := sd.DefaultSkin()
	if def < 0 {
		w.Varint(0)
	} else {
		w.skinEntries(sd.Skins[def])
	}
	n := len(sd.Skins)
	if def >= 0 {
		n--
	}
	w.Varint(n)
	for i, skin := range sd.Skins {
		if i == def {
			continue
		}
		w.str(skin.Name)
		if w.p.visuals && sd.Nonessential {
			w.color(skin.Color)
		}
		if w.p.skinScoped {
			w.indices("bone", skin.Bones, len(sd.Bones))
			kinds := []skelfile.ConstraintKind{skelfile.KindIK, skelfile.KindTransform, skelfile.KindPath}
			if w.p.physics {
				kinds = append(kinds, skelfile.KindPhysics)
			}
			for _, kind := range kinds {
				var list []int
				for _, ref := range skin.Constraints {
					if ref.Kind == kind {
						list = append(list, ref.Index)
					}
				}
				w.indices(kind.String()+" constraint", list, w.constraintCount(kind))
			}
		}
		w.skinEntries(skin)
	}
}

func (w *binaryWriter) constraintCount(kind skelfile.ConstraintKind) int {
	switch kind {
	case skelfile.KindIK:
		return len(w.sd.IKConstraints)
	case skelfile.KindTransform:
		return len(w.sd.TransformConstraints)
	case skelfile.KindPath:
		return len(w.sd.PathConstraints)
	case skelfile.KindPhysics:
		return len(w.sd.PhysicsConstraints)
	}
	return 0
}

func (w *binaryWriter) skinEntries(skin *skelfile.Skin) {
	slots := skin.SlotOrder()
	w.Varint(len(slots))
	for _, slot := range slots {
		entries := skin.ForSlot(slot)
		w.index("slot", slot, len(w.sd.Slots))
		w.Varint(len(entries))
		for _, e := range entries {
			w.str(e.Name)
			if w.p.flagged {
				w.attachmentFlagged(e.Attachment)
			} else {
				w.attachment(e.Attachment)
			}
		}
	}
}

// floats writes a, which must hold n values.
func (w *binaryWriter) floats(kind string, a []float32, n int) {
	if len(a) != n {
		w.Fail(errors.ReferenceError{Kind: kind, Index: len(a)})
		return
	}
	w.Floats(a)
}

func (w *binaryWriter) shorts(a []int) {
	w.Varint(len(a))
	for _, v := range a {
		w.Int16(int16(uint16(v)))
	}
}

func (w *binaryWriter) varints(a []int) {
	for _, v := range a {
		w.Varint(v)
	}
}

// vertices writes vertex data without the weighted flag.
func (w *binaryWriter) vertices(v skelfile.Vertices) {
	if !v.Weighted() {
		w.floats("vertex", v.Vertices, v.VertexCount*2)
		return
	}
	b, f := 0, 0
	for i := 0; i < v.VertexCount && !w.Failed(); i++ {
		if b >= len(v.Bones) {
			w.Fail(errors.ReferenceError{Kind: "vertex", Index: i})
			return
		}
		n := v.Bones[b]
		b++
		if n < 0 || b+n > len(v.Bones) || f+n*3 > len(v.Vertices) {
			w.Fail(errors.ReferenceError{Kind: "vertex", Index: i})
			return
		}
		w.Varint(n)
		for j := 0; j < n; j++ {
			w.index("bone", v.Bones[b], len(w.sd.Bones))
			w.Floats(v.Vertices[f : f+3])
			b++
			f += 3
		}
	}
}

func (w *binaryWriter) attachmentColor(c skelfile.Color) {
	if w.sd.Nonessential {
		w.color(c)
	}
}

func (w *binaryWriter) attachment(a skelfile.Attachment) {
	if a == nil {
		w.Fail(errors.ReferenceError{Kind: "attachment", Index: -1})
		return
	}
	w.str(a.AttachmentName())
	w.Byte(byte(a.Type()))
	switch a := a.(type) {
	case *skelfile.RegionAttachment:
		w.str(a.Path)
		w.Float(a.Rotation)
		w.Float(a.X)
		w.Float(a.Y)
		w.Float(a.ScaleX)
		w.Float(a.ScaleY)
		w.Float(a.Width)
		w.Float(a.Height)
		w.color(a.Color)
	case *skelfile.BoundingBoxAttachment:
		w.Varint(a.VertexCount)
		w.Bool(a.Weighted())
		w.vertices(a.Vertices)
		w.attachmentColor(a.Color)
	case *skelfile.MeshAttachment:
		w.str(a.Path)
		w.color(a.Color)
		w.Varint(a.VertexCount)
		w.floats("uv", a.UVs, a.VertexCount*2)
		w.shorts(a.Triangles)
		w.Bool(a.Weighted())
		w.vertices(a.Vertices)
		w.Varint(a.Hull)
		if w.sd.Nonessential {
			w.shorts(a.Edges)
			w.Float(a.Width)
			w.Float(a.Height)
		}
	case *skelfile.LinkedMeshAttachment:
		w.str(a.Path)
		w.color(a.Color)
		w.str(a.Skin)
		w.str(a.Parent)
		w.Bool(a.Timelines != 0)
		if w.sd.Nonessential {
			w.Float(a.Width)
			w.Float(a.Height)
		}
	case *skelfile.PathAttachment:
		w.Bool(a.Closed)
		w.Bool(a.ConstantSpeed)
		w.Varint(a.VertexCount)
		w.Bool(a.Weighted())
		w.vertices(a.Vertices)
		w.floats("path length", a.Lengths, a.VertexCount/3)
		w.attachmentColor(a.Color)
	case *skelfile.PointAttachment:
		w.Float(a.Rotation)
		w.Float(a.X)
		w.Float(a.Y)
		w.attachmentColor(a.Color)
	case *skelfile.ClippingAttachment:
		w.index("slot", a.End, len(w.sd.Slots))
		w.Varint(a.VertexCount)
		w.Bool(a.Weighted())
		w.vertices(a.Vertices)
		w.attachmentColor(a.Color)
	}
}

func (w *binaryWriter) sequence(s *skelfile.Sequence) {
	w.Varint(s.Count)
	w.Varint(s.Start)
	w.Varint(s.Digits)
	w.Varint(s.SetupIndex)
}

// attachmentFlags returns the flags shared by textured attachments.
func attachmentFlags(path string, c skelfile.Color, s *skelfile.Sequence) (flags byte) {
	if path != "" {
		flags |= 16
	}
	if c != skelfile.White {
		flags |= 32
	}
	if s != nil {
		flags |= 64
	}
	return flags
}

func (w *binaryWriter) textured(flags byte, path string, c skelfile.Color, s *skelfile.Sequence) {
	if flags&16 != 0 {
		w.Ref(path)
	}
	if flags&32 != 0 {
		w.color(c)
	}
	if flags&64 != 0 {
		w.sequence(s)
	}
}

func (w *binaryWriter) attachmentFlagged(a skelfile.Attachment) {
	if a == nil {
		w.Fail(errors.ReferenceError{Kind: "attachment", Index: -1})
		return
	}
	flags := byte(a.Type())
	if a.AttachmentName() != "" {
		flags |= 8
	}
	header := func(more byte) {
		w.Byte(flags | more)
		if flags&8 != 0 {
			w.Ref(a.AttachmentName())
		}
	}
	weighted := func(v skelfile.Vertices, bit byte) byte {
		if v.Weighted() {
			return bit
		}
		return 0
	}
	switch a := a.(type) {
	case *skelfile.RegionAttachment:
		more := attachmentFlags(a.Path, a.Color, a.Sequence) | flag(a.Rotation, 128)
		header(more)
		w.textured(more, a.Path, a.Color, a.Sequence)
		w.flaggedFloat(more, 128, a.Rotation)
		w.Float(a.X)
		w.Float(a.Y)
		w.Float(a.ScaleX)
		w.Float(a.ScaleY)
		w.Float(a.Width)
		w.Float(a.Height)
	case *skelfile.BoundingBoxAttachment:
		header(weighted(a.Vertices, 16))
		w.Varint(a.VertexCount)
		w.vertices(a.Vertices)
		w.attachmentColor(a.Color)
	case *skelfile.MeshAttachment:
		more := attachmentFlags(a.Path, a.Color, a.Sequence) | weighted(a.Vertices, 128)
		header(more)
		w.textured(more, a.Path, a.Color, a.Sequence)
		w.Varint(a.Hull)
		w.Varint(a.VertexCount)
		w.vertices(a.Vertices)
		w.floats("uv", a.UVs, a.VertexCount*2)
		if n := (a.VertexCount*2 - a.Hull - 2) * 3; len(a.Triangles) != n {
			w.Fail(errors.ReferenceError{Kind: "triangle", Index: len(a.Triangles)})
			return
		}
		w.varints(a.Triangles)
		if w.sd.Nonessential {
			w.Varint(len(a.Edges))
			w.varints(a.Edges)
			w.Float(a.Width)
			w.Float(a.Height)
		}
	case *skelfile.LinkedMeshAttachment:
		more := attachmentFlags(a.Path, a.Color, a.Sequence)
		if a.Timelines != 0 {
			more |= 128
		}
		header(more)
		w.textured(more, a.Path, a.Color, a.Sequence)
		w.Varint(w.skinIndex(a.Skin))
		w.Ref(a.Parent)
		if w.sd.Nonessential {
			w.Float(a.Width)
			w.Float(a.Height)
		}
	case *skelfile.PathAttachment:
		var more byte
		if a.Closed {
			more |= 16
		}
		if a.ConstantSpeed {
			more |= 32
		}
		header(more | weighted(a.Vertices, 64))
		w.Varint(a.VertexCount)
		w.vertices(a.Vertices)
		w.floats("path length", a.Lengths, a.VertexCount/3)
		w.attachmentColor(a.Color)
	case *skelfile.PointAttachment:
		header(0)
		w.Float(a.Rotation)
		w.Float(a.X)
		w.Float(a.Y)
		w.attachmentColor(a.Color)
	case *skelfile.ClippingAttachment:
		header(weighted(a.Vertices, 16))
		w.index("slot", a.End, len(w.sd.Slots))
		w.Varint(a.VertexCount)
		w.vertices(a.Vertices)
		w.attachmentColor(a.Color)
	}
}

// skinIndex returns the file index of the named skin. An empty name is the
// default skin.
func (w *binaryWriter) skinIndex(name string) int {
	if name == "" {
		name = "default"
	}
	i := w.sd.FindSkin(name)
	if i < 0 {
		if name == "default" {
			return 0
		}
		w.Fail(errors.ReferenceError{Kind: "skin", Index: -1, Name: name})
		return 0
	}
	return w.skins[i]
}

func (w *binaryWriter) events() {
	sd := w.sd
	w.Varint(len(sd.Events))
	for _, e := range sd.Events {
		w.str(e.Name)
		w.Zigzag(e.Int)
		w.Float(e.Float)
		w.NullStr(e.String, e.HasString || e.String != "")
		if w.p.audio {
			w.NullStr(e.AudioPath, e.PlaysAudio())
			if e.PlaysAudio() {
				w.Float(e.Volume)
				w.Float(e.Balance)
			}
		}
	}
}
