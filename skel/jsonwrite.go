package skel

import (
	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/json"
)

type jsonWriter struct {
	c   *Codec
	p   profile
	sd  *skelfile.SkeletonData
	err error
}

func newJSONWriter(c *Codec, sd *skelfile.SkeletonData) *jsonWriter {
	return &jsonWriter{c: c, p: c.p, sd: sd}
}

func (w *jsonWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// name returns the name of item i of a collection of length n.
func (w *jsonWriter) name(kind string, i, n int, name func(i int) string) string {
	if i < 0 || i >= n {
		w.fail(errors.ReferenceError{Kind: kind, Index: i})
		return ""
	}
	return name(i)
}

func (w *jsonWriter) bone(i int) string {
	return w.name("bone", i, len(w.sd.Bones), func(i int) string { return w.sd.Bones[i].Name })
}

func (w *jsonWriter) slot(i int) string {
	return w.name("slot", i, len(w.sd.Slots), func(i int) string { return w.sd.Slots[i].Name })
}

func (w *jsonWriter) bones(list []int) []interface{} {
	names := make([]interface{}, len(list))
	for i, b := range list {
		names[i] = w.bone(b)
	}
	return names
}

func setColor(o *json.Object, key string, c, def skelfile.Color) {
	if c != def {
		o.Set(key, c.Hex())
	}
}

func (w *jsonWriter) skeleton() *json.Object {
	sd := w.sd
	doc := json.NewObject()

	s := json.NewObject()
	s.SetString("hash", sd.Hash, "")
	version := sd.Version
	if version == "" {
		version = w.p.gen.DefaultVersion()
	}
	s.Set("spine", version)
	if w.p.position {
		s.SetFloat("x", sd.X, 0)
		s.SetFloat("y", sd.Y, 0)
	}
	s.Set("width", sd.Width)
	s.Set("height", sd.Height)
	if w.p.referenceScale {
		s.SetFloat("referenceScale", sd.ReferenceScale, 100)
	}
	if sd.Nonessential {
		s.SetFloat("fps", sd.FPS, 30)
		if sd.HasImagesPath || sd.ImagesPath != "" {
			s.Set("images", sd.ImagesPath)
		}
		if w.p.audio && (sd.HasAudioPath || sd.AudioPath != "") {
			s.Set("audio", sd.AudioPath)
		}
	}
	doc.Set("skeleton", s)

	doc.SetNonEmpty("bones", w.boneList())
	doc.SetNonEmpty("slots", w.slotList())
	doc.SetNonEmpty("ik", w.ikConstraints())
	doc.SetNonEmpty("transform", w.transformConstraints())
	doc.SetNonEmpty("path", w.pathConstraints())
	if w.p.physics {
		doc.SetNonEmpty("physics", w.physicsConstraints())
	}
	doc.SetNonEmpty("skins", w.skins())
	doc.SetNonEmpty("events", w.events())
	doc.SetNonEmpty("animations", w.animations())
	return doc
}

func (w *jsonWriter) boneList() []interface{} {
	sd := w.sd
	list := make([]interface{}, 0, len(sd.Bones))
	for _, b := range sd.Bones {
		o := json.NewObject()
		o.Set("name", b.Name)
		if b.Parent >= 0 {
			o.Set("parent", w.bone(b.Parent))
		}
		o.SetFloat("length", b.Length, 0)
		o.SetFloat("rotation", b.Rotation, 0)
		o.SetFloat("x", b.X, 0)
		o.SetFloat("y", b.Y, 0)
		o.SetFloat("scaleX", b.ScaleX, 1)
		o.SetFloat("scaleY", b.ScaleY, 1)
		o.SetFloat("shearX", b.ShearX, 0)
		o.SetFloat("shearY", b.ShearY, 0)
		if b.Inherit != skelfile.InheritNormal {
			o.Set(w.p.inheritKey, b.Inherit.String())
		}
		if w.p.skinRequired {
			o.SetBool("skin", b.SkinRequired, false)
		}
		if sd.Nonessential {
			setColor(o, "color", b.Color, skelfile.DefaultBoneColor)
			if w.p.visuals {
				o.SetString("icon", b.Icon, "")
				o.SetBool("visible", b.Visible, true)
			}
		}
		list = append(list, o)
	}
	return list
}

func (w *jsonWriter) slotList() []interface{} {
	sd := w.sd
	list := make([]interface{}, 0, len(sd.Slots))
	for _, s := range sd.Slots {
		o := json.NewObject()
		o.Set("name", s.Name)
		o.Set("bone", w.bone(s.Bone))
		setColor(o, "color", s.Color, skelfile.White)
		if s.Dark != nil {
			o.Set("dark", s.Dark.HexRGB())
		}
		o.SetString("attachment", s.Attachment, "")
		if s.Blend != skelfile.BlendNormal {
			o.Set("blend", s.Blend.String())
		}
		if w.p.visuals && sd.Nonessential {
			o.SetBool("visible", s.Visible, true)
		}
		list = append(list, o)
	}
	return list
}

func (w *jsonWriter) constraint(o *json.Object, c skelfile.ConstraintData) {
	o.Set("name", c.Name)
	o.SetInt("order", c.Order, 0)
	if w.p.skinRequired {
		o.SetBool("skin", c.SkinRequired, false)
	}
}

func (w *jsonWriter) ikConstraints() []interface{} {
	list := make([]interface{}, 0, len(w.sd.IKConstraints))
	for _, k := range w.sd.IKConstraints {
		o := json.NewObject()
		w.constraint(o, k.ConstraintData)
		o.Set("bones", w.bones(k.Bones))
		o.Set("target", w.bone(k.Target))
		o.SetFloat("mix", k.Mix, 1)
		if w.p.ikSoftness {
			o.SetFloat("softness", k.Softness, 0)
		}
		o.SetBool("bendPositive", k.BendDirection > 0, true)
		if w.p.ikCompress {
			o.SetBool("compress", k.Compress, false)
			o.SetBool("stretch", k.Stretch, false)
			o.SetBool("uniform", k.Uniform, false)
		}
		list = append(list, o)
	}
	return list
}

func (w *jsonWriter) transformConstraints() []interface{} {
	list := make([]interface{}, 0, len(w.sd.TransformConstraints))
	for _, k := range w.sd.TransformConstraints {
		o := json.NewObject()
		w.constraint(o, k.ConstraintData)
		o.Set("bones", w.bones(k.Bones))
		o.Set("target", w.bone(k.Target))
		o.SetBool("local", k.Local, false)
		o.SetBool("relative", k.Relative, false)
		o.SetFloat("rotation", k.OffsetRotation, 0)
		o.SetFloat("x", k.OffsetX, 0)
		o.SetFloat("y", k.OffsetY, 0)
		o.SetFloat("scaleX", k.OffsetScaleX, 0)
		o.SetFloat("scaleY", k.OffsetScaleY, 0)
		o.SetFloat("shearY", k.OffsetShearY, 0)
		if w.p.mixes6 {
			o.SetFloat("mixRotate", k.MixRotate, 1)
			o.SetFloat("mixX", k.MixX, 1)
			o.SetFloat("mixY", k.MixY, k.MixX)
			o.SetFloat("mixScaleX", k.MixScaleX, 1)
			o.SetFloat("mixScaleY", k.MixScaleY, k.MixScaleX)
			o.SetFloat("mixShearY", k.MixShearY, 1)
		} else {
			o.SetFloat("rotateMix", k.MixRotate, 1)
			o.SetFloat("translateMix", k.MixX, 1)
			o.SetFloat("scaleMix", k.MixScaleX, 1)
			o.SetFloat("shearMix", k.MixShearY, 1)
		}
		list = append(list, o)
	}
	return list
}

func (w *jsonWriter) pathConstraints() []interface{} {
	list := make([]interface{}, 0, len(w.sd.PathConstraints))
	for _, k := range w.sd.PathConstraints {
		o := json.NewObject()
		w.constraint(o, k.ConstraintData)
		o.Set("bones", w.bones(k.Bones))
		o.Set("target", w.slot(k.Target))
		if k.PositionMode != skelfile.PositionPercent {
			o.Set("positionMode", k.PositionMode.String())
		}
		if k.SpacingMode != skelfile.SpacingLength {
			o.Set("spacingMode", k.SpacingMode.String())
		}
		if k.RotateMode != skelfile.RotateTangent {
			o.Set("rotateMode", k.RotateMode.String())
		}
		o.SetFloat("rotation", k.OffsetRotation, 0)
		o.SetFloat("position", k.Position, 0)
		o.SetFloat("spacing", k.Spacing, 0)
		if w.p.mixes6 {
			o.SetFloat("mixRotate", k.MixRotate, 1)
			o.SetFloat("mixX", k.MixX, 1)
			o.SetFloat("mixY", k.MixY, k.MixX)
		} else {
			o.SetFloat("rotateMix", k.MixRotate, 1)
			o.SetFloat("translateMix", k.MixX, 1)
		}
		list = append(list, o)
	}
	return list
}

func (w *jsonWriter) physicsConstraints() []interface{} {
	list := make([]interface{}, 0, len(w.sd.PhysicsConstraints))
	for _, k := range w.sd.PhysicsConstraints {
		o := json.NewObject()
		w.constraint(o, k.ConstraintData)
		o.Set("bone", w.bone(k.Bone))
		o.SetFloat("x", k.X, 0)
		o.SetFloat("y", k.Y, 0)
		o.SetFloat("rotate", k.Rotate, 0)
		o.SetFloat("scaleX", k.ScaleX, 0)
		o.SetFloat("shearX", k.ShearX, 0)
		o.SetFloat("limit", k.Limit, 5000)
		o.SetInt("fps", k.FPS, 60)
		o.SetFloat("inertia", k.Inertia, 1)
		o.SetFloat("strength", k.Strength, 100)
		o.SetFloat("damping", k.Damping, 1)
		if k.MassInverse == 0 {
			w.fail(errors.New("physics constraint " + k.Name + ": mass inverse is zero"))
		} else {
			o.SetFloat("mass", 1/k.MassInverse, 1)
		}
		o.SetFloat("wind", k.Wind, 0)
		o.SetFloat("gravity", k.Gravity, 0)
		o.SetFloat("mix", k.Mix, 1)
		o.SetBool("inertiaGlobal", k.InertiaGlobal, false)
		o.SetBool("strengthGlobal", k.StrengthGlobal, false)
		o.SetBool("dampingGlobal", k.DampingGlobal, false)
		o.SetBool("massGlobal", k.MassGlobal, false)
		o.SetBool("windGlobal", k.WindGlobal, false)
		o.SetBool("gravityGlobal", k.GravityGlobal, false)
		o.SetBool("mixGlobal", k.MixGlobal, false)
		list = append(list, o)
	}
	return list
}

// skins returns the skins as an object for generations that key skins by
// name, and as an array otherwise.
func (w *jsonWriter) skins() interface{} {
	sd := w.sd
	if !w.p.skinArray {
		skins := json.NewObject()
		for _, skin := range sd.Skins {
			skins.Set(skin.Name, w.skinAttachments(skin))
		}
		return skins
	}
	list := make([]interface{}, 0, len(sd.Skins))
	for _, skin := range sd.Skins {
		o := json.NewObject()
		o.Set("name", skin.Name)
		if w.p.visuals && sd.Nonessential {
			setColor(o, "color", skin.Color, skelfile.DefaultSkinColor)
		}
		if w.p.skinScoped {
			o.SetNonEmpty("bones", w.bones(skin.Bones))
			kinds := []skelfile.ConstraintKind{skelfile.KindIK, skelfile.KindTransform, skelfile.KindPath}
			if w.p.physics {
				kinds = append(kinds, skelfile.KindPhysics)
			}
			for _, kind := range kinds {
				var names []interface{}
				for _, ref := range skin.Constraints {
					if ref.Kind == kind {
						names = append(names, w.constraintName(ref))
					}
				}
				o.SetNonEmpty(kind.String(), names)
			}
		}
		o.SetNonEmpty("attachments", w.skinAttachments(skin))
		list = append(list, o)
	}
	return list
}

func (w *jsonWriter) constraintName(ref skelfile.ConstraintRef) string {
	sd := w.sd
	switch ref.Kind {
	case skelfile.KindIK:
		return w.name("ik constraint", ref.Index, len(sd.IKConstraints), func(i int) string { return sd.IKConstraints[i].Name })
	case skelfile.KindTransform:
		return w.name("transform constraint", ref.Index, len(sd.TransformConstraints), func(i int) string { return sd.TransformConstraints[i].Name })
	case skelfile.KindPath:
		return w.name("path constraint", ref.Index, len(sd.PathConstraints), func(i int) string { return sd.PathConstraints[i].Name })
	case skelfile.KindPhysics:
		return w.name("physics constraint", ref.Index, len(sd.PhysicsConstraints), func(i int) string { return sd.PhysicsConstraints[i].Name })
	}
	return ""
}

func (w *jsonWriter) skinAttachments(skin *skelfile.Skin) *json.Object {
	slots := json.NewObject()
	for _, slot := range skin.SlotOrder() {
		entries := json.NewObject()
		for _, e := range skin.ForSlot(slot) {
			entries.Set(e.Name, w.attachment(e.Attachment))
		}
		slots.Set(w.slot(slot), entries)
	}
	return slots
}

func (w *jsonWriter) sequence(o *json.Object, s *skelfile.Sequence) {
	if s == nil || !w.p.sequences {
		return
	}
	so := json.NewObject()
	so.Set("count", s.Count)
	so.SetInt("start", s.Start, 1)
	so.SetInt("digits", s.Digits, 0)
	so.SetInt("setup", s.SetupIndex, 0)
	o.Set("sequence", so)
}

// vertices returns the vertices in their flattened JSON form.
func (w *jsonWriter) vertices(v skelfile.Vertices) []interface{} {
	if !v.Weighted() {
		return json.Floats(v.Vertices)
	}
	list := make([]interface{}, 0, len(v.Bones)+len(v.Vertices))
	b, f := 0, 0
	for i := 0; i < v.VertexCount; i++ {
		if b >= len(v.Bones) {
			w.fail(errors.ReferenceError{Kind: "vertex", Index: i})
			return nil
		}
		n := v.Bones[b]
		b++
		if n < 0 || b+n > len(v.Bones) || f+n*3 > len(v.Vertices) {
			w.fail(errors.ReferenceError{Kind: "vertex", Index: i})
			return nil
		}
		list = append(list, n)
		for j := 0; j < n; j++ {
			list = append(list, v.Bones[b], v.Vertices[f], v.Vertices[f+1], v.Vertices[f+2])
			b++
			f += 3
		}
	}
	return list
}

func (w *jsonWriter) attachment(a skelfile.Attachment) *json.Object {
	o := json.NewObject()
	if a == nil {
		w.fail(errors.ReferenceError{Kind: "attachment", Index: -1})
		return o
	}
	o.SetString("name", a.AttachmentName(), "")
	if t := a.Type(); t != skelfile.TypeRegion {
		o.Set("type", t.String())
	}
	ne := w.sd.Nonessential
	switch a := a.(type) {
	case *skelfile.RegionAttachment:
		o.SetString("path", a.Path, "")
		o.SetFloat("x", a.X, 0)
		o.SetFloat("y", a.Y, 0)
		o.SetFloat("scaleX", a.ScaleX, 1)
		o.SetFloat("scaleY", a.ScaleY, 1)
		o.SetFloat("rotation", a.Rotation, 0)
		o.Set("width", a.Width)
		o.Set("height", a.Height)
		setColor(o, "color", a.Color, skelfile.White)
		w.sequence(o, a.Sequence)
	case *skelfile.BoundingBoxAttachment:
		o.Set("vertexCount", a.VertexCount)
		o.Set("vertices", w.vertices(a.Vertices))
		if ne {
			setColor(o, "color", a.Color, skelfile.BoundingBoxColor)
		}
	case *skelfile.MeshAttachment:
		o.SetString("path", a.Path, "")
		setColor(o, "color", a.Color, skelfile.White)
		o.Set("uvs", json.Floats(a.UVs))
		o.Set("triangles", json.Ints(a.Triangles))
		o.Set("vertices", w.vertices(a.Vertices))
		o.Set("hull", a.Hull)
		if ne {
			o.SetNonEmpty("edges", json.Ints(a.Edges))
			o.SetFloat("width", a.Width, 0)
			o.SetFloat("height", a.Height, 0)
		}
		w.sequence(o, a.Sequence)
	case *skelfile.LinkedMeshAttachment:
		o.SetString("path", a.Path, "")
		setColor(o, "color", a.Color, skelfile.White)
		o.SetString("skin", a.Skin, "")
		o.Set("parent", a.Parent)
		o.SetBool(w.p.linkedKey, a.Timelines != 0, true)
		if ne {
			o.SetFloat("width", a.Width, 0)
			o.SetFloat("height", a.Height, 0)
		}
		w.sequence(o, a.Sequence)
	case *skelfile.PathAttachment:
		o.SetBool("closed", a.Closed, false)
		o.SetBool("constantSpeed", a.ConstantSpeed, true)
		o.Set("lengths", json.Floats(a.Lengths))
		o.Set("vertexCount", a.VertexCount)
		o.Set("vertices", w.vertices(a.Vertices))
		if ne {
			setColor(o, "color", a.Color, skelfile.PathColor)
		}
	case *skelfile.PointAttachment:
		o.SetFloat("x", a.X, 0)
		o.SetFloat("y", a.Y, 0)
		o.SetFloat("rotation", a.Rotation, 0)
		if ne {
			setColor(o, "color", a.Color, skelfile.PointColor)
		}
	case *skelfile.ClippingAttachment:
		if a.End >= 0 {
			o.Set("end", w.slot(a.End))
		}
		o.Set("vertexCount", a.VertexCount)
		o.Set("vertices", w.vertices(a.Vertices))
		if ne {
			setColor(o, "color", a.Color, skelfile.ClippingColor)
		}
	}
	return o
}

func (w *jsonWriter) events() *json.Object {
	events := json.NewObject()
	for _, e := range w.sd.Events {
		o := json.NewObject()
		o.SetInt("int", int(e.Int), 0)
		o.SetFloat("float", e.Float, 0)
		if e.HasString || e.String != "" {
			o.Set("string", e.String)
		}
		if w.p.audio && e.PlaysAudio() {
			o.Set("audio", e.AudioPath)
			o.SetFloat("volume", e.Volume, 1)
			o.SetFloat("balance", e.Balance, 0)
		}
		events.Set(e.Name, o)
	}
	return events
}
