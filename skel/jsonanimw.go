package skel

import (
	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/json"
)

func (w *jsonWriter) animations() *json.Object {
	animations := json.NewObject()
	for _, a := range w.sd.Animations {
		animations.Set(a.Name, w.animation(a))
		if w.err != nil {
			break
		}
	}
	return animations
}

// channels returns the timelines of a group keyed by channel name.
func (w *jsonWriter) channels(g group) *json.Object {
	o := json.NewObject()
	for _, t := range g.timelines {
		o.Set(w.p.channelKey(t.Channel), w.frames(t))
	}
	return o
}

func (w *jsonWriter) constraintTimelines(a *skelfile.Animation, kind skelfile.ConstraintKind, c skelfile.Channel) *json.Object {
	o := json.NewObject()
	for _, g := range groupTimelines(a, func(x skelfile.Channel) bool { return x == c }) {
		name := w.constraintName(skelfile.ConstraintRef{Kind: kind, Index: g.target})
		for _, t := range g.timelines {
			o.Set(name, w.frames(t))
		}
	}
	return o
}

func (w *jsonWriter) animation(a *skelfile.Animation) *json.Object {
	o := json.NewObject()

	slots := json.NewObject()
	for _, g := range groupTimelines(a, skelfile.Channel.IsSlot) {
		slots.Set(w.slot(g.target), w.channels(g))
	}
	o.SetNonEmpty("slots", slots)

	bones := json.NewObject()
	for _, g := range groupTimelines(a, skelfile.Channel.IsBone) {
		bones.Set(w.bone(g.target), w.channels(g))
	}
	o.SetNonEmpty("bones", bones)

	o.SetNonEmpty("ik", w.constraintTimelines(a, skelfile.KindIK, skelfile.ChannelIK))
	o.SetNonEmpty("transform", w.constraintTimelines(a, skelfile.KindTransform, skelfile.ChannelTransform))

	paths := json.NewObject()
	for _, g := range groupTimelines(a, skelfile.Channel.IsPath) {
		name := w.constraintName(skelfile.ConstraintRef{Kind: skelfile.KindPath, Index: g.target})
		paths.Set(name, w.channels(g))
	}
	o.SetNonEmpty(w.p.pathKey, paths)

	if w.p.physics {
		physics := json.NewObject()
		for _, g := range groupTimelines(a, skelfile.Channel.IsPhysics) {
			name := ""
			if g.target >= 0 {
				name = w.constraintName(skelfile.ConstraintRef{Kind: skelfile.KindPhysics, Index: g.target})
			}
			physics.Set(name, w.channels(g))
		}
		o.SetNonEmpty("physics", physics)
	}

	o.SetNonEmpty(w.p.attachmentKey, w.attachmentTimelines(a))

	if len(a.DrawOrder) > 0 {
		list := make([]interface{}, 0, len(a.DrawOrder))
		for _, frame := range a.DrawOrder {
			fo := json.NewObject()
			w.time(fo, frame.Time)
			offsets := make([]interface{}, 0, len(frame.Offsets))
			for _, off := range frame.Offsets {
				oo := json.NewObject()
				oo.Set("slot", w.slot(off.Slot))
				oo.Set("offset", off.Offset)
				offsets = append(offsets, oo)
			}
			fo.SetNonEmpty("offsets", offsets)
			list = append(list, fo)
		}
		o.Set("drawOrder", list)
	}

	if len(a.Events) > 0 {
		list := make([]interface{}, 0, len(a.Events))
		for _, f := range a.Events {
			name := w.name("event", f.Event, len(w.sd.Events), func(i int) string { return w.sd.Events[i].Name })
			if w.err != nil {
				break
			}
			e := w.sd.Events[f.Event]
			fo := json.NewObject()
			w.time(fo, f.Time)
			fo.Set("name", name)
			fo.SetInt("int", int(f.Int), int(e.Int))
			fo.SetFloat("float", f.Float, e.Float)
			if f.HasString {
				fo.Set("string", f.String)
			}
			fo.SetFloat("volume", f.Volume, e.Volume)
			fo.SetFloat("balance", f.Balance, e.Balance)
			list = append(list, fo)
		}
		o.Set("events", list)
	}
	return o
}

// attachmentTimelines returns the deform and sequence timelines nested by
// skin, slot and attachment.
func (w *jsonWriter) attachmentTimelines(a *skelfile.Animation) *json.Object {
	skins := json.NewObject()
	for _, t := range a.Timelines {
		if !t.Channel.IsAttachment() {
			continue
		}
		skinName := w.name("skin", t.Skin, len(w.sd.Skins), func(i int) string { return w.sd.Skins[i].Name })
		slotName := w.slot(t.Slot)
		if w.err != nil {
			break
		}
		slots := child(skins, skinName)
		attachments := child(slots, slotName)
		if !w.p.sequences {
			attachments.Set(t.Attachment, w.frames(t))
			continue
		}
		timelines := child(attachments, t.Attachment)
		timelines.Set(t.Channel.String(), w.frames(t))
	}
	return skins
}

// child returns the object member key of o, adding it if absent.
func child(o *json.Object, key string) *json.Object {
	if v, ok := o.Get(key); ok {
		if c, ok := v.(*json.Object); ok {
			return c
		}
	}
	c := json.NewObject()
	o.Set(key, c)
	return c
}

func (w *jsonWriter) time(o *json.Object, t float32) {
	if w.p.timeRequired {
		o.Set("time", t)
		return
	}
	o.SetFloat("time", t, 0)
}

func (w *jsonWriter) frames(t *skelfile.Timeline) []interface{} {
	list := make([]interface{}, 0, len(t.Frames))
	for i := range t.Frames {
		f := &t.Frames[i]
		o := json.NewObject()
		w.time(o, f.Time)
		w.frame(t.Channel, f, o)
		w.curve(t.Channel, f.Curve, o)
		list = append(list, o)
	}
	return list
}

func (w *jsonWriter) valueKey(key3 string) string {
	if w.p.splitChannels {
		return "value"
	}
	return key3
}

// frame sets the values of a frame of channel c.
func (w *jsonWriter) frame(c skelfile.Channel, f *skelfile.Frame, o *json.Object) {
	switch c {
	case skelfile.ChannelRotate:
		o.SetFloat(w.valueKey("angle"), f.Value[0], 0)
	case skelfile.ChannelTranslate, skelfile.ChannelShear:
		o.SetFloat("x", f.Value[0], 0)
		o.SetFloat("y", f.Value[1], 0)
	case skelfile.ChannelScale:
		o.SetFloat("x", f.Value[0], 1)
		o.SetFloat("y", f.Value[1], 1)
	case skelfile.ChannelTranslateX, skelfile.ChannelTranslateY,
		skelfile.ChannelShearX, skelfile.ChannelShearY:
		o.SetFloat("value", f.Value[0], 0)
	case skelfile.ChannelScaleX, skelfile.ChannelScaleY:
		o.SetFloat("value", f.Value[0], 1)
	case skelfile.ChannelInherit:
		o.SetString("inherit", f.Inherit.String(), skelfile.InheritNormal.String())
	case skelfile.ChannelAttachment:
		if f.Name == "" {
			o.Set("name", nil)
		} else {
			o.Set("name", f.Name)
		}
	case skelfile.ChannelRGBA:
		setColor(o, "color", f.Light, skelfile.White)
	case skelfile.ChannelRGB:
		o.Set("color", f.Light.HexRGB())
	case skelfile.ChannelRGBA2:
		o.Set("light", f.Light.Hex())
		o.Set("dark", f.Dark.HexRGB())
	case skelfile.ChannelRGB2:
		o.Set("light", f.Light.HexRGB())
		o.Set("dark", f.Dark.HexRGB())
	case skelfile.ChannelAlpha:
		o.SetFloat("value", f.Light.Channel(3), 0)
	case skelfile.ChannelIK:
		o.SetFloat("mix", f.Value[0], 1)
		if w.p.ikSoftness {
			o.SetFloat("softness", f.Value[1], 0)
		}
		o.SetBool("bendPositive", f.Bend > 0, true)
		if w.p.ikCompress {
			o.SetBool("compress", f.Compress, false)
			o.SetBool("stretch", f.Stretch, false)
		}
	case skelfile.ChannelTransform:
		v := f.Value
		if w.p.mixes6 {
			o.SetFloat("mixRotate", v[0], 1)
			o.SetFloat("mixX", v[1], 1)
			o.SetFloat("mixY", v[2], v[1])
			o.SetFloat("mixScaleX", v[3], 1)
			o.SetFloat("mixScaleY", v[4], v[3])
			o.SetFloat("mixShearY", v[5], 1)
		} else {
			o.SetFloat("rotateMix", v[0], 1)
			o.SetFloat("translateMix", v[1], 1)
			o.SetFloat("scaleMix", v[3], 1)
			o.SetFloat("shearMix", v[5], 1)
		}
	case skelfile.ChannelPathPosition:
		o.SetFloat(w.valueKey("position"), f.Value[0], 0)
	case skelfile.ChannelPathSpacing:
		o.SetFloat(w.valueKey("spacing"), f.Value[0], 0)
	case skelfile.ChannelPathMix:
		if w.p.mixes6 {
			o.SetFloat("mixRotate", f.Value[0], 1)
			o.SetFloat("mixX", f.Value[1], 1)
			o.SetFloat("mixY", f.Value[2], f.Value[1])
		} else {
			o.SetFloat("rotateMix", f.Value[0], 1)
			o.SetFloat("translateMix", f.Value[1], 1)
		}
	case skelfile.ChannelDeform:
		o.SetInt("offset", f.Offset, 0)
		o.SetNonEmpty("vertices", json.Floats(f.Vertices))
	case skelfile.ChannelSequence:
		o.SetString("mode", f.Mode.String(), skelfile.SequenceHold.String())
		o.SetInt("index", f.Index, 0)
		o.SetFloat("delay", f.Value[0], 0)
	case skelfile.ChannelPhysicsReset:
	default:
		if c.IsPhysics() {
			o.SetFloat("value", f.Value[0], 0)
		}
	}
}

// curve sets the curve of a frame. Linear curves are left out.
func (w *jsonWriter) curve(c skelfile.Channel, curve skelfile.Curve, o *json.Object) {
	if c.CurveChannels() == 0 {
		return
	}
	switch curve.Type {
	case skelfile.CurveStepped:
		o.Set("curve", "stepped")
	case skelfile.CurveBezier:
		if len(curve.Bezier) == 0 {
			return
		}
		if w.p.curveKeys {
			b := curve.Bezier[0]
			o.Set("curve", b[0])
			o.SetFloat("c2", b[1], 0)
			o.SetFloat("c3", b[2], 1)
			o.SetFloat("c4", b[3], 1)
			return
		}
		list := make([]interface{}, 0, len(curve.Bezier)*4)
		for _, b := range curve.Bezier {
			list = append(list, b[0], b[1], b[2], b[3])
		}
		o.Set("curve", list)
	}
}
