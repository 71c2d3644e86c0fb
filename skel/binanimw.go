package skel

import (
	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
)

// group is the set of timelines of one target within a section.
type group struct {
	target    int
	timelines []*skelfile.Timeline
}

// groupTimelines groups the timelines of a that satisfy match by target, in
// order of first appearance.
func groupTimelines(a *skelfile.Animation, match func(c skelfile.Channel) bool) []group {
	var groups []group
	at := map[int]int{}
	for _, t := range a.Timelines {
		if !match(t.Channel) {
			continue
		}
		i, ok := at[t.Target]
		if !ok {
			i = len(groups)
			at[t.Target] = i
			groups = append(groups, group{target: t.Target})
		}
		groups[i].timelines = append(groups[i].timelines, t)
	}
	return groups
}

func (w *binaryWriter) animations() {
	w.Varint(len(w.sd.Animations))
	for _, a := range w.sd.Animations {
		w.Str(a.Name)
		if w.p.timelineCount {
			n := len(a.Timelines)
			if len(a.DrawOrder) > 0 {
				n++
			}
			if len(a.Events) > 0 {
				n++
			}
			w.Varint(n)
		}
		if w.p.splitChannels {
			w.animation4(a)
		} else {
			w.animation3(a)
		}
	}
}

func (w *binaryWriter) curve3(c skelfile.Curve) {
	switch c.Type {
	case skelfile.CurveStepped:
		w.Byte(curveStepped)
	case skelfile.CurveBezier:
		w.Byte(curveBezier)
		w.Floats(c.Bezier[0][:])
	default:
		w.Byte(curveLinear)
	}
}

func (w *binaryWriter) frames3(t *skelfile.Timeline, value func(f *skelfile.Frame)) {
	w.Varint(len(t.Frames))
	for i := range t.Frames {
		f := &t.Frames[i]
		w.Float(f.Time)
		value(f)
		if i < len(t.Frames)-1 {
			w.curve3(f.Curve)
		}
	}
}

// targets writes the number of timelines of channel c and returns them.
func (w *binaryWriter) targets(a *skelfile.Animation, c skelfile.Channel) []*skelfile.Timeline {
	var list []*skelfile.Timeline
	for _, t := range a.Timelines {
		if t.Channel == c {
			list = append(list, t)
		}
	}
	w.Varint(len(list))
	return list
}

func (w *binaryWriter) animation3(a *skelfile.Animation) {
	sd := w.sd

	slots := groupTimelines(a, skelfile.Channel.IsSlot)
	w.Varint(len(slots))
	for _, g := range slots {
		w.index("slot", g.target, len(sd.Slots))
		w.Varint(len(g.timelines))
		for _, t := range g.timelines {
			switch t.Channel {
			case skelfile.ChannelAttachment:
				w.Byte(slotAttachment3)
				w.attachmentFrames(t)
			case skelfile.ChannelRGBA:
				w.Byte(slotColor3)
				w.frames3(t, func(f *skelfile.Frame) {
					w.color(f.Light)
				})
			case skelfile.ChannelRGBA2:
				w.Byte(slotTwoColor3)
				w.frames3(t, func(f *skelfile.Frame) {
					w.color(f.Light)
					w.dark(f.Dark)
				})
			}
		}
	}

	bones := groupTimelines(a, skelfile.Channel.IsBone)
	w.Varint(len(bones))
	for _, g := range bones {
		w.index("bone", g.target, len(sd.Bones))
		w.Varint(len(g.timelines))
		for _, t := range g.timelines {
			switch t.Channel {
			case skelfile.ChannelRotate:
				w.Byte(boneRotate3)
				w.frames3(t, func(f *skelfile.Frame) {
					w.Float(f.Value[0])
				})
				continue
			case skelfile.ChannelTranslate:
				w.Byte(boneTranslate3)
			case skelfile.ChannelScale:
				w.Byte(boneScale3)
			case skelfile.ChannelShear:
				w.Byte(boneShear3)
			}
			w.frames3(t, func(f *skelfile.Frame) {
				w.Float(f.Value[0])
				w.Float(f.Value[1])
			})
		}
	}

	for _, t := range w.targets(a, skelfile.ChannelIK) {
		w.index("ik constraint", t.Target, len(sd.IKConstraints))
		w.frames3(t, func(f *skelfile.Frame) {
			w.Float(f.Value[0])
			if w.p.ikSoftness {
				w.Float(f.Value[1])
			}
			w.Int8(int8(f.Bend))
			if w.p.ikCompress {
				w.Bool(f.Compress)
				w.Bool(f.Stretch)
			}
		})
	}

	for _, t := range w.targets(a, skelfile.ChannelTransform) {
		w.index("transform constraint", t.Target, len(sd.TransformConstraints))
		w.frames3(t, func(f *skelfile.Frame) {
			w.Float(f.Value[0])
			w.Float(f.Value[1])
			w.Float(f.Value[3])
			w.Float(f.Value[5])
		})
	}

	paths := groupTimelines(a, skelfile.Channel.IsPath)
	w.Varint(len(paths))
	for _, g := range paths {
		w.index("path constraint", g.target, len(sd.PathConstraints))
		w.Varint(len(g.timelines))
		for _, t := range g.timelines {
			switch t.Channel {
			case skelfile.ChannelPathPosition, skelfile.ChannelPathSpacing:
				if t.Channel == skelfile.ChannelPathPosition {
					w.Byte(pathPosition)
				} else {
					w.Byte(pathSpacing)
				}
				w.frames3(t, func(f *skelfile.Frame) {
					w.Float(f.Value[0])
				})
			case skelfile.ChannelPathMix:
				w.Byte(pathMix)
				w.frames3(t, func(f *skelfile.Frame) {
					w.Float(f.Value[0])
					w.Float(f.Value[1])
				})
			}
		}
	}

	w.deformTimelines(a, func(t *skelfile.Timeline) {
		w.frames3(t, w.deformFrame)
	})
	w.drawOrder(a)
	w.eventFrames(a)
}

func (w *binaryWriter) attachmentFrames(t *skelfile.Timeline) {
	w.Varint(len(t.Frames))
	for _, f := range t.Frames {
		w.Float(f.Time)
		w.str(f.Name)
	}
}

func (w *binaryWriter) deformFrame(f *skelfile.Frame) {
	w.Varint(len(f.Vertices))
	if len(f.Vertices) > 0 {
		w.Varint(f.Offset)
		w.Floats(f.Vertices)
	}
}

// deformTimelines writes the deform section, nested by skin, slot and
// attachment.
func (w *binaryWriter) deformTimelines(a *skelfile.Animation, frames func(t *skelfile.Timeline)) {
	type slotGroup struct {
		slot      int
		timelines []*skelfile.Timeline
	}
	type skinGroup struct {
		skin  int
		slots []*slotGroup
	}
	var skins []*skinGroup
	for _, t := range a.Timelines {
		if !t.Channel.IsAttachment() {
			continue
		}
		var sg *skinGroup
		for _, g := range skins {
			if g.skin == t.Skin {
				sg = g
				break
			}
		}
		if sg == nil {
			sg = &skinGroup{skin: t.Skin}
			skins = append(skins, sg)
		}
		var lg *slotGroup
		for _, g := range sg.slots {
			if g.slot == t.Slot {
				lg = g
				break
			}
		}
		if lg == nil {
			lg = &slotGroup{slot: t.Slot}
			sg.slots = append(sg.slots, lg)
		}
		lg.timelines = append(lg.timelines, t)
	}

	w.Varint(len(skins))
	for _, sg := range skins {
		if sg.skin < 0 || sg.skin >= len(w.sd.Skins) {
			w.Fail(errors.ReferenceError{Kind: "skin", Index: sg.skin})
			return
		}
		w.Varint(w.skins[sg.skin])
		w.Varint(len(sg.slots))
		for _, lg := range sg.slots {
			w.index("slot", lg.slot, len(w.sd.Slots))
			w.Varint(len(lg.timelines))
			for _, t := range lg.timelines {
				w.str(t.Attachment)
				if w.p.sequences {
					if t.Channel == skelfile.ChannelSequence {
						w.Byte(attachmentSequence)
						w.sequenceFrames(t)
						continue
					}
					w.Byte(attachmentDeform)
				}
				frames(t)
			}
		}
	}
}

func (w *binaryWriter) sequenceFrames(t *skelfile.Timeline) {
	w.Varint(len(t.Frames))
	for _, f := range t.Frames {
		w.Float(f.Time)
		w.Int32(int32(f.Index)<<4 | int32(f.Mode)&0xf)
		w.Float(f.Value[0])
	}
}

func (w *binaryWriter) drawOrder(a *skelfile.Animation) {
	w.Varint(len(a.DrawOrder))
	for _, frame := range a.DrawOrder {
		w.Float(frame.Time)
		w.Varint(len(frame.Offsets))
		for _, o := range frame.Offsets {
			w.index("slot", o.Slot, len(w.sd.Slots))
			w.Varint(o.Offset)
		}
	}
}

func (w *binaryWriter) eventFrames(a *skelfile.Animation) {
	w.Varint(len(a.Events))
	for _, f := range a.Events {
		w.Float(f.Time)
		w.index("event", f.Event, len(w.sd.Events))
		if w.Failed() {
			return
		}
		e := w.sd.Events[f.Event]
		w.Zigzag(f.Int)
		w.Float(f.Float)
		w.Bool(f.HasString)
		if f.HasString {
			w.NullStr(f.String, true)
		}
		if w.p.audio && e.PlaysAudio() {
			w.Float(f.Volume)
			w.Float(f.Balance)
		}
	}
}

// bezierCount returns the number of bezier curves of t, counting one per
// curve channel. The curve of the last frame is never written.
func bezierCount(t *skelfile.Timeline) int {
	n := 0
	for i := 0; i < len(t.Frames)-1; i++ {
		if c := t.Frames[i].Curve; c.Type == skelfile.CurveBezier {
			n += len(c.Bezier)
		}
	}
	return n
}

func (w *binaryWriter) curve4(c skelfile.Curve) {
	switch c.Type {
	case skelfile.CurveStepped:
		w.Byte(curveStepped)
	case skelfile.CurveBezier:
		w.Byte(curveBezier)
		w.bezier(c.Bezier)
	default:
		w.Byte(curveLinear)
	}
}

func (w *binaryWriter) bezier(b [][4]float32) {
	for _, c := range b {
		w.Floats(c[:])
	}
}

func (w *binaryWriter) frames4(t *skelfile.Timeline, before, after func(f *skelfile.Frame)) {
	w.Varint(len(t.Frames))
	w.Varint(bezierCount(t))
	for i := range t.Frames {
		f := &t.Frames[i]
		w.Float(f.Time)
		if before != nil {
			before(f)
		}
		if i > 0 {
			w.curve4(t.Frames[i-1].Curve)
		}
		if after != nil {
			after(f)
		}
	}
}

func (w *binaryWriter) values(n int) func(f *skelfile.Frame) {
	return func(f *skelfile.Frame) {
		w.Floats(f.Value[:n])
	}
}

func (w *binaryWriter) rgb(c skelfile.Color) {
	w.Byte(c.R)
	w.Byte(c.G)
	w.Byte(c.B)
}

func (w *binaryWriter) animation4(a *skelfile.Animation) {
	sd := w.sd

	slots := groupTimelines(a, skelfile.Channel.IsSlot)
	w.Varint(len(slots))
	for _, g := range slots {
		w.index("slot", g.target, len(sd.Slots))
		w.Varint(len(g.timelines))
		for _, t := range g.timelines {
			w.Byte(byte(typeCode(slotChannels4, t.Channel)))
			var value func(f *skelfile.Frame)
			switch t.Channel {
			case skelfile.ChannelAttachment:
				w.attachmentFrames(t)
				continue
			case skelfile.ChannelRGBA:
				value = func(f *skelfile.Frame) {
					w.rgb(f.Light)
					w.Byte(f.Light.A)
				}
			case skelfile.ChannelRGB:
				value = func(f *skelfile.Frame) {
					w.rgb(f.Light)
				}
			case skelfile.ChannelRGBA2:
				value = func(f *skelfile.Frame) {
					w.rgb(f.Light)
					w.Byte(f.Light.A)
					w.rgb(f.Dark)
				}
			case skelfile.ChannelRGB2:
				value = func(f *skelfile.Frame) {
					w.rgb(f.Light)
					w.rgb(f.Dark)
				}
			case skelfile.ChannelAlpha:
				value = func(f *skelfile.Frame) {
					w.Byte(f.Light.A)
				}
			}
			w.frames4(t, value, nil)
		}
	}

	bones := groupTimelines(a, skelfile.Channel.IsBone)
	w.Varint(len(bones))
	for _, g := range bones {
		w.index("bone", g.target, len(sd.Bones))
		w.Varint(len(g.timelines))
		for _, t := range g.timelines {
			w.Byte(byte(typeCode(boneChannels4, t.Channel)))
			if t.Channel == skelfile.ChannelInherit {
				w.Varint(len(t.Frames))
				for _, f := range t.Frames {
					w.Float(f.Time)
					w.Byte(byte(f.Inherit))
				}
				continue
			}
			w.frames4(t, w.values(t.Channel.CurveChannels()), nil)
		}
	}

	for _, t := range w.targets(a, skelfile.ChannelIK) {
		w.index("ik constraint", t.Target, len(sd.IKConstraints))
		if w.p.flagged {
			w.ikFrames(t)
			continue
		}
		w.frames4(t, w.values(2), func(f *skelfile.Frame) {
			w.Int8(int8(f.Bend))
			w.Bool(f.Compress)
			w.Bool(f.Stretch)
		})
	}

	for _, t := range w.targets(a, skelfile.ChannelTransform) {
		w.index("transform constraint", t.Target, len(sd.TransformConstraints))
		w.frames4(t, w.values(6), nil)
	}

	paths := groupTimelines(a, skelfile.Channel.IsPath)
	w.Varint(len(paths))
	for _, g := range paths {
		w.index("path constraint", g.target, len(sd.PathConstraints))
		w.Varint(len(g.timelines))
		for _, t := range g.timelines {
			switch t.Channel {
			case skelfile.ChannelPathPosition:
				w.Byte(pathPosition)
			case skelfile.ChannelPathSpacing:
				w.Byte(pathSpacing)
			case skelfile.ChannelPathMix:
				w.Byte(pathMix)
			}
			w.frames4(t, w.values(t.Channel.CurveChannels()), nil)
		}
	}

	if w.p.physics {
		physics := groupTimelines(a, skelfile.Channel.IsPhysics)
		w.Varint(len(physics))
		for _, g := range physics {
			if g.target < -1 || g.target >= len(sd.PhysicsConstraints) {
				w.Fail(errors.ReferenceError{Kind: "physics constraint", Index: g.target})
				return
			}
			w.Varint(g.target + 1)
			w.Varint(len(g.timelines))
			for _, t := range g.timelines {
				code := typeCode(physicsChannels, t.Channel)
				w.Byte(byte(code))
				if code == physicsReset {
					w.Varint(len(t.Frames))
					for _, f := range t.Frames {
						w.Float(f.Time)
					}
					continue
				}
				w.frames4(t, w.values(1), nil)
			}
		}
	}

	w.deformTimelines(a, func(t *skelfile.Timeline) {
		w.frames4(t, nil, w.deformFrame)
	})
	w.drawOrder(a)
	w.eventFrames(a)
}

// ikFrames writes IK frames with a flags byte per frame, which also holds
// the curve of the previous frame.
func (w *binaryWriter) ikFrames(t *skelfile.Timeline) {
	w.Varint(len(t.Frames))
	w.Varint(bezierCount(t))
	for i := range t.Frames {
		f := &t.Frames[i]
		var flags byte
		if mix := f.Value[0]; mix != 0 {
			flags |= 1
			if mix != 1 {
				flags |= 2
			}
		}
		if f.Value[1] != 0 {
			flags |= 4
		}
		if f.Bend > 0 {
			flags |= 8
		}
		if f.Compress {
			flags |= 16
		}
		if f.Stretch {
			flags |= 32
		}
		var prev skelfile.Curve
		if i > 0 {
			prev = t.Frames[i-1].Curve
			switch prev.Type {
			case skelfile.CurveStepped:
				flags |= 64
			case skelfile.CurveBezier:
				flags |= 128
			}
		}
		w.Byte(flags)
		w.Float(f.Time)
		if flags&2 != 0 {
			w.Float(f.Value[0])
		}
		if flags&4 != 0 {
			w.Float(f.Value[1])
		}
		if flags&128 != 0 {
			w.bezier(prev.Bezier)
		}
	}
}
