package skel

import (
	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
)

// Timeline type codes of the binary format.
const (
	slotAttachment3 = 0
	slotColor3      = 1
	slotTwoColor3   = 2

	boneRotate3    = 0
	boneTranslate3 = 1
	boneScale3     = 2
	boneShear3     = 3

	pathPosition = 0
	pathSpacing  = 1
	pathMix      = 2

	attachmentDeform   = 0
	attachmentSequence = 1

	physicsReset = 8

	curveLinear  = 0
	curveStepped = 1
	curveBezier  = 2
)

// Bone and slot channels of 4.x, indexed by their type code.
var (
	boneChannels4 = []skelfile.Channel{
		skelfile.ChannelRotate,
		skelfile.ChannelTranslate,
		skelfile.ChannelTranslateX,
		skelfile.ChannelTranslateY,
		skelfile.ChannelScale,
		skelfile.ChannelScaleX,
		skelfile.ChannelScaleY,
		skelfile.ChannelShear,
		skelfile.ChannelShearX,
		skelfile.ChannelShearY,
		skelfile.ChannelInherit,
	}
	slotChannels4 = []skelfile.Channel{
		skelfile.ChannelAttachment,
		skelfile.ChannelRGBA,
		skelfile.ChannelRGB,
		skelfile.ChannelRGBA2,
		skelfile.ChannelRGB2,
		skelfile.ChannelAlpha,
	}
	// Type 3 is unused.
	physicsChannels = []skelfile.Channel{
		0: skelfile.ChannelPhysicsInertia,
		1: skelfile.ChannelPhysicsStrength,
		2: skelfile.ChannelPhysicsDamping,
		4: skelfile.ChannelPhysicsMass,
		5: skelfile.ChannelPhysicsWind,
		6: skelfile.ChannelPhysicsGravity,
		7: skelfile.ChannelPhysicsMix,
		8: skelfile.ChannelPhysicsReset,
	}
)

// typeCode returns the position of c in channels, or -1.
func typeCode(channels []skelfile.Channel, c skelfile.Channel) int {
	for i, ch := range channels {
		if ch == c {
			return i
		}
	}
	return -1
}

func (r *binaryReader) animations() {
	n := r.Count()
	r.sd.Animations = make([]*skelfile.Animation, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		a := &skelfile.Animation{Name: r.Str()}
		if r.p.timelineCount {
			// Only a capacity hint.
			r.Varint()
		}
		if r.p.splitChannels {
			r.animation4(a)
		} else {
			r.animation3(a)
		}
		r.sd.Animations = append(r.sd.Animations, a)
	}
}

func (r *binaryReader) timeline(a *skelfile.Animation, c skelfile.Channel, target int) *skelfile.Timeline {
	t := &skelfile.Timeline{Channel: c, Target: target}
	a.Timelines = append(a.Timelines, t)
	return t
}

// frames allocates n frames, each taking at least one byte of input.
func (r *binaryReader) frames(n int) []skelfile.Frame {
	if n < 0 || n > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return nil
	}
	return make([]skelfile.Frame, n)
}

// curve3 reads a curve stored after every frame but the last.
func (r *binaryReader) curve3(f *skelfile.Frame) {
	switch typ := r.Byte(); typ {
	case curveLinear:
	case curveStepped:
		f.Curve.Type = skelfile.CurveStepped
	case curveBezier:
		f.Curve.Type = skelfile.CurveBezier
		f.Curve.Bezier = [][4]float32{{r.Float(), r.Float(), r.Float(), r.Float()}}
	default:
		r.Fail(errors.ReferenceError{Kind: "curve type", Index: int(typ)})
	}
}

// frames3 reads curve frames whose values are read by value.
func (r *binaryReader) frames3(t *skelfile.Timeline, value func(f *skelfile.Frame)) {
	t.Frames = r.frames(r.Count())
	for i := range t.Frames {
		if r.Failed() {
			return
		}
		f := &t.Frames[i]
		f.Time = r.Float()
		value(f)
		if i < len(t.Frames)-1 {
			r.curve3(f)
		}
	}
}

func (r *binaryReader) animation3(a *skelfile.Animation) {
	sd := r.sd

	// Slots.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		slot := r.Index("slot", len(sd.Slots))
		for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
			switch typ := r.Byte(); typ {
			case slotAttachment3:
				t := r.timeline(a, skelfile.ChannelAttachment, slot)
				t.Frames = r.frames(r.Count())
				for k := range t.Frames {
					t.Frames[k].Time = r.Float()
					t.Frames[k].Name = r.str()
				}
			case slotColor3:
				t := r.timeline(a, skelfile.ChannelRGBA, slot)
				r.frames3(t, func(f *skelfile.Frame) {
					f.Light = r.color()
				})
			case slotTwoColor3:
				t := r.timeline(a, skelfile.ChannelRGBA2, slot)
				r.frames3(t, func(f *skelfile.Frame) {
					f.Light = r.color()
					f.Dark = r.dark()
				})
			default:
				r.Fail(errors.ReferenceError{Kind: "slot timeline type", Index: int(typ)})
			}
		}
	}

	// Bones.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		bone := r.Index("bone", len(sd.Bones))
		for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
			switch typ := r.Byte(); typ {
			case boneRotate3:
				t := r.timeline(a, skelfile.ChannelRotate, bone)
				r.frames3(t, func(f *skelfile.Frame) {
					f.Value[0] = r.Float()
				})
			case boneTranslate3, boneScale3, boneShear3:
				c := []skelfile.Channel{
					boneTranslate3: skelfile.ChannelTranslate,
					boneScale3:     skelfile.ChannelScale,
					boneShear3:     skelfile.ChannelShear,
				}[typ]
				t := r.timeline(a, c, bone)
				r.frames3(t, func(f *skelfile.Frame) {
					f.Value[0] = r.Float()
					f.Value[1] = r.Float()
				})
			default:
				r.Fail(errors.ReferenceError{Kind: "bone timeline type", Index: int(typ)})
			}
		}
	}

	// IK constraints.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		t := r.timeline(a, skelfile.ChannelIK, r.Index("ik constraint", len(sd.IKConstraints)))
		r.frames3(t, func(f *skelfile.Frame) {
			f.Value[0] = r.Float()
			if r.p.ikSoftness {
				f.Value[1] = r.Float()
			}
			f.Bend = int(r.Int8())
			if r.p.ikCompress {
				f.Compress = r.Bool()
				f.Stretch = r.Bool()
			}
		})
	}

	// Transform constraints.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		t := r.timeline(a, skelfile.ChannelTransform, r.Index("transform constraint", len(sd.TransformConstraints)))
		r.frames3(t, func(f *skelfile.Frame) {
			rotate, translate, scale, shear := r.Float(), r.Float(), r.Float(), r.Float()
			f.Value = [6]float32{rotate, translate, translate, scale, scale, shear}
		})
	}

	// Path constraints.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		index := r.Index("path constraint", len(sd.PathConstraints))
		for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
			switch typ := r.Byte(); typ {
			case pathPosition, pathSpacing:
				c := skelfile.ChannelPathPosition
				if typ == pathSpacing {
					c = skelfile.ChannelPathSpacing
				}
				t := r.timeline(a, c, index)
				r.frames3(t, func(f *skelfile.Frame) {
					f.Value[0] = r.Float()
				})
			case pathMix:
				t := r.timeline(a, skelfile.ChannelPathMix, index)
				r.frames3(t, func(f *skelfile.Frame) {
					f.Value[0] = r.Float()
					f.Value[1] = r.Float()
					f.Value[2] = f.Value[1]
				})
			default:
				r.Fail(errors.ReferenceError{Kind: "path timeline type", Index: int(typ)})
			}
		}
	}

	r.deformTimelines(a, func(t *skelfile.Timeline) {
		r.frames3(t, r.deformFrame)
	})
	r.drawOrder(a)
	r.eventFrames(a)
}

// deformFrame reads the changed range of a deform frame.
func (r *binaryReader) deformFrame(f *skelfile.Frame) {
	end := r.Varint()
	if end == 0 {
		return
	}
	f.Offset = r.Varint()
	if end < 0 || f.Offset < 0 {
		r.Fail(errors.ErrTruncatedInput)
		return
	}
	f.Vertices = r.Floats(end)
}

// deformTimelines reads the deform section, nested by skin, slot and
// attachment. frames reads the frames of each timeline.
func (r *binaryReader) deformTimelines(a *skelfile.Animation, frames func(t *skelfile.Timeline)) {
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		skin := r.Varint()
		for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
			slot := r.Index("slot", len(r.sd.Slots))
			for k, l := 0, r.Count(); k < l && !r.Failed(); k++ {
				name := r.str()
				if r.Failed() {
					return
				}
				if !r.attachmentExists(skin, slot, name) {
					r.Fail(errors.ReferenceError{Kind: "attachment", Index: -1, Name: name})
					return
				}
				t := &skelfile.Timeline{
					Channel:    skelfile.ChannelDeform,
					Target:     slot,
					Skin:       skin,
					Slot:       slot,
					Attachment: name,
				}
				if r.p.sequences {
					typ := r.Byte()
					switch typ {
					case attachmentDeform:
					case attachmentSequence:
						t.Channel = skelfile.ChannelSequence
						a.Timelines = append(a.Timelines, t)
						r.sequenceFrames(t)
						continue
					default:
						r.Fail(errors.ReferenceError{Kind: "attachment timeline type", Index: int(typ)})
						return
					}
				}
				a.Timelines = append(a.Timelines, t)
				frames(t)
			}
		}
	}
}

func (r *binaryReader) attachmentExists(skin, slot int, name string) bool {
	if skin < 0 || skin >= len(r.sd.Skins) {
		return false
	}
	return r.sd.Skins[skin].Attachment(slot, name) != nil
}

func (r *binaryReader) sequenceFrames(t *skelfile.Timeline) {
	t.Frames = r.frames(r.Count())
	for i := range t.Frames {
		f := &t.Frames[i]
		f.Time = r.Float()
		modeAndIndex := r.Int32()
		f.Mode = skelfile.SequenceMode(r.enum("sequence mode", int(modeAndIndex&0xf), 7))
		f.Index = int(modeAndIndex >> 4)
		f.Value[0] = r.Float()
		if r.Failed() {
			return
		}
	}
}

func (r *binaryReader) drawOrder(a *skelfile.Animation) {
	n := r.Count()
	for i := 0; i < n && !r.Failed(); i++ {
		frame := skelfile.DrawOrderFrame{Time: r.Float()}
		m := r.Count()
		for j := 0; j < m && !r.Failed(); j++ {
			frame.Offsets = append(frame.Offsets, skelfile.DrawOrderOffset{
				Slot:   r.Index("slot", len(r.sd.Slots)),
				Offset: r.Varint(),
			})
		}
		a.DrawOrder = append(a.DrawOrder, frame)
	}
}

func (r *binaryReader) eventFrames(a *skelfile.Animation) {
	n := r.Count()
	for i := 0; i < n && !r.Failed(); i++ {
		f := skelfile.EventFrame{Time: r.Float()}
		f.Event = r.Index("event", len(r.sd.Events))
		if r.Failed() {
			return
		}
		e := r.sd.Events[f.Event]
		f.Int = r.Zigzag()
		f.Float = r.Float()
		f.HasString = r.Bool()
		if f.HasString {
			f.String = r.Str()
		}
		f.Volume = e.Volume
		f.Balance = e.Balance
		if r.p.audio && e.PlaysAudio() {
			f.Volume = r.Float()
			f.Balance = r.Float()
		}
		a.Events = append(a.Events, f)
	}
}

// curve4 reads the curve of a frame of a timeline with the given number of
// curve channels.
func (r *binaryReader) curve4(f *skelfile.Frame, channels int) {
	switch typ := r.Byte(); typ {
	case curveLinear:
	case curveStepped:
		f.Curve.Type = skelfile.CurveStepped
	case curveBezier:
		f.Curve.Type = skelfile.CurveBezier
		f.Curve.Bezier = r.bezier(channels)
	default:
		r.Fail(errors.ReferenceError{Kind: "curve type", Index: int(typ)})
	}
}

func (r *binaryReader) bezier(channels int) [][4]float32 {
	b := make([][4]float32, channels)
	for i := range b {
		b[i] = [4]float32{r.Float(), r.Float(), r.Float(), r.Float()}
	}
	return b
}

// frames4 reads curve frames. The curve of a frame follows the values read
// by before of the next frame, and precedes the values read by after.
func (r *binaryReader) frames4(t *skelfile.Timeline, frameCount int, before, after func(f *skelfile.Frame)) {
	channels := t.Channel.CurveChannels()
	// Number of bezier curves; it is derived from the frames on write.
	r.Varint()
	t.Frames = r.frames(frameCount)
	for i := range t.Frames {
		if r.Failed() {
			return
		}
		f := &t.Frames[i]
		f.Time = r.Float()
		if before != nil {
			before(f)
		}
		if i > 0 {
			r.curve4(&t.Frames[i-1], channels)
		}
		if after != nil {
			after(f)
		}
	}
}

// values reads n float values of a frame.
func (r *binaryReader) values(n int) func(f *skelfile.Frame) {
	return func(f *skelfile.Frame) {
		for i := 0; i < n; i++ {
			f.Value[i] = r.Float()
		}
	}
}

func (r *binaryReader) rgb(c *skelfile.Color) {
	c.R = r.Byte()
	c.G = r.Byte()
	c.B = r.Byte()
}

func (r *binaryReader) animation4(a *skelfile.Animation) {
	sd := r.sd

	// Slots.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		slot := r.Index("slot", len(sd.Slots))
		for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
			typ := int(r.Byte())
			frameCount := r.Count()
			if typ >= len(slotChannels4) {
				r.Fail(errors.ReferenceError{Kind: "slot timeline type", Index: typ})
				return
			}
			t := r.timeline(a, slotChannels4[typ], slot)
			var value func(f *skelfile.Frame)
			switch t.Channel {
			case skelfile.ChannelAttachment:
				t.Frames = r.frames(frameCount)
				for k := range t.Frames {
					t.Frames[k].Time = r.Float()
					t.Frames[k].Name = r.Ref()
				}
				continue
			case skelfile.ChannelRGBA:
				value = func(f *skelfile.Frame) {
					r.rgb(&f.Light)
					f.Light.A = r.Byte()
				}
			case skelfile.ChannelRGB:
				value = func(f *skelfile.Frame) {
					r.rgb(&f.Light)
					f.Light.A = 0xff
				}
			case skelfile.ChannelRGBA2:
				value = func(f *skelfile.Frame) {
					r.rgb(&f.Light)
					f.Light.A = r.Byte()
					r.rgb(&f.Dark)
				}
			case skelfile.ChannelRGB2:
				value = func(f *skelfile.Frame) {
					r.rgb(&f.Light)
					f.Light.A = 0xff
					r.rgb(&f.Dark)
				}
			case skelfile.ChannelAlpha:
				value = func(f *skelfile.Frame) {
					f.Light = skelfile.Color{R: 0xff, G: 0xff, B: 0xff, A: r.Byte()}
				}
			}
			r.frames4(t, frameCount, value, nil)
		}
	}

	// Bones.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		bone := r.Index("bone", len(sd.Bones))
		for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
			typ := int(r.Byte())
			frameCount := r.Count()
			if typ >= len(boneChannels4) || !r.p.supports(boneChannels4[typ]) {
				r.Fail(errors.ReferenceError{Kind: "bone timeline type", Index: typ})
				return
			}
			t := r.timeline(a, boneChannels4[typ], bone)
			if t.Channel == skelfile.ChannelInherit {
				t.Frames = r.frames(frameCount)
				for k := range t.Frames {
					t.Frames[k].Time = r.Float()
					t.Frames[k].Inherit = skelfile.Inherit(r.enum("inherit mode", int(r.Byte()), 5))
				}
				continue
			}
			r.frames4(t, frameCount, r.values(t.Channel.CurveChannels()), nil)
		}
	}

	// IK constraints.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		t := r.timeline(a, skelfile.ChannelIK, r.Index("ik constraint", len(sd.IKConstraints)))
		frameCount := r.Count()
		if r.p.flagged {
			r.ikFrames(t, frameCount)
			continue
		}
		r.frames4(t, frameCount, r.values(2), func(f *skelfile.Frame) {
			f.Bend = int(r.Int8())
			f.Compress = r.Bool()
			f.Stretch = r.Bool()
		})
	}

	// Transform constraints.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		t := r.timeline(a, skelfile.ChannelTransform, r.Index("transform constraint", len(sd.TransformConstraints)))
		r.frames4(t, r.Count(), r.values(6), nil)
	}

	// Path constraints.
	for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
		index := r.Index("path constraint", len(sd.PathConstraints))
		for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
			typ := r.Byte()
			frameCount := r.Count()
			var c skelfile.Channel
			switch typ {
			case pathPosition:
				c = skelfile.ChannelPathPosition
			case pathSpacing:
				c = skelfile.ChannelPathSpacing
			case pathMix:
				c = skelfile.ChannelPathMix
			default:
				r.Fail(errors.ReferenceError{Kind: "path timeline type", Index: int(typ)})
				return
			}
			t := r.timeline(a, c, index)
			r.frames4(t, frameCount, r.values(c.CurveChannels()), nil)
		}
	}

	// Physics constraints.
	if r.p.physics {
		for i, n := 0, r.Count(); i < n && !r.Failed(); i++ {
			index := r.Varint() - 1
			if index < -1 || index >= len(sd.PhysicsConstraints) {
				r.Fail(errors.ReferenceError{Kind: "physics constraint", Index: index})
				return
			}
			for j, m := 0, r.Count(); j < m && !r.Failed(); j++ {
				typ := int(r.Byte())
				frameCount := r.Count()
				if typ >= len(physicsChannels) || typ == 3 {
					r.Fail(errors.ReferenceError{Kind: "physics timeline type", Index: typ})
					return
				}
				t := r.timeline(a, physicsChannels[typ], index)
				if typ == physicsReset {
					t.Frames = r.frames(frameCount)
					for k := range t.Frames {
						t.Frames[k].Time = r.Float()
					}
					continue
				}
				r.frames4(t, frameCount, r.values(1), nil)
			}
		}
	}

	r.deformTimelines(a, func(t *skelfile.Timeline) {
		r.frames4(t, r.Count(), nil, r.deformFrame)
	})
	r.drawOrder(a)
	r.eventFrames(a)
}

// ikFrames reads IK frames whose fields are announced by a flags byte per
// frame. The flags of a frame also hold the curve of the previous frame.
func (r *binaryReader) ikFrames(t *skelfile.Timeline, frameCount int) {
	r.Varint()
	t.Frames = r.frames(frameCount)
	for i := range t.Frames {
		if r.Failed() {
			return
		}
		f := &t.Frames[i]
		flags := r.Byte()
		f.Time = r.Float()
		if flags&1 != 0 {
			f.Value[0] = 1
			if flags&2 != 0 {
				f.Value[0] = r.Float()
			}
		}
		if flags&4 != 0 {
			f.Value[1] = r.Float()
		}
		f.Bend = -1
		if flags&8 != 0 {
			f.Bend = 1
		}
		f.Compress = flags&16 != 0
		f.Stretch = flags&32 != 0
		if i > 0 {
			prev := &t.Frames[i-1]
			if flags&64 != 0 {
				prev.Curve.Type = skelfile.CurveStepped
			} else if flags&128 != 0 {
				prev.Curve.Type = skelfile.CurveBezier
				prev.Curve.Bezier = r.bezier(2)
			}
		}
	}
}
