package skel

import (
	"math"
	"strconv"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/json"
)

// channelKey returns the JSON name of the timelines of channel c.
func (p profile) channelKey(c skelfile.Channel) string {
	if !p.splitChannels {
		switch c {
		case skelfile.ChannelRGBA:
			return "color"
		case skelfile.ChannelRGBA2:
			return "twoColor"
		}
	}
	return c.String()
}

// channel returns the channel named key among the channels that satisfy
// match.
func (p profile) channel(key string, match func(skelfile.Channel) bool) (skelfile.Channel, bool) {
	for c := skelfile.ChannelRotate; c <= skelfile.ChannelSequence; c++ {
		if match(c) && p.supports(c) && p.channelKey(c) == key {
			return c, true
		}
	}
	return 0, false
}

func (r *jsonReader) animations() {
	animations := r.g.Object("animations")
	if animations == nil || r.failed() {
		return
	}
	for _, name := range animations.Keys() {
		g := animations.Object(name)
		if g == nil {
			return
		}
		a := &skelfile.Animation{Name: name}
		r.animation(a, g)
		if r.failed() {
			return
		}
		r.sd.Animations = append(r.sd.Animations, a)
	}
}

func (r *jsonReader) timeline(a *skelfile.Animation, g *json.Getter, key string, c skelfile.Channel, target int) {
	t := &skelfile.Timeline{Channel: c, Target: target}
	r.frames(t, g, key)
	a.Timelines = append(a.Timelines, t)
}

// targets calls fn for each member of the object key, with the index of the
// item it names.
func (r *jsonReader) targets(g *json.Getter, key, kind string, find func(string) int, fn func(g *json.Getter, name string, target int)) {
	section := g.Object(key)
	if section == nil {
		return
	}
	for _, name := range section.Keys() {
		target := find(name)
		if target < 0 {
			section.Fail(name, errors.ReferenceError{Kind: kind, Index: -1, Name: name})
			return
		}
		fn(section, name, target)
		if r.failed() {
			return
		}
	}
}

// channels reads an object of timelines keyed by channel name.
func (r *jsonReader) channels(a *skelfile.Animation, g *json.Getter, key string, target int, match func(skelfile.Channel) bool) {
	tg := g.Object(key)
	if tg == nil {
		return
	}
	for _, name := range tg.Keys() {
		c, ok := r.p.channel(name, match)
		if !ok {
			tg.Fail(name, errors.New("unknown timeline"))
			return
		}
		r.timeline(a, tg, name, c, target)
	}
}

func (r *jsonReader) animation(a *skelfile.Animation, g *json.Getter) {
	sd := r.sd

	r.targets(g, "slots", "slot", sd.FindSlot, func(sg *json.Getter, name string, slot int) {
		r.channels(a, sg, name, slot, skelfile.Channel.IsSlot)
	})
	r.targets(g, "bones", "bone", sd.FindBone, func(bg *json.Getter, name string, bone int) {
		r.channels(a, bg, name, bone, skelfile.Channel.IsBone)
	})
	r.targets(g, "ik", "ik constraint", sd.FindIK, func(kg *json.Getter, name string, i int) {
		r.timeline(a, kg, name, skelfile.ChannelIK, i)
	})
	r.targets(g, "transform", "transform constraint", sd.FindTransform, func(kg *json.Getter, name string, i int) {
		r.timeline(a, kg, name, skelfile.ChannelTransform, i)
	})
	r.targets(g, r.p.pathKey, "path constraint", sd.FindPath, func(pg *json.Getter, name string, i int) {
		r.channels(a, pg, name, i, skelfile.Channel.IsPath)
	})
	if r.p.physics {
		// The empty name targets every physics constraint.
		findPhysics := func(name string) int {
			if name == "" {
				return 0
			}
			return sd.FindPhysics(name)
		}
		r.targets(g, "physics", "physics constraint", findPhysics, func(pg *json.Getter, name string, i int) {
			if name == "" {
				i = -1
			}
			r.channels(a, pg, name, i, skelfile.Channel.IsPhysics)
		})
	}

	r.targets(g, r.p.attachmentKey, "skin", sd.FindSkin, func(kg *json.Getter, skinName string, skin int) {
		r.targets(kg, skinName, "slot", sd.FindSlot, func(sg *json.Getter, slotName string, slot int) {
			ag := sg.Object(slotName)
			if ag == nil {
				return
			}
			for _, name := range ag.Keys() {
				if sd.Skins[skin].Attachment(slot, name) == nil {
					ag.Fail(name, errors.ReferenceError{Kind: "attachment", Index: -1, Name: name})
					return
				}
				t := &skelfile.Timeline{
					Channel:    skelfile.ChannelDeform,
					Target:     slot,
					Skin:       skin,
					Slot:       slot,
					Attachment: name,
				}
				if !r.p.sequences {
					r.frames(t, ag, name)
					a.Timelines = append(a.Timelines, t)
					continue
				}
				tg := ag.Object(name)
				if tg == nil {
					return
				}
				for _, key := range tg.Keys() {
					tt := *t
					switch key {
					case "deform":
					case "sequence":
						tt.Channel = skelfile.ChannelSequence
					default:
						tg.Fail(key, errors.New("unknown timeline"))
						return
					}
					r.frames(&tt, tg, key)
					a.Timelines = append(a.Timelines, &tt)
				}
			}
		})
	})

	drawOrder := "drawOrder"
	if !g.Has(drawOrder) && g.Has("draworder") {
		drawOrder = "draworder"
	}
	for _, fg := range g.Objects(drawOrder) {
		frame := skelfile.DrawOrderFrame{Time: fg.Float("time", 0)}
		for _, og := range fg.Objects("offsets") {
			frame.Offsets = append(frame.Offsets, skelfile.DrawOrderOffset{
				Slot:   ref(og, "slot", "slot", sd.FindSlot),
				Offset: og.Int("offset", 0),
			})
		}
		a.DrawOrder = append(a.DrawOrder, frame)
	}

	for _, fg := range g.Objects("events") {
		f := skelfile.EventFrame{Time: fg.Float("time", 0)}
		f.Event = ref(fg, "name", "event", sd.FindEvent)
		if r.failed() {
			return
		}
		e := sd.Events[f.Event]
		f.Int = int32(fg.Int("int", int(e.Int)))
		f.Float = fg.Float("float", e.Float)
		f.HasString = fg.Has("string")
		f.String = fg.Str("string", "")
		f.Volume = fg.Float("volume", e.Volume)
		f.Balance = fg.Float("balance", e.Balance)
		a.Events = append(a.Events, f)
	}
}

// frames reads the array of frames at key.
func (r *jsonReader) frames(t *skelfile.Timeline, g *json.Getter, key string) {
	list := g.Objects(key)
	t.Frames = make([]skelfile.Frame, len(list))
	for i, fg := range list {
		f := &t.Frames[i]
		f.Time = fg.Float("time", 0)
		r.frame(t.Channel, f, fg)
		r.curve(t.Channel, f, fg)
		if r.failed() {
			return
		}
	}
}

func (r *jsonReader) valueKey(key3 string) string {
	if r.p.splitChannels {
		return "value"
	}
	return key3
}

// frame reads the values of a frame of channel c.
func (r *jsonReader) frame(c skelfile.Channel, f *skelfile.Frame, g *json.Getter) {
	switch c {
	case skelfile.ChannelRotate:
		f.Value[0] = g.Float(r.valueKey("angle"), 0)
	case skelfile.ChannelTranslate, skelfile.ChannelShear:
		f.Value[0] = g.Float("x", 0)
		f.Value[1] = g.Float("y", 0)
	case skelfile.ChannelScale:
		f.Value[0] = g.Float("x", 1)
		f.Value[1] = g.Float("y", 1)
	case skelfile.ChannelTranslateX, skelfile.ChannelTranslateY,
		skelfile.ChannelShearX, skelfile.ChannelShearY:
		f.Value[0] = g.Float("value", 0)
	case skelfile.ChannelScaleX, skelfile.ChannelScaleY:
		f.Value[0] = g.Float("value", 1)
	case skelfile.ChannelInherit:
		f.Inherit = parseEnum(g, "inherit", skelfile.InheritNormal, skelfile.ParseInherit)
	case skelfile.ChannelAttachment:
		f.Name = g.Str("name", "")
	case skelfile.ChannelRGBA:
		f.Light = color(g, "color", skelfile.White)
	case skelfile.ChannelRGB:
		f.Light = color(g, "color", skelfile.White)
	case skelfile.ChannelRGBA2:
		f.Light = color(g, "light", skelfile.White)
		f.Dark = darkColor(g, "dark")
	case skelfile.ChannelRGB2:
		f.Light = color(g, "light", skelfile.White)
		f.Dark = darkColor(g, "dark")
	case skelfile.ChannelAlpha:
		a := g.Float("value", 0)
		f.Light = skelfile.Color{R: 0xff, G: 0xff, B: 0xff, A: uint8(math.Round(float64(clamp01(a)) * 255))}
	case skelfile.ChannelIK:
		f.Value[0] = g.Float("mix", 1)
		if r.p.ikSoftness {
			f.Value[1] = g.Float("softness", 0)
		}
		f.Bend = bend(g.Bool("bendPositive", true))
		if r.p.ikCompress {
			f.Compress = g.Bool("compress", false)
			f.Stretch = g.Bool("stretch", false)
		}
	case skelfile.ChannelTransform:
		if r.p.mixes6 {
			x := g.Float("mixX", 1)
			scaleX := g.Float("mixScaleX", 1)
			f.Value = [6]float32{
				g.Float("mixRotate", 1),
				x, g.Float("mixY", x),
				scaleX, g.Float("mixScaleY", scaleX),
				g.Float("mixShearY", 1),
			}
		} else {
			translate := g.Float("translateMix", 1)
			scale := g.Float("scaleMix", 1)
			f.Value = [6]float32{
				g.Float("rotateMix", 1),
				translate, translate,
				scale, scale,
				g.Float("shearMix", 1),
			}
		}
	case skelfile.ChannelPathPosition:
		f.Value[0] = g.Float(r.valueKey("position"), 0)
	case skelfile.ChannelPathSpacing:
		f.Value[0] = g.Float(r.valueKey("spacing"), 0)
	case skelfile.ChannelPathMix:
		if r.p.mixes6 {
			f.Value[0] = g.Float("mixRotate", 1)
			f.Value[1] = g.Float("mixX", 1)
			f.Value[2] = g.Float("mixY", f.Value[1])
		} else {
			f.Value[0] = g.Float("rotateMix", 1)
			f.Value[1] = g.Float("translateMix", 1)
			f.Value[2] = f.Value[1]
		}
	case skelfile.ChannelDeform:
		f.Offset = g.Int("offset", 0)
		f.Vertices = g.Floats("vertices")
	case skelfile.ChannelSequence:
		f.Mode = parseEnum(g, "mode", skelfile.SequenceHold, skelfile.ParseSequenceMode)
		f.Index = g.Int("index", 0)
		f.Value[0] = g.Float("delay", 0)
	case skelfile.ChannelPhysicsReset:
	default:
		if c.IsPhysics() {
			f.Value[0] = g.Float("value", 0)
		}
	}
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// curve reads the curve of a frame.
func (r *jsonReader) curve(c skelfile.Channel, f *skelfile.Frame, g *json.Getter) {
	v, ok := g.Value("curve")
	if !ok || v == nil || c.CurveChannels() == 0 {
		return
	}
	switch v := v.(type) {
	case string:
		switch v {
		case "stepped":
			f.Curve.Type = skelfile.CurveStepped
		case "linear":
		default:
			g.Fail("curve", errors.New("unknown curve "+strconv.Quote(v)))
		}
		return
	case []interface{}:
		n := 1
		if r.p.splitChannels {
			n = c.CurveChannels()
		}
		if len(v) != n*4 {
			g.Fail("curve", errors.New("expected "+strconv.Itoa(n*4)+" control values"))
			return
		}
		f.Curve.Type = skelfile.CurveBezier
		f.Curve.Bezier = make([][4]float32, n)
		for i, e := range v {
			x, ok := json.ToFloat(e)
			if !ok {
				g.Fail("curve["+strconv.Itoa(i)+"]", errors.New("expected number"))
				return
			}
			f.Curve.Bezier[i/4][i%4] = x
		}
		return
	}
	if !r.p.curveKeys {
		g.Fail("curve", errors.New("expected curve array"))
		return
	}
	c1, ok := json.ToFloat(v)
	if !ok {
		g.Fail("curve", errors.New("expected number"))
		return
	}
	f.Curve.Type = skelfile.CurveBezier
	f.Curve.Bezier = [][4]float32{{c1, g.Float("c2", 0), g.Float("c3", 1), g.Float("c4", 1)}}
}
