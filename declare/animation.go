package declare

import (
	"github.com/spineapi/skelfile"
)

// track is implemented by declarations that can be within an Animation
// declaration.
type track interface {
	track()
}

type animation struct {
	name   string
	tracks []track
}

func (animation) primary() {}

// Animation declares a skelfile.Animation. Its tracks are Timeline,
// SkinTimeline, DrawOrder and Fire declarations.
func Animation(name string, tracks ...track) animation {
	return animation{name: name, tracks: tracks}
}

type timeline struct {
	channel    skelfile.Channel
	target     string
	skin       string
	slot       string
	attachment string
	keys       []key
}

func (timeline) track() {}

// Timeline declares a skelfile.Timeline of channel c. target names the bone,
// slot or constraint animated by the channel. For physics channels, an empty
// target animates every physics constraint.
func Timeline(c skelfile.Channel, target string, keys ...key) timeline {
	return timeline{channel: c, target: target, keys: keys}
}

// SkinTimeline declares a deform or sequence timeline of the attachment of
// a skin.
func SkinTimeline(c skelfile.Channel, skin, slot, attachment string, keys ...key) timeline {
	return timeline{channel: c, skin: skin, slot: slot, attachment: attachment, keys: keys}
}

type key struct {
	time   float32
	values []interface{}
}

// Offset sets the offset of a deform key.
type Offset int

// Index sets the frame index of a sequence key.
type Index int

// Bend sets the bend direction of an IK key.
type Bend int

// Compress sets compress on an IK key.
type Compress bool

// Stretch sets stretch on an IK key.
type Stretch bool

// Stepped holds the value of a key until the next key.
var Stepped = skelfile.Curve{Type: skelfile.CurveStepped}

// Bezier returns a bezier curve from groups of 4 control values. Relative
// curves have one group; absolute curves have one group per value.
func Bezier(c ...float32) skelfile.Curve {
	curve := skelfile.Curve{Type: skelfile.CurveBezier}
	for i := 0; i+4 <= len(c); i += 4 {
		curve.Bezier = append(curve.Bezier, [4]float32{c[i], c[i+1], c[i+2], c[i+3]})
	}
	return curve
}

// Key declares a frame of a timeline at the given time. Each value sets a
// part of the frame according to its type:
//
//	number:                the next of the frame's values
//	string:                the attachment name
//	skelfile.Color:        the light color, then the dark color
//	skelfile.Curve:        the curve to the next key
//	skelfile.Inherit:      the inherit mode
//	skelfile.SequenceMode: the sequence mode
//	[]float32:             the deform vertices
//	Offset, Index, Bend, Compress, Stretch: the field of the same name
//
// Bend defaults to 1. Other values that are not given are zero.
func Key(time float32, values ...interface{}) key {
	return key{time: time, values: values}
}

func (k key) frame() skelfile.Frame {
	f := skelfile.Frame{Time: k.time, Bend: 1}
	n, colors := 0, 0
	for _, v := range k.values {
		switch v := v.(type) {
		case string:
			f.Name = v
		case skelfile.Color:
			if colors == 0 {
				f.Light = v
			} else {
				f.Dark = v
			}
			colors++
		case skelfile.Curve:
			f.Curve = v
		case skelfile.Inherit:
			f.Inherit = v
		case skelfile.SequenceMode:
			f.Mode = v
		case []float32:
			f.Vertices = v
		case Offset:
			f.Offset = int(v)
		case Index:
			f.Index = int(v)
		case Bend:
			f.Bend = int(v)
		case Compress:
			f.Compress = bool(v)
		case Stretch:
			f.Stretch = bool(v)
		default:
			if isNumber(v) && n < len(f.Value) {
				f.Value[n] = normFloat32(v)
				n++
			}
		}
	}
	return f
}

type drawOrder struct {
	time    float32
	offsets []interface{}
}

func (drawOrder) track() {}

// DrawOrder declares a draw order key. offsets are pairs of a slot name and
// the number of places the slot moves. No offsets restores the setup order.
func DrawOrder(time float32, offsets ...interface{}) drawOrder {
	return drawOrder{time: time, offsets: offsets}
}

type fire struct {
	time  float32
	event string
	props []property
}

func (fire) track() {}

// Fire declares an event key. Values not set with the "int", "float",
// "string", "volume" and "balance" properties are taken from the event.
func Fire(time float32, event string, props ...property) fire {
	return fire{time: time, event: event, props: props}
}

// target resolves the target of a timeline by the kind of its channel.
func (r resolver) target(d timeline) int {
	sd := r.sd
	c := d.channel
	switch {
	case c.IsBone():
		return sd.FindBone(d.target)
	case c.IsSlot():
		return sd.FindSlot(d.target)
	case c.IsPath():
		return sd.FindPath(d.target)
	case c.IsPhysics():
		if d.target == "" {
			return -1
		}
		return sd.FindPhysics(d.target)
	case c.IsAttachment():
		return sd.FindSlot(d.slot)
	case c == skelfile.ChannelIK:
		return sd.FindIK(d.target)
	case c == skelfile.ChannelTransform:
		return sd.FindTransform(d.target)
	}
	return -1
}

func (r resolver) animation(a *skelfile.Animation, d animation) {
	sd := r.sd
	for _, t := range d.tracks {
		switch t := t.(type) {
		case timeline:
			tl := &skelfile.Timeline{Channel: t.channel, Target: r.target(t)}
			if t.channel.IsAttachment() {
				tl.Skin = sd.FindSkin(t.skin)
				tl.Slot = tl.Target
				tl.Attachment = t.attachment
			}
			for _, k := range t.keys {
				tl.Frames = append(tl.Frames, k.frame())
			}
			a.Timelines = append(a.Timelines, tl)

		case drawOrder:
			f := skelfile.DrawOrderFrame{Time: t.time}
			for i := 0; i+1 < len(t.offsets); i += 2 {
				f.Offsets = append(f.Offsets, skelfile.DrawOrderOffset{
					Slot:   sd.FindSlot(normString(t.offsets[i])),
					Offset: normInt(t.offsets[i+1]),
				})
			}
			a.DrawOrder = append(a.DrawOrder, f)

		case fire:
			f := skelfile.EventFrame{Time: t.time, Event: sd.FindEvent(t.event)}
			if f.Event >= 0 {
				e := sd.Events[f.Event]
				f.Int, f.Float, f.String = e.Int, e.Float, e.String
				f.Volume, f.Balance = e.Volume, e.Balance
			}
			for _, p := range t.props {
				switch p.name {
				case "int":
					f.Int = int32(p.int())
				case "float":
					f.Float = p.float()
				case "string":
					f.String = p.string()
					f.HasString = true
				case "volume":
					f.Volume = p.float()
				case "balance":
					f.Balance = p.float()
				}
			}
			a.Events = append(a.Events, f)
		}
	}
}
