package skelfile

// Channel identifies the property animated by a timeline. The meaning of a
// Frame's fields depends on the channel:
//
//	Rotate                   Value[0] is the angle in degrees.
//	Translate, Scale, Shear  Value[0] is x, Value[1] is y.
//	TranslateX..ShearY       Value[0].
//	Inherit                  Inherit.
//	Attachment               Name, empty for none.
//	RGBA, RGB, Alpha         Light.
//	RGBA2, RGB2              Light, and the RGB channels of Dark.
//	IK                       Value[0] is mix, Value[1] is softness, then Bend,
//	                         Compress and Stretch.
//	Transform                Value[0:6] are the rotate, x, y, scaleX, scaleY
//	                         and shearY mixes.
//	PathPosition/Spacing     Value[0].
//	PathMix                  Value[0:3] are the rotate, x and y mixes.
//	Physics*                 Value[0], except PhysicsReset.
//	Deform                   Offset and Vertices.
//	Sequence                 Mode, Index, and Value[0] is the delay.
type Channel uint8

const (
	ChannelRotate Channel = iota
	ChannelTranslate
	ChannelTranslateX
	ChannelTranslateY
	ChannelScale
	ChannelScaleX
	ChannelScaleY
	ChannelShear
	ChannelShearX
	ChannelShearY
	ChannelInherit

	ChannelAttachment
	ChannelRGBA
	ChannelRGB
	ChannelRGBA2
	ChannelRGB2
	ChannelAlpha

	ChannelIK
	ChannelTransform
	ChannelPathPosition
	ChannelPathSpacing
	ChannelPathMix

	ChannelPhysicsInertia
	ChannelPhysicsStrength
	ChannelPhysicsDamping
	ChannelPhysicsMass
	ChannelPhysicsWind
	ChannelPhysicsGravity
	ChannelPhysicsMix
	ChannelPhysicsReset

	ChannelDeform
	ChannelSequence
)

func (c Channel) String() string {
	switch c {
	case ChannelRotate:
		return "rotate"
	case ChannelTranslate:
		return "translate"
	case ChannelTranslateX:
		return "translatex"
	case ChannelTranslateY:
		return "translatey"
	case ChannelScale:
		return "scale"
	case ChannelScaleX:
		return "scalex"
	case ChannelScaleY:
		return "scaley"
	case ChannelShear:
		return "shear"
	case ChannelShearX:
		return "shearx"
	case ChannelShearY:
		return "sheary"
	case ChannelInherit:
		return "inherit"
	case ChannelAttachment:
		return "attachment"
	case ChannelRGBA:
		return "rgba"
	case ChannelRGB:
		return "rgb"
	case ChannelRGBA2:
		return "rgba2"
	case ChannelRGB2:
		return "rgb2"
	case ChannelAlpha:
		return "alpha"
	case ChannelIK:
		return "ik"
	case ChannelTransform:
		return "transform"
	case ChannelPathPosition:
		return "position"
	case ChannelPathSpacing:
		return "spacing"
	case ChannelPathMix:
		return "mix"
	case ChannelPhysicsInertia:
		return "inertia"
	case ChannelPhysicsStrength:
		return "strength"
	case ChannelPhysicsDamping:
		return "damping"
	case ChannelPhysicsMass:
		return "mass"
	case ChannelPhysicsWind:
		return "wind"
	case ChannelPhysicsGravity:
		return "gravity"
	case ChannelPhysicsMix:
		return "mix"
	case ChannelPhysicsReset:
		return "reset"
	case ChannelDeform:
		return "deform"
	case ChannelSequence:
		return "sequence"
	}
	return ""
}

// IsBone returns whether the channel targets a bone.
func (c Channel) IsBone() bool {
	return c <= ChannelInherit
}

// IsSlot returns whether the channel targets a slot.
func (c Channel) IsSlot() bool {
	return ChannelAttachment <= c && c <= ChannelAlpha
}

// IsPath returns whether the channel targets a path constraint.
func (c Channel) IsPath() bool {
	return ChannelPathPosition <= c && c <= ChannelPathMix
}

// IsPhysics returns whether the channel targets physics constraints.
func (c Channel) IsPhysics() bool {
	return ChannelPhysicsInertia <= c && c <= ChannelPhysicsReset
}

// IsAttachment returns whether the channel targets an attachment of a skin.
func (c Channel) IsAttachment() bool {
	return c == ChannelDeform || c == ChannelSequence
}

// CurveChannels returns the number of values interpolated by a curve of the
// channel. Channels that cannot be curved return 0.
func (c Channel) CurveChannels() int {
	switch c {
	case ChannelRotate,
		ChannelTranslateX, ChannelTranslateY,
		ChannelScaleX, ChannelScaleY,
		ChannelShearX, ChannelShearY,
		ChannelAlpha,
		ChannelPathPosition, ChannelPathSpacing,
		ChannelPhysicsInertia, ChannelPhysicsStrength, ChannelPhysicsDamping,
		ChannelPhysicsMass, ChannelPhysicsWind, ChannelPhysicsGravity,
		ChannelPhysicsMix,
		ChannelDeform:
		return 1
	case ChannelTranslate, ChannelScale, ChannelShear, ChannelIK:
		return 2
	case ChannelRGB, ChannelPathMix:
		return 3
	case ChannelRGBA:
		return 4
	case ChannelRGB2:
		return 6
	case ChannelTransform:
		return 6
	case ChannelRGBA2:
		return 7
	}
	return 0
}

// CurveValue returns the value of the i-th curve channel of f, for a timeline
// of channel c. Colors are normalized to [0, 1]. Deform frames interpolate
// from 0 to 1, so the value is 0 for the frame starting a span and 1 for the
// frame ending it; end selects which.
func (c Channel) CurveValue(f *Frame, i int, end bool) float32 {
	switch c {
	case ChannelRGBA, ChannelRGB:
		return f.Light.Channel(i)
	case ChannelAlpha:
		return f.Light.Channel(3)
	case ChannelRGBA2:
		if i < 4 {
			return f.Light.Channel(i)
		}
		return f.Dark.Channel(i - 4)
	case ChannelRGB2:
		if i < 3 {
			return f.Light.Channel(i)
		}
		return f.Dark.Channel(i - 3)
	case ChannelDeform:
		if end {
			return 1
		}
		return 0
	}
	if i < len(f.Value) {
		return f.Value[i]
	}
	return 0
}

// CurveType is the interpolation between a frame and the next.
type CurveType uint8

const (
	CurveLinear CurveType = iota
	CurveStepped
	CurveBezier
)

func (t CurveType) String() string {
	switch t {
	case CurveLinear:
		return "linear"
	case CurveStepped:
		return "stepped"
	case CurveBezier:
		return "bezier"
	}
	return ""
}

// CurveBasis is the coordinate space of bezier control points.
type CurveBasis uint8

const (
	// Relative control points are in [0, 1] of the span between two frames,
	// and a single curve applies to every value of the frame.
	Relative CurveBasis = iota
	// Absolute control points are in time and value units, with one curve
	// per value.
	Absolute
)

// Curve is the interpolation from a frame to the next.
type Curve struct {
	Type CurveType
	// Bezier holds cx1, cy1, cx2, cy2 for each curve channel. Relative
	// curves have exactly one entry.
	Bezier [][4]float32
}

func (c Curve) copy() Curve {
	if c.Bezier == nil {
		return c
	}
	c.Bezier = append(make([][4]float32, 0, len(c.Bezier)), c.Bezier...)
	return c
}

// Frame is a key of a timeline.
type Frame struct {
	Time  float32
	Value [6]float32

	Light Color
	Dark  Color

	Name     string
	Bend     int
	Compress bool
	Stretch  bool
	Inherit  Inherit

	Offset   int
	Vertices []float32

	Mode  SequenceMode
	Index int

	Curve Curve
}

func (f Frame) copy() Frame {
	f.Vertices = copyFloats(f.Vertices)
	f.Curve = f.Curve.copy()
	return f
}

// Timeline is a sequence of frames animating one channel of one target.
type Timeline struct {
	Channel Channel
	// Target is the index of the animated bone, slot or constraint. For
	// physics channels, -1 targets every physics constraint.
	Target int

	// Skin, Slot and Attachment locate the attachment of deform and sequence
	// timelines.
	Skin       int
	Slot       int
	Attachment string

	Frames []Frame
}

// DrawOrderOffset moves a slot from its setup position in the draw order.
type DrawOrderOffset struct {
	Slot   int
	Offset int
}

type DrawOrderFrame struct {
	Time float32
	// Offsets is empty to restore the setup draw order.
	Offsets []DrawOrderOffset
}

type EventFrame struct {
	Time  float32
	Event int
	Int   int32
	Float float32
	// String overrides the string of the event when HasString is set.
	String    string
	HasString bool
	Volume    float32
	Balance   float32
}

type Animation struct {
	Name      string
	Timelines []*Timeline
	DrawOrder []DrawOrderFrame
	Events    []EventFrame
}

// Duration returns the time of the last frame of the animation.
func (a *Animation) Duration() float32 {
	var d float32
	for _, t := range a.Timelines {
		if n := len(t.Frames); n > 0 && t.Frames[n-1].Time > d {
			d = t.Frames[n-1].Time
		}
	}
	if n := len(a.DrawOrder); n > 0 && a.DrawOrder[n-1].Time > d {
		d = a.DrawOrder[n-1].Time
	}
	if n := len(a.Events); n > 0 && a.Events[n-1].Time > d {
		d = a.Events[n-1].Time
	}
	return d
}
