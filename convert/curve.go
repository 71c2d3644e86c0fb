package convert

import (
	"github.com/spineapi/skelfile"
)

// RelativeToAbsolute maps the control points of a relative bezier curve into
// the span between the frame at (t1, v1) and the next frame at (t2, v2).
func RelativeToAbsolute(c [4]float32, t1, t2, v1, v2 float32) [4]float32 {
	dt, dv := t2-t1, v2-v1
	return [4]float32{
		t1 + c[0]*dt,
		v1 + c[1]*dv,
		t1 + c[2]*dt,
		v1 + c[3]*dv,
	}
}

// AbsoluteToRelative maps the control points of an absolute bezier curve back
// to [0, 1] of the span between (t1, v1) and (t2, v2). An axis with an empty
// span cannot be divided; its control points become 0 and 1.
func AbsoluteToRelative(c [4]float32, t1, t2, v1, v2 float32) [4]float32 {
	r := [4]float32{0, 0, 1, 1}
	if dt := t2 - t1; dt != 0 {
		r[0] = (c[0] - t1) / dt
		r[2] = (c[2] - t1) / dt
	}
	if dv := v2 - v1; dv != 0 {
		r[1] = (c[1] - v1) / dv
		r[3] = (c[3] - v1) / dv
	}
	return r
}

// Rebase converts every bezier curve of sd from the basis of sd.Generation to
// the given basis. The generation of sd is left unchanged, so the caller is
// expected to set it afterwards.
func Rebase(sd *skelfile.SkeletonData, to skelfile.CurveBasis) {
	rebase(sd, sd.Generation.CurveBasis(), to)
}

func rebase(sd *skelfile.SkeletonData, from, to skelfile.CurveBasis) {
	if from == to {
		return
	}
	for _, a := range sd.Animations {
		for _, t := range a.Timelines {
			rebaseTimeline(t, to)
		}
	}
}

func rebaseTimeline(t *skelfile.Timeline, to skelfile.CurveBasis) {
	n := t.Channel.CurveChannels()
	if n == 0 {
		return
	}
	for i := range t.Frames {
		f := &t.Frames[i]
		if f.Curve.Type != skelfile.CurveBezier || len(f.Curve.Bezier) == 0 {
			continue
		}
		// A curve on the last frame has no span to map into.
		if i+1 >= len(t.Frames) {
			f.Curve = skelfile.Curve{}
			continue
		}
		next := &t.Frames[i+1]
		if to == skelfile.Absolute {
			f.Curve.Bezier = toAbsolute(t.Channel, f, next, n)
		} else {
			f.Curve.Bezier = toRelative(t.Channel, f, next, n)
		}
	}
}

// toAbsolute replicates the shared relative curve of f to each channel, using
// the value pair of that channel.
func toAbsolute(c skelfile.Channel, f, next *skelfile.Frame, n int) [][4]float32 {
	rel := f.Curve.Bezier[0]
	out := make([][4]float32, n)
	for ch := 0; ch < n; ch++ {
		v1 := c.CurveValue(f, ch, false)
		v2 := c.CurveValue(next, ch, true)
		out[ch] = RelativeToAbsolute(rel, f.Time, next.Time, v1, v2)
	}
	return out
}

// toRelative keeps the curve of the first channel whose value changes over
// the span, or the first channel when none does.
func toRelative(c skelfile.Channel, f, next *skelfile.Frame, n int) [][4]float32 {
	pick := 0
	for ch := 0; ch < n && ch < len(f.Curve.Bezier); ch++ {
		if c.CurveValue(f, ch, false) != c.CurveValue(next, ch, true) {
			pick = ch
			break
		}
	}
	if pick >= len(f.Curve.Bezier) {
		pick = 0
	}
	v1 := c.CurveValue(f, pick, false)
	v2 := c.CurveValue(next, pick, true)
	return [][4]float32{AbsoluteToRelative(f.Curve.Bezier[pick], f.Time, next.Time, v1, v2)}
}
