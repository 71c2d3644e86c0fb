package convert

import (
	"math"
	"slices"

	"github.com/spineapi/skelfile"
)

// sample returns the value of t at the given time, as produced by get for
// each frame. Bezier spans are sampled linearly. Returns def when t is nil or
// empty.
func sample(t *skelfile.Timeline, time float32, def float32, get func(*skelfile.Frame) float32) float32 {
	if t == nil || len(t.Frames) == 0 {
		return def
	}
	if time <= t.Frames[0].Time {
		return get(&t.Frames[0])
	}
	for i := len(t.Frames) - 1; i >= 0; i-- {
		f := &t.Frames[i]
		if f.Time > time {
			continue
		}
		if f.Time == time || i == len(t.Frames)-1 || f.Curve.Type == skelfile.CurveStepped {
			return get(f)
		}
		next := &t.Frames[i+1]
		p := (time - f.Time) / (next.Time - f.Time)
		v := get(f)
		return v + (get(next)-v)*p
	}
	return def
}

// frameAt returns the frame of t at exactly the given time, or nil.
func frameAt(t *skelfile.Timeline, time float32) *skelfile.Frame {
	if t == nil {
		return nil
	}
	for i := range t.Frames {
		if t.Frames[i].Time == time {
			return &t.Frames[i]
		}
	}
	return nil
}

// keyTimes returns the sorted union of the frame times of each timeline.
func keyTimes(timelines ...*skelfile.Timeline) []float32 {
	var times []float32
	for _, t := range timelines {
		if t == nil {
			continue
		}
		for _, f := range t.Frames {
			times = append(times, f.Time)
		}
	}
	slices.Sort(times)
	return slices.Compact(times)
}

func curved(t *skelfile.Timeline) bool {
	if t == nil {
		return false
	}
	for _, f := range t.Frames {
		if f.Curve.Type != skelfile.CurveLinear {
			return true
		}
	}
	return false
}

func sameCurve(a, b skelfile.Curve) bool {
	if a.Type != b.Type {
		return false
	}
	return a.Type != skelfile.CurveBezier || slices.Equal(a.Bezier, b.Bezier)
}

// mergeCurves picks the relative curve of a merged frame from the frames of
// the sources present at its time. It reports whether the pick loses the
// shape of another source, linear sources included. When the curves differ,
// a non-linear curve is preferred.
func mergeCurves(frames ...*skelfile.Frame) (c skelfile.Curve, lossy bool) {
	set := false
	for _, f := range frames {
		if f == nil {
			continue
		}
		if !set {
			c, set = f.Curve, true
			continue
		}
		if !sameCurve(c, f.Curve) {
			lossy = true
			if c.Type == skelfile.CurveLinear {
				c = f.Curve
			}
		}
	}
	return c, lossy
}

// merger combines split timelines of one animation into combined ones.
type merger struct {
	a *skelfile.Animation
	// remove marks timelines replaced by a merged timeline.
	remove map[*skelfile.Timeline]bool
	// lossy lists the channels whose curves were approximated.
	lossy []skelfile.Channel
}

func newMerger(a *skelfile.Animation) *merger {
	return &merger{a: a, remove: map[*skelfile.Timeline]bool{}}
}

// find returns the timeline of channel c for the target, or nil.
func (m *merger) find(c skelfile.Channel, target int) *skelfile.Timeline {
	for _, t := range m.a.Timelines {
		if t.Channel == c && t.Target == target && !m.remove[t] {
			return t
		}
	}
	return nil
}

// replace puts merged in place of the first of sources, and drops the rest.
func (m *merger) replace(merged *skelfile.Timeline, sources ...*skelfile.Timeline) {
	first := true
	for i, t := range m.a.Timelines {
		if !slices.Contains(sources, t) {
			continue
		}
		if first {
			m.a.Timelines[i] = merged
			first = false
			continue
		}
		m.remove[t] = true
	}
}

// done drops the timelines marked for removal.
func (m *merger) done() {
	m.a.Timelines = slices.DeleteFunc(m.a.Timelines, func(t *skelfile.Timeline) bool {
		return m.remove[t]
	})
}

// targets returns the targets having a timeline of any of the channels, in
// order of first appearance.
func (m *merger) targets(channels ...skelfile.Channel) []int {
	var list []int
	for _, t := range m.a.Timelines {
		if slices.Contains(channels, t.Channel) && !slices.Contains(list, t.Target) {
			list = append(list, t.Target)
		}
	}
	return list
}

// build creates a timeline of channel c over the key times of the sources.
// set fills the values of each frame.
func (m *merger) build(c skelfile.Channel, target int, sources []*skelfile.Timeline, set func(f *skelfile.Frame)) *skelfile.Timeline {
	merged := &skelfile.Timeline{Channel: c, Target: target}
	times := keyTimes(sources...)
	aligned := true
	anyCurved := false
	for _, t := range sources {
		if t == nil {
			continue
		}
		anyCurved = anyCurved || curved(t)
		if len(t.Frames) != len(times) {
			aligned = false
		}
	}
	lossy := anyCurved && !aligned
	for _, time := range times {
		f := skelfile.Frame{Time: time}
		frames := make([]*skelfile.Frame, 0, len(sources))
		for _, t := range sources {
			frames = append(frames, frameAt(t, time))
		}
		var loss bool
		f.Curve, loss = mergeCurves(frames...)
		lossy = lossy || loss
		set(&f)
		merged.Frames = append(merged.Frames, f)
	}
	if lossy {
		m.lossy = append(m.lossy, c)
	}
	return merged
}

func value(f *skelfile.Frame) float32 { return f.Value[0] }

// axes merges the x and y timelines of each bone into a timeline of the
// combined channel. def is the value of an axis without a timeline.
func (m *merger) axes(x, y, into skelfile.Channel, def float32) {
	for _, target := range m.targets(x, y) {
		tx, ty := m.find(x, target), m.find(y, target)
		sources := []*skelfile.Timeline{tx, ty}
		merged := m.build(into, target, sources, func(f *skelfile.Frame) {
			f.Value[0] = sample(tx, f.Time, def, value)
			f.Value[1] = sample(ty, f.Time, def, value)
		})
		m.replace(merged, tx, ty)
	}
}

func channel(i int) func(*skelfile.Frame) float32 {
	return func(f *skelfile.Frame) float32 { return f.Light.Channel(i) }
}

func darkChannel(i int) func(*skelfile.Frame) float32 {
	return func(f *skelfile.Frame) float32 { return f.Dark.Channel(i) }
}

func toByte(v float32) uint8 {
	return uint8(math.Round(float64(max(0, min(1, v)) * 255)))
}

// colors merges the rgb, rgb2 and alpha timelines of each slot into an rgba
// or rgba2 timeline. Channels without a timeline take the setup color of the
// slot.
func (m *merger) colors(sd *skelfile.SkeletonData) {
	for _, target := range m.targets(skelfile.ChannelRGB, skelfile.ChannelRGB2, skelfile.ChannelAlpha) {
		var setup skelfile.SlotData
		if target >= 0 && target < len(sd.Slots) {
			setup = *sd.Slots[target]
		} else {
			setup.Color = skelfile.White
		}
		dark := skelfile.Color{}
		if setup.Dark != nil {
			dark = *setup.Dark
		}

		rgb := m.find(skelfile.ChannelRGB, target)
		rgb2 := m.find(skelfile.ChannelRGB2, target)
		alpha := m.find(skelfile.ChannelAlpha, target)
		light := rgb
		into := skelfile.ChannelRGBA
		if rgb2 != nil {
			light = rgb2
			into = skelfile.ChannelRGBA2
		}
		sources := []*skelfile.Timeline{light, alpha}
		merged := m.build(into, target, sources, func(f *skelfile.Frame) {
			f.Light = skelfile.Color{
				R: toByte(sample(light, f.Time, setup.Color.Channel(0), channel(0))),
				G: toByte(sample(light, f.Time, setup.Color.Channel(1), channel(1))),
				B: toByte(sample(light, f.Time, setup.Color.Channel(2), channel(2))),
				A: toByte(sample(alpha, f.Time, setup.Color.Channel(3), channel(3))),
			}
			if into == skelfile.ChannelRGBA2 {
				f.Dark = skelfile.Color{
					R: toByte(sample(rgb2, f.Time, dark.Channel(0), darkChannel(0))),
					G: toByte(sample(rgb2, f.Time, dark.Channel(1), darkChannel(1))),
					B: toByte(sample(rgb2, f.Time, dark.Channel(2), darkChannel(2))),
				}
			}
		})
		// An rgb timeline next to an rgb2 timeline has no combined channel.
		m.replace(merged, rgb2, rgb, alpha)
	}
}
