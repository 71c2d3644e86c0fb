// The convert package migrates skeleton data between schema generations.
//
// Migration steps through each generation between the source and the target.
// Data that a generation cannot represent is dropped or approximated, and is
// reported as a warning rather than an error.
package convert

import (
	"fmt"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
)

// ErrUnknownGeneration indicates a conversion from or to a generation that is
// not known.
var ErrUnknownGeneration = errors.New("unknown generation")

// LossError describes data that could not be carried into a generation.
type LossError struct {
	// Generation is the generation being converted to.
	Generation skelfile.Generation
	// Item describes the lost data.
	Item string
}

func (err LossError) Error() string {
	return fmt.Sprintf("converting to %s: %s", err.Generation, err.Item)
}

func (err LossError) Is(target error) bool {
	return target == errors.ErrDataLoss
}

// Options adjusts a conversion.
type Options struct {
	// Essential drops nonessential data from the result.
	Essential bool
	// Renumber compacts constraint orders even when no generation is
	// dropped.
	Renumber bool
}

// Convert returns a copy of sd migrated to the given generation. sd is not
// modified.
//
// warn is an errors.Errors listing the data that was dropped or approximated,
// or nil. err is non-nil only when the conversion could not be done at all.
func Convert(sd *skelfile.SkeletonData, to skelfile.Generation, opts *Options) (out *skelfile.SkeletonData, warn, err error) {
	if opts == nil {
		opts = &Options{}
	}
	if !known(sd.Generation) {
		return nil, nil, fmt.Errorf("source %s: %w", sd.Generation, ErrUnknownGeneration)
	}
	if !known(to) {
		return nil, nil, fmt.Errorf("target %s: %w", to, ErrUnknownGeneration)
	}

	out = sd.Copy()
	out.Strings = nil
	c := converter{sd: out, seen: map[string]bool{}}
	from := out.Generation
	for out.Generation < to {
		c.upgrade(out.Generation.Next())
	}
	for out.Generation > to {
		c.downgrade(out.Generation.Prev())
	}
	if to < from || opts.Renumber {
		RenumberOrder(out)
	}
	if opts.Essential {
		out.Nonessential = false
	}
	out.Version = to.DefaultVersion()
	return out, c.warns.Return(), nil
}

func known(g skelfile.Generation) bool {
	return g >= skelfile.Spine36 && g <= skelfile.Spine42
}

// converter migrates a skeleton one generation at a time.
type converter struct {
	sd    *skelfile.SkeletonData
	warns errors.Errors
	// seen holds the items already reported, per generation.
	seen map[string]bool
}

// lose reports that an item is lost while converting to the generation
// being stepped to. Each item is reported once per generation.
func (c *converter) lose(to skelfile.Generation, item string) {
	key := to.String() + "\x00" + item
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.warns = c.warns.Append(LossError{Generation: to, Item: item})
}

func (c *converter) upgrade(to skelfile.Generation) {
	if to == skelfile.Spine40 {
		rebase(c.sd, skelfile.Relative, skelfile.Absolute)
	}
	c.sd.Generation = to
	c.sd.Version = to.DefaultVersion()
}

func (c *converter) downgrade(to skelfile.Generation) {
	switch to {
	case skelfile.Spine40:
		c.dropPhysics(to)
	case skelfile.Spine38:
		rebase(c.sd, skelfile.Absolute, skelfile.Relative)
		c.mergeChannels(to)
		c.dropAxes(to)
	case skelfile.Spine37:
		c.dropScopes(to)
	case skelfile.Spine36:
		c.dropAudio(to)
	}
	c.sd.Generation = to
	c.sd.Version = to.DefaultVersion()
}

// filterTimelines removes the timelines of every animation for which drop
// returns true, reporting each dropped channel.
func (c *converter) filterTimelines(to skelfile.Generation, drop func(*skelfile.Timeline) bool) {
	for _, a := range c.sd.Animations {
		kept := a.Timelines[:0]
		for _, t := range a.Timelines {
			if drop(t) {
				name := t.Channel.String()
				if t.Channel.IsPhysics() {
					name = "physics " + name
				}
				c.lose(to, name+" timelines")
				continue
			}
			kept = append(kept, t)
		}
		a.Timelines = kept
	}
}

// dropPhysics removes what 4.2 added: physics, inherit and sequence
// timelines, attachment sequences and the editor visuals.
func (c *converter) dropPhysics(to skelfile.Generation) {
	sd := c.sd
	if len(sd.PhysicsConstraints) > 0 {
		c.lose(to, "physics constraints")
		sd.PhysicsConstraints = nil
	}
	sd.ReferenceScale = 100
	c.filterTimelines(to, func(t *skelfile.Timeline) bool {
		return t.Channel.IsPhysics() || t.Channel == skelfile.ChannelInherit || t.Channel == skelfile.ChannelSequence
	})
	for _, b := range sd.Bones {
		b.Icon = ""
		b.Visible = true
	}
	for _, s := range sd.Slots {
		s.Visible = true
	}
	for _, skin := range sd.Skins {
		skin.Color = skelfile.DefaultSkinColor
		kept := skin.Constraints[:0]
		for _, ref := range skin.Constraints {
			if ref.Kind != skelfile.KindPhysics {
				kept = append(kept, ref)
			}
		}
		skin.Constraints = kept
		for _, e := range skin.Attachments {
			if dropSequence(e.Attachment) {
				c.lose(to, "attachment sequences")
			}
		}
	}
}

// dropSequence removes the sequence of an attachment, reporting whether it
// had one.
func dropSequence(a skelfile.Attachment) bool {
	var seq **skelfile.Sequence
	switch a := a.(type) {
	case *skelfile.RegionAttachment:
		seq = &a.Sequence
	case *skelfile.MeshAttachment:
		seq = &a.Sequence
	case *skelfile.LinkedMeshAttachment:
		seq = &a.Sequence
	default:
		return false
	}
	had := *seq != nil
	*seq = nil
	return had
}

// mergeChannels combines the split channels of 4.x into the combined
// channels of 3.x. Curves must already be relative.
func (c *converter) mergeChannels(to skelfile.Generation) {
	for _, a := range c.sd.Animations {
		m := newMerger(a)
		m.axes(skelfile.ChannelTranslateX, skelfile.ChannelTranslateY, skelfile.ChannelTranslate, 0)
		m.axes(skelfile.ChannelScaleX, skelfile.ChannelScaleY, skelfile.ChannelScale, 1)
		m.axes(skelfile.ChannelShearX, skelfile.ChannelShearY, skelfile.ChannelShear, 0)
		m.colors(c.sd)
		m.done()
		for _, ch := range m.lossy {
			c.lose(to, "curves of merged "+ch.String()+" timelines")
		}
	}
}

// dropAxes folds the per-axis mixes of 4.x into the single mixes of 3.x,
// keeping the x mix.
func (c *converter) dropAxes(to skelfile.Generation) {
	sd := c.sd
	for _, k := range sd.TransformConstraints {
		if k.MixY != k.MixX || k.MixScaleY != k.MixScaleX {
			c.lose(to, "per-axis transform constraint mixes")
		}
		k.MixY = k.MixX
		k.MixScaleY = k.MixScaleX
	}
	for _, k := range sd.PathConstraints {
		if k.MixY != k.MixX {
			c.lose(to, "per-axis path constraint mixes")
		}
		k.MixY = k.MixX
		if k.SpacingMode == skelfile.SpacingProportional {
			c.lose(to, "proportional spacing")
			k.SpacingMode = skelfile.SpacingPercent
		}
	}
	for _, a := range sd.Animations {
		for _, t := range a.Timelines {
			for i := range t.Frames {
				v := &t.Frames[i].Value
				switch t.Channel {
				case skelfile.ChannelTransform:
					if v[2] != v[1] || v[4] != v[3] {
						c.lose(to, "per-axis transform mixes of frames")
					}
					v[2], v[4] = v[1], v[3]
				case skelfile.ChannelPathMix:
					if v[2] != v[1] {
						c.lose(to, "per-axis path mixes of frames")
					}
					v[2] = v[1]
				}
			}
		}
	}
}

// dropScopes removes what 3.8 added: skin scoped bones and constraints,
// skin-required flags, IK softness and the skeleton position.
func (c *converter) dropScopes(to skelfile.Generation) {
	sd := c.sd
	sd.X, sd.Y = 0, 0
	for _, skin := range sd.Skins {
		if len(skin.Bones) > 0 || len(skin.Constraints) > 0 {
			c.lose(to, "skin bones and constraints")
		}
		skin.Bones = nil
		skin.Constraints = nil
	}
	required := func(r *bool) {
		if *r {
			c.lose(to, "skin-required flags")
		}
		*r = false
	}
	for _, b := range sd.Bones {
		required(&b.SkinRequired)
	}
	for _, k := range sd.IKConstraints {
		required(&k.SkinRequired)
		if k.Softness != 0 {
			c.lose(to, "IK softness")
		}
		k.Softness = 0
	}
	for _, k := range sd.TransformConstraints {
		required(&k.SkinRequired)
	}
	for _, k := range sd.PathConstraints {
		required(&k.SkinRequired)
	}
	for _, a := range sd.Animations {
		for _, t := range a.Timelines {
			if t.Channel != skelfile.ChannelIK {
				continue
			}
			for i := range t.Frames {
				if t.Frames[i].Value[1] != 0 {
					c.lose(to, "IK softness of frames")
				}
				t.Frames[i].Value[1] = 0
			}
		}
	}
}

// dropAudio removes what 3.7 added: IK compress, stretch and uniform, and
// event audio.
func (c *converter) dropAudio(to skelfile.Generation) {
	sd := c.sd
	for _, k := range sd.IKConstraints {
		if k.Compress || k.Stretch || k.Uniform {
			c.lose(to, "IK compress, stretch and uniform")
		}
		k.Compress, k.Stretch, k.Uniform = false, false, false
	}
	if sd.AudioPath != "" {
		c.lose(to, "audio path")
	}
	sd.AudioPath, sd.HasAudioPath = "", false
	for _, e := range sd.Events {
		if e.AudioPath != "" {
			c.lose(to, "event audio")
		}
		e.AudioPath, e.HasAudioPath = "", false
		e.Volume = 1
		e.Balance = 0
	}
	for _, a := range sd.Animations {
		for i := range a.Events {
			a.Events[i].Volume = 1
			a.Events[i].Balance = 0
		}
		for _, t := range a.Timelines {
			if t.Channel != skelfile.ChannelIK {
				continue
			}
			for i := range t.Frames {
				f := &t.Frames[i]
				if f.Compress || f.Stretch {
					c.lose(to, "IK compress and stretch of frames")
				}
				f.Compress, f.Stretch = false, false
			}
		}
	}
}
