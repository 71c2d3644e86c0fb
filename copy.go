package skelfile

// Copy returns a deep copy of the skeleton data. The copy shares no memory
// with sd.
func (sd *SkeletonData) Copy() *SkeletonData {
	c := *sd
	c.Strings = append([]string(nil), sd.Strings...)

	c.Bones = make([]*BoneData, len(sd.Bones))
	for i, b := range sd.Bones {
		cb := *b
		c.Bones[i] = &cb
	}

	c.Slots = make([]*SlotData, len(sd.Slots))
	for i, s := range sd.Slots {
		cs := *s
		if s.Dark != nil {
			dark := *s.Dark
			cs.Dark = &dark
		}
		c.Slots[i] = &cs
	}

	c.IKConstraints = make([]*IKConstraintData, len(sd.IKConstraints))
	for i, k := range sd.IKConstraints {
		ck := *k
		ck.Bones = copyInts(k.Bones)
		c.IKConstraints[i] = &ck
	}

	c.TransformConstraints = make([]*TransformConstraintData, len(sd.TransformConstraints))
	for i, k := range sd.TransformConstraints {
		ck := *k
		ck.Bones = copyInts(k.Bones)
		c.TransformConstraints[i] = &ck
	}

	c.PathConstraints = make([]*PathConstraintData, len(sd.PathConstraints))
	for i, k := range sd.PathConstraints {
		ck := *k
		ck.Bones = copyInts(k.Bones)
		c.PathConstraints[i] = &ck
	}

	c.PhysicsConstraints = make([]*PhysicsConstraintData, len(sd.PhysicsConstraints))
	for i, k := range sd.PhysicsConstraints {
		ck := *k
		c.PhysicsConstraints[i] = &ck
	}

	c.Skins = make([]*Skin, len(sd.Skins))
	for i, s := range sd.Skins {
		cs := *s
		cs.Bones = copyInts(s.Bones)
		cs.Constraints = append([]ConstraintRef(nil), s.Constraints...)
		cs.Attachments = make([]*SkinAttachment, len(s.Attachments))
		for j, a := range s.Attachments {
			cs.Attachments[j] = &SkinAttachment{
				Slot:       a.Slot,
				Name:       a.Name,
				Attachment: a.Attachment.Copy(),
			}
		}
		c.Skins[i] = &cs
	}

	c.Events = make([]*EventData, len(sd.Events))
	for i, e := range sd.Events {
		ce := *e
		c.Events[i] = &ce
	}

	c.Animations = make([]*Animation, len(sd.Animations))
	for i, a := range sd.Animations {
		c.Animations[i] = a.Copy()
	}
	return &c
}

// Copy returns a deep copy of the animation.
func (a *Animation) Copy() *Animation {
	c := &Animation{Name: a.Name}
	c.Timelines = make([]*Timeline, len(a.Timelines))
	for i, t := range a.Timelines {
		c.Timelines[i] = t.Copy()
	}
	c.DrawOrder = make([]DrawOrderFrame, len(a.DrawOrder))
	for i, f := range a.DrawOrder {
		c.DrawOrder[i] = DrawOrderFrame{
			Time:    f.Time,
			Offsets: append([]DrawOrderOffset(nil), f.Offsets...),
		}
	}
	c.Events = append([]EventFrame(nil), a.Events...)
	return c
}

// Copy returns a deep copy of the timeline.
func (t *Timeline) Copy() *Timeline {
	c := *t
	c.Frames = make([]Frame, len(t.Frames))
	for i, f := range t.Frames {
		c.Frames[i] = f.copy()
	}
	return &c
}
