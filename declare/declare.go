// The declare package is used to generate skelfile structures in a
// declarative style.
//
// A Skeleton declaration lists bones, slots, constraints, skins, events and
// animations. Items refer to each other by name; names are resolved when the
// skeleton is declared, so items may be declared in any order.
//
// The easiest way to use this package is to import it directly into the
// current package:
//
//	import . "github.com/spineapi/skelfile/declare"
//
// This allows the package's identifiers to be used directly without a
// qualifier.
package declare

import (
	"github.com/spineapi/skelfile"
)

// primary is implemented by declarations that can be directly within a
// Skeleton declaration.
type primary interface {
	primary()
}

// Skeleton declares a skelfile.SkeletonData. It is a list that contains Bone,
// Slot, constraint, Skin, Event, Animation and Property declarations.
// Properties set fields of the skeleton itself.
type Skeleton []primary

// Declare evaluates the Skeleton declaration for the given generation.
//
// Items are created first, in order of declaration, and properties are
// applied afterwards. A name that does not refer to a declared item resolves
// to -1. When two items have the same name, references resolve to the first.
func (ds Skeleton) Declare(g skelfile.Generation) *skelfile.SkeletonData {
	sd := skelfile.NewSkeletonData(g)
	var (
		bones      []bone
		slots      []slot
		iks        []constraint
		transforms []constraint
		paths      []constraint
		physics    []constraint
		skins      []skin
		events     []event
		animations []animation
		props      []property
	)
	for _, p := range ds {
		switch p := p.(type) {
		case bone:
			bones = append(bones, p)
			sd.Bones = append(sd.Bones, skelfile.NewBoneData(p.name, -1))
		case slot:
			slots = append(slots, p)
			sd.Slots = append(sd.Slots, skelfile.NewSlotData(p.name, -1))
		case constraint:
			switch p.kind {
			case skelfile.KindIK:
				iks = append(iks, p)
				sd.IKConstraints = append(sd.IKConstraints, skelfile.NewIKConstraintData(p.name))
			case skelfile.KindTransform:
				transforms = append(transforms, p)
				sd.TransformConstraints = append(sd.TransformConstraints, skelfile.NewTransformConstraintData(p.name))
			case skelfile.KindPath:
				paths = append(paths, p)
				sd.PathConstraints = append(sd.PathConstraints, skelfile.NewPathConstraintData(p.name))
			case skelfile.KindPhysics:
				physics = append(physics, p)
				sd.PhysicsConstraints = append(sd.PhysicsConstraints, skelfile.NewPhysicsConstraintData(p.name))
			}
		case skin:
			skins = append(skins, p)
			sd.Skins = append(sd.Skins, &skelfile.Skin{Name: p.name, Color: skelfile.DefaultSkinColor})
		case event:
			events = append(events, p)
			sd.Events = append(sd.Events, skelfile.NewEventData(p.name))
		case animation:
			animations = append(animations, p)
			sd.Animations = append(sd.Animations, &skelfile.Animation{Name: p.name})
		case property:
			props = append(props, p)
		}
	}

	r := resolver{sd: sd}
	for _, p := range props {
		r.skeleton(p)
	}
	for i, b := range bones {
		r.bone(sd.Bones[i], b)
	}
	for i, s := range slots {
		r.slot(sd.Slots[i], s)
	}
	for i, k := range iks {
		r.ik(sd.IKConstraints[i], k)
	}
	for i, k := range transforms {
		r.transform(sd.TransformConstraints[i], k)
	}
	for i, k := range paths {
		r.path(sd.PathConstraints[i], k)
	}
	for i, k := range physics {
		r.physics(sd.PhysicsConstraints[i], k)
	}
	for i, s := range skins {
		r.skin(sd.Skins[i], s)
	}
	for i, e := range events {
		r.event(sd.Events[i], e)
	}
	for i, a := range animations {
		r.animation(sd.Animations[i], a)
	}
	return sd
}

type property struct {
	name  string
	value []interface{}
}

func (property) primary() {}
func (property) element() {}

// Property declares a field of the item it is declared under. Fields are
// named by their key in the JSON format, such as "length" or "scaleX".
//
// The value may be one or more values, which are converted to the type of the
// field. Numbers may be of any type except complex. Colors may be a
// skelfile.Color, a hex string, or a number packed as 0xRRGGBBAA. Modes may
// be given as their enum value or by name. References to other items are
// given by name. Fields that hold lists take several values, or a slice.
//
// Values that cannot be converted produce the zero value of the field, and
// properties with unknown names are ignored.
func Property(name string, value ...interface{}) property {
	return property{name: name, value: value}
}

func (p property) first() interface{} {
	if len(p.value) == 0 {
		return nil
	}
	return p.value[0]
}

func (p property) float() float32 { return normFloat32(p.first()) }
func (p property) int() int { return normInt(p.first()) }
func (p property) bool() bool { return normBool(p.first()) }
func (p property) string() string { return normString(p.first()) }
func (p property) color() skelfile.Color { return normColor(p.first()) }
func (p property) floats() []float32 { return normFloats(p.value) }
func (p property) ints() []int { return normInts(p.value) }
func (p property) strings() []string { return normStrings(p.value) }
func (p property) colorPtr() *skelfile.Color {
	c := p.color()
	return &c
}

// has returns whether props contains a property of the given name.
func has(props []property, name string) bool {
	for _, p := range props {
		if p.name == name {
			return true
		}
	}
	return false
}

type bone struct {
	name  string
	props []property
}

func (bone) primary() {}

// Bone declares a skelfile.BoneData. The parent is set with the "parent"
// property; a bone without one is a root.
func Bone(name string, props ...property) bone {
	return bone{name: name, props: props}
}

type slot struct {
	name  string
	bone  string
	props []property
}

func (slot) primary() {}

// Slot declares a skelfile.SlotData attached to the named bone.
func Slot(name, bone string, props ...property) slot {
	return slot{name: name, bone: bone, props: props}
}

type constraint struct {
	kind  skelfile.ConstraintKind
	name  string
	props []property
}

func (constraint) primary() {}

// IK declares a skelfile.IKConstraintData.
func IK(name string, props ...property) constraint {
	return constraint{kind: skelfile.KindIK, name: name, props: props}
}

// Transform declares a skelfile.TransformConstraintData.
func Transform(name string, props ...property) constraint {
	return constraint{kind: skelfile.KindTransform, name: name, props: props}
}

// Path declares a skelfile.PathConstraintData. Its "target" property names a
// slot.
func Path(name string, props ...property) constraint {
	return constraint{kind: skelfile.KindPath, name: name, props: props}
}

// Physics declares a skelfile.PhysicsConstraintData.
func Physics(name string, props ...property) constraint {
	return constraint{kind: skelfile.KindPhysics, name: name, props: props}
}

// element is implemented by declarations that can be within a Skin
// declaration.
type element interface {
	element()
}

type skin struct {
	name        string
	props       []property
	attachments []attachment
}

func (skin) primary() {}

// Skin declares a skelfile.Skin. Elements are Attachment declarations, and
// Property declarations for the color of the skin and for the bones and
// constraints scoped to it ("bones", "ik", "transform", "path", "physics").
func Skin(name string, elements ...element) skin {
	s := skin{name: name}
	for _, e := range elements {
		switch e := e.(type) {
		case property:
			s.props = append(s.props, e)
		case attachment:
			s.attachments = append(s.attachments, e)
		}
	}
	return s
}

type attachment struct {
	slot  string
	name  string
	typ   string
	props []property
}

func (attachment) element() {}

// Attachment declares an entry of a skin. typ is the name of the attachment
// type, such as "region" or "mesh".
func Attachment(slot, name, typ string, props ...property) attachment {
	return attachment{slot: slot, name: name, typ: typ, props: props}
}

type event struct {
	name  string
	props []property
}

func (event) primary() {}

// Event declares a skelfile.EventData.
func Event(name string, props ...property) event {
	return event{name: name, props: props}
}

// resolver applies declared properties, resolving names against sd.
type resolver struct {
	sd *skelfile.SkeletonData
}

func (r resolver) bones(names []string) []int {
	list := make([]int, len(names))
	for i, name := range names {
		list[i] = r.sd.FindBone(name)
	}
	return list
}

func (r resolver) skeleton(p property) {
	sd := r.sd
	switch p.name {
	case "hash":
		sd.Hash = p.string()
	case "spine":
		sd.Version = p.string()
	case "x":
		sd.X = p.float()
	case "y":
		sd.Y = p.float()
	case "width":
		sd.Width = p.float()
	case "height":
		sd.Height = p.float()
	case "referenceScale":
		sd.ReferenceScale = p.float()
	case "fps":
		sd.FPS = p.float()
	case "images":
		sd.ImagesPath, sd.HasImagesPath = p.string(), true
	case "audio":
		sd.AudioPath, sd.HasAudioPath = p.string(), true
	case "nonessential":
		sd.Nonessential = p.bool()
	}
}

func (r resolver) bone(b *skelfile.BoneData, d bone) {
	for _, p := range d.props {
		switch p.name {
		case "parent":
			b.Parent = r.sd.FindBone(p.string())
		case "length":
			b.Length = p.float()
		case "x":
			b.X = p.float()
		case "y":
			b.Y = p.float()
		case "rotation":
			b.Rotation = p.float()
		case "scaleX":
			b.ScaleX = p.float()
		case "scaleY":
			b.ScaleY = p.float()
		case "shearX":
			b.ShearX = p.float()
		case "shearY":
			b.ShearY = p.float()
		case "inherit", "transform":
			b.Inherit, _ = normEnum(p.first(), skelfile.ParseInherit)
		case "skin":
			b.SkinRequired = p.bool()
		case "color":
			b.Color = p.color()
		case "icon":
			b.Icon = p.string()
		case "visible":
			b.Visible = p.bool()
		}
	}
}

func (r resolver) slot(s *skelfile.SlotData, d slot) {
	s.Bone = r.sd.FindBone(d.bone)
	for _, p := range d.props {
		switch p.name {
		case "color":
			s.Color = p.color()
		case "dark":
			s.Dark = p.colorPtr()
		case "attachment":
			s.Attachment = p.string()
		case "blend":
			s.Blend, _ = normEnum(p.first(), skelfile.ParseBlendMode)
		case "visible":
			s.Visible = p.bool()
		}
	}
}

// common applies the properties shared by every kind of constraint.
func (r resolver) common(c *skelfile.ConstraintData, p property) {
	switch p.name {
	case "order":
		c.Order = p.int()
	case "skin":
		c.SkinRequired = p.bool()
	}
}

func (r resolver) ik(k *skelfile.IKConstraintData, d constraint) {
	for _, p := range d.props {
		r.common(&k.ConstraintData, p)
		switch p.name {
		case "bones":
			k.Bones = r.bones(p.strings())
		case "target":
			k.Target = r.sd.FindBone(p.string())
		case "mix":
			k.Mix = p.float()
		case "softness":
			k.Softness = p.float()
		case "bendPositive":
			k.BendDirection = -1
			if p.bool() {
				k.BendDirection = 1
			}
		case "compress":
			k.Compress = p.bool()
		case "stretch":
			k.Stretch = p.bool()
		case "uniform":
			k.Uniform = p.bool()
		}
	}
}

func (r resolver) transform(k *skelfile.TransformConstraintData, d constraint) {
	for _, p := range d.props {
		r.common(&k.ConstraintData, p)
		switch p.name {
		case "bones":
			k.Bones = r.bones(p.strings())
		case "target":
			k.Target = r.sd.FindBone(p.string())
		case "rotation":
			k.OffsetRotation = p.float()
		case "x":
			k.OffsetX = p.float()
		case "y":
			k.OffsetY = p.float()
		case "scaleX":
			k.OffsetScaleX = p.float()
		case "scaleY":
			k.OffsetScaleY = p.float()
		case "shearY":
			k.OffsetShearY = p.float()
		case "mixRotate":
			k.MixRotate = p.float()
		case "mixX":
			k.MixX = p.float()
		case "mixY":
			k.MixY = p.float()
		case "mixScaleX":
			k.MixScaleX = p.float()
		case "mixScaleY":
			k.MixScaleY = p.float()
		case "mixShearY":
			k.MixShearY = p.float()
		case "local":
			k.Local = p.bool()
		case "relative":
			k.Relative = p.bool()
		}
	}
	if !has(d.props, "mixY") {
		k.MixY = k.MixX
	}
	if !has(d.props, "mixScaleY") {
		k.MixScaleY = k.MixScaleX
	}
}

func (r resolver) path(k *skelfile.PathConstraintData, d constraint) {
	for _, p := range d.props {
		r.common(&k.ConstraintData, p)
		switch p.name {
		case "bones":
			k.Bones = r.bones(p.strings())
		case "target":
			k.Target = r.sd.FindSlot(p.string())
		case "positionMode":
			k.PositionMode, _ = normEnum(p.first(), skelfile.ParsePositionMode)
		case "spacingMode":
			k.SpacingMode, _ = normEnum(p.first(), skelfile.ParseSpacingMode)
		case "rotateMode":
			k.RotateMode, _ = normEnum(p.first(), skelfile.ParseRotateMode)
		case "rotation":
			k.OffsetRotation = p.float()
		case "position":
			k.Position = p.float()
		case "spacing":
			k.Spacing = p.float()
		case "mixRotate":
			k.MixRotate = p.float()
		case "mixX":
			k.MixX = p.float()
		case "mixY":
			k.MixY = p.float()
		}
	}
	if !has(d.props, "mixY") {
		k.MixY = k.MixX
	}
}

func (r resolver) physics(k *skelfile.PhysicsConstraintData, d constraint) {
	for _, p := range d.props {
		r.common(&k.ConstraintData, p)
		switch p.name {
		case "bone":
			k.Bone = r.sd.FindBone(p.string())
		case "x":
			k.X = p.float()
		case "y":
			k.Y = p.float()
		case "rotate":
			k.Rotate = p.float()
		case "scaleX":
			k.ScaleX = p.float()
		case "shearX":
			k.ShearX = p.float()
		case "limit":
			k.Limit = p.float()
		case "fps":
			k.FPS = p.int()
		case "inertia":
			k.Inertia = p.float()
		case "strength":
			k.Strength = p.float()
		case "damping":
			k.Damping = p.float()
		case "mass":
			if m := p.float(); m != 0 {
				k.MassInverse = 1 / m
			}
		case "wind":
			k.Wind = p.float()
		case "gravity":
			k.Gravity = p.float()
		case "mix":
			k.Mix = p.float()
		}
	}
}

func (r resolver) skin(s *skelfile.Skin, d skin) {
	refs := func(kind skelfile.ConstraintKind, names []string, find func(string) int) {
		for _, name := range names {
			s.Constraints = append(s.Constraints, skelfile.ConstraintRef{Kind: kind, Index: find(name)})
		}
	}
	for _, p := range d.props {
		switch p.name {
		case "color":
			s.Color = p.color()
		case "bones":
			s.Bones = append(s.Bones, r.bones(p.strings())...)
		case "ik":
			refs(skelfile.KindIK, p.strings(), r.sd.FindIK)
		case "transform":
			refs(skelfile.KindTransform, p.strings(), r.sd.FindTransform)
		case "path":
			refs(skelfile.KindPath, p.strings(), r.sd.FindPath)
		case "physics":
			refs(skelfile.KindPhysics, p.strings(), r.sd.FindPhysics)
		}
	}
	for _, a := range d.attachments {
		s.Attachments = append(s.Attachments, &skelfile.SkinAttachment{
			Slot:       r.sd.FindSlot(a.slot),
			Name:       a.name,
			Attachment: r.attachment(a),
		})
	}
}

func (r resolver) event(e *skelfile.EventData, d event) {
	for _, p := range d.props {
		switch p.name {
		case "int":
			e.Int = int32(p.int())
		case "float":
			e.Float = p.float()
		case "string":
			e.String, e.HasString = p.string(), true
		case "audio":
			e.AudioPath, e.HasAudioPath = p.string(), true
		case "volume":
			e.Volume = p.float()
		case "balance":
			e.Balance = p.float()
		}
	}
}
