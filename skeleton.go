// The skelfile package handles the decoding, encoding, and migration of
// skeletal animation data.
//
// Skeleton data begins with a SkeletonData struct, which owns every bone,
// slot, constraint, skin, event and animation of a skeleton. Items refer to
// each other by index into the collections of the same SkeletonData; an index
// of -1 refers to nothing.
//
// SkeletonData structures can be decoded from and encoded to the binary and
// JSON formats of several schema generations. The "skel" sub-package provides
// those formats, and the "convert" package migrates a SkeletonData from one
// generation to another.
//
// Besides decoding from a format, skeletons can also be created manually,
// most easily with the "declare" sub-package.
package skelfile

// SkeletonData is the root of a skeleton.
type SkeletonData struct {
	// Generation is the schema generation the data conforms to.
	Generation Generation

	// Hash identifies the export. Empty when absent.
	Hash string
	// Version is the editor version the data was exported from.
	Version string

	X, Y          float32
	Width, Height float32

	// ReferenceScale is the scale used by physics constraints.
	ReferenceScale float32

	// Nonessential indicates whether editor-only data is present. It decides
	// whether binary writers emit such data.
	Nonessential bool

	FPS        float32
	ImagesPath string
	AudioPath  string
	// HasImagesPath and HasAudioPath are set when a path is present, even
	// if empty.
	HasImagesPath bool
	HasAudioPath  bool

	// Strings is the string table of the binary file the data was read from.
	// Binary writers reuse it while it holds exactly the referenced strings.
	Strings []string

	Bones                []*BoneData
	Slots                []*SlotData
	IKConstraints        []*IKConstraintData
	TransformConstraints []*TransformConstraintData
	PathConstraints      []*PathConstraintData
	PhysicsConstraints   []*PhysicsConstraintData
	Skins                []*Skin
	Events               []*EventData
	Animations           []*Animation
}

// NewSkeletonData returns an empty skeleton for the given generation, with
// defaults applied.
func NewSkeletonData(g Generation) *SkeletonData {
	return &SkeletonData{
		Generation:     g,
		Version:        g.DefaultVersion(),
		ReferenceScale: 100,
		FPS:            30,
	}
}

// DefaultSkin returns the index of the skin named "default", or -1.
func (sd *SkeletonData) DefaultSkin() int {
	return sd.FindSkin("default")
}

// FindBone returns the index of the first bone with the given name, or -1.
func (sd *SkeletonData) FindBone(name string) int {
	for i, b := range sd.Bones {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// FindSlot returns the index of the first slot with the given name, or -1.
func (sd *SkeletonData) FindSlot(name string) int {
	for i, s := range sd.Slots {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (sd *SkeletonData) FindIK(name string) int {
	for i, c := range sd.IKConstraints {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (sd *SkeletonData) FindTransform(name string) int {
	for i, c := range sd.TransformConstraints {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (sd *SkeletonData) FindPath(name string) int {
	for i, c := range sd.PathConstraints {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (sd *SkeletonData) FindPhysics(name string) int {
	for i, c := range sd.PhysicsConstraints {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (sd *SkeletonData) FindSkin(name string) int {
	for i, s := range sd.Skins {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (sd *SkeletonData) FindEvent(name string) int {
	for i, e := range sd.Events {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func (sd *SkeletonData) FindAnimation(name string) int {
	for i, a := range sd.Animations {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// BoneData is the setup pose of a bone.
type BoneData struct {
	Name string
	// Parent is the index of the parent bone, or -1 for the root.
	Parent int

	Length         float32
	X, Y           float32
	Rotation       float32
	ScaleX, ScaleY float32
	ShearX, ShearY float32
	Inherit        Inherit
	SkinRequired   bool
	Color          Color
	Icon           string
	Visible        bool
}

// NewBoneData returns a bone with default values.
func NewBoneData(name string, parent int) *BoneData {
	return &BoneData{
		Name:    name,
		Parent:  parent,
		ScaleX:  1,
		ScaleY:  1,
		Color:   DefaultBoneColor,
		Visible: true,
	}
}

// SlotData is the setup pose of a slot.
type SlotData struct {
	Name string
	// Bone is the index of the bone the slot is attached to.
	Bone  int
	Color Color
	// Dark is the dark color for two color tinting. Nil when the slot is not
	// tinted with two colors.
	Dark *Color
	// Attachment is the name of the setup attachment. Empty for none.
	Attachment string
	Blend      BlendMode
	Visible    bool
}

// NewSlotData returns a slot with default values.
func NewSlotData(name string, bone int) *SlotData {
	return &SlotData{
		Name:    name,
		Bone:    bone,
		Color:   White,
		Visible: true,
	}
}

// ConstraintData contains the fields common to every kind of constraint.
type ConstraintData struct {
	Name string
	// Order is the position of the constraint in the update order, shared
	// between constraints of every kind.
	Order        int
	SkinRequired bool
}

type IKConstraintData struct {
	ConstraintData
	Bones  []int
	Target int

	Mix      float32
	Softness float32
	// BendDirection is 1 or -1.
	BendDirection int
	Compress      bool
	Stretch       bool
	Uniform       bool
}

func NewIKConstraintData(name string) *IKConstraintData {
	return &IKConstraintData{
		ConstraintData: ConstraintData{Name: name},
		Target:         -1,
		Mix:            1,
		BendDirection:  1,
	}
}

type TransformConstraintData struct {
	ConstraintData
	Bones  []int
	Target int

	OffsetRotation float32
	OffsetX        float32
	OffsetY        float32
	OffsetScaleX   float32
	OffsetScaleY   float32
	OffsetShearY   float32

	MixRotate float32
	MixX      float32
	MixY      float32
	MixScaleX float32
	MixScaleY float32
	MixShearY float32

	Local    bool
	Relative bool
}

func NewTransformConstraintData(name string) *TransformConstraintData {
	return &TransformConstraintData{
		ConstraintData: ConstraintData{Name: name},
		Target:         -1,
		MixRotate:      1,
		MixX:           1,
		MixY:           1,
		MixScaleX:      1,
		MixScaleY:      1,
		MixShearY:      1,
	}
}

type PathConstraintData struct {
	ConstraintData
	Bones []int
	// Target is the index of the slot holding the path attachment.
	Target int

	PositionMode   PositionMode
	SpacingMode    SpacingMode
	RotateMode     RotateMode
	OffsetRotation float32
	Position       float32
	Spacing        float32

	MixRotate float32
	MixX      float32
	MixY      float32
}

func NewPathConstraintData(name string) *PathConstraintData {
	return &PathConstraintData{
		ConstraintData: ConstraintData{Name: name},
		Target:         -1,
		MixRotate:      1,
		MixX:           1,
		MixY:           1,
	}
}

type PhysicsConstraintData struct {
	ConstraintData
	Bone int

	X, Y   float32
	Rotate float32
	ScaleX float32
	ShearX float32
	Limit  float32
	// FPS is the number of simulation steps per second.
	FPS         int
	Inertia     float32
	Strength    float32
	Damping     float32
	MassInverse float32
	Wind        float32
	Gravity     float32
	Mix         float32

	InertiaGlobal  bool
	StrengthGlobal bool
	DampingGlobal  bool
	MassGlobal     bool
	WindGlobal     bool
	GravityGlobal  bool
	MixGlobal      bool
}

func NewPhysicsConstraintData(name string) *PhysicsConstraintData {
	return &PhysicsConstraintData{
		ConstraintData: ConstraintData{Name: name},
		Bone:           -1,
		Limit:          5000,
		FPS:            60,
		Inertia:        1,
		Strength:       100,
		Damping:        1,
		MassInverse:    1,
		Mix:            1,
	}
}

// ConstraintRef refers to a constraint of any kind.
type ConstraintRef struct {
	Kind  ConstraintKind
	Index int
}

// Skin is a named set of attachments, keyed by slot and name.
type Skin struct {
	Name  string
	Color Color
	// Bones and Constraints are the items that are active only while the
	// skin is active.
	Bones       []int
	Constraints []ConstraintRef
	Attachments []*SkinAttachment
}

// SkinAttachment is an entry of a skin.
type SkinAttachment struct {
	Slot       int
	Name       string
	Attachment Attachment
}

// Attachment returns the attachment for the given slot and name, or nil.
func (s *Skin) Attachment(slot int, name string) Attachment {
	for _, a := range s.Attachments {
		if a.Slot == slot && a.Name == name {
			return a.Attachment
		}
	}
	return nil
}

// SlotOrder returns the slots that have attachments in the skin, in order of
// first appearance.
func (s *Skin) SlotOrder() []int {
	var slots []int
	seen := map[int]bool{}
	for _, a := range s.Attachments {
		if !seen[a.Slot] {
			seen[a.Slot] = true
			slots = append(slots, a.Slot)
		}
	}
	return slots
}

// ForSlot returns the entries of the skin for the given slot.
func (s *Skin) ForSlot(slot int) []*SkinAttachment {
	var entries []*SkinAttachment
	for _, a := range s.Attachments {
		if a.Slot == slot {
			entries = append(entries, a)
		}
	}
	return entries
}

// EventData is the setup of an event.
type EventData struct {
	Name      string
	Int       int32
	Float     float32
	String    string
	AudioPath string
	Volume    float32
	Balance   float32

	// HasString and HasAudioPath are set when a value is present, even if
	// empty.
	HasString    bool
	HasAudioPath bool
}

func NewEventData(name string) *EventData {
	return &EventData{Name: name, Volume: 1}
}

// PlaysAudio reports whether the event has an audio path. Volume and balance
// are stored only for such events.
func (e *EventData) PlaysAudio() bool {
	return e.HasAudioPath || e.AudioPath != ""
}
