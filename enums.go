package skelfile

// Inherit determines how a bone inherits transforms from its parent.
type Inherit uint8

const (
	InheritNormal Inherit = iota
	InheritOnlyTranslation
	InheritNoRotationOrReflection
	InheritNoScale
	InheritNoScaleOrReflection
)

func (m Inherit) String() string {
	switch m {
	case InheritNormal:
		return "normal"
	case InheritOnlyTranslation:
		return "onlyTranslation"
	case InheritNoRotationOrReflection:
		return "noRotationOrReflection"
	case InheritNoScale:
		return "noScale"
	case InheritNoScaleOrReflection:
		return "noScaleOrReflection"
	}
	return ""
}

// ParseInherit returns the Inherit named by s.
func ParseInherit(s string) (m Inherit, ok bool) {
	switch s {
	case "normal":
		return InheritNormal, true
	case "onlyTranslation":
		return InheritOnlyTranslation, true
	case "noRotationOrReflection":
		return InheritNoRotationOrReflection, true
	case "noScale":
		return InheritNoScale, true
	case "noScaleOrReflection":
		return InheritNoScaleOrReflection, true
	}
	return 0, false
}

type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendAdditive:
		return "additive"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	}
	return ""
}

func ParseBlendMode(s string) (m BlendMode, ok bool) {
	switch s {
	case "normal":
		return BlendNormal, true
	case "additive":
		return BlendAdditive, true
	case "multiply":
		return BlendMultiply, true
	case "screen":
		return BlendScreen, true
	}
	return 0, false
}

type PositionMode uint8

const (
	PositionFixed PositionMode = iota
	PositionPercent
)

func (m PositionMode) String() string {
	switch m {
	case PositionFixed:
		return "fixed"
	case PositionPercent:
		return "percent"
	}
	return ""
}

func ParsePositionMode(s string) (m PositionMode, ok bool) {
	switch s {
	case "fixed":
		return PositionFixed, true
	case "percent":
		return PositionPercent, true
	}
	return 0, false
}

type SpacingMode uint8

const (
	SpacingLength SpacingMode = iota
	SpacingFixed
	SpacingPercent
	// SpacingProportional exists since 4.0.
	SpacingProportional
)

func (m SpacingMode) String() string {
	switch m {
	case SpacingLength:
		return "length"
	case SpacingFixed:
		return "fixed"
	case SpacingPercent:
		return "percent"
	case SpacingProportional:
		return "proportional"
	}
	return ""
}

func ParseSpacingMode(s string) (m SpacingMode, ok bool) {
	switch s {
	case "length":
		return SpacingLength, true
	case "fixed":
		return SpacingFixed, true
	case "percent":
		return SpacingPercent, true
	case "proportional":
		return SpacingProportional, true
	}
	return 0, false
}

type RotateMode uint8

const (
	RotateTangent RotateMode = iota
	RotateChain
	RotateChainScale
)

func (m RotateMode) String() string {
	switch m {
	case RotateTangent:
		return "tangent"
	case RotateChain:
		return "chain"
	case RotateChainScale:
		return "chainScale"
	}
	return ""
}

func ParseRotateMode(s string) (m RotateMode, ok bool) {
	switch s {
	case "tangent":
		return RotateTangent, true
	case "chain":
		return RotateChain, true
	case "chainScale":
		return RotateChainScale, true
	}
	return 0, false
}

// AttachmentType identifies a variant of Attachment. The values match the
// type codes of the binary format.
type AttachmentType uint8

const (
	TypeRegion AttachmentType = iota
	TypeBoundingBox
	TypeMesh
	TypeLinkedMesh
	TypePath
	TypePoint
	TypeClipping
)

func (t AttachmentType) String() string {
	switch t {
	case TypeRegion:
		return "region"
	case TypeBoundingBox:
		return "boundingbox"
	case TypeMesh:
		return "mesh"
	case TypeLinkedMesh:
		return "linkedmesh"
	case TypePath:
		return "path"
	case TypePoint:
		return "point"
	case TypeClipping:
		return "clipping"
	}
	return ""
}

// ParseAttachmentType returns the type named by s. The legacy spelling
// "skinnedmesh" is read as a mesh.
func ParseAttachmentType(s string) (t AttachmentType, ok bool) {
	switch s {
	case "region":
		return TypeRegion, true
	case "boundingbox":
		return TypeBoundingBox, true
	case "mesh", "skinnedmesh":
		return TypeMesh, true
	case "linkedmesh":
		return TypeLinkedMesh, true
	case "path":
		return TypePath, true
	case "point":
		return TypePoint, true
	case "clipping":
		return TypeClipping, true
	}
	return 0, false
}

// SequenceMode determines how a sequence timeline advances through frames.
type SequenceMode uint8

const (
	SequenceHold SequenceMode = iota
	SequenceOnce
	SequenceLoop
	SequencePingpong
	SequenceOnceReverse
	SequenceLoopReverse
	SequencePingpongReverse
)

func (m SequenceMode) String() string {
	switch m {
	case SequenceHold:
		return "hold"
	case SequenceOnce:
		return "once"
	case SequenceLoop:
		return "loop"
	case SequencePingpong:
		return "pingpong"
	case SequenceOnceReverse:
		return "onceReverse"
	case SequenceLoopReverse:
		return "loopReverse"
	case SequencePingpongReverse:
		return "pingpongReverse"
	}
	return ""
}

func ParseSequenceMode(s string) (m SequenceMode, ok bool) {
	switch s {
	case "hold":
		return SequenceHold, true
	case "once":
		return SequenceOnce, true
	case "loop":
		return SequenceLoop, true
	case "pingpong":
		return SequencePingpong, true
	case "onceReverse":
		return SequenceOnceReverse, true
	case "loopReverse":
		return SequenceLoopReverse, true
	case "pingpongReverse":
		return SequencePingpongReverse, true
	}
	return 0, false
}

// ConstraintKind identifies a kind of constraint.
type ConstraintKind uint8

const (
	KindIK ConstraintKind = iota
	KindTransform
	KindPath
	KindPhysics
)

func (k ConstraintKind) String() string {
	switch k {
	case KindIK:
		return "ik"
	case KindTransform:
		return "transform"
	case KindPath:
		return "path"
	case KindPhysics:
		return "physics"
	}
	return ""
}
