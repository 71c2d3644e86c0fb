package skelfile

// Attachment is implemented by every kind of attachment. The set of kinds is
// closed.
type Attachment interface {
	// Type returns the kind of the attachment.
	Type() AttachmentType
	// AttachmentName returns the name stored with the attachment. An empty
	// name means the attachment is named by its skin key.
	AttachmentName() string
	// Copy returns a deep copy of the attachment.
	Copy() Attachment
	attachment()
}

// Vertices holds the vertex data of a vertex attachment.
type Vertices struct {
	// VertexCount is the number of vertices.
	VertexCount int
	// Bones is nil for unweighted vertices. Otherwise, for each vertex, it
	// holds the number of influencing bones followed by their indices.
	Bones []int
	// Vertices holds x,y pairs for unweighted vertices, or x,y,weight
	// triples, one per bone influence, for weighted vertices.
	Vertices []float32
}

// Weighted returns whether the vertices are weighted to bones.
func (v Vertices) Weighted() bool {
	return v.Bones != nil
}

func (v Vertices) copy() Vertices {
	c := Vertices{VertexCount: v.VertexCount}
	if v.Bones != nil {
		c.Bones = append(make([]int, 0, len(v.Bones)), v.Bones...)
	}
	c.Vertices = copyFloats(v.Vertices)
	return c
}

// Sequence describes a numbered sequence of images.
type Sequence struct {
	Count      int
	Start      int
	Digits     int
	SetupIndex int
}

// NewSequence returns a sequence with default values.
func NewSequence(count int) *Sequence {
	return &Sequence{Count: count, Start: 1}
}

func (s *Sequence) copy() *Sequence {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

type RegionAttachment struct {
	Name string
	// Path is the image path. Empty means the name is used.
	Path string

	X, Y           float32
	Rotation       float32
	ScaleX, ScaleY float32
	Width, Height  float32
	Color          Color
	Sequence       *Sequence
}

func NewRegionAttachment() *RegionAttachment {
	return &RegionAttachment{ScaleX: 1, ScaleY: 1, Color: White}
}

func (*RegionAttachment) attachment()              {}
func (*RegionAttachment) Type() AttachmentType     { return TypeRegion }
func (a *RegionAttachment) AttachmentName() string { return a.Name }
func (a *RegionAttachment) Copy() Attachment {
	c := *a
	c.Sequence = a.Sequence.copy()
	return &c
}

type BoundingBoxAttachment struct {
	Name string
	Vertices
	Color Color
}

func (*BoundingBoxAttachment) attachment()              {}
func (*BoundingBoxAttachment) Type() AttachmentType     { return TypeBoundingBox }
func (a *BoundingBoxAttachment) AttachmentName() string { return a.Name }
func (a *BoundingBoxAttachment) Copy() Attachment {
	c := *a
	c.Vertices = a.Vertices.copy()
	return &c
}

type MeshAttachment struct {
	Name string
	Path string
	Vertices
	UVs       []float32
	Triangles []int
	// Hull is the number of vertices on the hull.
	Hull  int
	Color Color

	// Edges, Width and Height are nonessential.
	Edges         []int
	Width, Height float32

	Sequence *Sequence
}

func (*MeshAttachment) attachment()              {}
func (*MeshAttachment) Type() AttachmentType     { return TypeMesh }
func (a *MeshAttachment) AttachmentName() string { return a.Name }
func (a *MeshAttachment) Copy() Attachment {
	c := *a
	c.Vertices = a.Vertices.copy()
	c.UVs = copyFloats(a.UVs)
	c.Triangles = copyInts(a.Triangles)
	c.Edges = copyInts(a.Edges)
	c.Sequence = a.Sequence.copy()
	return &c
}

// LinkedMeshAttachment shares the vertices of a parent mesh.
type LinkedMeshAttachment struct {
	Name  string
	Path  string
	Color Color
	// Skin names the skin holding the parent mesh. Empty means the default
	// skin.
	Skin   string
	Parent string
	// Timelines is non-zero when deform timelines of the parent apply to the
	// linked mesh.
	Timelines int

	Width, Height float32
	Sequence      *Sequence
}

func (*LinkedMeshAttachment) attachment()              {}
func (*LinkedMeshAttachment) Type() AttachmentType     { return TypeLinkedMesh }
func (a *LinkedMeshAttachment) AttachmentName() string { return a.Name }
func (a *LinkedMeshAttachment) Copy() Attachment {
	c := *a
	c.Sequence = a.Sequence.copy()
	return &c
}

type PathAttachment struct {
	Name string
	Vertices
	// Lengths holds the length of each curve of the path.
	Lengths       []float32
	Closed        bool
	ConstantSpeed bool
	Color         Color
}

func (*PathAttachment) attachment()              {}
func (*PathAttachment) Type() AttachmentType     { return TypePath }
func (a *PathAttachment) AttachmentName() string { return a.Name }
func (a *PathAttachment) Copy() Attachment {
	c := *a
	c.Vertices = a.Vertices.copy()
	c.Lengths = copyFloats(a.Lengths)
	return &c
}

type PointAttachment struct {
	Name     string
	X, Y     float32
	Rotation float32
	Color    Color
}

func (*PointAttachment) attachment()              {}
func (*PointAttachment) Type() AttachmentType     { return TypePoint }
func (a *PointAttachment) AttachmentName() string { return a.Name }
func (a *PointAttachment) Copy() Attachment {
	c := *a
	return &c
}

type ClippingAttachment struct {
	Name string
	// End is the index of the slot where clipping stops, or -1.
	End int
	Vertices
	Color Color
}

func (*ClippingAttachment) attachment()              {}
func (*ClippingAttachment) Type() AttachmentType     { return TypeClipping }
func (a *ClippingAttachment) AttachmentName() string { return a.Name }
func (a *ClippingAttachment) Copy() Attachment {
	c := *a
	c.Vertices = a.Vertices.copy()
	return &c
}

func copyFloats(a []float32) []float32 {
	if a == nil {
		return nil
	}
	return append(make([]float32, 0, len(a)), a...)
}

func copyInts(a []int) []int {
	if a == nil {
		return nil
	}
	return append(make([]int, 0, len(a)), a...)
}
