package declare

import (
	"github.com/spineapi/skelfile"
)

// vertices builds the vertex data of a vertex attachment from the "vertices",
// "bones" and "vertexCount" properties. "bones" makes the vertices weighted,
// holding for each vertex its number of bones followed by their indices.
func vertices(props []property) skelfile.Vertices {
	var v skelfile.Vertices
	count := -1
	for _, p := range props {
		switch p.name {
		case "vertices":
			v.Vertices = p.floats()
		case "bones":
			v.Bones = p.ints()
		case "vertexCount":
			count = p.int()
		}
	}
	switch {
	case count >= 0:
		v.VertexCount = count
	case v.Bones != nil:
		for i := 0; i < len(v.Bones); i += max(v.Bones[i], 0) + 1 {
			v.VertexCount++
		}
	default:
		v.VertexCount = len(v.Vertices) / 2
	}
	return v
}

func sequence(p property) *skelfile.Sequence {
	if p.int() <= 0 {
		return nil
	}
	s := skelfile.NewSequence(p.int())
	if len(p.value) > 1 {
		s.Start = normInt(p.value[1])
	}
	if len(p.value) > 2 {
		s.Digits = normInt(p.value[2])
	}
	if len(p.value) > 3 {
		s.SetupIndex = normInt(p.value[3])
	}
	return s
}

// attachment creates the attachment of a declaration. An unknown type
// produces a region.
func (r resolver) attachment(d attachment) skelfile.Attachment {
	typ, _ := skelfile.ParseAttachmentType(d.typ)
	switch typ {
	case skelfile.TypeBoundingBox:
		a := &skelfile.BoundingBoxAttachment{Color: skelfile.BoundingBoxColor}
		a.Vertices = vertices(d.props)
		for _, p := range d.props {
			switch p.name {
			case "name":
				a.Name = p.string()
			case "color":
				a.Color = p.color()
			}
		}
		return a

	case skelfile.TypeMesh:
		a := &skelfile.MeshAttachment{Color: skelfile.White}
		a.Vertices = vertices(d.props)
		for _, p := range d.props {
			switch p.name {
			case "name":
				a.Name = p.string()
			case "path":
				a.Path = p.string()
			case "uvs":
				a.UVs = p.floats()
			case "triangles":
				a.Triangles = p.ints()
			case "hull":
				a.Hull = p.int()
			case "color":
				a.Color = p.color()
			case "edges":
				a.Edges = p.ints()
			case "width":
				a.Width = p.float()
			case "height":
				a.Height = p.float()
			case "sequence":
				a.Sequence = sequence(p)
			}
		}
		if !has(d.props, "vertexCount") && a.UVs != nil {
			a.VertexCount = len(a.UVs) / 2
		}
		return a

	case skelfile.TypeLinkedMesh:
		a := &skelfile.LinkedMeshAttachment{Color: skelfile.White, Timelines: 1}
		for _, p := range d.props {
			switch p.name {
			case "name":
				a.Name = p.string()
			case "path":
				a.Path = p.string()
			case "color":
				a.Color = p.color()
			case "skin":
				a.Skin = p.string()
			case "parent":
				a.Parent = p.string()
			case "timelines", "deform":
				a.Timelines = 0
				if p.bool() {
					a.Timelines = 1
				}
			case "width":
				a.Width = p.float()
			case "height":
				a.Height = p.float()
			case "sequence":
				a.Sequence = sequence(p)
			}
		}
		return a

	case skelfile.TypePath:
		a := &skelfile.PathAttachment{ConstantSpeed: true, Color: skelfile.PathColor}
		a.Vertices = vertices(d.props)
		for _, p := range d.props {
			switch p.name {
			case "name":
				a.Name = p.string()
			case "lengths":
				a.Lengths = p.floats()
			case "closed":
				a.Closed = p.bool()
			case "constantSpeed":
				a.ConstantSpeed = p.bool()
			case "color":
				a.Color = p.color()
			}
		}
		return a

	case skelfile.TypePoint:
		a := &skelfile.PointAttachment{Color: skelfile.PointColor}
		for _, p := range d.props {
			switch p.name {
			case "name":
				a.Name = p.string()
			case "x":
				a.X = p.float()
			case "y":
				a.Y = p.float()
			case "rotation":
				a.Rotation = p.float()
			case "color":
				a.Color = p.color()
			}
		}
		return a

	case skelfile.TypeClipping:
		a := &skelfile.ClippingAttachment{End: -1, Color: skelfile.ClippingColor}
		a.Vertices = vertices(d.props)
		for _, p := range d.props {
			switch p.name {
			case "name":
				a.Name = p.string()
			case "end":
				a.End = r.sd.FindSlot(p.string())
			case "color":
				a.Color = p.color()
			}
		}
		return a
	}

	a := skelfile.NewRegionAttachment()
	for _, p := range d.props {
		switch p.name {
		case "name":
			a.Name = p.string()
		case "path":
			a.Path = p.string()
		case "x":
			a.X = p.float()
		case "y":
			a.Y = p.float()
		case "rotation":
			a.Rotation = p.float()
		case "scaleX":
			a.ScaleX = p.float()
		case "scaleY":
			a.ScaleY = p.float()
		case "width":
			a.Width = p.float()
		case "height":
			a.Height = p.float()
		case "color":
			a.Color = p.color()
		case "sequence":
			a.Sequence = sequence(p)
		}
	}
	return a
}
