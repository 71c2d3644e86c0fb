// The skel package implements the binary and JSON skeleton formats of each
// generation. Importing the package registers a format for every generation
// with the skelfile package.
package skel

import (
	"fmt"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/json"
)

// ErrUnsupported indicates data that cannot be represented by the
// generation being written. Such data must be converted first.
var ErrUnsupported = errors.New("not supported by generation")

// UnsupportedError indicates an item that cannot be written by a
// generation.
type UnsupportedError struct {
	Generation skelfile.Generation
	Item       string
}

func (err UnsupportedError) Error() string {
	return fmt.Sprintf("%s not supported by %s", err.Item, err.Generation)
}

func (err UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Codec reads and writes the formats of one generation.
type Codec struct {
	p profile
}

// NewCodec returns a Codec for the given generation. Returns nil if the
// generation is not known.
func NewCodec(g skelfile.Generation) *Codec {
	if g < skelfile.Spine36 || g > skelfile.Spine42 {
		return nil
	}
	return &Codec{p: newProfile(g)}
}

func init() {
	for _, g := range skelfile.Generations {
		skelfile.RegisterFormat(NewCodec(g))
	}
}

// Generation implements skelfile.Format.
func (c *Codec) Generation() skelfile.Generation {
	return c.p.gen
}

// checkVersion verifies that a version read from a file belongs to the
// generation of the codec. An empty version is accepted.
func (c *Codec) checkVersion(version string) error {
	if version == "" || skelfile.ParseGeneration(version) == c.p.gen {
		return nil
	}
	return errors.VersionError{Expected: c.p.gen.String(), Got: version}
}

// checkModel verifies that a model can be written by the codec.
func (c *Codec) checkModel(sd *skelfile.SkeletonData) error {
	if sd.Generation != c.p.gen {
		return errors.VersionError{Expected: c.p.gen.String(), Got: sd.Generation.String()}
	}
	if !c.p.physics && len(sd.PhysicsConstraints) > 0 {
		return UnsupportedError{Generation: c.p.gen, Item: "physics constraint"}
	}
	for _, anim := range sd.Animations {
		for _, t := range anim.Timelines {
			if !c.p.supports(t.Channel) {
				return UnsupportedError{Generation: c.p.gen, Item: t.Channel.String() + " timeline"}
			}
			if err := c.checkCurves(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkCurves verifies that the curves of t have the shape of the
// generation's curve basis.
func (c *Codec) checkCurves(t *skelfile.Timeline) error {
	want := 1
	if c.p.gen.CurveBasis() == skelfile.Absolute {
		want = t.Channel.CurveChannels()
	}
	for i := range t.Frames {
		curve := &t.Frames[i].Curve
		if curve.Type == skelfile.CurveBezier && len(curve.Bezier) != want {
			return fmt.Errorf("%s timeline frame %d: expected %d bezier curves, got %d", t.Channel, i, want, len(curve.Bezier))
		}
	}
	return nil
}

// ReadBinary implements skelfile.Format.
func (c *Codec) ReadBinary(b []byte) (*skelfile.SkeletonData, error) {
	r := newBinaryReader(c, b)
	r.skeleton()
	if err := r.Close(); err != nil {
		return nil, err
	}
	return r.sd, nil
}

// WriteBinary implements skelfile.Format.
func (c *Codec) WriteBinary(sd *skelfile.SkeletonData) ([]byte, error) {
	if err := c.checkModel(sd); err != nil {
		return nil, err
	}
	w := newBinaryWriter(c, sd)
	w.skeleton()
	return w.Bytes()
}

// ReadJSON implements skelfile.Format.
func (c *Codec) ReadJSON(doc *json.Object) (*skelfile.SkeletonData, error) {
	r := newJSONReader(c, doc)
	r.skeleton()
	if err := r.Err(); err != nil {
		return nil, err
	}
	return r.sd, nil
}

// WriteJSON implements skelfile.Format.
func (c *Codec) WriteJSON(sd *skelfile.SkeletonData) (*json.Object, error) {
	if err := c.checkModel(sd); err != nil {
		return nil, err
	}
	w := newJSONWriter(c, sd)
	doc := w.skeleton()
	if w.err != nil {
		return nil, w.err
	}
	return doc, nil
}
