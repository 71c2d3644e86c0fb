package skel

import (
	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/errors"
	"github.com/spineapi/skelfile/json"
)

// Decode decodes a binary or JSON skeleton file, detecting the format and
// the generation from its content. isJSON reports the detected format.
func Decode(b []byte) (sd *skelfile.SkeletonData, isJSON bool, err error) {
	if skelfile.IsJSON(b) {
		doc, err := json.DecodeObject(b)
		if err != nil {
			return nil, true, err
		}
		g, version := skelfile.SniffJSON(doc)
		c := NewCodec(g)
		if c == nil {
			return nil, true, errors.VersionError{Expected: "known generation", Got: version}
		}
		sd, err = c.ReadJSON(doc)
		return sd, true, err
	}
	g, version := skelfile.SniffBinary(b)
	c := NewCodec(g)
	if c == nil {
		return nil, false, errors.VersionError{Expected: "known generation", Got: version}
	}
	sd, err = c.ReadBinary(b)
	return sd, false, err
}

// Encode encodes sd in the format of its generation, as JSON formatted by
// enc when asJSON is set, and as binary otherwise.
func Encode(sd *skelfile.SkeletonData, asJSON bool, enc json.Encoder) ([]byte, error) {
	c := NewCodec(sd.Generation)
	if c == nil {
		return nil, errors.VersionError{Expected: "known generation", Got: sd.Generation.String()}
	}
	if !asJSON {
		return c.WriteBinary(sd)
	}
	doc, err := c.WriteJSON(sd)
	if err != nil {
		return nil, err
	}
	return enc.Encode(doc)
}
