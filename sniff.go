package skelfile

import (
	"github.com/spineapi/skelfile/json"
	"github.com/spineapi/skelfile/wire"
)

// SniffBinary returns the generation of a binary file by reading its version
// string, and the version string itself.
func SniffBinary(b []byte) (g Generation, version string) {
	// Before 4.0, the hash is a string.
	r := wire.NewReader(b)
	r.Str()
	version = r.Str()
	if !r.Failed() {
		if g = ParseGeneration(version); g != GenerationUnknown && g < Spine40 {
			return g, version
		}
	}
	r = wire.NewReader(b)
	r.Int64()
	version = r.Str()
	if !r.Failed() {
		if g = ParseGeneration(version); g >= Spine40 {
			return g, version
		}
	}
	return GenerationUnknown, ""
}

// SniffJSON returns the generation of a JSON document from the "spine" member
// of its "skeleton" object.
func SniffJSON(doc *json.Object) (g Generation, version string) {
	skeleton := json.Get(doc).Object("skeleton")
	if skeleton == nil {
		return GenerationUnknown, ""
	}
	version = skeleton.Str("spine", "")
	return ParseGeneration(version), version
}

// IsJSON returns whether b appears to be a JSON document rather than a binary
// file.
func IsJSON(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		}
		return false
	}
	return false
}
