package skelfile

import (
	"sync"

	"github.com/spineapi/skelfile/json"
)

// Format reads and writes the binary and JSON formats of one generation.
type Format interface {
	// Generation returns the generation handled by the format.
	Generation() Generation
	// ReadBinary decodes skeleton data from the complete binary file b.
	ReadBinary(b []byte) (*SkeletonData, error)
	// WriteBinary encodes sd to the binary format.
	WriteBinary(sd *SkeletonData) ([]byte, error)
	// ReadJSON decodes skeleton data from a JSON document.
	ReadJSON(doc *json.Object) (*SkeletonData, error)
	// WriteJSON encodes sd to a JSON document.
	WriteJSON(sd *SkeletonData) (*json.Object, error)
}

var formats struct {
	sync.RWMutex
	m map[Generation]Format
}

// RegisterFormat registers a format, replacing any format previously
// registered for the same generation. It is usually called from the init
// function of the package implementing the format.
func RegisterFormat(f Format) {
	formats.Lock()
	defer formats.Unlock()
	if formats.m == nil {
		formats.m = map[Generation]Format{}
	}
	formats.m[f.Generation()] = f
}

// FormatFor returns the format registered for g, or nil.
func FormatFor(g Generation) Format {
	formats.RLock()
	defer formats.RUnlock()
	return formats.m[g]
}
