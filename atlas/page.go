package atlas

import (
	"errors"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// ErrImageFormat indicates a page image format that cannot be decoded or
// encoded.
var ErrImageFormat = errors.New("unsupported page image format")

// DecodePage decodes a page image in the format indicated by the extension
// of name, which is a page name. PNG, WebP and TGA images are supported.
func DecodePage(r io.Reader, name string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return png.Decode(r)
	case ".webp":
		return webp.Decode(r)
	case ".tga":
		// TGA has no magic number, so it is never sniffed.
		return tga.Decode(r)
	}
	return nil, ErrImageFormat
}

// EncodePage encodes img to w in the format indicated by the extension of
// name, which is a page name.
func EncodePage(w io.Writer, name string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return png.Encode(w, img)
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	}
	return ErrImageFormat
}
