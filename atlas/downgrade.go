package atlas

import (
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

func scaled(v int, scale float32) int {
	return int(math.Round(float64(v) / float64(scale)))
}

// Downgrade returns a copy of a that can be written in the 3.x layout, which
// has no page scale. The regions of a scaled page are scaled to the page's
// original size, and the names of those pages are returned in rescale; their
// images must be resized with RescalePage. Premultiplied alpha is dropped.
func Downgrade(a *Atlas) (out *Atlas, rescale []string) {
	out = &Atlas{Pages: make([]*Page, len(a.Pages))}
	for i, p := range a.Pages {
		c := *p
		c.PMA = false
		c.Regions = make([]*Region, len(p.Regions))
		s := p.Scale
		if s == 0 {
			s = 1
		}
		if s != 1 {
			rescale = append(rescale, p.Name)
			c.Width, c.Height = scaled(p.Width, s), scaled(p.Height, s)
		}
		c.Scale = 1
		for j, r := range p.Regions {
			rc := *r
			rc.Split = slices.Clone(r.Split)
			rc.Pad = slices.Clone(r.Pad)
			// Legacy readers do not know custom fields.
			rc.Fields = nil
			if s != 1 {
				rc.X, rc.Y = scaled(r.X, s), scaled(r.Y, s)
				rc.Width, rc.Height = scaled(r.Width, s), scaled(r.Height, s)
				rc.OffsetX, rc.OffsetY = scaled(r.OffsetX, s), scaled(r.OffsetY, s)
				rc.OriginalWidth, rc.OriginalHeight = scaled(r.OriginalWidth, s), scaled(r.OriginalHeight, s)
				for k, v := range rc.Split {
					rc.Split[k] = scaled(v, s)
				}
				for k, v := range rc.Pad {
					rc.Pad[k] = scaled(v, s)
				}
			}
			c.Regions[j] = &rc
		}
		out.Pages[i] = &c
	}
	return out, rescale
}

// RescalePage resizes the image of a page packed at scale to the page's
// original size.
func RescalePage(img image.Image, scale float32) *image.RGBA {
	b := img.Bounds()
	if scale <= 0 {
		scale = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, scaled(b.Dx(), scale), scaled(b.Dy(), scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
