package atlas

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anaminus/parse"
)

func join(values []int, sep string) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, sep)
}

// Write encodes a to w. When legacy is set, the 3.x layout is written, which
// has no premultiplied alpha, page scale or custom region fields.
func Write(w io.Writer, a *Atlas, legacy bool) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)
	line := func(format string, args ...interface{}) bool {
		return fw.Bytes([]byte(fmt.Sprintf(format, args...) + "\n"))
	}
	for i, p := range a.Pages {
		if legacy || i > 0 {
			line("")
		}
		if legacy {
			writeLegacyPage(line, p)
		} else {
			writePage(line, p)
		}
		if fw.Err() != nil {
			break
		}
	}
	return fw.End()
}

func writePage(line func(string, ...interface{}) bool, p *Page) {
	line("%s", p.Name)
	line("size:%d,%d", p.Width, p.Height)
	if p.Format != "" && p.Format != "RGBA8888" {
		line("format:%s", p.Format)
	}
	if p.MinFilter != "Nearest" || p.MagFilter != "Nearest" {
		line("filter:%s,%s", p.MinFilter, p.MagFilter)
	}
	if p.Repeat != "" && p.Repeat != "none" {
		line("repeat:%s", p.Repeat)
	}
	if p.PMA {
		line("pma:true")
	}
	if p.Scale != 1 && p.Scale != 0 {
		line("scale:%s", strconv.FormatFloat(float64(p.Scale), 'g', -1, 32))
	}
	for _, r := range p.Regions {
		line("%s", r.Name)
		line("bounds:%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
		if r.OffsetX != 0 || r.OffsetY != 0 || r.OriginalWidth != r.Width || r.OriginalHeight != r.Height {
			line("offsets:%d,%d,%d,%d", r.OffsetX, r.OffsetY, r.OriginalWidth, r.OriginalHeight)
		}
		if r.Degrees != 0 {
			line("rotate:%d", r.Degrees)
		}
		if r.Split != nil {
			line("split:%s", join(r.Split, ","))
		}
		if r.Pad != nil {
			line("pad:%s", join(r.Pad, ","))
		}
		if r.Index != -1 {
			line("index:%d", r.Index)
		}
		for _, f := range r.Fields {
			line("%s:%s", f.Name, join(f.Values, ","))
		}
	}
}

func writeLegacyPage(line func(string, ...interface{}) bool, p *Page) {
	format := p.Format
	if format == "" {
		format = "RGBA8888"
	}
	repeat := p.Repeat
	if repeat == "" {
		repeat = "none"
	}
	line("%s", p.Name)
	line("size: %d,%d", p.Width, p.Height)
	line("format: %s", format)
	line("filter: %s,%s", p.MinFilter, p.MagFilter)
	line("repeat: %s", repeat)
	for _, r := range p.Regions {
		rotate := strconv.Itoa(r.Degrees)
		switch r.Degrees {
		case 0:
			rotate = "false"
		case 90:
			rotate = "true"
		}
		line("%s", r.Name)
		line("  rotate: %s", rotate)
		line("  xy: %d, %d", r.X, r.Y)
		line("  size: %d, %d", r.Width, r.Height)
		if r.Split != nil {
			line("  split: %s", join(r.Split, ", "))
		}
		if r.Pad != nil {
			line("  pad: %s", join(r.Pad, ", "))
		}
		line("  orig: %d, %d", r.OriginalWidth, r.OriginalHeight)
		line("  offset: %d, %d", r.OffsetX, r.OffsetY)
		line("  index: %d", r.Index)
	}
}
