// The atlas package reads and writes texture atlas files, the text files that
// locate the regions of a skeleton's images within packed page images.
//
// Both the 3.x layout, with indented region fields, and the compact 4.x
// layout are read. Writing produces either layout.
package atlas

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Atlas is a list of pages.
type Atlas struct {
	Pages []*Page
}

// Page is a page image and the regions packed into it.
type Page struct {
	// Name is the file name of the page image.
	Name          string
	Width, Height int
	Format        string
	MinFilter     string
	MagFilter     string
	// Repeat is "none", "x", "y" or "xy".
	Repeat string
	// PMA indicates premultiplied alpha.
	PMA bool
	// Scale is the scale the page was packed at.
	Scale   float32
	Regions []*Region
}

// NewPage returns a page with default values.
func NewPage(name string) *Page {
	return &Page{
		Name:      name,
		Format:    "RGBA8888",
		MinFilter: "Nearest",
		MagFilter: "Nearest",
		Repeat:    "none",
		Scale:     1,
	}
}

// Region is a named rectangle of a page.
type Region struct {
	Name string

	X, Y, Width, Height int
	// Offsets locate the packed rectangle within the original image, whose
	// whitespace was stripped.
	OffsetX, OffsetY              int
	OriginalWidth, OriginalHeight int

	// Degrees is the rotation of the region in the page.
	Degrees int
	// Index numbers regions sharing a name, or is -1.
	Index int
	// Split and Pad hold the nine-patch data, if any.
	Split []int
	Pad   []int

	// Fields holds the fields that are not known, in order.
	Fields []Field
}

// NewRegion returns a region with default values.
func NewRegion(name string) *Region {
	return &Region{Name: name, Index: -1}
}

// Field is a named list of integers.
type Field struct {
	Name   string
	Values []int
}

// SyntaxError indicates a malformed line.
type SyntaxError struct {
	Line  int
	Cause error
}

func (err SyntaxError) Error() string {
	return fmt.Sprintf("atlas line %d: %s", err.Line, err.Cause)
}

func (err SyntaxError) Unwrap() error {
	return err.Cause
}

func ints(values []string) ([]int, error) {
	list := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		list[i] = n
	}
	return list, nil
}

// need returns the first n values of list, failing when fewer are present.
func need(key string, list []int, n int) ([]int, error) {
	if len(list) < n {
		return nil, fmt.Errorf("%s: expected %d values, got %d", key, n, len(list))
	}
	return list, nil
}

// Read decodes an atlas from r.
func Read(r io.Reader) (*Atlas, error) {
	a := &Atlas{}
	var page *Page
	var region *Region
	// Pages start the file, and follow blank lines.
	pageNext := true

	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" {
			pageNext = true
			continue
		}
		key, value, isField := strings.Cut(text, ":")
		if !isField {
			if pageNext {
				page = NewPage(text)
				a.Pages = append(a.Pages, page)
				region = nil
				pageNext = false
				continue
			}
			if page == nil {
				return nil, SyntaxError{Line: line, Cause: fmt.Errorf("region %q outside of a page", text)}
			}
			region = NewRegion(text)
			page.Regions = append(page.Regions, region)
			continue
		}
		if page == nil {
			return nil, SyntaxError{Line: line, Cause: fmt.Errorf("field %q outside of a page", key)}
		}
		key = strings.TrimSpace(key)
		values := strings.Split(value, ",")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		var err error
		if region == nil {
			err = page.field(key, values)
		} else {
			err = region.field(key, values)
		}
		if err != nil {
			return nil, SyntaxError{Line: line, Cause: err}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	for _, p := range a.Pages {
		for _, r := range p.Regions {
			if r.OriginalWidth == 0 && r.OriginalHeight == 0 {
				r.OriginalWidth, r.OriginalHeight = r.Width, r.Height
			}
		}
	}
	return a, nil
}

func (p *Page) field(key string, values []string) error {
	switch key {
	case "size":
		n, err := ints(values)
		if err != nil {
			return err
		}
		if n, err = need(key, n, 2); err != nil {
			return err
		}
		p.Width, p.Height = n[0], n[1]
	case "format":
		p.Format = values[0]
	case "filter":
		p.MinFilter = values[0]
		p.MagFilter = values[0]
		if len(values) > 1 {
			p.MagFilter = values[1]
		}
	case "repeat":
		p.Repeat = values[0]
	case "pma":
		p.PMA = values[0] == "true"
	case "scale":
		f, err := strconv.ParseFloat(values[0], 32)
		if err != nil {
			return err
		}
		p.Scale = float32(f)
	}
	return nil
}

func (r *Region) field(key string, values []string) error {
	if key == "rotate" {
		switch values[0] {
		case "true":
			r.Degrees = 90
		case "false":
			r.Degrees = 0
		default:
			d, err := strconv.Atoi(values[0])
			if err != nil {
				return err
			}
			r.Degrees = d
		}
		return nil
	}

	n, err := ints(values)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	switch key {
	case "xy":
		if n, err = need(key, n, 2); err == nil {
			r.X, r.Y = n[0], n[1]
		}
	case "size":
		if n, err = need(key, n, 2); err == nil {
			r.Width, r.Height = n[0], n[1]
		}
	case "bounds":
		if n, err = need(key, n, 4); err == nil {
			r.X, r.Y, r.Width, r.Height = n[0], n[1], n[2], n[3]
		}
	case "offset":
		if n, err = need(key, n, 2); err == nil {
			r.OffsetX, r.OffsetY = n[0], n[1]
		}
	case "orig":
		if n, err = need(key, n, 2); err == nil {
			r.OriginalWidth, r.OriginalHeight = n[0], n[1]
		}
	case "offsets":
		if n, err = need(key, n, 4); err == nil {
			r.OffsetX, r.OffsetY, r.OriginalWidth, r.OriginalHeight = n[0], n[1], n[2], n[3]
		}
	case "index":
		r.Index = n[0]
	case "split":
		r.Split, err = need(key, n, 4)
	case "pad":
		r.Pad, err = need(key, n, 4)
	default:
		r.Fields = append(r.Fields, Field{Name: key, Values: n})
	}
	return err
}
