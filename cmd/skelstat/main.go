// The skelstat command displays stats for a skeleton file.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/skel"
)

const usage = `usage: skelstat [INPUT] [OUTPUT]

Reads a binary or JSON skeleton file of any generation from INPUT, and writes
to OUTPUT statistics for the file.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

type AnimationSize struct {
	Name      string
	Timelines int
	Frames    int
	Duration  float32
}

func (a AnimationSize) String() string {
	return fmt.Sprintf("%s(%d/%d)", a.Name, a.Timelines, a.Frames)
}

type AnimationSizes []AnimationSize

// MarshalJSON lists the 20 animations with the most frames.
func (a AnimationSizes) MarshalJSON() ([]byte, error) {
	list := make([]AnimationSize, len(a))
	copy(list, a)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Frames > list[j].Frames
	})
	if len(list) > 20 {
		list = list[:20]
	}
	return gojson.Marshal(list)
}

type Stats struct {
	Version string
	Format  string
	Size    int

	// Number of entries in the string table.
	StringCount int `json:",omitempty"`

	BoneCount      int
	SlotCount      int
	SkinCount      int
	EventCount     int
	AnimationCount int

	// Number of constraints per kind.
	ConstraintCount map[string]int

	// Number of attachments per type.
	AttachmentCount map[string]int

	// Number of timelines per channel.
	TimelineCount map[string]int

	// Number of keys overall.
	FrameCount int

	LargestAnimations AnimationSizes `json:",omitempty"`
}

func (s *Stats) Fill(sd *skelfile.SkeletonData) {
	if sd == nil {
		return
	}
	s.Version = sd.Version
	s.StringCount = len(sd.Strings)
	s.BoneCount = len(sd.Bones)
	s.SlotCount = len(sd.Slots)
	s.SkinCount = len(sd.Skins)
	s.EventCount = len(sd.Events)
	s.AnimationCount = len(sd.Animations)

	s.ConstraintCount = map[string]int{}
	for kind, n := range map[skelfile.ConstraintKind]int{
		skelfile.KindIK:        len(sd.IKConstraints),
		skelfile.KindTransform: len(sd.TransformConstraints),
		skelfile.KindPath:      len(sd.PathConstraints),
		skelfile.KindPhysics:   len(sd.PhysicsConstraints),
	} {
		if n > 0 {
			s.ConstraintCount[kind.String()] = n
		}
	}

	s.AttachmentCount = map[string]int{}
	for _, skin := range sd.Skins {
		for _, a := range skin.Attachments {
			s.AttachmentCount[a.Attachment.Type().String()]++
		}
	}

	s.TimelineCount = map[string]int{}
	s.FrameCount = 0
	s.LargestAnimations = AnimationSizes{}
	for _, anim := range sd.Animations {
		size := AnimationSize{Name: anim.Name, Timelines: len(anim.Timelines), Duration: anim.Duration()}
		for _, t := range anim.Timelines {
			s.TimelineCount[t.Channel.String()]++
			size.Frames += len(t.Frames)
		}
		if len(anim.DrawOrder) > 0 {
			s.TimelineCount["drawOrder"]++
			size.Frames += len(anim.DrawOrder)
		}
		if len(anim.Events) > 0 {
			s.TimelineCount["events"]++
			size.Frames += len(anim.Events)
		}
		s.FrameCount += size.Frames
		s.LargestAnimations = append(s.LargestAnimations, size)
	}
}

func stat(input io.Reader, output io.Writer) error {
	b, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}
	sd, isJSON, err := skel.Decode(b)
	if err != nil {
		return fmt.Errorf("decode error: %w", err)
	}

	stats := Stats{Format: "binary", Size: len(b)}
	if isJSON {
		stats.Format = "json"
	}
	stats.Fill(sd)

	je := gojson.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	pflag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	pflag.Parse()
	args := pflag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			os.Exit(1)
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			os.Exit(1)
		}
		defer out.Close()
		output = out
	}

	if err := stat(input, output); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
