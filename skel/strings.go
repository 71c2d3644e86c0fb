package skel

import (
	"slices"

	"github.com/spineapi/skelfile"
	"github.com/spineapi/skelfile/wire"
)

// stringTable returns the table of strings referenced by the binary form of
// sd. The table read with sd is reused when it holds exactly the referenced
// strings, which keeps the output of a decoded file identical to its input.
func stringTable(sd *skelfile.SkeletonData, p profile) *wire.StringTable {
	var t wire.StringTable
	var refs []string
	add := func(s ...string) {
		for _, s := range s {
			if s != "" {
				refs = append(refs, s)
			}
		}
	}

	for _, s := range sd.Slots {
		add(s.Attachment)
	}
	def := sd.DefaultSkin()
	for i, skin := range sd.Skins {
		if i != def {
			add(skin.Name)
		}
		for _, e := range skin.Attachments {
			add(e.Name)
			add(attachmentStrings(e.Attachment, p)...)
		}
	}
	for _, e := range sd.Events {
		add(e.Name)
	}
	for _, a := range sd.Animations {
		for _, tl := range a.Timelines {
			switch {
			case tl.Channel == skelfile.ChannelAttachment:
				for _, f := range tl.Frames {
					add(f.Name)
				}
			case tl.Channel.IsAttachment():
				add(tl.Attachment)
			}
		}
	}

	t.Add(refs...)
	t.Freeze()
	if len(sd.Strings) > 0 && sameStrings(sd.Strings, t.Strings()) {
		return wire.NewStringTable(sd.Strings)
	}
	return &t
}

// sameStrings reports whether the table read from a file holds exactly the
// strings of a sorted, deduplicated set.
func sameStrings(table, set []string) bool {
	seen := make(map[string]struct{}, len(table))
	for _, s := range table {
		if _, ok := slices.BinarySearch(set, s); !ok {
			return false
		}
		seen[s] = struct{}{}
	}
	return len(seen) == len(set)
}

func attachmentStrings(a skelfile.Attachment, p profile) []string {
	switch a := a.(type) {
	case *skelfile.RegionAttachment:
		return []string{a.Name, a.Path}
	case *skelfile.MeshAttachment:
		return []string{a.Name, a.Path}
	case *skelfile.LinkedMeshAttachment:
		if p.flagged {
			return []string{a.Name, a.Path, a.Parent}
		}
		return []string{a.Name, a.Path, a.Skin, a.Parent}
	case nil:
		return nil
	}
	return []string{a.AttachmentName()}
}
