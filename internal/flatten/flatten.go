// Package flatten compacts a long history by re-deriving it from the
// current tree: a minimal set of creation/set commands that replays to an
// equivalent archive in far fewer lines (spec.md §4.6).
package flatten

import (
	"sort"

	"github.com/lovincyrus/westley/internal/archive"
	"github.com/lovincyrus/westley/internal/command"
)

// Flatten returns a new history for a, discarding the old one. Sibling
// groups and entries are ordered by ID (via Archive.WalkGroups /
// Group.Entries, both ID-sorted) so the result is stable and flattening
// twice yields the same lines — the idempotence property required by
// spec.md §8.
func Flatten(a *archive.Archive) []string {
	var lines []string

	lines = append(lines, command.Encode(command.SlugFormat, a.Format()))
	if id := a.ID(); id != "" {
		lines = append(lines, command.Encode(command.SlugArchiveSetID, id))
	}
	lines = append(lines, sortedAttrLines(
		func(k, v string) string { return command.Encode(command.SlugSetArchiveAttribute, k, v) },
		a.Attributes(),
	)...)

	a.WalkGroups(func(g *archive.Group) bool {
		parentID := g.ParentID()
		if parentID == "" {
			parentID = command.RootID
		}
		lines = append(lines, command.Encode(command.SlugCreateGroup, parentID, g.ID()))
		if title := g.Title(); title != "" {
			lines = append(lines, command.Encode(command.SlugSetGroupTitle, g.ID(), title))
		}
		lines = append(lines, sortedAttrLines(
			func(k, v string) string { return command.Encode(command.SlugSetGroupAttribute, g.ID(), k, v) },
			g.Attributes(),
		)...)

		for _, e := range g.Entries() {
			lines = append(lines, command.Encode(command.SlugCreateEntry, g.ID(), e.ID()))
			lines = append(lines, sortedAttrLines(
				func(k, v string) string { return command.Encode(command.SlugSetEntryProperty, e.ID(), k, v) },
				e.Properties(),
			)...)
			lines = append(lines, sortedAttrLines(
				func(k, v string) string { return command.Encode(command.SlugSetEntryAttribute, e.ID(), k, v) },
				e.Attributes(),
			)...)
		}
		return true
	})

	return lines
}

func sortedAttrLines(encode func(k, v string) string, m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = encode(k, m[k])
	}
	return out
}
