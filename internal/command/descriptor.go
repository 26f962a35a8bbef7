// Package command defines the history's mutation language: the canonical
// table of opcodes (Descriptor) and the text encoding/decoding of a single
// command line (Codec).
package command

// Slug is a 3-letter opcode, the first token on every history line.
type Slug string

const (
	SlugArchiveSetID          Slug = "aid"
	SlugSetArchiveAttribute   Slug = "saa"
	SlugDeleteArchiveAttr     Slug = "daa"
	SlugCreateGroup           Slug = "cgr"
	SlugSetGroupTitle         Slug = "tgr"
	SlugMoveGroup             Slug = "mgr"
	SlugDeleteGroup           Slug = "dgr"
	SlugSetGroupAttribute     Slug = "sga"
	SlugDeleteGroupAttribute  Slug = "dga"
	SlugCreateEntry           Slug = "cen"
	SlugMoveEntry             Slug = "men"
	SlugDeleteEntry           Slug = "den"
	SlugSetEntryProperty      Slug = "sep"
	SlugDeleteEntryProperty   Slug = "dep"
	SlugSetEntryAttribute     Slug = "sea"
	SlugDeleteEntryAttribute  Slug = "dea"
	SlugPad                   Slug = "pad"
	SlugFormat                Slug = "fmt"
)

// RootID is the sentinel parent ID meaning "the archive root" when used as
// the parentGroupID argument of cgr.
const RootID = "0"

// Descriptor describes one opcode: its symbolic name, how many positional
// arguments it takes, and whether replaying it can discard information.
type Descriptor struct {
	Slug        Slug
	Name        string
	ArgCount    int
	Destructive bool
}

// Table is the canonical, ordered set of command descriptors.
var Table = []Descriptor{
	{SlugArchiveSetID, "archive set id", 1, false},
	{SlugSetArchiveAttribute, "set archive attribute", 2, false},
	{SlugDeleteArchiveAttr, "delete archive attribute", 1, true},
	{SlugCreateGroup, "create group", 2, false},
	{SlugSetGroupTitle, "set group title", 2, false},
	{SlugMoveGroup, "move group", 2, false},
	{SlugDeleteGroup, "delete group", 1, true},
	{SlugSetGroupAttribute, "set group attribute", 3, false},
	{SlugDeleteGroupAttribute, "delete group attribute", 2, true},
	{SlugCreateEntry, "create entry", 2, false},
	{SlugMoveEntry, "move entry", 2, false},
	{SlugDeleteEntry, "delete entry", 1, true},
	{SlugSetEntryProperty, "set entry property", 3, false},
	{SlugDeleteEntryProperty, "delete entry property", 2, true},
	{SlugSetEntryAttribute, "set entry attribute", 3, false},
	{SlugDeleteEntryAttribute, "delete entry attribute", 2, true},
	{SlugPad, "padding", 1, false},
	{SlugFormat, "format tag", 1, false},
}

var bySlug = func() map[Slug]Descriptor {
	m := make(map[Slug]Descriptor, len(Table))
	for _, d := range Table {
		m[d.Slug] = d
	}
	return m
}()

// Lookup returns the descriptor for a slug and whether it is known.
func Lookup(s Slug) (Descriptor, bool) {
	d, ok := bySlug[s]
	return d, ok
}

// IsDestructive reports whether replaying a command with this slug can
// discard information. Unknown slugs are not destructive by definition
// (callers must reject unknown slugs separately).
func IsDestructive(s Slug) bool {
	d, ok := bySlug[s]
	return ok && d.Destructive
}
