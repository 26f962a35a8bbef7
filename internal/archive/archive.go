// Package archive is the domain façade over Westley's live tree: typed
// Archive/Group/Entry operations that never mutate the tree directly but
// instead build and execute commands, per spec.md §4.4.
package archive

import (
	"sort"
	"time"

	"github.com/lovincyrus/westley/internal/command"
	"github.com/lovincyrus/westley/internal/idgen"
	"github.com/lovincyrus/westley/internal/westley"
)

// nowFunc is indirected so tests can pin the clock if ever needed.
var nowFunc = time.Now

// Archive is the root façade object. It exclusively owns one Westley.
type Archive struct {
	w   *westley.Westley
	gen *idgen.Generator
}

// New creates an empty archive using the given Westley configuration.
func New(cfg westley.Config) *Archive {
	return &Archive{w: westley.New(cfg), gen: idgen.New()}
}

// CreateFromHistory replays a history into a fresh archive — the canonical
// import operation (spec.md §4.4).
func CreateFromHistory(cfg westley.Config, lines []string) (*Archive, error) {
	w, err := westley.Replay(cfg, lines)
	if err != nil {
		return nil, err
	}
	return &Archive{w: w, gen: idgen.New()}, nil
}

// Westley returns the archive's executor, for components (envelope,
// workspace, flatten) that need raw history or dirty-state access.
func (a *Archive) Westley() *westley.Westley { return a.w }

// GetHistory is the canonical export operation (spec.md §4.4).
func (a *Archive) GetHistory() []string { return a.w.GetHistory() }

// ID returns the archive's assigned ID, or "" if never set.
func (a *Archive) ID() string { return a.w.Archive().ID }

// SetID assigns the archive's opaque identifier (normally done once, on
// first save).
func (a *Archive) SetID(id string) error {
	return a.w.Execute(a.gen.BuildArchiveSetID(id))
}

// EnsureID returns the archive's assigned ID, generating and assigning
// one via the aid command if it doesn't have one yet (spec.md §3: "id is
// assigned on first save"). Idempotent: a subsequent call is a no-op and
// returns the same ID.
func (a *Archive) EnsureID() (string, error) {
	if id := a.ID(); id != "" {
		return id, nil
	}
	id := a.gen.NewID()
	if err := a.SetID(id); err != nil {
		return "", err
	}
	return id, nil
}

// Format returns the archive's format tag.
func (a *Archive) Format() string { return a.w.Archive().Format }

// SetFormat assigns the archive's on-disk schema tag.
func (a *Archive) SetFormat(tag string) error {
	return a.w.Execute(a.gen.BuildFormat(tag))
}

// Attributes returns a copy of the archive's attribute map.
func (a *Archive) Attributes() map[string]string { return a.w.Archive().Attributes }

// SetAttribute sets an archive-level attribute.
func (a *Archive) SetAttribute(key, value string) error {
	return a.w.Execute(a.gen.BuildSetArchiveAttribute(key, value))
}

// DeleteAttribute removes an archive-level attribute.
func (a *Archive) DeleteAttribute(key string) error {
	return a.w.Execute(a.gen.BuildDeleteArchiveAttribute(key))
}

// touch updates the archive's updatedAt attribute (and createdAt, the
// first time) via the ordinary saa command — no new opcode or schema
// change, per SPEC_FULL.md §3.
func (a *Archive) touch(now time.Time) {
	ts := now.UTC().Format(time.RFC3339)
	if _, ok := a.w.Archive().Attributes["createdAt"]; !ok {
		_ = a.SetAttribute("createdAt", ts)
	}
	_ = a.SetAttribute("updatedAt", ts)
}

// CreateGroup creates a new top-level group with the given title.
func (a *Archive) CreateGroup(title string) (*Group, error) {
	id, line := a.gen.BuildCreateGroup(command.RootID)
	if err := a.w.Execute(line); err != nil {
		return nil, err
	}
	g := &Group{a: a, id: id}
	if title != "" {
		if err := g.SetTitle(title); err != nil {
			return nil, err
		}
	}
	a.touch(nowFunc())
	return g, nil
}

// Groups returns the archive's top-level groups, ID-sorted.
func (a *Archive) Groups() []*Group {
	view := a.w.Archive()
	ids := append([]string(nil), view.GroupIDs...)
	sort.Strings(ids)
	out := make([]*Group, len(ids))
	for i, id := range ids {
		out[i] = &Group{a: a, id: id}
	}
	return out
}

// FindGroupByID looks up a group anywhere in the tree.
func (a *Archive) FindGroupByID(id string) (*Group, bool) {
	if !a.w.GroupExists(id) {
		return nil, false
	}
	return &Group{a: a, id: id}, true
}

// FindEntryByID looks up an entry anywhere in the tree.
func (a *Archive) FindEntryByID(id string) (*Entry, bool) {
	if !a.w.EntryExists(id) {
		return nil, false
	}
	return &Entry{a: a, id: id}, true
}

// WalkGroups performs a deterministic (ID-sorted, parent-before-child)
// traversal of every group in the tree. Used by internal/flatten instead
// of duplicating tree-walk logic (spec.md §4.4, §4.6).
func (a *Archive) WalkGroups(fn func(*Group) bool) {
	_, groups, _ := a.w.WalkSorted()
	for _, gv := range groups {
		if !fn(&Group{a: a, id: gv.ID}) {
			return
		}
	}
}

// StructurallyEqual reports whether two archives' trees are
// indistinguishable: same format/attributes and the same set of groups and
// entries with the same content, irrespective of history representation.
// Used to verify replay determinism (spec.md §8, property 1).
func StructurallyEqual(a, b *Archive) bool {
	av, ag, ae := a.w.WalkSorted()
	bv, bg, be := b.w.WalkSorted()

	if av.Format != bv.Format || !mapsEqual(av.Attributes, bv.Attributes) {
		return false
	}
	if len(ag) != len(bg) || len(ae) != len(be) {
		return false
	}
	for i := range ag {
		if !groupsEqual(ag[i], bg[i]) {
			return false
		}
	}
	for i := range ae {
		if !entriesEqual(ae[i], be[i]) {
			return false
		}
	}
	return true
}

func groupsEqual(a, b westley.GroupView) bool {
	if a.ID != b.ID || a.Title != b.Title || a.ParentID != b.ParentID {
		return false
	}
	return mapsEqual(a.Attributes, b.Attributes)
}

func entriesEqual(a, b westley.EntryView) bool {
	if a.ID != b.ID || a.ParentID != b.ParentID {
		return false
	}
	return mapsEqual(a.Properties, b.Properties) && mapsEqual(a.Attributes, b.Attributes)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
