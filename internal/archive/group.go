package archive

import (
	"fmt"
	"sort"

	"github.com/lovincyrus/westley/internal/command"
	"github.com/lovincyrus/westley/internal/westley"
)

// Group is a reference to a node in the tree — identity plus lookup, never
// an owner. It must be re-resolved (via Archive.FindGroupByID) after an
// external replay swaps in a new Archive.
type Group struct {
	a  *Archive
	id string
}

func (g *Group) view() (westley.GroupView, bool) { return g.a.w.Group(g.id) }

// ID returns the group's stable identifier.
func (g *Group) ID() string { return g.id }

// Title returns the group's current title.
func (g *Group) Title() string {
	v, _ := g.view()
	return v.Title
}

// Attributes returns a copy of the group's attribute map.
func (g *Group) Attributes() map[string]string {
	v, _ := g.view()
	return v.Attributes
}

// ParentID returns the ID of the group's parent group, or "" if its parent
// is the archive root.
func (g *Group) ParentID() string {
	v, _ := g.view()
	return v.ParentID
}

// SetTitle renames the group.
func (g *Group) SetTitle(title string) error {
	if err := g.a.w.Execute(g.a.gen.BuildSetGroupTitle(g.id, title)); err != nil {
		return err
	}
	g.a.touch(nowFunc())
	return nil
}

// SetAttribute sets a group-level attribute.
func (g *Group) SetAttribute(key, value string) error {
	return g.a.w.Execute(g.a.gen.BuildSetGroupAttribute(g.id, key, value))
}

// DeleteAttribute removes a group-level attribute.
func (g *Group) DeleteAttribute(key string) error {
	return g.a.w.Execute(g.a.gen.BuildDeleteGroupAttribute(g.id, key))
}

// MoveTo relocates the group to be a child of newParent. Rejects moving a
// group into its own subtree (spec.md §4.4) before ever building a
// command — the façade, not Westley, is the primary enforcement point,
// though Westley also guards this defensively on replay.
func (g *Group) MoveTo(newParent *Group) error {
	return g.moveTo(newParent.id)
}

// MoveToRoot relocates the group to be a top-level group of the archive.
func (g *Group) MoveToRoot() error {
	return g.moveTo(command.RootID)
}

func (g *Group) moveTo(newParentID string) error {
	if newParentID != command.RootID && (newParentID == g.id || g.a.w.IsDescendantGroup(g.id, newParentID)) {
		return fmt.Errorf("%w: cannot move group %q into its own descendant %q", westley.ErrInvalidMove, g.id, newParentID)
	}
	if err := g.a.w.Execute(g.a.gen.BuildMoveGroup(g.id, newParentID)); err != nil {
		return err
	}
	g.a.touch(nowFunc())
	return nil
}

// Delete removes the group and its entire subtree.
func (g *Group) Delete() error {
	if err := g.a.w.Execute(g.a.gen.BuildDeleteGroup(g.id)); err != nil {
		return err
	}
	g.a.touch(nowFunc())
	return nil
}

// CreateGroup creates a new child group under g.
func (g *Group) CreateGroup(title string) (*Group, error) {
	id, line := g.a.gen.BuildCreateGroup(g.id)
	if err := g.a.w.Execute(line); err != nil {
		return nil, err
	}
	child := &Group{a: g.a, id: id}
	if title != "" {
		if err := child.SetTitle(title); err != nil {
			return nil, err
		}
	}
	g.a.touch(nowFunc())
	return child, nil
}

// CreateEntry creates a new entry under g.
func (g *Group) CreateEntry() (*Entry, error) {
	id, line := g.a.gen.BuildCreateEntry(g.id)
	if err := g.a.w.Execute(line); err != nil {
		return nil, err
	}
	g.a.touch(nowFunc())
	return &Entry{a: g.a, id: id}, nil
}

// Groups returns g's child groups, ID-sorted.
func (g *Group) Groups() []*Group {
	v, _ := g.view()
	ids := append([]string(nil), v.GroupIDs...)
	sort.Strings(ids)
	out := make([]*Group, len(ids))
	for i, id := range ids {
		out[i] = &Group{a: g.a, id: id}
	}
	return out
}

// Entries returns g's entries, ID-sorted.
func (g *Group) Entries() []*Entry {
	v, _ := g.view()
	ids := append([]string(nil), v.EntryIDs...)
	sort.Strings(ids)
	out := make([]*Entry, len(ids))
	for i, id := range ids {
		out[i] = &Entry{a: g.a, id: id}
	}
	return out
}
