package westley

import (
	"fmt"

	"github.com/lovincyrus/westley/internal/command"
)

// apply validates and mutates the tree for a single decoded command. Must
// be called with mu held. Every branch validates completely before
// mutating, so a failing command can never leave the tree half-changed.
func (w *Westley) apply(cmd command.Command) error {
	switch cmd.Slug {
	case command.SlugArchiveSetID:
		w.root.id = cmd.Args[0]
		return nil

	case command.SlugSetArchiveAttribute:
		w.root.attributes[cmd.Args[0]] = cmd.Args[1]
		return nil

	case command.SlugDeleteArchiveAttr:
		delete(w.root.attributes, cmd.Args[0])
		return nil

	case command.SlugFormat:
		w.root.format = cmd.Args[0]
		return nil

	case command.SlugCreateGroup:
		return w.applyCreateGroup(cmd.Args[0], cmd.Args[1])

	case command.SlugSetGroupTitle:
		g, ok := w.groupIndex[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("%w: group %q", ErrEntityNotFound, cmd.Args[0])
		}
		g.title = cmd.Args[1]
		return nil

	case command.SlugMoveGroup:
		return w.applyMoveGroup(cmd.Args[0], cmd.Args[1])

	case command.SlugDeleteGroup:
		return w.applyDeleteGroup(cmd.Args[0])

	case command.SlugSetGroupAttribute:
		g, ok := w.groupIndex[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("%w: group %q", ErrEntityNotFound, cmd.Args[0])
		}
		g.attributes[cmd.Args[1]] = cmd.Args[2]
		return nil

	case command.SlugDeleteGroupAttribute:
		g, ok := w.groupIndex[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("%w: group %q", ErrEntityNotFound, cmd.Args[0])
		}
		delete(g.attributes, cmd.Args[1])
		return nil

	case command.SlugCreateEntry:
		return w.applyCreateEntry(cmd.Args[0], cmd.Args[1])

	case command.SlugMoveEntry:
		return w.applyMoveEntry(cmd.Args[0], cmd.Args[1])

	case command.SlugDeleteEntry:
		return w.applyDeleteEntry(cmd.Args[0])

	case command.SlugSetEntryProperty:
		e, ok := w.entryIndex[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("%w: entry %q", ErrEntityNotFound, cmd.Args[0])
		}
		e.properties[cmd.Args[1]] = cmd.Args[2]
		return nil

	case command.SlugDeleteEntryProperty:
		e, ok := w.entryIndex[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("%w: entry %q", ErrEntityNotFound, cmd.Args[0])
		}
		delete(e.properties, cmd.Args[1])
		return nil

	case command.SlugSetEntryAttribute:
		e, ok := w.entryIndex[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("%w: entry %q", ErrEntityNotFound, cmd.Args[0])
		}
		e.attributes[cmd.Args[1]] = cmd.Args[2]
		return nil

	case command.SlugDeleteEntryAttribute:
		e, ok := w.entryIndex[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("%w: entry %q", ErrEntityNotFound, cmd.Args[0])
		}
		delete(e.attributes, cmd.Args[1])
		return nil

	case command.SlugPad:
		return nil // no-op, per spec.md §4.3

	default:
		return fmt.Errorf("%w: unhandled opcode %q", ErrInvalidCommand, cmd.Slug)
	}
}

func (w *Westley) exists(id string) bool {
	if _, ok := w.groupIndex[id]; ok {
		return true
	}
	_, ok := w.entryIndex[id]
	return ok
}

func (w *Westley) applyCreateGroup(parentID, newID string) error {
	if w.exists(newID) {
		return fmt.Errorf("%w: %q", ErrDuplicateID, newID)
	}

	g := newGroupNode(newID, parentID)
	if parentID == command.RootID {
		w.root.groups = append(w.root.groups, g)
	} else {
		parent, ok := w.groupIndex[parentID]
		if !ok {
			return fmt.Errorf("%w: group %q", ErrEntityNotFound, parentID)
		}
		parent.groups = append(parent.groups, g)
		g.parentID = parentID
	}
	w.groupIndex[newID] = g
	return nil
}

func (w *Westley) applyCreateEntry(groupID, newID string) error {
	if w.exists(newID) {
		return fmt.Errorf("%w: %q", ErrDuplicateID, newID)
	}
	parent, ok := w.groupIndex[groupID]
	if !ok {
		return fmt.Errorf("%w: group %q", ErrEntityNotFound, groupID)
	}
	e := newEntryNode(newID, groupID)
	parent.entries = append(parent.entries, e)
	w.entryIndex[newID] = e
	return nil
}

// applyMoveGroup relocates a group under a new parent, rejecting moves that
// would create a cycle (a group moved into itself or one of its own
// descendants).
func (w *Westley) applyMoveGroup(groupID, newParentID string) error {
	g, ok := w.groupIndex[groupID]
	if !ok {
		return fmt.Errorf("%w: group %q", ErrEntityNotFound, groupID)
	}
	if newParentID != command.RootID {
		if _, ok := w.groupIndex[newParentID]; !ok {
			return fmt.Errorf("%w: group %q", ErrEntityNotFound, newParentID)
		}
		if newParentID == groupID || w.isDescendantGroup(groupID, newParentID) {
			return fmt.Errorf("%w: group %q is its own ancestor of %q", ErrInvalidMove, groupID, newParentID)
		}
	}

	if !w.detachGroup(g) {
		return fmt.Errorf("%w: group %q not attached to its recorded parent", ErrInternalInvariant, groupID)
	}

	if newParentID == command.RootID {
		w.root.groups = append(w.root.groups, g)
	} else {
		parent := w.groupIndex[newParentID]
		parent.groups = append(parent.groups, g)
	}
	g.parentID = newParentID
	return nil
}

// isDescendantGroup reports whether candidateID names a group somewhere in
// ancestorID's subtree.
func (w *Westley) isDescendantGroup(ancestorID, candidateID string) bool {
	ancestor, ok := w.groupIndex[ancestorID]
	if !ok {
		return false
	}
	var walk func(*groupNode) bool
	walk = func(g *groupNode) bool {
		for _, child := range g.groups {
			if child.id == candidateID || walk(child) {
				return true
			}
		}
		return false
	}
	return walk(ancestor)
}

func (w *Westley) detachGroup(g *groupNode) bool {
	if g.parentID == "" || g.parentID == command.RootID {
		var found bool
		w.root.groups, found = removeGroupChild(w.root.groups, g.id)
		return found
	}
	parent, ok := w.groupIndex[g.parentID]
	if !ok {
		return false
	}
	var found bool
	parent.groups, found = removeGroupChild(parent.groups, g.id)
	return found
}

func (w *Westley) applyMoveEntry(entryID, newGroupID string) error {
	e, ok := w.entryIndex[entryID]
	if !ok {
		return fmt.Errorf("%w: entry %q", ErrEntityNotFound, entryID)
	}
	newParent, ok := w.groupIndex[newGroupID]
	if !ok {
		return fmt.Errorf("%w: group %q", ErrEntityNotFound, newGroupID)
	}

	oldParent, ok := w.groupIndex[e.parentID]
	if !ok {
		return fmt.Errorf("%w: entry %q has no resolvable parent %q", ErrInternalInvariant, entryID, e.parentID)
	}
	var found bool
	oldParent.entries, found = removeEntryChild(oldParent.entries, entryID)
	if !found {
		return fmt.Errorf("%w: entry %q not attached to its recorded parent", ErrInternalInvariant, entryID)
	}

	newParent.entries = append(newParent.entries, e)
	e.parentID = newGroupID
	return nil
}

func (w *Westley) applyDeleteGroup(groupID string) error {
	g, ok := w.groupIndex[groupID]
	if !ok {
		return fmt.Errorf("%w: group %q", ErrEntityNotFound, groupID)
	}
	if !w.detachGroup(g) {
		return fmt.Errorf("%w: group %q not attached to its recorded parent", ErrInternalInvariant, groupID)
	}
	w.deindexSubtree(g)
	return nil
}

func (w *Westley) deindexSubtree(g *groupNode) {
	for _, e := range g.entries {
		delete(w.entryIndex, e.id)
	}
	for _, child := range g.groups {
		w.deindexSubtree(child)
	}
	delete(w.groupIndex, g.id)
}

func (w *Westley) applyDeleteEntry(entryID string) error {
	e, ok := w.entryIndex[entryID]
	if !ok {
		return fmt.Errorf("%w: entry %q", ErrEntityNotFound, entryID)
	}
	parent, ok := w.groupIndex[e.parentID]
	if !ok {
		return fmt.Errorf("%w: entry %q has no resolvable parent %q", ErrInternalInvariant, entryID, e.parentID)
	}
	var found bool
	parent.entries, found = removeEntryChild(parent.entries, entryID)
	if !found {
		return fmt.Errorf("%w: entry %q not attached to its recorded parent", ErrInternalInvariant, entryID)
	}
	delete(w.entryIndex, entryID)
	return nil
}
