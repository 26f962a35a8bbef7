package archive

import (
	"sort"

	"github.com/lovincyrus/westley/internal/westley"
)

// Entry is a reference to a leaf node — identity plus lookup, never an
// owner (see Group's doc comment for the re-resolution rule).
type Entry struct {
	a  *Archive
	id string
}

func (e *Entry) view() (westley.EntryView, bool) { return e.a.w.Entry(e.id) }

// ID returns the entry's stable identifier.
func (e *Entry) ID() string { return e.id }

// ParentID returns the ID of the group the entry belongs to.
func (e *Entry) ParentID() string {
	v, _ := e.view()
	return v.ParentID
}

// Properties returns a copy of the entry's property map (username,
// password, url, ...).
func (e *Entry) Properties() map[string]string {
	v, _ := e.view()
	return v.Properties
}

// Attributes returns a copy of the entry's attribute map.
func (e *Entry) Attributes() map[string]string {
	v, _ := e.view()
	return v.Attributes
}

// SetProperty sets a single property. An empty value is valid; use
// DeleteProperty to remove a key entirely (spec.md §4.4).
func (e *Entry) SetProperty(key, value string) error {
	if err := e.a.w.Execute(e.a.gen.BuildSetEntryProperty(e.id, key, value)); err != nil {
		return err
	}
	e.a.touch(nowFunc())
	return nil
}

// SetProperties sets several properties in one call, in sorted-key order
// for determinism. A supplemented convenience op (SPEC_FULL.md §4.4), not
// a new opcode — it emits one sep per key.
func (e *Entry) SetProperties(props map[string]string) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := e.SetProperty(k, props[k]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProperty removes a property entirely.
func (e *Entry) DeleteProperty(key string) error {
	return e.a.w.Execute(e.a.gen.BuildDeleteEntryProperty(e.id, key))
}

// SetAttribute sets an entry-level attribute.
func (e *Entry) SetAttribute(key, value string) error {
	return e.a.w.Execute(e.a.gen.BuildSetEntryAttribute(e.id, key, value))
}

// DeleteAttribute removes an entry-level attribute.
func (e *Entry) DeleteAttribute(key string) error {
	return e.a.w.Execute(e.a.gen.BuildDeleteEntryAttribute(e.id, key))
}

// MoveTo relocates the entry to a different group.
func (e *Entry) MoveTo(newGroup *Group) error {
	if err := e.a.w.Execute(e.a.gen.BuildMoveEntry(e.id, newGroup.id)); err != nil {
		return err
	}
	e.a.touch(nowFunc())
	return nil
}

// Delete removes the entry.
func (e *Entry) Delete() error {
	if err := e.a.w.Execute(e.a.gen.BuildDeleteEntry(e.id)); err != nil {
		return err
	}
	e.a.touch(nowFunc())
	return nil
}
