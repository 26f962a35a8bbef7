package westley

// GroupView is a read-only, copied view of one group node.
type GroupView struct {
	ID         string
	Title      string
	ParentID   string // "" means the archive root
	Attributes map[string]string
	GroupIDs   []string
	EntryIDs   []string
}

// EntryView is a read-only, copied view of one entry node.
type EntryView struct {
	ID         string
	ParentID   string
	Properties map[string]string
	Attributes map[string]string
}

// ArchiveView is a read-only, copied view of the archive root.
type ArchiveView struct {
	Format     string
	ID         string
	Attributes map[string]string
	GroupIDs   []string
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Archive returns a copied view of the archive root.
func (w *Westley) Archive() ArchiveView {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, len(w.root.groups))
	for i, g := range w.root.groups {
		ids[i] = g.id
	}
	return ArchiveView{
		Format:     w.root.format,
		ID:         w.root.id,
		Attributes: copyMap(w.root.attributes),
		GroupIDs:   ids,
	}
}

// Group returns a copied view of the group with the given ID.
func (w *Westley) Group(id string) (GroupView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	g, ok := w.groupIndex[id]
	if !ok {
		return GroupView{}, false
	}
	return groupView(g), true
}

func groupView(g *groupNode) GroupView {
	groupIDs := make([]string, len(g.groups))
	for i, c := range g.groups {
		groupIDs[i] = c.id
	}
	entryIDs := make([]string, len(g.entries))
	for i, e := range g.entries {
		entryIDs[i] = e.id
	}
	parentID := g.parentID
	if parentID == "0" {
		parentID = ""
	}
	return GroupView{
		ID:         g.id,
		Title:      g.title,
		ParentID:   parentID,
		Attributes: copyMap(g.attributes),
		GroupIDs:   groupIDs,
		EntryIDs:   entryIDs,
	}
}

// Entry returns a copied view of the entry with the given ID.
func (w *Westley) Entry(id string) (EntryView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entryIndex[id]
	if !ok {
		return EntryView{}, false
	}
	return entryView(e), true
}

func entryView(e *entryNode) EntryView {
	return EntryView{
		ID:         e.id,
		ParentID:   e.parentID,
		Properties: copyMap(e.properties),
		Attributes: copyMap(e.attributes),
	}
}

// GroupExists reports whether a group with the given ID is in the tree.
func (w *Westley) GroupExists(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.groupIndex[id]
	return ok
}

// EntryExists reports whether an entry with the given ID is in the tree.
func (w *Westley) EntryExists(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entryIndex[id]
	return ok
}

// IsDescendantGroup reports whether candidateID names a group in
// ancestorID's subtree. Exported for the façade's pre-flight InvalidMove
// check (spec.md §4.4).
func (w *Westley) IsDescendantGroup(ancestorID, candidateID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isDescendantGroup(ancestorID, candidateID)
}
