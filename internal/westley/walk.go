package westley

import "sort"

// WalkSorted returns the archive view plus every group and entry in the
// tree, ordered deterministically: groups are emitted parent-before-child,
// siblings sorted by ID; entries are sorted by ID within each group and
// appended in the same group order. internal/flatten relies on this
// ordering to produce a stable, idempotent flattened history (spec.md
// §4.6).
func (w *Westley) WalkSorted() (ArchiveView, []GroupView, []EntryView) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var groups []GroupView
	var entries []EntryView

	var walk func(siblings []*groupNode)
	walk = func(siblings []*groupNode) {
		sorted := append([]*groupNode(nil), siblings...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].id < sorted[j].id })
		for _, g := range sorted {
			groups = append(groups, groupView(g))

			es := append([]*entryNode(nil), g.entries...)
			sort.Slice(es, func(i, j int) bool { return es[i].id < es[j].id })
			for _, e := range es {
				entries = append(entries, entryView(e))
			}

			walk(g.groups)
		}
	}
	walk(w.root.groups)

	ids := make([]string, len(w.root.groups))
	for i, g := range w.root.groups {
		ids[i] = g.id
	}
	sort.Strings(ids)
	av := ArchiveView{
		Format:     w.root.format,
		ID:         w.root.id,
		Attributes: copyMap(w.root.attributes),
		GroupIDs:   ids,
	}
	return av, groups, entries
}
