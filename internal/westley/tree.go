package westley

// groupNode and entryNode form the live in-memory tree. Parent links are by
// ID, never by owning pointer, so the tree can never become cyclic by
// construction — cycles are only possible via a pathological mgr command,
// which apply() rejects explicitly (see apply.go).
type groupNode struct {
	id         string
	title      string
	attributes map[string]string
	parentID   string // command.RootID ("0") for a group whose parent is the archive root
	groups     []*groupNode
	entries    []*entryNode
}

type entryNode struct {
	id         string
	properties map[string]string
	attributes map[string]string
	parentID   string
}

// rootNode is the archive root: a Group-shaped container that is never
// itself addressable by ID in commands (command.RootID "0" refers to it).
type rootNode struct {
	format     string
	id         string
	attributes map[string]string
	groups     []*groupNode
}

func newRootNode() *rootNode {
	return &rootNode{attributes: map[string]string{}}
}

func newGroupNode(id, parentID string) *groupNode {
	return &groupNode{
		id:         id,
		parentID:   parentID,
		attributes: map[string]string{},
	}
}

func newEntryNode(id, parentID string) *entryNode {
	return &entryNode{
		id:         id,
		parentID:   parentID,
		properties: map[string]string{},
		attributes: map[string]string{},
	}
}

// removeGroupChild detaches the group with the given id from g's direct
// children, returning whether it was found.
func removeGroupChild(siblings []*groupNode, id string) ([]*groupNode, bool) {
	for i, g := range siblings {
		if g.id == id {
			return append(siblings[:i:i], siblings[i+1:]...), true
		}
	}
	return siblings, false
}

func removeEntryChild(siblings []*entryNode, id string) ([]*entryNode, bool) {
	for i, e := range siblings {
		if e.id == id {
			return append(siblings[:i:i], siblings[i+1:]...), true
		}
	}
	return siblings, false
}
