package archive

import (
	"errors"
	"testing"

	"github.com/lovincyrus/westley/internal/westley"
)

func TestCreateGroupAndEntry(t *testing.T) {
	a := New(westley.Config{})
	g, err := a.CreateGroup("Banking")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	e, err := g.CreateEntry()
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := e.SetProperty("username", "alice"); err != nil {
		t.Fatalf("set property: %v", err)
	}
	if err := e.SetProperty("password", ""); err != nil {
		t.Fatalf("set empty property: %v", err)
	}

	found, ok := a.FindGroupByID(g.ID())
	if !ok || found.Title() != "Banking" {
		t.Fatalf("find group: found=%+v ok=%v", found, ok)
	}
	fe, ok := a.FindEntryByID(e.ID())
	if !ok || fe.Properties()["username"] != "alice" {
		t.Fatalf("find entry: %+v ok=%v", fe, ok)
	}
	if v, ok := fe.Properties()["password"]; !ok || v != "" {
		t.Fatalf("expected empty password property to persist, got %q ok=%v", v, ok)
	}
}

func TestMoveGroupRejectsDescendantMove(t *testing.T) {
	a := New(westley.Config{})
	parent, _ := a.CreateGroup("Parent")
	child, _ := parent.CreateGroup("Child")

	err := parent.MoveTo(child)
	if !errors.Is(err, westley.ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}

	// Archive unchanged: parent still at root, child still under parent.
	if parent.ParentID() != "" {
		t.Fatalf("parent should remain at root, ParentID=%q", parent.ParentID())
	}
	if child.ParentID() != parent.ID() {
		t.Fatalf("child should remain under parent")
	}
}

func TestReplayDeterminism(t *testing.T) {
	a := New(westley.Config{})
	g, _ := a.CreateGroup("Banking")
	e, _ := g.CreateEntry()
	_ = e.SetProperty("username", "alice")
	_ = e.SetProperty("password", "p")

	replayed, err := CreateFromHistory(westley.Config{}, a.GetHistory())
	if err != nil {
		t.Fatalf("create from history: %v", err)
	}
	if !StructurallyEqual(a, replayed) {
		t.Fatal("replayed archive structurally differs from original")
	}
}

func TestWalkGroupsOrderIsDeterministic(t *testing.T) {
	a := New(westley.Config{})
	g1, _ := a.CreateGroup("B")
	g2, _ := a.CreateGroup("A")
	_, _ = g1.CreateGroup("B1")
	_, _ = g2.CreateGroup("A1")

	var seen []string
	a.WalkGroups(func(g *Group) bool {
		seen = append(seen, g.ID())
		return true
	})

	replayed, _ := CreateFromHistory(westley.Config{}, a.GetHistory())
	var seen2 []string
	replayed.WalkGroups(func(g *Group) bool {
		seen2 = append(seen2, g.ID())
		return true
	})

	if len(seen) != len(seen2) {
		t.Fatalf("walk length mismatch: %v vs %v", seen, seen2)
	}
	for i := range seen {
		if seen[i] != seen2[i] {
			t.Fatalf("walk order not deterministic across replay: %v vs %v", seen, seen2)
		}
	}
}
