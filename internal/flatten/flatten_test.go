package flatten

import (
	"testing"

	"github.com/lovincyrus/westley/internal/archive"
	"github.com/lovincyrus/westley/internal/westley"
)

func buildSample(t *testing.T) *archive.Archive {
	t.Helper()
	a := archive.New(westley.Config{})
	if err := a.SetFormat("westley-v1"); err != nil {
		t.Fatal(err)
	}
	if err := a.SetID("arch-1"); err != nil {
		t.Fatal(err)
	}
	g, err := a.CreateGroup("Banking")
	if err != nil {
		t.Fatal(err)
	}
	e, err := g.CreateEntry()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetProperty("username", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetProperty("password", "p"); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestFlattenReplayEquivalence(t *testing.T) {
	a := buildSample(t)
	flat := Flatten(a)

	replayed, err := archive.CreateFromHistory(westley.Config{}, flat)
	if err != nil {
		t.Fatalf("replay flattened history: %v", err)
	}
	if !archive.StructurallyEqual(a, replayed) {
		t.Fatal("flattened archive structurally differs from original")
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	a := buildSample(t)
	flat1 := Flatten(a)

	replayed, err := archive.CreateFromHistory(westley.Config{}, flat1)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	flat2 := Flatten(replayed)

	if len(flat1) != len(flat2) {
		t.Fatalf("flatten not idempotent: lengths %d vs %d\n%v\n%v", len(flat1), len(flat2), flat1, flat2)
	}
	for i := range flat1 {
		if flat1[i] != flat2[i] {
			t.Fatalf("flatten not idempotent at line %d: %q vs %q", i, flat1[i], flat2[i])
		}
	}
}

func TestFlattenBoundsHistoryLength(t *testing.T) {
	a := archive.New(westley.Config{})
	g, _ := a.CreateGroup("G")
	for i := 0; i < 250; i++ {
		e, err := g.CreateEntry()
		if err != nil {
			t.Fatal(err)
		}
		if err := e.SetProperty("k", "v"); err != nil {
			t.Fatal(err)
		}
	}
	long := a.GetHistory()
	flat := Flatten(a)
	if len(flat) >= len(long) {
		t.Fatalf("expected flattened history shorter than original: %d vs %d", len(flat), len(long))
	}
}
