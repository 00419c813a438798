package dump

import (
	"testing"

	"github.com/ehrlich-b/semigroups/element"
	"github.com/ehrlich-b/semigroups/fpsemigroup"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func threeCycleFP() *fpsemigroup.FroidurePin {
	fp := fpsemigroup.New(nil, nil)
	fp.AddGenerator(element.NewTransformation([]int{1, 2, 0}))
	fp.Size()
	return fp
}

func TestDumpAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	fp := threeCycleFP()

	if err := s.Dump("run-1", fp); err != nil {
		t.Fatalf("dump: %v", err)
	}

	snap, _, err := s.Load("run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.ElementCount != fp.CurrentSize() {
		t.Errorf("element count = %d, want %d", snap.ElementCount, fp.CurrentSize())
	}
	if len(snap.RightGraph) != snap.ElementCount {
		t.Errorf("right graph has %d rows, want %d", len(snap.RightGraph), snap.ElementCount)
	}
	for i, row := range snap.RightGraph {
		if len(row) != fp.NumberOfGenerators() {
			t.Errorf("row %d has %d entries, want %d", i, len(row), fp.NumberOfGenerators())
		}
	}
}

func TestDumpOverwritesSameRunID(t *testing.T) {
	s := openTestStore(t)
	fp := threeCycleFP()

	if err := s.Dump("run-1", fp); err != nil {
		t.Fatalf("first dump: %v", err)
	}
	if err := s.Dump("run-1", fp); err != nil {
		t.Fatalf("second dump: %v", err)
	}

	snap, _, err := s.Load("run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.ElementCount != fp.CurrentSize() {
		t.Errorf("element count = %d, want %d", snap.ElementCount, fp.CurrentSize())
	}
}

func TestLoadMissingRunID(t *testing.T) {
	s := openTestStore(t)
	if _, _, err := s.Load("does-not-exist"); err == nil {
		t.Fatal("expected error loading a missing run ID")
	}
}
