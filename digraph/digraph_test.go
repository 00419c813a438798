package digraph

import "testing"

// buildTriangle builds a 3-node cycle 0 -a-> 1 -a-> 2 -a-> 0, plus a
// self-loop on 0 under label b, out-degree 2.
func buildTriangle() *WordGraph {
	g := New(2)
	g.AddNode()
	g.AddNode()
	g.AddNode()
	g.SetTarget(0, 0, 1)
	g.SetTarget(1, 0, 2)
	g.SetTarget(2, 0, 0)
	g.SetTarget(0, 1, 0)
	return g
}

func TestTraceWord(t *testing.T) {
	g := buildTriangle()
	n, ok := g.TraceWord(0, Word{0, 0})
	if !ok || n != 2 {
		t.Fatalf("trace = %d,%v want 2,true", n, ok)
	}
	_, ok = g.TraceWord(0, Word{1, 1, 1})
	if !ok {
		t.Fatal("self loop path should be defined")
	}
}

func TestPathsFromToShortLex(t *testing.T) {
	g := buildTriangle()
	paths := g.PathsFromTo(0, 0, 0, 3)
	if len(paths) == 0 {
		t.Fatal("expected at least the empty path")
	}
	if len(paths[0]) != 0 {
		t.Errorf("first path should be the empty word, got %v", paths[0])
	}
	// lengths must be non-decreasing (short-lex).
	for i := 1; i < len(paths); i++ {
		if len(paths[i]) < len(paths[i-1]) {
			t.Errorf("paths not in short-lex length order at %d", i)
		}
	}
}

func TestNumberOfPathsDFSMatchesEnumeration(t *testing.T) {
	g := buildTriangle()
	got := g.NumberOfPathsDFS(0, -1, 0, 3)
	want := len(g.PathsFromTo(0, -1, 0, 3))
	if got != want {
		t.Errorf("NumberOfPathsDFS = %d, want %d", got, want)
	}
}

func TestNumberOfPathsAutoSelectMatchesDFS(t *testing.T) {
	g := buildTriangle()
	dfs := g.NumberOfPathsDFS(0, 0, 0, 6)
	auto := g.NumberOfPaths(0, 0, 0, 6)
	if dfs != auto {
		t.Errorf("NumberOfPaths = %d, want %d (DFS)", auto, dfs)
	}
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := buildTriangle()
	_, acyclic := g.TopologicalSort()
	if acyclic {
		t.Error("triangle graph has a cycle, TopologicalSort should report false")
	}

	dag := New(1)
	dag.AddNode()
	dag.AddNode()
	dag.SetTarget(0, 0, 1)
	order, acyclic := dag.TopologicalSort()
	if !acyclic {
		t.Fatal("dag should be acyclic")
	}
	pos := map[int]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos[0] >= pos[1] {
		t.Errorf("expected 0 before 1 in topological order, got %v", order)
	}
}

func TestStronglyConnectedComponents(t *testing.T) {
	g := buildTriangle()
	sccs := g.StronglyConnectedComponents()
	if len(sccs) != 1 || len(sccs[0]) != 3 {
		t.Errorf("expected a single SCC of size 3, got %v", sccs)
	}
}

func TestReachable(t *testing.T) {
	g := New(1)
	g.AddNode()
	g.AddNode()
	g.AddNode()
	g.SetTarget(0, 0, 1)
	seen := g.Reachable(0)
	if !seen[0] || !seen[1] || seen[2] {
		t.Errorf("Reachable = %v, want [true true false]", seen)
	}
}
