// Package digraph implements a labelled, out-regular word graph: the
// Cayley graphs built by the Froidure-Pin enumerator and the coset
// table built by Todd-Coxeter are both word graphs over this type. It
// provides path iteration in short-lex order, path counting by
// depth-first search or transfer-matrix exponentiation (picked
// automatically), and the standard graph utilities: topological sort,
// strongly connected components, and reachability.
package digraph

import "github.com/ehrlich-b/semigroups/dtable"

// Undefined marks a digraph edge with no target.
const Undefined = -1

// WordGraph is a fixed-out-degree labelled digraph: node u has exactly
// OutDegree() outgoing edges, one per label, each either Undefined or a
// target node.
type WordGraph struct {
	outDegree int
	table     *dtable.Table
}

// New creates an empty word graph with the given fixed out-degree.
func New(outDegree int) *WordGraph {
	return &WordGraph{outDegree: outDegree, table: dtable.New(0, outDegree)}
}

// OutDegree returns the number of labels (fixed for the graph's lifetime).
func (g *WordGraph) OutDegree() int { return g.outDegree }

// NumberOfNodes returns the current node count.
func (g *WordGraph) NumberOfNodes() int { return g.table.NumberOfRows() }

// AddNode appends a new node with every outgoing edge Undefined, and
// returns its index.
func (g *WordGraph) AddNode() int {
	n := g.table.AppendRow()
	for a := 0; a < g.outDegree; a++ {
		g.table.Set(n, a, Undefined)
	}
	return n
}

// AddLabel grows the out-degree by one, extending every existing node
// with a new Undefined-valued edge. Used by the Froidure-Pin enumerator
// to extend its Cayley graphs when AddGenerator appends a generator
// without recomputing the graph from scratch.
func (g *WordGraph) AddLabel() int {
	col := g.table.AppendCol()
	g.outDegree++
	for r := 0; r < g.table.NumberOfRows(); r++ {
		g.table.Set(r, col, Undefined)
	}
	return col
}

// Target returns the node reached from node by label a, or Undefined.
func (g *WordGraph) Target(node, a int) int { return g.table.Get(node, a) }

// SetTarget sets the edge (node, a) -> target.
func (g *WordGraph) SetTarget(node, a, target int) { g.table.Set(node, a, target) }

// Word is a sequence of labels.
type Word []int

// TraceWord follows w from source, returning the final node and whether
// every edge along the way was defined.
func (g *WordGraph) TraceWord(source int, w Word) (int, bool) {
	n := source
	for _, a := range w {
		n = g.Target(n, a)
		if n == Undefined {
			return Undefined, false
		}
	}
	return n, true
}

// PathsFromTo enumerates, in short-lex order, every word of length in
// [minLen, maxLen] that traces a path from source to target (or from
// source to anywhere if target < 0). Short-lex order falls directly out
// of a breadth-first, label-ordered traversal.
func (g *WordGraph) PathsFromTo(source, target, minLen, maxLen int) []Word {
	var out []Word
	type frame struct {
		node int
		word Word
	}
	frontier := []frame{{source, nil}}
	for length := 0; length <= maxLen; length++ {
		if length >= minLen {
			for _, f := range frontier {
				if target < 0 || f.node == target {
					w := make(Word, len(f.word))
					copy(w, f.word)
					out = append(out, w)
				}
			}
		}
		if length == maxLen {
			break
		}
		var next []frame
		for _, f := range frontier {
			for a := 0; a < g.outDegree; a++ {
				t := g.Target(f.node, a)
				if t == Undefined {
					continue
				}
				w := append(append(Word{}, f.word...), a)
				next = append(next, frame{t, w})
			}
		}
		frontier = next
	}
	return out
}

// NumberOfPathsDFS counts paths from source to target (or anywhere if
// target < 0) with length in [minLen, maxLen] by exhaustive depth-first
// search. Appropriate when maxLen or the node count is small.
func (g *WordGraph) NumberOfPathsDFS(source, target, minLen, maxLen int) int {
	count := 0
	var visit func(node, depth int)
	visit = func(node, depth int) {
		if depth >= minLen && (target < 0 || node == target) {
			count++
		}
		if depth == maxLen {
			return
		}
		for a := 0; a < g.outDegree; a++ {
			t := g.Target(node, a)
			if t != Undefined {
				visit(t, depth+1)
			}
		}
	}
	visit(source, 0)
	return count
}

// dfsThreshold is the (nodes * (maxLen+1)) product above which
// NumberOfPaths switches from DFS to transfer-matrix exponentiation.
const dfsThreshold = 4096

// NumberOfPaths counts paths from source to target (or anywhere if
// target < 0) with length in [minLen, maxLen], picking DFS or
// transfer-matrix exponentiation automatically based on graph size.
func (g *WordGraph) NumberOfPaths(source, target, minLen, maxLen int) int {
	n := g.NumberOfNodes()
	if n*(maxLen+1) <= dfsThreshold {
		return g.NumberOfPathsDFS(source, target, minLen, maxLen)
	}
	total := 0
	for l := minLen; l <= maxLen; l++ {
		total += g.numberOfPathsOfLength(source, target, l)
	}
	return total
}

// numberOfPathsOfLength counts exact-length paths via repeated
// adjacency-matrix multiplication (the transfer-matrix algorithm):
// entry (source, target) of A^l, where A[u][v] counts the labels whose
// edge leads from u to v, so paths with different labels count apart
// (as in NumberOfPathsDFS).
func (g *WordGraph) numberOfPathsOfLength(source, target, l int) int {
	n := g.NumberOfNodes()
	if l == 0 {
		if target < 0 {
			return 1
		}
		if source == target {
			return 1
		}
		return 0
	}
	adj := make([][]int, n)
	for u := 0; u < n; u++ {
		adj[u] = make([]int, n)
		for a := 0; a < g.outDegree; a++ {
			t := g.Target(u, a)
			if t != Undefined {
				adj[u][t]++
			}
		}
	}
	vec := make([]int, n)
	vec[source] = 1
	for step := 0; step < l; step++ {
		next := make([]int, n)
		for u := 0; u < n; u++ {
			if vec[u] == 0 {
				continue
			}
			for v := 0; v < n; v++ {
				next[v] += vec[u] * adj[u][v]
			}
		}
		vec = next
	}
	if target < 0 {
		total := 0
		for _, c := range vec {
			total += c
		}
		return total
	}
	return vec[target]
}

// TopologicalSort returns nodes in topological order and true, or a
// partial order and false if the graph (restricted to edges that are
// defined) has a cycle.
func (g *WordGraph) TopologicalSort() ([]int, bool) {
	n := g.NumberOfNodes()
	const white, gray, black = 0, 1, 2
	color := make([]int, n)
	order := make([]int, 0, n)
	acyclic := true

	var visit func(u int)
	visit = func(u int) {
		color[u] = gray
		for a := 0; a < g.outDegree; a++ {
			v := g.Target(u, a)
			if v == Undefined {
				continue
			}
			switch color[v] {
			case white:
				visit(v)
			case gray:
				acyclic = false
			}
		}
		color[u] = black
		order = append(order, u)
	}
	for u := 0; u < n; u++ {
		if color[u] == white {
			visit(u)
		}
	}
	// order currently lists nodes in postorder; reverse for topological order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, acyclic
}

// StronglyConnectedComponents returns the graph's SCCs via Tarjan's
// algorithm, each as a slice of node indices.
func (g *WordGraph) StronglyConnectedComponents() [][]int {
	n := g.NumberOfNodes()
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	var sccs [][]int
	next := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for a := 0; a < g.outDegree; a++ {
			w := g.Target(v, a)
			if w == Undefined {
				continue
			}
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, comp)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
	return sccs
}

// Reachable returns, for every node, whether it is reachable from source.
func (g *WordGraph) Reachable(source int) []bool {
	n := g.NumberOfNodes()
	seen := make([]bool, n)
	if n == 0 {
		return seen
	}
	seen[source] = true
	stack := []int{source}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for a := 0; a < g.outDegree; a++ {
			v := g.Target(u, a)
			if v != Undefined && !seen[v] {
				seen[v] = true
				stack = append(stack, v)
			}
		}
	}
	return seen
}
