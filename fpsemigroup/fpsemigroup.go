// Package fpsemigroup implements the Froidure-Pin enumerator: a
// breadth-first exploration of a semigroup from its generators,
// maintaining a canonical element ordering, a
// multiplication table (as left/right Cayley graphs), a word
// factorisation per element, and the defining relations discovered
// along the way. Enumeration is incremental: Enumerate(limit) can be
// called repeatedly, generators can be appended mid-enumeration, and
// every query that needs more elements than currently known enumerates
// until it is satisfied or the semigroup is exhausted.
package fpsemigroup

import (
	"github.com/ehrlich-b/semigroups/config"
	"github.com/ehrlich-b/semigroups/digraph"
	"github.com/ehrlich-b/semigroups/element"
	"github.com/ehrlich-b/semigroups/present"
	"github.com/ehrlich-b/semigroups/runner"
)

// NotFound is returned by Position when the element is absent from a
// fully enumerated (exhausted) semigroup.
const NotFound = -1

// FroidurePin enumerates the semigroup generated by a set of elements.
type FroidurePin struct {
	gens []element.Element

	elements  []element.Element
	hashIndex map[uint64][]int
	wordLen   []int
	// factorPrev/factorLetter reconstruct the short-lex minimal
	// factorisation of each element by walking back to a generator:
	// factorPrev[i] == -1 means Word(i) == {factorLetter[i]}, else
	// Word(i) == Word(factorPrev[i]) + [factorLetter[i]].
	factorPrev   []int
	factorLetter []int
	// processed[i] counts how many generator letters element i's
	// outgoing edges have been computed for, so add_generator can
	// resume expansion without recomputing earlier letters.
	processed []int

	right *digraph.WordGraph
	left  *digraph.WordGraph

	rules []present.Rule

	queue []int

	leftGraphStale bool

	cfg *config.Config
	run *runner.Runner
}

// New creates an enumerator with no generators yet.
func New(cfg *config.Config, sink runner.Reporter) *FroidurePin {
	if cfg == nil {
		cfg = config.New()
	}
	return &FroidurePin{
		hashIndex: make(map[uint64][]int),
		right:     digraph.New(0),
		left:      digraph.New(0),
		cfg:       cfg,
		run:       runner.New(runner.ReporterFor(cfg, sink)),
	}
}

// Runner exposes the embedded Runner for Stop/Kill/State.
func (fp *FroidurePin) Runner() *runner.Runner { return fp.run }

// AddGenerator appends x to the generating set. If the enumerator had
// finished, it is reopened for further enumeration. Equal-by-Equals
// duplicate generators are recorded as a new letter without corrupting
// any index — positions are always looked up by element value, never
// by a word table keyed on letters.
func (fp *FroidurePin) AddGenerator(x element.Element) {
	letter := len(fp.gens)
	fp.gens = append(fp.gens, x)
	fp.right.AddLabel()
	fp.left.AddLabel()
	fp.leftGraphStale = true

	if idx, ok := fp.lookup(x); ok {
		_ = idx // duplicate value: no new element, letter still recorded in fp.gens
	} else {
		fp.register(x, -1, letter)
	}
	// Every previously-discovered element may have an edge under the
	// new letter that hasn't been computed yet; resume expansion from
	// all of them.
	for i := range fp.elements {
		if fp.processed[i] < len(fp.gens) {
			fp.queue = append(fp.queue, i)
		}
	}
}

func (fp *FroidurePin) lookup(x element.Element) (int, bool) {
	h := x.Hash()
	for _, i := range fp.hashIndex[h] {
		if fp.elements[i].Equals(x) {
			return i, true
		}
	}
	return NotFound, false
}

// register assigns x the next element index, assuming it is not
// already present.
func (fp *FroidurePin) register(x element.Element, parent, letter int) int {
	idx := len(fp.elements)
	fp.elements = append(fp.elements, x)
	fp.hashIndex[x.Hash()] = append(fp.hashIndex[x.Hash()], idx)
	fp.factorPrev = append(fp.factorPrev, parent)
	fp.factorLetter = append(fp.factorLetter, letter)
	fp.processed = append(fp.processed, 0)
	if parent < 0 {
		fp.wordLen = append(fp.wordLen, 1)
	} else {
		fp.wordLen = append(fp.wordLen, fp.wordLen[parent]+1)
	}
	fp.right.AddNode()
	fp.left.AddNode()
	fp.queue = append(fp.queue, idx)
	return idx
}

// expand computes every not-yet-processed outgoing right-edge of
// element i: for each generator letter a >= processed[i], the product
// elements[i] * gens[a], registering it if new and recording a defining
// relation if it collides with a known element.
func (fp *FroidurePin) expand(i int) {
	base := fp.elements[i]
	for a := fp.processed[i]; a < len(fp.gens); a++ {
		dest := base.Copy()
		dest.MultiplyInto(base, fp.gens[a])
		j, known := fp.lookup(dest)
		if !known {
			j = fp.register(dest, i, a)
		} else {
			lhs := append(fp.factorisationOf(i), a)
			rhs := fp.factorisationOf(j)
			if !lhs.Equals(rhs) {
				fp.rules = append(fp.rules, present.Rule{Lhs: lhs, Rhs: rhs})
			}
		}
		fp.right.SetTarget(i, a, j)
	}
	fp.processed[i] = len(fp.gens)
	fp.leftGraphStale = true
}

// Enumerate extends enumeration until size() reaches limit, the
// semigroup is exhausted, or the Runner is stopped. A negative limit
// means "until exhausted".
func (fp *FroidurePin) Enumerate(limit int) {
	fp.run.Resume()
	fp.run.Run(func() bool {
		processedInChunk := 0
		for len(fp.queue) > 0 {
			if limit >= 0 && len(fp.elements) >= limit {
				return true
			}
			i := fp.queue[0]
			fp.queue = fp.queue[1:]
			fp.expand(i)
			processedInChunk++
			if processedInChunk >= fp.cfg.BatchSize {
				fp.run.Report("froidure-pin: %s elements enumerated (%s elapsed)", runner.Sizef(len(fp.elements)), runner.Durationf(fp.run.Elapsed()))
				if fp.run.ShouldStop() {
					return false
				}
				processedInChunk = 0
			}
		}
		return true
	})
}

// Finished reports whether the frontier is fully expanded (no more
// elements can possibly be discovered).
func (fp *FroidurePin) Finished() bool { return len(fp.queue) == 0 }

// Size drives enumeration to completion and returns the semigroup's
// cardinality.
func (fp *FroidurePin) Size() int {
	fp.Enumerate(-1)
	return len(fp.elements)
}

// CurrentSize returns the number of elements enumerated so far; never
// decreases.
func (fp *FroidurePin) CurrentSize() int { return len(fp.elements) }

// Position returns the index of x, enumerating further if x is not yet
// known and the semigroup is not exhausted.
func (fp *FroidurePin) Position(x element.Element) int {
	if idx, ok := fp.lookup(x); ok {
		return idx
	}
	for !fp.Finished() {
		fp.Enumerate(len(fp.elements) + fp.cfg.BatchSize)
		if idx, ok := fp.lookup(x); ok {
			return idx
		}
	}
	return NotFound
}

// At returns the element with index i, enumerating if necessary.
func (fp *FroidurePin) At(i int) element.Element {
	fp.ensure(i)
	return fp.elements[i]
}

func (fp *FroidurePin) ensure(i int) {
	for len(fp.elements) <= i && !fp.Finished() {
		fp.Enumerate(i + 1)
	}
}

// factorisationOf reconstructs the short-lex minimal generator word for
// element i without forcing further enumeration (i must already exist).
func (fp *FroidurePin) factorisationOf(i int) present.Word {
	if fp.factorPrev[i] < 0 {
		return present.Word{fp.factorLetter[i]}
	}
	return append(fp.factorisationOf(fp.factorPrev[i]), fp.factorLetter[i])
}

// Factorisation returns the short-lex minimum word for element i.
func (fp *FroidurePin) Factorisation(i int) present.Word {
	fp.ensure(i)
	return fp.factorisationOf(i)
}

// Right returns the index of at(i) * gen[a].
func (fp *FroidurePin) Right(i, a int) int {
	fp.ensure(i)
	if fp.processed[i] <= a {
		fp.expand(i)
	}
	return fp.right.Target(i, a)
}

// Left returns the index of gen[a] * at(i). Unlike
// Right, which is filled incrementally by the main enumeration loop,
// the left graph is a read-mostly byproduct computed (and cached) in a
// single pass over the fully enumerated semigroup the first time it is
// needed or whenever new elements or generators invalidate it.
func (fp *FroidurePin) Left(i, a int) int {
	fp.Size() // left queries require a completed enumeration
	fp.rebuildLeftGraphIfStale()
	return fp.left.Target(i, a)
}

func (fp *FroidurePin) rebuildLeftGraphIfStale() {
	if !fp.leftGraphStale {
		return
	}
	for i, elem := range fp.elements {
		for a, g := range fp.gens {
			dest := elem.Copy()
			dest.MultiplyInto(g, elem)
			j, ok := fp.lookup(dest)
			if !ok {
				// Should not happen once fully enumerated: S is closed.
				continue
			}
			fp.left.SetTarget(i, a, j)
		}
	}
	fp.leftGraphStale = false
}

// Rules returns the defining relations discovered so far, in discovery
// order.
func (fp *FroidurePin) Rules() []present.Rule { return fp.rules }

// NumberOfGenerators returns the number of generators added so far.
func (fp *FroidurePin) NumberOfGenerators() int { return len(fp.gens) }

// Generator returns generator a.
func (fp *FroidurePin) Generator(a int) element.Element { return fp.gens[a] }

// RightGraphRow returns the currently known right-Cayley-graph row for
// element i without triggering further enumeration: an entry for a
// letter expand hasn't reached yet reads as digraph.Undefined. Used by
// internal/dump to snapshot an in-progress enumeration without forcing
// it to completion.
func (fp *FroidurePin) RightGraphRow(i int) []int {
	row := make([]int, len(fp.gens))
	for a := range row {
		row[a] = fp.right.Target(i, a)
	}
	return row
}
