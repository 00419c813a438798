// Package toddcoxeter implements the Todd-Coxeter coset enumerator
// (spec §2 item 8, detailed in §4.3): a coset-table state machine over
// a finitely presented semigroup or monoid that maintains forward/
// backward active-coset lists and preimage tables, handles coincidences
// by identification with propagation, and performs periodic packing
// compactions. Coset 0 is the adjoined identity the algorithm traces
// words from; the active cosets discovered beyond it (1..n) correspond
// to the classes of the generated congruence (spec §3 "the identity
// coset is 0").
package toddcoxeter

import (
	"github.com/ehrlich-b/semigroups/config"
	"github.com/ehrlich-b/semigroups/dtable"
	"github.com/ehrlich-b/semigroups/fpsemigroup"
	"github.com/ehrlich-b/semigroups/present"
	"github.com/ehrlich-b/semigroups/runner"
)

// Undefined marks a table edge with no target, spec §3's UNDEFINED sentinel.
const Undefined = -1

// Unknown is returned by class-index and equality queries when the
// answer depends on enumeration that has not yet resolved it (spec §4.3
// word_to_class_index / current_equals).
const Unknown = -1

// Answer is the three-valued result of current_equals.
type Answer int

const (
	AnswerUnknown Answer = iota
	AnswerTrue
	AnswerFalse
)

// Kind distinguishes a one-sided (right) congruence from a two-sided
// one (spec §3 Congruence kind; spec §4.3 Orientation). Left
// congruences are not a first-class kind (spec §9 design note): callers
// wanting one must dualise their presentation before constructing a
// ToddCoxeter.
type Kind int

const (
	OneSided Kind = iota
	TwoSided
)

// packKillFloor is the minimum number of cosets a packing sweep must
// kill to justify another sweep (spec §4.3 Pack: "stop ... when the
// kill rate drops below a small floor (~100 cosets since the last
// report)").
const packKillFloor = 100

// ToddCoxeter enumerates the right (or two-sided) cosets of the
// congruence generated by a presentation's relations together with an
// optional set of extra generating pairs.
type ToddCoxeter struct {
	alphabetSize int
	rules        []present.Rule
	extraPairs   [][2]present.Word
	kind         Kind

	table *dtable.Table

	forward  []int
	backward []int
	alive    []bool
	// forwardTo chases a dead coset to its surviving representative;
	// forwardTo[c] == c for an alive coset.
	forwardTo []int
	freeList  []int

	preimHead [][]int
	preimNext [][]int

	firstActive, lastActive int
	numActive               int
	cursor                  int

	packThreshold int
	complete      bool
	compressMap   []int

	cfg *config.Config
	run *runner.Runner
}

// New constructs a ToddCoxeter over p's alphabet, with extraPairs as
// additional generating pairs for the congruence (empty for plain
// presentation word-problem enumeration) and kind selecting one-sided
// or two-sided closure.
func New(p *present.Presentation, extraPairs [][2]present.Word, kind Kind, cfg *config.Config, sink runner.Reporter) *ToddCoxeter {
	if cfg == nil {
		cfg = config.New()
	}
	tc := &ToddCoxeter{
		alphabetSize:  p.AlphabetSize,
		rules:         append([]present.Rule{}, p.Rules...),
		extraPairs:    extraPairs,
		kind:          kind,
		table:         dtable.New(0, p.AlphabetSize),
		firstActive:   -1,
		lastActive:    -1,
		cursor:        -1,
		packThreshold: cfg.PackThreshold,
		cfg:           cfg,
		run:           runner.New(runner.ReporterFor(cfg, sink)),
	}
	tc.allocCoset() // coset 0, the identity
	return tc
}

// Runner exposes the embedded Runner for Stop/Kill/State.
func (tc *ToddCoxeter) Runner() *runner.Runner { return tc.run }

// Prefill pre-populates the coset table from an already-enumerated
// semigroup's right Cayley graph, one row per element plus one for the
// identity coset (spec §4.3 Prefill). fp must share tc's alphabet
// (generator-for-generator). Only effective before Run is called.
func (tc *ToddCoxeter) Prefill(fp *fpsemigroup.FroidurePin) {
	if !tc.cfg.Prefill {
		return
	}
	n := fp.Size()
	rows := make([]int, n)
	for i := 0; i < n; i++ {
		rows[i] = tc.allocCoset()
	}
	for a := 0; a < tc.alphabetSize && a < fp.NumberOfGenerators(); a++ {
		gi := fp.Position(fp.Generator(a))
		if gi >= 0 {
			tc.setEdge(0, a, rows[gi])
		}
	}
	for i := 0; i < n; i++ {
		for a := 0; a < tc.alphabetSize && a < fp.NumberOfGenerators(); a++ {
			j := fp.Right(i, a)
			tc.setEdge(rows[i], a, rows[j])
		}
	}
}

func (tc *ToddCoxeter) allocCoset() int {
	var c int
	if n := len(tc.freeList); n > 0 {
		c = tc.freeList[n-1]
		tc.freeList = tc.freeList[:n-1]
		for a := 0; a < tc.alphabetSize; a++ {
			tc.table.Set(c, a, Undefined)
			tc.preimHead[c][a] = -1
		}
	} else {
		c = tc.table.AppendRow()
		for a := 0; a < tc.alphabetSize; a++ {
			tc.table.Set(c, a, Undefined)
		}
		tc.preimHead = append(tc.preimHead, newIntSlice(tc.alphabetSize, -1))
		tc.preimNext = append(tc.preimNext, make([]int, tc.alphabetSize))
		tc.forward = append(tc.forward, -1)
		tc.backward = append(tc.backward, -1)
		tc.alive = append(tc.alive, true)
		tc.forwardTo = append(tc.forwardTo, c)
	}
	tc.alive[c] = true
	tc.forwardTo[c] = c
	tc.appendActive(c)
	tc.numActive++
	return c
}

func newIntSlice(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func (tc *ToddCoxeter) appendActive(c int) {
	tc.forward[c] = -1
	tc.backward[c] = tc.lastActive
	if tc.lastActive == -1 {
		tc.firstActive = c
	} else {
		tc.forward[tc.lastActive] = c
	}
	tc.lastActive = c
}

func (tc *ToddCoxeter) removeActive(c int) {
	p, n := tc.backward[c], tc.forward[c]
	if p != -1 {
		tc.forward[p] = n
	} else {
		tc.firstActive = n
	}
	if n != -1 {
		tc.backward[n] = p
	} else {
		tc.lastActive = p
	}
}

// find chases a dead coset's forwarding pointer to its surviving
// representative (spec §3 Coset "dead cosets retain a forwarding
// pointer ... so lookups can chase").
func (tc *ToddCoxeter) find(c int) int {
	for !tc.alive[c] {
		c = tc.forwardTo[c]
	}
	return c
}

func (tc *ToddCoxeter) addPreimage(target, a, source int) {
	tc.preimNext[source][a] = tc.preimHead[target][a]
	tc.preimHead[target][a] = source
}

func (tc *ToddCoxeter) setEdge(source, a, target int) {
	tc.table.Set(source, a, target)
	tc.addPreimage(target, a, source)
}

// define allocates a new coset as the image of c under a (spec §4.3
// "Define").
func (tc *ToddCoxeter) define(c, a int) int {
	n := tc.allocCoset()
	tc.setEdge(c, a, n)
	return n
}

// traceWord walks w from start, defining new cosets along the way when
// allowDefine is true; returns the final coset and whether the whole
// walk succeeded (before completion it always succeeds when
// allowDefine is true; the Runner is not consulted mid-walk).
//
// Once the enumerator is complete, compress has replaced tc.table with
// a densely renumbered table whose entries are already final survivor
// indices in the NEW index space, while tc.alive/tc.forwardTo remain in
// the OLD (pre-compression) index space. Chasing find on a post-
// compression table entry would therefore reinterpret a new index as
// an old one and can walk to the wrong coset. So once complete, table
// entries are trusted as-is with no find chase; start is assumed to
// already be a valid dense index (true for every post-completion
// caller, which all start from coset 0).
func (tc *ToddCoxeter) traceWord(start int, w present.Word, allowDefine bool) (int, bool) {
	if tc.complete {
		cur := start
		for _, a := range w {
			t := tc.table.Get(cur, a)
			if t == Undefined {
				return Undefined, false
			}
			cur = t
		}
		return cur, true
	}
	cur := tc.find(start)
	for _, a := range w {
		t := tc.table.Get(cur, a)
		if t == Undefined {
			if !allowDefine {
				return Undefined, false
			}
			t = tc.define(cur, a)
		}
		cur = tc.find(t)
	}
	return cur, true
}

// readTrace is traceWord with allowDefine forced off, used by read-only
// queries (word_to_class_index, current_equals) that must never mutate
// the table.
func (tc *ToddCoxeter) readTrace(start int, w present.Word) (int, bool) {
	return tc.traceWord(start, w, false)
}

// identify merges the congruence classes of u and v (spec §4.3
// "Identify"): the smaller-indexed coset always survives; the dying
// coset's preimages are rewritten onto the survivor, and its outgoing
// edges are either adopted (if the survivor lacks them) or pushed for
// further identification.
func (tc *ToddCoxeter) identify(u, v int) {
	stack := [][2]int{{u, v}}
	for len(stack) > 0 {
		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := tc.find(pair[0]), tc.find(pair[1])
		if x == y {
			continue
		}
		survivor, dying := x, y
		if dying < survivor {
			survivor, dying = dying, survivor
		}

		tc.forwardTo[dying] = survivor
		tc.alive[dying] = false
		tc.numActive--
		tc.removeActive(dying)

		for a := 0; a < tc.alphabetSize; a++ {
			d := tc.preimHead[dying][a]
			for d != -1 {
				next := tc.preimNext[d][a]
				tc.table.Set(d, a, survivor)
				tc.addPreimage(survivor, a, d)
				d = next
			}
			tc.preimHead[dying][a] = -1
		}

		for a := 0; a < tc.alphabetSize; a++ {
			target := tc.table.Get(dying, a)
			if target == Undefined {
				continue
			}
			target = tc.find(target)
			if survivorTarget := tc.table.Get(survivor, a); survivorTarget == Undefined {
				tc.setEdge(survivor, a, target)
			} else {
				stack = append(stack, [2]int{target, tc.find(survivorTarget)})
			}
		}

		tc.freeList = append(tc.freeList, dying)
	}
}

// processCoset traces every relation from c, and traces the extra
// generating pairs too: at every coset for a two-sided congruence
// (closing under left multiplication by every element the enumeration
// has reached), or only at coset 0 for a one-sided (right) congruence
// (spec §4.3 Orientation).
func (tc *ToddCoxeter) processCoset(c int, allowDefine bool) {
	for _, r := range tc.rules {
		lhsEnd, ok1 := tc.traceWord(c, r.Lhs, allowDefine)
		if !ok1 {
			continue
		}
		rhsEnd, ok2 := tc.traceWord(c, r.Rhs, allowDefine)
		if !ok2 {
			continue
		}
		if tc.find(lhsEnd) != tc.find(rhsEnd) {
			tc.identify(lhsEnd, rhsEnd)
		}
	}
	if tc.kind == OneSided && c != 0 {
		return
	}
	for _, pr := range tc.extraPairs {
		lhsEnd, ok1 := tc.traceWord(c, pr[0], allowDefine)
		if !ok1 {
			continue
		}
		rhsEnd, ok2 := tc.traceWord(c, pr[1], allowDefine)
		if !ok2 {
			continue
		}
		if tc.find(lhsEnd) != tc.find(rhsEnd) {
			tc.identify(lhsEnd, rhsEnd)
		}
	}
}

// Run drives enumeration to completion or until the Runner is stopped
// (spec §4.3). The stop token is checked once every cfg.BatchSize
// processed cosets; a single relation trace or a packing sweep is not
// interrupted by a stop request.
func (tc *ToddCoxeter) Run() {
	tc.run.Resume()
	tc.run.Run(func() bool {
		node := tc.cursor
		if node == -1 {
			node = tc.firstActive
		}
		processed := 0
		for node != -1 {
			if !tc.alive[node] {
				node = tc.forward[node]
				continue
			}
			next := tc.forward[node]
			tc.processCoset(node, true)
			if tc.alive[node] {
				// Re-read: processCoset may have appended new cosets after node.
				next = tc.forward[node]
			}
			processed++
			if tc.numActive > tc.packThreshold {
				tc.pack()
			}
			if processed%tc.cfg.BatchSize == 0 {
				tc.run.Report("todd-coxeter: %s active cosets (%s elapsed)", runner.Sizef(tc.numActive), runner.Durationf(tc.run.Elapsed()))
				if tc.run.ShouldStop() {
					tc.cursor = next
					return false
				}
			}
			node = next
		}
		tc.compress()
		tc.complete = true
		return true
	})
}

// pack performs the periodic compaction phase (spec §4.3 "Pack"):
// repeated no-add sweeps over the active cosets, tracing every relation
// without allocating, until a sweep kills fewer than packKillFloor
// cosets. The threshold then grows by 10% (spec: "grown by 10% after
// each triggering").
func (tc *ToddCoxeter) pack() {
	for {
		before := tc.numActive
		node := tc.firstActive
		for node != -1 {
			if !tc.alive[node] {
				node = tc.forward[node]
				continue
			}
			next := tc.forward[node]
			tc.processCoset(node, false)
			node = next
		}
		if before-tc.numActive < packKillFloor {
			break
		}
	}
	tc.packThreshold = config.GrowPackThreshold(tc.packThreshold)
}

// compress renumbers the active cosets densely (spec §4.3
// Compression), discarding the dead rows accumulated by identification.
func (tc *ToddCoxeter) compress() {
	mapping := make([]int, len(tc.alive))
	for i := range mapping {
		mapping[i] = -1
	}
	var order []int
	for c := tc.firstActive; c != -1; c = tc.forward[c] {
		mapping[c] = len(order)
		order = append(order, c)
	}

	newTable := dtable.New(len(order), tc.alphabetSize)
	for newIdx, old := range order {
		for a := 0; a < tc.alphabetSize; a++ {
			t := tc.table.Get(old, a)
			if t == Undefined {
				newTable.Set(newIdx, a, Undefined)
			} else {
				newTable.Set(newIdx, a, mapping[tc.find(t)])
			}
		}
	}
	tc.table = newTable
	tc.compressMap = mapping
}

// Complete reports whether enumeration has finished.
func (tc *ToddCoxeter) Complete() bool { return tc.complete }

// NumberOfClasses returns the number of congruence classes, valid only
// after completion (spec §4.3 number_of_classes): the active cosets
// minus the adjoined identity coset 0.
func (tc *ToddCoxeter) NumberOfClasses() int {
	if !tc.complete {
		return Unknown
	}
	return tc.table.NumberOfRows() - 1
}

// WordToClassIndex follows the table from coset 0 along w's letters
// (spec §4.3 word_to_class_index); if it reaches a defined coset,
// returns (coset - 1), else Unknown.
func (tc *ToddCoxeter) WordToClassIndex(w present.Word) int {
	node, ok := tc.readTrace(0, w)
	if !ok {
		return Unknown
	}
	return node - 1
}

// CurrentEquals reports whether u and v trace to the same coset from 0
// (spec §4.3 current_equals): TRUE as soon as both walks agree, FALSE
// only once enumeration is complete and they disagree, else UNKNOWN.
func (tc *ToddCoxeter) CurrentEquals(u, v present.Word) Answer {
	nu, oku := tc.readTrace(0, u)
	nv, okv := tc.readTrace(0, v)
	if oku && okv && nu == nv {
		return AnswerTrue
	}
	if tc.complete && oku && okv {
		return AnswerFalse
	}
	return AnswerUnknown
}

// IdentifyElements merges the classes of the prefilled cosets
// representing element indices i and j (offset by 1 for the adjoined
// identity coset 0, spec §4.3 Prefill), for seeding a right or
// two-sided congruence directly on a pre-enumerated semigroup rather
// than on a presentation's defining relations.
func (tc *ToddCoxeter) IdentifyElements(i, j int) {
	tc.identify(i+1, j+1)
}

// ElementClass returns the congruence class of the prefilled coset for
// element index i, valid only after Run has completed.
func (tc *ToddCoxeter) ElementClass(i int) int {
	if !tc.complete || tc.compressMap == nil {
		return Unknown
	}
	c := tc.compressMap[tc.find(i+1)]
	if c < 0 {
		return Unknown
	}
	return c - 1
}
