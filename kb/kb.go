// Package kb implements Knuth-Bendix completion over strings: starting
// from a finite presentation, it produces a confluent rewriting system
// by resolving critical pairs (overlapping rule left-hand sides) until
// no new consequence appears or the engine is stopped.
package kb

import (
	"github.com/ehrlich-b/semigroups/config"
	"github.com/ehrlich-b/semigroups/present"
	"github.com/ehrlich-b/semigroups/runner"
)

// Answer is the three-valued result of a query whose soundness depends
// on confluence: valid as true/false only once completion has
// finished, otherwise unknown is reported.
type Answer int

const (
	Unknown Answer = iota
	True
	False
)

// KnuthBendix runs completion over a presentation's alphabet, holding
// the current (possibly non-confluent) rule set in a present.Rewriter.
type KnuthBendix struct {
	alphabetSize int
	rw           *present.Rewriter
	cfg          *config.Config
	run          *runner.Runner
	confluent    bool
}

// New constructs a Knuth-Bendix engine seeded with the presentation's
// relations (each inserted via AddRule, so it starts already oriented
// and partially reduced).
func New(p *present.Presentation, cfg *config.Config, sink runner.Reporter) *KnuthBendix {
	if cfg == nil {
		cfg = config.New()
	}
	if cfg.KBOrdering != config.ShortLex {
		panic("kb: only the length-plus-lex ordering is implemented")
	}
	kb := &KnuthBendix{
		alphabetSize: p.AlphabetSize,
		rw:           present.NewRewriter(),
		cfg:          cfg,
		run:          runner.New(runner.ReporterFor(cfg, sink)),
	}
	for _, r := range p.Rules {
		kb.AddRule(r.Lhs, r.Rhs)
	}
	return kb
}

// Runner exposes the embedded Runner so callers can Stop/Kill it or
// check its State.
func (kb *KnuthBendix) Runner() *runner.Runner { return kb.run }

// Rewrite returns the normal form of w under the current rule set.
func (kb *KnuthBendix) Rewrite(w present.Word) present.Word { return kb.rw.Rewrite(w) }

// Rewriter exposes the internal rewriter so callers (the quotient
// Froidure-Pin strategy) can build rewriting-semigroup elements sharing
// this engine's rule set.
func (kb *KnuthBendix) Rewriter() *present.Rewriter { return kb.rw }

// Rules returns the current rule set, in discovery order.
func (kb *KnuthBendix) Rules() []present.Rule { return kb.rw.Rules() }

// AddRule normalises each side by the current rules and, if the reduced
// sides differ, inserts an oriented rule. If the insertion causes
// other rules to become reducible, those consequences are re-derived
// and inserted too by scanning existing rules for newly-reducible
// left- and right-hand sides. Returns whether any rule was ultimately
// added.
func (kb *KnuthBendix) AddRule(u, v present.Word) bool {
	kb.confluent = false
	worklist := [][2]present.Word{{u, v}}
	added := false
	for len(worklist) > 0 {
		pair := worklist[0]
		worklist = worklist[1:]
		ru := kb.rw.Rewrite(pair[0])
		rv := kb.rw.Rewrite(pair[1])
		if ru.Equals(rv) {
			continue
		}
		var lhs, rhs present.Word
		if present.ShortLexGreater(ru, rv) {
			lhs, rhs = ru, rv
		} else {
			lhs, rhs = rv, ru
		}
		reopened := kb.insertRuleOnce(lhs, rhs)
		added = true
		worklist = append(worklist, reopened...)
	}
	return added
}

// insertRuleOnce adds (lhs, rhs) to the rule set, then removes any
// existing rule whose lhs becomes reducible by it (returning those as
// pairs to re-derive) and re-reduces the rhs of every surviving rule.
func (kb *KnuthBendix) insertRuleOnce(lhs, rhs present.Word) [][2]present.Word {
	rules := append(append([]present.Rule{}, kb.rw.Rules()...), present.Rule{Lhs: lhs.Clone(), Rhs: rhs.Clone()})

	var kept []present.Rule
	var reopen [][2]present.Word
	for i, r := range rules {
		reducible := false
		for j, other := range rules {
			if i == j {
				continue
			}
			if containsSubword(r.Lhs, other.Lhs) {
				reducible = true
				break
			}
		}
		if reducible {
			reopen = append(reopen, [2]present.Word{r.Lhs, r.Rhs})
			continue
		}
		kept = append(kept, r)
	}

	kb.rw.SetRules(kept)
	for i, r := range kept {
		kept[i].Rhs = kb.rw.Rewrite(r.Rhs)
	}
	kb.rw.SetRules(kept)
	return reopen
}

func containsSubword(w, sub present.Word) bool {
	if len(sub) == 0 || len(sub) > len(w) {
		return false
	}
	for pos := 0; pos+len(sub) <= len(w); pos++ {
		match := true
		for i, a := range sub {
			if w[pos+i] != a {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// overlapPairs returns, for the current rule set, every critical pair
// arising from a nonempty overlap of one rule's lhs suffix with
// another's lhs prefix. Full containment is handled instead by
// insertRuleOnce's deduction pass.
func overlapPairs(rules []present.Rule) [][2]present.Word {
	var pairs [][2]present.Word
	for _, r1 := range rules {
		for _, r2 := range rules {
			n1, n2 := len(r1.Lhs), len(r2.Lhs)
			maxK := n1
			if n2 < maxK {
				maxK = n2
			}
			for k := 1; k < maxK; k++ {
				if !suffixEqualsPrefix(r1.Lhs, r2.Lhs, k) {
					continue
				}
				// word = r1.Lhs ++ r2.Lhs[k:]
				left := append(append(present.Word{}, r1.Rhs...), r2.Lhs[k:]...)
				right := append(append(present.Word{}, r1.Lhs[:n1-k]...), r2.Rhs...)
				pairs = append(pairs, [2]present.Word{left, right})
			}
		}
	}
	return pairs
}

func suffixEqualsPrefix(a, b present.Word, k int) bool {
	if k > len(a) || k > len(b) {
		return false
	}
	for i := 0; i < k; i++ {
		if a[len(a)-k+i] != b[i] {
			return false
		}
	}
	return true
}

// Confluent tests whether the current rule set is confluent, by
// enumerating all critical pairs and checking each resolves. This does
// not mutate the rule set.
func (kb *KnuthBendix) Confluent() bool {
	for _, pair := range overlapPairs(kb.rw.Rules()) {
		if !kb.rw.Rewrite(pair[0]).Equals(kb.rw.Rewrite(pair[1])) {
			return false
		}
	}
	kb.confluent = true
	return true
}

// Run runs completion until confluent or the Runner is stopped. Each
// pass over the critical-pair scanner is one suspension point.
func (kb *KnuthBendix) Run() {
	kb.run.Resume()
	kb.run.Run(func() bool {
		progressed := false
		for _, pair := range overlapPairs(kb.rw.Rules()) {
			if kb.run.ShouldStop() {
				return false
			}
			if kb.AddRule(pair[0], pair[1]) {
				progressed = true
			}
		}
		kb.run.Report("knuth-bendix: %s rules (%s elapsed)", runner.Sizef(len(kb.rw.Rules())), runner.Durationf(kb.run.Elapsed()))
		if !progressed {
			kb.confluent = true
			return true
		}
		return false
	})
}

// TestEquals returns whether u and v have the same normal form. The
// answer is reliable only once the engine has completed; otherwise it
// is reported as Unknown even though a rewrite-based guess exists.
func (kb *KnuthBendix) TestEquals(u, v present.Word) Answer {
	equal := kb.rw.Rewrite(u).Equals(kb.rw.Rewrite(v))
	if !kb.confluent {
		return Unknown
	}
	if equal {
		return True
	}
	return False
}

// TestLessThan compares the short-lex order of u and v's normal forms.
func (kb *KnuthBendix) TestLessThan(u, v present.Word) bool {
	return present.ShortLexLess(kb.rw.Rewrite(u), kb.rw.Rewrite(v))
}
