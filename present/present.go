// Package present implements finite presentations and their rewriting
// system: an alphabet, rules as ordered string pairs, validation, a
// rewriter that applies rules left-to-right to normal form, and the
// length-plus-lex well-order rules are kept under.
package present

import (
	"fmt"

	"github.com/ehrlich-b/semigroups/errs"
)

// Word is a finite sequence of letters, each in [0, alphabet size).
type Word []int

func (w Word) Equals(o Word) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if w[i] != o[i] {
			return false
		}
	}
	return true
}

func (w Word) Clone() Word {
	c := make(Word, len(w))
	copy(c, w)
	return c
}

// ShortLexLess implements the length-plus-lex order: shorter words are
// smaller; equal-length words compare lexicographically by letter
// value.
func ShortLexLess(u, v Word) bool {
	if len(u) != len(v) {
		return len(u) < len(v)
	}
	for i := range u {
		if u[i] != v[i] {
			return u[i] < v[i]
		}
	}
	return false
}

// ShortLexGreater is the strict inverse of ShortLexLess used to orient
// rewrite rules: every stored rule (l, r) satisfies l > r.
func ShortLexGreater(u, v Word) bool { return ShortLexLess(v, u) }

// Rule is an oriented rewrite rule lhs -> rhs with lhs short-lex greater
// than rhs.
type Rule struct {
	Lhs Word
	Rhs Word
}

// Presentation is a tuple (A, R): an alphabet of size AlphabetSize and
// a set of relation pairs.
type Presentation struct {
	AlphabetSize int
	Rules        []Rule
}

// New constructs an empty presentation over an alphabet of the given size.
func New(alphabetSize int) *Presentation {
	return &Presentation{AlphabetSize: alphabetSize}
}

// AddRule appends a relation (u, v) — not yet oriented; orientation is
// the rewriter's job.
func (p *Presentation) AddRule(u, v Word) {
	p.Rules = append(p.Rules, Rule{Lhs: u, Rhs: v})
}

// Validate checks the presentation's invariants: no letter in any rule
// lies outside the alphabet.
func (p *Presentation) Validate() error {
	if p.AlphabetSize < 0 {
		return errs.New(errs.InvalidArgument, "alphabet size must be non-negative")
	}
	for i, r := range p.Rules {
		for _, w := range [2]Word{r.Lhs, r.Rhs} {
			for _, a := range w {
				if a < 0 || a >= p.AlphabetSize {
					return errs.New(errs.InvalidArgument,
						fmt.Sprintf("rule %d: letter %d out of range [0, %d)", i, a, p.AlphabetSize))
				}
			}
		}
	}
	return nil
}

// Rewriter applies an ordered rule set to normal form: it consumes
// rules left-to-right and iterates until no rule applies.
type Rewriter struct {
	rules []Rule
}

// NewRewriter creates an empty rewriter.
func NewRewriter() *Rewriter { return &Rewriter{} }

// Rules returns the rule set in discovery order.
func (rw *Rewriter) Rules() []Rule { return rw.rules }

// AddRule appends a rule as-is (already oriented); callers (Knuth-Bendix)
// are responsible for orientation.
func (rw *Rewriter) AddRule(lhs, rhs Word) {
	rw.rules = append(rw.rules, Rule{Lhs: lhs.Clone(), Rhs: rhs.Clone()})
}

// SetRules replaces the rule set wholesale.
func (rw *Rewriter) SetRules(rules []Rule) { rw.rules = rules }

// Rewrite returns the normal form of w: repeatedly find the first rule
// whose lhs occurs as a substring, starting from the earliest position,
// replace it, and repeat until no rule matches.
func (rw *Rewriter) Rewrite(w Word) Word {
	cur := w.Clone()
	for {
		pos, rule, found := rw.firstMatch(cur)
		if !found {
			return cur
		}
		next := make(Word, 0, len(cur)-len(rule.Lhs)+len(rule.Rhs))
		next = append(next, cur[:pos]...)
		next = append(next, rule.Rhs...)
		next = append(next, cur[pos+len(rule.Lhs):]...)
		cur = next
	}
}

// firstMatch scans cur left to right; at each position it tries every
// rule in order and returns the first one whose lhs matches there.
func (rw *Rewriter) firstMatch(cur Word) (int, Rule, bool) {
	for pos := 0; pos <= len(cur); pos++ {
		for _, r := range rw.rules {
			if matchesAt(cur, pos, r.Lhs) {
				return pos, r, true
			}
		}
	}
	return 0, Rule{}, false
}

func matchesAt(w Word, pos int, lhs Word) bool {
	if len(lhs) == 0 {
		return false
	}
	if pos+len(lhs) > len(w) {
		return false
	}
	for i, a := range lhs {
		if w[pos+i] != a {
			return false
		}
	}
	return true
}
