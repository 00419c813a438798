// Package congruence implements the congruence supervisor: it races
// several independent strategies for deciding a congruence question —
// Todd-Coxeter, Knuth-Bendix, Knuth-Bendix followed by Froidure-Pin on
// the quotient, and direct orbit-on-pairs via union-find — and reports
// the first conclusive answer, cancelling the rest.
package congruence

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ehrlich-b/semigroups/config"
	"github.com/ehrlich-b/semigroups/errs"
	"github.com/ehrlich-b/semigroups/fpsemigroup"
	"github.com/ehrlich-b/semigroups/kb"
	"github.com/ehrlich-b/semigroups/present"
	"github.com/ehrlich-b/semigroups/runner"
	"github.com/ehrlich-b/semigroups/toddcoxeter"
	"github.com/ehrlich-b/semigroups/unionfind"
)

// Kind distinguishes a one-sided (right) congruence from a two-sided
// one. Left congruences are not first-class: dualise the presentation
// before constructing a Supervisor.
type Kind int

const (
	OneSided Kind = iota
	TwoSided
)

func (k Kind) toTC() toddcoxeter.Kind {
	if k == TwoSided {
		return toddcoxeter.TwoSided
	}
	return toddcoxeter.OneSided
}

// Answer is the three-valued result of a congruence query.
type Answer int

const (
	Unknown Answer = iota
	True
	False
)

// Supervisor answers questions about the congruence on a presentation's
// alphabet generated by the presentation's relations plus an optional
// set of extra generating pairs.
type Supervisor struct {
	pres       *present.Presentation
	extraPairs [][2]present.Word
	kind       Kind
	fp         *fpsemigroup.FroidurePin
	cfg        *config.Config
	sink       runner.Reporter
}

// Option configures a Supervisor at construction.
type Option func(*Supervisor)

// WithFroidurePin seeds the supervisor with an already-enumerated
// semigroup over the same generators as pres's alphabet, enabling the
// orbit-on-pairs strategy and the NonTrivialClasses query.
func WithFroidurePin(fp *fpsemigroup.FroidurePin) Option {
	return func(s *Supervisor) { s.fp = fp }
}

// WithConfig overrides the default configuration (strategy mask,
// max threads, etc.).
func WithConfig(cfg *config.Config) Option {
	return func(s *Supervisor) { s.cfg = cfg }
}

// WithReporter sets the sink every spawned strategy's Runner reports to.
func WithReporter(sink runner.Reporter) Option {
	return func(s *Supervisor) { s.sink = sink }
}

// New constructs a Supervisor over pres's relations plus extraPairs,
// computing a one-sided or two-sided congruence per kind.
func New(pres *present.Presentation, extraPairs [][2]present.Word, kind Kind, opts ...Option) *Supervisor {
	s := &Supervisor{pres: pres, extraPairs: extraPairs, kind: kind, cfg: config.New()}
	for _, o := range opts {
		o(s)
	}
	if s.cfg == nil {
		s.cfg = config.New()
	}
	return s
}

func (s *Supervisor) presentationWithExtras() *present.Presentation {
	p := present.New(s.pres.AlphabetSize)
	p.Rules = append(p.Rules, s.pres.Rules...)
	for _, pr := range s.extraPairs {
		p.AddRule(pr[0], pr[1])
	}
	return p
}

// Equals races the strategies named in the configured strategy mask and
// returns the first conclusive TRUE/FALSE answer, cancelling the rest.
// An all-Unknown result surfaces as errs.Inconclusive.
func (s *Supervisor) Equals(u, v present.Word) (bool, error) {
	cfg := s.cfg
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopOnCancel := func(r *runner.Runner) {
		go func() {
			<-ctx.Done()
			r.Stop()
		}()
	}

	results := make(chan Answer, 4)
	var g errgroup.Group
	g.SetLimit(cfg.MaxThreads)

	if cfg.StrategyMask.Has(config.StrategyToddCoxeter) {
		g.Go(func() error {
			tc := toddcoxeter.New(s.pres, s.extraPairs, s.kind.toTC(), cfg, s.sink)
			stopOnCancel(tc.Runner())
			tc.Run()
			results <- tcAnswer(tc.CurrentEquals(u, v))
			return nil
		})
	}
	if cfg.StrategyMask.Has(config.StrategyKnuthBendix) {
		g.Go(func() error {
			engine := kb.New(s.presentationWithExtras(), cfg, s.sink)
			stopOnCancel(engine.Runner())
			engine.Run()
			results <- kbAnswer(engine.TestEquals(u, v))
			return nil
		})
	}
	if cfg.StrategyMask.Has(config.StrategyKnuthBendixFroidurePin) {
		g.Go(func() error {
			results <- s.knuthBendixFroidurePinEquals(u, v, cfg)
			return nil
		})
	}
	if cfg.StrategyMask.Has(config.StrategyOrbitOnPairs) && s.fp != nil {
		g.Go(func() error {
			results <- s.orbitOnPairsEquals(u, v)
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	winner := Unknown
	for ans := range results {
		if ans != Unknown && winner == Unknown {
			winner = ans
			cancel()
		}
	}
	if winner == Unknown {
		return false, errs.New(errs.Inconclusive, "no strategy reached a conclusive answer")
	}
	return winner == True, nil
}

func tcAnswer(a toddcoxeter.Answer) Answer {
	switch a {
	case toddcoxeter.AnswerTrue:
		return True
	case toddcoxeter.AnswerFalse:
		return False
	default:
		return Unknown
	}
}

func kbAnswer(a kb.Answer) Answer {
	switch a {
	case kb.True:
		return True
	case kb.False:
		return False
	default:
		return Unknown
	}
}

// knuthBendixFroidurePinEquals runs Knuth-Bendix to confluence over
// pres+extraPairs, then enumerates the quotient's rewriting-semigroup
// elements via Froidure-Pin and compares u, v by position.
func (s *Supervisor) knuthBendixFroidurePinEquals(u, v present.Word, cfg *config.Config) Answer {
	engine := kb.New(s.presentationWithExtras(), cfg, s.sink)
	engine.Run()
	if !engine.Confluent() {
		return Unknown
	}
	rw := engine.Rewriter()
	quotient := fpsemigroup.New(cfg, s.sink)
	for a := 0; a < s.pres.AlphabetSize; a++ {
		quotient.AddGenerator(kb.NewElement(rw, s.pres.AlphabetSize, present.Word{a}))
	}
	pu := quotient.Position(kb.NewElement(rw, s.pres.AlphabetSize, u))
	pv := quotient.Position(kb.NewElement(rw, s.pres.AlphabetSize, v))
	if pu == fpsemigroup.NotFound || pv == fpsemigroup.NotFound {
		return Unknown
	}
	if pu == pv {
		return True
	}
	return False
}

// wordToFPIndex composes w's generators in s.fp and returns the
// resulting element's position, or -1 if w is empty (the identity is
// not itself an element of a non-monoid semigroup) or unreachable.
func wordToFPIndex(fp *fpsemigroup.FroidurePin, w present.Word) int {
	if len(w) == 0 {
		return fpsemigroup.NotFound
	}
	cur := fp.Generator(w[0]).Copy()
	for _, a := range w[1:] {
		next := cur.Copy()
		next.MultiplyInto(cur, fp.Generator(a))
		cur = next
	}
	return fp.Position(cur)
}

// buildOrbitUnionFind computes the congruence directly on s.fp's
// element indices: seed the generating pairs, then saturate by right
// multiplication (and left too, for a two-sided congruence) until no
// further union is possible.
func (s *Supervisor) buildOrbitUnionFind() *unionfind.UnionFind {
	n := s.fp.Size()
	uf := unionfind.New(n)

	var queue [][2]int
	seed := func(lhs, rhs present.Word) {
		pu, pv := wordToFPIndex(s.fp, lhs), wordToFPIndex(s.fp, rhs)
		if pu != fpsemigroup.NotFound && pv != fpsemigroup.NotFound {
			queue = append(queue, [2]int{pu, pv})
		}
	}
	for _, r := range s.pres.Rules {
		seed(r.Lhs, r.Rhs)
	}
	for _, pr := range s.extraPairs {
		seed(pr[0], pr[1])
	}

	for len(queue) > 0 {
		pair := queue[0]
		queue = queue[1:]
		if !uf.Union(pair[0], pair[1]) {
			continue
		}
		for a := 0; a < s.fp.NumberOfGenerators(); a++ {
			ra, rb := s.fp.Right(pair[0], a), s.fp.Right(pair[1], a)
			if !uf.Connected(ra, rb) {
				queue = append(queue, [2]int{ra, rb})
			}
			if s.kind == TwoSided {
				la, lb := s.fp.Left(pair[0], a), s.fp.Left(pair[1], a)
				if !uf.Connected(la, lb) {
					queue = append(queue, [2]int{la, lb})
				}
			}
		}
	}
	return uf
}

func (s *Supervisor) orbitOnPairsEquals(u, v present.Word) Answer {
	if s.fp == nil {
		return Unknown
	}
	pu, pv := wordToFPIndex(s.fp, u), wordToFPIndex(s.fp, v)
	if pu == fpsemigroup.NotFound || pv == fpsemigroup.NotFound {
		return Unknown
	}
	uf := s.buildOrbitUnionFind()
	if uf.Connected(pu, pv) {
		return True
	}
	return False
}

// ClassIndex returns w's congruence class via Todd-Coxeter coset
// enumeration.
func (s *Supervisor) ClassIndex(w present.Word) (int, error) {
	tc := toddcoxeter.New(s.pres, s.extraPairs, s.kind.toTC(), s.cfg, s.sink)
	tc.Run()
	idx := tc.WordToClassIndex(w)
	if idx == toddcoxeter.Unknown {
		return 0, errs.New(errs.Inconclusive, "word does not resolve to a defined class")
	}
	return idx, nil
}

// NumberOfClasses returns the total class count via Todd-Coxeter,
// erroring with errs.Stopped if enumeration did not complete.
func (s *Supervisor) NumberOfClasses() (int, error) {
	tc := toddcoxeter.New(s.pres, s.extraPairs, s.kind.toTC(), s.cfg, s.sink)
	tc.Run()
	if !tc.Complete() {
		return 0, errs.New(errs.Stopped, "todd-coxeter enumeration did not complete")
	}
	return tc.NumberOfClasses(), nil
}

// NonTrivialClasses enumerates every class with more than one member,
// backed by the orbit-on-pairs strategy's union-find blocks. Requires a
// seeded Froidure-Pin: a bare presentation has no finite element
// indexing to enumerate blocks over.
func (s *Supervisor) NonTrivialClasses() ([][]int, error) {
	if s.fp == nil {
		return nil, errs.New(errs.NotImplemented, "non_trivial_classes requires a seeded semigroup")
	}
	uf := s.buildOrbitUnionFind()
	var blocks [][]int
	for _, b := range uf.Blocks() {
		if len(b) > 1 {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}
