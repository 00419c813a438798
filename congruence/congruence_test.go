package congruence

import (
	"testing"
	"time"

	"github.com/ehrlich-b/semigroups/config"
	"github.com/ehrlich-b/semigroups/element"
	"github.com/ehrlich-b/semigroups/fpsemigroup"
	"github.com/ehrlich-b/semigroups/present"
)

// The bicyclic monoid {b,c}, rule bc = epsilon, is infinite, so
// Todd-Coxeter never completes; Knuth-Bendix finishes immediately (no
// critical pairs) and should win the race. bccb and cbbc both reduce
// to the same idempotent cb.
func TestEqualsRacesToAConclusiveAnswer(t *testing.T) {
	p := present.New(2) // b=0, c=1
	p.AddRule(present.Word{0, 1}, present.Word{})

	cfg := config.New(config.WithBatchSize(8), config.WithReportEvery(10*time.Millisecond))
	sup := New(p, nil, OneSided, WithConfig(cfg))

	got, err := sup.Equals(present.Word{0, 1, 1, 0}, present.Word{1, 0, 0, 1})
	if err != nil {
		t.Fatalf("Equals returned error: %v", err)
	}
	if !got {
		t.Error("bccb should equal cbbc in the bicyclic monoid")
	}
}

func t3Generators() []element.Element {
	return []element.Element{
		element.NewTransformation([]int{1, 0, 2}),
		element.NewTransformation([]int{1, 2, 0}),
		element.NewTransformation([]int{0, 1, 1}),
	}
}

// Orbit-on-pairs strategy, seeded from an already-enumerated semigroup
// Identifying two generators directly must make Equals report them
// equal, and NonTrivialClasses must report a block containing both.
func TestOrbitOnPairsStrategyOnSeededSemigroup(t *testing.T) {
	fp := fpsemigroup.New(nil, nil)
	for _, g := range t3Generators() {
		fp.AddGenerator(g)
	}
	if got := fp.Size(); got != 27 {
		t.Fatalf("|T_3| = %d, want 27", got)
	}

	p := present.New(3) // no defining relations: congruence comes entirely from the extra pair
	extra := [][2]present.Word{{{0}, {1}}}
	cfg := config.New(config.WithStrategyMask(config.StrategyOrbitOnPairs))
	sup := New(p, extra, OneSided, WithConfig(cfg), WithFroidurePin(fp))

	got, err := sup.Equals(present.Word{0}, present.Word{1})
	if err != nil {
		t.Fatalf("Equals returned error: %v", err)
	}
	if !got {
		t.Error("generators identified by the extra pair must compare equal")
	}

	blocks, err := sup.NonTrivialClasses()
	if err != nil {
		t.Fatalf("NonTrivialClasses returned error: %v", err)
	}
	pos0 := fp.Position(fp.Generator(0))
	pos1 := fp.Position(fp.Generator(1))
	found := false
	for _, b := range blocks {
		has0, has1 := false, false
		for _, i := range b {
			if i == pos0 {
				has0 = true
			}
			if i == pos1 {
				has1 = true
			}
		}
		if has0 && has1 {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected a non-trivial class containing both identified generators")
	}
}

// Driven through the Knuth-Bendix + Froidure-Pin strategy
// specifically: ba = ab should hold in the quotient once completion
// resolves the critical pairs.
func TestKnuthBendixFroidurePinStrategy(t *testing.T) {
	p := present.New(4) // a=0, A=1, b=2, B=3
	p.AddRule(present.Word{0, 1}, present.Word{})
	p.AddRule(present.Word{1, 0}, present.Word{})
	p.AddRule(present.Word{2, 3}, present.Word{})
	p.AddRule(present.Word{3, 2}, present.Word{})
	p.AddRule(present.Word{2, 0}, present.Word{0, 2})

	cfg := config.New(config.WithStrategyMask(config.StrategyKnuthBendixFroidurePin))
	sup := New(p, nil, OneSided, WithConfig(cfg))

	got, err := sup.Equals(present.Word{2, 0}, present.Word{0, 2})
	if err != nil {
		t.Fatalf("Equals returned error: %v", err)
	}
	if !got {
		t.Error("expected ba == ab via the Knuth-Bendix + Froidure-Pin quotient")
	}
}

// MaxThreads (spec §6 "cap on supervisor-spawned workers") must still
// let every strategy run to completion when capped at 1 — it throttles
// concurrency, not correctness — as long as every selected strategy is
// one that terminates on its own. Orbit-on-pairs does, over the finite
// seeded T_3; Knuth-Bendix+Froidure-Pin does here because the quotient
// (free on a and c once b = a), though infinite, has both words as
// generators, which Position finds without enumerating further.
func TestMaxThreadsCapsConcurrencyWithoutBreakingCorrectness(t *testing.T) {
	fp := fpsemigroup.New(nil, nil)
	for _, g := range t3Generators() {
		fp.AddGenerator(g)
	}

	p := present.New(3)
	extra := [][2]present.Word{{{0}, {1}}}
	mask := config.StrategyOrbitOnPairs | config.StrategyKnuthBendixFroidurePin
	cfg := config.New(config.WithStrategyMask(mask), config.WithMaxThreads(1))
	sup := New(p, extra, OneSided, WithConfig(cfg), WithFroidurePin(fp))

	got, err := sup.Equals(present.Word{0}, present.Word{1})
	if err != nil {
		t.Fatalf("Equals returned error: %v", err)
	}
	if !got {
		t.Error("generators identified by the extra pair must compare equal even with MaxThreads=1")
	}
}

// Regression for the Todd-Coxeter post-compression index-space bug:
// ClassIndex (spec §4.3 word_to_class_index) must resolve correctly on
// a presentation whose completed enumeration involved a coincidence,
// not just a coincidence-free one. a^3 = a identifies the coset for
// a^3 with the coset for a, giving exactly two classes: {a} and {a^2}.
func TestClassIndexAfterCoincidences(t *testing.T) {
	p := present.New(1) // a = 0
	p.AddRule(present.Word{0, 0, 0}, present.Word{0})
	sup := New(p, nil, OneSided)

	c1, err := sup.ClassIndex(present.Word{0})
	if err != nil {
		t.Fatalf("ClassIndex(a): %v", err)
	}
	c3, err := sup.ClassIndex(present.Word{0, 0, 0})
	if err != nil {
		t.Fatalf("ClassIndex(a^3): %v", err)
	}
	if c1 != c3 {
		t.Errorf("a and a^3 should land in the same class (a^3 = a), got %d and %d", c1, c3)
	}
	c2, err := sup.ClassIndex(present.Word{0, 0})
	if err != nil {
		t.Fatalf("ClassIndex(a^2): %v", err)
	}
	if c2 == c1 {
		t.Errorf("a^2 should be in a different class from a, got both %d", c1)
	}

	n, err := sup.NumberOfClasses()
	if err != nil {
		t.Fatalf("NumberOfClasses: %v", err)
	}
	if n != 2 {
		t.Errorf("number of classes = %d, want 2", n)
	}
}
