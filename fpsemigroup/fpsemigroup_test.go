package fpsemigroup

import (
	"testing"

	"github.com/ehrlich-b/semigroups/element"
)

// fullTransformationGenerators builds the classical 3-generator set for
// the full transformation monoid T_n: a transposition, an n-cycle, and
// an idempotent of rank n-1.
func fullTransformationGenerators(n int) []element.Element {
	transposition := make([]int, n)
	for i := range transposition {
		transposition[i] = i
	}
	transposition[0], transposition[1] = transposition[1], transposition[0]

	cycle := make([]int, n)
	for i := range cycle {
		cycle[i] = (i + 1) % n
	}

	idempotent := make([]int, n)
	for i := range idempotent {
		idempotent[i] = i
	}
	idempotent[n-1] = n - 2

	return []element.Element{
		element.NewTransformation(transposition),
		element.NewTransformation(cycle),
		element.NewTransformation(idempotent),
	}
}

func TestFullTransformationMonoidSizes(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{3, 27},
		{4, 256},
		{5, 3125},
	}
	if !testing.Short() {
		cases = append(cases,
			struct {
				n    int
				want int
			}{6, 46656},
			struct {
				n    int
				want int
			}{7, 823543},
		)
	}
	for _, c := range cases {
		fp := New(nil, nil)
		for _, g := range fullTransformationGenerators(c.n) {
			fp.AddGenerator(g)
		}
		got := fp.Size()
		if got != c.want {
			t.Errorf("T_%d size = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestFactorisationSoundness(t *testing.T) {
	fp := New(nil, nil)
	for _, g := range fullTransformationGenerators(3) {
		fp.AddGenerator(g)
	}
	n := fp.Size()
	for i := 0; i < n; i++ {
		w := fp.Factorisation(i)
		elem := wordToElement(fp, w)
		if fp.Position(elem) != i {
			t.Fatalf("position(word_to_element(factorisation(%d))) = %d, want %d", i, fp.Position(elem), i)
		}
	}
}

func wordToElement(fp *FroidurePin, w []int) element.Element {
	cur := fp.Generator(w[0]).Copy()
	for _, a := range w[1:] {
		next := cur.Copy()
		next.MultiplyInto(cur, fp.Generator(a))
		cur = next
	}
	return cur
}

func TestCayleyGraphCoherence(t *testing.T) {
	fp := New(nil, nil)
	for _, g := range fullTransformationGenerators(3) {
		fp.AddGenerator(g)
	}
	n := fp.Size()
	for i := 0; i < n; i++ {
		for a := 0; a < fp.NumberOfGenerators(); a++ {
			prod := fp.At(i).Copy()
			prod.MultiplyInto(fp.At(i), fp.Generator(a))
			if fp.Right(i, a) != fp.Position(prod) {
				t.Errorf("right(%d,%d) = %d, want position = %d", i, a, fp.Right(i, a), fp.Position(prod))
			}
			prod2 := fp.At(i).Copy()
			prod2.MultiplyInto(fp.Generator(a), fp.At(i))
			if fp.Left(i, a) != fp.Position(prod2) {
				t.Errorf("left(%d,%d) = %d, want position = %d", i, a, fp.Left(i, a), fp.Position(prod2))
			}
		}
	}
}

func TestDuplicateGeneratorDoesNotCorruptPosition(t *testing.T) {
	fp := New(nil, nil)
	a := element.NewTransformation([]int{1, 0, 2})
	fp.AddGenerator(a)
	fp.AddGenerator(a) // duplicate by equality
	if fp.NumberOfGenerators() != 2 {
		t.Fatalf("expected 2 generators recorded, got %d", fp.NumberOfGenerators())
	}
	// Both letters must resolve to the same element index.
	pos0 := fp.Position(fp.Generator(0))
	pos1 := fp.Position(fp.Generator(1))
	if pos0 != pos1 {
		t.Errorf("duplicate generators should share a position, got %d and %d", pos0, pos1)
	}
}

func TestAddGeneratorExtendsWithoutRecomputing(t *testing.T) {
	fp := New(nil, nil)
	fp.AddGenerator(element.NewTransformation([]int{1, 0, 2}))
	sizeBefore := fp.Size()
	if sizeBefore != 2 {
		t.Fatalf("size with one transposition = %d, want 2", sizeBefore)
	}
	for _, g := range fullTransformationGenerators(3)[1:] {
		fp.AddGenerator(g)
	}
	if got := fp.Size(); got != 27 {
		t.Errorf("size after extending to full T_3 generators = %d, want 27", got)
	}
}

func TestPositionNotFoundOnExhaustedSemigroup(t *testing.T) {
	fp := New(nil, nil)
	fp.AddGenerator(element.NewTransformation([]int{1, 0, 2}))
	fp.Size() // exhausts: {id, transposition}
	other := element.NewTransformation([]int{2, 1, 0})
	if fp.Position(other) != NotFound {
		t.Errorf("expected NotFound for an element outside the enumerated semigroup")
	}
}

func TestEnumerateIdempotence(t *testing.T) {
	fp := New(nil, nil)
	for _, g := range fullTransformationGenerators(3) {
		fp.AddGenerator(g)
	}
	first := fp.Size()
	second := fp.Size()
	if first != second {
		t.Errorf("Size() not idempotent: %d then %d", first, second)
	}
}
