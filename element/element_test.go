package element

import "testing"

func TestTransformationMultiply(t *testing.T) {
	a := NewTransformation([]int{1, 0, 2}) // swap 0,1
	b := NewTransformation([]int{0, 2, 1}) // swap 1,2
	c := NewTransformation([]int{0, 0, 0})
	c.MultiplyInto(a, b)
	// (a*b)(x) = b(a(x))
	want := []int{2, 0, 1}
	for x, w := range want {
		if c.At(x) != w {
			t.Errorf("c.At(%d) = %d, want %d", x, c.At(x), w)
		}
	}
}

func TestTransformationIdentityIsNeutral(t *testing.T) {
	a := NewTransformation([]int{2, 0, 1})
	id := a.Identity()
	prod := NewTransformation([]int{0, 0, 0})
	prod.MultiplyInto(a, id)
	if !prod.Equals(a) {
		t.Error("a * id should equal a")
	}
	prod.MultiplyInto(id, a)
	if !prod.Equals(a) {
		t.Error("id * a should equal a")
	}
}

func TestTransformationEqualsAndHash(t *testing.T) {
	a := NewTransformation([]int{0, 1, 2})
	b := NewTransformation([]int{0, 1, 2})
	if !a.Equals(b) {
		t.Error("equal images should be Equals")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal elements must hash equal")
	}
}

func TestTransformationLessTotalOrder(t *testing.T) {
	a := NewTransformation([]int{0, 1, 2})
	b := NewTransformation([]int{0, 1, 1})
	if !b.Less(a) && !a.Less(b) {
		t.Error("distinct elements must be ordered one way or the other")
	}
	if a.Less(b) && b.Less(a) {
		t.Error("Less must be antisymmetric")
	}
}

func TestTransformationExpandDegree(t *testing.T) {
	a := NewTransformation([]int{1, 0})
	a.ExpandDegree(4)
	if a.Degree() != 4 {
		t.Fatalf("degree = %d, want 4", a.Degree())
	}
	if a.At(2) != 2 || a.At(3) != 3 {
		t.Errorf("expanded points should fix themselves, got %d,%d", a.At(2), a.At(3))
	}
}

func TestPartialPermMultiplyWithUndefined(t *testing.T) {
	a := NewPartialPerm([]int{1, Undefined, 0})
	b := NewPartialPerm([]int{2, 0, 1})
	c := NewPartialPerm([]int{0, 0, 0})
	c.MultiplyInto(a, b)
	if c.At(0) != 0 {
		t.Errorf("c.At(0) = %d, want 0", c.At(0))
	}
	if c.At(1) != Undefined {
		t.Errorf("c.At(1) = %d, want Undefined", c.At(1))
	}
	if c.At(2) != 2 {
		t.Errorf("c.At(2) = %d, want 2", c.At(2))
	}
}
