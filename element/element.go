// Package element defines the capability interface every semigroup
// element kind implements, plus two concrete kinds — Transformation and
// PartialPerm — sufficient to drive the Froidure-Pin enumerator end to
// end (Knuth-Bendix works on words; its quotient elements are
// kb.Element). Every higher layer (Froidure-Pin, the
// congruence supervisor) manipulates elements only through this
// interface; matrices over a semiring, partitioned binary relations,
// bipartitions, and permutations are out of scope and not implemented
// here.
package element

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Element is the capability set every concrete semigroup element
// implements. Implementations are value-like: Copy produces an
// independent value, and MultiplyInto writes into an existing value
// without allocation.
type Element interface {
	// Degree returns the size of the domain this element acts on.
	Degree() int
	// Complexity is a cost hint for Multiply, used by callers deciding
	// how to batch work; it need not be exact.
	Complexity() int
	// Hash must be consistent with Equals: equal elements hash equal.
	Hash() uint64
	Equals(other Element) bool
	// Less is a strict total order consistent with Equals and Hash.
	Less(other Element) bool
	// MultiplyInto sets the receiver to a*b.
	MultiplyInto(a, b Element)
	// Identity returns the identity element of the same kind and degree.
	Identity() Element
	Copy() Element
	// CopyInto overwrites dest with the receiver's value.
	CopyInto(dest Element)
	// ExpandDegree grows the element's domain to n, for kinds (like
	// Transformation) whose degree is extensible.
	ExpandDegree(n int)
}

func hashInts(vals []int) uint64 {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	sum := blake2b.Sum512(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

// Transformation is a total self-map of {0, ..., degree-1}, represented
// as images[x] = f(x).
type Transformation struct {
	images []int
}

// NewTransformation copies images into a new Transformation.
func NewTransformation(images []int) *Transformation {
	t := &Transformation{images: make([]int, len(images))}
	copy(t.images, images)
	return t
}

func (t *Transformation) Degree() int     { return len(t.images) }
func (t *Transformation) Complexity() int { return len(t.images) }
func (t *Transformation) Hash() uint64    { return hashInts(t.images) }

func (t *Transformation) At(x int) int { return t.images[x] }

func (t *Transformation) Equals(other Element) bool {
	o, ok := other.(*Transformation)
	if !ok || len(o.images) != len(t.images) {
		return false
	}
	for i, v := range t.images {
		if o.images[i] != v {
			return false
		}
	}
	return true
}

func (t *Transformation) Less(other Element) bool {
	o := other.(*Transformation)
	n := len(t.images)
	if len(o.images) != n {
		return n < len(o.images)
	}
	for i := 0; i < n; i++ {
		if t.images[i] != o.images[i] {
			return t.images[i] < o.images[i]
		}
	}
	return false
}

// MultiplyInto sets the receiver to a then b, i.e. (a*b)(x) = b(a(x)) —
// the right-action convention Froidure-Pin's left/right Cayley graphs
// assume.
func (t *Transformation) MultiplyInto(a, b Element) {
	af, bf := a.(*Transformation), b.(*Transformation)
	n := af.Degree()
	if len(t.images) != n {
		t.images = make([]int, n)
	}
	for x := 0; x < n; x++ {
		t.images[x] = bf.images[af.images[x]]
	}
}

func (t *Transformation) Identity() Element {
	id := make([]int, len(t.images))
	for i := range id {
		id[i] = i
	}
	return NewTransformation(id)
}

func (t *Transformation) Copy() Element { return NewTransformation(t.images) }

func (t *Transformation) CopyInto(dest Element) {
	d := dest.(*Transformation)
	if len(d.images) != len(t.images) {
		d.images = make([]int, len(t.images))
	}
	copy(d.images, t.images)
}

func (t *Transformation) ExpandDegree(n int) {
	if n <= len(t.images) {
		return
	}
	grown := make([]int, n)
	copy(grown, t.images)
	for i := len(t.images); i < n; i++ {
		grown[i] = i
	}
	t.images = grown
}

// Undefined marks an undefined image point in a PartialPerm.
const Undefined = -1

// PartialPerm is an injective partial map of {0, ..., degree-1}, with
// images[x] == Undefined where the map is undefined at x.
type PartialPerm struct {
	images []int
}

func NewPartialPerm(images []int) *PartialPerm {
	p := &PartialPerm{images: make([]int, len(images))}
	copy(p.images, images)
	return p
}

func (p *PartialPerm) Degree() int     { return len(p.images) }
func (p *PartialPerm) Complexity() int { return len(p.images) }
func (p *PartialPerm) Hash() uint64    { return hashInts(p.images) }
func (p *PartialPerm) At(x int) int    { return p.images[x] }

func (p *PartialPerm) Equals(other Element) bool {
	o, ok := other.(*PartialPerm)
	if !ok || len(o.images) != len(p.images) {
		return false
	}
	for i, v := range p.images {
		if o.images[i] != v {
			return false
		}
	}
	return true
}

func (p *PartialPerm) Less(other Element) bool {
	o := other.(*PartialPerm)
	n := len(p.images)
	if len(o.images) != n {
		return n < len(o.images)
	}
	for i := 0; i < n; i++ {
		if p.images[i] != o.images[i] {
			return p.images[i] < o.images[i]
		}
	}
	return false
}

func (p *PartialPerm) MultiplyInto(a, b Element) {
	af, bf := a.(*PartialPerm), b.(*PartialPerm)
	n := af.Degree()
	if len(p.images) != n {
		p.images = make([]int, n)
	}
	for x := 0; x < n; x++ {
		if af.images[x] == Undefined {
			p.images[x] = Undefined
			continue
		}
		p.images[x] = bf.images[af.images[x]]
	}
}

func (p *PartialPerm) Identity() Element {
	id := make([]int, len(p.images))
	for i := range id {
		id[i] = i
	}
	return NewPartialPerm(id)
}

func (p *PartialPerm) Copy() Element { return NewPartialPerm(p.images) }

func (p *PartialPerm) CopyInto(dest Element) {
	d := dest.(*PartialPerm)
	if len(d.images) != len(p.images) {
		d.images = make([]int, len(p.images))
	}
	copy(d.images, p.images)
}

func (p *PartialPerm) ExpandDegree(n int) {
	if n <= len(p.images) {
		return
	}
	grown := make([]int, n)
	copy(grown, p.images)
	for i := len(p.images); i < n; i++ {
		grown[i] = Undefined
	}
	p.images = grown
}
