package kb

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/ehrlich-b/semigroups/element"
	"github.com/ehrlich-b/semigroups/present"
)

// Element is a "rewriting-semigroup element": a word held in its
// Knuth-Bendix normal form, multiplied by concatenation followed by a
// rewrite. It lets a confluent rule set seed a Froidure-Pin enumeration
// of the quotient semigroup directly, without a separate element
// representation for the quotient.
type Element struct {
	rw           *present.Rewriter
	alphabetSize int
	w            present.Word
}

// NewElement wraps w (already in, or about to be reduced to, normal
// form under rw) as a quotient-semigroup element.
func NewElement(rw *present.Rewriter, alphabetSize int, w present.Word) *Element {
	return &Element{rw: rw, alphabetSize: alphabetSize, w: rw.Rewrite(w)}
}

func (e *Element) Degree() int     { return e.alphabetSize }
func (e *Element) Complexity() int { return len(e.w) + 1 }

func (e *Element) Hash() uint64 {
	buf := make([]byte, 8*len(e.w))
	for i, a := range e.w {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(a))
	}
	sum := blake2b.Sum512(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

func (e *Element) Equals(other element.Element) bool {
	o, ok := other.(*Element)
	return ok && e.w.Equals(o.w)
}

func (e *Element) Less(other element.Element) bool {
	o := other.(*Element)
	return present.ShortLexLess(e.w, o.w)
}

// MultiplyInto sets the receiver to the normal form of a's word
// concatenated with b's.
func (e *Element) MultiplyInto(a, b element.Element) {
	af, bf := a.(*Element), b.(*Element)
	concat := make(present.Word, 0, len(af.w)+len(bf.w))
	concat = append(concat, af.w...)
	concat = append(concat, bf.w...)
	e.rw = af.rw
	e.alphabetSize = af.alphabetSize
	e.w = e.rw.Rewrite(concat)
}

func (e *Element) Identity() element.Element {
	return &Element{rw: e.rw, alphabetSize: e.alphabetSize, w: present.Word{}}
}

func (e *Element) Copy() element.Element {
	return &Element{rw: e.rw, alphabetSize: e.alphabetSize, w: e.w.Clone()}
}

func (e *Element) CopyInto(dest element.Element) {
	d := dest.(*Element)
	d.rw, d.alphabetSize, d.w = e.rw, e.alphabetSize, e.w.Clone()
}

// ExpandDegree is a no-op: a rewriting-semigroup element's degree is
// fixed to the presentation's alphabet size.
func (e *Element) ExpandDegree(int) {}

// Word returns the element's current normal-form word.
func (e *Element) Word() present.Word { return e.w }

// Rewriter exposes the shared rewriter backing this element, for
// callers (the congruence supervisor) that construct a whole generator
// set against one confluent rule system.
func (e *Element) Rewriter() *present.Rewriter { return e.rw }
