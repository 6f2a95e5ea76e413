// Package mq implements the quadratic polynomial fragments the Rainbow
// central map and public key are built from.
//
// A Quadratic is a tagged union over three variants:
//
//	Full           x,y -> x^T Q y + L.x + c   (Q square or rectangular, L over x)
//	QuadraticOnly  x,y -> x^T Q y
//	LinearOnly     x   -> L.x
//
// Operations check the variant and the shapes of their operands and panic
// when either is wrong. Combine and Scale return new values; AddToConstant
// is the only mutating operation.
package mq

import (
	"fmt"

	"github.com/BackendStack21/rainbow-go/gf16"
)

// Kind is the variant tag of a Quadratic.
type Kind uint8

const (
	// Full carries a quadratic block, a linear vector and a constant.
	Full Kind = iota
	// QuadraticOnly carries only a (possibly rectangular) bilinear block.
	QuadraticOnly
	// LinearOnly carries only a linear vector.
	LinearOnly
)

func (k Kind) String() string {
	switch k {
	case Full:
		return "Full"
	case QuadraticOnly:
		return "QuadraticOnly"
	case LinearOnly:
		return "LinearOnly"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Quadratic is a polynomial fragment of degree at most two over GF(16).
type Quadratic struct {
	kind Kind
	q    gf16.Matrix
	l    gf16.Vector
	c    gf16.Element
}

// NewFull returns x,y -> x^T q y + l.x + c. len(l) must equal q.Rows().
func NewFull(q gf16.Matrix, l gf16.Vector, c gf16.Element) *Quadratic {
	if len(l) != q.Rows() {
		panic(fmt.Sprintf("mq: NewFull: linear length %d does not match %d rows", len(l), q.Rows()))
	}
	return &Quadratic{kind: Full, q: q, l: l, c: c}
}

// NewQuadraticOnly returns x,y -> x^T q y.
func NewQuadraticOnly(q gf16.Matrix) *Quadratic {
	return &Quadratic{kind: QuadraticOnly, q: q}
}

// NewLinearOnly returns x -> l.x.
func NewLinearOnly(l gf16.Vector) *Quadratic {
	return &Quadratic{kind: LinearOnly, l: l}
}

// NewZero returns the zero Full polynomial over n variables.
func NewZero(n int) *Quadratic {
	return &Quadratic{kind: Full, q: gf16.NewMatrix(n, n), l: gf16.NewVector(n)}
}

// Kind returns the variant tag.
func (p *Quadratic) Kind() Kind {
	return p.kind
}

// Q returns the quadratic block, or nil for LinearOnly.
// The result must not be modified.
func (p *Quadratic) Q() gf16.Matrix {
	return p.q
}

// L returns the linear vector, or nil for QuadraticOnly.
// The result must not be modified.
func (p *Quadratic) L() gf16.Vector {
	return p.l
}

// Constant returns the constant term. It is zero unless the variant is Full.
func (p *Quadratic) Constant() gf16.Element {
	return p.c
}

// NumVars returns the length of the x argument.
func (p *Quadratic) NumVars() int {
	if p.kind == LinearOnly {
		return len(p.l)
	}
	return p.q.Rows()
}

func (p *Quadratic) expect(op string, kinds ...Kind) {
	for _, k := range kinds {
		if p.kind == k {
			return
		}
	}
	panic(fmt.Sprintf("mq: %s: not defined for %s", op, p.kind))
}

// Eval evaluates a LinearOnly polynomial, or a square Full polynomial on the
// diagonal x = y.
func (p *Quadratic) Eval(x gf16.Vector) gf16.Element {
	p.expect("Eval", LinearOnly, Full)
	if p.kind == LinearOnly {
		return gf16.Dot(p.l, x)
	}
	return p.EvalPair(x, x)
}

// EvalPair evaluates x^T Q y, adding L.x + c for Full polynomials.
func (p *Quadratic) EvalPair(x, y gf16.Vector) gf16.Element {
	p.expect("EvalPair", Full, QuadraticOnly)
	r := gf16.Dot(gf16.VectorTimesMatrix(x, p.q), y)
	if p.kind == Full {
		r ^= gf16.Dot(p.l, x) ^ p.c
	}
	return r
}

// Combine returns p + o. Both operands must have the same variant and shape.
func Combine(p, o *Quadratic) *Quadratic {
	if p.kind != o.kind {
		panic(fmt.Sprintf("mq: Combine: variant mismatch (%s, %s)", p.kind, o.kind))
	}
	r := &Quadratic{kind: p.kind, c: p.c ^ o.c}
	if p.kind != LinearOnly {
		r.q = gf16.AddMatrices(p.q, o.q)
	}
	if p.kind != QuadraticOnly {
		r.l = gf16.AddVectors(p.l, o.l)
	}
	return r
}

// Scale returns a*p.
func Scale(p *Quadratic, a gf16.Element) *Quadratic {
	r := &Quadratic{kind: p.kind, c: gf16.Mul(p.c, a)}
	if p.q != nil {
		r.q = gf16.ScaleMatrix(p.q, a)
	}
	if p.l != nil {
		r.l = gf16.ScaleVector(p.l, a)
	}
	return r
}

// AddToConstant adds v to the constant term in place.
func (p *Quadratic) AddToConstant(v gf16.Element) {
	p.expect("AddToConstant", Full)
	p.c ^= v
}
