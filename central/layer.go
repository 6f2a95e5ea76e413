package central

import (
	"fmt"

	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/mq"
	"github.com/BackendStack21/rainbow-go/utils"
)

// Polynomial is one output of an oil-vinegar layer, split by the variable
// ranges its terms touch. There is no oil-by-oil term.
type Polynomial struct {
	// Vinegar is Full over the vinegar variables: upper-triangular alpha,
	// linear gamma_v and constant delta.
	Vinegar *mq.Quadratic
	// Mixed is QuadraticOnly, vinegar rows by oil columns (beta).
	Mixed *mq.Quadratic
	// Oil is LinearOnly over the oil variables (gamma_o).
	Oil *mq.Quadratic
}

// Eval evaluates the polynomial on vinegar values xv and oil values xo.
func (p *Polynomial) Eval(xv, xo gf16.Vector) gf16.Element {
	return p.Vinegar.EvalPair(xv, xv) ^ p.Mixed.EvalPair(xv, xo) ^ p.Oil.Eval(xo)
}

// Layer is an oil-vinegar layer with vi vinegar and oi oil variables and oi
// output polynomials. It is immutable after construction.
type Layer struct {
	vi, oi int
	polys  []Polynomial
}

// GenerateLayer samples a random layer. For each output polynomial the
// coefficients are drawn in a fixed order: for every vinegar row j the upper
// triangle alpha[j][j:], then beta[j][:], then gamma_v[j]; after all rows
// gamma_o and finally delta.
func GenerateLayer(vi, oi int, src *utils.Source) (*Layer, error) {
	if vi <= 0 || oi <= 0 {
		return nil, fmt.Errorf("central: invalid layer shape vi=%d oi=%d", vi, oi)
	}
	l := &Layer{vi: vi, oi: oi, polys: make([]Polynomial, oi)}
	for i := range l.polys {
		alpha := gf16.NewMatrix(vi, vi)
		beta := gf16.NewMatrix(vi, oi)
		gammaV := gf16.NewVector(vi)
		gammaO := gf16.NewVector(oi)

		for j := 0; j < vi; j++ {
			if err := src.Fill(alpha[j][j:]); err != nil {
				return nil, err
			}
			if err := src.Fill(beta[j]); err != nil {
				return nil, err
			}
			e, err := src.Element()
			if err != nil {
				return nil, err
			}
			gammaV[j] = e
		}
		if err := src.Fill(gammaO); err != nil {
			return nil, err
		}
		delta, err := src.Element()
		if err != nil {
			return nil, err
		}

		l.polys[i] = Polynomial{
			Vinegar: mq.NewFull(alpha, gammaV, delta),
			Mixed:   mq.NewQuadraticOnly(beta),
			Oil:     mq.NewLinearOnly(gammaO),
		}
	}
	return l, nil
}

// NewLayer assembles a layer from decoded polynomials. Each polynomial must
// have the variants and shapes GenerateLayer produces and an
// upper-triangular vinegar block.
func NewLayer(vi, oi int, polys []Polynomial) (*Layer, error) {
	if vi <= 0 || oi <= 0 || len(polys) != oi {
		return nil, fmt.Errorf("central: invalid layer shape vi=%d oi=%d polys=%d", vi, oi, len(polys))
	}
	for i, p := range polys {
		switch {
		case p.Vinegar == nil || p.Mixed == nil || p.Oil == nil:
			return nil, fmt.Errorf("central: polynomial %d is incomplete", i)
		case p.Vinegar.Kind() != mq.Full || p.Mixed.Kind() != mq.QuadraticOnly || p.Oil.Kind() != mq.LinearOnly:
			return nil, fmt.Errorf("central: polynomial %d has wrong variants", i)
		case p.Vinegar.Q().Rows() != vi || p.Vinegar.Q().Cols() != vi:
			return nil, fmt.Errorf("central: polynomial %d vinegar block is not %dx%d", i, vi, vi)
		case !p.Vinegar.Q().IsUpperTriangular():
			return nil, fmt.Errorf("central: polynomial %d vinegar block is not upper-triangular", i)
		case p.Mixed.Q().Rows() != vi || p.Mixed.Q().Cols() != oi:
			return nil, fmt.Errorf("central: polynomial %d mixed block is not %dx%d", i, vi, oi)
		case len(p.Oil.L()) != oi:
			return nil, fmt.Errorf("central: polynomial %d oil vector is not of length %d", i, oi)
		}
	}
	return &Layer{vi: vi, oi: oi, polys: append([]Polynomial(nil), polys...)}, nil
}

// Vinegars returns the number of vinegar variables.
func (l *Layer) Vinegars() int { return l.vi }

// Oils returns the number of oil variables, which is also the number of
// output polynomials.
func (l *Layer) Oils() int { return l.oi }

// Polynomials returns the output polynomials. The result must not be
// modified.
func (l *Layer) Polynomials() []Polynomial { return l.polys }

// Eval evaluates the layer on x = vinegar || oil (length vi+oi).
func (l *Layer) Eval(x gf16.Vector) gf16.Vector {
	if len(x) != l.vi+l.oi {
		panic(fmt.Sprintf("central: Layer.Eval: dimension mismatch (%d != %d)", len(x), l.vi+l.oi))
	}
	xv, xo := x[:l.vi], x[l.vi:]
	out := gf16.NewVector(l.oi)
	for i := range l.polys {
		out[i] = l.polys[i].Eval(xv, xo)
	}
	return out
}

// BuildLinearSystem fixes the vinegar variables and returns the oi x oi
// system A*xo = b whose solutions are the oil values mapping to target:
//
//	A[i] = vinegar^T * beta_i + gamma_o_i
//	b[i] = target[i] + vinegarQuad_i(vinegar, vinegar)
func (l *Layer) BuildLinearSystem(vinegar, target gf16.Vector) (gf16.Matrix, gf16.Vector) {
	if len(vinegar) != l.vi {
		panic(fmt.Sprintf("central: BuildLinearSystem: vinegar length %d != %d", len(vinegar), l.vi))
	}
	if len(target) != l.oi {
		panic(fmt.Sprintf("central: BuildLinearSystem: target length %d != %d", len(target), l.oi))
	}
	a := gf16.NewMatrix(l.oi, l.oi)
	b := gf16.NewVector(l.oi)
	for i, p := range l.polys {
		copy(a[i], gf16.AddVectors(gf16.VectorTimesMatrix(vinegar, p.Mixed.Q()), p.Oil.L()))
		b[i] = target[i] ^ p.Vinegar.EvalPair(vinegar, vinegar)
	}
	return a, b
}
