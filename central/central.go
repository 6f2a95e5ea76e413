// Package central implements the Rainbow central map: two chained
// oil-vinegar layers whose oil variables can be recovered by linear algebra
// once the vinegar variables are fixed.
package central

import (
	"errors"
	"fmt"

	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/utils"
)

// DefaultMaxInversionAttempts bounds the vinegar resampling in Invert.
const DefaultMaxInversionAttempts = 256

// ErrInversionExhausted is returned by Invert when no vinegar sample within
// the attempt budget produced two solvable layers.
var ErrInversionExhausted = errors.New("central: inversion attempts exhausted")

// Map is the two-layer central map F. Layer 1 has v1 vinegar and o1 oil
// variables; layer 2 uses all v1+o1 variables of layer 1 as its vinegar.
type Map struct {
	v1, o1, o2 int
	layer1     *Layer
	layer2     *Layer
}

// Generate samples a central map, layer 1 first.
func Generate(v1, o1, o2 int, src *utils.Source) (*Map, error) {
	l1, err := GenerateLayer(v1, o1, src)
	if err != nil {
		return nil, err
	}
	l2, err := GenerateLayer(v1+o1, o2, src)
	if err != nil {
		return nil, err
	}
	return &Map{v1: v1, o1: o1, o2: o2, layer1: l1, layer2: l2}, nil
}

// New assembles a central map from two layers. Layer 2's vinegar count must
// equal layer 1's full width.
func New(l1, l2 *Layer) (*Map, error) {
	if l2.Vinegars() != l1.Vinegars()+l1.Oils() {
		return nil, fmt.Errorf("central: layer 2 has %d vinegars, want %d",
			l2.Vinegars(), l1.Vinegars()+l1.Oils())
	}
	return &Map{v1: l1.Vinegars(), o1: l1.Oils(), o2: l2.Oils(), layer1: l1, layer2: l2}, nil
}

// Layers returns both layers.
func (f *Map) Layers() (*Layer, *Layer) {
	return f.layer1, f.layer2
}

// Inputs returns n = v1+o1+o2.
func (f *Map) Inputs() int { return f.v1 + f.o1 + f.o2 }

// Outputs returns m = o1+o2.
func (f *Map) Outputs() int { return f.o1 + f.o2 }

// Eval evaluates layer 1 on the first v1+o1 coordinates and layer 2 on all
// of x, returning the o1 then o2 outputs.
func (f *Map) Eval(x gf16.Vector) gf16.Vector {
	if len(x) != f.Inputs() {
		panic(fmt.Sprintf("central: Eval: dimension mismatch (%d != %d)", len(x), f.Inputs()))
	}
	out := make(gf16.Vector, 0, f.Outputs())
	out = append(out, f.layer1.Eval(x[:f.v1+f.o1])...)
	return append(out, f.layer2.Eval(x)...)
}

// Invert returns some x with Eval(x) = y together with the number of
// vinegar samples it took.
//
// Each attempt draws fresh vinegar values from src and solves layer 1 for
// its oil variables, then layer 2 with the layer 1 result as vinegar. A
// singular system at either layer starts a new attempt. After maxAttempts
// failed attempts (DefaultMaxInversionAttempts if maxAttempts <= 0) it
// returns ErrInversionExhausted.
func (f *Map) Invert(y gf16.Vector, src *utils.Source, maxAttempts int) (gf16.Vector, int, error) {
	if len(y) != f.Outputs() {
		panic(fmt.Sprintf("central: Invert: dimension mismatch (%d != %d)", len(y), f.Outputs()))
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxInversionAttempts
	}
	y1, y2 := y[:f.o1], y[f.o1:]

	x := gf16.NewVector(f.Inputs())
	vinegar := x[:f.v1]
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := src.Fill(vinegar); err != nil {
			return nil, attempt, err
		}

		oil1, ok := gf16.Solve(f.layer1.BuildLinearSystem(vinegar, y1))
		if !ok {
			continue
		}
		copy(x[f.v1:], oil1)

		oil2, ok := gf16.Solve(f.layer2.BuildLinearSystem(x[:f.v1+f.o1], y2))
		if !ok {
			continue
		}
		copy(x[f.v1+f.o1:], oil2)
		return x, attempt, nil
	}
	utils.ZeroizeVector(x)
	return nil, maxAttempts, ErrInversionExhausted
}
