// Package affine implements the invertible affine maps S and T that hide the
// Rainbow central map.
package affine

import (
	"errors"
	"fmt"

	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/utils"
)

// DefaultMaxAttempts bounds the rejection sampling in Generate. A random
// square matrix over GF(16) is invertible with probability above 0.93, so the
// bound is only reached with a broken random source.
const DefaultMaxAttempts = 256

var (
	// ErrAttemptsExhausted is returned when no invertible matrix was sampled
	// within the attempt budget.
	ErrAttemptsExhausted = errors.New("affine: no invertible matrix within attempt budget")

	// ErrSingular is returned by New for a non-invertible matrix.
	ErrSingular = errors.New("affine: matrix is singular")
)

// Map is x -> M*x + v with M invertible. M^-1 is cached at construction.
type Map struct {
	matrix  gf16.Matrix
	inverse gf16.Matrix
	vector  gf16.Vector
}

// Generate samples a random invertible affine map of the given size. The
// matrix is resampled until it is invertible, at most maxAttempts times
// (DefaultMaxAttempts if maxAttempts <= 0). The number of matrices sampled is
// returned alongside the map.
func Generate(size int, src *utils.Source, maxAttempts int) (*Map, int, error) {
	if size <= 0 {
		return nil, 0, fmt.Errorf("affine: invalid size %d", size)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		m, err := src.Matrix(size, size)
		if err != nil {
			return nil, attempt, err
		}
		inv, ok := gf16.Inverse(m)
		if !ok {
			continue
		}
		v, err := src.Vector(size)
		if err != nil {
			return nil, attempt, err
		}
		return &Map{matrix: m, inverse: inv, vector: v}, attempt, nil
	}
	return nil, maxAttempts, ErrAttemptsExhausted
}

// New rebuilds a map from its matrix and translation, recomputing the inverse.
// The inputs are copied.
func New(matrix gf16.Matrix, vector gf16.Vector) (*Map, error) {
	if matrix.Rows() != matrix.Cols() || matrix.Rows() != len(vector) {
		return nil, fmt.Errorf("affine: inconsistent dimensions %dx%d, %d",
			matrix.Rows(), matrix.Cols(), len(vector))
	}
	inv, ok := gf16.Inverse(matrix)
	if !ok {
		return nil, ErrSingular
	}
	return &Map{matrix: matrix.Clone(), inverse: inv, vector: vector.Clone()}, nil
}

// Size returns the dimension of the map.
func (a *Map) Size() int {
	return len(a.vector)
}

// Matrix returns the linear part. The result must not be modified.
func (a *Map) Matrix() gf16.Matrix {
	return a.matrix
}

// Inverse returns the cached inverse of the linear part. The result must not
// be modified.
func (a *Map) Inverse() gf16.Matrix {
	return a.inverse
}

// Vector returns the translation. The result must not be modified.
func (a *Map) Vector() gf16.Vector {
	return a.vector
}

// Eval returns M*x + v.
func (a *Map) Eval(x gf16.Vector) gf16.Vector {
	if len(x) != a.Size() {
		panic(fmt.Sprintf("affine: Eval: dimension mismatch (%d != %d)", len(x), a.Size()))
	}
	x.MustBeValid("affine.Eval")
	return gf16.AddVectors(gf16.MatrixTimesVector(a.matrix, x), a.vector)
}

// EvalInverse returns M^-1*(y + v). Adding v undoes the translation because
// every element is its own additive inverse.
func (a *Map) EvalInverse(y gf16.Vector) gf16.Vector {
	if len(y) != a.Size() {
		panic(fmt.Sprintf("affine: EvalInverse: dimension mismatch (%d != %d)", len(y), a.Size()))
	}
	y.MustBeValid("affine.EvalInverse")
	return gf16.MatrixTimesVector(a.inverse, gf16.AddVectors(y, a.vector))
}

// Reset overwrites the secret material with zeros.
func (a *Map) Reset() {
	utils.ZeroizeMatrix(a.matrix)
	utils.ZeroizeMatrix(a.inverse)
	utils.ZeroizeVector(a.vector)
}
