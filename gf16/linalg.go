package gf16

import (
	"crypto/subtle"
	"fmt"
)

// Vector is a vector of field elements.
type Vector []Element

// Matrix is a rectangular matrix stored as rows. All rows have the same length.
type Matrix []Vector

func mismatch(op string, a, b int) {
	panic(fmt.Sprintf("gf16: %s: dimension mismatch (%d != %d)", op, a, b))
}

// NewVector returns a zero vector of length n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	return append(Vector(nil), v...)
}

// Equal reports whether v and w hold the same elements. The comparison runs
// in time independent of the contents.
func (v Vector) Equal(w Vector) bool {
	if len(v) != len(w) {
		return false
	}
	var diff Element
	for i := range v {
		diff |= v[i] ^ w[i]
	}
	return subtle.ConstantTimeByteEq(uint8(diff), 0) == 1
}

// Valid reports whether every entry of v is a field element.
func (v Vector) Valid() bool {
	for _, e := range v {
		if !e.Valid() {
			return false
		}
	}
	return true
}

// MustBeValid panics, naming op, if any entry of v is not a field element.
func (v Vector) MustBeValid(op string) {
	for i, e := range v {
		if !e.Valid() {
			panic(fmt.Sprintf("gf16: %s: element %d out of range (%d)", op, i, e))
		}
	}
}

// NewMatrix returns a zero rows x cols matrix backed by a single allocation.
func NewMatrix(rows, cols int) Matrix {
	backing := make(Vector, rows*cols)
	m := make(Matrix, rows)
	for i := range m {
		m[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	c := NewMatrix(m.Rows(), m.Cols())
	for i := range m {
		copy(c[i], m[i])
	}
	return c
}

// Equal reports whether m and o have the same shape and entries.
func (m Matrix) Equal(o Matrix) bool {
	if m.Rows() != o.Rows() || m.Cols() != o.Cols() {
		return false
	}
	for i := range m {
		if !m[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// IsUpperTriangular reports whether every entry below the diagonal is zero.
func (m Matrix) IsUpperTriangular() bool {
	for i := range m {
		for j := 0; j < i && j < len(m[i]); j++ {
			if m[i][j] != 0 {
				return false
			}
		}
	}
	return true
}

// Dot returns the inner product of a and b.
func Dot(a, b Vector) Element {
	if len(a) != len(b) {
		mismatch("Dot", len(a), len(b))
	}
	var r Element
	for i := range a {
		r ^= Mul(a[i], b[i])
	}
	return r
}

// AddVectors returns a + b.
func AddVectors(a, b Vector) Vector {
	if len(a) != len(b) {
		mismatch("AddVectors", len(a), len(b))
	}
	r := make(Vector, len(a))
	for i := range a {
		r[i] = a[i] ^ b[i]
	}
	return r
}

// ScaleVector returns s*v.
func ScaleVector(v Vector, s Element) Vector {
	r := make(Vector, len(v))
	for i := range v {
		r[i] = Mul(v[i], s)
	}
	return r
}

// VectorTimesMatrix returns the row vector x^T * m.
func VectorTimesMatrix(x Vector, m Matrix) Vector {
	if len(x) != m.Rows() {
		mismatch("VectorTimesMatrix", len(x), m.Rows())
	}
	r := make(Vector, m.Cols())
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		for j, mij := range m[i] {
			r[j] ^= Mul(xi, mij)
		}
	}
	return r
}

// MatrixTimesVector returns m * x.
func MatrixTimesVector(m Matrix, x Vector) Vector {
	if len(x) != m.Cols() {
		mismatch("MatrixTimesVector", m.Cols(), len(x))
	}
	r := make(Vector, m.Rows())
	for i := range m {
		r[i] = Dot(m[i], x)
	}
	return r
}

// MatrixMul returns a * b.
func MatrixMul(a, b Matrix) Matrix {
	if a.Cols() != b.Rows() {
		mismatch("MatrixMul", a.Cols(), b.Rows())
	}
	r := NewMatrix(a.Rows(), b.Cols())
	for i := range a {
		for k, aik := range a[i] {
			if aik == 0 {
				continue
			}
			for j, bkj := range b[k] {
				r[i][j] ^= Mul(aik, bkj)
			}
		}
	}
	return r
}

// Transpose returns m^T.
func Transpose(m Matrix) Matrix {
	r := NewMatrix(m.Cols(), m.Rows())
	for i := range m {
		for j, e := range m[i] {
			r[j][i] = e
		}
	}
	return r
}

// AddMatrices returns a + b.
func AddMatrices(a, b Matrix) Matrix {
	if a.Rows() != b.Rows() {
		mismatch("AddMatrices", a.Rows(), b.Rows())
	}
	if a.Cols() != b.Cols() {
		mismatch("AddMatrices", a.Cols(), b.Cols())
	}
	r := NewMatrix(a.Rows(), a.Cols())
	for i := range a {
		for j := range a[i] {
			r[i][j] = a[i][j] ^ b[i][j]
		}
	}
	return r
}

// ScaleMatrix returns s*m.
func ScaleMatrix(m Matrix, s Element) Matrix {
	r := NewMatrix(m.Rows(), m.Cols())
	for i := range m {
		for j, e := range m[i] {
			r[i][j] = Mul(e, s)
		}
	}
	return r
}

// Inverse computes m^-1 by Gauss-Jordan elimination of [m | I].
//
// The second result is false when m is singular. Callers sampling random
// matrices treat that as a signal to resample, not as an error.
func Inverse(m Matrix) (Matrix, bool) {
	n := m.Rows()
	if m.Cols() != n {
		mismatch("Inverse", n, m.Cols())
	}
	a := m.Clone()
	inv := Identity(n)

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if a[r][col] != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		p := a[col][col]
		for j := 0; j < n; j++ {
			a[col][j] = Div(a[col][j], p)
			inv[col][j] = Div(inv[col][j], p)
		}

		for r := 0; r < n; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for j := 0; j < n; j++ {
				a[r][j] ^= Mul(f, a[col][j])
				inv[r][j] ^= Mul(f, inv[col][j])
			}
		}
	}
	return inv, true
}

// Solve returns the unique x with m*x = b.
//
// The second result is false when m is singular, in which case the system has
// either no solution or many and the caller is expected to retry with a
// different system.
func Solve(m Matrix, b Vector) (Vector, bool) {
	n := m.Rows()
	if m.Cols() != n {
		mismatch("Solve", n, m.Cols())
	}
	if len(b) != n {
		mismatch("Solve", n, len(b))
	}
	a := m.Clone()
	y := b.Clone()

	// Forward elimination to upper-triangular form with a unit diagonal.
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if a[r][col] != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		y[col], y[pivot] = y[pivot], y[col]

		p := a[col][col]
		for j := col; j < n; j++ {
			a[col][j] = Div(a[col][j], p)
		}
		y[col] = Div(y[col], p)

		for r := col + 1; r < n; r++ {
			f := a[r][col]
			if f == 0 {
				continue
			}
			for j := col; j < n; j++ {
				a[r][j] ^= Mul(f, a[col][j])
			}
			y[r] ^= Mul(f, y[col])
		}
	}

	// Back substitution.
	x := make(Vector, n)
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for j := i + 1; j < n; j++ {
			s ^= Mul(a[i][j], x[j])
		}
		x[i] = s
	}
	return x, true
}
