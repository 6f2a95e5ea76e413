// Package gf16 implements arithmetic over GF(16) = GF(2)[x]/(x^4+x+1) together
// with the vector and matrix operations Rainbow needs.
//
// An Element is an integer in [0,16) whose bits are the coefficients
// (a3,a2,a1,a0) of a3*x^3+a2*x^2+a1*x+a0. Multiplication uses log/antilog
// tables; the generator is x (the element 2).
package gf16

// Order is the number of field elements.
const Order = 16

// Element is a GF(16) element. Values of 16 and above are not field elements;
// the arithmetic functions below panic on them.
type Element uint8

// expTable[i] = x^i. The period is 15; the trailing 1 lets inverses index
// expTable[15-log] without a modular reduction.
var expTable = [Order]Element{1, 2, 4, 8, 3, 6, 12, 11, 5, 10, 7, 14, 15, 13, 9, 1}

// logTable[a] = i such that x^i = a. logTable[0] is unused.
var logTable = [Order]uint8{0, 0, 1, 4, 2, 8, 5, 10, 3, 14, 9, 7, 6, 13, 11, 12}

// Valid reports whether a is a field element.
func (a Element) Valid() bool {
	return a < Order
}

// Add returns a + b. Addition is XOR, so every element is its own negative.
func Add(a, b Element) Element {
	return a ^ b
}

// Mul returns a * b. Both operands must be Valid.
func Mul(a, b Element) Element {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(int(logTable[a])+int(logTable[b]))%15]
}

// Inv returns the multiplicative inverse of a. Inv(0) is defined as 0 and a
// must be Valid.
func Inv(a Element) Element {
	if a == 0 {
		return 0
	}
	return expTable[15-int(logTable[a])]
}

// Div returns a / b, with division by zero yielding 0.
func Div(a, b Element) Element {
	return Mul(a, Inv(b))
}
