package utils

import (
	"errors"

	"github.com/BackendStack21/rainbow-go/gf16"
)

var (
	// ErrInvalidElement indicates a value outside [0,16) where a field element was expected.
	ErrInvalidElement = errors.New("invalid field element")

	// ErrNonZeroPadding indicates a packed encoding with garbage in its padding nibble.
	ErrNonZeroPadding = errors.New("non-zero padding nibble")
)

// PackedLen returns the number of bytes needed to pack n field elements.
func PackedLen(n int) int {
	return (n + 1) / 2
}

// PackNibbles packs field elements two per byte, high nibble first. An odd
// trailing element leaves the low nibble of the last byte zero.
func PackNibbles(v gf16.Vector) ([]byte, error) {
	out := make([]byte, PackedLen(len(v)))
	for i, e := range v {
		if !e.Valid() {
			return nil, ErrInvalidElement
		}
		if i%2 == 0 {
			out[i/2] = byte(e) << 4
		} else {
			out[i/2] |= byte(e)
		}
	}
	return out, nil
}

// UnpackNibbles is the inverse of PackNibbles for exactly n elements.
func UnpackNibbles(data []byte, n int) (gf16.Vector, error) {
	if n < 0 || len(data) != PackedLen(n) {
		return nil, ErrInvalidLength
	}
	v := gf16.NewVector(n)
	for i := range v {
		b := data[i/2]
		if i%2 == 0 {
			v[i] = gf16.Element(b >> 4)
		} else {
			v[i] = gf16.Element(b & 0x0F)
		}
	}
	if n%2 == 1 && data[len(data)-1]&0x0F != 0 {
		return nil, ErrNonZeroPadding
	}
	return v, nil
}
