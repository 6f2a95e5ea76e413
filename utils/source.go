package utils

import (
	"io"

	"github.com/BackendStack21/rainbow-go/gf16"
)

const sourceBufferSize = 64

// Source draws uniformly random field elements from a byte stream. Every byte
// yields two elements, high nibble first, so a deterministic stream always
// maps to the same element sequence regardless of how it is consumed.
//
// A Source is not safe for concurrent use.
type Source struct {
	r    io.Reader
	buf  [sourceBufferSize]byte
	pos  int // next nibble index into buf
	fill int // nibbles available in buf
}

// NewSource wraps r. A nil reader selects RandReader.
func NewSource(r io.Reader) *Source {
	if r == nil {
		r = RandReader
	}
	return &Source{r: r}
}

// Element returns the next random field element.
func (s *Source) Element() (gf16.Element, error) {
	if s.pos == s.fill {
		if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
			return 0, err
		}
		s.pos = 0
		s.fill = 2 * sourceBufferSize
	}
	b := s.buf[s.pos/2]
	var e gf16.Element
	if s.pos%2 == 0 {
		e = gf16.Element(b >> 4)
	} else {
		e = gf16.Element(b & 0x0F)
	}
	s.pos++
	return e, nil
}

// Vector returns a vector of n random elements.
func (s *Source) Vector(n int) (gf16.Vector, error) {
	v := gf16.NewVector(n)
	if err := s.Fill(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Fill overwrites v with random elements.
func (s *Source) Fill(v gf16.Vector) error {
	for i := range v {
		e, err := s.Element()
		if err != nil {
			return err
		}
		v[i] = e
	}
	return nil
}

// Matrix returns a rows x cols matrix of random elements, sampled row by row.
func (s *Source) Matrix(rows, cols int) (gf16.Matrix, error) {
	m := gf16.NewMatrix(rows, cols)
	for i := range m {
		if err := s.Fill(m[i]); err != nil {
			return nil, err
		}
	}
	return m, nil
}
