package keys

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/affine"
	"github.com/BackendStack21/rainbow-go/central"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/mq"
	"github.com/BackendStack21/rainbow-go/utils"
)

const (
	// EncodingVersion is the version written into every encoded key.
	EncodingVersion = 1

	secretKeyKind = "rainbow-secret-key"
	publicKeyKind = "rainbow-public-key"
)

var (
	// ErrUnsupportedVersion is returned for an encoding with an unknown version.
	ErrUnsupportedVersion = errors.New("keys: unsupported encoding version")

	// ErrWrongKind is returned when a public key is decoded as a secret key
	// or vice versa.
	ErrWrongKind = errors.New("keys: wrong key kind")

	// ErrMalformed is returned for encodings whose contents are inconsistent
	// with their declared dimensions.
	ErrMalformed = errors.New("keys: malformed key encoding")
)

var (
	ccbor cbor.EncMode
	dcbor cbor.DecMode
)

// encodedKey is the flat container shared by both key kinds. Elements holds
// the field elements nibble packed in a fixed order.
type encodedKey struct {
	Version  int
	Kind     string
	Set      rainbow.ParamSet `cbor:",omitempty"`
	V1       int
	O1       int
	O2       int
	Elements []byte
}

func (e *encodedKey) params() rainbow.Params {
	return rainbow.Params{Set: e.Set, V1: e.V1, O1: e.O1, O2: e.O2}
}

func marshalKey(kind string, params rainbow.Params, elements gf16.Vector) ([]byte, error) {
	packed, err := utils.PackNibbles(elements)
	if err != nil {
		return nil, err
	}
	return ccbor.Marshal(&encodedKey{
		Version:  EncodingVersion,
		Kind:     kind,
		Set:      params.Set,
		V1:       params.V1,
		O1:       params.O1,
		O2:       params.O2,
		Elements: packed,
	})
}

// unmarshalKey decodes the container, checks the header and returns the
// unpacked elements, which must number exactly want(params).
func unmarshalKey(data []byte, kind string, want func(rainbow.Params) int) (rainbow.Params, gf16.Vector, error) {
	if err := utils.CheckLength(len(data), utils.MaxEncodedKeySize); err != nil {
		return rainbow.Params{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var e encodedKey
	if err := dcbor.Unmarshal(data, &e); err != nil {
		return rainbow.Params{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if e.Version != EncodingVersion {
		return rainbow.Params{}, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, e.Version)
	}
	if e.Kind != kind {
		return rainbow.Params{}, nil, fmt.Errorf("%w: got %q, want %q", ErrWrongKind, e.Kind, kind)
	}
	params := e.params()
	if err := core.ValidateParams(params); err != nil {
		return rainbow.Params{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	n := want(params)
	if err := utils.CheckLength(n, utils.MaxEncodedElements); err != nil {
		return rainbow.Params{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	elements, err := utils.UnpackNibbles(e.Elements, n)
	if err != nil {
		return rainbow.Params{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return params, elements, nil
}

// reader hands out consecutive slices of a decoded element vector.
type reader struct {
	v gf16.Vector
}

func (r *reader) vector(n int) gf16.Vector {
	out := r.v[:n:n]
	r.v = r.v[n:]
	return out
}

func (r *reader) element() gf16.Element {
	return r.vector(1)[0]
}

func (r *reader) matrix(rows, cols int) gf16.Matrix {
	m := gf16.NewMatrix(rows, cols)
	for i := range m {
		copy(m[i], r.vector(cols))
	}
	return m
}

func appendMatrix(dst gf16.Vector, m gf16.Matrix) gf16.Vector {
	for _, row := range m {
		dst = append(dst, row...)
	}
	return dst
}

// MarshalBinary encodes the secret key. Elements are written in the order
// S matrix, S vector, T matrix, T vector, then for each layer and output
// polynomial alpha, gamma_v, delta, beta, gamma_o.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	elements := make(gf16.Vector, 0, core.SecretKeyElements(sk.Params))
	for _, a := range []*affine.Map{sk.S, sk.T} {
		elements = appendMatrix(elements, a.Matrix())
		elements = append(elements, a.Vector()...)
	}
	l1, l2 := sk.F.Layers()
	for _, l := range []*central.Layer{l1, l2} {
		for _, p := range l.Polynomials() {
			elements = appendMatrix(elements, p.Vinegar.Q())
			elements = append(elements, p.Vinegar.L()...)
			elements = append(elements, p.Vinegar.Constant())
			elements = appendMatrix(elements, p.Mixed.Q())
			elements = append(elements, p.Oil.L()...)
		}
	}
	defer utils.ZeroizeVector(elements)
	return marshalKey(secretKeyKind, sk.Params, elements)
}

// UnmarshalSecretKey decodes a secret key produced by MarshalBinary. The
// affine inverses are recomputed; singular maps and vinegar blocks with
// entries below the diagonal are rejected.
func UnmarshalSecretKey(data []byte) (*SecretKey, error) {
	params, elements, err := unmarshalKey(data, secretKeyKind, core.SecretKeyElements)
	if err != nil {
		return nil, err
	}
	defer utils.ZeroizeVector(elements)
	r := &reader{v: elements}
	n, m := params.N(), params.M()

	s, err := affine.New(r.matrix(m, m), r.vector(m))
	if err != nil {
		return nil, fmt.Errorf("%w: S: %v", ErrMalformed, err)
	}
	t, err := affine.New(r.matrix(n, n), r.vector(n))
	if err != nil {
		return nil, fmt.Errorf("%w: T: %v", ErrMalformed, err)
	}

	readLayer := func(vi, oi int) (*central.Layer, error) {
		polys := make([]central.Polynomial, oi)
		for i := range polys {
			alpha := r.matrix(vi, vi)
			gammaV := r.vector(vi).Clone()
			delta := r.element()
			beta := r.matrix(vi, oi)
			gammaO := r.vector(oi).Clone()
			polys[i] = central.Polynomial{
				Vinegar: mq.NewFull(alpha, gammaV, delta),
				Mixed:   mq.NewQuadraticOnly(beta),
				Oil:     mq.NewLinearOnly(gammaO),
			}
		}
		return central.NewLayer(vi, oi, polys)
	}
	l1, err := readLayer(params.V1, params.O1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	l2, err := readLayer(params.V1+params.O1, params.O2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	f, err := central.New(l1, l2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &SecretKey{Params: params, S: s, T: t, F: f}, nil
}

// MarshalBinary encodes the public key. Each polynomial is written as its
// quadratic block folded onto the upper triangle (Q[i][j] + Q[j][i] for
// i < j, row major), then L, then the constant. Folding does not change the
// value of x^T Q x.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	n := pk.Params.N()
	elements := make(gf16.Vector, 0, core.PublicKeyElements(pk.Params))
	for _, p := range pk.Polys {
		q := p.Q()
		for i := 0; i < n; i++ {
			elements = append(elements, q[i][i])
			for j := i + 1; j < n; j++ {
				elements = append(elements, q[i][j]^q[j][i])
			}
		}
		elements = append(elements, p.L()...)
		elements = append(elements, p.Constant())
	}
	return marshalKey(publicKeyKind, pk.Params, elements)
}

// UnmarshalPublicKey decodes a public key produced by MarshalBinary.
func UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	params, elements, err := unmarshalKey(data, publicKeyKind, core.PublicKeyElements)
	if err != nil {
		return nil, err
	}
	r := &reader{v: elements}
	n := params.N()
	polys := make([]*mq.Quadratic, params.M())
	for k := range polys {
		q := gf16.NewMatrix(n, n)
		for i := 0; i < n; i++ {
			copy(q[i][i:], r.vector(n-i))
		}
		l := r.vector(n).Clone()
		polys[k] = mq.NewFull(q, l, r.element())
	}
	return &PublicKey{Params: params, Polys: polys}, nil
}

func init() {
	var err error
	ccbor, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dcbor, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}
