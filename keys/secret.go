// Package keys holds Rainbow key material: the secret triple (S, F, T), the
// public quadratic system P = S o F o T derived from it, and their versioned
// CBOR encodings.
package keys

import (
	"fmt"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/affine"
	"github.com/BackendStack21/rainbow-go/central"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/utils"
)

// SecretKey is the trapdoor: S acts on the m outputs, T on the n inputs and
// F is the central map between them.
type SecretKey struct {
	Params rainbow.Params
	S      *affine.Map
	T      *affine.Map
	F      *central.Map
}

// Generate samples a secret key from src: S first, then T, then F. The same
// byte stream always yields the same key. The second result is the total
// number of matrices sampled for S and T.
func Generate(params rainbow.Params, src *utils.Source, maxAffineAttempts int) (*SecretKey, int, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, 0, err
	}

	s, sAttempts, err := affine.Generate(params.M(), src, maxAffineAttempts)
	if err != nil {
		return nil, sAttempts, fmt.Errorf("keys: generating S: %w", err)
	}
	t, tAttempts, err := affine.Generate(params.N(), src, maxAffineAttempts)
	if err != nil {
		return nil, sAttempts + tAttempts, fmt.Errorf("keys: generating T: %w", err)
	}
	f, err := central.Generate(params.V1, params.O1, params.O2, src)
	if err != nil {
		return nil, sAttempts + tAttempts, fmt.Errorf("keys: generating central map: %w", err)
	}

	return &SecretKey{Params: params, S: s, T: t, F: f}, sAttempts + tAttempts, nil
}

// Eval computes S(F(T(x))) directly from the trapdoor.
func (sk *SecretKey) Eval(x gf16.Vector) gf16.Vector {
	return sk.S.Eval(sk.F.Eval(sk.T.Eval(x)))
}

// Reset overwrites the affine maps with zeros. The central map is left to
// the garbage collector.
func (sk *SecretKey) Reset() {
	sk.S.Reset()
	sk.T.Reset()
}
