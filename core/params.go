// Package core provides parameter sets and validation for Rainbow.
package core

import (
	"errors"
	"fmt"

	rainbow "github.com/BackendStack21/rainbow-go"
)

// MaxVariables bounds n = v1+o1+o2. Public keys grow with m*n^2, so anything
// larger is almost certainly a corrupted or hostile parameter header.
const MaxVariables = 255

// ToyParams is the (1,1,1) instance used for test vectors.
var ToyParams = rainbow.Params{
	Set: rainbow.Toy,
	V1:  1,
	O1:  1,
	O2:  1,
}

// SmallParams is a quick instance for experiments and benchmarks.
var SmallParams = rainbow.Params{
	Set: rainbow.Small,
	V1:  8,
	O1:  8,
	O2:  8,
}

// ClassicParams is Rainbow(16,32,32,32).
var ClassicParams = rainbow.Params{
	Set: rainbow.Classic,
	V1:  32,
	O1:  32,
	O2:  32,
}

// GetParams returns the parameter set for the given name.
func GetParams(set rainbow.ParamSet) (rainbow.Params, error) {
	switch set {
	case rainbow.Toy:
		return ToyParams, nil
	case rainbow.Small:
		return SmallParams, nil
	case rainbow.Classic:
		return ClassicParams, nil
	default:
		return rainbow.Params{}, fmt.Errorf("unknown parameter set: %s", set)
	}
}

// AllParams lists the predefined parameter sets, smallest first.
func AllParams() []rainbow.Params {
	return []rainbow.Params{ToyParams, SmallParams, ClassicParams}
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(params rainbow.Params) error {
	if params.V1 <= 0 {
		return errors.New("v1 must be positive")
	}
	if params.O1 <= 0 || params.O2 <= 0 {
		return errors.New("oil variable counts must be positive")
	}
	// Bound each count before summing so N() and M() cannot overflow.
	if params.V1 > MaxVariables || params.O1 > MaxVariables || params.O2 > MaxVariables {
		return fmt.Errorf("too many variables: each count must be at most %d", MaxVariables)
	}
	if params.N() > MaxVariables {
		return fmt.Errorf("too many variables: %d > %d", params.N(), MaxVariables)
	}
	if params.Set != "" {
		named, err := GetParams(params.Set)
		if err != nil {
			return err
		}
		if !named.SameShape(params) {
			return fmt.Errorf("dimensions do not match parameter set %s", params.Set)
		}
	}
	return nil
}

// SignatureSize returns the encoded signature size in bytes (two field
// elements per byte).
func SignatureSize(params rainbow.Params) int {
	return (params.N() + 1) / 2
}

// DigestElements returns the number of field elements a digest must carry.
func DigestElements(params rainbow.Params) int {
	return params.M()
}

// PublicKeyElements returns the number of field elements in an encoded public
// key: per equation a folded upper-triangular quadratic block, n linear
// coefficients and a constant.
func PublicKeyElements(params rainbow.Params) int {
	n := params.N()
	return params.M() * (n*(n+1)/2 + n + 1)
}

// SecretKeyElements returns the number of field elements in an encoded secret
// key: S and T (matrix and translation) followed by both central map layers.
func SecretKeyElements(params rainbow.Params) int {
	n, m := params.N(), params.M()
	total := m*m + m + n*n + n
	total += layerElements(params.V1, params.O1)
	total += layerElements(params.V1+params.O1, params.O2)
	return total
}

func layerElements(vi, oi int) int {
	// alpha (vi*vi), gammav (vi), delta (1), beta (vi*oi), gammao (oi)
	return oi * (vi*vi + vi + 1 + vi*oi + oi)
}
