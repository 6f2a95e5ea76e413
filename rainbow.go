// Package rainbow implements the Rainbow multivariate-quadratic signature scheme
// over GF(16).
//
// A secret, efficiently invertible quadratic map F (two chained oil-and-vinegar
// layers) is hidden between two secret affine maps S and T. The public key is the
// composed quadratic system P = S o F o T, which anyone can evaluate but only the
// holder of (S, F, T) can invert.
//
// WARNING: Rainbow has known practical key-recovery attacks at its standardised
// parameter sets. This package is meant for study and experimentation.
package rainbow

// Version of the Rainbow Go implementation.
const Version = "0.3.0"

// API summary:
//
// Key generation:
//   - sign.GenerateKeyPair(set) - Generate a key pair for a named parameter set
//   - sign.GenerateKeyPairFromSeed(params, seed) - Deterministic key pair from a seed
//
// Signatures:
//   - sign.Sign(sk, digest, rng, opts) - Invert the public map on a digest vector
//   - sign.Verify(pk, signature, digest) - Evaluate the public map and compare
//   - sign.New(params, opts).SignMessage / VerifyMessage - Message level API with digests
//
// Parameters:
//   - core.GetParams(set) - Get parameters for a named set
//   - Toy, Small, Classic - predefined parameter sets
