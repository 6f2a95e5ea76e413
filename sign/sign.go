// Package sign implements Rainbow key generation, signing and verification.
package sign

import (
	"errors"
	"fmt"
	"io"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/keys"
	"github.com/BackendStack21/rainbow-go/utils"
)

// DomainKeyGen separates the key generation stream of a seed.
const DomainKeyGen = "rainbow-keygen-v1"

var (
	// ErrInvalidInput is wrapped by every input validation error. It is
	// distinct from a signature that merely fails to verify.
	ErrInvalidInput = errors.New("sign: invalid input")

	// ErrInvalidDigest is returned for a digest whose length is not m.
	ErrInvalidDigest = fmt.Errorf("%w: digest length", ErrInvalidInput)

	// ErrInvalidSignature is returned for a signature whose length is not n
	// or whose encoding is malformed.
	ErrInvalidSignature = fmt.Errorf("%w: signature", ErrInvalidInput)

	// ErrInvalidElement is returned for vectors holding values outside GF(16).
	ErrInvalidElement = fmt.Errorf("%w: element out of range", ErrInvalidInput)

	// ErrParamsMismatch is returned when keys, signatures or a scheme were
	// made for different parameters.
	ErrParamsMismatch = fmt.Errorf("%w: parameter mismatch", ErrInvalidInput)
)

// KeyPair holds a secret key and the public key derived from it.
type KeyPair struct {
	PublicKey *keys.PublicKey
	SecretKey *keys.SecretKey
}

// GenerateKeyPair generates a key pair for a named parameter set from a
// fresh random seed.
func GenerateKeyPair(set rainbow.ParamSet) (*KeyPair, error) {
	params, err := core.GetParams(set)
	if err != nil {
		return nil, err
	}

	seed, err := utils.SecureRandomBytes(32)
	if err != nil {
		return nil, err
	}

	kp, err := GenerateKeyPairFromSeed(params, seed)
	utils.Zeroize(seed)
	return kp, err
}

// GenerateKeyPairFromSeed generates a deterministic key pair. The seed must
// be at least 32 bytes and pass utils.ValidateSeedEntropy.
func GenerateKeyPairFromSeed(params rainbow.Params, seed []byte) (*KeyPair, error) {
	kp, _, err := generateFromSeed(params, seed, 0)
	return kp, err
}

func generateFromSeed(params rainbow.Params, seed []byte, maxAffineAttempts int) (*KeyPair, int, error) {
	if len(seed) < 32 {
		return nil, 0, errors.New("seed must be at least 32 bytes")
	}
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, 0, err
	}
	return generate(params, utils.NewShakeReader(DomainKeyGen, seed), maxAffineAttempts)
}

func generate(params rainbow.Params, rng io.Reader, maxAffineAttempts int) (*KeyPair, int, error) {
	sk, attempts, err := keys.Generate(params, utils.NewSource(rng), maxAffineAttempts)
	if err != nil {
		return nil, attempts, err
	}
	return &KeyPair{PublicKey: keys.Derive(sk), SecretKey: sk}, attempts, nil
}

// Sign returns a signature x with P(x) = digest, computed as
// T^-1(F^-1(S^-1(digest))). The vinegar values are drawn from rng
// (crypto/rand if nil). Only opts.MaxInversionAttempts is consulted; a nil
// opts uses the defaults.
func Sign(sk *keys.SecretKey, digest gf16.Vector, rng io.Reader, opts *Options) (gf16.Vector, error) {
	maxAttempts := 0
	if opts != nil {
		maxAttempts = opts.MaxInversionAttempts
	}
	sig, _, err := sign(sk, digest, rng, maxAttempts)
	return sig, err
}

func sign(sk *keys.SecretKey, digest gf16.Vector, rng io.Reader, maxAttempts int) (gf16.Vector, int, error) {
	if len(digest) != sk.Params.M() {
		return nil, 0, fmt.Errorf("%w: %d elements, want %d", ErrInvalidDigest, len(digest), sk.Params.M())
	}
	if !digest.Valid() {
		return nil, 0, ErrInvalidElement
	}

	y := sk.S.EvalInverse(digest)
	x, attempts, err := sk.F.Invert(y, utils.NewSource(rng), maxAttempts)
	utils.ZeroizeVector(y)
	if err != nil {
		return nil, attempts, err
	}
	sig := sk.T.EvalInverse(x)
	utils.ZeroizeVector(x)
	return sig, attempts, nil
}

// Verify reports whether P(signature) = digest. Malformed input (wrong
// lengths or out of range elements) is rejected with an error before any
// evaluation; a well formed but wrong signature yields false and no error.
func Verify(pk *keys.PublicKey, signature, digest gf16.Vector) (bool, error) {
	if len(signature) != pk.Params.N() {
		return false, fmt.Errorf("%w: %d elements, want %d", ErrInvalidSignature, len(signature), pk.Params.N())
	}
	if len(digest) != pk.Params.M() {
		return false, fmt.Errorf("%w: %d elements, want %d", ErrInvalidDigest, len(digest), pk.Params.M())
	}
	if !signature.Valid() || !digest.Valid() {
		return false, ErrInvalidElement
	}
	return pk.Eval(signature).Equal(digest), nil
}
