package sign

import (
	"fmt"
	"io"

	"gopkg.in/op/go-logging.v1"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/instrument"
	"github.com/BackendStack21/rainbow-go/keys"
	"github.com/BackendStack21/rainbow-go/log"
)

// Options tunes a Scheme. The zero value is usable.
type Options struct {
	// MaxInversionAttempts bounds the vinegar resampling per signature.
	// Zero selects central.DefaultMaxInversionAttempts.
	MaxInversionAttempts int

	// MaxAffineAttempts bounds the matrix resampling for S and T during
	// key generation. Zero selects affine.DefaultMaxAttempts.
	MaxAffineAttempts int

	// Digester reduces messages for SignMessage and VerifyMessage.
	// Nil selects SHA256Digester.
	Digester Digester

	// Logger receives key generation, signing and verification events.
	// Nil discards them.
	Logger *logging.Logger
}

// Scheme binds a parameter set to its options and records metrics for every
// operation.
type Scheme struct {
	params rainbow.Params
	opts   Options
	log    *logging.Logger
}

// New returns a scheme for params. opts may be nil.
func New(params rainbow.Params, opts *Options) (*Scheme, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}
	s := &Scheme{params: params}
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.MaxInversionAttempts < 0 || s.opts.MaxAffineAttempts < 0 {
		return nil, fmt.Errorf("sign: negative attempt budget")
	}
	if s.opts.Digester == nil {
		s.opts.Digester = SHA256Digester{}
	}
	if _, err := s.opts.Digester.Digest(nil, params.M()); err != nil {
		return nil, err
	}
	s.log = s.opts.Logger
	if s.log == nil {
		s.log = log.Discard().GetLogger("rainbow/sign")
	}
	return s, nil
}

// Params returns the scheme's parameter set.
func (s *Scheme) Params() rainbow.Params {
	return s.params
}

// Digester returns the message digester in use.
func (s *Scheme) Digester() Digester {
	return s.opts.Digester
}

// GenerateKey generates a key pair from rng (crypto/rand if nil).
func (s *Scheme) GenerateKey(rng io.Reader) (*KeyPair, error) {
	kp, attempts, err := generate(s.params, rng, s.opts.MaxAffineAttempts)
	return s.keyGenerated(kp, attempts, err)
}

// GenerateKeyFromSeed generates a deterministic key pair from seed.
func (s *Scheme) GenerateKeyFromSeed(seed []byte) (*KeyPair, error) {
	kp, attempts, err := generateFromSeed(s.params, seed, s.opts.MaxAffineAttempts)
	return s.keyGenerated(kp, attempts, err)
}

func (s *Scheme) keyGenerated(kp *KeyPair, attempts int, err error) (*KeyPair, error) {
	if err != nil {
		s.log.Errorf("Key generation failed after %d affine samples: %v", attempts, err)
		return nil, err
	}
	instrument.KeyGenerated(attempts)
	s.log.Debugf("Generated %d-%d-%d key pair (%d affine samples)", s.params.V1, s.params.O1, s.params.O2, attempts)
	return kp, nil
}

func (s *Scheme) checkParams(p rainbow.Params) error {
	if !s.params.SameShape(p) {
		return fmt.Errorf("%w: key is %d-%d-%d, scheme is %d-%d-%d", ErrParamsMismatch,
			p.V1, p.O1, p.O2, s.params.V1, s.params.O1, s.params.O2)
	}
	return nil
}

// Sign signs a digest vector. See the package level Sign.
func (s *Scheme) Sign(sk *keys.SecretKey, digest gf16.Vector, rng io.Reader) (gf16.Vector, error) {
	if err := s.checkParams(sk.Params); err != nil {
		return nil, err
	}
	sig, attempts, err := sign(sk, digest, rng, s.opts.MaxInversionAttempts)
	if err != nil {
		s.log.Errorf("Signing failed after %d inversion attempts: %v", attempts, err)
		return nil, err
	}
	instrument.Signed(attempts)
	s.log.Debugf("Signed digest in %d inversion attempts", attempts)
	return sig, nil
}

// Verify checks a signature vector. See the package level Verify.
func (s *Scheme) Verify(pk *keys.PublicKey, signature, digest gf16.Vector) (bool, error) {
	if err := s.checkParams(pk.Params); err != nil {
		instrument.Rejected()
		return false, err
	}
	ok, err := Verify(pk, signature, digest)
	if err != nil {
		instrument.Rejected()
		s.log.Warningf("Rejected verification input: %v", err)
		return false, err
	}
	instrument.Verified(ok)
	s.log.Debugf("Verification result: %v", ok)
	return ok, nil
}

// SignMessage digests message and returns the encoded signature.
func (s *Scheme) SignMessage(sk *keys.SecretKey, message []byte, rng io.Reader) ([]byte, error) {
	digest, err := s.opts.Digester.Digest(message, s.params.M())
	if err != nil {
		return nil, err
	}
	sig, err := s.Sign(sk, digest, rng)
	if err != nil {
		return nil, err
	}
	return EncodeSignature(sig)
}

// VerifyMessage digests message and checks an encoded signature against it.
func (s *Scheme) VerifyMessage(pk *keys.PublicKey, message, signature []byte) (bool, error) {
	sig, err := DecodeSignature(signature, s.params)
	if err != nil {
		instrument.Rejected()
		return false, err
	}
	digest, err := s.opts.Digester.Digest(message, s.params.M())
	if err != nil {
		return false, err
	}
	return s.Verify(pk, sig, digest)
}
