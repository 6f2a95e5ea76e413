package sign

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/utils"
)

// DomainDigest separates SHAKE256 message digests from other SHAKE uses.
const DomainDigest = "rainbow-digest-v1"

// ErrDigestTooLong is returned when a digester cannot produce m elements.
var ErrDigestTooLong = errors.New("sign: digest cannot produce that many elements")

// Digester reduces a message to a vector of exactly m field elements.
type Digester interface {
	Digest(message []byte, m int) (gf16.Vector, error)
	Name() string
}

// SHA256Digester splits the SHA-256 hash of the message into 64 nibbles,
// the high nibble of every byte first and then every low nibble, and keeps
// the first m. It supports m <= 64.
type SHA256Digester struct{}

// Name implements Digester.
func (SHA256Digester) Name() string { return "sha256" }

// Digest implements Digester.
func (SHA256Digester) Digest(message []byte, m int) (gf16.Vector, error) {
	if m <= 0 || m > 2*sha256.Size {
		return nil, fmt.Errorf("%w: sha256 yields %d elements, need %d", ErrDigestTooLong, 2*sha256.Size, m)
	}
	h := sha256.Sum256(message)
	v := gf16.NewVector(2 * sha256.Size)
	for i, b := range h {
		v[i] = gf16.Element(b >> 4)
		v[i+sha256.Size] = gf16.Element(b & 0x0F)
	}
	return v[:m], nil
}

// SHAKE256Digester squeezes a domain separated SHAKE256 of the message into
// m nibbles, high nibble first. It supports any m.
type SHAKE256Digester struct{}

// Name implements Digester.
func (SHAKE256Digester) Name() string { return "shake256" }

// Digest implements Digester.
func (SHAKE256Digester) Digest(message []byte, m int) (gf16.Vector, error) {
	if m <= 0 {
		return nil, fmt.Errorf("%w: invalid length %d", ErrDigestTooLong, m)
	}
	out := utils.Shake256WithDomain(DomainDigest, message, utils.PackedLen(m))
	v := gf16.NewVector(m)
	for i := range v {
		if i%2 == 0 {
			v[i] = gf16.Element(out[i/2] >> 4)
		} else {
			v[i] = gf16.Element(out[i/2] & 0x0F)
		}
	}
	return v, nil
}

// DigesterByName returns the digester called name ("sha256" or
// "shake256", case insensitive).
func DigesterByName(name string) (Digester, error) {
	switch strings.ToLower(name) {
	case "sha256":
		return SHA256Digester{}, nil
	case "shake256":
		return SHAKE256Digester{}, nil
	default:
		return nil, fmt.Errorf("sign: unknown digest %q", name)
	}
}
