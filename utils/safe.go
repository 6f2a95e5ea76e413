// This file contains bounds-checking helpers used when decoding untrusted
// key and signature encodings.

package utils

import "errors"

// Maximum allowed sizes to prevent denial-of-service via large allocations.
const (
	// MaxEncodedElements bounds the number of field elements in one encoded key.
	MaxEncodedElements = 1 << 24

	// MaxMessageSize is the maximum message size accepted by the CLI in bytes.
	MaxMessageSize = 1 << 30

	// MaxEncodedKeySize is the maximum size of an encoded key in bytes.
	MaxEncodedKeySize = 1 << 26
)

var (
	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// CheckPositive validates that value is > 0.
func CheckPositive(value int, name string) error {
	if value <= 0 {
		return errors.New(name + " must be positive")
	}
	return nil
}
