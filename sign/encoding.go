package sign

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/utils"
)

// EnvelopeVersion is the version written into every signature envelope.
const EnvelopeVersion = 1

var ccbor cbor.EncMode

// EncodeSignature packs a signature two elements per byte, high nibble
// first.
func EncodeSignature(sig gf16.Vector) ([]byte, error) {
	data, err := utils.PackNibbles(sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidElement, err)
	}
	return data, nil
}

// DecodeSignature unpacks a signature for params. The length must be exactly
// core.SignatureSize(params) and an unused padding nibble must be zero.
func DecodeSignature(data []byte, params rainbow.Params) (gf16.Vector, error) {
	if len(data) != core.SignatureSize(params) {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSignature, len(data), core.SignatureSize(params))
	}
	sig, err := utils.UnpackNibbles(data, params.N())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return sig, nil
}

// envelope carries a packed signature together with the dimensions it was
// made for.
type envelope struct {
	Version   int
	V1        int
	O1        int
	O2        int
	Signature []byte
}

// MarshalEnvelope wraps an encoded signature in a versioned CBOR envelope.
func MarshalEnvelope(params rainbow.Params, sig gf16.Vector) ([]byte, error) {
	if len(sig) != params.N() {
		return nil, fmt.Errorf("%w: %d elements, want %d", ErrInvalidSignature, len(sig), params.N())
	}
	data, err := EncodeSignature(sig)
	if err != nil {
		return nil, err
	}
	return ccbor.Marshal(&envelope{
		Version:   EnvelopeVersion,
		V1:        params.V1,
		O1:        params.O1,
		O2:        params.O2,
		Signature: data,
	})
}

// UnmarshalEnvelope decodes an envelope made by MarshalEnvelope and checks
// it against params.
func UnmarshalEnvelope(data []byte, params rainbow.Params) (gf16.Vector, error) {
	var e envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if e.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported envelope version %d", ErrInvalidSignature, e.Version)
	}
	if !params.SameShape(rainbow.Params{V1: e.V1, O1: e.O1, O2: e.O2}) {
		return nil, ErrParamsMismatch
	}
	return DecodeSignature(e.Signature, params)
}

func init() {
	var err error
	ccbor, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}
