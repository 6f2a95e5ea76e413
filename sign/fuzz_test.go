package sign

import (
	"testing"

	"github.com/BackendStack21/rainbow-go/core"
)

// FuzzDecodeSignature tests signature decoding with random inputs
func FuzzDecodeSignature(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{0x57, 0x90})
	f.Add([]byte{0xff, 0xff})
	f.Add(make([]byte, 48))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic, may return error
		_, _ = DecodeSignature(data, core.ToyParams)
		_, _ = DecodeSignature(data, core.ClassicParams)
	})
}

// FuzzUnmarshalEnvelope tests envelope decoding with random inputs
func FuzzUnmarshalEnvelope(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0xa0})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Add(make([]byte, 100))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic, may return error
		_, _ = UnmarshalEnvelope(data, core.ToyParams)
	})
}
