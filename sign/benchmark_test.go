package sign

import (
	"testing"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/gf16"
	"github.com/BackendStack21/rainbow-go/keys"
)

// =============================================================================
// Signature Benchmarks
// =============================================================================

func benchmarkGenerateKeyPair(b *testing.B, set rainbow.ParamSet) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := GenerateKeyPair(set); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkSign(b *testing.B, set rainbow.ParamSet) {
	kp, err := GenerateKeyPair(set)
	if err != nil {
		b.Fatal(err)
	}
	digest, err := SHA256Digester{}.Digest([]byte("benchmark message"), kp.SecretKey.Params.M())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Sign(kp.SecretKey, digest, nil, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkVerify(b *testing.B, set rainbow.ParamSet) {
	kp, err := GenerateKeyPair(set)
	if err != nil {
		b.Fatal(err)
	}
	digest, err := SHA256Digester{}.Digest([]byte("benchmark message"), kp.SecretKey.Params.M())
	if err != nil {
		b.Fatal(err)
	}
	sig, err := Sign(kp.SecretKey, digest, nil, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ok, err := Verify(kp.PublicKey, sig, digest)
		if err != nil || !ok {
			b.Fatal("verification failed")
		}
	}
}

func BenchmarkGenerateKeyPair_Small(b *testing.B)   { benchmarkGenerateKeyPair(b, rainbow.Small) }
func BenchmarkGenerateKeyPair_Classic(b *testing.B) { benchmarkGenerateKeyPair(b, rainbow.Classic) }
func BenchmarkSign_Small(b *testing.B)              { benchmarkSign(b, rainbow.Small) }
func BenchmarkSign_Classic(b *testing.B)            { benchmarkSign(b, rainbow.Classic) }
func BenchmarkVerify_Small(b *testing.B)            { benchmarkVerify(b, rainbow.Small) }
func BenchmarkVerify_Classic(b *testing.B)          { benchmarkVerify(b, rainbow.Classic) }

// =============================================================================
// Serialization Benchmarks
// =============================================================================

func BenchmarkUnmarshalPublicKey_Classic(b *testing.B) {
	kp, err := GenerateKeyPair(rainbow.Classic)
	if err != nil {
		b.Fatal(err)
	}
	data, err := kp.PublicKey.MarshalBinary()
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := keys.UnmarshalPublicKey(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEnvelope_Classic(b *testing.B) {
	params := core.ClassicParams
	sig := gf16.NewVector(params.N())
	for i := range sig {
		sig[i] = gf16.Element(i % 16)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		data, err := MarshalEnvelope(params, sig)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := UnmarshalEnvelope(data, params); err != nil {
			b.Fatal(err)
		}
	}
}
