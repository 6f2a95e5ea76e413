package sign

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/log"
	"github.com/BackendStack21/rainbow-go/utils"
)

func TestSchemeMessages(t *testing.T) {
	for _, d := range []Digester{SHA256Digester{}, SHAKE256Digester{}} {
		s, err := New(core.SmallParams, &Options{Digester: d})
		require.NoError(t, err)
		assert.Equal(t, d.Name(), s.Digester().Name())

		kp, err := s.GenerateKey(nil)
		require.NoError(t, err)

		msg := []byte("attack at dawn")
		sig, err := s.SignMessage(kp.SecretKey, msg, nil)
		require.NoError(t, err)
		assert.Len(t, sig, core.SignatureSize(core.SmallParams))

		ok, err := s.VerifyMessage(kp.PublicKey, msg, sig)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.VerifyMessage(kp.PublicKey, []byte("attack at dusk"), sig)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.VerifyMessage(kp.PublicKey, msg, sig[:len(sig)-1])
		assert.ErrorIs(t, err, ErrInvalidSignature)
	}
}

func TestSchemeLogs(t *testing.T) {
	var buf bytes.Buffer
	backend, err := log.NewWriter(&buf, "DEBUG")
	require.NoError(t, err)

	s, err := New(core.ToyParams, &Options{
		Digester: SHAKE256Digester{},
		Logger:   backend.GetLogger("sign-test"),
	})
	require.NoError(t, err)

	kp, err := s.GenerateKeyFromSeed(testSeed([]byte("rainbow toy vector")))
	require.NoError(t, err)
	sig, err := s.SignMessage(kp.SecretKey, []byte("hello"), utils.NewShakeReader("sign-test", []byte("logs")))
	require.NoError(t, err)
	ok, err := s.VerifyMessage(kp.PublicKey, []byte("hello"), sig)
	require.NoError(t, err)
	assert.True(t, ok)

	out := buf.String()
	assert.Contains(t, out, "Generated 1-1-1 key pair")
	assert.Contains(t, out, "Signed digest in")
	assert.Contains(t, out, "Verification result: true")
}

func TestSchemeRejectsMismatchedKeys(t *testing.T) {
	toy, err := New(core.ToyParams, nil)
	require.NoError(t, err)
	small, err := New(core.SmallParams, nil)
	require.NoError(t, err)

	kp, err := small.GenerateKey(nil)
	require.NoError(t, err)

	_, err = toy.Sign(kp.SecretKey, nil, nil)
	assert.ErrorIs(t, err, ErrParamsMismatch)
	_, err = toy.Verify(kp.PublicKey, nil, nil)
	assert.ErrorIs(t, err, ErrParamsMismatch)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewValidation(t *testing.T) {
	_, err := New(rainbow.Params{V1: 0, O1: 1, O2: 1}, nil)
	assert.Error(t, err)

	_, err = New(core.ToyParams, &Options{MaxInversionAttempts: -1})
	assert.Error(t, err)

	// SHA-256 yields only 64 elements.
	wide := rainbow.Params{V1: 4, O1: 40, O2: 30}
	_, err = New(wide, nil)
	assert.ErrorIs(t, err, ErrDigestTooLong)
	_, err = New(wide, &Options{Digester: SHAKE256Digester{}})
	assert.NoError(t, err)

	s, err := New(core.ToyParams, nil)
	require.NoError(t, err)
	assert.Equal(t, core.ToyParams, s.Params())
	assert.Equal(t, "sha256", s.Digester().Name())
}

func TestSchemeAffineBudget(t *testing.T) {
	s, err := New(core.ToyParams, &Options{MaxAffineAttempts: 3})
	require.NoError(t, err)
	// An all-zero stream never yields an invertible matrix.
	_, err = s.GenerateKey(bytes.NewReader(make([]byte, 4096)))
	assert.Error(t, err)
}
