package sign

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256DigesterNibbleOrder(t *testing.T) {
	msg := []byte("abc")
	h := sha256.Sum256(msg)

	v, err := SHA256Digester{}.Digest(msg, 64)
	require.NoError(t, err)
	require.Len(t, v, 64)
	for i, b := range h {
		assert.Equal(t, b>>4, uint8(v[i]))
		assert.Equal(t, b&0x0F, uint8(v[i+32]))
	}

	short, err := SHA256Digester{}.Digest(msg, 5)
	require.NoError(t, err)
	assert.Equal(t, v[:5], short)

	_, err = SHA256Digester{}.Digest(msg, 65)
	assert.ErrorIs(t, err, ErrDigestTooLong)
	_, err = SHA256Digester{}.Digest(msg, 0)
	assert.ErrorIs(t, err, ErrDigestTooLong)
}

func TestSHAKE256Digester(t *testing.T) {
	d := SHAKE256Digester{}
	a, err := d.Digest([]byte("message"), 101)
	require.NoError(t, err)
	require.Len(t, a, 101)
	assert.True(t, a.Valid())

	b, err := d.Digest([]byte("message"), 101)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	prefix, err := d.Digest([]byte("message"), 10)
	require.NoError(t, err)
	assert.Equal(t, a[:10], prefix)

	c, err := d.Digest([]byte("massage"), 101)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = d.Digest(nil, 0)
	assert.Error(t, err)
}

func TestDigesterByName(t *testing.T) {
	d, err := DigesterByName("SHA256")
	require.NoError(t, err)
	assert.Equal(t, "sha256", d.Name())

	d, err = DigesterByName("shake256")
	require.NoError(t, err)
	assert.Equal(t, "shake256", d.Name())

	_, err = DigesterByName("md5")
	assert.Error(t, err)
}
