package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/op/go-logging.v1"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]logging.Level{
		"error":   logging.ERROR,
		"WARNING": logging.WARNING,
		"Notice":  logging.NOTICE,
		"info":    logging.INFO,
		"DEBUG":   logging.DEBUG,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)

	_, err = New("", "loud", false)
	assert.Error(t, err)
}

func TestWriterBackendFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	b, err := NewWriter(&buf, "NOTICE")
	require.NoError(t, err)

	l := b.GetLogger("rainbow-test")
	l.Debug("hidden debug")
	l.Notice("visible notice")
	l.Errorf("visible %s", "error")

	out := buf.String()
	assert.NotContains(t, out, "hidden debug")
	assert.Contains(t, out, "NOTI rainbow-test: visible notice")
	assert.Contains(t, out, "ERRO rainbow-test: visible error")

	assert.True(t, b.IsEnabledFor(logging.ERROR, "rainbow-test"))
	assert.False(t, b.IsEnabledFor(logging.DEBUG, "rainbow-test"))
	b.SetLevel(logging.DEBUG, "rainbow-test")
	assert.Equal(t, logging.DEBUG, b.GetLevel("rainbow-test"))
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rainbow.log")
	b, err := New(path, "INFO", false)
	require.NoError(t, err)

	b.GetLogger("file-test").Info("written to file")
	require.NoError(t, b.Rotate())
	b.GetLogger("file-test").Info("after rotate")
	require.NoError(t, b.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "after rotate")

	_, err = New(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), "INFO", false)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	b := Discard()
	b.GetLogger("discard-test").Error("nowhere")
	assert.NoError(t, b.Rotate())
	assert.NoError(t, b.Close())
}
