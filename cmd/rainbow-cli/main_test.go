package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/sign"
)

// runCLI executes a fresh command tree in process and returns its stdout and
// stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func testSeed(label string) string {
	h := sha256.Sum256([]byte(label))
	return hex.EncodeToString(h[:])
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// keygen creates a small key pair under dir and returns the public and
// secret key paths.
func keygen(t *testing.T, dir, name string, extra ...string) (string, string) {
	t.Helper()
	out := filepath.Join(dir, name)
	args := append([]string{"--params", string(rainbow.Small), "keygen", "--out", out}, extra...)
	stdout, stderr, err := runCLI(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Generated rainbow-small key pair")
	return out + publicKeySuffix, out + secretKeySuffix
}

func TestKeygenSignVerify(t *testing.T) {
	dir := t.TempDir()
	pkFile, skFile := keygen(t, dir, "alice")

	info, err := os.Stat(skFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	var pkExport publicKeyExport
	data, err := os.ReadFile(pkFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &pkExport))
	assert.Equal(t, core.SmallParams, pkExport.Params)
	assert.NotEmpty(t, pkExport.CreatedAt)
	assert.Len(t, pkExport.Fingerprint, 64)

	input := writeFile(t, dir, "doc.txt", "attack at dawn")
	sigFile := filepath.Join(dir, "doc.sig")
	_, stderr, err := runCLI(t, "sign", "--secret-key", skFile, "--input", input, "--signature", sigFile)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runCLI(t, "verify", "--public-key", pkFile, "--input", input, "--signature", sigFile)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Signature valid")

	tampered := writeFile(t, dir, "tampered.txt", "attack at dusk")
	stdout, _, err = runCLI(t, "verify", "--public-key", pkFile, "--input", tampered, "--signature", sigFile)
	assert.ErrorIs(t, err, errVerificationFailed)
	assert.Contains(t, stdout, "Signature INVALID")

	otherPK, _ := keygen(t, dir, "bob")
	_, _, err = runCLI(t, "verify", "--public-key", otherPK, "--input", input, "--signature", sigFile)
	assert.ErrorIs(t, err, errVerificationFailed)
}

func TestLogsGoToStderr(t *testing.T) {
	dir := t.TempDir()
	_, skFile := keygen(t, dir, "logs")
	input := writeFile(t, dir, "msg", "hello")
	cfgFile := writeFile(t, dir, "debug.toml", "[Logging]\nLevel = \"debug\"\n")

	stdout, stderr, err := runCLI(t, "--config", cfgFile, "sign", "--secret-key", skFile, "--input", input)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Signed digest in")
	assert.NotContains(t, stdout, "Signed digest in")

	var export signatureExport
	require.NoError(t, json.Unmarshal([]byte(stdout), &export))
}

func TestSignToStdout(t *testing.T) {
	dir := t.TempDir()
	_, skFile := keygen(t, dir, "stdout")
	input := writeFile(t, dir, "msg", "hello")

	stdout, _, err := runCLI(t, "sign", "--secret-key", skFile, "--input", input)
	require.NoError(t, err)

	var export signatureExport
	require.NoError(t, json.Unmarshal([]byte(stdout), &export))
	assert.Equal(t, "sha256", export.Digest)
	assert.NotEmpty(t, export.Signature)
}

func TestKeygenSeedDeterministic(t *testing.T) {
	dir := t.TempDir()
	seed := testSeed("cli seed")

	secret := func(name string) secretKeyExport {
		_, skFile := keygen(t, dir, name, "--seed", seed)
		data, err := os.ReadFile(skFile)
		require.NoError(t, err)
		var export secretKeyExport
		require.NoError(t, json.Unmarshal(data, &export))
		return export
	}
	a, b := secret("one"), secret("two")
	assert.Equal(t, a.SecretKey, b.SecretKey)
	assert.Equal(t, a.PublicKey, b.PublicKey)
	assert.Equal(t, a.KeyHMAC, b.KeyHMAC)
}

func TestKeygenRejectsBadSeed(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "bad")

	_, _, err := runCLI(t, "--params", string(rainbow.Toy), "keygen", "--out", out, "--seed", "zz")
	assert.Error(t, err)

	_, _, err = runCLI(t, "--params", string(rainbow.Toy), "keygen", "--out", out, "--seed", "0011")
	assert.Error(t, err)

	_, err = os.Stat(out + secretKeySuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestKeygenRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	pkFile, _ := keygen(t, dir, "carol")
	before, err := os.ReadFile(pkFile)
	require.NoError(t, err)

	_, _, err = runCLI(t, "--params", string(rainbow.Small), "keygen", "--out", filepath.Join(dir, "carol"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	after, err := os.ReadFile(pkFile)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	keygen(t, dir, "carol", "--force")
	after, err = os.ReadFile(pkFile)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestSignRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, skFile := keygen(t, dir, "dave")
	input := writeFile(t, dir, "doc.txt", "content")
	sigFile := writeFile(t, dir, "doc.sig", "precious")

	_, _, err := runCLI(t, "sign", "--secret-key", skFile, "--input", input, "--signature", sigFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	data, err := os.ReadFile(sigFile)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data))
}

func TestCorruptedSecretKey(t *testing.T) {
	dir := t.TempDir()
	_, skFile := keygen(t, dir, "eve")
	input := writeFile(t, dir, "doc.txt", "content")

	data, err := os.ReadFile(skFile)
	require.NoError(t, err)
	var export secretKeyExport
	require.NoError(t, json.Unmarshal(data, &export))
	export.KeyHMAC = generateKeyHMAC("wrong", export.SecretKey)
	data, err = json.Marshal(export)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(skFile, data, 0600))

	_, _, err = runCLI(t, "sign", "--secret-key", skFile, "--input", input)
	assert.ErrorIs(t, err, errKeyIntegrity)
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	dir := t.TempDir()
	pkFile, _ := keygen(t, dir, "frank")
	input := writeFile(t, dir, "doc.txt", "content")

	sigFile := writeFile(t, dir, "short.sig", `{"digest":"sha256","signature":"AAEC"}`)
	_, _, err := runCLI(t, "verify", "--public-key", pkFile, "--input", input, "--signature", sigFile)
	assert.ErrorIs(t, err, sign.ErrInvalidInput)

	sigFile = writeFile(t, dir, "garbage.sig", "not json")
	_, _, err = runCLI(t, "verify", "--public-key", pkFile, "--input", input, "--signature", sigFile)
	assert.Error(t, err)
}

func TestDigestFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "rainbow.toml", `
[Rainbow]
ParamSet = "rainbow-small"
Digest = "shake256"

[Logging]
Level = "debug"
`)
	out := filepath.Join(dir, "grace")
	_, _, err := runCLI(t, "--config", cfgFile, "keygen", "--out", out)
	require.NoError(t, err)

	input := writeFile(t, dir, "doc.txt", "content")
	sigFile := filepath.Join(dir, "doc.sig")
	_, stderr, err := runCLI(t, "--config", cfgFile, "sign",
		"--secret-key", out+secretKeySuffix, "--input", input, "--signature", sigFile)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Signed digest in")

	_, _, err = runCLI(t, "--config", cfgFile, "verify",
		"--public-key", out+publicKeySuffix, "--input", input, "--signature", sigFile)
	require.NoError(t, err)

	// The default configuration digests with SHA-256.
	_, _, err = runCLI(t, "verify", "--public-key", out+publicKeySuffix, "--input", input, "--signature", sigFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shake256")
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "bad.toml", "[Rainbow]\nBogus = 1\n")
	_, _, err := runCLI(t, "--config", cfgFile, "params")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")

	_, _, err = runCLI(t, "--params", "rainbow-huge", "params")
	assert.Error(t, err)
}

func TestMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "rainbow.prom")
	out := filepath.Join(dir, "heidi")
	_, _, err := runCLI(t, "--params", string(rainbow.Small), "--metrics", metrics, "keygen", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rainbow_keys_generated_total")
}

func TestParams(t *testing.T) {
	stdout, _, err := runCLI(t, "params")
	require.NoError(t, err)
	for _, p := range core.AllParams() {
		assert.Contains(t, stdout, string(p.Set))
	}
	assert.Contains(t, stdout, "Public key")

	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "custom.toml", "[Rainbow]\nV1 = 4\nO1 = 3\nO2 = 2\n")
	stdout, _, err = runCLI(t, "--config", cfgFile, "params")
	require.NoError(t, err)
	assert.Contains(t, stdout, "custom(4,3,2)")
}

func TestBenchmark(t *testing.T) {
	stdout, _, err := runCLI(t, "--params", string(rainbow.Small), "benchmark", "--iterations", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 iterations")
	for _, op := range []string{"KeyGen", "Sign", "Verify"} {
		assert.Contains(t, stdout, op)
	}
}

func TestMissingRequiredFlag(t *testing.T) {
	_, _, err := runCLI(t, "keygen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	_, _, err = runCLI(t, "verify", "--public-key", "pk.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, "12 B", byteSize(12))
	assert.Equal(t, "2.0 KiB", byteSize(2048))
	assert.Equal(t, "1.5 MiB", byteSize(3<<19))
}
