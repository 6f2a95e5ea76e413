package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/keys"
	"github.com/BackendStack21/rainbow-go/utils"
)

const (
	publicKeySuffix = ".rainbow_public.json"
	secretKeySuffix = ".rainbow_secret.json"

	// maxInputFileSize bounds every file the CLI reads.
	maxInputFileSize = utils.MaxMessageSize
)

// errKeyIntegrity is returned when a secret key file's tag does not match
// its contents.
var errKeyIntegrity = errors.New("key file integrity check failed")

// publicKeyExport is the public key file.
type publicKeyExport struct {
	Params      rainbow.Params `json:"params"`
	PublicKey   string         `json:"public_key"`
	Fingerprint string         `json:"fingerprint"`
	CreatedAt   string         `json:"created_at"`
}

// secretKeyExport is the secret key file. It repeats the public key so that
// a signer can check its own output.
type secretKeyExport struct {
	Params    rainbow.Params `json:"params"`
	PublicKey string         `json:"public_key"`
	SecretKey string         `json:"secret_key"`
	CreatedAt string         `json:"created_at"`
	KeyHMAC   string         `json:"key_hmac,omitempty"`
}

// signatureExport is the signature file.
type signatureExport struct {
	Digest    string `json:"digest"`
	Signature string `json:"signature"`
	CreatedAt string `json:"created_at"`
}

// generateKeyHMAC computes HMAC-SHA256 of the secret key keyed with the
// public key. The key is public, so this only detects accidental corruption.
func generateKeyHMAC(publicKey, secretKey string) string {
	h := hmac.New(sha256.New, []byte(publicKey))
	h.Write([]byte(secretKey))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func exportKeyPair(pk *keys.PublicKey, sk *keys.SecretKey) (pkJSON, skJSON []byte, err error) {
	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	fingerprint, err := pk.Fingerprint()
	if err != nil {
		return nil, nil, err
	}
	skBytes, err := sk.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	defer utils.Zeroize(skBytes)

	createdAt := time.Now().UTC().Format(time.RFC3339)
	pkExport := publicKeyExport{
		Params:      pk.Params,
		PublicKey:   base64.StdEncoding.EncodeToString(pkBytes),
		Fingerprint: hex.EncodeToString(fingerprint),
		CreatedAt:   createdAt,
	}
	skExport := secretKeyExport{
		Params:    sk.Params,
		PublicKey: pkExport.PublicKey,
		SecretKey: base64.StdEncoding.EncodeToString(skBytes),
		CreatedAt: createdAt,
	}
	skExport.KeyHMAC = generateKeyHMAC(skExport.PublicKey, skExport.SecretKey)

	if pkJSON, err = json.MarshalIndent(pkExport, "", "  "); err != nil {
		return nil, nil, err
	}
	if skJSON, err = json.MarshalIndent(skExport, "", "  "); err != nil {
		return nil, nil, err
	}
	return pkJSON, skJSON, nil
}

// readInputFile reads filename after checking its size.
func readInputFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if err := utils.CheckLength(int(info.Size()), maxInputFileSize); err != nil {
		return nil, fmt.Errorf("input file %s: %w", filename, err)
	}
	return os.ReadFile(filename)
}

func decodeField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("missing %s", name)
	}
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}

func loadPublicKey(filename string) (*keys.PublicKey, error) {
	data, err := readInputFile(filename)
	if err != nil {
		return nil, err
	}
	var export publicKeyExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse public key file: %w", err)
	}
	raw, err := decodeField("public_key", export.PublicKey)
	if err != nil {
		return nil, err
	}
	pk, err := keys.UnmarshalPublicKey(raw)
	if err != nil {
		return nil, err
	}
	if !pk.Params.SameShape(export.Params) {
		return nil, fmt.Errorf("public key file: params %+v do not match the encoded key", export.Params)
	}
	return pk, nil
}

func loadSecretKey(filename string) (*keys.SecretKey, error) {
	data, err := readInputFile(filename)
	if err != nil {
		return nil, err
	}
	defer utils.Zeroize(data)
	var export secretKeyExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse secret key file: %w", err)
	}
	if export.KeyHMAC != "" {
		want := generateKeyHMAC(export.PublicKey, export.SecretKey)
		if !utils.ConstantTimeEqual([]byte(want), []byte(export.KeyHMAC)) {
			return nil, errKeyIntegrity
		}
	}
	raw, err := decodeField("secret_key", export.SecretKey)
	if err != nil {
		return nil, err
	}
	defer utils.Zeroize(raw)
	sk, err := keys.UnmarshalSecretKey(raw)
	if err != nil {
		return nil, err
	}
	if !sk.Params.SameShape(export.Params) {
		return nil, fmt.Errorf("secret key file: params %+v do not match the encoded key", export.Params)
	}
	return sk, nil
}

// writeNewFile creates filename with owner only permissions and fails if it
// already exists.
func writeNewFile(filename string, data []byte) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("refusing to overwrite existing file %s", filename)
		}
		return fmt.Errorf("error creating output file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("error writing output file: %w", err)
	}
	return f.Close()
}

// writeOutput writes data to filename, or to w when filename is empty. An
// existing file is only replaced when force is set.
func writeOutput(w io.Writer, data []byte, filename string, force bool) error {
	if filename == "" {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}
	if !force {
		return writeNewFile(filename, data)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	// Enforce the mode even if the file already existed.
	return os.Chmod(filename, 0600)
}
