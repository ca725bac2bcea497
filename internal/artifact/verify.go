package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// SHA256File streams the file at path through a SHA-256 accumulator and
// returns the hex-encoded digest.
func SHA256File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifySHA256 compares the digest of the file at path against expected
// (case-insensitive hex). A mismatch is reported as a *ChecksumError; read
// failures propagate and are never treated as a match.
func VerifySHA256(name, path, expected string) error {
	actual, err := SHA256File(path)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	if !strings.EqualFold(actual, expected) {
		return &ChecksumError{
			Name:     name,
			Path:     path,
			Expected: strings.ToLower(expected),
			Actual:   actual,
		}
	}

	return nil
}

// ParseDigest normalizes an expected SHA-256 digest string. It accepts an
// optional "sha256:" prefix and requires exactly 64 hex characters.
func ParseDigest(s string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(s))
	d = strings.TrimPrefix(d, "sha256:")

	if len(d) != 64 {
		return "", fmt.Errorf("digest must be 64 hex characters, got %d", len(d))
	}
	if _, err := hex.DecodeString(d); err != nil {
		return "", fmt.Errorf("digest is not valid hex: %w", err)
	}

	return d, nil
}

// VerifyDetachedSignature checks a detached PGP signature for the file at
// path against the publisher keyring at keyringPath. Armored and binary
// forms are accepted for both the signature and the keyring.
func VerifyDetachedSignature(path, sigPath, keyringPath string) error {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	signed, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open signed file: %w", err)
	}
	defer signed.Close()

	sig, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sig.Close()

	// Try armored first, then binary.
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, signed, sig, nil)
	if err != nil {
		signed.Seek(0, io.SeekStart)
		sig.Seek(0, io.SeekStart)
		_, err = openpgp.CheckDetachedSignature(keyring, signed, sig, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// loadKeyring reads a PGP public keyring from disk, trying the armored
// form before the binary form.
func loadKeyring(path string) (openpgp.EntityList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer file.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(file)
	if err != nil {
		file.Seek(0, io.SeekStart)
		keyring, err = openpgp.ReadKeyRing(file)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}
