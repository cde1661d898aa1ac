// Package crypto seals platform credentials before they reach a shared store.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// secretVersion is the version byte for the encrypted blob format.
	secretVersion = 0x01

	// nonceSize is the AES-GCM nonce size
	nonceSize = 12

	// KeySize is the required key size for AES-256
	KeySize = 32

	keyInfo = "ai2aim-core credential encryption v1"
)

var (
	// ErrInvalidKeySize is returned when the encryption key is not 32 bytes.
	ErrInvalidKeySize = errors.New("encryption key must be 32 bytes")

	// ErrInvalidBlobSize is returned when the encrypted blob is too small.
	ErrInvalidBlobSize = errors.New("encrypted blob is too small")

	// ErrUnsupportedVersion is returned when the blob version is not supported.
	ErrUnsupportedVersion = errors.New("unsupported secret blob version")

	// ErrDecryptionFailed is returned when decryption fails (wrong key or corrupted data).
	ErrDecryptionFailed = errors.New("failed to decrypt secret blob")
)

// SecretEncryptor handles AES-256-GCM encryption of credentials.
// The encrypted format is: version(1) || nonce(12) || ciphertext(N)
type SecretEncryptor struct {
	gcm cipher.AEAD
}

// NewSecretEncryptor creates a new encryptor with the given 32-byte key.
func NewSecretEncryptor(key []byte) (*SecretEncryptor, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &SecretEncryptor{gcm: gcm}, nil
}

// NewSecretEncryptorFromString builds an encryptor from configuration.
// A 64 character hex string is used as the raw key; anything else is a
// passphrase stretched with HKDF-SHA256.
func NewSecretEncryptorFromString(secret string) (*SecretEncryptor, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrInvalidKeySize)
	}
	if len(secret) == 2*KeySize {
		if key, err := hex.DecodeString(secret); err == nil {
			return NewSecretEncryptor(key)
		}
	}
	key, err := DeriveKey([]byte(secret), nil)
	if err != nil {
		return nil, err
	}
	return NewSecretEncryptor(key)
}

// DeriveKey stretches a passphrase into a 32-byte key.
func DeriveKey(secret, salt []byte) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Encrypt JSON-marshals value and seals it.
func (e *SecretEncryptor) Encrypt(value any) ([]byte, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := e.gcm.Seal(nil, nonce, plaintext, nil)

	blob := make([]byte, 1+nonceSize+len(ciphertext))
	blob[0] = secretVersion
	copy(blob[1:1+nonceSize], nonce)
	copy(blob[1+nonceSize:], ciphertext)

	return blob, nil
}

// Decrypt opens a blob and unmarshals the result into value, which must be a pointer.
func (e *SecretEncryptor) Decrypt(blob []byte, value any) error {
	if len(blob) < 1+nonceSize+e.gcm.Overhead() {
		return ErrInvalidBlobSize
	}

	if blob[0] != secretVersion {
		return fmt.Errorf("%w: got version %d", ErrUnsupportedVersion, blob[0])
	}

	plaintext, err := e.gcm.Open(nil, blob[1:1+nonceSize], blob[1+nonceSize:], nil)
	if err != nil {
		return ErrDecryptionFailed
	}

	if err := json.Unmarshal(plaintext, value); err != nil {
		return fmt.Errorf("unmarshal decrypted value: %w", err)
	}
	return nil
}
