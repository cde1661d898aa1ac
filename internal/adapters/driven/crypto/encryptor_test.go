package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/ai2aim-core/internal/core/domain"
)

var testKey = []byte("01234567890123456789012345678901")

func TestSecretEncryptor_RoundTrip(t *testing.T) {
	encryptor, err := NewSecretEncryptor(testKey)
	if err != nil {
		t.Fatalf("NewSecretEncryptor: %v", err)
	}

	original := domain.PlatformCredential{
		Platform:     domain.PlatformTwitter,
		AccessToken:  "AT-123",
		RefreshToken: "RT-456",
		Username:     "ada",
	}

	blob, err := encryptor.Encrypt(original)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if blob[0] != secretVersion {
		t.Errorf("version byte: got %d, want %d", blob[0], secretVersion)
	}
	if bytes.Contains(blob, []byte("AT-123")) {
		t.Error("blob contains plaintext access token")
	}

	var decrypted domain.PlatformCredential
	if err := encryptor.Decrypt(blob, &decrypted); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted.AccessToken != original.AccessToken || decrypted.RefreshToken != original.RefreshToken {
		t.Errorf("got %+v, want %+v", decrypted, original)
	}
}

func TestSecretEncryptor_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 64} {
		if _, err := NewSecretEncryptor(make([]byte, size)); !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("size %d: expected ErrInvalidKeySize, got %v", size, err)
		}
	}
}

func TestSecretEncryptor_DecryptInvalidBlob(t *testing.T) {
	encryptor, _ := NewSecretEncryptor(testKey)

	tests := []struct {
		name string
		blob []byte
		want error
	}{
		{"empty", []byte{}, ErrInvalidBlobSize},
		{"too short", []byte{0x01, 0x02}, ErrInvalidBlobSize},
		{"wrong version", append([]byte{0x99}, make([]byte, 100)...), ErrUnsupportedVersion},
		{"corrupted", append([]byte{secretVersion}, make([]byte, 100)...), ErrDecryptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result string
			if err := encryptor.Decrypt(tt.blob, &result); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSecretEncryptor_WrongKey(t *testing.T) {
	enc1, _ := NewSecretEncryptor(testKey)
	enc2, _ := NewSecretEncryptor([]byte("10987654321098765432109876543210"))

	blob, err := enc1.Encrypt("secret data")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var result string
	if err := enc2.Decrypt(blob, &result); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestSecretEncryptor_UniqueNonce(t *testing.T) {
	encryptor, _ := NewSecretEncryptor(testKey)

	nonces := make(map[string]bool)
	for i := 0; i < 10; i++ {
		blob, err := encryptor.Encrypt("same value")
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
		nonce := string(blob[1 : 1+nonceSize])
		if nonces[nonce] {
			t.Errorf("duplicate nonce at index %d", i)
		}
		nonces[nonce] = true
	}
}

func TestNewSecretEncryptorFromString(t *testing.T) {
	hexKey := strings.Repeat("ab", KeySize)
	fromHex, err := NewSecretEncryptorFromString(hexKey)
	if err != nil {
		t.Fatalf("hex key: %v", err)
	}

	fromPass, err := NewSecretEncryptorFromString("correct horse battery staple")
	if err != nil {
		t.Fatalf("passphrase: %v", err)
	}
	again, _ := NewSecretEncryptorFromString("correct horse battery staple")

	blob, _ := fromPass.Encrypt("v")
	var out string
	if err := again.Decrypt(blob, &out); err != nil || out != "v" {
		t.Errorf("derived keys differ: %v", err)
	}
	if err := fromHex.Decrypt(blob, &out); err == nil {
		t.Error("expected hex key to differ from passphrase key")
	}

	if _, err := NewSecretEncryptorFromString(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a, _ := DeriveKey([]byte("s"), []byte("salt"))
	b, _ := DeriveKey([]byte("s"), []byte("salt"))
	c, _ := DeriveKey([]byte("s"), []byte("other"))
	if !bytes.Equal(a, b) {
		t.Error("same inputs produced different keys")
	}
	if bytes.Equal(a, c) {
		t.Error("different salts produced the same key")
	}
	if len(a) != KeySize {
		t.Errorf("key size %d", len(a))
	}
}
