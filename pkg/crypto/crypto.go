package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Encrypt mengenkripsi data dengan AES-GCM; hasilnya nonce||ciphertext dalam base64.
func Encrypt(data, key string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(data), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt membalik Encrypt dengan key yang sama.
func Decrypt(data, key string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(raw) < gcm.NonceSize() {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}
	return string(plain), nil
}

// FixEncryptionKey memastikan key memiliki panjang 32 byte.
func FixEncryptionKey(key string) string {
	if len(key) < 32 {
		return key + strings.Repeat("0", 32-len(key))
	}
	return key[:32]
}

func newGCM(key string) (cipher.AEAD, error) {
	block, err := aes.NewCipher([]byte(FixEncryptionKey(key)))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Sealer encrypts stored values under a fixed key. A nil Sealer passes
// values through unchanged, which is how encryption at rest is switched off.
type Sealer struct {
	key string
}

// NewSealer returns nil when key is empty.
func NewSealer(key string) *Sealer {
	if key == "" {
		return nil
	}
	return &Sealer{key: key}
}

func (s *Sealer) Seal(plain string) (string, error) {
	if s == nil {
		return plain, nil
	}
	return Encrypt(plain, s.key)
}

func (s *Sealer) Open(sealed string) (string, error) {
	if s == nil {
		return sealed, nil
	}
	return Decrypt(sealed, s.key)
}
