package wedding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	keySize = 32
	ivSize  = 16
	tagSize = 16
	keyPad  = "!"
)

// CryptoManager encrypts bank details at rest with AES-256-GCM.
// Ciphertexts are hex encoded as "iv:data:tag".
type CryptoManager struct {
	aead cipher.AEAD
}

// NewCryptoManager creates a crypto manager. Keys shorter than 32 bytes
// are padded with '!' and longer keys are truncated.
func NewCryptoManager(key string) (*CryptoManager, error) {
	if key == "" {
		return nil, ErrEncryptionKeyRequired
	}
	if len(key) < keySize {
		key += strings.Repeat(keyPad, keySize-len(key))
	}

	block, err := aes.NewCipher([]byte(key[:keySize]))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &CryptoManager{aead: aead}, nil
}

// Encrypt encrypts plaintext with a fresh random IV.
func (c *CryptoManager) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	data, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(data) + ":" + hex.EncodeToString(tag), nil
}

// Decrypt reverses Encrypt.
func (c *CryptoManager) Decrypt(encoded string) (string, error) {
	parts := strings.Split(encoded, ":")
	if len(parts) != 3 {
		return "", ErrInvalidCiphertext
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivSize {
		return "", ErrInvalidCiphertext
	}
	data, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	tag, err := hex.DecodeString(parts[2])
	if err != nil || len(tag) != tagSize {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := c.aead.Open(nil, iv, append(data, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether value has the "iv:data:tag" shape.
func IsEncrypted(value string) bool {
	return strings.Count(value, ":") == 2
}
