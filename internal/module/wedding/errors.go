package wedding

import "errors"

var (
	ErrInfoNotFound          = errors.New("wedding info not found")
	ErrEncryptionKeyRequired = errors.New("encryption key is required")
	ErrInvalidCiphertext     = errors.New("invalid encrypted data format")
	ErrDecryptionFailed      = errors.New("decryption failed")
)
