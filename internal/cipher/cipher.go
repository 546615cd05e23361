// Package cipher encrypts sensitive scalar fields (donor phone numbers)
// with AES-256-CBC. Each call uses a fresh random IV which is prepended
// to the ciphertext inside a single hex envelope, so equal plaintexts
// never produce equal ciphertexts.
package cipher

import (
	"bytes"
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrDecryptionFailed indicates the ciphertext could not be decrypted:
// malformed envelope, wrong key, or corrupted data. Callers decide how to
// react; the failure is never masked as plaintext.
var ErrDecryptionFailed = errors.New("cipher: decryption failed")

const keySize = 32

// Cipher performs field-level symmetric encryption. The key is read-only
// after construction and safe for concurrent use.
type Cipher struct {
	block stdcipher.Block
}

// New builds a Cipher from a 32-byte AES-256 key.
func New(key []byte) (*Cipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("cipher: key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	return &Cipher{block: block}, nil
}

// Encrypt returns hex(iv || AES-256-CBC(pad(plaintext))). The empty string
// passes through unchanged so optional fields stay optional.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))

	iv := out[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("cipher: generate iv: %w", err)
	}

	stdcipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Any malformed or tampered input yields
// ErrDecryptionFailed.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return ciphertext, nil
	}

	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid hex", ErrDecryptionFailed)
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: truncated envelope", ErrDecryptionFailed)
	}

	iv, body := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(body))
	stdcipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plain, body)

	unpadded, err := unpad(plain, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: invalid padding", ErrDecryptionFailed)
	}
	return string(unpadded), nil
}

// pad applies PKCS#7 padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid pad byte")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
