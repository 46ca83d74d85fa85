package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Scrypt parameters for deriving the field-encryption key from the
// configured passphrase. Deliberately a slow, salted KDF so a leaked
// database does not make the passphrase cheap to brute-force.
const (
	fieldCipherSalt = "inkwell-field-cipher"
	scryptN         = 1 << 14
	scryptR         = 8
	scryptP         = 1
	fieldKeyLength  = 32
	ivLength        = aes.BlockSize
)

var (
	// ErrMalformedCiphertext reports an encoded field that cannot be split
	// or hex-decoded. Treated as corrupted stored data by callers.
	ErrMalformedCiphertext = errors.New("cryptox: malformed ciphertext")

	// ErrBadPadding reports a padding validation failure after decryption,
	// meaning the key is wrong or the data was tampered with.
	ErrBadPadding = errors.New("cryptox: padding check failed")
)

// FieldCipher encrypts and decrypts free-text document fields with
// AES-256-CBC. Each encryption draws a fresh random IV; the transportable
// form is "ivHex:cipherHex". The key is derived once at construction from
// a process-wide passphrase.
type FieldCipher struct {
	key []byte
}

// NewFieldCipher derives the AES key from passphrase and returns a ready
// cipher. The passphrase must be non-empty.
func NewFieldCipher(passphrase string) (*FieldCipher, error) {
	if passphrase == "" {
		return nil, errors.New("cryptox: empty encryption passphrase")
	}

	key, err := scrypt.Key([]byte(passphrase), []byte(fieldCipherSalt), scryptN, scryptR, scryptP, fieldKeyLength)
	if err != nil {
		return nil, fmt.Errorf("cryptox: key derivation failed: %w", err)
	}

	return &FieldCipher{key: key}, nil
}

// EncryptString encrypts a single field value. Encrypting the same
// plaintext twice yields different encoded strings because of the random IV.
func (c *FieldCipher) EncryptString(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("cryptox: iv generation failed: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// DecryptString is the inverse of EncryptString. An empty input is returned
// unchanged so optional fields pass through safely.
func (c *FieldCipher) DecryptString(encoded string) (string, error) {
	if encoded == "" {
		return encoded, nil
	}

	ivHex, cipherHex, ok := strings.Cut(encoded, ":")
	if !ok {
		return "", ErrMalformedCiphertext
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != ivLength {
		return "", ErrMalformedCiphertext
	}
	data, err := hex.DecodeString(cipherHex)
	if err != nil || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", ErrMalformedCiphertext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// EncryptSlice maps EncryptString over values, preserving order. An empty
// slice yields an empty slice.
func (c *FieldCipher) EncryptSlice(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		enc, err := c.EncryptString(v)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return out, nil
}

// DecryptSlice maps DecryptString over values, preserving order.
func (c *FieldCipher) DecryptSlice(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		dec, err := c.DecryptString(v)
		if err != nil {
			return nil, err
		}
		out = append(out, dec)
	}
	return out, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-n], nil
}
