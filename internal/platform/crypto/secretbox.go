// Package crypto seals small secrets (portal passwords) before they are stored.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	KeySize   = 32
	nonceSize = 24
)

var ErrCiphertext = errors.New("crypto: malformed ciphertext")

// Crypter seals values with NaCl secretbox (XSalsa20-Poly1305).
type Crypter struct {
	key [KeySize]byte
}

// New creates a Crypter. key must be exactly 32 bytes.
func New(key []byte) (*Crypter, error) {
	if len(key) != KeySize {
		return nil, errors.New("crypto: key must be 32 bytes")
	}
	c := &Crypter{}
	copy(c.key[:], key)
	return c, nil
}

// Seal encrypts plaintext and returns base64(nonce || box).
func (c *Crypter) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

// Open reverses Seal.
func (c *Crypter) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrCiphertext
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrCiphertext
	}
	return string(plain), nil
}
