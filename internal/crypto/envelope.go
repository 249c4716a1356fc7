// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrDecryptionFailed is returned when a blob fails to decrypt. The cause
// (wrong passphrase, tampered or truncated blob) is intentionally not
// distinguished so that callers cannot be used as a padding/tag oracle.
var ErrDecryptionFailed = errors.New("decryption failed")

const (
	// envelopeSaltLen is the per-operation KDF salt size in bytes.
	envelopeSaltLen = 16

	// envelopeNonceLen is the AES-GCM nonce size in bytes.
	envelopeNonceLen = 12

	// envelopeKeyLen is the derived AES-256 key size in bytes.
	envelopeKeyLen = 32
)

// envelopeService is the private implementation of [EnvelopeService].
type envelopeService struct {
	// PBKDF2 iteration count. Stored in the struct so deployments on slow
	// targets can tune it; never below the constructor default in production.
	iterations int
}

// NewEnvelopeService constructs an [EnvelopeService] using
// PBKDF2-HMAC-SHA256 with 100 000 iterations and AES-256-GCM.
func NewEnvelopeService() EnvelopeService {
	return &envelopeService{
		iterations: 100_000,
	}
}

// deriveKey stretches the passphrase into a 256-bit AES key.
func (e *envelopeService) deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, e.iterations, envelopeKeyLen, sha256.New)
}

// Encrypt implements [EnvelopeService]. It generates a random 16-byte salt
// and 12-byte nonce, derives the key, and seals plaintext with AES-256-GCM.
// The output is the standard-base64 encoding of salt ‖ nonce ‖ ciphertext
// (the GCM authentication tag is embedded in the ciphertext segment).
func (e *envelopeService) Encrypt(plaintext []byte, passphrase string) (string, error) {
	salt := make([]byte, envelopeSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	nonce := make([]byte, envelopeNonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	block, err := aes.NewCipher(e.deriveKey(passphrase, salt))
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	// blob = salt || nonce || ciphertext+tag
	blob := make([]byte, 0, envelopeSaltLen+envelopeNonceLen+len(plaintext)+gcm.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = gcm.Seal(blob, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [EnvelopeService]. It splits the decoded blob into its
// three fixed-size segments (16/12/rest), re-derives the key from the
// extracted salt, and opens the ciphertext.
//
// Any authentication failure is reported as [ErrDecryptionFailed]; only a
// blob too short to contain the fixed segments or invalid base64 is reported
// separately, since neither reveals anything about the key.
func (e *envelopeService) Decrypt(blob string, passphrase string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode blob: %w", err)
	}

	if len(raw) < envelopeSaltLen+envelopeNonceLen {
		return nil, fmt.Errorf("blob too short: %d bytes", len(raw))
	}

	salt := raw[:envelopeSaltLen]
	nonce := raw[envelopeSaltLen : envelopeSaltLen+envelopeNonceLen]
	ciphertext := raw[envelopeSaltLen+envelopeNonceLen:]

	block, err := aes.NewCipher(e.deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Wrong passphrase and corrupted data land here identically.
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
