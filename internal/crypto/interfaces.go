// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

// EnvelopeService performs passphrase-based authenticated encryption of
// vault secrets.
//
// Every Encrypt call derives a fresh symmetric key from the passphrase and a
// random per-operation salt, so the passphrase itself is never stored and
// never leaves the calling process. The resulting blob is self-describing:
// Decrypt needs nothing besides the blob and the original passphrase.
type EnvelopeService interface {
	// Encrypt seals plaintext under a key derived from passphrase and
	// returns a transportable base64 blob of salt ‖ nonce ‖ ciphertext.
	// Two calls with identical inputs never produce the same blob.
	Encrypt(plaintext []byte, passphrase string) (string, error)

	// Decrypt reverses Encrypt. It returns [ErrDecryptionFailed] when the
	// authentication tag check fails; a wrong passphrase and a tampered
	// blob are deliberately indistinguishable.
	Decrypt(blob string, passphrase string) ([]byte, error)
}
