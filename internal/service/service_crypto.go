package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-guard/internal/crypto"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
)

// cryptoService adapts the envelope engine to the service boundary.
// It exists so callers compose against the same error taxonomy as the rest
// of the services instead of importing internal/crypto directly.
type cryptoService struct {
	envelope crypto.EnvelopeService

	logger *logger.Logger
}

func NewCryptoService(envelope crypto.EnvelopeService, logger *logger.Logger) CryptoService {
	return &cryptoService{
		envelope: envelope,
		logger:   logger,
	}
}

// VaultEncrypt seals plaintext under the given passphrase. Empty plaintext
// is legal; an empty passphrase is not.
func (c *cryptoService) VaultEncrypt(ctx context.Context, plaintext []byte, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}

	blob, err := c.envelope.Encrypt(plaintext, passphrase)
	if err != nil {
		return "", fmt.Errorf("vault encryption failed: %w", err)
	}

	return blob, nil
}

// VaultDecrypt reverses VaultEncrypt. A wrong passphrase and a tampered
// blob both surface as crypto.ErrDecryptionFailed.
func (c *cryptoService) VaultDecrypt(ctx context.Context, blob string, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	plaintext, err := c.envelope.Decrypt(blob, passphrase)
	if err != nil {
		logger.FromContext(ctx).Warn().Str("func", "cryptoService.VaultDecrypt").Msg("vault decryption failed")
		return nil, err
	}

	return plaintext, nil
}
