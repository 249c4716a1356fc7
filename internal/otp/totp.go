// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package otp implements the one-time-password engine used for recurring
// two-factor authentication: secret generation, the RFC 4648 base32 codec
// OTP secrets are exchanged in, RFC 4226 HOTP code derivation, and RFC 6238
// time-based verification with a bounded clock-drift window.
package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"
	"io"
	"net/url"
	"time"
)

const (
	// DefaultSecretLength is the secret size in bytes. 160 bits is the
	// RFC 4226 recommendation for HMAC-SHA1.
	DefaultSecretLength = 20

	// DefaultDigits is the standard authenticator-app code width.
	DefaultDigits = 6

	// DefaultPeriod is the RFC 6238 time-step length in seconds.
	DefaultPeriod = 30

	// DefaultWindow is the number of adjacent time steps accepted on either
	// side of the current one, tolerating up to DefaultWindow*DefaultPeriod
	// seconds of clock drift in each direction.
	DefaultWindow = 1
)

// Secret is a generated OTP secret in both of its representations.
type Secret struct {
	// Raw is the secret byte string fed to HMAC-SHA1.
	Raw []byte

	// Base32 is the external, authenticator-app representation of Raw.
	Base32 string
}

// GenerateSecret fills byteLength bytes from the OS CSPRNG and returns the
// secret together with its base32 text form. A non-positive byteLength falls
// back to [DefaultSecretLength]. Returns an error if the random read fails.
func GenerateSecret(byteLength int) (Secret, error) {
	if byteLength <= 0 {
		byteLength = DefaultSecretLength
	}

	raw := make([]byte, byteLength)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return Secret{}, fmt.Errorf("generate otp secret: %w", err)
	}

	return Secret{Raw: raw, Base32: EncodeBase32(raw)}, nil
}

// ProvisioningURI builds the otpauth://totp/... enrollment URI understood by
// authenticator apps, following the Key Uri Format used by Google
// Authenticator. Pure formatting, no I/O.
//
// Algorithm, digits, and period are fixed to the SHA1/6/30 defaults that
// every mainstream authenticator implements.
func ProvisioningURI(secretBase32, accountLabel, issuer string) string {
	label := url.PathEscape(fmt.Sprintf("%s:%s", issuer, accountLabel))
	return fmt.Sprintf(
		"otpauth://totp/%s?secret=%s&issuer=%s&algorithm=SHA1&digits=%d&period=%d",
		label,
		url.QueryEscape(secretBase32),
		url.QueryEscape(issuer),
		DefaultDigits,
		DefaultPeriod,
	)
}

// ComputeCode derives the RFC 4226 HOTP code for the given counter value.
//
// The secret is decoded from base32, HMAC-SHA1 is computed over the 8-byte
// big-endian counter, and the digest is dynamically truncated: the low
// nibble of the last byte selects a 4-byte window, whose top bit is masked
// before reduction modulo 10^digits. The result is zero-padded to exactly
// digits characters, so a numeric value of 42 yields "000042".
func ComputeCode(secretBase32 string, counter int64, digits int) string {
	if digits <= 0 {
		digits = DefaultDigits
	}

	key := DecodeBase32(secretBase32)

	buf := make([]byte, 8)
	c := uint64(counter)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(c & 0xff)
		c >>= 8
	}

	mac := hmac.New(sha1.New, key)
	mac.Write(buf)
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	code := int(sum[offset]&0x7f)<<24 |
		int(sum[offset+1])<<16 |
		int(sum[offset+2])<<8 |
		int(sum[offset+3])

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, code%mod)
}

// Verify checks a submitted code against the current time step and its
// window neighbours, using the standard 30-second period. See [VerifyAt].
func Verify(submittedCode, secretBase32 string, window int) bool {
	return VerifyAt(submittedCode, secretBase32, window, DefaultPeriod, time.Now())
}

// VerifyAt verifies submittedCode against the time step containing t.
//
// For each offset w in [-window, window] the expected code for
// step(t)+w is computed and compared; the first match accepts. Comparison
// is constant-time with respect to code content (equal-length comparisons
// never branch on bytes), so response timing does not leak which digits of
// an expected code were right.
func VerifyAt(submittedCode, secretBase32 string, window, period int, t time.Time) bool {
	if period <= 0 {
		period = DefaultPeriod
	}
	if window < 0 {
		window = DefaultWindow
	}

	step := t.Unix() / int64(period)
	for w := -window; w <= window; w++ {
		expected := ComputeCode(secretBase32, step+int64(w), DefaultDigits)
		if timingSafeEqual(submittedCode, expected) {
			return true
		}
	}

	return false
}

// timingSafeEqual compares two strings in constant time. A length mismatch
// short-circuits; that is not a content leak because every valid code has
// the same fixed width.
func timingSafeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
