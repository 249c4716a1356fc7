// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package otp

import "strings"

// alphabet is the RFC 4648 base32 alphabet used for OTP secrets.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// EncodeBase32 maps every 5 bits of src to one alphabet character.
// A final partial group is padded by left-shifting zero bits into the low
// end; no '=' padding characters are emitted. The empty input encodes to
// the empty string.
func EncodeBase32(src []byte) string {
	var sb strings.Builder
	sb.Grow((len(src)*8 + 4) / 5)

	var value uint
	bits := 0
	for _, b := range src {
		value = value<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			sb.WriteByte(alphabet[(value>>(uint(bits)-5))&31])
			bits -= 5
		}
	}
	if bits > 0 {
		sb.WriteByte(alphabet[(value<<(5-uint(bits)))&31])
	}

	return sb.String()
}

// DecodeBase32 is the inverse of [EncodeBase32] for any string it produced.
//
// The decode is deliberately lenient: input is case-insensitive, trailing
// '=' padding is stripped, and any character outside the alphabet
// (whitespace included) is skipped rather than rejected. This tolerance
// matches what authenticator apps accept when users copy secrets by hand.
func DecodeBase32(s string) []byte {
	clean := strings.ToUpper(strings.TrimRight(s, "="))

	out := make([]byte, 0, len(clean)*5/8)
	var value uint
	bits := 0
	for i := 0; i < len(clean); i++ {
		idx := strings.IndexByte(alphabet, clean[i])
		if idx < 0 {
			continue
		}
		value = value<<5 | uint(idx)
		bits += 5
		if bits >= 8 {
			out = append(out, byte(value>>(uint(bits)-8)))
			bits -= 8
		}
	}

	return out
}
