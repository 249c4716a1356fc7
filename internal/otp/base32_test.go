package otp

import (
	"bytes"
	"testing"
)

func TestEncodeBase32_KnownVectors(t *testing.T) {
	// RFC 4648 test vectors, minus the '=' padding this encoder never emits.
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"f", "MY"},
		{"fo", "MZXQ"},
		{"foo", "MZXW6"},
		{"foob", "MZXW6YQ"},
		{"fooba", "MZXW6YTB"},
		{"foobar", "MZXW6YTBOI"},
	}

	for _, tc := range cases {
		if got := EncodeBase32([]byte(tc.in)); got != tc.want {
			t.Fatalf("EncodeBase32(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeBase32_InverseOfEncode(t *testing.T) {
	// Lengths chosen to cover every partial-group remainder (n mod 5).
	for n := 0; n <= 41; n++ {
		src := make([]byte, n)
		for i := range src {
			src[i] = byte(i*37 + n)
		}

		encoded := EncodeBase32(src)
		decoded := DecodeBase32(encoded)

		if !bytes.Equal(decoded, src) {
			t.Fatalf("round-trip failed for length %d: got %x, want %x", n, decoded, src)
		}
	}
}

func TestDecodeBase32_LenientInput(t *testing.T) {
	want := []byte("foobar")

	cases := []string{
		"MZXW6YTBOI",
		"mzxw6ytboi",          // lowercase
		"MZXW6YTBOI======",    // trailing padding
		"MZXW 6YTB OI",        // whitespace
		"MZXW-6YTB-OI",        // foreign separator characters
		" mzxw6ytboi==\n",     // all of the above
	}

	for _, in := range cases {
		if got := DecodeBase32(in); !bytes.Equal(got, want) {
			t.Fatalf("DecodeBase32(%q) = %x, want %x", in, got, want)
		}
	}
}

func TestDecodeBase32_Empty(t *testing.T) {
	if got := DecodeBase32(""); len(got) != 0 {
		t.Fatalf("DecodeBase32(\"\") = %x, want empty", got)
	}
}
