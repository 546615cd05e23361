package encoding

import (
	"errors"
	"testing"
)

func TestBase64RoundTrip(t *testing.T) {
	inputs := []string{"", "SecurityTest", "héllo wörld", "a=b&c=d"}
	for _, in := range inputs {
		out, err := DecodeBase64(EncodeBase64(in))
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: got %q want %q", out, in)
		}
	}
}

func TestDecodeBase64Malformed(t *testing.T) {
	if _, err := DecodeBase64("not base64!!"); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestURLRoundTrip(t *testing.T) {
	inputs := []string{"", "plain", "a b/c?d=e&f=g", "émoji ✓"}
	for _, in := range inputs {
		out, err := DecodeURL(EncodeURL(in))
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: got %q want %q", out, in)
		}
	}
}

func TestDecodeURLMalformed(t *testing.T) {
	if _, err := DecodeURL("%zz"); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}
