package signature

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	data := "donor@example.com|5000|school supplies"
	sig, err := s.Sign(data)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ok, err := s.Verify(data, sig)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("valid signature rejected")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	s, _ := New()

	sig, err := s.Sign("donor@example.com|5000|school supplies")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ok, err := s.Verify("donor@example.com|9000|school supplies", sig)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("tampered payload verified")
	}
}

func TestVerifyMalformedSignature(t *testing.T) {
	s, _ := New()
	if _, err := s.Verify("data", "not hex"); !errors.Is(err, ErrMalformedSignature) {
		t.Fatalf("expected ErrMalformedSignature, got %v", err)
	}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	s, _ := New()

	pemText, err := s.PublicKeyPEM()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	pub, err := ParsePublicKeyPEM(pemText)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	sig, err := s.Sign("payload")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	ok, err := VerifyWith(pub, "payload", sig)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("signature did not verify under exported key")
	}
}

func TestLoadOrGeneratePersistsKeypair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing_key.pem")

	first, err := LoadOrGenerate(path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	sig, err := first.Sign("durable payload")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Simulated restart: the reloaded key must still verify old signatures.
	second, err := LoadOrGenerate(path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	ok, err := second.Verify("durable payload", sig)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("signature not verifiable after reload")
	}
}
