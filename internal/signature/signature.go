// Package signature produces and checks RSA-SHA256 integrity signatures
// for donation and expense-proof records.
package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrMalformedSignature indicates the signature is not valid hex. A
// signature that simply does not match is a normal false result, not an
// error.
var ErrMalformedSignature = errors.New("signature: malformed signature encoding")

const (
	rsaBits            = 2048
	privateKeyPEMBlock = "RSA PRIVATE KEY"
	publicKeyPEMBlock  = "PUBLIC KEY"
)

// Signer signs byte payloads with an RSA private key. The key material is
// read-only after construction and safe for concurrent use.
type Signer struct {
	key *rsa.PrivateKey
}

// New generates a fresh in-memory keypair. Signatures from a previous
// process are not verifiable against it; servers should use
// LoadOrGenerate instead.
func New() (*Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaBits)
	if err != nil {
		return nil, fmt.Errorf("signature: generate keypair: %w", err)
	}
	return &Signer{key: key}, nil
}

// LoadOrGenerate reads the PEM private key at path, generating and
// persisting one on first run so signatures stay verifiable across
// restarts.
func LoadOrGenerate(path string) (*Signer, error) {
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		block, _ := pem.Decode(raw)
		if block == nil || block.Type != privateKeyPEMBlock {
			return nil, fmt.Errorf("signature: %s does not contain an RSA private key", path)
		}
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("signature: parse %s: %w", path, err)
		}
		return &Signer{key: key}, nil
	case os.IsNotExist(err):
		signer, err := New()
		if err != nil {
			return nil, err
		}
		encoded := pem.EncodeToMemory(&pem.Block{
			Type:  privateKeyPEMBlock,
			Bytes: x509.MarshalPKCS1PrivateKey(signer.key),
		})
		if err := os.WriteFile(path, encoded, 0o600); err != nil {
			return nil, fmt.Errorf("signature: persist keypair: %w", err)
		}
		return signer, nil
	default:
		return nil, fmt.Errorf("signature: read %s: %w", path, err)
	}
}

// Sign returns the hex-encoded RSA PKCS#1 v1.5 signature of the SHA-256
// digest of data.
func (s *Signer) Sign(data string) (string, error) {
	digest := sha256.Sum256([]byte(data))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("signature: sign: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify reports whether sigHex is a valid signature of data under this
// signer's own public key.
func (s *Signer) Verify(data, sigHex string) (bool, error) {
	return VerifyWith(&s.key.PublicKey, data, sigHex)
}

// VerifyWith reports whether sigHex is a valid signature of data under
// the given public key.
func VerifyWith(pub *rsa.PublicKey, data, sigHex string) (bool, error) {
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	digest := sha256.Sum256([]byte(data))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return false, nil
	}
	return true, nil
}

// PublicKeyPEM exports the verification half of the keypair as PKIX PEM
// text for out-of-band verification.
func (s *Signer) PublicKeyPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	if err != nil {
		return "", fmt.Errorf("signature: marshal public key: %w", err)
	}
	encoded := pem.EncodeToMemory(&pem.Block{Type: publicKeyPEMBlock, Bytes: der})
	return string(encoded), nil
}

// ParsePublicKeyPEM parses PEM text produced by PublicKeyPEM.
func ParsePublicKeyPEM(text string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil {
		return nil, errors.New("signature: no PEM block found")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("signature: parse public key: %w", err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("signature: not an RSA public key")
	}
	return pub, nil
}
