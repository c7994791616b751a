package security

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
)

const rsaKeyBits = 2048

var (
	ErrMalformedKey          = errors.New("malformed PEM key")
	ErrSignatureVerification = errors.New("signature verification failed")
)

// KeyPair holds one plugin's PEM-encoded RSA keypair. The private key is
// PKCS#8, the public key is PKIX, matching what plugin SDKs expect.
type KeyPair struct {
	PrivateKey string
	PublicKey  string
}

// KeyIssuer generates and uses per-plugin RSA keypairs. Signatures are
// RSASSA-PKCS1-v1_5 over SHA-256, transported as base64.
type KeyIssuer struct{}

// NewKeyIssuer creates a new KeyIssuer instance.
func NewKeyIssuer() *KeyIssuer {
	return &KeyIssuer{}
}

// Generate creates a fresh 2048-bit RSA keypair.
func (i *KeyIssuer) Generate() (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}

	privateDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})),
		PublicKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})),
	}, nil
}

// Sign signs the payload with a PEM private key and returns the
// signature base64-encoded.
func (i *KeyIssuer) Sign(privateKeyPEM string, payload []byte) (string, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(payload)
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

// Verify checks a base64 signature over the payload against a PEM
// public key. Returns ErrSignatureVerification when the signature does
// not match.
func (i *KeyIssuer) Verify(publicKeyPEM string, payload []byte, signatureB64 string) error {
	key, err := parsePublicKey(publicKeyPEM)
	if err != nil {
		return err
	}
	signature, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return ErrSignatureVerification
	}
	digest := sha256.Sum256(payload)
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature); err != nil {
		return ErrSignatureVerification
	}
	return nil
}

func parsePrivateKey(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, ErrMalformedKey
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, ErrMalformedKey
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrMalformedKey
	}
	return key, nil
}

func parsePublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, ErrMalformedKey
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, ErrMalformedKey
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrMalformedKey
	}
	return key, nil
}
