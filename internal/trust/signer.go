package trust

import (
	"encoding/json"

	"github.com/gatherhall/plugin-trust/internal/security"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// ResponseInner is the payload a handler produces for a verified
// request. Field order is fixed; the serialized form is what gets
// signed, so it must be byte-stable for a given payload.
type ResponseInner struct {
	Data      any    `json:"data"`
	PluginID  string `json:"pluginId"`
	RequestID string `json:"requestId"`
}

// SignedResponse carries the serialized response body and its
// signature. The plugin verifies the signature with the public key it
// received at creation.
type SignedResponse struct {
	Response  string `json:"response"`
	Signature string `json:"signature"`
}

// Signer signs response payloads with the plugin's private key.
type Signer struct {
	issuer *security.KeyIssuer
}

// NewSigner creates a Signer.
func NewSigner(issuer *security.KeyIssuer) *Signer {
	return &Signer{issuer: issuer}
}

// Sign serializes the inner response and signs it.
func (s *Signer) Sign(privateKeyPEM string, inner *ResponseInner) (*SignedResponse, error) {
	body, err := json.Marshal(inner)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	signature, err := s.issuer.Sign(privateKeyPEM, body)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	return &SignedResponse{
		Response:  string(body),
		Signature: signature,
	}, nil
}
