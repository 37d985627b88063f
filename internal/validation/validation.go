// Package validation provides functionality for validating webhook signatures to verify request authenticity.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader is the lowercase header carrying the webhook signature.
const SignatureHeader = "x-notebook-signature"

const signaturePrefix = "sha256="

// ErrSignatureInvalid is returned when the presented signature does not match
// the body. The error deliberately carries neither the signature nor the
// secret.
var ErrSignatureInvalid = errors.New("webhook signature mismatch")

// WebhookSecret represents a secret used to validate webhook signatures for verifying request authenticity.
type WebhookSecret string

// NewWebhookSecret creates a new WebhookSecret instance from the provided secret string and returns its address.
func NewWebhookSecret(secret string) *WebhookSecret {
	s := WebhookSecret(secret)
	return &s
}

// Sign computes the signature header value for the given body. Primarily used
// by tests and local tooling to produce valid requests.
func (s *WebhookSecret) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(*s))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// ValidateSignature validates the HMAC-SHA256 signature of a webhook request
// against the exact raw body bytes. The comparison is constant time.
func (s *WebhookSecret) ValidateSignature(body []byte, headers map[string]string) error {
	if s == nil || *s == "" {
		return errors.New("missing webhook secret")
	}
	signature, found := headers[SignatureHeader]
	if !found {
		return errors.New("missing HMAC-SHA256 signature")
	}

	if contentType := headers["content-type"]; contentType != "application/json" {
		return fmt.Errorf("unsupported content type: %s", contentType)
	}

	if !strings.HasPrefix(signature, signaturePrefix) {
		return ErrSignatureInvalid
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil {
		return ErrSignatureInvalid
	}

	mac := hmac.New(sha256.New, []byte(*s))
	mac.Write(body)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrSignatureInvalid
	}
	return nil
}
