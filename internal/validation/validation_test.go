package validation_test

import (
	"testing"

	"github.com/elnpack/eln-packager-app/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestWebhookSecret_ValidateSignature(t *testing.T) {
	secret := validation.NewWebhookSecret("key")
	body := []byte(`{"type":"entry.updated","resourceId":"etr_1"}`)
	valid := secret.Sign(body)

	testCases := []struct {
		Name        string
		Headers     map[string]string
		Body        []byte
		ExpectError bool
	}{
		{
			Name:        "missing_headers",
			Headers:     map[string]string{},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "invalid_content_type",
			Headers: map[string]string{
				validation.SignatureHeader: valid,
				"content-type":             "application/xml",
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "malformed_signature_value",
			Headers: map[string]string{
				validation.SignatureHeader: "invalid",
				"content-type":             "application/json",
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "wrong_signature",
			Headers: map[string]string{
				validation.SignatureHeader: "sha256=844d7743b13e1bdd66b003c29ebe5184dcf985434dde9f125952595cd533213e",
				"content-type":             "application/json",
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "valid_signature",
			Headers: map[string]string{
				validation.SignatureHeader: valid,
				"content-type":             "application/json",
			},
			Body: body,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := secret.ValidateSignature(tc.Body, tc.Headers)
			if tc.ExpectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWebhookSecret_SingleByteMutations(t *testing.T) {
	secret := validation.NewWebhookSecret("shared-secret")
	body := []byte(`{"type":"entry.created","resourceId":"etr_42"}`)
	signature := secret.Sign(body)
	headers := func(sig string) map[string]string {
		return map[string]string{
			validation.SignatureHeader: sig,
			"content-type":             "application/json",
		}
	}

	assert.NoError(t, secret.ValidateSignature(body, headers(signature)))

	// every single-byte mutation of the body must be rejected
	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.Error(t, secret.ValidateSignature(mutated, headers(signature)), "body byte %d", i)
	}

	// flipping any hex digit of the signature must be rejected
	for i := len("sha256="); i < len(signature); i++ {
		mutated := []byte(signature)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		assert.Error(t, secret.ValidateSignature(body, headers(string(mutated))), "signature byte %d", i)
	}
}

func TestWebhookSecret_MissingSecret(t *testing.T) {
	var secret *validation.WebhookSecret
	assert.Error(t, secret.ValidateSignature([]byte("{}"), map[string]string{}))
}
