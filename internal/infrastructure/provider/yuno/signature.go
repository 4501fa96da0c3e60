package yuno

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks that rawBody was produced by the gateway by
// recomputing the hex HMAC-SHA-256 of the exact raw bytes with the shared
// webhook secret and comparing in constant time. Verification must run on
// the unparsed body: re-serializing a decoded payload changes whitespace and
// key order and produces false negatives.
func (p *YunoProvider) VerifySignature(rawBody []byte, signature string) bool {
	return VerifySignature(p.webhookSecret, rawBody, signature)
}

// VerifySignature is the secret-explicit form used by tests and the webhook
// handler. It never errors; any malformed input fails verification.
func VerifySignature(secret string, rawBody []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	return hmac.Equal(supplied, expected)
}
