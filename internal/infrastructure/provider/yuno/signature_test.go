package yuno

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test_secret"
	body := []byte(`{"type":"payment.succeeded","data":{"id":"txn_123"}}`)

	t.Run("valid signature passes", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, body, sign(secret, body)))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, body, sign("other_secret", body)))
	})

	t.Run("tampered body fails", func(t *testing.T) {
		sig := sign(secret, body)
		tampered := []byte(`{"type":"payment.succeeded","data":{"id":"txn_999"}}`)
		assert.False(t, VerifySignature(secret, tampered, sig))
	})

	t.Run("reserialized body fails", func(t *testing.T) {
		// Same JSON value, different byte serialization. The signature is
		// over bytes, not structure.
		sig := sign(secret, body)
		reserialized := []byte(`{"data":{"id":"txn_123"},"type":"payment.succeeded"}`)
		assert.False(t, VerifySignature(secret, reserialized, sig))
	})

	t.Run("empty signature fails", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, body, ""))
	})

	t.Run("non-hex signature fails", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, body, "not-hex!!"))
	})

	t.Run("empty secret fails", func(t *testing.T) {
		assert.False(t, VerifySignature("", body, sign("", body)))
	})
}
