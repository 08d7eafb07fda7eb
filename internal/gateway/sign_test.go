package gateway_test

import (
	"testing"

	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	secret := "server-held-secret"

	t.Run("deterministic for fixed inputs", func(t *testing.T) {
		first := gateway.Sign(secret, "590000", "ORDER123", "https://pay.test/callback")
		second := gateway.Sign(secret, "590000", "ORDER123", "https://pay.test/callback")

		assert.Equal(t, first, second)
	})

	t.Run("hex encoded sha512 output", func(t *testing.T) {
		sig := gateway.Sign(secret, "590000", "ORDER123")

		assert.Len(t, sig, 128)
		assert.Regexp(t, "^[0-9a-f]+$", sig)
	})

	t.Run("field order changes the signature", func(t *testing.T) {
		forward := gateway.Sign(secret, "590000", "ORDER123")
		reversed := gateway.Sign(secret, "ORDER123", "590000")

		assert.NotEqual(t, forward, reversed)
	})

	t.Run("secret changes the signature", func(t *testing.T) {
		one := gateway.Sign("secret-a", "590000", "ORDER123")
		two := gateway.Sign("secret-b", "590000", "ORDER123")

		assert.NotEqual(t, one, two)
	})

	t.Run("joined fields are delimited", func(t *testing.T) {
		// "ab"+"c" and "a"+"bc" must not collide thanks to the separator.
		one := gateway.Sign(secret, "ab", "c")
		two := gateway.Sign(secret, "a", "bc")

		assert.NotEqual(t, one, two)
	})
}
