package gateway_test

import (
	"context"
	"testing"

	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/stretchr/testify/assert"
)

func TestSadad_Create(t *testing.T) {
	cfg := gateway.SadadConfig{
		RedirectBase: "https://pay.test",
	}
	provider := gateway.NewSadad(cfg, nil)

	result, err := provider.Create(context.Background(), gateway.CreateRequest{OrderID: "ORDER123", Amount: 590000})

	assert.NoError(t, err)
	assert.Empty(t, result.RefNum)
	assert.Equal(t, "https://pay.test/api/v1/payments/redirect/sadad?order_id=ORDER123", result.PaymentURL)
}

func TestSadad_FormSpec(t *testing.T) {
	cfg := gateway.SadadConfig{
		FormEndpoint: "https://sadad.shaparak.test/purchase",
		TerminalID:   "T100",
		MerchantID:   "M200",
		SecretKey:    "secret",
	}
	provider := gateway.NewSadad(cfg, nil)

	spec := provider.FormSpec(gateway.CreateRequest{
		OrderID:  "ORDER123",
		Amount:   590000,
		Callback: "https://pay.test/api/v1/payments/callback/sadad",
	})

	assert.Equal(t, "https://sadad.shaparak.test/purchase", spec.Action)

	fields := make(map[string]string, len(spec.Fields))
	for _, f := range spec.Fields {
		fields[f.Name] = f.Value
	}

	assert.Equal(t, "T100", fields["terminal_id"])
	assert.Equal(t, "M200", fields["merchant_id"])
	assert.Equal(t, "590000", fields["amount"])
	assert.Equal(t, "ORDER123", fields["order_id"])
	assert.Equal(t, "https://pay.test/api/v1/payments/callback/sadad", fields["redirect_url"])
	assert.Equal(t, gateway.Sign("secret", "T100", "ORDER123", "590000"), fields["sign"])
}

func TestSadad_ParseCallback(t *testing.T) {
	provider := gateway.NewSadad(gateway.SadadConfig{}, nil)

	t.Run("authorized callback carries card and tracking fields", func(t *testing.T) {
		cb, err := provider.ParseCallback(map[string]string{
			"order_id":      "ORDER123",
			"ref_num":       "REF-1",
			"card_number":   "603799******1234",
			"tracking_code": "TRK-9",
			"status":        "OK",
		})

		assert.NoError(t, err)
		assert.True(t, cb.OK)
		assert.Equal(t, "REF-1", cb.RefNum)
		assert.Equal(t, "603799******1234", cb.CardNumber)
		assert.Equal(t, "TRK-9", cb.TrackingCode)
	})

	t.Run("non OK status is a decline", func(t *testing.T) {
		cb, err := provider.ParseCallback(map[string]string{
			"order_id": "ORDER123",
			"status":   "CANCELED",
		})

		assert.NoError(t, err)
		assert.False(t, cb.OK)
	})
}
