package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/parsedu/payment-service/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPasargad_Create(t *testing.T) {
	cfg := gateway.PasargadConfig{
		BaseURL:      "https://gateway.pasargad.test",
		MerchantCode: "M100",
		APIKey:       "api-key",
		SecretKey:    "secret",
		MinAmount:    10000,
	}

	createURL := "https://gateway.pasargad.test/api/payment/request"
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer api-key",
	}

	request := gateway.CreateRequest{
		OrderID:  "ORDER123",
		Amount:   590000,
		Callback: "https://pay.test/api/v1/payments/callback/pasargad",
	}

	t.Run("successful create signs merchant order amount and callback", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPasargad(cfg, mockClient)

		wantSign := gateway.Sign("secret", "M100", "ORDER123", "590000", request.Callback)

		body := `{"status": 1, "token": "tok-1"}`
		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), createURL,
			mock.MatchedBy(func(body interface{}) bool {
				buf, ok := body.(*bytes.Buffer)
				if !ok {
					return false
				}

				var req map[string]interface{}
				if err := json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&req); err != nil {
					return false
				}

				return req["merchant_code"] == "M100" && req["sign"] == wantSign
			}), headers).Return(response, nil)

		result, err := provider.Create(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "tok-1", result.RefNum)
		assert.Equal(t, "https://gateway.pasargad.test/gateway?token=tok-1", result.PaymentURL)
		mockClient.AssertExpectations(t)
	})

	t.Run("token with reserved characters is escaped in the payment url", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPasargad(cfg, mockClient)

		body := `{"status": 1, "token": "a b&c"}`
		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), createURL,
			mock.Anything, headers).Return(response, nil)

		result, err := provider.Create(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "https://gateway.pasargad.test/gateway?token=a+b%26c", result.PaymentURL)
	})
}

func TestPasargad_Verify(t *testing.T) {
	cfg := gateway.PasargadConfig{
		BaseURL:      "https://gateway.pasargad.test",
		MerchantCode: "M100",
		APIKey:       "api-key",
		SecretKey:    "secret",
	}

	verifyURL := "https://gateway.pasargad.test/api/payment/confirm"
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer api-key",
	}

	t.Run("accepted confirmation signs merchant token and amount", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPasargad(cfg, mockClient)

		wantSign := gateway.Sign("secret", "M100", "tok-1", "590000")

		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(`{"status": 1}`)),
		}

		mockClient.On("Post", context.Background(), verifyURL,
			mock.MatchedBy(func(body interface{}) bool {
				buf, ok := body.(*bytes.Buffer)
				if !ok {
					return false
				}

				var req map[string]interface{}
				if err := json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&req); err != nil {
					return false
				}

				return req["ref_num"] == "tok-1" && req["sign"] == wantSign
			}), headers).Return(response, nil)

		err := provider.Verify(context.Background(), gateway.VerifyRequest{
			RefNum: "tok-1",
			Amount: 590000,
		})

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}

func TestPasargad_ParseCallback(t *testing.T) {
	provider := gateway.NewPasargad(gateway.PasargadConfig{}, nil)

	t.Run("callback is keyed by reference number", func(t *testing.T) {
		assert.Equal(t, gateway.LookupByRefNum, provider.LookupKey())

		cb, err := provider.ParseCallback(map[string]string{
			"ref_num":       "tok-1",
			"status":        "1",
			"tracking_code": "TRK-9",
		})

		assert.NoError(t, err)
		assert.True(t, cb.OK)
		assert.Equal(t, "tok-1", cb.RefNum)
		assert.Equal(t, "TRK-9", cb.TrackingCode)
	})

	t.Run("missing reference number is malformed", func(t *testing.T) {
		_, err := provider.ParseCallback(map[string]string{"status": "1"})

		assert.ErrorIs(t, err, gateway.ErrMalformedCallback)
	})
}
