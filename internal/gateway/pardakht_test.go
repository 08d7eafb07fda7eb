package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/parsedu/payment-service/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func matchCreateBody(orderID string, amount int64) interface{} {
	return mock.MatchedBy(func(body interface{}) bool {
		buf, ok := body.(*bytes.Buffer)
		if !ok {
			return false
		}

		var req map[string]interface{}
		if err := json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&req); err != nil {
			return false
		}

		sign, _ := req["sign"].(string)
		return req["order_id"] == orderID && req["amount"] == float64(amount) && len(sign) == 128
	})
}

func TestPardakht_Create(t *testing.T) {
	cfg := gateway.PardakhtConfig{
		BaseURL:   "https://gateway.pardakht.test",
		APIKey:    "api-key",
		SecretKey: "secret",
		MinAmount: 10000,
	}

	createURL := "https://gateway.pardakht.test/api/v1/transaction/create"
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer api-key",
	}

	request := gateway.CreateRequest{
		OrderID:  "ORDER123",
		Amount:   590000,
		Callback: "https://pay.test/api/v1/payments/callback/pardakht",
	}

	t.Run("successful create returns token and payment url", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPardakht(cfg, mockClient)

		body := `{"status": 1, "token": "abc", "message": ""}`
		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), createURL,
			matchCreateBody(request.OrderID, request.Amount), headers).Return(response, nil)

		result, err := provider.Create(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "abc", result.RefNum)
		assert.Equal(t, "https://gateway.pardakht.test/payment?token=abc", result.PaymentURL)
		mockClient.AssertExpectations(t)
	})

	t.Run("gateway rejection surfaces its message", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPardakht(cfg, mockClient)

		body := `{"status": 0, "message": "merchant is disabled"}`
		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), createURL,
			mock.Anything, headers).Return(response, nil)

		_, err := provider.Create(context.Background(), request)

		assert.Error(t, err)

		var rejection *gateway.RejectionError
		assert.True(t, errors.As(err, &rejection))
		assert.Equal(t, "merchant is disabled", rejection.Message)
		assert.Equal(t, "pardakht", rejection.Provider)
	})

	t.Run("timeout maps to gateway timeout", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPardakht(cfg, mockClient)

		mockClient.On("Post", context.Background(), createURL,
			mock.Anything, headers).Return(nil, context.DeadlineExceeded)

		_, err := provider.Create(context.Background(), request)

		assert.ErrorIs(t, err, gateway.ErrTimeout)
	})

	t.Run("non 200 reply maps to unreachable", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPardakht(cfg, mockClient)

		response := &http.Response{
			StatusCode: 503,
			Body:       io.NopCloser(strings.NewReader("")),
		}

		mockClient.On("Post", context.Background(), createURL,
			mock.Anything, headers).Return(response, nil)

		_, err := provider.Create(context.Background(), request)

		assert.ErrorIs(t, err, gateway.ErrUnreachable)
	})
}

func TestPardakht_Verify(t *testing.T) {
	cfg := gateway.PardakhtConfig{
		BaseURL:   "https://gateway.pardakht.test",
		APIKey:    "api-key",
		SecretKey: "secret",
	}

	verifyURL := "https://gateway.pardakht.test/api/v1/transaction/verify"
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer api-key",
	}

	request := gateway.VerifyRequest{
		OrderID: "ORDER123",
		Amount:  590000,
	}

	t.Run("accepted verification", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPardakht(cfg, mockClient)

		body := `{"status": 1}`
		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), verifyURL,
			mock.Anything, headers).Return(response, nil)

		err := provider.Verify(context.Background(), request)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("rejected verification", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := gateway.NewPardakht(cfg, mockClient)

		body := `{"status": -3, "message": "amount mismatch"}`
		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), verifyURL,
			mock.Anything, headers).Return(response, nil)

		err := provider.Verify(context.Background(), request)

		var rejection *gateway.RejectionError
		assert.True(t, errors.As(err, &rejection))
		assert.Equal(t, "amount mismatch", rejection.Message)
	})
}

func TestPardakht_ParseCallback(t *testing.T) {
	provider := gateway.NewPardakht(gateway.PardakhtConfig{}, nil)

	t.Run("authorized callback", func(t *testing.T) {
		cb, err := provider.ParseCallback(map[string]string{
			"order_id": "ORDER123",
			"status":   "1",
			"token":    "abc",
		})

		assert.NoError(t, err)
		assert.True(t, cb.OK)
		assert.Equal(t, "ORDER123", cb.OrderID)
		assert.Equal(t, "abc", cb.RefNum)
	})

	t.Run("cancelled callback", func(t *testing.T) {
		cb, err := provider.ParseCallback(map[string]string{
			"order_id": "ORDER123",
			"status":   "0",
			"message":  "cancelled by user",
		})

		assert.NoError(t, err)
		assert.False(t, cb.OK)
		assert.Equal(t, "cancelled by user", cb.Message)
	})

	t.Run("missing order id is malformed", func(t *testing.T) {
		_, err := provider.ParseCallback(map[string]string{"status": "1"})

		assert.ErrorIs(t, err, gateway.ErrMalformedCallback)
	})
}
