package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/parsedu/payment-service/pkg/httpclient"
)

const (
	pardakhtCreateEndpoint = "/api/v1/transaction/create"
	pardakhtVerifyEndpoint = "/api/v1/transaction/verify"

	pardakhtStatusOK = 1
)

type PardakhtConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	SecretKey string `mapstructure:"secret_key"`
	MinAmount int64  `mapstructure:"min_amount"`
}

// Pardakht is the generic token provider: create returns a token, the
// customer is redirected to base_url/payment?token=..., and the callback is
// keyed by order id.
type Pardakht struct {
	client httpclient.HTTPClient
	config PardakhtConfig
}

func NewPardakht(cfg PardakhtConfig, client httpclient.HTTPClient) *Pardakht {
	return &Pardakht{config: cfg, client: client}
}

func (p *Pardakht) Name() string { return "pardakht" }

func (p *Pardakht) LookupKey() LookupKey { return LookupByOrderID }

func (p *Pardakht) MinAmount() int64 { return p.config.MinAmount }

type pardakhtCreateRequest struct {
	Amount   int64  `json:"amount"`
	OrderID  string `json:"order_id"`
	Callback string `json:"callback"`
	Sign     string `json:"sign"`
}

type pardakhtCreateResponse struct {
	Status  int    `json:"status"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (p *Pardakht) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	amount := strconv.FormatInt(req.Amount, 10)

	body := pardakhtCreateRequest{
		Amount:   req.Amount,
		OrderID:  req.OrderID,
		Callback: req.Callback,
		Sign:     Sign(p.config.SecretKey, amount, req.OrderID, req.Callback),
	}

	var resp pardakhtCreateResponse
	if err := postJSON(ctx, p.client, p.config.BaseURL+pardakhtCreateEndpoint, p.config.APIKey, body, &resp); err != nil {
		return CreateResult{}, err
	}

	if resp.Status != pardakhtStatusOK {
		return CreateResult{}, &RejectionError{
			Provider: p.Name(),
			Code:     strconv.Itoa(resp.Status),
			Message:  resp.Message,
		}
	}

	return CreateResult{
		RefNum:     resp.Token,
		PaymentURL: fmt.Sprintf("%s/payment?token=%s", p.config.BaseURL, url.QueryEscape(resp.Token)),
	}, nil
}

func (p *Pardakht) ParseCallback(params map[string]string) (Callback, error) {
	orderID := params["order_id"]
	if orderID == "" {
		return Callback{}, ErrMalformedCallback
	}

	return Callback{
		OrderID:      orderID,
		RefNum:       params["token"],
		TrackingCode: params["tracking_code"],
		OK:           params["status"] == "1",
		Message:      params["message"],
	}, nil
}

type pardakhtVerifyRequest struct {
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Sign    string `json:"sign"`
}

type pardakhtVerifyResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (p *Pardakht) Verify(ctx context.Context, req VerifyRequest) error {
	amount := strconv.FormatInt(req.Amount, 10)

	body := pardakhtVerifyRequest{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Sign:    Sign(p.config.SecretKey, amount, req.OrderID),
	}

	var resp pardakhtVerifyResponse
	if err := postJSON(ctx, p.client, p.config.BaseURL+pardakhtVerifyEndpoint, p.config.APIKey, body, &resp); err != nil {
		return err
	}

	if resp.Status != pardakhtStatusOK {
		return &RejectionError{
			Provider: p.Name(),
			Code:     strconv.Itoa(resp.Status),
			Message:  resp.Message,
		}
	}

	return nil
}
