package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/parsedu/payment-service/pkg/httpclient"
)

const (
	pasargadCreateEndpoint = "/api/payment/request"
	pasargadVerifyEndpoint = "/api/payment/confirm"

	pasargadStatusOK = 1
)

type PasargadConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	MerchantCode string `mapstructure:"merchant_code"`
	APIKey       string `mapstructure:"api_key"`
	SecretKey    string `mapstructure:"secret_key"`
	MinAmount    int64  `mapstructure:"min_amount"`
}

// Pasargad issues a token on create and keys its callback by that token, so
// the verify-time lookup runs on ref_num rather than order id.
type Pasargad struct {
	client httpclient.HTTPClient
	config PasargadConfig
}

func NewPasargad(cfg PasargadConfig, client httpclient.HTTPClient) *Pasargad {
	return &Pasargad{config: cfg, client: client}
}

func (p *Pasargad) Name() string { return "pasargad" }

func (p *Pasargad) LookupKey() LookupKey { return LookupByRefNum }

func (p *Pasargad) MinAmount() int64 { return p.config.MinAmount }

type pasargadCreateRequest struct {
	MerchantCode string `json:"merchant_code"`
	Amount       int64  `json:"amount"`
	OrderID      string `json:"order_id"`
	Callback     string `json:"callback"`
	Sign         string `json:"sign"`
}

type pasargadCreateResponse struct {
	Status  int    `json:"status"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (p *Pasargad) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	amount := strconv.FormatInt(req.Amount, 10)

	body := pasargadCreateRequest{
		MerchantCode: p.config.MerchantCode,
		Amount:       req.Amount,
		OrderID:      req.OrderID,
		Callback:     req.Callback,
		Sign:         Sign(p.config.SecretKey, p.config.MerchantCode, req.OrderID, amount, req.Callback),
	}

	var resp pasargadCreateResponse
	if err := postJSON(ctx, p.client, p.config.BaseURL+pasargadCreateEndpoint, p.config.APIKey, body, &resp); err != nil {
		return CreateResult{}, err
	}

	if resp.Status != pasargadStatusOK {
		return CreateResult{}, &RejectionError{
			Provider: p.Name(),
			Code:     strconv.Itoa(resp.Status),
			Message:  resp.Message,
		}
	}

	return CreateResult{
		RefNum:     resp.Token,
		PaymentURL: fmt.Sprintf("%s/gateway?token=%s", p.config.BaseURL, url.QueryEscape(resp.Token)),
	}, nil
}

func (p *Pasargad) ParseCallback(params map[string]string) (Callback, error) {
	refNum := params["ref_num"]
	if refNum == "" {
		return Callback{}, ErrMalformedCallback
	}

	return Callback{
		RefNum:       refNum,
		TrackingCode: params["tracking_code"],
		OK:           params["status"] == "1",
		Message:      params["message"],
	}, nil
}

type pasargadVerifyRequest struct {
	MerchantCode string `json:"merchant_code"`
	RefNum       string `json:"ref_num"`
	Amount       int64  `json:"amount"`
	Sign         string `json:"sign"`
}

type pasargadVerifyResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (p *Pasargad) Verify(ctx context.Context, req VerifyRequest) error {
	amount := strconv.FormatInt(req.Amount, 10)

	body := pasargadVerifyRequest{
		MerchantCode: p.config.MerchantCode,
		RefNum:       req.RefNum,
		Amount:       req.Amount,
		Sign:         Sign(p.config.SecretKey, p.config.MerchantCode, req.RefNum, amount),
	}

	var resp pasargadVerifyResponse
	if err := postJSON(ctx, p.client, p.config.BaseURL+pasargadVerifyEndpoint, p.config.APIKey, body, &resp); err != nil {
		return err
	}

	if resp.Status != pasargadStatusOK {
		return &RejectionError{
			Provider: p.Name(),
			Code:     strconv.Itoa(resp.Status),
			Message:  resp.Message,
		}
	}

	return nil
}
