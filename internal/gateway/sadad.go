package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/parsedu/payment-service/pkg/httpclient"
)

const sadadStatusOK = "OK"

type SadadConfig struct {
	// FormEndpoint is the bank-side URL the auto-submit form posts to.
	FormEndpoint   string `mapstructure:"form_endpoint"`
	VerifyEndpoint string `mapstructure:"verify_endpoint"`
	TerminalID     string `mapstructure:"terminal_id"`
	MerchantID     string `mapstructure:"merchant_id"`
	APIKey         string `mapstructure:"api_key"`
	SecretKey      string `mapstructure:"secret_key"`
	MinAmount      int64  `mapstructure:"min_amount"`
	// RedirectBase is this service's own public base URL; the customer is
	// first sent to our redirect endpoint which renders the signed form.
	RedirectBase string `mapstructure:"redirect_base"`
}

// Sadad is a form-post provider: there is no server-side create call. The
// payment URL points at our own redirect endpoint, which renders the signed
// auto-submit form; the gateway reference arrives with the callback.
type Sadad struct {
	client httpclient.HTTPClient
	config SadadConfig
}

func NewSadad(cfg SadadConfig, client httpclient.HTTPClient) *Sadad {
	return &Sadad{config: cfg, client: client}
}

func (s *Sadad) Name() string { return "sadad" }

func (s *Sadad) LookupKey() LookupKey { return LookupByOrderID }

func (s *Sadad) MinAmount() int64 { return s.config.MinAmount }

func (s *Sadad) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	paymentURL := fmt.Sprintf("%s/api/v1/payments/redirect/%s?order_id=%s",
		s.config.RedirectBase, s.Name(), url.QueryEscape(req.OrderID))

	return CreateResult{PaymentURL: paymentURL}, nil
}

func (s *Sadad) FormSpec(req CreateRequest) FormSpec {
	amount := strconv.FormatInt(req.Amount, 10)

	return FormSpec{
		Action: s.config.FormEndpoint,
		Fields: []FormField{
			{Name: "terminal_id", Value: s.config.TerminalID},
			{Name: "merchant_id", Value: s.config.MerchantID},
			{Name: "amount", Value: amount},
			{Name: "order_id", Value: req.OrderID},
			{Name: "redirect_url", Value: req.Callback},
			{Name: "sign", Value: Sign(s.config.SecretKey, s.config.TerminalID, req.OrderID, amount)},
		},
	}
}

func (s *Sadad) ParseCallback(params map[string]string) (Callback, error) {
	orderID := params["order_id"]
	if orderID == "" {
		return Callback{}, ErrMalformedCallback
	}

	return Callback{
		OrderID:      orderID,
		RefNum:       params["ref_num"],
		CardNumber:   params["card_number"],
		TrackingCode: params["tracking_code"],
		OK:           params["status"] == sadadStatusOK,
		Message:      params["message"],
	}, nil
}

type sadadVerifyRequest struct {
	RefNum string `json:"ref_num"`
	Amount int64  `json:"amount"`
	Sign   string `json:"sign"`
}

type sadadVerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Sadad) Verify(ctx context.Context, req VerifyRequest) error {
	body := sadadVerifyRequest{
		RefNum: req.RefNum,
		Amount: req.Amount,
		Sign:   Sign(s.config.SecretKey, req.RefNum, req.CardNumber, req.TrackingCode),
	}

	var resp sadadVerifyResponse
	if err := postJSON(ctx, s.client, s.config.VerifyEndpoint, s.config.APIKey, body, &resp); err != nil {
		return err
	}

	if resp.Status != sadadStatusOK {
		return &RejectionError{
			Provider: s.Name(),
			Code:     resp.Status,
			Message:  resp.Message,
		}
	}

	return nil
}
