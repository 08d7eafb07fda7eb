package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/parsedu/payment-service/pkg/httpclient"
)

// LookupKey names the single natural key a provider's callback carries.
// Each provider uses exactly one; the transaction lookup is never ambiguous.
type LookupKey int

const (
	LookupByOrderID LookupKey = iota
	LookupByRefNum
)

type CreateRequest struct {
	OrderID  string
	Amount   int64
	Callback string
}

type CreateResult struct {
	// RefNum is the gateway-issued token. Empty for form-post providers,
	// whose reference arrives with the callback instead.
	RefNum     string
	PaymentURL string
}

// Callback is the provider-normalized view of the parameters a gateway
// sends back after the customer leaves the payment page.
type Callback struct {
	OrderID      string
	RefNum       string
	CardNumber   string
	TrackingCode string
	// OK reports whether the gateway's redirect status indicates an
	// authorized payment. A false value means cancellation or decline and
	// skips the verify call entirely.
	OK      bool
	Message string
}

type VerifyRequest struct {
	OrderID      string
	RefNum       string
	Amount       int64
	CardNumber   string
	TrackingCode string
}

type Provider interface {
	Name() string
	LookupKey() LookupKey
	MinAmount() int64
	Create(ctx context.Context, req CreateRequest) (CreateResult, error)
	ParseCallback(params map[string]string) (Callback, error)
	Verify(ctx context.Context, req VerifyRequest) error
}

// FormProvider is implemented by providers whose payment page is entered
// through a browser-side auto-submitting POST form rather than a redirect URL.
type FormProvider interface {
	Provider
	FormSpec(req CreateRequest) FormSpec
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// postJSON sends a bearer-authorized JSON request and decodes the JSON reply.
// Transport failures map to the timeout/unreachable sentinels; a non-200
// reply is treated as unreachable since these gateways report business
// failures inside a 200 body.
func postJSON(ctx context.Context, client httpclient.HTTPClient, url, apiKey string, in, out interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(in); err != nil {
		return fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}

	resp, err := client.Post(ctx, url, &buf, headers)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrUnreachable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}

	return nil
}
