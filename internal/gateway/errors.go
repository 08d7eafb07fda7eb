package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrUnknownProvider   = errors.New("UNKNOWN_PROVIDER")
	ErrTimeout           = errors.New("GATEWAY_TIMEOUT")
	ErrUnreachable       = errors.New("GATEWAY_UNREACHABLE")
	ErrMalformedCallback = errors.New("MALFORMED_CALLBACK")
)

// RejectionError is a gateway-side refusal: the provider answered but
// reported a non-success code. Its message is passed through to the caller.
type RejectionError struct {
	Provider string
	Code     string
	Message  string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected the request (code %s)", e.Provider, e.Code)
	}
	return e.Message
}

// mapTransportError folds network-level failures into the two transport
// sentinels so the service layer can treat both as a failed-safe outcome.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return ErrUnreachable
}
