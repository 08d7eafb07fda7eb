package service

import "time"

type CreatePaymentCommand struct {
	UserID       string
	OrderID      string
	PlanID       string
	Provider     string
	Amount       int64
	DiscountCode string
}

type CreatePaymentResult struct {
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id"`
	PaymentURL    string `json:"payment_url"`
}

// VerifyPaymentCommand carries the raw gateway callback parameters; the
// provider adapter decides what they mean.
type VerifyPaymentCommand struct {
	Provider string
	Params   map[string]string
}

type VerifyPaymentResult struct {
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	OrderID    string     `json:"order_id"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}
