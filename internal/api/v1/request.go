package v1

type CreatePaymentRequest struct {
	OrderID      string `json:"order_id" validate:"required,order_id"`
	PlanID       string `json:"plan_id" validate:"required"`
	Provider     string `json:"provider" validate:"required"`
	Amount       int64  `json:"amount" validate:"required,min=1"`
	DiscountCode string `json:"discount_code" validate:"omitempty,discount_code"`
}
