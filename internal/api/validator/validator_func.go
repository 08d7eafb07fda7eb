package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	orderIDRegex      = `^[A-Za-z0-9_-]{1,64}$`
	discountCodeRegex = `^[A-Z0-9_-]{3,32}$`
)

const (
	OrderIDTag      = "order_id"
	DiscountCodeTag = "discount_code"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	OrderIDTag:      ValidateOrderID,
	DiscountCodeTag: ValidateDiscountCode,
}

func ValidateOrderID(fl validator.FieldLevel) bool {
	return regexp.MustCompile(orderIDRegex).MatchString(fl.Field().String())
}

func ValidateDiscountCode(fl validator.FieldLevel) bool {
	return regexp.MustCompile(discountCodeRegex).MatchString(fl.Field().String())
}
