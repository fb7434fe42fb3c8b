package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/stripegateway"
)

var ErrAmountNotPositive = errors.New("amount must be greater than zero")

var validate = validator.New()

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	return stripegateway.ValidateAmount(amount)
}

type CheckoutRequest struct {
	ProductName string            `json:"product_name" validate:"required,max=250"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency" validate:"omitempty,len=3,alpha"`
	Metadata    map[string]string `json:"metadata" validate:"omitempty,max=50,dive,keys,max=40,endkeys,max=500"`
}

func (r *CheckoutRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validateAmount(r.Amount)
}

type SubscriptionCheckoutRequest struct {
	CheckoutRequest
	Interval      string `json:"interval" validate:"required,oneof=day week month year"`
	IntervalCount int64  `json:"interval_count" validate:"omitempty,min=1,max=365"`
}

func (r *SubscriptionCheckoutRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validateAmount(r.Amount)
}

type PaymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"omitempty,len=3,alpha"`
}

func (r *PaymentIntentRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validateAmount(r.Amount)
}

type ConfirmPaymentIntentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func (r *ConfirmPaymentIntentRequest) Validate() error {
	return validate.Struct(r)
}
