package validator

import (
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
	"clinicslots/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type PaymentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPaymentValidator(log *logger.Logger) *PaymentValidator {
	return &PaymentValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *PaymentValidator) ValidateConfirmation(c *model.PaymentConfirmation) error {
	return validation.Struct(v.validate, c)
}

func (v *PaymentValidator) ValidateIntentRequest(req *model.ChargeIntentRequest) error {
	return validation.Struct(v.validate, req)
}
