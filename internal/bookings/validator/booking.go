package validator

import (
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
	"clinicslots/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(req *model.BookingRequest) error {
	return validation.Struct(v.validate, req)
}

