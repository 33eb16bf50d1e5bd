package validator

import (
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
	"clinicslots/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type DoctorValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDoctorValidator(log *logger.Logger) *DoctorValidator {
	return &DoctorValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *DoctorValidator) Validate(d *model.Doctor) error {
	return validation.Struct(v.validate, d)
}
