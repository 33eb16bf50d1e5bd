package validator

import (
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
	"clinicslots/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type TreatmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewTreatmentValidator(log *logger.Logger) *TreatmentValidator {
	return &TreatmentValidator{
		validate: validation.New(),
		logger:   log,
	}
}

// Validate checks the struct tags of t. Duplicate slot labels are rejected,
// the template is a set.
func (v *TreatmentValidator) Validate(t *model.Treatment) error {
	if err := validation.Struct(v.validate, t); err != nil {
		return err
	}

	seen := make(map[string]bool, len(t.Slots))
	for _, slot := range t.Slots {
		if seen[slot] {
			return validation.ValidationErrors{{Field: "slots", Message: "slot " + slot + " appears more than once"}}
		}
		seen[slot] = true
	}
	return nil
}
