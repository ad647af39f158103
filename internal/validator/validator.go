package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator library. The pipeline runs every
// canonical post through it before persistence, enforcing the score
// bound and non-negative counters declared on the model tags.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct based on its tags.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
