// Package matching implements answer normalization, date detection,
// similarity scoring and the equivalence decision used to group trivia
// answers. Everything in this package is pure and safe for concurrent use.
package matching

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidators registers the custom validation tags used by Config on
// v. Callers validating structs that embed Config must register them too.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("ascending_bands", validateAscendingBands); err != nil {
		return fmt.Errorf("failed to register ascending_bands validator: %w", err)
	}
	return nil
}

// validateAscendingBands checks that threshold bands are ordered by strictly
// increasing MaxLength.
func validateAscendingBands(fl validator.FieldLevel) bool {
	bands, ok := fl.Field().Interface().([]ThresholdBand)
	if !ok {
		return false
	}
	return slices.IsSortedFunc(bands, func(a, b ThresholdBand) int {
		return a.MaxLength - b.MaxLength
	}) && !hasDuplicateLengths(bands)
}

func hasDuplicateLengths(bands []ThresholdBand) bool {
	for i := 1; i < len(bands); i++ {
		if bands[i].MaxLength == bands[i-1].MaxLength {
			return true
		}
	}
	return false
}
