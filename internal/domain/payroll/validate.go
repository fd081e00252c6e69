package payroll

import (
	"fmt"
	"math"
)

// Validate checks the numeric bounds presentation layers enforce before calling
// into the calculator. It returns nil or a *ValidationError.
func Validate(input Input, bounds RateBounds) error {
	verr := &ValidationError{}
	checkAmount(verr, "baseSalary", input.BaseSalary)
	checkAmount(verr, "specialDeduction", input.SpecialDeduction)
	checkRates(verr, "rates.", input.Rates, bounds)
	if len(verr.Issues) > 0 {
		return verr
	}
	return nil
}

// MaxAmount caps monthly amounts well below the range where the insurance
// products overflow float64.
const MaxAmount = 1e12

func checkAmount(verr *ValidationError, field string, value float64) {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		verr.add(field, "must be a finite number")
	case value < 0:
		verr.add(field, "must be zero or greater")
	case value > MaxAmount:
		verr.add(field, fmt.Sprintf("must not exceed %g", float64(MaxAmount)))
	}
}

func checkRates(verr *ValidationError, prefix string, rates RateSet, bounds RateBounds) {
	for _, category := range Categories {
		value := rates.Rate(category)
		bound := bounds.For(category)
		field := prefix + string(category)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			verr.add(field, "must be a finite number")
			continue
		}
		if value < bound.Min || value > bound.Max {
			verr.add(field, fmt.Sprintf("must be between %g and %g", bound.Min, bound.Max))
		}
	}
}
