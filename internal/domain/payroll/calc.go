package payroll

import "math"

func ComputeInsurance(baseSalary float64, rates RateSet) InsuranceBreakdown {
	lines := make([]InsuranceLine, 0, len(Categories))
	for _, category := range Categories {
		rate := rates.Rate(category)
		lines = append(lines, InsuranceLine{
			Category: category,
			Label:    category.Label(),
			Rate:     rate,
			Amount:   baseSalary * rate / 100,
		})
	}
	return InsuranceBreakdown{Lines: lines}
}

// ComputeIncomeTax applies the monthly bracket table. Income at or below zero
// is taxed at zero but still reports the first bracket.
func ComputeIncomeTax(taxableIncome float64) TaxResult {
	return MonthlyTaxBrackets.Compute(taxableIncome)
}

// Match returns the first bracket whose upper bound covers income, falling back
// to the last bracket when income exceeds every finite bound.
func (t TaxBracketTable) Match(income float64) TaxBracket {
	for _, bracket := range t {
		if income <= bracket.UpperBound {
			return bracket
		}
	}
	return t[len(t)-1]
}

func (t TaxBracketTable) Compute(taxableIncome float64) TaxResult {
	bracket := t.Match(taxableIncome)
	result := TaxResult{
		TaxableIncome:  taxableIncome,
		Rate:           bracket.Rate,
		QuickDeduction: bracket.QuickDeduction,
	}
	if taxableIncome > 0 {
		result.Tax = taxableIncome*bracket.Rate - bracket.QuickDeduction
	}
	return result
}

func TaxableIncome(baseSalary, totalInsurance, specialDeduction float64) float64 {
	return math.Max(0, baseSalary-totalInsurance-StandardDeduction-specialDeduction)
}

func Compute(input Input) PayrollResult {
	insurance := ComputeInsurance(input.BaseSalary, input.Rates)
	totalInsurance := insurance.Total()
	taxable := TaxableIncome(input.BaseSalary, totalInsurance, input.SpecialDeduction)
	tax := ComputeIncomeTax(taxable)
	net := input.BaseSalary - totalInsurance - tax.Tax

	return PayrollResult{
		BaseSalary:        input.BaseSalary,
		Rates:             input.Rates,
		Insurance:         insurance,
		TotalInsurance:    totalInsurance,
		StandardDeduction: StandardDeduction,
		SpecialDeduction:  input.SpecialDeduction,
		TaxableIncome:     taxable,
		TaxRate:           tax.Rate,
		QuickDeduction:    tax.QuickDeduction,
		IncomeTax:         tax.Tax,
		NetSalary:         net,
		Composition:       composition(input.BaseSalary, net, totalInsurance, tax.Tax),
	}
}

func composition(base, net, insurance, tax float64) Composition {
	if base <= 0 {
		return Composition{}
	}
	return Composition{
		Valid:          true,
		NetShare:       net / base,
		InsuranceShare: insurance / base,
		TaxShare:       tax / base,
	}
}
