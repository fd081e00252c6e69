package payroll

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shanghaiRates = RateSet{Pension: 8, Medical: 2, Unemployment: 0.5, Injury: 0.2, Maternity: 0, Housing: 7}

func TestComputeInsurance(t *testing.T) {
	breakdown := ComputeInsurance(15000, shanghaiRates)

	require.Len(t, breakdown.Lines, len(Categories))
	for i, category := range Categories {
		assert.Equal(t, category, breakdown.Lines[i].Category)
	}
	assert.InDelta(t, 1200, breakdown.Amount(CategoryPension), 1e-9)
	assert.InDelta(t, 300, breakdown.Amount(CategoryMedical), 1e-9)
	assert.InDelta(t, 75, breakdown.Amount(CategoryUnemployment), 1e-9)
	assert.InDelta(t, 30, breakdown.Amount(CategoryInjury), 1e-9)
	assert.Zero(t, breakdown.Amount(CategoryMaternity))
	assert.InDelta(t, 1050, breakdown.Amount(CategoryHousing), 1e-9)
	assert.InDelta(t, 2655, breakdown.Total(), 1e-9)
	assert.Equal(t, "养老保险", breakdown.Lines[0].Label)
}

func TestComputeInsuranceTotalMatchesRateSum(t *testing.T) {
	rateSets := []RateSet{
		shanghaiRates,
		{Pension: 20, Medical: 12, Unemployment: 2, Injury: 2, Maternity: 1, Housing: 12},
		{Pension: 0.1, Medical: 0.3, Unemployment: 0.7, Injury: 1.1, Maternity: 0.9, Housing: 3.3},
		{},
	}
	bases := []float64{0, 1, 3333.33, 15000, 98765.43}

	for _, rates := range rateSets {
		for _, base := range bases {
			breakdown := ComputeInsurance(base, rates)
			assert.InDelta(t, base*rates.Total()/100, breakdown.Total(), 1e-6, "base %v rates %+v", base, rates)
			for _, line := range breakdown.Lines {
				assert.GreaterOrEqual(t, line.Amount, 0.0)
			}
		}
	}
}

func TestComputeIncomeTaxBrackets(t *testing.T) {
	cases := []struct {
		name      string
		income    float64
		rate      float64
		deduction float64
		tax       float64
	}{
		{name: "zero", income: 0, rate: 0.03, deduction: 0, tax: 0},
		{name: "negative", income: -500, rate: 0.03, deduction: 0, tax: 0},
		{name: "first bracket", income: 2000, rate: 0.03, deduction: 0, tax: 60},
		{name: "first boundary", income: 3000, rate: 0.03, deduction: 0, tax: 90},
		{name: "just above first boundary", income: 3000.01, rate: 0.10, deduction: 210, tax: 90.001},
		{name: "second bracket", income: 7345, rate: 0.10, deduction: 210, tax: 524.5},
		{name: "third bracket", income: 20000, rate: 0.20, deduction: 1410, tax: 2590},
		{name: "sixth boundary", income: 80000, rate: 0.35, deduction: 7160, tax: 20840},
		{name: "above every bound", income: 100000, rate: 0.45, deduction: 15160, tax: 29840},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ComputeIncomeTax(tc.income)
			assert.Equal(t, tc.rate, result.Rate)
			assert.Equal(t, tc.deduction, result.QuickDeduction)
			assert.InDelta(t, tc.tax, result.Tax, 1e-6)
		})
	}
}

func TestComputeIncomeTaxZeroIsExact(t *testing.T) {
	result := ComputeIncomeTax(0)
	if result.Tax != 0 {
		t.Fatalf("expected exactly zero tax, got %v", result.Tax)
	}
}

func TestIncomeTaxIsMonotonic(t *testing.T) {
	previous := ComputeIncomeTax(0).Tax
	for income := 50.0; income <= 150000; income += 50 {
		current := ComputeIncomeTax(income).Tax
		if current+1e-9 < previous {
			t.Fatalf("tax decreased at %v: %v < %v", income, current, previous)
		}
		previous = current
	}
}

func TestIncomeTaxContinuousAtBoundaries(t *testing.T) {
	for i, bracket := range MonthlyTaxBrackets[:len(MonthlyTaxBrackets)-1] {
		boundary := bracket.UpperBound
		next := MonthlyTaxBrackets[i+1]
		atBoundary := ComputeIncomeTax(boundary).Tax
		fromAbove := boundary*next.Rate - next.QuickDeduction
		assert.InDelta(t, atBoundary, fromAbove, 1e-6, "discontinuity at %v", boundary)
	}
}

func TestBracketTableShape(t *testing.T) {
	require.Len(t, MonthlyTaxBrackets, 7)
	for i := 1; i < len(MonthlyTaxBrackets); i++ {
		assert.Greater(t, MonthlyTaxBrackets[i].UpperBound, MonthlyTaxBrackets[i-1].UpperBound)
	}
	assert.True(t, MonthlyTaxBrackets[len(MonthlyTaxBrackets)-1].Unbounded())
	assert.True(t, math.IsInf(MonthlyTaxBrackets.Match(1e12).UpperBound, 1))
}

func TestComputeReferenceExample(t *testing.T) {
	result := Compute(Input{BaseSalary: 15000, Rates: shanghaiRates})

	assert.InDelta(t, 2655, result.TotalInsurance, 1e-9)
	assert.InDelta(t, 7345, result.TaxableIncome, 1e-9)
	assert.Equal(t, 0.10, result.TaxRate)
	assert.Equal(t, 210.0, result.QuickDeduction)
	assert.InDelta(t, 524.5, result.IncomeTax, 1e-9)
	assert.InDelta(t, 11820.5, result.NetSalary, 1e-9)
	assert.Equal(t, StandardDeduction, result.StandardDeduction)
	require.True(t, result.Composition.Valid)
	assert.InDelta(t, 1.0, result.Composition.NetShare+result.Composition.InsuranceShare+result.Composition.TaxShare, 1e-9)
}

func TestComputeSpecialDeductionLowersTax(t *testing.T) {
	result := Compute(Input{BaseSalary: 15000, Rates: shanghaiRates, SpecialDeduction: 1000})

	assert.InDelta(t, 6345, result.TaxableIncome, 1e-9)
	assert.InDelta(t, 424.5, result.IncomeTax, 1e-9)
	assert.InDelta(t, 11920.5, result.NetSalary, 1e-9)
}

func TestComputeClampsTaxableIncome(t *testing.T) {
	result := Compute(Input{BaseSalary: 4000, Rates: shanghaiRates, SpecialDeduction: 2000})

	assert.Zero(t, result.TaxableIncome)
	assert.Zero(t, result.IncomeTax)
	assert.InDelta(t, 4000-4000*0.177, result.NetSalary, 1e-9)
}

func TestComputeZeroBaseHasNoComposition(t *testing.T) {
	result := Compute(Input{BaseSalary: 0, Rates: shanghaiRates})

	assert.False(t, result.Composition.Valid)
	assert.Zero(t, result.NetSalary)
}
