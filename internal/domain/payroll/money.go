package payroll

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const CurrencySymbol = "¥"

// Round rounds half away from zero on the decimal value, so 524.505 becomes 524.51
// regardless of how the float was produced. NaN and ±Inf pass through.
func Round(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	rounded, _ := decimal.NewFromFloat(value).Round(places).Float64()
	return rounded
}

func RoundMoney(value float64) float64 {
	return Round(value, 2)
}

// FormatMoney renders ¥12,345.67.
func FormatMoney(value float64) string {
	return CurrencySymbol + FormatAmount(value)
}

func FormatAmount(value float64) string {
	return humanize.FormatFloat("#,###.##", RoundMoney(value))
}

// FormatPercent renders a share (0.25) as "25.0%".
func FormatPercent(share float64) string {
	return decimal.NewFromFloat(share).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// FormatRate renders a percentage value (7.5) the way the rate sliders show it.
func FormatRate(rate float64) string {
	return decimal.NewFromFloat(rate).String() + "%"
}

// Rounded returns a copy with every monetary field rounded to cents.
func (r PayrollResult) Rounded() PayrollResult {
	out := r
	out.BaseSalary = RoundMoney(r.BaseSalary)
	lines := make([]InsuranceLine, len(r.Insurance.Lines))
	for i, line := range r.Insurance.Lines {
		line.Amount = RoundMoney(line.Amount)
		lines[i] = line
	}
	out.Insurance = InsuranceBreakdown{Lines: lines}
	out.TotalInsurance = RoundMoney(r.TotalInsurance)
	out.SpecialDeduction = RoundMoney(r.SpecialDeduction)
	out.TaxableIncome = RoundMoney(r.TaxableIncome)
	out.IncomeTax = RoundMoney(r.IncomeTax)
	out.NetSalary = RoundMoney(r.NetSalary)
	out.Composition.NetShare = Round(r.Composition.NetShare, 4)
	out.Composition.InsuranceShare = Round(r.Composition.InsuranceShare, 4)
	out.Composition.TaxShare = Round(r.Composition.TaxShare, 4)
	return out
}
