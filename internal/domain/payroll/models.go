package payroll

import (
	"encoding/json"
	"math"
)

type Category string

type RateSet struct {
	Pension      float64 `json:"pension"`
	Medical      float64 `json:"medical"`
	Unemployment float64 `json:"unemployment"`
	Injury       float64 `json:"injury"`
	Maternity    float64 `json:"maternity"`
	Housing      float64 `json:"housing"`
}

// Rate returns the percentage configured for a category, or 0 for an unknown one.
func (r RateSet) Rate(category Category) float64 {
	switch category {
	case CategoryPension:
		return r.Pension
	case CategoryMedical:
		return r.Medical
	case CategoryUnemployment:
		return r.Unemployment
	case CategoryInjury:
		return r.Injury
	case CategoryMaternity:
		return r.Maternity
	case CategoryHousing:
		return r.Housing
	}
	return 0
}

func (r RateSet) Total() float64 {
	total := 0.0
	for _, category := range Categories {
		total += r.Rate(category)
	}
	return total
}

// RateOverrides holds rates that replace the selected city's preset values.
// A nil field keeps the preset value.
type RateOverrides struct {
	Pension      *float64 `json:"pension,omitempty"`
	Medical      *float64 `json:"medical,omitempty"`
	Unemployment *float64 `json:"unemployment,omitempty"`
	Injury       *float64 `json:"injury,omitempty"`
	Maternity    *float64 `json:"maternity,omitempty"`
	Housing      *float64 `json:"housing,omitempty"`
}

func (o RateOverrides) Apply(base RateSet) RateSet {
	out := base
	if o.Pension != nil {
		out.Pension = *o.Pension
	}
	if o.Medical != nil {
		out.Medical = *o.Medical
	}
	if o.Unemployment != nil {
		out.Unemployment = *o.Unemployment
	}
	if o.Injury != nil {
		out.Injury = *o.Injury
	}
	if o.Maternity != nil {
		out.Maternity = *o.Maternity
	}
	if o.Housing != nil {
		out.Housing = *o.Housing
	}
	return out
}

func (o RateOverrides) Empty() bool {
	return o.Pension == nil && o.Medical == nil && o.Unemployment == nil &&
		o.Injury == nil && o.Maternity == nil && o.Housing == nil
}

type InsuranceLine struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Rate     float64  `json:"rate"`
	Amount   float64  `json:"amount"`
}

// InsuranceBreakdown lists one line per category in Categories order.
type InsuranceBreakdown struct {
	Lines []InsuranceLine `json:"lines"`
}

func (b InsuranceBreakdown) Amount(category Category) float64 {
	for _, line := range b.Lines {
		if line.Category == category {
			return line.Amount
		}
	}
	return 0
}

func (b InsuranceBreakdown) Total() float64 {
	total := 0.0
	for _, line := range b.Lines {
		total += line.Amount
	}
	return total
}

// TaxBracket applies to taxable income up to and including UpperBound.
type TaxBracket struct {
	UpperBound     float64 `json:"upperBound"`
	Rate           float64 `json:"rate"`
	QuickDeduction float64 `json:"quickDeduction"`
}

func (b TaxBracket) Unbounded() bool {
	return math.IsInf(b.UpperBound, 1)
}

// MarshalJSON encodes the unbounded bracket's upper bound as null.
func (b TaxBracket) MarshalJSON() ([]byte, error) {
	var upper *float64
	if !b.Unbounded() {
		upper = &b.UpperBound
	}
	return json.Marshal(struct {
		UpperBound     *float64 `json:"upperBound"`
		Rate           float64  `json:"rate"`
		QuickDeduction float64  `json:"quickDeduction"`
	}{UpperBound: upper, Rate: b.Rate, QuickDeduction: b.QuickDeduction})
}

type TaxBracketTable []TaxBracket

type TaxResult struct {
	TaxableIncome  float64 `json:"taxableIncome"`
	Rate           float64 `json:"rate"`
	QuickDeduction float64 `json:"quickDeduction"`
	Tax            float64 `json:"tax"`
}

// Composition expresses net salary, insurance and tax as shares of base salary.
// Valid is false when base salary is not positive.
type Composition struct {
	Valid          bool    `json:"valid"`
	NetShare       float64 `json:"netShare"`
	InsuranceShare float64 `json:"insuranceShare"`
	TaxShare       float64 `json:"taxShare"`
}

type Input struct {
	BaseSalary       float64
	Rates            RateSet
	SpecialDeduction float64
}

type PayrollResult struct {
	City              CityPreset         `json:"city"`
	BaseSalary        float64            `json:"baseSalary"`
	Rates             RateSet            `json:"rates"`
	Insurance         InsuranceBreakdown `json:"insurance"`
	TotalInsurance    float64            `json:"totalInsurance"`
	StandardDeduction float64            `json:"standardDeduction"`
	SpecialDeduction  float64            `json:"specialDeduction"`
	TaxableIncome     float64            `json:"taxableIncome"`
	TaxRate           float64            `json:"taxRate"`
	QuickDeduction    float64            `json:"quickDeduction"`
	IncomeTax         float64            `json:"incomeTax"`
	NetSalary         float64            `json:"netSalary"`
	Composition       Composition        `json:"composition"`
}

// Request is what presentation layers send: a city plus optional rate overrides.
type Request struct {
	BaseSalary       float64       `json:"baseSalary"`
	City             string        `json:"city,omitempty"`
	Rates            RateOverrides `json:"rates"`
	SpecialDeduction float64       `json:"specialDeduction"`
}

type CityPreset struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Rates RateSet `json:"rates"`
}

type Bound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type RateBounds struct {
	Pension      Bound `json:"pension"`
	Medical      Bound `json:"medical"`
	Unemployment Bound `json:"unemployment"`
	Injury       Bound `json:"injury"`
	Maternity    Bound `json:"maternity"`
	Housing      Bound `json:"housing"`
}

func (b RateBounds) For(category Category) Bound {
	switch category {
	case CategoryPension:
		return b.Pension
	case CategoryMedical:
		return b.Medical
	case CategoryUnemployment:
		return b.Unemployment
	case CategoryInjury:
		return b.Injury
	case CategoryMaternity:
		return b.Maternity
	case CategoryHousing:
		return b.Housing
	}
	return Bound{}
}
