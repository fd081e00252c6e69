package payroll

import "math"

const (
	CategoryPension      Category = "pension"
	CategoryMedical      Category = "medical"
	CategoryUnemployment Category = "unemployment"
	CategoryInjury       Category = "injury"
	CategoryMaternity    Category = "maternity"
	CategoryHousing      Category = "housing"

	// StandardDeduction is the fixed monthly allowance subtracted before tax.
	StandardDeduction = 5000.0
)

var Categories = []Category{
	CategoryPension,
	CategoryMedical,
	CategoryUnemployment,
	CategoryInjury,
	CategoryMaternity,
	CategoryHousing,
}

var categoryLabels = map[Category]string{
	CategoryPension:      "养老保险",
	CategoryMedical:      "医疗保险",
	CategoryUnemployment: "失业保险",
	CategoryInjury:       "工伤保险",
	CategoryMaternity:    "生育保险",
	CategoryHousing:      "住房公积金",
}

var categoryEnglishLabels = map[Category]string{
	CategoryPension:      "Pension insurance",
	CategoryMedical:      "Medical insurance",
	CategoryUnemployment: "Unemployment insurance",
	CategoryInjury:       "Work injury insurance",
	CategoryMaternity:    "Maternity insurance",
	CategoryHousing:      "Housing fund",
}

func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

func (c Category) EnglishLabel() string {
	if label, ok := categoryEnglishLabels[c]; ok {
		return label
	}
	return string(c)
}

// MonthlyTaxBrackets is the 2025 monthly individual income tax schedule.
var MonthlyTaxBrackets = TaxBracketTable{
	{UpperBound: 3000, Rate: 0.03, QuickDeduction: 0},
	{UpperBound: 12000, Rate: 0.10, QuickDeduction: 210},
	{UpperBound: 25000, Rate: 0.20, QuickDeduction: 1410},
	{UpperBound: 35000, Rate: 0.25, QuickDeduction: 2660},
	{UpperBound: 55000, Rate: 0.30, QuickDeduction: 4410},
	{UpperBound: 80000, Rate: 0.35, QuickDeduction: 7160},
	{UpperBound: math.Inf(1), Rate: 0.45, QuickDeduction: 15160},
}

var DefaultRateBounds = RateBounds{
	Pension:      Bound{Min: 0, Max: 20},
	Medical:      Bound{Min: 0, Max: 12},
	Unemployment: Bound{Min: 0, Max: 2},
	Injury:       Bound{Min: 0, Max: 2},
	Maternity:    Bound{Min: 0, Max: 1},
	Housing:      Bound{Min: 0, Max: 12},
}

var DefaultPresets = []CityPreset{
	{ID: "shanghai", Name: "上海", Rates: RateSet{Pension: 8, Medical: 2, Unemployment: 0.5, Injury: 0.2, Maternity: 0, Housing: 7}},
	{ID: "beijing", Name: "北京", Rates: RateSet{Pension: 8, Medical: 2, Unemployment: 0.5, Injury: 0.2, Maternity: 0, Housing: 12}},
	{ID: "guangzhou", Name: "广州", Rates: RateSet{Pension: 8, Medical: 2, Unemployment: 0.5, Injury: 0.2, Maternity: 0, Housing: 5}},
	{ID: "shenzhen", Name: "深圳", Rates: RateSet{Pension: 8, Medical: 2, Unemployment: 0.3, Injury: 0.2, Maternity: 0, Housing: 5}},
}
