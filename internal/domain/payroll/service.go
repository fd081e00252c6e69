package payroll

import (
	"context"

	"paycalc/internal/requestctx"
)

type Observer interface {
	ObserveCalculation(cityID string, result PayrollResult)
}

type Service struct {
	presets  *Presets
	bounds   RateBounds
	observer Observer
}

func NewService(presets *Presets, observer Observer) *Service {
	if presets == nil {
		presets = DefaultPresetRegistry()
	}
	return &Service{presets: presets, bounds: DefaultRateBounds, observer: observer}
}

func (s *Service) Presets() *Presets {
	return s.presets
}

func (s *Service) Cities() []CityPreset {
	return s.presets.List()
}

func (s *Service) Brackets() TaxBracketTable {
	out := make(TaxBracketTable, len(MonthlyTaxBrackets))
	copy(out, MonthlyTaxBrackets)
	return out
}

func (s *Service) Bounds() RateBounds {
	return s.bounds
}

// Calculate resolves the city preset, applies overrides, validates and computes.
func (s *Service) Calculate(ctx context.Context, req Request) (PayrollResult, error) {
	city, err := s.presets.Resolve(req.City)
	if err != nil {
		return PayrollResult{}, err
	}

	input := Input{
		BaseSalary:       req.BaseSalary,
		Rates:            req.Rates.Apply(city.Rates),
		SpecialDeduction: req.SpecialDeduction,
	}
	if err := Validate(input, s.bounds); err != nil {
		return PayrollResult{}, err
	}

	result := Compute(input)
	result.City = city

	requestctx.Logger(ctx).Debug("payroll calculated",
		"city", city.ID,
		"baseSalary", input.BaseSalary,
		"overridden", !req.Rates.Empty(),
		"taxableIncome", result.TaxableIncome,
		"netSalary", result.NetSalary,
	)
	if s.observer != nil {
		s.observer.ObserveCalculation(city.ID, result)
	}
	return result, nil
}
