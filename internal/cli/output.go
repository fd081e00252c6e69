package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"paycalc/internal/domain/payroll"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	netStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A"))
)

// newTable right-aligns every column from numericFrom onwards.
func newTable(numericFrom int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= numericFrom:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderResult(w io.Writer, result payroll.PayrollResult) error {
	insurance := newTable(2, "项目", "比例", "金额")
	for _, line := range result.Insurance.Lines {
		insurance.Row(line.Label, payroll.FormatRate(line.Rate), payroll.FormatMoney(line.Amount))
	}
	insurance.Row("合计", payroll.FormatRate(payroll.Round(result.Rates.Total(), 4)), payroll.FormatMoney(result.TotalInsurance))

	tax := newTable(1, "个税计算", "")
	tax.Row("应纳税所得额", payroll.FormatMoney(result.TaxableIncome))
	tax.Row("适用税率", payroll.FormatPercent(result.TaxRate))
	tax.Row("速算扣除数", payroll.FormatMoney(result.QuickDeduction))
	tax.Row("个人所得税", payroll.FormatMoney(result.IncomeTax))

	name := result.City.Name
	if name == "" {
		name = result.City.ID
	}
	sections := []string{
		titleStyle.Render(fmt.Sprintf("【%s】薪资测算", name)),
		mutedStyle.Render(fmt.Sprintf("基本工资 %s · 专项附加扣除 %s · 起征点 %s",
			payroll.FormatMoney(result.BaseSalary),
			payroll.FormatMoney(result.SpecialDeduction),
			payroll.FormatMoney(result.StandardDeduction))),
		insurance.String(),
		tax.String(),
		netStyle.Render("税后工资 " + payroll.FormatMoney(result.NetSalary)),
	}
	if result.Composition.Valid {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("税后 %s · 五险一金 %s · 个税 %s",
			payroll.FormatPercent(result.Composition.NetShare),
			payroll.FormatPercent(result.Composition.InsuranceShare),
			payroll.FormatPercent(result.Composition.TaxShare))))
	}
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func renderCities(w io.Writer, cities []payroll.CityPreset) error {
	headers := []string{"ID", "城市"}
	for _, category := range payroll.Categories {
		headers = append(headers, category.Label())
	}
	t := newTable(2, headers...)
	for _, city := range cities {
		row := []string{city.ID, city.Name}
		for _, category := range payroll.Categories {
			row = append(row, payroll.FormatRate(city.Rates.Rate(category)))
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func renderBrackets(w io.Writer, brackets payroll.TaxBracketTable) error {
	t := newTable(1, "应纳税所得额", "税率", "速算扣除数")
	lower := 0.0
	for _, bracket := range brackets {
		span := fmt.Sprintf("> %s", payroll.FormatAmount(lower))
		if !bracket.Unbounded() {
			span = fmt.Sprintf("%s – %s", payroll.FormatAmount(lower), payroll.FormatAmount(bracket.UpperBound))
		}
		t.Row(span, payroll.FormatPercent(bracket.Rate), payroll.FormatAmount(bracket.QuickDeduction))
		lower = bracket.UpperBound
	}
	_, err := fmt.Fprintln(w, t.String())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, mutedStyle.Render("起征点 "+payroll.FormatMoney(payroll.StandardDeduction)+" / 月"))
	return err
}
