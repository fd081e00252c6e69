package payroll

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const CompositionUnavailable = "工资数据异常，无法生成分析"

func cityName(result PayrollResult) string {
	if result.City.Name != "" {
		return result.City.Name
	}
	if result.City.ID != "" {
		return result.City.ID
	}
	return "自定义"
}

// ReportFileName mirrors the download name of the browser page, e.g. 上海_薪资测算_15000元.txt.
func ReportFileName(result PayrollResult, ext string) string {
	base := strconv.FormatFloat(result.BaseSalary, 'f', -1, 64)
	return fmt.Sprintf("%s_薪资测算_%s元.%s", cityName(result), base, ext)
}

// PDFFileName is ASCII-only so it survives Content-Disposition without encoding.
func PDFFileName(result PayrollResult) string {
	id := result.City.ID
	if id == "" {
		id = "custom"
	}
	return fmt.Sprintf("salary-report-%s-%s.pdf", id, strconv.FormatFloat(result.BaseSalary, 'f', -1, 64))
}

func TextReport(result PayrollResult) string {
	name := cityName(result)
	scheme := name + "预设"
	if result.City.ID != "" && result.Rates != result.City.Rates {
		scheme += "（已调整）"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【%s】薪资测算报告\n", name)
	b.WriteString("========================\n")
	fmt.Fprintf(&b, "基本工资：%s\n", FormatMoney(result.BaseSalary))
	fmt.Fprintf(&b, "城市社保方案：%s\n\n", scheme)

	b.WriteString("【五险一金明细】\n")
	for _, line := range result.Insurance.Lines {
		fmt.Fprintf(&b, "- %s：%s (%s)\n", line.Label, FormatMoney(line.Amount), FormatRate(line.Rate))
	}
	fmt.Fprintf(&b, "- 合计：%s\n\n", FormatMoney(result.TotalInsurance))

	b.WriteString("【个税计算】\n")
	fmt.Fprintf(&b, "- 应纳税所得额：%s\n", FormatMoney(result.TaxableIncome))
	fmt.Fprintf(&b, "- 适用税率：%s\n", FormatPercent(result.TaxRate))
	fmt.Fprintf(&b, "- 速算扣除数：%s\n", FormatMoney(result.QuickDeduction))
	fmt.Fprintf(&b, "- 个人所得税：%s\n\n", FormatMoney(result.IncomeTax))

	b.WriteString("【最终收入】\n")
	fmt.Fprintf(&b, "💰 税后工资：%s\n\n", FormatMoney(result.NetSalary))

	b.WriteString("【工资构成比例】\n")
	if !result.Composition.Valid {
		b.WriteString(CompositionUnavailable + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "- 税后工资: %s\n", FormatPercent(result.Composition.NetShare))
	fmt.Fprintf(&b, "- 五险一金: %s\n", FormatPercent(result.Composition.InsuranceShare))
	fmt.Fprintf(&b, "- 个人所得税: %s\n", FormatPercent(result.Composition.TaxShare))
	return b.String()
}

// WritePDFReport renders the report with ASCII labels; the core PDF fonts carry no CJK glyphs.
func WritePDFReport(w io.Writer, result PayrollResult) error {
	city := result.City.ID
	if city == "" {
		city = "custom"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Salary Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("City preset: %s", city))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %s CNY", FormatAmount(result.BaseSalary)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Social insurance and housing fund")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range result.Insurance.Lines {
		pdf.CellFormat(90, 7, line.Category.EnglishLabel(), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, FormatRate(line.Rate), "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, FormatAmount(line.Amount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, FormatAmount(result.TotalInsurance), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Income tax")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Standard deduction", FormatAmount(result.StandardDeduction)},
		{"Special deduction", FormatAmount(result.SpecialDeduction)},
		{"Taxable income", FormatAmount(result.TaxableIncome)},
		{"Tax rate", FormatPercent(result.TaxRate)},
		{"Quick deduction", FormatAmount(result.QuickDeduction)},
		{"Income tax", FormatAmount(result.IncomeTax)},
	}
	for _, row := range rows {
		pdf.CellFormat(120, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, row[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, "Net salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, FormatAmount(result.NetSalary), "T", 1, "R", false, 0, "")

	if result.Composition.Valid {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Net %s / Insurance %s / Tax %s of base salary",
			FormatPercent(result.Composition.NetShare),
			FormatPercent(result.Composition.InsuranceShare),
			FormatPercent(result.Composition.TaxShare)))
	}

	return pdf.Output(w)
}

func WriteBreakdownCSV(w io.Writer, result PayrollResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"category", "label", "rate", "amount"}); err != nil {
		return err
	}
	for _, line := range result.Insurance.Lines {
		record := []string{
			string(line.Category),
			line.Label,
			strconv.FormatFloat(line.Rate, 'f', -1, 64),
			fmt.Sprintf("%.2f", RoundMoney(line.Amount)),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	total := []string{"total", "合计", strconv.FormatFloat(Round(result.Rates.Total(), 4), 'f', -1, 64), fmt.Sprintf("%.2f", RoundMoney(result.TotalInsurance))}
	if err := writer.Write(total); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
