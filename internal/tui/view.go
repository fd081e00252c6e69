package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"paycalc/internal/domain/payroll"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	muted    lipgloss.Style
	value    lipgloss.Style
	net      lipgloss.Style
	err      lipgloss.Style
	success  lipgloss.Style
	panel    lipgloss.Style
	helpText lipgloss.Style
}

func defaultStyles() styles {
	border := lipgloss.Color("#45475A")
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label:    lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("#CDD6F4")),
		focused:  lipgloss.NewStyle().Width(16).Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		value:    lipgloss.NewStyle().Width(14).Align(lipgloss.Right),
		net:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		panel:    lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		helpText: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func (m *Model) View() string {
	form := m.formView()
	results := m.resultView()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.styles.panel.Render(form), " ", m.styles.panel.Render(results))

	lines := []string{m.styles.title.Render("薪资测算"), body}
	if m.err != "" {
		lines = append(lines, m.styles.err.Render("输入有误："+m.err))
	}
	if m.status != "" {
		lines = append(lines, m.styles.success.Render(m.status))
	}
	lines = append(lines, m.styles.helpText.Render("↑/↓ 切换字段 · ←/→ 切换城市 · ctrl+s 保存报告 · esc 退出"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m *Model) formView() string {
	var b strings.Builder

	label := m.styles.label
	if m.focus == 0 {
		label = m.styles.focused
	}
	name := "-"
	if city, ok := m.city(); ok {
		name = city.Name
	}
	fmt.Fprintf(&b, "%s‹ %s ›\n", label.Render("城市"), name)

	for i, input := range m.inputs {
		label := m.styles.label
		if m.focus == i+1 {
			label = m.styles.focused
		}
		if i == inputRatesStart {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s%s\n", label.Render(m.labels[i]), input.View())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) resultView() string {
	if !m.hasResult {
		return m.styles.muted.Render("暂无结果")
	}
	r := m.result
	var b strings.Builder

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s%s\n", m.styles.label.Render(label), m.styles.value.Render(value))
	}
	for _, line := range r.Insurance.Lines {
		row(line.Label, payroll.FormatMoney(line.Amount))
	}
	row("五险一金合计", payroll.FormatMoney(r.TotalInsurance))
	b.WriteString("\n")
	row("应纳税所得额", payroll.FormatMoney(r.TaxableIncome))
	row("适用税率", payroll.FormatPercent(r.TaxRate))
	row("速算扣除数", payroll.FormatMoney(r.QuickDeduction))
	row("个人所得税", payroll.FormatMoney(r.IncomeTax))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%s\n\n", m.styles.label.Render("税后工资"), m.styles.net.Render(payroll.FormatMoney(r.NetSalary)))

	if !r.Composition.Valid {
		b.WriteString(m.styles.muted.Render(payroll.CompositionUnavailable))
		return b.String()
	}
	shares := []struct {
		label string
		share float64
	}{
		{"税后工资", r.Composition.NetShare},
		{"五险一金", r.Composition.InsuranceShare},
		{"个人所得税", r.Composition.TaxShare},
	}
	for i, s := range shares {
		fmt.Fprintf(&b, "%s%s %s\n", m.styles.label.Render(s.label), m.bars[i].ViewAs(clamp(s.share)), payroll.FormatPercent(s.share))
	}
	return strings.TrimRight(b.String(), "\n")
}

func clamp(v float64) float64 {
	return max(0, min(v, 1))
}
