// Package tui provides the interactive terminal calculator.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"paycalc/internal/domain/payroll"
)

const (
	inputBase = iota
	inputSpecial
	inputRatesStart
)

const defaultBaseSalary = "10000"

// Model is the calculator form. Focus 0 is the city selector; focus n > 0
// edits inputs[n-1].
type Model struct {
	ctx     context.Context
	service *payroll.Service
	styles  styles

	cities  []payroll.CityPreset
	cityIdx int

	inputs []textinput.Model
	labels []string
	focus  int

	result    payroll.PayrollResult
	hasResult bool
	err       string
	status    string

	bars    [3]progress.Model
	saveDir string
}

// New builds the form over the service's presets and computes the initial
// result for the first city.
func New(ctx context.Context, service *payroll.Service) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:     ctx,
		service: service,
		styles:  defaultStyles(),
		cities:  service.Cities(),
		saveDir: ".",
	}

	m.labels = []string{"税前工资", "专项附加扣除"}
	for _, category := range payroll.Categories {
		m.labels = append(m.labels, category.Label()+" %")
	}
	m.inputs = make([]textinput.Model, len(m.labels))
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 12
		ti.Width = 14
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	m.inputs[inputBase].SetValue(defaultBaseSalary)
	m.inputs[inputSpecial].SetValue("0")
	m.applyPreset()

	for i := range m.bars {
		m.bars[i] = progress.New(progress.WithDefaultGradient(), progress.WithWidth(32), progress.WithoutPercentage())
	}

	m.recompute()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 24
		width = max(10, min(width, 48))
		for i := range m.bars {
			m.bars[i].Width = width
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down", "enter":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "ctrl+s":
			m.saveReport()
			return m, nil
		case "left", "right":
			if m.focus == 0 {
				step := 1
				if msg.String() == "left" {
					step = -1
				}
				m.selectCity(m.cityIdx + step)
				return m, nil
			}
		}

		if m.focus == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		idx := m.focus - 1
		before := m.inputs[idx].Value()
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		if m.inputs[idx].Value() != before {
			m.status = ""
			m.recompute()
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) setFocus(focus int) {
	total := len(m.inputs) + 1
	m.focus = ((focus % total) + total) % total
	for i := range m.inputs {
		if i == m.focus-1 {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) selectCity(idx int) {
	if len(m.cities) == 0 {
		return
	}
	n := len(m.cities)
	m.cityIdx = ((idx % n) + n) % n
	m.applyPreset()
	m.status = ""
	m.recompute()
}

// applyPreset resets every rate input to the selected city's preset.
func (m *Model) applyPreset() {
	city, ok := m.city()
	if !ok {
		return
	}
	for i, category := range payroll.Categories {
		m.inputs[inputRatesStart+i].SetValue(strconv.FormatFloat(city.Rates.Rate(category), 'f', -1, 64))
	}
}

func (m *Model) city() (payroll.CityPreset, bool) {
	if m.cityIdx < 0 || m.cityIdx >= len(m.cities) {
		return payroll.CityPreset{}, false
	}
	return m.cities[m.cityIdx], true
}

// recompute runs the calculator on the current form. Invalid input keeps the
// previous result and reports the problem.
func (m *Model) recompute() {
	req, err := m.request()
	if err != nil {
		m.err = err.Error()
		return
	}
	result, err := m.service.Calculate(m.ctx, req)
	if err != nil {
		m.err = describeError(err)
		return
	}
	m.err = ""
	m.result = result
	m.hasResult = true
}

func (m *Model) request() (payroll.Request, error) {
	base, err := parseNumber(m.inputs[inputBase].Value())
	if err != nil {
		return payroll.Request{}, fmt.Errorf("%s：%w", m.labels[inputBase], err)
	}
	special, err := parseNumber(m.inputs[inputSpecial].Value())
	if err != nil {
		return payroll.Request{}, fmt.Errorf("%s：%w", m.labels[inputSpecial], err)
	}

	rates := make([]*float64, len(payroll.Categories))
	for i := range payroll.Categories {
		value, err := parseNumber(m.inputs[inputRatesStart+i].Value())
		if err != nil {
			return payroll.Request{}, fmt.Errorf("%s：%w", m.labels[inputRatesStart+i], err)
		}
		rates[i] = &value
	}

	city, _ := m.city()
	return payroll.Request{
		BaseSalary: base,
		City:       city.ID,
		Rates: payroll.RateOverrides{
			Pension:      rates[0],
			Medical:      rates[1],
			Unemployment: rates[2],
			Injury:       rates[3],
			Maternity:    rates[4],
			Housing:      rates[5],
		},
		SpecialDeduction: special,
	}, nil
}

var errNotANumber = errors.New("请输入数字")

// parseNumber treats an empty field as zero.
func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errNotANumber
	}
	return value, nil
}

func describeError(err error) string {
	var verr *payroll.ValidationError
	if errors.As(err, &verr) {
		parts := make([]string, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			parts = append(parts, issue.Field+" "+issue.Reason)
		}
		return strings.Join(parts, "；")
	}
	return err.Error()
}

func (m *Model) saveReport() {
	if !m.hasResult {
		m.status = "暂无可保存的结果"
		return
	}
	path := filepath.Join(m.saveDir, payroll.ReportFileName(m.result, "txt"))
	if err := os.WriteFile(path, []byte(payroll.TextReport(m.result)), 0o644); err != nil {
		m.status = "保存失败：" + err.Error()
		return
	}
	m.status = "报告已保存：" + path
}

// Run starts the full-screen calculator and blocks until the user quits.
func Run(ctx context.Context, service *payroll.Service) error {
	p := tea.NewProgram(New(ctx, service), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
