package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycalc/internal/domain/payroll"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--presets="}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"compute", "report", "cities", "brackets", "serve", "tui"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
	}
}

func TestComputeCmd_RequiresBase(t *testing.T) {
	_, err := run(t, "compute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base")
}

func TestComputeCmd_Table(t *testing.T) {
	out, err := run(t, "compute", "--base", "15000")
	require.NoError(t, err)
	assert.Contains(t, out, "【上海】薪资测算")
	assert.Contains(t, out, "养老保险")
	assert.Contains(t, out, "¥2,655.00")
	assert.Contains(t, out, "税后工资 ¥11,820.50")
}

func TestComputeCmd_JSON(t *testing.T) {
	out, err := run(t, "compute", "--base", "15000", "--json")
	require.NoError(t, err)

	var result payroll.PayrollResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 11820.5, result.NetSalary)
	assert.Equal(t, 524.5, result.IncomeTax)
}

func TestComputeCmd_OnlyChangedRatesOverride(t *testing.T) {
	out, err := run(t, "compute", "--base", "20000", "--city", "北京", "--housing", "5", "--json")
	require.NoError(t, err)

	var result payroll.PayrollResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "beijing", result.City.ID)
	assert.Equal(t, 5.0, result.Rates.Housing)
	assert.Equal(t, 8.0, result.Rates.Pension, "unset flags keep the preset")
	assert.Equal(t, 0.5, result.Rates.Unemployment)
}

func TestComputeCmd_ZeroRateFlagOverrides(t *testing.T) {
	out, err := run(t, "compute", "--base", "10000", "--housing", "0", "--json")
	require.NoError(t, err)

	var result payroll.PayrollResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0.0, result.Rates.Housing)
}

func TestComputeCmd_ValidationError(t *testing.T) {
	_, err := run(t, "compute", "--base", "10000", "--pension", "30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rates.pension")
}

func TestComputeCmd_UnknownCity(t *testing.T) {
	_, err := run(t, "compute", "--base", "10000", "--city", "atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrUnknownCity)
}

func TestReportCmd_TextToStdout(t *testing.T) {
	out, err := run(t, "report", "--base", "15000")
	require.NoError(t, err)
	assert.Contains(t, out, "【上海】薪资测算报告")
	assert.Contains(t, out, "💰 税后工资：¥11,820.50")
}

func TestReportCmd_PDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.pdf")
	out, err := run(t, "report", "--base", "15000", "--format", "pdf", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "report written to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestReportCmd_RejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "report", "--base", "15000", "--format", "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestCitiesCmd(t *testing.T) {
	out, err := run(t, "cities")
	require.NoError(t, err)
	for _, name := range []string{"shanghai", "beijing", "guangzhou", "shenzhen"} {
		assert.Contains(t, out, name)
	}
}

func TestCitiesCmd_PresetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	content := `[[city]]
id = "hangzhou"
name = "杭州"
pension = 8.0
medical = 2.0
unemployment = 0.5
injury = 0.0
maternity = 0.0
housing = 12.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--presets=" + path, "cities", "--json"})
	require.NoError(t, cmd.Execute())

	var cities []payroll.CityPreset
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cities))
	require.Len(t, cities, 5)
	assert.Equal(t, "hangzhou", cities[4].ID)
}

func TestBracketsCmd(t *testing.T) {
	out, err := run(t, "brackets")
	require.NoError(t, err)
	assert.Contains(t, out, "45.0%")
	assert.Contains(t, out, "15,160.00")
	assert.Contains(t, out, "> 80,000.00")
}

func TestBracketsCmd_JSON(t *testing.T) {
	out, err := run(t, "brackets", "--json")
	require.NoError(t, err)

	var brackets []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &brackets))
	require.Len(t, brackets, 7)
	assert.Nil(t, brackets[6]["upperBound"])
}

func TestComputeCmd_RejectsHugeBase(t *testing.T) {
	_, err := run(t, "compute", "--base", "1e308")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseSalary must not exceed")
}
