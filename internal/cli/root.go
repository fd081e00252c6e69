// Package cli implements the paycalc command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"paycalc/internal/domain/payroll"
	"paycalc/internal/platform/logging"
)

type rootOptions struct {
	presetsFile string
	logLevel    string
}

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "paycalc",
		Short: "Monthly salary calculator for Chinese payroll",
		Long: `paycalc computes social insurance, housing fund, individual income tax
and net salary from a monthly base salary, using city contribution presets
and the 2025 monthly tax brackets.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(opts.logLevel, "text", cmd.ErrOrStderr()))
		},
	}
	cmd.PersistentFlags().StringVar(&opts.presetsFile, "presets", os.Getenv("PRESETS_FILE"), "TOML file with extra or replacement city presets")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newComputeCmd(opts),
		newReportCmd(opts),
		newCitiesCmd(opts),
		newBracketsCmd(),
		newServeCmd(opts),
		newTUICmd(opts),
	)
	return cmd
}

// service builds a calculator over the built-in presets merged with the
// presets file, when one is configured.
func (o *rootOptions) service() (*payroll.Service, error) {
	presets := payroll.DefaultPresetRegistry()
	if o.presetsFile != "" {
		if _, err := payroll.ReloadPresets(presets, o.presetsFile); err != nil {
			return nil, fmt.Errorf("load presets: %w", err)
		}
	}
	return payroll.NewService(presets, nil), nil
}

// rateFlags holds per-category rate overrides. A flag only overrides the city
// preset when it was set on the command line.
type rateFlags struct {
	values map[payroll.Category]*float64
}

func addRateFlags(cmd *cobra.Command) *rateFlags {
	rf := &rateFlags{values: make(map[payroll.Category]*float64, len(payroll.Categories))}
	for _, category := range payroll.Categories {
		value := new(float64)
		rf.values[category] = value
		cmd.Flags().Float64Var(value, string(category), 0, fmt.Sprintf("%s rate in percent (overrides the city preset)", category.EnglishLabel()))
	}
	return rf
}

func (rf *rateFlags) overrides(cmd *cobra.Command) payroll.RateOverrides {
	pick := func(category payroll.Category) *float64 {
		if !cmd.Flags().Changed(string(category)) {
			return nil
		}
		value := *rf.values[category]
		return &value
	}
	return payroll.RateOverrides{
		Pension:      pick(payroll.CategoryPension),
		Medical:      pick(payroll.CategoryMedical),
		Unemployment: pick(payroll.CategoryUnemployment),
		Injury:       pick(payroll.CategoryInjury),
		Maternity:    pick(payroll.CategoryMaternity),
		Housing:      pick(payroll.CategoryHousing),
	}
}

type requestFlags struct {
	base    float64
	city    string
	special float64
	rates   *rateFlags
}

func addRequestFlags(cmd *cobra.Command) *requestFlags {
	rf := &requestFlags{}
	cmd.Flags().Float64VarP(&rf.base, "base", "b", 0, "monthly base salary before deductions")
	cmd.Flags().StringVarP(&rf.city, "city", "c", "", "city preset id or name (default: first preset)")
	cmd.Flags().Float64VarP(&rf.special, "special", "s", 0, "special additional deduction per month")
	_ = cmd.MarkFlagRequired("base")
	rf.rates = addRateFlags(cmd)
	return rf
}

func (rf *requestFlags) request(cmd *cobra.Command) payroll.Request {
	return payroll.Request{
		BaseSalary:       rf.base,
		City:             rf.city,
		Rates:            rf.rates.overrides(cmd),
		SpecialDeduction: rf.special,
	}
}
