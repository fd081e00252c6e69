package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"paycalc/internal/app/server"
	"paycalc/internal/domain/payroll"
	"paycalc/internal/platform/config"
	"paycalc/internal/tui"
)

func newComputeCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute insurance, tax and net salary",
		Long: `Compute the monthly payroll breakdown for one base salary.

Rates come from the selected city preset; any rate flag given on the command
line replaces that category's preset value.`,
		Example: `  paycalc compute --base 15000
  paycalc compute --base 20000 --city 北京 --housing 5 --special 1500 --json`,
		Args: cobra.NoArgs,
	}
	req := addRequestFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		svc, err := root.service()
		if err != nil {
			return err
		}
		result, err := svc.Calculate(cmd.Context(), req.request(cmd))
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), result.Rounded())
		}
		return renderResult(cmd.OutOrStdout(), result)
	}
	return cmd
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a salary report as text or PDF",
		Long: `Write the salary report for one base salary.

The text report goes to stdout unless --out is given. The PDF report is
written to --out, or to a generated file name in the working directory.`,
		Args: cobra.NoArgs,
	}
	req := addRequestFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format: text or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		format = strings.ToLower(strings.TrimSpace(format))
		if format != "text" && format != "pdf" {
			return fmt.Errorf("unsupported report format %q (want text or pdf)", format)
		}
		svc, err := root.service()
		if err != nil {
			return err
		}
		result, err := svc.Calculate(cmd.Context(), req.request(cmd))
		if err != nil {
			return err
		}

		if format == "text" && out == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), payroll.TextReport(result))
			return err
		}
		if out == "" {
			out = payroll.PDFFileName(result)
		}
		if err := writeReportFile(out, format, result); err != nil {
			return err
		}
		cmd.Printf("report written to %s\n", out)
		return nil
	}
	return cmd
}

func writeReportFile(path, format string, result payroll.PayrollResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if format == "pdf" {
		if err := payroll.WritePDFReport(f, result); err != nil {
			return fmt.Errorf("render pdf report: %w", err)
		}
	} else if _, err := f.WriteString(payroll.TextReport(result)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func newCitiesCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List city contribution presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := root.service()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), svc.Cities())
			}
			return renderCities(cmd.OutOrStdout(), svc.Cities())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output presets as JSON")
	return cmd
}

func newBracketsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "brackets",
		Short: "Show the monthly income tax brackets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), payroll.MonthlyTaxBrackets)
			}
			return renderBrackets(cmd.OutOrStdout(), payroll.MonthlyTaxBrackets)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output brackets as JSON")
	return cmd
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web calculator",
		Long: `Run the HTTP API, live websocket endpoint and embedded web calculator.

Configuration is read from the environment (and a .env file); --addr and
--presets override APP_ADDR and PRESETS_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if root.presetsFile != "" {
				cfg.PresetsFile = root.presetsFile
			}
			return server.RunConfig(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func newTUICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive terminal calculator",
		Long: `Launch the interactive terminal calculator.

Controls:
  ↑/↓, tab   Move between fields
  ←/→        Change city (on the city row; resets rates)
  ctrl+s     Save the text report to the working directory
  esc        Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := root.service()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), svc)
		},
	}
}
