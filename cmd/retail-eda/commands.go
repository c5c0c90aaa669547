package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"retaileda/internal/app"
	"retaileda/internal/config"
	apperrors "retaileda/internal/errors"
	"retaileda/pkg/contracts"
)

func newRootCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "retail-eda",
		Short:         "Exploratory analysis of the Online Retail transactions workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewAppValidationError(err.Error())
	})

	cmd.AddCommand(newAnalyzeCmd(stdout))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// AnalyzeCmd holds the flags of the analyze command.
type AnalyzeCmd struct {
	configFile string
	input      string
	sheet      string
	outDir     string
	format     string
	topN       int
	noCharts   bool
	logLevel   string
	stdout     io.Writer
}

func newAnalyzeCmd(stdout io.Writer) *cobra.Command {
	ac := &AnalyzeCmd{stdout: stdout}
	cmd := &cobra.Command{
		Use:   "analyze [workbook]",
		Short: "Clean the workbook, compute the aggregates and write the report and charts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.configFile, "config", "", "Path to a YAML configuration file")
	cmd.Flags().StringVar(&ac.input, "input", "", "Path to the Online Retail workbook")
	cmd.Flags().StringVar(&ac.sheet, "sheet", "", "Sheet to read (default: first sheet)")
	cmd.Flags().StringVar(&ac.outDir, "out", "", "Directory for charts and exports")
	cmd.Flags().StringVar(&ac.format, "format", "", "Chart format: png, svg or pdf")
	cmd.Flags().IntVar(&ac.topN, "top", 0, "Length of the top-N rankings")
	cmd.Flags().BoolVar(&ac.noCharts, "no-charts", false, "Skip chart rendering")
	cmd.Flags().StringVar(&ac.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(ac.configFile)
	if err != nil {
		return err
	}
	if err := ac.applyFlags(cmd, args, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	application, err := app.NewApplication(ctx, cfg, ac.stdout)
	if err != nil {
		return apperrors.NewConfigError("failed to start", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "retail-eda: %v\n", err)
		}
	}()

	_, err = application.Run(ctx)
	return err
}

// applyFlags overrides configuration with the flags that were set explicitly.
func (ac *AnalyzeCmd) applyFlags(cmd *cobra.Command, args []string, cfg *config.Config) error {
	flags := cmd.Flags()

	if len(args) == 1 {
		if flags.Changed("input") {
			return apperrors.NewAppValidationError("workbook given both as argument and --input")
		}
		cfg.Input.Path = args[0]
	}
	if flags.Changed("input") {
		cfg.Input.Path = ac.input
	}
	if flags.Changed("sheet") {
		cfg.Input.Sheet = ac.sheet
	}
	if flags.Changed("out") {
		cfg.Output.Dir = ac.outDir
	}
	if flags.Changed("format") {
		cfg.Output.ChartFormat = ac.format
	}
	if flags.Changed("top") {
		cfg.Analysis.TopN = ac.topN
	}
	if ac.noCharts {
		cfg.Output.Charts = false
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = ac.logLevel
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
