package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"timeseer/internal/analyzer"
	"timeseer/internal/config"
	apierrors "timeseer/internal/errors"
	"timeseer/internal/infrastructure"
	"timeseer/pkg/contracts"
)

// Run modes
const (
	modeStandard = "standard"
	modeAPI      = "api"
)

type rootOptions struct {
	input     string
	output    string
	mode      string
	column    string
	trainSize float64
	verbose   bool
}

// cli is the state shared by every subcommand once flags are parsed
type cli struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	stdout io.Writer
}

func (c *cli) newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(analyzer.OptionsFrom(c.cfg.Forecast), c.logger)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	state := &cli{stdout: stdout}

	cmd := &cobra.Command{
		Use:   "timeseer",
		Short: "Time series analysis and ARIMA forecasting",
		Long: `timeseer analyzes a univariate time series and forecasts it with ARIMA.

Standard mode walks through stationarity testing, differencing, the
correlogram, a manual ARIMA(1,1,1) fit, residual diagnostics, an auto ARIMA
search and a comparison of both models, printing a report.

API mode reads {data, column, config} from --input and writes the analysis
result as JSON to --output.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return apierrors.NewConfigError("failed to load configuration", err)
			}
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			state.cfg = cfg
			state.paths = cfg.ResolvedPaths()
			state.logger = infrastructure.NewLoggerWithWriter(stderr, &slog.HandlerOptions{Level: level})
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.mode {
			case modeAPI:
				return runAPIMode(state, opts)
			case modeStandard:
				return runStandardMode(cmd.Context(), state, opts)
			default:
				return fmt.Errorf("invalid --mode %q: choose %s or %s", opts.mode, modeStandard, modeAPI)
			}
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.input, "input", "", "input file: JSON in api mode, CSV in standard mode")
	flags.StringVar(&opts.output, "output", "", "output JSON file (api mode)")
	flags.StringVar(&opts.mode, "mode", modeStandard, "run mode: standard or api")
	flags.StringVar(&opts.column, "column", "", "column to analyze in standard mode (default: first column)")
	flags.Float64Var(&opts.trainSize, "train-size", standardTrainSize, "training fraction in standard mode")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	cmd.AddCommand(newSampleCmd(state))
	return cmd
}
