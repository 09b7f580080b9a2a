package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"timeseer/internal/analyzer"
	"timeseer/internal/config"
	apierrors "timeseer/internal/errors"
	"timeseer/internal/exporter"
	"timeseer/internal/validation"
)

// standardTrainSize is the walkthrough's default training fraction
const standardTrainSize = 0.85

// walkthroughOrder is the manual model fitted by the walkthrough
var walkthroughOrder = analyzer.Order{P: 1, D: 1, Q: 1}

// runStandardMode loads a CSV and prints the full analysis walkthrough
func runStandardMode(ctx context.Context, c *cli, opts *rootOptions) error {
	input := opts.input
	if input == "" {
		path, err := ensureSample(c)
		if err != nil {
			return err
		}
		input = path
	}
	if err := validation.NewFileValidator(c.logger).ValidateFile(input); err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return apierrors.NewStorageError("open input", err).WithContext("path", input)
	}
	defer f.Close()

	a := c.newAnalyzer()
	if err := a.LoadCSV(f); err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	column := opts.column
	if column == "" {
		column = a.Frame().Columns[0]
	}

	w := &report{out: c.stdout}
	rows, cols := a.Frame().Shape()
	w.printf("Loaded %s: %d rows, %d columns\n", input, rows, cols)

	if err := a.SelectColumn(column); err != nil {
		return err
	}
	w.printf("Analyzing column: %s\n", column)

	if err := a.SplitData(opts.trainSize); err != nil {
		return err
	}
	w.printf("Training data: %d observations, testing data: %d observations\n", a.Train().Len(), a.Test().Len())

	return walkthrough(ctx, a, w)
}

func walkthrough(ctx context.Context, a *analyzer.Analyzer, w *report) error {
	w.section("Stationarity (training set)")
	if adf, err := a.CheckStationarity(nil); err != nil {
		w.printf("Skipped: %v\n", err)
	} else {
		w.stationarity(adf)
	}

	w.section("Differenced series")
	if diffed, err := a.DifferenceSeries(); err != nil {
		w.printf("Skipped: %v\n", err)
	} else if adf, err := a.CheckStationarity(diffed.Values); err != nil {
		w.printf("Skipped: %v\n", err)
	} else {
		w.stationarity(adf)
	}

	w.section("Correlogram (differenced training set)")
	if corr, err := a.Correlogram(0); err != nil {
		w.printf("Skipped: %v\n", err)
	} else {
		w.correlogram(corr)
	}

	w.section("ARIMA" + walkthroughOrder.String())
	model, err := a.FitARIMA(walkthroughOrder)
	if err != nil {
		return apierrors.NewModelError("fit ARIMA"+walkthroughOrder.String(), err)
	}
	w.model(model)

	w.section("Residual diagnostics")
	if diag, err := a.ResidualDiagnostics(); err != nil {
		w.printf("Skipped: %v\n", err)
	} else {
		w.diagnostics(diag)
	}

	w.section("Auto ARIMA")
	auto, err := a.FitAutoARIMA(false, 0)
	if err != nil {
		return apierrors.NewModelError("auto ARIMA", err)
	}
	w.printf("Optimal ARIMA order found: %s\n", auto.Label())
	w.printf("AIC: %.4f  BIC: %.4f  models evaluated: %d\n", auto.AIC, auto.BIC, auto.ModelsEvaluated)

	w.section("Forecast evaluation")
	evals, err := a.EvaluateModels(ctx)
	if err != nil {
		return fmt.Errorf("evaluate models: %w", err)
	}
	for _, e := range evals {
		w.printf("%s - RMSE: %.4f, MAE: %.4f, R²: %.4f\n", e.Name, e.Scores.RMSE, e.Scores.MAE, e.Scores.R2)
	}

	w.section("Model comparison")
	w.table(exporter.ComparisonTable(evals))
	return w.err
}

// ensureSample returns the sample file path, generating the file first when
// it does not exist
func ensureSample(c *cli) (string, error) {
	if config.FileExists(c.paths.SampleDataCSV) {
		return c.paths.SampleDataCSV, nil
	}
	fmt.Fprintf(c.stdout, "No input given; generating sample data at %s\n", c.paths.SampleDataCSV)
	return writeSample(c, c.paths.SampleDataCSV, nil)
}

// report prints the walkthrough, keeping the first write error
type report struct {
	out io.Writer
	err error
}

func (r *report) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.out, format, args...)
}

func (r *report) section(title string) {
	r.printf("\n== %s ==\n", title)
}

func (r *report) stationarity(res *analyzer.StationarityResult) {
	r.printf("ADF Statistic: %.4f\n", res.Statistic)
	r.printf("p-value: %.4f\n", res.PValue)
	r.printf("Critical Values:\n")
	keys := make([]string, 0, len(res.CriticalValues))
	for k := range res.CriticalValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.printf("\t%s: %.4f\n", k, res.CriticalValues[k])
	}
	if res.IsStationary {
		r.printf("The series is stationary (p-value <= 0.05)\n")
	} else {
		r.printf("The series is not stationary (p-value > 0.05)\n")
	}
}

func (r *report) correlogram(c *analyzer.Correlogram) {
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "lag\tACF\tPACF\t")
	for lag := 1; lag < len(c.ACF) && lag < len(c.PACF); lag++ {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t\n", lag, c.ACF[lag], c.PACF[lag])
	}
	r.flush(tw)
	r.printf("95%% confidence bound: ±%.4f\n", c.ConfBound)
}

func (r *report) model(m *analyzer.ModelSummary) {
	r.printf("AIC: %.4f  BIC: %.4f  log likelihood: %.4f\n", m.AIC, m.BIC, m.LogLik)
	r.printf("sigma2: %.4f  observations: %d\n", m.Variance, m.NObs)
	for i, c := range m.ARCoeffs {
		r.printf("ar.L%d: %.4f\n", i+1, c)
	}
	for i, c := range m.MACoeffs {
		r.printf("ma.L%d: %.4f\n", i+1, c)
	}
}

func (r *report) diagnostics(d *analyzer.ResidualDiagnostics) {
	r.printf("Mean: %.4f  Std Dev: %.4f\n", d.Mean, d.StdDev)
	r.printf("Skewness: %.4f  Excess Kurtosis: %.4f\n", d.Skewness, d.Kurtosis)
	r.printf("Jarque-Bera: %.4f (p-value %.4f)\n", d.JarqueBera.Statistic, d.JarqueBera.PValue)
	if d.LjungBox != nil {
		r.printf("Ljung-Box (%d lags): %.4f (p-value %.4f)\n", d.LjungBox.Lags, d.LjungBox.Statistic, d.LjungBox.PValue)
	}
	r.printf("Durbin-Watson: %.4f\n", d.DurbinWatson)
	if d.Normal {
		r.printf("Residuals appear normally distributed (p-value > 0.05)\n")
	} else {
		r.printf("Residuals do not appear normally distributed (p-value <= 0.05)\n")
	}
}

func (r *report) table(t *exporter.Table) {
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = exporter.CellText(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	r.flush(tw)
}

func (r *report) flush(tw *tabwriter.Writer) {
	if err := tw.Flush(); err != nil && r.err == nil {
		r.err = err
	}
}
