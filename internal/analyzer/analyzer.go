package analyzer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sartorproj/goarima/arima"
	"github.com/sartorproj/goarima/autoarima"

	"timeseer/internal/dataprocessing"
)

// Analyzer carries one user's data through the ARIMA workflow
type Analyzer struct {
	opts   Options
	logger *slog.Logger
	filler *dataprocessing.ForwardFillProcessor

	frame  *dataprocessing.Frame
	series *Series
	train  *Series
	test   *Series

	manual *arima.Model
	auto   *autoarima.Result
}

// New creates an empty analyzer. A nil logger falls back to slog.Default.
func New(opts Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		opts:   opts,
		logger: logger.With(slog.String("component", "analyzer")),
		filler: dataprocessing.NewForwardFillProcessor(opts.MaxFillGap),
	}
}

// LoadFrame replaces the loaded data and forgets every later step
func (a *Analyzer) LoadFrame(frame *dataprocessing.Frame) error {
	if frame == nil || frame.Len() == 0 {
		return dataprocessing.ErrNoDataRows
	}
	a.frame = frame
	a.series = nil
	a.resetSplit()

	rows, cols := frame.Shape()
	a.logger.Debug("data loaded",
		slog.Int("rows", rows),
		slog.Int("columns", cols),
		slog.Bool("date_index", frame.HasIndex()),
		slog.Any("skipped", frame.Skipped),
	)
	return nil
}

// LoadCSV parses and loads a CSV document
func (a *Analyzer) LoadCSV(r io.Reader) error {
	frame, err := dataprocessing.ParseCSV(r)
	if err != nil {
		return err
	}
	return a.LoadFrame(frame)
}

// LoadRecords parses and loads a JSON list of records
func (a *Analyzer) LoadRecords(records []map[string]any) error {
	frame, err := dataprocessing.ParseRecords(records)
	if err != nil {
		return err
	}
	return a.LoadFrame(frame)
}

// LoadXLSX parses and loads a sheet of an Excel workbook
func (a *Analyzer) LoadXLSX(r io.Reader, sheet string) error {
	frame, err := dataprocessing.ParseXLSX(r, sheet)
	if err != nil {
		return err
	}
	return a.LoadFrame(frame)
}

// SelectColumn makes a loaded column the working series. Leading gaps are
// dropped and interior gaps forward-filled.
func (a *Analyzer) SelectColumn(name string) error {
	if a.frame == nil {
		return ErrNoData
	}
	if !a.frame.HasColumn(name) {
		return &ColumnNotFoundError{Column: name}
	}
	values, err := a.frame.Column(name)
	if err != nil {
		return err
	}

	dates, filled, stats, err := a.filler.Fill(a.frame.Index, values)
	if err != nil {
		return fmt.Errorf("column %q: %w", name, err)
	}

	a.series = &Series{Name: name, Dates: dates, Values: filled, Offset: stats.LeadingDropped}
	a.resetSplit()

	a.logger.Debug("column selected",
		slog.String("column", name),
		slog.Int("observations", len(filled)),
		slog.Int("filled", stats.Filled),
		slog.Int("leading_dropped", stats.LeadingDropped),
	)
	return nil
}

// UseSeries installs a series directly, bypassing the loaded frame
func (a *Analyzer) UseSeries(s *Series) error {
	if s.Len() == 0 {
		return dataprocessing.ErrNoDataRows
	}
	a.series = s
	a.resetSplit()
	return nil
}

// SplitData divides the series chronologically: the first
// int(len*trainSize) observations train, the rest test
func (a *Analyzer) SplitData(trainSize float64) error {
	if a.series == nil {
		return ErrNoSeries
	}
	if trainSize <= 0 || trainSize >= 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidSplit, trainSize)
	}

	n := a.series.Len()
	split := int(float64(n) * trainSize)
	if split == 0 || split == n {
		return fmt.Errorf("%w: %d observations at train size %v", ErrEmptyPartition, n, trainSize)
	}

	a.train = a.series.slice(0, split)
	a.test = a.series.slice(split, n)
	a.manual = nil
	a.auto = nil

	a.logger.Debug("data split",
		slog.Float64("train_size", trainSize),
		slog.Int("train", a.train.Len()),
		slog.Int("test", a.test.Len()),
	)
	return nil
}

func (a *Analyzer) resetSplit() {
	a.train = nil
	a.test = nil
	a.manual = nil
	a.auto = nil
}

// Frame returns the loaded data, or nil
func (a *Analyzer) Frame() *dataprocessing.Frame { return a.frame }

// Series returns the selected series, or nil
func (a *Analyzer) Series() *Series { return a.series }

// Train returns the training partition, or nil before SplitData
func (a *Analyzer) Train() *Series { return a.train }

// Test returns the test partition, or nil before SplitData
func (a *Analyzer) Test() *Series { return a.test }

// HasManualModel reports whether FitARIMA has succeeded since the last split
func (a *Analyzer) HasManualModel() bool { return a.manual != nil }

// HasAutoModel reports whether FitAutoARIMA has succeeded since the last split
func (a *Analyzer) HasAutoModel() bool { return a.auto != nil }
