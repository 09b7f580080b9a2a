package dataprocessing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "timeseer/internal/errors"
	"timeseer/internal/shared/testutil"
)

func TestParseCSV_LongFormat(t *testing.T) {
	f, err := ParseCSV(strings.NewReader(testutil.LongCSV("sales", 24)))
	require.NoError(t, err)

	rows, cols := f.Shape()
	assert.Equal(t, 24, rows)
	assert.Equal(t, 1, cols)
	assert.Equal(t, "date", f.IndexName)
	assert.True(t, f.HasIndex())
	assert.True(t, f.HasColumn("sales"))
	assert.Equal(t, testutil.FixtureStart, f.Index[0])
	assert.Equal(t, testutil.FixtureStart.AddDate(0, 23, 0), f.Index[23])

	col, err := f.Column("sales")
	require.NoError(t, err)
	assert.InDelta(t, testutil.TrendSeries(24)[5], col[5], 0.005)
}

func TestParseCSV_WideFormat(t *testing.T) {
	regions := []string{"North", "South", "East"}
	f, err := ParseCSV(strings.NewReader(testutil.WideCSV(regions, 18)))
	require.NoError(t, err)

	rows, cols := f.Shape()
	assert.Equal(t, 18, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, "date", f.IndexName)
	// pivoted series are keyed by the first non-date column
	assert.Equal(t, []string{"1", "2", "3"}, f.Columns)

	one, err := f.Column("1")
	require.NoError(t, err)
	three, err := f.Column("3")
	require.NoError(t, err)
	assert.InDelta(t, one[4]*3, three[4], 0.05)
}

func TestParseCSV_WideFormatSortsDatesAndDropsGaps(t *testing.T) {
	input := "name,2020-03-01,2020-01-01,2020-02-01\n" +
		"b,3,1,2\n" +
		"a,30,10,20\n" +
		"gappy,1,,3\n"

	f, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, f.Columns)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), f.Index[0])
	assert.Equal(t, []float64{10, 20, 30}, f.Values["a"])
	assert.Equal(t, []float64{1, 2, 3}, f.Values["b"])
	assert.False(t, f.HasColumn("gappy"))
}

func TestParseCSV_WideFormatDuplicateName(t *testing.T) {
	input := "name,2020-01-01,2020-02-01\nx,1,2\nx,3,4\n"

	_, err := ParseCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrTypeParsing, apierrors.TypeOf(err))
	assert.Contains(t, err.Error(), "duplicate series name")
}

func TestParseCSV_LongFormatColumns(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantIndex   string
		wantColumns []string
		wantSkipped []string
		wantRows    int
	}{
		{
			name:        "non-numeric column skipped",
			input:       "month,label,value\n2020-01-01,a,1\n2020-02-01,b,2\n",
			wantIndex:   "month",
			wantColumns: []string{"value"},
			wantSkipped: []string{"label"},
			wantRows:    2,
		},
		{
			name:        "rows without a date are dropped",
			input:       "date,value\n2020-01-01,1\n,2\n2020-03-01,3\n",
			wantIndex:   "date",
			wantColumns: []string{"value"},
			wantRows:    2,
		},
		{
			name:        "no date column",
			input:       "a,b\n1,2\n3,4\n",
			wantColumns: []string{"a", "b"},
			wantRows:    2,
		},
		{
			name:        "blank and duplicate headers",
			input:       "date,,v,v\n2020-01-01,1,2,3\n",
			wantIndex:   "date",
			wantColumns: []string{"Unnamed: 1", "v", "v.1"},
			wantRows:    1,
		},
		{
			name:        "byte order mark stripped",
			input:       "\ufeffdate,value\n2020-01-01,1\n",
			wantIndex:   "date",
			wantColumns: []string{"value"},
			wantRows:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseCSV(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.wantIndex, f.IndexName)
			assert.Equal(t, tt.wantColumns, f.Columns)
			assert.Equal(t, tt.wantSkipped, f.Skipped)
			assert.Equal(t, tt.wantRows, f.Len())
		})
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty input", input: "", wantErr: ErrNoRows},
		{name: "header only", input: "date,value\n", wantErr: ErrNoDataRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, apierrors.ErrTypeParsing, apierrors.TypeOf(err))
		})
	}
}

func TestParseCSV_MalformedQuotes(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("date,value\n\"2020-01-01,1\n"))
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrTypeParsing, apierrors.TypeOf(err))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2021, time.March, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2021-03-05", want},
		{"2021-03-05T00:00:00Z", want},
		{"2021-03-05 00:00:00", want},
		{"03/05/2021", want},
		{"2021/03/05", want},
		{"03-05-21", want},
		{"2021-03", time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"Mar 2021", time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
	assert.Equal(t, "2021-03-05", FormatDate(want))
}
