package dataprocessing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "timeseer/internal/errors"
	"timeseer/internal/shared/testutil"
)

// buildWorkbook writes rows into the named sheet of a new workbook
func buildWorkbook(t *testing.T, sheet string, rows [][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for r, row := range rows {
		for c, v := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParseXLSX_LongFormat(t *testing.T) {
	dates := testutil.MonthlyDates(testutil.FixtureStart, 12)
	values := testutil.TrendSeries(12)
	rows := [][]any{{"date", "sales"}}
	for i := range dates {
		rows = append(rows, []any{FormatDate(dates[i]), values[i]})
	}

	f, err := ParseXLSX(buildWorkbook(t, "Sheet1", rows), "")
	require.NoError(t, err)

	assert.Equal(t, 12, f.Len())
	assert.Equal(t, []string{"sales"}, f.Columns)
	assert.Equal(t, dates[0], f.Index[0])
	assert.InDelta(t, values[7], f.Values["sales"][7], 1e-9)
}

func TestParseXLSX_NamedSheet(t *testing.T) {
	rows := [][]any{
		{"region", "2020-01-01", "2020-02-01"},
		{"west", 1, 2},
	}

	f, err := ParseXLSX(buildWorkbook(t, "Data", rows), "Data")
	require.NoError(t, err)
	assert.Equal(t, []string{"west"}, f.Columns)
	assert.Equal(t, []float64{1, 2}, f.Values["west"])
}

func TestParseXLSX_Errors(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := ParseXLSX(bytes.NewReader([]byte("date,value\n")), "")
		require.Error(t, err)
		assert.Equal(t, apierrors.ErrTypeParsing, apierrors.TypeOf(err))
	})

	t.Run("missing sheet", func(t *testing.T) {
		rows := [][]any{{"date", "value"}, {"2020-01-01", 1}}
		_, err := ParseXLSX(buildWorkbook(t, "Sheet1", rows), "Nope")
		require.Error(t, err)
		assert.Equal(t, apierrors.ErrTypeParsing, apierrors.TypeOf(err))
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, err := ParseXLSX(buildWorkbook(t, "Sheet1", nil), "")
		require.ErrorIs(t, err, ErrNoRows)
	})
}
