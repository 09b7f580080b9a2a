package dataprocessing

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "timeseer/internal/errors"
	"timeseer/internal/shared/testutil"
)

func TestParseRecords(t *testing.T) {
	f, err := ParseRecords(testutil.Records(15))
	require.NoError(t, err)

	assert.Equal(t, 15, f.Len())
	assert.Equal(t, "date", f.IndexName)
	assert.Equal(t, []string{"value"}, f.Columns)
	assert.Equal(t, testutil.FixtureStart, f.Index[0])
	assert.Equal(t, testutil.TrendSeries(15)[14], f.Values["value"][14])
}

func TestParseRecords_ValueTypes(t *testing.T) {
	records := []map[string]any{
		{"date": "2020-01-01", "value": "1.5", "count": json.Number("3"), "flag": true},
		{"date": "2020-02-01", "value": 2, "count": int64(4), "flag": false},
		{"date": "2020-03-01", "value": nil, "count": float32(5), "flag": true},
	}

	f, err := ParseRecords(records)
	require.NoError(t, err)

	assert.Equal(t, []string{"count", "value"}, f.Columns)
	assert.Equal(t, []string{"flag"}, f.Skipped)
	assert.Equal(t, []float64{3, 4, 5}, f.Values["count"])
	assert.Equal(t, 1.5, f.Values["value"][0])
	assert.Equal(t, 2.0, f.Values["value"][1])
	assert.True(t, math.IsNaN(f.Values["value"][2]))
}

func TestParseRecords_IndexFallback(t *testing.T) {
	records := []map[string]any{
		{"when": "2020-01-01", "y": 1.0},
		{"when": "2020-02-01", "y": 2.0},
	}

	f, err := ParseRecords(records)
	require.NoError(t, err)
	assert.Equal(t, "when", f.IndexName)
	assert.Equal(t, []string{"y"}, f.Columns)
}

func TestParseRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records []map[string]any
		wantErr error
	}{
		{name: "no records", records: nil, wantErr: ErrNoRows},
		{name: "empty objects", records: []map[string]any{{}, {}}, wantErr: ErrNoDataRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecords(tt.records)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, apierrors.ErrTypeParsing, apierrors.TypeOf(err))
		})
	}
}
