package sample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDates(t *testing.T) {
	dates := Dates()
	require.Len(t, dates, 60)
	assert.Equal(t, Start, dates[0])
	assert.Equal(t, End, dates[59])
	assert.Equal(t, time.Date(2019, time.February, 1, 0, 0, 0, 0, time.UTC), dates[1])
}

func TestGenerator_Frame(t *testing.T) {
	f := NewGenerator(42).Frame()

	rows, cols := f.Shape()
	assert.Equal(t, 60, rows)
	assert.Equal(t, 10, cols)
	assert.Equal(t, "New York, NY", f.Columns[0])
	assert.Equal(t, "Austin, TX", f.Columns[9])
	assert.Equal(t, "date", f.IndexName)

	for _, region := range Regions {
		col, err := f.Column(region.Name)
		require.NoError(t, err)
		for _, v := range col {
			assert.Equal(t, float64(int64(v)), v, "values are whole numbers")
		}
		// start sits near base, the end near 1.5x base
		assert.InDelta(t, region.Base, col[0], region.Base*0.25)
		assert.InDelta(t, region.Base*1.5, col[59], region.Base*0.3)
	}
}

func TestGenerator_Seeded(t *testing.T) {
	a := NewGenerator(7).Frame()
	b := NewGenerator(7).Frame()
	c := NewGenerator(8).Frame()

	assert.Equal(t, a.Values, b.Values)
	assert.NotEqual(t, a.Values, c.Values)
}
