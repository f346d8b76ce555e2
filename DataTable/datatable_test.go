package DataTable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSample(t *testing.T) {
	tab := New()
	assert.Nil(t, tab.AddSample([]float64{0, 1}, 5))
	assert.Equal(t, 2, tab.NumVariables())
	assert.NotNil(t, tab.AddSample([]float64{0}, 1))
	assert.NotNil(t, tab.AddSample(nil, 1))

	// Mutating the caller's slice must not reach the table
	x := []float64{1, 1}
	assert.Nil(t, tab.AddSample(x, 7))
	x[0] = 99
	assert.Equal(t, 1., tab.Samples()[1].X[0])
}

func TestSamplesOrderAndDedup(t *testing.T) {
	tab := New()
	_ = tab.AddSample([]float64{1, 0}, 10)
	_ = tab.AddSample([]float64{0, 1}, 1)
	_ = tab.AddSample([]float64{0, 0}, 0)
	_ = tab.AddSample([]float64{1, 1}, 11)
	// Duplicate coordinates: the later value wins
	_ = tab.AddSample([]float64{0, 1}, 2)

	assert.Equal(t, 4, tab.NumSamples())
	s := tab.Samples()
	assert.Equal(t, []float64{0, 0}, s[0].X)
	assert.Equal(t, []float64{0, 1}, s[1].X)
	assert.Equal(t, []float64{1, 0}, s[2].X)
	assert.Equal(t, []float64{1, 1}, s[3].X)
	assert.Equal(t, 2., s[1].Y)

	// Sorting is repeatable and does not disturb the table
	again := tab.Samples()
	for i := range s {
		assert.Equal(t, s[i].X, again[i].X)
	}
}

func TestTableX(t *testing.T) {
	tab := New()
	_ = tab.AddSample([]float64{2, 5}, 0)
	_ = tab.AddSample([]float64{0, 5}, 0)
	_ = tab.AddSample([]float64{2, 3}, 0)
	_ = tab.AddSample([]float64{0, 3}, 0)
	xdata := tab.TableX()
	assert.Equal(t, 2, len(xdata))
	assert.Equal(t, []float64{0, 2}, xdata[0])
	assert.Equal(t, []float64{3, 5}, xdata[1])
}

func TestIsGridComplete(t *testing.T) {
	tab := New()
	assert.False(t, tab.IsGridComplete())

	for _, x := range [][]float64{{0, 0}, {0, 1}, {1, 0}} {
		_ = tab.AddSample(x, 1)
	}
	assert.False(t, tab.IsGridComplete())

	_ = tab.AddSample([]float64{1, 1}, 1)
	assert.True(t, tab.IsGridComplete())

	// Duplicates do not break completeness
	_ = tab.AddSample([]float64{1, 1}, 2)
	assert.True(t, tab.IsGridComplete())
}
