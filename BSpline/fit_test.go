package BSpline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gospline/DataTable"
	"github.com/notargets/gospline/utils"
)

func gridTable(t *testing.T, xs, ys []float64, f func(x, y float64) float64) (tab *DataTable.Table) {
	tab = DataTable.New()
	for _, x := range xs {
		for _, y := range ys {
			assert.Nil(t, tab.AddSample([]float64{x, y}, f(x, y)))
		}
	}
	return
}

func TestFit2DGrid(t *testing.T) {
	// An affine function is reproduced exactly by a linear surface,
	// on and off the grid
	f := func(x, y float64) float64 { return 2*x - y + 1 }
	tab := gridTable(t, []float64{0, 1, 2}, []float64{0, 3, 6}, f)
	s, err := NewSplineFit(tab, Linear)
	assert.Nil(t, err)
	assert.Equal(t, 2, s.NumVariables())
	assert.Equal(t, 9, s.NumBasisFunctions())

	probes := [][]float64{
		{0, 0}, {1, 3}, {2, 6}, {0.5, 1.5}, {1.7, 4.2}, {2, 0},
	}
	for _, x := range probes {
		y, errEval := s.Eval(x)
		assert.Nil(t, errEval)
		assert.True(t, near(f(x[0], x[1]), y))
	}

	J, err := s.EvalJacobian([]float64{0.5, 1.5})
	assert.Nil(t, err)
	assert.True(t, near(2, J.At(0, 0)))
	assert.True(t, near(-1, J.At(0, 1)))
}

func TestFit2DCubic(t *testing.T) {
	// A quadratic lies in the cubic tensor space
	f := func(x, y float64) float64 { return x*x + x*y - y*y }
	tab := gridTable(t, []float64{0, 1, 2, 3}, []float64{0, 1, 2, 3}, f)
	s, err := NewSplineFit(tab, CubicFree)
	assert.Nil(t, err)
	assert.Equal(t, 16, s.NumBasisFunctions())

	y, err := s.Eval([]float64{1.3, 2.1})
	assert.Nil(t, err)
	assert.True(t, near(f(1.3, 2.1), y))

	H, err := s.EvalHessian([]float64{1.3, 2.1})
	assert.Nil(t, err)
	assert.True(t, near(2, H.At(0, 0)))
	assert.True(t, near(1, H.At(0, 1)))
	assert.True(t, near(1, H.At(1, 0)))
	assert.True(t, near(-2, H.At(1, 1)))
}

func TestFitIncompleteGrid(t *testing.T) {
	tab := DataTable.New()
	for _, x := range [][]float64{{0, 0}, {0, 1}, {1, 0}} {
		assert.Nil(t, tab.AddSample(x, 1))
	}
	_, err := NewSplineFit(tab, Linear)
	assert.True(t, errors.Is(err, utils.ErrConstruction))
}

func TestFitSparseSolvePath(t *testing.T) {
	// Force the iterative solver by dropping the size threshold
	was := utils.DenseSolveThreshold
	utils.DenseSolveThreshold = 1
	defer func() { utils.DenseSolveThreshold = was }()

	f := func(x, y float64) float64 { return x + 3*y }
	tab := gridTable(t, []float64{0, 1, 2}, []float64{0, 1, 2}, f)
	s, err := NewSplineFit(tab, Linear)
	assert.Nil(t, err)
	for _, x := range [][]float64{{0, 0}, {1, 2}, {0.5, 1.5}, {2, 2}} {
		y, errEval := s.Eval(x)
		assert.Nil(t, errEval)
		assert.True(t, near(f(x[0], x[1]), y))
	}
}

func TestFitKnotAverages(t *testing.T) {
	// With no interior knots the fitted abscissas are the Greville sites
	s := fit1D(t, []float64{0, 1, 2, 3}, func(x float64) float64 { return x })
	cp := s.ControlPoints()
	for j := 0; j < 4; j++ {
		assert.True(t, near(float64(j), cp.At(0, j)))
	}
}

func TestFitQuadraticType(t *testing.T) {
	tab := DataTable.New()
	for _, x := range []float64{0, 1, 2, 3, 4} {
		assert.Nil(t, tab.AddSample([]float64{x}, x*x))
	}
	s, err := NewSplineFit(tab, QuadraticFree)
	assert.Nil(t, err)
	assert.Equal(t, 2, s.Degree(0))
	y, err := s.Eval([]float64{2.5})
	assert.Nil(t, err)
	assert.True(t, near(6.25, y))
}
