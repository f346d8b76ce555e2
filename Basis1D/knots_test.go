package Basis1D

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gospline/utils"
)

// transformCoefficients applies the insertion matrix: cNew = A * cOld.
func transformCoefficients(A utils.CSR, c []float64) (cNew []float64) {
	nr, nc := A.Dims()
	if nc != len(c) {
		panic("coefficient count mismatch")
	}
	cNew = make([]float64, nr)
	A.DoNonZero(func(i, j int, v float64) {
		cNew[i] += v * c[j]
	})
	return
}

func TestInsertKnotsPreservesFunction(t *testing.T) {
	var (
		b, _    = NewBasis(clampedKnots(0, 3, []float64{1, 2}, 3), 3)
		c       = []float64{1, -2, 0.5, 3, -1, 2}
		xSample = []float64{0, 0.3, 1, 1.49, 1.5, 1.51, 2.2, 3}
		before  = make([]float64, len(xSample))
	)
	for i, x := range xSample {
		before[i] = evalFunc(b, c, x)
	}

	A, ok := b.InsertKnots(1.5, 1)
	assert.True(t, ok)
	nr, nc := A.Dims()
	assert.Equal(t, 7, nr)
	assert.Equal(t, 6, nc)
	assert.Equal(t, 7, b.NumBasisFunctions())

	cNew := transformCoefficients(A, c)
	for i, x := range xSample {
		assert.True(t, near(before[i], evalFunc(b, cNew, x)))
	}
}

func TestInsertKnotsToFullMultiplicity(t *testing.T) {
	var (
		b, _ = NewBasis(clampedKnots(0, 2, []float64{1}, 2), 2)
		c    = []float64{2, 0, -1, 1}
	)
	before := evalFunc(b, c, 1.3)

	// Raise the interior knot to multiplicity degree+1 in one shot
	A, ok := b.InsertKnots(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 3, b.Multiplicity(1))
	cNew := transformCoefficients(A, c)
	assert.True(t, near(before, evalFunc(b, cNew, 1.3)))
	assert.True(t, near(evalFunc(b, c, 0.4), evalFunc(b, cNew, 0.4)))
}

func TestInsertKnotsRejections(t *testing.T) {
	b, _ := NewBasis(clampedKnots(0, 2, []float64{1}, 2), 2)
	knotsBefore := b.Knots()

	_, ok := b.InsertKnots(2.5, 1)
	assert.False(t, ok)
	_, ok = b.InsertKnots(1, 3)
	assert.False(t, ok)
	_, ok = b.InsertKnots(0, 1)
	assert.False(t, ok)
	_, ok = b.InsertKnots(1.5, 0)
	assert.False(t, ok)

	// Rejection leaves the basis untouched
	assert.Equal(t, knotsBefore, b.Knots())
}

func TestRefineKnotsPreservesFunction(t *testing.T) {
	var (
		b, _    = NewBasis(clampedKnots(0, 3, []float64{1, 2}, 3), 3)
		c       = []float64{1, -2, 0.5, 3, -1, 2}
		xSample = []float64{0, 0.7, 1.5, 2.9, 3}
		before  = make([]float64, len(xSample))
	)
	for i, x := range xSample {
		before[i] = evalFunc(b, c, x)
	}

	A, ok := b.RefineKnots()
	assert.True(t, ok)
	// One midpoint per non-empty interval: [0,1], [1,2], [2,3]
	assert.Equal(t, 9, b.NumBasisFunctions())
	assert.Equal(t, 1, b.Multiplicity(0.5))

	cNew := transformCoefficients(A, c)
	for i, x := range xSample {
		assert.True(t, near(before[i], evalFunc(b, cNew, x)))
	}
}

func TestRefineKnotsSkipsTinyIntervals(t *testing.T) {
	// The interval below the relative tolerance must not split
	eps := 0.4 * RefineRelTol
	b, _ := NewBasis(clampedKnots(0, 1, []float64{0.5, 0.5 + eps}, 1), 1)
	nBefore := b.NumBasisFunctions()
	_, ok := b.RefineKnots()
	assert.True(t, ok)
	// [0,0.5] and [0.5+eps,1] split, the eps interval does not
	assert.Equal(t, nBefore+2, b.NumBasisFunctions())
}

func TestReduceSupportPreservesFunction(t *testing.T) {
	var (
		b, _    = NewBasis(clampedKnots(0, 3, []float64{1, 2}, 3), 3)
		c       = []float64{1, -2, 0.5, 3, -1, 2}
		xSample = []float64{1, 1.25, 1.6, 2}
		before  = make([]float64, len(xSample))
	)
	for i, x := range xSample {
		before[i] = evalFunc(b, c, x)
	}

	A, ok := b.ReduceSupport(1, 2)
	assert.True(t, ok)
	nOld, nKept := A.Dims()
	assert.Equal(t, 6, nOld)
	assert.Equal(t, nKept, b.NumBasisFunctions())
	assert.True(t, nKept < nOld)

	// Restriction applies on the right: cNew = cOld * A
	cNew := make([]float64, nKept)
	A.DoNonZero(func(k, j int, v float64) {
		cNew[j] += c[k] * v
	})
	for i, x := range xSample {
		assert.True(t, near(before[i], evalFunc(b, cNew, x)))
	}
}

func TestReduceSupportRejections(t *testing.T) {
	b, _ := NewBasis(clampedKnots(0, 3, []float64{1, 2}, 3), 3)
	_, ok := b.ReduceSupport(2, 1)
	assert.False(t, ok)
	_, ok = b.ReduceSupport(-1, 2)
	assert.False(t, ok)
	_, ok = b.ReduceSupport(1, 4)
	assert.False(t, ok)
}

func TestKnotVectorFree(t *testing.T) {
	x := []float64{3, 0, 1, 2, 1, 0}

	// Cubic over four unique sites: no interior knots survive
	knots, err := KnotVectorFree(x, 3)
	assert.Nil(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 3, 3, 3, 3}, knots)

	// Linear keeps every interior site
	knots, err = KnotVectorFree(x, 1)
	assert.Nil(t, err)
	assert.Equal(t, []float64{0, 0, 1, 2, 3, 3}, knots)

	// Basis function count equals the unique site count
	for p := 1; p <= 3; p++ {
		b, err := NewBasisFree(x, p)
		assert.Nil(t, err)
		assert.Equal(t, 4, b.NumBasisFunctions())
	}

	_, err = KnotVectorFree(x, 0)
	assert.NotNil(t, err)
	_, err = KnotVectorFree([]float64{0, 1}, 3)
	assert.NotNil(t, err)
}
