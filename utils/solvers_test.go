package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDenseQR(t *testing.T) {
	{
		// Square, well conditioned
		A := NewMatrix(2, 2, []float64{2, 1, 1, 3})
		B := NewMatrix(2, 1, []float64{5, 10})
		Xs, ok := DenseQR{}.Solve(A, B)
		assert.True(t, ok)
		// 2x + y = 5, x + 3y = 10 -> x = 1, y = 3
		assert.True(t, near(Xs[0].At(0, 0), 1))
		assert.True(t, near(Xs[0].At(1, 0), 3))
	}
	{
		// Overdetermined least squares: fit y = a + b*x to collinear data
		A := NewMatrix(3, 2, []float64{1, 0, 1, 1, 1, 2})
		B := NewMatrix(3, 1, []float64{1, 3, 5})
		Xs, ok := DenseQR{}.Solve(A, B)
		assert.True(t, ok)
		assert.True(t, near(Xs[0].At(0, 0), 1))
		assert.True(t, near(Xs[0].At(1, 0), 2))
	}
	{
		// Singular system reports failure
		A := NewMatrix(2, 2, []float64{1, 1, 1, 1})
		B := NewMatrix(2, 1, []float64{1, 2})
		_, ok := DenseQR{}.Solve(A, B)
		assert.False(t, ok)
	}
	{
		// Multiple right hand sides reuse the factorization
		A := NewMatrix(2, 2, []float64{1, 0, 0, 2})
		B1 := NewMatrix(2, 1, []float64{3, 4})
		B2 := NewMatrix(2, 2, []float64{1, 0, 0, 1})
		Xs, ok := DenseQR{}.Solve(A, B1, B2)
		assert.True(t, ok)
		assert.True(t, near(Xs[0].At(1, 0), 2))
		assert.True(t, near(Xs[1].At(1, 1), 0.5))
	}
}

func TestSparseBiCGStab(t *testing.T) {
	{
		// Tridiagonal diagonally dominant system
		n := 16
		var (
			ia   = make([]int, 1, n+1)
			ja   = make([]int, 0, 3*n)
			data = make([]float64, 0, 3*n)
		)
		for i := 0; i < n; i++ {
			if i > 0 {
				ja = append(ja, i-1)
				data = append(data, -1)
			}
			ja = append(ja, i)
			data = append(data, 4)
			if i < n-1 {
				ja = append(ja, i+1)
				data = append(data, -1)
			}
			ia = append(ia, len(ja))
		}
		A := NewCSR(n, n, ia, ja, data)
		// Build B = A*xTrue so the answer is known
		xTrue := make([]float64, n)
		for i := range xTrue {
			xTrue[i] = float64(i%5) - 2
		}
		b := make([]float64, n)
		matVec(A.RawMatrix(), xTrue, b)
		B := NewMatrix(n, 1, b)

		Xs, ok := SparseBiCGStab{}.Solve(A, B)
		assert.True(t, ok)
		for i := 0; i < n; i++ {
			assert.True(t, near(Xs[0].At(i, 0), xTrue[i]))
		}
	}
	{
		// Non-square systems are rejected
		A := NewCSR(2, 3, []int{0, 1, 2}, []int{0, 1}, []float64{1, 1})
		B := NewMatrix(2, 1, []float64{1, 1})
		_, ok := SparseBiCGStab{}.Solve(A, B)
		assert.False(t, ok)
	}
	{
		// Singular system reports failure instead of returning garbage
		A := NewCSR(2, 2, []int{0, 1, 2}, []int{0, 0}, []float64{1, 1})
		B := NewMatrix(2, 1, []float64{1, 2})
		_, ok := SparseBiCGStab{}.Solve(A, B)
		assert.False(t, ok)
	}
}
