package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKronSparse(t *testing.T) {
	// A = |1 0|   B = |0 2|
	//     |2 3|       |1 0|
	A := NewCSR(2, 2, []int{0, 1, 3}, []int{0, 0, 1}, []float64{1, 2, 3})
	B := NewCSR(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{2, 1})
	K := KronSparse(A, B)
	nr, nc := K.Dims()
	assert.Equal(t, 4, nr)
	assert.Equal(t, 4, nc)
	assert.Equal(t, 6, K.NNZ())
	// Compare against the dense Kronecker product computed by hand
	expected := [][]float64{
		{0, 2, 0, 0},
		{1, 0, 0, 0},
		{0, 4, 0, 6},
		{2, 0, 3, 0},
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.True(t, near(K.At(i, j), expected[i][j]))
		}
	}
}

func TestKronSparseIdentity(t *testing.T) {
	A := NewCSR(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []float64{5, -1, 2})
	I3 := SparseEye(3)
	K := KronSparseAll(I3, A, SparseEye(1))
	nr, nc := K.Dims()
	assert.Equal(t, 6, nr)
	assert.Equal(t, 9, nc)
	for b := 0; b < 3; b++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				assert.True(t, near(K.At(b*2+i, b*3+j), A.At(i, j)))
			}
		}
	}
}

func TestMulCSR(t *testing.T) {
	A := NewCSR(2, 3, []int{0, 2, 3}, []int{0, 1, 2}, []float64{1, 2, 3})
	B := NewCSR(3, 2, []int{0, 1, 2, 3}, []int{0, 1, 0}, []float64{4, 5, 6})
	C := MulCSR(A, B)
	nr, nc := C.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 2, nc)
	assert.True(t, near(C.At(0, 0), 4))
	assert.True(t, near(C.At(0, 1), 10))
	assert.True(t, near(C.At(1, 0), 18))
	assert.True(t, near(C.At(1, 1), 0))
}

func near(a, b float64) (l bool) {
	bound := 1.e-08 * math.Abs(a)
	if bound < 1.e-10 {
		bound = 1.e-10
	}
	if math.Abs(a-b) < bound {
		l = true
	}
	return
}
