package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.M.RawMatrix().Data }

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		data   = m.M.RawMatrix().Data
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.M.RawMatrix().Data
	)
	R = NewMatrix(nc, nr)
	dataR := R.M.RawMatrix().Data
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			dataR[j*nr+i] = data[i*nc+j]
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) Slice(I, K, J, L int) (R Matrix) { // Does not change receiver
	var (
		nrR   = K - I
		ncR   = L - J
		dataR = make([]float64, nrR*ncR)
		_, nc = m.Dims()
		data  = m.M.RawMatrix().Data
	)
	for i := I; i < K; i++ {
		for j := J; j < L; j++ {
			dataR[(i-I)*ncR+(j-J)] = data[i*nc+j]
		}
	}
	R = NewMatrix(nrR, ncR, dataR)
	return
}

func (m Matrix) SliceCols(I Index) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		nI     = len(I)
		data   = m.RawMatrix().Data
	)
	R = NewMatrix(nr, nI)
	dataR := R.M.RawMatrix().Data
	for jNew, j := range I {
		if j > nc-1 || j < 0 {
			panic(fmt.Errorf("index out of bounds: index = %d, max_bounds = %d", j, nc-1))
		}
		for i := 0; i < nr; i++ {
			dataR[i*nI+jNew] = data[i*nc+j]
		}
	}
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	var (
		data = m.RawMatrix().Data
	)
	for i := range data {
		data[i] *= a
	}
	return m
}

func (m Matrix) Row(i int) (V Vector) { // Does not change receiver
	var (
		_, nc = m.Dims()
		data  = m.RawMatrix().Data
		dataV = make([]float64, nc)
	)
	copy(dataV, data[i*nc:(i+1)*nc])
	V = NewVector(nc, dataV)
	return
}

func (m Matrix) Col(j int) (V Vector) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.RawMatrix().Data
		dataV  = make([]float64, nr)
	)
	for i := 0; i < nr; i++ {
		dataV[i] = data[i*nc+j]
	}
	V = NewVector(nr, dataV)
	return
}

func (m Matrix) Max() (max float64) {
	var (
		data = m.RawMatrix().Data
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (m Matrix) InfNormDiff(A Matrix) (norm float64) {
	var (
		data  = m.RawMatrix().Data
		dataA = A.RawMatrix().Data
	)
	for i, val := range data {
		diff := val - dataA[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > norm {
			norm = diff
		}
	}
	return
}
