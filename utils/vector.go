package utils

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (V Vector) {
	if len(dataO) != 0 {
		V = Vector{mat.NewVecDense(n, dataO[0])}
	} else {
		V = Vector{mat.NewVecDense(n, make([]float64, n))}
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.V.RawVector().Data }

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	var (
		data = v.V.RawVector().Data
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Min() (min float64) {
	var (
		data = v.V.RawVector().Data
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.V.RawVector().Data
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Dot(a Vector) (dot float64) {
	var (
		data  = v.V.RawVector().Data
		dataA = a.V.RawVector().Data
	)
	for i, val := range data {
		dot += val * dataA[i]
	}
	return
}

// SparseVector is a sparse row over a basis of length N: Ind holds the
// global indices of the nonzero entries in Data, in ascending order.
type SparseVector struct {
	N    int
	Ind  Index
	Data []float64
}

func (sv SparseVector) NNZ() int { return len(sv.Ind) }

// Dot contracts the sparse row against a dense coefficient slice of
// length N.
func (sv SparseVector) Dot(dense []float64) (dot float64) {
	for k, ind := range sv.Ind {
		dot += sv.Data[k] * dense[ind]
	}
	return
}

func (sv SparseVector) Sum() (sum float64) {
	for _, val := range sv.Data {
		sum += val
	}
	return
}
