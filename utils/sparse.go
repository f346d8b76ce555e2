package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

type CSR struct {
	M *sparse.CSR
}

// NewCSR builds a CSR matrix directly from its raw index arrays.
// ia has length nr+1, ja and data have length nnz, and the column
// indices within each row must be ascending.
func NewCSR(nr, nc int, ia, ja []int, data []float64) (R CSR) {
	if len(ia) != nr+1 || len(ja) != len(data) {
		err := fmt.Errorf("mismatch in allocation: NewCSR nr = %v, len(ia) = %v, len(ja) = %v, len(data) = %v\n",
			nr, len(ia), len(ja), len(data))
		panic(err)
	}
	R = CSR{sparse.NewCSR(nr, nc, ia, ja, data)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

func (m CSR) DoNonZero(fn func(i, j int, v float64)) { m.M.DoNonZero(fn) }

func (m CSR) ToDense() (R Matrix) {
	R = Matrix{m.M.ToDense()}
	return
}

// SparseEye returns the n x n sparse identity.
func SparseEye(n int) (R CSR) {
	var (
		ia   = make([]int, n+1)
		ja   = make([]int, n)
		data = make([]float64, n)
	)
	for i := 0; i < n; i++ {
		ia[i] = i
		ja[i] = i
		data[i] = 1
	}
	ia[n] = n
	R = NewCSR(n, n, ia, ja, data)
	return
}

// MulCSR computes the sparse-sparse product A*B with a dense accumulator
// per row, preallocating from the operand fill.
func MulCSR(A, B CSR) (R CSR) {
	var (
		nrA, ncA = A.Dims()
		nrB, ncB = B.Dims()
		am       = A.RawMatrix()
		bm       = B.RawMatrix()
	)
	if ncA != nrB {
		err := fmt.Errorf("dimension mismatch in MulCSR: A is %vx%v, B is %vx%v\n", nrA, ncA, nrB, ncB)
		panic(err)
	}
	var (
		acc    = make([]float64, ncB)
		marker = make([]int, ncB)
		ia     = make([]int, 1, nrA+1)
		ja     = make([]int, 0, A.NNZ()+B.NNZ())
		data   = make([]float64, 0, A.NNZ()+B.NNZ())
	)
	for i := range marker {
		marker[i] = -1
	}
	for i := 0; i < nrA; i++ {
		var cols Index
		for kk := am.Indptr[i]; kk < am.Indptr[i+1]; kk++ {
			k := am.Ind[kk]
			va := am.Data[kk]
			for ll := bm.Indptr[k]; ll < bm.Indptr[k+1]; ll++ {
				l := bm.Ind[ll]
				if marker[l] != i {
					marker[l] = i
					acc[l] = 0
					cols = append(cols, l)
				}
				acc[l] += va * bm.Data[ll]
			}
		}
		sortIndex(cols)
		for _, l := range cols {
			ja = append(ja, l)
			data = append(data, acc[l])
		}
		ia = append(ia, len(ja))
	}
	R = NewCSR(nrA, ncB, ia, ja, data)
	return
}

func sortIndex(I Index) {
	// Insertion sort; rows here hold a handful of entries.
	for i := 1; i < len(I); i++ {
		for j := i; j > 0 && I[j] < I[j-1]; j-- {
			I[j], I[j-1] = I[j-1], I[j]
		}
	}
}
