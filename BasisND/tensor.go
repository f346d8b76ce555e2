package BasisND

import (
	"fmt"

	"github.com/notargets/gospline/Basis1D"
	"github.com/notargets/gospline/utils"
)

// Basis composes one univariate basis per variable into a tensor-product
// basis. Basis function j corresponds to the mixed-radix digits of j
// over the per-dimension counts, first dimension slowest; the same
// ordering is used by every consumer (evaluation, knot averages, the
// sample grid).
type Basis struct {
	bases []*Basis1D.Basis
}

func NewBasis(knotVectors [][]float64, degrees []int) (b *Basis, err error) {
	if len(knotVectors) == 0 || len(knotVectors) != len(degrees) {
		err = fmt.Errorf("%w: %d knot vectors for %d degrees",
			utils.ErrConstruction, len(knotVectors), len(degrees))
		return
	}
	bases := make([]*Basis1D.Basis, len(knotVectors))
	for d := range knotVectors {
		if bases[d], err = Basis1D.NewBasis(knotVectors[d], degrees[d]); err != nil {
			return nil, err
		}
	}
	b = &Basis{bases: bases}
	return
}

// NewBasisFree builds the basis from per-dimension sample sites with
// free (interpolating) knot vectors.
func NewBasisFree(xdata [][]float64, degrees []int) (b *Basis, err error) {
	if len(xdata) == 0 || len(xdata) != len(degrees) {
		err = fmt.Errorf("%w: %d sample dimensions for %d degrees",
			utils.ErrConstruction, len(xdata), len(degrees))
		return
	}
	bases := make([]*Basis1D.Basis, len(xdata))
	for d := range xdata {
		if bases[d], err = Basis1D.NewBasisFree(xdata[d], degrees[d]); err != nil {
			return nil, err
		}
	}
	b = &Basis{bases: bases}
	return
}

func (b *Basis) NumVariables() int { return len(b.bases) }

func (b *Basis) NumBasisFunctions() (n int) {
	n = 1
	for _, b1 := range b.bases {
		n *= b1.NumBasisFunctions()
	}
	return
}

func (b *Basis) NumBasisFunctionsPerDim(dim int) int {
	return b.bases[dim].NumBasisFunctions()
}

func (b *Basis) Degree(dim int) int            { return b.bases[dim].Degree() }
func (b *Basis) KnotVector(dim int) []float64  { return b.bases[dim].Knots() }
func (b *Basis) Multiplicity(dim int, tau float64) int {
	return b.bases[dim].Multiplicity(tau)
}

// SupportedPerPoint is the number of tensor basis functions that can be
// nonzero at any single point.
func (b *Basis) SupportedPerPoint() (n int) {
	n = 1
	for _, b1 := range b.bases {
		n *= b1.Degree() + 1
	}
	return
}

func (b *Basis) SupportLowerBound() (lb []float64) {
	lb = make([]float64, len(b.bases))
	for d, b1 := range b.bases {
		lb[d] = b1.LowerBound()
	}
	return
}

func (b *Basis) SupportUpperBound() (ub []float64) {
	ub = make([]float64, len(b.bases))
	for d, b1 := range b.bases {
		ub[d] = b1.UpperBound()
	}
	return
}

func (b *Basis) InsideSupport(x []float64) bool {
	if len(x) != len(b.bases) {
		return false
	}
	for d, b1 := range b.bases {
		if !b1.InsideSupport(x[d]) {
			return false
		}
	}
	return true
}

// combine tensors the per-dimension windows into one sparse row over the
// full basis, expanding dimension by dimension so only the product of
// window sizes is ever materialized.
func (b *Basis) combine(ws []Basis1D.Window) (sv utils.SparseVector) {
	nnz := 1
	for _, w := range ws {
		nnz *= len(w.Values)
	}
	var (
		ind = make(utils.Index, 1, nnz)
		val = make([]float64, 1, nnz)
	)
	val[0] = 1
	for d, w := range ws {
		var (
			nd     = b.bases[d].NumBasisFunctions()
			newInd = make(utils.Index, 0, len(ind)*len(w.Values))
			newVal = make([]float64, 0, len(ind)*len(w.Values))
		)
		for k, base := range ind {
			for j, v := range w.Values {
				col := w.First + j
				if v == 0 || col < 0 || col >= nd {
					continue
				}
				newInd = append(newInd, base*nd+col)
				newVal = append(newVal, val[k]*v)
			}
		}
		ind, val = newInd, newVal
	}
	sv = utils.SparseVector{N: b.NumBasisFunctions(), Ind: ind, Data: val}
	return
}

func (b *Basis) windows(x []float64, r int) (ws []Basis1D.Window, ok bool) {
	ws = make([]Basis1D.Window, len(b.bases))
	for d, b1 := range b.bases {
		if ws[d], ok = b1.EvalDerivative(x[d], r); !ok {
			return nil, false
		}
	}
	ok = true
	return
}

// Eval returns the sparse vector of tensor basis values at x.
func (b *Basis) Eval(x []float64) (sv utils.SparseVector, ok bool) {
	var ws []Basis1D.Window
	if ws, ok = b.windows(x, 0); !ok {
		return
	}
	sv = b.combine(ws)
	return
}

// EvalJacobian returns, per dimension i, the sparse row of basis
// functions differentiated once in dimension i.
func (b *Basis) EvalJacobian(x []float64) (svs []utils.SparseVector, ok bool) {
	var vals, d1 []Basis1D.Window
	if vals, ok = b.windows(x, 0); !ok {
		return
	}
	if d1, ok = b.windows(x, 1); !ok {
		return
	}
	svs = make([]utils.SparseVector, len(b.bases))
	ws := make([]Basis1D.Window, len(b.bases))
	for i := range b.bases {
		copy(ws, vals)
		ws[i] = d1[i]
		svs[i] = b.combine(ws)
	}
	return
}

// EvalHessian returns the matrix of sparse rows for all second partial
// derivatives. The value windows are computed once and reused across
// dimension pairs; the result is symmetric by construction.
func (b *Basis) EvalHessian(x []float64) (svs [][]utils.SparseVector, ok bool) {
	var vals, d1, d2 []Basis1D.Window
	if vals, ok = b.windows(x, 0); !ok {
		return
	}
	if d1, ok = b.windows(x, 1); !ok {
		return
	}
	if d2, ok = b.windows(x, 2); !ok {
		return
	}
	n := len(b.bases)
	svs = make([][]utils.SparseVector, n)
	for i := range svs {
		svs[i] = make([]utils.SparseVector, n)
	}
	ws := make([]Basis1D.Window, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			copy(ws, vals)
			if i == j {
				ws[i] = d2[i]
			} else {
				ws[i] = d1[i]
				ws[j] = d1[j]
			}
			svs[i][j] = b.combine(ws)
			svs[j][i] = svs[i][j]
		}
	}
	return
}

// extendTransform lifts a single-dimension transformation to the full
// tensor space by tensoring with identities on the untouched dimensions.
func (b *Basis) extendTransform(dim int, Ad utils.CSR) (A utils.CSR) {
	factors := make([]utils.CSR, len(b.bases))
	for d, b1 := range b.bases {
		if d == dim {
			factors[d] = Ad
		} else {
			factors[d] = utils.SparseEye(b1.NumBasisFunctions())
		}
	}
	A = utils.KronSparseAll(factors...)
	return
}

// InsertKnots inserts tau into dimension dim and returns the insertion
// matrix extended to the tensor space (new x old).
func (b *Basis) InsertKnots(tau float64, dim, mult int) (A utils.CSR, ok bool) {
	if dim < 0 || dim >= len(b.bases) {
		return
	}
	var Ad utils.CSR
	if Ad, ok = b.bases[dim].InsertKnots(tau, mult); !ok {
		return
	}
	A = b.extendTransform(dim, Ad)
	return
}

// RefineKnots refines every dimension and consolidates the per-dimension
// insertion matrices into a single transformation (final x initial), so
// control points are recomputed once rather than per insertion.
func (b *Basis) RefineKnots() (A utils.CSR, ok bool) {
	for d := range b.bases {
		Ad, okDim := b.bases[d].RefineKnots()
		if !okDim {
			return A, false
		}
		Aext := b.extendTransform(d, Ad)
		if d == 0 {
			A = Aext
		} else {
			A = utils.MulCSR(Aext, A)
		}
	}
	ok = true
	return
}

// ReduceSupport restricts every dimension to [lb, ub] and returns the
// tensored restriction matrix (old x kept).
func (b *Basis) ReduceSupport(lb, ub []float64) (A utils.CSR, ok bool) {
	if len(lb) != len(b.bases) || len(ub) != len(b.bases) {
		return
	}
	factors := make([]utils.CSR, len(b.bases))
	for d, b1 := range b.bases {
		var okDim bool
		if factors[d], okDim = b1.ReduceSupport(lb[d], ub[d]); !okDim {
			return
		}
	}
	A = utils.KronSparseAll(factors...)
	ok = true
	return
}
