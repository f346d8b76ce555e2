package Basis1D

import (
	"fmt"
	"sort"

	"github.com/notargets/gospline/utils"
)

// RefineRelTol is the relative interval length above which refinement
// inserts a midpoint knot.
var RefineRelTol = 1.e-5

// KnotVectorFree builds a clamped knot vector of the given degree over
// the unique values of x, sized so the basis function count equals the
// unique site count. The ends carry multiplicity degree+1; of the
// interior sites, floor((p-1)/2) are dropped at the front and
// ceil((p-1)/2) at the back to make the counts line up.
func KnotVectorFree(x []float64, degree int) (knots []float64, err error) {
	if degree < 1 {
		err = fmt.Errorf("%w: free knot vectors require degree >= 1, got %d", utils.ErrConstruction, degree)
		return
	}
	unique := uniqueSorted(x)
	m := len(unique)
	if m < degree+1 {
		err = fmt.Errorf("%w: %d unique sample values cannot carry a degree-%d basis",
			utils.ErrConstruction, m, degree)
		return
	}
	var (
		dropF = (degree - 1) / 2
		dropB = degree - 1 - dropF
	)
	knots = make([]float64, 0, m+degree+1)
	for i := 0; i <= degree; i++ {
		knots = append(knots, unique[0])
	}
	knots = append(knots, unique[1+dropF:m-1-dropB]...)
	for i := 0; i <= degree; i++ {
		knots = append(knots, unique[m-1])
	}
	return
}

func uniqueSorted(x []float64) (unique []float64) {
	unique = make([]float64, len(x))
	copy(unique, x)
	sort.Float64s(unique)
	j := 0
	for i := 1; i < len(unique); i++ {
		if unique[i] != unique[j] {
			j++
			unique[j] = unique[i]
		}
	}
	if len(unique) > 0 {
		unique = unique[:j+1]
	}
	return
}

// InsertKnots inserts tau with the given multiplicity and returns the
// knot insertion matrix A (new x old) so that newCoefficients =
// oldCoefficients * Aᵀ represents the identical function. Fails without
// mutating when tau lies outside the support or the resulting
// multiplicity would exceed degree+1.
func (b *Basis) InsertKnots(tau float64, mult int) (A utils.CSR, ok bool) {
	if mult < 1 || !b.InsideSupport(tau) {
		return
	}
	if b.Multiplicity(tau)+mult > b.degree+1 {
		return
	}
	var (
		pos     = sort.SearchFloat64s(b.knots, tau)
		refined = make([]float64, 0, len(b.knots)+mult)
	)
	refined = append(refined, b.knots[:pos]...)
	for i := 0; i < mult; i++ {
		refined = append(refined, tau)
	}
	refined = append(refined, b.knots[pos:]...)

	A = b.buildInsertionMatrix(refined)
	b.knots = refined
	ok = true
	return
}

// RefineKnots inserts a midpoint into every knot interval whose length
// exceeds RefineRelTol of the support length, returning the combined
// insertion matrix. The identity comes back when nothing qualifies.
func (b *Basis) RefineKnots() (A utils.CSR, ok bool) {
	var (
		span    = b.UpperBound() - b.LowerBound()
		refined = make([]float64, 0, 2*len(b.knots))
	)
	for i := 0; i < len(b.knots)-1; i++ {
		refined = append(refined, b.knots[i])
		if b.knots[i+1]-b.knots[i] > RefineRelTol*span {
			refined = append(refined, 0.5*(b.knots[i]+b.knots[i+1]))
		}
	}
	refined = append(refined, b.knots[len(b.knots)-1])

	A = b.buildInsertionMatrix(refined)
	b.knots = refined
	ok = true
	return
}

// ReduceSupport trims the knot vector to [lb, ub] and returns the
// restriction matrix A (old x kept) selecting the basis functions whose
// support intersects the new interval; apply as coefficients * A.
func (b *Basis) ReduceSupport(lb, ub float64) (A utils.CSR, ok bool) {
	if ub <= lb || lb < b.LowerBound() || ub > b.UpperBound() {
		return
	}
	var (
		p     = b.degree
		n     = b.NumBasisFunctions()
		ul, _ = b.intervalIndex(lb)
		uu, _ = b.intervalIndex(ub)
		first = ul - p
		last  = uu
	)
	if first < 0 {
		first = 0
	}
	if last > n-1 {
		last = n - 1
	}
	if last < first {
		return
	}
	nKept := last - first + 1

	trimmed := make([]float64, last+p+2-first)
	copy(trimmed, b.knots[first:last+p+2])

	var (
		ia   = make([]int, n+1)
		ja   = make([]int, 0, nKept)
		data = make([]float64, 0, nKept)
	)
	for i := 0; i < n; i++ {
		if i >= first && i <= last {
			ja = append(ja, i-first)
			data = append(data, 1)
		}
		ia[i+1] = len(ja)
	}
	A = utils.NewCSR(n, nKept, ia, ja, data)
	b.knots = trimmed
	ok = true
	return
}

// buildInsertionMatrix computes the Oslo-algorithm discrete B-spline
// matrix from the current knot vector to refined, which must contain the
// current knots. Row i is the product R_1(t_{i+1})...R_p(t_{i+p})
// anchored at the old interval containing t_i, occupying columns
// u-degree..u. Each row holds at most degree+1 nonzeros, which is
// preallocated exactly.
func (b *Basis) buildInsertionMatrix(refined []float64) (A utils.CSR) {
	var (
		p    = b.degree
		n    = len(b.knots) - p - 1
		m    = len(refined) - p - 1
		ia   = make([]int, 1, m+1)
		ja   = make([]int, 0, m*(p+1))
		data = make([]float64, 0, m*(p+1))
	)
	for i := 0; i < m; i++ {
		u, _ := b.intervalIndex(refined[i])
		row := []float64{1}
		for k := 1; k <= p; k++ {
			row = b.stepValue(row, refined[i+k], u, k)
		}
		for j, val := range row {
			col := u - p + j
			if val == 0 || col < 0 || col >= n {
				continue
			}
			ja = append(ja, col)
			data = append(data, val)
		}
		ia = append(ia, len(ja))
	}
	A = utils.NewCSR(m, n, ia, ja, data)
	return
}
