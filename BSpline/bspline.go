package BSpline

import (
	"fmt"

	"github.com/notargets/gospline/BasisND"
	"github.com/notargets/gospline/DataTable"
	"github.com/notargets/gospline/utils"
)

type SplineType uint8

const (
	Linear SplineType = iota
	QuadraticFree
	CubicFree
)

func (st SplineType) degree() int {
	switch st {
	case Linear:
		return 1
	case QuadraticFree:
		return 2
	case CubicFree:
		return 3
	}
	// Default is cubic
	return 3
}

// Spline is a multivariate tensor-product B-spline surface. It owns its
// basis, the 1 x n coefficient row and the numVariables x n knot-average
// matrix; every structural edit updates all three together.
type Spline struct {
	basis        *BasisND.Basis
	coefficients utils.Matrix
	knotaverages utils.Matrix
	numVariables int
}

// NewSpline constructs a surface from explicit coefficients, knot
// vectors and degrees.
func NewSpline(coefficients []float64, knotVectors [][]float64, degrees []int) (s *Spline, err error) {
	var basis *BasisND.Basis
	if basis, err = BasisND.NewBasis(knotVectors, degrees); err != nil {
		return
	}
	if len(coefficients) != basis.NumBasisFunctions() {
		err = fmt.Errorf("%w: %d coefficients for %d basis functions",
			utils.ErrConstruction, len(coefficients), basis.NumBasisFunctions())
		return
	}
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	s = &Spline{
		basis:        basis,
		coefficients: utils.NewMatrix(1, len(c), c),
		numVariables: basis.NumVariables(),
	}
	s.computeKnotAverages()
	err = s.checkControlPoints()
	return
}

// NewSplineFit fits a surface to a complete grid of samples, with free
// knot vectors of the degree implied by the spline type.
func NewSplineFit(samples *DataTable.Table, st SplineType) (s *Spline, err error) {
	if !samples.IsGridComplete() {
		err = fmt.Errorf("%w: cannot fit spline to an incomplete sample grid", utils.ErrConstruction)
		return
	}
	var (
		nv      = samples.NumVariables()
		degrees = make([]int, nv)
	)
	for d := range degrees {
		degrees[d] = st.degree()
	}
	var basis *BasisND.Basis
	if basis, err = BasisND.NewBasisFree(samples.TableX(), degrees); err != nil {
		return
	}
	s = &Spline{basis: basis, numVariables: nv}
	if err = s.computeControlPoints(samples); err != nil {
		return nil, err
	}
	err = s.checkControlPoints()
	return
}

func (s *Spline) NumVariables() int            { return s.numVariables }
func (s *Spline) NumBasisFunctions() int       { return s.basis.NumBasisFunctions() }
func (s *Spline) Degree(dim int) int           { return s.basis.Degree(dim) }
func (s *Spline) KnotVector(dim int) []float64 { return s.basis.KnotVector(dim) }

func (s *Spline) DomainLowerBound() []float64 { return s.basis.SupportLowerBound() }
func (s *Spline) DomainUpperBound() []float64 { return s.basis.SupportUpperBound() }

func (s *Spline) pointInDomain(x []float64) bool {
	return s.basis.InsideSupport(x)
}

// Eval returns the surface value at x.
func (s *Spline) Eval(x []float64) (y float64, err error) {
	if !s.pointInDomain(x) {
		err = fmt.Errorf("%w: eval at %v", utils.ErrDomain, x)
		return
	}
	sv, _ := s.basis.Eval(x)
	y = sv.Dot(s.coefficients.Data())
	return
}

// EvalJacobian returns the 1 x numVariables Jacobian at x.
func (s *Spline) EvalJacobian(x []float64) (J utils.Matrix, err error) {
	if !s.pointInDomain(x) {
		err = fmt.Errorf("%w: evalJacobian at %v", utils.ErrDomain, x)
		return
	}
	svs, _ := s.basis.EvalJacobian(x)
	J = utils.NewMatrix(1, s.numVariables)
	c := s.coefficients.Data()
	for i, sv := range svs {
		J.Set(0, i, sv.Dot(c))
	}
	return
}

// EvalHessian returns the numVariables x numVariables Hessian at x,
// symmetric by construction.
func (s *Spline) EvalHessian(x []float64) (H utils.Matrix, err error) {
	if !s.pointInDomain(x) {
		err = fmt.Errorf("%w: evalHessian at %v", utils.ErrDomain, x)
		return
	}
	svs, _ := s.basis.EvalHessian(x)
	H = utils.NewMatrix(s.numVariables, s.numVariables)
	c := s.coefficients.Data()
	for i := range svs {
		for j := range svs[i] {
			H.Set(i, j, svs[i][j].Dot(c))
		}
	}
	return
}

// ControlPoints returns the (numVariables+1) x n matrix of knot-average
// abscissas stacked over the coefficient row.
func (s *Spline) ControlPoints() (cp utils.Matrix) {
	var (
		_, nc = s.coefficients.Dims()
	)
	cp = utils.NewMatrix(s.numVariables+1, nc)
	for i := 0; i < s.numVariables; i++ {
		cp.SetRow(i, s.knotaverages.Row(i).Data())
	}
	cp.SetRow(s.numVariables, s.coefficients.Row(0).Data())
	return
}

func (s *Spline) SetControlPoints(cp utils.Matrix) (err error) {
	nr, nc := cp.Dims()
	if nr != s.numVariables+1 {
		err = fmt.Errorf("%w: control point matrix has %d rows, want %d",
			utils.ErrConstruction, nr, s.numVariables+1)
		return
	}
	s.knotaverages = cp.Slice(0, s.numVariables, 0, nc)
	s.coefficients = cp.Slice(s.numVariables, s.numVariables+1, 0, nc)
	err = s.checkControlPoints()
	return
}

func (s *Spline) checkControlPoints() (err error) {
	var (
		crows, ccols = s.coefficients.Dims()
		krows, kcols = s.knotaverages.Dims()
	)
	if crows != 1 || krows != s.numVariables || ccols != kcols {
		err = fmt.Errorf("%w: control points are inconsistent: coefficients %dx%d, knot averages %dx%d",
			utils.ErrStructural, crows, ccols, krows, kcols)
	}
	return
}

// InsertKnots inserts tau into dimension dim with the given multiplicity
// and maps the control points through the insertion matrix so the
// represented function is unchanged. The surface is untouched on
// failure.
func (s *Spline) InsertKnots(tau float64, dim, mult int) (err error) {
	if dim < 0 || dim >= s.numVariables {
		err = fmt.Errorf("%w: dimension %d out of range", utils.ErrStructural, dim)
		return
	}
	if s.basis.Multiplicity(dim, tau)+mult > s.basis.Degree(dim)+1 {
		err = fmt.Errorf("%w: inserting %d knots at %v would exceed multiplicity %d",
			utils.ErrStructural, mult, tau, s.basis.Degree(dim)+1)
		return
	}
	A, ok := s.basis.InsertKnots(tau, dim, mult)
	if !ok {
		err = fmt.Errorf("%w: knot insertion at %v in dimension %d failed", utils.ErrStructural, tau, dim)
		return
	}
	s.applyTransform(A)
	err = s.checkControlPoints()
	return
}

// RefineKnots inserts midpoint knots in every oversized interval of
// every dimension, through one consolidated insertion matrix.
func (s *Spline) RefineKnots() (err error) {
	A, ok := s.basis.RefineKnots()
	if !ok {
		err = fmt.Errorf("%w: knot refinement failed", utils.ErrStructural)
		return
	}
	s.applyTransform(A)
	err = s.checkControlPoints()
	return
}

// ReduceDomain restricts the surface to the box [lb, ub]. With
// regularizeKnots the trimmed bounds are first raised to full
// multiplicity so the restricted surface interpolates its boundary;
// with refineKnots the reduced knot vectors are refined afterwards.
func (s *Spline) ReduceDomain(lb, ub []float64, regularizeKnots, refineKnots bool) (err error) {
	if len(lb) != s.numVariables || len(ub) != s.numVariables {
		err = fmt.Errorf("%w: bounds have %d/%d entries for %d variables",
			utils.ErrStructural, len(lb), len(ub), s.numVariables)
		return
	}
	var (
		sl             = s.basis.SupportLowerBound()
		su             = s.basis.SupportUpperBound()
		isStrictSubset bool
	)
	for dim := 0; dim < s.numVariables; dim++ {
		if ub[dim] <= lb[dim] || lb[dim] >= su[dim] || ub[dim] <= sl[dim] {
			err = fmt.Errorf("%w: cannot reduce domain of dimension %d to an empty set",
				utils.ErrStructural, dim)
			return
		}
		if su[dim] > ub[dim] {
			isStrictSubset = true
			su[dim] = ub[dim]
		}
		if lb[dim] > sl[dim] {
			isStrictSubset = true
			sl[dim] = lb[dim]
		}
	}
	if !isStrictSubset {
		return
	}
	if regularizeKnots {
		if err = s.regularizeKnotVectors(sl, su); err != nil {
			return
		}
	}
	if err = s.removeUnsupportedBasisFunctions(sl, su); err != nil {
		return
	}
	if refineKnots {
		err = s.RefineKnots()
	}
	return
}

// regularizeKnotVectors raises the multiplicity of the bound knots to
// degree+1, inserting all missing knots per bound at once so control
// points are recomputed once per insertion site.
func (s *Spline) regularizeKnotVectors(lb, ub []float64) (err error) {
	for dim := 0; dim < s.numVariables; dim++ {
		target := s.basis.Degree(dim) + 1
		if n := target - s.basis.Multiplicity(dim, lb[dim]); n > 0 {
			if err = s.InsertKnots(lb[dim], dim, n); err != nil {
				return
			}
		}
		if n := target - s.basis.Multiplicity(dim, ub[dim]); n > 0 {
			if err = s.InsertKnots(ub[dim], dim, n); err != nil {
				return
			}
		}
	}
	return
}

func (s *Spline) removeUnsupportedBasisFunctions(lb, ub []float64) (err error) {
	A, ok := s.basis.ReduceSupport(lb, ub)
	if !ok {
		err = fmt.Errorf("%w: support reduction failed", utils.ErrStructural)
		return
	}
	nrA, _ := A.Dims()
	_, nc := s.coefficients.Dims()
	if nc != nrA {
		err = fmt.Errorf("%w: restriction matrix has %d rows for %d control points",
			utils.ErrStructural, nrA, nc)
		return
	}
	s.applyRestriction(A)
	err = s.checkControlPoints()
	return
}

// applyTransform right-multiplies the control point rows by Aᵀ, where A
// is a (new x old) insertion matrix.
func (s *Spline) applyTransform(A utils.CSR) {
	var (
		m, n  = A.Dims()
		nv    = s.numVariables
		c     = s.coefficients.Data()
		ka    = s.knotaverages.Data()
		newC  = utils.NewMatrix(1, m)
		newKA = utils.NewMatrix(nv, m)
		cd    = newC.Data()
		kad   = newKA.Data()
	)
	A.DoNonZero(func(j, k int, v float64) {
		cd[j] += c[k] * v
		for r := 0; r < nv; r++ {
			kad[r*m+j] += ka[r*n+k] * v
		}
	})
	s.coefficients = newC
	s.knotaverages = newKA
}

// applyRestriction right-multiplies the control point rows by A, where A
// is an (old x kept) restriction matrix.
func (s *Spline) applyRestriction(A utils.CSR) {
	var (
		n, m  = A.Dims()
		nv    = s.numVariables
		c     = s.coefficients.Data()
		ka    = s.knotaverages.Data()
		newC  = utils.NewMatrix(1, m)
		newKA = utils.NewMatrix(nv, m)
		cd    = newC.Data()
		kad   = newKA.Data()
	)
	A.DoNonZero(func(k, j int, v float64) {
		cd[j] += c[k] * v
		for r := 0; r < nv; r++ {
			kad[r*m+j] += ka[r*n+k] * v
		}
	})
	s.coefficients = newC
	s.knotaverages = newKA
}

// computeKnotAverages fills the knot-average (Greville abscissa) matrix
// from the current knot vectors: column j of row d is the average of
// degree consecutive interior knots of dimension d selected by the
// mixed-radix digit of j. The pattern matches the sample ordering in
// DataTable.
func (s *Spline) computeKnotAverages() {
	var (
		nv     = s.numVariables
		total  = s.basis.NumBasisFunctions()
		counts = make([]int, nv)
		mus    = make([][]float64, nv)
	)
	for d := 0; d < nv; d++ {
		var (
			knots = s.basis.KnotVector(d)
			p     = s.basis.Degree(d)
			nd    = s.basis.NumBasisFunctionsPerDim(d)
			mu    = make([]float64, nd)
		)
		for j := 0; j < nd; j++ {
			if p == 0 {
				mu[j] = 0.5 * (knots[j] + knots[j+1])
				continue
			}
			var sum float64
			for k := j + 1; k <= j+p; k++ {
				sum += knots[k]
			}
			mu[j] = sum / float64(p)
		}
		counts[d] = nd
		mus[d] = mu
	}
	ka := utils.NewMatrix(nv, total)
	kad := ka.Data()
	for j := 0; j < total; j++ {
		rem := j
		for d := nv - 1; d >= 0; d-- {
			kad[d*total+j] = mus[d][rem%counts[d]]
			rem /= counts[d]
		}
	}
	s.knotaverages = ka
}
