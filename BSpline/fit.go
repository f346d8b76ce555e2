package BSpline

import (
	"fmt"

	"github.com/notargets/gospline/DataTable"
	"github.com/notargets/gospline/utils"
)

/* Control point computation sets up and solves the equations A*C = B,
 * A = basis function values at the sample coordinates,
 * B = sample y-values when solving for coefficients,
 * B = sample x-values when solving for knot averages.
 * The factorization of A is reused across both right hand sides.
 */
func (s *Spline) computeControlPoints(samples *DataTable.Table) (err error) {
	var A utils.CSR
	if A, err = s.buildDesignMatrix(samples); err != nil {
		return
	}
	Bx, By := s.controlPointRHS(samples)

	var (
		numEquations, nb = A.Dims()
		solveAsDense     = numEquations < utils.DenseSolveThreshold || numEquations != nb
	)
	if !solveAsDense {
		solver := utils.SparseBiCGStab{}
		if Xs, ok := solver.Solve(A, Bx, By); ok {
			s.knotaverages = Xs[0].Transpose()
			s.coefficients = Xs[1].Transpose()
			return
		}
		// Sparse solve did not converge, fall back to dense.
	}
	Xs, ok := utils.DenseQR{}.Solve(A.ToDense(), Bx, By)
	if !ok {
		err = fmt.Errorf("%w: failed to solve for spline control points", utils.ErrSolve)
		return
	}
	s.knotaverages = Xs[0].Transpose()
	s.coefficients = Xs[1].Transpose()
	return
}

// buildDesignMatrix assembles the sparse matrix of basis function values
// with one row per sample, preallocating the per-row support window.
func (s *Spline) buildDesignMatrix(samples *DataTable.Table) (A utils.CSR, err error) {
	var (
		sorted    = samples.Samples()
		ns        = len(sorted)
		nb        = s.basis.NumBasisFunctions()
		nnzPerRow = s.basis.SupportedPerPoint()
		ia        = make([]int, 1, ns+1)
		ja        = make([]int, 0, ns*nnzPerRow)
		data      = make([]float64, 0, ns*nnzPerRow)
	)
	for _, sample := range sorted {
		sv, ok := s.basis.Eval(sample.X)
		if !ok {
			err = fmt.Errorf("%w: sample %v lies outside the basis support", utils.ErrConstruction, sample.X)
			return
		}
		ja = append(ja, sv.Ind...)
		data = append(data, sv.Data...)
		ia = append(ia, len(ja))
	}
	A = utils.NewCSR(ns, nb, ia, ja, data)
	return
}

// controlPointRHS assembles the two right hand sides in the same sample
// order as the design matrix.
func (s *Spline) controlPointRHS(samples *DataTable.Table) (Bx, By utils.Matrix) {
	var (
		sorted = samples.Samples()
		ns     = len(sorted)
		nv     = samples.NumVariables()
	)
	Bx = utils.NewMatrix(ns, nv)
	By = utils.NewMatrix(ns, 1)
	var (
		bx = Bx.Data()
		by = By.Data()
	)
	for i, sample := range sorted {
		copy(bx[i*nv:(i+1)*nv], sample.X)
		by[i] = sample.Y
	}
	return
}
