package utils

import (
	"math"

	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DenseSolveThreshold is the equation count below which control point
// solves go straight to the dense path. Package variable so the sparse
// and dense paths can each be forced.
var DenseSolveThreshold = 1 << 10

// DenseQR solves A*X = B in the least squares sense through a QR
// factorization. The factorization is computed once and reused across
// right hand sides.
type DenseQR struct{}

func (DenseQR) Solve(A Matrix, Bs ...Matrix) (Xs []Matrix, ok bool) {
	var (
		nr, nc = A.Dims()
		qr     mat.QR
	)
	if nr < nc {
		return nil, false
	}
	qr.Factorize(A.M)
	Xs = make([]Matrix, len(Bs))
	for i, B := range Bs {
		_, ncB := B.Dims()
		X := NewMatrix(nc, ncB)
		if err := qr.SolveTo(X.M, false, B.M); err != nil {
			return nil, false
		}
		if IsNan(X.Data()) {
			return nil, false
		}
		Xs[i] = X
	}
	ok = true
	return
}

// SparseBiCGStab solves the square system A*X = B column by column with
// the stabilized bi-conjugate gradient method, using only sparse
// matrix-vector products. A zero value is ready to use.
type SparseBiCGStab struct {
	MaxIter int
	Tol     float64
}

func (s SparseBiCGStab) Solve(A CSR, Bs ...Matrix) (Xs []Matrix, ok bool) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		return nil, false
	}
	if s.MaxIter == 0 {
		s.MaxIter = 10 * nr
	}
	if s.Tol == 0 {
		s.Tol = 1.e-12
	}
	Xs = make([]Matrix, len(Bs))
	for i, B := range Bs {
		nrB, ncB := B.Dims()
		if nrB != nr {
			return nil, false
		}
		X := NewMatrix(nc, ncB)
		for j := 0; j < ncB; j++ {
			b := B.Col(j).Data()
			x, okCol := s.solveVec(A, b)
			if !okCol {
				return nil, false
			}
			X.SetCol(j, x)
		}
		Xs[i] = X
	}
	ok = true
	return
}

func (s SparseBiCGStab) solveVec(A CSR, b []float64) (x []float64, ok bool) {
	var (
		n    = len(b)
		am   = A.RawMatrix()
		x0   = make([]float64, n)
		r    = make([]float64, n)
		rhat = make([]float64, n)
		p    = make([]float64, n)
		v    = make([]float64, n)
		sv   = make([]float64, n)
		t    = make([]float64, n)
	)
	copy(r, b)
	copy(rhat, b)
	normB := norm2(b)
	if normB == 0 {
		return x0, true
	}
	tol := s.Tol * normB
	var rho, alpha, omega float64 = 1, 1, 1
	for iter := 0; iter < s.MaxIter; iter++ {
		rho1 := dot(rhat, r)
		if rho1 == 0 {
			return nil, false
		}
		beta := (rho1 / rho) * (alpha / omega)
		for i := range p {
			p[i] = r[i] + beta*(p[i]-omega*v[i])
		}
		matVec(am, p, v)
		den := dot(rhat, v)
		if den == 0 {
			return nil, false
		}
		alpha = rho1 / den
		for i := range sv {
			sv[i] = r[i] - alpha*v[i]
		}
		if norm2(sv) < tol {
			for i := range x0 {
				x0[i] += alpha * p[i]
			}
			return x0, true
		}
		matVec(am, sv, t)
		tt := dot(t, t)
		if tt == 0 {
			return nil, false
		}
		omega = dot(t, sv) / tt
		if omega == 0 {
			return nil, false
		}
		for i := range x0 {
			x0[i] += alpha*p[i] + omega*sv[i]
		}
		for i := range r {
			r[i] = sv[i] - omega*t[i]
		}
		if norm2(r) < tol {
			return x0, true
		}
		rho = rho1
	}
	return nil, false
}

func matVec(am *blas.SparseMatrix, x, y []float64) {
	for i := 0; i < am.I; i++ {
		var sum float64
		for kk := am.Indptr[i]; kk < am.Indptr[i+1]; kk++ {
			sum += am.Data[kk] * x[am.Ind[kk]]
		}
		y[i] = sum
	}
}

func dot(a, b []float64) (d float64) {
	for i, val := range a {
		d += val * b[i]
	}
	return
}

func norm2(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}

func IsNan(data []float64) bool {
	for _, f := range data {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}
