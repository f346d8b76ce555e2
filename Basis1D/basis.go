package Basis1D

import (
	"fmt"

	"github.com/notargets/gospline/utils"
)

// Basis is a univariate B-spline basis: a non-decreasing knot vector and
// a fixed polynomial degree. The number of basis functions is
// len(knots) - degree - 1.
type Basis struct {
	knots  []float64
	degree int
}

func NewBasis(knots []float64, degree int) (b *Basis, err error) {
	if degree < 0 {
		err = fmt.Errorf("%w: negative degree %d", utils.ErrConstruction, degree)
		return
	}
	if len(knots) < 2*(degree+1) {
		err = fmt.Errorf("%w: knot vector of length %d is too short for degree %d",
			utils.ErrConstruction, len(knots), degree)
		return
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			err = fmt.Errorf("%w: knot vector is not non-decreasing at index %d", utils.ErrConstruction, i)
			return
		}
	}
	if knots[0] == knots[len(knots)-1] {
		err = fmt.Errorf("%w: knot vector has empty support", utils.ErrConstruction)
		return
	}
	kCopy := make([]float64, len(knots))
	copy(kCopy, knots)
	b = &Basis{knots: kCopy, degree: degree}
	return
}

// NewBasisFree builds a clamped basis whose interior knots are chosen
// from the unique sample sites so that the number of basis functions
// equals the number of sites, giving a square interpolation system for
// a complete grid.
func NewBasisFree(x []float64, degree int) (b *Basis, err error) {
	var knots []float64
	if knots, err = KnotVectorFree(x, degree); err != nil {
		return
	}
	return NewBasis(knots, degree)
}

func (b *Basis) Degree() int            { return b.degree }
func (b *Basis) NumBasisFunctions() int { return len(b.knots) - b.degree - 1 }
func (b *Basis) LowerBound() float64    { return b.knots[0] }
func (b *Basis) UpperBound() float64    { return b.knots[len(b.knots)-1] }

func (b *Basis) Knots() (knots []float64) {
	knots = make([]float64, len(b.knots))
	copy(knots, b.knots)
	return
}

func (b *Basis) InsideSupport(x float64) bool {
	return x >= b.LowerBound() && x <= b.UpperBound()
}

// Multiplicity counts exact occurrences of tau in the knot vector.
func (b *Basis) Multiplicity(tau float64) (m int) {
	for _, k := range b.knots {
		if k == tau {
			m++
		}
	}
	return
}

// intervalIndex returns u with knots[u] <= x < knots[u+1]. Intervals are
// half-open except the last non-empty one, which is closed at both ends,
// so x equal to the upper bound resolves there.
func (b *Basis) intervalIndex(x float64) (u int, ok bool) {
	var (
		k = b.knots
		n = len(k)
	)
	if x < k[0] || x > k[n-1] {
		return
	}
	if x == k[n-1] {
		u = n - 2
		for u > 0 && k[u] == k[n-1] {
			u--
		}
		return u, true
	}
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if k[mid] <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1, true
}

// Window holds the degree+1 possibly nonzero basis function values (or
// derivatives) at a point; entry j belongs to global basis function
// First+j.
type Window struct {
	First  int
	Values []float64
}

// Eval returns the window of basis function values at x via the
// bottom-up matrix recursion: a 1x1 seed multiplied by the bidiagonal
// R_k matrices for k = 1..degree. Zero-length knot spans contribute
// nothing (0/0 := 0).
func (b *Basis) Eval(x float64) (w Window, ok bool) {
	return b.EvalDerivative(x, 0)
}

// EvalDerivative returns the window of r-th derivatives at x. The last
// r factors of the recursion are replaced by their difference forms and
// the product scaled by degree!/(degree-r)!.
func (b *Basis) EvalDerivative(x float64, r int) (w Window, ok bool) {
	var (
		p = b.degree
		u int
	)
	if u, ok = b.intervalIndex(x); !ok {
		return
	}
	w.First = u - p
	if r > p {
		w.Values = make([]float64, p+1)
		return
	}
	row := []float64{1}
	for k := 1; k <= p-r; k++ {
		row = b.stepValue(row, x, u, k)
	}
	factor := 1.
	for k := p - r + 1; k <= p; k++ {
		row = b.stepDeriv(row, u, k)
		factor *= float64(k)
	}
	if factor != 1 {
		for i := range row {
			row[i] *= factor
		}
	}
	w.Values = row
	return
}

// stepValue multiplies the 1 x k row by R_k(x), the k x (k+1) bidiagonal
// blending matrix anchored at interval u.
func (b *Basis) stepValue(row []float64, x float64, u, k int) (out []float64) {
	out = make([]float64, k+1)
	for i := 0; i < k; i++ {
		lo, hi := u+1+i-k, u+1+i
		if lo < 0 || hi >= len(b.knots) {
			continue
		}
		d := b.knots[hi] - b.knots[lo]
		if d == 0 {
			continue
		}
		out[i] += row[i] * (b.knots[hi] - x) / d
		out[i+1] += row[i] * (x - b.knots[lo]) / d
	}
	return
}

func (b *Basis) stepDeriv(row []float64, u, k int) (out []float64) {
	out = make([]float64, k+1)
	for i := 0; i < k; i++ {
		lo, hi := u+1+i-k, u+1+i
		if lo < 0 || hi >= len(b.knots) {
			continue
		}
		d := b.knots[hi] - b.knots[lo]
		if d == 0 {
			continue
		}
		out[i] -= row[i] / d
		out[i+1] += row[i] / d
	}
	return
}
