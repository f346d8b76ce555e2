package utils

import "errors"

// Error taxonomy for the spline algebra. The knot-vector layer reports
// failure as boolean results; these sentinels are wrapped in at the
// surface boundary so callers can test with errors.Is().
var (
	ErrDomain       = errors.New("evaluation point outside domain")
	ErrConstruction = errors.New("invalid construction parameters")
	ErrStructural   = errors.New("structural edit failed")
	ErrSolve        = errors.New("linear solve failed")
	ErrFormat       = errors.New("malformed surface file")
)

type Index []int
