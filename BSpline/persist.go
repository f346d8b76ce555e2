package BSpline

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gospline/utils"
)

// The text format is line oriented and locale independent:
//
//	# comment lines start with '#'
//	<numVariables>
//	<degree_d> <knotVectorLength_d>    repeated per dimension
//	<knot values, space separated>     repeated per dimension
//	<coeffRows> <coeffCols>
//	<coefficient row, space separated>

const saveFloatPrecision = 17

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', saveFloatPrecision, 64)
}

// Save writes the surface to fileName.
func (s *Spline) Save(fileName string) (err error) {
	var f *os.File
	if f, err = os.Create(fileName); err != nil {
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# Saved spline surface\n")
	fmt.Fprintf(w, "# Number of bases: %d\n", s.numVariables)
	fmt.Fprintf(w, "%d\n", s.numVariables)
	for d := 0; d < s.numVariables; d++ {
		knots := s.basis.KnotVector(d)
		fmt.Fprintf(w, "%d %d\n", s.basis.Degree(d), len(knots))
		for _, k := range knots {
			fmt.Fprintf(w, "%s ", formatFloat(k))
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "# Coefficient matrix:\n")
	nr, nc := s.coefficients.Dims()
	fmt.Fprintf(w, "%d %d\n", nr, nc)
	data := s.coefficients.Data()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			fmt.Fprintf(w, "%s ", formatFloat(data[i*nc+j]))
		}
		fmt.Fprintf(w, "\n")
	}
	return w.Flush()
}

// Load reads a surface saved by Save. Decoding is a strict state
// machine; malformed numeric tokens, truncated input and declared
// dimensions that disagree with the encountered values all fail with
// ErrFormat.
func Load(fileName string) (s *Spline, err error) {
	var f *os.File
	if f, err = os.Open(fileName); err != nil {
		return
	}
	defer f.Close()

	const (
		stateNumVariables = iota
		stateBasisHeader
		stateKnots
		stateCoefficientDims
		stateCoefficients
		stateDone
	)
	var (
		scanner       = bufio.NewScanner(f)
		state         = stateNumVariables
		numVariables  int
		degrees       []int
		knotVectors   [][]float64
		knotVecLength int
		basisNum      int
		cCols         int
		coefficients  []float64
	)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch state {
		case stateNumVariables:
			if numVariables, err = parseInt(line); err != nil {
				return
			}
			if numVariables < 1 {
				err = fmt.Errorf("%w: surface must have at least one variable, got %d", utils.ErrFormat, numVariables)
				return
			}
			degrees = make([]int, 0, numVariables)
			knotVectors = make([][]float64, 0, numVariables)
			state = stateBasisHeader

		case stateBasisHeader:
			var degree int
			if degree, knotVecLength, err = parseIntPair(line); err != nil {
				return
			}
			if degree < 0 || knotVecLength < 2 {
				err = fmt.Errorf("%w: invalid basis header %q", utils.ErrFormat, line)
				return
			}
			degrees = append(degrees, degree)
			state = stateKnots

		case stateKnots:
			var knots []float64
			if knots, err = parseFloats(line, knotVecLength); err != nil {
				return
			}
			knotVectors = append(knotVectors, knots)
			basisNum++
			if basisNum >= numVariables {
				state = stateCoefficientDims
			} else {
				state = stateBasisHeader
			}

		case stateCoefficientDims:
			var cRows int
			if cRows, cCols, err = parseIntPair(line); err != nil {
				return
			}
			if cRows != 1 || cCols < 1 {
				err = fmt.Errorf("%w: coefficient matrix must be a 1 x n row, got %d x %d",
					utils.ErrFormat, cRows, cCols)
				return
			}
			state = stateCoefficients

		case stateCoefficients:
			if coefficients, err = parseFloats(line, cCols); err != nil {
				return
			}
			state = stateDone
		}
		if state == stateDone {
			break
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if state != stateDone {
		err = fmt.Errorf("%w: unexpected end of file", utils.ErrFormat)
		return
	}
	if s, err = NewSpline(coefficients, knotVectors, degrees); err != nil {
		err = fmt.Errorf("%w: %v", utils.ErrFormat, err)
		return nil, err
	}
	return
}

func parseInt(line string) (v int, err error) {
	if v, err = strconv.Atoi(strings.Fields(line)[0]); err != nil {
		err = fmt.Errorf("%w: bad integer token in %q", utils.ErrFormat, line)
	}
	return
}

func parseIntPair(line string) (a, b int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		err = fmt.Errorf("%w: expected two integers in %q", utils.ErrFormat, line)
		return
	}
	if a, err = strconv.Atoi(fields[0]); err != nil {
		err = fmt.Errorf("%w: bad integer token %q", utils.ErrFormat, fields[0])
		return
	}
	if b, err = strconv.Atoi(fields[1]); err != nil {
		err = fmt.Errorf("%w: bad integer token %q", utils.ErrFormat, fields[1])
	}
	return
}

func parseFloats(line string, n int) (vals []float64, err error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		err = fmt.Errorf("%w: expected %d values, found %d", utils.ErrFormat, n, len(fields))
		return
	}
	vals = make([]float64, n)
	for i := 0; i < n; i++ {
		if vals[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
			err = fmt.Errorf("%w: bad numeric token %q", utils.ErrFormat, fields[i])
			return nil, err
		}
	}
	return
}
