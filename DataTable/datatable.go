package DataTable

import (
	"fmt"
	"sort"
)

// Sample is one observation: coordinates X and scalar value Y.
type Sample struct {
	X []float64
	Y float64
}

// Table collects samples for spline fitting. Iteration through Samples()
// is lexicographic in X, so the design matrix and right hand sides are
// always assembled in the same order. Exact duplicate coordinates keep
// the last value added.
type Table struct {
	numVariables int
	samples      []Sample
}

func New() (t *Table) {
	t = &Table{}
	return
}

func (t *Table) AddSample(x []float64, y float64) (err error) {
	if t.numVariables == 0 {
		t.numVariables = len(x)
	}
	if len(x) == 0 || len(x) != t.numVariables {
		err = fmt.Errorf("sample has %d variables, table has %d", len(x), t.numVariables)
		return
	}
	xc := make([]float64, len(x))
	copy(xc, x)
	t.samples = append(t.samples, Sample{X: xc, Y: y})
	return
}

func (t *Table) NumVariables() int { return t.numVariables }

func (t *Table) NumSamples() int { return len(t.sorted()) }

// Samples returns the samples sorted lexicographically by coordinates,
// deduplicated. The order is stable and repeatable.
func (t *Table) Samples() []Sample { return t.sorted() }

// TableX returns the sorted unique coordinate values per dimension.
func (t *Table) TableX() (xdata [][]float64) {
	xdata = make([][]float64, t.numVariables)
	for d := 0; d < t.numVariables; d++ {
		seen := make(map[float64]bool)
		var vals []float64
		for _, s := range t.samples {
			if !seen[s.X[d]] {
				seen[s.X[d]] = true
				vals = append(vals, s.X[d])
			}
		}
		sort.Float64s(vals)
		xdata[d] = vals
	}
	return
}

// IsGridComplete reports whether every combination of per-dimension
// coordinate values is present.
func (t *Table) IsGridComplete() bool {
	if len(t.samples) == 0 {
		return false
	}
	gridSize := 1
	for _, vals := range t.TableX() {
		gridSize *= len(vals)
	}
	return t.NumSamples() == gridSize
}

func (t *Table) sorted() (out []Sample) {
	out = make([]Sample, len(t.samples))
	copy(out, t.samples)
	sort.SliceStable(out, func(i, j int) bool {
		return lessX(out[i].X, out[j].X)
	})
	// Collapse duplicates, keeping the most recently added value, which
	// SliceStable left last within each run of equal coordinates.
	j := 0
	for i := 1; i < len(out); i++ {
		if equalX(out[i].X, out[j].X) {
			out[j] = out[i]
		} else {
			j++
			out[j] = out[i]
		}
	}
	if len(out) > 0 {
		out = out[:j+1]
	}
	return
}

func lessX(a, b []float64) bool {
	for d := range a {
		if a[d] != b[d] {
			return a[d] < b[d]
		}
	}
	return false
}

func equalX(a, b []float64) bool {
	for d := range a {
		if a[d] != b[d] {
			return false
		}
	}
	return true
}
