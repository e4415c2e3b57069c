package lexstat

import "fmt"

// DistanceMatrix is a square, symmetric, zero-diagonal matrix of
// normalized distances between the words listed in ids, adapted from the
// teacher's DistanceMatrix ([][]float64 with a Validate method) but
// carrying its own word-id row labels since spec.md's concepts address
// words by arbitrary arena id, not by a 0..n-1 leaf index.
type DistanceMatrix struct {
	d   [][]float64
	ids []int
}

// NewDistanceMatrix allocates an n×n zero matrix.
func NewDistanceMatrix(n int) *DistanceMatrix {
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	return &DistanceMatrix{d: d}
}

// N returns the matrix dimension.
func (dm *DistanceMatrix) N() int { return len(dm.d) }

// WordID returns the arena id labeling row/column i.
func (dm *DistanceMatrix) WordID(i int) int { return dm.ids[i] }

// Set stores a symmetric entry.
func (dm *DistanceMatrix) Set(i, j int, v float64) {
	dm.d[i][j] = v
	dm.d[j][i] = v
}

// Get reads an entry; Get(i,i) is always 0.
func (dm *DistanceMatrix) Get(i, j int) float64 {
	if i == j {
		return 0
	}
	return dm.d[i][j]
}

// Validate checks the invariants spec.md §3 requires of a distance
// matrix: square, symmetric, non-negative, zero diagonal. Unlike the
// teacher's phylogenetic Validate, the triangle inequality is not checked
// — LexStat distances are not guaranteed to be metric.
func (dm *DistanceMatrix) Validate() error {
	n := dm.N()
	for i, row := range dm.d {
		if len(row) != n {
			return fmt.Errorf("lexstat: distance matrix row %d has length %d, want %d", i, len(row), n)
		}
		for j, v := range row {
			if v < 0 {
				return fmt.Errorf("lexstat: negative distance d[%d][%d]=%g", i, j, v)
			}
			if v != dm.d[j][i] {
				return fmt.Errorf("lexstat: asymmetric distance d[%d][%d]=%g != d[%d][%d]=%g", i, j, v, j, i, dm.d[j][i])
			}
		}
		if dm.d[i][i] != 0 {
			return fmt.Errorf("lexstat: non-zero diagonal d[%d][%d]=%g", i, i, dm.d[i][i])
		}
	}
	return nil
}
