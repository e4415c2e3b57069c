package lexstat

// Matrix holds a dense, symmetric score table over a growable alphabet of
// segment symbols, shared by the base scorer and the synthesized LexStat
// scorer (design note: "scorer as a sum type" — both are the same
// matrix-backed structure, distinguished only by how they were built).
//
// Matrix generalizes the teacher's SubstMatrix/ScoreMatrix, which fix a
// 20-letter amino-acid alphabet at construction (posTable[aa-'A']); here
// the alphabet is open-ended (language-id-prefixed segment symbols) and
// grows as symbols are first seen.
type Matrix struct {
	index map[string]int
	rows  [][]float64
}

// NewMatrix returns an empty Matrix.
func NewMatrix() *Matrix {
	return &Matrix{index: make(map[string]int)}
}

// Len returns the number of distinct symbols currently indexed.
func (m *Matrix) Len() int { return len(m.rows) }

// Symbols returns the indexed symbols, in index order.
func (m *Matrix) Symbols() []string {
	syms := make([]string, len(m.rows))
	for s, i := range m.index {
		syms[i] = s
	}
	return syms
}

// ensure returns the row index for sym, growing the matrix (and every
// existing row) by one column/row if sym is new.
func (m *Matrix) ensure(sym string) int {
	if i, ok := m.index[sym]; ok {
		return i
	}
	i := len(m.rows)
	m.index[sym] = i
	for j := range m.rows {
		m.rows[j] = append(m.rows[j], 0)
	}
	newRow := make([]float64, i+1)
	m.rows = append(m.rows, newRow)
	return i
}

// Set stores a symmetric score for the pair (a, b), growing the matrix to
// accommodate either symbol if needed.
func (m *Matrix) Set(a, b string, score float64) {
	i := m.ensure(a)
	j := m.ensure(b)
	m.rows[i][j] = score
	m.rows[j][i] = score
}

// Score looks up the score for (a, b). Unindexed symbols score as the
// numerical-guard sentinel -90 (error-handling design, kind 5), never a
// panic, since the caller may query symbols the matrix has not seen yet
// (e.g. for a language pair with no attested data).
func (m *Matrix) Score(a, b string) float64 {
	i, ok := m.index[a]
	if !ok {
		return -90
	}
	j, ok := m.index[b]
	if !ok {
		return -90
	}
	return m.rows[i][j]
}

// Has reports whether sym is indexed.
func (m *Matrix) Has(sym string) bool {
	_, ok := m.index[sym]
	return ok
}

// Clone makes a deep copy, used when deriving a new matrix (e.g. the base
// scorer seed for synthesis) without mutating the shared immutable
// original (concurrency model: "immutable after construction").
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{
		index: make(map[string]int, len(m.index)),
		rows:  make([][]float64, len(m.rows)),
	}
	for k, v := range m.index {
		c.index[k] = v
	}
	for i, row := range m.rows {
		c.rows[i] = append([]float64(nil), row...)
	}
	return c
}

// Symmetric reports whether the matrix satisfies scorer(a,b) == scorer(b,a)
// for every indexed pair — the invariant tested in §8.
func (m *Matrix) Symmetric() bool {
	for i, row := range m.rows {
		for j, v := range row {
			if v != m.rows[j][i] {
				return false
			}
		}
	}
	return true
}
