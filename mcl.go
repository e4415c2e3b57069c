package lexstat

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// mclLogsWeight applies spec.md §4.8's edge-weight transform
// f(x) = -log2((1-x)^2) to a distance. Distance 0 gives weight 0, the
// weight grows as the distance approaches 1, and distance 1 itself (where
// the formula diverges) is mapped to weight 0.
func mclLogsWeight(x float64) float64 {
	v := (1 - x) * (1 - x)
	if v <= 0 {
		return 0
	}
	w := -math.Log2(v)
	if w < 0 {
		return 0
	}
	return w
}

// MCL runs Markov clustering over dm's distance matrix, following the
// column-stochastic-matrix/inflate/expand iteration, built and iterated
// with gonum.org/v1/gonum/mat (the same linear-algebra pairing
// iseurie-litevec/lib.go uses for its own SVD step).
func MCL(dm *DistanceMatrix, inflation float64, expansion int, maxSteps int, addSelfLoops bool) []int {
	n := dm.N()
	if n == 0 {
		return nil
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var w float64
			if i == j {
				if addSelfLoops {
					w = 1
				}
			} else {
				w = mclLogsWeight(dm.Get(i, j))
			}
			m.Set(i, j, w)
		}
	}
	normalizeColumns(m)

	for step := 0; step < maxSteps; step++ {
		expanded := mat.NewDense(n, n, nil)
		expanded.Copy(m)
		for e := 1; e < expansion; e++ {
			next := mat.NewDense(n, n, nil)
			next.Mul(expanded, m)
			expanded = next
		}
		inflated := mat.NewDense(n, n, nil)
		inflated.Apply(func(i, j int, v float64) float64 {
			if v <= 0 {
				return 0
			}
			return math.Pow(v, inflation)
		}, expanded)
		normalizeColumns(inflated)

		if converged(m, inflated) {
			m = inflated
			break
		}
		m = inflated
	}

	return mclClusters(m)
}

func normalizeColumns(m *mat.Dense) {
	r, c := m.Dims()
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += m.At(i, j)
		}
		if sum == 0 {
			continue
		}
		for i := 0; i < r; i++ {
			m.Set(i, j, m.At(i, j)/sum)
		}
	}
}

func converged(a, b *mat.Dense) bool {
	r, c := a.Dims()
	var diff float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := a.At(i, j) - b.At(i, j)
			diff += d * d
		}
	}
	return math.Sqrt(diff) < 1e-6
}

// mclClusters reads off the final attractor structure: column j belongs to
// whichever row has its largest mass, and rows sharing an attractor form
// one cluster.
func mclClusters(m *mat.Dense) []int {
	r, c := m.Dims()
	attractorOf := make([]int, c)
	for j := 0; j < c; j++ {
		best, bestI := -1.0, j
		for i := 0; i < r; i++ {
			if v := m.At(i, j); v > best {
				best, bestI = v, i
			}
		}
		attractorOf[j] = bestI
	}
	labels := make([]int, c)
	seen := map[int]int{}
	nextID := 0
	for j, a := range attractorOf {
		id, ok := seen[a]
		if !ok {
			id = nextID
			seen[a] = id
			nextID++
		}
		labels[j] = id
	}
	return labels
}
