package lexstat

import "github.com/soniakeys/graph"

// LinkClustering builds a similarity graph over dm's items — an edge
// wherever the distance is at or below linkThreshold — using
// github.com/soniakeys/graph's graph.LabeledAdjacencyList, the same
// adjacency-list type the teacher's own NeighborJoin (dist_matrix.go)
// builds its tree into, and runs single-pass community detection: each
// item starts in its own cluster, and clusters merge whenever any edge
// connects them, giving the connected components of the thresholded graph
// (spec.md §4.8's "link-based community detection ... at link_threshold").
func LinkClustering(dm *DistanceMatrix, linkThreshold float64) []int {
	n := dm.N()
	if n == 0 {
		return nil
	}
	g := make(graph.LabeledAdjacencyList, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := dm.Get(i, j); d <= linkThreshold {
				g[i] = append(g[i], graph.Half{To: graph.NI(j), Label: 0})
				g[j] = append(g[j], graph.Half{To: graph.NI(i), Label: 0})
			}
		}
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	nextID := 0
	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if labels[start] != -1 {
			continue
		}
		labels[start] = nextID
		queue = queue[:0]
		queue = append(queue, start)
		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			for _, half := range g[cur] {
				to := int(half.To)
				if labels[to] == -1 {
					labels[to] = nextID
					queue = append(queue, to)
				}
			}
		}
		nextID++
	}
	return labels
}
