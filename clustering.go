package lexstat

import "math"

// linkage picks the inter-cluster distance update rule: average (UPGMA),
// minimum (single-link), or maximum (complete-link). All three share the
// same agglomerative merge loop, adapted from the teacher's
// DistanceMatrix.UPGMA (dist_matrix.go) generalized from a fixed
// arithmetic-mean update to a pluggable reduction, and changed to cut flat
// at a threshold instead of returning a rooted parent-list tree (the
// teacher's UPGMA builds a tree; spec.md wants a partition).
type linkage func(dij, dik, djk float64, ni, nj int) float64

func averageLinkage(dij, dik, djk float64, ni, nj int) float64 {
	return (float64(ni)*dik + float64(nj)*djk) / float64(ni+nj)
}

func minLinkage(dij, dik, djk float64, ni, nj int) float64 {
	return math.Min(dik, djk)
}

func maxLinkage(dij, dik, djk float64, ni, nj int) float64 {
	return math.Max(dik, djk)
}

// AgglomerativeFlat clusters dm's n items by repeatedly merging the two
// closest active clusters, stopping once the closest remaining pair is
// farther apart than threshold (a pair exactly at threshold still merges),
// and returns a partition as a cluster id per item
// index (0..n-1), not yet offset to be globally unique.
func AgglomerativeFlat(dm *DistanceMatrix, threshold float64, link linkage) []int {
	n := dm.N()
	if n == 0 {
		return nil
	}
	// dist[i] is the current merged distance row for cluster i, indexed
	// by cluster id; size[i] the number of original items it contains;
	// alive[i] whether cluster i is still a merge candidate.
	size := make([]int, n)
	alive := make([]bool, n)
	dist := make([][]float64, n)
	for i := 0; i < n; i++ {
		size[i] = 1
		alive[i] = true
		dist[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			dist[i][j] = dm.Get(i, j)
		}
	}
	// membership[i] lists original item indices currently in cluster i.
	membership := make([][]int, n)
	for i := range membership {
		membership[i] = []int{i}
	}

	for {
		best := math.Inf(1)
		bi, bj := -1, -1
		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !alive[j] {
					continue
				}
				if dist[i][j] < best {
					best, bi, bj = dist[i][j], i, j
				}
			}
		}
		if bi == -1 || best > threshold {
			break
		}
		// merge bj into bi
		for k := 0; k < n; k++ {
			if !alive[k] || k == bi || k == bj {
				continue
			}
			merged := link(dist[bi][bj], dist[bi][k], dist[bj][k], size[bi], size[bj])
			dist[bi][k] = merged
			dist[k][bi] = merged
		}
		membership[bi] = append(membership[bi], membership[bj]...)
		size[bi] += size[bj]
		alive[bj] = false
	}

	labels := make([]int, n)
	nextID := 0
	for i := 0; i < n; i++ {
		if !alive[i] {
			continue
		}
		for _, m := range membership[i] {
			labels[m] = nextID
		}
		nextID++
	}
	return labels
}

// UPGMAFlat, SingleLinkFlat, and CompleteLinkFlat are the three
// agglomerative flat-clustering methods named in spec.md §4.8.
func UPGMAFlat(dm *DistanceMatrix, threshold float64) []int {
	return AgglomerativeFlat(dm, threshold, averageLinkage)
}

func SingleLinkFlat(dm *DistanceMatrix, threshold float64) []int {
	return AgglomerativeFlat(dm, threshold, minLinkage)
}

func CompleteLinkFlat(dm *DistanceMatrix, threshold float64) []int {
	return AgglomerativeFlat(dm, threshold, maxLinkage)
}

// OffsetClusters shifts every label in labels up by offset, and returns
// the new running maximum (offset + distinct label count), implementing
// spec.md §4.8's "offset by the global running maximum so ids are unique
// across the dataset."
func OffsetClusters(labels []int, offset int) (shifted []int, newMax int) {
	shifted = make([]int, len(labels))
	maxLabel := -1
	for i, l := range labels {
		shifted[i] = l + offset
		if l > maxLabel {
			maxLabel = l
		}
	}
	return shifted, offset + maxLabel + 1
}
