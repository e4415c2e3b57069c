package lexstat

import (
	"context"
	"math"
	"math/rand"
)

// BestThreshold scans cfg's gt_trange and returns the cutoff t maximizing
// the gap between the mean within-cluster distance and the mean
// between-cluster distance that a flat clustering at t would produce —
// lingpy's silhouette-like criterion, implemented directly from spec.md
// §4.9 since clustering.py's reference implementation was not among the
// retrieved original_source files (documented in DESIGN.md).
func BestThreshold(dm *DistanceMatrix, link linkage, lo, hi, step float64) float64 {
	bestT := lo
	bestScore := math.Inf(-1)
	for t := lo; t <= hi+1e-9; t += step {
		labels := AgglomerativeFlat(dm, t, link)
		score := silhouetteGap(dm, labels)
		if score > bestScore {
			bestScore, bestT = score, t
		}
	}
	return bestT
}

func silhouetteGap(dm *DistanceMatrix, labels []int) float64 {
	n := dm.N()
	var withinSum, withinN, betweenSum, betweenN float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dm.Get(i, j)
			if labels[i] == labels[j] {
				withinSum += d
				withinN++
			} else {
				betweenSum += d
				betweenN++
			}
		}
	}
	var within, between float64
	if withinN > 0 {
		within = withinSum / withinN
	}
	if betweenN > 0 {
		between = betweenSum / betweenN
	}
	return between - within
}

// AverageBestThreshold implements gt_mode "average": find each concept's
// own best threshold, then return the mean across concepts.
func AverageBestThreshold(matrices []*DistanceMatrix, link linkage, lo, hi, step float64) float64 {
	if len(matrices) == 0 {
		return lo
	}
	var sum float64
	for _, dm := range matrices {
		sum += BestThreshold(dm, link, lo, hi, step)
	}
	return sum / float64(len(matrices))
}

// ItemThresholds implements gt_mode "item": each concept keeps its own
// best threshold rather than averaging.
func ItemThresholds(matrices []*DistanceMatrix, link linkage, lo, hi, step float64) []float64 {
	out := make([]float64, len(matrices))
	for i, dm := range matrices {
		out[i] = BestThreshold(dm, link, lo, hi, step)
	}
	return out
}

// NullDistributionThreshold implements gt_mode "nulld": build an empirical
// null distribution by aligning each real word against a random other word
// drawn from the same language pair's candidate pair list, and return the
// mean resulting distance as the cutoff.
func NullDistributionThreshold(ctx context.Context, wl *WordList, idx *PairIndex, fn DistanceFunc, rng *rand.Rand) float64 {
	var sum float64
	var n float64
	for _, lp := range idx.LangPairs() {
		pairs := idx.Pairs(lp.A, lp.B)
		if len(pairs) == 0 {
			continue
		}
		for _, wp := range pairs {
			if ctx.Err() != nil {
				break
			}
			other := pairs[rng.Intn(len(pairs))]
			sum += fn(wl, wp.I, other.J)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// GuessThreshold dispatches on cfg.GTMode. "nullditem" is a documented
// no-op per the Open Questions: it falls through to cfg.Threshold
// unchanged rather than estimating anything.
func GuessThreshold(ctx context.Context, cfg Config, wl *WordList, idx *PairIndex, matrices []*DistanceMatrix, fn DistanceFunc, rng *rand.Rand) float64 {
	link := linkageFor(cfg.ClusterMethod)
	switch cfg.GTMode {
	case GTAverage:
		return AverageBestThreshold(matrices, link, cfg.GTTRangeLo, cfg.GTTRangeHi, cfg.GTTRangeStep)
	case GTItem:
		ts := ItemThresholds(matrices, link, cfg.GTTRangeLo, cfg.GTTRangeHi, cfg.GTTRangeStep)
		var sum float64
		for _, t := range ts {
			sum += t
		}
		if len(ts) == 0 {
			return cfg.Threshold
		}
		return sum / float64(len(ts))
	case GTNullD:
		return NullDistributionThreshold(ctx, wl, idx, fn, rng)
	case GTNullDItem:
		return cfg.Threshold
	default:
		return cfg.Threshold
	}
}

func linkageFor(cm ClusterMethod) linkage {
	switch cm {
	case ClusterSingle:
		return minLinkage
	case ClusterComplete:
		return maxLinkage
	default:
		return averageLinkage
	}
}
