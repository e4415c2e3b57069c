package lexstat

import (
	"context"
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/soniakeys/multiset"
	"go.uber.org/zap"
)

// LexStat is the top-level handle bundling a word list, its segment/base
// scorer (immutable once built), and the per-invocation logger. It is the
// entry point for the two exported pipeline operations, GetScorer and
// Cluster, matching §6's external interface.
type LexStat struct {
	wl        *WordList
	model     SoundClassModel
	base      *Matrix
	idx       *PairIndex
	cache     ScorerCache
	log       *Logger
	transform ContextTransform
}

// New builds a LexStat handle: encodes every word, builds the base scorer
// and pair index once (the single-writer fold of §4.3/§5), and returns an
// error batch if any word failed encoding.
func New(wl *WordList, model SoundClassModel, transform ContextTransform, log *Logger) (*LexStat, *ErrorBatch) {
	if transform == nil {
		transform = DefaultContextTransform
	}
	if batch := EncodeAll(wl, transform); batch != nil {
		return nil, batch
	}
	base := BuildBaseScorer(wl, model, transform)
	// refLookup keys the pair index's Subset restriction by concept, the
	// natural "ref" for a Swadesh-style sublist (spec.md §4.3); harmless
	// overhead when Config.Subset is left off.
	idx := BuildPairIndex(wl, func(id int) string { return wl.Word(id).Concept })
	return &LexStat{wl: wl, model: model, base: base, idx: idx, log: log, transform: transform}, nil
}

// GetScorer runs §4.5/§4.6/§4.7 end to end: accumulate attested
// correspondence statistics from the real pair index, synthesize the
// expected distribution from a Markov/shuffle random-string generator, and
// fold both into a log-odds scorer blended with the base scorer. The
// memoization boundary in synth.go means a repeated call with an unchanged
// Config.Signature() and Force=false is a no-op.
func (ls *LexStat) GetScorer(ctx context.Context, cfg Config) (*Matrix, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hash := cfg.SignatureHash()
	if !cfg.Force && ls.cache.scorer != nil && ls.cache.hash == hash {
		if ls.log != nil {
			ls.log.Info("scorer cache hit", zap.Uint64("signature", hash))
		}
		return ls.cache.scorer, nil
	}
	if ls.log != nil {
		ls.log.Info("synthesizing scorer", zap.Uint64("signature", hash), zap.String("scoring_method", string(cfg.ScoringMethod)))
	}

	in := newCorrdistInput(ls.wl)
	attested := make(map[LangPair]CorrDist)
	expected := make(map[LangPair]CorrDist)
	rng := rand.New(rand.NewSource(cfg.Seed))

	// cfg.Subset restricts both the attested and random-pair batches to
	// concepts named in cfg.SubsetList, per spec.md §4.3's Swadesh-style
	// subset(sublist, ref) restriction; a nil sublist leaves Subset a no-op.
	var sublist mapset.Set[string]
	if cfg.Subset && len(cfg.SubsetList) > 0 {
		sublist = mapset.NewSet(cfg.SubsetList...)
	}

	// Preprocessing (§4.5's final paragraph): restrict the attested batch
	// to pairs a preliminary SCA clustering already agrees are cognate
	// (same preliminary class on both sides), before counting
	// correspondences from them.
	var prelim map[int]int
	if cfg.Preprocessing {
		prelim = ls.preliminaryCognates(ctx, cfg)
	}

	for _, lp := range ls.idx.LangPairs() {
		if ctx.Err() != nil {
			return ls.base, ctx.Err()
		}
		pairs := ls.idx.Subset(ls.idx.Pairs(lp.A, lp.B), sublist)
		attestedPairs := pairs
		if prelim != nil {
			attestedPairs = filterPrelimCognate(pairs, prelim)
		}
		attested[lp] = CorrDistBatch(ctx, in, attestedPairs, ls.base, cfg.Modes, cfg.Factor, cfg.RestrictedChars, cfg.PreprocessingThreshold, lp.A, lp.B)

		var exp CorrDist
		switch cfg.ScoringMethod {
		case ScoringShuffle:
			idsA := ls.wl.ConceptWordsByLang(lp.A)
			idsB := ls.wl.ConceptWordsByLang(lp.B)
			randomPairs := ShufflePairs(idsA, idsB, cfg.Runs, rng)
			exp = CorrDistBatch(ctx, in, randomPairs, ls.base, cfg.Modes, cfg.Factor, cfg.RestrictedChars, cfg.PreprocessingThreshold, lp.A, lp.B)
		default:
			// §4.6: sample up to Rands distinct nonsense strings per
			// language, then draw Runs uniformly sampled (x,y) pairs from
			// those pools — Rands and Runs are deliberately distinct
			// knobs, not the same count reused twice.
			mcA := FitMarkovChain(ls.wl, lp.A, cfg.Seed)
			mcB := FitMarkovChain(ls.wl, lp.B, cfg.Seed+1)
			samplesA := mcA.SampleDistinct(cfg.Rands, cfg.Limit, maxSyntheticWordLen)
			samplesB := mcB.SampleDistinct(cfg.Rands, cfg.Limit, maxSyntheticWordLen)
			pairedA, pairedB := SampleSyntheticPairs(samplesA, samplesB, cfg.Runs, rng)
			exp = CorrDistBatchSynthetic(ctx, pairedA, pairedB, lp.A, lp.B, ls.transform, ls.base, cfg.Modes, cfg.Factor, cfg.RestrictedChars, cfg.PreprocessingThreshold)
		}
		if attested[lp].Included > 0 && exp.Included > 0 {
			correction := float64(attested[lp].Included) / float64(exp.Included)
			exp = scaleCorrDist(exp, correction)
		}
		expected[lp] = exp
	}

	scorer := GetScorer(ctx, &ls.cache, cfg, ls.idx, ls.base, attested, expected)
	if err := ctx.Err(); err != nil {
		return ls.base, err
	}
	return scorer, nil
}

// preliminaryCognates runs a lightweight SCA clustering pass so GetScorer
// can restrict the attested-distribution batch to pairs both sides already
// agree are cognate (spec.md §4.5: "a preprocessed dataset ... restricted
// to pairs flagged as preliminary-cognate (ref equal on both sides)"). The
// pass writes to its own hidden ref column so it never collides with a
// caller's own Cluster call under cfg.Ref.
func (ls *LexStat) preliminaryCognates(ctx context.Context, cfg Config) map[int]int {
	prelim := cfg
	prelim.Method = cfg.PreprocessingMethod
	if prelim.Method == "" {
		prelim.Method = MethodSCA
	}
	prelim.Threshold = cfg.PreprocessingThreshold
	prelim.ClusterMethod = ClusterUPGMA
	prelim.GuessThreshold = false
	prelim.Ref = "_lexstat_preprocessing"

	results, err := ls.Cluster(ctx, prelim, ls.base)
	if err != nil {
		if ls.log != nil {
			ls.log.Warn("preprocessing clustering failed, attested batch left unrestricted", zap.Error(err))
		}
		return nil
	}
	out := make(map[int]int, ls.wl.Len())
	for _, r := range results {
		for i, id := range r.WordIDs {
			out[id] = r.Labels[i]
		}
	}
	return out
}

// filterPrelimCognate restricts pairs to those where both sides carry the
// same preliminary cluster id, i.e. spec.md §4.5's "ref equal on both
// sides."
func filterPrelimCognate(pairs []WordPair, prelim map[int]int) []WordPair {
	out := make([]WordPair, 0, len(pairs))
	for _, wp := range pairs {
		if prelim[wp.I] == prelim[wp.J] {
			out = append(out, wp)
		}
	}
	return out
}

// maxSyntheticWordLen caps the length of a Markov-sampled nonsense word,
// matching the typical attested word length range in lexicostatistical
// wordlists.
const maxSyntheticWordLen = 12

// scaleCorrDist rescales an expected-distribution count set so its total
// mass matches the attested distribution's sample size, following lingpy's
// correction of the random-pair sample count against the real pair count
// before the two are compared cell by cell in synthesizeCell.
func scaleCorrDist(cd CorrDist, factor float64) CorrDist {
	scaled := multiset.Multiset{}
	for k, v := range cd.Counts {
		scaled[k] = int(float64(v)*factor + 0.5)
	}
	return CorrDist{Counts: scaled, Included: cd.Included}
}

// ClusterResult is the partition produced by Cluster for one concept.
type ClusterResult struct {
	Concept string
	WordIDs []int
	Labels  []int
}

// Cluster implements §4.8 end to end: for each concept, build a distance
// matrix with the method named in cfg.Method, flat-cluster it with
// cfg.ClusterMethod cut at cfg.Threshold (or a guessed threshold), and
// write the resulting cognate class ids back into the word list under
// cfg.Ref, offsetting by the running global maximum so ids are unique
// across concepts.
func (ls *LexStat) Cluster(ctx context.Context, cfg Config, scorer *Matrix) ([]ClusterResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fn := ls.distanceFunc(cfg, scorer)

	concepts := ls.wl.Concepts()
	results := make([]ClusterResult, 0, len(concepts))
	offset := 0
	if ls.log != nil {
		ls.log.Info("clustering", zap.Int("concepts", len(concepts)), zap.String("ref", cfg.Ref), zap.String("cluster_method", string(cfg.ClusterMethod)))
	}

	idsByConcept := make([][]int, len(concepts))
	matrices := make([]*DistanceMatrix, len(concepts))
	for ci, concept := range concepts {
		if ctx.Err() != nil {
			break
		}
		ids := ls.wl.ConceptWords(concept)
		idsByConcept[ci] = ids
		if len(ids) >= 2 {
			matrices[ci] = ConceptDistanceMatrix(ctx, ls.wl, ids, fn)
		}
	}

	perConceptThreshold := make([]float64, len(concepts))
	for i := range perConceptThreshold {
		perConceptThreshold[i] = cfg.Threshold
	}
	if cfg.GuessThreshold {
		link := linkageFor(cfg.ClusterMethod)
		nonNil := make([]*DistanceMatrix, 0, len(matrices))
		for _, dm := range matrices {
			if dm != nil {
				nonNil = append(nonNil, dm)
			}
		}
		switch cfg.GTMode {
		case GTItem:
			ts := ItemThresholds(nonNil, link, cfg.GTTRangeLo, cfg.GTTRangeHi, cfg.GTTRangeStep)
			k := 0
			for i, dm := range matrices {
				if dm == nil {
					continue
				}
				perConceptThreshold[i] = ts[k]
				k++
			}
		default:
			rng := rand.New(rand.NewSource(cfg.Seed))
			t := GuessThreshold(ctx, cfg, ls.wl, ls.idx, nonNil, fn, rng)
			for i := range perConceptThreshold {
				perConceptThreshold[i] = t
			}
		}
		if ls.log != nil {
			ls.log.Info("guessed threshold", zap.String("gt_mode", string(cfg.GTMode)))
		}
	}

	for ci, concept := range concepts {
		if ctx.Err() != nil {
			break
		}
		ids := idsByConcept[ci]
		var labels []int
		if len(ids) < 2 {
			labels = make([]int, len(ids))
		} else {
			labels = ls.flatCluster(cfg, matrices[ci], perConceptThreshold[ci])
		}
		shifted, newOffset := OffsetClusters(labels, offset)
		offset = newOffset

		for i, id := range ids {
			ls.wl.SetCluster(cfg.Ref, id, shifted[i])
		}
		results = append(results, ClusterResult{Concept: concept, WordIDs: ids, Labels: shifted})
	}
	return results, nil
}

func (ls *LexStat) flatCluster(cfg Config, dm *DistanceMatrix, threshold float64) []int {
	switch cfg.ClusterMethod {
	case ClusterSingle:
		return SingleLinkFlat(dm, threshold)
	case ClusterComplete:
		return CompleteLinkFlat(dm, threshold)
	case ClusterMCL:
		return MCL(dm, cfg.Inflation, cfg.Expansion, cfg.MaxSteps, cfg.AddSelfLoops)
	case ClusterLinkClustering:
		return LinkClustering(dm, cfg.LinkThreshold)
	default:
		return UPGMAFlat(dm, threshold)
	}
}

func (ls *LexStat) distanceFunc(cfg Config, scorer *Matrix) DistanceFunc {
	switch cfg.Method {
	case MethodEditDist:
		return EditDistance
	case MethodTurchin:
		return TurchinDistance
	default:
		return AlignDistanceFunc(scorer, cfg.Mode, cfg.Gop, cfg.Scale, cfg.Factor, cfg.RestrictedChars)
	}
}
