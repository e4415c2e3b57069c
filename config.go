package lexstat

import (
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// Mode is an alignment mode tag.
type Mode string

const (
	ModeGlobal  Mode = "global"
	ModeLocal   Mode = "local"
	ModeOverlap Mode = "overlap"
	ModeDialign Mode = "dialign"
)

// Method selects the distance engine used by the distance/cluster stage.
type Method string

const (
	MethodSCA      Method = "sca"
	MethodLexstat  Method = "lexstat"
	MethodEditDist Method = "edit-dist"
	MethodTurchin  Method = "turchin"
	MethodCustom   Method = "custom"
)

// ClusterMethod selects the flat-clustering algorithm.
type ClusterMethod string

const (
	ClusterUPGMA          ClusterMethod = "upgma"
	ClusterSingle         ClusterMethod = "single"
	ClusterComplete       ClusterMethod = "complete"
	ClusterMCL            ClusterMethod = "mcl"
	ClusterLinkClustering ClusterMethod = "link-clustering"
)

// ScoringMethod selects how the expected (random) distribution is
// generated.
type ScoringMethod string

const (
	ScoringMarkov  ScoringMethod = "markov"
	ScoringShuffle ScoringMethod = "shuffle"
)

// GuessThresholdMode selects the threshold-estimation strategy.
type GuessThresholdMode string

const (
	GTAverage   GuessThresholdMode = "average"
	GTItem      GuessThresholdMode = "item"
	GTNullD     GuessThresholdMode = "nulld"
	GTNullDItem GuessThresholdMode = "nullditem" // documented no-op, see DESIGN.md
)

// AlignModeParams is one (mode, gop, scale) triple used to drive scorer
// synthesis across several alignment modes, averaged together.
type AlignModeParams struct {
	Mode  Mode    `yaml:"mode"`
	Gop   int     `yaml:"gop"`
	Scale float64 `yaml:"scale"`
}

// Config holds every option enumerated in the external interfaces section:
// distance engine, clustering algorithm, alignment parameters, random
// sampling controls, preprocessing, subsetting, and threshold guessing.
type Config struct {
	Method        Method        `yaml:"method"`
	ClusterMethod ClusterMethod `yaml:"cluster_method"`
	Mode          Mode          `yaml:"mode"`
	Modes         []AlignModeParams `yaml:"modes"`

	Threshold       float64 `yaml:"threshold"`
	Gop             int     `yaml:"gop"`
	Scale           float64 `yaml:"scale"`
	Factor          float64 `yaml:"factor"`
	RestrictedChars string  `yaml:"restricted_chars"`

	Ratio  [2]int  `yaml:"ratio"`
	VScale float64 `yaml:"vscale"`

	Runs  int `yaml:"runs"`
	Rands int `yaml:"rands"`
	Limit int `yaml:"limit"`

	ScoringMethod ScoringMethod `yaml:"scoring_method"`

	Preprocessing           bool    `yaml:"preprocessing"`
	PreprocessingMethod     Method  `yaml:"preprocessing_method"`
	PreprocessingThreshold  float64 `yaml:"preprocessing_threshold"`

	// Subset restricts attested/expected batches to concepts named in
	// SubsetList (the Swadesh-style sublist of spec.md §4.3's subset()).
	Subset     bool     `yaml:"subset"`
	SubsetList []string `yaml:"subset_list"`

	GuessThreshold bool               `yaml:"guess_threshold"`
	GTMode         GuessThresholdMode `yaml:"gt_mode"`
	GTTRangeLo     float64            `yaml:"gt_trange_lo"`
	GTTRangeHi     float64            `yaml:"gt_trange_hi"`
	GTTRangeStep   float64            `yaml:"gt_trange_step"`

	Inflation    float64 `yaml:"inflation"`
	Expansion    int     `yaml:"expansion"`
	MaxSteps     int     `yaml:"max_steps"`
	AddSelfLoops bool    `yaml:"add_self_loops"`

	LinkThreshold float64 `yaml:"link_threshold"`

	Ref string `yaml:"ref"`

	Force bool `yaml:"force"`

	// Seed fixes the random-number generator driving the Markov generator
	// and shuffle sampling, for reproducibility (design notes §9).
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the lingpy-equivalent defaults named in the
// external interfaces expansion.
func DefaultConfig() Config {
	return Config{
		Method:        MethodSCA,
		ClusterMethod: ClusterUPGMA,
		Mode:          ModeOverlap,
		Modes: []AlignModeParams{
			{Mode: ModeGlobal, Gop: -2, Scale: 0.5},
			{Mode: ModeLocal, Gop: -1, Scale: 0.5},
		},
		Threshold:              0.3,
		Gop:                    -2,
		Scale:                  0.5,
		Factor:                 0.3,
		RestrictedChars:        "_T",
		Ratio:                  [2]int{3, 2},
		VScale:                 0.5,
		Runs:                   1000,
		Rands:                  1000,
		Limit:                  10000,
		ScoringMethod:          ScoringMarkov,
		Preprocessing:          true,
		PreprocessingMethod:    MethodSCA,
		PreprocessingThreshold: 0.7,
		GTTRangeLo:             0.4,
		GTTRangeHi:             0.6,
		GTTRangeStep:           0.02,
		GTMode:                 GTAverage,
		Inflation:              2,
		Expansion:              2,
		MaxSteps:               1000,
		AddSelfLoops:           true,
		Seed:                   1,
	}
}

// LoadConfig reads a Config from a YAML file, starting from DefaultConfig
// so an incomplete file only overrides the fields it sets.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("lexstat: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("lexstat: parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects parameter combinations that are fatal to the call per
// the error-handling design's "parameter invalid" kind.
func (c Config) Validate() error {
	if len(c.Modes) == 0 {
		return &InvalidParameterError{Parameter: "modes", Reason: "must not be empty"}
	}
	if c.Ratio[0]+c.Ratio[1] == 0 {
		return &InvalidParameterError{Parameter: "ratio", Reason: "must not sum to zero"}
	}
	switch c.Method {
	case MethodSCA, MethodLexstat, MethodEditDist, MethodTurchin, MethodCustom:
	default:
		return &InvalidParameterError{Parameter: "method", Reason: fmt.Sprintf("unknown method %q", c.Method)}
	}
	switch c.ClusterMethod {
	case ClusterUPGMA, ClusterSingle, ClusterComplete, ClusterMCL, ClusterLinkClustering:
	default:
		return &InvalidParameterError{Parameter: "cluster_method", Reason: fmt.Sprintf("unknown cluster_method %q", c.ClusterMethod)}
	}
	switch c.Mode {
	case ModeGlobal, ModeLocal, ModeOverlap, ModeDialign:
	default:
		return &InvalidParameterError{Parameter: "mode", Reason: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
	return nil
}

// Signature builds the parameter-signature string used to memoize the
// synthesized scorer, following lingpy's get_scorer parstring layout
// exactly: ratio, vscale, runs, threshold, colon-joined modestring,
// factor, restricted_chars, method, preprocessing triple.
func (c Config) Signature() string {
	modeParts := make([]string, len(c.Modes))
	for i, m := range c.Modes {
		gop := m.Gop
		if gop < 0 {
			gop = -gop
		}
		modeParts[i] = fmt.Sprintf("%s-%d-%.2f", m.Mode, gop, m.Scale)
	}
	modeString := strings.Join(modeParts, ":")
	preprocessing := fmt.Sprintf("%t:%s:%d", c.Preprocessing, c.ClusterMethod, c.Gop)
	return fmt.Sprintf(
		"%d:%d%.2f_%d_%.2f_%s_%.2f_%s_%s_%s",
		c.Ratio[0], c.Ratio[1], c.VScale,
		c.Runs, c.PreprocessingThreshold, modeString, c.Factor,
		c.RestrictedChars, c.ScoringMethod, preprocessing,
	)
}

// SignatureHash returns a short, stable cache key for Signature(), used to
// gate recomputation of the synthesized scorer (force=false short-circuit).
func (c Config) SignatureHash() uint64 {
	return xxh3.HashString(c.Signature())
}
