// Package dedup is the entity-resolution engine: it decides whether two
// anime metadata records describe the same work, picks the canonical
// record inside a duplicate group, folds multi-season franchises into one
// consolidated series entry and merges newly ingested batches into an
// existing canonical set.
//
// The engine is a pure, synchronous computation library. It owns no
// storage and no global state; all thresholds and rule tables live in a
// Config bound at construction. Callers may share one Engine across
// goroutines freely.
package dedup

import (
	"regexp"
	"strings"
)

// Config carries the matching thresholds and token tables. Use
// DefaultConfig unless you are tuning matching behavior.
type Config struct {
	// StrictTitleThreshold is the edit-distance similarity above which
	// two titles match with no further corroboration.
	StrictTitleThreshold float64
	// RomajiTitleThreshold is the relaxed similarity used when either
	// title looks like romanized Japanese; transliteration variance is
	// expected there.
	RomajiTitleThreshold float64
	// TokenJaccardThreshold is the minimum core-token overlap for a
	// word-order-tolerant match.
	TokenJaccardThreshold float64
	// MinCoreTokens guards the Jaccard rule against one-word titles
	// producing spurious full overlap.
	MinCoreTokens int
	// MetadataTitleThreshold is the primary-title similarity required by
	// the metadata-corroboration fallback.
	MetadataTitleThreshold float64
	// EpisodeTolerance and YearTolerance bound how far episode counts
	// and years may drift between sources before corroboration fails.
	EpisodeTolerance int
	YearTolerance    int

	// FillerTokens are standalone tokens removed during normalization
	// (media-type noise like "tv" or "ova").
	FillerTokens []string
	// StopWords are dropped when building core token sets.
	StopWords []string
	// Particles are romanized Japanese grammatical particles and
	// honorifics; any exact token match flags a title as romanized.
	Particles []string
	// RomajiPatterns are regexes for common romanized pronouns,
	// suffixes and registers.
	RomajiPatterns []string
}

// DefaultConfig returns the tuned production thresholds and token lists.
func DefaultConfig() Config {
	return Config{
		StrictTitleThreshold:   0.92,
		RomajiTitleThreshold:   0.86,
		TokenJaccardThreshold:  0.6,
		MinCoreTokens:          2,
		MetadataTitleThreshold: 0.8,
		EpisodeTolerance:       1,
		YearTolerance:          1,

		FillerTokens: []string{"tv", "ova", "ona", "movie", "special"},

		StopWords: []string{
			"the", "a", "an", "of", "and", "or",
			"my", "your", "our", "his", "her", "their",
			"on", "in",
			"no", "wa", "ga", "wo", "ni", "de", "to", "kara", "made", "ya", "mo", "sa", "yo",
			"season", "part", "final", "shippuden",
		},

		Particles: []string{
			"no", "wa", "ga", "wo", "ni", "de", "to", "kara", "made",
			"ya", "mo", "sa", "yo", "desu", "sama", "kun", "chan",
		},

		// Deliberately no vowel-ratio heuristic: it false-positives on
		// short English titles.
		RomajiPatterns: []string{
			`\b(boku|ore|watashi|kimi|anata)\b`,
			`-kun\b`,
			`-chan\b`,
			`-sama\b`,
			`\b(shoujo|shonen|senpai|kouhai)\b`,
		},
	}
}

// Engine binds a Config to its compiled regex tables and token sets.
type Engine struct {
	cfg Config

	fillerTokens map[string]struct{}
	stopWords    map[string]struct{}
	particles    map[string]struct{}
	romajiRes    []*regexp.Regexp

	fillerRe *regexp.Regexp
	markerRe *regexp.Regexp

	seasonRules []seasonRule
}

// New compiles the config's rule tables into a ready Engine.
func New(cfg Config) *Engine {
	e := &Engine{
		cfg:          cfg,
		fillerTokens: toSet(cfg.FillerTokens),
		stopWords:    toSet(cfg.StopWords),
		particles:    toSet(cfg.Particles),
	}
	for _, p := range cfg.RomajiPatterns {
		e.romajiRes = append(e.romajiRes, regexp.MustCompile(p))
	}
	e.fillerRe = regexp.MustCompile(`\b(` + strings.Join(cfg.FillerTokens, "|") + `)\b`)
	e.markerRe = regexp.MustCompile(`\b(season\s*\d+|s\d+|part\s*\d+|cour\s*\d+|final season)\b`)
	e.seasonRules = buildSeasonRules()
	return e
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
