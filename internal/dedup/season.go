package dedup

import (
	"regexp"
	"strconv"
)

// SeasonInfo is the result of stripping season/part markers from a raw
// title. Season 0 means no numeric season was found.
type SeasonInfo struct {
	BaseTitle string
	Season    int
	Label     string
}

// seasonRule matches one marker form and records what it implies. Rules
// run in a fixed order and each strips its matched span from the
// residual text before the next rule runs, so a title carrying several
// marker fragments is handled left-to-right as listed. That is an
// accepted approximation, not a complete grammar.
type seasonRule struct {
	re    *regexp.Regexp
	apply func(m []string, info *SeasonInfo)
}

func buildSeasonRules() []seasonRule {
	return []seasonRule{
		{
			re: regexp.MustCompile(`(?i)\bseason\s*(\d+)\b`),
			apply: func(m []string, info *SeasonInfo) {
				if info.Season == 0 {
					info.Season, _ = strconv.Atoi(m[1])
				}
			},
		},
		{
			re: regexp.MustCompile(`(?i)\bs(\d+)\b`),
			apply: func(m []string, info *SeasonInfo) {
				if info.Season == 0 {
					info.Season, _ = strconv.Atoi(m[1])
				}
			},
		},
		{
			re: regexp.MustCompile(`(?i)\bpart\s*(\d+)\b`),
			apply: func(m []string, info *SeasonInfo) {
				if info.Label == "" {
					info.Label = "Part " + m[1]
				}
			},
		},
		{
			re: regexp.MustCompile(`(?i)\bfinal season\b`),
			apply: func(m []string, info *SeasonInfo) {
				if info.Label == "" {
					info.Label = "Final Season"
				}
			},
		},
		{
			re: regexp.MustCompile(`(?i)\bshippuden\b`),
			apply: func(m []string, info *SeasonInfo) {
				if info.Label == "" {
					info.Label = "Shippuden"
				}
				if info.Season == 0 {
					info.Season = 2
				}
			},
		},
	}
}

// ExtractSeason strips season/part/cour markers from a raw title and
// returns the normalized base-series title plus whatever season index
// or label the markers implied.
func (e *Engine) ExtractSeason(title string) SeasonInfo {
	var info SeasonInfo
	residual := title

	for _, rule := range e.seasonRules {
		if m := rule.re.FindStringSubmatch(residual); m != nil {
			rule.apply(m, &info)
			residual = rule.re.ReplaceAllString(residual, " ")
		}
	}

	info.BaseTitle = e.Normalize(residual)
	return info
}
