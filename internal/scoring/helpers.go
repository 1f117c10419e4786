package scoring

import (
	"math"
	"regexp"
	"strings"
)

// Pattern counts occurrences of any of a set of literal words or phrases.
type Pattern struct {
	terms []string
	re    *regexp.Regexp
}

// MustPattern compiles terms into a single alternation. Terms are literal
// and are tried in the given order at each position.
func MustPattern(terms ...string) Pattern {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return Pattern{
		terms: terms,
		re:    regexp.MustCompile(strings.Join(quoted, "|")),
	}
}

// Terms returns the literal alternatives of the pattern.
func (p Pattern) Terms() []string {
	return append([]string(nil), p.terms...)
}

// String returns the alternation source.
func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

// CountMatches returns the number of non-overlapping leftmost matches of p
// in corpus. Terms match anywhere, including inside longer words.
func CountMatches(corpus string, p Pattern) int {
	if corpus == "" || p.re == nil {
		return 0
	}
	return len(p.re.FindAllStringIndex(corpus, -1))
}

// Rule pairs a pattern with the points each match is worth.
type Rule struct {
	Pattern Pattern
	Weight  float64
}

// ScoreRules sums matches × weight over every rule. Rules are independent,
// so overlapping terms across rules are counted by each of them.
func ScoreRules(corpus string, rules []Rule) float64 {
	var total float64
	for _, r := range rules {
		total += float64(CountMatches(corpus, r.Pattern)) * r.Weight
	}
	return total
}

// Band is one step of a threshold ladder. A score strictly above Above
// selects the band.
type Band struct {
	Above float64
	Label string
}

// LevelFor walks bands from the top and returns the first label whose
// threshold the score exceeds, or fallback.
func LevelFor(score float64, bands []Band, fallback string) string {
	for _, b := range bands {
		if score > b.Above {
			return b.Label
		}
	}
	return fallback
}

// Tier is one step of a cumulative ladder: every tier whose threshold the
// score exceeds contributes its items.
type Tier struct {
	Above float64
	Items []string
}

// CollectTiers concatenates the items of every tier the score exceeds, in
// tier order.
func CollectTiers(score float64, tiers []Tier) []string {
	out := []string{}
	for _, t := range tiers {
		if score > t.Above {
			out = append(out, t.Items...)
		}
	}
	return out
}

// clampScore caps a raw score at ceiling and truncates it to an integer.
func clampScore(raw float64, ceiling int) int {
	return int(math.Floor(math.Min(float64(ceiling), raw)))
}
