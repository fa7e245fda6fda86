package scoring

import (
	"strings"

	"github.com/nikhilsahni/ipofolio/internal/normalize"
)

// textRule is one declarative scoring adjustment: when the predicate
// matches the normalized input text, delta is applied to the running score.
type textRule struct {
	name  string
	delta float64
	match func(text string) bool
}

// fundamentalRules adjust the fundamental score, which starts at 5.0 and is
// clamped to [1, 10] after all rules are applied.
var fundamentalRules = []textRule{
	{
		name:  "growth_language",
		delta: 2,
		match: containsAny("profit", "positive", "growth"),
	},
	{
		name:  "loss_language",
		delta: -2,
		match: containsAny("loss", "negative"),
	},
	{
		name:  "high_roe",
		delta: 1.5,
		match: func(t string) bool {
			v, ok := normalize.ROE(t)
			return ok && v > 10
		},
	},
	{
		name:  "leveraged",
		delta: -1,
		match: func(t string) bool {
			v, ok := normalize.DebtEquity(t)
			return ok && v > 1
		},
	},
	{
		name:  "positive_eps",
		delta: 1,
		match: func(t string) bool {
			v, ok := normalize.EPS(t)
			return ok && v > 0
		},
	},
	{
		name:  "non_positive_eps",
		delta: -1,
		match: func(t string) bool {
			v, ok := normalize.EPS(t)
			return ok && v <= 0
		},
	},
}

// Sentiment term lists. Each matched term moves the sentiment score by
// half a point from its 5.0 baseline.
var (
	positiveTerms = []string{"growing", "leader", "expanding", "innovative", "strong", "profitable", "stable"}
	negativeTerms = []string{"loss", "decline", "volatile", "uncertain", "risky", "unprofitable"}
)

// containsAny builds a predicate matching any of the given substrings
func containsAny(terms ...string) func(string) bool {
	return func(text string) bool {
		for _, term := range terms {
			if strings.Contains(text, term) {
				return true
			}
		}
		return false
	}
}

// applyRules evaluates every rule against the text and returns the summed
// adjustment starting from base.
func applyRules(base float64, rules []textRule, text string) float64 {
	score := base
	for _, rule := range rules {
		if rule.match(text) {
			score += rule.delta
		}
	}
	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
