// Package explain derives rule-based justifications for each allocated
// offering from its score breakdown. The rules are pure functions of the
// breakdown and category, so the same allocation always explains the same
// way.
package explain

import (
	"fmt"
	"strings"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// Thresholds above/below which a sub-score earns a reason.
const (
	gmpStrengthThreshold = 10.0
	retailQuotaThreshold = 30.0
	fundScoreThreshold   = 6.0
)

const smeMarker = "sme"

// Engine produces per-offering explanations.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new explainability engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Explain maps every allocated offering to its positive and negative
// reasons plus the breakdown the reasons were derived from. Candidates the
// allocation skipped are not explained. Lines without a matching candidate
// are skipped too; that only happens if the caller passes mismatched inputs.
func (e *Engine) Explain(allocation *contracts.Allocation, byName map[string]contracts.Candidate) map[string]contracts.Explanation {
	out := make(map[string]contracts.Explanation, len(allocation.Lines))

	for _, line := range allocation.Lines {
		candidate, ok := byName[line.Name]
		if !ok {
			e.logger.WithField("offering", line.Name).Warn("Allocated offering missing from candidate map")
			continue
		}
		out[line.Name] = e.explainOne(candidate)
	}

	return out
}

func (e *Engine) explainOne(c contracts.Candidate) contracts.Explanation {
	br := c.Breakdown

	positive := []string{
		fmt.Sprintf("Composite score %g computed from base_score=%g, retail_q=%g%%, fund=%g, sentiment=%g, gmp_str=%g%%",
			c.Composite, br.BaseScore, br.RetailQuotaPct, br.FundScore, br.SentimentScore, br.GMPStrengthPct),
	}
	var negative []string

	if br.GMPStrengthPct > gmpStrengthThreshold {
		positive = append(positive, fmt.Sprintf("High GMP strength %g%% suggests strong listing expectation", br.GMPStrengthPct))
	}

	if br.RetailQuotaPct >= retailQuotaThreshold {
		positive = append(positive, "High retail quota improves allotment odds")
	} else {
		negative = append(negative, fmt.Sprintf("Retail quota %g%% is low", br.RetailQuotaPct))
	}

	if br.FundScore >= fundScoreThreshold {
		positive = append(positive, "Fundamentals show positive indicators")
	} else {
		negative = append(negative, "Fundamentals are weak/moderate")
	}

	if strings.Contains(strings.ToLower(c.Category), smeMarker) {
		negative = append(negative, "SME IPO: higher risk & lower liquidity")
	}

	return contracts.Explanation{
		Positive:  positive,
		Negative:  negative,
		Breakdown: br,
	}
}
