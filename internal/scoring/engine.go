package scoring

import (
	"math"
	"strings"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/internal/normalize"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// Engine computes the composite quality score for one offering from its
// analysis record and extracted source fields. Missing data is absorbed by
// documented defaults; Score never fails.
type Engine struct {
	weights contracts.Weights
	logger  *logger.Logger
}

// NewEngine creates a new scoring engine with the default weight vector
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		weights: DefaultWeights(),
		logger:  log,
	}
}

// DefaultWeights returns the fixed composite weight vector
func DefaultWeights() contracts.Weights {
	return contracts.Weights{
		Base:      0.30,
		Retail:    0.25,
		Fund:      0.20,
		GMP:       0.15,
		Sentiment: 0.10,
	}
	// Total: 100%
}

// Score computes the composite score and its full breakdown.
// The composite is rounded to 3 decimals and capped at 10; the eligibility
// floor is enforced by the candidate builder, not here.
func (e *Engine) Score(offering contracts.OfferingRecord, analysis contracts.AnalysisRecord) (float64, contracts.ScoreBreakdown) {
	base := analysis.BaseScore()
	retail := normalize.RetailQuotaPct(offering.InvestorQuotaSplit)
	fund := e.fundamentalScore(offering)
	sentiment := e.sentimentScore(offering.Overview)
	gmpStrength := e.gmpStrength(offering)

	// Quotas at or above 10% all earn the full 10: marginal benefit of
	// quota size flattens past that threshold.
	rqScore := math.Min(retail/10, 1) * 10

	w := e.weights
	composite := w.Base*base +
		w.Retail*rqScore +
		w.Fund*fund +
		w.GMP*(gmpStrength/10) +
		w.Sentiment*sentiment
	composite = math.Min(round3(composite), 10)

	breakdown := contracts.ScoreBreakdown{
		BaseScore:      base,
		RetailQuotaPct: retail,
		RQScore:        round3(rqScore),
		FundScore:      round3(fund),
		SentimentScore: round3(sentiment),
		GMPStrengthPct: round3(gmpStrength),
		Weights:        w,
	}

	e.logger.WithFields(map[string]interface{}{
		"offering":  offering.Name,
		"composite": composite,
		"base":      base,
		"rq":        breakdown.RQScore,
		"fund":      breakdown.FundScore,
		"sentiment": breakdown.SentimentScore,
		"gmp_pct":   breakdown.GMPStrengthPct,
	}).Debug("Scored offering")

	return composite, breakdown
}

// fundamentalScore applies the fundamental rule table to valuation text,
// falling back to the financial performance text when no ratios exist.
func (e *Engine) fundamentalScore(offering contracts.OfferingRecord) float64 {
	text := offering.ValuationRatios
	if text == "" {
		text = offering.FinancialPerformance
	}
	if text == "" {
		return 5.0
	}

	score := applyRules(5.0, fundamentalRules, strings.ToLower(text))
	return clamp(score, 1, 10)
}

// sentimentScore counts positive and negative terms in the overview text
func (e *Engine) sentimentScore(text string) float64 {
	if text == "" {
		return 5.0
	}

	t := strings.ToLower(text)
	score := 5.0
	for _, term := range positiveTerms {
		if strings.Contains(t, term) {
			score += 0.5
		}
	}
	for _, term := range negativeTerms {
		if strings.Contains(t, term) {
			score -= 0.5
		}
	}
	return clamp(score, 1, 10)
}

// gmpStrength is the grey-market premium as a percentage of the issue mid
// price; zero when either operand is unavailable or non-positive.
func (e *Engine) gmpStrength(offering contracts.OfferingRecord) float64 {
	if offering.GMP <= 0 {
		return 0
	}
	issueMid, ok := normalize.IssueMid(offering.IssuePrice, offering.PriceBandText)
	if !ok || issueMid <= 0 {
		return 0
	}
	return offering.GMP / issueMid * 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
