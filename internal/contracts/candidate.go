package contracts

import "time"

// Candidate is an offering that passed eligibility filtering, with its
// composite score attached. Immutable once built.
type Candidate struct {
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Composite float64        `json:"composite"` // clamped to [1, 10]
	Breakdown ScoreBreakdown `json:"breakdown"`
	IssueMid  float64        `json:"issue_mid"`
	Lot       *int           `json:"lot,omitempty"` // shares per lot, when known
	MinInvest float64        `json:"min_invest"`    // always > 0
	CloseDate time.Time      `json:"close_date"`
}

// Density is the greedy heuristic's ranking key: score per rupee of
// minimum investment.
func (c *Candidate) Density() float64 {
	if c.MinInvest <= 0 {
		return 0
	}
	return c.Composite / c.MinInvest
}

// ScoreBreakdown records every sub-score behind a composite score so the
// result can be audited and explained.
type ScoreBreakdown struct {
	BaseScore      float64 `json:"base_score"`
	RetailQuotaPct float64 `json:"retail_quota_pct"`
	RQScore        float64 `json:"rq_score"`
	FundScore      float64 `json:"fund_score"`
	SentimentScore float64 `json:"sentiment_score"`
	GMPStrengthPct float64 `json:"gmp_strength_pct"`
	Weights        Weights `json:"weights"`
}

// Weights is the fixed composite weight vector, exposed for auditability
type Weights struct {
	Base      float64 `json:"base"`
	Retail    float64 `json:"retail"`
	Fund      float64 `json:"fund"`
	GMP       float64 `json:"gmp"`
	Sentiment float64 `json:"sentiment"`
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.Base + w.Retail + w.Fund + w.GMP + w.Sentiment
}

// CandidatesByName indexes candidates by offering name
func CandidatesByName(candidates []Candidate) map[string]Candidate {
	byName := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byName[c.Name] = c
	}
	return byName
}
