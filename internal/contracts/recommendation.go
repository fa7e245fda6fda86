package contracts

import "time"

// Recommendation is the final output of an allocation run. Created once,
// immutable thereafter; ownership passes to persistence on construction.
type Recommendation struct {
	CreatedAt     time.Time              `json:"created_at"`
	Budget        float64                `json:"budget"`
	HoldUntil     time.Time              `json:"hold_until"`
	Allocation    []AllocationLine       `json:"allocation"`
	Explanations  map[string]Explanation `json:"explain"`
	TotalInvested float64                `json:"total_invested"`
	Leftover      float64                `json:"leftover"`
	Strategy      Strategy               `json:"strategy"`
}

// Utilization returns invested budget share in percent
func (r *Recommendation) Utilization() float64 {
	if r.Budget <= 0 {
		return 0
	}
	return r.TotalInvested / r.Budget * 100
}

// SanitizedRecommendation mirrors Recommendation with all date values
// converted to ISO-8601 text, for destinations that cannot store native
// date types.
type SanitizedRecommendation struct {
	CreatedAt     string                 `json:"created_at"`
	Budget        float64                `json:"budget"`
	HoldUntil     string                 `json:"hold_until"`
	Allocation    []AllocationLine       `json:"allocation"`
	Explanations  map[string]Explanation `json:"explain"`
	TotalInvested float64                `json:"total_invested"`
	Leftover      float64                `json:"leftover"`
	Strategy      Strategy               `json:"strategy"`
}

// Sanitize converts the recommendation for storage at the core boundary
func (r *Recommendation) Sanitize() SanitizedRecommendation {
	return SanitizedRecommendation{
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		Budget:        r.Budget,
		HoldUntil:     r.HoldUntil.Format("2006-01-02"),
		Allocation:    r.Allocation,
		Explanations:  r.Explanations,
		TotalInvested: r.TotalInvested,
		Leftover:      r.Leftover,
		Strategy:      r.Strategy,
	}
}
