package contracts

// AllocationLine is one allocated offering in a recommendation.
// Invariant: Invested == float64(Lots) * MinInvest.
type AllocationLine struct {
	Name      string  `json:"name"`
	Lots      int     `json:"lots"`
	MinInvest float64 `json:"min_invest"`
	Invested  float64 `json:"invested"`
	Composite float64 `json:"composite"` // copied for reporting
}

// Strategy identifies which allocation strategy produced a result
type Strategy string

const (
	StrategyOptimizer Strategy = "optimizer"
	StrategyGreedy    Strategy = "greedy"
)

// Allocation is the result of one allocation run
type Allocation struct {
	Lines    []AllocationLine `json:"lines"`
	Leftover float64          `json:"leftover"`
	Strategy Strategy         `json:"strategy"`
}

// TotalInvested sums the invested amounts across all lines
func (a *Allocation) TotalInvested() float64 {
	total := 0.0
	for _, line := range a.Lines {
		total += line.Invested
	}
	return total
}

// Explanation is the audit trail for one allocated offering
type Explanation struct {
	Positive  []string       `json:"reasons_more"`
	Negative  []string       `json:"reasons_less"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}
