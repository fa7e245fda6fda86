package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

func testEngine() *Engine {
	return NewEngine(logger.NewNop())
}

func strongCandidate() contracts.Candidate {
	return contracts.Candidate{
		Name:      "Acme Industries",
		Category:  "Mainboard",
		Composite: 7.715,
		Breakdown: contracts.ScoreBreakdown{
			BaseScore:      8,
			RetailQuotaPct: 35,
			RQScore:        10,
			FundScore:      7.5,
			SentimentScore: 7,
			GMPStrengthPct: 41.026,
		},
	}
}

func weakCandidate() contracts.Candidate {
	return contracts.Candidate{
		Name:      "Smallco Ltd",
		Category:  "SME",
		Composite: 5.2,
		Breakdown: contracts.ScoreBreakdown{
			BaseScore:      5,
			RetailQuotaPct: 10,
			RQScore:        10,
			FundScore:      4,
			SentimentScore: 5,
			GMPStrengthPct: 3,
		},
	}
}

func allocationFor(names ...string) *contracts.Allocation {
	lines := make([]contracts.AllocationLine, 0, len(names))
	for _, n := range names {
		lines = append(lines, contracts.AllocationLine{Name: n, Lots: 1})
	}
	return &contracts.Allocation{Lines: lines}
}

func TestExplain_StrongCandidate(t *testing.T) {
	c := strongCandidate()
	result := testEngine().Explain(allocationFor(c.Name), contracts.CandidatesByName([]contracts.Candidate{c}))

	require.Contains(t, result, c.Name)
	info := result[c.Name]

	require.NotEmpty(t, info.Positive)
	assert.Contains(t, info.Positive[0], "Composite score 7.715")
	assert.Contains(t, info.Positive[0], "base_score=8")
	assert.Contains(t, info.Positive[0], "retail_q=35%")

	assert.Contains(t, info.Positive, "High GMP strength 41.026% suggests strong listing expectation")
	assert.Contains(t, info.Positive, "High retail quota improves allotment odds")
	assert.Contains(t, info.Positive, "Fundamentals show positive indicators")
	assert.Empty(t, info.Negative)
	assert.Equal(t, c.Breakdown, info.Breakdown)
}

func TestExplain_WeakSMECandidate(t *testing.T) {
	c := weakCandidate()
	result := testEngine().Explain(allocationFor(c.Name), contracts.CandidatesByName([]contracts.Candidate{c}))

	info := result[c.Name]
	require.Len(t, info.Positive, 1) // summary only

	assert.Contains(t, info.Negative, "Retail quota 10% is low")
	assert.Contains(t, info.Negative, "Fundamentals are weak/moderate")
	assert.Contains(t, info.Negative, "SME IPO: higher risk & lower liquidity")
}

func TestExplain_SMEMarkerCaseInsensitive(t *testing.T) {
	c := weakCandidate()
	c.Category = "NSE sme Emerge"

	result := testEngine().Explain(allocationFor(c.Name), contracts.CandidatesByName([]contracts.Candidate{c}))

	assert.Contains(t, result[c.Name].Negative, "SME IPO: higher risk & lower liquidity")
}

func TestExplain_ThresholdBoundaries(t *testing.T) {
	c := strongCandidate()
	c.Breakdown.GMPStrengthPct = 10 // not strictly above
	c.Breakdown.RetailQuotaPct = 30 // inclusive
	c.Breakdown.FundScore = 6       // inclusive

	info := testEngine().Explain(allocationFor(c.Name), contracts.CandidatesByName([]contracts.Candidate{c}))[c.Name]

	for _, r := range info.Positive {
		assert.NotContains(t, r, "listing expectation")
	}
	assert.Contains(t, info.Positive, "High retail quota improves allotment odds")
	assert.Contains(t, info.Positive, "Fundamentals show positive indicators")
}

func TestExplain_OnlyAllocatedOfferings(t *testing.T) {
	allocated := strongCandidate()
	skipped := weakCandidate()

	byName := contracts.CandidatesByName([]contracts.Candidate{allocated, skipped})
	result := testEngine().Explain(allocationFor(allocated.Name), byName)

	assert.Contains(t, result, allocated.Name)
	assert.NotContains(t, result, skipped.Name)
}

func TestExplain_MissingCandidateSkipped(t *testing.T) {
	result := testEngine().Explain(allocationFor("Ghost"), map[string]contracts.Candidate{})

	assert.Empty(t, result)
}

func TestExplain_Deterministic(t *testing.T) {
	c := strongCandidate()
	byName := contracts.CandidatesByName([]contracts.Candidate{c})

	first := testEngine().Explain(allocationFor(c.Name), byName)
	second := testEngine().Explain(allocationFor(c.Name), byName)

	assert.Equal(t, first, second)
}
