package candidates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/internal/scoring"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

func testBuilder() *Builder {
	log := logger.NewNop()
	return NewBuilder(DefaultConfig(), scoring.NewEngine(log), log)
}

func floatPtr(v float64) *float64 { return &v }

func datePtr(t time.Time) *time.Time { return &t }

// strongOffering returns an offering whose composite comfortably clears
// the eligibility floor.
func strongOffering(name string) contracts.OfferingRecord {
	return contracts.OfferingRecord{
		Name:               name,
		Category:           "Mainboard",
		Overview:           "growing leader with strong fundamentals",
		ValuationRatios:    "ROE: 18, EPS: 12, D/E: 0.3, growth in profit",
		InvestorQuotaSplit: "Retail:35%",
		MarketLot:          "Min: 100 shares ₹14,500",
		PriceBandText:      "₹140 - ₹150",
		CloseDate:          datePtr(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)),
		GMP:                30,
	}
}

func scoredAnalysis(name string, score float64) contracts.AnalysisRecord {
	return contracts.AnalysisRecord{Name: name, Status: contracts.StatusScored, Score: floatPtr(score)}
}

func TestBuilder_Build_Eligible(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	offerings := map[string]contracts.OfferingRecord{
		"Alpha Industries": strongOffering("Alpha Industries"),
	}
	analyses := map[string]contracts.AnalysisRecord{
		"Alpha Industries": scoredAnalysis("Alpha Industries", 8),
	}

	result := builder.Build(context.Background(), offerings, analyses, holdDate)
	require.Len(t, result, 1)

	c := result[0]
	assert.Equal(t, "Alpha Industries", c.Name)
	assert.Equal(t, "Mainboard", c.Category)
	assert.GreaterOrEqual(t, c.Composite, 5.0)
	assert.LessOrEqual(t, c.Composite, 10.0)
	assert.Equal(t, 14500.0, c.MinInvest)
	require.NotNil(t, c.Lot)
	assert.Equal(t, 100, *c.Lot)
	assert.Equal(t, 145.0, c.IssueMid)
}

func TestBuilder_Build_NoMatchingAnalysis(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	offerings := map[string]contracts.OfferingRecord{
		"Orphan IPO": strongOffering("Orphan IPO"),
	}

	result := builder.Build(context.Background(), offerings, map[string]contracts.AnalysisRecord{}, holdDate)
	assert.Empty(t, result)
}

func TestBuilder_Build_RejectsUnscored(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	offerings := map[string]contracts.OfferingRecord{
		"Pending IPO": strongOffering("Pending IPO"),
	}
	analyses := map[string]contracts.AnalysisRecord{
		"Pending IPO": {Name: "Pending IPO", Status: contracts.StatusPending},
	}

	result := builder.Build(context.Background(), offerings, analyses, holdDate)
	assert.Empty(t, result)
}

func TestBuilder_Build_RejectsCloseAfterHold(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	late := strongOffering("Late IPO")
	late.CloseDate = datePtr(time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC))

	offerings := map[string]contracts.OfferingRecord{"Late IPO": late}
	analyses := map[string]contracts.AnalysisRecord{"Late IPO": scoredAnalysis("Late IPO", 9)}

	result := builder.Build(context.Background(), offerings, analyses, holdDate)
	assert.Empty(t, result)
}

func TestBuilder_Build_RejectsUnresolvableCloseDate(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	undated := strongOffering("Undated IPO")
	undated.CloseDate = nil
	undated.CloseDateText = "to be announced"

	offerings := map[string]contracts.OfferingRecord{"Undated IPO": undated}
	analyses := map[string]contracts.AnalysisRecord{"Undated IPO": scoredAnalysis("Undated IPO", 9)}

	result := builder.Build(context.Background(), offerings, analyses, holdDate)
	assert.Empty(t, result)
}

func TestBuilder_Build_RejectsMissingPriceRegardlessOfScore(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	unpriced := strongOffering("Unpriced IPO")
	unpriced.PriceBandText = ""
	unpriced.IssuePrice = nil

	offerings := map[string]contracts.OfferingRecord{"Unpriced IPO": unpriced}
	analyses := map[string]contracts.AnalysisRecord{"Unpriced IPO": scoredAnalysis("Unpriced IPO", 10)}

	result := builder.Build(context.Background(), offerings, analyses, holdDate)
	assert.Empty(t, result)
}

func TestBuilder_Build_RejectsBelowFloor(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	weak := strongOffering("Weak IPO")
	weak.Overview = "volatile risky declining business facing losses"
	weak.ValuationRatios = "loss making, negative outlook, d/e: 3, eps: 0.0"
	weak.InvestorQuotaSplit = "" // quota defaults to 10
	weak.GMP = 0

	offerings := map[string]contracts.OfferingRecord{"Weak IPO": weak}
	analyses := map[string]contracts.AnalysisRecord{"Weak IPO": scoredAnalysis("Weak IPO", 1)}

	result := builder.Build(context.Background(), offerings, analyses, holdDate)
	assert.Empty(t, result)
}

func TestBuilder_resolveMinInvest(t *testing.T) {
	builder := testBuilder()

	t.Run("parsed amount wins", func(t *testing.T) {
		offering := contracts.OfferingRecord{MarketLot: "Min: 50 shares ₹12,000"}
		lot, minInvest := builder.resolveMinInvest(offering, 240)
		require.NotNil(t, lot)
		assert.Equal(t, 50, *lot)
		assert.Equal(t, 12000.0, minInvest)
	})

	t.Run("derived from lot and mid", func(t *testing.T) {
		offering := contracts.OfferingRecord{MarketLot: "100 shares per lot"}
		lot, minInvest := builder.resolveMinInvest(offering, 145)
		require.NotNil(t, lot)
		assert.Equal(t, 100, *lot)
		assert.Equal(t, 14500.0, minInvest)
	})

	t.Run("mainboard default", func(t *testing.T) {
		offering := contracts.OfferingRecord{MarketLot: ""}
		lot, minInvest := builder.resolveMinInvest(offering, 145)
		assert.Nil(t, lot)
		assert.Equal(t, 15000.0, minInvest)
	})
}

func TestBuilder_Build_MinInvestAlwaysPositive(t *testing.T) {
	builder := testBuilder()
	holdDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	offerings := map[string]contracts.OfferingRecord{
		"Alpha Industries": strongOffering("Alpha Industries"),
	}
	bare := strongOffering("Bare IPO")
	bare.MarketLot = ""
	offerings["Bare IPO"] = bare

	analyses := map[string]contracts.AnalysisRecord{
		"Alpha Industries": scoredAnalysis("Alpha Industries", 8),
		"Bare IPO":         scoredAnalysis("Bare IPO", 8),
	}

	result := builder.Build(context.Background(), offerings, analyses, holdDate)
	require.Len(t, result, 2)
	for _, c := range result {
		assert.Greater(t, c.MinInvest, 0.0, "candidate %s", c.Name)
		assert.GreaterOrEqual(t, c.Composite, 1.0)
		assert.LessOrEqual(t, c.Composite, 10.0)
	}
}
