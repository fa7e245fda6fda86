package candidates

import (
	"context"
	"time"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/internal/scoring"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// Builder materializes allocation candidates from offering and analysis
// records, applying the eligibility filters.
type Builder struct {
	config Config
	scorer *scoring.Engine
	logger *logger.Logger
}

// Config defines candidate eligibility parameters
type Config struct {
	// EligibilityFloor rejects offerings whose composite score falls below it
	EligibilityFloor float64

	// MinInvestMainboard is the fallback minimum investment when the
	// market-lot text yields neither an amount nor a lot size
	MinInvestMainboard float64
}

// DefaultConfig returns default eligibility parameters
func DefaultConfig() Config {
	return Config{
		EligibilityFloor:   5.0,
		MinInvestMainboard: 15000,
	}
}

// NewBuilder creates a new candidate builder
func NewBuilder(config Config, scorer *scoring.Engine, log *logger.Logger) *Builder {
	return &Builder{
		config: config,
		scorer: scorer,
		logger: log,
	}
}

// Build filters offerings against their analysis records and returns one
// Candidate per eligible offering. Ordering is unspecified; downstream
// stages re-sort. Data gaps are absorbed by defaults or silent exclusion,
// never surfaced as errors.
func (b *Builder) Build(ctx context.Context, offerings map[string]contracts.OfferingRecord, analyses map[string]contracts.AnalysisRecord, holdDate time.Time) []contracts.Candidate {
	result := make([]contracts.Candidate, 0, len(offerings))
	rejected := make(map[string]int) // filter name -> count

	for name, offering := range offerings {
		analysis, exists := analyses[name]
		if !exists {
			rejected["no_analysis"]++
			continue
		}

		candidate, reason := b.build(offering, analysis, holdDate)
		if reason != "" {
			rejected[reason]++
			continue
		}

		result = append(result, candidate)
	}

	b.logger.WithFields(map[string]interface{}{
		"total_input": len(offerings),
		"eligible":    len(result),
		"rejected":    rejected,
		"hold_date":   holdDate.Format("2006-01-02"),
	}).Info("Candidates built")

	return result
}

// build evaluates a single offering. Returns the filter name that rejected
// it, or empty string with a fully-populated candidate.
func (b *Builder) build(offering contracts.OfferingRecord, analysis contracts.AnalysisRecord, holdDate time.Time) (contracts.Candidate, string) {
	if !analysis.Scored() {
		return contracts.Candidate{}, "unscored"
	}

	closeDate, ok := resolveCloseDate(offering)
	if !ok {
		return contracts.Candidate{}, "no_close_date"
	}
	// Offerings closing after the hold horizon are not actionable
	if closeDate.After(holdDate) {
		return contracts.Candidate{}, "closes_after_hold"
	}

	issueMid, ok := resolveIssueMid(offering)
	if !ok {
		return contracts.Candidate{}, "no_price"
	}

	lot, minInvest := b.resolveMinInvest(offering, issueMid)

	composite, breakdown := b.scorer.Score(offering, analysis)
	if composite < b.config.EligibilityFloor {
		return contracts.Candidate{}, "below_floor"
	}

	return contracts.Candidate{
		Name:      offering.Name,
		Category:  offering.Category,
		Composite: composite,
		Breakdown: breakdown,
		IssueMid:  issueMid,
		Lot:       lot,
		MinInvest: minInvest,
		CloseDate: closeDate,
	}, ""
}

// resolveMinInvest resolves the lot size and minimum investment unit:
// parsed amount, then lot x issue mid, then the mainboard default.
func (b *Builder) resolveMinInvest(offering contracts.OfferingRecord, issueMid float64) (*int, float64) {
	lot, minInvest, _ := parseMarketLot(offering.MarketLot)
	if minInvest > 0 {
		return lot, minInvest
	}
	if lot != nil {
		return lot, float64(*lot) * issueMid
	}
	return nil, b.config.MinInvestMainboard
}
