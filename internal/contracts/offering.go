package contracts

import "time"

// OfferingRecord is the raw IPO record produced by the data loader.
// Free-text fields are carried as-is; normalization happens downstream.
type OfferingRecord struct {
	Name     string `json:"name"`
	Category string `json:"category"` // "Mainboard", "SME"

	// Extracted free-text fields
	Overview             string `json:"overview"`
	ValuationRatios      string `json:"valuation_ratios"`       // EPS, ROE, ROCE, D/E, NAV
	FinancialPerformance string `json:"financial_performance"`  // FY performance text
	InvestorQuotaSplit   string `json:"investor_quota_split"`   // e.g. "QIB:50% NII:15% Retail:35%"
	MarketLot            string `json:"market_lot"`             // lot size and amounts text
	PriceBandText        string `json:"price_band_text"`        // e.g. "₹95 - ₹100 per share"

	// Structured price band, when the source provides one
	IssuePrice *PriceBand `json:"issue_price,omitempty"`

	CloseDateText string     `json:"close_date_text"`
	CloseDate     *time.Time `json:"close_date,omitempty"`

	// Grey-market premium; zero when unknown
	GMP float64 `json:"gmp"`
}

// PriceBand is a structured min/avg/max issue price
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Mid returns the representative price of the band: avg when present,
// otherwise min. Zero values mean the figure is unavailable.
func (p *PriceBand) Mid() float64 {
	if p == nil {
		return 0
	}
	if p.Avg > 0 {
		return p.Avg
	}
	return p.Min
}

// AnalysisRecord is the upstream analysis result for one offering
type AnalysisRecord struct {
	Name   string   `json:"name"`
	Score  *float64 `json:"score,omitempty"` // base quality score, 1-10
	Status string   `json:"status"`          // "scored", "pending", ...
}

// Scored reports whether the record carries a usable score
func (a *AnalysisRecord) Scored() bool {
	return a.Status == StatusScored || a.Score != nil
}

// BaseScore returns the analysis score, defaulting to 5.0 when absent
func (a *AnalysisRecord) BaseScore() float64 {
	if a.Score == nil {
		return 5.0
	}
	return *a.Score
}

// Analysis status values
const (
	StatusScored  = "scored"
	StatusPending = "pending"
)
