package candidates

import (
	"time"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/internal/normalize"
)

// resolveCloseDate prefers the loader-normalized close date and falls back
// to parsing the raw text field.
func resolveCloseDate(offering contracts.OfferingRecord) (time.Time, bool) {
	if offering.CloseDate != nil {
		return *offering.CloseDate, true
	}
	return normalize.Date(offering.CloseDateText)
}

// resolveIssueMid resolves the representative issue price from the
// structured band or the price-band text.
func resolveIssueMid(offering contracts.OfferingRecord) (float64, bool) {
	mid, ok := normalize.IssueMid(offering.IssuePrice, offering.PriceBandText)
	if !ok || mid <= 0 {
		return 0, false
	}
	return mid, true
}

// parseMarketLot extracts lot size and minimum investment from the
// market-lot text field.
func parseMarketLot(text string) (*int, float64, bool) {
	return normalize.LotAndMinInvest(text)
}
