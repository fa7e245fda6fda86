// Package normalize turns noisy textual source fields into clean scalar
// values. All functions are pure and never fail: unresolvable input yields
// a zero value and ok=false, matching the "degrade, don't fail" policy for
// partially-missing offering data.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
)

var (
	lotAndAmountRe = regexp.MustCompile(`(?i)(?:Min[:\s]*)?(\d{1,6})\s*shares?.*?₹\s?([\d,]+)`)
	lotOnlyRe      = regexp.MustCompile(`(?i)(\d{1,6})\s*shares?`)
	amountRe       = regexp.MustCompile(`₹\s?([\d,]+)`)
	numberRe       = regexp.MustCompile(`\d+\.?\d*`)
	retailQuotaRe  = regexp.MustCompile(`(?i)Retail\s*:?\s*(\d+\.?\d*)%`)
	roeRe          = regexp.MustCompile(`(?i)roe[:\s]*([-\d.]+)`)
	debtEquityRe   = regexp.MustCompile(`(?i)d/?e[:\s]*([-\d.]+)`)
	epsRe          = regexp.MustCompile(`(?i)eps[:\s]*[-(₹]?([\d.]+)`)
)

// dateLayouts are tried in order against the leading characters of the input
var dateLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
	"02 Jan 2006",
	"02/01/2006",
}

// Amount parses a currency or plain numeric string, stripping the rupee
// sign, commas and surrounding whitespace.
func Amount(s string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "₹", ""), ",", ""))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Date parses a date string in any of the supported source formats.
// Longer strings are truncated to the layout width so trailing text
// ("12-Aug-2026 (Tue)") does not break parsing.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		candidate := s
		if len(candidate) > len(layout) {
			candidate = candidate[:len(layout)]
		}
		if t, err := time.Parse(layout, strings.TrimSpace(candidate)); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// LotAndMinInvest extracts the lot size and minimum investment amount from
// a market-lot description like "Min: 100 shares ₹14,500". When only an
// amount is present the lot is nil; when neither resolves ok is false.
func LotAndMinInvest(text string) (lot *int, minInvest float64, ok bool) {
	if text == "" {
		return nil, 0, false
	}

	if m := lotAndAmountRe.FindStringSubmatch(text); m != nil {
		lotVal, lotOK := Amount(m[1])
		amount, amountOK := Amount(m[2])
		if lotOK && lotVal > 0 {
			n := int(lotVal)
			lot = &n
		}
		if amountOK && amount > 0 {
			return lot, amount, true
		}
		return lot, 0, lot != nil
	}

	if m := amountRe.FindStringSubmatch(text); m != nil {
		if amount, amountOK := Amount(m[1]); amountOK && amount > 0 {
			return nil, amount, true
		}
	}

	// Lot size alone still lets the caller derive the amount from the
	// issue price.
	if m := lotOnlyRe.FindStringSubmatch(text); m != nil {
		if lotVal, lotOK := Amount(m[1]); lotOK && lotVal > 0 {
			n := int(lotVal)
			return &n, 0, true
		}
	}

	return nil, 0, false
}

// IssueMid resolves the representative issue price: the structured band's
// mid when available, otherwise the mean of all numeric tokens in the
// price-band text.
func IssueMid(band *contracts.PriceBand, text string) (float64, bool) {
	if mid := band.Mid(); mid > 0 {
		return mid, true
	}

	if text == "" {
		return 0, false
	}

	var sum float64
	var count int
	for _, tok := range numberRe.FindAllString(text, -1) {
		if v, ok := Amount(tok); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// RetailQuotaPct extracts the retail quota percentage from investor-quota
// text, defaulting to 10.0 when unresolvable.
func RetailQuotaPct(text string) float64 {
	if m := retailQuotaRe.FindStringSubmatch(text); m != nil {
		if v, ok := Amount(m[1]); ok {
			return v
		}
	}
	return 10.0
}

// ROE extracts a return-on-equity figure from valuation text
func ROE(text string) (float64, bool) {
	return extractFigure(roeRe, text)
}

// DebtEquity extracts a debt/equity figure from valuation text
func DebtEquity(text string) (float64, bool) {
	return extractFigure(debtEquityRe, text)
}

// EPS extracts an earnings-per-share figure from valuation text
func EPS(text string) (float64, bool) {
	return extractFigure(epsRe, text)
}

func extractFigure(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return Amount(m[1])
}
