package investorgain

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nikhilsahni/ipofolio/internal/normalize"
)

// Quote is one grey-market premium row from the listing table.
type Quote struct {
	Name string
	GMP  float64
}

// gmpRe matches a rupee amount, optionally signed. Rows without a live
// premium show a dash instead.
var gmpRe = regexp.MustCompile(`(-?)\s*₹\s?([\d,]+(?:\.\d+)?)`)

// FetchGMP scrapes the current GMP table. Rows whose premium cell carries
// no rupee amount are skipped, not errored.
func (c *Client) FetchGMP(ctx context.Context) ([]Quote, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	quotes, err := parseGMPHTML(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"count": len(quotes),
	}).Debug("Fetched GMP quotes")

	return quotes, nil
}

// parseGMPHTML extracts (name, premium) pairs from the listing table. The
// first cell of each row carries the offering name; the premium column is
// located by its header, since the price column carries rupee amounts too.
func parseGMPHTML(html string) ([]Quote, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}

	gmpCol := findGMPColumn(doc)
	if gmpCol < 0 {
		return nil, fmt.Errorf("no GMP column in listing table")
	}

	var quotes []Quote
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= gmpCol {
			return
		}

		name := cleanName(cells.Eq(0).Text())
		if name == "" {
			return
		}

		if gmp, ok := parseGMPCell(cells.Eq(gmpCol).Text()); ok {
			quotes = append(quotes, Quote{Name: name, GMP: gmp})
		}
	})

	return quotes, nil
}

func findGMPColumn(doc *goquery.Document) int {
	col := -1
	doc.Find("table thead th").EachWithBreak(func(i int, th *goquery.Selection) bool {
		if strings.Contains(strings.ToUpper(th.Text()), "GMP") {
			col = i
			return false
		}
		return true
	})
	return col
}

func parseGMPCell(text string) (float64, bool) {
	m := gmpRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, ok := normalize.Amount(m[2])
	if !ok {
		return 0, false
	}
	if m[1] == "-" {
		value = -value
	}
	return value, true
}

// cleanName strips the status badges the listing appends to names, such
// as "Acme Industries IPO Open" or a trailing "Upcoming" marker.
func cleanName(s string) string {
	name := strings.TrimSpace(s)
	for _, suffix := range []string{"Open", "Close", "Closed", "Upcoming", "Listed"} {
		name = strings.TrimSuffix(name, suffix)
		name = strings.TrimSpace(name)
	}
	return strings.TrimSpace(strings.TrimSuffix(name, "IPO"))
}
