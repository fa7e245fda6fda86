package investorgain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gmpTableHTML = `
<html><body>
<table>
<thead><tr><th>IPO</th><th>Price</th><th>GMP(₹)</th><th>Est Listing</th></tr></thead>
<tbody>
<tr><td>Acme Industries IPO Open</td><td>₹100</td><td>₹40 (40%)</td><td>₹140</td></tr>
<tr><td>Smallco Ltd IPO Upcoming</td><td>₹55</td><td>--</td><td>--</td></tr>
<tr><td>Deepwater Energy IPO</td><td>₹1,250</td><td>-₹115</td><td>₹1,135</td></tr>
<tr><td></td><td>₹10</td><td>₹5</td><td>₹15</td></tr>
</tbody>
</table>
</body></html>`

func TestParseGMPHTML(t *testing.T) {
	quotes, err := parseGMPHTML(gmpTableHTML)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, Quote{Name: "Acme Industries", GMP: 40}, quotes[0])
	assert.Equal(t, Quote{Name: "Deepwater Energy", GMP: -115}, quotes[1])
}

func TestParseGMPHTML_NoGMPColumn(t *testing.T) {
	_, err := parseGMPHTML(`<table><thead><tr><th>IPO</th><th>Price</th></tr></thead></table>`)
	assert.Error(t, err)
}

func TestParseGMPHTML_EmptyTable(t *testing.T) {
	quotes, err := parseGMPHTML(`<table><thead><tr><th>IPO</th><th>GMP</th></tr></thead><tbody></tbody></table>`)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Industries IPO Open", "Acme Industries"},
		{"Smallco Ltd IPO Upcoming", "Smallco Ltd"},
		{"Deepwater Energy IPO", "Deepwater Energy"},
		{"  Plainco  ", "Plainco"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanName(tt.in), tt.in)
	}
}

func TestParseGMPCell(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"₹40 (40%)", 40, true},
		{"₹1,250", 1250, true},
		{"-₹115", -115, true},
		{"--", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseGMPCell(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
