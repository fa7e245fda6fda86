// Package investorgain scrapes live grey-market premium quotes.
package investorgain

import (
	"time"

	"github.com/nikhilsahni/ipofolio/pkg/config"
	"github.com/nikhilsahni/ipofolio/pkg/httputil"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// Client talks to the Investorgain GMP listing page
type Client struct {
	baseURL    string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewClient creates a new Investorgain client. Requests are rate limited;
// the source throttles aggressive crawlers.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := httputil.New(log).
		WithRetry(3, 500*time.Millisecond).
		WithRateLimit(cfg.GMP.RatePerSec)

	return &Client{
		baseURL:    cfg.GMP.BaseURL,
		httpClient: httpClient,
		logger:     log,
	}
}
