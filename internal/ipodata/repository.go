// Package ipodata loads offering and analysis records from Postgres.
// Reads go through an optional Redis cache; the cache never crosses into
// the scoring or allocation packages.
package ipodata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
	pkgredis "github.com/nikhilsahni/ipofolio/pkg/redis"
)

// Repository handles offering and analysis data access
type Repository struct {
	pool   *pgxpool.Pool
	cache  *pkgredis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRepository creates a new ipo data repository. cache may be nil when
// Redis is disabled.
func NewRepository(pool *pgxpool.Pool, cache *pkgredis.Cache, ttl time.Duration, log *logger.Logger) *Repository {
	if ttl <= 0 {
		ttl = pkgredis.TTLMedium
	}
	return &Repository{
		pool:   pool,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// ListOfferings returns every offering keyed by name.
func (r *Repository) ListOfferings(ctx context.Context) (map[string]contracts.OfferingRecord, error) {
	var cached map[string]contracts.OfferingRecord
	if r.cacheGet(ctx, pkgredis.OfferingsKey(), &cached) {
		return cached, nil
	}

	query := `
		SELECT name, category, overview, valuation_ratios, financial_performance,
		       investor_quota_split, market_lot, price_band_text,
		       issue_price_min, issue_price_max, issue_price_avg,
		       close_date_text, close_date, gmp
		FROM ipo.offerings
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query offerings: %w", err)
	}
	defer rows.Close()

	offerings := make(map[string]contracts.OfferingRecord)
	for rows.Next() {
		var o contracts.OfferingRecord
		var priceMin, priceMax, priceAvg *float64
		err := rows.Scan(
			&o.Name, &o.Category, &o.Overview, &o.ValuationRatios, &o.FinancialPerformance,
			&o.InvestorQuotaSplit, &o.MarketLot, &o.PriceBandText,
			&priceMin, &priceMax, &priceAvg,
			&o.CloseDateText, &o.CloseDate, &o.GMP,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offering: %w", err)
		}
		if priceMin != nil || priceMax != nil || priceAvg != nil {
			o.IssuePrice = &contracts.PriceBand{}
			if priceMin != nil {
				o.IssuePrice.Min = *priceMin
			}
			if priceMax != nil {
				o.IssuePrice.Max = *priceMax
			}
			if priceAvg != nil {
				o.IssuePrice.Avg = *priceAvg
			}
		}
		offerings[o.Name] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offerings: %w", err)
	}

	r.cacheSet(ctx, pkgredis.OfferingsKey(), offerings)

	return offerings, nil
}

// ListAnalyses returns every analysis record keyed by offering name.
func (r *Repository) ListAnalyses(ctx context.Context) (map[string]contracts.AnalysisRecord, error) {
	var cached map[string]contracts.AnalysisRecord
	if r.cacheGet(ctx, pkgredis.AnalysesKey(), &cached) {
		return cached, nil
	}

	rows, err := r.pool.Query(ctx, "SELECT name, score, status FROM ipo.analysis")
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	analyses := make(map[string]contracts.AnalysisRecord)
	for rows.Next() {
		var a contracts.AnalysisRecord
		if err := rows.Scan(&a.Name, &a.Score, &a.Status); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses[a.Name] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	r.cacheSet(ctx, pkgredis.AnalysesKey(), analyses)

	return analyses, nil
}

// UpdateGMP writes a fresh grey-market premium for one offering and
// invalidates the offerings cache.
func (r *Repository) UpdateGMP(ctx context.Context, name string, gmp float64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE ipo.offerings SET gmp = $1, updated_at = NOW() WHERE name = $2",
		gmp, name,
	)
	if err != nil {
		return fmt.Errorf("failed to update gmp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offering not found: %s", name)
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, pkgredis.OfferingsKey()); err != nil {
			r.logger.WithError(err).Warn("Failed to invalidate offerings cache")
		}
	}

	return nil
}

func (r *Repository) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if r.cache == nil {
		return false
	}
	hit, err := r.cache.Get(ctx, key, dest)
	if err != nil {
		r.logger.WithError(err).Warn("Cache read failed, falling through to database")
		return false
	}
	return hit
}

func (r *Repository) cacheSet(ctx context.Context, key string, value interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		r.logger.WithError(err).Warn("Cache write failed")
	}
}
