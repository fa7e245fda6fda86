// Package recommend persists recommendation runs.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
)

// Repository handles recommendation persistence
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new recommendation repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save stores one recommendation run. Dates are sanitized to ISO text
// before the row is written; allocation and explanations go in as JSONB.
func (r *Repository) Save(ctx context.Context, rec *contracts.Recommendation) error {
	sanitized := rec.Sanitize()

	allocationJSON, err := json.Marshal(sanitized.Allocation)
	if err != nil {
		return fmt.Errorf("failed to marshal allocation: %w", err)
	}
	explanationsJSON, err := json.Marshal(sanitized.Explanations)
	if err != nil {
		return fmt.Errorf("failed to marshal explanations: %w", err)
	}

	query := `
		INSERT INTO ipo.recommendations (
			created_at, budget, hold_until, allocation, explanations,
			total_invested, leftover, strategy
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		sanitized.CreatedAt, sanitized.Budget, sanitized.HoldUntil,
		allocationJSON, explanationsJSON,
		sanitized.TotalInvested, sanitized.Leftover, sanitized.Strategy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}

	return nil
}

// Latest returns the most recent recommendation, or nil when none exists.
func (r *Repository) Latest(ctx context.Context) (*contracts.SanitizedRecommendation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT created_at, budget, hold_until, allocation, explanations,
		       total_invested, leftover, strategy
		FROM ipo.recommendations
		ORDER BY id DESC
		LIMIT 1
	`)

	rec, err := scanRecommendation(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest recommendation: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit recommendations, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]contracts.SanitizedRecommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
		SELECT created_at, budget, hold_until, allocation, explanations,
		       total_invested, leftover, strategy
		FROM ipo.recommendations
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]contracts.SanitizedRecommendation, 0, limit)
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return out, nil
}

// PruneBefore removes runs older than the cutoff and reports how many
// rows went away.
func (r *Repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM ipo.recommendations WHERE created_at < $1",
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune recommendations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecommendation(row pgx.Row) (*contracts.SanitizedRecommendation, error) {
	var rec contracts.SanitizedRecommendation
	var allocationJSON, explanationsJSON []byte

	err := row.Scan(
		&rec.CreatedAt, &rec.Budget, &rec.HoldUntil,
		&allocationJSON, &explanationsJSON,
		&rec.TotalInvested, &rec.Leftover, &rec.Strategy,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(allocationJSON, &rec.Allocation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allocation: %w", err)
	}
	if err := json.Unmarshal(explanationsJSON, &rec.Explanations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal explanations: %w", err)
	}

	return &rec, nil
}
