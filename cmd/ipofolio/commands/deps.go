package commands

import (
	"fmt"

	"github.com/nikhilsahni/ipofolio/internal/allocation"
	"github.com/nikhilsahni/ipofolio/internal/brain"
	"github.com/nikhilsahni/ipofolio/internal/candidates"
	"github.com/nikhilsahni/ipofolio/internal/explain"
	"github.com/nikhilsahni/ipofolio/internal/ipodata"
	"github.com/nikhilsahni/ipofolio/internal/milp"
	"github.com/nikhilsahni/ipofolio/internal/recommend"
	"github.com/nikhilsahni/ipofolio/internal/scoring"
	"github.com/nikhilsahni/ipofolio/pkg/config"
	"github.com/nikhilsahni/ipofolio/pkg/database"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
	pkgredis "github.com/nikhilsahni/ipofolio/pkg/redis"
)

// deps bundles everything a command needs after bootstrap.
type deps struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *pkgredis.Client

	ipoRepo      *ipodata.Repository
	recRepo      *recommend.Repository
	builder      *candidates.Builder
	allocator    *allocation.Engine
	explainer    *explain.Engine
	orchestrator *brain.Orchestrator
}

// buildDeps loads config and wires the full pipeline. useSolver controls
// whether the exact optimizer capability is attached; without it every
// allocation goes through the greedy heuristic.
func buildDeps(useSolver bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := pkgredis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, caching disabled")
	}

	var cache *pkgredis.Cache
	if redisClient != nil && redisClient.Enabled() {
		cache = pkgredis.NewCache(redisClient, "ipofolio")
	}

	ipoRepo := ipodata.NewRepository(db.Pool, cache, cfg.Allocator.CacheTTL, log)
	recRepo := recommend.NewRepository(db.Pool)

	builder := candidates.NewBuilder(candidates.Config{
		EligibilityFloor:   cfg.Allocator.EligibilityFloor,
		MinInvestMainboard: cfg.Allocator.MinInvestMainboard,
	}, scoring.NewEngine(log), log)

	var solver allocation.Solver
	if useSolver {
		solver = milp.New(log)
	}

	allocator := allocation.NewEngine(allocation.Config{
		MaxLotsPerOffering:    cfg.Allocator.MaxLotsPerOffering,
		DiversificationWeight: cfg.Allocator.DiversificationWeight,
		TopFillK:              cfg.Allocator.TopFillK,
		SolverTimeLimit:       cfg.Allocator.SolverTimeLimit,
		UnderUtilization:      allocation.DefaultConfig().UnderUtilization,
	}, solver, log)

	explainer := explain.NewEngine(log)

	orchestrator := brain.NewOrchestrator(ipoRepo, builder, allocator, explainer, recRepo, log)

	return &deps{
		cfg:          cfg,
		log:          log,
		db:           db,
		redis:        redisClient,
		ipoRepo:      ipoRepo,
		recRepo:      recRepo,
		builder:      builder,
		allocator:    allocator,
		explainer:    explainer,
		orchestrator: orchestrator,
	}, nil
}

func (d *deps) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	d.db.Close()
}
