package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ahrav/go-quorum/infrastructure/cache"
	"github.com/ahrav/go-quorum/infrastructure/clustering"
	"github.com/ahrav/go-quorum/infrastructure/matching"
	"github.com/ahrav/go-quorum/infrastructure/middleware"
	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// Metric names recorded by the Engine. The first five have dedicated
// Prometheus series; cache errors land in the generic operation counter.
const (
	metricRoundsResolved = middleware.MetricRoundsResolved
	metricRoundWins      = middleware.MetricRoundWins
	metricCacheLookups   = middleware.MetricCacheLookups
	metricClusterSize    = middleware.MetricClusterSize
	metricMaxMatches     = middleware.MetricMaxMatches
	metricCacheErrors    = "cache_errors_total"
)

// Engine validates round snapshots and resolves them, caching results by
// snapshot digest. Engine is safe for concurrent use.
type Engine struct {
	config      EngineConfig
	decider     *matching.Decider
	resolver    *RoundResolver
	cache       ports.CacheStore
	cacheTTL    time.Duration
	metrics     ports.MetricsCollector
	tracer      trace.Tracer
	fingerprint string
	// sf collapses concurrent resolutions of the same snapshot.
	sf singleflight.Group
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache makes the engine store results in store for ttl. It replaces
// the in-memory cache that cfg.Cache would otherwise create.
func WithCache(store ports.CacheStore, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = store
		e.cacheTTL = ttl
	}
}

// WithMetrics makes the engine report to m.
func WithMetrics(m ports.MetricsCollector) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer overrides the OpenTelemetry tracer taken from the global
// provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine builds the matching, clustering and resolution stack described
// by cfg. It returns an error wrapping domain.ErrInvalidConfiguration when cfg
// does not validate.
func NewEngine(cfg EngineConfig, opts ...Option) (*Engine, error) {
	v, err := newConfigValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}

	decider, err := matching.NewDecider(cfg.Layout, cfg.Matching)
	if err != nil {
		return nil, fmt.Errorf("failed to create decider: %w", err)
	}
	builder, err := clustering.New(cfg.Clustering, decider)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster builder: %w", err)
	}
	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:      cfg,
		decider:     decider,
		resolver:    NewRoundResolver(builder, cfg.Layout),
		tracer:      otel.Tracer("quorum-engine"),
		fingerprint: fingerprint,
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewMemoryStore(cfg.Cache.TTL(), cfg.Cache.CleanupInterval())
		e.cacheTTL = cfg.Cache.TTL()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() EngineConfig { return cloneConfig(e.config) }

// Decider returns the equivalence decider used for clustering.
func (e *Engine) Decider() *matching.Decider { return e.decider }

// Resolve validates snap and resolves its round. Identical snapshots are
// resolved once and then served from the cache when one is configured.
func (e *Engine) Resolve(ctx context.Context, snap Snapshot) (domain.RoundResult, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "Engine.Resolve",
		trace.WithAttributes(
			attribute.Int("round.number", snap.Round),
			attribute.Int("round.answers", len(snap.Answers)),
			attribute.Int("round.teams", len(snap.Roster())),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.RoundResult{}, err
	}

	if err := ValidateSnapshot(snap, e.config.Layout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid snapshot")
		e.count(metricRoundsResolved, map[string]string{"status": "invalid"})
		return domain.RoundResult{}, err
	}

	key := "round:" + e.fingerprint + ":" + digestKey(snap.Digest())
	result, ok, cacheErr := e.lookup(ctx, key)
	if cacheErr != nil {
		// Cache failures fall through to resolution.
		span.RecordError(cacheErr)
	}
	if ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		e.annotate(span, result)
		return result, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, _, _ := e.sf.Do(key, func() (any, error) {
		resolved := e.resolver.ResolveRound(snap.Answers, snap.Roster(), snap.Round)
		e.store(ctx, key, resolved)
		e.record(resolved, time.Since(start))
		return resolved, nil
	})

	result = v.(domain.RoundResult).Clone()
	e.annotate(span, result)
	return result, nil
}

// GameResult is the outcome of resolving several rounds of one game.
type GameResult struct {
	// Rounds holds one result per snapshot, in input order.
	Rounds []domain.RoundResult `json:"rounds" yaml:"rounds"`
	// Standings aggregates Rounds.
	Standings domain.GameStandings `json:"standings" yaml:"standings"`
}

// ResolveGame resolves every snapshot concurrently, bounded by the
// configured concurrency, and aggregates the standings. Each round may
// appear only once. The first failure cancels the remaining rounds.
func (e *Engine) ResolveGame(ctx context.Context, snaps []Snapshot) (GameResult, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.ResolveGame",
		trace.WithAttributes(attribute.Int("game.rounds", len(snaps))),
	)
	defer span.End()

	seen := make(map[int]bool, len(snaps))
	for _, s := range snaps {
		if seen[s.Round] {
			err := fmt.Errorf("%w: round %d appears more than once", domain.ErrInvalidSnapshot, s.Round)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return GameResult{}, err
		}
		seen[s.Round] = true
	}

	results := make([]domain.RoundResult, len(snaps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Concurrency)

	for i, snap := range snaps {
		i, snap := i, snap
		g.Go(func() error {
			result, err := e.Resolve(gctx, snap)
			if err != nil {
				return fmt.Errorf("round %d: %w", snap.Round, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GameResult{}, err
	}

	standings := Standings(results)
	span.SetAttributes(attribute.StringSlice("game.leaders", teamStrings(standings.Leaders)))
	return GameResult{Rounds: results, Standings: standings}, nil
}

// lookup returns a cached result for key. Entries of the wrong type are
// evicted and reported as a miss together with a ports.ErrCacheCorrupted
// error.
func (e *Engine) lookup(ctx context.Context, key string) (domain.RoundResult, bool, error) {
	if e.cache == nil {
		return domain.RoundResult{}, false, nil
	}

	v, found, err := e.cache.Get(ctx, key)
	if err != nil {
		e.count(metricCacheErrors, map[string]string{"status": "get"})
		return domain.RoundResult{}, false, err
	}
	if !found {
		e.count(metricCacheLookups, map[string]string{"result": "miss"})
		return domain.RoundResult{}, false, nil
	}

	result, ok := v.(domain.RoundResult)
	if !ok {
		_ = e.cache.Delete(ctx, key)
		e.count(metricCacheErrors, map[string]string{"status": "corrupted"})
		e.count(metricCacheLookups, map[string]string{"result": "miss"})
		return domain.RoundResult{}, false, ports.NewCacheError(key, "get", ports.ErrCacheCorrupted)
	}

	e.count(metricCacheLookups, map[string]string{"result": "hit"})
	return result.Clone(), true, nil
}

// store caches result. Cache failures only cost a future recomputation.
func (e *Engine) store(ctx context.Context, key string, result domain.RoundResult) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, result.Clone(), e.cacheTTL); err != nil {
		e.count(metricCacheErrors, map[string]string{"status": "set"})
	}
}

// record reports a freshly resolved round to the metrics collector.
func (e *Engine) record(result domain.RoundResult, elapsed time.Duration) {
	if e.metrics == nil {
		return
	}

	status := "no_winner"
	switch {
	case len(result.WinningTeams) == 1:
		status = "winner"
	case len(result.WinningTeams) > 1:
		status = "tie"
	}

	round := map[string]string{"round": strconv.Itoa(result.RoundNumber)}
	e.metrics.RecordLatency("resolve_round", elapsed, round)
	e.metrics.RecordCounter(metricRoundsResolved, 1, map[string]string{"status": status})
	e.metrics.RecordGauge(metricMaxMatches, float64(result.MaxMatches), round)
	for _, team := range result.WinningTeams {
		e.metrics.RecordCounter(metricRoundWins, 1, map[string]string{"team": string(team)})
	}
	for team, clusters := range result.PerTeamClusters {
		for _, c := range clusters {
			e.metrics.RecordHistogram(metricClusterSize, float64(c.Size), map[string]string{"team": string(team)})
		}
	}
}

func (e *Engine) count(metric string, labels map[string]string) {
	if e.metrics != nil {
		e.metrics.RecordCounter(metric, 1, labels)
	}
}

func (e *Engine) annotate(span trace.Span, result domain.RoundResult) {
	span.SetAttributes(
		attribute.Int("round.max_matches", result.MaxMatches),
		attribute.StringSlice("round.winners", teamStrings(result.WinningTeams)),
	)
}

func teamStrings(teams []domain.TeamID) []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = string(t)
	}
	return out
}
