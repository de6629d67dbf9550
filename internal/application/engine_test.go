package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-quorum/infrastructure/cache"
	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// recordingMetrics counts every metric reported to it.
type recordingMetrics struct {
	mu       sync.Mutex
	counters map[string]float64
	gauges   map[string]float64
	samples  map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		counters: make(map[string]float64),
		gauges:   make(map[string]float64),
		samples:  make(map[string]int),
	}
}

func (m *recordingMetrics) RecordLatency(op string, _ time.Duration, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples[op]++
}

func (m *recordingMetrics) RecordCounter(metric string, v float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := metric
	for _, l := range []string{"status", "team", "result"} {
		if labels[l] != "" {
			key += ":" + labels[l]
		}
	}
	m.counters[key] += v
}

func (m *recordingMetrics) RecordGauge(metric string, v float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[metric] = v
}

func (m *recordingMetrics) RecordHistogram(metric string, _ float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples[metric]++
}

func (m *recordingMetrics) counter(key string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

var _ ports.MetricsCollector = (*recordingMetrics)(nil)

// countingStore wraps a CacheStore and counts Set calls.
type countingStore struct {
	ports.CacheStore
	sets atomic.Int32
}

func (s *countingStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.sets.Add(1)
	return s.CacheStore.Set(ctx, key, value, ttl)
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultEngineConfig(), opts...)
	require.NoError(t, err)
	return engine
}

func roundOne() Snapshot {
	var answers []domain.RawAnswer
	answers = append(answers, agreeing(domain.TeamCrimson, "r1q2", "Paris", 3)...)
	answers = append(answers, agreeing(domain.TeamScarlet, "r1q1", "30/05", 2)...)
	return Snapshot{Round: 1, Answers: answers}
}

func TestNewEngine(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		engine := newTestEngine(t)
		assert.NotNil(t, engine.Decider())
		assert.Equal(t, DefaultEngineConfig(), engine.Config())
		assert.NotNil(t, engine.cache, "default configuration enables the cache")
	})

	t.Run("cache disabled", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Cache.Enabled = false
		engine, err := NewEngine(cfg)
		require.NoError(t, err)
		assert.Nil(t, engine.cache)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Layout.QuestionsPerRound = 0
		_, err := NewEngine(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})
}

func TestEngine_Resolve(t *testing.T) {
	metrics := newRecordingMetrics()
	engine := newTestEngine(t, WithMetrics(metrics))

	result, err := engine.Resolve(context.Background(), roundOne())
	require.NoError(t, err)

	assert.Equal(t, 1, result.RoundNumber)
	assert.Equal(t, 3, result.MaxMatches)
	assert.Equal(t, []domain.TeamID{domain.TeamCrimson}, result.WinningTeams)
	assert.Len(t, result.BestClusterSizes, 4)

	assert.Equal(t, 1.0, metrics.counter(metricRoundsResolved+":winner"))
	assert.Equal(t, 1.0, metrics.counter(metricRoundWins+":crimson"))
	assert.Equal(t, 1.0, metrics.counter(metricCacheLookups+":miss"))
	assert.Equal(t, 2, metrics.samples[metricClusterSize])
	assert.Equal(t, 3.0, metrics.gauges[metricMaxMatches])
}

func TestEngine_ResolveInvalidSnapshot(t *testing.T) {
	metrics := newRecordingMetrics()
	engine := newTestEngine(t, WithMetrics(metrics))

	snap := roundOne()
	snap.Answers = append(snap.Answers, ans("x", domain.TeamRuby, "r2q2", "Rome"))

	_, err := engine.Resolve(context.Background(), snap)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
	assert.Equal(t, 1.0, metrics.counter(metricRoundsResolved+":invalid"))
}

func TestEngine_ResolveCanceled(t *testing.T) {
	engine := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Resolve(ctx, roundOne())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_CacheHit(t *testing.T) {
	metrics := newRecordingMetrics()
	store := &countingStore{CacheStore: cache.NewMemoryStore(time.Minute, 0)}
	engine := newTestEngine(t, WithCache(store, time.Minute), WithMetrics(metrics))
	ctx := context.Background()

	first, err := engine.Resolve(ctx, roundOne())
	require.NoError(t, err)

	// Callers own their copy; mutating it must not leak into the cache.
	first.WinningTeams[0] = "tampered"
	first.PerTeamClusters[domain.TeamCrimson][0].Members[0] = "tampered"

	second, err := engine.Resolve(ctx, roundOne())
	require.NoError(t, err)

	assert.Equal(t, int32(1), store.sets.Load(), "second resolution is served from the cache")
	assert.Equal(t, 1.0, metrics.counter(metricCacheLookups+":hit"))
	assert.Equal(t, []domain.TeamID{domain.TeamCrimson}, second.WinningTeams)
	assert.NotEqual(t, domain.PlayerID("tampered"), second.PerTeamClusters[domain.TeamCrimson][0].Members[0])

	fresh := newTestEngine(t, WithCache(cache.NewMemoryStore(time.Minute, 0), time.Minute))
	uncached, err := fresh.Resolve(ctx, roundOne())
	require.NoError(t, err)
	assert.Equal(t, uncached, second, "cached and fresh results are identical")
}

func TestEngine_CorruptedCacheEntry(t *testing.T) {
	metrics := newRecordingMetrics()
	store := cache.NewMemoryStore(time.Minute, 0)
	engine := newTestEngine(t, WithCache(store, time.Minute), WithMetrics(metrics))
	ctx := context.Background()

	snap := roundOne()
	key := "round:" + engine.fingerprint + ":" + digestKey(snap.Digest())
	require.NoError(t, store.Set(ctx, key, "not a result", 0))

	result, err := engine.Resolve(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, []domain.TeamID{domain.TeamCrimson}, result.WinningTeams)
	assert.Equal(t, 1.0, metrics.counter(metricCacheErrors+":corrupted"))

	cached, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.IsType(t, domain.RoundResult{}, cached, "the corrupted entry is replaced")
}

func TestEngine_ConcurrentResolve(t *testing.T) {
	engine := newTestEngine(t)
	snap := roundOne()

	var wg sync.WaitGroup
	results := make([]domain.RoundResult, 20)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := engine.Resolve(context.Background(), snap)
			assert.NoError(t, err)
			results[i] = r
		}()
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}
}

func TestEngine_ResolveGame(t *testing.T) {
	engine := newTestEngine(t)

	var round2, round3 []domain.RawAnswer
	round2 = append(round2, agreeing(domain.TeamRuby, "r2q3", "Rome", 2)...)
	round2 = append(round2, agreeing(domain.TeamCrimson, "r2q2", "Oslo", 2)...)
	round3 = append(round3, agreeing(domain.TeamCrimson, "r3q4", "1st Jan", 4)...)

	game, err := engine.ResolveGame(context.Background(), []Snapshot{
		roundOne(),
		{Round: 2, Answers: round2},
		{Round: 3, Answers: round3},
	})
	require.NoError(t, err)

	require.Len(t, game.Rounds, 3)
	for i, r := range game.Rounds {
		assert.Equal(t, i+1, r.RoundNumber, "results keep input order")
	}
	assert.Equal(t, []domain.TeamID{domain.TeamCrimson, domain.TeamRuby}, game.Rounds[1].WinningTeams)
	assert.Equal(t, []domain.TeamID{domain.TeamCrimson}, game.Standings.Leaders)
	assert.Equal(t, 3, game.Standings.Teams[0].RoundsWon)
}

func TestEngine_ResolveGameErrors(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("duplicate round", func(t *testing.T) {
		_, err := engine.ResolveGame(context.Background(), []Snapshot{roundOne(), roundOne()})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
		assert.Contains(t, err.Error(), "more than once")
	})

	t.Run("invalid round", func(t *testing.T) {
		_, err := engine.ResolveGame(context.Background(), []Snapshot{roundOne(), {Round: 9}})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
		assert.Contains(t, err.Error(), "round 9")
	})

	t.Run("no rounds", func(t *testing.T) {
		game, err := engine.ResolveGame(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, game.Rounds)
		assert.Empty(t, game.Standings.Leaders)
	})
}

func BenchmarkEngine_Resolve(b *testing.B) {
	cfg := DefaultEngineConfig()
	cfg.Cache.Enabled = false
	engine, err := NewEngine(cfg)
	if err != nil {
		b.Fatal(err)
	}
	snap := roundOne()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Resolve(ctx, snap); err != nil {
			b.Fatal(err)
		}
	}
}
