package application

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quorum/infrastructure/clustering"
	"github.com/ahrav/go-quorum/infrastructure/matching"
	"github.com/ahrav/go-quorum/internal/domain"
)

// EngineConfig is the top-level configuration document of the resolution
// engine. Every section has a working default, so a file only needs to
// state what it changes.
type EngineConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across system updates.
	Version string `yaml:"version" json:"version" validate:"required,semver"`
	// Layout is the shape of a game: rounds and question slots per round.
	Layout domain.Layout `yaml:"layout" json:"layout"`
	// Matching tunes normalization, similarity and thresholds.
	Matching matching.Config `yaml:"matching" json:"matching"`
	// Clustering selects how answers are grouped.
	Clustering clustering.Config `yaml:"clustering" json:"clustering"`
	// Cache controls the round result cache.
	Cache CacheConfig `yaml:"cache" json:"cache"`
	// Concurrency caps how many rounds ResolveGame resolves at once.
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"min=1,max=64"`
}

// CacheConfig controls caching of resolved rounds. Resolution is a pure
// function of the snapshot, so cached results never go stale; the TTL only
// bounds memory.
type CacheConfig struct {
	// Enabled turns the in-memory result cache on.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// TTLSeconds is how long a resolved round is kept.
	TTLSeconds int `yaml:"ttl_seconds" json:"ttl_seconds" validate:"min=0,max=86400"`
	// CleanupSeconds is the interval between purges of expired entries.
	CleanupSeconds int `yaml:"cleanup_seconds" json:"cleanup_seconds" validate:"min=0,max=86400"`
}

// TTL returns TTLSeconds as a duration.
func (c CacheConfig) TTL() time.Duration { return time.Duration(c.TTLSeconds) * time.Second }

// CleanupInterval returns CleanupSeconds as a duration.
func (c CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupSeconds) * time.Second
}

// DefaultEngineConfig returns the standard three-by-four game with
// canonical-key clustering and a ten-minute result cache.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Version:    "1.0.0",
		Layout:     domain.DefaultLayout(),
		Matching:   matching.DefaultConfig(),
		Clustering: clustering.DefaultConfig(),
		Cache: CacheConfig{
			Enabled:        true,
			TTLSeconds:     600,
			CleanupSeconds: 60,
		},
		Concurrency: 4,
	}
}

// Fingerprint identifies the settings that influence a resolution result.
// Results cached under one fingerprint are never served to an engine with
// another.
func (c EngineConfig) Fingerprint() (string, error) {
	relevant := struct {
		Layout     domain.Layout     `yaml:"layout"`
		Matching   matching.Config   `yaml:"matching"`
		Clustering clustering.Config `yaml:"clustering"`
	}{c.Layout, c.Matching, c.Clustering}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	if err := encoder.Encode(relevant); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}
	return digestKey(xxhash.Sum64(buf.Bytes())), nil
}
