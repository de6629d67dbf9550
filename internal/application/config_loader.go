package application

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quorum/infrastructure/matching"
	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// ConfigLoader parses, validates and caches engine configuration documents.
// Decoding starts from DefaultEngineConfig, so omitted sections keep their
// defaults. ConfigLoader is safe for concurrent use.
type ConfigLoader struct {
	validator *validator.Validate
	// cache stores decoded configs indexed by SHA256 of the source bytes.
	cache   map[string]EngineConfig
	cacheMu sync.RWMutex
	// sf prevents duplicate decoding when several goroutines load the same
	// document simultaneously.
	sf singleflight.Group
}

// NewConfigLoader creates a ConfigLoader with the custom validators the
// configuration schema uses.
// NewConfigLoader returns an error if validator registration fails.
func NewConfigLoader() (*ConfigLoader, error) {
	v, err := newConfigValidator()
	if err != nil {
		return nil, err
	}
	return &ConfigLoader{
		validator: v,
		cache:     make(map[string]EngineConfig),
	}, nil
}

// LoadFromFile loads an engine configuration from a YAML file.
// A missing file reports ports.ErrConfigNotFound.
func (cl *ConfigLoader) LoadFromFile(path string) (EngineConfig, error) {
	// Clean the path to prevent directory traversal attacks.
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return EngineConfig{}, ports.NewConfigError(cleanPath, ports.ErrConfigNotFound)
		}
		return EngineConfig{}, fmt.Errorf("failed to read file: %w", err)
	}

	return cl.load(data)
}

// LoadFromReader loads an engine configuration from r.
func (cl *ConfigLoader) LoadFromReader(r io.Reader) (EngineConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("failed to read data: %w", err)
	}
	return cl.load(data)
}

// Validate checks cfg against its struct tags.
func (cl *ConfigLoader) Validate(cfg EngineConfig) error {
	if err := cl.validator.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	return nil
}

// ClearCache forgets every previously loaded document.
func (cl *ConfigLoader) ClearCache() {
	cl.cacheMu.Lock()
	defer cl.cacheMu.Unlock()

	cl.cache = make(map[string]EngineConfig)
}

func (cl *ConfigLoader) load(data []byte) (EngineConfig, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	v, err, _ := cl.sf.Do(hash, func() (any, error) {
		// Check cache inside singleflight to handle race between cache check
		// and singleflight group execution.
		if cfg, ok := cl.cached(hash); ok {
			return cfg, nil
		}

		cfg, err := cl.parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if err := cl.Validate(cfg); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		cl.cacheMu.Lock()
		cl.cache[hash] = cfg
		cl.cacheMu.Unlock()
		return cfg, nil
	})
	if err != nil {
		return EngineConfig{}, err
	}

	return cloneConfig(v.(EngineConfig)), nil
}

func (cl *ConfigLoader) cached(hash string) (EngineConfig, bool) {
	cl.cacheMu.RLock()
	defer cl.cacheMu.RUnlock()

	cfg, ok := cl.cache[hash]
	return cfg, ok
}

func (cl *ConfigLoader) parseYAML(data []byte) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// cloneConfig copies the slices of cfg so callers cannot modify a cached
// document.
func cloneConfig(cfg EngineConfig) EngineConfig {
	cfg.Matching.Bands = append([]matching.ThresholdBand(nil), cfg.Matching.Bands...)
	return cfg
}

// newConfigValidator returns a validator with every custom tag used by
// EngineConfig registered.
func newConfigValidator() (*validator.Validate, error) {
	v := validator.New()

	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return nil, fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := matching.RegisterValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register matching validators: %w", err)
	}
	return v, nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}
