// Package config loads the function configuration from defaults, an optional YAML file and the
// environment, in that order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Store drivers.
const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Firestore FirestoreConfig `koanf:"firestore"`
	Ranking   RankingConfig   `koanf:"ranking"`
	Search    SearchConfig    `koanf:"search"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	Environment       string        `koanf:"environment" validate:"oneof=development production"`
	LocalOnly         bool          `koanf:"local_only"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// IsProduction reports whether the function runs with production security settings.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type StoreConfig struct {
	Driver              string `koanf:"driver" validate:"oneof=firestore memory"`
	EventsCollection    string `koanf:"events_collection" validate:"required"`
	SearchLogCollection string `koanf:"search_log_collection" validate:"required"`
	// Seed fills an empty store with generated events. Only honoured for the memory driver and
	// the Firestore emulator.
	Seed      bool  `koanf:"seed"`
	SeedCount int   `koanf:"seed_count" validate:"gte=0,lte=5000"`
	SeedValue int64 `koanf:"seed_value"`
}

type FirestoreConfig struct {
	ProjectID  string `koanf:"project_id"`
	DatabaseID string `koanf:"database_id"`
}

type RankingConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	Model             string        `koanf:"model" validate:"required"`
	Temperature       float64       `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens         int           `koanf:"max_tokens" validate:"gte=1"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxCandidates     int           `koanf:"max_candidates" validate:"gte=1,lte=50"`
	DefaultScore      int           `koanf:"default_score" validate:"gte=0,lte=100"`
	RequestsPerMinute int           `koanf:"requests_per_minute" validate:"gte=1"`
	BreakerFailures   int           `koanf:"breaker_failures" validate:"gte=1"`
	BreakerCooldown   time.Duration `koanf:"breaker_cooldown" validate:"gt=0"`
}

// Enabled reports whether a model key is configured. Without one every search uses the
// lexical scorer.
func (r RankingConfig) Enabled() bool {
	return r.APIKey != ""
}

type SearchConfig struct {
	Timezone             string  `koanf:"timezone" validate:"required"`
	CandidatePool        int     `koanf:"candidate_pool" validate:"gte=1,lte=500"`
	DayTypePool          int     `koanf:"day_type_pool" validate:"gte=1,lte=500"`
	FallbackPool         int     `koanf:"fallback_pool" validate:"gte=1,lte=500"`
	FamilyScoreThreshold float64 `koanf:"family_score_threshold" validate:"gte=0,lte=100"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

var validate = validator.New()

// Validate checks the struct tags and the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Search.Timezone); err != nil {
		return fmt.Errorf("search.timezone: %w", err)
	}
	if c.Store.Driver == DriverFirestore && c.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore.project_id is required for the firestore driver (set GOOGLE_CLOUD_PROJECT)")
	}
	if c.Search.DayTypePool < c.Search.CandidatePool {
		return fmt.Errorf("search.day_type_pool (%d) must not be smaller than search.candidate_pool (%d)",
			c.Search.DayTypePool, c.Search.CandidatePool)
	}
	return nil
}
