package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in defaults without reading a file or the environment.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              5000,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
		},
		Store: StoreConfig{
			Driver:              DriverFirestore,
			EventsCollection:    "events",
			SearchLogCollection: "search_log",
			SeedCount:           200,
			SeedValue:           42,
		},
		Firestore: FirestoreConfig{
			DatabaseID: "(default)",
		},
		Ranking: RankingConfig{
			BaseURL:           "https://api.openai.com/v1",
			Model:             "gpt-4o-mini",
			Temperature:       0.3,
			MaxTokens:         1000,
			Timeout:           5 * time.Second,
			MaxCandidates:     15,
			DefaultScore:      40,
			RequestsPerMinute: 60,
			BreakerFailures:   5,
			BreakerCooldown:   30 * time.Second,
		},
		Search: SearchConfig{
			Timezone:             "Asia/Dubai",
			CandidatePool:        100,
			DayTypePool:          150,
			FallbackPool:         50,
			FamilyScoreThreshold: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, then the optional config file, then the
// environment, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envAliases maps the deployment's established variable names to config paths.
var envAliases = map[string]string{
	"port":                  "server.port",
	"app_env":               "server.environment",
	"local_only":            "server.local_only",
	"cors_allowed_origin":   "server.cors_origins",
	"google_cloud_project":  "firestore.project_id",
	"firestore_database_id": "firestore.database_id",
	"openai_api_key":        "ranking.api_key",
	"openai_model":          "ranking.model",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
}

// envSections are the prefixes mapped generically: SEARCH_DAY_TYPE_POOL -> search.day_type_pool.
var envSections = []string{"server", "store", "firestore", "ranking", "search", "logging"}

// envTransformFunc returns the config path of an environment variable, or "" to ignore it.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if path, ok := envAliases[key]; ok {
		return path
	}
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}
