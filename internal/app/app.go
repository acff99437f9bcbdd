// Package app wires the search function from a configuration. Every component is constructed
// here and injected; nothing below this package holds process-wide state.
package app

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/config"
	"cloud-function-discovery/internal/filter"
	"cloud-function-discovery/internal/intent"
	"cloud-function-discovery/internal/logging"
	"cloud-function-discovery/internal/metrics"
	"cloud-function-discovery/internal/ranking"
	"cloud-function-discovery/internal/repository"
	"cloud-function-discovery/internal/seed"
	"cloud-function-discovery/internal/service"
	"cloud-function-discovery/internal/temporal"
	"cloud-function-discovery/internal/transport"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// App is a fully wired search function.
type App struct {
	Handler   http.Handler
	Search    service.SearchService
	SearchLog service.SearchLogService
	Events    repository.EventRepository
	Clock     *clock.Context
	Registry  *prometheus.Registry

	firestore *firestore.Client
}

// New builds the application. A nil clock uses the wall clock in the configured time zone.
func New(ctx context.Context, cfg *config.Config, clk *clock.Context) (*App, error) {
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if clk == nil {
		var err error
		clk, err = clock.NewForZone(cfg.Search.Timezone, nil)
		if err != nil {
			return nil, fmt.Errorf("clock: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a := &App{Clock: clk, Registry: reg}

	var logRepo repository.SearchLogRepository
	switch cfg.Store.Driver {
	case config.DriverMemory:
		a.Events = repository.NewMemoryEventRepository(nil)
		logRepo = repository.NewMemorySearchLogRepository(0)
	case config.DriverFirestore:
		client, err := firestore.NewClientWithDatabase(ctx, cfg.Firestore.ProjectID, cfg.Firestore.DatabaseID)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		a.firestore = client
		a.Events = repository.NewEventRepository(client, cfg.Store.EventsCollection, nil)
		logRepo = repository.NewSearchLogRepository(client, cfg.Store.SearchLogCollection)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Store.Seed {
		if err := a.seed(ctx, cfg); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	var (
		completer ranking.Completer
		status    service.RankingStatus
	)
	if cfg.Ranking.Enabled() {
		client := ranking.NewChatClient(ranking.ClientConfig{
			BaseURL:           cfg.Ranking.BaseURL,
			APIKey:            cfg.Ranking.APIKey,
			Model:             cfg.Ranking.Model,
			Temperature:       cfg.Ranking.Temperature,
			MaxTokens:         cfg.Ranking.MaxTokens,
			RequestsPerMinute: cfg.Ranking.RequestsPerMinute,
			BreakerFailures:   cfg.Ranking.BreakerFailures,
			BreakerCooldown:   cfg.Ranking.BreakerCooldown,
			Metrics:           m,
		})
		completer, status = client, client
	} else {
		logging.Warn().Msg("OPENAI_API_KEY not set, ranking uses the lexical scorer only")
	}
	orchestrator := ranking.NewOrchestrator(completer, clk, ranking.Options{
		MaxCandidates: cfg.Ranking.MaxCandidates,
		DefaultScore:  cfg.Ranking.DefaultScore,
		Timeout:       cfg.Ranking.Timeout,
	}, m)

	a.SearchLog = service.NewSearchLogService(logRepo)
	a.Search = service.NewSearchService(service.SearchDeps{
		Clock:    clk,
		Detector: intent.NewDetector(temporal.NewResolver(clk), nil),
		Builder: filter.NewBuilder(clk, filter.Options{
			CandidatePool:        cfg.Search.CandidatePool,
			DayTypePool:          cfg.Search.DayTypePool,
			FallbackPool:         cfg.Search.FallbackPool,
			FamilyScoreThreshold: cfg.Search.FamilyScoreThreshold,
		}),
		Events:  a.Events,
		Ranker:  orchestrator,
		Status:  status,
		Logs:    a.SearchLog,
		Metrics: m,
	})

	router := transport.NewRouter(a.Search, a.SearchLog, metrics.Handler(reg))
	api := transport.Chain(router, transport.Options{
		CORSOrigins:       cfg.Server.CORSOrigins,
		IsProduction:      cfg.Server.IsProduction(),
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	})
	swagger := httpSwagger.Handler(httpSwagger.DeepLinking(false))

	a.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Swagger UI needs scripts and styles, so it bypasses the API security headers.
		if strings.HasPrefix(r.URL.Path, "/swagger/") {
			swagger(w, r)
			return
		}
		api.ServeHTTP(w, r)
	})

	logging.Info().
		Str("store", cfg.Store.Driver).
		Bool("ai_enabled", cfg.Ranking.Enabled()).
		Str("timezone", clk.Location().String()).
		Str("version", service.Version).
		Msg("search function initialized")
	return a, nil
}

// seed fills the store with generated events. Against Firestore it only runs on the emulator.
func (a *App) seed(ctx context.Context, cfg *config.Config) error {
	if cfg.Store.Driver == config.DriverFirestore && os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		logging.Warn().Msg("store.seed ignored: seeding Firestore requires the emulator")
		return nil
	}
	events := seed.NewGenerator(a.Clock, cfg.Store.SeedValue).Events(cfg.Store.SeedCount)
	n, err := seed.Seed(ctx, a.Events, events)
	if err != nil {
		return fmt.Errorf("seed events: %w", err)
	}
	logging.Info().Int("events", n).Str("store", cfg.Store.Driver).Msg("seeded sample events")
	return nil
}

// Close releases the store connection.
func (a *App) Close() error {
	if a.firestore != nil {
		return a.firestore.Close()
	}
	return nil
}
