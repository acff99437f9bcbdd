package service

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/filter"
	"cloud-function-discovery/internal/intent"
	"cloud-function-discovery/internal/logging"
	"cloud-function-discovery/internal/metrics"
	"cloud-function-discovery/internal/ranking"
	"cloud-function-discovery/internal/repository"
	"cloud-function-discovery/internal/temporal"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Version is reported in every search response and by the status endpoint.
const Version = "2.1.0"

const searchLogTimeout = 5 * time.Second

// Search outcomes recorded in metrics.
const (
	outcomeOK      = "ok"
	outcomeEmpty   = "empty"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

type SearchService interface {
	Search(ctx context.Context, req domain.SearchRequestDTO) (*domain.SearchResponse, error)
	Status() domain.ServiceStatus
	DateFilters() []temporal.DateFilterOption
}

// Ranker scores a candidate list. *ranking.Orchestrator implements it.
type Ranker interface {
	Enabled() bool
	Score(ctx context.Context, query string, candidates []domain.CandidateEvent) ranking.Result
}

// RankingStatus describes the ranking backend. *ranking.ChatClient implements it.
type RankingStatus interface {
	Model() string
	BreakerState() string
}

// SearchDeps are the collaborators of the search service. Status, Logs and Metrics are optional.
type SearchDeps struct {
	Clock    *clock.Context
	Detector *intent.Detector
	Builder  *filter.Builder
	Events   repository.EventRepository
	Ranker   Ranker
	Status   RankingStatus
	Logs     SearchLogService
	Metrics  *metrics.Metrics
	Version  string
}

type searchService struct {
	clock     *clock.Context
	detector  *intent.Detector
	builder   *filter.Builder
	matcher   *temporal.Matcher
	events    repository.EventRepository
	ranker    Ranker
	status    RankingStatus
	logs      SearchLogService
	metrics   *metrics.Metrics
	assembler *Assembler
	version   string
}

func NewSearchService(deps SearchDeps) SearchService {
	version := deps.Version
	if version == "" {
		version = Version
	}
	return &searchService{
		clock:     deps.Clock,
		detector:  deps.Detector,
		builder:   deps.Builder,
		matcher:   temporal.NewMatcher(deps.Clock),
		events:    deps.Events,
		ranker:    deps.Ranker,
		status:    deps.Status,
		logs:      deps.Logs,
		metrics:   deps.Metrics,
		assembler: NewAssembler(version),
		version:   version,
	}
}

// Search runs one query through detection, retrieval, ranking and assembly. The only errors
// are a ValidationError for a malformed request and ErrRetrieval when the store fails.
func (s *searchService) Search(ctx context.Context, req domain.SearchRequestDTO) (*domain.SearchResponse, error) {
	started := time.Now()
	req.Query = strings.TrimSpace(req.Query)
	if err := domain.ValidateStruct(req); err != nil {
		s.metrics.ObserveSearch(outcomeInvalid, time.Since(started))
		return nil, err
	}
	log := logging.Ctx(ctx)

	fi := s.detector.Detect(req.Query)
	plan, err := s.builder.Build(&fi)
	if err != nil {
		// Build only fails on a plan with two clauses for one dimension.
		log.Error().Err(err).Str("query", req.Query).Msg("failed to build filter plan")
		s.metrics.ObserveSearch(outcomeError, time.Since(started))
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
	}

	candidates, err := s.retrieve(ctx, plan, fi.Temporal)
	if err == nil && len(candidates) == 0 {
		plan = s.builder.Widen(plan)
		log.Info().Str("query", req.Query).Msg("no candidates, widening search")
		candidates, err = s.retrieve(ctx, plan, fi.Temporal)
	}
	if err != nil {
		log.Error().Err(err).Str("query", req.Query).Bool("widened", plan.Widened).Msg("event retrieval failed")
		s.metrics.ObserveSearch(outcomeError, time.Since(started))
		return nil, err
	}
	s.metrics.ObserveCandidates(len(candidates), plan.Widened)

	result := s.ranker.Score(ctx, req.Query, candidates)

	resp := s.assembler.Assemble(Assembly{
		Query:      req.Query,
		Page:       req.Page,
		PerPage:    req.PerPage,
		Candidates: candidates,
		Ranking:    result,
		Analysis:   fi.Analysis(),
		Widened:    plan.Widened,
		AIEnabled:  s.ranker.Enabled(),
		Started:    started,
		Finished:   time.Now(),
	})

	outcome := outcomeOK
	if resp.Pagination.Total == 0 {
		outcome = outcomeEmpty
	}
	s.metrics.ObserveSearch(outcome, time.Since(started))
	log.Info().
		Str("query", req.Query).
		Int("total", resp.Pagination.Total).
		Bool("ai_used", result.AIUsed).
		Str("fallback_reason", string(result.FallbackReason)).
		Bool("widened", plan.Widened).
		Int64("processing_time_ms", resp.ProcessingTimeMS).
		Msg("search completed")

	s.recordSearch(ctx, domain.SearchLogEntry{
		Query:       req.Query,
		DateFilter:  resp.QueryAnalysis.DateFilter,
		ResultCount: resp.Pagination.Total,
		AIUsed:      result.AIUsed,
		Widened:     plan.Widened,
		UserAgent:   req.UserAgent,
	})
	return resp, nil
}

func (s *searchService) retrieve(ctx context.Context, plan filter.Plan, res *temporal.Resolution) ([]domain.CandidateEvent, error) {
	events, err := s.events.Find(ctx, plan.Query())
	if err != nil {
		if !errors.Is(err, domain.ErrRetrieval) {
			err = fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
		}
		return nil, err
	}

	candidates := make([]domain.CandidateEvent, len(events))
	for i := range events {
		candidates[i] = domain.CandidateEvent{Event: events[i], Position: i}
	}

	var rng *temporal.ResolvedRange
	if res != nil {
		rng = res.Range
	}
	s.matcher.Annotate(candidates, rng, plan.DayType)

	if plan.DayType == temporal.DayTypeNone {
		return candidates, nil
	}
	kept := s.matcher.FilterDayType(candidates, plan.DayType)
	if len(events) >= plan.Limit {
		logging.Ctx(ctx).Debug().
			Str("day_type", plan.DayType.String()).
			Int("fetched", len(events)).
			Int("kept", len(kept)).
			Msg("day-type pool exhausted, later matches may be missing")
	}
	return kept, nil
}

// recordSearch writes the search log entry in the background. Failures are logged and counted only.
func (s *searchService) recordSearch(ctx context.Context, entry domain.SearchLogEntry) {
	if s.logs == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, searchLogTimeout)
		defer cancel()
		if err := s.logs.Record(ctx, &entry); err != nil {
			s.metrics.IncSearchLogErrors()
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to record search")
		}
	}()
}

func (s *searchService) Status() domain.ServiceStatus {
	st := domain.ServiceStatus{
		AIEnabled: s.ranker.Enabled(),
		Timezone:  s.clock.Location().String(),
		Version:   s.version,
	}
	if st.AIEnabled && s.status != nil {
		st.Model = s.status.Model()
		st.BreakerState = s.status.BreakerState()
	}
	return st
}

func (s *searchService) DateFilters() []temporal.DateFilterOption {
	return temporal.AvailableDateFilters()
}
