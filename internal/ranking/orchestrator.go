// Package ranking scores search candidates with one bounded call to an external language
// model and falls back to a deterministic lexical scorer when that call fails.
package ranking

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/logging"
	"cloud-function-discovery/internal/metrics"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// FallbackReason says why the lexical scorer was used. It is empty when the model was used.
type FallbackReason string

const (
	ReasonNone         FallbackReason = ""
	ReasonDisabled     FallbackReason = "disabled"
	ReasonNoCandidates FallbackReason = "no_candidates"
	ReasonTimeout      FallbackReason = "timeout"
	ReasonCircuitOpen  FallbackReason = "circuit_open"
	ReasonRateLimited  FallbackReason = "rate_limited"
	ReasonHTTPError    FallbackReason = "http_error"
	ReasonParseError   FallbackReason = "parse_error"
)

const (
	additionalReason = "Additional result"
	defaultReason    = "Relevant to your search"
)

var (
	fallbackSuggestions = []string{"Try different dates", "Explore categories", "Family events"}
	disabledSuggestions = []string{"Family events", "Weekend activities", "Indoor fun"}
)

// Options bounds the ranking stage.
type Options struct {
	MaxCandidates int
	DefaultScore  int
	Timeout       time.Duration
}

func DefaultOptions() Options {
	return Options{MaxCandidates: 15, DefaultScore: 40, Timeout: 5 * time.Second}
}

// Result is the ranking of one candidate list. Scores has one entry per candidate, in
// candidate order, each with a non-empty reason.
type Result struct {
	Scores         []domain.ScoredEvent
	Summary        string
	Suggestions    []string
	Keywords       []string
	Categories     []string
	AIUsed         bool
	FallbackReason FallbackReason
	Stage          Stage
}

type Orchestrator struct {
	client  Completer
	clock   *clock.Context
	opts    Options
	metrics *metrics.Metrics
}

// NewOrchestrator returns an orchestrator. A nil client disables the model and every call
// uses the lexical scorer.
func NewOrchestrator(client Completer, c *clock.Context, opts Options, m *metrics.Metrics) *Orchestrator {
	def := DefaultOptions()
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = def.MaxCandidates
	}
	if opts.DefaultScore <= 0 {
		opts.DefaultScore = def.DefaultScore
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	return &Orchestrator{client: client, clock: c, opts: opts, metrics: m}
}

// Enabled reports whether a model client is configured.
func (o *Orchestrator) Enabled() bool {
	return o.client != nil
}

// Score ranks candidates. It never fails: every error of the model call is absorbed into a
// lexical fallback and reported through Result.FallbackReason.
func (o *Orchestrator) Score(ctx context.Context, query string, candidates []domain.CandidateEvent) Result {
	start := time.Now()
	res := o.score(ctx, query, candidates)
	o.metrics.ObserveRanking(res.AIUsed, string(res.FallbackReason), time.Since(start))
	return res
}

func (o *Orchestrator) score(ctx context.Context, query string, candidates []domain.CandidateEvent) Result {
	if len(candidates) == 0 {
		return Result{Scores: []domain.ScoredEvent{}, FallbackReason: ReasonNoCandidates}
	}
	if o.client == nil {
		return o.fallback(query, candidates, ReasonDisabled)
	}

	scorable := candidates
	if len(candidates) > o.opts.MaxCandidates {
		picked := topLexical(query, candidates, o.opts.MaxCandidates)
		scorable = make([]domain.CandidateEvent, len(picked))
		for i, idx := range picked {
			scorable[i] = candidates[idx]
		}
	}

	user, err := userPrompt(o.clock, query, scorable)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("ranking prompt failed")
		return o.fallback(query, candidates, ReasonParseError)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	raw, err := o.client.Complete(callCtx, systemPrompt(o.clock), user)
	if err != nil {
		reason := classify(err)
		logging.Ctx(ctx).Warn().Err(err).Str("reason", string(reason)).Msg("ranking service failed, using lexical fallback")
		return o.fallback(query, candidates, reason)
	}

	parsed, ok := Extract(raw).(Parsed)
	if !ok {
		logging.Ctx(ctx).Warn().Str("reason", string(ReasonParseError)).Int("raw_length", len(raw)).Msg("ranking output not parseable, using lexical fallback")
		return o.fallback(query, candidates, ReasonParseError)
	}

	scores, matched := o.repair(parsed.Payload.ScoredEvents, scorable, candidates)
	if matched == 0 {
		logging.Ctx(ctx).Warn().Str("stage", string(parsed.Stage)).Msg("ranking output scored no known candidate, using lexical fallback")
		return o.fallback(query, candidates, ReasonParseError)
	}

	if parsed.Stage != StageDirect {
		logging.Ctx(ctx).Debug().Str("stage", string(parsed.Stage)).Msg("ranking output recovered")
	}

	p := parsed.Payload
	summary := strings.TrimSpace(p.AIResponse)
	if summary == "" {
		summary = fmt.Sprintf("Found %d events matching %q.", len(candidates), query)
	}
	suggestions := nonEmpty(p.Suggestions)
	if len(suggestions) == 0 {
		suggestions = append([]string(nil), fallbackSuggestions...)
	}
	return Result{
		Scores:      scores,
		Summary:     summary,
		Suggestions: suggestions,
		Keywords:    nonEmpty(p.Keywords),
		Categories:  nonEmpty(p.Categories),
		AIUsed:      true,
		Stage:       parsed.Stage,
	}
}

// repair turns the model's records into exactly one score per candidate. Only ids that were
// sent to the model are accepted; unknown and duplicate ids are dropped, scores are clamped to
// 0..100, empty reasons are filled and every other candidate gets the default score.
func (o *Orchestrator) repair(raw []RawScore, sent, candidates []domain.CandidateEvent) ([]domain.ScoredEvent, int) {
	byID := make(map[string]RawScore, len(raw))
	known := make(map[string]struct{}, len(sent))
	for i := range sent {
		known[sent[i].Event.ID] = struct{}{}
	}
	for _, r := range raw {
		id := strings.TrimSpace(r.ID)
		if _, ok := known[id]; !ok || !r.Score.Valid() {
			continue
		}
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = r
	}

	out := make([]domain.ScoredEvent, len(candidates))
	for i := range candidates {
		id := candidates[i].Event.ID
		r, ok := byID[id]
		if !ok {
			out[i] = domain.ScoredEvent{EventID: id, Score: o.opts.DefaultScore, Reason: additionalReason}
			continue
		}
		reason := strings.TrimSpace(r.Reason)
		if reason == "" {
			reason = defaultReason
		}
		out[i] = domain.ScoredEvent{EventID: id, Score: clamp(int(math.Round(float64(r.Score)))), Reason: reason}
	}
	return out, len(byID)
}

func (o *Orchestrator) fallback(query string, candidates []domain.CandidateEvent, reason FallbackReason) Result {
	suggestions := fallbackSuggestions
	summary := fmt.Sprintf("Found %d events matching your search.", len(candidates))
	if reason == ReasonDisabled {
		suggestions = disabledSuggestions
		summary = fmt.Sprintf("Found %d events matching %q.", len(candidates), query)
	}
	return Result{
		Scores:         LexicalScores(query, candidates),
		Summary:        summary,
		Suggestions:    append([]string(nil), suggestions...),
		FallbackReason: reason,
	}
}

func classify(err error) FallbackReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ReasonCircuitOpen
	case errors.Is(err, ErrRateLimited):
		return ReasonRateLimited
	default:
		return ReasonHTTPError
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
