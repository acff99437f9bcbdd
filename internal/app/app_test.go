package app_test

import (
	"cloud-function-discovery/internal/app"
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/config"
	"cloud-function-discovery/internal/domain"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchEnvelope struct {
	Data  domain.SearchResponse `json:"data"`
	Error string                `json:"error"`
	Meta  domain.Meta           `json:"meta"`
}

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Store.Driver = config.DriverMemory
	cfg.Logging.Level = "error"
	return cfg
}

// fixedClock pins the clock to Wednesday 2026-10-14 15:00 in Dubai.
func fixedClock(t *testing.T) (*clock.Context, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)
	return clock.Fixed(loc, time.Date(2026, 10, 14, 15, 0, 0, 0, loc)), loc
}

func newApp(t *testing.T, cfg *config.Config) (*app.App, *time.Location) {
	t.Helper()
	clk, loc := fixedClock(t)
	a, err := app.New(context.Background(), cfg, clk)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	at := func(day, hour int) time.Time { return time.Date(2026, 10, day, hour, 0, 0, 0, loc).UTC() }
	events := []domain.Event{
		{ID: "brunch", Title: "Family brunch by the beach", Category: "food", Tags: []string{"family", "brunch"},
			VenueArea: "JBR", FamilyScore: 75, Price: 150, Status: domain.StatusActive, StartTime: at(17, 11), EndTime: at(17, 14)},
		{ID: "jazz", Title: "Jazz night", Category: "music", Tags: []string{"music", "concert"},
			VenueArea: "DIFC", FamilyScore: 20, Price: 200, Status: domain.StatusActive, StartTime: at(15, 20), EndTime: at(15, 23)},
		{ID: "market", Title: "Free weekend market", Category: "shopping", Tags: []string{"market"},
			VenueArea: "Al Seef", FamilyScore: 65, Price: 0, PriceLabel: "Free", Status: domain.StatusActive, StartTime: at(18, 9), EndTime: at(18, 17)},
	}
	for i := range events {
		require.NoError(t, a.Events.Save(context.Background(), &events[i]))
	}
	return a, loc
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeSearch(t *testing.T, w *httptest.ResponseRecorder) searchEnvelope {
	t.Helper()
	var env searchEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestApp_SearchWithLexicalFallback(t *testing.T) {
	a, _ := newApp(t, memoryConfig())

	w := get(t, a.Handler, "/search?q=family+events+this+weekend")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	env := decodeSearch(t, w)
	ids := make([]string, 0, len(env.Data.Events))
	for _, e := range env.Data.Events {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"brunch", "market"}, ids)
	assert.False(t, env.Data.AIEnabled)
	assert.True(t, env.Data.FallbackUsed)
	assert.Equal(t, "disabled", env.Data.FallbackReason)
	assert.Equal(t, "this_weekend", env.Data.QueryAnalysis.DateFilter)
	assert.Equal(t, w.Header().Get("X-Request-ID"), env.Meta.RequestID)
}

func TestApp_ValidationAndMetrics(t *testing.T) {
	a, _ := newApp(t, memoryConfig())

	w := get(t, a.Handler, "/search?q=&per_page=100")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeSearch(t, w).Error, "q is required")

	get(t, a.Handler, "/search?q=jazz")
	metrics := get(t, a.Handler, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	body, _ := io.ReadAll(metrics.Body)
	assert.Contains(t, string(body), `discovery_search_requests_total{outcome="invalid"} 1`)
	assert.Contains(t, string(body), `discovery_search_requests_total{outcome="ok"} 1`)
}

func TestApp_RecentSearches(t *testing.T) {
	a, _ := newApp(t, memoryConfig())
	get(t, a.Handler, "/search?q=jazz")

	assert.Eventually(t, func() bool {
		w := get(t, a.Handler, "/search/recent")
		return w.Code == http.StatusOK && strings.Contains(w.Body.String(), `"query":"jazz"`)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestApp_SearchWithModelRanking(t *testing.T) {
	var calls atomic.Int32
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		content := "```json\n" + `{"keywords":["jazz"],"categories":["music"],"ai_response":"One jazz night this week.",` +
			`"suggestions":["Live music"],"scored_events":[{"id":"jazz","score":"92","reason":"Live jazz"}]}` + "\n```"
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	defer model.Close()

	cfg := memoryConfig()
	cfg.Ranking.APIKey = "test-key"
	cfg.Ranking.BaseURL = model.URL
	a, _ := newApp(t, cfg)

	w := get(t, a.Handler, "/search?q=jazz+this+week")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeSearch(t, w)

	require.Len(t, env.Data.Events, 3)
	assert.Equal(t, "jazz", env.Data.Events[0].ID)
	assert.Equal(t, 92, env.Data.Events[0].AIScore)
	assert.Equal(t, "Live jazz", env.Data.Events[0].AIReasoning)
	for _, e := range env.Data.Events[1:] {
		assert.Equal(t, 40, e.AIScore, "events the model skipped get the default score")
	}
	assert.True(t, env.Data.AIEnabled)
	assert.False(t, env.Data.FallbackUsed)
	assert.Equal(t, "One jazz night this week.", env.Data.AIResponse)
	assert.Equal(t, int32(1), calls.Load())

	status := get(t, a.Handler, "/search/status")
	assert.Contains(t, status.Body.String(), `"breaker_state":"closed"`)
}
