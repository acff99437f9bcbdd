package transport

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/logging"
	"cloud-function-discovery/internal/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

const defaultRecentLimit = 20

var errRateLimited = errors.New("too many requests")

// NewRouter initializes the main HTTP handler using Go 1.22+ ServeMux.
// metrics may be nil, in which case /metrics is not served.
func NewRouter(searchSvc service.SearchService, logSvc service.SearchLogService, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	searchHandler := NewSearchHandler(searchSvc, logSvc)
	mux.Handle("/search", searchHandler)
	mux.Handle("/search/", searchHandler)

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	return mux
}

// --- Search Handler ---

type SearchHandler struct {
	search service.SearchService
	logs   service.SearchLogService
	mux    *http.ServeMux
}

func NewSearchHandler(search service.SearchService, logs service.SearchLogService) *SearchHandler {
	h := &SearchHandler{
		search: search,
		logs:   logs,
		mux:    http.NewServeMux(),
	}
	h.routes()
	return h
}

func (h *SearchHandler) routes() {
	h.mux.HandleFunc("GET /search", h.handleSearch)
	h.mux.HandleFunc("GET /search/{$}", h.handleSearch)
	h.mux.HandleFunc("GET /search/status", h.handleStatus)
	h.mux.HandleFunc("GET /search/date-filters", h.handleDateFilters)
	h.mux.HandleFunc("GET /search/recent", h.handleRecent)
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.mux.ServeHTTP(w, r)
}

// handleSearch runs a natural-language event search
// @Summary Search Events
// @Description Search upcoming events with a free-text query such as "kids activities this weekend in Dubai Marina".
// @Description Temporal phrases, price, location, category and family intent are detected from the text.
// @Tags search
// @Produce json
// @Param q query string true "Search text"
// @Param page query int false "Page number, 1-10000 (default 1)"
// @Param per_page query int false "Results per page, 1-50 (default 20)"
// @Success 200 {object} domain.APIResponse{data=domain.SearchResponse}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Failure 503 {object} domain.APIResponse{error=string}
// @Router /search [get]
func (h *SearchHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), "page", domain.DefaultPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	perPage, err := intParam(q.Get("per_page"), "per_page", domain.DefaultPerPage)
	if err != nil {
		respondError(w, r, err)
		return
	}

	req := domain.SearchRequestDTO{
		Query:     q.Get("q"),
		Page:      page,
		PerPage:   perPage,
		UserAgent: r.UserAgent(),
	}

	resp, err := h.search.Search(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, resp)
}

// handleStatus reports the ranking configuration
// @Summary Search Status
// @Description Whether AI ranking is enabled, the model in use and the circuit breaker state.
// @Tags search
// @Produce json
// @Success 200 {object} domain.APIResponse{data=domain.ServiceStatus}
// @Router /search/status [get]
func (h *SearchHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.search.Status())
}

// handleDateFilters lists the supported date filters
// @Summary Date Filters
// @Description The date filters a query can resolve to, with labels for clients.
// @Tags search
// @Produce json
// @Success 200 {object} domain.APIResponse{data=[]temporal.DateFilterOption}
// @Router /search/date-filters [get]
func (h *SearchHandler) handleDateFilters(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.search.DateFilters())
}

// handleRecent lists recently executed searches
// @Summary Recent Searches
// @Description The most recent searches, newest first.
// @Tags search
// @Produce json
// @Param limit query int false "Maximum entries (default 20, max 100)"
// @Success 200 {object} domain.APIResponse{data=[]domain.SearchLogDTO}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Router /search/recent [get]
func (h *SearchHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), "limit", defaultRecentLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if limit < 1 {
		respondError(w, r, domain.ErrValidation("limit must be at least 1"))
		return
	}

	entries, err := h.logs.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]domain.SearchLogDTO, len(entries))
	for i := range entries {
		out[i] = domain.SearchLogToDTO(&entries[i])
	}
	respond(w, r, http.StatusOK, out)
}

func intParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrValidation(name + " must be an integer")
	}
	return v, nil
}

func meta(r *http.Request) *domain.Meta {
	if id := logging.RequestIDFromContext(r.Context()); id != "" {
		return &domain.Meta{RequestID: id}
	}
	return nil
}

func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	resp := domain.APIResponse{Data: data}
	if m := meta(r); m != nil {
		resp.Meta = m
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.As(err, &verr):
		status, msg = http.StatusBadRequest, verr.Message
	case errors.Is(err, errRateLimited):
		status, msg = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrRetrieval):
		status, msg = http.StatusServiceUnavailable, "events are temporarily unavailable, please retry"
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
	}

	resp := domain.APIResponse{Error: msg}
	if m := meta(r); m != nil {
		resp.Meta = m
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
