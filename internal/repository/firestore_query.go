package repository

import (
	"cloud-function-discovery/internal/domain"
	"fmt"
	"math/rand/v2"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// overFetchFactor widens the Firestore limit when some clauses are evaluated in memory
	// or the result is sampled.
	overFetchFactor = 3
	maxFetch        = 500
)

// Shuffler permutes n elements via swap. rand.Shuffle from math/rand/v2 is the default.
type Shuffler func(n int, swap func(i, j int))

func defaultShuffler(s Shuffler) Shuffler {
	if s == nil {
		return rand.Shuffle
	}
	return s
}

// partition splits the clauses into the ones Firestore can evaluate and the residual ones that
// must be checked in memory. Firestore has no negation over arrays and allows a single
// array-contains-any per query, so exclusion clauses and any extra array clause are residual.
func partition(p domain.Predicate) (pushdown, residual []domain.Clause) {
	arrayUsed := false
	for _, c := range p.Clauses() {
		if c.Kind == domain.ClauseNone {
			residual = append(residual, c)
			continue
		}
		if usesArrayOperator(c) {
			if arrayUsed {
				residual = append(residual, c)
				continue
			}
			arrayUsed = true
		}
		pushdown = append(pushdown, c)
	}
	return pushdown, residual
}

func usesArrayOperator(c domain.Clause) bool {
	for _, cond := range c.Conditions {
		if cond.Op == domain.OpContainsAny {
			return true
		}
	}
	return false
}

// entityFilter renders the pushdown clauses as one Firestore filter. ok is false when there
// is nothing to push down.
func entityFilter(clauses []domain.Clause) (firestore.EntityFilter, bool) {
	filters := make([]firestore.EntityFilter, 0, len(clauses))
	for _, c := range clauses {
		filters = append(filters, clauseFilter(c))
	}
	switch len(filters) {
	case 0:
		return nil, false
	case 1:
		return filters[0], true
	default:
		return firestore.AndFilter{Filters: filters}, true
	}
}

func clauseFilter(c domain.Clause) firestore.EntityFilter {
	props := make([]firestore.EntityFilter, 0, len(c.Conditions))
	for _, cond := range c.Conditions {
		props = append(props, firestore.PropertyFilter{
			Path:     string(cond.Field),
			Operator: string(cond.Op),
			Value:    cond.Value,
		})
	}
	if len(props) == 1 {
		return props[0]
	}
	if c.Kind == domain.ClauseAny {
		return firestore.OrFilter{Filters: props}
	}
	return firestore.AndFilter{Filters: props}
}

// fetchLimit is how many documents to read for a query.
func fetchLimit(q domain.EventQuery, hasResidual bool) int {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if hasResidual || q.Sample {
		limit *= overFetchFactor
	}
	if limit > maxFetch {
		limit = maxFetch
	}
	return limit
}

// finish applies the residual clauses, then samples or truncates to the query limit.
func finish(events []domain.Event, residual []domain.Clause, q domain.EventQuery, shuffle Shuffler) []domain.Event {
	if len(residual) > 0 {
		kept := events[:0]
		for i := range events {
			if matchAll(residual, &events[i]) {
				kept = append(kept, events[i])
			}
		}
		events = kept
	}
	if q.Sample {
		shuffle(len(events), func(i, j int) { events[i], events[j] = events[j], events[i] })
	}
	if q.Limit > 0 && len(events) > q.Limit {
		events = events[:q.Limit]
	}
	return events
}

func matchAll(clauses []domain.Clause, e *domain.Event) bool {
	for _, c := range clauses {
		if !c.Match(e) {
			return false
		}
	}
	return true
}

// retrievalError wraps a store failure with domain.ErrRetrieval, keeping the gRPC code.
func retrievalError(op string, err error) error {
	code := status.Code(err)
	if code == codes.Unknown {
		return fmt.Errorf("%w: %s: %v", domain.ErrRetrieval, op, err)
	}
	return fmt.Errorf("%w: %s: %s: %v", domain.ErrRetrieval, op, code, err)
}
