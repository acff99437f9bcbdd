// Package filter turns a detected intent into a retrieval plan: one predicate clause per intent
// dimension, joined by a single top-level conjunction.
package filter

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/intent"
	"cloud-function-discovery/internal/temporal"
	"fmt"
)

const (
	BudgetMaxPrice  = 100.0
	PremiumMinPrice = 300.0
)

var (
	// FamilyTags mark an event as suitable for families regardless of its score.
	FamilyTags = []string{"family-friendly", "family", "kids", "children"}
	// AdultTags mark adult-only or nightlife events, excluded whenever family intent is present.
	AdultTags = []string{"nightlife", "nightclub", "bar", "adults-only", "adults only", "18+", "21+"}
)

const nightlifeCategory = "nightlife"

// Options sizes the retrieval pools.
type Options struct {
	CandidatePool        int
	DayTypePool          int
	FallbackPool         int
	FamilyScoreThreshold float64
}

// DefaultOptions are the production pool sizes.
func DefaultOptions() Options {
	return Options{
		CandidatePool:        100,
		DayTypePool:          150,
		FallbackPool:         50,
		FamilyScoreThreshold: 60,
	}
}

// Plan is a retrieval request plus the post-retrieval day-type filter.
type Plan struct {
	Predicate domain.Predicate
	DayType   temporal.DayType
	OrderBy   domain.Field
	Limit     int
	// Sample asks the store for a randomized subset of the matches instead of the first Limit.
	Sample  bool
	Widened bool
}

// Query is the store-facing part of the plan.
func (p Plan) Query() domain.EventQuery {
	return domain.EventQuery{
		Predicate: p.Predicate,
		OrderBy:   p.OrderBy,
		Limit:     p.Limit,
		Sample:    p.Sample,
	}
}

// Builder is stateless apart from its options and clock, and safe for concurrent use.
type Builder struct {
	clock *clock.Context
	opts  Options
}

func NewBuilder(c *clock.Context, opts Options) *Builder {
	def := DefaultOptions()
	if opts.CandidatePool <= 0 {
		opts.CandidatePool = def.CandidatePool
	}
	if opts.DayTypePool <= 0 {
		opts.DayTypePool = def.DayTypePool
	}
	if opts.FallbackPool <= 0 {
		opts.FallbackPool = def.FallbackPool
	}
	if opts.FamilyScoreThreshold <= 0 {
		opts.FamilyScoreThreshold = def.FamilyScoreThreshold
	}
	return &Builder{clock: c, opts: opts}
}

// Build composes the primary plan for an intent.
func (b *Builder) Build(fi *intent.FilterIntent) (Plan, error) {
	plan := Plan{
		OrderBy: domain.FieldStartTime,
		Limit:   b.opts.CandidatePool,
	}

	clauses := []domain.Clause{b.statusClause()}

	if t := fi.Temporal; t != nil {
		if t.Range != nil {
			clauses = append(clauses, domain.Clause{
				Dimension:  domain.DimensionTemporal,
				Kind:       domain.ClauseAll,
				Conditions: temporal.OverlapConditions(*t.Range),
			})
		} else if t.DayType != temporal.DayTypeNone {
			plan.DayType = t.DayType
			plan.Limit = b.opts.DayTypePool
		}
	}

	if c, ok := priceClause(fi.PriceTier); ok {
		clauses = append(clauses, c)
	}

	if len(fi.Locations) > 0 {
		clauses = append(clauses, domain.Clause{
			Dimension: domain.DimensionLocation,
			Kind:      domain.ClauseAny,
			Conditions: []domain.Condition{
				{Field: domain.FieldVenueArea, Op: domain.OpIn, Value: copyStrings(fi.Locations)},
			},
		})
	}

	if len(fi.Categories) > 0 {
		conds := []domain.Condition{
			{Field: domain.FieldCategory, Op: domain.OpIn, Value: copyStrings(fi.Categories)},
		}
		if len(fi.CategoryTerms) > 0 {
			conds = append(conds, domain.Condition{Field: domain.FieldTags, Op: domain.OpContainsAny, Value: copyStrings(fi.CategoryTerms)})
		}
		clauses = append(clauses, domain.Clause{
			Dimension:  domain.DimensionCategory,
			Kind:       domain.ClauseAny,
			Conditions: conds,
		})
	}

	// Family intent always brings both the inclusion and the exclusion clause.
	if fi.Family {
		clauses = append(clauses,
			domain.Clause{
				Dimension: domain.DimensionFamily,
				Kind:      domain.ClauseAny,
				Conditions: []domain.Condition{
					{Field: domain.FieldFamilyScore, Op: domain.OpGreaterOrEqual, Value: b.opts.FamilyScoreThreshold},
					{Field: domain.FieldTags, Op: domain.OpContainsAny, Value: copyStrings(FamilyTags)},
				},
			},
			domain.Clause{
				Dimension: domain.DimensionAdultExclusion,
				Kind:      domain.ClauseNone,
				Conditions: []domain.Condition{
					{Field: domain.FieldTags, Op: domain.OpContainsAny, Value: copyStrings(AdultTags)},
					{Field: domain.FieldCategory, Op: domain.OpEqual, Value: nightlifeCategory},
				},
			},
		)
	}

	for _, c := range clauses {
		if err := plan.Predicate.Add(c); err != nil {
			return Plan{}, fmt.Errorf("build filter: %w", err)
		}
	}
	return plan, nil
}

// Widen relaxes a plan that found nothing: only the status and temporal clauses survive and
// the store samples from the result. Widening a widened plan returns it unchanged.
func (b *Builder) Widen(p Plan) Plan {
	if p.Widened {
		return p
	}
	return Plan{
		Predicate: p.Predicate.Only(domain.DimensionStatus, domain.DimensionTemporal),
		DayType:   p.DayType,
		OrderBy:   p.OrderBy,
		Limit:     b.opts.FallbackPool,
		Sample:    true,
		Widened:   true,
	}
}

// statusClause keeps active events that have not ended yet.
func (b *Builder) statusClause() domain.Clause {
	return domain.Clause{
		Dimension: domain.DimensionStatus,
		Kind:      domain.ClauseAll,
		Conditions: []domain.Condition{
			{Field: domain.FieldStatus, Op: domain.OpEqual, Value: domain.StatusActive},
			{Field: domain.FieldEndTime, Op: domain.OpGreaterOrEqual, Value: b.clock.ToStorage(b.clock.Now())},
		},
	}
}

func priceClause(tier string) (domain.Clause, bool) {
	c := domain.Clause{Dimension: domain.DimensionPrice}
	switch tier {
	case intent.PriceFree:
		c.Kind = domain.ClauseAny
		c.Conditions = []domain.Condition{
			{Field: domain.FieldPriceLabel, Op: domain.OpEqual, Value: "free"},
			{Field: domain.FieldPrice, Op: domain.OpEqual, Value: 0.0},
		}
	case intent.PriceBudget:
		c.Kind = domain.ClauseAll
		c.Conditions = []domain.Condition{{Field: domain.FieldPrice, Op: domain.OpLessOrEqual, Value: BudgetMaxPrice}}
	case intent.PricePremium:
		c.Kind = domain.ClauseAll
		c.Conditions = []domain.Condition{{Field: domain.FieldPrice, Op: domain.OpGreaterOrEqual, Value: PremiumMinPrice}}
	default:
		return domain.Clause{}, false
	}
	return c, true
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
