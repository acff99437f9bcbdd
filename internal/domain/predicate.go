package domain

import (
	"fmt"
	"strings"
	"time"
)

// Field is a stored event field a condition can test.
type Field string

const (
	FieldStatus      Field = "status"
	FieldStartTime   Field = "start_time"
	FieldEndTime     Field = "end_time"
	FieldPrice       Field = "price"
	FieldPriceLabel  Field = "price_label"
	FieldVenueArea   Field = "venue_area"
	FieldCity        Field = "city"
	FieldCategory    Field = "category"
	FieldTags        Field = "tags"
	FieldFamilyScore Field = "family_score"
)

// Operator mirrors the document store's comparison operators.
type Operator string

const (
	OpEqual          Operator = "=="
	OpLessOrEqual    Operator = "<="
	OpGreaterOrEqual Operator = ">="
	OpIn             Operator = "in"
	OpContainsAny    Operator = "array-contains-any"
)

// Condition is a single field comparison. Value is a string, float64, time.Time or []string
// depending on the field and operator.
type Condition struct {
	Field Field
	Op    Operator
	Value interface{}
}

// Dimension names the intent a clause comes from. A predicate holds at most one clause per dimension.
type Dimension string

const (
	DimensionStatus         Dimension = "status"
	DimensionTemporal       Dimension = "temporal"
	DimensionPrice          Dimension = "price"
	DimensionLocation       Dimension = "location"
	DimensionCategory       Dimension = "category"
	DimensionFamily         Dimension = "family"
	DimensionAdultExclusion Dimension = "adult_exclusion"
)

// ClauseKind is how a clause combines its conditions.
type ClauseKind int

const (
	// ClauseAll requires every condition (conjunction).
	ClauseAll ClauseKind = iota
	// ClauseAny requires at least one condition (disjunction).
	ClauseAny
	// ClauseNone rejects events matching any condition (negated disjunction).
	ClauseNone
)

func (k ClauseKind) String() string {
	switch k {
	case ClauseAll:
		return "all"
	case ClauseAny:
		return "any"
	case ClauseNone:
		return "none"
	default:
		return fmt.Sprintf("ClauseKind(%d)", int(k))
	}
}

// Clause is one dimension's contribution to the top-level conjunction.
type Clause struct {
	Dimension  Dimension
	Kind       ClauseKind
	Conditions []Condition
}

// Predicate is a conjunction of clauses, each owned by a distinct dimension.
// The zero value matches every event.
type Predicate struct {
	clauses []Clause
}

// Add appends a clause. It fails with ErrDimensionConflict if the dimension already has one,
// and rejects clauses with no conditions.
func (p *Predicate) Add(c Clause) error {
	if len(c.Conditions) == 0 {
		return fmt.Errorf("clause %q has no conditions", c.Dimension)
	}
	if p.Has(c.Dimension) {
		return fmt.Errorf("%w: %s", ErrDimensionConflict, c.Dimension)
	}
	p.clauses = append(p.clauses, c)
	return nil
}

// Has reports whether a clause exists for the dimension.
func (p Predicate) Has(d Dimension) bool {
	_, ok := p.Clause(d)
	return ok
}

// Clause returns the clause of the given dimension.
func (p Predicate) Clause(d Dimension) (Clause, bool) {
	for _, c := range p.clauses {
		if c.Dimension == d {
			return c, true
		}
	}
	return Clause{}, false
}

// Clauses returns a copy of the clauses in insertion order.
func (p Predicate) Clauses() []Clause {
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

// Only returns a predicate keeping just the listed dimensions.
func (p Predicate) Only(dims ...Dimension) Predicate {
	var out Predicate
	for _, c := range p.clauses {
		for _, d := range dims {
			if c.Dimension == d {
				out.clauses = append(out.clauses, c)
				break
			}
		}
	}
	return out
}

// Match evaluates the predicate against an event in memory.
func (p Predicate) Match(e *Event) bool {
	for _, c := range p.clauses {
		if !c.Match(e) {
			return false
		}
	}
	return true
}

// Match evaluates one clause.
func (c Clause) Match(e *Event) bool {
	switch c.Kind {
	case ClauseAll:
		for _, cond := range c.Conditions {
			if !cond.Match(e) {
				return false
			}
		}
		return true
	case ClauseAny:
		for _, cond := range c.Conditions {
			if cond.Match(e) {
				return true
			}
		}
		return false
	case ClauseNone:
		for _, cond := range c.Conditions {
			if cond.Match(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Match evaluates one condition. String comparisons ignore case.
func (c Condition) Match(e *Event) bool {
	switch c.Op {
	case OpEqual:
		return equalValues(fieldValue(e, c.Field), c.Value)
	case OpLessOrEqual:
		cmp, ok := compareValues(fieldValue(e, c.Field), c.Value)
		return ok && cmp <= 0
	case OpGreaterOrEqual:
		cmp, ok := compareValues(fieldValue(e, c.Field), c.Value)
		return ok && cmp >= 0
	case OpIn:
		values, _ := c.Value.([]string)
		s, ok := fieldValue(e, c.Field).(string)
		if !ok {
			return false
		}
		for _, v := range values {
			if strings.EqualFold(s, v) {
				return true
			}
		}
		return false
	case OpContainsAny:
		values, _ := c.Value.([]string)
		have, ok := fieldValue(e, c.Field).([]string)
		if !ok {
			return false
		}
		for _, h := range have {
			for _, v := range values {
				if strings.EqualFold(h, v) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

func fieldValue(e *Event, f Field) interface{} {
	switch f {
	case FieldStatus:
		return e.Status
	case FieldStartTime:
		return e.StartTime
	case FieldEndTime:
		return e.End()
	case FieldPrice:
		return e.Price
	case FieldPriceLabel:
		return e.PriceLabel
	case FieldVenueArea:
		return e.VenueArea
	case FieldCity:
		return e.City
	case FieldCategory:
		return e.Category
	case FieldTags:
		return e.Tags
	case FieldFamilyScore:
		return e.FamilyScore
	default:
		return nil
	}
}

func equalValues(have, want interface{}) bool {
	switch w := want.(type) {
	case string:
		h, ok := have.(string)
		return ok && strings.EqualFold(h, w)
	case float64:
		h, ok := have.(float64)
		return ok && h == w
	case time.Time:
		h, ok := have.(time.Time)
		return ok && h.Equal(w)
	case bool:
		h, ok := have.(bool)
		return ok && h == w
	default:
		return false
	}
}

// compareValues returns -1, 0 or 1 comparing have to want; ok is false for incomparable types.
func compareValues(have, want interface{}) (int, bool) {
	switch w := want.(type) {
	case float64:
		h, ok := have.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case h < w:
			return -1, true
		case h > w:
			return 1, true
		}
		return 0, true
	case time.Time:
		h, ok := have.(time.Time)
		if !ok || h.IsZero() {
			return 0, false
		}
		return h.Compare(w), true
	default:
		return 0, false
	}
}

// EventQuery is what the event store executes: a predicate, an ordering field and a limit.
// With Sample set the store returns a random subset of up to Limit matches.
type EventQuery struct {
	Predicate Predicate
	OrderBy   Field
	Limit     int
	Sample    bool
}
