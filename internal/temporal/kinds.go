package temporal

import "time"

// DateFilterKind is the date filter a temporal phrase resolves to.
type DateFilterKind string

const (
	Today       DateFilterKind = "today"
	Tomorrow    DateFilterKind = "tomorrow"
	ThisWeek    DateFilterKind = "this_week"
	NextWeek    DateFilterKind = "next_week"
	ThisWeekend DateFilterKind = "this_weekend"
	NextWeekend DateFilterKind = "next_weekend"
	ThisMonth   DateFilterKind = "this_month"
	NextMonth   DateFilterKind = "next_month"
	Weekdays    DateFilterKind = "weekdays"
	Weekends    DateFilterKind = "weekends"
)

// DayType is a weekday/weekend bucket. It cannot be expressed as one bounded range.
type DayType int

const (
	DayTypeNone DayType = iota
	DayTypeWeekday
	DayTypeWeekend
)

func (d DayType) String() string {
	switch d {
	case DayTypeWeekday:
		return "weekday"
	case DayTypeWeekend:
		return "weekend"
	default:
		return "none"
	}
}

// DayType returns the bucket for weekdays/weekends, DayTypeNone otherwise.
func (k DateFilterKind) DayType() DayType {
	switch k {
	case Weekdays:
		return DayTypeWeekday
	case Weekends:
		return DayTypeWeekend
	default:
		return DayTypeNone
	}
}

// ResolvedRange is a closed interval in the storage timezone. Start <= End.
type ResolvedRange struct {
	Start time.Time
	End   time.Time
	Kind  DateFilterKind
}

// Resolution is the outcome of resolving a query. Exactly one of Range and DayType is set.
type Resolution struct {
	Kind       DateFilterKind
	Phrase     string
	Range      *ResolvedRange
	DayType    DayType
	Confidence float64
}

// DateFilterOption describes a date filter for clients.
type DateFilterOption struct {
	Value       DateFilterKind `json:"value"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
}

// AvailableDateFilters lists every supported date filter.
func AvailableDateFilters() []DateFilterOption {
	return []DateFilterOption{
		{Value: Today, Label: "Today", Description: "Events happening today"},
		{Value: Tomorrow, Label: "Tomorrow", Description: "Events happening tomorrow"},
		{Value: ThisWeek, Label: "This Week", Description: "Events this week (Mon-Sun)"},
		{Value: NextWeek, Label: "Next Week", Description: "Events next week"},
		{Value: ThisWeekend, Label: "This Weekend", Description: "Events this weekend (Sat-Sun)"},
		{Value: NextWeekend, Label: "Next Weekend", Description: "Events next weekend"},
		{Value: ThisMonth, Label: "This Month", Description: "Events this month"},
		{Value: NextMonth, Label: "Next Month", Description: "Events next month"},
		{Value: Weekdays, Label: "Weekdays Only", Description: "Events on Mon-Fri"},
		{Value: Weekends, Label: "Weekends Only", Description: "Events on Sat-Sun"},
	}
}
