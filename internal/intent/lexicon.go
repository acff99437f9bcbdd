// Package intent detects the non-temporal search intents of a query (price tier, location,
// category, family and age group) from a data-driven lexicon.
package intent

import (
	"fmt"
	"regexp"
)

// Kind is the intent dimension a lexicon entry contributes to.
type Kind int

const (
	KindPrice Kind = iota
	KindLocation
	KindCategory
	KindFamily
	KindAgeGroup
)

func (k Kind) String() string {
	switch k {
	case KindPrice:
		return "price"
	case KindLocation:
		return "location"
	case KindCategory:
		return "category"
	case KindFamily:
		return "family"
	case KindAgeGroup:
		return "age_group"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Price tiers.
const (
	PriceFree    = "free"
	PriceBudget  = "budget"
	PricePremium = "premium"
)

// Age groups. Toddlers and kids imply family intent.
const (
	AgeToddlers  = "toddlers"
	AgeKids      = "kids"
	AgeTeenagers = "teenagers"
	AgeAdults    = "adults"
	AgeSeniors   = "seniors"
)

// Entry is one row of the lexicon. Pattern is matched against the lower-cased query.
// Value is the canonical intent value (a price tier, venue area, category or age group) and
// Terms are extra stored values the entry should match, such as event tags for a category.
type Entry struct {
	Pattern string
	Kind    Kind
	Value   string
	Terms   []string
}

type compiledEntry struct {
	Entry
	re *regexp.Regexp
}

// Lexicon is an immutable, ordered list of entries. Within a kind, earlier entries win the
// text they match, so "palm jumeirah" does not also count as "jumeirah".
type Lexicon struct {
	entries []compiledEntry
}

// NewLexicon compiles the given entries.
func NewLexicon(entries []Entry) (*Lexicon, error) {
	compiled := make([]compiledEntry, 0, len(entries))
	for _, e := range entries {
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lexicon entry %s/%s: %w", e.Kind, e.Value, err)
		}
		compiled = append(compiled, compiledEntry{Entry: e, re: re})
	}
	return &Lexicon{entries: compiled}, nil
}

// DefaultLexicon returns the built-in Dubai lexicon.
func DefaultLexicon() *Lexicon {
	lx, err := NewLexicon(defaultEntries)
	if err != nil {
		panic(err)
	}
	return lx
}

// Match is a lexicon entry found in a query.
type Match struct {
	Entry  Entry
	Phrase string
}

// Scan returns every entry that matches q, in lexicon order. q must already be lower-cased.
func (l *Lexicon) Scan(q string) []Match {
	masked := map[Kind][]byte{}
	var out []Match
	for _, e := range l.entries {
		text, ok := masked[e.Kind]
		if !ok {
			text = []byte(q)
			masked[e.Kind] = text
		}
		loc := e.re.FindIndex(text)
		if loc == nil {
			continue
		}
		out = append(out, Match{Entry: e.Entry, Phrase: q[loc[0]:loc[1]]})
		for i := loc[0]; i < loc[1]; i++ {
			text[i] = ' '
		}
	}
	return out
}

var defaultEntries = []Entry{
	// Price. Only the first matching tier is used.
	{Pattern: `\b(free|no\s+cost|complimentary|free\s+entry)\b`, Kind: KindPrice, Value: PriceFree},
	{Pattern: `\b(cheap|budget|affordable|low[\s-]cost|inexpensive)\b`, Kind: KindPrice, Value: PriceBudget},
	{Pattern: `\b(luxury|premium|vip|exclusive|high[\s-]end|upscale)\b`, Kind: KindPrice, Value: PricePremium},

	// Locations, longest names first.
	{Pattern: `\bpalm\s+jumeirah\b|\bthe\s+palm\b`, Kind: KindLocation, Value: "Palm Jumeirah"},
	{Pattern: `\bjumeirah\s+beach\s+residence\b|\bjbr\b`, Kind: KindLocation, Value: "JBR"},
	{Pattern: `\b(dubai\s+)?marina\b`, Kind: KindLocation, Value: "Dubai Marina"},
	{Pattern: `\bdowntown(\s+dubai)?\b`, Kind: KindLocation, Value: "Downtown Dubai"},
	{Pattern: `\bbusiness\s+bay\b`, Kind: KindLocation, Value: "Business Bay"},
	{Pattern: `\bbur\s+dubai\b`, Kind: KindLocation, Value: "Bur Dubai"},
	{Pattern: `\bdeira\b`, Kind: KindLocation, Value: "Deira"},
	{Pattern: `\bdifc\b`, Kind: KindLocation, Value: "DIFC"},
	{Pattern: `\bcity\s+walk\b`, Kind: KindLocation, Value: "City Walk"},
	{Pattern: `\bla\s+mer\b`, Kind: KindLocation, Value: "La Mer"},
	{Pattern: `\bkite\s+beach\b`, Kind: KindLocation, Value: "Kite Beach"},
	{Pattern: `\bdubai\s+hills\b`, Kind: KindLocation, Value: "Dubai Hills"},
	{Pattern: `\bal\s+seef\b`, Kind: KindLocation, Value: "Al Seef"},
	{Pattern: `\bfestival\s+city\b`, Kind: KindLocation, Value: "Festival City"},
	{Pattern: `\bglobal\s+village\b`, Kind: KindLocation, Value: "Global Village"},
	{Pattern: `\bdubai\s+mall\b`, Kind: KindLocation, Value: "Dubai Mall"},
	{Pattern: `\bmall\s+of\s+(the\s+)?emirates\b`, Kind: KindLocation, Value: "Mall of the Emirates"},
	{Pattern: `\bsilicon\s+oasis\b`, Kind: KindLocation, Value: "Silicon Oasis"},
	{Pattern: `\b(old\s+dubai|creek)\b`, Kind: KindLocation, Value: "Old Dubai"},
	{Pattern: `\bjumeirah\b`, Kind: KindLocation, Value: "Jumeirah"},

	// Categories. Terms are the tags that also count as the category.
	{Pattern: `\b(music|concerts?|gigs?|live\s+band|dj)\b`, Kind: KindCategory, Value: "music", Terms: []string{"music", "concert", "live-music"}},
	{Pattern: `\b(art|arts|gallery|galleries|exhibitions?|museums?|theatre|theater)\b`, Kind: KindCategory, Value: "arts", Terms: []string{"arts", "art", "exhibition", "theatre"}},
	{Pattern: `\b(sports?|fitness|football|yoga|running|cycling|swimming)\b`, Kind: KindCategory, Value: "sports", Terms: []string{"sports", "fitness", "yoga"}},
	{Pattern: `\b(food|brunch|dining|restaurants?|culinary|cooking)\b`, Kind: KindCategory, Value: "food", Terms: []string{"food", "dining", "brunch"}},
	{Pattern: `\b(outdoors?|beach|parks?|desert|hiking|camping|adventure)\b`, Kind: KindCategory, Value: "outdoor", Terms: []string{"outdoor", "adventure", "parks", "beach"}},
	{Pattern: `\b(workshops?|science|learning|classes|educational|stem)\b`, Kind: KindCategory, Value: "educational", Terms: []string{"educational", "workshops", "science"}},
	{Pattern: `\b(culture|cultural|heritage|traditional)\b`, Kind: KindCategory, Value: "cultural", Terms: []string{"cultural", "heritage"}},
	{Pattern: `\b(shopping|markets?|bazaar|souk)\b`, Kind: KindCategory, Value: "shopping", Terms: []string{"shopping", "market", "lifestyle"}},
	{Pattern: `\b(comedy|shows?|cinema|films?|movies?)\b`, Kind: KindCategory, Value: "entertainment", Terms: []string{"entertainment", "shows", "comedy"}},
	{Pattern: `\b(nightlife|party|parties|club|clubbing)\b`, Kind: KindCategory, Value: "nightlife", Terms: []string{"nightlife", "party"}},

	// Family signals.
	{Pattern: `\b(family|families|family-friendly|kid-friendly|child-friendly|all[\s-]ages)\b`, Kind: KindFamily, Value: "family"},

	// Age groups. Only the first matching group is used.
	{Pattern: `\b(baby|babies|infants?|toddlers?)\b`, Kind: KindAgeGroup, Value: AgeToddlers},
	{Pattern: `\b(kids?|children|child)\b`, Kind: KindAgeGroup, Value: AgeKids},
	{Pattern: `\b(teens?|teenagers?)\b`, Kind: KindAgeGroup, Value: AgeTeenagers},
	{Pattern: `\b(adults?|grown-ups)\b`, Kind: KindAgeGroup, Value: AgeAdults},
	{Pattern: `\b(seniors?|elderly)\b`, Kind: KindAgeGroup, Value: AgeSeniors},
}
