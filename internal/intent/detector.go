package intent

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/temporal"
	"regexp"
	"strings"
)

// Confidence levels reported per detected dimension. The query confidence is the maximum.
const (
	confidenceTemporal = 0.9
	confidenceFamily   = 0.8
	confidenceLocation = 0.7
	confidenceOther    = 0.6
)

// FilterIntent is everything detected in one query. It is built per request and never shared.
type FilterIntent struct {
	Query      string
	Temporal   *temporal.Resolution
	PriceTier  string
	Locations  []string
	Categories []string
	// CategoryTerms are the tag values that also satisfy the category intent.
	CategoryTerms []string
	Family        bool
	AgeGroup      string
	Keywords      []string
	Confidence    float64
}

// HasTemporal reports whether a temporal phrase was resolved.
func (fi *FilterIntent) HasTemporal() bool {
	return fi.Temporal != nil
}

// Analysis converts the intent to the query_analysis block of a response.
func (fi *FilterIntent) Analysis() domain.QueryAnalysis {
	qa := domain.QueryAnalysis{
		Keywords:            nonNil(fi.Keywords),
		Categories:          nonNil(fi.Categories),
		LocationPreferences: nonNil(fi.Locations),
		AgeGroup:            fi.AgeGroup,
		PriceTier:           fi.PriceTier,
		Confidence:          fi.Confidence,
	}
	if fi.Family {
		family := true
		qa.FamilyFriendly = &family
	}
	if t := fi.Temporal; t != nil {
		qa.DateFilter = string(t.Kind)
		qa.TimePeriod = t.Phrase
		if t.Range != nil {
			from, to := t.Range.Start, t.Range.End
			qa.DateFrom, qa.DateTo = &from, &to
		}
	}
	return qa
}

// Detector combines temporal resolution with the lexicon. It holds only read-only tables and
// is safe for concurrent use.
type Detector struct {
	resolver *temporal.Resolver
	lexicon  *Lexicon
}

func NewDetector(resolver *temporal.Resolver, lexicon *Lexicon) *Detector {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Detector{resolver: resolver, lexicon: lexicon}
}

// Detect extracts every intent from query. Unrecognized text only contributes keywords.
func (d *Detector) Detect(query string) FilterIntent {
	q := strings.ToLower(strings.TrimSpace(query))
	fi := FilterIntent{Query: query, Keywords: Keywords(q)}

	if res, ok := d.resolver.Resolve(q); ok {
		fi.Temporal = &res
		fi.Confidence = confidenceTemporal
	}

	for _, m := range d.lexicon.Scan(q) {
		switch m.Entry.Kind {
		case KindPrice:
			if fi.PriceTier == "" {
				fi.PriceTier = m.Entry.Value
				fi.raise(confidenceOther)
			}
		case KindLocation:
			fi.Locations = appendUnique(fi.Locations, m.Entry.Value)
			fi.raise(confidenceLocation)
		case KindCategory:
			fi.Categories = appendUnique(fi.Categories, m.Entry.Value)
			for _, t := range m.Entry.Terms {
				fi.CategoryTerms = appendUnique(fi.CategoryTerms, t)
			}
			fi.raise(confidenceOther)
		case KindFamily:
			fi.Family = true
			fi.raise(confidenceFamily)
		case KindAgeGroup:
			if fi.AgeGroup == "" {
				fi.AgeGroup = m.Entry.Value
				if fi.AgeGroup == AgeToddlers || fi.AgeGroup == AgeKids {
					fi.Family = true
				}
				fi.raise(confidenceFamily)
			}
		}
	}
	return fi
}

func (fi *FilterIntent) raise(c float64) {
	if c > fi.Confidence {
		fi.Confidence = c
	}
}

var tokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9'+-]*`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "in": {}, "on": {}, "at": {}, "to": {}, "of": {},
	"a": {}, "an": {}, "or": {}, "any": {}, "some": {}, "what": {}, "whats": {}, "what's": {},
	"are": {}, "is": {}, "there": {}, "near": {}, "me": {}, "my": {}, "our": {}, "we": {},
	"events": {}, "event": {}, "things": {}, "thing": {}, "activities": {}, "activity": {}, "do": {},
	"find": {}, "show": {}, "looking": {}, "good": {}, "best": {}, "dubai": {}, "from": {},
	// Temporal words are handled by the resolver.
	"today": {}, "tonight": {}, "tomorrow": {}, "this": {}, "next": {}, "coming": {}, "week": {},
	"weekend": {}, "weekends": {}, "weekday": {}, "weekdays": {}, "month": {}, "later": {},
	"early": {}, "during": {}, "days": {}, "few": {},
}

// Tokens splits lower-cased text into words.
func Tokens(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Keywords returns the distinct significant words of a query, in order of appearance.
func Keywords(query string) []string {
	var out []string
	for _, tok := range Tokens(query) {
		if len(tok) < 3 {
			continue
		}
		if _, skip := stopWords[tok]; skip {
			continue
		}
		out = appendUnique(out, tok)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
