package ranking

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Stage is the extraction step that produced a payload.
type Stage string

const (
	StageDirect Stage = "direct"
	StageFenced Stage = "fenced"
	StageBraces Stage = "braces"
)

// Payload is the JSON object the model is asked to return.
type Payload struct {
	Keywords       []string   `json:"keywords"`
	TimePeriod     *string    `json:"time_period"`
	DateFrom       *string    `json:"date_from"`
	DateTo         *string    `json:"date_to"`
	Categories     []string   `json:"categories"`
	FamilyFriendly *bool      `json:"family_friendly"`
	AIResponse     string     `json:"ai_response"`
	Suggestions    []string   `json:"suggestions"`
	ScoredEvents   []RawScore `json:"scored_events"`
}

// RawScore is one relevance record as the model wrote it.
type RawScore struct {
	ID     string    `json:"id"`
	Score  FlexScore `json:"score"`
	Reason string    `json:"reason"`
}

// FlexScore accepts a JSON number or a numeric string. Anything else decodes to an invalid
// score instead of failing the whole payload.
type FlexScore float64

// Valid reports whether the score was a usable number.
func (f FlexScore) Valid() bool {
	return !math.IsNaN(float64(f))
}

func (f *FlexScore) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = FlexScore(math.NaN())
		return nil
	}
	*f = FlexScore(v)
	return nil
}

// Outcome is the result of Extract: either Parsed or Fallback.
type Outcome interface {
	isOutcome()
}

// Parsed carries a decoded payload and the stage that found it.
type Parsed struct {
	Payload Payload
	Stage   Stage
}

// Fallback means no stage produced a payload.
type Fallback struct {
	Reason string
}

func (Parsed) isOutcome()   {}
func (Fallback) isOutcome() {}

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(\\{.*?\\})\\s*```")

// Extract decodes the model text in stages: the whole text, a fenced code block, then the
// slice from the first '{' to the last '}'.
func Extract(raw string) Outcome {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Fallback{Reason: "empty response"}
	}

	if p, err := decode(text); err == nil {
		return Parsed{Payload: p, Stage: StageDirect}
	}

	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		if p, err := decode(m[1]); err == nil {
			return Parsed{Payload: p, Stage: StageFenced}
		}
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		p, err := decode(text[start : end+1])
		if err == nil {
			return Parsed{Payload: p, Stage: StageBraces}
		}
		return Fallback{Reason: fmt.Sprintf("no decodable JSON object: %v", err)}
	}
	return Fallback{Reason: "no JSON object in response"}
}

func decode(s string) (Payload, error) {
	if !strings.HasPrefix(strings.TrimSpace(s), "{") {
		return Payload{}, errors.New("not a JSON object")
	}
	var p Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}
