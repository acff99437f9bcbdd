package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadJSON = `{"keywords":["jazz"],"ai_response":"Two jazz nights.","suggestions":["Live music"],"scored_events":[{"id":"e1","score":88,"reason":"Jazz night"}]}`

func TestExtract_Stages(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		stage Stage
	}{
		{"direct", payloadJSON, StageDirect},
		{"direct with whitespace", "\n  " + payloadJSON + "\n", StageDirect},
		{"fenced json", "Here you go:\n```json\n" + payloadJSON + "\n```\nEnjoy!", StageFenced},
		{"fenced bare", "```\n" + payloadJSON + "\n```", StageFenced},
		{"prose around braces", "Sure! " + payloadJSON + " Let me know if you need more.", StageBraces},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Extract(tc.raw)
			parsed, ok := out.(Parsed)
			require.True(t, ok, "got %#v", out)
			assert.Equal(t, tc.stage, parsed.Stage)
			require.Len(t, parsed.Payload.ScoredEvents, 1)
			assert.Equal(t, "e1", parsed.Payload.ScoredEvents[0].ID)
			assert.Equal(t, FlexScore(88), parsed.Payload.ScoredEvents[0].Score)
		})
	}
}

func TestExtract_Garbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"I could not find any events.",
		"null",
		"[1,2,3]",
		"{ this is not json }",
		"```json\n{\"keywords\": [\n```",
	} {
		out := Extract(raw)
		fb, ok := out.(Fallback)
		assert.True(t, ok, "raw %q gave %#v", raw, out)
		assert.NotEmpty(t, fb.Reason)
	}
}

func TestExtract_StringScores(t *testing.T) {
	out := Extract(`{"scored_events":[{"id":"a","score":"73.6","reason":"r"},{"id":"b","score":null,"reason":""}]}`)
	parsed, ok := out.(Parsed)
	require.True(t, ok)
	assert.Equal(t, FlexScore(73.6), parsed.Payload.ScoredEvents[0].Score)
	assert.Equal(t, FlexScore(0), parsed.Payload.ScoredEvents[1].Score)
}

func TestExtract_BadScoreKeepsPayload(t *testing.T) {
	out := Extract(`{"ai_response":"Picks.","scored_events":[{"id":"a","score":"85%","reason":"r"},{"id":"b","score":70,"reason":"r"}]}`)
	parsed, ok := out.(Parsed)
	require.True(t, ok, "got %#v", out)
	assert.Equal(t, "Picks.", parsed.Payload.AIResponse)
	assert.False(t, parsed.Payload.ScoredEvents[0].Score.Valid())
	assert.True(t, parsed.Payload.ScoredEvents[1].Score.Valid())
	assert.Equal(t, FlexScore(70), parsed.Payload.ScoredEvents[1].Score)
}
