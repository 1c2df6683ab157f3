package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scm-game/internal/models"
)

type fakeGenerator struct {
	text       string
	err        error
	lastModel  string
	lastPrompt string
	calls      int
}

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	f.calls++
	f.lastModel = model
	f.lastPrompt = prompt
	return f.text, f.err
}

func newTestClient(gen TextGenerator) *Client {
	return &Client{
		gen:           gen,
		scenarioModel: "scenario-model",
		analysisModel: "analysis-model",
		timeout:       time.Second,
		log:           zerolog.Nop(),
	}
}

const generatedScenarioJSON = `{
	"scenario_title": "Chip Shortage",
	"scenario_description": "Your sole chip supplier halved its allocation.",
	"context": "A competitor locked in long-term capacity.",
	"options": [
		{"id": "A", "text": "Buy on the spot market", "impact": {"cost_efficiency": -12, "resilience": 6}, "feedback": "Costly, but lines keep moving."},
		{"id": "B", "text": "Qualify a second supplier", "impact": {"cost_efficiency": -4, "resilience": 10}, "feedback": "Slower, structurally safer."},
		{"id": "C", "text": "Cut the low-margin product line", "impact": {"cost_efficiency": 8, "customer_satisfaction": -10}, "feedback": "Customers notice."}
	],
	"learning_point": "Single-sourcing concentrates risk."
}`

func TestFetchScenarioParsesDirectJSON(t *testing.T) {
	gen := &fakeGenerator{text: generatedScenarioJSON}
	c := newTestClient(gen)

	s := c.FetchScenario(context.Background(), models.DefaultClient, "Sourcing", 0, models.NewScoreSnapshot(), nil)
	assert.Equal(t, "Chip Shortage", s.Title)
	require.Len(t, s.Options, 3)
	assert.Equal(t, "scenario-model", gen.lastModel)
}

func TestFetchScenarioExtractsFencedJSON(t *testing.T) {
	gen := &fakeGenerator{text: "Here you go:\n```json\n" + generatedScenarioJSON + "\n```\nEnjoy!"}
	c := newTestClient(gen)

	s := c.FetchScenario(context.Background(), models.DefaultClient, "Sourcing", 0, models.NewScoreSnapshot(), nil)
	assert.Equal(t, "Chip Shortage", s.Title)
	assert.Equal(t, -12, s.Options[0].Impact[models.CostEfficiency])
}

func TestFetchScenarioFallsBackOnTransportError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection reset")}
	c := newTestClient(gen)

	s := c.FetchScenario(context.Background(), models.DefaultClient, "Sourcing", 0, models.NewScoreSnapshot(), nil)
	assert.Equal(t, "Sourcing Challenge", s.Title)
	assert.Len(t, s.Options, 3)
	assert.NoError(t, ValidateScenario(s))
}

func TestFetchScenarioFallsBackOnGarbage(t *testing.T) {
	gen := &fakeGenerator{text: "I'm sorry, I can't generate a scenario right now."}
	c := newTestClient(gen)

	s := c.FetchScenario(context.Background(), models.DefaultClient, "Planning", 1, models.NewScoreSnapshot(), nil)
	assert.Equal(t, "Planning Challenge", s.Title)
}

func TestFetchScenarioFallsBackOnInvalidPayload(t *testing.T) {
	// Parses fine but only two options.
	gen := &fakeGenerator{text: `{
		"scenario_title": "t", "scenario_description": "d",
		"options": [
			{"id": "A", "text": "x", "impact": {}, "feedback": "f"},
			{"id": "B", "text": "y", "impact": {}, "feedback": "f"}
		],
		"learning_point": "l"
	}`}
	c := newTestClient(gen)

	s := c.FetchScenario(context.Background(), models.DefaultClient, "Manufacturing", 0, models.NewScoreSnapshot(), nil)
	assert.Equal(t, "Manufacturing Challenge", s.Title)
}

func TestFetchScenarioPromptIncludesRecentHistory(t *testing.T) {
	gen := &fakeGenerator{text: generatedScenarioJSON}
	c := newTestClient(gen)

	decisions := []models.Decision{
		{Stage: "Planning", Choice: "first"},
		{Stage: "Planning", Choice: "second"},
		{Stage: "Sourcing", Choice: "third"},
		{Stage: "Sourcing", Choice: "fourth"},
	}
	c.FetchScenario(context.Background(), models.DefaultClient, "Manufacturing", 0, models.NewScoreSnapshot(), decisions)

	assert.Contains(t, gen.lastPrompt, "TechCo")
	assert.Contains(t, gen.lastPrompt, "Manufacturing")
	assert.Contains(t, gen.lastPrompt, "Choice: fourth")
	assert.NotContains(t, gen.lastPrompt, "Choice: first", "only the last 3 decisions go into the prompt")
}

func TestFetchAnalysisParsesResponse(t *testing.T) {
	gen := &fakeGenerator{text: `{
		"overview": "Solid run with a cost bias.",
		"strengths": ["kept costs in check", "steady resilience", "consistent choices"],
		"improvements": ["watch satisfaction", "invest in sustainability", "hedge suppliers"],
		"personal_learnings": ["trade-offs everywhere", "metrics compete", "plan ahead", "resilience pays"],
		"recommendations": "Balance cost cuts against service levels."
	}`}
	c := newTestClient(gen)

	scores := models.NewScoreSnapshot()
	scores[models.CostEfficiency] = 84
	report := c.FetchAnalysis(context.Background(), scores, nil, nil, models.DefaultClient)

	assert.Equal(t, "Solid run with a cost bias.", report.Overview)
	assert.Len(t, report.Strengths, 3)
	assert.Equal(t, "analysis-model", gen.lastModel)
	assert.Contains(t, gen.lastPrompt, "Cost Efficiency: 84% (Change: -16%)")
	assert.Contains(t, gen.lastPrompt, "Average Score: 96.0%")
}

func TestFetchAnalysisFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("deadline exceeded")}
	c := newTestClient(gen)

	report := c.FetchAnalysis(context.Background(), models.NewScoreSnapshot(), nil, nil, models.DefaultClient)
	assert.Equal(t, "You completed the simulation successfully!", report.Overview)
	assert.NotEmpty(t, report.Strengths)
	assert.NotEmpty(t, report.Recommendations)
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"plain":         {`{"a":1}`, `{"a":1}`},
		"json fence":    {"```json\n{\"a\":1}\n```", `{"a":1}`},
		"bare fence":    {"```\n{\"a\":1}\n```", `{"a":1}`},
		"leading prose": {"Sure! Here it is: {\"a\":1} hope that helps", `{"a":1}`},
		"no braces":     {"nothing here", "nothing here"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}

func TestFallbackScenarioIsIndependent(t *testing.T) {
	a := FallbackScenario("Planning")
	a.Options[0].Text = "mutated"
	b := FallbackScenario("Planning")
	assert.NotEqual(t, "mutated", b.Options[0].Text)
}
