package content

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"scm-game/internal/config"
	"scm-game/internal/models"
)

//go:embed prompts/scenario.txt
var scenarioPrompt string

//go:embed prompts/analysis.txt
var analysisPrompt string

var (
	scenarioTmpl = template.Must(template.New("scenario").Parse(scenarioPrompt))
	analysisTmpl = template.Must(template.New("analysis").Parse(analysisPrompt))
)

const samplingTemperature = 0.7

// historyWindow is how many recent decisions are fed back into scenario
// generation for narrative continuity.
const historyWindow = 3

// TextGenerator produces raw text for a prompt against a named model. The
// Gemini-backed implementation is the only one used outside tests.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
}

func (g geminiGenerator) Generate(ctx context.Context, name, prompt string) (string, error) {
	model := g.client.GenerativeModel(name)
	model.SetTemperature(samplingTemperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type %T from Gemini", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

// Client fetches generated game content. Both fetch operations degrade to
// deterministic bundled content on any provider, parse or validation failure
// and never return an error; failures are logged as warnings.
type Client struct {
	gen           TextGenerator
	gemini        *genai.Client
	scenarioModel string
	analysisModel string
	timeout       time.Duration
	log           zerolog.Logger
}

// NewClient creates a content client backed by the Gemini API.
func NewClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		gen:           geminiGenerator{client: gc},
		gemini:        gc,
		scenarioModel: cfg.ScenarioModel,
		analysisModel: cfg.AnalysisModel,
		timeout:       cfg.RequestTimeout,
		log:           log,
	}, nil
}

// Close releases the underlying Gemini client.
func (c *Client) Close() {
	if c.gemini != nil {
		c.gemini.Close()
	}
}

type scenarioPromptData struct {
	ClientName           string
	ClientDescription    string
	StageName            string
	ScenarioNumber       int
	CostEfficiency       int
	CustomerSatisfaction int
	Resilience           int
	Sustainability       int
	PreviousDecisions    string
}

// FetchScenario requests a generated scenario for the given stage and slot.
// The last few decisions are included in the prompt so consecutive scenarios
// stay narratively connected.
func (c *Client) FetchScenario(ctx context.Context, client models.ClientProfile, stageName string, scenarioIndex int, scores models.ScoreSnapshot, decisions []models.Decision) models.Scenario {
	data := scenarioPromptData{
		ClientName:           client.Name,
		ClientDescription:    client.Description,
		StageName:            stageName,
		ScenarioNumber:       scenarioIndex + 1,
		CostEfficiency:       scores[models.CostEfficiency],
		CustomerSatisfaction: scores[models.CustomerSatisfaction],
		Resilience:           scores[models.Resilience],
		Sustainability:       scores[models.Sustainability],
		PreviousDecisions:    summarizeDecisions(lastDecisions(decisions, historyWindow)),
	}

	var buf bytes.Buffer
	if err := scenarioTmpl.Execute(&buf, data); err != nil {
		c.warn("scenario", stageName, err)
		return FallbackScenario(stageName)
	}

	raw, err := c.generate(ctx, c.scenarioModel, buf.String())
	if err != nil {
		c.warn("scenario", stageName, err)
		return FallbackScenario(stageName)
	}

	var scenario models.Scenario
	if err := decodeJSON(raw, &scenario); err != nil {
		c.warn("scenario", stageName, err)
		return FallbackScenario(stageName)
	}
	if err := ValidateScenario(scenario); err != nil {
		c.warn("scenario", stageName, err)
		return FallbackScenario(stageName)
	}
	return scenario
}

type analysisPromptData struct {
	ClientName      string
	Scores          []analysisScoreLine
	Average         string
	DecisionSummary string
}

type analysisScoreLine struct {
	Label string
	Value int
	Delta string
}

// FetchAnalysis requests the end-of-game narrative report.
func (c *Client) FetchAnalysis(ctx context.Context, scores models.ScoreSnapshot, decisions []models.Decision, feedback []models.FeedbackEntry, client models.ClientProfile) models.AnalysisReport {
	data := analysisPromptData{
		ClientName:      client.Name,
		Average:         fmt.Sprintf("%.1f", scores.Average()),
		DecisionSummary: summarizeDecisions(decisions),
	}
	for _, m := range models.AllMetrics {
		data.Scores = append(data.Scores, analysisScoreLine{
			Label: m.Label(),
			Value: scores[m],
			Delta: fmt.Sprintf("%+d", scores[m]-models.InitialScore),
		})
	}

	var buf bytes.Buffer
	if err := analysisTmpl.Execute(&buf, data); err != nil {
		c.warn("analysis", client.Name, err)
		return FallbackAnalysis()
	}

	raw, err := c.generate(ctx, c.analysisModel, buf.String())
	if err != nil {
		c.warn("analysis", client.Name, err)
		return FallbackAnalysis()
	}

	var report models.AnalysisReport
	if err := decodeJSON(raw, &report); err != nil {
		c.warn("analysis", client.Name, err)
		return FallbackAnalysis()
	}
	if report.Overview == "" {
		c.warn("analysis", client.Name, fmt.Errorf("%w: overview", ErrMissingField))
		return FallbackAnalysis()
	}
	return report
}

// generate runs one bounded provider call.
func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.gen.Generate(ctx, model, prompt)
}

func (c *Client) warn(kind, subject string, err error) {
	c.log.Warn().Err(err).Str("content", kind).Str("subject", subject).Msg("generation failed, using fallback content")
}

// decodeJSON parses text into v, retrying once after stripping markdown
// fences and narrowing to the outermost JSON object. Providers do not always
// honor the JSON-only instruction.
func decodeJSON(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(extractJSON(text)), v)
}

func extractJSON(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		text = text[i+len("```json"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	} else if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+len("```"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func lastDecisions(decisions []models.Decision, n int) []models.Decision {
	if len(decisions) <= n {
		return decisions
	}
	return decisions[len(decisions)-n:]
}

func summarizeDecisions(decisions []models.Decision) string {
	if len(decisions) == 0 {
		return "None"
	}
	var b strings.Builder
	for _, d := range decisions {
		fmt.Fprintf(&b, "Stage: %s, Choice: %s\n", d.Stage, d.Choice)
	}
	return strings.TrimRight(b.String(), "\n")
}
