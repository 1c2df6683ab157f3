package models

import "time"

// Metric is one of the four tracked performance dimensions.
type Metric string

const (
	CostEfficiency       Metric = "cost_efficiency"
	CustomerSatisfaction Metric = "customer_satisfaction"
	Resilience           Metric = "resilience"
	Sustainability       Metric = "sustainability"
)

// AllMetrics lists the metrics in display order. Every snapshot carries all of them.
var AllMetrics = []Metric{CostEfficiency, CustomerSatisfaction, Resilience, Sustainability}

// Label returns the human-readable name for a metric.
func (m Metric) Label() string {
	switch m {
	case CostEfficiency:
		return "Cost Efficiency"
	case CustomerSatisfaction:
		return "Customer Satisfaction"
	case Resilience:
		return "Resilience"
	case Sustainability:
		return "Sustainability"
	}
	return string(m)
}

// InitialScore is the starting value for every metric.
const InitialScore = 100

// ScoreSnapshot maps each metric to its current value in [0,100].
type ScoreSnapshot map[Metric]int

// NewScoreSnapshot returns a snapshot with every metric at the initial value.
func NewScoreSnapshot() ScoreSnapshot {
	s := make(ScoreSnapshot, len(AllMetrics))
	for _, m := range AllMetrics {
		s[m] = InitialScore
	}
	return s
}

// Clone returns an independent copy of the snapshot.
func (s ScoreSnapshot) Clone() ScoreSnapshot {
	out := make(ScoreSnapshot, len(s))
	for m, v := range s {
		out[m] = v
	}
	return out
}

// Average returns the mean value across the fixed metric set.
func (s ScoreSnapshot) Average() float64 {
	total := 0
	for _, m := range AllMetrics {
		total += s[m]
	}
	return float64(total) / float64(len(AllMetrics))
}

// Stages are the five supply chain phases, in play order. Stage numbers are
// 1-based; 0 means the game has not started and anything past the last stage
// means the run is complete.
var Stages = []string{
	"Planning",
	"Sourcing",
	"Manufacturing",
	"Delivery/Logistics",
	"Returns/After-sales",
}

// ScenariosPerStage is how many decision points each stage presents.
const ScenariosPerStage = 2

// Scenario is one decision point presented to the player.
type Scenario struct {
	Title         string   `json:"scenario_title" yaml:"scenario_title"`
	Description   string   `json:"scenario_description" yaml:"scenario_description"`
	Context       string   `json:"context,omitempty" yaml:"context,omitempty"`
	Options       []Option `json:"options" yaml:"options"`
	LearningPoint string   `json:"learning_point" yaml:"learning_point"`
}

// Option is a single lettered choice within a scenario. Impact holds the
// per-metric deltas; metrics absent from the map are unchanged.
type Option struct {
	ID       string         `json:"id" yaml:"id"`
	Text     string         `json:"text" yaml:"text"`
	Impact   map[Metric]int `json:"impact" yaml:"impact"`
	Feedback string         `json:"feedback" yaml:"feedback"`
}

// OptionByID finds an option by its letter id.
func (s Scenario) OptionByID(id string) (Option, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Decision records one resolved scenario. DecidedAt is nil while the scenario
// is still the current one and is stamped once when the player advances.
type Decision struct {
	Stage     string
	Scenario  string
	Choice    string
	DecidedAt *time.Time
}

// FeedbackEntry records the feedback and learning point shown for one
// scenario, keyed by stage and scenario index.
type FeedbackEntry struct {
	Stage         string
	ScenarioIndex int
	Feedback      string
	Learning      string
}

// AnalysisReport is the narrative end-of-game analysis.
type AnalysisReport struct {
	Overview          string   `json:"overview" yaml:"overview"`
	Strengths         []string `json:"strengths" yaml:"strengths"`
	Improvements      []string `json:"improvements" yaml:"improvements"`
	PersonalLearnings []string `json:"personal_learnings" yaml:"personal_learnings"`
	Recommendations   string   `json:"recommendations" yaml:"recommendations"`
}

// ClientProfile is a client archetype the player consults for. Selected once
// before play begins and immutable for the session.
type ClientProfile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ClientCatalog lists the selectable client archetypes. The first entry is
// the default.
var ClientCatalog = []ClientProfile{
	{Name: "TechCo", Description: "A smartphone manufacturer facing global supply chain challenges"},
	{Name: "FMCG Corp", Description: "A fast-moving consumer goods company with extensive distribution needs"},
	{Name: "PharmaCare", Description: "A pharmaceutical manufacturer with strict quality requirements"},
	{Name: "AutoDrive", Description: "An automotive manufacturer dealing with complex supplier networks"},
}

// DefaultClient is the profile used until the player picks one.
var DefaultClient = ClientCatalog[0]

// ClientByName looks up a catalog entry by name.
func ClientByName(name string) (ClientProfile, bool) {
	for _, c := range ClientCatalog {
		if c.Name == name {
			return c, true
		}
	}
	return ClientProfile{}, false
}
