package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"scm-game/internal/models"
)

//go:embed fallback_scenario.yaml
var fallbackScenarioYAML []byte

//go:embed fallback_analysis.yaml
var fallbackAnalysisYAML []byte

var (
	fallbackScenario models.Scenario
	fallbackAnalysis models.AnalysisReport
)

func init() {
	if err := yaml.Unmarshal(fallbackScenarioYAML, &fallbackScenario); err != nil {
		panic(fmt.Sprintf("bad embedded fallback scenario: %v", err))
	}
	if err := yaml.Unmarshal(fallbackAnalysisYAML, &fallbackAnalysis); err != nil {
		panic(fmt.Sprintf("bad embedded fallback analysis: %v", err))
	}
}

// FallbackScenario returns the deterministic scenario used when generation
// fails for the named stage. The game must stay playable with the provider
// down, and a fixed payload lets tests pin failure-path behavior exactly.
func FallbackScenario(stage string) models.Scenario {
	s := fallbackScenario
	s.Options = append([]models.Option(nil), fallbackScenario.Options...)
	s.Title = stage + " Challenge"
	s.LearningPoint = fmt.Sprintf("Understanding trade-offs in %s decisions", stage)
	return s
}

// FallbackAnalysis returns the generic report used when analysis generation
// fails.
func FallbackAnalysis() models.AnalysisReport {
	r := fallbackAnalysis
	r.Strengths = append([]string(nil), fallbackAnalysis.Strengths...)
	r.Improvements = append([]string(nil), fallbackAnalysis.Improvements...)
	r.PersonalLearnings = append([]string(nil), fallbackAnalysis.PersonalLearnings...)
	return r
}
