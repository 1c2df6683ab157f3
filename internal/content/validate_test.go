package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scm-game/internal/models"
)

func validScenario() models.Scenario {
	opt := func(id string) models.Option {
		return models.Option{
			ID:       id,
			Text:     "do something",
			Impact:   map[models.Metric]int{models.CostEfficiency: 5},
			Feedback: "something happened",
		}
	}
	return models.Scenario{
		Title:         "Supplier Shortage",
		Description:   "Your key supplier just went under.",
		Options:       []models.Option{opt("A"), opt("B"), opt("C")},
		LearningPoint: "Diversify your supplier base.",
	}
}

func TestValidateScenarioAccepts(t *testing.T) {
	require.NoError(t, ValidateScenario(validScenario()))
}

func TestValidateScenarioMissingFields(t *testing.T) {
	for name, mutate := range map[string]func(*models.Scenario){
		"title":          func(s *models.Scenario) { s.Title = "" },
		"description":    func(s *models.Scenario) { s.Description = "" },
		"options":        func(s *models.Scenario) { s.Options = nil },
		"learning_point": func(s *models.Scenario) { s.LearningPoint = "" },
	} {
		t.Run(name, func(t *testing.T) {
			s := validScenario()
			mutate(&s)
			assert.ErrorIs(t, ValidateScenario(s), ErrMissingField)
		})
	}
}

func TestValidateScenarioInsufficientOptions(t *testing.T) {
	s := validScenario()
	s.Options = s.Options[:2]
	assert.ErrorIs(t, ValidateScenario(s), ErrInsufficientOptions)
}

func TestValidateScenarioMalformedOption(t *testing.T) {
	for name, mutate := range map[string]func(*models.Option){
		"no id":       func(o *models.Option) { o.ID = "" },
		"no text":     func(o *models.Option) { o.Text = "" },
		"no impact":   func(o *models.Option) { o.Impact = nil },
		"no feedback": func(o *models.Option) { o.Feedback = "" },
	} {
		t.Run(name, func(t *testing.T) {
			s := validScenario()
			mutate(&s.Options[1])
			assert.ErrorIs(t, ValidateScenario(s), ErrMalformedOption)
		})
	}
}

func TestValidateScenarioDuplicateOptionIDs(t *testing.T) {
	s := validScenario()
	s.Options[2].ID = "A"
	assert.ErrorIs(t, ValidateScenario(s), ErrMalformedOption)
}

func TestValidateScenarioAcceptsOutOfRangeImpacts(t *testing.T) {
	// Range enforcement belongs to the score engine, which clamps.
	s := validScenario()
	s.Options[0].Impact[models.CostEfficiency] = 500
	assert.NoError(t, ValidateScenario(s))
}
