package content

import (
	"errors"
	"fmt"

	"scm-game/internal/models"
)

var (
	ErrMissingField        = errors.New("missing required field")
	ErrInsufficientOptions = errors.New("fewer than 3 options")
	ErrMalformedOption     = errors.New("malformed option")
)

// ValidateScenario checks that a scenario payload is structurally usable.
// Impact values are not range-checked here: the generative source is not
// fully trustworthy and the score engine clamps on application anyway.
func ValidateScenario(s models.Scenario) error {
	switch {
	case s.Title == "":
		return fmt.Errorf("%w: scenario_title", ErrMissingField)
	case s.Description == "":
		return fmt.Errorf("%w: scenario_description", ErrMissingField)
	case len(s.Options) == 0:
		return fmt.Errorf("%w: options", ErrMissingField)
	case s.LearningPoint == "":
		return fmt.Errorf("%w: learning_point", ErrMissingField)
	}

	if len(s.Options) < 3 {
		return fmt.Errorf("%w: got %d", ErrInsufficientOptions, len(s.Options))
	}

	seen := make(map[string]struct{}, len(s.Options))
	for i, o := range s.Options {
		if o.ID == "" || o.Text == "" || o.Impact == nil || o.Feedback == "" {
			return fmt.Errorf("%w: option %d", ErrMalformedOption, i)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrMalformedOption, o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}
