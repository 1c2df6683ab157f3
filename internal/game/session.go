package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"scm-game/internal/models"
)

var (
	ErrNotStarted       = errors.New("game not started")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrGameComplete     = errors.New("game is complete")
	ErrNoScenario       = errors.New("no active scenario")
	ErrNoSuchOption     = errors.New("no such option")
	ErrNoSuchClient     = errors.New("no such client")
	ErrDecisionPending  = errors.New("no decision made yet")
	ErrDecisionRecorded = errors.New("decision already made")
	ErrStaleRequest     = errors.New("request predates a session reset")
)

// ContentSource supplies generated game content. Implementations never fail:
// on provider trouble they substitute deterministic fallback content.
type ContentSource interface {
	FetchScenario(ctx context.Context, client models.ClientProfile, stageName string, scenarioIndex int, scores models.ScoreSnapshot, decisions []models.Decision) models.Scenario
	FetchAnalysis(ctx context.Context, scores models.ScoreSnapshot, decisions []models.Decision, feedback []models.FeedbackEntry, client models.ClientProfile) models.AnalysisReport
}

// Session owns one player's complete in-memory game run and the transition
// rules between its states. It is driven synchronously by the UI and is not
// safe for concurrent use; each session has exactly one owner.
type Session struct {
	id      string
	content ContentSource

	stage         int // 1-based; 0 = intro, len(Stages)+1 = complete
	scenarioIndex int // 0 or 1 within the stage
	client        models.ClientProfile
	scores        models.ScoreSnapshot
	decisions     []models.Decision
	feedback      []models.FeedbackEntry
	current       *models.Scenario
	decisionMade  bool
	selected      *models.Option

	// generation counts the transitions that invalidate an in-flight fetch
	// (restart, advancing past a scenario). Requests carry the generation
	// they were created under so results committed after such a transition
	// are rejected instead of polluting the new state.
	generation uint64
}

// NewSession creates a session at the intro state with default settings.
func NewSession(content ContentSource) *Session {
	s := &Session{id: uuid.NewString(), content: content}
	s.Restart()
	return s
}

// Restart unconditionally resets the session to intro defaults. Available
// from any state.
func (s *Session) Restart() {
	s.stage = 0
	s.scenarioIndex = 0
	s.client = models.DefaultClient
	s.scores = models.NewScoreSnapshot()
	s.decisions = nil
	s.feedback = nil
	s.current = nil
	s.decisionMade = false
	s.selected = nil
	s.generation++
}

// SelectClient picks the client archetype. Only allowed before the game
// starts; the profile is immutable once play begins.
func (s *Session) SelectClient(name string) error {
	if s.stage != 0 {
		return ErrAlreadyStarted
	}
	client, ok := models.ClientByName(name)
	if !ok {
		return ErrNoSuchClient
	}
	s.client = client
	return nil
}

// Start moves from the intro state into the first scenario of stage 1.
func (s *Session) Start() error {
	if s.stage != 0 {
		return ErrAlreadyStarted
	}
	s.stage = 1
	s.scenarioIndex = 0
	return nil
}

// CurrentScenario returns the active scenario, fetching it lazily on first
// access for the current slot. The result is cached on the session so UI
// render cycles never refetch; at most one fetch happens per slot.
func (s *Session) CurrentScenario(ctx context.Context) (models.Scenario, error) {
	if s.stage == 0 {
		return models.Scenario{}, ErrNotStarted
	}
	if s.Complete() {
		return models.Scenario{}, ErrGameComplete
	}
	if s.current == nil {
		req, err := s.ScenarioRequest()
		if err != nil {
			return models.Scenario{}, err
		}
		scenario := req.Fetch(ctx)
		s.current = &scenario
	}
	return *s.current, nil
}

// ScenarioRequest is an immutable snapshot of everything needed to fetch the
// current slot's scenario. It lets an asynchronous caller run the fetch
// without touching the session and commit the result with CacheScenario
// afterwards; the session itself must only ever be used from its single
// owning goroutine.
type ScenarioRequest struct {
	Client        models.ClientProfile
	StageName     string
	ScenarioIndex int
	Scores        models.ScoreSnapshot
	Decisions     []models.Decision

	content    ContentSource
	generation uint64
}

// ScenarioRequest snapshots the fetch inputs for the current slot.
func (s *Session) ScenarioRequest() (ScenarioRequest, error) {
	if s.stage == 0 {
		return ScenarioRequest{}, ErrNotStarted
	}
	if s.Complete() {
		return ScenarioRequest{}, ErrGameComplete
	}
	return ScenarioRequest{
		Client:        s.client,
		StageName:     s.StageName(),
		ScenarioIndex: s.scenarioIndex,
		Scores:        s.scores.Clone(),
		Decisions:     append([]models.Decision(nil), s.decisions...),
		content:       s.content,
		generation:    s.generation,
	}, nil
}

// Fetch runs the content fetch described by the request. It reads no session
// state, so it is safe to call from another goroutine.
func (r ScenarioRequest) Fetch(ctx context.Context) models.Scenario {
	return r.content.FetchScenario(ctx, r.Client, r.StageName, r.ScenarioIndex, r.Scores, r.Decisions)
}

// CacheScenario commits a fetched scenario for the slot the request was
// created for. A request from before a restart or continue is rejected with
// ErrStaleRequest so an in-flight fetch can never leak into the next run or
// slot. Committing twice is a no-op that keeps the first scenario.
func (s *Session) CacheScenario(req ScenarioRequest, scenario models.Scenario) error {
	if req.generation != s.generation {
		return ErrStaleRequest
	}
	if s.stage == 0 {
		return ErrNotStarted
	}
	if s.Complete() {
		return ErrGameComplete
	}
	if s.current == nil {
		s.current = &scenario
	}
	return nil
}

// CachedScenario returns the scenario already fetched for the current slot,
// if any.
func (s *Session) CachedScenario() (models.Scenario, bool) {
	if s.current == nil {
		return models.Scenario{}, false
	}
	return *s.current, true
}

// ChooseOption resolves the active scenario with the lettered option. The
// decision is recorded with an unset timestamp (stamped on continue), the
// option's impact is applied to the scores exactly once, and the feedback
// entry is appended.
func (s *Session) ChooseOption(id string) error {
	if s.stage == 0 {
		return ErrNotStarted
	}
	if s.Complete() {
		return ErrGameComplete
	}
	if s.current == nil {
		return ErrNoScenario
	}
	if s.decisionMade {
		return ErrDecisionRecorded
	}
	option, ok := s.current.OptionByID(id)
	if !ok {
		return ErrNoSuchOption
	}

	s.decisions = append(s.decisions, models.Decision{
		Stage:    s.StageName(),
		Scenario: s.current.Title,
		Choice:   option.Text,
	})
	s.scores = ApplyImpact(s.scores, option.Impact)
	s.feedback = append(s.feedback, models.FeedbackEntry{
		Stage:         s.StageName(),
		ScenarioIndex: s.scenarioIndex,
		Feedback:      option.Feedback,
		Learning:      s.current.LearningPoint,
	})
	s.selected = &option
	s.decisionMade = true
	return nil
}

// ContinueToNext advances past a resolved scenario: second scenario of the
// stage, next stage, or completion. The just-resolved decision gets its real
// timestamp here.
func (s *Session) ContinueToNext() error {
	if s.stage == 0 {
		return ErrNotStarted
	}
	if s.Complete() {
		return ErrGameComplete
	}
	if !s.decisionMade {
		return ErrDecisionPending
	}

	now := time.Now()
	s.decisions[len(s.decisions)-1].DecidedAt = &now

	if s.scenarioIndex < models.ScenariosPerStage-1 {
		s.scenarioIndex++
	} else {
		s.stage++
		s.scenarioIndex = 0
	}
	s.current = nil
	s.selected = nil
	s.decisionMade = false
	s.generation++
	return nil
}

// ID returns the session identifier, used for log correlation.
func (s *Session) ID() string { return s.id }

// Started reports whether play has begun.
func (s *Session) Started() bool { return s.stage > 0 }

// Complete reports whether all stages have been played.
func (s *Session) Complete() bool { return s.stage > len(models.Stages) }

// StageNumber returns the 1-based stage index, 0 before the game starts.
func (s *Session) StageNumber() int { return s.stage }

// ScenarioNumber returns the 1-based scenario index within the stage.
func (s *Session) ScenarioNumber() int { return s.scenarioIndex + 1 }

// StageName returns the current stage label, or "" outside of play.
func (s *Session) StageName() string {
	if s.stage < 1 || s.stage > len(models.Stages) {
		return ""
	}
	return models.Stages[s.stage-1]
}

// Progress returns the fraction of the run completed, in [0,1].
func (s *Session) Progress() float64 {
	if s.stage == 0 {
		return 0
	}
	if s.Complete() {
		return 1
	}
	total := len(models.Stages) * models.ScenariosPerStage
	return float64((s.stage-1)*models.ScenariosPerStage+s.scenarioIndex) / float64(total)
}

// Client returns the selected client profile.
func (s *Session) Client() models.ClientProfile { return s.client }

// Scores returns a copy of the current snapshot.
func (s *Session) Scores() models.ScoreSnapshot { return s.scores.Clone() }

// Decisions returns the ordered decision history.
func (s *Session) Decisions() []models.Decision { return s.decisions }

// Feedback returns the ordered feedback history, one entry per resolved
// scenario.
func (s *Session) Feedback() []models.FeedbackEntry { return s.feedback }

// DecisionMade reports whether the active scenario has been resolved.
func (s *Session) DecisionMade() bool { return s.decisionMade }

// Selected returns the option chosen for the active scenario, if any.
func (s *Session) Selected() (models.Option, bool) {
	if s.selected == nil {
		return models.Option{}, false
	}
	return *s.selected, true
}
