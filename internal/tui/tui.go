package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scm-game/internal/game"
	"scm-game/internal/models"
)

type screen int

const (
	screenIntro screen = iota
	screenLoading
	screenScenario
	screenFeedback
	screenReport
	screenError
)

type model struct {
	screen   screen
	session  *game.Session
	spinner  spinner.Model
	viewport viewport.Model
	cursor   int
	scenario models.Scenario
	report   *game.Report
	err      error
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AF5F"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D70000"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
)

// NewModel builds the UI over an existing session.
func NewModel(session *game.Session) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		screen:  screenIntro,
		session: session,
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// scenarioMsg delivers a fetched scenario together with the request it was
// fetched for, so Update can tell a live result from one the player has
// already restarted past.
type scenarioMsg struct {
	req      game.ScenarioRequest
	scenario models.Scenario
}

type reportMsg struct {
	req    game.ReportRequest
	report *game.Report
}

type errMsg struct {
	err error
}

func fail(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

// recoverable reports whether an error only signals a mistimed input, which
// the player can retry on the current screen.
func recoverable(err error) bool {
	return errors.Is(err, game.ErrDecisionRecorded) ||
		errors.Is(err, game.ErrDecisionPending) ||
		errors.Is(err, game.ErrAlreadyStarted) ||
		errors.Is(err, game.ErrNoSuchOption)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			// Restart is available from any state.
			m.session.Restart()
			m.screen = screenIntro
			m.cursor = 0
			m.report = nil
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.7)
		m.viewport.Height = msg.Height - 6

	case scenarioMsg:
		if err := m.session.CacheScenario(msg.req, msg.scenario); err != nil {
			// A fetch the player restarted or advanced past; drop it.
			return m, nil
		}
		m.scenario, _ = m.session.CachedScenario()
		m.screen = screenScenario
		return m, nil

	case reportMsg:
		if err := m.session.VerifyReport(msg.req); err != nil {
			return m, nil
		}
		m.report = msg.report
		m.screen = screenReport
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(int(float64(m.width)*0.7), m.height-6)
		}
		m.viewport.SetContent(m.renderReport())
		m.viewport.GotoTop()
		return m, nil

	case errMsg:
		if recoverable(msg.err) {
			return m, nil
		}
		m.err = msg.err
		m.screen = screenError
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.screen == screenReport {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenIntro:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(models.ClientCatalog)-1 {
				m.cursor++
			}
		case "enter":
			if err := m.session.SelectClient(models.ClientCatalog[m.cursor].Name); err != nil {
				return m, fail(err)
			}
			if err := m.session.Start(); err != nil {
				return m, fail(err)
			}
			return m.startScenarioFetch()
		}

	case screenScenario:
		id := strings.ToUpper(msg.String())
		if _, ok := m.scenario.OptionByID(id); ok {
			if err := m.session.ChooseOption(id); err != nil {
				return m, fail(err)
			}
			m.screen = screenFeedback
		}

	case screenFeedback:
		if msg.String() == "enter" {
			if err := m.session.ContinueToNext(); err != nil {
				return m, fail(err)
			}
			if m.session.Complete() {
				return m.startReportBuild()
			}
			return m.startScenarioFetch()
		}

	case screenReport:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var s string

	switch m.screen {
	case screenIntro:
		s = m.renderIntro()

	case screenLoading:
		s = fmt.Sprintf("\n  %s Working on it... please wait.\n", m.spinner.View())

	case screenScenario:
		s = lipgloss.JoinHorizontal(lipgloss.Top, m.renderScenario(), m.renderSidebar())

	case screenFeedback:
		s = lipgloss.JoinHorizontal(lipgloss.Top, m.renderFeedback(), m.renderSidebar())

	case screenReport:
		s = m.viewport.View() + "\n" + helpStyle.Render("↑/↓ scroll • ctrl+r play again • esc quit")

	case screenError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress ctrl+r to restart or Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderIntro() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Supply Chain Management Game") + "\n\n")
	b.WriteString("Step into the role of a Supply Chain Consultant and navigate\n")
	b.WriteString("real-world challenges across five stages: Planning, Sourcing,\n")
	b.WriteString("Manufacturing, Delivery/Logistics and Returns/After-sales.\n\n")
	b.WriteString(titleStyle.Render("SELECT YOUR CLIENT") + "\n\n")

	for i, c := range models.ClientCatalog {
		line := fmt.Sprintf("%s - %s", c.Name, c.Description)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(optionStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ choose • enter start • esc quit"))
	return b.String()
}

func (m model) renderScenario() string {
	width := m.contentWidth()
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Stage %d: %s — Scenario %d of %d",
		m.session.StageNumber(), m.session.StageName(), m.session.ScenarioNumber(), models.ScenariosPerStage)) + "\n\n")
	b.WriteString(titleStyle.Render(m.scenario.Title) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(m.scenario.Description) + "\n\n")
	if m.scenario.Context != "" {
		b.WriteString(infoStyle.Width(width).Render("Context: "+m.scenario.Context) + "\n\n")
	}

	b.WriteString(titleStyle.Render("YOUR OPTIONS") + "\n\n")
	for _, o := range m.scenario.Options {
		b.WriteString(optionStyle.Width(width).Render(fmt.Sprintf("[%s] %s", o.ID, o.Text)) + "\n\n")
	}

	b.WriteString(helpStyle.Render("press the option letter to decide • ctrl+r restart"))
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m model) renderFeedback() string {
	width := m.contentWidth()
	var b strings.Builder

	option, ok := m.session.Selected()
	if !ok {
		return ""
	}

	b.WriteString(headerStyle.Render("Decision recorded") + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render("Impact: "+option.Feedback) + "\n\n")

	b.WriteString(titleStyle.Render("SCORE CHANGES") + "\n")
	for _, metric := range models.AllMetrics {
		delta, ok := option.Impact[metric]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s: %+d", metric.Label(), delta)
		switch {
		case delta > 0:
			line = goodStyle.Render(line)
		case delta < 0:
			line = badStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if m.scenario.LearningPoint != "" {
		b.WriteString(infoStyle.Width(width).Render("Learning point: "+m.scenario.LearningPoint) + "\n\n")
	}

	b.WriteString(helpStyle.Render("enter continue • ctrl+r restart"))
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CLIENT") + "\n")
	b.WriteString(m.session.Client().Name + "\n\n")

	b.WriteString(titleStyle.Render("PROGRESS") + "\n")
	b.WriteString(fmt.Sprintf("%.0f%%\n\n", m.session.Progress()*100))

	b.WriteString(titleStyle.Render("METRICS") + "\n")
	scores := m.session.Scores()
	for _, metric := range models.AllMetrics {
		value := scores[metric]
		delta := value - models.InitialScore
		line := fmt.Sprintf("%s: %d%% (%+d)", metric.Label(), value, delta)
		switch {
		case delta > 0:
			line = goodStyle.Render(line)
		case delta < 0:
			line = badStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	width := int(float64(m.width) * 0.25)
	return sidebarStyle.Width(width).Render(b.String())
}

func (m model) renderReport() string {
	if m.report == nil {
		return ""
	}
	width := m.contentWidth()
	r := m.report
	var b strings.Builder

	b.WriteString(headerStyle.Render("Game Complete — Performance Report") + "\n\n")

	b.WriteString(titleStyle.Render("FINAL SCORES") + "\n")
	for _, metric := range models.AllMetrics {
		b.WriteString(fmt.Sprintf("%s: %d%% (%+d)\n", metric.Label(), r.Scores[metric], r.Deltas[metric]))
	}
	b.WriteString(fmt.Sprintf("\nAverage: %.1f%% — %s\n\n", r.Average, r.Tier))

	b.WriteString(titleStyle.Render("OVERVIEW") + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(r.Analysis.Overview) + "\n\n")

	b.WriteString(titleStyle.Render("STRENGTHS") + "\n")
	for _, s := range r.Analysis.Strengths {
		b.WriteString(goodStyle.Render("+ "+s) + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("AREAS FOR IMPROVEMENT") + "\n")
	for _, s := range r.Analysis.Improvements {
		b.WriteString(badStyle.Render("- "+s) + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("PERSONAL LEARNINGS") + "\n")
	for _, s := range r.Analysis.PersonalLearnings {
		b.WriteString(infoStyle.Render("* "+s) + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("RECOMMENDATIONS") + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(r.Analysis.Recommendations) + "\n\n")

	b.WriteString(titleStyle.Render("YOUR DECISION JOURNEY") + "\n")
	for _, d := range r.Decisions {
		b.WriteString(fmt.Sprintf("%s — %s: %s\n", d.Stage, d.Scenario, d.Choice))
	}

	b.WriteString("\n" + titleStyle.Render("KEY CONCEPTS COVERED") + "\n")
	for _, f := range r.Feedback {
		if f.Learning != "" {
			b.WriteString(fmt.Sprintf("%s: %s\n", f.Stage, f.Learning))
		}
	}

	return b.String()
}

func (m model) contentWidth() int {
	w := int(float64(m.width) * 0.7)
	if w < 40 {
		w = 40
	}
	return w
}

// startScenarioFetch transitions to the loading screen and kicks off the
// fetch for the current slot. The request is snapshotted here, inside Update,
// so the command goroutine never reads the session; its result is committed
// back through CacheScenario when the message arrives.
func (m model) startScenarioFetch() (model, tea.Cmd) {
	if scenario, ok := m.session.CachedScenario(); ok {
		m.scenario = scenario
		m.screen = screenScenario
		return m, nil
	}
	req, err := m.session.ScenarioRequest()
	if err != nil {
		return m, fail(err)
	}
	m.screen = screenLoading
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return scenarioMsg{req: req, scenario: req.Fetch(context.Background())}
	})
}

func (m model) startReportBuild() (model, tea.Cmd) {
	req, err := m.session.ReportRequest()
	if err != nil {
		return m, fail(err)
	}
	m.screen = screenLoading
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return reportMsg{req: req, report: req.Build(context.Background())}
	})
}

// Run starts the interactive game over the given session.
func Run(session *game.Session) error {
	p := tea.NewProgram(NewModel(session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
