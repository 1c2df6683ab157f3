// Command simulate_game plays a full run non-interactively: an LLM "player"
// reads each scenario and picks an option letter, and the final report is
// printed. Useful for smoke-testing prompt quality end to end.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"scm-game/internal/config"
	"scm-game/internal/content"
	"scm-game/internal/game"
	"scm-game/internal/models"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	client, err := content.NewClient(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create content client: %v", err)
	}
	defer client.Close()

	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel(cfg.ScenarioModel)

	session := game.NewSession(client)
	if err := session.Start(); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	turn := 0
	for !session.Complete() {
		turn++
		scenario, err := session.CurrentScenario(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch scenario: %v", err)
		}

		fmt.Printf("--- Turn %d: %s (%s) ---\n", turn, scenario.Title, session.StageName())
		fmt.Println(scenario.Description)

		choice := pickOption(ctx, playerModel, scenario)
		fmt.Printf("Player picks: %s\n", choice)
		if err := session.ChooseOption(choice); err != nil {
			log.Fatalf("Failed to choose option: %v", err)
		}

		if selected, ok := session.Selected(); ok {
			fmt.Printf("Feedback: %s\n", selected.Feedback)
		}
		scores := session.Scores()
		fmt.Printf("Scores: cost=%d satisfaction=%d resilience=%d sustainability=%d\n\n",
			scores[models.CostEfficiency], scores[models.CustomerSatisfaction],
			scores[models.Resilience], scores[models.Sustainability])

		if err := session.ContinueToNext(); err != nil {
			log.Fatalf("Failed to continue: %v", err)
		}
	}

	report, err := session.FinalReport(ctx)
	if err != nil {
		log.Fatalf("Failed to build report: %v", err)
	}
	fmt.Printf("=== Final: average %.1f%% (%s) ===\n", report.Average, report.Tier)
	fmt.Println(report.Analysis.Overview)
	for _, s := range report.Analysis.Strengths {
		fmt.Printf("+ %s\n", s)
	}
	for _, s := range report.Analysis.Improvements {
		fmt.Printf("- %s\n", s)
	}
}

func pickOption(ctx context.Context, model *genai.GenerativeModel, scenario models.Scenario) string {
	var options strings.Builder
	for _, o := range scenario.Options {
		fmt.Fprintf(&options, "%s: %s\n", o.ID, o.Text)
	}

	prompt := fmt.Sprintf(`You are playing a supply chain management training game.
Scenario: %s
%s

Options:
%s
Pick the option that best balances cost, satisfaction, resilience and sustainability.
Return ONLY the single option letter.`, scenario.Title, scenario.Description, options.String())

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return scenario.Options[0].ID
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return scenario.Options[0].ID
	}
	letter := strings.ToUpper(strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])))
	if _, ok := scenario.OptionByID(letter); ok {
		return letter
	}
	return scenario.Options[0].ID
}
