package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"scm-game/internal/config"
	"scm-game/internal/content"
	"scm-game/internal/game"
	"scm-game/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile("scm-game.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := zerolog.New(logFile).With().Timestamp().Logger()

	client, err := content.NewClient(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating content client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	session := game.NewSession(client)
	log.Info().Str("session", session.ID()).Msg("session created")

	if err := tui.Run(session); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
