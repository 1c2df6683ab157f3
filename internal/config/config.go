package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration. The Gemini API key is the only
// required setting; without it the game cannot run at all.
type Config struct {
	GeminiAPIKey   string        `envconfig:"GEMINI_API_KEY" required:"true"`
	ScenarioModel  string        `envconfig:"SCM_SCENARIO_MODEL" default:"gemini-2.5-flash-lite"`
	AnalysisModel  string        `envconfig:"SCM_ANALYSIS_MODEL" default:"gemini-2.0-flash-exp"`
	RequestTimeout time.Duration `envconfig:"SCM_REQUEST_TIMEOUT" default:"30s"`
}

// Load reads the configuration from the environment, consulting a .env file
// first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
