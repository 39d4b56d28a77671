package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	StateDir   string

	// DatabaseURL is optional; when set the session pair is persisted
	// in postgres instead of the state directory.
	DatabaseURL string

	Store struct {
		APIBaseURL string
		PromoCode  string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	stateDir := os.Getenv("STATE_DIR")
	if stateDir == "" {
		stateDir = ".state"
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must be set")
	}

	promoCode := os.Getenv("PROMO_CODE")
	if promoCode == "" {
		promoCode = "save10"
	}

	cfg := &Config{
		ServerPort:  serverPort,
		StateDir:    stateDir,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	cfg.Store.APIBaseURL = apiBaseURL
	cfg.Store.PromoCode = promoCode

	return cfg, nil
}
