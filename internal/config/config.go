package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

const AppName = "estate-agency"

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	// Database
	DBUrl string

	// Auth
	JWTSecret string

	// SendGrid
	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridSandboxMode bool

	// Dev conveniences
	SeedDBWithTestData bool
	CORSAllowLocalhost bool
}

// LoadConfig reads the environment (optionally seeded from a local .env file)
// and fails fast on anything required.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found; relying on process environment")
	}

	cfg := &Config{
		AppName: AppName,
		AppPort: mustEnv("APP_PORT"),
		AppUrl:  mustEnv("APP_URL"),
		DBUrl:   mustEnv("DB_URL"),

		JWTSecret: mustEnv("JWT_SECRET"),

		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail:   os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridSandboxMode: boolEnv("SENDGRID_SANDBOX_MODE", true),

		SeedDBWithTestData: boolEnv("SEED_DB_WITH_TEST_DATA", false),
		CORSAllowLocalhost: boolEnv("CORS_ALLOW_LOCALHOST", true),
	}

	if !cfg.SendGridSandboxMode && (cfg.SendGridAPIKey == "" || cfg.SendGridFromEmail == "") {
		utils.Logger.Fatal("SENDGRID_API_KEY and SENDGRID_FROM_EMAIL are required outside sandbox mode")
	}

	return cfg
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

func boolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.Logger.Fatalf("%s must be a boolean, got %q", key, raw)
	}
	return v
}
