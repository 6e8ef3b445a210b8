package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	API    APIConfig
	Server ServerConfig
	Auth   AuthConfig
	Observ ObservabilityConfig
}

type AppConfig struct {
	Env string
}

type APIConfig struct {
	// Override wins over the environment-keyed defaults when non-empty.
	Override       string
	ProductionURL  string
	DevelopmentURL string
}

type ServerConfig struct {
	Port         string
	DBDriver     string
	DatabaseURL  string
	AuthRequired bool
}

type AuthConfig struct {
	AdminUsername string
	AdminPassword string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Env: getEnv("ENV", "development"),
		},
		API: APIConfig{
			Override:       getEnv("API_URL", ""),
			ProductionURL:  getEnv("API_URL_PRODUCTION", "https://invmanage-backend.onrender.com"),
			DevelopmentURL: getEnv("API_URL_DEVELOPMENT", "http://localhost:5000"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			DBDriver:     getEnv("DB_DRIVER", "sqlite3"),
			DatabaseURL:  getEnv("DATABASE_URL", "file:inventory.db?_fk=1"),
			AuthRequired: getEnv("AUTH_REQUIRED", "false") == "true",
		},
		Auth: AuthConfig{
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s", cfg.App.Env)
	return cfg
}

// BaseURL resolves the backend base URL for a single request: the explicit
// override if set, otherwise the default keyed by the current environment.
// Resolved on every call so tests can swap environments on a Config copy.
func (c *Config) BaseURL() string {
	if c.API.Override != "" {
		return c.API.Override
	}
	if c.App.Env == "production" {
		return c.API.ProductionURL
	}
	return c.API.DevelopmentURL
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
