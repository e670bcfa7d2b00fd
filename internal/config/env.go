package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Env carries process configuration. A .env file is honored when present;
// real environment variables win.
type Env struct {
	AppAddr string
	GinMode string

	// AppID namespaces the document collections of one deployment.
	AppID string

	// MySQLDSN selects the MySQL-backed document store. Empty means the
	// in-memory store (useful for development and tests).
	MySQLDSN string

	JWTSecret string

	CORSOrigins []string

	CompanyName string
}

// LoadEnv reads configuration from the environment.
func LoadEnv() Env {
	_ = godotenv.Load(".env")

	env := Env{
		AppAddr:     cast.ToString(getOrDefault("APP_ADDR", ":8080")),
		GinMode:     cast.ToString(getOrDefault("GIN_MODE", "")),
		AppID:       cast.ToString(getOrDefault("APP_ID", "manager")),
		MySQLDSN:    cast.ToString(getOrDefault("MYSQL_DSN", "")),
		JWTSecret:   cast.ToString(getOrDefault("JWT_SECRET", "super-secret-key-change-me")),
		CompanyName: cast.ToString(getOrDefault("COMPANY_NAME", "")),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}
	return env
}

func getOrDefault(key string, defaultValue any) any {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
