package config

import (
	"errors"
	"os"
	"time"
)

// Config holds every setting the API needs, resolved once at startup.
// Secrets and expiries are passed explicitly to the token service and
// handlers instead of being read from the environment ad hoc.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	CORSOrigin    string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	GeminiAPIKey   string
	TextbeltAPIKey string
}

// Load builds a Config from environment variables. The two token secrets
// are mandatory; everything else falls back to a sensible default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("API_PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "medivault"),
		CORSOrigin:         getEnv("CORS_ORIGIN", "http://localhost:5173"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		TextbeltAPIKey:     os.Getenv("TEXTBELT_API_KEY"),
	}

	if cfg.AccessTokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET is not set")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, errors.New("REFRESH_TOKEN_SECRET is not set")
	}

	var err error
	cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_EXPIRY", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_EXPIRY", 240*time.Hour)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + " is not a valid duration: " + err.Error())
	}
	return d, nil
}
