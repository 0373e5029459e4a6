package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds process settings for the server.
type Config struct {
	Addr     string
	LogLevel string
	LogJSON  bool
}

// Load reads a .env file when present, then the environment.
func Load() Config {
	// a missing .env is fine; real env vars still apply
	_ = godotenv.Load()

	return Config{
		Addr:     getEnv("ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_FORMAT") == "json",
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
