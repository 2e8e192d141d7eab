// Package config loads process configuration the way the teacher
// codebase does: .env via godotenv, overridden by the real environment,
// parsed with small getenv/atoiDef/atofDef helpers rather than a generic
// flags/config framework.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// RatingSystem selects which rating algorithm the scheduler's items use.
// §3 requires picking exactly one and using it consistently.
type RatingSystem string

const (
	RatingElo     RatingSystem = "elo"
	RatingGlicko2 RatingSystem = "glicko2"
)

// Config is the process-wide configuration surface.
type Config struct {
	Port              string
	LogLevel          string
	EloK              float64
	RatingSystem      RatingSystem
	SeedRoundsDefault int
	MetricsAddr       string
}

// Load reads .env (if present) then the process environment, applying
// defaults for anything unset. It never fails — missing optional config
// falls back to defaults, matching the teacher's getenv(key, def) style.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:              getenv("PORT", "8080"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		EloK:              atofDef(getenv("ELO_K", ""), 30.0),
		RatingSystem:      ratingSystemFromEnv(getenv("RATING_SYSTEM", "elo")),
		SeedRoundsDefault: atoiDef(getenv("SEED_ROUNDS_DEFAULT", ""), 3),
		MetricsAddr:       getenv("METRICS_ADDR", ":9090"),
	}
}

func ratingSystemFromEnv(v string) RatingSystem {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "glicko2", "glicko-2", "glicko":
		return RatingGlicko2
	default:
		return RatingElo
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func atofDef(s string, def float64) float64 {
	if s == "" {
		return def
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return n
}
