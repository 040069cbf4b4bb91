// apps/go-solver/internal/config/config.go
//
// Process configuration read from the environment.
//
// main loads a .env file first (godotenv), so every key here may come from
// either source. Unset or empty keys take the defaults below; malformed
// numbers are an error rather than a silent default.

package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

type Config struct {
	Port         string
	LogLevel     zerolog.Level
	DBPath       string
	DailySalt    string
	JWTSecret    string
	SessionTTL   time.Duration
	ClientOrigin string
	MaxTurns     int
	BenchWorkers int

	Weighting solver.Weighting
	Solver    solver.Config
}

// Load reads the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "5175"),
		DBPath:       getEnv("DB_PATH", "./data/solver.db"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Solver:       solver.DefaultConfig(),
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	ttl, err := envInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return Config{}, err
	}
	if ttl < 1 {
		return Config{}, fmt.Errorf("SESSION_TTL_HOURS: must be >= 1, got %d", ttl)
	}
	cfg.SessionTTL = time.Duration(ttl) * time.Hour

	if cfg.MaxTurns, err = envInt("MAX_TURNS", game.DefaultMaxTurns); err != nil {
		return Config{}, err
	}
	if cfg.BenchWorkers, err = envInt("BENCH_WORKERS", runtime.NumCPU()); err != nil {
		return Config{}, err
	}

	switch w := solver.Weighting(strings.ToLower(os.Getenv("SOLVER_WEIGHTING"))); w {
	case "", solver.WeightSigmoid:
		cfg.Weighting = solver.WeightSigmoid
	case solver.WeightLinear:
		cfg.Weighting = w
	default:
		return Config{}, fmt.Errorf("SOLVER_WEIGHTING: unknown weighting %q", w)
	}

	cfg.Solver.Opener = strings.ToLower(getEnv("SOLVER_OPENER", cfg.Solver.Opener))
	if cfg.Solver.TruncateThreshold, err = envInt("SOLVER_TRUNCATE_THRESHOLD", cfg.Solver.TruncateThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Solver.TruncateFloor, err = envInt("SOLVER_TRUNCATE_FLOOR", cfg.Solver.TruncateFloor); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("SOLVER_TRUNCATE_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("SOLVER_TRUNCATE_FRACTION: %w", err)
		}
		cfg.Solver.TruncateFraction = f
	}
	return cfg, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
