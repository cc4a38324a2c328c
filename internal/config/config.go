package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	BackendURL      string
	BackendTimeout  time.Duration
	ShutdownTimeout time.Duration
	TokenFile       string
	CORSOrigins     []string
	TaxRate         decimal.Decimal
	LogLevel        string
	BreakerFailures uint32
	BreakerOpen     time.Duration
}

// Load reads an optional .env file and then builds Config from the
// environment. Variables already set win over the file.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	return FromEnv()
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		BackendURL:      strings.TrimRight(envOrDefault("BACKEND_URL", "http://localhost:4444/api"), "/"),
		BackendTimeout:  envDuration("BACKEND_TIMEOUT_SECONDS", 60*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		TokenFile:       envOrDefault("TOKEN_FILE", defaultTokenFile()),
		CORSOrigins:     envList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		TaxRate:         envDecimal("TAX_RATE", decimal.RequireFromString("0.15")),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		BreakerFailures: uint32(envInt("BREAKER_FAILURES", 5)),
		BreakerOpen:     envDuration("BREAKER_OPEN_SECONDS", 30*time.Second),
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".pos-terminal", "token.json")
	}
	return filepath.Join(home, ".pos-terminal", "token.json")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err == nil && !d.IsNegative() {
			return d
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
