package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	DBPath          string
	CSRFKey         []byte
	SessionKey      []byte
	CookieDomain    string
	CookieSecure    bool
	KafkaBrokers    string // comma-separated; empty disables the outbox publisher
	OutboxInterval  time.Duration
	RateLimitWindow time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8585"),
		DBPath:       getEnv("DB_PATH", "./electroshop.db"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	outboxMS, err := strconv.Atoi(getEnv("OUTBOX_INTERVAL_MS", "1000"))
	if err != nil || outboxMS < 100 {
		outboxMS = 1000
	}
	cfg.OutboxInterval = time.Duration(outboxMS) * time.Millisecond

	windowMS, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_MS", "1000"))
	if err != nil || windowMS < 0 {
		windowMS = 1000
	}
	cfg.RateLimitWindow = time.Duration(windowMS) * time.Millisecond

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	return cfg, nil
}

// loadKey reads a base64 32-byte key from the environment, generating a
// throwaway one when unset or malformed. Generated keys change on every
// restart, which invalidates sessions and CSRF tokens.
func loadKey(envVar string) []byte {
	raw := os.Getenv(envVar)
	if raw == "" {
		slog.Warn(envVar + " not set. Generating a random key for development. PLEASE SET " + envVar + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(envVar + " is invalid or shorter than 32 bytes. Generating a random key for development. PLEASE SET A SECURE " + envVar + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
