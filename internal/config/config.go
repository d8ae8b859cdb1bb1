// Package config reads process settings from KUDOS_* environment variables.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config is everything cmd/server and cmd/kudosctl need to start.
type Config struct {
	Env  string
	Addr string

	Store  string
	DBPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// CSRFKey is 32 bytes. Outside production a random key is generated
	// when none is set, so sessions do not survive a restart.
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
	StaticDir      string
	RateLimit      int
	SlowRequest    time.Duration
	SlowQuery      time.Duration

	ResendKey  string
	EmailFrom  string
	AdminEmail string

	SheetsCredentials   string
	SheetsSpreadsheetID string
	SheetsTab           string
}

// Production reports whether KUDOS_ENV is "production".
func (c Config) Production() bool {
	return c.Env == "production"
}

// SheetsEnabled reports whether standings should be mirrored to a sheet.
func (c Config) SheetsEnabled() bool {
	return c.SheetsCredentials != "" && c.SheetsSpreadsheetID != ""
}

// ErrCSRFKeyRequired is returned in production when KUDOS_CSRF_KEY is unset.
var ErrCSRFKeyRequired = errors.New("KUDOS_CSRF_KEY is required in production")

// Load reads .env (if any) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		return envOrDefault(getenv, key, fallback)
	}

	cfg := Config{
		Env:                 env("KUDOS_ENV", "development"),
		Addr:                env("KUDOS_ADDR", ":8080"),
		Store:               strings.ToLower(env("KUDOS_STORE", StoreSQLite)),
		DBPath:              env("KUDOS_DB_PATH", "kudos.db"),
		RedisAddr:           env("KUDOS_REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getenv("KUDOS_REDIS_PASSWORD"),
		RedisPrefix:         getenv("KUDOS_REDIS_PREFIX"),
		StaticDir:           getenv("KUDOS_STATIC_DIR"),
		ResendKey:           getenv("KUDOS_RESEND_KEY"),
		EmailFrom:           env("KUDOS_RESEND_FROM", "Club Kudos <noreply@example.org>"),
		AdminEmail:          getenv("KUDOS_ADMIN_EMAIL"),
		SheetsCredentials:   getenv("KUDOS_SHEETS_CREDENTIALS"),
		SheetsSpreadsheetID: getenv("KUDOS_SHEETS_SPREADSHEET_ID"),
		SheetsTab:           env("KUDOS_SHEETS_TAB", "Standings"),
	}
	if cfg.Store != StoreSQLite && cfg.Store != StoreRedis {
		return Config{}, fmt.Errorf("KUDOS_STORE must be %q or %q, got %q", StoreSQLite, StoreRedis, cfg.Store)
	}

	var err error
	if cfg.RedisDB, err = intVar(getenv, "KUDOS_REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = intVar(getenv, "KUDOS_RATE_LIMIT", 20); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequest, err = durationVar(getenv, "KUDOS_SLOW_REQUEST", 200*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.SlowQuery, err = durationVar(getenv, "KUDOS_SLOW_QUERY", 50*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.SecureCookies, err = boolVar(getenv, "KUDOS_SECURE_COOKIES", cfg.Production()); err != nil {
		return Config{}, err
	}
	if v := getenv("KUDOS_TRUSTED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.TrustedOrigins = append(cfg.TrustedOrigins, o)
			}
		}
	}
	if cfg.CSRFKey, err = csrfKey(getenv("KUDOS_CSRF_KEY"), cfg.Production()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// csrfKey decodes a hex-encoded 32 byte key. In development a random key
// is generated per startup.
func csrfKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("KUDOS_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, ErrCSRFKeyRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate CSRF key: %w", err)
	}
	slog.Warn("csrf_key_random", "hint", "set KUDOS_CSRF_KEY so sessions survive restarts")
	return key, nil
}

func envOrDefault(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func intVar(getenv func(string) string, key string, fallback int) (int, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationVar(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolVar(getenv func(string) string, key string, fallback bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
