// pkg/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all process configuration. Loaded once at startup and
// passed explicitly into constructors; nothing reads the environment after
// Load returns.
type Config struct {
	Env      string
	HTTPAddr string

	// OIDC bearer validation (GitHub Actions tokens)
	Issuer       string
	JWKSURL      string
	Audience     string
	Repository   string // expected "repository" claim, e.g. "my-org/deployment"
	JWKSCacheTTL time.Duration
	JWKSTimeout  time.Duration

	// Brevo webhook admission
	WebhookToken    string
	WebhookCIDRs    string // comma-separated IPv4 CIDR allowlist; empty = no IP restriction
	WebhookNameExpr string // JMESPath expression locating the instance name in the payload

	// Public availability check throttle
	CheckRateLimit  int
	CheckRateWindow time.Duration

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string

	// Base for RFC 7807 problem type URLs
	ProblemBaseURL string
}

const defaultIssuer = "https://token.actions.githubusercontent.com"

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:             env("AAM_ENV", "dev"),
		HTTPAddr:        env("AAM_HTTP_ADDR", ":3000"),
		Issuer:          env("GITHUB_OIDC_ISSUER", defaultIssuer),
		JWKSURL:         env("GITHUB_OIDC_JWKS_URL", ""),
		Audience:        env("GITHUB_OIDC_AUDIENCE", ""),
		Repository:      env("GITHUB_REPOSITORY", ""),
		JWKSCacheTTL:    envDur("JWKS_CACHE_TTL_SEC", 6*60*60) * time.Second,
		JWKSTimeout:     envDur("JWKS_FETCH_TIMEOUT_SEC", 10) * time.Second,
		WebhookToken:    env("BREVO_WEBHOOK_TOKEN", ""),
		WebhookCIDRs:    env("BREVO_ALLOWED_IPS", ""),
		WebhookNameExpr: env("BREVO_NAME_ATTRIBUTE", "attributes.AAM_SYSTEM"),
		CheckRateLimit:  envInt("CHECK_RATE_LIMIT", 10),
		CheckRateWindow: envDur("CHECK_RATE_WINDOW_SEC", 60) * time.Second,
		RedisURL:        env("REDIS_URL", ""),
		DatabaseURL:     env("DATABASE_URL", ""),
		ProblemBaseURL:  env("PROBLEM_BASE_URL", ""),
	}
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = strings.TrimRight(cfg.Issuer, "/") + "/.well-known/jwks"
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i)
		}
	}
	return time.Duration(def)
}
