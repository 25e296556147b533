package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings splits the comma separated origin list
)

// Admissible identity verification strategies. Exactly one is picked at
// startup and applied to every request; mixing strategies across a running
// deployment is not supported.
const (
	StrategySelfIssued = "self-issued" // tokens minted and verified locally
	StrategyDelegated  = "delegated"   // tokens verified by the hosted provider
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, flags for the
// behavioral switches.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DatabaseURL  string // connection string for the hosted relational store
	ProviderURL  string // base URL of the hosted identity/storage platform
	AnonKey      string // the provider's public (anonymous) API key
	ServiceKey   string // administrative credential for the provider
	JWTSecret    string // secret used to sign self-issued tokens
	AuthStrategy string // "self-issued" or "delegated"

	S3Bucket        string // object store bucket for research artifacts
	S3Region        string // object store region
	S3Endpoint      string // optional custom endpoint for S3-compatible stores
	S3AccessKey     string // object store access key id
	S3SecretKey     string // object store secret key
	S3PublicBaseURL string // optional public base URL for uploaded objects

	CORSOrigins []string // front-end origins allowed by CORS

	StrictOwnership bool // reject client-supplied user ids that differ from the caller
	LegacyPlaintext bool // compare stored passwords byte-for-byte (compatibility only)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The signing secret
// and the provider service key are only required by the strategy that uses
// them.
func Load() Config {
	cfg := Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         must("APP_PORT"),
		DatabaseURL:  must("DATABASE_URL"),
		ProviderURL:  must("SUPABASE_URL"),
		AnonKey:      must("SUPABASE_ANON_KEY"),
		ServiceKey:   os.Getenv("SUPABASE_SERVICE_KEY"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AuthStrategy: envStr("AUTH_STRATEGY", StrategySelfIssued),

		S3Bucket:        must("S3_BUCKET"),
		S3Region:        must("S3_REGION"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     must("S3_ACCESS_KEY"),
		S3SecretKey:     must("S3_SECRET_KEY"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		CORSOrigins: splitOrigins(envStr("CORS_ORIGINS", "*")),

		StrictOwnership: envBool("STRICT_OWNERSHIP", false),
		LegacyPlaintext: envBool("LEGACY_PLAINTEXT_PASSWORDS", false),
	}

	switch cfg.AuthStrategy {
	case StrategySelfIssued:
		if cfg.JWTSecret == "" {
			log.Fatalf("AUTH_STRATEGY=%s requires JWT_SECRET", cfg.AuthStrategy)
		}
	case StrategyDelegated:
		if cfg.ServiceKey == "" {
			log.Fatalf("AUTH_STRATEGY=%s requires SUPABASE_SERVICE_KEY", cfg.AuthStrategy)
		}
	default:
		log.Fatalf("unknown AUTH_STRATEGY: %q", cfg.AuthStrategy)
	}

	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// splitOrigins turns a comma separated origin list into a slice, trimming
// whitespace around each entry.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
