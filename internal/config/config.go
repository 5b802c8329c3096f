package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDBDriver     = "sqlite"
	defaultDBConnection = "./data/jamspace.db?_pragma=journal_mode(WAL)"
)

type Config struct {
	// Application
	AppName         string
	AppEnv          string
	Port            string
	APIPrefix       string
	ShutdownTimeout time.Duration

	// Key-value store (sqlite or pgx)
	DBDriver     string
	DBConnection string

	// Auth provider
	JWTSecret      string
	JWTExpiry      time.Duration
	AnonKey        string // shared key sent by signed-out clients; never resolves to a user
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Read client IPs from X-Forwarded-For. Enable only behind a proxy
	// that sets the header itself.
	TrustProxyHeaders bool

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Object storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region          string
	S3Bucket          string
	S3AccessKey       string
	S3SecretKey       string
	S3Endpoint        string        // Optional: for S3-compatible services
	S3SignedURLExpiry time.Duration // Lifetime of file download links

	// Limits
	MaxUploadSize int64
	DiscoverLimit int
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName:         envString("APP_NAME", "Jamspace"),
		AppEnv:          envRequired("APP_ENV"), // 'development', 'production' or 'test'
		Port:            envString("PORT", "8090"),
		APIPrefix:       normalizePrefix(envString("API_PREFIX", "/api")),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		DBDriver:     envString("DB_DRIVER", defaultDBDriver),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),

		JWTSecret:      envRequired("JWT_SECRET"),
		JWTExpiry:      envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		AnonKey:        envString("ANON_KEY", ""),
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),

		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:          envRequired("S3_REGION"),
		S3Bucket:          envString("S3_BUCKET", "music-files"),
		S3AccessKey:       envString("S3_ACCESS_KEY", ""),
		S3SecretKey:       envString("S3_SECRET_KEY", ""),
		S3Endpoint:        envString("S3_ENDPOINT", ""),
		S3SignedURLExpiry: envDuration("S3_SIGNED_URL_EXPIRY", time.Hour),

		MaxUploadSize: envInt64("MAX_UPLOAD_SIZE", 50<<20), // 50MB
		DiscoverLimit: envInt("DISCOVER_LIMIT", 20),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// LoadDatabase reads only the key-value store settings. Ops tooling uses it
// so it can run without the server's required secrets.
func LoadDatabase() (driver, connection string) {
	_ = godotenv.Load()
	return envString("DB_DRIVER", defaultDBDriver), envString("DB_CONNECTION", defaultDBConnection)
}

// validateProduction refuses to start a production deployment with
// development-only fallbacks.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development to log emails instead of sending them")
		os.Exit(1)
	}
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 bytes")
		os.Exit(1)
	}
}

func normalizePrefix(p string) string {
	p = strings.TrimSuffix(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
