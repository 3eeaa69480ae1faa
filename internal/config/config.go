package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Index drivers
const (
	IndexJSON   = "json"
	IndexSQLite = "sqlite"
	IndexPgx    = "pgx"
	IndexBadger = "badger"
	IndexRemote = "remote"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Local storage
	UploadDir       string
	UploadURLPrefix string

	// Metadata index
	IndexDriver  string // json, sqlite, pgx, badger or remote
	IndexPath    string // json file or badger directory
	DBConnection string // sqlite/pgx DSN

	// Upload policy
	UploadMaxAttempts int
	UploadRetryDelay  time.Duration
	UploadRateLimit   float64 // requests per second per IP
	UploadRateBurst   int

	// Proxies whose X-Forwarded-For / X-Real-IP headers are believed
	TrustedProxies []netip.Prefix

	// Observability (optional)
	SentryDSN string
	LogLevel  string

	// Remote media store (S3-compatible: AWS S3, MinIO, R2, etc.)
	// Set MEDIA_STORE_URL or S3_BUCKET to enable.
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string // Optional: for S3-compatible services
	S3Prefix        string
	S3PresignExpiry time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "Locket"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "5000"),

		UploadDir:       envString("UPLOAD_DIR", "static/uploads"),
		UploadURLPrefix: strings.TrimSuffix(envString("UPLOAD_URL_PREFIX", "/uploads"), "/"),

		IndexDriver:  strings.ToLower(envString("INDEX_DRIVER", IndexJSON)),
		IndexPath:    envString("INDEX_PATH", "images_metadata.json"),
		DBConnection: envString("DB_CONNECTION", "./data/locket.db?_pragma=journal_mode(WAL)"),

		UploadMaxAttempts: envInt("UPLOAD_MAX_ATTEMPTS", 3),
		UploadRetryDelay:  envDuration("UPLOAD_RETRY_DELAY", 2*time.Second),
		UploadRateLimit:   envFloat("UPLOAD_RATE_LIMIT", 1),
		UploadRateBurst:   envInt("UPLOAD_RATE_BURST", 20),

		SentryDSN: envString("SENTRY_DSN", ""),
		LogLevel:  envString("LOG_LEVEL", ""),

		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3Prefix:        strings.Trim(envString("S3_PREFIX", "locket_memories"), "/"),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 168*time.Hour), // 7 days
	}

	cfg.TrustedProxies, err = parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	if raw := os.Getenv("MEDIA_STORE_URL"); raw != "" {
		err = cfg.applyMediaStoreURL(raw)
		if err != nil {
			return nil, err
		}
	}

	err = cfg.validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyMediaStoreURL fills the S3 fields from a connection string of the form
// s3://ACCESS:SECRET@host[:port]/bucket?region=eu-west-1&insecure=true.
// Without a host the default AWS endpoint is used.
func (c *Config) applyMediaStoreURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid MEDIA_STORE_URL: %w", err)
	}
	if u.Scheme != "s3" {
		return fmt.Errorf("invalid MEDIA_STORE_URL: unsupported scheme %q (supported: s3)", u.Scheme)
	}

	bucket := strings.Trim(u.Path, "/")
	if bucket == "" {
		return fmt.Errorf("invalid MEDIA_STORE_URL: bucket missing")
	}
	c.S3Bucket = bucket

	if u.User != nil {
		c.S3AccessKey = u.User.Username()
		c.S3SecretKey, _ = u.User.Password()
	}

	q := u.Query()
	if region := q.Get("region"); region != "" {
		c.S3Region = region
	}
	if u.Host != "" {
		scheme := "https"
		if insecure, _ := strconv.ParseBool(q.Get("insecure")); insecure {
			scheme = "http"
		}
		c.S3Endpoint = scheme + "://" + u.Host
	}

	return nil
}

func (c *Config) validate() error {
	switch c.IndexDriver {
	case IndexJSON, IndexSQLite, IndexPgx, IndexBadger:
	case IndexRemote:
		if !c.RemoteEnabled() {
			return fmt.Errorf("INDEX_DRIVER=remote requires MEDIA_STORE_URL or S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown index driver: %s (supported: json, sqlite, pgx, badger, remote)", c.IndexDriver)
	}

	if c.UploadMaxAttempts < 1 {
		slog.Warn("config UPLOAD_MAX_ATTEMPTS below 1, using 1", "value", c.UploadMaxAttempts)
		c.UploadMaxAttempts = 1
	}
	if c.UploadRetryDelay <= 0 {
		c.UploadRetryDelay = time.Millisecond
	}

	return nil
}

// parseTrustedProxies reads a comma separated list of IPs and CIDRs.
func parseTrustedProxies(raw string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "/") {
			prefix, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", part, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", part, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
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
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
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

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RemoteEnabled reports whether a remote media store is configured.
func (c *Config) RemoteEnabled() bool {
	return c.S3Bucket != ""
}
