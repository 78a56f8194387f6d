package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	UserACLOpen   = "open"
	UserACLStrict = "strict"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	JWTSecret           string
	JWTAccessTTLSeconds int

	AdminEmail    string
	AdminPassword string
	AdminName     string

	StorageDir     string
	PublicBaseURL  string
	MaxUploadBytes int64

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	CORSOrigins []string

	OTELEndpoint string
	ServiceName  string

	LoginRateLimit  int
	UploadRateLimit int

	// UserACL controls who may update a user record: "open" lets any
	// authenticated caller do it, "strict" limits it to the owner or a superuser.
	UserACL string
}

func Load() Config {
	// a missing .env is fine, the process env still applies
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: getEnv("DATABASE_URL", buildDBURL()),

		JWTSecret:           getEnv("JWT_SECRET", "change-me"),
		JWTAccessTTLSeconds: getEnvInt("JWT_ACCESS_TTL_SECONDS", 3600),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),

		StorageDir:     getEnv("STORAGE_DIR", "storage"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "nomzod-api"),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 20),
		UploadRateLimit: getEnvInt("UPLOAD_RATE_LIMIT", 10),

		UserACL: normalizeACL(getEnv("USER_ACL", UserACLOpen)),
	}
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLSeconds) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "nomzod")
	pass := getEnv("DB_PASSWORD", "nomzod")
	name := getEnv("DB_NAME", "nomzod")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env value, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeACL(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), UserACLStrict) {
		return UserACLStrict
	}
	return UserACLOpen
}
