package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting read from the environment
type Config struct {
	Port string

	// Durable store
	StoreDriver string // mongo | postgres | sqlite
	MongoURI    string
	MongoDB     string
	DatabaseURL string

	RedisAddr   string
	ProgressTTL time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	RateLimitPerMinute int
	TrustedProxies     []string // IPs or CIDRs allowed to set X-Forwarded-For
	CORSOrigins        []string

	CatalogPath          string // empty uses the embedded catalog
	EligibilityThreshold float64
}

// Load reads the configuration; malformed numbers fall back to defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "rspo"),
		DatabaseURL: getEnv("DATABASE_URL", "file:rspo.db"),

		RedisAddr:   redisAddr(getEnv("REDIS_URI", "localhost:6379")),
		ProgressTTL: time.Duration(getEnvInt("PROGRESS_TTL_HOURS", 720)) * time.Hour,

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		TrustedProxies:     splitList(getEnv("TRUSTED_PROXIES", "")),
		CORSOrigins:        splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		CatalogPath:          getEnv("CATALOG_PATH", ""),
		EligibilityThreshold: getEnvFloat("ELIGIBILITY_THRESHOLD", 0.5),
	}
}

// redisAddr strips a redis:// scheme; go-redis Options.Addr wants host:port
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, raw, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f > 1 {
		log.Printf("Warning: invalid %s=%q, using %v", key, raw, defaultVal)
		return defaultVal
	}
	return f
}
