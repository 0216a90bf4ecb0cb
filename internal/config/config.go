package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Console is read once at startup; the base URL is not re-read afterwards.
type Console struct {
	BaseURL string
	Token   string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	OTLPEndpoint string

	LogLevel  string
	LogFormat string
}

type Server struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string

	RedisURL string
	CacheTTL time.Duration

	RabbitURL      string
	RabbitExchange string

	JWTSecret string
	JWTIssuer string

	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	CORSOrigins []string

	OTLPEndpoint string

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func LoadConsole() (*Console, error) {
	_ = godotenv.Load()

	cfg := &Console{}
	cfg.BaseURL = strings.TrimRight(getEnv("EVENTAPI_BASE_URL", "http://localhost:8080"), "/")
	cfg.Token = getEnv("EVENTAPI_TOKEN", "")
	cfg.ReadTimeout = getDuration("EVENTAPI_READ_TIMEOUT", 2*time.Second)
	cfg.WriteTimeout = getDuration("EVENTAPI_WRITE_TIMEOUT", 5*time.Second)
	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg.LogLevel = getEnv("LOG_LEVEL", "warn")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OverrideBaseURL replaces the base URL, e.g. from a command-line flag.
func (c *Console) OverrideBaseURL(raw string) error {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if err := validateBaseURL(raw); err != nil {
		return err
	}
	c.BaseURL = raw
	return nil
}

func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	cfg := &Server{}
	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.CacheTTL = getDuration("CACHE_TTL", 5*time.Minute)

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "eventapi.events")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	// 100 reqs / 1 min
	cfg.RLEnabled = getEnv("RL_ENABLED", "true") == "true"
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.CORSOrigins = getList("CORS_ORIGINS", []string{"http://localhost:3000"})

	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	if cfg.AppEnv != "dev" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing DATABASE_URL (required when APP_ENV != dev)")
	}
	if cfg.AppEnv != "dev" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET (required when APP_ENV != dev)")
	}
	return cfg, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid EVENTAPI_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid EVENTAPI_BASE_URL: scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("invalid EVENTAPI_BASE_URL: missing host")
	}
	return nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
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
