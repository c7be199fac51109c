package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Canvas      CanvasConfig
	Gemini      GeminiConfig
	Cache       CacheConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Assignments AssignmentsConfig
	Analytics   AnalyticsConfig
	Export      ExportConfig
}

// CanvasConfig points the gateway client at the Canvas LMS REST API.
// Token is the optional service-account token; when empty, each incoming
// request must carry its own bearer token.
type CanvasConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// GeminiConfig configures the generative-language client used for
// assignment summarization.
type GeminiConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
	Temperature     float64
}

// CacheConfig selects the result-cache backend and its TTL.
type CacheConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AssignmentsConfig tunes the aggregation endpoint.
type AssignmentsConfig struct {
	DefaultLimit       int
	MaxLimit           int
	PlaceholderEntries bool
}

// AnalyticsConfig gates the per-course analytics endpoints.
type AnalyticsConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// ExportConfig gates the CSV/PDF export endpoint.
type ExportConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Canvas = CanvasConfig{
		BaseURL: strings.TrimRight(v.GetString("CANVAS_API_BASE_URL"), "/"),
		Token:   v.GetString("CANVAS_API_TOKEN"),
		Timeout: parseDuration(v.GetString("CANVAS_API_TIMEOUT"), 30*time.Second),
	}

	cfg.Gemini = GeminiConfig{
		BaseURL:         strings.TrimRight(v.GetString("GEMINI_API_BASE_URL"), "/"),
		APIKey:          v.GetString("GEMINI_API_KEY"),
		Model:           v.GetString("GEMINI_MODEL"),
		Timeout:         parseDuration(v.GetString("GEMINI_API_TIMEOUT"), 30*time.Second),
		MaxOutputTokens: v.GetInt("GEMINI_MAX_OUTPUT_TOKENS"),
		Temperature:     v.GetFloat64("GEMINI_TEMPERATURE"),
	}

	cfg.Cache = CacheConfig{
		Backend: v.GetString("CACHE_BACKEND"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Assignments = AssignmentsConfig{
		DefaultLimit:       v.GetInt("ASSIGNMENTS_DEFAULT_LIMIT"),
		MaxLimit:           v.GetInt("ASSIGNMENTS_MAX_LIMIT"),
		PlaceholderEntries: v.GetBool("ASSIGNMENTS_PLACEHOLDER_ENTRIES"),
	}

	cfg.Analytics = AnalyticsConfig{
		Enabled:  v.GetBool("ENABLE_ANALYTICS"),
		CacheTTL: parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("CANVAS_API_BASE_URL", "https://canvas.instructure.com/api/v1")
	v.SetDefault("CANVAS_API_TOKEN", "")
	v.SetDefault("CANVAS_API_TIMEOUT", "30s")

	v.SetDefault("GEMINI_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-pro")
	v.SetDefault("GEMINI_API_TIMEOUT", "30s")
	v.SetDefault("GEMINI_MAX_OUTPUT_TOKENS", 256)
	v.SetDefault("GEMINI_TEMPERATURE", 0.2)

	v.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("CACHE_TTL", "300s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ASSIGNMENTS_DEFAULT_LIMIT", 50)
	v.SetDefault("ASSIGNMENTS_MAX_LIMIT", 200)
	v.SetDefault("ASSIGNMENTS_PLACEHOLDER_ENTRIES", true)

	v.SetDefault("ENABLE_ANALYTICS", true)
	v.SetDefault("ANALYTICS_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
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
