package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
)

// Config carries all runtime settings, resolved once from the environment.
type Config struct {
	Environment string
	HTTPAddr    string

	DatabaseDriver string
	DatabaseDSN    string

	// Billing
	Currency      string
	MonthlyFee    int64
	InitialDueIn  time.Duration
	StkPushDelay  time.Duration
	StkRateLimit  int
	StkRateWindow time.Duration

	// Insight model
	ModelEndpoint string
	ModelAPIKey   string
	ModelName     string
	InsightTTL    time.Duration

	// Tracing
	TracingEnabled  bool
	TracingEndpoint string
	TracingProtocol string
	TracingSampling float64
	ServiceName     string
	ServiceVersion  string

	Bootstrap Bootstrap
}

// Bootstrap controls startup seeding for non-cloud deployments.
type Bootstrap struct {
	EnsureDemoAccount bool
}

// IsProduction reports whether the service runs with production guarantees.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Load resolves configuration from environment variables with defaults
// suitable for local development.
func Load() Config {
	return Config{
		Environment: envString("BRIGHTECO_ENV", "development"),
		HTTPAddr:    envString("HTTP_ADDR", ":8080"),

		DatabaseDriver: envString("DB_DRIVER", "postgres"),
		DatabaseDSN:    envString("DB_DSN", "host=localhost user=brighteco dbname=brighteco sslmode=disable"),

		Currency:      envString("BILLING_CURRENCY", "KES"),
		MonthlyFee:    envInt64("BILLING_MONTHLY_FEE", 2550),
		InitialDueIn:  envDuration("BILLING_INITIAL_DUE_IN", 30*24*time.Hour),
		StkPushDelay:  envDuration("STK_PUSH_DELAY", 1500*time.Millisecond),
		StkRateLimit:  envInt("STK_RATE_LIMIT", 5),
		StkRateWindow: envDuration("STK_RATE_WINDOW", time.Minute),

		ModelEndpoint: envString("MODEL_ENDPOINT", ""),
		ModelAPIKey:   envString("MODEL_API_KEY", ""),
		ModelName:     envString("MODEL_NAME", "gemini-2.0-flash"),
		InsightTTL:    envDuration("INSIGHT_CACHE_TTL", 10*time.Minute),

		TracingEnabled:  envBool("TRACING_ENABLED", false),
		TracingEndpoint: envString("TRACING_ENDPOINT", ""),
		TracingProtocol: envString("TRACING_PROTOCOL", "grpc"),
		TracingSampling: envFloat("TRACING_SAMPLING_RATIO", 0.1),
		ServiceName:     envString("SERVICE_NAME", "brighteco-pay"),
		ServiceVersion:  envString("SERVICE_VERSION", "dev"),

		Bootstrap: Bootstrap{
			EnsureDemoAccount: envBool("BOOTSTRAP_DEMO_ACCOUNT", true),
		},
	}
}

// Module provides Config to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func envString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
