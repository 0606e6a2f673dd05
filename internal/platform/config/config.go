package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL        string // user-scoped credential
	ServiceDatabaseURL string // elevated credential, the only one allowed to write rates
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	MigrationsPath     string
	JWTSecret          string
	JWTIssuer          string

	// Rates
	AnchorCurrency      string
	RateCacheTTL        time.Duration
	RateFetchTimeout    time.Duration
	RateRefreshInterval time.Duration // 0 disables the in-process scheduler

	// Scheduler trigger
	SchedulerSecret       string
	SchedulerSecretHash   string // bcrypt hash, preferred over the plain secret when set
	SchedulerOIDCAudience string

	// FX provider
	FXProviderURL          string
	FXProviderAPIKey       string
	FXProviderRatesPath    string
	FXProviderTokenURL     string
	FXProviderClientID     string
	FXProviderClientSecret string

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimit          string
	PosthogAPIKey      string
	PosthogEndpoint    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PGSQL_SERVICE_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("ANCHOR_CURRENCY", "USD")
	viper.SetDefault("RATE_CACHE_TTL", "24h")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "5s")
	viper.SetDefault("RATE_REFRESH_INTERVAL", "24h")
	viper.SetDefault("SCHEDULER_SECRET", "")
	viper.SetDefault("SCHEDULER_SECRET_HASH", "")
	viper.SetDefault("SCHEDULER_OIDC_AUDIENCE", "")
	viper.SetDefault("FX_PROVIDER_URL", "")
	viper.SetDefault("FX_PROVIDER_API_KEY", "")
	viper.SetDefault("FX_PROVIDER_RATES_PATH", "$.rates")
	viper.SetDefault("FX_PROVIDER_TOKEN_URL", "")
	viper.SetDefault("FX_PROVIDER_CLIENT_ID", "")
	viper.SetDefault("FX_PROVIDER_CLIENT_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.ServiceDatabaseURL = viper.GetString("PGSQL_SERVICE_URL")
	if cfg.ServiceDatabaseURL == "" {
		log.Println("Warning: PGSQL_SERVICE_URL not set. Rate refresh and manual rates will be disabled.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.AnchorCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("ANCHOR_CURRENCY")))
	if len(cfg.AnchorCurrency) != 3 {
		log.Printf("Warning: Invalid ANCHOR_CURRENCY ('%s'). Defaulting to USD.\n", cfg.AnchorCurrency)
		cfg.AnchorCurrency = "USD"
	}

	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", 24*time.Hour)
	cfg.RateFetchTimeout = durationOrDefault("RATE_FETCH_TIMEOUT", 5*time.Second)
	cfg.RateRefreshInterval = durationOrDefault("RATE_REFRESH_INTERVAL", 24*time.Hour)

	cfg.SchedulerSecret = viper.GetString("SCHEDULER_SECRET")
	cfg.SchedulerSecretHash = viper.GetString("SCHEDULER_SECRET_HASH")
	if cfg.SchedulerSecret == "" && cfg.SchedulerSecretHash == "" {
		log.Println("Warning: neither SCHEDULER_SECRET nor SCHEDULER_SECRET_HASH is set. Every refresh trigger will be rejected.")
	}
	cfg.SchedulerOIDCAudience = viper.GetString("SCHEDULER_OIDC_AUDIENCE")

	cfg.FXProviderURL = viper.GetString("FX_PROVIDER_URL")
	if cfg.FXProviderURL == "" {
		log.Println("Warning: FX_PROVIDER_URL not set. Rate refresh will be disabled.")
	}
	cfg.FXProviderAPIKey = viper.GetString("FX_PROVIDER_API_KEY")
	cfg.FXProviderRatesPath = viper.GetString("FX_PROVIDER_RATES_PATH")
	cfg.FXProviderTokenURL = viper.GetString("FX_PROVIDER_TOKEN_URL")
	cfg.FXProviderClientID = viper.GetString("FX_PROVIDER_CLIENT_ID")
	cfg.FXProviderClientSecret = viper.GetString("FX_PROVIDER_CLIENT_SECRET")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
