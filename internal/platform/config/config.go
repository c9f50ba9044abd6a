package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Settlement policy, read once at startup.
	FeePercent    decimal.Decimal // fraction, e.g. 0.02 for 2%
	GuestLimitUSD decimal.Decimal

	// Upstream feeds.
	AssetSymbol     string // CoinGecko asset id, e.g. "bitcoin"
	AssetPriceURL   string
	RateSourceURL   string
	RefreshInterval time.Duration

	// Payout notifications.
	KafkaBrokers []string
	KafkaTopic   string

	// Guest endpoint rate limit, in ulule/limiter format (e.g. "10-M").
	GuestRateLimit string

	// External OAuth provider.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	FrontendBaseURL string
	PosthogAPIKey   string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "kahawapay-backend")
	viper.SetDefault("FEE_PERCENT", "0.02")
	viper.SetDefault("GUEST_LIMIT_USD", "10000")
	viper.SetDefault("ASSET_SYMBOL", "bitcoin")
	viper.SetDefault("ASSET_PRICE_URL", "https://api.coingecko.com/api/v3/simple/price")
	viper.SetDefault("RATE_SOURCE_URL", "")
	viper.SetDefault("REFRESH_INTERVAL", "30s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "kahawapay.payouts")
	viper.SetDefault("GUEST_RATE_LIMIT", "10-M")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.FeePercent, err = decimal.NewFromString(viper.GetString("FEE_PERCENT"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEE_PERCENT: %w", err)
	}
	if cfg.FeePercent.IsNegative() || cfg.FeePercent.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("FEE_PERCENT must be a fraction in [0,1), got %s", cfg.FeePercent)
	}

	cfg.GuestLimitUSD, err = decimal.NewFromString(viper.GetString("GUEST_LIMIT_USD"))
	if err != nil {
		return nil, fmt.Errorf("invalid GUEST_LIMIT_USD: %w", err)
	}
	if !cfg.GuestLimitUSD.IsPositive() {
		return nil, fmt.Errorf("GUEST_LIMIT_USD must be positive, got %s", cfg.GuestLimitUSD)
	}

	cfg.AssetSymbol = viper.GetString("ASSET_SYMBOL")
	cfg.AssetPriceURL = viper.GetString("ASSET_PRICE_URL")
	cfg.RateSourceURL = viper.GetString("RATE_SOURCE_URL")

	refreshStr := viper.GetString("REFRESH_INTERVAL")
	cfg.RefreshInterval, err = time.ParseDuration(refreshStr)
	if err != nil || cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 30 * time.Second
		log.Printf("Warning: Invalid REFRESH_INTERVAL (%q). Defaulting to %s.\n", refreshStr, cfg.RefreshInterval)
	}

	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.GuestRateLimit = viper.GetString("GUEST_RATE_LIMIT")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")

	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
