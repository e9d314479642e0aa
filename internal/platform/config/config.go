package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache driver names accepted in CACHE_DRIVER.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// BaseCurrencyCode is the currency all stored rates are expressed against.
	BaseCurrencyCode string

	// Rate cache selection
	CacheDriver   string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CSV fixture ingestion; empty FixturesDir disables it, zero interval
	// disables periodic reloads.
	FixturesDir            string
	FixturesReloadInterval time.Duration

	// BootstrapAPIKey seeds the first API key when the key table is empty,
	// so a fresh deployment can authenticate at all.
	BootstrapAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "currency-converter-app")
	viper.SetDefault("BASE_CURRENCY_CODE", "GBP")
	viper.SetDefault("CACHE_DRIVER", CacheDriverMemory)
	viper.SetDefault("CACHE_TTL", "1m")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("FIXTURES_DIR", "")
	viper.SetDefault("FIXTURES_RELOAD_INTERVAL", "0s")
	viper.SetDefault("BOOTSTRAP_API_KEY", "")

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
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.BaseCurrencyCode = strings.ToUpper(strings.TrimSpace(viper.GetString("BASE_CURRENCY_CODE")))
	if len(cfg.BaseCurrencyCode) != 3 {
		log.Printf("Warning: BASE_CURRENCY_CODE ('%s') is not a 3-letter code. Defaulting to GBP.\n", cfg.BaseCurrencyCode)
		cfg.BaseCurrencyCode = "GBP"
	}

	cfg.CacheDriver = strings.ToLower(viper.GetString("CACHE_DRIVER"))
	switch cfg.CacheDriver {
	case CacheDriverMemory, CacheDriverRedis, CacheDriverNone:
	default:
		log.Printf("Warning: Unknown CACHE_DRIVER ('%s'). Defaulting to %s.\n", cfg.CacheDriver, CacheDriverMemory)
		cfg.CacheDriver = CacheDriverMemory
	}

	cacheTTLStr := viper.GetString("CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil || cacheTTL <= 0 {
		cacheTTL = time.Minute
		log.Printf("Warning: Invalid value for CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL.String())
	}
	cfg.CacheTTL = cacheTTL

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.FixturesDir = viper.GetString("FIXTURES_DIR")

	reloadStr := viper.GetString("FIXTURES_RELOAD_INTERVAL")
	reloadInterval, err := time.ParseDuration(reloadStr)
	if err != nil || reloadInterval < 0 {
		reloadInterval = 0
		if reloadStr != "0s" {
			log.Printf("Warning: Invalid value for FIXTURES_RELOAD_INTERVAL ('%s'). Periodic reloads disabled.\n", reloadStr)
		}
	}
	cfg.FixturesReloadInterval = reloadInterval

	cfg.BootstrapAPIKey = viper.GetString("BOOTSTRAP_API_KEY")

	return cfg, nil
}
