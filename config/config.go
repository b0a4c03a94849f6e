package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisPass    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stripe.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Booking policy. Injected into the pricing and cancellation
	// services at construction so tests can vary them.
	TaxRate           float64 `mapstructure:"TAX_RATE"`
	VisitingFee       float64 `mapstructure:"VISITING_FEE"`
	CancelWindowHours int     `mapstructure:"CANCEL_WINDOW_HOURS"`
	OrphanSweepAfter  int     `mapstructure:"ORPHAN_SWEEP_AFTER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("TAX_RATE", 0.18)
	viper.SetDefault("VISITING_FEE", 50.0)
	viper.SetDefault("CANCEL_WINDOW_HOURS", 24)
	viper.SetDefault("ORPHAN_SWEEP_AFTER_MIN", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
