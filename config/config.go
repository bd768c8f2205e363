package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Station source: "api" (remote mock API) or "mongo".
	StationSource     string `mapstructure:"STATION_SOURCE"`
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`
	APIUpdateDelayMs  int    `mapstructure:"API_UPDATE_DELAY_MS"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	CacheEnabled            bool `mapstructure:"CACHE_ENABLED"`
	StationsCacheTTLSeconds int  `mapstructure:"STATIONS_CACHE_TTL_SECONDS"`

	NotificationsEnabled bool `mapstructure:"NOTIFICATIONS_ENABLED"`

	// RefreshCron is a cron spec for re-fetching the station list. Empty disables it.
	RefreshCron string `mapstructure:"REFRESH_CRON"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("STATION_SOURCE", "api")
	viper.SetDefault("API_BASE_URL", "https://605c94c36d85de00170da8b4.mockapi.io")
	viper.SetDefault("API_TIMEOUT_SECONDS", 15)
	viper.SetDefault("API_UPDATE_DELAY_MS", 500)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "stationcal")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("STATIONS_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("NOTIFICATIONS_ENABLED", false)
	viper.SetDefault("REFRESH_CRON", "*/15 * * * *")
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

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

// APITimeout is the remote API request timeout.
func (c Config) APITimeout() time.Duration {
	if c.APITimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// APIUpdateDelay is the latency of the simulated booking update call.
func (c Config) APIUpdateDelay() time.Duration {
	if c.APIUpdateDelayMs < 0 {
		return 0
	}
	return time.Duration(c.APIUpdateDelayMs) * time.Millisecond
}

// StationsCacheTTL is how long a fetched station list stays in redis.
func (c Config) StationsCacheTTL() time.Duration {
	if c.StationsCacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.StationsCacheTTLSeconds) * time.Second
}
