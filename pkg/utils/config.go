package utils

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	AI        AIConfig
	Cache     CacheConfig
	Events    EventsConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	Timezone       string
	AllowedOrigins []string
	MaxUploadMB    int64
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type SessionConfig struct {
	ExpiryHours int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type StorageConfig struct {
	CloudinaryURL string
	Folder        string
}

type AIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
	Timeout     time.Duration
}

type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type EventsConfig struct {
	Brokers []string
	Topic   string
}

type JobsConfig struct {
	ReminderSpec       string
	ReminderLead       time.Duration
	SessionCleanupSpec string
}

// Location resolves APP_TIMEZONE, falling back to the server's local zone.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "legal-marketplace")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("MAX_UPLOAD_MB", 10)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("RATE_LIMIT_RPS", 2)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("CLOUDINARY_FOLDER", "legal-marketplace")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("AI_MAX_TOKENS", 800)
	viper.SetDefault("AI_TEMPERATURE", 0.7)
	viper.SetDefault("AI_TIMEOUT_SECONDS", 30)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("KAFKA_TOPIC", "legal-marketplace.events")
	viper.SetDefault("REMINDER_CRON", "*/5 * * * *")
	viper.SetDefault("REMINDER_LEAD_MINUTES", 60)
	viper.SetDefault("SESSION_CLEANUP_CRON", "@daily")

	// .env is optional in containers where everything comes from the environment
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			Timezone:       viper.GetString("APP_TIMEZONE"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			MaxUploadMB:    viper.GetInt64("MAX_UPLOAD_MB"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Storage: StorageConfig{
			CloudinaryURL: viper.GetString("CLOUDINARY_URL"),
			Folder:        viper.GetString("CLOUDINARY_FOLDER"),
		},
		AI: AIConfig{
			APIKey:      viper.GetString("GEMINI_API_KEY"),
			Model:       viper.GetString("GEMINI_MODEL"),
			MaxTokens:   viper.GetInt32("AI_MAX_TOKENS"),
			Temperature: float32(viper.GetFloat64("AI_TEMPERATURE")),
			Timeout:     time.Duration(viper.GetInt("AI_TIMEOUT_SECONDS")) * time.Second,
		},
		Cache: CacheConfig{
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
			TTL:           time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Events: EventsConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Jobs: JobsConfig{
			ReminderSpec:       viper.GetString("REMINDER_CRON"),
			ReminderLead:       time.Duration(viper.GetInt("REMINDER_LEAD_MINUTES")) * time.Minute,
			SessionCleanupSpec: viper.GetString("SESSION_CLEANUP_CRON"),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
