package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	Dev        = "development"
	Test       = "test"
	Preview    = "preview"
	Production = "production"
)

type Config struct {
	AppName string `validate:"required"`
	AppEnv  string `validate:"oneof=development test preview production"`
	AppPort int    `validate:"min=1,max=65535"`

	LogLevel string

	// Item store. sqlite uses DBDSN (default in-memory); pgx uses DBDSN or the DB_* parts.
	DBDriver   string `validate:"oneof=sqlite pgx"`
	DBDSN      string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int `validate:"min=1,max=65535"`
	DBName     string

	// Redis (optional; enabled only when RedisHost is set).
	RedisUser     string
	RedisPassword string
	RedisHost     string
	RedisPort     int    `validate:"min=1,max=65535"`
	RedisScheme   string `validate:"oneof=redis rediss"`

	CORSAllowedOrigins []string

	// Bearer tokens accepted by the auth middleware. Empty disables writes.
	AuthTokens []string

	RateLimitPerMinute int `validate:"min=0"`
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "routeplug")
	v.SetDefault("APP_ENV", Dev)
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")

	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	return v
}

func NewConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppName: v.GetString("APP_NAME"),
		AppEnv:  strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),

		DBDriver:   strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DBDSN:      v.GetString("DB_DSN"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetInt("DB_PORT"),
		DBName:     v.GetString("DB_NAME"),

		RedisUser:     v.GetString("REDIS_USER"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisScheme:   strings.ToLower(strings.TrimSpace(v.GetString("REDIS_SCHEME"))),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthTokens:         splitList(v.GetString("AUTH_TOKENS")),

		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
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
