package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	AppEnv string
	Port   string

	DBType         string
	DBPath         string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int

	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	// AllowOversell lets a sale drive product quantity below zero.
	AllowOversell bool
	SeedData      bool

	WSJWTSecret string
}

// IsProduction reports whether the service runs in release mode.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configs/.env (if present), an optional configs/app.yaml and the
// process environment, in increasing order of precedence.
func Load() (Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	cfg := Config{
		AppEnv:             strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:               v.GetString("PORT"),
		DBType:             strings.ToLower(strings.TrimSpace(v.GetString("DB_TYPE"))),
		DBPath:             v.GetString("DB_PATH"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		DBMaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
		RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AllowOversell:      v.GetBool("ALLOW_OVERSELL"),
		SeedData:           v.GetBool("SEED_DATA"),
		WSJWTSecret:        strings.TrimSpace(v.GetString("WS_JWT_SECRET")),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3001")
	v.SetDefault("DB_TYPE", DBTypeSQLite)
	v.SetDefault("DB_PATH", "inventory.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "inventory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("ALLOW_OVERSELL", true)
	v.SetDefault("SEED_DATA", true)
	v.SetDefault("WS_JWT_SECRET", "")
}

func (c Config) validate() error {
	switch c.DBType {
	case DBTypeSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	case DBTypePostgres:
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for postgres")
		}
	default:
		return errors.New("DB_TYPE must be one of: sqlite, postgres")
	}
	if c.RequestTimeout < 0 {
		return errors.New("REQUEST_TIMEOUT cannot be negative")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
