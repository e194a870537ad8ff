package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoEndpoint     string
	UsersTable         string
	BusesTable         string
	ActivitiesTable    string
	RedisURL           string
	NATSURL            string
	AuditSubject       string
	AuditQueueSize     int
	JWTSecret          string
	JWTTokenTTL        time.Duration
	UserCacheTTL       time.Duration
	BcryptCost         int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FLEET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Fleet API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("table.users", "users")
	v.SetDefault("table.buses", "buses")
	v.SetDefault("table.activities", "activities")
	v.SetDefault("audit.subject", "fleet.audit.recorded")
	v.SetDefault("audit.queue_size", 256)
	v.SetDefault("jwt.token_ttl", "24h")
	v.SetDefault("user.cache_ttl", "5m")
	v.SetDefault("bcrypt.cost", 10)

	tokenTTL, err := time.ParseDuration(v.GetString("jwt.token_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("user.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid user cache ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		AWSRegion:          v.GetString("aws.region"),
		AWSAccessKeyID:     v.GetString("aws.access_key_id"),
		AWSSecretAccessKey: v.GetString("aws.secret_access_key"),
		DynamoEndpoint:     v.GetString("dynamo.endpoint"),
		UsersTable:         v.GetString("table.users"),
		BusesTable:         v.GetString("table.buses"),
		ActivitiesTable:    v.GetString("table.activities"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		AuditSubject:       v.GetString("audit.subject"),
		AuditQueueSize:     v.GetInt("audit.queue_size"),
		JWTSecret:          v.GetString("jwt.secret"),
		JWTTokenTTL:        tokenTTL,
		UserCacheTTL:       cacheTTL,
		BcryptCost:         v.GetInt("bcrypt.cost"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AuditQueueSize <= 0 {
		cfg.AuditQueueSize = 256
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 10
	}

	return cfg, nil
}
