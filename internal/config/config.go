// Package config centraliza o carregamento de configurações da aplicação.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/services"
)

const EnvDevelopment = "development"

type Config struct {
	Env         string
	LogLevel    string
	Server      ServerConfig
	Storage     StorageConfig
	RateLimiter RateLimiterConfig
}

// IsDevelopment indica se o rate limiting deve ser ignorado.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Type  string
	Redis RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type RateLimiterConfig struct {
	DefaultPolicy      domain.RatePolicy
	RoutePolicies      []domain.RoutePolicy
	NamedPolicies      map[string]domain.RatePolicy
	CleanupProbability float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server := ServerConfig{Port: getEnv("SERVER_PORT", "8080")}

	storageType := getEnv("STORAGE_TYPE", "memory")

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	rateLimiterConfig, err := buildRateLimiterConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Env:      getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server:   server,
		Storage: StorageConfig{
			Type:  storageType,
			Redis: redisConfig,
		},
		RateLimiter: rateLimiterConfig,
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return RedisConfig{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func buildRateLimiterConfig() (RateLimiterConfig, error) {
	requests, err := strconv.Atoi(getEnv("RATE_LIMIT_DEFAULT_REQUESTS", strconv.Itoa(domain.DefaultRequests)))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_DEFAULT_REQUESTS: %w", err)
	}
	windowSeconds, err := strconv.Atoi(getEnv("RATE_LIMIT_DEFAULT_WINDOW_SECONDS", strconv.Itoa(int(domain.DefaultWindow/time.Second))))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_DEFAULT_WINDOW_SECONDS: %w", err)
	}
	probability, err := strconv.ParseFloat(getEnv("RATE_LIMIT_CLEANUP_PROBABILITY", strconv.FormatFloat(services.DefaultCleanupProbability, 'f', -1, 64)), 64)
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_CLEANUP_PROBABILITY: %w", err)
	}

	cfg := RateLimiterConfig{
		DefaultPolicy: domain.RatePolicy{
			Requests: requests,
			Window:   time.Duration(windowSeconds) * time.Second,
			Message:  getEnv("RATE_LIMIT_DEFAULT_MESSAGE", domain.DefaultMessage),
		},
		RoutePolicies:      services.DefaultRoutePolicies(),
		NamedPolicies:      services.DefaultNamedPolicies(),
		CleanupProbability: probability,
	}

	path := strings.TrimSpace(os.Getenv("RATE_LIMIT_POLICY_FILE"))
	if path == "" {
		return cfg, nil
	}

	file, err := LoadPolicyFile(path)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	return file.Apply(cfg), nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
