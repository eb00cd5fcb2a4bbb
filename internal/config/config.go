package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
}

type DatabaseConfig struct {
	URI            string
	Name           string
	ConnectTimeout time.Duration
}

// RedisConfig is optional; when Addr is empty the rate limiter keeps
// its counters in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	GlobalMax      int
	GlobalWindow   time.Duration
	RegisterMax    int
	RegisterWindow time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", ""),
			Port:         getEnv("PORT", "5000"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Name:           getEnv("MONGODB_DATABASE", "roobaroo"),
			ConnectTimeout: getEnvDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			GlobalMax:      getEnvInt("RATE_LIMIT_GLOBAL_MAX", 100),
			GlobalWindow:   getEnvDuration("RATE_LIMIT_GLOBAL_WINDOW", 15*time.Minute),
			RegisterMax:    getEnvInt("RATE_LIMIT_REGISTER_MAX", 5),
			RegisterWindow: getEnvDuration("RATE_LIMIT_REGISTER_WINDOW", 15*time.Minute),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvList("ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://127.0.0.1:5500",
				"http://localhost:8080",
			}),
		},
	}
}

// IsProduction reports whether the server runs with production error
// suppression enabled.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
