package database

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadConfigFromEnv builds a database Config from DB_* environment
// variables, kept deliberately separate from pkg/config.Config — the
// teacher repo keeps its database connection settings out of the
// application-level config for the same reason: they are owned by whatever
// process wires the database client, not by every component that reads
// app config.
func LoadConfigFromEnv() (Config, error) {
	cfg := Config{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		User:     getEnvOrDefault("DB_USER", "gradeforge"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: getEnvOrDefault("DB_NAME", "gradeforge"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	port, err := getEnvIntOrDefault("DB_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	cfg.Port = port

	maxOpen, err := getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxOpenConns = maxOpen

	maxIdle, err := getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxIdleConns = maxIdle

	lifetime, err := getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ConnMaxLifetime = lifetime

	idleTime, err := getEnvDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ConnMaxIdleTime = idleTime

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the database configuration is usable.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("DB_HOST must not be empty")
	}
	if c.Database == "" {
		return fmt.Errorf("DB_NAME must not be empty")
	}
	if c.Port <= 0 {
		return fmt.Errorf("DB_PORT must be positive, got %d", c.Port)
	}
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1, got %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) must not exceed DB_MAX_OPEN_CONNS (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return v, nil
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return v, nil
}
