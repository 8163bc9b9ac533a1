package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Load builds a Config from environment variables layered over Defaults(),
// matching pkg/database.LoadConfigFromEnv's getEnvOrDefault pattern in the
// teacher repo. Call godotenv.Load beforehand (see cmd/gradingd/main.go) to
// populate the environment from a .env file in local development.
func Load() (*Config, error) {
	cfg := Defaults()

	cfg.APIBaseURL = getEnvOrDefault("API_BASE_URL", cfg.APIBaseURL)
	cfg.FrontendOrigin = getEnvOrDefault("FRONTEND_ORIGIN", cfg.FrontendOrigin)
	cfg.UploadDir = getEnvOrDefault("UPLOAD_DIR", cfg.UploadDir)
	cfg.TranscriptionProviderAddr = getEnvOrDefault("TRANSCRIPTION_PROVIDER_ADDR", cfg.TranscriptionProviderAddr)
	cfg.LLMProviderAddr = getEnvOrDefault("LLM_PROVIDER_ADDR", cfg.LLMProviderAddr)

	var err error
	if cfg.MaxUploadSizeMiB, err = getEnvIntOrDefault("MAX_UPLOAD_SIZE_MIB", cfg.MaxUploadSizeMiB); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getEnvIntOrDefault("WORKER_COUNT", cfg.WorkerCount); err != nil {
		return nil, err
	}
	if cfg.TranscriptionTimeout, err = getEnvDurationOrDefault("TRANSCRIPTION_TIMEOUT", cfg.TranscriptionTimeout); err != nil {
		return nil, err
	}
	if cfg.PipelineTimeout, err = getEnvDurationOrDefault("PIPELINE_TIMEOUT", cfg.PipelineTimeout); err != nil {
		return nil, err
	}
	if cfg.StreamPollInterval, err = getEnvDurationOrDefault("STREAM_POLL_INTERVAL", cfg.StreamPollInterval); err != nil {
		return nil, err
	}
	if cfg.StreamMaxDuration, err = getEnvDurationOrDefault("STREAM_MAX_DURATION", cfg.StreamMaxDuration); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the loaded configuration is self-consistent.
func (c *Config) Validate() error {
	if c.MaxUploadSizeMiB < 1 {
		return &ValidationError{Field: "MaxUploadSizeMiB", Err: ErrInvalidValue}
	}
	if c.WorkerCount < 1 {
		return &ValidationError{Field: "WorkerCount", Err: ErrInvalidValue}
	}
	if c.TranscriptionTimeout <= 0 || c.PipelineTimeout <= 0 {
		return &ValidationError{Field: "TranscriptionTimeout/PipelineTimeout", Err: ErrInvalidValue}
	}
	if c.TranscriptionTimeout > c.PipelineTimeout {
		return &ValidationError{
			Field: "TranscriptionTimeout",
			Err:   fmt.Errorf("%w: must not exceed PipelineTimeout", ErrInvalidValue),
		}
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
		return 0, &ValidationError{Field: key, Err: err}
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
		// Bare seconds are also accepted (spec.md §6 gives knobs in plain seconds).
		if secs, serr := strconv.Atoi(raw); serr == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return 0, &ValidationError{Field: key, Err: err}
	}
	return v, nil
}
