package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/envutil"
)

// configFileEnv points at an optional YAML overlay. Values present in
// the file win over environment defaults; a missing or broken file is
// logged and skipped so env-only deployments keep working.
const configFileEnv = "COURSELOOP_CONFIG"

type Config struct {
	Port        string
	LogMode     string
	ServiceName string
	Environment string
	Version     string

	EnableTracing bool
}

type yamlConfig struct {
	Port        string `yaml:"port"`
	LogMode     string `yaml:"log_mode"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	EnableTracing *bool `yaml:"enable_tracing"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:          envutil.String("PORT", "8080"),
		LogMode:       envutil.String("LOG_MODE", "development"),
		ServiceName:   envutil.String("SERVICE_NAME", "courseloop-backend"),
		Environment:   envutil.String("ENVIRONMENT", "development"),
		Version:       envutil.String("SERVICE_VERSION", "dev"),
		EnableTracing: envutil.Bool("OTEL_ENABLED", false),
	}

	path := strings.TrimSpace(os.Getenv(configFileEnv))
	if path == "" {
		return cfg
	}
	overlay, err := loadConfigFile(path)
	if err != nil {
		log.Warn("Config overlay load failed; using env values", "path", path, "error", err)
		return cfg
	}
	applyOverlay(&cfg, overlay)
	log.Info("Applied config overlay", "path", path)
	return cfg
}

func loadConfigFile(path string) (*yamlConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var out yamlConfig
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &out, nil
}

func applyOverlay(cfg *Config, overlay *yamlConfig) {
	if overlay == nil {
		return
	}
	if v := strings.TrimSpace(overlay.Port); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(overlay.LogMode); v != "" {
		cfg.LogMode = v
	}
	if v := strings.TrimSpace(overlay.ServiceName); v != "" {
		cfg.ServiceName = v
	}
	if v := strings.TrimSpace(overlay.Environment); v != "" {
		cfg.Environment = v
	}
	if v := strings.TrimSpace(overlay.Version); v != "" {
		cfg.Version = v
	}
	if overlay.EnableTracing != nil {
		cfg.EnableTracing = *overlay.EnableTracing
	}
}
