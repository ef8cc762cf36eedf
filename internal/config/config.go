package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
		// Seeded at startup when no admin account exists yet.
		FirstAdminID     string `yaml:"first_admin_id"`
		FirstAdminSecret string `yaml:"first_admin_secret"`
		FirstAdminEmail  string `yaml:"first_admin_email"`
	} `yaml:"auth"`

	Data struct {
		AccountsPath string `yaml:"accounts_path"` // JSON snapshot of the account ledger
		PlansPath    string `yaml:"plans_path"`    // YAML license catalog; empty = built-in plans
	} `yaml:"data"`

	Vision struct {
		Endpoint       string `yaml:"endpoint"`
		APIKey         string `yaml:"api_key"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		FallbackValue  string `yaml:"fallback_value"`
		Strict         bool   `yaml:"strict"` // true: surface analysis failures instead of the fallback
		MaxImageEdge   int    `yaml:"max_image_edge"`
	} `yaml:"vision"`

	Upload struct {
		MaxSize int64 `yaml:"max_size"` // bytes per photo
	} `yaml:"upload"`

	Archive struct {
		Type      string `yaml:"type"` // none, local or r2
		BasePath  string `yaml:"base_path"`
		Bucket    string `yaml:"bucket"`
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"archive"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`
}

var AppConfig *Config

// Default returns a config with working defaults for local runs and tests.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 3000
	cfg.Server.Env = "development"

	cfg.Auth.JWTSecret = "dev-only-secret"
	cfg.Auth.TTLMinutes = 12 * 60

	cfg.Data.AccountsPath = "data/accounts.json"

	cfg.Vision.Endpoint = "https://api.openai.com/v1/chat/completions"
	cfg.Vision.Model = "gpt-4o-mini"
	cfg.Vision.TimeoutSeconds = 20
	cfg.Vision.FallbackValue = "1.20"
	cfg.Vision.MaxImageEdge = 1024

	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB

	cfg.Archive.Type = "none"

	return cfg
}

// LoadConfig initializes the global AppConfig: defaults, then the YAML file
// at CONFIG_PATH (or config/config.yaml) when present, then env overrides.
func LoadConfig() error {
	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	AppConfig = cfg
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Vision.APIKey = v
	}
	if v := os.Getenv("ACCOUNTS_PATH"); v != "" {
		cfg.Data.AccountsPath = v
	}
	if v := os.Getenv("PLANS_PATH"); v != "" {
		cfg.Data.PlansPath = v
	}
	if v := os.Getenv("FIRST_ADMIN_ID"); v != "" {
		cfg.Auth.FirstAdminID = v
	}
	if v := os.Getenv("FIRST_ADMIN_SECRET"); v != "" {
		cfg.Auth.FirstAdminSecret = v
	}
}

// GetConfig returns the global config, loading it on first use.
func GetConfig() *Config {
	if AppConfig == nil {
		if err := LoadConfig(); err != nil {
			panic(err)
		}
	}
	return AppConfig
}
