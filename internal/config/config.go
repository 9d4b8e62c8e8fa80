package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Token struct {
		Secret string `yaml:"secret"`
		Expiry string `yaml:"expiry"`
		// Tokens carry their issuance time either way; enforcement is a
		// policy switch, off by default.
		EnforceExpiry bool `yaml:"enforce_expiry"`
	} `yaml:"token"`
	Quiz struct {
		Distractors        int     `yaml:"distractors"`
		DuplicateThreshold float64 `yaml:"duplicate_threshold"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path. The token secret falls back to the
// TOKEN_SECRET_KEY env var so it can stay out of the config file.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Token.Secret == "" {
		cfg.Token.Secret = os.Getenv("TOKEN_SECRET_KEY")
	}
	return cfg, nil
}

// ExpiryDuration parses a duration string or returns the fallback if empty or invalid.
func ExpiryDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
