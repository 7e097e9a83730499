package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration for the snoo CLI.
type fileConfig struct {
	// UserAgent identifies the tool to Reddit. Required.
	UserAgent string `yaml:"user_agent"`

	// Username and Password log the session in before running a command.
	// Optional; read-only commands work logged out.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// RequestsPerMinute caps throughput. 0 uses the client default.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("config %s: user_agent is required", path)
	}
	if cfg.RequestsPerMinute < 0 {
		return nil, fmt.Errorf("config %s: requests_per_minute must not be negative", path)
	}
	return &cfg, nil
}
