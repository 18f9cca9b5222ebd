// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format   string `yaml:"format"`
		Strategy string `yaml:"strategy"`
		Verbose  bool   `yaml:"verbose"`
		NoColor  bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Matching strategy defaults
	Matching struct {
		FuzzyThreshold      float64 `yaml:"fuzzy_threshold"`
		ContextualThreshold float64 `yaml:"contextual_threshold"`
		ContextWindow       int     `yaml:"context_window"`
	} `yaml:"matching"`

	// Web server settings
	Server struct {
		Port               string `yaml:"port"`
		MaxUploadMB        int    `yaml:"max_upload_mb"`
		DocumentTTLMinutes int    `yaml:"document_ttl_minutes"`
	} `yaml:"server"`

	// Entity extraction settings. The API key is read from the
	// OPENAI_API_KEY environment variable, never from the config file.
	LLM struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"llm"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{}
	config.Defaults.Format = "text"
	config.Defaults.Strategy = "exact"
	config.Defaults.Verbose = false
	config.Defaults.NoColor = false

	config.Matching.FuzzyThreshold = 80.0
	config.Matching.ContextualThreshold = 70.0
	config.Matching.ContextWindow = 3

	config.Server.Port = "8080"
	config.Server.MaxUploadMB = 32
	config.Server.DocumentTTLMinutes = 60

	config.LLM.BaseURL = "https://api.openai.com/v1"
	config.LLM.Model = "gpt-3.5-turbo"

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	// Read config file
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML over the defaults
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig checks loaded values for internal consistency
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid default format %q (valid formats: text, json, csv)", config.Defaults.Format)
	}

	switch strings.ToLower(config.Defaults.Strategy) {
	case "exact", "fuzzy", "contextual":
	default:
		return fmt.Errorf("invalid default strategy %q (valid strategies: exact, fuzzy, contextual)", config.Defaults.Strategy)
	}

	if config.Matching.FuzzyThreshold < 0 || config.Matching.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy_threshold %v outside [0,100]", config.Matching.FuzzyThreshold)
	}
	if config.Matching.ContextualThreshold < 0 || config.Matching.ContextualThreshold > 100 {
		return fmt.Errorf("contextual_threshold %v outside [0,100]", config.Matching.ContextualThreshold)
	}
	if config.Matching.ContextWindow < 0 {
		return fmt.Errorf("context_window %d is negative", config.Matching.ContextWindow)
	}

	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q", config.Server.Port)
	}
	if config.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", config.Server.MaxUploadMB)
	}
	if config.Server.DocumentTTLMinutes <= 0 {
		return fmt.Errorf("document_ttl_minutes must be positive, got %d", config.Server.DocumentTTLMinutes)
	}

	return nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first
	if fileExists("pdfmatch.yaml") {
		return "pdfmatch.yaml"
	}
	if fileExists("pdfmatch.yml") {
		return "pdfmatch.yml"
	}
	if fileExists(".pdfmatch.yaml") {
		return ".pdfmatch.yaml"
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".pdfmatch", "config.yaml")
		if fileExists(homePath) {
			return homePath
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
