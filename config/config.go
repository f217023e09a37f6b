package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Cognito struct {
		AppClientId     string `yaml:"appClientId"`
		AppClientSecret string `yaml:"appClientSecret"`
		UserPoolId      string `yaml:"userPoolId"`
		Region          string `yaml:"region"`
	} `yaml:"cognito"`

	AnalysisAPI struct {
		BaseURL string `yaml:"baseUrl"`
	} `yaml:"analysisApi"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"` // local auth mode only
	} `yaml:"jwt"`
}

// LoadConfig reads the configuration file and applies environment
// overrides. ANALYSIS_API_BASE_URL selects the analysis API base URL,
// defaulting to a local address when unset everywhere.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if baseURL := os.Getenv("ANALYSIS_API_BASE_URL"); baseURL != "" {
		cfg.AnalysisAPI.BaseURL = baseURL
	}
	if cfg.AnalysisAPI.BaseURL == "" {
		cfg.AnalysisAPI.BaseURL = "http://localhost:8000"
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	return &cfg, nil
}
