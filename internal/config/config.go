package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr = ":8080"
	defaultLogDir     = "logs"
	defaultLogLevel   = "info"
)

// SheetsConfig points at the registration spreadsheet used by importSheet
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheetID,omitempty"`
	OperationsTab   string `yaml:"operationsTab,omitempty" validate:"required_with=SpreadsheetID"`
	VolunteersTab   string `yaml:"volunteersTab,omitempty" validate:"required_with=SpreadsheetID"`
	CredentialsFile string `yaml:"credentialsFile,omitempty" validate:"required_with=SpreadsheetID"`
}

// Enabled reports whether a spreadsheet has been configured
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != ""
}

// APIConfig configures the admin HTTP API
type APIConfig struct {
	ListenAddr string `yaml:"listenAddr,omitempty" validate:"omitempty,hostname_port"`
}

// LoggingConfig configures where file logs go and the console level
type LoggingConfig struct {
	Dir   string `yaml:"dir,omitempty"`
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string        `yaml:"databaseURL" validate:"required"`
	Sheets      SheetsConfig  `yaml:"sheets,omitempty"`
	API         APIConfig     `yaml:"api,omitempty"`
	Logging     LoggingConfig `yaml:"logging,omitempty"`
	// ReportSchedule is an RFC 5545 recurrence rule for capacity reports
	ReportSchedule string `yaml:"reportSchedule,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads relief_config.<env>.yaml from the current directory or the home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(configFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = defaultListenAddr
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.ReportSchedule != "" {
		if _, err := rrule.StrToRRule(cfg.ReportSchedule); err != nil {
			return fmt.Errorf("invalid rrule in reportSchedule: %w", err)
		}
	}

	return nil
}

// ReportRule parses the report schedule, returning nil when none is configured
func (c *Config) ReportRule() (*rrule.RRule, error) {
	if c.ReportSchedule == "" {
		return nil, nil
	}
	rule, err := rrule.StrToRRule(c.ReportSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule in reportSchedule: %w", err)
	}
	return rule, nil
}

func configFileName(env string) string {
	return fmt.Sprintf("relief_config.%s.yaml", env)
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
