// Package config handles configuration loading and management for deepthink.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for deepthink.
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers"`
	Race      RaceConfig      `mapstructure:"race"`
	Learning  LearningConfig  `mapstructure:"learning"`
	Server    ServerConfig    `mapstructure:"server"`
	Deploy    DeployConfig    `mapstructure:"deploy"`
}

// ProviderCredentials holds credentials and model selection for one provider.
type ProviderCredentials struct {
	// APIKey is the provider API key. Supports ${VAR} expansion.
	APIKey string `mapstructure:"api_key"`
	// Model overrides the provider's default model.
	Model string `mapstructure:"model"`
}

// Configured returns true when a credential is present.
func (p ProviderCredentials) Configured() bool {
	return p.APIKey != ""
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	Anthropic ProviderCredentials `mapstructure:"anthropic"`
	OpenAI    ProviderCredentials `mapstructure:"openai"`
	Groq      ProviderCredentials `mapstructure:"groq"`
	Gemini    ProviderCredentials `mapstructure:"gemini"`
	Mistral   ProviderCredentials `mapstructure:"mistral"`
	Cohere    ProviderCredentials `mapstructure:"cohere"`

	// UseAWSBedrock routes Anthropic calls through AWS Bedrock.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region (e.g., "us-west-2").
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string `mapstructure:"aws_profile"`

	// DescriptorFile optionally points at a YAML file with additional
	// provider descriptors loaded at startup.
	DescriptorFile string `mapstructure:"descriptor_file"`
}

// RaceConfig holds timing and quorum knobs for the model race.
// None of these are reconfigurable at runtime.
type RaceConfig struct {
	// MaxSubtasks bounds the decomposition size.
	MaxSubtasks int `mapstructure:"max_subtasks"`
	// ProviderTimeout is the per-provider call timeout.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	// GlobalDeadline is the hard deadline for the whole race.
	GlobalDeadline time.Duration `mapstructure:"global_deadline"`
	// MajorityThreshold is the quorum size that short-circuits the race.
	MajorityThreshold int `mapstructure:"majority_threshold"`
}

// LearningConfig holds run-summary persistence settings.
type LearningConfig struct {
	// Enabled toggles the recorder entirely.
	Enabled bool `mapstructure:"enabled"`
	// DBPath overrides the default learnings database location.
	DBPath string `mapstructure:"db_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `mapstructure:"addr"`
}

// DeployConfig holds the downstream deployment collaborator settings.
type DeployConfig struct {
	// Endpoint is the deployment service URL. Empty disables deployment.
	Endpoint string `mapstructure:"endpoint"`
	// Token authenticates against the deployment service.
	Token string `mapstructure:"token"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, ...)
// 2. Project config (.deepthink.yaml in current directory or parent)
// 3. User config (~/.config/deepthink/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()

	// Map provider key environment variables
	v.BindEnv("providers.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("providers.groq.api_key", "GROQ_API_KEY")
	v.BindEnv("providers.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("providers.mistral.api_key", "MISTRAL_API_KEY")
	v.BindEnv("providers.cohere.api_key", "COHERE_API_KEY")
	v.BindEnv("deploy.endpoint", "DEEPTHINK_DEPLOY_ENDPOINT")
	v.BindEnv("deploy.token", "DEEPTHINK_DEPLOY_TOKEN")
	v.BindEnv("server.addr", "DEEPTHINK_ADDR")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandProviderKeys(cfg)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandProviderKeys(cfg)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
// Provider API keys are written as-is, including ${VAR} references.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("providers.anthropic.api_key", cfg.Providers.Anthropic.APIKey)
	v.Set("providers.anthropic.model", cfg.Providers.Anthropic.Model)
	v.Set("providers.openai.api_key", cfg.Providers.OpenAI.APIKey)
	v.Set("providers.openai.model", cfg.Providers.OpenAI.Model)
	v.Set("providers.groq.api_key", cfg.Providers.Groq.APIKey)
	v.Set("providers.gemini.api_key", cfg.Providers.Gemini.APIKey)
	v.Set("providers.mistral.api_key", cfg.Providers.Mistral.APIKey)
	v.Set("providers.cohere.api_key", cfg.Providers.Cohere.APIKey)
	v.Set("providers.use_aws_bedrock", cfg.Providers.UseAWSBedrock)
	v.Set("providers.aws_region", cfg.Providers.AWSRegion)
	v.Set("providers.aws_profile", cfg.Providers.AWSProfile)
	v.Set("race.max_subtasks", cfg.Race.MaxSubtasks)
	v.Set("race.provider_timeout", cfg.Race.ProviderTimeout.String())
	v.Set("race.global_deadline", cfg.Race.GlobalDeadline.String())
	v.Set("race.majority_threshold", cfg.Race.MajorityThreshold)
	v.Set("learning.enabled", cfg.Learning.Enabled)
	v.Set("learning.db_path", cfg.Learning.DBPath)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("deploy.endpoint", cfg.Deploy.Endpoint)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Provider defaults (keys intentionally empty)
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.groq.api_key", "")
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.mistral.api_key", "")
	v.SetDefault("providers.cohere.api_key", "")
	v.SetDefault("providers.use_aws_bedrock", false)

	// Race defaults
	v.SetDefault("race.max_subtasks", 5)
	v.SetDefault("race.provider_timeout", "15s")
	v.SetDefault("race.global_deadline", "20s")
	v.SetDefault("race.majority_threshold", 4)

	// Learning defaults
	v.SetDefault("learning.enabled", true)
	v.SetDefault("learning.db_path", "")

	// Server defaults
	v.SetDefault("server.addr", ":8080")

	// Deploy defaults
	v.SetDefault("deploy.endpoint", "")
}

// expandProviderKeys expands ${VAR} references in all provider API keys.
func expandProviderKeys(cfg *Config) {
	cfg.Providers.Anthropic.APIKey = expandEnv(cfg.Providers.Anthropic.APIKey)
	cfg.Providers.OpenAI.APIKey = expandEnv(cfg.Providers.OpenAI.APIKey)
	cfg.Providers.Groq.APIKey = expandEnv(cfg.Providers.Groq.APIKey)
	cfg.Providers.Gemini.APIKey = expandEnv(cfg.Providers.Gemini.APIKey)
	cfg.Providers.Mistral.APIKey = expandEnv(cfg.Providers.Mistral.APIKey)
	cfg.Providers.Cohere.APIKey = expandEnv(cfg.Providers.Cohere.APIKey)
	cfg.Deploy.Token = expandEnv(cfg.Deploy.Token)
}

// expandEnv expands ${VAR} references in a config value.
// A reference to an unset variable expands to the empty string.
func expandEnv(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}
	return os.Expand(value, os.Getenv)
}

// getUserConfigDir returns the XDG config directory for deepthink.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "deepthink")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "deepthink")
	}
	return filepath.Join(home, ".config", "deepthink")
}

// findProjectConfig searches for .deepthink.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".deepthink.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}
