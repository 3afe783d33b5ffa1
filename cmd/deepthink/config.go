package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/deepthink/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify deepthink configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/deepthink/config.yaml
Project-specific overrides can be placed in .deepthink.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("providers.anthropic: %s\n", maskKey(cfg.Providers.Anthropic.APIKey))
	fmt.Printf("providers.openai: %s\n", maskKey(cfg.Providers.OpenAI.APIKey))
	fmt.Printf("providers.groq: %s\n", maskKey(cfg.Providers.Groq.APIKey))
	fmt.Printf("providers.gemini: %s\n", maskKey(cfg.Providers.Gemini.APIKey))
	fmt.Printf("providers.mistral: %s\n", maskKey(cfg.Providers.Mistral.APIKey))
	fmt.Printf("providers.cohere: %s\n", maskKey(cfg.Providers.Cohere.APIKey))
	fmt.Printf("providers.use_aws_bedrock: %t\n", cfg.Providers.UseAWSBedrock)
	fmt.Printf("race.max_subtasks: %d\n", cfg.Race.MaxSubtasks)
	fmt.Printf("race.provider_timeout: %s\n", cfg.Race.ProviderTimeout)
	fmt.Printf("race.global_deadline: %s\n", cfg.Race.GlobalDeadline)
	fmt.Printf("race.majority_threshold: %d\n", cfg.Race.MajorityThreshold)
	fmt.Printf("learning.enabled: %t\n", cfg.Learning.Enabled)
	fmt.Printf("learning.db_path: %s\n", cfg.Learning.DBPath)
	fmt.Printf("server.addr: %s\n", cfg.Server.Addr)
	fmt.Printf("deploy.endpoint: %s\n", cfg.Deploy.Endpoint)
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return "****"
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Set %s = %s\n", key, value)
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "race.max_subtasks":
		return strconv.Itoa(cfg.Race.MaxSubtasks), nil
	case "race.provider_timeout":
		return cfg.Race.ProviderTimeout.String(), nil
	case "race.global_deadline":
		return cfg.Race.GlobalDeadline.String(), nil
	case "race.majority_threshold":
		return strconv.Itoa(cfg.Race.MajorityThreshold), nil
	case "learning.enabled":
		return strconv.FormatBool(cfg.Learning.Enabled), nil
	case "learning.db_path":
		return cfg.Learning.DBPath, nil
	case "server.addr":
		return cfg.Server.Addr, nil
	case "deploy.endpoint":
		return cfg.Deploy.Endpoint, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "race.max_subtasks":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		cfg.Race.MaxSubtasks = n
	case "race.provider_timeout", "race.global_deadline":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration (e.g. 15s)", key)
		}
		if key == "race.provider_timeout" {
			cfg.Race.ProviderTimeout = d
		} else {
			cfg.Race.GlobalDeadline = d
		}
	case "race.majority_threshold":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		cfg.Race.MajorityThreshold = n
	case "learning.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		cfg.Learning.Enabled = b
	case "learning.db_path":
		cfg.Learning.DBPath = value
	case "server.addr":
		cfg.Server.Addr = value
	case "deploy.endpoint":
		cfg.Deploy.Endpoint = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
