package provider

import (
	"fmt"
	"log"
	"os"

	"github.com/ShayCichocki/deepthink/internal/config"
)

// Build assembles the eligible adapter set from configuration.
// A provider is included only when its credential is present (or, for
// Anthropic, when Bedrock routing is enabled). The returned order is
// stable: SDK adapters first, then descriptor adapters in registry order.
func Build(cfg *config.Config) ([]Adapter, error) {
	var adapters []Adapter

	if cfg.Providers.Anthropic.Configured() || cfg.Providers.UseAWSBedrock {
		a, err := NewAnthropicAdapter(AnthropicConfig{
			APIKey:        cfg.Providers.Anthropic.APIKey,
			Model:         cfg.Providers.Anthropic.Model,
			UseAWSBedrock: cfg.Providers.UseAWSBedrock,
			AWSRegion:     cfg.Providers.AWSRegion,
			AWSProfile:    cfg.Providers.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("build anthropic adapter: %w", err)
		}
		adapters = append(adapters, a)
	}

	if cfg.Providers.OpenAI.Configured() {
		a, err := NewOpenAIAdapter(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.Model)
		if err != nil {
			return nil, fmt.Errorf("build openai adapter: %w", err)
		}
		adapters = append(adapters, a)
	}

	descriptors := DefaultDescriptors()
	if cfg.Providers.DescriptorFile != "" {
		extra, err := LoadDescriptors(cfg.Providers.DescriptorFile)
		if err != nil {
			return nil, fmt.Errorf("load descriptor file: %w", err)
		}
		descriptors = append(descriptors, extra...)
	}

	for _, desc := range descriptors {
		creds := credentialsFor(cfg, desc.Name)
		if !creds.Configured() && desc.APIKeyEnv != "" {
			creds.APIKey = os.Getenv(desc.APIKeyEnv)
		}
		if !creds.Configured() {
			continue
		}
		a, err := NewHTTPAdapter(desc, creds.APIKey, creds.Model)
		if err != nil {
			return nil, fmt.Errorf("build %s adapter: %w", desc.Name, err)
		}
		adapters = append(adapters, a)
	}

	log.Printf("[provider] built %d eligible adapters", len(adapters))
	return adapters, nil
}

// credentialsFor maps a descriptor name to its configured credentials.
// Unknown names get empty credentials and are skipped by Build.
func credentialsFor(cfg *config.Config, name string) config.ProviderCredentials {
	switch name {
	case "groq":
		return cfg.Providers.Groq
	case "gemini":
		return cfg.Providers.Gemini
	case "mistral":
		return cfg.Providers.Mistral
	case "cohere":
		return cfg.Providers.Cohere
	default:
		return config.ProviderCredentials{}
	}
}
