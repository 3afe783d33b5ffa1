package provider

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RequestShape selects how the generic adapter encodes a request body.
type RequestShape string

const (
	// ShapeOpenAIChat is the OpenAI-compatible chat completions body.
	// Groq and Mistral speak this shape.
	ShapeOpenAIChat RequestShape = "openai_chat"
	// ShapeGemini is the Google generateContent body.
	ShapeGemini RequestShape = "gemini"
	// ShapeCohere is the Cohere v1 chat body.
	ShapeCohere RequestShape = "cohere"
)

// Descriptor declaratively describes one HTTP text-generation backend:
// where to send the request, how to authenticate, which body shape to
// use, and where the response text lives. Adding a provider is a new
// Descriptor, not new branching code.
type Descriptor struct {
	// Name is the provider name reported in results.
	Name string `yaml:"name"`
	// Endpoint is the request URL. The literal "{model}" is replaced
	// with the effective model name.
	Endpoint string `yaml:"endpoint"`
	// Model is the default model for this provider.
	Model string `yaml:"model"`
	// Shape selects the request body encoding.
	Shape RequestShape `yaml:"shape"`
	// AuthHeader is the credential header name ("Authorization", "x-api-key").
	// Empty means the credential is not sent as a header.
	AuthHeader string `yaml:"auth_header"`
	// AuthPrefix is prepended to the credential in AuthHeader ("Bearer ").
	AuthPrefix string `yaml:"auth_prefix"`
	// KeyQueryParam, when set, appends the credential as a query parameter
	// instead of a header (Gemini style).
	KeyQueryParam string `yaml:"key_query_param"`
	// ContentPath is the gjson path of the response text
	// (e.g. "choices.0.message.content").
	ContentPath string `yaml:"content_path"`
	// APIKeyEnv names an environment variable holding the credential for
	// descriptors that have no dedicated config section.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	// Headers holds extra static headers.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Validate checks that the descriptor is complete enough to serve requests.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor missing name")
	}
	if d.Endpoint == "" {
		return fmt.Errorf("descriptor %s missing endpoint", d.Name)
	}
	if d.ContentPath == "" {
		return fmt.Errorf("descriptor %s missing content_path", d.Name)
	}
	switch d.Shape {
	case ShapeOpenAIChat, ShapeGemini, ShapeCohere:
	default:
		return fmt.Errorf("descriptor %s has unknown shape %q", d.Name, d.Shape)
	}
	return nil
}

// url returns the endpoint with the model placeholder substituted.
func (d *Descriptor) url(model string) string {
	return strings.ReplaceAll(d.Endpoint, "{model}", model)
}

// DefaultDescriptors returns the built-in HTTP provider descriptors.
// Anthropic and OpenAI are not listed here; they go through their SDKs.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        "groq",
			Endpoint:    "https://api.groq.com/openai/v1/chat/completions",
			Model:       "llama-3.3-70b-versatile",
			Shape:       ShapeOpenAIChat,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
			ContentPath: "choices.0.message.content",
		},
		{
			Name:          "gemini",
			Endpoint:      "https://generativelanguage.googleapis.com/v1beta/models/{model}:generateContent",
			Model:         "gemini-2.0-flash",
			Shape:         ShapeGemini,
			KeyQueryParam: "key",
			ContentPath:   "candidates.0.content.parts.0.text",
		},
		{
			Name:        "mistral",
			Endpoint:    "https://api.mistral.ai/v1/chat/completions",
			Model:       "mistral-large-latest",
			Shape:       ShapeOpenAIChat,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
			ContentPath: "choices.0.message.content",
		},
		{
			Name:        "cohere",
			Endpoint:    "https://api.cohere.com/v1/chat",
			Model:       "command-r-plus",
			Shape:       ShapeCohere,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
			ContentPath: "text",
		},
	}
}

// LoadDescriptors reads additional descriptors from a YAML file.
// The file holds a list of Descriptor entries.
func LoadDescriptors(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor file: %w", err)
	}

	var descs []Descriptor
	if err := yaml.Unmarshal(data, &descs); err != nil {
		return nil, fmt.Errorf("parse descriptor file: %w", err)
	}

	for i := range descs {
		if err := descs[i].Validate(); err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
	}

	return descs, nil
}
