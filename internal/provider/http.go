package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// maxResponseBytes bounds how much of a provider response body is read.
const maxResponseBytes = 4 << 20

// HTTPAdapter is the generic adapter serving any Descriptor-described
// backend. One implementation covers every raw-HTTP provider.
type HTTPAdapter struct {
	desc   Descriptor
	apiKey string
	model  string
	client *http.Client
}

// NewHTTPAdapter creates an adapter for the given descriptor and credential.
// An empty model falls back to the descriptor default. The HTTP client
// carries no timeout of its own; callers bound calls via context.
func NewHTTPAdapter(desc Descriptor, apiKey, model string) (*HTTPAdapter, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: missing credential", desc.Name)
	}
	if model == "" {
		model = desc.Model
	}
	return &HTTPAdapter{
		desc:   desc,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
	}, nil
}

// Name returns the descriptor's provider name.
func (a *HTTPAdapter) Name() string {
	return a.desc.Name
}

// Generate encodes the request per the descriptor shape, posts it, and
// extracts the response text at the descriptor's content path.
func (a *HTTPAdapter) Generate(ctx context.Context, req Request) (string, error) {
	body, err := a.encodeBody(req)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", a.desc.Name, err)
	}

	endpoint := a.desc.url(a.model)
	if a.desc.KeyQueryParam != "" {
		endpoint += "?" + a.desc.KeyQueryParam + "=" + url.QueryEscape(a.apiKey)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", a.desc.Name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.desc.AuthHeader != "" {
		httpReq.Header.Set(a.desc.AuthHeader, a.desc.AuthPrefix+a.apiKey)
	}
	for k, v := range a.desc.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: send request: %w", a.desc.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", a.desc.Name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: status %d: %s", a.desc.Name, resp.StatusCode, truncate(string(respBody), 300))
	}

	content := gjson.GetBytes(respBody, a.desc.ContentPath).String()
	if content == "" {
		return "", fmt.Errorf("%s: %w", a.desc.Name, ErrEmptyResponse)
	}

	return content, nil
}

// encodeBody builds the JSON request body for the descriptor's shape.
func (a *HTTPAdapter) encodeBody(req Request) ([]byte, error) {
	switch a.desc.Shape {
	case ShapeOpenAIChat:
		var messages []map[string]string
		if req.System != "" {
			messages = append(messages, map[string]string{"role": "system", "content": req.System})
		}
		messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})
		body := map[string]any{
			"model":    a.model,
			"messages": messages,
		}
		if req.MaxTokens > 0 {
			body["max_tokens"] = req.MaxTokens
		}
		return json.Marshal(body)

	case ShapeGemini:
		body := map[string]any{
			"contents": []map[string]any{
				{"parts": []map[string]string{{"text": req.Prompt}}},
			},
		}
		if req.System != "" {
			body["systemInstruction"] = map[string]any{
				"parts": []map[string]string{{"text": req.System}},
			}
		}
		if req.MaxTokens > 0 {
			body["generationConfig"] = map[string]any{"maxOutputTokens": req.MaxTokens}
		}
		return json.Marshal(body)

	case ShapeCohere:
		body := map[string]any{
			"model":   a.model,
			"message": req.Prompt,
		}
		if req.System != "" {
			body["preamble"] = req.System
		}
		if req.MaxTokens > 0 {
			body["max_tokens"] = req.MaxTokens
		}
		return json.Marshal(body)

	default:
		return nil, fmt.Errorf("unknown request shape %q", a.desc.Shape)
	}
}

// truncate shortens s to at most n bytes for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
