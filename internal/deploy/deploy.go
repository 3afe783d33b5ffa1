// Package deploy defines the downstream deployment collaborator: the
// pipeline hands it named files and gets back a public URL. The core
// is agnostic to the hosting mechanism behind the endpoint.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// File is one deployable file.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Deployer publishes a set of files under a project name and returns
// the public URL they are served from.
type Deployer interface {
	Deploy(ctx context.Context, project string, files []File) (string, error)
}

// HTTPDeployer posts a deployment request to a configured endpoint.
type HTTPDeployer struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewHTTPDeployer(endpoint, token string) *HTTPDeployer {
	return &HTTPDeployer{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type deployRequest struct {
	Project string `json:"project"`
	Files   []File `json:"files"`
}

type deployResponse struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// Deploy sends the files to the deployment service and returns the
// published URL.
func (d *HTTPDeployer) Deploy(ctx context.Context, project string, files []File) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("nothing to deploy")
	}

	body, err := json.Marshal(deployRequest{Project: project, Files: files})
	if err != nil {
		return "", fmt.Errorf("encoding deploy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building deploy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling deploy service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading deploy response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deploy service returned %d", resp.StatusCode)
	}

	var out deployResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decoding deploy response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("deploy service: %s", out.Error)
	}
	if out.URL == "" {
		return "", fmt.Errorf("deploy service returned no url")
	}
	return out.URL, nil
}
