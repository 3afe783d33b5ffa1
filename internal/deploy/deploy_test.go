package deploy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPDeployer(t *testing.T) {
	var gotReq deployRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(deployResponse{URL: "https://sites.example.com/bakery"})
	}))
	defer srv.Close()

	d := NewHTTPDeployer(srv.URL, "deploy-token")
	url, err := d.Deploy(context.Background(), "bakery", []File{
		{Path: "index.html", Content: "<html></html>"},
	})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if url != "https://sites.example.com/bakery" {
		t.Errorf("url = %s", url)
	}
	if gotAuth != "Bearer deploy-token" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReq.Project != "bakery" || len(gotReq.Files) != 1 {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestHTTPDeployerServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(deployResponse{Error: "quota exceeded"})
	}))
	defer srv.Close()

	d := NewHTTPDeployer(srv.URL, "")
	if _, err := d.Deploy(context.Background(), "p", []File{{Path: "a", Content: "b"}}); err == nil {
		t.Fatal("expected error from service")
	}
}

func TestHTTPDeployerEmptyFiles(t *testing.T) {
	d := NewHTTPDeployer("https://example.com", "")
	if _, err := d.Deploy(context.Background(), "p", nil); err == nil {
		t.Fatal("expected error for empty file list")
	}
}
