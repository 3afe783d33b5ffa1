package artifact

import (
	"reflect"
	"testing"
)

func TestExtractFilenames(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantFile string
		wantLang string
	}{
		{
			name:     "tagged html",
			output:   "Here you go:\n```html\n<!DOCTYPE html>\n<html><body>hi</body></html>\n```",
			wantFile: "index.html",
			wantLang: "html",
		},
		{
			name:     "tagged css",
			output:   "```css\nbody { color: red; }\n```",
			wantFile: "styles.css",
			wantLang: "css",
		},
		{
			name:     "tagged js",
			output:   "```javascript\nfunction hi() { return 1; }\n```",
			wantFile: "script.js",
			wantLang: "javascript",
		},
		{
			name:     "tagged json",
			output:   "```json\n{\"a\": 1}\n```",
			wantFile: "data.json",
			wantLang: "json",
		},
		{
			name:     "untagged html document",
			output:   "```\n<!doctype html>\n<html></html>\n```",
			wantFile: "index.html",
			wantLang: "html",
		},
		{
			name:     "untagged css shaped",
			output:   "```\n.card { padding: 8px; margin: 4px; }\n```",
			wantFile: "styles.css",
			wantLang: "css",
		},
		{
			name:     "untagged plain text",
			output:   "```\njust some notes\n```",
			wantFile: "code.txt",
			wantLang: "text",
		},
		{
			name:     "unknown tag",
			output:   "```ruby\nputs 'hi'\n```",
			wantFile: "code.ruby",
			wantLang: "ruby",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifacts := Extract([]string{tt.output})
			if len(artifacts) != 1 {
				t.Fatalf("got %d artifacts, want 1", len(artifacts))
			}
			if artifacts[0].Filename != tt.wantFile {
				t.Errorf("filename = %s, want %s", artifacts[0].Filename, tt.wantFile)
			}
			if artifacts[0].Language != tt.wantLang {
				t.Errorf("language = %s, want %s", artifacts[0].Language, tt.wantLang)
			}
		})
	}
}

func TestExtractLongestWins(t *testing.T) {
	short := "```html\n<html><body>short</body></html>\n```"
	long := "```html\n<!DOCTYPE html>\n<html><head><title>Full</title></head><body>much longer page</body></html>\n```"

	// The longer block wins regardless of which output produced it first.
	for _, outputs := range [][]string{{short, long}, {long, short}} {
		artifacts := Extract(outputs)
		if len(artifacts) != 1 {
			t.Fatalf("got %d artifacts, want 1", len(artifacts))
		}
		if len(artifacts[0].Content) <= len("short") {
			t.Errorf("kept the shorter block: %q", artifacts[0].Content)
		}
		if artifacts[0].Filename != "index.html" {
			t.Errorf("filename = %s", artifacts[0].Filename)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	outputs := []string{
		"```html\n<html>page</html>\n```\n```css\nbody { margin: 0; }\n```",
		"```javascript\nconsole.log('x');\n```",
		"no code here",
	}

	first := Extract(outputs)
	second := Extract(outputs)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic:\n%v\n%v", first, second)
	}

	wantOrder := []string{"index.html", "styles.css", "script.js"}
	if len(first) != len(wantOrder) {
		t.Fatalf("got %d artifacts, want %d", len(first), len(wantOrder))
	}
	for i, want := range wantOrder {
		if first[i].Filename != want {
			t.Errorf("artifact %d = %s, want %s", i, first[i].Filename, want)
		}
	}
}

func TestExtractSkipsEmptyBlocks(t *testing.T) {
	artifacts := Extract([]string{"```html\n\n```"})
	if len(artifacts) != 0 {
		t.Errorf("got %d artifacts from empty block, want 0", len(artifacts))
	}
}

func TestExtractNoCode(t *testing.T) {
	artifacts := Extract([]string{"plain prose, nothing fenced"})
	if len(artifacts) != 0 {
		t.Errorf("got %d artifacts, want 0", len(artifacts))
	}
}
