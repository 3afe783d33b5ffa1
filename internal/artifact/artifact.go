// Package artifact extracts code artifacts from model output so they
// can be returned as deployable files.
package artifact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ShayCichocki/deepthink/pkg/models"
)

// fenceRe matches a fenced code block with an optional language tag.
var fenceRe = regexp.MustCompile("(?s)```([a-zA-Z0-9+-]*)[ \t]*\n(.*?)```")

// Extract scans the given outputs in order and collects fenced code
// blocks as artifacts. When two blocks resolve to the same filename
// the longer content wins, on the assumption that later, fuller
// revisions supersede fragments. Extraction is deterministic: the
// same inputs always yield the same artifacts in the same order.
func Extract(outputs []string) []*models.CodeArtifact {
	byName := make(map[string]*models.CodeArtifact)
	var order []string

	for _, out := range outputs {
		for _, match := range fenceRe.FindAllStringSubmatch(out, -1) {
			lang := strings.ToLower(strings.TrimSpace(match[1]))
			content := strings.TrimSpace(match[2])
			if content == "" {
				continue
			}

			name, lang := inferFilename(lang, content)
			existing, seen := byName[name]
			if !seen {
				order = append(order, name)
			}
			if !seen || len(content) > len(existing.Content) {
				byName[name] = &models.CodeArtifact{
					Filename: name,
					Content:  content,
					Language: lang,
				}
			}
		}
	}

	artifacts := make([]*models.CodeArtifact, 0, len(order))
	for _, name := range order {
		artifacts = append(artifacts, byName[name])
	}
	return artifacts
}

// inferFilename maps a language tag and block content to a canonical
// filename. Untagged blocks are sniffed: an HTML document marker wins
// over everything, then a CSS-shaped block, otherwise the block is
// kept under a generic name.
func inferFilename(lang, content string) (string, string) {
	switch lang {
	case "html", "htm":
		return "index.html", "html"
	case "css":
		return "styles.css", "css"
	case "javascript", "js":
		return "script.js", "javascript"
	case "typescript", "ts":
		return "script.ts", "typescript"
	case "json":
		return "data.json", "json"
	case "python", "py":
		return "main.py", "python"
	case "go", "golang":
		return "main.go", "go"
	case "bash", "sh", "shell":
		return "run.sh", "bash"
	}

	if looksLikeHTML(content) {
		return "index.html", "html"
	}
	if looksLikeCSS(content) {
		return "styles.css", "css"
	}
	if lang == "" {
		return "code.txt", "text"
	}
	return fmt.Sprintf("code.%s", lang), lang
}

func looksLikeHTML(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "<!doctype html") || strings.Contains(lower, "<html")
}

// looksLikeCSS treats brace and colon heavy content without script
// keywords as a stylesheet.
func looksLikeCSS(content string) bool {
	if strings.Contains(content, "function") || strings.Contains(content, "=>") {
		return false
	}
	braces := strings.Count(content, "{")
	if braces == 0 || braces != strings.Count(content, "}") {
		return false
	}
	return strings.Count(content, ":") >= braces
}
