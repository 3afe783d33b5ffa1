package engine

import (
	"strings"

	"github.com/ShayCichocki/deepthink/pkg/models"
)

// classifyProject determines the deliverable type from the extracted
// artifacts, with the goal text as a tiebreaker. Runs with no
// artifacts are documents and never need deployment.
func classifyProject(goal string, artifacts []*models.CodeArtifact) (models.ProjectType, bool) {
	if len(artifacts) == 0 {
		return models.ProjectTypeDocument, false
	}

	var hasHTML, hasJS bool
	for _, a := range artifacts {
		switch a.Language {
		case "html":
			hasHTML = true
		case "javascript", "typescript":
			hasJS = true
		}
	}

	lower := strings.ToLower(goal)
	switch {
	case hasHTML && (hasJS || strings.Contains(lower, "app")):
		return models.ProjectTypeApp, true
	case hasHTML:
		return models.ProjectTypeWebsite, true
	case hasJS || hasScript(artifacts):
		return models.ProjectTypeScript, false
	default:
		return models.ProjectTypeDocument, false
	}
}

func hasScript(artifacts []*models.CodeArtifact) bool {
	for _, a := range artifacts {
		switch a.Language {
		case "python", "go", "bash", "javascript", "typescript":
			return true
		}
	}
	return false
}
