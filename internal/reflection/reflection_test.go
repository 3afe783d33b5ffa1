package reflection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/deepthink/internal/provider"
	"github.com/ShayCichocki/deepthink/pkg/models"
)

type countingAdapter struct {
	calls    int
	response string
	err      error
}

func (c *countingAdapter) Name() string { return "critic" }

func (c *countingAdapter) Generate(ctx context.Context, req provider.Request) (string, error) {
	c.calls++
	return c.response, c.err
}

func allSuccess() []*models.SubtaskResult {
	return []*models.SubtaskResult{
		{ID: 1, Title: "A", Status: models.SubtaskStatusSuccess},
		{ID: 2, Title: "B", Status: models.SubtaskStatusSuccess},
	}
}

func withFailure() []*models.SubtaskResult {
	return []*models.SubtaskResult{
		{ID: 1, Title: "A", Status: models.SubtaskStatusSuccess},
		{ID: 2, Title: "B", Status: models.SubtaskStatusFailed},
	}
}

func TestReflectAllSuccessSkipsProviderCall(t *testing.T) {
	critic := &countingAdapter{response: "should not be used"}

	text, lessons := Reflect(context.Background(), critic, "some goal", allSuccess())

	if critic.calls != 0 {
		t.Errorf("critic called %d times on all-success run, want 0", critic.calls)
	}
	if !strings.Contains(text, "2/2") {
		t.Errorf("reflection text = %q, want completion counts", text)
	}
	if len(lessons) != 2 {
		t.Errorf("got %d lessons, want 2", len(lessons))
	}
}

func TestReflectFailureCallsCriticOnce(t *testing.T) {
	critic := &countingAdapter{response: "One step timed out under load."}

	text, lessons := Reflect(context.Background(), critic, "some goal", withFailure())

	if critic.calls != 1 {
		t.Errorf("critic called %d times, want 1", critic.calls)
	}
	if text != "One step timed out under load." {
		t.Errorf("reflection text = %q", text)
	}
	if len(lessons) != 2 {
		t.Errorf("got %d lessons, want 2", len(lessons))
	}
}

func TestReflectTruncatesCritique(t *testing.T) {
	critic := &countingAdapter{response: strings.Repeat("x", 500)}

	text, _ := Reflect(context.Background(), critic, "goal", withFailure())

	if len(text) != 200 {
		t.Errorf("critique length = %d, want 200", len(text))
	}
}

func TestReflectFallsBackWhenCriticFails(t *testing.T) {
	critic := &countingAdapter{err: errors.New("provider down")}

	text, _ := Reflect(context.Background(), critic, "the goal", withFailure())

	if !strings.Contains(text, "1 of 2 subtasks failed") {
		t.Errorf("fallback text = %q", text)
	}
}

func TestReflectNilCritic(t *testing.T) {
	text, lessons := Reflect(context.Background(), nil, "the goal", withFailure())
	if text == "" || len(lessons) != 2 {
		t.Errorf("nil critic: text=%q lessons=%d", text, len(lessons))
	}
}
