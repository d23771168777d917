package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/llm"
	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/pkg/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

// fakeLLM returns a canned reply or error for every Complete call.
type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply, Model: "fake"}, nil
}

func (f *fakeLLM) Name() string     { return "fake" }
func (f *fakeLLM) Models() []string { return []string{"fake"} }

func TestRespondEmptyResults(t *testing.T) {
	r := NewResponder(nil, "fake", time.Second, testLogger())

	got := r.Respond(context.Background(), nil, 1)
	assert.Equal(t, "No records found matching your criteria.", got)
}

func TestRespondEmptyResultsWithScanNote(t *testing.T) {
	r := NewResponder(nil, "fake", time.Second, testLogger())

	got := r.Respond(context.Background(), nil, 5)
	assert.Contains(t, got, "Scanned 5 pages")
	assert.Contains(t, got, "No records found")
}

func TestRespondSinglePageHasNoScanNote(t *testing.T) {
	r := NewResponder(nil, "fake", time.Second, testLogger())

	got := r.Respond(context.Background(), nil, 1)
	assert.NotContains(t, got, "Scanned")
}

func TestRespondTemplateFallbackWithoutClient(t *testing.T) {
	r := NewResponder(nil, "fake", time.Second, testLogger())

	results := model.ResultSet{
		{
			"issue_id": "TASK-9",
			"summary":  "Printer on fire",
			"status":   map[string]any{"name": "Open"},
			"assignee": []any{map[string]any{"name": "John Smith"}},
		},
	}

	got := r.Respond(context.Background(), results, 1)
	assert.Equal(t, "- **TASK-9** Printer on fire (Status: Open, Assigned: John Smith)", got)
}

func TestRespondTemplateFallbackOnLLMError(t *testing.T) {
	client := &fakeLLM{err: errors.New("unavailable")}
	r := NewResponder(client, "fake", time.Second, testLogger())

	results := model.ResultSet{{"id": "u1", "username": "amit", "status": "active"}}

	got := r.Respond(context.Background(), results, 2)
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, got, "Scanned 2 pages")
	assert.Contains(t, got, "**u1** amit")
}

func TestRespondUsesModelReply(t *testing.T) {
	client := &fakeLLM{reply: "- **TASK-1** Something (Status: Open, Assigned: John)"}
	r := NewResponder(client, "fake", time.Second, testLogger())

	got := r.Respond(context.Background(), model.ResultSet{{"issue_id": "TASK-1"}}, 1)
	assert.Equal(t, client.reply, got)
}

func TestRenderTemplateMissingFields(t *testing.T) {
	got := renderTemplate(model.ResultSet{{"unrelated": 1.0}})
	assert.Equal(t, "- **-** - (Status: -, Assigned: -)", got)
}
