package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/backend"
	"github.com/spogdesk/concierge/internal/llm"
	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/pkg/logger"
	"github.com/spogdesk/concierge/pkg/metrics"
)

// Responder renders a result set into natural language. The model is
// used only for presentation: it receives the final data and may not
// change it, and a deterministic template takes over whenever the model
// is unavailable.
type Responder struct {
	client  llm.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// NewResponder creates a responder. client may be nil, in which case
// every answer uses the deterministic template.
func NewResponder(client llm.Client, modelName string, timeout time.Duration, log *logger.Logger) *Responder {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Responder{
		client:  client,
		model:   modelName,
		timeout: timeout,
		logger:  log,
	}
}

// Respond renders the final answer for a turn. pagesScanned is the
// number of fetches the turn performed.
func (r *Responder) Respond(ctx context.Context, results model.ResultSet, pagesScanned int) string {
	scanNote := ""
	if pagesScanned > 1 {
		scanNote = fmt.Sprintf("(Scanned %d pages to find these results.)\n\n", pagesScanned)
	}

	if len(results) == 0 {
		return scanNote + "No records found matching your criteria."
	}

	if r.client == nil {
		return scanNote + renderTemplate(results)
	}

	data, err := json.Marshal(results)
	if err != nil {
		return scanNote + renderTemplate(results)
	}

	prompt := fmt.Sprintf(
		"Data: %s\n\n"+
			"SYSTEM INSTRUCTIONS:\n"+
			"1. You are a text formatter. Do NOT invent, drop, or alter any values.\n"+
			"2. Output a clean Markdown list, one line per record.\n"+
			"3. Format exactly like this example:\n"+
			"   - **TASK-123** Summary text (Status: Open, Assigned: Name)\n"+
			"4. Start your response with this note: %s",
		data, scanNote,
	)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	resp, err := r.client.Complete(callCtx, &llm.CompletionRequest{
		Model:       r.model,
		Messages:    []llm.ChatMessage{{Role: string(model.RoleUser), Content: prompt}},
		Temperature: 0,
	})
	if err != nil {
		metrics.RecordLLMCall(r.model, "error", time.Since(start).Seconds(), 0, 0)
		r.logger.Warn("rephrase call failed, using template", zap.Error(err))
		return scanNote + renderTemplate(results)
	}
	metrics.RecordLLMCall(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	if strings.TrimSpace(resp.Content) == "" {
		return scanNote + renderTemplate(results)
	}
	return resp.Content
}

// renderTemplate is the deterministic fallback: one line per record
// from a canonical field subset.
func renderTemplate(results model.ResultSet) string {
	var b strings.Builder
	for _, rec := range results {
		id := firstString(rec, "issue_id", "_id", "id")
		title := firstString(rec, "summary", "title", "name", "username")
		status := joinCandidates(rec["status"])
		assignee := joinCandidates(rec["assignee"])

		b.WriteString("- **")
		b.WriteString(orDash(id))
		b.WriteString("** ")
		b.WriteString(orDash(title))
		b.WriteString(" (Status: ")
		b.WriteString(orDash(status))
		b.WriteString(", Assigned: ")
		b.WriteString(orDash(assignee))
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstString(rec model.Record, keys ...string) string {
	for _, key := range keys {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func joinCandidates(v any) string {
	return strings.Join(backend.ExtractCandidates(v), ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
