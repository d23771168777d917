// Package intent classifies user utterances into typed intents using an
// LLM as an untrusted classifier. The model only picks categories and
// labels; everything numeric or invariant-bearing is validated or
// recomputed here and in the paging resolver.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/llm"
	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/pkg/logger"
	"github.com/spogdesk/concierge/pkg/metrics"
)

const systemPromptFmt = `You are a request router for a records API. Return JSON ONLY.
CURRENT STATE: offset is %d.
INSTRUCTIONS:
1. IF the user says 'Page X' -> set "target_page": X (integer). DO NOT CALCULATE OFFSETS.
2. IF the user says 'Next' -> set "target_page": null, "action": "next".
3. IF the user says 'Previous' or 'Back' -> set "target_page": null, "action": "prev".

SEARCH MODES:
- IF "target_page" or "action" is set -> "search_mode": "single_page".
- IF the user says 'Show ALL ... for X' AND NO PAGE IS SPECIFIED -> "search_mode": "deep_scan".

RESOURCES:
- Requests about users -> "resource": "user". Items -> "item". Tickets or incidents -> "ticket".
- IF the user names a specific record id -> set "entity_id".

FILTERING:
- 'Assigned to X' -> "assignee": "X", "search_query": "".
- 'Status X' -> "status": "X", "search_query": "".
- 'Reset' -> "assignee": null, "status": null.

Output format: {"resource": "ticket", "entity_id": null, "search_query": "", "assignee": null, "status": null, "target_page": null, "action": null, "search_mode": "single_page"}`

// wireIntent is the schema the router model is asked to produce.
type wireIntent struct {
	Resource    string `json:"resource"`
	EntityID    string `json:"entity_id"`
	SearchQuery string `json:"search_query"`
	Assignee    string `json:"assignee"`
	Status      string `json:"status"`
	TargetPage  *int   `json:"target_page"`
	Action      string `json:"action"`
	SearchMode  string `json:"search_mode"`
}

// Parser turns conversation context into a validated intent.
type Parser struct {
	client  llm.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// NewParser creates an intent parser. client may be nil, in which case
// every turn uses the default intent.
func NewParser(client llm.Client, modelName string, timeout time.Duration, log *logger.Logger) *Parser {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Parser{
		client:  client,
		model:   modelName,
		timeout: timeout,
		logger:  log,
	}
}

// Parse classifies the latest utterance given recent history and the
// current offset. It never returns an error: malformed or missing model
// output falls back to the safe default intent.
func (p *Parser) Parse(ctx context.Context, history []model.ChatTurn, currentOffset int) model.Intent {
	raw := p.route(ctx, history, currentOffset)

	obj := extractObject(raw)
	if obj == "" {
		return p.fallback("no JSON object in router reply")
	}

	var wire wireIntent
	if err := json.Unmarshal([]byte(obj), &wire); err != nil {
		return p.fallback("router reply is not valid JSON")
	}

	return p.validate(wire)
}

func (p *Parser) route(ctx context.Context, history []model.ChatTurn, currentOffset int) string {
	if p.client == nil {
		return ""
	}

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, llm.ChatMessage{
		Role:    string(model.RoleSystem),
		Content: fmt.Sprintf(systemPromptFmt, currentOffset),
	})
	for _, turn := range history {
		role := string(model.RoleUser)
		if turn.Role == model.RoleAssistant {
			role = string(model.RoleAssistant)
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: turn.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Complete(callCtx, &llm.CompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0,
	})
	if err != nil {
		metrics.RecordLLMCall(p.model, "error", time.Since(start).Seconds(), 0, 0)
		p.logger.Warn("router call failed", zap.Error(err))
		return ""
	}
	metrics.RecordLLMCall(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	return resp.Content
}

// validate converts the wire form into a typed intent, enforcing the
// invariants the model cannot be trusted with.
func (p *Parser) validate(wire wireIntent) model.Intent {
	out := model.DefaultIntent()

	if kind, ok := model.ParseResource(wire.Resource); ok {
		out.Resource = kind
	}
	out.EntityID = wire.EntityID
	out.Assignee = wire.Assignee
	out.Status = wire.Status
	out.Query = wire.SearchQuery

	// Filters and free-text search are mutually exclusive.
	if out.Assignee != "" || out.Status != "" {
		out.Query = ""
	}

	if wire.TargetPage != nil && *wire.TargetPage >= 1 {
		out.Navigation.TargetPage = *wire.TargetPage
	}
	switch wire.Action {
	case "next":
		out.Navigation.Action = model.NavNext
	case "prev", "previous":
		out.Navigation.Action = model.NavPrev
	}

	// Deep scan only applies to unanchored queries.
	if wire.SearchMode == string(model.ModeDeepScan) &&
		out.Navigation.TargetPage == 0 && out.Navigation.Action == model.NavNone {
		out.Mode = model.ModeDeepScan
	}

	// A concrete entity lookup is never a scan.
	if out.EntityID != "" {
		out.Mode = model.ModeSinglePage
	}

	return out
}

func (p *Parser) fallback(reason string) model.Intent {
	metrics.IntentFallbacksTotal.Inc()
	p.logger.Warn("falling back to default intent", zap.String("reason", reason))
	return model.DefaultIntent()
}
