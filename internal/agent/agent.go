// Package agent runs one conversation turn as an explicit state
// machine: route the utterance to an intent, fetch and filter pages,
// loop while a deep scan comes up empty, then render the answer.
package agent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/middleware"
	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/internal/paging"
	"github.com/spogdesk/concierge/internal/state"
	"github.com/spogdesk/concierge/pkg/logger"
	"github.com/spogdesk/concierge/pkg/metrics"
)

// ErrNotConfigured indicates the agent is missing required collaborators
// (backend client or state store). This is the only error category a
// turn surfaces; model and backend failures degrade to empty results.
var ErrNotConfigured = errors.New("agent is not configured")

// Backend is the collaborator CRUD API contract the agent depends on.
type Backend interface {
	FetchPage(ctx context.Context, kind model.ResourceKind, limit, offset int, query string) (model.ResultSet, error)
	FetchByID(ctx context.Context, kind model.ResourceKind, id string) (model.Record, error)
}

// Router classifies conversation context into an intent. It must be
// total: implementations fall back to a default intent, never error.
type Router interface {
	Parse(ctx context.Context, history []model.ChatTurn, currentOffset int) model.Intent
}

// Config holds agent tuning parameters.
type Config struct {
	PageSize      int
	ScanBudget    int
	HistoryWindow int
}

// Agent orchestrates conversation turns.
type Agent struct {
	router    Router
	backend   Backend
	responder *Responder
	store     state.Store
	cfg       Config
	logger    *logger.Logger
}

// phase enumerates the per-turn state machine.
type phase int

const (
	phaseRoute phase = iota
	phaseFetch
	phaseRespond
	phaseDone
)

// turn is the mutable record threaded through one invocation. It is
// created fresh per turn and discarded after the answer is emitted.
type turn struct {
	threadID string
	intent   model.Intent
	page     model.PageParams
	attempts int
	results  model.ResultSet
	answer   string
	degraded bool
	log      *logger.Logger
}

// New creates an agent.
func New(router Router, backend Backend, responder *Responder, store state.Store, cfg Config, log *logger.Logger) (*Agent, error) {
	if router == nil || backend == nil || responder == nil || store == nil {
		return nil, ErrNotConfigured
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.ScanBudget <= 0 {
		cfg.ScanBudget = 5
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 4
	}
	return &Agent{
		router:    router,
		backend:   backend,
		responder: responder,
		store:     store,
		cfg:       cfg,
		logger:    log,
	}, nil
}

// RunTurn executes one conversation turn. threadID may be empty, in
// which case a new thread is created.
func (a *Agent) RunTurn(ctx context.Context, message, threadID string) (*model.ChatResponse, error) {
	start := time.Now()

	ctx, span := otel.Tracer("concierge/agent").Start(ctx, "agent.turn")
	defer span.End()

	if threadID == "" {
		threadID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("thread.id", threadID))

	log := a.logger.WithTurn(middleware.GetCorrelationID(ctx), threadID)

	st, err := a.store.Get(ctx, threadID)
	if err != nil {
		log.Warn("failed to load conversation state, starting fresh", zap.Error(err))
	}
	if st == nil {
		st = model.NewConversationState(threadID)
	}
	st.Append(model.RoleUser, message)

	t := &turn{
		threadID: threadID,
		page:     model.PageParams{Limit: a.cfg.PageSize},
		log:      log,
	}

	for ph := phaseRoute; ph != phaseDone; {
		switch ph {
		case phaseRoute:
			ph = a.route(ctx, t, st)
		case phaseFetch:
			ph = a.fetch(ctx, t)
		case phaseRespond:
			ph = a.respond(ctx, t)
		}
	}

	st.Append(model.RoleAssistant, t.answer)
	st.Offset = t.page.Offset
	if err := a.store.Put(ctx, st); err != nil {
		log.Warn("failed to persist conversation state", zap.Error(err))
	}

	span.SetAttributes(
		attribute.Int("turn.pages_scanned", t.attempts),
		attribute.Int("turn.results", len(t.results)),
	)
	outcome := "ok"
	if t.degraded {
		outcome = "degraded"
	}
	metrics.RecordTurn(outcome, time.Since(start).Seconds(), t.attempts)

	log.Info("turn completed",
		zap.String("resource", string(t.intent.Resource)),
		zap.String("mode", string(t.intent.Mode)),
		zap.Int("pages_scanned", t.attempts),
		zap.Int("results", len(t.results)),
	)

	return &model.ChatResponse{Answer: t.answer, ThreadID: threadID}, nil
}

// route classifies the utterance and resolves the page offset. Offset
// arithmetic happens here, downstream of the model's classification.
func (a *Agent) route(ctx context.Context, t *turn, st *model.ConversationState) phase {
	t.intent = a.router.Parse(ctx, st.LastN(a.cfg.HistoryWindow), st.Offset)

	// An entity lookup is a single fetch; it must never enter the
	// scan loop regardless of what the router proposed.
	if t.intent.EntityID != "" {
		t.intent.Mode = model.ModeSinglePage
	}

	offset := paging.Resolve(st.Offset, t.intent.Navigation, a.cfg.PageSize)
	if t.intent.Mode == model.ModeDeepScan {
		// Unanchored "show all" queries scan from the first page.
		offset = 0
	}
	t.page = model.PageParams{Limit: a.cfg.PageSize, Offset: offset}
	return phaseFetch
}

// fetch runs one fetch+filter cycle and either loops onto the next page
// or proceeds to the responder.
func (a *Agent) fetch(ctx context.Context, t *turn) phase {
	t.results = a.fetchFilter(ctx, t)
	t.attempts++

	if decide(t.results, t.intent.Mode, t.attempts, a.cfg.ScanBudget) == decisionRespond {
		return phaseRespond
	}

	t.log.Debug("deep scan advancing",
		zap.Int("next_offset", t.page.Offset+t.page.Limit),
		zap.Int("attempts", t.attempts),
	)
	t.page.Offset += t.page.Limit
	return phaseFetch
}

func (a *Agent) respond(ctx context.Context, t *turn) phase {
	t.answer = a.responder.Respond(ctx, t.results, t.attempts)
	return phaseDone
}
