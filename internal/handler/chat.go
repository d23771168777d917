// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/agent"
	"github.com/spogdesk/concierge/internal/middleware"
	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/pkg/logger"
)

// TurnRunner runs one conversation turn.
type TurnRunner interface {
	RunTurn(ctx context.Context, message, threadID string) (*model.ChatResponse, error)
}

// ChatHandler handles the conversational endpoint.
type ChatHandler struct {
	agent  TurnRunner
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(a TurnRunner, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		agent:  a,
		logger: log,
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateChatMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateThreadID(req.ThreadID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.agent.RunTurn(r.Context(), req.Message, req.ThreadID)
	if err != nil {
		// Configuration problems are the caller's to fix; everything
		// else already degraded inside the turn.
		if errors.Is(err, agent.ErrNotConfigured) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("turn failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "chat turn failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
