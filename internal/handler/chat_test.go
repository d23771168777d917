package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/agent"
	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/pkg/logger"
)

type fakeAgent struct {
	resp *model.ChatResponse
	err  error
}

func (f *fakeAgent) RunTurn(ctx context.Context, message, threadID string) (*model.ChatResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func postChat(t *testing.T, h *ChatHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChatSuccess(t *testing.T) {
	h := NewChatHandler(&fakeAgent{resp: &model.ChatResponse{
		Answer:   "No records found matching your criteria.",
		ThreadID: "t1",
	}}, testLogger())

	rec := postChat(t, h, model.ChatRequest{Message: "list tickets"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "t1", got.ThreadID)
	assert.Contains(t, got.Answer, "No records found")
}

func TestChatEmptyMessage(t *testing.T) {
	h := NewChatHandler(&fakeAgent{}, testLogger())

	rec := postChat(t, h, model.ChatRequest{Message: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Error)
}

func TestChatInvalidThreadID(t *testing.T) {
	h := NewChatHandler(&fakeAgent{}, testLogger())

	rec := postChat(t, h, model.ChatRequest{Message: "hi", ThreadID: "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatInvalidBody(t *testing.T) {
	h := NewChatHandler(&fakeAgent{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatConfigurationError(t *testing.T) {
	h := NewChatHandler(&fakeAgent{err: agent.ErrNotConfigured}, testLogger())

	rec := postChat(t, h, model.ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatInternalError(t *testing.T) {
	h := NewChatHandler(&fakeAgent{err: assert.AnError}, testLogger())

	rec := postChat(t, h, model.ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
