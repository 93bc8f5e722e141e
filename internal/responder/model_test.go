package responder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

type staticPolicy struct {
	text string
	err  error
}

func (p staticPolicy) Policy() (string, error) { return p.text, p.err }

// fakeOllama serves /api/chat the way a non-streaming Ollama server does.
func fakeOllama(t *testing.T, reply string, status int) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var last atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var req api.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		last.Store(req)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "model not found"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":      req.Model,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
			"message":    map[string]string{"role": "assistant", "content": reply},
			"done":       true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func newModel(t *testing.T, url string, policy PolicySource) *ModelResponder {
	t.Helper()
	client, err := NewOllamaClient(url)
	require.NoError(t, err)
	return NewModelResponder(client, policy, "llama3", 0)
}

func TestModelResponderAnswers(t *testing.T) {
	srv, last := fakeOllama(t, "You get 20 days of paid leave.", http.StatusOK)
	model := newModel(t, srv.URL, staticPolicy{text: "Leave: 20 days per year."})

	answer, err := model.Answer(context.Background(), "How much leave?")
	require.NoError(t, err)
	assert.Equal(t, "You get 20 days of paid leave.", answer.Response)
	assert.Equal(t, domain.TicketStatusClosed, answer.Status)

	req, ok := last.Load().(api.ChatRequest)
	require.True(t, ok)
	assert.Equal(t, "llama3", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Leave: 20 days per year.")
	assert.Contains(t, req.Messages[0].Content, "User Question: How much leave?")
	require.NotNil(t, req.Stream)
	assert.False(t, *req.Stream)
}

func TestModelResponderFailures(t *testing.T) {
	t.Run("policy missing", func(t *testing.T) {
		srv, last := fakeOllama(t, "unused", http.StatusOK)
		model := newModel(t, srv.URL, staticPolicy{err: ErrPolicyUnavailable})
		_, err := model.Answer(context.Background(), "q")
		assert.ErrorIs(t, err, ErrPolicyUnavailable)
		assert.Nil(t, last.Load(), "model must not be called without policy")
	})

	t.Run("server error", func(t *testing.T) {
		srv, _ := fakeOllama(t, "", http.StatusNotFound)
		model := newModel(t, srv.URL, staticPolicy{text: "policy"})
		_, err := model.Answer(context.Background(), "q")
		assert.Error(t, err)
	})

	t.Run("empty reply", func(t *testing.T) {
		srv, _ := fakeOllama(t, "   ", http.StatusOK)
		model := newModel(t, srv.URL, staticPolicy{text: "policy"})
		_, err := model.Answer(context.Background(), "q")
		assert.ErrorIs(t, err, ErrEmptyReply)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv, _ := fakeOllama(t, "unused", http.StatusOK)
		url := srv.URL
		srv.Close()
		model := newModel(t, url, staticPolicy{text: "policy"})
		_, err := model.Answer(context.Background(), "q")
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer slow.Close()
		client, err := NewOllamaClient(slow.URL)
		require.NoError(t, err)
		model := NewModelResponder(client, staticPolicy{text: "policy"}, "llama3", 50*time.Millisecond)
		_, err = model.Answer(context.Background(), "q")
		assert.Error(t, err)
	})
}

func TestNewOllamaClientRejectsRelativeHost(t *testing.T) {
	_, err := NewOllamaClient("localhost")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("  policy body \n", " question? ")
	assert.True(t, strings.HasSuffix(prompt, "User Question: question?"))
	assert.Contains(t, prompt, "--- HR POLICY ---\npolicy body\n--- END HR POLICY ---")
}

type failingPrimary struct{ err error }

func (f failingPrimary) Answer(context.Context, string) (Answer, error) { return Answer{}, f.err }

type fixedPrimary struct{ answer Answer }

func (f fixedPrimary) Answer(context.Context, string) (Answer, error) { return f.answer, nil }

func TestChain(t *testing.T) {
	ctx := context.Background()

	res := NewChain(fixedPrimary{Answer{Response: "model says hi", Status: domain.TicketStatusClosed}}, zap.NewNop()).
		Respond(ctx, "urgent")
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, "model says hi", res.Response)
	assert.NoError(t, res.FallbackReason)

	boom := errors.New("connection refused")
	res = NewChain(failingPrimary{boom}, zap.NewNop()).Respond(ctx, "this is URGENT")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, domain.TicketStatusEscalated, res.Status)
	assert.ErrorIs(t, res.FallbackReason, boom)

	res = NewChain(nil, nil).Respond(ctx, "reset password")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, domain.TicketStatusClosed, res.Status)
	assert.NoError(t, res.FallbackReason)
}

func TestChainFallsBackWhenPolicyMissing(t *testing.T) {
	srv, _ := fakeOllama(t, "should not be used", http.StatusOK)
	store := NewPolicyStore(filepath.Join(t.TempDir(), "HR_Policy.txt"), zap.NewNop())
	chain := NewChain(newModel(t, srv.URL, store), zap.NewNop())

	res := chain.Respond(context.Background(), "how much leave do I have")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, domain.TicketStatusClosed, res.Status)
	assert.ErrorIs(t, res.FallbackReason, ErrPolicyUnavailable)
}

func TestChainUsesModelWithPolicyFile(t *testing.T) {
	srv, _ := fakeOllama(t, "Per policy, escalations go to HR.", http.StatusOK)
	path := filepath.Join(t.TempDir(), "HR_Policy.txt")
	require.NoError(t, os.WriteFile(path, []byte("Escalations go to HR."), 0o644))
	chain := NewChain(newModel(t, srv.URL, NewPolicyStore(path, zap.NewNop())), zap.NewNop())

	res := chain.Respond(context.Background(), "urgent: who handles escalations?")
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, domain.TicketStatusClosed, res.Status)
	assert.Equal(t, "Per policy, escalations go to HR.", res.Response)
}
