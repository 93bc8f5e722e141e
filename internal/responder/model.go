package responder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = errors.New("model returned an empty reply")

const promptTemplate = `You are an HR assistant for the company helpdesk. Answer the employee's question using
only the policy context below. If the context does not cover the question, say so plainly.

--- HR POLICY ---
%s
--- END HR POLICY ---

User Question: %s`

// ChatClient is the part of the Ollama client the model responder uses.
type ChatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// PolicySource supplies the policy text used to ground the model.
type PolicySource interface {
	Policy() (string, error)
}

// ModelResponder answers with a locally hosted language model.
type ModelResponder struct {
	client  ChatClient
	policy  PolicySource
	model   string
	timeout time.Duration
}

// NewOllamaClient builds an Ollama API client for host, e.g. http://127.0.0.1:11434.
func NewOllamaClient(host string) (*api.Client, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse ollama host: %q is not an absolute url", host)
	}
	return api.NewClient(base, http.DefaultClient), nil
}

// NewModelResponder builds a ModelResponder. A zero timeout waits as long as the model takes.
func NewModelResponder(client ChatClient, policy PolicySource, model string, timeout time.Duration) *ModelResponder {
	return &ModelResponder{client: client, policy: policy, model: model, timeout: timeout}
}

// Answer implements Primary. Model answers always close the ticket.
func (m *ModelResponder) Answer(ctx context.Context, query string) (Answer, error) {
	policy, err := m.policy.Policy()
	if err != nil {
		return Answer{}, err
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	stream := false
	req := &api.ChatRequest{
		Model: m.model,
		Messages: []api.Message{
			{Role: "user", Content: BuildPrompt(policy, query)},
		},
		Stream: &stream,
	}

	var reply strings.Builder
	err = m.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return Answer{}, fmt.Errorf("ollama chat: %w", err)
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		return Answer{}, ErrEmptyReply
	}
	return Answer{Response: text, Status: domain.TicketStatusClosed}, nil
}

// BuildPrompt embeds the policy document and the question into a single prompt.
func BuildPrompt(policy, query string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(policy), strings.TrimSpace(query))
}
