// Package responder answers employee queries, first with a language model grounded in
// the HR policy and otherwise with a keyword classifier.
package responder

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

// Source tells which path produced an answer.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Answer is the text and status a ticket ends up with.
type Answer struct {
	Response string
	Status   domain.TicketStatus
}

// Result is the outcome of Respond. FallbackReason holds the primary path's error when
// Source is SourceFallback and the model was attempted.
type Result struct {
	Answer
	Source         Source
	FallbackReason error
}

// Responder produces an answer for every query.
type Responder interface {
	Respond(ctx context.Context, query string) Result
}

// Primary is a responder that may fail.
type Primary interface {
	Answer(ctx context.Context, query string) (Answer, error)
}

// Chain tries the primary responder and falls back to Classify when it returns an error.
type Chain struct {
	primary Primary
	logger  *zap.Logger
}

// NewChain builds a Chain. A nil primary always uses the fallback.
func NewChain(primary Primary, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{primary: primary, logger: logger}
}

// Respond implements Responder.
func (c *Chain) Respond(ctx context.Context, query string) Result {
	if c.primary == nil {
		return Result{Answer: Classify(query), Source: SourceFallback}
	}

	answer, err := c.primary.Answer(ctx, query)
	if err != nil {
		c.logger.Warn("model responder failed; using fallback", zap.Error(err))
		return Result{Answer: Classify(query), Source: SourceFallback, FallbackReason: err}
	}
	return Result{Answer: answer, Source: SourceModel}
}
