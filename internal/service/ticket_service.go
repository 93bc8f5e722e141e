package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-helpdesk/internal/config"
	"github.com/spec-kit/hr-helpdesk/internal/domain"
	"github.com/spec-kit/hr-helpdesk/internal/events"
	"github.com/spec-kit/hr-helpdesk/internal/observability"
	"github.com/spec-kit/hr-helpdesk/internal/repository"
	"github.com/spec-kit/hr-helpdesk/internal/responder"
	apperrors "github.com/spec-kit/hr-helpdesk/pkg/util/errorutil"
)

// Viewer scopes ticket reads. A nil *Viewer sees everything; employees only see their own tickets.
type Viewer struct {
	Username string
	Role     domain.Role
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets      repository.TicketRepository
	users        repository.UserRepository
	responder    responder.Responder
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Responder  responder.Responder
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(cfg config.TicketsConfig, deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &TicketService{
		tickets:      deps.TicketRepo,
		users:        deps.UserRepo,
		responder:    deps.Responder,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Submit stores a new ticket for ownerUsername, answers it and returns the answered ticket.
// Nothing is written when the owner does not exist. Every call creates a new ticket.
func (s *TicketService) Submit(ctx context.Context, ownerUsername, query string) (*domain.Ticket, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query required", nil)
	}

	owner, err := s.users.GetByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("owner account", map[string]any{"username": ownerUsername})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		OwnerID: owner.ID,
		Query:   query,
		Status:  domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	actor := events.Actor{Username: owner.Username, Role: owner.Role}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketSubmittedPayload{OwnerID: owner.ID, Query: query},
	})

	result := s.responder.Respond(ctx, query)

	response := result.Response
	ticket.Response = &response
	ticket.Status = result.Status
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordAnswer(string(result.Source), string(result.Status))
	s.logger.Info("ticket answered",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("owner", owner.Username),
		zap.String("status", string(ticket.Status)),
		zap.String("source", string(result.Source)))

	payload := events.TicketAnsweredPayload{
		Status:         result.Status,
		Source:         string(result.Source),
		ResponseLength: len(response),
	}
	if result.FallbackReason != nil {
		payload.FallbackReason = result.FallbackReason.Error()
	}
	s.publishEvent(ctx, events.Event{Type: events.EventTicketAnswered, TicketID: ticket.ID, Actor: actor, Payload: payload})
	if ticket.Status == domain.TicketStatusEscalated {
		s.publishEvent(ctx, events.Event{Type: events.EventTicketEscalated, TicketID: ticket.ID, Actor: actor, Payload: payload})
	}

	return ticket, nil
}

// List returns tickets ordered by id. A zero limit means the default; larger limits are capped.
func (s *TicketService) List(ctx context.Context, skip, limit int, viewer *Viewer) ([]domain.Ticket, error) {
	if skip < 0 || limit < 0 {
		return nil, apperrors.NewValidationError("skip and limit must not be negative",
			map[string]any{"skip": skip, "limit": limit})
	}
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	filter := repository.TicketFilter{Limit: limit, Offset: skip}
	if restricted(viewer) {
		owner, err := s.viewerAccount(ctx, viewer)
		if err != nil {
			return nil, err
		}
		filter.OwnerID = &owner.ID
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Get returns one ticket. Tickets outside the viewer's scope are reported as not found.
func (s *TicketService) Get(ctx context.Context, id int64, viewer *Viewer) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if restricted(viewer) {
		owner, err := s.viewerAccount(ctx, viewer)
		if err != nil {
			return nil, err
		}
		if ticket.OwnerID != owner.ID {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
	}
	return ticket, nil
}

func restricted(viewer *Viewer) bool {
	return viewer != nil && viewer.Role != domain.RoleAdmin
}

func (s *TicketService) viewerAccount(ctx context.Context, viewer *Viewer) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, viewer.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("account no longer exists")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Int64("ticket_id", event.TicketID), zap.Error(err))
	}
}
