package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
	"github.com/spec-kit/hr-helpdesk/internal/persistence"
)

const ticketCachePrefix = "helpdesk:ticket:"

type cachedTicketRepository struct {
	TicketRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTicketRepository fronts GetByID with a Redis read-through cache. Only answered
// tickets are cached because they no longer change. A nil cache returns inner unchanged.
// Cache failures are logged and never fail the call.
func NewCachedTicketRepository(inner TicketRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) TicketRepository {
	if cache == nil || cache.Client == nil {
		return inner
	}
	return &cachedTicketRepository{TicketRepository: inner, client: cache.Client, ttl: ttl, logger: logger}
}

func (r *cachedTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if err := r.TicketRepository.Update(ctx, ticket); err != nil {
		return err
	}
	if err := r.client.Del(ctx, ticketCacheKey(ticket.ID)).Err(); err != nil {
		r.logger.Warn("ticket cache invalidate failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
	}
	return nil
}

func (r *cachedTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	key := ticketCacheKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ticket domain.Ticket
		if jsonErr := json.Unmarshal(raw, &ticket); jsonErr == nil {
			return &ticket, nil
		}
		r.logger.Warn("discarding corrupt ticket cache entry", zap.Int64("ticket_id", id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("ticket cache read failed", zap.Int64("ticket_id", id), zap.Error(err))
	}

	ticket, err := r.TicketRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Response == nil {
		return ticket, nil
	}

	payload, err := json.Marshal(ticket)
	if err != nil {
		return ticket, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("ticket cache write failed", zap.Int64("ticket_id", id), zap.Error(err))
	}
	return ticket, nil
}

func ticketCacheKey(id int64) string {
	return ticketCachePrefix + strconv.FormatInt(id, 10)
}
