// Package replay implements the one-shot guarantee for signed plugin
// requests: every request id is consumed atomically in Redis so a
// replayed envelope is rejected on any node.
package replay

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

const keyPrefix = "pluginRequest:"

// Guard consumes request ids. A request id can be consumed exactly once
// within the retention window.
type Guard struct {
	redis  redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewGuard creates a Guard. ttl is how long consumed ids are retained;
// it must exceed the request freshness window so an id can never be
// replayed after its record expires.
func NewGuard(redisClient redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Guard {
	return &Guard{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Consume atomically claims the request id. Returns
// ErrDuplicatedSignedRequest when the id was already claimed.
func (g *Guard) Consume(ctx context.Context, requestID string) error {
	claimed, err := g.redis.SetNX(ctx, keyPrefix+requestID, 1, g.ttl).Result()
	if err != nil {
		return apperrors.ErrInternalError.WithError(err)
	}
	if !claimed {
		g.logger.Warn("duplicate signed request rejected", zap.String("requestId", requestID))
		return apperrors.ErrDuplicatedSignedRequest
	}
	return nil
}
