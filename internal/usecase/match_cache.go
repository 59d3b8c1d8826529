package usecase

import (
	"context"
	"strconv"
	"time"

	"capability-sync/internal/domain/capability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	matchKeyPattern = "match:*"
	// matchGenerationKey sits outside matchKeyPattern so invalidation never
	// resets it.
	matchGenerationKey = "match-generation"
)

func PersonMatchCacheKey(gen int64, personID uuid.UUID) string {
	return "match:person:" + strconv.FormatInt(gen, 10) + ":" + personID.String()
}

func RoleMatchCacheKey(gen int64, roleID uuid.UUID) string {
	return "match:role:" + strconv.FormatInt(gen, 10) + ":" + roleID.String()
}

// MatchCache stores match results between consensus changes. Keys carry the
// generation read before the result was computed, so a result filled after
// an invalidation is never served.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Notifier is told about every capability whose consensus was recomputed.
type Notifier interface {
	CapabilityValidated(c capability.Capability)
}

// invalidateMatches drops all cached results. A single validation can move a
// person across many roles, so both directions go.
func invalidateMatches(ctx context.Context, cache MatchCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if _, err := cache.Incr(ctx, matchGenerationKey); err != nil {
		logger.Warn("match cache generation bump failed", zap.Error(err))
	}
	if err := cache.DeleteByPattern(ctx, matchKeyPattern); err != nil {
		logger.Warn("match cache invalidation failed", zap.Error(err))
	}
}
