package clinicians

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

const defaultNameTTL = 15 * time.Minute

type nameLookup interface {
	FullName(ctx context.Context, id uuid.UUID) (string, error)
}

// NameCache is a Redis read-through cache for clinician display names.
// Profiles change rarely but are read on every assistant request, so a short
// TTL keeps the hot path off Postgres.
type NameCache struct {
	repo   nameLookup
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewNameCache wires a read-through cache around the profile repository.
func NewNameCache(repo nameLookup, client *redis.Client, ttl time.Duration, logger *logging.Logger) *NameCache {
	if repo == nil {
		panic("clinicians: profile repository required")
	}
	if ttl <= 0 {
		ttl = defaultNameTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NameCache{repo: repo, redis: client, ttl: ttl, logger: logger}
}

// FullName returns the clinician's display name, from cache when possible.
// Cache failures degrade to a direct repository read.
func (c *NameCache) FullName(ctx context.Context, id uuid.UUID) (string, error) {
	if c.redis != nil {
		cached, err := c.redis.Get(ctx, nameKey(id)).Result()
		if err == nil && cached != "" {
			return cached, nil
		}
		if err != nil && err != redis.Nil {
			c.logger.Warn("profile name cache read failed", "error", err, "doctor_id", id)
		}
	}

	name, err := c.repo.FullName(ctx, id)
	if err != nil {
		return "", err
	}

	if c.redis != nil {
		if err := c.redis.Set(ctx, nameKey(id), name, c.ttl).Err(); err != nil {
			c.logger.Warn("profile name cache write failed", "error", err, "doctor_id", id)
		}
	}
	return name, nil
}

func nameKey(id uuid.UUID) string {
	return fmt.Sprintf("profile_name:%s", id)
}
