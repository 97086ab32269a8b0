// Package registry holds answer-bearing quiz definitions between
// generation and submission. Entries live in Redis under a TTL, so a
// process restart or a differently-routed instance still sees in-flight
// quizzes.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"notemind-backend/internal/models"
)

var (
	// ErrNotFound means no registry entry exists for the quiz ID
	// (never created, consumed elsewhere, or expired).
	ErrNotFound = errors.New("quiz not found in session registry")
	// ErrForbidden means the entry exists but belongs to another owner.
	ErrForbidden = errors.New("quiz belongs to another user")
)

const keyPrefix = "quiz:session:"

type Registry struct {
	redis *redis.Client
	ttl   time.Duration
}

func New(redisClient *redis.Client, ttl time.Duration) *Registry {
	return &Registry{redis: redisClient, ttl: ttl}
}

// Put stores a full quiz definition under its quiz ID with the
// registry TTL.
func (r *Registry) Put(ctx context.Context, def *models.QuizDefinition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode quiz definition: %w", err)
	}

	if err := r.redis.Set(ctx, keyPrefix+def.QuizID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store quiz definition: %w", err)
	}
	return nil
}

// Get loads a definition and verifies ownership. Every registry read
// goes through this check; there is no unauthenticated lookup path.
func (r *Registry) Get(ctx context.Context, quizID string, ownerID uuid.UUID) (*models.QuizDefinition, error) {
	data, err := r.redis.Get(ctx, keyPrefix+quizID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read quiz definition: %w", err)
	}

	var def models.QuizDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode quiz definition: %w", err)
	}

	if def.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return &def, nil
}

// Delete removes an entry after verifying ownership.
func (r *Registry) Delete(ctx context.Context, quizID string, ownerID uuid.UUID) error {
	if _, err := r.Get(ctx, quizID, ownerID); err != nil {
		return err
	}
	if err := r.redis.Del(ctx, keyPrefix+quizID).Err(); err != nil {
		return fmt.Errorf("failed to delete quiz definition: %w", err)
	}
	return nil
}
